package handlers

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/khelodev/khelo-server/models"
	"github.com/khelodev/khelo-server/scoring"
	"github.com/khelodev/khelo-server/services"
)

type MatchHandler struct {
	matchService       services.MatchService
	advancementService services.AdvancementService
}

func NewMatchHandler(ms services.MatchService, as services.AdvancementService) *MatchHandler {
	return &MatchHandler{
		matchService:       ms,
		advancementService: as,
	}
}

// GetByIDHandler handles GET /matches/{matchID}
func (h *MatchHandler) GetByIDHandler(w http.ResponseWriter, r *http.Request) {
	id, err := getIDFromURL(r, "matchID")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	match, err := h.matchService.GetByID(r.Context(), id)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}
	if err := writeJSON(w, http.StatusOK, jsonResponse{"match": match}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

// ListByTournamentHandler handles GET /tournaments/{tournamentID}/matches
func (h *MatchHandler) ListByTournamentHandler(w http.ResponseWriter, r *http.Request) {
	tournamentID, err := getIDFromURL(r, "tournamentID")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	var roundSeq *int
	if raw := r.URL.Query().Get("round"); raw != "" {
		seq, err := strconv.Atoi(raw)
		if err != nil || seq <= 0 {
			badRequestResponse(w, r, errors.New("invalid round query parameter"))
			return
		}
		roundSeq = &seq
	}
	var status *models.MatchStatus
	if raw := r.URL.Query().Get("status"); raw != "" {
		parsed, err := models.ParseMatchStatus(raw)
		if err != nil {
			badRequestResponse(w, r, errors.New("invalid status query parameter"))
			return
		}
		status = &parsed
	}

	matches, err := h.matchService.ListByTournament(r.Context(), tournamentID, roundSeq, status)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}
	if err := writeJSON(w, http.StatusOK, jsonResponse{"matches": matches}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

// SubmitScoreHandler handles PUT /matches/{matchID}/score
func (h *MatchHandler) SubmitScoreHandler(w http.ResponseWriter, r *http.Request) {
	id, err := getIDFromURL(r, "matchID")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	var raw scoring.RawScore
	if err := readJSON(w, r, &raw); err != nil {
		badRequestResponse(w, r, err)
		return
	}

	match, err := h.matchService.SubmitScore(r.Context(), id, raw)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}
	if err := writeJSON(w, http.StatusOK, jsonResponse{"match": match}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

// ResolveTieHandler handles PUT /matches/{matchID}/winner
func (h *MatchHandler) ResolveTieHandler(w http.ResponseWriter, r *http.Request) {
	id, err := getIDFromURL(r, "matchID")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	var input struct {
		WinnerID int `json:"winner_id"`
	}
	if err := readJSON(w, r, &input); err != nil {
		badRequestResponse(w, r, err)
		return
	}

	match, err := h.matchService.ResolveTie(r.Context(), id, input.WinnerID)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}
	if err := writeJSON(w, http.StatusOK, jsonResponse{"match": match}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

// RescheduleHandler handles PUT /matches/{matchID}/schedule
func (h *MatchHandler) RescheduleHandler(w http.ResponseWriter, r *http.Request) {
	id, err := getIDFromURL(r, "matchID")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	var input struct {
		Venue       string    `json:"venue"`
		ScheduledAt time.Time `json:"scheduled_at"`
	}
	if err := readJSON(w, r, &input); err != nil {
		badRequestResponse(w, r, err)
		return
	}
	if input.ScheduledAt.IsZero() {
		badRequestResponse(w, r, errors.New("scheduled_at is required"))
		return
	}

	match, err := h.matchService.Reschedule(r.Context(), id, input.Venue, input.ScheduledAt)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}
	if err := writeJSON(w, http.StatusOK, jsonResponse{"match": match}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

// AdvanceRoundHandler handles POST /tournaments/{tournamentID}/advance
func (h *MatchHandler) AdvanceRoundHandler(w http.ResponseWriter, r *http.Request) {
	tournamentID, err := getIDFromURL(r, "tournamentID")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	outcome, err := h.advancementService.AdvanceRound(r.Context(), tournamentID)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	status := http.StatusCreated
	if outcome.Finished {
		status = http.StatusOK
	}
	if err := writeJSON(w, status, jsonResponse{"outcome": outcome}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}
