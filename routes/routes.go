package routes

import (
	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	httpSwagger "github.com/swaggo/http-swagger"

	"github.com/khelodev/khelo-server/handlers"
	"github.com/khelodev/khelo-server/middleware"
)

// SetupRoutes wires every handler into the router. Read endpoints are
// public; everything that mutates state requires an organizer or admin
// token, except roster management which player tokens may also use.
func SetupRoutes(
	router *chi.Mux,
	jwtSecret string,
	tournamentHandler *handlers.TournamentHandler,
	participantHandler *handlers.ParticipantHandler,
	matchHandler *handlers.MatchHandler,
	standingsHandler *handlers.StandingsHandler,
	teamHandler *handlers.TeamHandler,
) {
	router.Use(chiMiddleware.RequestID)
	router.Use(chiMiddleware.RealIP)
	router.Use(chiMiddleware.Recoverer)
	router.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{"*"},
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		AllowCredentials: false,
		MaxAge:           300,
	}))

	router.Get("/swagger/*", httpSwagger.Handler())

	organizerOnly := func(r chi.Router) {
		r.Use(middleware.Authenticate(jwtSecret))
		r.Use(middleware.Authorize(middleware.RoleOrganizer, middleware.RoleAdmin))
	}

	router.Route("/tournaments", func(r chi.Router) {
		r.Get("/", tournamentHandler.ListHandler)
		r.Get("/{tournamentID}", tournamentHandler.GetByIDHandler)
		r.Get("/{tournamentID}/matches", matchHandler.ListByTournamentHandler)
		r.Get("/{tournamentID}/standings", standingsHandler.GetHandler)

		r.Group(func(r chi.Router) {
			organizerOnly(r)

			r.Post("/", tournamentHandler.CreateHandler)
			r.Delete("/{tournamentID}", tournamentHandler.DeleteHandler)
			r.Post("/{tournamentID}/participants", participantHandler.RegisterHandler)
			r.Post("/{tournamentID}/schedule", tournamentHandler.GenerateScheduleHandler)
			r.Post("/{tournamentID}/advance", matchHandler.AdvanceRoundHandler)
			r.Post("/{tournamentID}/end", tournamentHandler.EndHandler)
			r.Put("/{tournamentID}/teams/{teamID}/ready", participantHandler.SetReadyHandler)
		})
	})

	router.Route("/matches", func(r chi.Router) {
		r.Get("/{matchID}", matchHandler.GetByIDHandler)

		r.Group(func(r chi.Router) {
			organizerOnly(r)

			r.Put("/{matchID}/score", matchHandler.SubmitScoreHandler)
			r.Put("/{matchID}/winner", matchHandler.ResolveTieHandler)
			r.Put("/{matchID}/schedule", matchHandler.RescheduleHandler)
		})
	})

	router.Route("/teams", func(r chi.Router) {
		r.Get("/{teamID}", teamHandler.GetByIDHandler)
		r.Get("/{teamID}/players", participantHandler.ListRosterHandler)

		r.Group(func(r chi.Router) {
			r.Use(middleware.Authenticate(jwtSecret))
			r.Use(middleware.Authorize(middleware.RoleOrganizer, middleware.RoleAdmin, middleware.RolePlayer))

			r.Post("/", teamHandler.CreateHandler)
			r.Delete("/{teamID}", teamHandler.DeleteHandler)
			r.Put("/{teamID}/logo", teamHandler.UploadLogoHandler)
			r.Post("/{teamID}/players", participantHandler.AddPlayerHandler)
			r.Delete("/{teamID}/players/{playerID}", participantHandler.RemovePlayerHandler)
		})
	})
}
