package repositories

import (
	"context"
	"database/sql"
	"errors"
	"strconv"
	"strings"
	"time"

	"github.com/khelodev/khelo-server/models"
)

var ErrMatchNotFound = errors.New("match not found")

type MatchRepository interface {
	Create(ctx context.Context, exec SQLExecutor, m *models.Match) error
	GetByID(ctx context.Context, id int) (*models.Match, error)
	ListByTournament(ctx context.Context, exec SQLExecutor, tournamentID int, roundSeq *int, status *models.MatchStatus) ([]*models.Match, error)
	// UpdateResult writes the normalized scores, status and winner in one
	// statement; re-running it with the same values is a no-op write.
	UpdateResult(ctx context.Context, id int, p1, p2 models.ScoreData, status models.MatchStatus, winnerID *int) error
	// UpdateWinner overrides the winner without touching the stored scores.
	UpdateWinner(ctx context.Context, id int, winnerID int) error
	UpdateSchedule(ctx context.Context, id int, scheduledAt time.Time, venue string, status models.MatchStatus) error
}

type postgresMatchRepository struct {
	db *sql.DB
}

func NewPostgresMatchRepository(db *sql.DB) MatchRepository {
	return &postgresMatchRepository{db: db}
}

func (r *postgresMatchRepository) getExecutor(exec SQLExecutor) SQLExecutor {
	if exec != nil {
		return exec
	}
	return r.db
}

const matchColumns = `id, tournament_id, p1_ref, p2_ref, round, round_seq, order_in_round, status, p1_score, p2_score, winner_id, venue, scheduled_at, created_at`

func (r *postgresMatchRepository) Create(ctx context.Context, exec SQLExecutor, m *models.Match) error {
	executor := r.getExecutor(exec)
	query := `
		INSERT INTO matches
			(tournament_id, p1_ref, p2_ref, round, round_seq, order_in_round, status, venue, scheduled_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		RETURNING id, created_at`

	return executor.QueryRowContext(ctx, query,
		m.TournamentID, m.P1, m.P2, m.Round, m.RoundSeq,
		m.OrderInRound, m.Status, m.Venue, m.ScheduledAt,
	).Scan(&m.ID, &m.CreatedAt)
}

func (r *postgresMatchRepository) scanMatch(row interface{ Scan(...interface{}) error }) (*models.Match, error) {
	m := &models.Match{}
	err := row.Scan(
		&m.ID, &m.TournamentID, &m.P1, &m.P2, &m.Round, &m.RoundSeq,
		&m.OrderInRound, &m.Status, &m.P1Score, &m.P2Score,
		&m.WinnerID, &m.Venue, &m.ScheduledAt, &m.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrMatchNotFound
		}
		return nil, err
	}
	m.SyncWinnerFlags()
	return m, nil
}

func (r *postgresMatchRepository) GetByID(ctx context.Context, id int) (*models.Match, error) {
	query := `SELECT ` + matchColumns + ` FROM matches WHERE id = $1`
	return r.scanMatch(r.db.QueryRowContext(ctx, query, id))
}

func (r *postgresMatchRepository) ListByTournament(ctx context.Context, exec SQLExecutor, tournamentID int, roundSeq *int, status *models.MatchStatus) ([]*models.Match, error) {
	executor := r.getExecutor(exec)

	var queryBuilder strings.Builder
	queryBuilder.WriteString(`SELECT ` + matchColumns + ` FROM matches WHERE tournament_id = $1`)
	args := []interface{}{tournamentID}
	placeholder := 2

	if roundSeq != nil {
		queryBuilder.WriteString(" AND round_seq = $" + strconv.Itoa(placeholder))
		args = append(args, *roundSeq)
		placeholder++
	}
	if status != nil {
		queryBuilder.WriteString(" AND status = $" + strconv.Itoa(placeholder))
		args = append(args, *status)
	}
	queryBuilder.WriteString(" ORDER BY round_seq ASC, order_in_round ASC")

	rows, err := executor.QueryContext(ctx, queryBuilder.String(), args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	matches := make([]*models.Match, 0)
	for rows.Next() {
		m, err := r.scanMatch(rows)
		if err != nil {
			return nil, err
		}
		matches = append(matches, m)
	}
	return matches, rows.Err()
}

func (r *postgresMatchRepository) UpdateResult(ctx context.Context, id int, p1, p2 models.ScoreData, status models.MatchStatus, winnerID *int) error {
	query := `UPDATE matches SET p1_score = $1, p2_score = $2, status = $3, winner_id = $4 WHERE id = $5`
	result, err := r.db.ExecContext(ctx, query, p1, p2, status, winnerID, id)
	if err != nil {
		return err
	}
	return checkAffectedRows(result, ErrMatchNotFound)
}

func (r *postgresMatchRepository) UpdateWinner(ctx context.Context, id int, winnerID int) error {
	query := `UPDATE matches SET winner_id = $1 WHERE id = $2`
	result, err := r.db.ExecContext(ctx, query, winnerID, id)
	if err != nil {
		return err
	}
	return checkAffectedRows(result, ErrMatchNotFound)
}

func (r *postgresMatchRepository) UpdateSchedule(ctx context.Context, id int, scheduledAt time.Time, venue string, status models.MatchStatus) error {
	query := `UPDATE matches SET scheduled_at = $1, venue = $2, status = $3 WHERE id = $4`
	result, err := r.db.ExecContext(ctx, query, scheduledAt, venue, status, id)
	if err != nil {
		return err
	}
	return checkAffectedRows(result, ErrMatchNotFound)
}
