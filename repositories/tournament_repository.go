package repositories

import (
	"context"
	"database/sql"
	"errors"
	"strconv"
	"strings"

	"github.com/lib/pq"

	"github.com/khelodev/khelo-server/models"
)

var (
	ErrTournamentNotFound     = errors.New("tournament not found")
	ErrTournamentNameConflict = errors.New("tournament name already exists")
	// ErrTournamentStatusStale signals a failed conditional status update:
	// the row was not in the expected status when the update ran. This is the
	// at-most-one-writer guard for schedule generation.
	ErrTournamentStatusStale = errors.New("tournament status changed concurrently")
)

type ListTournamentsFilter struct {
	Sport  *models.Sport
	Format *models.TournamentFormat
	Status *models.TournamentStatus
	Limit  int
	Offset int
}

type TournamentRepository interface {
	Create(ctx context.Context, t *models.Tournament) error
	GetByID(ctx context.Context, exec SQLExecutor, id int) (*models.Tournament, error)
	List(ctx context.Context, filter ListTournamentsFilter) ([]*models.Tournament, error)
	UpdateRegistered(ctx context.Context, id int, refs models.ParticipantRefList) error
	// UpdateStatusIfCurrent performs a conditional check-and-set on status:
	// it succeeds only when the stored status still equals expected.
	UpdateStatusIfCurrent(ctx context.Context, exec SQLExecutor, id int, expected, next models.TournamentStatus) error
	SetWinner(ctx context.Context, exec SQLExecutor, id int, winner string) error
	Delete(ctx context.Context, id int) error
}

type postgresTournamentRepository struct {
	db *sql.DB
}

func NewPostgresTournamentRepository(db *sql.DB) TournamentRepository {
	return &postgresTournamentRepository{db: db}
}

func (r *postgresTournamentRepository) getExecutor(exec SQLExecutor) SQLExecutor {
	if exec != nil {
		return exec
	}
	return r.db
}

const tournamentColumns = `id, name, sport, format, participants_type, max_participants, players_per_team, status, venues, registered_participants, winner, creator_id, created_at`

func (r *postgresTournamentRepository) Create(ctx context.Context, t *models.Tournament) error {
	query := `
		INSERT INTO tournaments
			(name, sport, format, participants_type, max_participants, players_per_team, status, venues, registered_participants, creator_id)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		RETURNING id, created_at`

	err := r.db.QueryRowContext(ctx, query,
		t.Name, t.Sport, t.Format, t.ParticipantsType,
		t.MaxParticipants, t.PlayersPerTeam, t.Status,
		t.Venues, t.Registered, t.CreatorID,
	).Scan(&t.ID, &t.CreatedAt)

	var pqErr *pq.Error
	if errors.As(err, &pqErr) && pqErr.Code == "23505" {
		return ErrTournamentNameConflict
	}
	return err
}

func (r *postgresTournamentRepository) scanTournament(row interface{ Scan(...interface{}) error }) (*models.Tournament, error) {
	t := &models.Tournament{}
	err := row.Scan(
		&t.ID, &t.Name, &t.Sport, &t.Format, &t.ParticipantsType,
		&t.MaxParticipants, &t.PlayersPerTeam, &t.Status,
		&t.Venues, &t.Registered, &t.Winner, &t.CreatorID, &t.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrTournamentNotFound
		}
		return nil, err
	}
	return t, nil
}

func (r *postgresTournamentRepository) GetByID(ctx context.Context, exec SQLExecutor, id int) (*models.Tournament, error) {
	executor := r.getExecutor(exec)
	query := `SELECT ` + tournamentColumns + ` FROM tournaments WHERE id = $1`
	return r.scanTournament(executor.QueryRowContext(ctx, query, id))
}

func (r *postgresTournamentRepository) List(ctx context.Context, filter ListTournamentsFilter) ([]*models.Tournament, error) {
	var queryBuilder strings.Builder
	queryBuilder.WriteString(`SELECT ` + tournamentColumns + ` FROM tournaments WHERE 1=1`)

	args := make([]interface{}, 0, 5)
	placeholder := 1
	appendFilter := func(column string, value interface{}) {
		queryBuilder.WriteString(" AND " + column + " = $" + strconv.Itoa(placeholder))
		args = append(args, value)
		placeholder++
	}
	if filter.Sport != nil {
		appendFilter("sport", *filter.Sport)
	}
	if filter.Format != nil {
		appendFilter("format", *filter.Format)
	}
	if filter.Status != nil {
		appendFilter("status", *filter.Status)
	}

	queryBuilder.WriteString(" ORDER BY created_at DESC, id DESC")
	if filter.Limit > 0 {
		queryBuilder.WriteString(" LIMIT $" + strconv.Itoa(placeholder))
		args = append(args, filter.Limit)
		placeholder++
	}
	if filter.Offset > 0 {
		queryBuilder.WriteString(" OFFSET $" + strconv.Itoa(placeholder))
		args = append(args, filter.Offset)
	}

	rows, err := r.db.QueryContext(ctx, queryBuilder.String(), args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	tournaments := make([]*models.Tournament, 0)
	for rows.Next() {
		t, err := r.scanTournament(rows)
		if err != nil {
			return nil, err
		}
		tournaments = append(tournaments, t)
	}
	return tournaments, rows.Err()
}

func (r *postgresTournamentRepository) UpdateRegistered(ctx context.Context, id int, refs models.ParticipantRefList) error {
	query := `UPDATE tournaments SET registered_participants = $1 WHERE id = $2`
	result, err := r.db.ExecContext(ctx, query, refs, id)
	if err != nil {
		return err
	}
	return checkAffectedRows(result, ErrTournamentNotFound)
}

func (r *postgresTournamentRepository) UpdateStatusIfCurrent(ctx context.Context, exec SQLExecutor, id int, expected, next models.TournamentStatus) error {
	executor := r.getExecutor(exec)
	query := `UPDATE tournaments SET status = $1 WHERE id = $2 AND status = $3`
	result, err := executor.ExecContext(ctx, query, next, id, expected)
	if err != nil {
		return err
	}
	return checkAffectedRows(result, ErrTournamentStatusStale)
}

func (r *postgresTournamentRepository) SetWinner(ctx context.Context, exec SQLExecutor, id int, winner string) error {
	executor := r.getExecutor(exec)
	query := `UPDATE tournaments SET winner = $1 WHERE id = $2`
	result, err := executor.ExecContext(ctx, query, winner, id)
	if err != nil {
		return err
	}
	return checkAffectedRows(result, ErrTournamentNotFound)
}

func (r *postgresTournamentRepository) Delete(ctx context.Context, id int) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM tournaments WHERE id = $1`, id)
	if err != nil {
		return err
	}
	return checkAffectedRows(result, ErrTournamentNotFound)
}
