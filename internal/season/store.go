package season

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"
	"github.com/mauv0809/mus-league/internal/apperr"
	"github.com/mauv0809/mus-league/internal/stats"
)

// New creates a new SeasonStore.
func New(db *sql.DB) SeasonStore {
	return &store{db: db}
}

const columns = `id, name, start_date, end_date, is_active, created_at`

func scanSeason(row interface{ Scan(...any) error }) (stats.Season, error) {
	var (
		s              stats.Season
		start, created int64
		end            sql.NullInt64
	)
	if err := row.Scan(&s.ID, &s.Name, &start, &end, &s.IsActive, &created); err != nil {
		return stats.Season{}, err
	}
	s.StartDate = time.Unix(start, 0).UTC()
	s.CreatedAt = time.Unix(created, 0).UTC()
	if end.Valid {
		t := time.Unix(end.Int64, 0).UTC()
		s.EndDate = &t
	}
	return s, nil
}

// Create opens a new active season, closing the current one. The very first
// season adopts every match recorded before seasons existed.
func (s *store) Create(ctx context.Context, name string, start time.Time) (stats.Season, error) {
	name = strings.TrimSpace(name)
	if err := apperr.Validate(CreateInput{Name: name}); err != nil {
		return stats.Season{}, err
	}
	if start.IsZero() {
		start = time.Now()
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return stats.Season{}, err
	}
	defer tx.Rollback()

	var existing int
	if err := tx.QueryRowContext(ctx, `SELECT COUNT(*) FROM seasons`).Scan(&existing); err != nil {
		return stats.Season{}, err
	}

	now := time.Now().UTC()
	closed, err := tx.ExecContext(ctx, `UPDATE seasons SET is_active = 0, end_date = ? WHERE is_active = 1`, now.Unix())
	if err != nil {
		return stats.Season{}, fmt.Errorf("close active season: %w", err)
	}

	season := stats.Season{
		ID:        uuid.NewString(),
		Name:      name,
		StartDate: start.UTC().Truncate(time.Second),
		IsActive:  true,
		CreatedAt: now.Truncate(time.Second),
	}
	if _, err := tx.ExecContext(ctx, `INSERT INTO seasons (`+columns+`) VALUES (?, ?, ?, NULL, 1, ?)`,
		season.ID, season.Name, season.StartDate.Unix(), now.Unix()); err != nil {
		return stats.Season{}, fmt.Errorf("insert season: %w", apperr.MapSQLError(err))
	}

	var adopted int64
	if existing == 0 {
		res, err := tx.ExecContext(ctx, `UPDATE matches SET season_id = ? WHERE season_id IS NULL`, season.ID)
		if err != nil {
			return stats.Season{}, fmt.Errorf("assign legacy matches: %w", err)
		}
		adopted, _ = res.RowsAffected()
	}

	if err := tx.Commit(); err != nil {
		return stats.Season{}, err
	}
	n, _ := closed.RowsAffected()
	log.Info("Created season", "id", season.ID, "name", season.Name, "closed_previous", n > 0, "adopted_matches", adopted)
	return season, nil
}

// Close ends an active season.
func (s *store) Close(ctx context.Context, id string) (stats.Season, error) {
	s.mu.Lock()
	res, err := s.db.ExecContext(ctx, `UPDATE seasons SET is_active = 0, end_date = ? WHERE id = ? AND is_active = 1`, time.Now().Unix(), id)
	s.mu.Unlock()
	if err != nil {
		return stats.Season{}, err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return stats.Season{}, err
	}
	season, err := s.Get(ctx, id)
	if err != nil {
		return stats.Season{}, err
	}
	if n == 0 {
		return season, fmt.Errorf("season %s already closed: %w", id, apperr.ErrConflict)
	}
	log.Info("Closed season", "id", id, "name", season.Name)
	return season, nil
}

func (s *store) Get(ctx context.Context, id string) (stats.Season, error) {
	season, err := scanSeason(s.db.QueryRowContext(ctx, `SELECT `+columns+` FROM seasons WHERE id = ?`, id))
	if errors.Is(err, sql.ErrNoRows) {
		return stats.Season{}, fmt.Errorf("season %s: %w", id, apperr.ErrNotFound)
	}
	return season, err
}

// Active returns the active season, or nil when none is open.
func (s *store) Active(ctx context.Context) (*stats.Season, error) {
	season, err := scanSeason(s.db.QueryRowContext(ctx, `SELECT `+columns+` FROM seasons WHERE is_active = 1`))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &season, nil
}

// List returns all seasons, newest first.
func (s *store) List(ctx context.Context) ([]stats.Season, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT `+columns+` FROM seasons ORDER BY start_date DESC, created_at DESC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var seasons []stats.Season
	for rows.Next() {
		season, err := scanSeason(rows)
		if err != nil {
			return nil, err
		}
		seasons = append(seasons, season)
	}
	return seasons, rows.Err()
}
