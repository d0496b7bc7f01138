package match

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/log"
	"github.com/mauv0809/mus-league/internal/apperr"
	"github.com/mauv0809/mus-league/internal/stats"
)

// New creates a new MatchStore.
func New(db *sql.DB) MatchStore {
	return &store{
		db: db,
	}
}

const matchColumns = `id, created_by, played_at,
	player1_id, player2_id, player3_id, player4_id,
	temp_player1_id, temp_player2_id, temp_player3_id, temp_player4_id,
	winner_team, team1_score, team2_score, status, season_id, created_at, updated_at`

func scanMatch(row interface{ Scan(...any) error }) (Match, error) {
	var (
		m                         Match
		players, temps            [4]sql.NullString
		seasonID                  sql.NullString
		playedAt, created, update int64
	)
	err := row.Scan(&m.ID, &m.CreatedBy, &playedAt,
		&players[0], &players[1], &players[2], &players[3],
		&temps[0], &temps[1], &temps[2], &temps[3],
		&m.WinnerTeam, &m.Team1Score, &m.Team2Score, &m.Status, &seasonID, &created, &update)
	if err != nil {
		return Match{}, err
	}
	for i := range m.Slots {
		m.Slots[i] = stats.SlotRef{PlayerID: players[i].String, TempPlayerID: temps[i].String}
	}
	m.SeasonID = seasonID.String
	m.PlayedAt = time.Unix(playedAt, 0).UTC()
	m.CreatedAt = time.Unix(created, 0).UTC()
	m.UpdatedAt = time.Unix(update, 0).UTC()
	return m, nil
}

func nullable(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}

func slotArgs(slots [4]stats.SlotRef) []any {
	args := make([]any, 0, 8)
	for _, ref := range slots {
		args = append(args, nullable(ref.PlayerID))
	}
	for _, ref := range slots {
		args = append(args, nullable(ref.TempPlayerID))
	}
	return args
}

// Insert stores a new match and one validation row per registered participant.
// Rows listed as validated in m.Validations are stored confirmed.
func (s *store) Insert(ctx context.Context, m Match) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	args := []any{m.ID, m.CreatedBy, m.PlayedAt.Unix()}
	args = append(args, slotArgs(m.Slots)...)
	args = append(args, m.WinnerTeam, m.Team1Score, m.Team2Score, m.Status, nullable(m.SeasonID), m.CreatedAt.Unix(), m.UpdatedAt.Unix())
	_, err = tx.ExecContext(ctx, `INSERT INTO matches (`+matchColumns+`)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`, args...)
	if err != nil {
		err = apperr.MapSQLError(err)
		log.Error("Failed to insert match", "error", err, "match_id", m.ID)
		return fmt.Errorf("insert match %s: %w", m.ID, err)
	}
	if err := insertValidations(ctx, tx, m); err != nil {
		return err
	}
	return tx.Commit()
}

func insertValidations(ctx context.Context, tx *sql.Tx, m Match) error {
	confirmed := make(map[string]bool, len(m.Validations))
	for _, v := range m.Validations {
		confirmed[v.PlayerID] = v.Validated
	}
	now := time.Now().Unix()
	for _, ref := range m.Slots {
		if ref.PlayerID == "" {
			continue
		}
		var validatedAt sql.NullInt64
		if confirmed[ref.PlayerID] {
			validatedAt = sql.NullInt64{Int64: now, Valid: true}
		}
		_, err := tx.ExecContext(ctx, `
			INSERT INTO match_validations (match_id, player_id, validated, validated_at, created_at)
			VALUES (?, ?, ?, ?, ?)
			ON CONFLICT(match_id, player_id) DO NOTHING`,
			m.ID, ref.PlayerID, confirmed[ref.PlayerID], validatedAt, now)
		if err != nil {
			return fmt.Errorf("insert validation for %s: %w", ref.PlayerID, err)
		}
	}
	return nil
}

func (s *store) Get(ctx context.Context, id string) (Match, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	m, err := scanMatch(s.db.QueryRowContext(ctx, `SELECT `+matchColumns+` FROM matches WHERE id = ?`, id))
	if errors.Is(err, sql.ErrNoRows) {
		return Match{}, fmt.Errorf("match %s: %w", id, apperr.ErrNotFound)
	}
	if err != nil {
		return Match{}, err
	}
	m.Validations, err = s.validations(ctx, id)
	if err != nil {
		return Match{}, err
	}
	return m, nil
}

func (s *store) validations(ctx context.Context, matchID string) ([]Validation, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT player_id, validated, validated_at FROM match_validations
		WHERE match_id = ? ORDER BY created_at, player_id`, matchID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Validation
	for rows.Next() {
		var (
			v  Validation
			at sql.NullInt64
		)
		if err := rows.Scan(&v.PlayerID, &v.Validated, &at); err != nil {
			return nil, err
		}
		if at.Valid {
			t := time.Unix(at.Int64, 0).UTC()
			v.ValidatedAt = &t
		}
		out = append(out, v)
	}
	return out, rows.Err()
}

// List returns matches newest first. Validation rows are attached to pending matches.
func (s *store) List(ctx context.Context, f Filter) ([]Match, error) {
	var (
		where []string
		args  []any
	)
	if f.Status != "" {
		where = append(where, "status = ?")
		args = append(args, f.Status)
	}
	if f.SeasonID != "" {
		where = append(where, "season_id = ?")
		args = append(args, f.SeasonID)
	}
	if f.PlayerID != "" {
		where = append(where, "? IN (player1_id, player2_id, player3_id, player4_id, temp_player1_id, temp_player2_id, temp_player3_id, temp_player4_id)")
		args = append(args, f.PlayerID)
	}
	query := `SELECT ` + matchColumns + ` FROM matches`
	if len(where) > 0 {
		query += ` WHERE ` + strings.Join(where, " AND ")
	}
	query += ` ORDER BY played_at DESC, created_at DESC`
	if f.Limit > 0 {
		query += ` LIMIT ?`
		args = append(args, f.Limit)
	}

	matches, err := s.query(ctx, query, args...)
	if err != nil {
		return nil, err
	}

	s.mu.RLock()
	defer s.mu.RUnlock()
	for i := range matches {
		if matches[i].Status != stats.StatusPending {
			continue
		}
		if matches[i].Validations, err = s.validations(ctx, matches[i].ID); err != nil {
			return nil, err
		}
	}
	return matches, nil
}

func (s *store) query(ctx context.Context, query string, args ...any) ([]Match, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var matches []Match
	for rows.Next() {
		m, err := scanMatch(rows)
		if err != nil {
			return nil, err
		}
		matches = append(matches, m)
	}
	return matches, rows.Err()
}

// ListValidated returns every match that counts towards statistics.
func (s *store) ListValidated(ctx context.Context) ([]stats.Match, error) {
	matches, err := s.query(ctx, `SELECT `+matchColumns+` FROM matches WHERE status = 'validated' ORDER BY played_at`)
	if err != nil {
		return nil, err
	}
	out := make([]stats.Match, len(matches))
	for i, m := range matches {
		out[i] = m.Match
	}
	return out, nil
}

func (s *store) Replace(ctx context.Context, m Match) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	args := []any{m.PlayedAt.Unix()}
	args = append(args, slotArgs(m.Slots)...)
	args = append(args, m.WinnerTeam, m.Team1Score, m.Team2Score, time.Now().Unix(), m.ID)
	res, err := tx.ExecContext(ctx, `
		UPDATE matches SET played_at = ?,
			player1_id = ?, player2_id = ?, player3_id = ?, player4_id = ?,
			temp_player1_id = ?, temp_player2_id = ?, temp_player3_id = ?, temp_player4_id = ?,
			winner_team = ?, team1_score = ?, team2_score = ?,
			status = 'pending', updated_at = ?
		WHERE id = ? AND status IN ('pending', 'rejected')`, args...)
	if err != nil {
		return fmt.Errorf("update match %s: %w", m.ID, apperr.MapSQLError(err))
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return fmt.Errorf("match %s can no longer be edited: %w", m.ID, apperr.ErrConflict)
	}
	if _, err := tx.ExecContext(ctx, `DELETE FROM match_validations WHERE match_id = ?`, m.ID); err != nil {
		return err
	}
	if err := insertValidations(ctx, tx, m); err != nil {
		return err
	}
	return tx.Commit()
}

func (s *store) Transition(ctx context.Context, id string, from, to stats.Status) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	res, err := s.db.ExecContext(ctx, `UPDATE matches SET status = ?, updated_at = ? WHERE id = ? AND status = ?`,
		to, time.Now().Unix(), id, from)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 1 {
		log.Info("Match status changed", "match_id", id, "from", from, "to", to)
		return nil
	}
	return s.missOrConflict(ctx, id, from)
}

func (s *store) missOrConflict(ctx context.Context, id string, from stats.Status) error {
	var status stats.Status
	err := s.db.QueryRowContext(ctx, `SELECT status FROM matches WHERE id = ?`, id).Scan(&status)
	if errors.Is(err, sql.ErrNoRows) {
		return fmt.Errorf("match %s: %w", id, apperr.ErrNotFound)
	}
	if err != nil {
		return err
	}
	if from == stats.StatusPending {
		return fmt.Errorf("match %s is %s: %w", id, status, apperr.ErrNotPending)
	}
	return fmt.Errorf("match %s is %s, not %s: %w", id, status, from, apperr.ErrConflict)
}

// MarkValidated confirms playerID's participation. When it was the last
// outstanding confirmation the match itself becomes validated.
func (s *store) MarkValidated(ctx context.Context, matchID, playerID string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return false, err
	}
	defer tx.Rollback()

	var status stats.Status
	err = tx.QueryRowContext(ctx, `SELECT status FROM matches WHERE id = ?`, matchID).Scan(&status)
	if errors.Is(err, sql.ErrNoRows) {
		return false, fmt.Errorf("match %s: %w", matchID, apperr.ErrNotFound)
	}
	if err != nil {
		return false, err
	}
	if status != stats.StatusPending {
		return false, fmt.Errorf("match %s is %s: %w", matchID, status, apperr.ErrNotPending)
	}

	now := time.Now().Unix()
	res, err := tx.ExecContext(ctx, `
		UPDATE match_validations SET validated = 1, validated_at = ?
		WHERE match_id = ? AND player_id = ? AND validated = 0`, now, matchID, playerID)
	if err != nil {
		return false, err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		var validated bool
		err := tx.QueryRowContext(ctx, `SELECT validated FROM match_validations WHERE match_id = ? AND player_id = ?`, matchID, playerID).Scan(&validated)
		if errors.Is(err, sql.ErrNoRows) {
			return false, fmt.Errorf("player %s does not take part in match %s: %w", playerID, matchID, apperr.ErrForbidden)
		}
		if err != nil {
			return false, err
		}
	}

	var outstanding int
	if err := tx.QueryRowContext(ctx, `SELECT COUNT(*) FROM match_validations WHERE match_id = ? AND validated = 0`, matchID).Scan(&outstanding); err != nil {
		return false, err
	}
	complete := outstanding == 0
	if complete {
		if _, err := tx.ExecContext(ctx, `UPDATE matches SET status = 'validated', updated_at = ? WHERE id = ? AND status = 'pending'`, now, matchID); err != nil {
			return false, err
		}
	}
	if err := tx.Commit(); err != nil {
		return false, err
	}
	log.Info("Participant validated match", "match_id", matchID, "player_id", playerID, "outstanding", outstanding)
	return complete, nil
}

// PendingBefore lists pending matches created before cutoff.
func (s *store) PendingBefore(ctx context.Context, cutoff time.Time) ([]Match, error) {
	return s.query(ctx, `SELECT `+matchColumns+` FROM matches
		WHERE status = 'pending' AND created_at < ? ORDER BY created_at`, cutoff.Unix())
}
