package club

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

// New creates a new ClubStore.
func New(db *sql.DB) ClubStore {
	return &store{
		db: db,
	}
}

const profileColumns = `id, name, email, status, is_admin, is_active_player, can_login, created_at, updated_at`

type scanner interface {
	Scan(dest ...any) error
}

func scanProfile(row scanner) (Profile, error) {
	var (
		p                  Profile
		email              sql.NullString
		created, updated   int64
		admin, active, can bool
	)
	if err := row.Scan(&p.ID, &p.Name, &email, &p.Status, &admin, &active, &can, &created, &updated); err != nil {
		return Profile{}, err
	}
	p.Email = email.String
	p.IsAdmin, p.IsActivePlayer, p.CanLogin = admin, active, can
	p.CreatedAt = time.Unix(created, 0).UTC()
	p.UpdatedAt = time.Unix(updated, 0).UTC()
	return p, nil
}

func scanSeasonPlayer(row scanner) (SeasonPlayer, error) {
	var (
		p        SeasonPlayer
		seasonID sql.NullString
		created  int64
	)
	if err := row.Scan(&p.ID, &p.Name, &seasonID, &p.IsActive, &created); err != nil {
		return SeasonPlayer{}, err
	}
	p.SeasonID = seasonID.String
	p.CreatedAt = time.Unix(created, 0).UTC()
	return p, nil
}

func nullable(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}

// Register creates a pending profile.
func (s *store) Register(ctx context.Context, in RegisterInput) (Profile, error) {
	in.Name = strings.TrimSpace(in.Name)
	in.Email = strings.ToLower(strings.TrimSpace(in.Email))
	if err := apperr.Validate(in); err != nil {
		return Profile{}, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	now := time.Now().UTC()
	p := Profile{
		ID:             uuid.NewString(),
		Name:           in.Name,
		Email:          in.Email,
		Status:         StatusPending,
		IsActivePlayer: true,
		CanLogin:       true,
		CreatedAt:      now.Truncate(time.Second),
		UpdatedAt:      now.Truncate(time.Second),
	}
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO profiles (`+profileColumns+`)
		VALUES (?, ?, ?, ?, 0, 1, 1, ?, ?)`,
		p.ID, p.Name, nullable(p.Email), p.Status, now.Unix(), now.Unix())
	if err != nil {
		err = apperr.MapSQLError(err)
		log.Error("Failed to register profile", "error", err, "email", p.Email)
		return Profile{}, fmt.Errorf("register %q: %w", p.Name, err)
	}
	log.Info("Registered profile", "id", p.ID, "name", p.Name)
	return p, nil
}

func (s *store) GetProfile(ctx context.Context, id string) (Profile, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	row := s.db.QueryRowContext(ctx, `SELECT `+profileColumns+` FROM profiles WHERE id = ?`, id)
	p, err := scanProfile(row)
	if errors.Is(err, sql.ErrNoRows) {
		return Profile{}, fmt.Errorf("profile %s: %w", id, apperr.ErrNotFound)
	}
	return p, err
}

// ListProfiles returns profiles ordered by name. An empty status lists all.
func (s *store) ListProfiles(ctx context.Context, status ProfileStatus) ([]Profile, error) {
	query := `SELECT ` + profileColumns + ` FROM profiles`
	var args []any
	if status != "" {
		query += ` WHERE status = ?`
		args = append(args, status)
	}
	query += ` ORDER BY name COLLATE NOCASE`
	return s.queryProfiles(ctx, query, args...)
}

// ListSelectablePlayers returns approved, active profiles that can be put in a new match.
func (s *store) ListSelectablePlayers(ctx context.Context) ([]Profile, error) {
	return s.queryProfiles(ctx, `SELECT `+profileColumns+` FROM profiles
		WHERE status = 'approved' AND is_active_player = 1
		ORDER BY name COLLATE NOCASE`)
}

func (s *store) queryProfiles(ctx context.Context, query string, args ...any) ([]Profile, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var profiles []Profile
	for rows.Next() {
		p, err := scanProfile(rows)
		if err != nil {
			return nil, err
		}
		profiles = append(profiles, p)
	}
	return profiles, rows.Err()
}

func (s *store) Approve(ctx context.Context, id string) error {
	return s.resolvePending(ctx, id, StatusApproved)
}

func (s *store) Reject(ctx context.Context, id string) error {
	return s.resolvePending(ctx, id, StatusRejected)
}

func (s *store) resolvePending(ctx context.Context, id string, to ProfileStatus) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	res, err := s.db.ExecContext(ctx, `
		UPDATE profiles SET status = ?, updated_at = ?
		WHERE id = ? AND status = 'pending'`, to, time.Now().Unix(), id)
	if err != nil {
		return err
	}
	if err := s.expectOne(ctx, res, id); err != nil {
		return err
	}
	log.Info("Resolved pending profile", "id", id, "status", to)
	return nil
}

// expectOne turns a zero-row guarded update into ErrNotFound or ErrConflict.
func (s *store) expectOne(ctx context.Context, res sql.Result, id string) error {
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 1 {
		return nil
	}
	var exists int
	err = s.db.QueryRowContext(ctx, `SELECT 1 FROM profiles WHERE id = ?`, id).Scan(&exists)
	if errors.Is(err, sql.ErrNoRows) {
		return fmt.Errorf("profile %s: %w", id, apperr.ErrNotFound)
	}
	if err != nil {
		return err
	}
	return fmt.Errorf("profile %s is not pending: %w", id, apperr.ErrConflict)
}

// SetAdmin grants or revokes admin rights. Admins cannot revoke their own.
func (s *store) SetAdmin(ctx context.Context, actorID, id string, admin bool) error {
	if actorID == id && !admin {
		return fmt.Errorf("cannot remove your own admin rights: %w", apperr.ErrForbidden)
	}
	return s.setFlag(ctx, id, "is_admin", admin)
}

// SetActivePlayer suspends or reactivates a player. Admins cannot suspend themselves.
func (s *store) SetActivePlayer(ctx context.Context, actorID, id string, active bool) error {
	if actorID == id && !active {
		return fmt.Errorf("cannot suspend yourself: %w", apperr.ErrForbidden)
	}
	return s.setFlag(ctx, id, "is_active_player", active)
}

// SetCanLogin blocks or unblocks sign in. Admins cannot block themselves.
func (s *store) SetCanLogin(ctx context.Context, actorID, id string, canLogin bool) error {
	if actorID == id && !canLogin {
		return fmt.Errorf("cannot block yourself: %w", apperr.ErrForbidden)
	}
	return s.setFlag(ctx, id, "can_login", canLogin)
}

func (s *store) setFlag(ctx context.Context, id, column string, value bool) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	// column is one of a fixed set chosen by the callers above
	res, err := s.db.ExecContext(ctx,
		`UPDATE profiles SET `+column+` = ?, updated_at = ? WHERE id = ?`,
		value, time.Now().Unix(), id)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return fmt.Errorf("profile %s: %w", id, apperr.ErrNotFound)
	}
	log.Info("Updated profile flag", "id", id, "flag", column, "value", value)
	return nil
}

func (s *store) Rename(ctx context.Context, id, name string) error {
	name = strings.TrimSpace(name)
	if name == "" {
		return apperr.Invalid(apperr.FieldError{Field: "name", Message: "is required"})
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	res, err := s.db.ExecContext(ctx, `UPDATE profiles SET name = ?, updated_at = ? WHERE id = ?`, name, time.Now().Unix(), id)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return fmt.Errorf("profile %s: %w", id, apperr.ErrNotFound)
	}
	return nil
}

// DeleteUser retires an account while keeping its match history. A guest
// with the same name takes over every seat the profile held, then the
// profile is rejected and locked out. The super admin and the acting admin
// cannot be deleted.
func (s *store) DeleteUser(ctx context.Context, actorID, id, superAdminEmail string) (SeasonPlayer, error) {
	if actorID == id {
		return SeasonPlayer{}, fmt.Errorf("cannot delete yourself: %w", apperr.ErrForbidden)
	}
	target, err := s.GetProfile(ctx, id)
	if err != nil {
		return SeasonPlayer{}, err
	}
	if superAdminEmail != "" && strings.EqualFold(target.Email, superAdminEmail) {
		return SeasonPlayer{}, fmt.Errorf("cannot delete the super admin: %w", apperr.ErrForbidden)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return SeasonPlayer{}, err
	}
	defer tx.Rollback()

	seasonID, err := guestSeasonFor(ctx, tx, id)
	if err != nil {
		return SeasonPlayer{}, err
	}

	now := time.Now().UTC()
	guest := SeasonPlayer{ID: uuid.NewString(), Name: target.Name, SeasonID: seasonID, CreatedAt: now.Truncate(time.Second)}
	if _, err := tx.ExecContext(ctx, `
		INSERT INTO season_players (id, name, season_id, is_active, created_at)
		VALUES (?, ?, ?, 0, ?)`, guest.ID, guest.Name, nullable(seasonID), now.Unix()); err != nil {
		return SeasonPlayer{}, fmt.Errorf("create guest for %s: %w", id, err)
	}

	moved := int64(0)
	for slot := 1; slot <= 4; slot++ {
		res, err := tx.ExecContext(ctx, fmt.Sprintf(`
			UPDATE matches SET temp_player%[1]d_id = ?, player%[1]d_id = NULL, updated_at = ?
			WHERE player%[1]d_id = ?`, slot), guest.ID, now.Unix(), id)
		if err != nil {
			return SeasonPlayer{}, fmt.Errorf("move slot %d for %s: %w", slot, id, err)
		}
		n, _ := res.RowsAffected()
		moved += n
	}

	// pending matches that only waited on this user are settled before their
	// confirmation row goes away
	res, err := tx.ExecContext(ctx, `
		UPDATE matches SET status = 'validated', updated_at = ?
		WHERE status = 'pending'
			AND id IN (SELECT match_id FROM match_validations WHERE player_id = ? AND validated = 0)
			AND NOT EXISTS (
				SELECT 1 FROM match_validations v
				WHERE v.match_id = matches.id AND v.validated = 0 AND v.player_id <> ?)`,
		now.Unix(), id, id)
	if err != nil {
		return SeasonPlayer{}, fmt.Errorf("settle pending matches of %s: %w", id, err)
	}
	settled, _ := res.RowsAffected()

	if _, err := tx.ExecContext(ctx, `DELETE FROM match_validations WHERE player_id = ?`, id); err != nil {
		return SeasonPlayer{}, err
	}
	if _, err := tx.ExecContext(ctx, `
		UPDATE profiles SET status = 'rejected', can_login = 0, is_active_player = 0, is_admin = 0, updated_at = ?
		WHERE id = ?`, now.Unix(), id); err != nil {
		return SeasonPlayer{}, err
	}
	if err := tx.Commit(); err != nil {
		return SeasonPlayer{}, err
	}
	log.Info("Deleted user and moved history to guest", "id", id, "guest_id", guest.ID, "seats_moved", moved, "matches_settled", settled)
	return guest, nil
}

// guestSeasonFor picks the season a retired user's guest belongs to: the active
// season, else the season of their latest match, else none.
func guestSeasonFor(ctx context.Context, tx *sql.Tx, profileID string) (string, error) {
	var seasonID sql.NullString
	err := tx.QueryRowContext(ctx, `SELECT id FROM seasons WHERE is_active = 1`).Scan(&seasonID)
	if err == nil {
		return seasonID.String, nil
	}
	if !errors.Is(err, sql.ErrNoRows) {
		return "", err
	}
	err = tx.QueryRowContext(ctx, `
		SELECT season_id FROM matches
		WHERE ? IN (player1_id, player2_id, player3_id, player4_id)
		ORDER BY played_at DESC LIMIT 1`, profileID).Scan(&seasonID)
	if err != nil && !errors.Is(err, sql.ErrNoRows) {
		return "", err
	}
	return seasonID.String, nil
}

const seasonPlayerColumns = `id, name, season_id, is_active, created_at`

func (s *store) CreateSeasonPlayer(ctx context.Context, in SeasonPlayerInput) (SeasonPlayer, error) {
	in.Name = strings.TrimSpace(in.Name)
	if err := apperr.Validate(in); err != nil {
		return SeasonPlayer{}, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	now := time.Now().UTC()
	p := SeasonPlayer{ID: uuid.NewString(), Name: in.Name, SeasonID: in.SeasonID, IsActive: true, CreatedAt: now.Truncate(time.Second)}
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO season_players (`+seasonPlayerColumns+`) VALUES (?, ?, ?, 1, ?)`,
		p.ID, p.Name, p.SeasonID, now.Unix())
	if err != nil {
		err = apperr.MapSQLError(err)
		log.Error("Failed to create season player", "error", err, "name", p.Name)
		return SeasonPlayer{}, fmt.Errorf("create season player: %w", err)
	}
	log.Info("Created season player", "id", p.ID, "name", p.Name, "season_id", p.SeasonID)
	return p, nil
}

func (s *store) GetSeasonPlayer(ctx context.Context, id string) (SeasonPlayer, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	p, err := scanSeasonPlayer(s.db.QueryRowContext(ctx, `SELECT `+seasonPlayerColumns+` FROM season_players WHERE id = ?`, id))
	if errors.Is(err, sql.ErrNoRows) {
		return SeasonPlayer{}, fmt.Errorf("season player %s: %w", id, apperr.ErrNotFound)
	}
	return p, err
}

// ListSeasonPlayers lists guests of a season, or of every season when seasonID is empty.
func (s *store) ListSeasonPlayers(ctx context.Context, seasonID string) ([]SeasonPlayer, error) {
	query := `SELECT ` + seasonPlayerColumns + ` FROM season_players`
	var args []any
	if seasonID != "" {
		query += ` WHERE season_id = ?`
		args = append(args, seasonID)
	}
	query += ` ORDER BY name COLLATE NOCASE, created_at`
	return s.querySeasonPlayers(ctx, query, args...)
}

// SearchSeasonPlayers finds guests whose name contains query, case-insensitively.
func (s *store) SearchSeasonPlayers(ctx context.Context, query string) ([]SeasonPlayer, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return nil, nil
	}
	escaped := strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`).Replace(strings.ToLower(query))
	return s.querySeasonPlayers(ctx, `SELECT `+seasonPlayerColumns+` FROM season_players
		WHERE lower(name) LIKE ? ESCAPE '\'
		ORDER BY created_at DESC LIMIT ?`, "%"+escaped+"%", SearchLimit)
}

func (s *store) querySeasonPlayers(ctx context.Context, query string, args ...any) ([]SeasonPlayer, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var players []SeasonPlayer
	for rows.Next() {
		p, err := scanSeasonPlayer(rows)
		if err != nil {
			return nil, err
		}
		players = append(players, p)
	}
	return players, rows.Err()
}

// ReactivateSeasonPlayer brings a guest into seasonID. A guest already in that
// season is switched back on; a guest from another season is copied by name.
func (s *store) ReactivateSeasonPlayer(ctx context.Context, id, seasonID string) (SeasonPlayer, error) {
	p, err := s.GetSeasonPlayer(ctx, id)
	if err != nil {
		return SeasonPlayer{}, err
	}
	if p.SeasonID == seasonID {
		if err := s.SetSeasonPlayerActive(ctx, id, true); err != nil {
			return SeasonPlayer{}, err
		}
		p.IsActive = true
		return p, nil
	}
	return s.CreateSeasonPlayer(ctx, SeasonPlayerInput{Name: p.Name, SeasonID: seasonID})
}

func (s *store) SetSeasonPlayerActive(ctx context.Context, id string, active bool) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	res, err := s.db.ExecContext(ctx, `UPDATE season_players SET is_active = ? WHERE id = ?`, active, id)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return fmt.Errorf("season player %s: %w", id, apperr.ErrNotFound)
	}
	return nil
}

func (s *store) KnownPlayers(ctx context.Context) ([]stats.Player, error) {
	profiles, err := s.ListProfiles(ctx, StatusApproved)
	if err != nil {
		return nil, fmt.Errorf("list approved profiles: %w", err)
	}
	guests, err := s.ListSeasonPlayers(ctx, "")
	if err != nil {
		return nil, fmt.Errorf("list season players: %w", err)
	}
	players := make([]stats.Player, 0, len(profiles)+len(guests))
	for _, p := range profiles {
		players = append(players, p.AsPlayer())
	}
	for _, g := range guests {
		players = append(players, g.AsPlayer())
	}
	return players, nil
}
