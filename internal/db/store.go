package db

import (
	"context"
	"database/sql"
	"encoding/json"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/pkg/errors"
	"github.com/rs/zerolog"

	"github.com/nationbuilder/nationbuilder/internal/models"
	"github.com/nationbuilder/nationbuilder/internal/services"
)

// SQLStore persists accounts, subscriptions, nations and the audit trail in
// any database reachable through sqlx. Queries use ? placeholders and are
// rebound for the driver.
type SQLStore struct {
	db      *sqlx.DB
	timeout time.Duration
	logger  zerolog.Logger
}

var (
	_ services.NationStore       = (*SQLStore)(nil)
	_ services.AuthStore         = (*SQLStore)(nil)
	_ services.SubscriptionStore = (*SQLStore)(nil)
	_ services.LeaderboardSource = (*SQLStore)(nil)
)

func NewSQLStore(db *sqlx.DB, logger zerolog.Logger) *SQLStore {
	return &SQLStore{db: db, timeout: 5 * time.Second, logger: logger}
}

func (s *SQLStore) DB() *sqlx.DB { return s.db }

func (s *SQLStore) Close() error { return s.db.Close() }

func (s *SQLStore) ctx() (context.Context, context.CancelFunc) {
	return context.WithTimeout(context.Background(), s.timeout)
}

func (s *SQLStore) q(query string) string { return s.db.Rebind(query) }

// --- users ---

type userRow struct {
	ID          string `db:"id"`
	Email       string `db:"email"`
	DisplayName string `db:"display_name"`
	PassHash    string `db:"pass_hash"`
	CreatedAt   string `db:"created_at"`
}

func (s *SQLStore) AddUser(u *services.User) error {
	if u == nil {
		return errors.New("nil user")
	}
	ctx, cancel := s.ctx()
	defer cancel()
	_, err := s.db.ExecContext(ctx, s.q(`INSERT INTO users (id, email, display_name, pass_hash, created_at)
      VALUES (?, ?, ?, ?, ?)`), u.ID, u.Email, u.DisplayName, string(u.PassHash), formatTime(u.CreatedAt))
	return errors.Wrap(err, "insert user")
}

func (s *SQLStore) FindUserByEmail(email string) (*services.User, error) {
	ctx, cancel := s.ctx()
	defer cancel()
	var row userRow
	err := s.db.GetContext(ctx, &row, s.q(`SELECT id, email, display_name, pass_hash, created_at
      FROM users WHERE email = ?`), strings.ToLower(strings.TrimSpace(email)))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, errors.Wrap(err, "find user")
	}
	return &services.User{
		ID:          row.ID,
		Email:       row.Email,
		DisplayName: row.DisplayName,
		PassHash:    []byte(row.PassHash),
		CreatedAt:   parseTime(row.CreatedAt),
	}, nil
}

// --- subscriptions ---

func (s *SQLStore) GetSubscription(userID string) (*services.Subscription, error) {
	ctx, cancel := s.ctx()
	defer cancel()
	var row struct {
		UserID    string `db:"user_id"`
		Tier      string `db:"tier"`
		UpdatedAt string `db:"updated_at"`
	}
	err := s.db.GetContext(ctx, &row, s.q(`SELECT user_id, tier, updated_at FROM subscriptions WHERE user_id = ?`), userID)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, errors.Wrap(err, "get subscription")
	}
	return &services.Subscription{UserID: row.UserID, Tier: services.Tier(row.Tier), UpdatedAt: parseTime(row.UpdatedAt)}, nil
}

func (s *SQLStore) UpsertSubscription(sub *services.Subscription) error {
	if sub == nil {
		return errors.New("nil subscription")
	}
	ctx, cancel := s.ctx()
	defer cancel()
	_, err := s.db.ExecContext(ctx, s.q(`INSERT INTO subscriptions (user_id, tier, updated_at) VALUES (?, ?, ?)
      ON CONFLICT (user_id) DO UPDATE SET tier = excluded.tier, updated_at = excluded.updated_at`),
		sub.UserID, string(sub.Tier), formatTime(sub.UpdatedAt))
	return errors.Wrap(err, "upsert subscription")
}

// --- nations ---

const nationColumns = `id, name, owner_id, session_id, data, custom_policies, is_temporary, is_public,
  share_token, created_at, updated_at, expires_at, deleted_at`

type nationRow struct {
	ID             string         `db:"id"`
	Name           string         `db:"name"`
	OwnerID        string         `db:"owner_id"`
	SessionID      string         `db:"session_id"`
	Data           string         `db:"data"`
	CustomPolicies sql.NullString `db:"custom_policies"`
	IsTemporary    int64          `db:"is_temporary"`
	IsPublic       int64          `db:"is_public"`
	ShareToken     sql.NullString `db:"share_token"`
	CreatedAt      string         `db:"created_at"`
	UpdatedAt      string         `db:"updated_at"`
	ExpiresAt      sql.NullString `db:"expires_at"`
	DeletedAt      sql.NullString `db:"deleted_at"`
}

func toNationRow(n *models.SavedNation) (nationRow, error) {
	data, err := json.Marshal(n.Data)
	if err != nil {
		return nationRow{}, errors.Wrap(err, "encode assessment")
	}
	row := nationRow{
		ID:          n.ID,
		Name:        n.Name,
		OwnerID:     n.OwnerID,
		SessionID:   n.SessionID,
		Data:        string(data),
		IsTemporary: boolToInt64(n.IsTemporary),
		IsPublic:    boolToInt64(n.IsPublic),
		ShareToken:  nullString(n.ShareToken),
		CreatedAt:   formatTime(n.CreatedAt),
		UpdatedAt:   formatTime(n.UpdatedAt),
		ExpiresAt:   nullTime(n.ExpiresAt),
		DeletedAt:   nullTime(n.DeletedAt),
	}
	if !n.CustomPolicies.IsZero() {
		cp, err := json.Marshal(n.CustomPolicies)
		if err != nil {
			return nationRow{}, errors.Wrap(err, "encode custom policies")
		}
		row.CustomPolicies = sql.NullString{String: string(cp), Valid: true}
	}
	return row, nil
}

func (r nationRow) toModel() (*models.SavedNation, error) {
	n := &models.SavedNation{
		ID:          r.ID,
		Name:        r.Name,
		OwnerID:     r.OwnerID,
		SessionID:   r.SessionID,
		IsTemporary: r.IsTemporary != 0,
		IsPublic:    r.IsPublic != 0,
		ShareToken:  r.ShareToken.String,
		CreatedAt:   parseTime(r.CreatedAt),
		UpdatedAt:   parseTime(r.UpdatedAt),
		ExpiresAt:   parseNullTime(r.ExpiresAt),
		DeletedAt:   parseNullTime(r.DeletedAt),
	}
	if err := json.Unmarshal([]byte(r.Data), &n.Data); err != nil {
		return nil, errors.Wrapf(err, "decode assessment of %s", r.ID)
	}
	if r.CustomPolicies.Valid && r.CustomPolicies.String != "" {
		n.CustomPolicies = &models.CustomPolicies{}
		if err := json.Unmarshal([]byte(r.CustomPolicies.String), n.CustomPolicies); err != nil {
			return nil, errors.Wrapf(err, "decode custom policies of %s", r.ID)
		}
	}
	return n, nil
}

func (s *SQLStore) InsertNation(n *models.SavedNation) error {
	if n == nil {
		return errors.New("nil nation")
	}
	row, err := toNationRow(n)
	if err != nil {
		return err
	}
	ctx, cancel := s.ctx()
	defer cancel()
	_, err = s.db.NamedExecContext(ctx, `INSERT INTO nations (`+nationColumns+`) VALUES (
      :id, :name, :owner_id, :session_id, :data, :custom_policies, :is_temporary, :is_public,
      :share_token, :created_at, :updated_at, :expires_at, :deleted_at)`, row)
	return errors.Wrap(err, "insert nation")
}

func (s *SQLStore) UpdateNation(n *models.SavedNation) error {
	if n == nil {
		return errors.New("nil nation")
	}
	row, err := toNationRow(n)
	if err != nil {
		return err
	}
	ctx, cancel := s.ctx()
	defer cancel()
	res, err := s.db.NamedExecContext(ctx, `UPDATE nations SET name = :name, owner_id = :owner_id,
      session_id = :session_id, data = :data, custom_policies = :custom_policies,
      is_temporary = :is_temporary, is_public = :is_public, share_token = :share_token,
      updated_at = :updated_at, expires_at = :expires_at, deleted_at = :deleted_at
      WHERE id = :id`, row)
	if err != nil {
		return errors.Wrap(err, "update nation")
	}
	if affected, err := res.RowsAffected(); err == nil && affected == 0 {
		return errors.Errorf("update nation %s: no such row", n.ID)
	}
	return nil
}

func (s *SQLStore) GetNation(id string) (*models.SavedNation, error) {
	return s.getNationBy("id", id)
}

func (s *SQLStore) GetNationByShareToken(token string) (*models.SavedNation, error) {
	if token == "" {
		return nil, nil
	}
	return s.getNationBy("share_token", token)
}

func (s *SQLStore) getNationBy(column, value string) (*models.SavedNation, error) {
	ctx, cancel := s.ctx()
	defer cancel()
	var row nationRow
	err := s.db.GetContext(ctx, &row, s.q(`SELECT `+nationColumns+` FROM nations WHERE `+column+` = ?`), value)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, errors.Wrap(err, "get nation")
	}
	return row.toModel()
}

// ListNationsByOwner returns the owner's nations that are not soft-deleted,
// newest first. Expiry is left to the caller.
func (s *SQLStore) ListNationsByOwner(ownerID string) ([]*models.SavedNation, error) {
	ctx, cancel := s.ctx()
	defer cancel()
	var rows []nationRow
	if err := s.db.SelectContext(ctx, &rows, s.q(`SELECT `+nationColumns+` FROM nations
      WHERE owner_id = ? AND deleted_at IS NULL ORDER BY created_at DESC, id`), ownerID); err != nil {
		return nil, errors.Wrap(err, "list nations")
	}
	out := make([]*models.SavedNation, 0, len(rows))
	for _, r := range rows {
		n, err := r.toModel()
		if err != nil {
			return nil, err
		}
		out = append(out, n)
	}
	return out, nil
}

func (s *SQLStore) CountNationsByOwner(ownerID string) (int, error) {
	ctx, cancel := s.ctx()
	defer cancel()
	var count int
	err := s.db.GetContext(ctx, &count, s.q(`SELECT COUNT(*) FROM nations
      WHERE owner_id = ? AND deleted_at IS NULL AND is_temporary = 0`), ownerID)
	return count, errors.Wrap(err, "count nations")
}

// PurgeExpiredNations hard-deletes temporary nations expiring at or before now.
func (s *SQLStore) PurgeExpiredNations(now time.Time) (int, error) {
	ctx, cancel := s.ctx()
	defer cancel()
	res, err := s.db.ExecContext(ctx, s.q(`DELETE FROM nations
      WHERE is_temporary = 1 AND expires_at IS NOT NULL AND expires_at <= ?`), formatTime(now))
	if err != nil {
		return 0, errors.Wrap(err, "purge nations")
	}
	n, err := res.RowsAffected()
	if err != nil {
		return 0, errors.Wrap(err, "purge nations")
	}
	return int(n), nil
}

// ListLeaderboardRecords returns every public, saved, non-deleted nation with
// its owner's display name.
func (s *SQLStore) ListLeaderboardRecords(ctx context.Context) ([]services.LeaderboardRecord, error) {
	var rows []struct {
		ID             string         `db:"id"`
		Name           string         `db:"name"`
		Data           string         `db:"data"`
		CustomPolicies sql.NullString `db:"custom_policies"`
		DisplayName    sql.NullString `db:"display_name"`
	}
	err := s.db.SelectContext(ctx, &rows, `SELECT n.id, n.name, n.data, n.custom_policies, u.display_name
      FROM nations n LEFT JOIN users u ON u.id = n.owner_id
      WHERE n.is_public = 1 AND n.is_temporary = 0 AND n.deleted_at IS NULL
      ORDER BY n.created_at, n.id`)
	if err != nil {
		return nil, errors.Wrap(err, "list leaderboard records")
	}
	out := make([]services.LeaderboardRecord, 0, len(rows))
	for _, r := range rows {
		rec := services.LeaderboardRecord{ID: r.ID, Name: r.Name, DisplayName: r.DisplayName.String}
		if err := json.Unmarshal([]byte(r.Data), &rec.Data); err != nil {
			s.logger.Warn().Err(err).Str("nation", r.ID).Msg("skip leaderboard record with unreadable data")
			continue
		}
		if r.CustomPolicies.Valid && r.CustomPolicies.String != "" {
			rec.CustomPolicies = &models.CustomPolicies{}
			_ = json.Unmarshal([]byte(r.CustomPolicies.String), rec.CustomPolicies)
		}
		out = append(out, rec)
	}
	return out, nil
}

// --- audit ---

func (s *SQLStore) AddAudit(e services.AuditEntry) {
	ctx, cancel := s.ctx()
	defer cancel()
	_, err := s.db.ExecContext(ctx, s.q(`INSERT INTO audit (id, at, actor, action, target, note) VALUES (?, ?, ?, ?, ?, ?)`),
		uuid.NewString(), formatTime(e.Time), e.Actor, e.Action, e.Target, e.Note)
	if err != nil {
		s.logger.Error().Err(err).Str("action", e.Action).Msg("write audit entry")
	}
}

func (s *SQLStore) ListAudit(limit int) ([]services.AuditEntry, error) {
	if limit <= 0 {
		limit = 100
	}
	ctx, cancel := s.ctx()
	defer cancel()
	var rows []struct {
		At     string `db:"at"`
		Actor  string `db:"actor"`
		Action string `db:"action"`
		Target string `db:"target"`
		Note   string `db:"note"`
	}
	if err := s.db.SelectContext(ctx, &rows, s.q(`SELECT at, actor, action, target, note FROM audit
      ORDER BY at DESC LIMIT ?`), limit); err != nil {
		return nil, errors.Wrap(err, "list audit")
	}
	out := make([]services.AuditEntry, 0, len(rows))
	for _, r := range rows {
		out = append(out, services.AuditEntry{Time: parseTime(r.At), Actor: r.Actor, Action: r.Action, Target: r.Target, Note: r.Note})
	}
	return out, nil
}

func boolToInt64(v bool) int64 {
	if v {
		return 1
	}
	return 0
}

func nullString(s string) sql.NullString {
	if strings.TrimSpace(s) == "" {
		return sql.NullString{}
	}
	return sql.NullString{String: s, Valid: true}
}

func nullTime(t *time.Time) sql.NullString {
	if t == nil {
		return sql.NullString{}
	}
	return sql.NullString{String: formatTime(*t), Valid: true}
}

func parseNullTime(ns sql.NullString) *time.Time {
	if !ns.Valid || ns.String == "" {
		return nil
	}
	t := parseTime(ns.String)
	return &t
}
