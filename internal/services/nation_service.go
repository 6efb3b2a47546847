package services

import (
	"context"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/nationbuilder/nationbuilder/internal/models"
)

// DefaultTemporaryTTL is how long an unsaved session nation survives.
const DefaultTemporaryTTL = 24 * time.Hour

const maxNationNameLen = 80

type NationStore interface {
	InsertNation(n *models.SavedNation) error
	GetNation(id string) (*models.SavedNation, error)
	UpdateNation(n *models.SavedNation) error
	ListNationsByOwner(ownerID string) ([]*models.SavedNation, error)
	CountNationsByOwner(ownerID string) (int, error)
	GetNationByShareToken(token string) (*models.SavedNation, error)
	PurgeExpiredNations(now time.Time) (int, error)
	AddAudit(entry AuditEntry)
}

type EventPublisher interface {
	Publish(ctx context.Context, ev NationEvent) error
}

// Viewer identifies who is acting: an account, an anonymous session, or both.
type Viewer struct {
	UserID    string
	SessionID string
}

// NationInput carries the editable parts of a nation.
type NationInput struct {
	Name           string                 `json:"name"`
	Data           models.AssessmentData  `json:"assessmentData"`
	CustomPolicies *models.CustomPolicies `json:"customPolicies,omitempty"`
}

type NationService struct {
	store          NationStore
	tiers          TierResolver
	events         EventPublisher
	logger         zerolog.Logger
	now            func() time.Time
	idGen          func() string
	tokenGen       func() string
	tempTTL        time.Duration
	publishTimeout time.Duration
}

type NationOption func(*NationService)

func WithEventPublisher(p EventPublisher) NationOption {
	return func(s *NationService) { s.events = p }
}

func WithNationLogger(l zerolog.Logger) NationOption {
	return func(s *NationService) { s.logger = l }
}

func WithTemporaryTTL(d time.Duration) NationOption {
	return func(s *NationService) {
		if d > 0 {
			s.tempTTL = d
		}
	}
}

func NewNationService(store NationStore, tiers TierResolver, opts ...NationOption) *NationService {
	s := &NationService{
		store:          store,
		tiers:          tiers,
		logger:         zerolog.Nop(),
		now:            func() time.Time { return time.Now().UTC() },
		idGen:          func() string { return "n" + shortID(11) },
		tokenGen:       uuid.NewString,
		tempTTL:        DefaultTemporaryTTL,
		publishTimeout: 5 * time.Second,
	}
	for _, o := range opts {
		o(s)
	}
	return s
}

func cleanName(name string) (string, error) {
	name = strings.TrimSpace(name)
	if len([]rune(name)) > maxNationNameLen {
		return "", NewInvalidError("name too long")
	}
	return name, nil
}

// CreateTemporary stores a completed assessment against an anonymous session.
// The nation expires unless promoted before the TTL elapses.
func (s *NationService) CreateTemporary(sessionID string, in NationInput) (*models.SavedNation, error) {
	if strings.TrimSpace(sessionID) == "" {
		return nil, NewInvalidError("session required")
	}
	data, err := PrepareAssessment(in.Data, true)
	if err != nil {
		return nil, err
	}
	name, err := cleanName(in.Name)
	if err != nil {
		return nil, err
	}
	now := s.now()
	exp := now.Add(s.tempTTL)
	n := &models.SavedNation{
		ID:             s.idGen(),
		Name:           name,
		SessionID:      sessionID,
		Data:           data,
		CustomPolicies: in.CustomPolicies,
		IsTemporary:    true,
		CreatedAt:      now,
		UpdatedAt:      now,
		ExpiresAt:      &exp,
	}
	if err := s.store.InsertNation(n); err != nil {
		return nil, err
	}
	s.store.AddAudit(AuditEntry{Time: now, Actor: "session:" + sessionID, Action: "create_nation", Target: n.ID})
	s.publish(NationEvent{Type: EventNationCreated, NationID: n.ID, At: now})
	return n, nil
}

// live loads a nation that is neither soft-deleted nor expired.
func (s *NationService) live(id string) (*models.SavedNation, error) {
	if strings.TrimSpace(id) == "" {
		return nil, NewInvalidError("nation id required")
	}
	n, err := s.store.GetNation(id)
	if err != nil {
		return nil, err
	}
	if n == nil || !s.alive(n) {
		return nil, NewNotFoundError("nation not found")
	}
	return n, nil
}

func (s *NationService) alive(n *models.SavedNation) bool {
	if n.DeletedAt != nil {
		return false
	}
	return n.ExpiresAt == nil || s.now().Before(*n.ExpiresAt)
}

func canEdit(v Viewer, n *models.SavedNation) bool {
	if n.IsTemporary {
		return v.SessionID != "" && v.SessionID == n.SessionID
	}
	return v.UserID != "" && v.UserID == n.OwnerID
}

// Get returns a nation the viewer may see: its own, or a public one.
func (s *NationService) Get(v Viewer, id string) (*models.SavedNation, error) {
	n, err := s.live(id)
	if err != nil {
		return nil, err
	}
	if !canEdit(v, n) && !n.IsPublic {
		return nil, NewNotFoundError("nation not found")
	}
	return n, nil
}

func (s *NationService) ListByOwner(userID string) ([]*models.SavedNation, error) {
	if userID == "" {
		return nil, NewUnauthorizedError("login required")
	}
	all, err := s.store.ListNationsByOwner(userID)
	if err != nil {
		return nil, err
	}
	out := make([]*models.SavedNation, 0, len(all))
	for _, n := range all {
		if s.alive(n) {
			out = append(out, n)
		}
	}
	return out, nil
}

// Promote converts a session nation into a permanent one owned by userID.
func (s *NationService) Promote(userID, sessionID, nationID, name string) (*models.SavedNation, error) {
	if userID == "" {
		return nil, NewUnauthorizedError("login required")
	}
	n, err := s.live(nationID)
	if err != nil {
		return nil, err
	}
	if !n.IsTemporary {
		if n.OwnerID == userID {
			return nil, NewConflictError("nation already saved")
		}
		return nil, NewNotFoundError("nation not found")
	}
	if sessionID == "" || n.SessionID != sessionID {
		return nil, NewForbiddenError("nation belongs to another session")
	}
	tier := TierFree
	if s.tiers != nil {
		if tier, err = s.tiers.Tier(userID); err != nil {
			return nil, err
		}
	}
	count, err := s.store.CountNationsByOwner(userID)
	if err != nil {
		return nil, err
	}
	if count >= LimitsFor(tier).MaxNations {
		return nil, NewPaymentRequiredError("saved nation limit reached for " + string(tier) + " tier")
	}
	if name != "" {
		if n.Name, err = cleanName(name); err != nil {
			return nil, err
		}
	}
	now := s.now()
	n.OwnerID = userID
	n.IsTemporary = false
	n.ExpiresAt = nil
	n.UpdatedAt = now
	if err := s.store.UpdateNation(n); err != nil {
		return nil, err
	}
	s.store.AddAudit(AuditEntry{Time: now, Actor: userID, Action: "promote_nation", Target: n.ID})
	s.publish(NationEvent{Type: EventNationPromoted, NationID: n.ID, OwnerID: userID, At: now})
	return n, nil
}

// Update replaces the editable fields. Every stored nation is scored, so the
// replacement record must be complete.
func (s *NationService) Update(v Viewer, nationID string, in NationInput) (*models.SavedNation, error) {
	n, err := s.live(nationID)
	if err != nil {
		return nil, err
	}
	if !canEdit(v, n) {
		return nil, NewForbiddenError("not your nation")
	}
	data, err := PrepareAssessment(in.Data, true)
	if err != nil {
		return nil, err
	}
	name, err := cleanName(in.Name)
	if err != nil {
		return nil, err
	}
	now := s.now()
	if name != "" {
		n.Name = name
	}
	n.Data = data
	n.CustomPolicies = in.CustomPolicies
	n.UpdatedAt = now
	if err := s.store.UpdateNation(n); err != nil {
		return nil, err
	}
	s.store.AddAudit(AuditEntry{Time: now, Actor: actorOf(v), Action: "update_nation", Target: n.ID})
	s.publish(NationEvent{Type: EventNationUpdated, NationID: n.ID, OwnerID: n.OwnerID, At: now})
	return n, nil
}

func (s *NationService) SoftDelete(v Viewer, nationID string) error {
	n, err := s.live(nationID)
	if err != nil {
		return err
	}
	if !canEdit(v, n) {
		return NewForbiddenError("not your nation")
	}
	now := s.now()
	n.DeletedAt = &now
	n.IsPublic = false
	n.UpdatedAt = now
	if err := s.store.UpdateNation(n); err != nil {
		return err
	}
	s.store.AddAudit(AuditEntry{Time: now, Actor: actorOf(v), Action: "delete_nation", Target: n.ID})
	s.publish(NationEvent{Type: EventNationDeleted, NationID: n.ID, OwnerID: n.OwnerID, At: now})
	return nil
}

// Publish toggles leaderboard visibility. The share token is minted on
// first publish and kept afterwards.
func (s *NationService) Publish(userID, nationID string, public bool) (*models.SavedNation, error) {
	if userID == "" {
		return nil, NewUnauthorizedError("login required")
	}
	n, err := s.live(nationID)
	if err != nil {
		return nil, err
	}
	if n.IsTemporary || n.OwnerID != userID {
		return nil, NewForbiddenError("only saved nations can be published")
	}
	if public {
		if _, err := PrepareAssessment(n.Data, true); err != nil {
			return nil, err
		}
		if n.ShareToken == "" {
			n.ShareToken = s.tokenGen()
		}
	}
	now := s.now()
	n.IsPublic = public
	n.UpdatedAt = now
	if err := s.store.UpdateNation(n); err != nil {
		return nil, err
	}
	s.store.AddAudit(AuditEntry{Time: now, Actor: userID, Action: "publish_nation", Target: n.ID, Note: map[bool]string{true: "public", false: "private"}[public]})
	s.publish(NationEvent{Type: EventNationPublished, NationID: n.ID, OwnerID: userID, Public: public, At: now})
	return n, nil
}

// GetShared resolves a share token to a public nation.
func (s *NationService) GetShared(token string) (*models.SavedNation, error) {
	token = strings.TrimSpace(token)
	if token == "" {
		return nil, NewInvalidError("token required")
	}
	n, err := s.store.GetNationByShareToken(token)
	if err != nil {
		return nil, err
	}
	if n == nil || !n.IsPublic || !s.alive(n) {
		return nil, NewNotFoundError("nation not found")
	}
	return n, nil
}

// ShareLink encodes a visible nation into an opaque link payload.
func (s *NationService) ShareLink(v Viewer, nationID string) (string, error) {
	n, err := s.Get(v, nationID)
	if err != nil {
		return "", err
	}
	return EncodeShareLink(n)
}

// ComparisonNation loads a visible nation as a comparison entry.
func (s *NationService) ComparisonNation(v Viewer, nationID string) (ComparisonNation, error) {
	n, err := s.Get(v, nationID)
	if err != nil {
		return ComparisonNation{}, err
	}
	return ComparisonNation{Kind: KindUser, Source: "saved", ID: n.ID, Name: n.Name, Data: n.Data, CustomPolicies: n.CustomPolicies}, nil
}

// PurgeExpired removes temporary nations whose TTL elapsed before now.
func (s *NationService) PurgeExpired(now time.Time) (int, error) {
	removed, err := s.store.PurgeExpiredNations(now)
	if err != nil {
		return 0, err
	}
	if removed > 0 {
		s.store.AddAudit(AuditEntry{Time: now, Actor: "system", Action: "purge_expired", Note: strconv.Itoa(removed)})
		s.logger.Info().Int("removed", removed).Msg("purged expired nations")
	}
	return removed, nil
}

func actorOf(v Viewer) string {
	if v.UserID != "" {
		return v.UserID
	}
	return "session:" + v.SessionID
}

func (s *NationService) publish(ev NationEvent) {
	if s.events == nil {
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), s.publishTimeout)
	defer cancel()
	if err := s.events.Publish(ctx, ev); err != nil {
		s.logger.Warn().Err(err).Str("event", string(ev.Type)).Str("nation", ev.NationID).Msg("publish nation event")
	}
}
