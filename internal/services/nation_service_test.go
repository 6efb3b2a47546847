package services

import (
	"context"
	"sort"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nationbuilder/nationbuilder/internal/models"
)

type nationStubStore struct {
	nations map[string]*models.SavedNation
	audit   []AuditEntry
}

func newNationStubStore() *nationStubStore {
	return &nationStubStore{nations: map[string]*models.SavedNation{}}
}

func (s *nationStubStore) InsertNation(n *models.SavedNation) error {
	cp := *n
	s.nations[n.ID] = &cp
	return nil
}

func (s *nationStubStore) GetNation(id string) (*models.SavedNation, error) {
	if n, ok := s.nations[id]; ok {
		cp := *n
		return &cp, nil
	}
	return nil, nil
}

func (s *nationStubStore) UpdateNation(n *models.SavedNation) error {
	cp := *n
	s.nations[n.ID] = &cp
	return nil
}

func (s *nationStubStore) ListNationsByOwner(ownerID string) ([]*models.SavedNation, error) {
	out := []*models.SavedNation{}
	for _, n := range s.nations {
		if n.OwnerID == ownerID {
			cp := *n
			out = append(out, &cp)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (s *nationStubStore) CountNationsByOwner(ownerID string) (int, error) {
	count := 0
	for _, n := range s.nations {
		if n.OwnerID == ownerID && n.DeletedAt == nil && !n.IsTemporary {
			count++
		}
	}
	return count, nil
}

func (s *nationStubStore) GetNationByShareToken(token string) (*models.SavedNation, error) {
	for _, n := range s.nations {
		if n.ShareToken == token {
			cp := *n
			return &cp, nil
		}
	}
	return nil, nil
}

func (s *nationStubStore) PurgeExpiredNations(now time.Time) (int, error) {
	removed := 0
	for id, n := range s.nations {
		if n.IsTemporary && n.ExpiresAt != nil && !now.Before(*n.ExpiresAt) {
			delete(s.nations, id)
			removed++
		}
	}
	return removed, nil
}

func (s *nationStubStore) AddAudit(entry AuditEntry) { s.audit = append(s.audit, entry) }

type recordingPublisher struct{ events []NationEvent }

func (p *recordingPublisher) Publish(ctx context.Context, ev NationEvent) error {
	p.events = append(p.events, ev)
	return nil
}

type nationFixture struct {
	svc    *NationService
	store  *nationStubStore
	events *recordingPublisher
	clock  *time.Time
}

func newNationFixture(tiers TierResolver) *nationFixture {
	store := newNationStubStore()
	pub := &recordingPublisher{}
	now := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	f := &nationFixture{store: store, events: pub, clock: &now}
	f.svc = NewNationService(store, tiers, WithEventPublisher(pub))
	f.svc.now = func() time.Time { return *f.clock }
	seq := 0
	f.svc.idGen = func() string {
		seq++
		return "n" + string(rune('0'+seq))
	}
	f.svc.tokenGen = func() string { return "share-token" }
	return f
}

func (f *nationFixture) advance(d time.Duration) { *f.clock = f.clock.Add(d) }

func TestNationLifecycle(t *testing.T) {
	f := newNationFixture(nil)
	anon := Viewer{SessionID: "s1"}

	n, err := f.svc.CreateTemporary("s1", NationInput{Name: "Aurora", Data: scenarioA()})
	require.NoError(t, err)
	assert.True(t, n.IsTemporary)
	require.NotNil(t, n.ExpiresAt)
	assert.Equal(t, f.clock.Add(DefaultTemporaryTTL), *n.ExpiresAt)

	_, err = f.svc.Get(Viewer{SessionID: "other"}, n.ID)
	assert.Error(t, err)
	got, err := f.svc.Get(anon, n.ID)
	require.NoError(t, err)
	assert.Equal(t, "Aurora", got.Name)

	_, err = f.svc.Promote("", "s1", n.ID, "")
	assertCode(t, err, ErrorUnauthorized)
	_, err = f.svc.Promote("u1", "s2", n.ID, "")
	assertCode(t, err, ErrorForbidden)

	saved, err := f.svc.Promote("u1", "s1", n.ID, "Aurora Prime")
	require.NoError(t, err)
	assert.False(t, saved.IsTemporary)
	assert.Nil(t, saved.ExpiresAt)
	assert.Equal(t, "u1", saved.OwnerID)
	assert.Equal(t, "Aurora Prime", saved.Name)

	owner := Viewer{UserID: "u1"}
	upd := scenarioB()
	_, err = f.svc.Update(Viewer{UserID: "u2"}, n.ID, NationInput{Data: upd})
	assertCode(t, err, ErrorForbidden)
	updated, err := f.svc.Update(owner, n.ID, NationInput{Data: upd, CustomPolicies: &models.CustomPolicies{Ethical: "No secrets"}})
	require.NoError(t, err)
	assert.Equal(t, models.LocationSpaceStation, updated.Data.Location)
	assert.Equal(t, "Aurora Prime", updated.Name)

	pub, err := f.svc.Publish("u1", n.ID, true)
	require.NoError(t, err)
	assert.True(t, pub.IsPublic)
	assert.Equal(t, "share-token", pub.ShareToken)

	shared, err := f.svc.GetShared("share-token")
	require.NoError(t, err)
	assert.Equal(t, n.ID, shared.ID)
	visible, err := f.svc.Get(Viewer{SessionID: "stranger"}, n.ID)
	require.NoError(t, err)
	assert.Equal(t, n.ID, visible.ID)

	list, err := f.svc.ListByOwner("u1")
	require.NoError(t, err)
	assert.Len(t, list, 1)

	require.NoError(t, f.svc.SoftDelete(owner, n.ID))
	_, err = f.svc.Get(owner, n.ID)
	assertCode(t, err, ErrorNotFound)
	_, err = f.svc.GetShared("share-token")
	assertCode(t, err, ErrorNotFound)
	list, err = f.svc.ListByOwner("u1")
	require.NoError(t, err)
	assert.Empty(t, list)

	types := []NationEventType{}
	for _, ev := range f.events.events {
		types = append(types, ev.Type)
	}
	assert.Equal(t, []NationEventType{
		EventNationCreated, EventNationPromoted, EventNationUpdated, EventNationPublished, EventNationDeleted,
	}, types)
	assert.Len(t, f.store.audit, 5)
}

func assertCode(t *testing.T, err error, code ErrorCode) {
	t.Helper()
	se, ok := AsServiceError(err)
	require.True(t, ok, "expected service error, got %v", err)
	assert.Equal(t, code, se.Code)
}

func TestCreateTemporaryRequiresCompleteAssessment(t *testing.T) {
	f := newNationFixture(nil)
	d := scenarioA()
	d.EconomicModel = ""
	_, err := f.svc.CreateTemporary("s1", NationInput{Data: d})
	assert.ErrorIs(t, err, ErrIncompleteAssessment)
	_, err = f.svc.CreateTemporary("", NationInput{Data: scenarioA()})
	assertCode(t, err, ErrorInvalid)
}

func TestTemporaryNationExpires(t *testing.T) {
	f := newNationFixture(nil)
	n, err := f.svc.CreateTemporary("s1", NationInput{Data: scenarioA()})
	require.NoError(t, err)

	f.advance(DefaultTemporaryTTL)
	_, err = f.svc.Get(Viewer{SessionID: "s1"}, n.ID)
	assertCode(t, err, ErrorNotFound)
	_, err = f.svc.Promote("u1", "s1", n.ID, "")
	assertCode(t, err, ErrorNotFound)

	removed, err := f.svc.PurgeExpired(*f.clock)
	require.NoError(t, err)
	assert.Equal(t, 1, removed)
	assert.Empty(t, f.store.nations)
}

func TestPromoteEnforcesTierLimit(t *testing.T) {
	f := newNationFixture(stubTiers{"premium-user": TierPremium})
	limit := LimitsFor(TierFree).MaxNations
	for i := 0; i < limit; i++ {
		n, err := f.svc.CreateTemporary("s1", NationInput{Data: scenarioA()})
		require.NoError(t, err)
		_, err = f.svc.Promote("u1", "s1", n.ID, "")
		require.NoError(t, err)
	}
	n, err := f.svc.CreateTemporary("s1", NationInput{Data: scenarioA()})
	require.NoError(t, err)
	_, err = f.svc.Promote("u1", "s1", n.ID, "")
	assertCode(t, err, ErrorPaymentRequired)

	_, err = f.svc.Promote("premium-user", "s1", n.ID, "")
	require.NoError(t, err)
}

func TestPublishRequiresSavedNation(t *testing.T) {
	f := newNationFixture(nil)
	n, err := f.svc.CreateTemporary("s1", NationInput{Data: scenarioA()})
	require.NoError(t, err)
	_, err = f.svc.Publish("u1", n.ID, true)
	assertCode(t, err, ErrorForbidden)
}

func TestComparisonNationFromSaved(t *testing.T) {
	f := newNationFixture(nil)
	n, err := f.svc.CreateTemporary("s1", NationInput{Name: "Aurora", Data: scenarioA()})
	require.NoError(t, err)
	cn, err := f.svc.ComparisonNation(Viewer{SessionID: "s1"}, n.ID)
	require.NoError(t, err)
	assert.Equal(t, KindUser, cn.Kind)
	assert.Equal(t, "Aurora", cn.Name)

	link, err := f.svc.ShareLink(Viewer{SessionID: "s1"}, n.ID)
	require.NoError(t, err)
	p, err := DecodeShareLink(link)
	require.NoError(t, err)
	assert.Equal(t, "Aurora", p.Name)
}

func TestUpdateRejectsIncompletePublishedNation(t *testing.T) {
	f := newNationFixture(nil)
	n, err := f.svc.CreateTemporary("s1", NationInput{Name: "Aurora", Data: scenarioA()})
	require.NoError(t, err)
	_, err = f.svc.Promote("u1", "s1", n.ID, "")
	require.NoError(t, err)
	_, err = f.svc.Publish("u1", n.ID, true)
	require.NoError(t, err)

	bad := scenarioA()
	bad.PoliticalStructure = ""
	bad.SocialOrganization = nil
	_, err = f.svc.Update(Viewer{UserID: "u1"}, n.ID, NationInput{Data: bad})
	assertCode(t, err, ErrorInvalid)
	assert.ErrorIs(t, err, ErrIncompleteAssessment)

	stored, err := f.store.GetNation(n.ID)
	require.NoError(t, err)
	assert.True(t, stored.Data.IsComplete())
	assert.True(t, stored.IsPublic)
}
