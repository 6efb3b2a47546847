package db

import (
	"context"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/jmoiron/sqlx"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nationbuilder/nationbuilder/internal/config"
	"github.com/nationbuilder/nationbuilder/internal/models"
	"github.com/nationbuilder/nationbuilder/internal/services"
)

func newTestStore(t *testing.T) *SQLStore {
	t.Helper()
	conn, err := Open(config.DatabaseConfig{Driver: "sqlite", DSN: ":memory:"})
	require.NoError(t, err)
	t.Cleanup(func() { _ = conn.Close() })
	applied, err := RunMigrations(conn, "")
	require.NoError(t, err)
	require.Equal(t, []string{"001_init.sql"}, applied)
	return NewSQLStore(conn, zerolog.Nop())
}

func sampleNation(id string) *models.SavedNation {
	created := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	return &models.SavedNation{
		ID:        id,
		Name:      "Aurora",
		OwnerID:   "u1",
		CreatedAt: created,
		UpdatedAt: created,
		Data: models.AssessmentData{
			Population:         1_000_000,
			Territory:          20_000,
			Resources:          6,
			Climate:            []string{"Temperate"},
			Languages:          2,
			ReligiousDiversity: 3,
			EducationLevel:     7,
			TechnologyLevel:    8,
			Location:           models.LocationEarth,
			EconomicModel:      models.EconomyMixed,
			PoliticalStructure: models.PoliticsRepresentativeDemocracy,
			SocialOrganization: []string{models.SocialIndividualist},
		},
	}
}

func TestMigrationsAreIdempotent(t *testing.T) {
	s := newTestStore(t)
	again, err := RunMigrations(s.DB(), "")
	require.NoError(t, err)
	assert.Empty(t, again)
}

func TestNationRoundTrip(t *testing.T) {
	s := newTestStore(t)
	n := sampleNation("n1")
	n.CustomPolicies = &models.CustomPolicies{Ethical: "No surveillance"}
	require.NoError(t, s.InsertNation(n))

	got, err := s.GetNation("n1")
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, "Aurora", got.Name)
	assert.Equal(t, n.Data.Location, got.Data.Location)
	assert.Equal(t, []string{"Temperate"}, got.Data.Climate)
	assert.True(t, got.CreatedAt.Equal(n.CreatedAt))
	assert.Nil(t, got.ExpiresAt)
	require.NotNil(t, got.CustomPolicies)
	assert.Equal(t, "No surveillance", got.CustomPolicies.Ethical)

	missing, err := s.GetNation("nope")
	require.NoError(t, err)
	assert.Nil(t, missing)
}

func TestUpdateAndShareToken(t *testing.T) {
	s := newTestStore(t)
	n := sampleNation("n1")
	require.NoError(t, s.InsertNation(n))

	n.IsPublic = true
	n.ShareToken = "tok-1"
	require.NoError(t, s.UpdateNation(n))

	got, err := s.GetNationByShareToken("tok-1")
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.True(t, got.IsPublic)

	none, err := s.GetNationByShareToken("")
	require.NoError(t, err)
	assert.Nil(t, none)

	assert.Error(t, s.UpdateNation(sampleNation("ghost")))
}

func TestCountAndListSkipDeleted(t *testing.T) {
	s := newTestStore(t)
	require.NoError(t, s.InsertNation(sampleNation("n1")))
	require.NoError(t, s.InsertNation(sampleNation("n2")))
	gone := sampleNation("n3")
	deleted := gone.CreatedAt.Add(time.Hour)
	gone.DeletedAt = &deleted
	require.NoError(t, s.InsertNation(gone))

	count, err := s.CountNationsByOwner("u1")
	require.NoError(t, err)
	assert.Equal(t, 2, count)

	list, err := s.ListNationsByOwner("u1")
	require.NoError(t, err)
	assert.Len(t, list, 2)
}

func TestPurgeExpiredNations(t *testing.T) {
	s := newTestStore(t)
	now := time.Date(2026, 3, 2, 12, 0, 0, 0, time.UTC)

	expired := sampleNation("old")
	expired.OwnerID = ""
	expired.SessionID = "sess"
	expired.IsTemporary = true
	past := now.Add(-time.Second)
	expired.ExpiresAt = &past

	edge := sampleNation("edge")
	edge.OwnerID = ""
	edge.IsTemporary = true
	edge.ExpiresAt = &now

	fresh := sampleNation("fresh")
	fresh.OwnerID = ""
	fresh.IsTemporary = true
	later := now.Add(time.Millisecond)
	fresh.ExpiresAt = &later

	for _, n := range []*models.SavedNation{expired, edge, fresh, sampleNation("saved")} {
		require.NoError(t, s.InsertNation(n))
	}

	removed, err := s.PurgeExpiredNations(now)
	require.NoError(t, err)
	assert.Equal(t, 2, removed)

	left, err := s.GetNation("fresh")
	require.NoError(t, err)
	assert.NotNil(t, left)
}

func TestUsersAndSubscriptions(t *testing.T) {
	s := newTestStore(t)
	u := &services.User{ID: "u1", Email: "ada@example.com", DisplayName: "ada", PassHash: []byte("$2a$hash"), CreatedAt: time.Now()}
	require.NoError(t, s.AddUser(u))
	assert.Error(t, s.AddUser(&services.User{ID: "u2", Email: "ada@example.com", DisplayName: "dup"}))

	got, err := s.FindUserByEmail(" ADA@example.com ")
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, []byte("$2a$hash"), got.PassHash)

	sub, err := s.GetSubscription("u1")
	require.NoError(t, err)
	assert.Nil(t, sub)

	require.NoError(t, s.UpsertSubscription(&services.Subscription{UserID: "u1", Tier: services.TierPremium, UpdatedAt: time.Now()}))
	require.NoError(t, s.UpsertSubscription(&services.Subscription{UserID: "u1", Tier: services.TierFree, UpdatedAt: time.Now()}))
	sub, err = s.GetSubscription("u1")
	require.NoError(t, err)
	assert.Equal(t, services.TierFree, sub.Tier)
}

func TestLeaderboardRecordsOnlyPublicSaved(t *testing.T) {
	s := newTestStore(t)
	require.NoError(t, s.AddUser(&services.User{ID: "u1", Email: "ada@example.com", DisplayName: "Ada", PassHash: []byte("x"), CreatedAt: time.Now()}))

	public := sampleNation("pub")
	public.IsPublic = true
	private := sampleNation("priv")
	temp := sampleNation("tmp")
	temp.IsPublic = true
	temp.IsTemporary = true
	for _, n := range []*models.SavedNation{public, private, temp} {
		require.NoError(t, s.InsertNation(n))
	}

	recs, err := s.ListLeaderboardRecords(context.Background())
	require.NoError(t, err)
	require.Len(t, recs, 1)
	assert.Equal(t, "pub", recs[0].ID)
	assert.Equal(t, "Ada", recs[0].DisplayName)
}

func TestAuditTrail(t *testing.T) {
	s := newTestStore(t)
	s.AddAudit(services.AuditEntry{Time: time.Now(), Actor: "u1", Action: "publish_nation", Target: "n1"})
	entries, err := s.ListAudit(10)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, "publish_nation", entries[0].Action)
}

func TestPostgresPlaceholdersAndErrors(t *testing.T) {
	mockDB, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer mockDB.Close()
	s := NewSQLStore(sqlx.NewDb(mockDB, "postgres"), zerolog.Nop())

	mock.ExpectQuery(regexp.QuoteMeta(`FROM subscriptions WHERE user_id = $1`)).
		WithArgs("u1").
		WillReturnRows(sqlmock.NewRows([]string{"user_id", "tier", "updated_at"}).
			AddRow("u1", "premium", "2026-03-01T00:00:00.000000000Z"))
	sub, err := s.GetSubscription("u1")
	require.NoError(t, err)
	assert.Equal(t, services.TierPremium, sub.Tier)
	assert.Equal(t, 2026, sub.UpdatedAt.Year())

	mock.ExpectExec(regexp.QuoteMeta(`DELETE FROM nations`)).
		WillReturnError(assert.AnError)
	_, err = s.PurgeExpiredNations(time.Now())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "purge nations")

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestOpenRejectsUnknownDriver(t *testing.T) {
	_, err := Open(config.DatabaseConfig{Driver: "oracle", DSN: "x"})
	assert.Error(t, err)
}
