package api

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gorilla/mux"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nationbuilder/nationbuilder/internal/middleware"
	"github.com/nationbuilder/nationbuilder/internal/services"
)

const (
	sessionA = "6f1c2a1e-8a55-4c0b-9a44-3f0d3f1d2b01"
	sessionB = "0b7e0d2c-51a2-4f4e-8d0c-8a3f9a6e4c22"
)

type testServer struct {
	handler http.Handler
	subs    *services.SubscriptionService
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()
	backend := NewMemoryBackend()
	subs := services.NewSubscriptionService(backend.Subscriptions)
	catalog := services.ArchetypeCatalog()
	svc := Services{
		Auth:          services.NewAuthService(backend.Users, middleware.SignToken),
		Analysis:      services.NewAnalysisService(catalog),
		Nations:       services.NewNationService(backend.Nations, subs),
		Compare:       services.NewCompareService(catalog),
		Leaderboard:   services.NewLeaderboardService(backend.Leaderboard, subs),
		Subscriptions: subs,
	}
	r := mux.NewRouter()
	NewRouter(svc).Register(r)
	return &testServer{handler: r, subs: subs}
}

type call struct {
	method, path, session, token string
	body                         any
}

func (ts *testServer) do(t *testing.T, c call) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if c.body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(c.body))
	}
	req := httptest.NewRequest(c.method, c.path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if c.session != "" {
		req.Header.Set(middleware.SessionHeader, c.session)
	}
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}
	rec := httptest.NewRecorder()
	ts.handler.ServeHTTP(rec, req)
	return rec
}

func decode(t *testing.T, rec *httptest.ResponseRecorder, v any) {
	t.Helper()
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), v))
}

func assessment() map[string]any {
	return map[string]any{
		"population":         2000000,
		"territory":          50000,
		"resources":          6,
		"climate":            []string{"Temperate"},
		"languages":          2,
		"religiousDiversity": 4,
		"educationLevel":     8,
		"technologyLevel":    7,
		"location":           "Earth-based",
		"economicModel":      "Mixed economy",
		"politicalStructure": "Representative democracy",
		"socialOrganization": []string{"Egalitarian"},
		"healthcare":         []string{"Universal access"},
	}
}

func (ts *testServer) register(t *testing.T, email string) string {
	t.Helper()
	rec := ts.do(t, call{method: http.MethodPost, path: "/api/auth/register", body: map[string]string{
		"email": email, "password": "correct-horse", "displayName": strings.Split(email, "@")[0],
	}})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	var res services.AuthResult
	decode(t, rec, &res)
	require.NotEmpty(t, res.Token)
	return res.Token
}

func (ts *testServer) createNation(t *testing.T, session, name string) nationView {
	t.Helper()
	rec := ts.do(t, call{method: http.MethodPost, path: "/api/nations", session: session, body: map[string]any{
		"name": name, "assessmentData": assessment(),
	}})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	var v nationView
	decode(t, rec, &v)
	return v
}

func TestRegisterAndLogin(t *testing.T) {
	ts := newTestServer(t)
	ts.register(t, "ada@example.com")

	dup := ts.do(t, call{method: http.MethodPost, path: "/api/auth/register", body: map[string]string{"email": "ada@example.com", "password": "another-pass"}})
	assert.Equal(t, http.StatusConflict, dup.Code)

	bad := ts.do(t, call{method: http.MethodPost, path: "/api/auth/login", body: map[string]string{"email": "ada@example.com", "password": "wrong-password"}})
	assert.Equal(t, http.StatusUnauthorized, bad.Code)
	var body errorBody
	decode(t, bad, &body)
	assert.Equal(t, "unauthorized", body.Error)

	ok := ts.do(t, call{method: http.MethodPost, path: "/api/auth/login", body: map[string]string{"email": "ADA@example.com", "password": "correct-horse"}})
	assert.Equal(t, http.StatusOK, ok.Code)
}

func TestAnalysisRejectsIncomplete(t *testing.T) {
	ts := newTestServer(t)
	data := assessment()
	delete(data, "location")
	rec := ts.do(t, call{method: http.MethodPost, path: "/api/analysis", body: map[string]any{"assessmentData": data}})
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = ts.do(t, call{method: http.MethodPost, path: "/api/analysis", body: map[string]any{"assessmentData": assessment()}})
	require.Equal(t, http.StatusOK, rec.Code)
	var a services.Analysis
	decode(t, rec, &a)
	assert.NotEmpty(t, a.Quadrant)
	assert.NotNil(t, a.MostOpposite)
}

func TestTemporaryNationIsSessionScoped(t *testing.T) {
	ts := newTestServer(t)
	n := ts.createNation(t, sessionA, "Aurora")
	assert.True(t, n.IsTemporary)
	assert.NotNil(t, n.ExpiresAt)
	assert.NotNil(t, n.Analysis)

	own := ts.do(t, call{method: http.MethodGet, path: "/api/nations/" + n.ID, session: sessionA})
	assert.Equal(t, http.StatusOK, own.Code)

	other := ts.do(t, call{method: http.MethodGet, path: "/api/nations/" + n.ID, session: sessionB})
	assert.Equal(t, http.StatusNotFound, other.Code)
}

func TestPromotePublishAndLeaderboard(t *testing.T) {
	ts := newTestServer(t)
	token := ts.register(t, "ada@example.com")
	n := ts.createNation(t, sessionA, "Aurora")

	anon := ts.do(t, call{method: http.MethodPost, path: "/api/nations/" + n.ID + "/promote", session: sessionA})
	assert.Equal(t, http.StatusUnauthorized, anon.Code)

	wrongSession := ts.do(t, call{method: http.MethodPost, path: "/api/nations/" + n.ID + "/promote", session: sessionB, token: token})
	assert.Equal(t, http.StatusForbidden, wrongSession.Code)

	promoted := ts.do(t, call{method: http.MethodPost, path: "/api/nations/" + n.ID + "/promote", session: sessionA, token: token,
		body: map[string]string{"name": "Aurora Prime"}})
	require.Equal(t, http.StatusOK, promoted.Code, promoted.Body.String())
	var pv nationView
	decode(t, promoted, &pv)
	assert.False(t, pv.IsTemporary)
	assert.Equal(t, "Aurora Prime", pv.Name)

	list := ts.do(t, call{method: http.MethodGet, path: "/api/nations", token: token})
	require.Equal(t, http.StatusOK, list.Code)
	var listed struct {
		Nations []nationView `json:"nations"`
	}
	decode(t, list, &listed)
	assert.Len(t, listed.Nations, 1)

	empty := ts.do(t, call{method: http.MethodGet, path: "/api/leaderboard"})
	require.Equal(t, http.StatusOK, empty.Code)
	var board services.Leaderboard
	decode(t, empty, &board)
	assert.Empty(t, board.Utopian)

	pub := ts.do(t, call{method: http.MethodPost, path: "/api/nations/" + n.ID + "/publish", token: token, body: map[string]bool{"public": true}})
	require.Equal(t, http.StatusOK, pub.Code, pub.Body.String())
	var published nationView
	decode(t, pub, &published)
	require.NotEmpty(t, published.ShareToken)

	lb := ts.do(t, call{method: http.MethodGet, path: "/api/leaderboard?view=default"})
	require.Equal(t, http.StatusOK, lb.Code)
	decode(t, lb, &board)
	require.Len(t, board.Utopian, 1)
	assert.Equal(t, "Aurora Prime", board.Utopian[0].Name)
	assert.Equal(t, "ada", board.Utopian[0].DisplayName)
	assert.Empty(t, board.Martian)

	expanded := ts.do(t, call{method: http.MethodGet, path: "/api/leaderboard?view=expanded", token: token})
	assert.Equal(t, http.StatusPaymentRequired, expanded.Code)

	shared := ts.do(t, call{method: http.MethodGet, path: "/api/shared/" + published.ShareToken})
	require.Equal(t, http.StatusOK, shared.Code)
	var sv nationView
	decode(t, shared, &sv)
	assert.Empty(t, sv.OwnerID)

	stranger := ts.do(t, call{method: http.MethodGet, path: "/api/nations/" + n.ID, session: sessionB})
	require.Equal(t, http.StatusOK, stranger.Code)
	var seen nationView
	decode(t, stranger, &seen)
	assert.Empty(t, seen.OwnerID)

	mine := ts.do(t, call{method: http.MethodGet, path: "/api/nations/" + n.ID, token: token})
	require.Equal(t, http.StatusOK, mine.Code)
	decode(t, mine, &seen)
	assert.NotEmpty(t, seen.OwnerID)
}

func TestDeleteHidesNation(t *testing.T) {
	ts := newTestServer(t)
	n := ts.createNation(t, sessionA, "Aurora")

	denied := ts.do(t, call{method: http.MethodDelete, path: "/api/nations/" + n.ID, session: sessionB})
	assert.NotEqual(t, http.StatusNoContent, denied.Code)

	del := ts.do(t, call{method: http.MethodDelete, path: "/api/nations/" + n.ID, session: sessionA})
	require.Equal(t, http.StatusNoContent, del.Code)

	gone := ts.do(t, call{method: http.MethodGet, path: "/api/nations/" + n.ID, session: sessionA})
	assert.Equal(t, http.StatusNotFound, gone.Code)
}

func TestCompareResolvesReferences(t *testing.T) {
	ts := newTestServer(t)
	n := ts.createNation(t, sessionA, "Aurora")

	linkRec := ts.do(t, call{method: http.MethodGet, path: "/api/nations/" + n.ID + "/sharelink", session: sessionA})
	require.Equal(t, http.StatusOK, linkRec.Code)
	var link map[string]string
	decode(t, linkRec, &link)

	rec := ts.do(t, call{method: http.MethodPost, path: "/api/compare", session: sessionA, body: map[string]any{
		"nations": []map[string]any{
			{"nationId": n.ID},
			{"archetypeId": "nordic"},
			{"shareLink": link["shareLink"], "name": "From link"},
		},
	}})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	var cmp services.Comparison
	decode(t, rec, &cmp)
	require.Len(t, cmp.Nations, 3)
	assert.Equal(t, services.KindUser, cmp.Nations[0].Kind)
	assert.Equal(t, services.KindArchetype, cmp.Nations[1].Kind)
	assert.Equal(t, services.KindShared, cmp.Nations[2].Kind)
	assert.Equal(t, "From link", cmp.Nations[2].Name)
	assert.Len(t, cmp.Rows, 9)
}

func TestCompareRejectsFourNations(t *testing.T) {
	ts := newTestServer(t)
	refs := make([]map[string]any, 4)
	for i := range refs {
		refs[i] = map[string]any{"assessmentData": assessment()}
	}
	rec := ts.do(t, call{method: http.MethodPost, path: "/api/compare", body: map[string]any{"nations": refs}})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	var body errorBody
	decode(t, rec, &body)
	assert.Equal(t, "invalid", body.Error)
	assert.Contains(t, body.Message, "at most 3")
}

func TestCompareRefNeedsExactlyOneSource(t *testing.T) {
	ts := newTestServer(t)
	rec := ts.do(t, call{method: http.MethodPost, path: "/api/compare", body: map[string]any{
		"nations": []map[string]any{{"archetypeId": "nordic", "shareLink": "abc"}},
	}})
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	missing := ts.do(t, call{method: http.MethodPost, path: "/api/compare", body: map[string]any{
		"nations": []map[string]any{{"archetypeId": "atlantis-nope"}},
	}})
	assert.Equal(t, http.StatusNotFound, missing.Code)
}

func TestCompareReportCSV(t *testing.T) {
	ts := newTestServer(t)
	rec := ts.do(t, call{method: http.MethodPost, path: "/api/compare/report?format=csv", body: map[string]any{
		"nations": []map[string]any{
			{"name": "Inline", "assessmentData": assessment()},
			{"archetypeId": "nordic"},
		},
	}})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.Contains(t, rec.Header().Get("Content-Type"), "text/csv")
	assert.Contains(t, rec.Header().Get("Content-Disposition"), "nation-comparison.csv")
	assert.True(t, strings.HasPrefix(rec.Body.String(), "metric,Inline,"))

	bad := ts.do(t, call{method: http.MethodPost, path: "/api/compare/report?format=pdf", body: map[string]any{
		"nations": []map[string]any{{"archetypeId": "nordic"}},
	}})
	assert.Equal(t, http.StatusBadRequest, bad.Code)
}

func TestDecodeShareLinkEndpoint(t *testing.T) {
	ts := newTestServer(t)
	rec := ts.do(t, call{method: http.MethodPost, path: "/api/sharelink/decode", body: map[string]string{"shareLink": "%%%"}})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestArchetypesAndSubscription(t *testing.T) {
	ts := newTestServer(t)
	rec := ts.do(t, call{method: http.MethodGet, path: "/api/archetypes"})
	require.Equal(t, http.StatusOK, rec.Code)
	var out struct {
		Archetypes []services.Archetype `json:"archetypes"`
	}
	decode(t, rec, &out)
	assert.Len(t, out.Archetypes, 7)

	token := ts.register(t, "ada@example.com")
	sub := ts.do(t, call{method: http.MethodGet, path: "/api/subscription", token: token})
	require.Equal(t, http.StatusOK, sub.Code)
	assert.Contains(t, sub.Body.String(), `"tier":"free"`)
}

func TestSessionCookieIsMinted(t *testing.T) {
	ts := newTestServer(t)
	rec := ts.do(t, call{method: http.MethodGet, path: "/api/archetypes"})
	assert.NotEmpty(t, rec.Header().Get(middleware.SessionHeader))
}
