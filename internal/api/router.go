package api

import (
	"net/http"

	"github.com/gorilla/mux"
	"github.com/rs/zerolog"

	"github.com/nationbuilder/nationbuilder/internal/middleware"
	"github.com/nationbuilder/nationbuilder/internal/services"
)

// Services are the domain services the handlers call into.
type Services struct {
	Auth          *services.AuthService
	Analysis      *services.AnalysisService
	Nations       *services.NationService
	Compare       *services.CompareService
	Leaderboard   *services.LeaderboardService
	Subscriptions *services.SubscriptionService
}

// ComparisonRecorder counts served comparisons by format.
type ComparisonRecorder interface {
	ComparisonServed(format string)
}

type Router struct {
	svc      Services
	logger   zerolog.Logger
	limiter  *middleware.RateLimiter
	recorder ComparisonRecorder
}

type Option func(*Router)

func WithLogger(l zerolog.Logger) Option { return func(rt *Router) { rt.logger = l } }

// WithRateLimiter throttles the write endpoints per client.
func WithRateLimiter(l *middleware.RateLimiter) Option {
	return func(rt *Router) { rt.limiter = l }
}

func WithComparisonRecorder(c ComparisonRecorder) Option {
	return func(rt *Router) { rt.recorder = c }
}

func NewRouter(svc Services, opts ...Option) *Router {
	rt := &Router{svc: svc, logger: zerolog.Nop()}
	for _, o := range opts {
		o(rt)
	}
	return rt
}

func (rt *Router) write(h http.HandlerFunc) http.Handler {
	if rt.limiter == nil {
		return h
	}
	return rt.limiter.Middleware(h)
}

func authed(h http.HandlerFunc) http.Handler { return middleware.RequireAuth(h) }

// Register mounts the /api routes on r.
func (rt *Router) Register(r *mux.Router) {
	api := r.PathPrefix("/api").Subrouter()
	api.Use(middleware.WithAuth, middleware.Session)

	api.Handle("/auth/register", rt.write(rt.handleRegister)).Methods(http.MethodPost)
	api.Handle("/auth/login", rt.write(rt.handleLogin)).Methods(http.MethodPost)
	api.Handle("/subscription", authed(rt.handleSubscription)).Methods(http.MethodGet)

	api.HandleFunc("/analysis", rt.handleAnalysis).Methods(http.MethodPost)
	api.HandleFunc("/archetypes", rt.handleArchetypes).Methods(http.MethodGet)

	api.Handle("/nations", rt.write(rt.handleCreateNation)).Methods(http.MethodPost)
	api.Handle("/nations", authed(rt.handleListNations)).Methods(http.MethodGet)
	api.HandleFunc("/nations/{id}", rt.handleGetNation).Methods(http.MethodGet)
	api.Handle("/nations/{id}", rt.write(rt.handleUpdateNation)).Methods(http.MethodPut)
	api.HandleFunc("/nations/{id}", rt.handleDeleteNation).Methods(http.MethodDelete)
	api.Handle("/nations/{id}/promote", authed(rt.handlePromote)).Methods(http.MethodPost)
	api.Handle("/nations/{id}/publish", authed(rt.handlePublish)).Methods(http.MethodPost)
	api.HandleFunc("/nations/{id}/sharelink", rt.handleShareLink).Methods(http.MethodGet)

	api.HandleFunc("/shared/{token}", rt.handleShared).Methods(http.MethodGet)
	api.HandleFunc("/sharelink/decode", rt.handleDecodeShareLink).Methods(http.MethodPost)

	api.HandleFunc("/compare", rt.handleCompare).Methods(http.MethodPost)
	api.HandleFunc("/compare/report", rt.handleCompareReport).Methods(http.MethodPost)

	api.HandleFunc("/leaderboard", rt.handleLeaderboard).Methods(http.MethodGet)
}

func viewer(r *http.Request) services.Viewer {
	uid, _ := middleware.UserIDFromContext(r.Context())
	return services.Viewer{UserID: uid, SessionID: middleware.SessionIDFromContext(r.Context())}
}

// POST /api/auth/register {email, password, displayName?}
func (rt *Router) handleRegister(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Email       string `json:"email"`
		Password    string `json:"password"`
		DisplayName string `json:"displayName"`
	}
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, r, rt.logger, err)
		return
	}
	res, err := rt.svc.Auth.Register(req.Email, req.Password, req.DisplayName)
	if err != nil {
		writeError(w, r, rt.logger, err)
		return
	}
	writeJSON(w, http.StatusCreated, res)
}

// POST /api/auth/login {email, password}
func (rt *Router) handleLogin(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Email    string `json:"email"`
		Password string `json:"password"`
	}
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, r, rt.logger, err)
		return
	}
	res, err := rt.svc.Auth.Login(req.Email, req.Password)
	if err != nil {
		writeError(w, r, rt.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, res)
}

// GET /api/subscription
func (rt *Router) handleSubscription(w http.ResponseWriter, r *http.Request) {
	uid, _ := middleware.UserIDFromContext(r.Context())
	tier, err := rt.svc.Subscriptions.Tier(uid)
	if err != nil {
		writeError(w, r, rt.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"tier": tier, "limits": services.LimitsFor(tier)})
}

// POST /api/analysis {assessment data}
func (rt *Router) handleAnalysis(w http.ResponseWriter, r *http.Request) {
	var in services.NationInput
	if err := decodeJSON(w, r, &in); err != nil {
		writeError(w, r, rt.logger, err)
		return
	}
	a, err := rt.svc.Analysis.Analyze(in.Data)
	if err != nil {
		writeError(w, r, rt.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, a)
}

// GET /api/archetypes
func (rt *Router) handleArchetypes(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{"archetypes": rt.svc.Analysis.Catalog()})
}

// GET /api/leaderboard?view=default|expanded
func (rt *Router) handleLeaderboard(w http.ResponseWriter, r *http.Request) {
	uid, _ := middleware.UserIDFromContext(r.Context())
	view := services.LeaderboardView(r.URL.Query().Get("view"))
	board, err := rt.svc.Leaderboard.Get(r.Context(), uid, view)
	if err != nil {
		writeError(w, r, rt.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, board)
}
