package api

import (
	"net/http"
	"time"

	"github.com/gorilla/mux"

	"github.com/nationbuilder/nationbuilder/internal/middleware"
	"github.com/nationbuilder/nationbuilder/internal/models"
	"github.com/nationbuilder/nationbuilder/internal/services"
)

type nationView struct {
	ID             string                 `json:"id"`
	Name           string                 `json:"name"`
	OwnerID        string                 `json:"ownerId,omitempty"`
	IsTemporary    bool                   `json:"isTemporary"`
	IsPublic       bool                   `json:"isPublic"`
	ShareToken     string                 `json:"shareToken,omitempty"`
	Data           models.AssessmentData  `json:"assessmentData"`
	CustomPolicies *models.CustomPolicies `json:"customPolicies,omitempty"`
	CreatedAt      time.Time              `json:"createdAt"`
	UpdatedAt      time.Time              `json:"updatedAt"`
	ExpiresAt      *time.Time             `json:"expiresAt,omitempty"`
	Analysis       *services.Analysis     `json:"analysis,omitempty"`
}

// toView renders n. Drafts that cannot be scored yet carry no analysis.
func (rt *Router) toView(n *models.SavedNation, withAnalysis bool) nationView {
	v := nationView{
		ID:             n.ID,
		Name:           n.Name,
		OwnerID:        n.OwnerID,
		IsTemporary:    n.IsTemporary,
		IsPublic:       n.IsPublic,
		ShareToken:     n.ShareToken,
		Data:           n.Data,
		CustomPolicies: n.CustomPolicies,
		CreatedAt:      n.CreatedAt,
		UpdatedAt:      n.UpdatedAt,
		ExpiresAt:      n.ExpiresAt,
	}
	if withAnalysis && rt.svc.Analysis != nil {
		if a, err := rt.svc.Analysis.Analyze(n.Data); err == nil {
			v.Analysis = a
		}
	}
	return v
}

// POST /api/nations: store a completed assessment against the session.
func (rt *Router) handleCreateNation(w http.ResponseWriter, r *http.Request) {
	var in services.NationInput
	if err := decodeJSON(w, r, &in); err != nil {
		writeError(w, r, rt.logger, err)
		return
	}
	n, err := rt.svc.Nations.CreateTemporary(middleware.SessionIDFromContext(r.Context()), in)
	if err != nil {
		writeError(w, r, rt.logger, err)
		return
	}
	writeJSON(w, http.StatusCreated, rt.toView(n, true))
}

// GET /api/nations
func (rt *Router) handleListNations(w http.ResponseWriter, r *http.Request) {
	uid, _ := middleware.UserIDFromContext(r.Context())
	list, err := rt.svc.Nations.ListByOwner(uid)
	if err != nil {
		writeError(w, r, rt.logger, err)
		return
	}
	out := make([]nationView, 0, len(list))
	for _, n := range list {
		out = append(out, rt.toView(n, false))
	}
	writeJSON(w, http.StatusOK, map[string]any{"nations": out})
}

// GET /api/nations/{id}
func (rt *Router) handleGetNation(w http.ResponseWriter, r *http.Request) {
	v := viewer(r)
	n, err := rt.svc.Nations.Get(v, mux.Vars(r)["id"])
	if err != nil {
		writeError(w, r, rt.logger, err)
		return
	}
	view := rt.toView(n, true)
	if v.UserID == "" || v.UserID != n.OwnerID {
		view.OwnerID = ""
	}
	writeJSON(w, http.StatusOK, view)
}

// PUT /api/nations/{id}
func (rt *Router) handleUpdateNation(w http.ResponseWriter, r *http.Request) {
	var in services.NationInput
	if err := decodeJSON(w, r, &in); err != nil {
		writeError(w, r, rt.logger, err)
		return
	}
	n, err := rt.svc.Nations.Update(viewer(r), mux.Vars(r)["id"], in)
	if err != nil {
		writeError(w, r, rt.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, rt.toView(n, true))
}

// DELETE /api/nations/{id}
func (rt *Router) handleDeleteNation(w http.ResponseWriter, r *http.Request) {
	if err := rt.svc.Nations.SoftDelete(viewer(r), mux.Vars(r)["id"]); err != nil {
		writeError(w, r, rt.logger, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// POST /api/nations/{id}/promote {name?}
func (rt *Router) handlePromote(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Name string `json:"name"`
	}
	if r.ContentLength != 0 {
		if err := decodeJSON(w, r, &req); err != nil {
			writeError(w, r, rt.logger, err)
			return
		}
	}
	v := viewer(r)
	n, err := rt.svc.Nations.Promote(v.UserID, v.SessionID, mux.Vars(r)["id"], req.Name)
	if err != nil {
		writeError(w, r, rt.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, rt.toView(n, false))
}

// POST /api/nations/{id}/publish {public}
func (rt *Router) handlePublish(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Public *bool `json:"public"`
	}
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, r, rt.logger, err)
		return
	}
	if req.Public == nil {
		writeError(w, r, rt.logger, services.NewInvalidError("public required"))
		return
	}
	uid, _ := middleware.UserIDFromContext(r.Context())
	n, err := rt.svc.Nations.Publish(uid, mux.Vars(r)["id"], *req.Public)
	if err != nil {
		writeError(w, r, rt.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, rt.toView(n, false))
}

// GET /api/nations/{id}/sharelink
func (rt *Router) handleShareLink(w http.ResponseWriter, r *http.Request) {
	link, err := rt.svc.Nations.ShareLink(viewer(r), mux.Vars(r)["id"])
	if err != nil {
		writeError(w, r, rt.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"shareLink": link})
}

// GET /api/shared/{token}
func (rt *Router) handleShared(w http.ResponseWriter, r *http.Request) {
	n, err := rt.svc.Nations.GetShared(mux.Vars(r)["token"])
	if err != nil {
		writeError(w, r, rt.logger, err)
		return
	}
	v := rt.toView(n, true)
	v.OwnerID = ""
	writeJSON(w, http.StatusOK, v)
}

// POST /api/sharelink/decode {shareLink}
func (rt *Router) handleDecodeShareLink(w http.ResponseWriter, r *http.Request) {
	var req struct {
		ShareLink string `json:"shareLink"`
	}
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, r, rt.logger, err)
		return
	}
	p, err := services.DecodeShareLink(req.ShareLink)
	if err != nil {
		writeError(w, r, rt.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, p)
}
