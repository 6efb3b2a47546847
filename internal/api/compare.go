package api

import (
	"fmt"
	"net/http"
	"strings"

	"github.com/nationbuilder/nationbuilder/internal/models"
	"github.com/nationbuilder/nationbuilder/internal/services"
)

// compareRef names one comparison entry. Exactly one of NationID,
// ArchetypeID, ShareLink or AssessmentData must be set.
type compareRef struct {
	NationID       string                 `json:"nationId,omitempty"`
	ArchetypeID    string                 `json:"archetypeId,omitempty"`
	ShareLink      string                 `json:"shareLink,omitempty"`
	Name           string                 `json:"name,omitempty"`
	AssessmentData *models.AssessmentData `json:"assessmentData,omitempty"`
	CustomPolicies *models.CustomPolicies `json:"customPolicies,omitempty"`
}

type compareRequest struct {
	Nations []compareRef `json:"nations"`
}

func (rt *Router) resolve(r *http.Request, req compareRequest) ([]services.ComparisonNation, error) {
	if err := services.CheckComparisonSize(len(req.Nations)); err != nil {
		return nil, err
	}
	out := make([]services.ComparisonNation, 0, len(req.Nations))
	for i, ref := range req.Nations {
		cn, err := rt.resolveOne(r, ref)
		if err != nil {
			if se, ok := services.AsServiceError(err); ok {
				return nil, &services.ServiceError{Code: se.Code, Message: fmt.Sprintf("nation %d: %s", i+1, se.Message), Err: err}
			}
			return nil, err
		}
		out = append(out, cn)
	}
	return out, nil
}

func (rt *Router) resolveOne(r *http.Request, ref compareRef) (services.ComparisonNation, error) {
	set := 0
	for _, ok := range []bool{ref.NationID != "", ref.ArchetypeID != "", ref.ShareLink != "", ref.AssessmentData != nil} {
		if ok {
			set++
		}
	}
	if set != 1 {
		return services.ComparisonNation{}, services.NewInvalidError("set exactly one of nationId, archetypeId, shareLink or assessmentData")
	}

	var cn services.ComparisonNation
	switch {
	case ref.NationID != "":
		var err error
		if cn, err = rt.svc.Nations.ComparisonNation(viewer(r), ref.NationID); err != nil {
			return cn, err
		}
	case ref.ArchetypeID != "":
		a, ok := services.FindArchetype(ref.ArchetypeID)
		if !ok {
			return cn, services.NewNotFoundError("archetype not found")
		}
		cn = a.ComparisonNation()
	case ref.ShareLink != "":
		p, err := services.DecodeShareLink(ref.ShareLink)
		if err != nil {
			return cn, err
		}
		cn = p.ComparisonNation()
	default:
		cn = services.ComparisonNation{Kind: services.KindUser, Source: "inline", Data: *ref.AssessmentData, CustomPolicies: ref.CustomPolicies}
	}
	if name := strings.TrimSpace(ref.Name); name != "" {
		cn.Name = name
	}
	return cn, nil
}

// POST /api/compare {nations: [...]}
func (rt *Router) handleCompare(w http.ResponseWriter, r *http.Request) {
	var req compareRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, r, rt.logger, err)
		return
	}
	nations, err := rt.resolve(r, req)
	if err != nil {
		writeError(w, r, rt.logger, err)
		return
	}
	cmp, err := rt.svc.Compare.Compare(nations)
	if err != nil {
		writeError(w, r, rt.logger, err)
		return
	}
	rt.served("json")
	writeJSON(w, http.StatusOK, cmp)
}

// POST /api/compare/report?format=text|csv {nations: [...]}
func (rt *Router) handleCompareReport(w http.ResponseWriter, r *http.Request) {
	var req compareRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, r, rt.logger, err)
		return
	}
	nations, err := rt.resolve(r, req)
	if err != nil {
		writeError(w, r, rt.logger, err)
		return
	}
	format := r.URL.Query().Get("format")
	res, err := rt.svc.Compare.Export(nations, format)
	if err != nil {
		writeError(w, r, rt.logger, err)
		return
	}
	if format == "" {
		format = "text"
	}
	rt.served(strings.ToLower(format))
	w.Header().Set("Content-Type", res.ContentType)
	w.Header().Set("Content-Disposition", `attachment; filename="`+res.Filename+`"`)
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(res.Data)
}

func (rt *Router) served(format string) {
	if rt.recorder != nil {
		rt.recorder.ComparisonServed(format)
	}
}
