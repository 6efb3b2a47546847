package services

import (
	"encoding/base64"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/nationbuilder/nationbuilder/internal/models"
)

// maxShareLinkLen bounds decoded input; a full assessment encodes well below it.
const maxShareLinkLen = 16 << 10

// SharePayload is the state carried inside a share link.
type SharePayload struct {
	Name           string                 `json:"name"`
	Data           models.AssessmentData  `json:"assessmentData"`
	CustomPolicies *models.CustomPolicies `json:"customPolicies,omitempty"`
	CreatedAt      time.Time              `json:"createdAt"`
}

// EncodeShareLink serializes a nation into an opaque URL-safe string.
func EncodeShareLink(n *models.SavedNation) (string, error) {
	p := SharePayload{Name: n.Name, Data: n.Data, CustomPolicies: n.CustomPolicies, CreatedAt: n.CreatedAt.UTC()}
	b, err := json.Marshal(p)
	if err != nil {
		return "", fmt.Errorf("encode share link: %w", err)
	}
	return base64.RawURLEncoding.EncodeToString(b), nil
}

// DecodeShareLink parses a string produced by EncodeShareLink. Every failure
// wraps ErrShareLinkInvalid.
func DecodeShareLink(s string) (*SharePayload, error) {
	s = strings.TrimSpace(s)
	if s == "" || len(s) > maxShareLinkLen {
		return nil, wrapInvalid(ErrShareLinkInvalid)
	}
	raw, err := base64.RawURLEncoding.DecodeString(strings.TrimRight(s, "="))
	if err != nil {
		return nil, wrapInvalid(ErrShareLinkInvalid)
	}
	var p SharePayload
	if err := json.Unmarshal(raw, &p); err != nil {
		return nil, wrapInvalid(ErrShareLinkInvalid)
	}
	p.Data = p.Data.Normalize()
	return &p, nil
}

// ComparisonNation turns a decoded payload into a comparison entry of kind shared.
func (p *SharePayload) ComparisonNation() ComparisonNation {
	name := p.Name
	if strings.TrimSpace(name) == "" {
		name = "Shared nation"
	}
	return ComparisonNation{Kind: KindShared, Source: "sharelink", Name: name, Data: p.Data, CustomPolicies: p.CustomPolicies}
}
