package models

import (
	"strings"
	"time"
)

// AssessmentData is the questionnaire answer set describing a nation.
// Treat values as immutable; callers replace the whole record on edit.
type AssessmentData struct {
	Population              int64    `json:"population" yaml:"population"`
	Territory               int64    `json:"territory" yaml:"territory"` // km²
	Resources               int      `json:"resources" yaml:"resources"`
	Climate                 []string `json:"climate" yaml:"climate"`
	Languages               int      `json:"languages" yaml:"languages"`
	ReligiousDiversity      int      `json:"religiousDiversity" yaml:"religiousDiversity"`
	EducationLevel          int      `json:"educationLevel" yaml:"educationLevel"`
	TechnologyLevel         int      `json:"technologyLevel" yaml:"technologyLevel"`
	Location                string   `json:"location" yaml:"location"`
	EnvironmentalChallenges []string `json:"environmentalChallenges" yaml:"environmentalChallenges"`
	EconomicModel           string   `json:"economicModel" yaml:"economicModel"`
	PoliticalStructure      string   `json:"politicalStructure" yaml:"politicalStructure"`
	SocialOrganization      []string `json:"socialOrganization" yaml:"socialOrganization"`
	EducationSystem         []string `json:"educationSystem" yaml:"educationSystem"`
	Healthcare              []string `json:"healthcare" yaml:"healthcare"`
	Security                []string `json:"security" yaml:"security"`
	ResourceManagement      []string `json:"resourceManagement" yaml:"resourceManagement"`
	LegalFramework          []string `json:"legalFramework" yaml:"legalFramework"`
}

// Normalize returns a copy with absent list fields replaced by empty lists,
// surrounding whitespace trimmed and duplicate tags removed.
func (d AssessmentData) Normalize() AssessmentData {
	out := d
	out.Location = strings.TrimSpace(d.Location)
	out.EconomicModel = strings.TrimSpace(d.EconomicModel)
	out.PoliticalStructure = strings.TrimSpace(d.PoliticalStructure)
	out.Climate = dedupe(d.Climate)
	out.EnvironmentalChallenges = dedupe(d.EnvironmentalChallenges)
	out.SocialOrganization = dedupe(d.SocialOrganization)
	out.EducationSystem = dedupe(d.EducationSystem)
	out.Healthcare = dedupe(d.Healthcare)
	out.Security = dedupe(d.Security)
	out.ResourceManagement = dedupe(d.ResourceManagement)
	out.LegalFramework = dedupe(d.LegalFramework)
	return out
}

// IsComplete reports whether the required fields are set.
func (d AssessmentData) IsComplete() bool {
	return strings.TrimSpace(d.Location) != "" &&
		strings.TrimSpace(d.EconomicModel) != "" &&
		strings.TrimSpace(d.PoliticalStructure) != "" &&
		len(d.SocialOrganization) > 0
}

func dedupe(in []string) []string {
	out := make([]string, 0, len(in))
	seen := map[string]struct{}{}
	for _, v := range in {
		v = strings.TrimSpace(v)
		if v == "" {
			continue
		}
		k := strings.ToLower(v)
		if _, ok := seen[k]; ok {
			continue
		}
		seen[k] = struct{}{}
		out = append(out, v)
	}
	return out
}

// Has reports whether list contains v, ignoring case.
func Has(list []string, v string) bool {
	for _, s := range list {
		if strings.EqualFold(strings.TrimSpace(s), v) {
			return true
		}
	}
	return false
}

// Is compares a single-choice field against an enumeration value, ignoring case.
func Is(field, v string) bool {
	return strings.EqualFold(strings.TrimSpace(field), v)
}

// CustomPolicies are the user's free-text policy notes.
type CustomPolicies struct {
	Ethical       string `json:"ethical,omitempty"`
	Economic      string `json:"economic,omitempty"`
	Judicial      string `json:"judicial,omitempty"`
	Environmental string `json:"environmental,omitempty"`
}

// IsZero reports whether all four notes are blank.
func (p *CustomPolicies) IsZero() bool {
	return p == nil || (strings.TrimSpace(p.Ethical) == "" &&
		strings.TrimSpace(p.Economic) == "" &&
		strings.TrimSpace(p.Judicial) == "" &&
		strings.TrimSpace(p.Environmental) == "")
}

// SavedNation wraps an assessment with identity and lifecycle metadata.
type SavedNation struct {
	ID             string
	Name           string
	OwnerID        string // empty while the nation is session-scoped
	SessionID      string
	Data           AssessmentData
	CustomPolicies *CustomPolicies
	IsTemporary    bool
	IsPublic       bool
	ShareToken     string
	CreatedAt      time.Time
	UpdatedAt      time.Time
	ExpiresAt      *time.Time
	DeletedAt      *time.Time
}
