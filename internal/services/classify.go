package services

import "github.com/nationbuilder/nationbuilder/internal/models"

// labelRule is one guarded entry of an ordered rule table. Tables are
// evaluated top to bottom and the first matching guard wins.
type labelRule struct {
	when  func(d models.AssessmentData) bool
	label string
}

func firstMatch(rules []labelRule, d models.AssessmentData, fallback string) string {
	for _, r := range rules {
		if r.when(d) {
			return r.label
		}
	}
	return fallback
}

const (
	DefaultEconomicSystem  = "Regulated Market Economy with Strong Social Safety Net"
	DefaultGovernmentType  = "Constitutional Federal Republic"
	DefaultSocialStructure = "Flexible Social Network"
)

var economicSystemRules = []labelRule{
	{
		when:  func(d models.AssessmentData) bool { return models.IsSpaceHabitat(d.Location) && d.Resources >= 7 },
		label: "Closed-Loop Resource Economy",
	},
	{
		when:  func(d models.AssessmentData) bool { return d.TechnologyLevel >= 8 && d.EducationLevel >= 8 },
		label: "Knowledge-Based Innovation Economy",
	},
	{
		when:  func(d models.AssessmentData) bool { return d.Resources <= 3 && len(d.EnvironmentalChallenges) >= 3 },
		label: "Conservation-Focused Scarcity Economy",
	},
	{
		when: func(d models.AssessmentData) bool {
			return d.Population < 1_000_000 && models.Has(d.SocialOrganization, models.SocialCommunalism)
		},
		label: "Cooperative Communal Economy",
	},
}

var governmentTypeRules = []labelRule{
	{
		when:  func(d models.AssessmentData) bool { return models.IsSpaceHabitat(d.Location) },
		label: "Technocratic Mission Council",
	},
	{
		when: func(d models.AssessmentData) bool {
			return d.Population < 100_000 && models.Is(d.PoliticalStructure, models.PoliticsDirectDemocracy)
		},
		label: "Direct Participatory Assembly",
	},
	{
		when:  func(d models.AssessmentData) bool { return d.TechnologyLevel >= 8 },
		label: "Digital Democracy with AI-Assisted Governance",
	},
	{
		when:  func(d models.AssessmentData) bool { return len(d.EnvironmentalChallenges) >= 4 },
		label: "Emergency Resilience Council",
	},
}

var socialStructureRules = []labelRule{
	{
		when:  func(d models.AssessmentData) bool { return models.Has(d.SocialOrganization, models.SocialEgalitarian) },
		label: "Egalitarian Collective Society",
	},
	{
		when:  func(d models.AssessmentData) bool { return models.Has(d.SocialOrganization, models.SocialHierarchical) },
		label: "Structured Hierarchical Society",
	},
	{
		when:  func(d models.AssessmentData) bool { return models.Has(d.SocialOrganization, models.SocialCommunalism) },
		label: "Communal Cooperative Network",
	},
}

// EconomicSystem names the economy implied by d.
func EconomicSystem(d models.AssessmentData) string {
	return firstMatch(economicSystemRules, d, DefaultEconomicSystem)
}

// GovernmentType names the form of government implied by d.
func GovernmentType(d models.AssessmentData) string {
	return firstMatch(governmentTypeRules, d, DefaultGovernmentType)
}

// SocialStructure names the social structure implied by d.
func SocialStructure(d models.AssessmentData) string {
	return firstMatch(socialStructureRules, d, DefaultSocialStructure)
}

// DefaultCulturalValues is returned when no cultural guard matches.
var DefaultCulturalValues = []string{"Individual Liberty", "Civic Responsibility", "Cultural Heritage"}

// Unlike the label tables, every matching cultural guard contributes.
var culturalValueRules = []labelRule{
	{
		when:  func(d models.AssessmentData) bool { return d.EducationLevel >= 7 },
		label: "Lifelong Learning and Intellectual Curiosity",
	},
	{
		when:  func(d models.AssessmentData) bool { return d.TechnologyLevel >= 7 },
		label: "Innovation and Technological Progress",
	},
	{
		when:  func(d models.AssessmentData) bool { return d.ReligiousDiversity >= 7 },
		label: "Religious Tolerance and Pluralism",
	},
	{
		when:  func(d models.AssessmentData) bool { return d.Languages >= 5 },
		label: "Multilingual Cultural Exchange",
	},
	{
		when:  func(d models.AssessmentData) bool { return len(d.EnvironmentalChallenges) >= 3 },
		label: "Environmental Stewardship",
	},
	{
		when: func(d models.AssessmentData) bool {
			return models.Has(d.SocialOrganization, models.SocialCommunalism) ||
				models.Has(d.SocialOrganization, models.SocialEgalitarian)
		},
		label: "Community Solidarity",
	},
}

// CulturalValues lists the values emphasised by d.
func CulturalValues(d models.AssessmentData) []string {
	out := []string{}
	for _, r := range culturalValueRules {
		if r.when(d) {
			out = append(out, r.label)
		}
	}
	if len(out) == 0 {
		return append([]string(nil), DefaultCulturalValues...)
	}
	return out
}

// RecommendedPolicies lists policy suggestions grouped by resource scarcity,
// environment, population size, technology and education. It may be empty.
func RecommendedPolicies(d models.AssessmentData) []string {
	out := []string{}

	if d.Resources <= 4 {
		out = append(out,
			"Establish strategic resource reserves",
			"Negotiate long-term import and trade partnerships",
		)
	}

	if n := len(d.EnvironmentalChallenges); n >= 3 {
		out = append(out,
			"Create a national climate adaptation fund",
			"Mandate green infrastructure standards",
		)
	} else if n > 0 {
		out = append(out, "Require environmental impact assessments for major projects")
	}

	switch {
	case d.Population > 100_000_000:
		out = append(out,
			"Decentralize administration into regional governments",
			"Expand high-capacity public transit",
		)
	case d.Population < 100_000:
		out = append(out, "Hold regular community assemblies for local decisions")
	}

	switch {
	case d.TechnologyLevel >= 8:
		out = append(out,
			"Enact digital rights and data privacy legislation",
			"Fund independent oversight of automated decision systems",
		)
	case d.TechnologyLevel <= 3:
		out = append(out, "Invest in nationwide digital infrastructure")
	}

	if d.EducationLevel <= 4 {
		out = append(out,
			"Guarantee free primary and secondary education",
			"Launch adult literacy programs",
		)
	}
	return out
}

type Quadrant string

const (
	QuadrantProsperousDemocracy Quadrant = "Prosperous Democracy"
	QuadrantEconomicPowerhouse  Quadrant = "Economic Powerhouse"
	QuadrantSocialHaven         Quadrant = "Social Haven"
	QuadrantDevelopingNation    Quadrant = "Developing Nation"
)

// QuadrantThreshold splits both axes; values equal to it count as high.
const QuadrantThreshold = 50.0

// ClassifyQuadrant places a nation on the economic/social 2x2 grid.
func ClassifyQuadrant(economicPerformance, socialStability float64) Quadrant {
	highEcon := economicPerformance >= QuadrantThreshold
	highSocial := socialStability >= QuadrantThreshold
	switch {
	case highEcon && highSocial:
		return QuadrantProsperousDemocracy
	case highEcon:
		return QuadrantEconomicPowerhouse
	case highSocial:
		return QuadrantSocialHaven
	default:
		return QuadrantDevelopingNation
	}
}
