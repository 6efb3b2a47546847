package services

import "github.com/nationbuilder/nationbuilder/internal/models"

// OppositeArchetype is the catalog entry farthest from an assessment.
type OppositeArchetype struct {
	ID       string  `json:"id"`
	Name     string  `json:"name"`
	Distance float64 `json:"distance"`
}

// Analysis is the full results-dashboard view of one assessment.
type Analysis struct {
	Scores              CategoryScores     `json:"scores"`
	PrimaryCategory     Category           `json:"primaryCategory"`
	EconomicSystem      string             `json:"economicSystem"`
	GovernmentType      string             `json:"governmentType"`
	SocialStructure     string             `json:"socialStructure"`
	CulturalValues      []string           `json:"culturalValues"`
	RecommendedPolicies []string           `json:"recommendedPolicies"`
	Metrics             AggregateMetrics   `json:"metrics"`
	EconomicPerformance float64            `json:"economicPerformance"`
	SocialStability     float64            `json:"socialStability"`
	Quadrant            Quadrant           `json:"quadrant"`
	MostOpposite        *OppositeArchetype `json:"mostOpposite,omitempty"`
}

// Analyze derives every score and label for d. d must be normalized.
func Analyze(d models.AssessmentData, catalog []Archetype) Analysis {
	scores := ScoreAll(d)
	primary, _ := scores.Primary()
	metrics := ComputeAggregateMetrics(d)
	a := Analysis{
		Scores:              scores,
		PrimaryCategory:     primary,
		EconomicSystem:      EconomicSystem(d),
		GovernmentType:      GovernmentType(d),
		SocialStructure:     SocialStructure(d),
		CulturalValues:      CulturalValues(d),
		RecommendedPolicies: RecommendedPolicies(d),
		Metrics:             metrics,
		EconomicPerformance: metrics.EconomicPerformance(),
		SocialStability:     metrics.SocialStability(),
		Quadrant:            metrics.Quadrant(),
	}
	if opp, dist, ok := MostOpposite(d, catalog); ok {
		a.MostOpposite = &OppositeArchetype{ID: opp.ID, Name: opp.Name, Distance: dist}
	}
	return a
}

type AnalysisService struct {
	catalog []Archetype
}

func NewAnalysisService(catalog []Archetype) *AnalysisService {
	return &AnalysisService{catalog: catalog}
}

// Analyze validates a submitted assessment and returns its analysis.
// Incomplete records are rejected before any scoring happens.
func (s *AnalysisService) Analyze(d models.AssessmentData) (*Analysis, error) {
	n, err := PrepareAssessment(d, true)
	if err != nil {
		return nil, err
	}
	a := Analyze(n, s.catalog)
	return &a, nil
}

// Catalog returns the archetypes used for opposite lookups.
func (s *AnalysisService) Catalog() []Archetype {
	return append([]Archetype(nil), s.catalog...)
}
