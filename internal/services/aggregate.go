package services

import "github.com/nationbuilder/nationbuilder/internal/models"

// Metric identifies one aggregate indicator.
type Metric string

const (
	MetricResourceEfficiency Metric = "resourceEfficiency"
	MetricRightsProtection   Metric = "rightsProtection"
	MetricAdaptability       Metric = "adaptability"
	MetricSocialCohesion     Metric = "socialCohesion"
	MetricEconomicGrowth     Metric = "economicGrowth"
	MetricSustainability     Metric = "sustainability"
)

// AggregateMetricOrder is the display order of the aggregate metrics.
var AggregateMetricOrder = []Metric{
	MetricResourceEfficiency,
	MetricRightsProtection,
	MetricAdaptability,
	MetricSocialCohesion,
	MetricEconomicGrowth,
	MetricSustainability,
}

var metricLabels = map[Metric]string{
	MetricResourceEfficiency: "Resource Efficiency",
	MetricRightsProtection:   "Rights Protection",
	MetricAdaptability:       "Adaptability",
	MetricSocialCohesion:     "Social Cohesion",
	MetricEconomicGrowth:     "Economic Growth",
	MetricSustainability:     "Sustainability",
}

// Label is the human-readable metric name.
func (m Metric) Label() string {
	if l, ok := metricLabels[m]; ok {
		return l
	}
	return string(m)
}

// AggregateMetrics are 0-100 indicators derived from the numeric answers.
type AggregateMetrics struct {
	ResourceEfficiency float64 `json:"resourceEfficiency"`
	RightsProtection   float64 `json:"rightsProtection"`
	Adaptability       float64 `json:"adaptability"`
	SocialCohesion     float64 `json:"socialCohesion"`
	EconomicGrowth     float64 `json:"economicGrowth"`
	Sustainability     float64 `json:"sustainability"`
}

func clampPercent(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 100 {
		return 100
	}
	return v
}

// ComputeAggregateMetrics derives the six indicators for d.
func ComputeAggregateMetrics(d models.AssessmentData) AggregateMetrics {
	res := float64(d.Resources)
	tech := float64(d.TechnologyLevel)
	edu := float64(d.EducationLevel)
	rel := float64(d.ReligiousDiversity)
	lang := float64(d.Languages)
	return AggregateMetrics{
		ResourceEfficiency: clampPercent(6*res + 4*tech),
		RightsProtection:   clampPercent(6*edu + 4*rel),
		Adaptability:       clampPercent(5*tech + 3*edu + lang),
		SocialCohesion:     clampPercent(100 - 3*rel - 2*lang + 2*edu),
		EconomicGrowth:     clampPercent(4*tech + 4*res + 2*edu),
		Sustainability:     clampPercent(5*res + 3*tech + 2*edu),
	}
}

// Value returns the indicator named m.
func (a AggregateMetrics) Value(m Metric) float64 {
	switch m {
	case MetricResourceEfficiency:
		return a.ResourceEfficiency
	case MetricRightsProtection:
		return a.RightsProtection
	case MetricAdaptability:
		return a.Adaptability
	case MetricSocialCohesion:
		return a.SocialCohesion
	case MetricEconomicGrowth:
		return a.EconomicGrowth
	case MetricSustainability:
		return a.Sustainability
	}
	return 0
}

// EconomicPerformance feeds the quadrant's horizontal axis.
func (a AggregateMetrics) EconomicPerformance() float64 {
	return (a.EconomicGrowth + a.ResourceEfficiency) / 2
}

// SocialStability feeds the quadrant's vertical axis.
func (a AggregateMetrics) SocialStability() float64 {
	return (a.SocialCohesion + a.RightsProtection) / 2
}

// Quadrant classifies the metrics on the economic/social grid.
func (a AggregateMetrics) Quadrant() Quadrant {
	return ClassifyQuadrant(a.EconomicPerformance(), a.SocialStability())
}
