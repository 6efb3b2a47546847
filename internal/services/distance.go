package services

import (
	"math"
	"strings"

	"github.com/nationbuilder/nationbuilder/internal/models"
)

// Distance is a weighted dissimilarity between two assessments. It is
// symmetric and zero for equal records.
func Distance(a, b models.AssessmentData) float64 {
	d := 0.0
	if !models.Is(a.PoliticalStructure, b.PoliticalStructure) {
		d += 3
	}
	if !models.Is(a.EconomicModel, b.EconomicModel) {
		d += 3
	}
	if !models.Is(a.Location, b.Location) {
		d += 2
	}
	d += math.Abs(log10Population(a.Population) - log10Population(b.Population))
	d += 0.5 * math.Abs(float64(a.TechnologyLevel-b.TechnologyLevel))
	d += 0.5 * math.Abs(float64(a.EducationLevel-b.EducationLevel))

	sa, sb := foldSet(a.SocialOrganization), foldSet(b.SocialOrganization)
	shared := 0
	for k := range sa {
		if _, ok := sb[k]; ok {
			shared++
		}
	}
	d += 0.5 * float64(len(sa)+len(sb)-2*shared)
	return d
}

// foldSet keys tags by trimmed lower case so repeats count once.
func foldSet(tags []string) map[string]struct{} {
	out := make(map[string]struct{}, len(tags))
	for _, t := range tags {
		if t = strings.ToLower(strings.TrimSpace(t)); t != "" {
			out[t] = struct{}{}
		}
	}
	return out
}

func log10Population(p int64) float64 {
	if p < 1 {
		p = 1
	}
	return math.Log10(float64(p))
}

// MostOpposite returns the catalog entry farthest from base. The first entry
// wins ties. ok is false when the catalog is empty.
func MostOpposite(base models.AssessmentData, catalog []Archetype) (Archetype, float64, bool) {
	var (
		best     Archetype
		bestDist float64
		found    bool
	)
	for _, a := range catalog {
		dist := Distance(base, a.Data)
		if !found || dist > bestDist {
			best, bestDist, found = a, dist, true
		}
	}
	return best, bestDist, found
}
