package services

import "github.com/nationbuilder/nationbuilder/internal/models"

// MaxScore is the upper bound of every category score.
const MaxScore = 1000

type Category string

const (
	CategoryUtopian   Category = "utopian"
	CategoryDystopian Category = "dystopian"
	CategoryMartian   Category = "martian"
)

// Categories lists the categories in tie-break priority order.
var Categories = []Category{CategoryUtopian, CategoryDystopian, CategoryMartian}

// CategoryScores holds the three scores of one record.
type CategoryScores struct {
	Utopian   int `json:"utopian"`
	Dystopian int `json:"dystopian"`
	Martian   int `json:"martian"`
}

// Of returns the score for c.
func (s CategoryScores) Of(c Category) int {
	switch c {
	case CategoryDystopian:
		return s.Dystopian
	case CategoryMartian:
		return s.Martian
	default:
		return s.Utopian
	}
}

// Primary returns the highest-scoring category. A later category only wins
// when strictly greater, so ties resolve utopian, then dystopian, then martian.
func (s CategoryScores) Primary() (Category, int) {
	best, score := CategoryUtopian, s.Utopian
	if s.Dystopian > score {
		best, score = CategoryDystopian, s.Dystopian
	}
	if s.Martian > score {
		best, score = CategoryMartian, s.Martian
	}
	return best, score
}

// ScoreAll computes the three category scores of d.
func ScoreAll(d models.AssessmentData) CategoryScores {
	return CategoryScores{
		Utopian:   UtopianScore(d),
		Dystopian: DystopianScore(d),
		Martian:   MartianScore(d),
	}
}

func clampScore(v int) int {
	if v < 0 {
		return 0
	}
	if v > MaxScore {
		return MaxScore
	}
	return v
}

// UtopianScore rates how close d is to a prosperous, rights-respecting society.
func UtopianScore(d models.AssessmentData) int {
	score := 10*d.EducationLevel + 10*d.TechnologyLevel + 8*d.Resources
	if models.Is(d.PoliticalStructure, models.PoliticsDirectDemocracy) ||
		models.Is(d.PoliticalStructure, models.PoliticsRepresentativeDemocracy) {
		score += 50
	}
	if models.Has(d.EducationSystem, models.EducationUniversalPublic) {
		score += 30
	}
	if models.Has(d.Healthcare, models.HealthUniversalAccess) {
		score += 30
	}
	if len(d.EnvironmentalChallenges) <= 2 {
		score += 40
	}
	if d.Languages <= 3 {
		score += 20
	}
	if d.ReligiousDiversity >= 5 {
		score += 20
	}
	if models.Has(d.LegalFramework, models.LegalHabeasCorpus) {
		score += 15
	}
	if models.Has(d.LegalFramework, models.LegalTrialByPeers) {
		score += 15
	}
	return clampScore(score)
}

// DystopianScore rates authoritarian control, scarcity and the absence of rights.
func DystopianScore(d models.AssessmentData) int {
	score := 0
	if models.Is(d.PoliticalStructure, models.PoliticsFascism) ||
		models.Is(d.PoliticalStructure, models.PoliticsMartialLaw) {
		score += 100
	}
	score += 15 * (10 - d.Resources)
	score += 20 * len(d.EnvironmentalChallenges)
	if d.EducationLevel <= 4 {
		score += 50
	}
	if d.TechnologyLevel >= 8 {
		score += 30
	}
	if models.Has(d.LegalFramework, models.LegalMassSurveillance) {
		score += 40
	}
	if models.Has(d.LegalFramework, models.LegalIndefiniteDetention) {
		score += 60
	}
	if models.Has(d.LegalFramework, models.LegalCensorship) {
		score += 20
	}
	if !models.Has(d.LegalFramework, models.LegalHabeasCorpus) {
		score += 30
	}
	if !models.Has(d.LegalFramework, models.LegalFreeSpeech) {
		score += 25
	}
	if models.Is(d.EconomicModel, models.EconomyCommunistic) ||
		models.Is(d.EconomicModel, models.EconomyAIManaged) {
		score += 40
	}
	return clampScore(score)
}

// MartianScore rates fitness as an off-world colony.
func MartianScore(d models.AssessmentData) int {
	score := 0
	switch {
	case models.Is(d.Location, models.LocationSpaceStation):
		score += 200
	case models.Is(d.Location, models.LocationPlanetaryColony):
		score += 150
	}
	score += 15 * d.TechnologyLevel
	for _, r := range []string{models.ResourceWater, models.ResourceEnergy, models.ResourceFood} {
		if models.Has(d.ResourceManagement, r) {
			score += 30
		}
	}
	if models.Has(d.EnvironmentalChallenges, models.ChallengeHarshClimate) {
		score += 40
	}
	if models.Has(d.EnvironmentalChallenges, models.ChallengeLimitedSpace) {
		score += 30
	}
	if models.Has(d.EnvironmentalChallenges, models.ChallengeHighRadiation) {
		score += 50
	}
	if d.Population <= 1_000_000 {
		score += 50
	}
	if models.Has(d.Healthcare, models.HealthResearchMedicine) {
		score += 25
	}
	if models.Has(d.Healthcare, models.HealthEmergencyResponse) {
		score += 25
	}
	if d.EducationLevel >= 7 {
		score += 40
	}
	if models.Has(d.SocialOrganization, models.SocialCommunalism) {
		score += 30
	}
	return clampScore(score)
}
