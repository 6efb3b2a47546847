package services

import "github.com/nationbuilder/nationbuilder/internal/models"

// baseAssessment is a complete, valid, unremarkable Earth nation.
func baseAssessment() models.AssessmentData {
	return models.AssessmentData{
		Population:              2_000_000,
		Territory:               50_000,
		Resources:               5,
		Climate:                 []string{"Temperate"},
		Languages:               2,
		ReligiousDiversity:      4,
		EducationLevel:          5,
		TechnologyLevel:         5,
		Location:                models.LocationEarth,
		EnvironmentalChallenges: []string{},
		EconomicModel:           models.EconomyMixed,
		PoliticalStructure:      models.PoliticsRepresentativeDemocracy,
		SocialOrganization:      []string{models.SocialIndividualist},
		EducationSystem:         []string{},
		Healthcare:              []string{},
		Security:                []string{},
		ResourceManagement:      []string{},
		LegalFramework:          []string{},
	}
}

func scenarioA() models.AssessmentData {
	d := baseAssessment()
	d.TechnologyLevel = 9
	d.EducationLevel = 7
	d.Resources = 8
	d.PoliticalStructure = models.PoliticsRepresentativeDemocracy
	d.EducationSystem = []string{"Universal public"}
	d.Healthcare = []string{"Universal access"}
	d.EnvironmentalChallenges = []string{"Air quality issues"}
	d.Languages = 2
	d.ReligiousDiversity = 7
	d.LegalFramework = []string{"Habeas corpus", "Trial by peers"}
	return d
}

func scenarioB() models.AssessmentData {
	d := baseAssessment()
	d.Location = "Space station"
	d.TechnologyLevel = 10
	d.ResourceManagement = []string{"Water management", "Energy distribution", "Food security"}
	d.EnvironmentalChallenges = []string{"harsh climate", "Limited space", "High radiation"}
	d.Population = 50_000
	d.Healthcare = []string{"Research-based medicine", "Emergency response"}
	d.EducationLevel = 9
	d.SocialOrganization = []string{"Communalism"}
	return d
}
