package services

import "github.com/nationbuilder/nationbuilder/internal/models"

// Archetype is a reference nation used for "most opposite" comparisons.
type Archetype struct {
	ID          string                `json:"id"`
	Name        string                `json:"name"`
	Description string                `json:"description"`
	Data        models.AssessmentData `json:"assessmentData"`
}

// ArchetypeCatalog returns the fixed archetype list in catalog order.
func ArchetypeCatalog() []Archetype {
	out := make([]Archetype, len(archetypes))
	copy(out, archetypes)
	return out
}

// FindArchetype looks an archetype up by id.
func FindArchetype(id string) (Archetype, bool) {
	for _, a := range archetypes {
		if a.ID == id {
			return a, true
		}
	}
	return Archetype{}, false
}

// ComparisonNation turns the archetype into a comparison entry.
func (a Archetype) ComparisonNation() ComparisonNation {
	return ComparisonNation{Kind: KindArchetype, Source: "catalog", ID: a.ID, Name: a.Name, Data: a.Data}
}

var archetypes = []Archetype{
	{
		ID:          "nordic",
		Name:        "Nordic Social Democracy",
		Description: "High-trust welfare state with universal services and strong civil rights.",
		Data: models.AssessmentData{
			Population: 5_500_000, Territory: 385_000, Resources: 7,
			Climate: []string{"Temperate", "Coastal"}, Languages: 2,
			ReligiousDiversity: 5, EducationLevel: 9, TechnologyLevel: 8,
			Location:                models.LocationEarth,
			EnvironmentalChallenges: []string{models.ChallengeClimateChange},
			EconomicModel:           models.EconomySocialDemocracy,
			PoliticalStructure:      models.PoliticsRepresentativeDemocracy,
			SocialOrganization:      []string{models.SocialEgalitarian},
			EducationSystem:         []string{models.EducationUniversalPublic},
			Healthcare:              []string{models.HealthUniversalAccess, models.HealthPreventive},
			Security:                []string{"Police force", "Community watch"},
			ResourceManagement:      []string{models.ResourceEnergy, models.ResourceRecycling, models.ResourceConservation},
			LegalFramework: []string{
				models.LegalHabeasCorpus, models.LegalTrialByPeers, models.LegalFreeSpeech,
				models.LegalPrivacy, models.LegalSeparationOfPowers,
			},
		},
	},
	{
		ID:          "technocracy",
		Name:        "Silicon Technocracy",
		Description: "Expert-run state that delegates planning to algorithms.",
		Data: models.AssessmentData{
			Population: 40_000_000, Territory: 120_000, Resources: 6,
			Climate: []string{"Temperate"}, Languages: 3,
			ReligiousDiversity: 6, EducationLevel: 10, TechnologyLevel: 10,
			Location:                models.LocationEarth,
			EnvironmentalChallenges: []string{models.ChallengePollution, models.ChallengeAirQuality},
			EconomicModel:           models.EconomyAIManaged,
			PoliticalStructure:      models.PoliticsTechnocracy,
			SocialOrganization:      []string{models.SocialMeritocracy},
			EducationSystem:         []string{models.EducationOnline, models.EducationPrivate},
			Healthcare:              []string{models.HealthResearchMedicine},
			Security:                []string{"AI surveillance"},
			ResourceManagement:      []string{models.ResourceEnergy},
			LegalFramework:          []string{models.LegalPropertyRights, models.LegalMassSurveillance},
		},
	},
	{
		ID:          "directorate",
		Name:        "Iron Directorate",
		Description: "Militarised regime ruling a depleted land through fear.",
		Data: models.AssessmentData{
			Population: 90_000_000, Territory: 2_000_000, Resources: 2,
			Climate: []string{"Arid", "Landlocked"}, Languages: 1,
			ReligiousDiversity: 1, EducationLevel: 3, TechnologyLevel: 6,
			Location: models.LocationEarth,
			EnvironmentalChallenges: []string{
				models.ChallengePollution, models.ChallengeWaterScarcity, models.ChallengeResourceScarcity,
			},
			EconomicModel:      models.EconomyCommunistic,
			PoliticalStructure: models.PoliticsFascism,
			SocialOrganization: []string{models.SocialHierarchical, models.SocialCaste},
			EducationSystem:    []string{models.EducationMilitary},
			Security:           []string{"Standing army", "AI surveillance"},
			LegalFramework: []string{
				models.LegalMassSurveillance, models.LegalIndefiniteDetention,
				models.LegalCensorship, models.LegalCollectivePunishment,
			},
		},
	},
	{
		ID:          "ares",
		Name:        "Ares Planetary Colony",
		Description: "Pressurised settlement on a hostile world.",
		Data: models.AssessmentData{
			Population: 12_000, Territory: 50, Resources: 4,
			Climate: []string{"Arid", "Arctic"}, Languages: 4,
			ReligiousDiversity: 4, EducationLevel: 9, TechnologyLevel: 9,
			Location: models.LocationPlanetaryColony,
			EnvironmentalChallenges: []string{
				models.ChallengeHarshClimate, models.ChallengeHighRadiation, models.ChallengeIsolation,
			},
			EconomicModel:      models.EconomyResourceBased,
			PoliticalStructure: models.PoliticsCouncilFederation,
			SocialOrganization: []string{models.SocialCommunalism, models.SocialMeritocracy},
			EducationSystem:    []string{models.EducationApprenticeship, models.EducationOnline},
			Healthcare:         []string{models.HealthResearchMedicine, models.HealthEmergencyResponse},
			Security:           []string{"Community watch"},
			ResourceManagement: []string{models.ResourceWater, models.ResourceEnergy, models.ResourceFood},
			LegalFramework:     []string{models.LegalDueProcess, models.LegalTrialByPeers},
		},
	},
	{
		ID:          "zenith",
		Name:        "Orbital Habitat Zenith",
		Description: "Rotating station where every litre of air is rationed.",
		Data: models.AssessmentData{
			Population: 3_000, Territory: 2, Resources: 3,
			Languages: 6, ReligiousDiversity: 7, EducationLevel: 8, TechnologyLevel: 10,
			Location: models.LocationSpaceStation,
			EnvironmentalChallenges: []string{
				models.ChallengeLimitedSpace, models.ChallengeHighRadiation, models.ChallengeIsolation,
			},
			EconomicModel:      models.EconomyAIManaged,
			PoliticalStructure: models.PoliticsAIGovernance,
			SocialOrganization: []string{models.SocialCommunalism},
			EducationSystem:    []string{models.EducationOnline},
			Healthcare:         []string{models.HealthEmergencyResponse, models.HealthPreventive},
			ResourceManagement: []string{
				models.ResourceWater, models.ResourceEnergy, models.ResourceFood, models.ResourceRecycling,
			},
			LegalFramework: []string{models.LegalDueProcess},
		},
	},
	{
		ID:          "commune",
		Name:        "Verdant Commune",
		Description: "Small agrarian federation of self-governing villages.",
		Data: models.AssessmentData{
			Population: 40_000, Territory: 900, Resources: 8,
			Climate: []string{"Tropical", "Landlocked with river"}, Languages: 2,
			ReligiousDiversity: 3, EducationLevel: 5, TechnologyLevel: 3,
			Location:                models.LocationEarth,
			EnvironmentalChallenges: []string{models.ChallengeNaturalDisasters},
			EconomicModel:           models.EconomyGift,
			PoliticalStructure:      models.PoliticsDirectDemocracy,
			SocialOrganization:      []string{models.SocialCommunalism, models.SocialEgalitarian, models.SocialTribal},
			EducationSystem:         []string{models.EducationApprenticeship},
			Healthcare:              []string{models.HealthTraditional},
			Security:                []string{"Militia", "Community watch"},
			ResourceManagement:      []string{models.ResourceFood, models.ResourceConservation},
			LegalFramework:          []string{models.LegalTrialByPeers, models.LegalFreeSpeech},
		},
	},
	{
		ID:          "atlantis",
		Name:        "Atlantis Deep Habitat",
		Description: "Seafloor arcology sustained by geothermal vents.",
		Data: models.AssessmentData{
			Population: 250_000, Territory: 30, Resources: 5,
			Climate: []string{"Coastal"}, Languages: 5,
			ReligiousDiversity: 6, EducationLevel: 8, TechnologyLevel: 8,
			Location:                models.LocationUnderwater,
			EnvironmentalChallenges: []string{models.ChallengeLimitedSpace, models.ChallengeIsolation},
			EconomicModel:           models.EconomyMixed,
			PoliticalStructure:      models.PoliticsConstitutionalMonarchy,
			SocialOrganization:      []string{models.SocialHierarchical, models.SocialMeritocracy},
			EducationSystem:         []string{models.EducationUniversalPublic},
			Healthcare:              []string{models.HealthUniversalAccess},
			Security:                []string{"Police force"},
			ResourceManagement:      []string{models.ResourceWater, models.ResourceEnergy},
			LegalFramework:          []string{models.LegalHabeasCorpus, models.LegalPropertyRights},
		},
	},
}
