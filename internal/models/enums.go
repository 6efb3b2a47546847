package models

// Location values.
const (
	LocationEarth           = "Earth-based"
	LocationUnderwater      = "Underwater"
	LocationVirtual         = "Virtual/Digital"
	LocationPlanetaryColony = "Planetary colony"
	LocationSpaceStation    = "Space station"
)

// Environmental challenge values referenced by the scoring and classifier rules.
const (
	ChallengeNaturalDisasters = "Natural disasters"
	ChallengeResourceScarcity = "Resource scarcity"
	ChallengePollution        = "Pollution"
	ChallengeClimateChange    = "Climate change"
	ChallengeAirQuality       = "Air quality issues"
	ChallengeWaterScarcity    = "Water scarcity"
	ChallengeBiodiversityLoss = "Biodiversity loss"
	ChallengeHarshClimate     = "Harsh climate"
	ChallengeLimitedSpace     = "Limited space"
	ChallengeHighRadiation    = "High radiation"
	ChallengeIsolation        = "Isolation"
)

// Economic model values.
const (
	EconomyFreeMarket      = "Free market capitalism"
	EconomyMixed           = "Mixed economy"
	EconomySocialDemocracy = "Social democracy"
	EconomyCommunistic     = "Communistic"
	EconomyResourceBased   = "Resource-based economy"
	EconomyAIManaged       = "AI-managed economy"
	EconomyGift            = "Gift economy"
	EconomyBarter          = "Barter system"
)

// Political structure values.
const (
	PoliticsDirectDemocracy         = "Direct democracy"
	PoliticsRepresentativeDemocracy = "Representative democracy"
	PoliticsConstitutionalMonarchy  = "Constitutional monarchy"
	PoliticsAbsoluteMonarchy        = "Absolute monarchy"
	PoliticsTechnocracy             = "Technocracy"
	PoliticsTheocracy               = "Theocracy"
	PoliticsOligarchy               = "Oligarchy"
	PoliticsFascism                 = "Fascism"
	PoliticsMartialLaw              = "Martial law/Anarchic"
	PoliticsCouncilFederation       = "Council federation"
	PoliticsAIGovernance            = "AI governance"
)

// Social organization values.
const (
	SocialEgalitarian   = "Egalitarian"
	SocialHierarchical  = "Hierarchical"
	SocialCommunalism   = "Communalism"
	SocialMeritocracy   = "Meritocracy"
	SocialCaste         = "Caste system"
	SocialTribal        = "Tribal"
	SocialIndividualist = "Individualist"
	SocialClan          = "Clan-based"
)

// Education system values.
const (
	EducationUniversalPublic = "Universal public"
	EducationPrivate         = "Private"
	EducationApprenticeship  = "Apprenticeship"
	EducationOnline          = "Online/Digital"
	EducationReligious       = "Religious"
	EducationMilitary        = "Military academy"
)

// Healthcare values.
const (
	HealthUniversalAccess   = "Universal access"
	HealthPrivateInsurance  = "Private insurance"
	HealthResearchMedicine  = "Research-based medicine"
	HealthEmergencyResponse = "Emergency response"
	HealthTraditional       = "Traditional medicine"
	HealthPreventive        = "Preventive care"
)

// Resource management values.
const (
	ResourceWater        = "Water management"
	ResourceEnergy       = "Energy distribution"
	ResourceFood         = "Food security"
	ResourceRecycling    = "Waste recycling"
	ResourceMining       = "Mining rights"
	ResourceConservation = "Conservation zones"
)

// Legal framework values.
const (
	LegalHabeasCorpus           = "Habeas corpus"
	LegalTrialByPeers           = "Trial by peers"
	LegalFreeSpeech             = "Freedom of speech"
	LegalFreeReligion           = "Freedom of religion"
	LegalPrivacy                = "Right to privacy"
	LegalPropertyRights         = "Property rights"
	LegalDueProcess             = "Due process"
	LegalPresumptionOfInnocence = "Presumption of innocence"
	LegalSeparationOfPowers     = "Separation of powers"
	LegalMassSurveillance       = "Mass surveillance"
	LegalIndefiniteDetention    = "Indefinite detention"
	LegalCensorship             = "Censorship"
	LegalCollectivePunishment   = "Collective punishment"
)

var (
	Climates = []string{"Temperate", "Tropical", "Arid", "Arctic", "Coastal", "Landlocked", "Landlocked with river"}

	Locations = []string{LocationEarth, LocationUnderwater, LocationVirtual, LocationPlanetaryColony, LocationSpaceStation}

	EnvironmentalChallenges = []string{
		ChallengeNaturalDisasters, ChallengeResourceScarcity, ChallengePollution, ChallengeClimateChange,
		ChallengeAirQuality, ChallengeWaterScarcity, ChallengeBiodiversityLoss, ChallengeHarshClimate,
		ChallengeLimitedSpace, ChallengeHighRadiation, ChallengeIsolation,
	}

	EconomicModels = []string{
		EconomyFreeMarket, EconomyMixed, EconomySocialDemocracy, EconomyCommunistic,
		EconomyResourceBased, EconomyAIManaged, EconomyGift, EconomyBarter,
	}

	PoliticalStructures = []string{
		PoliticsDirectDemocracy, PoliticsRepresentativeDemocracy, PoliticsConstitutionalMonarchy,
		PoliticsAbsoluteMonarchy, PoliticsTechnocracy, PoliticsTheocracy, PoliticsOligarchy,
		PoliticsFascism, PoliticsMartialLaw, PoliticsCouncilFederation, PoliticsAIGovernance,
	}

	SocialOrganizations = []string{
		SocialEgalitarian, SocialHierarchical, SocialCommunalism, SocialMeritocracy,
		SocialCaste, SocialTribal, SocialIndividualist, SocialClan,
	}

	EducationSystems = []string{
		EducationUniversalPublic, EducationPrivate, EducationApprenticeship,
		EducationOnline, EducationReligious, EducationMilitary,
	}

	HealthcareSystems = []string{
		HealthUniversalAccess, HealthPrivateInsurance, HealthResearchMedicine,
		HealthEmergencyResponse, HealthTraditional, HealthPreventive,
	}

	SecurityForces = []string{"Police force", "Standing army", "Militia", "Private security", "AI surveillance", "Community watch"}

	ResourceManagements = []string{
		ResourceWater, ResourceEnergy, ResourceFood, ResourceRecycling, ResourceMining, ResourceConservation,
	}

	LegalFrameworks = []string{
		LegalHabeasCorpus, LegalTrialByPeers, LegalFreeSpeech, LegalFreeReligion, LegalPrivacy,
		LegalPropertyRights, LegalDueProcess, LegalPresumptionOfInnocence, LegalSeparationOfPowers,
		LegalMassSurveillance, LegalIndefiniteDetention, LegalCensorship, LegalCollectivePunishment,
	}
)

// Canonical returns the enumeration spelling of v, or "" when v is not a member.
func Canonical(values []string, v string) string {
	for _, c := range values {
		if Is(v, c) {
			return c
		}
	}
	return ""
}

// IsSpaceHabitat reports whether the location is off-world.
func IsSpaceHabitat(location string) bool {
	return Is(location, LocationSpaceStation) || Is(location, LocationPlanetaryColony)
}
