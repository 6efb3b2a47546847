package services

import (
	"fmt"
	"strings"

	"github.com/nationbuilder/nationbuilder/internal/models"
)

// Domain bounds for the numeric answers.
const (
	MinPopulation = 1_000
	MaxPopulation = 1_000_000_000
	MinTerritory  = 1
	MaxTerritory  = 900_000_000
	MinLanguages  = 1
	MaxLanguages  = 20
	MinSlider     = 1
	MaxSlider     = 10
)

type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// ValidationError lists every failing field. It wraps ErrIncompleteAssessment
// when a required answer is missing, ErrInvalidAssessment otherwise.
type ValidationError struct {
	Fields []FieldError
	kind   error
}

func (e *ValidationError) Error() string {
	parts := make([]string, 0, len(e.Fields))
	for _, f := range e.Fields {
		parts = append(parts, f.Field+": "+f.Message)
	}
	return e.kind.Error() + ": " + strings.Join(parts, "; ")
}

func (e *ValidationError) Unwrap() error { return e.kind }

// ValidateAssessment checks ranges and enumeration membership. With
// requireComplete the four required answers must also be present.
// The input is expected to be normalized.
func ValidateAssessment(d models.AssessmentData, requireComplete bool) error {
	var missing, invalid []FieldError

	if requireComplete {
		if d.Location == "" {
			missing = append(missing, FieldError{"location", "required"})
		}
		if d.EconomicModel == "" {
			missing = append(missing, FieldError{"economicModel", "required"})
		}
		if d.PoliticalStructure == "" {
			missing = append(missing, FieldError{"politicalStructure", "required"})
		}
		if len(d.SocialOrganization) == 0 {
			missing = append(missing, FieldError{"socialOrganization", "select at least one"})
		}
	}

	rangeCheck := func(field string, v, lo, hi int64) {
		if v < lo || v > hi {
			invalid = append(invalid, FieldError{field, fmt.Sprintf("must be between %d and %d", lo, hi)})
		}
	}
	rangeCheck("population", d.Population, MinPopulation, MaxPopulation)
	rangeCheck("territory", d.Territory, MinTerritory, MaxTerritory)
	rangeCheck("resources", int64(d.Resources), MinSlider, MaxSlider)
	rangeCheck("languages", int64(d.Languages), MinLanguages, MaxLanguages)
	rangeCheck("religiousDiversity", int64(d.ReligiousDiversity), MinSlider, MaxSlider)
	rangeCheck("educationLevel", int64(d.EducationLevel), MinSlider, MaxSlider)
	rangeCheck("technologyLevel", int64(d.TechnologyLevel), MinSlider, MaxSlider)

	oneOf := func(field, v string, values []string) {
		if v != "" && models.Canonical(values, v) == "" {
			invalid = append(invalid, FieldError{field, fmt.Sprintf("unknown value %q", v)})
		}
	}
	oneOf("location", d.Location, models.Locations)
	oneOf("economicModel", d.EconomicModel, models.EconomicModels)
	oneOf("politicalStructure", d.PoliticalStructure, models.PoliticalStructures)

	subset := func(field string, list, values []string) {
		for _, v := range list {
			oneOf(field, v, values)
		}
	}
	subset("climate", d.Climate, models.Climates)
	subset("environmentalChallenges", d.EnvironmentalChallenges, models.EnvironmentalChallenges)
	subset("socialOrganization", d.SocialOrganization, models.SocialOrganizations)
	subset("educationSystem", d.EducationSystem, models.EducationSystems)
	subset("healthcare", d.Healthcare, models.HealthcareSystems)
	subset("security", d.Security, models.SecurityForces)
	subset("resourceManagement", d.ResourceManagement, models.ResourceManagements)
	subset("legalFramework", d.LegalFramework, models.LegalFrameworks)

	switch {
	case len(missing) > 0:
		return &ValidationError{Fields: append(missing, invalid...), kind: ErrIncompleteAssessment}
	case len(invalid) > 0:
		return &ValidationError{Fields: invalid, kind: ErrInvalidAssessment}
	}
	return nil
}

// PrepareAssessment normalizes and validates a submitted record. On success
// every enumeration answer carries its canonical spelling.
func PrepareAssessment(d models.AssessmentData, requireComplete bool) (models.AssessmentData, error) {
	n := d.Normalize()
	if err := ValidateAssessment(n, requireComplete); err != nil {
		return n, wrapInvalid(err)
	}
	return canonicalize(n), nil
}

func canonicalize(d models.AssessmentData) models.AssessmentData {
	one := func(v string, values []string) string {
		if c := models.Canonical(values, v); c != "" {
			return c
		}
		return v
	}
	list := func(in, values []string) []string {
		out := make([]string, len(in))
		for i, v := range in {
			out[i] = one(v, values)
		}
		return out
	}
	d.Location = one(d.Location, models.Locations)
	d.EconomicModel = one(d.EconomicModel, models.EconomicModels)
	d.PoliticalStructure = one(d.PoliticalStructure, models.PoliticalStructures)
	d.Climate = list(d.Climate, models.Climates)
	d.EnvironmentalChallenges = list(d.EnvironmentalChallenges, models.EnvironmentalChallenges)
	d.SocialOrganization = list(d.SocialOrganization, models.SocialOrganizations)
	d.EducationSystem = list(d.EducationSystem, models.EducationSystems)
	d.Healthcare = list(d.Healthcare, models.HealthcareSystems)
	d.Security = list(d.Security, models.SecurityForces)
	d.ResourceManagement = list(d.ResourceManagement, models.ResourceManagements)
	d.LegalFramework = list(d.LegalFramework, models.LegalFrameworks)
	return d
}
