package services

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDistanceIdenticalIsZero(t *testing.T) {
	assert.Equal(t, 0.0, Distance(scenarioA(), scenarioA()))
}

func TestDistanceSymmetric(t *testing.T) {
	pairs := [][2]int{}
	catalog := ArchetypeCatalog()
	for i := range catalog {
		for j := range catalog {
			pairs = append(pairs, [2]int{i, j})
		}
	}
	for _, p := range pairs {
		a, b := catalog[p[0]].Data, catalog[p[1]].Data
		assert.InDelta(t, Distance(a, b), Distance(b, a), 1e-9, "%s/%s", catalog[p[0]].ID, catalog[p[1]].ID)
	}
}

func TestDistanceComponents(t *testing.T) {
	a := baseAssessment()
	b := baseAssessment()
	b.PoliticalStructure = "Fascism"
	assert.InDelta(t, 3.0, Distance(a, b), 1e-9)

	b = baseAssessment()
	b.Population = a.Population * 10
	assert.InDelta(t, 1.0, Distance(a, b), 1e-9)

	b = baseAssessment()
	b.TechnologyLevel = a.TechnologyLevel + 2
	b.EducationLevel = a.EducationLevel + 2
	assert.InDelta(t, 2.0, Distance(a, b), 1e-9)
}

func TestMostOppositeEmptyCatalog(t *testing.T) {
	_, _, ok := MostOpposite(scenarioA(), nil)
	assert.False(t, ok)
}

func TestMostOppositePicksFarthest(t *testing.T) {
	catalog := ArchetypeCatalog()
	got, dist, ok := MostOpposite(catalog[0].Data, catalog)
	require.True(t, ok)
	for _, a := range catalog {
		assert.LessOrEqual(t, Distance(catalog[0].Data, a.Data), dist)
	}
	assert.NotEqual(t, catalog[0].ID, got.ID)
}

func TestDistanceIgnoresRepeatedTags(t *testing.T) {
	a := baseAssessment()
	b := baseAssessment()
	a.SocialOrganization = []string{"Egalitarian", "egalitarian"}
	b.SocialOrganization = []string{"Egalitarian"}
	assert.Equal(t, 0.0, Distance(a, b))
	assert.Equal(t, 0.0, Distance(b, a))

	b.SocialOrganization = []string{"Egalitarian", "Tribal"}
	assert.Equal(t, 0.5, Distance(a, b))
	assert.Equal(t, 0.5, Distance(b, a))
}
