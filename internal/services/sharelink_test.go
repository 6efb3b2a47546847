package services

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nationbuilder/nationbuilder/internal/models"
)

func TestShareLinkCarriesNation(t *testing.T) {
	created := time.Date(2024, 5, 6, 7, 8, 9, 0, time.UTC)
	n := &models.SavedNation{
		Name:           "Skyhold",
		Data:           scenarioB(),
		CustomPolicies: &models.CustomPolicies{Environmental: "Recycle every gram"},
		CreatedAt:      created,
	}
	link, err := EncodeShareLink(n)
	require.NoError(t, err)
	assert.NotContains(t, link, "+")
	assert.NotContains(t, link, "/")

	p, err := DecodeShareLink(link)
	require.NoError(t, err)
	assert.Equal(t, "Skyhold", p.Name)
	assert.Equal(t, created, p.CreatedAt)
	assert.Equal(t, "Recycle every gram", p.CustomPolicies.Environmental)

	cn := p.ComparisonNation()
	assert.Equal(t, KindShared, cn.Kind)
	assert.Equal(t, 730, MartianScore(cn.Data))
}

func TestShareLinkRejectsGarbage(t *testing.T) {
	for _, s := range []string{"", "%%%", "bm90IGpzb24"} {
		_, err := DecodeShareLink(s)
		assert.ErrorIs(t, err, ErrShareLinkInvalid, s)
	}
}
