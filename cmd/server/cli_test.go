package main

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nationbuilder/nationbuilder/internal/services"
)

const utopiaYAML = `name: Lumen
assessmentData:
  population: 2000000
  territory: 50000
  resources: 8
  climate: [Temperate]
  languages: 2
  religiousDiversity: 7
  educationLevel: 7
  technologyLevel: 9
  location: Earth-based
  economicModel: Mixed economy
  politicalStructure: Representative democracy
  socialOrganization: [Individualist]
  educationSystem: [Universal public]
  healthcare: [Universal access]
  environmentalChallenges: [Air quality issues]
  legalFramework: [Habeas corpus, Trial by peers]
customPolicies:
  ethical: Open archives
`

// bareJSON holds only the assessment fields, without the wrapper.
const bareJSON = `{"population": 50000, "territory": 12, "resources": 5, "climate": ["Arid"],
 "languages": 1, "religiousDiversity": 2, "educationLevel": 9, "technologyLevel": 10,
 "location": "Space station", "economicModel": "Resource-based economy",
 "politicalStructure": "Technocracy", "socialOrganization": ["Communalism"]}`

func writeFile(t *testing.T, name, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(body), 0o600))
	return path
}

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetErr(&out)
	rootCmd.SetArgs(args)
	err := rootCmd.Execute()
	return out.String(), err
}

func TestScoreCommandJSON(t *testing.T) {
	path := writeFile(t, "lumen.yaml", utopiaYAML)
	out, err := execute(t, "score", path, "--format", "json")
	require.NoError(t, err)

	var a services.Analysis
	require.NoError(t, json.Unmarshal([]byte(out), &a))
	assert.Equal(t, 444, a.Scores.Utopian)
	assert.Equal(t, services.CategoryUtopian, a.PrimaryCategory)
}

func TestScoreCommandAcceptsBareAssessment(t *testing.T) {
	path := writeFile(t, "station.json", bareJSON)
	out, err := execute(t, "score", path, "--format", "text")
	require.NoError(t, err)
	assert.Contains(t, out, "Martian score")
}

func TestScoreCommandRejectsIncomplete(t *testing.T) {
	path := writeFile(t, "draft.yaml", "population: 5000\nterritory: 10\n")
	_, err := execute(t, "score", path, "--format", "text")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "incomplete")
}

func TestCompareCommandCSV(t *testing.T) {
	a := writeFile(t, "lumen.yaml", utopiaYAML)
	b := writeFile(t, "station.json", bareJSON)
	out, err := execute(t, "compare", a, b, "--archetype", "nordic", "--format", "csv")
	require.NoError(t, err)

	lines := strings.Split(strings.TrimSpace(out), "\n")
	require.Len(t, lines, 10)
	assert.True(t, strings.HasPrefix(lines[0], "metric,Lumen,Nation 2,"), lines[0])
	assert.True(t, strings.HasSuffix(lines[0], ",highest"))
}

func TestCompareCommandRejectsFourNations(t *testing.T) {
	path := writeFile(t, "lumen.yaml", utopiaYAML)
	_, err := execute(t, "compare", path, path, path, path, "--format", "text")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "at most 3")
}

func TestSubscriptionSetRejectsUnknownTier(t *testing.T) {
	_, err := execute(t, "subscription", "set", "u1", "platinum")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unknown tier")
}
