package services

import (
	"fmt"
	"strings"
	"time"

	"github.com/nationbuilder/nationbuilder/internal/models"
)

// MaxComparisonNations caps a side-by-side comparison.
const MaxComparisonNations = 3

type ComparisonKind string

const (
	KindUser      ComparisonKind = "user"
	KindArchetype ComparisonKind = "archetype"
	KindShared    ComparisonKind = "shared"
)

// ComparisonNation is an in-memory entry of a comparison. It is never persisted.
type ComparisonNation struct {
	Kind           ComparisonKind         `json:"kind"`
	Source         string                 `json:"source,omitempty"`
	ID             string                 `json:"id,omitempty"`
	Name           string                 `json:"name"`
	Data           models.AssessmentData  `json:"assessmentData"`
	CustomPolicies *models.CustomPolicies `json:"customPolicies,omitempty"`
}

// ComparedNation pairs an entry with its computed analysis.
type ComparedNation struct {
	ComparisonNation
	Analysis Analysis `json:"analysis"`
}

// MetricRow is one metric across every compared nation. Highest flags every
// entry holding the row maximum, so ties flag more than one.
type MetricRow struct {
	Key     string    `json:"key"`
	Label   string    `json:"label"`
	Values  []float64 `json:"values"`
	Highest []bool    `json:"highest"`
}

type Comparison struct {
	Nations []ComparedNation `json:"nations"`
	Rows    []MetricRow      `json:"rows"`
}

type CompareService struct {
	catalog []Archetype
	now     func() time.Time
}

func NewCompareService(catalog []Archetype) *CompareService {
	return &CompareService{
		catalog: catalog,
		now:     func() time.Time { return time.Now().UTC() },
	}
}

// Compare analyses up to MaxComparisonNations entries side by side. More
// entries are rejected with ErrTooManyNations rather than truncated.
func (s *CompareService) Compare(nations []ComparisonNation) (*Comparison, error) {
	if err := CheckComparisonSize(len(nations)); err != nil {
		return nil, err
	}

	cmp := &Comparison{Nations: make([]ComparedNation, 0, len(nations))}
	for i, n := range nations {
		data, err := PrepareAssessment(n.Data, true)
		if err != nil {
			return nil, &ServiceError{
				Code:    ErrorInvalid,
				Message: fmt.Sprintf("nation %d: %v", i+1, err),
				Err:     err,
			}
		}
		n.Data = data
		if strings.TrimSpace(n.Name) == "" {
			n.Name = fmt.Sprintf("Nation %d", i+1)
		}
		if n.Kind == "" {
			n.Kind = KindUser
		}
		cmp.Nations = append(cmp.Nations, ComparedNation{ComparisonNation: n, Analysis: Analyze(data, s.catalog)})
	}

	for _, m := range AggregateMetricOrder {
		m := m
		cmp.Rows = append(cmp.Rows, buildRow(string(m), m.Label(), cmp.Nations, func(c ComparedNation) float64 {
			return c.Analysis.Metrics.Value(m)
		}))
	}
	for _, c := range Categories {
		c := c
		cmp.Rows = append(cmp.Rows, buildRow(string(c)+"Score", categoryTitle(c)+" Score", cmp.Nations, func(n ComparedNation) float64 {
			return float64(n.Analysis.Scores.Of(c))
		}))
	}
	return cmp, nil
}

// CheckComparisonSize rejects empty and over-capacity comparisons.
func CheckComparisonSize(n int) error {
	if n == 0 {
		return wrapInvalid(ErrNoNations)
	}
	if n > MaxComparisonNations {
		return wrapInvalid(ErrTooManyNations)
	}
	return nil
}

func buildRow(key, label string, nations []ComparedNation, value func(ComparedNation) float64) MetricRow {
	row := MetricRow{Key: key, Label: label, Values: make([]float64, len(nations)), Highest: make([]bool, len(nations))}
	for i, n := range nations {
		row.Values[i] = value(n)
	}
	maxVal := row.Values[0]
	for _, v := range row.Values[1:] {
		if v > maxVal {
			maxVal = v
		}
	}
	for i, v := range row.Values {
		row.Highest[i] = v == maxVal
	}
	return row
}

func categoryTitle(c Category) string {
	switch c {
	case CategoryDystopian:
		return "Dystopian"
	case CategoryMartian:
		return "Martian"
	default:
		return "Utopian"
	}
}

type ExportResult struct {
	Filename    string
	ContentType string
	Data        []byte
}

// Export compares nations and renders the result as "text" (default) or "csv".
func (s *CompareService) Export(nations []ComparisonNation, format string) (*ExportResult, error) {
	cmp, err := s.Compare(nations)
	if err != nil {
		return nil, err
	}
	switch strings.ToLower(strings.TrimSpace(format)) {
	case "", "text", "txt":
		return &ExportResult{
			Filename:    "nation-comparison.txt",
			ContentType: "text/plain; charset=utf-8",
			Data:        RenderComparisonReport(cmp, s.now()),
		}, nil
	case "csv":
		b, err := ExportComparisonCSV(cmp)
		if err != nil {
			return nil, err
		}
		return &ExportResult{Filename: "nation-comparison.csv", ContentType: "text/csv; charset=utf-8", Data: b}, nil
	default:
		return nil, NewInvalidError("unsupported format")
	}
}
