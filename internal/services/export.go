package services

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/dustin/go-humanize"
)

const reportRule = "=============================================================="

// ExportComparisonCSV renders the comparison table: one row per metric, one
// column per nation, and a trailing column naming the highest entries.
func ExportComparisonCSV(cmp *Comparison) ([]byte, error) {
	buf := &bytes.Buffer{}
	w := csv.NewWriter(buf)
	header := []string{"metric"}
	for _, n := range cmp.Nations {
		header = append(header, n.Name)
	}
	header = append(header, "highest")
	if err := w.Write(header); err != nil {
		return nil, err
	}
	for _, row := range cmp.Rows {
		rec := []string{row.Key}
		var top []string
		for i, v := range row.Values {
			rec = append(rec, formatFloat(v))
			if row.Highest[i] {
				top = append(top, cmp.Nations[i].Name)
			}
		}
		rec = append(rec, strings.Join(top, ";"))
		if err := w.Write(rec); err != nil {
			return nil, err
		}
	}
	w.Flush()
	return buf.Bytes(), w.Error()
}

func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'f', 1, 64)
}

// RenderComparisonReport produces the plain-text comparison report. The
// output depends only on cmp and generatedAt.
func RenderComparisonReport(cmp *Comparison, generatedAt time.Time) []byte {
	b := &strings.Builder{}
	fmt.Fprintln(b, reportRule)
	fmt.Fprintln(b, "NATIONBUILDER COMPARISON REPORT")
	fmt.Fprintln(b, reportRule)
	fmt.Fprintln(b)

	fmt.Fprintln(b, "SUMMARY")
	fmt.Fprintf(b, "%-24s %-10s %10s %10s %10s\n", "Nation", "Type", "Utopian", "Dystopian", "Martian")
	for _, n := range cmp.Nations {
		s := n.Analysis.Scores
		fmt.Fprintf(b, "%-24s %-10s %10d %10d %10d\n", truncate(n.Name, 24), n.Kind, s.Utopian, s.Dystopian, s.Martian)
	}
	fmt.Fprintln(b)

	fmt.Fprintln(b, "METRIC BREAKDOWN")
	for _, row := range cmp.Rows {
		fmt.Fprintf(b, "%s\n", row.Label)
		for i, n := range cmp.Nations {
			mark := ""
			if row.Highest[i] {
				mark = " *"
			}
			fmt.Fprintf(b, "  %-24s %8.1f%s\n", truncate(n.Name, 24), row.Values[i], mark)
		}
	}
	fmt.Fprintln(b)

	fmt.Fprintln(b, "NATION DETAILS")
	for _, n := range cmp.Nations {
		a := n.Analysis
		fmt.Fprintf(b, "--- %s (%s) ---\n", n.Name, n.Kind)
		fmt.Fprintf(b, "Population:        %s\n", humanize.Comma(n.Data.Population))
		fmt.Fprintf(b, "Territory:         %s km2\n", humanize.Comma(n.Data.Territory))
		fmt.Fprintf(b, "Location:          %s\n", n.Data.Location)
		fmt.Fprintf(b, "Primary category:  %s\n", categoryTitle(a.PrimaryCategory))
		fmt.Fprintf(b, "Economic system:   %s\n", a.EconomicSystem)
		fmt.Fprintf(b, "Government type:   %s\n", a.GovernmentType)
		fmt.Fprintf(b, "Social structure:  %s\n", a.SocialStructure)
		fmt.Fprintf(b, "Quadrant:          %s\n", a.Quadrant)
		fmt.Fprintf(b, "Cultural values:   %s\n", strings.Join(a.CulturalValues, ", "))
		if a.MostOpposite != nil {
			fmt.Fprintf(b, "Most opposite:     %s (distance %.2f)\n", a.MostOpposite.Name, a.MostOpposite.Distance)
		}
		if cp := n.CustomPolicies; cp != nil && !cp.IsZero() {
			writePolicy(b, "Ethical policy", cp.Ethical)
			writePolicy(b, "Economic policy", cp.Economic)
			writePolicy(b, "Judicial policy", cp.Judicial)
			writePolicy(b, "Environmental policy", cp.Environmental)
		}
		fmt.Fprintln(b)
	}

	fmt.Fprintln(b, reportRule)
	fmt.Fprintf(b, "Generated: %s\n", generatedAt.UTC().Format(time.RFC3339))
	return []byte(b.String())
}

func writePolicy(b *strings.Builder, label, text string) {
	if strings.TrimSpace(text) == "" {
		return
	}
	fmt.Fprintf(b, "%-19s%s\n", label+":", text)
}

func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n-1]) + "~"
}
