package main

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"strings"
	"text/tabwriter"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/nationbuilder/nationbuilder/internal/models"
	"github.com/nationbuilder/nationbuilder/internal/services"
)

var (
	outputFormat   string
	outputPath     string
	archetypeRefs  []string
	leaderboardFor string
	leaderboardAll bool
)

var scoreCmd = &cobra.Command{
	Use:   "score FILE",
	Short: "Score and classify one assessment (YAML or JSON)",
	Args:  cobra.ExactArgs(1),
	RunE:  runScore,
}

var compareCmd = &cobra.Command{
	Use:   "compare FILE...",
	Short: "Compare up to three nations from files and catalog archetypes",
	RunE:  runCompare,
}

var leaderboardCmd = &cobra.Command{
	Use:   "leaderboard",
	Short: "Print the public leaderboard from the configured database",
	Args:  cobra.NoArgs,
	RunE:  runLeaderboard,
}

var subscriptionCmd = &cobra.Command{
	Use:   "subscription",
	Short: "Manage subscription tiers",
}

var subscriptionSetCmd = &cobra.Command{
	Use:   "set USER_ID free|premium",
	Short: "Record the tier of a user",
	Args:  cobra.ExactArgs(2),
	RunE:  runSubscriptionSet,
}

func init() {
	scoreCmd.Flags().StringVar(&outputFormat, "format", "text", "output format: text or json")
	compareCmd.Flags().StringVar(&outputFormat, "format", "text", "output format: text, csv or json")
	compareCmd.Flags().StringVarP(&outputPath, "out", "o", "", "write the report to this file instead of stdout")
	compareCmd.Flags().StringSliceVar(&archetypeRefs, "archetype", nil, "add a catalog archetype by id (repeatable)")
	leaderboardCmd.Flags().StringVar(&leaderboardFor, "user", "", "resolve the view for this user id")
	leaderboardCmd.Flags().BoolVar(&leaderboardAll, "expanded", false, "request the expanded (premium) view")
	subscriptionCmd.AddCommand(subscriptionSetCmd)
}

// nationFile is one nation on disk. A file holding only the assessment
// fields is accepted too.
type nationFile struct {
	Name           string                 `yaml:"name"`
	Data           models.AssessmentData  `yaml:"assessmentData"`
	CustomPolicies *models.CustomPolicies `yaml:"customPolicies"`
}

func readNationFile(path string) (nationFile, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nationFile{}, errors.Wrapf(err, "read %s", path)
	}
	var nf nationFile
	if err := yaml.Unmarshal(raw, &nf); err != nil {
		return nationFile{}, errors.Wrapf(err, "parse %s", path)
	}
	if nf.Data.Location == "" && nf.Data.Population == 0 {
		if err := yaml.Unmarshal(raw, &nf.Data); err != nil {
			return nationFile{}, errors.Wrapf(err, "parse %s", path)
		}
	}
	return nf, nil
}

func runScore(cmd *cobra.Command, args []string) error {
	nf, err := readNationFile(args[0])
	if err != nil {
		return err
	}
	a, err := services.NewAnalysisService(services.ArchetypeCatalog()).Analyze(nf.Data)
	if err != nil {
		return errors.Wrap(err, "analyze")
	}
	out := cmd.OutOrStdout()
	if outputFormat == "json" {
		return printJSON(out, a)
	}
	tw := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	fmt.Fprintf(tw, "Utopian score\t%d\n", a.Scores.Utopian)
	fmt.Fprintf(tw, "Dystopian score\t%d\n", a.Scores.Dystopian)
	fmt.Fprintf(tw, "Martian score\t%d\n", a.Scores.Martian)
	fmt.Fprintf(tw, "Primary category\t%s\n", a.PrimaryCategory)
	fmt.Fprintf(tw, "Economic system\t%s\n", a.EconomicSystem)
	fmt.Fprintf(tw, "Government type\t%s\n", a.GovernmentType)
	fmt.Fprintf(tw, "Social structure\t%s\n", a.SocialStructure)
	fmt.Fprintf(tw, "Quadrant\t%s\n", a.Quadrant)
	fmt.Fprintf(tw, "Cultural values\t%s\n", strings.Join(a.CulturalValues, ", "))
	if a.MostOpposite != nil {
		fmt.Fprintf(tw, "Most opposite\t%s (%.2f)\n", a.MostOpposite.Name, a.MostOpposite.Distance)
	}
	for _, p := range a.RecommendedPolicies {
		fmt.Fprintf(tw, "Recommended\t%s\n", p)
	}
	return tw.Flush()
}

func runCompare(cmd *cobra.Command, args []string) error {
	var nations []services.ComparisonNation
	for _, path := range args {
		nf, err := readNationFile(path)
		if err != nil {
			return err
		}
		nations = append(nations, services.ComparisonNation{Kind: services.KindUser, Source: path, Name: nf.Name, Data: nf.Data, CustomPolicies: nf.CustomPolicies})
	}
	for _, id := range archetypeRefs {
		a, ok := services.FindArchetype(id)
		if !ok {
			return errors.Errorf("unknown archetype %q", id)
		}
		nations = append(nations, a.ComparisonNation())
	}

	svc := services.NewCompareService(services.ArchetypeCatalog())
	var body []byte
	if outputFormat == "json" {
		cmp, err := svc.Compare(nations)
		if err != nil {
			return errors.Wrap(err, "compare")
		}
		var buf bytes.Buffer
		if err := printJSON(&buf, cmp); err != nil {
			return err
		}
		body = buf.Bytes()
	} else {
		res, err := svc.Export(nations, outputFormat)
		if err != nil {
			return errors.Wrap(err, "compare")
		}
		body = res.Data
	}

	if outputPath == "" {
		_, err := cmd.OutOrStdout().Write(body)
		return err
	}
	if err := os.WriteFile(outputPath, body, 0o644); err != nil {
		return errors.Wrapf(err, "write %s", outputPath)
	}
	fmt.Fprintf(cmd.ErrOrStderr(), "wrote %s\n", outputPath)
	return nil
}

func runLeaderboard(cmd *cobra.Command, _ []string) error {
	cfg, logger, err := loadConfig()
	if err != nil {
		return errors.Wrap(err, "load config")
	}
	a, err := buildApp(cfg, logger)
	if err != nil {
		return errors.Wrap(err, "build app")
	}
	defer a.Close()

	view := services.ViewDefault
	if leaderboardAll {
		view = services.ViewExpanded
	}
	board, err := a.services.Leaderboard.Get(cmd.Context(), leaderboardFor, view)
	if err != nil {
		return errors.Wrap(err, "leaderboard")
	}
	printBoard(cmd.OutOrStdout(), board)
	return nil
}

func printBoard(out io.Writer, b *services.Leaderboard) {
	sections := []struct {
		title   string
		entries []services.LeaderboardEntry
	}{
		{"UTOPIAN", b.Utopian},
		{"DYSTOPIAN", b.Dystopian},
		{"MARTIAN", b.Martian},
	}
	tw := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	for _, s := range sections {
		fmt.Fprintln(tw, s.title)
		if len(s.entries) == 0 {
			fmt.Fprintln(tw, "  (none)")
		}
		for i, e := range s.entries {
			fmt.Fprintf(tw, "  %d.\t%s\t%s\t%s\t%d\n", i+1, e.Name, e.DisplayName, e.Location, e.Score)
		}
	}
	_ = tw.Flush()
}

func runSubscriptionSet(cmd *cobra.Command, args []string) error {
	tier, err := services.ParseTier(args[1])
	if err != nil {
		return err
	}
	cfg, logger, err := loadConfig()
	if err != nil {
		return errors.Wrap(err, "load config")
	}
	if cfg.Database.Driver == "memory" {
		return errors.New("subscription set needs a SQL database driver")
	}
	a, err := buildApp(cfg, logger)
	if err != nil {
		return errors.Wrap(err, "build app")
	}
	defer a.Close()

	sub, err := a.services.Subscriptions.Set(args[0], tier)
	if err != nil {
		return errors.Wrap(err, "set subscription")
	}
	fmt.Fprintf(cmd.OutOrStdout(), "%s is now %s\n", sub.UserID, sub.Tier)
	return nil
}

func printJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func writeJSONBody(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(v)
}
