package cmd

import (
	"fmt"
	"io"
	"strings"

	"github.com/fatih/color"
	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"

	"github.com/helmcode/profile-comparator/pkg/model"
)

type analyzeOptions struct {
	competitors  []string
	outputFormat string
}

func NewAnalyzeCmd(app *App) *cobra.Command {
	opts := &analyzeOptions{}

	cmd := &cobra.Command{
		Use:   "analyze BUSINESS",
		Short: "Analyze a business profile, optionally against a competitor",
		Long: `Analyze a business's online profile and score it, or compare it with a competitor.

Only the first competitor is compared; any others are listed but skipped.

Examples:
  # Analyze a single business
  profile-comparator analyze "Acme Cafe"

  # Compare with a competitor
  profile-comparator analyze "Acme Cafe" -c "Beta Diner"

  # Machine-readable output
  profile-comparator analyze "Acme Cafe" -o json`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runSearch(cmd, app, model.NewSearchInput(args[0], opts.competitors...), opts.outputFormat)
		},
	}

	cmd.Flags().StringSliceVarP(&opts.competitors, "competitor", "c", []string{}, "Competitor to compare against (repeatable, only the first is used)")
	cmd.Flags().StringVarP(&opts.outputFormat, "output", "o", "", "Output format (human, json, yaml). Defaults to output.format")

	return cmd
}

func NewCompareCmd(app *App) *cobra.Command {
	var outputFormat string

	cmd := &cobra.Command{
		Use:   "compare BUSINESS COMPETITOR",
		Short: "Compare a business profile with one competitor",
		Long: `Compare two business profiles side by side.

Examples:
  profile-comparator compare "Acme Cafe" "Beta Diner"
  profile-comparator compare "Acme Cafe" "Beta Diner" -o yaml`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runSearch(cmd, app, model.NewSearchInput(args[0], args[1]), outputFormat)
		},
	}

	cmd.Flags().StringVarP(&outputFormat, "output", "o", "", "Output format (human, json, yaml). Defaults to output.format")

	return cmd
}

func runSearch(cmd *cobra.Command, app *App, in model.SearchInput, format string) error {
	out := cmd.OutOrStdout()

	a, st, scr, err := app.session(out, format)
	if err != nil {
		return err
	}

	human := scr.format == "human"
	if human {
		printHeader(out, in)
	}

	err = withSpinner(spinnerSuffix(in), func() error {
		return a.Submit(cmd.Context(), in)
	})
	if err != nil {
		if human {
			printError(out, st.LastError())
		}
		return eris.Wrap(err, "analysis failed")
	}

	if human {
		printSuccess(out, "Analysis complete")
	}
	return scr.Flush()
}

func spinnerSuffix(in model.SearchInput) string {
	if in.HasCompetitors() {
		return fmt.Sprintf("Comparing %s with %s...", in.BusinessName, in.CompetitorNames[0])
	}
	return fmt.Sprintf("Analyzing %s...", in.BusinessName)
}

func printHeader(w io.Writer, in model.SearchInput) {
	cyan := color.New(color.FgCyan, color.Bold)
	fmt.Fprintln(w)
	cyan.Fprintln(w, "🔍 Business Profile Comparator")
	fmt.Fprintf(w, "🏪 Business: %s\n", in.BusinessName)

	if in.HasCompetitors() {
		fmt.Fprintf(w, "⚖️  Competitor: %s\n", in.CompetitorNames[0])
		if len(in.CompetitorNames) > 1 {
			fmt.Fprintf(w, "   %s\n", color.HiBlackString("Skipping: %s", strings.Join(in.CompetitorNames[1:], ", ")))
		}
	}
	fmt.Fprintln(w)
}
