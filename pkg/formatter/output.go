package formatter

import (
	"encoding/json"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/fatih/color"
	"gopkg.in/yaml.v3"

	"github.com/helmcode/profile-comparator/pkg/metrics"
	"github.com/helmcode/profile-comparator/pkg/model"
	"github.com/helmcode/profile-comparator/pkg/store"
)

// DefaultMaxReviews caps how many reviews the human view lists per business.
const DefaultMaxReviews = 10

const lineWidth = 80

type options struct {
	maxReviews int
}

type Option func(*options)

// WithMaxReviews overrides DefaultMaxReviews. Zero hides reviews entirely.
func WithMaxReviews(n int) Option {
	return func(o *options) {
		if n >= 0 {
			o.maxReviews = n
		}
	}
}

// DisplayResult formats and writes an analysis result
func DisplayResult(w io.Writer, result *model.AnalysisResult, format string, opts ...Option) error {
	o := options{maxReviews: DefaultMaxReviews}
	for _, opt := range opts {
		opt(&o)
	}

	switch format {
	case "json":
		return displayJSON(w, result)
	case "yaml":
		return displayYAML(w, result)
	case "human":
		fallthrough
	default:
		if result == nil {
			fmt.Fprintln(w, color.HiBlackString("No results yet. Run a search first."))
			return nil
		}
		if result.IsComparison() {
			displayComparison(w, result, o)
		} else {
			displaySingle(w, result, o)
		}
	}
	return nil
}

func displayJSON(w io.Writer, v any) error {
	output, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return err
	}
	fmt.Fprintln(w, string(output))
	return nil
}

func displayYAML(w io.Writer, v any) error {
	output, err := yaml.Marshal(v)
	if err != nil {
		return err
	}
	fmt.Fprint(w, string(output))
	return nil
}

func displaySingle(w io.Writer, r *model.AnalysisResult, o options) {
	cyan := color.New(color.FgCyan, color.Bold)
	yellow := color.New(color.FgYellow, color.Bold)
	white := color.New(color.FgWhite, color.Bold)

	fmt.Fprintln(w)
	printBusinessHeader(w, r.Subject)

	toneColor(metrics.ScoreTone(r.Score)).Fprintf(w, "📊 SCORE: %s (%s)\n", formatScore(r.Score), metrics.ScoreGrade(r.Score))
	printProfileStats(w, r.Subject, "   ")
	fmt.Fprintln(w)

	if r.Summary != "" {
		white.Fprintln(w, "📄 SUMMARY:")
		fmt.Fprintln(w, wrapText(r.Summary, lineWidth, "   "))
		fmt.Fprintln(w)
	}

	if len(r.Suggestions) > 0 {
		cyan.Fprintln(w, "💡 SUGGESTIONS:")
		printNumbered(w, r.Suggestions)
	}

	if r.Subject != nil && len(r.Subject.Reviews) > 0 && o.maxReviews > 0 {
		yellow.Fprintln(w, "⭐ RECENT REVIEWS:")
		printReviews(w, r.Subject.Reviews, o.maxReviews)
	}

	printFooter(w)
}

func displayComparison(w io.Writer, r *model.AnalysisResult, o options) {
	cyan := color.New(color.FgCyan, color.Bold)
	green := color.New(color.FgGreen, color.Bold)
	yellow := color.New(color.FgYellow, color.Bold)
	white := color.New(color.FgWhite, color.Bold)

	subject, competitor := nameOf(r.Subject), nameOf(r.Competitor)

	fmt.Fprintln(w)
	cyan.Fprintf(w, "⚖️  %s vs %s\n\n", subject, competitor)

	fmt.Fprintf(w, "   %-20s %-28s %s\n", "", truncate(subject, 28), truncate(competitor, 28))
	fmt.Fprintf(w, "   %-20s %s %s\n", "Score",
		padColored(formatScore(r.SubjectScore)+" ("+metrics.ScoreGrade(r.SubjectScore)+")", metrics.ScoreTone(r.SubjectScore), 28),
		toneColor(metrics.ScoreTone(r.CompetitorScore)).Sprint(formatScore(r.CompetitorScore)+" ("+metrics.ScoreGrade(r.CompetitorScore)+")"),
	)
	fmt.Fprintf(w, "   %-20s %-28s %s\n", "Profile completion",
		strconv.Itoa(metrics.CompletionPercentage(r.Subject))+"%",
		strconv.Itoa(metrics.CompletionPercentage(r.Competitor))+"%",
	)
	fmt.Fprintf(w, "   %-20s %s %s\n", "Reviews",
		padColored(reviewVolumeLine(r.Subject), metrics.ReviewVolumeTone(reviewCount(r.Subject)), 28),
		toneColor(metrics.ReviewVolumeTone(reviewCount(r.Competitor))).Sprint(reviewVolumeLine(r.Competitor)),
	)
	fmt.Fprintf(w, "   %-20s %s %s\n", "Rating",
		padColored(ratingLine(r.Subject), metrics.RatingQualityTone(averageRating(r.Subject)), 28),
		toneColor(metrics.RatingQualityTone(averageRating(r.Competitor))).Sprint(ratingLine(r.Competitor)),
	)
	fmt.Fprintln(w)

	if r.Comparison.Summary != "" {
		white.Fprintln(w, "📄 SUMMARY:")
		fmt.Fprintln(w, wrapText(r.Comparison.Summary, lineWidth, "   "))
		fmt.Fprintln(w)
	}

	if len(r.Comparison.Strengths) > 0 {
		green.Fprintln(w, "💪 STRENGTHS:")
		printNumbered(w, r.Comparison.Strengths)
	}

	if len(r.Comparison.Suggestions) > 0 {
		cyan.Fprintln(w, "💡 SUGGESTIONS:")
		printNumbered(w, r.Comparison.Suggestions)
	}

	if ignored := ignoredCompetitors(r); len(ignored) > 0 {
		yellow.Fprintln(w, "⚠️  NOT COMPARED:")
		fmt.Fprintf(w, "   Only the first competitor is compared. Skipped: %s\n\n", strings.Join(ignored, ", "))
	}

	if o.maxReviews > 0 {
		for _, p := range []*model.BusinessProfile{r.Subject, r.Competitor} {
			if p == nil || len(p.Reviews) == 0 {
				continue
			}
			yellow.Fprintf(w, "⭐ RECENT REVIEWS, %s:\n", p.Name)
			printReviews(w, p.Reviews, o.maxReviews)
		}
	}

	printFooter(w)
}

// DisplayStatus writes the session state in human form.
func DisplayStatus(w io.Writer, snap store.Snapshot) {
	white := color.New(color.FgWhite, color.Bold)
	red := color.New(color.FgRed)

	white.Fprintln(w, "📋 SESSION STATUS:")
	fmt.Fprintf(w, "   Session:  %s\n", snap.SessionID)
	fmt.Fprintf(w, "   Started:  %s\n", snap.StartedAt.Format(time.RFC3339))

	if snap.LastSearch != nil {
		fmt.Fprintf(w, "   Search:   %s\n", describeSearch(*snap.LastSearch))
	} else {
		fmt.Fprintln(w, "   Search:   none")
	}

	switch {
	case snap.LastResult.IsComparison():
		fmt.Fprintf(w, "   Result:   comparison of %s vs %s\n", nameOf(snap.LastResult.Subject), nameOf(snap.LastResult.Competitor))
	case snap.LastResult.IsSingle():
		fmt.Fprintf(w, "   Result:   analysis of %s (score %s)\n", nameOf(snap.LastResult.Subject), formatScore(snap.LastResult.Score))
	default:
		fmt.Fprintln(w, "   Result:   none")
	}

	fmt.Fprintf(w, "   Loading:  %t\n", snap.IsLoading)
	if snap.LastError != "" {
		red.Fprintf(w, "   Error:    %s\n", snap.LastError)
		if snap.LastSearch != nil {
			fmt.Fprintf(w, "   %s\n", color.HiBlackString("Type 'retry' to run the last search again"))
		}
	}
}

func describeSearch(in model.SearchInput) string {
	if !in.HasCompetitors() {
		return in.BusinessName
	}
	return fmt.Sprintf("%s vs %s", in.BusinessName, strings.Join(in.CompetitorNames, ", "))
}

func printBusinessHeader(w io.Writer, p *model.BusinessProfile) {
	cyan := color.New(color.FgCyan, color.Bold)
	cyan.Fprintf(w, "🏪 %s\n", nameOf(p))
	if p == nil {
		return
	}

	var details []string
	if p.Category != "" {
		details = append(details, p.Category)
	}
	if loc := joinNonEmpty(", ", p.City, p.State); loc != "" {
		details = append(details, loc)
	}
	if p.PriceRange != "" {
		details = append(details, p.PriceRange)
	}
	if len(details) > 0 {
		fmt.Fprintf(w, "   %s\n", strings.Join(details, " · "))
	}
	fmt.Fprintln(w)
}

func printProfileStats(w io.Writer, p *model.BusinessProfile, indent string) {
	fmt.Fprintf(w, "%sProfile completion: %d%%\n", indent, metrics.CompletionPercentage(p))
	fmt.Fprintf(w, "%sReviews: %s\n", indent, toneColor(metrics.ReviewVolumeTone(reviewCount(p))).Sprint(reviewVolumeLine(p)))
	fmt.Fprintf(w, "%sRating: %s\n", indent, toneColor(metrics.RatingQualityTone(averageRating(p))).Sprint(ratingLine(p)))
}

func printNumbered(w io.Writer, items []string) {
	for i, item := range items {
		text := wrapText(item, lineWidth, "      ")
		fmt.Fprintf(w, "   %d. %s\n", i+1, strings.TrimLeft(text, " "))
	}
	fmt.Fprintln(w)
}

func printReviews(w io.Writer, reviews []model.Review, limit int) {
	shown := reviews
	if len(shown) > limit {
		shown = shown[:limit]
	}
	for _, rv := range shown {
		author := rv.Author
		if author == "" {
			author = "Anonymous"
		}
		fmt.Fprintf(w, "   %s %.1f  %s", getRatingIcon(rv.Rating), rv.Rating, author)
		if rv.Date != "" {
			fmt.Fprintf(w, " · %s", color.HiBlackString("%s", metrics.FormatReviewDate(rv.Date)))
		}
		fmt.Fprintln(w)
		if rv.Text != "" {
			fmt.Fprintln(w, wrapText(rv.Text, lineWidth, "      "))
		}
	}
	if hidden := len(reviews) - len(shown); hidden > 0 {
		fmt.Fprintf(w, "   %s\n", color.HiBlackString("... and %d more", hidden))
	}
	fmt.Fprintln(w)
}

func printFooter(w io.Writer) {
	fmt.Fprintln(w, strings.Repeat("─", lineWidth))
	fmt.Fprintf(w, "💡 %s\n", color.HiBlackString("Run with -o json or -o yaml for machine-readable output"))
}

// ignoredCompetitors lists the selected competitors beyond the one compared.
func ignoredCompetitors(r *model.AnalysisResult) []string {
	if len(r.SelectedCompetitors) < 2 {
		return nil
	}
	return r.SelectedCompetitors[1:]
}

func toneColor(t metrics.Tone) *color.Color {
	switch t {
	case metrics.ToneExcellent:
		return color.New(color.FgGreen, color.Bold)
	case metrics.ToneGood:
		return color.New(color.FgGreen)
	case metrics.ToneFair:
		return color.New(color.FgYellow)
	case metrics.ToneWeak:
		return color.New(color.FgRed)
	default:
		return color.New(color.FgRed, color.Bold)
	}
}

func getRatingIcon(rating float64) string {
	switch {
	case rating >= 4.5:
		return "🟢"
	case rating >= 3.5:
		return "🟡"
	case rating >= 2.5:
		return "🟠"
	default:
		return "🔴"
	}
}

// padColored pads before colouring so escape codes don't break alignment.
func padColored(s string, t metrics.Tone, width int) string {
	if len(s) < width {
		s += strings.Repeat(" ", width-len(s))
	}
	return toneColor(t).Sprint(s)
}

func reviewVolumeLine(p *model.BusinessProfile) string {
	n := reviewCount(p)
	return fmt.Sprintf("%d (%s)", n, metrics.ReviewVolume(n))
}

func ratingLine(p *model.BusinessProfile) string {
	r := averageRating(p)
	return fmt.Sprintf("%.1f (%s)", r, metrics.RatingQuality(r))
}

func reviewCount(p *model.BusinessProfile) int {
	if p == nil {
		return 0
	}
	return p.ReviewCount
}

func averageRating(p *model.BusinessProfile) float64 {
	if p == nil {
		return 0
	}
	return p.AverageRating
}

func nameOf(p *model.BusinessProfile) string {
	if p == nil || p.Name == "" {
		return "Unknown business"
	}
	return p.Name
}

func formatScore(score float64) string {
	return strconv.FormatFloat(score, 'f', -1, 64)
}

func joinNonEmpty(sep string, parts ...string) string {
	var kept []string
	for _, p := range parts {
		if p != "" {
			kept = append(kept, p)
		}
	}
	return strings.Join(kept, sep)
}

func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n-1]) + "…"
}

func wrapText(text string, width int, indent string) string {
	var result strings.Builder
	lines := strings.Split(text, "\n")

	for _, line := range lines {
		words := strings.Fields(line)
		if len(words) == 0 {
			result.WriteString("\n")
			continue
		}

		currentLine := indent
		for _, word := range words {
			if currentLine != indent && len(currentLine)+len(word)+1 > width {
				result.WriteString(currentLine + "\n")
				currentLine = indent + word
			} else if currentLine == indent {
				currentLine += word
			} else {
				currentLine += " " + word
			}
		}

		if currentLine != indent {
			result.WriteString(currentLine + "\n")
		}
	}

	return strings.TrimSuffix(result.String(), "\n")
}
