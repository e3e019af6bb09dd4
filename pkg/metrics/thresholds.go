// Package metrics turns raw profile numbers into the qualitative labels shown
// in the results view.
package metrics

import (
	"math"
	"strings"
	"time"

	"github.com/helmcode/profile-comparator/pkg/model"
)

// Tone is the display class attached to a label. The renderer decides how a
// tone looks on screen.
type Tone int

const (
	TonePoor Tone = iota
	ToneWeak
	ToneFair
	ToneGood
	ToneExcellent
)

func (t Tone) String() string {
	switch t {
	case ToneExcellent:
		return "excellent"
	case ToneGood:
		return "good"
	case ToneFair:
		return "fair"
	case ToneWeak:
		return "weak"
	default:
		return "poor"
	}
}

// Breakpoint pairs a lower bound with the value returned when the input meets it.
type Breakpoint[T any] struct {
	Min   float64
	Value T
}

// Table is a breakpoint list sorted by Min, highest first.
type Table[T any] struct {
	Breakpoints []Breakpoint[T]
	Fallback    T
}

// Lookup returns the value of the first breakpoint whose bound v meets or
// exceeds, or the fallback when none does.
func (t Table[T]) Lookup(v float64) T {
	for _, bp := range t.Breakpoints {
		if v >= bp.Min {
			return bp.Value
		}
	}
	return t.Fallback
}

// Review volume and rating breakpoints.
const (
	ExcellentVolume = 100
	GoodVolume      = 50
	ModerateVolume  = 20
	LowVolume       = 10

	ExcellentRating = 4.5
	GoodRating      = 4.0
	AverageRating   = 3.5
	PoorRating      = 3.0
)

var (
	reviewVolumeLabels = Table[string]{
		Breakpoints: []Breakpoint[string]{
			{ExcellentVolume, "Excellent volume"},
			{GoodVolume, "Good volume"},
			{ModerateVolume, "Moderate volume"},
			{LowVolume, "Low volume"},
		},
		Fallback: "Very few reviews",
	}

	reviewVolumeTones = Table[Tone]{
		Breakpoints: []Breakpoint[Tone]{
			{ExcellentVolume, ToneExcellent},
			{GoodVolume, ToneGood},
			{ModerateVolume, ToneFair},
			{LowVolume, ToneWeak},
		},
		Fallback: TonePoor,
	}

	ratingLabels = Table[string]{
		Breakpoints: []Breakpoint[string]{
			{ExcellentRating, "Excellent (4.5+)"},
			{GoodRating, "Very Good (4.0+)"},
			{AverageRating, "Good (3.5+)"},
			{PoorRating, "Average (3.0+)"},
		},
		Fallback: "Below Average",
	}

	ratingTones = Table[Tone]{
		Breakpoints: []Breakpoint[Tone]{
			{ExcellentRating, ToneExcellent},
			{GoodRating, ToneGood},
			{AverageRating, ToneFair},
			{PoorRating, ToneWeak},
		},
		Fallback: TonePoor,
	}

	scoreGrades = Table[string]{
		Breakpoints: []Breakpoint[string]{
			{90, "Excellent"},
			{70, "Good"},
			{50, "Average"},
			{30, "Poor"},
		},
		Fallback: "Critical",
	}

	scoreTones = Table[Tone]{
		Breakpoints: []Breakpoint[Tone]{
			{90, ToneExcellent},
			{70, ToneGood},
			{50, ToneFair},
			{30, ToneWeak},
		},
		Fallback: TonePoor,
	}
)

func ReviewVolume(count int) string {
	return reviewVolumeLabels.Lookup(float64(count))
}

func ReviewVolumeTone(count int) Tone {
	return reviewVolumeTones.Lookup(float64(count))
}

func RatingQuality(rating float64) string {
	return ratingLabels.Lookup(rating)
}

func RatingQualityTone(rating float64) Tone {
	return ratingTones.Lookup(rating)
}

// ScoreGrade labels a 0-100 backend score.
func ScoreGrade(score float64) string {
	return scoreGrades.Lookup(score)
}

func ScoreTone(score float64) Tone {
	return scoreTones.Lookup(score)
}

// ProfileFields is the whitelist counted by CompletionPercentage.
var ProfileFields = []string{
	"phone",
	"email",
	"website",
	"has_hours",
	"has_description",
	"has_menu",
	"address",
}

// CompletionPercentage is the share of ProfileFields present on p, rounded to
// the nearest whole percent. A nil profile is 0.
func CompletionPercentage(p *model.BusinessProfile) int {
	if p == nil {
		return 0
	}
	present := 0
	for _, ok := range []bool{
		p.Phone != "",
		p.Email != "",
		p.Website != "",
		p.HasHours,
		p.HasDescription,
		p.HasMenu,
		p.Address != "",
	} {
		if ok {
			present++
		}
	}
	return int(math.Round(float64(present) / float64(len(ProfileFields)) * 100))
}

var reviewDateLayouts = []string{
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
	"2006-01-02",
}

// FormatReviewDate renders ISO dates as "Jan 2, 2006". Anything else, such as
// the relative "2 weeks ago" strings some review sources return, is passed
// through unchanged.
func FormatReviewDate(s string) string {
	s = strings.TrimSpace(s)
	if s == "" {
		return ""
	}
	for _, layout := range reviewDateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t.Format("Jan 2, 2006")
		}
	}
	return s
}
