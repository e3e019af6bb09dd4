package model

import "strings"

// ResultType tags which backend operation produced an AnalysisResult.
type ResultType string

const (
	TypeSingle     ResultType = "single"
	TypeComparison ResultType = "comparison"
)

// SearchInput is what the user submitted. Only the first competitor is ever compared.
type SearchInput struct {
	BusinessName    string   `json:"business_name" yaml:"business_name"`
	CompetitorNames []string `json:"competitor_names,omitempty" yaml:"competitor_names,omitempty"`
}

// NewSearchInput trims the names and drops blank competitors.
func NewSearchInput(business string, competitors ...string) SearchInput {
	in := SearchInput{BusinessName: strings.TrimSpace(business)}
	for _, c := range competitors {
		if c = strings.TrimSpace(c); c != "" {
			in.CompetitorNames = append(in.CompetitorNames, c)
		}
	}
	return in
}

func (s SearchInput) HasCompetitors() bool {
	return len(s.CompetitorNames) > 0
}

// Clone returns a copy that shares no backing array with s.
func (s SearchInput) Clone() SearchInput {
	out := SearchInput{BusinessName: s.BusinessName}
	if len(s.CompetitorNames) > 0 {
		out.CompetitorNames = append([]string(nil), s.CompetitorNames...)
	}
	return out
}

// Equal reports whether two inputs name the same business and competitors in the same order.
func (s SearchInput) Equal(o SearchInput) bool {
	if s.BusinessName != o.BusinessName || len(s.CompetitorNames) != len(o.CompetitorNames) {
		return false
	}
	for i := range s.CompetitorNames {
		if s.CompetitorNames[i] != o.CompetitorNames[i] {
			return false
		}
	}
	return true
}

// AnalysisResult is either a single-business analysis or a head-to-head comparison.
type AnalysisResult struct {
	Type ResultType `json:"type" yaml:"type"`

	Subject    *BusinessProfile `json:"subject_business" yaml:"subject_business"`
	Competitor *BusinessProfile `json:"competitor_business,omitempty" yaml:"competitor_business,omitempty"`

	// single
	Analysis    Insights `json:"analysis,omitempty" yaml:"analysis,omitempty"`
	Score       float64  `json:"score,omitempty" yaml:"score,omitempty"`
	Summary     string   `json:"summary,omitempty" yaml:"summary,omitempty"`
	Suggestions []string `json:"suggestions,omitempty" yaml:"suggestions,omitempty"`

	// comparison
	Comparison          Insights `json:"comparison,omitempty" yaml:"comparison,omitempty"`
	SubjectScore        float64  `json:"subject_score,omitempty" yaml:"subject_score,omitempty"`
	CompetitorScore     float64  `json:"competitor_score,omitempty" yaml:"competitor_score,omitempty"`
	SelectedCompetitors []string `json:"selected_competitors,omitempty" yaml:"selected_competitors,omitempty"`
}

func (r *AnalysisResult) IsSingle() bool {
	return r != nil && r.Type == TypeSingle
}

func (r *AnalysisResult) IsComparison() bool {
	return r != nil && r.Type == TypeComparison
}

// Clone copies the result and its profiles so the copy can be handed out freely.
func (r *AnalysisResult) Clone() *AnalysisResult {
	if r == nil {
		return nil
	}
	out := *r
	out.Subject = r.Subject.Clone()
	out.Competitor = r.Competitor.Clone()
	out.Analysis = r.Analysis.clone()
	out.Comparison = r.Comparison.clone()
	out.Suggestions = cloneStrings(r.Suggestions)
	out.SelectedCompetitors = cloneStrings(r.SelectedCompetitors)
	return &out
}

// Insights is the backend's narrative block ("analysis" or "comparison").
type Insights struct {
	Summary     string   `json:"summary" yaml:"summary"`
	Suggestions []string `json:"suggestions,omitempty" yaml:"suggestions,omitempty"`
	Strengths   []string `json:"strengths,omitempty" yaml:"strengths,omitempty"`
}

func (i Insights) clone() Insights {
	return Insights{
		Summary:     i.Summary,
		Suggestions: cloneStrings(i.Suggestions),
		Strengths:   cloneStrings(i.Strengths),
	}
}

// BusinessProfile mirrors the backend's formatted business record. Fields the
// client never reads are left out; unknown keys are ignored on decode.
type BusinessProfile struct {
	Name           string   `json:"name" yaml:"name"`
	Category       string   `json:"category,omitempty" yaml:"category,omitempty"`
	Description    string   `json:"description,omitempty" yaml:"description,omitempty"`
	Website        string   `json:"website,omitempty" yaml:"website,omitempty"`
	Phone          string   `json:"phone,omitempty" yaml:"phone,omitempty"`
	Email          string   `json:"email,omitempty" yaml:"email,omitempty"`
	Address        string   `json:"address,omitempty" yaml:"address,omitempty"`
	City           string   `json:"city,omitempty" yaml:"city,omitempty"`
	State          string   `json:"state,omitempty" yaml:"state,omitempty"`
	PriceRange     string   `json:"price_range,omitempty" yaml:"price_range,omitempty"`
	CuisineType    string   `json:"cuisine_type,omitempty" yaml:"cuisine_type,omitempty"`
	HasHours       bool     `json:"has_hours" yaml:"has_hours"`
	HasDescription bool     `json:"has_description" yaml:"has_description"`
	HasMenu        bool     `json:"has_menu" yaml:"has_menu"`
	IsOpen         bool     `json:"is_open" yaml:"is_open"`
	ReviewCount    int      `json:"review_count" yaml:"review_count"`
	AverageRating  float64  `json:"average_rating" yaml:"average_rating"`
	ImageCount     int      `json:"image_count" yaml:"image_count"`
	Reviews        []Review `json:"reviews,omitempty" yaml:"reviews,omitempty"`
}

// Review is one customer review attached to a profile.
type Review struct {
	Author string  `json:"author" yaml:"author"`
	Rating float64 `json:"rating" yaml:"rating"`
	Text   string  `json:"text" yaml:"text"`
	Date   string  `json:"date" yaml:"date"`
}

func (p *BusinessProfile) Clone() *BusinessProfile {
	if p == nil {
		return nil
	}
	out := *p
	if len(p.Reviews) > 0 {
		out.Reviews = append([]Review(nil), p.Reviews...)
	}
	return &out
}

func cloneStrings(in []string) []string {
	if len(in) == 0 {
		return nil
	}
	return append([]string(nil), in...)
}
