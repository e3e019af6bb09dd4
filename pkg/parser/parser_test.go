package parser

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/helmcode/profile-comparator/pkg/model"
)

const analyzeBody = `{
  "business": {
    "name": "Acme Cafe",
    "phone": "555-0100",
    "email": null,
    "website": "https://acme.test",
    "address": "1 Main St",
    "has_hours": true,
    "has_description": false,
    "has_menu": true,
    "review_count": 120,
    "average_rating": 4.6,
    "image_count": 14,
    "place_id": "ignored",
    "reviews": [{"author": "Sam", "rating": 5, "text": "Great coffee", "date": "2024-03-04"}]
  },
  "analysis": {
    "summary": "Strong local presence.",
    "suggestions": ["Add a description", "Post more photos"]
  },
  "score": 82
}`

const compareBody = `{
  "your_business": {"name": "Acme Cafe", "review_count": 120, "average_rating": 4.6},
  "competitor": {"name": "Beta Diner", "review_count": 45, "average_rating": 3.9},
  "comparison": {
    "summary": "Acme leads on reviews.",
    "suggestions": ["Publish a menu"],
    "strengths": ["Higher rating"]
  },
  "your_score": 82,
  "competitor_score": 64.5
}`

func TestParseAnalyzeResponse(t *testing.T) {
	res, err := ParseAnalyzeResponse([]byte(analyzeBody))
	require.NoError(t, err)

	assert.Equal(t, model.TypeSingle, res.Type)
	assert.True(t, res.IsSingle())
	require.NotNil(t, res.Subject)
	assert.Equal(t, "Acme Cafe", res.Subject.Name)
	assert.Equal(t, "555-0100", res.Subject.Phone)
	assert.Empty(t, res.Subject.Email)
	assert.True(t, res.Subject.HasHours)
	assert.Equal(t, 120, res.Subject.ReviewCount)
	assert.InDelta(t, 4.6, res.Subject.AverageRating, 0.0001)
	require.Len(t, res.Subject.Reviews, 1)
	assert.Equal(t, "Sam", res.Subject.Reviews[0].Author)

	assert.InDelta(t, 82, res.Score, 0.0001)
	assert.Equal(t, "Strong local presence.", res.Summary)
	assert.Equal(t, []string{"Add a description", "Post more photos"}, res.Suggestions)
	assert.Equal(t, res.Summary, res.Analysis.Summary)
	assert.Nil(t, res.Competitor)
}

func TestParseCompareResponse(t *testing.T) {
	res, err := ParseCompareResponse([]byte(compareBody))
	require.NoError(t, err)

	assert.Equal(t, model.TypeComparison, res.Type)
	require.NotNil(t, res.Subject)
	require.NotNil(t, res.Competitor)
	assert.Equal(t, "Acme Cafe", res.Subject.Name)
	assert.Equal(t, "Beta Diner", res.Competitor.Name)
	assert.InDelta(t, 82, res.SubjectScore, 0.0001)
	assert.InDelta(t, 64.5, res.CompetitorScore, 0.0001)
	assert.Equal(t, "Acme leads on reviews.", res.Comparison.Summary)
	assert.Equal(t, []string{"Higher rating"}, res.Comparison.Strengths)
}

func TestParseStructuralErrors(t *testing.T) {
	tests := []struct {
		name    string
		parse   func([]byte) (*model.AnalysisResult, error)
		body    string
		problem string
	}{
		{"analyze empty body", ParseAnalyzeResponse, "", "empty body"},
		{"analyze not json", ParseAnalyzeResponse, "<html>oops</html>", "not valid JSON"},
		{"analyze missing score", ParseAnalyzeResponse, `{"business": {"name": "A"}, "analysis": {}}`, "score"},
		{"analyze missing business", ParseAnalyzeResponse, `{"analysis": {}, "score": 1}`, "business"},
		{"analyze score wrong type", ParseAnalyzeResponse, `{"business": {"name": "A"}, "analysis": {}, "score": "high"}`, "score"},
		{"analyze business without name", ParseAnalyzeResponse, `{"business": {}, "analysis": {}, "score": 1}`, "name"},
		{"compare missing competitor", ParseCompareResponse, `{"your_business": {"name": "A"}, "comparison": {}, "your_score": 1, "competitor_score": 2}`, "competitor"},
		{"compare suggestions not strings", ParseCompareResponse, `{"your_business": {"name": "A"}, "competitor": {"name": "B"}, "comparison": {"suggestions": [1]}, "your_score": 1, "competitor_score": 2}`, "suggestions"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res, err := tt.parse([]byte(tt.body))
			require.Error(t, err)
			assert.Nil(t, res)

			var se *StructuralError
			require.ErrorAs(t, err, &se)
			assert.Contains(t, se.Error(), tt.problem)
		})
	}
}
