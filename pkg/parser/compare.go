package parser

import (
	"encoding/json"

	"github.com/helmcode/profile-comparator/pkg/model"
)

type compareResponse struct {
	YourBusiness    model.BusinessProfile `json:"your_business"`
	Competitor      model.BusinessProfile `json:"competitor"`
	Comparison      model.Insights        `json:"comparison"`
	YourScore       float64               `json:"your_score"`
	CompetitorScore float64               `json:"competitor_score"`
}

// ParseCompareResponse validates a POST /compare/ body and renames its fields
// into a comparison AnalysisResult.
func ParseCompareResponse(body []byte) (*model.AnalysisResult, error) {
	if err := validate("compare", compareSchema(), body); err != nil {
		return nil, err
	}

	var resp compareResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return nil, &StructuralError{Operation: "compare", Problems: []string{err.Error()}}
	}

	return &model.AnalysisResult{
		Type:            model.TypeComparison,
		Subject:         &resp.YourBusiness,
		Competitor:      &resp.Competitor,
		Comparison:      resp.Comparison,
		SubjectScore:    resp.YourScore,
		CompetitorScore: resp.CompetitorScore,
	}, nil
}
