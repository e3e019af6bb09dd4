package parser

import (
	"encoding/json"

	"github.com/helmcode/profile-comparator/pkg/model"
)

type analyzeResponse struct {
	Business model.BusinessProfile `json:"business"`
	Analysis model.Insights        `json:"analysis"`
	Score    float64               `json:"score"`
}

// ParseAnalyzeResponse validates a POST /analyze/ body and renames its fields
// into a single-business AnalysisResult.
func ParseAnalyzeResponse(body []byte) (*model.AnalysisResult, error) {
	if err := validate("analyze", analyzeSchema(), body); err != nil {
		return nil, err
	}

	var resp analyzeResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return nil, &StructuralError{Operation: "analyze", Problems: []string{err.Error()}}
	}

	return &model.AnalysisResult{
		Type:        model.TypeSingle,
		Subject:     &resp.Business,
		Analysis:    resp.Analysis,
		Score:       resp.Score,
		Summary:     resp.Analysis.Summary,
		Suggestions: resp.Analysis.Suggestions,
	}, nil
}
