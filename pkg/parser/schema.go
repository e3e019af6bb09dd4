package parser

import (
	"fmt"
	"strings"
	"sync"

	"github.com/xeipuuv/gojsonschema"
)

const insightsSchema = `{
  "type": "object",
  "properties": {
    "summary": {"type": ["string", "null"]},
    "suggestions": {"type": ["array", "null"], "items": {"type": "string"}},
    "strengths": {"type": ["array", "null"], "items": {"type": "string"}}
  }
}`

const profileSchema = `{
  "type": "object",
  "required": ["name"],
  "properties": {
    "name": {"type": "string"},
    "review_count": {"type": ["integer", "null"]},
    "average_rating": {"type": ["number", "null"]},
    "reviews": {"type": ["array", "null"], "items": {"type": "object"}}
  }
}`

var analyzeSchemaSource = fmt.Sprintf(`{
  "type": "object",
  "required": ["business", "analysis", "score"],
  "properties": {
    "business": %s,
    "analysis": %s,
    "score": {"type": "number"}
  }
}`, profileSchema, insightsSchema)

var compareSchemaSource = fmt.Sprintf(`{
  "type": "object",
  "required": ["your_business", "competitor", "comparison", "your_score", "competitor_score"],
  "properties": {
    "your_business": %s,
    "competitor": %s,
    "comparison": %s,
    "your_score": {"type": "number"},
    "competitor_score": {"type": "number"}
  }
}`, profileSchema, profileSchema, insightsSchema)

var (
	analyzeSchema = compiled(analyzeSchemaSource)
	compareSchema = compiled(compareSchemaSource)
)

// compiled defers schema compilation to first use. The sources are constants,
// so a compile failure is a programming error.
func compiled(src string) func() *gojsonschema.Schema {
	return sync.OnceValue(func() *gojsonschema.Schema {
		s, err := gojsonschema.NewSchema(gojsonschema.NewStringLoader(src))
		if err != nil {
			panic(fmt.Sprintf("parser: compile response schema: %v", err))
		}
		return s
	})
}

// StructuralError reports a success response whose body does not have the
// shape the client needs.
type StructuralError struct {
	Operation string
	Problems  []string
}

func (e *StructuralError) Error() string {
	return fmt.Sprintf("parser: malformed %s response: %s", e.Operation, strings.Join(e.Problems, "; "))
}

func validate(op string, schema *gojsonschema.Schema, body []byte) error {
	if len(strings.TrimSpace(string(body))) == 0 {
		return &StructuralError{Operation: op, Problems: []string{"empty body"}}
	}

	result, err := schema.Validate(gojsonschema.NewBytesLoader(body))
	if err != nil {
		return &StructuralError{Operation: op, Problems: []string{"body is not valid JSON: " + err.Error()}}
	}
	if result.Valid() {
		return nil
	}

	problems := make([]string, len(result.Errors()))
	for i, desc := range result.Errors() {
		problems[i] = desc.String()
	}
	return &StructuralError{Operation: op, Problems: problems}
}
