package services

import (
	"encoding/json"
	"fmt"
	"math"
	"strings"

	"github.com/xeipuuv/gojsonschema"
)

// suggestionListSchema is the shape the model is asked to produce.
const suggestionListSchema = `{
  "$schema": "http://json-schema.org/draft-07/schema#",
  "type": "array",
  "items": {
    "type": "object",
    "required": ["job_title", "match_percentage", "reason", "required_skills", "salary_range", "location"],
    "properties": {
      "job_title": {"type": "string", "minLength": 1},
      "match_percentage": {"type": "number"},
      "reason": {"type": "string"},
      "required_skills": {"type": "array", "items": {"type": "string"}},
      "salary_range": {"type": "string"},
      "location": {"type": "string"}
    }
  }
}`

// ParsedSuggestion is one entry of the model's answer after validation.
type ParsedSuggestion struct {
	JobTitle        string
	MatchPercentage int
	Reason          string
	RequiredSkills  []string
	SalaryRange     string
	Location        string
}

type rawSuggestion struct {
	JobTitle        string   `json:"job_title"`
	MatchPercentage float64  `json:"match_percentage"`
	Reason          string   `json:"reason"`
	RequiredSkills  []string `json:"required_skills"`
	SalaryRange     string   `json:"salary_range"`
	Location        string   `json:"location"`
}

type SuggestionParser struct {
	schema *gojsonschema.Schema
}

func NewSuggestionParser() (*SuggestionParser, error) {
	schema, err := gojsonschema.NewSchema(gojsonschema.NewStringLoader(suggestionListSchema))
	if err != nil {
		return nil, fmt.Errorf("failed to compile suggestion schema: %w", err)
	}
	return &SuggestionParser{schema: schema}, nil
}

// Parse validates the completion text and converts it into suggestions.
// match_percentage is rounded and clamped into 0..100.
func (p *SuggestionParser) Parse(completion string) ([]ParsedSuggestion, error) {
	body := extractJSONArray(completion)
	if body == "" {
		return nil, fmt.Errorf("empty completion")
	}

	result, err := p.schema.Validate(gojsonschema.NewStringLoader(body))
	if err != nil {
		return nil, fmt.Errorf("completion is not valid JSON: %w", err)
	}
	if !result.Valid() {
		problems := make([]string, 0, len(result.Errors()))
		for _, e := range result.Errors() {
			problems = append(problems, e.String())
		}
		return nil, fmt.Errorf("completion does not match suggestion schema: %s", strings.Join(problems, "; "))
	}

	var raw []rawSuggestion
	if err := json.Unmarshal([]byte(body), &raw); err != nil {
		return nil, fmt.Errorf("failed to decode suggestions: %w", err)
	}

	parsed := make([]ParsedSuggestion, 0, len(raw))
	for _, r := range raw {
		parsed = append(parsed, ParsedSuggestion{
			JobTitle:        r.JobTitle,
			MatchPercentage: clampPercentage(r.MatchPercentage),
			Reason:          r.Reason,
			RequiredSkills:  r.RequiredSkills,
			SalaryRange:     r.SalaryRange,
			Location:        r.Location,
		})
	}

	return parsed, nil
}

// extractJSONArray drops Markdown code fences and any prose around the
// outermost JSON array.
func extractJSONArray(text string) string {
	clean := strings.TrimSpace(text)

	if strings.HasPrefix(clean, "```json") {
		clean = strings.TrimPrefix(clean, "```json")
	} else if strings.HasPrefix(clean, "```") {
		clean = strings.TrimPrefix(clean, "```")
	}
	clean = strings.TrimSuffix(strings.TrimSpace(clean), "```")
	clean = strings.TrimSpace(clean)

	if strings.HasPrefix(clean, "[") {
		return clean
	}

	start := strings.Index(clean, "[")
	end := strings.LastIndex(clean, "]")
	if start != -1 && end > start {
		return clean[start : end+1]
	}

	return clean
}

func clampPercentage(v float64) int {
	if math.IsNaN(v) {
		return 0
	}
	rounded := int(math.Round(v))
	if rounded < 0 {
		return 0
	}
	if rounded > 100 {
		return 100
	}
	return rounded
}
