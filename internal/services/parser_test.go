package services

import (
	"strings"
	"testing"
)

const twoSuggestions = `[
  {"job_title": "Backend Engineer", "match_percentage": 88, "reason": "Go skills.", "required_skills": ["Go", "SQL"], "salary_range": "$90k", "location": "Remote"},
  {"job_title": "SRE", "match_percentage": 72.6, "reason": "Infra interest.", "required_skills": ["Linux"], "salary_range": "$100k", "location": "Berlin"}
]`

func TestSuggestionParser_Parse(t *testing.T) {
	parser, err := NewSuggestionParser()
	if err != nil {
		t.Fatalf("NewSuggestionParser: %v", err)
	}

	tests := []struct {
		name      string
		input     string
		wantCount int
		wantErr   string
	}{
		{name: "bare array", input: twoSuggestions, wantCount: 2},
		{name: "json fence", input: "```json\n" + twoSuggestions + "\n```", wantCount: 2},
		{name: "plain fence", input: "```\n" + twoSuggestions + "\n```", wantCount: 2},
		{name: "surrounding prose", input: "Here you go:\n" + twoSuggestions + "\nGood luck!", wantCount: 2},
		{name: "empty array", input: "[]", wantCount: 0},
		{name: "empty", input: "   ", wantErr: "empty"},
		{name: "not json", input: "Sorry, I cannot help with that.", wantErr: "not valid JSON"},
		{name: "object instead of array", input: `{"job_title": "x"}`, wantErr: "schema"},
		{
			name:    "missing required key",
			input:   `[{"job_title": "x", "match_percentage": 80, "reason": "r", "required_skills": [], "salary_range": "s"}]`,
			wantErr: "schema",
		},
		{
			name:    "percentage as string",
			input:   `[{"job_title": "x", "match_percentage": "80", "reason": "r", "required_skills": [], "salary_range": "s", "location": "l"}]`,
			wantErr: "schema",
		},
		{
			name:    "blank title",
			input:   `[{"job_title": "", "match_percentage": 80, "reason": "r", "required_skills": [], "salary_range": "s", "location": "l"}]`,
			wantErr: "schema",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := parser.Parse(tt.input)
			if tt.wantErr != "" {
				if err == nil || !strings.Contains(err.Error(), tt.wantErr) {
					t.Fatalf("error = %v, want containing %q", err, tt.wantErr)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if len(got) != tt.wantCount {
				t.Fatalf("got %d suggestions, want %d", len(got), tt.wantCount)
			}
		})
	}
}

func TestSuggestionParser_ParseFields(t *testing.T) {
	parser, err := NewSuggestionParser()
	if err != nil {
		t.Fatalf("NewSuggestionParser: %v", err)
	}

	got, err := parser.Parse(twoSuggestions)
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}

	first := got[0]
	if first.JobTitle != "Backend Engineer" || first.MatchPercentage != 88 || first.Location != "Remote" {
		t.Errorf("first = %+v", first)
	}
	if len(first.RequiredSkills) != 2 || first.RequiredSkills[1] != "SQL" {
		t.Errorf("skills = %v", first.RequiredSkills)
	}
	if got[1].MatchPercentage != 73 {
		t.Errorf("72.6 should round to 73, got %d", got[1].MatchPercentage)
	}
}

func TestClampPercentage(t *testing.T) {
	tests := []struct {
		in   float64
		want int
	}{
		{in: 85, want: 85},
		{in: 150, want: 100},
		{in: -5, want: 0},
		{in: 99.5, want: 100},
		{in: 0.4, want: 0},
	}

	for _, tt := range tests {
		if got := clampPercentage(tt.in); got != tt.want {
			t.Errorf("clampPercentage(%v) = %d, want %d", tt.in, got, tt.want)
		}
	}
}
