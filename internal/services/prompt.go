package services

import (
	"fmt"
	"strings"

	"alfredoptarigan/career-match/internal/models"
)

const careerAdvisorSystemPrompt = "You are a career advisor AI that provides personalized job recommendations based on user profiles. Always respond with valid JSON."

type PromptBuilder struct{}

func NewPromptBuilder() *PromptBuilder {
	return &PromptBuilder{}
}

// SystemInstruction is sent alongside every suggestion prompt.
func (pb *PromptBuilder) SystemInstruction() string {
	return careerAdvisorSystemPrompt
}

// BuildJobSuggestionPrompt renders the profile into the suggestion prompt.
// Absent fields are written out as placeholders so the prompt always has the
// same shape.
func (pb *PromptBuilder) BuildJobSuggestionPrompt(profile models.UserProfile) string {
	return fmt.Sprintf(`Based on the following user profile, suggest 5-8 specific job titles that would be perfect matches. Focus on real job titles that exist in the market.

User Profile:
- Education: %s
- Specialization: %s
- Skills: %s
- Interests: %s

For each job suggestion, provide:
1. Job title (be specific)
2. Match percentage (realistic 65-95%%)
3. Brief reason why it matches (2-3 sentences)
4. Required skills (3-5 skills)
5. Typical salary range
6. Common locations for this role

Format as JSON array with this structure:
[
  {
    "job_title": "Senior Frontend Developer",
    "match_percentage": 85,
    "reason": "Your React and JavaScript skills align perfectly with frontend development. The combination of your technical skills and user interface interest makes this an excellent match.",
    "required_skills": ["React", "JavaScript", "CSS", "TypeScript", "HTML"],
    "salary_range": "$70,000 - $120,000",
    "location": "Remote/San Francisco/New York"
  }
]

Only return the JSON array, no other text.`,
		orPlaceholder(string(profile.Education), "Not specified"),
		orPlaceholder(profile.Specialization, "Not specified"),
		joinOrPlaceholder(profile.Skills, "None specified"),
		joinOrPlaceholder(profile.Interests, "None specified"),
	)
}

// BuildSuggestionDescription is the long-form text stored with each row.
func (pb *PromptBuilder) BuildSuggestionDescription(reason string, requiredSkills []string, salaryRange string) string {
	return fmt.Sprintf("%s This role typically requires %s and offers competitive compensation in the %s range.",
		reason, strings.Join(requiredSkills, ", "), salaryRange)
}

// BuildSearchText is what gets embedded for semantic search over a row.
func (pb *PromptBuilder) BuildSearchText(s models.JobSuggestion) string {
	return fmt.Sprintf("%s\n%s\nSkills: %s\nLocation: %s",
		s.JobTitle, s.Description, strings.Join(s.RequiredSkills, ", "), s.Location)
}

func orPlaceholder(value, placeholder string) string {
	if strings.TrimSpace(value) == "" {
		return placeholder
	}
	return value
}

func joinOrPlaceholder(values []string, placeholder string) string {
	return orPlaceholder(strings.Join(values, ", "), placeholder)
}
