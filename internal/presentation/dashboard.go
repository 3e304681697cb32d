package presentation

import (
	"fmt"
	"math"

	"alfredoptarigan/career-match/internal/models"
)

// Tone is the colour bucket of a match percentage.
type Tone string

const (
	ToneSuccess Tone = "success"
	TonePrimary Tone = "primary"
	ToneWarning Tone = "warning"
	ToneMuted   Tone = "muted"
)

func MatchTone(percentage int) Tone {
	switch {
	case percentage >= 90:
		return ToneSuccess
	case percentage >= 70:
		return TonePrimary
	case percentage >= 50:
		return ToneWarning
	default:
		return ToneMuted
	}
}

type JobCard struct {
	ID              string
	Title           string
	Company         string
	Location        string
	Salary          string
	Type            string
	MatchPercentage int
	Reason          string
	RequiredSkills  []string
	Description     string
	Posted          string
}

type Course struct {
	ID          string
	Title       string
	Provider    string
	Duration    string
	Difficulty  string
	Rating      float64
	Price       string
	Description string
	Skills      []string
	Recommended bool
}

// SampleJobs is shown until the user has generated suggestions.
func SampleJobs() []JobCard {
	return []JobCard{
		{
			ID: "1", Title: "Frontend Developer", Company: "TechCorp Inc.", Location: "San Francisco, CA",
			Salary: "$80k - $120k", Type: "Full-time", MatchPercentage: 95,
			Reason:         "Perfect match for your React and JavaScript skills. Your portfolio demonstrates strong frontend expertise.",
			RequiredSkills: []string{"React", "JavaScript", "TypeScript", "CSS", "HTML"},
			Description:    "We're looking for a passionate Frontend Developer to join our team and build amazing user experiences. You'll work with React, TypeScript, and modern web technologies.",
			Posted:         "2 days ago",
		},
		{
			ID: "2", Title: "Full Stack Engineer", Company: "StartupXYZ", Location: "Remote",
			Salary: "$90k - $140k", Type: "Full-time", MatchPercentage: 88,
			Reason:         "Your diverse skill set in both frontend and backend makes you ideal for this full-stack role.",
			RequiredSkills: []string{"React", "Node.js", "Python", "MongoDB", "AWS"},
			Description:    "Join our fast-growing startup as a Full Stack Engineer. Build scalable applications from frontend to backend.",
			Posted:         "1 week ago",
		},
		{
			ID: "3", Title: "UI/UX Designer", Company: "Design Studio", Location: "New York, NY",
			Salary: "$70k - $100k", Type: "Full-time", MatchPercentage: 72,
			Reason:         "Your design interests and creative background align well with this role, though some design tool experience would be beneficial.",
			RequiredSkills: []string{"Figma", "Sketch", "Adobe Creative Suite", "Prototyping", "User Research"},
			Description:    "Create beautiful and intuitive user experiences for our clients. Work on diverse projects from mobile apps to web platforms.",
			Posted:         "3 days ago",
		},
		{
			ID: "4", Title: "Data Scientist", Company: "AI Innovations", Location: "Austin, TX",
			Salary: "$100k - $160k", Type: "Full-time", MatchPercentage: 65,
			Reason:         "Your programming skills provide a good foundation, but you'd need to develop expertise in data science and machine learning.",
			RequiredSkills: []string{"Python", "Machine Learning", "SQL", "Statistics", "TensorFlow"},
			Description:    "Analyze complex datasets and build machine learning models to drive business insights and decisions.",
			Posted:         "5 days ago",
		},
	}
}

func LearningRecommendations() []Course {
	return []Course{
		{
			ID: "1", Title: "Advanced React Development", Provider: "Tech Academy", Duration: "8 weeks",
			Difficulty: "Intermediate", Rating: 4.8, Price: "Free",
			Description: "Master advanced React concepts including hooks, context, and performance optimization.",
			Skills:      []string{"React Hooks", "State Management", "Performance", "Testing"},
			Recommended: true,
		},
		{
			ID: "2", Title: "Full Stack Web Development Bootcamp", Provider: "CodeCamp Pro", Duration: "12 weeks",
			Difficulty: "Beginner to Advanced", Rating: 4.9, Price: "$99",
			Description: "Complete full-stack development course covering frontend, backend, and deployment.",
			Skills:      []string{"Node.js", "Express", "MongoDB", "React", "AWS"},
			Recommended: true,
		},
		{
			ID: "3", Title: "UI/UX Design Fundamentals", Provider: "Design Institute", Duration: "6 weeks",
			Difficulty: "Beginner", Rating: 4.6, Price: "$79",
			Description: "Learn the principles of user interface and user experience design.",
			Skills:      []string{"Figma", "Design Thinking", "Prototyping", "User Research"},
		},
		{
			ID: "4", Title: "Data Science with Python", Provider: "Data University", Duration: "10 weeks",
			Difficulty: "Intermediate", Rating: 4.7, Price: "$149",
			Description: "Comprehensive data science course covering machine learning and data analysis.",
			Skills:      []string{"Python", "Pandas", "Machine Learning", "Statistics"},
		},
	}
}

// SavedJobs is the wishlist, in the order jobs were saved.
type SavedJobs struct {
	ids *models.TagSet
}

func NewSavedJobs() *SavedJobs {
	return &SavedJobs{ids: models.NewTagSet()}
}

// Toggle saves the job or, when already saved, removes it. It reports
// whether the job is saved afterwards.
func (s *SavedJobs) Toggle(jobID string) bool {
	if s.ids.Remove(jobID) {
		return false
	}
	return s.ids.Add(jobID)
}

// Contains and Len treat a nil wishlist as empty.
func (s *SavedJobs) Contains(jobID string) bool {
	return s != nil && s.ids.Contains(jobID)
}

func (s *SavedJobs) Len() int {
	if s == nil {
		return 0
	}
	return s.ids.Len()
}

type Stat struct {
	Title       string
	Value       string
	Description string
}

type Dashboard struct {
	Greeting string
	Stats    []Stat
	Jobs     []JobCard
	Courses  []Course
	Sample   bool
}

// BuildDashboard prefers stored suggestions and falls back to sample jobs.
func BuildDashboard(profile *models.UserProfile, stored []models.JobSuggestion, saved *SavedJobs) Dashboard {
	name := "User"
	if profile != nil && profile.Name != "" {
		name = profile.Name
	}

	jobs := cardsFromSuggestions(stored)
	sample := len(jobs) == 0
	if sample {
		jobs = SampleJobs()
	}

	return Dashboard{
		Greeting: fmt.Sprintf("Welcome back, %s!", name),
		Stats: []Stat{
			{Title: "Profile Completeness", Value: fmt.Sprintf("%d%%", ProfileCompleteness(profile)), Description: completenessNote(ProfileCompleteness(profile))},
			{Title: "Job Matches", Value: fmt.Sprintf("%d", len(jobs)), Description: "AI-powered recommendations"},
			{Title: "Avg. Match Rate", Value: fmt.Sprintf("%d%%", averageMatch(jobs)), Description: "Across your recommendations"},
			{Title: "Saved Jobs", Value: fmt.Sprintf("%d", saved.Len()), Description: "Jobs in your wishlist"},
		},
		Jobs:    jobs,
		Courses: LearningRecommendations(),
		Sample:  sample,
	}
}

// ProfileCompleteness is the share of filled profile sections, 0..100.
func ProfileCompleteness(p *models.UserProfile) int {
	if p == nil {
		return 0
	}

	filled := 0
	for _, ok := range []bool{
		p.Name != "",
		p.Education != "",
		p.Specialization != "",
		len(p.Skills) > 0,
		len(p.Interests) > 0,
		p.Resume != nil,
	} {
		if ok {
			filled++
		}
	}

	return filled * 100 / 6
}

func completenessNote(pct int) string {
	switch {
	case pct == 100:
		return "Your profile is complete"
	case pct >= 80:
		return "Great! Your profile is almost complete"
	default:
		return "Add more details for better matches"
	}
}

func cardsFromSuggestions(rows []models.JobSuggestion) []JobCard {
	cards := make([]JobCard, 0, len(rows))
	for _, r := range rows {
		cards = append(cards, JobCard{
			ID:              r.ID.String(),
			Title:           r.JobTitle,
			Company:         r.Company,
			Location:        r.Location,
			Salary:          r.SalaryRange,
			Type:            r.JobType,
			MatchPercentage: r.MatchPercentage,
			Reason:          r.Reason,
			RequiredSkills:  r.RequiredSkills,
			Description:     r.Description,
		})
	}
	return cards
}

func averageMatch(jobs []JobCard) int {
	if len(jobs) == 0 {
		return 0
	}
	total := 0
	for _, j := range jobs {
		total += j.MatchPercentage
	}
	return int(math.Round(float64(total) / float64(len(jobs))))
}
