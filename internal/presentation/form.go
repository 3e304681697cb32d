package presentation

import (
	"fmt"
	"strings"

	"alfredoptarigan/career-match/internal/models"
)

// ProfileForm is the editable profile. Skills and interests are ordered
// sets: entries are trimmed, blanks are ignored and duplicates rejected.
type ProfileForm struct {
	Name           string
	Education      models.Education
	Specialization string
	skills         *models.TagSet
	interests      *models.TagSet
}

func NewProfileForm() *ProfileForm {
	return &ProfileForm{
		skills:    models.NewTagSet(),
		interests: models.NewTagSet(),
	}
}

// ProfileFormFrom pre-fills the form from a saved profile.
func ProfileFormFrom(p models.UserProfile) *ProfileForm {
	return &ProfileForm{
		Name:           p.Name,
		Education:      p.Education,
		Specialization: p.Specialization,
		skills:         models.NewTagSet(p.Skills...),
		interests:      models.NewTagSet(p.Interests...),
	}
}

func (f *ProfileForm) SetEducation(value string) error {
	e := models.Education(strings.TrimSpace(value))
	if !e.Valid() {
		return fmt.Errorf("unknown education level %q", value)
	}
	f.Education = e
	return nil
}

func (f *ProfileForm) AddSkill(skill string) bool       { return f.skills.Add(skill) }
func (f *ProfileForm) RemoveSkill(skill string) bool    { return f.skills.Remove(skill) }
func (f *ProfileForm) AddInterest(interest string) bool { return f.interests.Add(interest) }
func (f *ProfileForm) RemoveInterest(interest string) bool {
	return f.interests.Remove(interest)
}

func (f *ProfileForm) Skills() []string    { return f.skills.Values() }
func (f *ProfileForm) Interests() []string { return f.interests.Values() }

// CanSubmit mirrors the submit button: name, education and at least one
// skill are required.
func (f *ProfileForm) CanSubmit() bool {
	return strings.TrimSpace(f.Name) != "" && f.Education != "" && f.skills.Len() > 0
}

func (f *ProfileForm) Profile() models.UserProfile {
	return models.UserProfile{
		Name:           strings.TrimSpace(f.Name),
		Education:      f.Education,
		Specialization: strings.TrimSpace(f.Specialization),
		Skills:         f.skills.Values(),
		Interests:      f.interests.Values(),
	}
}
