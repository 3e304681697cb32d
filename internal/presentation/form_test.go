package presentation

import (
	"reflect"
	"testing"

	"alfredoptarigan/career-match/internal/models"
)

func TestProfileForm_CanSubmit(t *testing.T) {
	f := NewProfileForm()
	if f.CanSubmit() {
		t.Fatal("empty form should not submit")
	}

	f.Name = "Ada"
	if err := f.SetEducation("bachelors"); err != nil {
		t.Fatalf("SetEducation: %v", err)
	}
	if f.CanSubmit() {
		t.Fatal("form without skills should not submit")
	}

	f.AddSkill("Go")
	if !f.CanSubmit() {
		t.Fatal("expected form to be submittable")
	}

	f.RemoveSkill("Go")
	if f.CanSubmit() {
		t.Fatal("removing the last skill should block submit")
	}
}

func TestProfileForm_SetEducationRejectsUnknown(t *testing.T) {
	f := NewProfileForm()
	if err := f.SetEducation("kindergarten"); err == nil {
		t.Fatal("expected error")
	}
	if f.Education != "" {
		t.Errorf("Education = %q", f.Education)
	}
}

func TestProfileForm_TagsAreOrderedSets(t *testing.T) {
	f := NewProfileForm()

	if !f.AddSkill("React") || f.AddSkill("React") || f.AddSkill("  ") {
		t.Fatal("unexpected AddSkill results")
	}
	f.AddSkill(" Go ")
	f.AddInterest("UI")

	if got := f.Skills(); !reflect.DeepEqual(got, []string{"React", "Go"}) {
		t.Errorf("Skills() = %v", got)
	}

	p := f.Profile()
	if err := p.Validate(); err != nil {
		t.Errorf("form output must validate: %v", err)
	}
}

func TestProfileFormFrom(t *testing.T) {
	f := ProfileFormFrom(models.UserProfile{
		Name:      "Ada",
		Education: models.EducationPhD,
		Skills:    []string{"Go", "Go", "SQL"},
		Interests: []string{"AI"},
	})

	if f.Name != "Ada" || f.Education != models.EducationPhD {
		t.Errorf("form = %+v", f)
	}
	if got := f.Skills(); !reflect.DeepEqual(got, []string{"Go", "SQL"}) {
		t.Errorf("Skills() = %v", got)
	}
	if got := f.Interests(); !reflect.DeepEqual(got, []string{"AI"}) {
		t.Errorf("Interests() = %v", got)
	}
}
