package models

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"
)

type Education string

const (
	EducationHighSchool Education = "high-school"
	EducationBachelors  Education = "bachelors"
	EducationMasters    Education = "masters"
	EducationPhD        Education = "phd"
	EducationBootcamp   Education = "bootcamp"
	EducationSelfTaught Education = "self-taught"
)

// EducationLevels lists the accepted education values in display order.
var EducationLevels = []Education{
	EducationHighSchool,
	EducationBachelors,
	EducationMasters,
	EducationPhD,
	EducationBootcamp,
	EducationSelfTaught,
}

var educationLabels = map[Education]string{
	EducationHighSchool: "High School",
	EducationBachelors:  "Bachelor's Degree",
	EducationMasters:    "Master's Degree",
	EducationPhD:        "PhD",
	EducationBootcamp:   "Bootcamp/Certification",
	EducationSelfTaught: "Self-taught",
}

// Valid reports whether e is one of the known levels. The empty value is valid
// and means "not specified".
func (e Education) Valid() bool {
	if e == "" {
		return true
	}
	_, ok := educationLabels[e]
	return ok
}

func (e Education) Label() string {
	if label, ok := educationLabels[e]; ok {
		return label
	}
	return string(e)
}

// Profile is the stored profile row. One row per user, enforced by the unique
// index on user_id.
type Profile struct {
	ID             uuid.UUID      `gorm:"type:uuid;primary_key;default:gen_random_uuid()" json:"id"`
	UserID         uuid.UUID      `gorm:"type:uuid;not null;uniqueIndex" json:"user_id"`
	Name           string         `gorm:"type:text" json:"name"`
	Education      Education      `gorm:"type:text" json:"education"`
	Specialization string         `gorm:"type:text" json:"specialization"`
	Skills         pq.StringArray `gorm:"type:text[]" json:"skills"`
	Interests      pq.StringArray `gorm:"type:text[]" json:"interests"`

	ResumeKey       string `gorm:"type:text" json:"resume_key,omitempty"`
	ResumeFilename  string `gorm:"type:text" json:"resume_filename,omitempty"`
	ResumeMimeType  string `gorm:"type:text" json:"resume_mime_type,omitempty"`
	ResumeText      string `gorm:"type:text" json:"-"`
	ResumePageCount int    `json:"resume_page_count,omitempty"`

	CreatedAt time.Time `gorm:"default:CURRENT_TIMESTAMP" json:"created_at"`
	UpdatedAt time.Time `gorm:"default:CURRENT_TIMESTAMP" json:"updated_at"`
}

func (Profile) TableName() string {
	return "profiles"
}

// ResumeRef points at an uploaded resume attachment.
type ResumeRef struct {
	Key       string `json:"key"`
	Filename  string `json:"filename"`
	MimeType  string `json:"mime_type"`
	PageCount int    `json:"page_count,omitempty"`
}

// UserProfile is the profile as it crosses the API boundary.
type UserProfile struct {
	Name           string     `json:"name"`
	Education      Education  `json:"education"`
	Specialization string     `json:"specialization"`
	Skills         []string   `json:"skills"`
	Interests      []string   `json:"interests"`
	Resume         *ResumeRef `json:"resume,omitempty"`
}

// Validate checks the profile at an external boundary. Lists must already be
// ordered sets: trimmed, non-empty and free of duplicates.
func (p UserProfile) Validate() error {
	if !p.Education.Valid() {
		return fmt.Errorf("invalid education %q", p.Education)
	}
	if err := validateTagList("skills", p.Skills); err != nil {
		return err
	}
	if err := validateTagList("interests", p.Interests); err != nil {
		return err
	}
	return nil
}

// ToProfile maps the boundary value onto a row owned by userID. Resume columns
// are managed by the upload endpoint and left empty here.
func (p UserProfile) ToProfile(userID uuid.UUID) *Profile {
	return &Profile{
		UserID:         userID,
		Name:           strings.TrimSpace(p.Name),
		Education:      p.Education,
		Specialization: strings.TrimSpace(p.Specialization),
		Skills:         pq.StringArray(copyList(p.Skills)),
		Interests:      pq.StringArray(copyList(p.Interests)),
	}
}

// UserProfile converts a stored row back to the boundary value.
func (p *Profile) UserProfile() UserProfile {
	out := UserProfile{
		Name:           p.Name,
		Education:      p.Education,
		Specialization: p.Specialization,
		Skills:         copyList(p.Skills),
		Interests:      copyList(p.Interests),
	}
	if p.ResumeKey != "" {
		out.Resume = &ResumeRef{
			Key:       p.ResumeKey,
			Filename:  p.ResumeFilename,
			MimeType:  p.ResumeMimeType,
			PageCount: p.ResumePageCount,
		}
	}
	return out
}

func validateTagList(field string, values []string) error {
	seen := make(map[string]struct{}, len(values))
	for _, v := range values {
		if strings.TrimSpace(v) != v || v == "" {
			return fmt.Errorf("%s: entry %q must be non-empty and trimmed", field, v)
		}
		if _, dup := seen[v]; dup {
			return fmt.Errorf("%s: duplicate entry %q", field, v)
		}
		seen[v] = struct{}{}
	}
	return nil
}

func copyList(values []string) []string {
	out := make([]string, len(values))
	copy(out, values)
	return out
}
