// Package types provides type definitions for structured data used throughout the resume builder.
//
//nolint:revive // types is a standard Go package name pattern
package types

// ResumeData is the canonical structured record edited through the form.
// Absent values are empty strings; the three sequences always hold at least one entry.
type ResumeData struct {
	Name       string            `json:"name"`
	Email      string            `json:"email"`
	Phone      string            `json:"phone"`
	Education  []EducationEntry  `json:"education"`
	Experience []ExperienceEntry `json:"experience"`
	Skills     []string          `json:"skills"`
	Social     SocialLinks       `json:"social"`
}

// EducationEntry is a single row of the education section
type EducationEntry struct {
	School string `json:"school"`
	Degree string `json:"degree"`
	Year   string `json:"year"`
}

// IsBlank reports whether every field of the entry is empty.
func (e EducationEntry) IsBlank() bool {
	return e.School == "" && e.Degree == "" && e.Year == ""
}

// ExperienceEntry is a single row of the experience section
type ExperienceEntry struct {
	Company string `json:"company"`
	Role    string `json:"role"`
	Year    string `json:"year"`
}

// IsBlank reports whether every field of the entry is empty.
func (e ExperienceEntry) IsBlank() bool {
	return e.Company == "" && e.Role == "" && e.Year == ""
}

// SocialLinks is the fixed set of profile links
type SocialLinks struct {
	LinkedIn string `json:"linkedin"`
	GitHub   string `json:"github"`
	Website  string `json:"website"`
}

// NewResumeData returns the session-start defaults: empty scalars and one
// blank entry in each sequence.
func NewResumeData() ResumeData {
	return ResumeData{
		Education:  []EducationEntry{{}},
		Experience: []ExperienceEntry{{}},
		Skills:     []string{""},
	}
}

// Normalize returns a copy of d with the sequence invariants restored.
// Empty or nil sequences become a single blank entry.
func (d ResumeData) Normalize() ResumeData {
	out := d.Clone()
	if len(out.Education) == 0 {
		out.Education = []EducationEntry{{}}
	}
	if len(out.Experience) == 0 {
		out.Experience = []ExperienceEntry{{}}
	}
	if len(out.Skills) == 0 {
		out.Skills = []string{""}
	}
	return out
}

// Clone returns a deep copy of d. Slices are never shared with the receiver.
func (d ResumeData) Clone() ResumeData {
	out := d
	if d.Education != nil {
		out.Education = append([]EducationEntry(nil), d.Education...)
	}
	if d.Experience != nil {
		out.Experience = append([]ExperienceEntry(nil), d.Experience...)
	}
	if d.Skills != nil {
		out.Skills = append([]string(nil), d.Skills...)
	}
	return out
}
