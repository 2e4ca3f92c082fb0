package form

import (
	"context"
	"sync"

	"github.com/jonathan/resume-builder/internal/types"
)

// Section names used in errors.
const (
	SectionContact    = "contact"
	SectionSocial     = "social"
	SectionEducation  = "education"
	SectionExperience = "experience"
	SectionSkills     = "skills"
)

// DefaultMaxPhotoBytes is the photo size cap applied to session stores.
const DefaultMaxPhotoBytes = 5 << 20

// Listener is called with the new snapshot after every successful mutation.
type Listener func(types.Snapshot)

// Store is the single source of truth for one session's resume data and presentation.
// Every mutation builds a new snapshot and swaps it in under the lock, so readers
// never observe a partially applied change.
type Store struct {
	mu        sync.RWMutex
	current   types.Snapshot
	listeners map[int]Listener
	nextID    int

	// MaxPhotoBytes caps SetPhoto input; zero means unlimited.
	MaxPhotoBytes int
}

// NewStore creates a store holding the session-start defaults.
func NewStore() *Store {
	return &Store{
		current: types.Snapshot{
			Resume:       types.NewResumeData(),
			Presentation: types.NewPresentation(),
		},
		listeners: make(map[int]Listener),
	}
}

// Restore creates a store seeded from an existing snapshot, e.g. one hydrated from a mirror.
// Invariants are re-established and unknown template or theme values fall back to defaults.
func Restore(snap types.Snapshot) *Store {
	s := NewStore()
	snap.Resume = snap.Resume.Normalize()
	if tmpl, err := types.ParseTemplate(string(snap.Presentation.Template)); err == nil {
		snap.Presentation.Template = tmpl
	} else {
		snap.Presentation.Template = types.DefaultTemplate
	}
	if theme, err := types.ParseTheme(string(snap.Presentation.Theme)); err == nil {
		snap.Presentation.Theme = theme
	} else {
		snap.Presentation.Theme = types.DefaultTheme
	}
	s.current = snap
	return s
}

// Snapshot returns the current immutable snapshot.
func (s *Store) Snapshot() types.Snapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.current
}

// Subscribe registers fn to be called after each mutation. The returned func unregisters it.
func (s *Store) Subscribe(fn Listener) (cancel func()) {
	s.mu.Lock()
	id := s.nextID
	s.nextID++
	s.listeners[id] = fn
	s.mu.Unlock()

	return func() {
		s.mu.Lock()
		delete(s.listeners, id)
		s.mu.Unlock()
	}
}

// update applies fn to a deep copy of the current resume data and publishes the result.
// If fn returns an error nothing is published.
func (s *Store) update(fn func(d *types.ResumeData, p *types.Presentation) error) error {
	s.mu.Lock()
	next := s.current
	next.Resume = s.current.Resume.Clone()
	if err := fn(&next.Resume, &next.Presentation); err != nil {
		s.mu.Unlock()
		return err
	}
	next.Revision++
	s.current = next
	listeners := make([]Listener, 0, len(s.listeners))
	for _, l := range s.listeners {
		listeners = append(listeners, l)
	}
	s.mu.Unlock()

	for _, l := range listeners {
		l(next)
	}
	return nil
}

// SetField sets one of the top-level scalar fields: name, email or phone.
func (s *Store) SetField(field, value string) error {
	return s.update(func(d *types.ResumeData, _ *types.Presentation) error {
		switch field {
		case "name":
			d.Name = value
		case "email":
			d.Email = value
		case "phone":
			d.Phone = value
		default:
			return &FieldError{Section: SectionContact, Field: field}
		}
		return nil
	})
}

// SetSocialField sets linkedin, github or website.
func (s *Store) SetSocialField(field, value string) error {
	return s.update(func(d *types.ResumeData, _ *types.Presentation) error {
		switch field {
		case "linkedin":
			d.Social.LinkedIn = value
		case "github":
			d.Social.GitHub = value
		case "website":
			d.Social.Website = value
		default:
			return &FieldError{Section: SectionSocial, Field: field}
		}
		return nil
	})
}

// SetEducationField sets school, degree or year of the entry at index.
func (s *Store) SetEducationField(index int, field, value string) error {
	return s.update(func(d *types.ResumeData, _ *types.Presentation) error {
		if index < 0 || index >= len(d.Education) {
			return &IndexError{Section: SectionEducation, Index: index, Len: len(d.Education)}
		}
		e := &d.Education[index]
		switch field {
		case "school":
			e.School = value
		case "degree":
			e.Degree = value
		case "year":
			e.Year = value
		default:
			return &FieldError{Section: SectionEducation, Field: field}
		}
		return nil
	})
}

// AddEducation appends a blank entry and returns the new length.
func (s *Store) AddEducation() int {
	var n int
	_ = s.update(func(d *types.ResumeData, _ *types.Presentation) error {
		d.Education = append(d.Education, types.EducationEntry{})
		n = len(d.Education)
		return nil
	})
	return n
}

// RemoveEducation removes the entry at index. It is a no-op returning false when the
// index is out of range or the entry is the last one.
func (s *Store) RemoveEducation(index int) bool {
	err := s.update(func(d *types.ResumeData, _ *types.Presentation) error {
		if !removable(index, len(d.Education)) {
			return errNoop
		}
		d.Education = append(d.Education[:index], d.Education[index+1:]...)
		return nil
	})
	return err == nil
}

// SetExperienceField sets company, role or year of the entry at index.
func (s *Store) SetExperienceField(index int, field, value string) error {
	return s.update(func(d *types.ResumeData, _ *types.Presentation) error {
		if index < 0 || index >= len(d.Experience) {
			return &IndexError{Section: SectionExperience, Index: index, Len: len(d.Experience)}
		}
		e := &d.Experience[index]
		switch field {
		case "company":
			e.Company = value
		case "role":
			e.Role = value
		case "year":
			e.Year = value
		default:
			return &FieldError{Section: SectionExperience, Field: field}
		}
		return nil
	})
}

// AddExperience appends a blank entry and returns the new length.
func (s *Store) AddExperience() int {
	var n int
	_ = s.update(func(d *types.ResumeData, _ *types.Presentation) error {
		d.Experience = append(d.Experience, types.ExperienceEntry{})
		n = len(d.Experience)
		return nil
	})
	return n
}

// RemoveExperience mirrors RemoveEducation.
func (s *Store) RemoveExperience(index int) bool {
	err := s.update(func(d *types.ResumeData, _ *types.Presentation) error {
		if !removable(index, len(d.Experience)) {
			return errNoop
		}
		d.Experience = append(d.Experience[:index], d.Experience[index+1:]...)
		return nil
	})
	return err == nil
}

// SetSkill replaces the skill at index.
func (s *Store) SetSkill(index int, value string) error {
	return s.update(func(d *types.ResumeData, _ *types.Presentation) error {
		if index < 0 || index >= len(d.Skills) {
			return &IndexError{Section: SectionSkills, Index: index, Len: len(d.Skills)}
		}
		d.Skills[index] = value
		return nil
	})
}

// AddSkill appends an empty skill and returns the new length.
func (s *Store) AddSkill() int {
	var n int
	_ = s.update(func(d *types.ResumeData, _ *types.Presentation) error {
		d.Skills = append(d.Skills, "")
		n = len(d.Skills)
		return nil
	})
	return n
}

// RemoveSkill mirrors RemoveEducation.
func (s *Store) RemoveSkill(index int) bool {
	err := s.update(func(d *types.ResumeData, _ *types.Presentation) error {
		if !removable(index, len(d.Skills)) {
			return errNoop
		}
		d.Skills = append(d.Skills[:index], d.Skills[index+1:]...)
		return nil
	})
	return err == nil
}

// SetTemplate selects a template. Unknown names are rejected and leave the state unchanged.
func (s *Store) SetTemplate(value string) error {
	name, err := types.ParseTemplate(value)
	if err != nil {
		return err
	}
	return s.update(func(_ *types.ResumeData, p *types.Presentation) error {
		p.Template = name
		return nil
	})
}

// SetTheme selects a theme. Unknown names are rejected and leave the state unchanged.
func (s *Store) SetTheme(value string) error {
	name, err := types.ParseTheme(value)
	if err != nil {
		return err
	}
	return s.update(func(_ *types.ResumeData, p *types.Presentation) error {
		p.Theme = name
		return nil
	})
}

// SetPhoto decodes an image file and stores it as a data URI.
// On failure the previous photo is kept and a *PhotoError is returned.
func (s *Store) SetPhoto(ctx context.Context, data []byte) error {
	photo, err := DecodePhoto(ctx, data, s.MaxPhotoBytes)
	if err != nil {
		return err
	}
	return s.update(func(_ *types.ResumeData, p *types.Presentation) error {
		p.Photo = photo
		return nil
	})
}

// ClearPhoto removes the photo.
func (s *Store) ClearPhoto() {
	_ = s.update(func(_ *types.ResumeData, p *types.Presentation) error {
		p.Photo = types.Photo{}
		return nil
	})
}

// Replace swaps in a whole new resume, restoring the sequence invariants.
func (s *Store) Replace(data types.ResumeData) {
	normalized := data.Normalize()
	_ = s.update(func(d *types.ResumeData, _ *types.Presentation) error {
		*d = normalized
		return nil
	})
}

// removable reports whether index can be removed from a sequence of length n
// without emptying it.
func removable(index, n int) bool {
	return n > 1 && index >= 0 && index < n
}
