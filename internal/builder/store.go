package builder

import (
	"errors"
	"strconv"
	"sync"
	"time"

	"github.com/craftfolio/craftfolio-backend/internal/models"
)

// Section names accepted by Remove.
const (
	SectionExperience     = "experience"
	SectionProjects       = "projects"
	SectionSkills         = "skills"
	SectionEducation      = "education"
	SectionCertifications = "certifications"
	SectionLanguages      = "languages"
)

var (
	ErrMissingRequired = errors.New("required fields are missing")
	ErrUnknownSection  = errors.New("unknown section")
)

// entryID generates list-entry ids from the wall clock, in milliseconds.
// Overridable in tests; ids are unique per list, not globally.
var entryID = func() string {
	return strconv.FormatInt(time.Now().UnixMilli(), 10)
}

// Subscriber is invoked after every mutation with a snapshot of the
// document. Renderers and savers attach here instead of the store pushing
// into any particular UI.
type Subscriber func(data models.PortfolioData, templateID string)

// Store is the working state of the builder: one portfolio document plus
// the selected template. All methods are safe for concurrent use.
// Subscriber callbacks run outside the lock, so a slow saver never blocks
// another mutation for longer than the copy.
type Store struct {
	mu          sync.RWMutex
	data        models.PortfolioData
	templateID  string
	subscribers []Subscriber
}

// NewStore returns an empty store rendering with the default template.
func NewStore() *Store {
	return &Store{templateID: DefaultTemplateID}
}

// Subscribe registers a callback for future mutations. Callbacks run
// synchronously on the mutating goroutine, in registration order.
func (s *Store) Subscribe(fn Subscriber) {
	s.mu.Lock()
	s.subscribers = append(s.subscribers, fn)
	s.mu.Unlock()
}

// mutate applies fn under the lock, then notifies subscribers with the
// resulting snapshot.
func (s *Store) mutate(fn func()) {
	s.mu.Lock()
	fn()
	data := s.data
	templateID := s.templateID
	subs := make([]Subscriber, len(s.subscribers))
	copy(subs, s.subscribers)
	s.mu.Unlock()

	for _, sub := range subs {
		sub(data, templateID)
	}
}

// Snapshot returns a copy of the current document.
func (s *Store) Snapshot() models.PortfolioData {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.data
}

// TemplateID returns the currently selected template.
func (s *Store) TemplateID() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.templateID
}

// SelectTemplate switches the active template and notifies subscribers so
// the preview re-renders fully.
func (s *Store) SelectTemplate(templateID string) error {
	if _, ok := templates[templateID]; !ok {
		return ErrUnknownTemplate
	}
	s.mutate(func() { s.templateID = templateID })
	return nil
}

// SetPersonal replaces the personal section wholesale.
func (s *Store) SetPersonal(p models.PersonalInfo) {
	s.mutate(func() { s.data.Personal = p })
}

// ClearPersonal removes the personal section.
func (s *Store) ClearPersonal() {
	s.mutate(func() { s.data.Personal = models.PersonalInfo{} })
}

// AddExperience appends an experience entry. Job title and company are
// required; a current position always reads "Present" as its end date.
func (s *Store) AddExperience(e models.Experience) (string, error) {
	if e.JobTitle == "" || e.Company == "" {
		return "", ErrMissingRequired
	}
	if e.Current {
		e.EndDate = "Present"
	}
	e.ID = entryID()
	s.mutate(func() { s.data.Experience = append(s.data.Experience, e) })
	return e.ID, nil
}

// AddProject appends a project entry. Name and description are required.
func (s *Store) AddProject(p models.Project) (string, error) {
	if p.Name == "" || p.Description == "" {
		return "", ErrMissingRequired
	}
	p.ID = entryID()
	s.mutate(func() { s.data.Projects = append(s.data.Projects, p) })
	return p.ID, nil
}

// AddSkill appends a skill entry. Name is required; an unset level defaults
// to beginner.
func (s *Store) AddSkill(sk models.Skill) (string, error) {
	if sk.Name == "" {
		return "", ErrMissingRequired
	}
	if sk.Level == "" {
		sk.Level = models.SkillBeginner
	}
	sk.ID = entryID()
	s.mutate(func() { s.data.Skills = append(s.data.Skills, sk) })
	return sk.ID, nil
}

// AddEducation appends an education entry. Degree and school are required.
func (s *Store) AddEducation(e models.Education) (string, error) {
	if e.Degree == "" || e.School == "" {
		return "", ErrMissingRequired
	}
	e.ID = entryID()
	s.mutate(func() { s.data.Education = append(s.data.Education, e) })
	return e.ID, nil
}

// AddCertification appends a certification entry. Name is required.
func (s *Store) AddCertification(c models.Certification) (string, error) {
	if c.Name == "" {
		return "", ErrMissingRequired
	}
	c.ID = entryID()
	s.mutate(func() { s.data.Certifications = append(s.data.Certifications, c) })
	return c.ID, nil
}

// AddLanguage appends a language entry. The language name is required.
func (s *Store) AddLanguage(l models.Language) (string, error) {
	if l.Language == "" {
		return "", ErrMissingRequired
	}
	l.ID = entryID()
	s.mutate(func() { s.data.Languages = append(s.data.Languages, l) })
	return l.ID, nil
}

// Remove filters the entry with the given id out of a section. Removing an
// id that does not exist is not an error; the list is simply unchanged.
func (s *Store) Remove(section, id string) error {
	switch section {
	case SectionExperience:
		s.mutate(func() {
			s.data.Experience = removeByID(s.data.Experience, id, func(e models.Experience) string { return e.ID })
		})
	case SectionProjects:
		s.mutate(func() {
			s.data.Projects = removeByID(s.data.Projects, id, func(p models.Project) string { return p.ID })
		})
	case SectionSkills:
		s.mutate(func() {
			s.data.Skills = removeByID(s.data.Skills, id, func(sk models.Skill) string { return sk.ID })
		})
	case SectionEducation:
		s.mutate(func() {
			s.data.Education = removeByID(s.data.Education, id, func(e models.Education) string { return e.ID })
		})
	case SectionCertifications:
		s.mutate(func() {
			s.data.Certifications = removeByID(s.data.Certifications, id, func(c models.Certification) string { return c.ID })
		})
	case SectionLanguages:
		s.mutate(func() {
			s.data.Languages = removeByID(s.data.Languages, id, func(l models.Language) string { return l.ID })
		})
	default:
		return ErrUnknownSection
	}
	return nil
}

func removeByID[T any](list []T, id string, idOf func(T) string) []T {
	out := make([]T, 0, len(list))
	for _, item := range list {
		if idOf(item) != id {
			out = append(out, item)
		}
	}
	return out
}

// Clear resets the whole document. The selected template is kept.
func (s *Store) Clear() {
	s.mutate(func() { s.data = models.PortfolioData{} })
}

// Restore replaces the document and template, merging loaded state over the
// zero value. Used when loading from storage; subscribers are notified so
// the preview catches up.
func (s *Store) Restore(data models.PortfolioData, templateID string) {
	s.mutate(func() {
		s.data = data
		if _, ok := templates[templateID]; ok {
			s.templateID = templateID
		}
	})
}
