package builder

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/craftfolio/craftfolio-backend/internal/models"
)

// sequentialIDs makes entry ids deterministic for a test.
func sequentialIDs(t *testing.T) {
	t.Helper()
	orig := entryID
	n := 0
	entryID = func() string {
		n++
		return fmt.Sprintf("id-%d", n)
	}
	t.Cleanup(func() { entryID = orig })
}

func TestAddAndRemoveExperience(t *testing.T) {
	sequentialIDs(t)
	s := NewStore()

	id1, err := s.AddExperience(models.Experience{JobTitle: "Engineer", Company: "Acme"})
	require.NoError(t, err)
	id2, err := s.AddExperience(models.Experience{JobTitle: "Lead", Company: "Beta"})
	require.NoError(t, err)
	assert.NotEqual(t, id1, id2)
	assert.Len(t, s.Snapshot().Experience, 2)

	require.NoError(t, s.Remove(SectionExperience, id1))
	exp := s.Snapshot().Experience
	require.Len(t, exp, 1)
	assert.Equal(t, id2, exp[0].ID)

	// Removing an unknown id leaves the list unchanged.
	require.NoError(t, s.Remove(SectionExperience, "missing"))
	assert.Len(t, s.Snapshot().Experience, 1)
}

func TestAddEntryGates(t *testing.T) {
	s := NewStore()

	_, err := s.AddExperience(models.Experience{JobTitle: "Engineer"})
	assert.ErrorIs(t, err, ErrMissingRequired)

	_, err = s.AddProject(models.Project{Name: "Thing"})
	assert.ErrorIs(t, err, ErrMissingRequired)

	_, err = s.AddSkill(models.Skill{})
	assert.ErrorIs(t, err, ErrMissingRequired)

	_, err = s.AddEducation(models.Education{Degree: "BSc"})
	assert.ErrorIs(t, err, ErrMissingRequired)

	assert.True(t, s.Snapshot().IsEmpty())
}

func TestCurrentExperienceForcesPresent(t *testing.T) {
	s := NewStore()
	_, err := s.AddExperience(models.Experience{
		JobTitle: "Engineer",
		Company:  "Acme",
		Current:  true,
		EndDate:  "2024-01",
	})
	require.NoError(t, err)
	assert.Equal(t, "Present", s.Snapshot().Experience[0].EndDate)
}

func TestSkillDefaultsToBeginner(t *testing.T) {
	s := NewStore()
	_, err := s.AddSkill(models.Skill{Name: "Go"})
	require.NoError(t, err)
	assert.Equal(t, models.SkillBeginner, s.Snapshot().Skills[0].Level)
}

func TestRemoveUnknownSection(t *testing.T) {
	s := NewStore()
	assert.ErrorIs(t, s.Remove("awards", "1"), ErrUnknownSection)
}

func TestClearKeepsTemplate(t *testing.T) {
	s := NewStore()
	require.NoError(t, s.SelectTemplate(TemplateCreative))
	_, err := s.AddSkill(models.Skill{Name: "Go"})
	require.NoError(t, err)

	s.Clear()
	assert.True(t, s.Snapshot().IsEmpty())
	assert.Equal(t, TemplateCreative, s.TemplateID())
}

func TestSelectTemplateRejectsUnknown(t *testing.T) {
	s := NewStore()
	assert.ErrorIs(t, s.SelectTemplate("sparkly"), ErrUnknownTemplate)
	assert.Equal(t, DefaultTemplateID, s.TemplateID())
}

func TestSubscribersSeeEveryMutation(t *testing.T) {
	s := NewStore()
	var calls int
	var lastTemplate string
	s.Subscribe(func(data models.PortfolioData, templateID string) {
		calls++
		lastTemplate = templateID
	})

	s.SetPersonal(models.PersonalInfo{FullName: "Dana"})
	_, err := s.AddSkill(models.Skill{Name: "Go"})
	require.NoError(t, err)
	require.NoError(t, s.SelectTemplate(TemplateMinimal))

	assert.Equal(t, 3, calls)
	assert.Equal(t, TemplateMinimal, lastTemplate)
}
