package builder

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/craftfolio/craftfolio-backend/internal/models"
)

func renderableData() models.PortfolioData {
	return models.PortfolioData{
		Personal: models.PersonalInfo{
			FullName: "Dana Smith",
			Title:    "Product Designer",
			Email:    "dana@example.com",
		},
		Experience: []models.Experience{
			{ID: "1", JobTitle: "Designer", Company: "Acme", StartDate: "2020-01", EndDate: "Present"},
		},
		Projects: []models.Project{
			{ID: "2", Name: "Craftfolio", Description: "Portfolio builder", LiveURL: "https://example.com"},
		},
		Skills:    []models.Skill{{ID: "3", Name: "Figma", Level: models.SkillExpert}},
		Education: []models.Education{{ID: "4", Degree: "BA", School: "State"}},
	}
}

func TestRenderDispatchesPerTemplate(t *testing.T) {
	data := renderableData()
	for _, id := range TemplateIDs() {
		html, err := Render(id, data)
		require.NoError(t, err, id)
		assert.Contains(t, html, id+"-template")
		assert.Contains(t, html, "Dana Smith")
		assert.Contains(t, html, "Craftfolio")
		assert.Contains(t, html, "Figma")
	}
}

func TestRenderIsPure(t *testing.T) {
	data := renderableData()
	first, err := Render(TemplateModern, data)
	require.NoError(t, err)
	second, err := Render(TemplateModern, data)
	require.NoError(t, err)
	assert.Equal(t, first, second)
}

func TestRenderUnknownTemplate(t *testing.T) {
	_, err := Render("vaporwave", renderableData())
	assert.ErrorIs(t, err, ErrUnknownTemplate)
}

func TestRenderEmptyDocumentShowsPlaceholder(t *testing.T) {
	html, err := Render(TemplateModern, models.PortfolioData{})
	require.NoError(t, err)
	assert.Contains(t, html, "preview-placeholder")
	assert.NotContains(t, html, "portfolio-header")
}

func TestRenderEscapesUserContent(t *testing.T) {
	data := models.PortfolioData{
		Personal: models.PersonalInfo{FullName: `<script>alert("x")</script>`},
	}
	html, err := Render(TemplateMinimal, data)
	require.NoError(t, err)
	assert.False(t, strings.Contains(html, "<script>"))
	assert.Contains(t, html, "&lt;script&gt;")
}

func TestServerTemplateNameMapping(t *testing.T) {
	assert.Equal(t, "template1", ServerTemplateName(TemplateModern))
	assert.Equal(t, "template2", ServerTemplateName(TemplateClassic))
	assert.Equal(t, "template3", ServerTemplateName(TemplateMinimal))
	assert.Equal(t, "template4", ServerTemplateName(TemplateCreative))
	assert.Equal(t, "template1", ServerTemplateName("unknown"))
}
