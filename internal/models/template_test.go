package models

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

func sampleTemplate() *Template {
	now := time.Now().Add(-24 * time.Hour)
	exported := now
	return &Template{
		ID:           primitive.NewObjectID(),
		CreatedAt:    now,
		UpdatedAt:    now,
		UserID:       primitive.NewObjectID(),
		TemplateName: "template2",
		Title:        "Design Portfolio",
		IsPublic:     true,
		Version:      7,
		Status:       StatusPublished,
		Views:        120,
		Likes:        15,
		Downloads:    9,
		ForkCount:    3,
		PortfolioData: PortfolioData{
			Personal: PersonalInfo{
				FullName: "Dana Smith",
				Email:    "dana@example.com",
				Phone:    "+1 555 0100",
				Location: "Berlin",
			},
			Skills: []Skill{{ID: "1", Name: "Figma", Level: SkillExpert}},
		},
		Metadata: Metadata{
			ExportCount:   4,
			LastExported:  &exported,
			ShareableLink: "/portfolio/abc",
		},
	}
}

func TestNewForkResetsIdentityAndCounters(t *testing.T) {
	source := sampleTemplate()
	newOwner := primitive.NewObjectID()

	fork := source.NewFork(newOwner)

	assert.NotEqual(t, source.ID, fork.ID)
	assert.Equal(t, newOwner, fork.UserID)
	require.NotNil(t, fork.ParentTemplate)
	assert.Equal(t, source.ID, *fork.ParentTemplate)

	assert.Equal(t, "Fork of Design Portfolio", fork.Title)
	assert.False(t, fork.IsPublic)
	assert.Equal(t, 1, fork.Version)
	assert.Zero(t, fork.Views)
	assert.Zero(t, fork.Likes)
	assert.Zero(t, fork.Downloads)
	assert.Zero(t, fork.ForkCount)
	assert.Zero(t, fork.Metadata.ExportCount)
	assert.Empty(t, fork.Metadata.ShareableLink)

	// Content travels with the fork.
	assert.Equal(t, source.PortfolioData, fork.PortfolioData)

	// The source is untouched; its counter is the caller's job.
	assert.Equal(t, 3, source.ForkCount)
	assert.Equal(t, 7, source.Version)
}

func TestSanitizeForPublicStripsContactFields(t *testing.T) {
	tpl := sampleTemplate()
	tpl.SanitizeForPublic()

	assert.Empty(t, tpl.PortfolioData.Personal.Email)
	assert.Empty(t, tpl.PortfolioData.Personal.Phone)
	assert.Equal(t, "Dana Smith", tpl.PortfolioData.Personal.FullName)
	assert.Equal(t, "Berlin", tpl.PortfolioData.Personal.Location)
}

func TestEnsureShareableLink(t *testing.T) {
	tpl := sampleTemplate()
	tpl.Metadata.ShareableLink = ""
	tpl.EnsureShareableLink()
	assert.Equal(t, "/portfolio/"+tpl.ID.Hex(), tpl.Metadata.ShareableLink)

	// Existing links are never overwritten.
	tpl.Metadata.ShareableLink = "/portfolio/custom"
	tpl.EnsureShareableLink()
	assert.Equal(t, "/portfolio/custom", tpl.Metadata.ShareableLink)

	// Private templates get no link.
	private := sampleTemplate()
	private.IsPublic = false
	private.Metadata.ShareableLink = ""
	private.EnsureShareableLink()
	assert.Empty(t, private.Metadata.ShareableLink)
}

func TestMergePatchBuildsDottedPaths(t *testing.T) {
	set := MergePatch(
		bson.M{"title": "New Title"},
		map[string]map[string]interface{}{
			"customStyles": {
				"primaryColor": "#ff0000",
				"fontSize":     "18px",
			},
			"portfolioData": {
				"personal": map[string]interface{}{"fullName": "New Name"},
			},
			"metadata": nil,
		},
	)

	assert.Equal(t, "New Title", set["title"])
	assert.Equal(t, "#ff0000", set["customStyles.primaryColor"])
	assert.Equal(t, "18px", set["customStyles.fontSize"])
	assert.Contains(t, set, "portfolioData.personal")

	// Only provided keys become paths, so untouched stored keys survive.
	assert.NotContains(t, set, "customStyles.secondaryColor")
	assert.NotContains(t, set, "customStyles")
	assert.NotContains(t, set, "metadata")
}

func TestValidators(t *testing.T) {
	assert.True(t, IsValidTemplateName("template1"))
	assert.True(t, IsValidTemplateName("template4"))
	assert.False(t, IsValidTemplateName("template5"))
	assert.False(t, IsValidTemplateName(""))

	assert.True(t, IsValidStatus(StatusDraft))
	assert.True(t, IsValidStatus(StatusPublished))
	assert.True(t, IsValidStatus(StatusArchived))
	assert.False(t, IsValidStatus("live"))

	assert.True(t, IsValidCategory("developer"))
	assert.False(t, IsValidCategory("wizard"))
}

func TestPortfolioDataIsEmpty(t *testing.T) {
	var data PortfolioData
	assert.True(t, data.IsEmpty())

	data.Skills = []Skill{{ID: "1", Name: "Go"}}
	assert.False(t, data.IsEmpty())

	data = PortfolioData{Personal: PersonalInfo{FullName: "A"}}
	assert.False(t, data.IsEmpty())
}
