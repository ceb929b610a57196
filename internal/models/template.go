package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Template layout variants. The set is closed; dispatch in the builder goes
// through a registry keyed by these names.
var ValidTemplateNames = []string{"template1", "template2", "template3", "template4"}

// Template statuses. Any of the three values is accepted on update; there is
// no transition guard, so published -> draft is reachable by a plain field
// update.
const (
	StatusDraft     = "draft"
	StatusPublished = "published"
	StatusArchived  = "archived"
)

var ValidStatuses = []string{StatusDraft, StatusPublished, StatusArchived}

var ValidCategories = []string{"developer", "designer", "manager", "student", "freelancer", "other"}

// Template is a persisted portfolio document plus layout, styling and
// engagement metadata. Owned by exactly one user.
type Template struct {
	ID        primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	CreatedAt time.Time          `bson:"createdAt" json:"createdAt"`
	UpdatedAt time.Time          `bson:"updatedAt" json:"updatedAt"`

	UserID       primitive.ObjectID `bson:"userId" json:"userId"`
	TemplateName string             `bson:"templateName" json:"templateName"`
	Title        string             `bson:"title" json:"title"`
	Description  string             `bson:"description,omitempty" json:"description,omitempty"`
	IsPublic     bool               `bson:"isPublic" json:"isPublic"`
	Version      int                `bson:"version" json:"version"`
	Status       string             `bson:"status" json:"status"`
	Tags         []string           `bson:"tags,omitempty" json:"tags,omitempty"`
	Category     string             `bson:"category" json:"category"`

	Views     int `bson:"views" json:"views"`
	Likes     int `bson:"likes" json:"likes"`
	Downloads int `bson:"downloads" json:"downloads"`

	IsTemplate     bool                `bson:"isTemplate" json:"isTemplate"`
	ParentTemplate *primitive.ObjectID `bson:"parentTemplate,omitempty" json:"parentTemplate,omitempty"`
	ForkCount      int                 `bson:"forkCount" json:"forkCount"`

	PortfolioData PortfolioData `bson:"portfolioData" json:"portfolioData"`
	CustomStyles  CustomStyles  `bson:"customStyles" json:"customStyles"`
	SEO           SEO           `bson:"seo,omitempty" json:"seo,omitempty"`
	Metadata      Metadata      `bson:"metadata" json:"metadata"`
}

type CustomStyles struct {
	PrimaryColor    string      `bson:"primaryColor,omitempty" json:"primaryColor,omitempty"`
	SecondaryColor  string      `bson:"secondaryColor,omitempty" json:"secondaryColor,omitempty"`
	AccentColor     string      `bson:"accentColor,omitempty" json:"accentColor,omitempty"`
	FontFamily      string      `bson:"fontFamily,omitempty" json:"fontFamily,omitempty"`
	FontSize        string      `bson:"fontSize,omitempty" json:"fontSize,omitempty"`
	BackgroundColor string      `bson:"backgroundColor,omitempty" json:"backgroundColor,omitempty"`
	TextColor       string      `bson:"textColor,omitempty" json:"textColor,omitempty"`
	HeaderStyle     HeaderStyle `bson:"headerStyle,omitempty" json:"headerStyle,omitempty"`
	Layout          LayoutStyle `bson:"layout,omitempty" json:"layout,omitempty"`
}

type HeaderStyle struct {
	Background string `bson:"background,omitempty" json:"background,omitempty"` // solid, gradient, image
	Alignment  string `bson:"alignment,omitempty" json:"alignment,omitempty"`
}

type LayoutStyle struct {
	MaxWidth     string `bson:"maxWidth,omitempty" json:"maxWidth,omitempty"`
	Spacing      string `bson:"spacing,omitempty" json:"spacing,omitempty"` // compact, normal, spacious
	BorderRadius string `bson:"borderRadius,omitempty" json:"borderRadius,omitempty"`
}

// DefaultCustomStyles mirrors the schema defaults applied on create.
func DefaultCustomStyles() CustomStyles {
	return CustomStyles{
		PrimaryColor:    "#007bff",
		SecondaryColor:  "#6c757d",
		AccentColor:     "#28a745",
		FontFamily:      "Arial, sans-serif",
		FontSize:        "16px",
		BackgroundColor: "#ffffff",
		TextColor:       "#333333",
		HeaderStyle:     HeaderStyle{Background: "solid", Alignment: "center"},
		Layout:          LayoutStyle{MaxWidth: "1200px", Spacing: "normal", BorderRadius: "8px"},
	}
}

type SEO struct {
	MetaTitle       string   `bson:"metaTitle,omitempty" json:"metaTitle,omitempty"`
	MetaDescription string   `bson:"metaDescription,omitempty" json:"metaDescription,omitempty"`
	Keywords        []string `bson:"keywords,omitempty" json:"keywords,omitempty"`
}

type Metadata struct {
	ExportCount   int        `bson:"exportCount" json:"exportCount"`
	LastExported  *time.Time `bson:"lastExported,omitempty" json:"lastExported,omitempty"`
	ShareableLink string     `bson:"shareableLink,omitempty" json:"shareableLink,omitempty"`
	LastViewed    time.Time  `bson:"lastViewed,omitempty" json:"lastViewed,omitempty"`
	TotalEditTime int        `bson:"totalEditTime,omitempty" json:"totalEditTime,omitempty"` // seconds
	DeviceInfo    DeviceInfo `bson:"deviceInfo,omitempty" json:"deviceInfo,omitempty"`
	BackupData    BackupData `bson:"backupData,omitempty" json:"backupData,omitempty"`
}

type DeviceInfo struct {
	LastDevice  string `bson:"lastDevice,omitempty" json:"lastDevice,omitempty"`
	LastBrowser string `bson:"lastBrowser,omitempty" json:"lastBrowser,omitempty"`
	LastOS      string `bson:"lastOS,omitempty" json:"lastOS,omitempty"`
}

type BackupData struct {
	AutoBackupEnabled bool       `bson:"autoBackupEnabled" json:"autoBackupEnabled"`
	LastBackup        *time.Time `bson:"lastBackup,omitempty" json:"lastBackup,omitempty"`
	BackupCount       int        `bson:"backupCount,omitempty" json:"backupCount,omitempty"`
}

// IsValidTemplateName reports whether name is one of the four fixed variants.
func IsValidTemplateName(name string) bool {
	for _, v := range ValidTemplateNames {
		if v == name {
			return true
		}
	}
	return false
}

func IsValidStatus(status string) bool {
	for _, v := range ValidStatuses {
		if v == status {
			return true
		}
	}
	return false
}

func IsValidCategory(category string) bool {
	for _, v := range ValidCategories {
		if v == category {
			return true
		}
	}
	return false
}

// EnsureShareableLink derives the shareable link from the template's own id
// once it is public. Called before every save, like the original pre-save
// hook.
func (t *Template) EnsureShareableLink() {
	if t.IsPublic && t.Metadata.ShareableLink == "" && !t.ID.IsZero() {
		t.Metadata.ShareableLink = "/portfolio/" + t.ID.Hex()
	}
	t.Metadata.LastViewed = time.Now()
}

// NewFork deep-copies the template into a new entity owned by newUserID.
// Identifiers, timestamps and engagement counters are stripped back to zero
// and parentTemplate records the fork lineage. The caller is responsible for
// incrementing the source's forkCount; the two writes are not transactional.
func (t *Template) NewFork(newUserID primitive.ObjectID) *Template {
	now := time.Now()
	parent := t.ID
	fork := *t
	fork.ID = primitive.NewObjectID()
	fork.CreatedAt = now
	fork.UpdatedAt = now
	fork.UserID = newUserID
	fork.ParentTemplate = &parent
	fork.IsPublic = false
	fork.Views = 0
	fork.Likes = 0
	fork.Downloads = 0
	fork.ForkCount = 0
	fork.Version = 1
	fork.Title = "Fork of " + t.Title
	fork.Metadata = Metadata{
		LastViewed: now,
		BackupData: BackupData{AutoBackupEnabled: t.Metadata.BackupData.AutoBackupEnabled},
	}
	return &fork
}

// SanitizeForPublic strips the owner's direct contact fields from the
// embedded personal data before a public listing is serialized.
func (t *Template) SanitizeForPublic() {
	t.PortfolioData.Personal.Email = ""
	t.PortfolioData.Personal.Phone = ""
}

// MergePatch builds the $set document for a partial update. The nested
// portfolioData, customStyles and metadata sub-documents are merged
// key-by-key with stored values (one dotted path per provided key); top-level
// scalars overwrite directly.
func MergePatch(scalars bson.M, nested map[string]map[string]interface{}) bson.M {
	set := bson.M{}
	for k, v := range scalars {
		set[k] = v
	}
	for field, patch := range nested {
		for k, v := range patch {
			set[field+"."+k] = v
		}
	}
	return set
}
