package handlers

import (
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/craftfolio/craftfolio-backend/internal/models"
)

// Read visibility and write ownership are deliberately asymmetric. A
// private template answers 404 to a non-owner read so its existence stays
// hidden, while mutations answer 403: being able to see a public template
// never grants the right to change it.

// canViewTemplate reports whether the caller may read the template at all.
func canViewTemplate(t *models.Template, userID primitive.ObjectID) bool {
	return t.IsPublic || t.UserID == userID
}

// ownsTemplate gates PUT, PATCH, DELETE and per-template analytics.
func ownsTemplate(t *models.Template, userID primitive.ObjectID) bool {
	return t.UserID == userID
}

// canExportTemplate gates export: owners always, otherwise public only.
// A refused export is 403, not 404.
func canExportTemplate(t *models.Template, userID primitive.ObjectID) bool {
	return t.UserID == userID || t.IsPublic
}
