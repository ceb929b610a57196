package handlers

import (
	"context"
	"log"
	"net/http"
	"time"

	"go.mongodb.org/mongo-driver/bson"

	"github.com/craftfolio/craftfolio-backend/internal/middleware"
	"github.com/craftfolio/craftfolio-backend/internal/models"
)

// ForkTemplate copies a public template into the caller's account. The
// source's forkCount is incremented first, then the fork inserted; the two
// writes are not transactional, so a crash between them can leave a counted
// fork that was never created.
func ForkTemplate(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, MsgNotAuthorized)
		return
	}

	templateID, ok := templateIDParam(r)
	if !ok {
		writeError(w, http.StatusNotFound, "Template not found")
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	var source models.Template
	if err := templatesCollection().FindOne(ctx, bson.M{"_id": templateID}).Decode(&source); err != nil {
		writeError(w, http.StatusNotFound, "Template not found")
		return
	}

	if !canViewTemplate(&source, userID) {
		writeError(w, http.StatusNotFound, "Template not found")
		return
	}
	if !source.IsPublic {
		writeError(w, http.StatusBadRequest, "Only public templates can be forked")
		return
	}

	if _, err := templatesCollection().UpdateByID(ctx, source.ID, bson.M{"$inc": bson.M{"forkCount": 1}}); err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to fork template")
		return
	}

	fork := source.NewFork(userID)
	if _, err := templatesCollection().InsertOne(ctx, fork); err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to fork template")
		return
	}

	writeJSON(w, http.StatusCreated, TemplateResponse{
		Success: true,
		Message: "Template forked successfully",
		Data:    fork,
	})
}

// LikeTemplate increments the like counter on a public template. Likes are
// not tracked per user, so repeat likes count again.
func LikeTemplate(w http.ResponseWriter, r *http.Request) {
	if _, ok := middleware.UserIDFromContext(r.Context()); !ok {
		writeError(w, http.StatusUnauthorized, MsgNotAuthorized)
		return
	}

	templateID, ok := templateIDParam(r)
	if !ok {
		writeError(w, http.StatusNotFound, "Template not found")
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	var template models.Template
	if err := templatesCollection().FindOne(ctx, bson.M{"_id": templateID}).Decode(&template); err != nil {
		writeError(w, http.StatusNotFound, "Template not found")
		return
	}
	if !template.IsPublic {
		writeError(w, http.StatusBadRequest, "Only public templates can be liked")
		return
	}

	if _, err := templatesCollection().UpdateByID(ctx, templateID, bson.M{"$inc": bson.M{"likes": 1}}); err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to like template")
		return
	}
	template.Likes++

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"success": true,
		"message": "Template liked",
		"likes":   template.Likes,
	})
}

// ExportTemplate records an export: template downloads and exportCount go
// up, and an owner export also counts toward the owner's usage analytics.
// Non-owners may only export public templates and are refused with 403.
// The response carries the full document for the client-side exporter.
func ExportTemplate(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, MsgNotAuthorized)
		return
	}

	templateID, ok := templateIDParam(r)
	if !ok {
		writeError(w, http.StatusNotFound, "Template not found")
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	var template models.Template
	if err := templatesCollection().FindOne(ctx, bson.M{"_id": templateID}).Decode(&template); err != nil {
		writeError(w, http.StatusNotFound, "Template not found")
		return
	}

	isOwner := ownsTemplate(&template, userID)
	if !canExportTemplate(&template, userID) {
		writeError(w, http.StatusForbidden, "Not authorized to export this template")
		return
	}

	now := time.Now()
	_, err := templatesCollection().UpdateByID(ctx, templateID, bson.M{
		"$inc": bson.M{"downloads": 1, "metadata.exportCount": 1},
		"$set": bson.M{"metadata.lastExported": now},
	})
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to export template")
		return
	}
	template.Downloads++
	template.Metadata.ExportCount++
	template.Metadata.LastExported = &now

	if isOwner {
		_, err := usersCollection().UpdateByID(ctx, userID, bson.M{
			"$inc": bson.M{"analytics.totalExports": 1},
			"$set": bson.M{"analytics.lastExportDate": now, "analytics.favoriteTemplate": template.TemplateName},
		})
		if err != nil {
			log.Printf("failed to bump export analytics for %s: %v", userID.Hex(), err)
		}
	}

	if !isOwner {
		template.SanitizeForPublic()
	}

	writeJSON(w, http.StatusOK, TemplateResponse{
		Success: true,
		Message: "Template exported successfully",
		Data:    &template,
	})
}

type TemplateAnalyticsResponse struct {
	Success   bool                   `json:"success"`
	Analytics map[string]interface{} `json:"analytics"`
}

// GetTemplateAnalytics returns engagement counters for one template.
// Strictly owner-only: unlike reads, a non-owner here gets 403.
func GetTemplateAnalytics(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, MsgNotAuthorized)
		return
	}

	templateID, ok := templateIDParam(r)
	if !ok {
		writeError(w, http.StatusNotFound, "Template not found")
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	var template models.Template
	if err := templatesCollection().FindOne(ctx, bson.M{"_id": templateID}).Decode(&template); err != nil {
		writeError(w, http.StatusNotFound, "Template not found")
		return
	}
	if !ownsTemplate(&template, userID) {
		writeError(w, http.StatusForbidden, "Not authorized to view analytics for this template")
		return
	}

	writeJSON(w, http.StatusOK, TemplateAnalyticsResponse{
		Success: true,
		Analytics: map[string]interface{}{
			"views":        template.Views,
			"likes":        template.Likes,
			"downloads":    template.Downloads,
			"forkCount":    template.ForkCount,
			"exportCount":  template.Metadata.ExportCount,
			"lastExported": template.Metadata.LastExported,
			"lastViewed":   template.Metadata.LastViewed,
			"version":      template.Version,
		},
	})
}
