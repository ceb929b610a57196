package handlers

import (
	"context"
	"encoding/json"
	"log"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/craftfolio/craftfolio-backend/internal/database"
	"github.com/craftfolio/craftfolio-backend/internal/middleware"
	"github.com/craftfolio/craftfolio-backend/internal/models"
	"github.com/craftfolio/craftfolio-backend/internal/services"
)

func templatesCollection() *mongo.Collection {
	return database.DB.Collection("templates")
}

// Pagination is included in list responses.
type Pagination struct {
	Page       int64 `json:"page"`
	Limit      int64 `json:"limit"`
	Total      int64 `json:"total"`
	TotalPages int64 `json:"totalPages"`
}

type TemplateListResponse struct {
	Success    bool              `json:"success"`
	Count      int               `json:"count"`
	Total      int64             `json:"total"`
	Pagination Pagination        `json:"pagination"`
	Data       []models.Template `json:"data"`
}

type TemplateResponse struct {
	Success bool             `json:"success"`
	Message string           `json:"message,omitempty"`
	Data    *models.Template `json:"data,omitempty"`
}

func parsePagination(r *http.Request) (page, limit int64) {
	page = 1
	limit = 10
	if v, err := strconv.ParseInt(r.URL.Query().Get("page"), 10, 64); err == nil && v > 0 {
		page = v
	}
	if v, err := strconv.ParseInt(r.URL.Query().Get("limit"), 10, 64); err == nil && v > 0 {
		limit = v
	}
	if limit > 50 {
		limit = 50
	}
	return page, limit
}

// templateIDParam parses the {id} path parameter.
func templateIDParam(r *http.Request) (primitive.ObjectID, bool) {
	id, err := primitive.ObjectIDFromHex(chi.URLParam(r, "id"))
	return id, err == nil
}

// notifyPreview publishes a preview-sync event after a template write.
// Never blocks the response path.
func notifyPreview(eventType string, t *models.Template) {
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
		defer cancel()
		err := services.PublishPreviewEvent(ctx, services.PreviewEvent{
			Type:       eventType,
			TemplateID: t.ID.Hex(),
			UserID:     t.UserID.Hex(),
			Version:    t.Version,
		})
		if err != nil {
			log.Printf("failed to publish preview event: %v", err)
		}
	}()
}

// ListTemplates returns the caller's own templates with filters, sorting
// and pagination. Defaults to most recently updated first.
func ListTemplates(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, MsgNotAuthorized)
		return
	}

	filter := bson.M{"userId": userID}
	q := r.URL.Query()
	if v := q.Get("templateName"); v != "" {
		filter["templateName"] = v
	}
	if v := q.Get("isPublic"); v != "" {
		filter["isPublic"] = v == "true"
	}
	if v := q.Get("status"); v != "" {
		filter["status"] = v
	}
	if v := q.Get("category"); v != "" {
		filter["category"] = v
	}

	sortBy := q.Get("sortBy")
	if sortBy == "" {
		sortBy = "updatedAt"
	}
	sortOrder := -1
	if q.Get("sortOrder") == "asc" {
		sortOrder = 1
	}

	page, limit := parsePagination(r)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	total, err := templatesCollection().CountDocuments(ctx, filter)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to fetch templates")
		return
	}

	opts := options.Find().
		SetSort(bson.D{{Key: sortBy, Value: sortOrder}}).
		SetSkip((page - 1) * limit).
		SetLimit(limit)

	cursor, err := templatesCollection().Find(ctx, filter, opts)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to fetch templates")
		return
	}
	defer cursor.Close(ctx)

	templates := []models.Template{}
	if err := cursor.All(ctx, &templates); err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to fetch templates")
		return
	}

	totalPages := (total + limit - 1) / limit
	writeJSON(w, http.StatusOK, TemplateListResponse{
		Success:    true,
		Count:      len(templates),
		Total:      total,
		Pagination: Pagination{Page: page, Limit: limit, Total: total, TotalPages: totalPages},
		Data:       templates,
	})
}

type CreateTemplateRequest struct {
	TemplateName  string                `json:"templateName"`
	Title         string                `json:"title"`
	Description   string                `json:"description"`
	IsPublic      bool                  `json:"isPublic"`
	Status        string                `json:"status"`
	Tags          []string              `json:"tags"`
	Category      string                `json:"category"`
	PortfolioData models.PortfolioData `json:"portfolioData"`
	CustomStyles  *models.CustomStyles `json:"customStyles"`
	SEO           *models.SEO          `json:"seo"`
}

// CreateTemplate validates and stores a new template owned by the caller.
func CreateTemplate(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, MsgNotAuthorized)
		return
	}

	var req CreateTemplateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	req.Title = strings.TrimSpace(req.Title)
	if req.Title == "" {
		writeError(w, http.StatusBadRequest, "Title is required")
		return
	}
	if len(req.Title) > 100 {
		writeError(w, http.StatusBadRequest, "Title cannot exceed 100 characters")
		return
	}
	if len(req.Description) > 500 {
		writeError(w, http.StatusBadRequest, "Description cannot exceed 500 characters")
		return
	}
	if !models.IsValidTemplateName(req.TemplateName) {
		writeError(w, http.StatusBadRequest, "Invalid template name")
		return
	}
	if req.Status == "" {
		req.Status = models.StatusDraft
	}
	if !models.IsValidStatus(req.Status) {
		writeError(w, http.StatusBadRequest, "Invalid status")
		return
	}
	if req.Category == "" {
		req.Category = "other"
	}
	if !models.IsValidCategory(req.Category) {
		writeError(w, http.StatusBadRequest, "Invalid category")
		return
	}

	tags := make([]string, 0, len(req.Tags))
	for _, tag := range req.Tags {
		tag = strings.ToLower(strings.TrimSpace(tag))
		if tag != "" {
			tags = append(tags, tag)
		}
	}

	now := time.Now()
	template := models.Template{
		ID:            primitive.NewObjectID(),
		CreatedAt:     now,
		UpdatedAt:     now,
		UserID:        userID,
		TemplateName:  req.TemplateName,
		Title:         req.Title,
		Description:   req.Description,
		IsPublic:      req.IsPublic,
		Version:       1,
		Status:        req.Status,
		Tags:          tags,
		Category:      req.Category,
		PortfolioData: req.PortfolioData,
		CustomStyles:  models.DefaultCustomStyles(),
	}
	if req.CustomStyles != nil {
		template.CustomStyles = *req.CustomStyles
	}
	if req.SEO != nil {
		template.SEO = *req.SEO
	}
	template.EnsureShareableLink()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if _, err := templatesCollection().InsertOne(ctx, template); err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to create template")
		return
	}

	// Creation counts toward the owner's usage analytics.
	_, err := usersCollection().UpdateByID(ctx, userID, bson.M{
		"$inc": bson.M{"analytics.templatesCreated": 1},
	})
	if err != nil {
		log.Printf("failed to bump templatesCreated for %s: %v", userID.Hex(), err)
	}

	writeJSON(w, http.StatusCreated, TemplateResponse{
		Success: true,
		Message: "Template created successfully",
		Data:    &template,
	})
}

// GetTemplate returns one template. Owners always see their own; everyone
// else only sees public ones, and a private template answers 404 rather
// than 403 so its existence is not revealed. Non-owner reads count a view.
func GetTemplate(w http.ResponseWriter, r *http.Request) {
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

	userID, authed := middleware.UserIDFromContext(r.Context())
	isOwner := authed && ownsTemplate(&template, userID)

	if !canViewTemplate(&template, userID) {
		writeError(w, http.StatusNotFound, "Template not found")
		return
	}

	if !isOwner {
		_, err := templatesCollection().UpdateByID(ctx, templateID, bson.M{
			"$inc": bson.M{"views": 1},
			"$set": bson.M{"metadata.lastViewed": time.Now()},
		})
		if err != nil {
			log.Printf("failed to count view on %s: %v", templateID.Hex(), err)
		}
		template.Views++
	}

	writeJSON(w, http.StatusOK, TemplateResponse{Success: true, Data: &template})
}

type UpdateTemplateRequest struct {
	TemplateName  string               `json:"templateName"`
	Title         string               `json:"title"`
	Description   string               `json:"description"`
	IsPublic      bool                 `json:"isPublic"`
	Status        string               `json:"status"`
	Tags          []string             `json:"tags"`
	Category      string               `json:"category"`
	PortfolioData models.PortfolioData `json:"portfolioData"`
	CustomStyles  models.CustomStyles  `json:"customStyles"`
	SEO           models.SEO           `json:"seo"`
}

// UpdateTemplate replaces the editable fields wholesale and bumps the
// version. Owner only; anyone else gets 403.
func UpdateTemplate(w http.ResponseWriter, r *http.Request) {
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

	var req UpdateTemplateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body")
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
		writeError(w, http.StatusForbidden, "Not authorized to update this template")
		return
	}

	if req.TemplateName != "" && !models.IsValidTemplateName(req.TemplateName) {
		writeError(w, http.StatusBadRequest, "Invalid template name")
		return
	}
	if req.Status != "" && !models.IsValidStatus(req.Status) {
		writeError(w, http.StatusBadRequest, "Invalid status")
		return
	}
	if len(req.Title) > 100 {
		writeError(w, http.StatusBadRequest, "Title cannot exceed 100 characters")
		return
	}

	set := bson.M{
		"isPublic":      req.IsPublic,
		"portfolioData": req.PortfolioData,
		"customStyles":  req.CustomStyles,
		"seo":           req.SEO,
		"updatedAt":     time.Now(),
	}
	if req.TemplateName != "" {
		set["templateName"] = req.TemplateName
	}
	if strings.TrimSpace(req.Title) != "" {
		set["title"] = strings.TrimSpace(req.Title)
	}
	if req.Description != "" {
		set["description"] = req.Description
	}
	if req.Status != "" {
		set["status"] = req.Status
	}
	if req.Tags != nil {
		tags := make([]string, 0, len(req.Tags))
		for _, tag := range req.Tags {
			tag = strings.ToLower(strings.TrimSpace(tag))
			if tag != "" {
				tags = append(tags, tag)
			}
		}
		set["tags"] = tags
	}
	if req.Category != "" && models.IsValidCategory(req.Category) {
		set["category"] = req.Category
	}
	if req.IsPublic && template.Metadata.ShareableLink == "" {
		set["metadata.shareableLink"] = "/portfolio/" + template.ID.Hex()
	}

	after := options.After
	err := templatesCollection().FindOneAndUpdate(ctx,
		bson.M{"_id": templateID},
		bson.M{"$set": set, "$inc": bson.M{"version": 1}},
		options.FindOneAndUpdate().SetReturnDocument(after),
	).Decode(&template)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to update template")
		return
	}

	notifyPreview("updated", &template)

	writeJSON(w, http.StatusOK, TemplateResponse{
		Success: true,
		Message: "Template updated successfully",
		Data:    &template,
	})
}

// PatchTemplateRequest separates top-level scalars from the three nested
// documents that merge key-by-key.
type PatchTemplateRequest struct {
	Title         *string                `json:"title,omitempty"`
	Description   *string                `json:"description,omitempty"`
	TemplateName  *string                `json:"templateName,omitempty"`
	IsPublic      *bool                  `json:"isPublic,omitempty"`
	Status        *string                `json:"status,omitempty"`
	Tags          []string               `json:"tags,omitempty"`
	Category      *string                `json:"category,omitempty"`
	PortfolioData map[string]interface{} `json:"portfolioData,omitempty"`
	CustomStyles  map[string]interface{} `json:"customStyles,omitempty"`
	Metadata      map[string]interface{} `json:"metadata,omitempty"`
}

// PatchTemplate applies a partial update. Scalars overwrite; the nested
// portfolioData/customStyles/metadata documents merge one provided key at a
// time so untouched keys keep their stored values.
func PatchTemplate(w http.ResponseWriter, r *http.Request) {
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

	var req PatchTemplateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body")
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
		writeError(w, http.StatusForbidden, "Not authorized to update this template")
		return
	}

	scalars := bson.M{"updatedAt": time.Now()}
	if req.Title != nil {
		title := strings.TrimSpace(*req.Title)
		if title == "" || len(title) > 100 {
			writeError(w, http.StatusBadRequest, "Title must be between 1 and 100 characters")
			return
		}
		scalars["title"] = title
	}
	if req.Description != nil {
		if len(*req.Description) > 500 {
			writeError(w, http.StatusBadRequest, "Description cannot exceed 500 characters")
			return
		}
		scalars["description"] = *req.Description
	}
	if req.TemplateName != nil {
		if !models.IsValidTemplateName(*req.TemplateName) {
			writeError(w, http.StatusBadRequest, "Invalid template name")
			return
		}
		scalars["templateName"] = *req.TemplateName
	}
	if req.IsPublic != nil {
		scalars["isPublic"] = *req.IsPublic
		if *req.IsPublic && template.Metadata.ShareableLink == "" {
			scalars["metadata.shareableLink"] = "/portfolio/" + template.ID.Hex()
		}
	}
	if req.Status != nil {
		if !models.IsValidStatus(*req.Status) {
			writeError(w, http.StatusBadRequest, "Invalid status")
			return
		}
		scalars["status"] = *req.Status
	}
	if req.Tags != nil {
		tags := make([]string, 0, len(req.Tags))
		for _, tag := range req.Tags {
			tag = strings.ToLower(strings.TrimSpace(tag))
			if tag != "" {
				tags = append(tags, tag)
			}
		}
		scalars["tags"] = tags
	}
	if req.Category != nil {
		if !models.IsValidCategory(*req.Category) {
			writeError(w, http.StatusBadRequest, "Invalid category")
			return
		}
		scalars["category"] = *req.Category
	}

	set := models.MergePatch(scalars, map[string]map[string]interface{}{
		"portfolioData": req.PortfolioData,
		"customStyles":  req.CustomStyles,
		"metadata":      req.Metadata,
	})

	after := options.After
	err := templatesCollection().FindOneAndUpdate(ctx,
		bson.M{"_id": templateID},
		bson.M{"$set": set},
		options.FindOneAndUpdate().SetReturnDocument(after),
	).Decode(&template)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to update template")
		return
	}

	notifyPreview("updated", &template)

	writeJSON(w, http.StatusOK, TemplateResponse{
		Success: true,
		Message: "Template updated successfully",
		Data:    &template,
	})
}

// DeleteTemplate removes an owned template permanently.
func DeleteTemplate(w http.ResponseWriter, r *http.Request) {
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
		writeError(w, http.StatusForbidden, "Not authorized to delete this template")
		return
	}

	if _, err := templatesCollection().DeleteOne(ctx, bson.M{"_id": templateID}); err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to delete template")
		return
	}

	notifyPreview("deleted", &template)

	writeJSON(w, http.StatusOK, TemplateResponse{Success: true, Message: "Template deleted successfully"})
}
