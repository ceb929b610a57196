package handlers

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/craftfolio/craftfolio-backend/internal/models"
	"github.com/craftfolio/craftfolio-backend/internal/services"
)

// publicListingCacheKey caches only the unfiltered first pages; filtered
// and searched listings always hit MongoDB.
func publicListingCacheKey(page, limit int64) string {
	return services.CacheKey("public_templates", fmt.Sprintf("%d:%d", page, limit))
}

// ListPublicTemplates is the unauthenticated gallery: public AND published
// templates only, optional text search and category filter, contact fields
// stripped from every result.
func ListPublicTemplates(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	search := q.Get("search")
	category := q.Get("category")
	templateName := q.Get("templateName")
	page, limit := parsePagination(r)

	unfiltered := search == "" && category == "" && templateName == ""
	cacheKey := publicListingCacheKey(page, limit)

	if unfiltered {
		var cached TemplateListResponse
		if hit, err := services.Cache.Get(cacheKey, &cached); err == nil && hit {
			writeJSON(w, http.StatusOK, cached)
			return
		}
	}

	filter := bson.M{"isPublic": true, "status": models.StatusPublished}
	if category != "" {
		filter["category"] = category
	}
	if templateName != "" {
		filter["templateName"] = templateName
	}

	opts := options.Find().
		SetSkip((page - 1) * limit).
		SetLimit(limit)

	if search != "" {
		// Text index spans title, description, tags and the embedded
		// personal name/title; results sort by relevance.
		filter["$text"] = bson.M{"$search": search}
		opts.SetProjection(bson.M{"score": bson.M{"$meta": "textScore"}})
		opts.SetSort(bson.M{"score": bson.M{"$meta": "textScore"}})
	} else {
		opts.SetSort(bson.D{{Key: "views", Value: -1}, {Key: "updatedAt", Value: -1}})
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	total, err := templatesCollection().CountDocuments(ctx, filter)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to fetch public templates")
		return
	}

	cursor, err := templatesCollection().Find(ctx, filter, opts)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to fetch public templates")
		return
	}
	defer cursor.Close(ctx)

	templates := []models.Template{}
	if err := cursor.All(ctx, &templates); err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to fetch public templates")
		return
	}

	// Public listings never expose the owner's direct contact details.
	for i := range templates {
		templates[i].SanitizeForPublic()
	}

	totalPages := (total + limit - 1) / limit
	resp := TemplateListResponse{
		Success:    true,
		Count:      len(templates),
		Total:      total,
		Pagination: Pagination{Page: page, Limit: limit, Total: total, TotalPages: totalPages},
		Data:       templates,
	}

	if unfiltered {
		if err := services.Cache.Set(cacheKey, resp); err != nil {
			log.Printf("failed to cache public listing: %v", err)
		}
	}

	writeJSON(w, http.StatusOK, resp)
}
