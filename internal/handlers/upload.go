package handlers

import (
	"net/http"

	"github.com/craftfolio/craftfolio-backend/internal/config"
	"github.com/craftfolio/craftfolio-backend/internal/services"
)

var cloudinaryService *services.CloudinaryService

func InitCloudinaryService(cfg *config.Config) error {
	service, err := services.NewCloudinaryService(
		cfg.CloudinaryName,
		cfg.CloudinaryAPIKey,
		cfg.CloudinaryAPISecret,
	)
	if err != nil {
		return err
	}
	cloudinaryService = service
	return nil
}

type UploadResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
	URL     string `json:"url,omitempty"`
}

// UploadImage hosts a profile or project image and returns its URL. The
// data model stores URLs only, never file contents.
func UploadImage(w http.ResponseWriter, r *http.Request) {
	if cloudinaryService == nil {
		writeError(w, http.StatusServiceUnavailable, "Image uploads are not available")
		return
	}

	// Parse multipart form (max 10MB)
	if err := r.ParseMultipartForm(10 << 20); err != nil {
		writeError(w, http.StatusBadRequest, "Failed to parse form")
		return
	}

	file, fileHeader, err := r.FormFile("file")
	if err != nil {
		writeError(w, http.StatusBadRequest, "No file provided")
		return
	}
	defer file.Close()

	folder := r.URL.Query().Get("folder")
	switch folder {
	case "avatars", "profiles", "projects":
	default:
		folder = "craftfolio"
	}

	url, err := cloudinaryService.UploadImageFromHeader(r.Context(), fileHeader, folder)
	if err != nil {
		writeError(w, http.StatusBadRequest, "Failed to upload image")
		return
	}

	writeJSON(w, http.StatusOK, UploadResponse{
		Success: true,
		Message: "Image uploaded successfully",
		URL:     url,
	})
}
