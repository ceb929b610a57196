package routes

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/craftfolio/craftfolio-backend/internal/config"
	"github.com/craftfolio/craftfolio-backend/internal/handlers"
	"github.com/craftfolio/craftfolio-backend/internal/middleware"
)

func SetupRoutes(r *chi.Mux, cfg *config.Config) {
	// Health check
	r.Get("/health", func(w http.ResponseWriter, req *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"success":true,"message":"Craftfolio API is running"}`))
	})

	// Auth routes
	r.Route("/api/auth", func(r chi.Router) {
		// Credential endpoints share the strict auth limiter.
		r.Group(func(r chi.Router) {
			r.Use(middleware.RateLimit(middleware.AuthLimit))
			r.Post("/signup", handlers.Signup)
			r.Post("/login", handlers.Login)
			r.Post("/forgot-password", handlers.ForgotPassword(cfg.IsProduction()))
			r.Put("/reset-password/{token}", handlers.ResetPassword)
		})

		r.Get("/verify-email/{token}", handlers.VerifyEmail)

		r.Group(func(r chi.Router) {
			r.Use(middleware.RateLimit(middleware.APILimit))
			r.Use(middleware.RequireAuth)
			r.Get("/me", handlers.Me)
			r.Put("/profile", handlers.UpdateProfile)
			r.Put("/change-password", handlers.ChangePassword)
			r.Get("/analytics", handlers.GetUserAnalytics)
			r.Delete("/account", handlers.DeleteAccount)
		})
	})

	// Template routes
	r.Route("/api/templates", func(r chi.Router) {
		// Public gallery, no auth.
		r.With(middleware.RateLimit(middleware.PublicLimit)).
			Get("/public", handlers.ListPublicTemplates)

		r.Group(func(r chi.Router) {
			r.Use(middleware.RateLimit(middleware.APILimit))
			r.Use(middleware.RequireAuth)

			r.Get("/", handlers.ListTemplates)
			r.With(middleware.RateLimit(middleware.CreationLimit)).
				Post("/", handlers.CreateTemplate)

			r.Get("/{id}", handlers.GetTemplate)
			r.Put("/{id}", handlers.UpdateTemplate)
			r.Patch("/{id}", handlers.PatchTemplate)
			r.Delete("/{id}", handlers.DeleteTemplate)

			r.With(middleware.RateLimit(middleware.InteractionLimit)).
				Post("/{id}/fork", handlers.ForkTemplate)
			r.With(middleware.RateLimit(middleware.InteractionLimit)).
				Post("/{id}/like", handlers.LikeTemplate)
			r.With(middleware.RateLimit(middleware.InteractionLimit)).
				Post("/{id}/export", handlers.ExportTemplate)

			r.Get("/{id}/analytics", handlers.GetTemplateAnalytics)
		})
	})

	// File upload
	r.With(middleware.RateLimit(middleware.APILimit), middleware.RequireAuth).
		Post("/api/upload", handlers.UploadImage)

	// Live preview sync
	r.Get("/ws/preview", handlers.PreviewWebSocket)
}
