package main

import (
	"context"
	"log"
	"net/http"
	"strings"

	"github.com/joho/godotenv"

	"github.com/craftfolio/craftfolio-backend/internal/config"
	"github.com/craftfolio/craftfolio-backend/internal/database"
	"github.com/craftfolio/craftfolio-backend/internal/handlers"
	"github.com/craftfolio/craftfolio-backend/internal/middleware"
	"github.com/craftfolio/craftfolio-backend/internal/routes"
	"github.com/craftfolio/craftfolio-backend/internal/services"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/cors"
)

func main() {
	// Load env
	err := godotenv.Load()
	if err != nil {
		log.Println("No .env file found")
	}
	// Load configuration
	cfg := config.Load()

	if cfg.JWTSecret == "your-secret-key-change-in-production" {
		log.Println("⚠️  WARNING: JWT_SECRET not set. Using an insecure default.")
		log.Println("   To generate a secret, run: openssl rand -base64 32")
	}
	services.InitTokens(cfg.JWTSecret, cfg.JWTExpiry, cfg.JWTShortExpiry)

	// Connect to PostgreSQL (rate-limit violation audit)
	log.Printf("Connecting to PostgreSQL...")
	if err := database.ConnectPostgres(cfg.PostgresURI); err != nil {
		log.Fatal("Failed to connect to PostgreSQL:", err)
	}
	defer database.DisconnectPostgres()

	// Connect to Redis
	log.Printf("Connecting to Redis...")
	if err := database.ConnectRedis(cfg.RedisURI); err != nil {
		log.Fatal("Failed to connect to Redis:", err)
	}
	defer database.DisconnectRedis()

	// Initialize Cloudinary service
	if cfg.CloudinaryName != "" && cfg.CloudinaryAPIKey != "" && cfg.CloudinaryAPISecret != "" {
		if err := handlers.InitCloudinaryService(cfg); err != nil {
			log.Printf("Warning: Failed to initialize Cloudinary: %v", err)
			log.Println("Image uploads will not be available")
		} else {
			log.Println("✅ Cloudinary service initialized")
		}
	} else {
		log.Println("Warning: Cloudinary credentials not found. Image uploads will not be available")
	}

	// Log connection attempt (without showing password)
	log.Printf("Connecting to MongoDB...")
	if cfg.MongoURI != "" {
		// Mask password in log for security
		maskedURI := cfg.MongoURI
		if strings.Contains(maskedURI, "@") {
			parts := strings.Split(maskedURI, "@")
			if len(parts) > 0 && strings.Contains(parts[0], ":") {
				userPass := strings.Split(parts[0], ":")
				if len(userPass) >= 3 {
					maskedURI = strings.Replace(maskedURI, userPass[2], "***", 1)
				}
			}
		}
		log.Printf("MongoDB URI: %s", maskedURI)
	}

	// Connect to MongoDB
	if err := database.Connect(cfg.MongoURI); err != nil {
		log.Fatal("Failed to connect to MongoDB:", err)
	}
	defer database.Disconnect()

	// Ensure MongoDB indexes (unique email, template lookups, text search)
	if err := database.EnsureIndexes(context.Background()); err != nil {
		log.Printf("⚠️  WARNING: failed to ensure MongoDB indexes: %v", err)
	} else {
		log.Println("✅ MongoDB indexes ensured")
	}

	// Start violation cleanup service
	// Cleans up violations older than 6 hours, runs every hour
	// Note: This does NOT delete blocked IPs - those are kept separately
	services.StartViolationCleanup(1, 6)
	log.Println("✅ Violation cleanup service started (removes violations older than 6 hours)")

	// Start the preview fan-out subscriber
	services.StartRedisPreviewSubscriber(context.Background())

	// Setup router
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   cfg.AllowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "X-Request-ID"},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	// Production: SecurityHeaders → GlobalRateLimit backstop in front of the
	// Redis per-group limiters
	if cfg.IsProduction() {
		for _, mw := range middleware.ProductionSecurity() {
			r.Use(mw)
		}
		log.Println("✅ Production security enabled (security headers, per-IP rate limiting)")
	}

	// Setup routes
	routes.SetupRoutes(r, cfg)

	// Log registered routes for debugging
	log.Println("📋 Registered routes:")
	log.Println("  GET    /health")
	log.Println("  POST   /api/auth/signup")
	log.Println("  POST   /api/auth/login")
	log.Println("  GET    /api/auth/me")
	log.Println("  PUT    /api/auth/profile")
	log.Println("  PUT    /api/auth/change-password")
	log.Println("  POST   /api/auth/forgot-password")
	log.Println("  PUT    /api/auth/reset-password/{token}")
	log.Println("  GET    /api/auth/verify-email/{token}")
	log.Println("  GET    /api/auth/analytics")
	log.Println("  DELETE /api/auth/account")
	log.Println("  GET    /api/templates")
	log.Println("  POST   /api/templates")
	log.Println("  GET    /api/templates/public")
	log.Println("  GET    /api/templates/{id}")
	log.Println("  PUT    /api/templates/{id}")
	log.Println("  PATCH  /api/templates/{id}")
	log.Println("  DELETE /api/templates/{id}")
	log.Println("  POST   /api/templates/{id}/fork")
	log.Println("  POST   /api/templates/{id}/like")
	log.Println("  POST   /api/templates/{id}/export")
	log.Println("  GET    /api/templates/{id}/analytics")
	log.Println("  POST   /api/upload")
	log.Println("  GET    /ws/preview")

	log.Printf("🚀 Craftfolio backend running on :%s", cfg.Port)
	if err := http.ListenAndServe(":"+cfg.Port, r); err != nil {
		log.Fatal("Failed to start server:", err)
	}
}
