package main

import (
	"log"
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-contrib/sessions"
	"github.com/gin-contrib/sessions/cookie"
	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"

	"food-donation-server/config"
	"food-donation-server/database"
	"food-donation-server/jobs"
	"food-donation-server/middleware"
	"food-donation-server/routes"
)

func main() {
	// Load environment variables
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using system environment variables")
	}

	// Load configuration
	config.Load()

	// Initialize database (runs migrations)
	if err := database.Initialize(); err != nil {
		log.Fatal("Failed to initialize database:", err)
	}

	// Set Gin mode
	if config.AppConfig.Server.GinMode == "release" {
		gin.SetMode(gin.ReleaseMode)
	}

	// Create router
	router := gin.New()
	router.Use(gin.Logger())
	router.Use(gin.Recovery())

	// Disable automatic redirects for trailing slashes
	router.RedirectTrailingSlash = false
	router.RedirectFixedPath = false

	// Security headers (must be first)
	router.Use(middleware.SecurityHeadersMiddleware())

	// Input validation
	router.Use(middleware.InputValidationMiddleware())

	// Rate limiting
	router.Use(middleware.RateLimitMiddleware())
	middleware.StartRateLimiterCleanup()

	// CORS
	corsConfig := cors.DefaultConfig()
	corsConfig.AllowOrigins = []string{"http://localhost:3000", "http://localhost:5173"}
	corsConfig.AllowCredentials = true
	corsConfig.AddAllowHeaders("Authorization")
	router.Use(cors.New(corsConfig))

	// Cookie session for the location filter
	store := cookie.NewStore([]byte(config.AppConfig.Server.SessionSecret))
	store.Options(sessions.Options{
		Path:     "/",
		MaxAge:   7 * 24 * 60 * 60,
		HttpOnly: true,
	})
	router.Use(sessions.Sessions("foodbridge_session", store))

	// Audit logging
	router.Use(middleware.AuditLogMiddleware())

	// Health check endpoint
	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status":  "ok",
			"message": "Food Donation Server is running",
			"time":    time.Now().UTC(),
		})
	})

	// API routes
	api := router.Group("/api/v1")
	{
		// Auth routes (no authentication required) - with strict rate limiting
		authRoutes := api.Group("/auth")
		authRoutes.Use(middleware.AuthRateLimitMiddleware())
		routes.RegisterAuthRoutes(authRoutes)

		// Public browsing: donation listing, location filter, lookups,
		// the assistant, and the payment gateway callback. Listing picks
		// up the caller's identity when a token is present.
		public := api.Group("")
		public.Use(middleware.OptionalAuthMiddleware())
		routes.RegisterPublicDonationRoutes(public)
		routes.RegisterLocationRoutes(api)
		routes.RegisterAssistantRoutes(api)
		routes.RegisterPaymentRoutes(api)

		// Protected routes
		protected := api.Group("")
		protected.Use(middleware.AuthMiddleware())
		{
			authMe := protected.Group("/auth")
			routes.RegisterMeRoutes(authMe)

			routes.RegisterDonationRoutes(protected)
			routes.RegisterPickupRoutes(protected)
			routes.RegisterRequirementRoutes(protected)
			routes.RegisterNotificationRoutes(protected)
			routes.RegisterDonorRoutes(protected)
			routes.RegisterNGORoutes(protected)
			routes.RegisterAdminRoutes(protected)
		}
	}

	// Start background jobs
	expirationJob := jobs.NewExpirationJob()
	expirationJob.Start()
	defer expirationJob.Stop()

	port := config.AppConfig.Server.Port
	log.Printf("Server starting on port %s", port)
	if err := router.Run("0.0.0.0:" + port); err != nil {
		log.Fatal("Failed to start server:", err)
	}
}
