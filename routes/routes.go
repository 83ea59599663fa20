package routes

import (
	"TheraBill/cache"
	"TheraBill/config"
	"TheraBill/controllers"
	"TheraBill/extraction"
	"TheraBill/handlers"
	"TheraBill/middlewares"
	"TheraBill/repositories"
	"TheraBill/services"
	"net/http"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// SetupRoutes initializes the routes and middleware for the server
func SetupRoutes(cache *cache.Cache, config *config.AppConfig, db *gorm.DB, extractor *extraction.Extractor, acquirer *extraction.TextAcquirer) http.Handler {
	// Set Gin to release mode
	gin.SetMode(gin.ReleaseMode)

	// Create a Gin router
	router := gin.Default()

	// Apply Bearer token validation to all routes
	router.Use(middlewares.ValidateBearerToken(config.GetBearerToken()))

	// Create and apply CORS middleware configuration
	corsConfig := &middlewares.CorsConfig{
		AllowedOrigins:   []string{"http://localhost:3000", "https://www.example.com", "https://example-dev.com"},
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Content-Type", "Authorization"},
		AllowCredentials: true,
	}
	router.Use(middlewares.CorsMiddleware(corsConfig))

	// Apply rate limiter middleware
	router.Use(middlewares.NewRateLimiterMiddleware(middlewares.RateLimiterConfig{
		RequestsPerSecond: 15, // 15 requests per second
		Burst:             30, // Burst of 30
	}))

	// Apply logging middleware
	router.Use(middlewares.LoggingMiddleware())

	// Initialize repositories, services, and handlers
	appointmentRepo := repositories.NewAppointmentRepository(cache)
	authorizationRepo := repositories.NewAuthorizationRepository(cache)
	patientRepo := repositories.NewPatientRepository(cache, appointmentRepo, authorizationRepo)
	providerRepo := repositories.NewProviderRepository(cache)
	locationRepo := repositories.NewLocationRepository(cache)
	userRepo := repositories.NewUserRepository(db, cache)

	patientService := services.NewPatientService(patientRepo)
	providerService := services.NewProviderService(providerRepo)
	locationService := services.NewLocationService(locationRepo)
	authorizationService := services.NewAuthorizationService(authorizationRepo)
	appointmentService := services.NewAppointmentService(appointmentRepo)
	extractionService := services.NewExtractionService(extractor, acquirer, patientRepo, providerRepo, authorizationRepo)
	importService := services.NewImportService(patientRepo, providerRepo, locationRepo, appointmentRepo)
	userService := services.NewUserService(userRepo)

	patientHandler := handlers.NewPatientHandler(patientService)
	providerHandler := handlers.NewProviderHandler(providerService)
	locationHandler := handlers.NewLocationHandler(locationService)
	authorizationHandler := handlers.NewAuthorizationHandler(authorizationService)
	appointmentHandler := handlers.NewAppointmentHandler(appointmentService)
	extractionHandler := handlers.NewExtractionHandler(extractionService)
	importHandler := handlers.NewImportHandler(importService)
	authHandler := handlers.NewAuthHandler(userService)

	// Register routes
	controllers.SetupClinicRoutes(
		router,
		patientHandler,
		providerHandler,
		locationHandler,
		authorizationHandler,
		appointmentHandler,
		extractionHandler,
		importHandler,
	)

	authController := controllers.NewAuthController(authHandler)
	authController.RegisterRoutes(router)

	controllers.SetupRootRoute(router)

	return router
}
