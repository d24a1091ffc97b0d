package app

import (
	"github.com/gin-gonic/gin"
	"github.com/newrelic/go-agent/v3/integrations/nrgin"
	"github.com/newrelic/go-agent/v3/newrelic"
	"github.com/redis/go-redis/v9"

	"carpool/internal/config"
	"carpool/internal/handler"
	"carpool/internal/middleware"
)

// RouterDeps contains all dependencies needed for the router.
type RouterDeps struct {
	UserHandler    *handler.UserHandler
	AuthHandler    *handler.AuthHandler
	TripHandler    *handler.TripHandler
	BookingHandler *handler.BookingHandler
	RedisClient    *redis.Client
	NewRelicApp    *newrelic.Application
	AuthConfig     config.AuthConfig
}

// NewRouter creates a new Gin router with all routes registered.
func NewRouter(deps RouterDeps) *gin.Engine {
	router := gin.New()

	// Global middleware.
	router.Use(gin.Recovery())
	router.Use(gin.Logger())
	router.Use(middleware.CORSMiddleware())

	// Add New Relic middleware if enabled.
	if deps.NewRelicApp != nil {
		router.Use(nrgin.Middleware(deps.NewRelicApp))
	}

	router.Use(middleware.IdempotencyMiddleware(deps.RedisClient))

	// Health check.
	router.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "ok"})
	})

	secret := []byte(deps.AuthConfig.JWTSecret)

	// API v1 routes.
	v1 := router.Group("/v1")
	{
		// User routes.
		users := v1.Group("/users")
		{
			users.POST("/register", deps.UserHandler.Register)
			users.GET("", deps.UserHandler.GetAll)
		}

		// Auth routes.
		auth := v1.Group("/auth")
		{
			auth.POST("/login", deps.AuthHandler.Login)
		}

		// Trip routes. Listing and lookup are public; posting a trip
		// requires an authenticated driver.
		trips := v1.Group("/trips")
		{
			trips.GET("", deps.TripHandler.ListUpcoming)
			trips.GET("/:id", deps.TripHandler.Get)
			trips.POST("", middleware.RequireAuth(secret), deps.TripHandler.Create)
		}

		// Booking routes. Every booking operation acts on behalf of the
		// authenticated caller.
		bookings := v1.Group("/bookings", middleware.RequireAuth(secret))
		{
			bookings.POST("", deps.BookingHandler.Create)
			bookings.GET("", deps.BookingHandler.ListMine)
			bookings.GET("/requests", deps.BookingHandler.ListPendingRequests)
			bookings.POST("/:id/accept", deps.BookingHandler.Accept)
			bookings.POST("/:id/reject", deps.BookingHandler.Reject)
			bookings.POST("/:id/cancel", deps.BookingHandler.Cancel)
		}
	}

	return router
}
