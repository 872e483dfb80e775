package app

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/newrelic/go-agent/v3/integrations/nrgin"
	"github.com/newrelic/go-agent/v3/newrelic"
	"github.com/redis/go-redis/v9"

	"cargoexchange/internal/handler"
	"cargoexchange/internal/middleware"
)

// RouterDeps contains all dependencies needed for the router.
type RouterDeps struct {
	UserHandler  *handler.UserHandler
	CargoHandler *handler.CargoHandler
	MatchHandler *handler.MatchHandler
	RouteHandler *handler.RouteHandler
	RedisClient  *redis.Client // Optional: nil disables idempotent replay
	NewRelicApp  *newrelic.Application
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
		c.JSON(http.StatusOK, gin.H{"status": "ok", "message": "Cargo exchange API is running"})
	})

	// API v1 routes.
	v1 := router.Group("/v1")
	{
		// User routes.
		users := v1.Group("/users")
		{
			users.POST("/register", deps.UserHandler.Register)
			users.GET("", deps.UserHandler.GetAll)
		}

		// Cargo routes.
		cargo := v1.Group("/cargo")
		{
			cargo.POST("", deps.CargoHandler.Create)
			cargo.GET("", deps.CargoHandler.List)
			cargo.GET("/:id", deps.CargoHandler.Get)
			cargo.GET("/:id/matches", deps.CargoHandler.Counterparts)
		}

		// Match routes.
		matches := v1.Group("/matches")
		{
			matches.GET("", deps.MatchHandler.List)
			matches.POST("/find", deps.MatchHandler.Find)
			matches.POST("/accept", deps.MatchHandler.Accept)
			matches.GET("/:id", deps.MatchHandler.Get)
		}

		// Route planning.
		routes := v1.Group("/routes")
		{
			routes.POST("/optimize", deps.RouteHandler.Optimize)
			routes.POST("/exchange-point", deps.RouteHandler.ExchangePoint)
		}
	}

	return router
}
