// Package api contains the HTTP handlers of the Foodgram API.
package api

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"

	"github.com/foodgram/backend/internal/metrics"
	"github.com/foodgram/backend/internal/middleware"
	"github.com/foodgram/backend/internal/service"
)

// Dependencies are the services the handlers are built from
type Dependencies struct {
	DB       *gorm.DB
	Redis    *redis.Client
	Gatherer prometheus.Gatherer

	Auth          service.IAuthService
	Recipes       service.IRecipeService
	Subscriptions service.ISubscriptionService
	Memberships   service.IMembershipService
	Catalog       service.ICatalogService
	ShoppingList  *service.ShoppingListService
	Query         *service.QueryEngine

	RecipeWriteLimiter *middleware.RateLimiter
}

// RegisterRoutes registers all API routes
func RegisterRoutes(router *gin.Engine, deps Dependencies) {
	health := NewHealthHandler(deps.DB, deps.Redis)
	router.GET("/health", health.HealthCheck)
	router.GET("/api/health", health.HealthCheck)
	if deps.Gatherer != nil {
		router.GET("/metrics", gin.WrapH(metrics.Handler(deps.Gatherer)))
	}

	presenter := NewPresenter(deps.Query, deps.Subscriptions)
	group := router.Group("/api")

	NewAuthHandler(deps.Auth).RegisterRoutes(group)
	NewUserHandler(deps.Auth, deps.Subscriptions, presenter).RegisterRoutes(group)
	NewCatalogHandler(deps.Catalog).RegisterRoutes(group)
	NewRecipeHandler(
		deps.Recipes,
		deps.Memberships,
		deps.ShoppingList,
		deps.Query,
		deps.Auth,
		presenter,
		deps.RecipeWriteLimiter,
	).RegisterRoutes(group)

	router.NoRoute(func(c *gin.Context) {
		c.JSON(http.StatusNotFound, middleware.ErrorResponse{Error: "not_found", Message: "route not found"})
	})
}
