package api

import (
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/pageza/healthbite/backend/internal/middleware"
	"github.com/pageza/healthbite/backend/internal/service"
)

// Dependencies are the services the routes are built from.
type Dependencies struct {
	DB      *gorm.DB
	Auth    service.IAuthService
	Recipes service.IRecipeService
	Limiter *middleware.RateLimiter
}

// RegisterRoutes registers all API routes
func RegisterRoutes(router *gin.Engine, deps Dependencies) {
	router.GET("/health", HealthCheck(deps.DB))

	requireAuth := middleware.AuthMiddleware(deps.Auth)
	apiGroup := router.Group("/api")

	NewAuthHandler(deps.Auth).RegisterRoutes(apiGroup, requireAuth)

	protected := apiGroup.Group("")
	protected.Use(requireAuth)
	NewRecipeHandler(deps.Recipes, deps.Limiter).RegisterRoutes(protected)
	NewSearchHandler(deps.Recipes).RegisterRoutes(protected)
}
