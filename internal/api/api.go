package api

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"

	"github.com/personascape/backend/config"
	"github.com/personascape/backend/internal/middleware"
	"github.com/personascape/backend/internal/service"
)

// HealthCheck returns the health status of the API
func HealthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":  "healthy",
		"message": "PersonaScape API is running",
		"version": "v1.0.0",
	})
}

// RegisterRoutes wires services and handlers onto the router. The Redis
// client and S3 config may be nil; caching, rate limiting and picture
// upload degrade gracefully without them.
func RegisterRoutes(router *gin.Engine, db *gorm.DB, redisClient *redis.Client, s3Config *config.S3Config, cfg *config.Config) {
	router.GET("/health", HealthCheck)

	authService := service.NewAuthService(db, cfg.JWTSecret)
	profileService := service.NewProfileService(db)
	likeService := service.NewLikeService(db)
	viewService := service.NewViewService(db, profileService)
	commentService := service.NewCommentService(db)
	leaderboardService := service.NewLeaderboardService(db, redisClient)

	var imageService *service.ImageService
	if s3Config != nil {
		imageService = service.NewImageService(s3Config)
	}

	var commentLimiter *middleware.RateLimiter
	if redisClient != nil {
		commentLimiter = middleware.NewCommentCreationRateLimiter(redisClient)
	}

	NewAuthHandler(authService).RegisterRoutes(router)
	NewProfileHandler(profileService, authService, imageService).RegisterRoutes(router)
	NewLikeHandler(likeService, leaderboardService, authService).RegisterRoutes(router)
	NewViewHandler(viewService, leaderboardService, authService).RegisterRoutes(router)
	NewCommentHandler(commentService, authService, commentLimiter).RegisterRoutes(router)
}
