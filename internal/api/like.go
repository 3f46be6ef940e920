package api

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/personascape/backend/internal/middleware"
	"github.com/personascape/backend/internal/service"
)

type LikeHandler struct {
	likeService        service.ILikeService
	leaderboardService service.ILeaderboardService
	authService        service.IAuthService
}

func NewLikeHandler(likeService service.ILikeService, leaderboardService service.ILeaderboardService, authService service.IAuthService) *LikeHandler {
	return &LikeHandler{
		likeService:        likeService,
		leaderboardService: leaderboardService,
		authService:        authService,
	}
}

func (h *LikeHandler) RegisterRoutes(router *gin.Engine) {
	likes := router.Group("/likes")
	{
		likes.POST("/profile/:profileId", middleware.AuthMiddleware(h.authService), h.LikeProfile)
		likes.DELETE("/profile/:profileId", middleware.AuthMiddleware(h.authService), h.UnlikeProfile)
		likes.GET("/check/:profileId", middleware.AuthMiddleware(h.authService), h.CheckLike)
		likes.GET("/user", middleware.AuthMiddleware(h.authService), h.LikedProfiles)
		likes.GET("/leaderboard", h.Leaderboard)
	}

	// Unauthenticated alias used by the public landing page
	router.GET("/public/leaderboard", h.Leaderboard)
}

func (h *LikeHandler) LikeProfile(c *gin.Context) {
	userID, ok := middleware.CurrentUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}
	profileID, err := parseUintParam(c, "profileId")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid profile id"})
		return
	}

	likesCount, err := h.likeService.LikeProfile(c.Request.Context(), userID, profileID)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrProfileNotFound):
			c.JSON(http.StatusNotFound, gin.H{"error": "profile not found"})
		case errors.Is(err, service.ErrSelfLike), errors.Is(err, service.ErrAlreadyLiked):
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to like profile"})
		}
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"message":    "profile liked",
		"likesCount": likesCount,
	})
}

func (h *LikeHandler) UnlikeProfile(c *gin.Context) {
	userID, ok := middleware.CurrentUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}
	profileID, err := parseUintParam(c, "profileId")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid profile id"})
		return
	}

	likesCount, err := h.likeService.UnlikeProfile(c.Request.Context(), userID, profileID)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrProfileNotFound):
			c.JSON(http.StatusNotFound, gin.H{"error": "profile not found"})
		case errors.Is(err, service.ErrNotLiked):
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to unlike profile"})
		}
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message":    "profile unliked",
		"likesCount": likesCount,
	})
}

func (h *LikeHandler) CheckLike(c *gin.Context) {
	userID, ok := middleware.CurrentUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}
	profileID, err := parseUintParam(c, "profileId")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid profile id"})
		return
	}

	hasLiked, likesCount, err := h.likeService.HasLiked(c.Request.Context(), userID, profileID)
	if err != nil {
		if errors.Is(err, service.ErrProfileNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "profile not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to check like"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"hasLiked":   hasLiked,
		"likesCount": likesCount,
	})
}

func (h *LikeHandler) LikedProfiles(c *gin.Context) {
	userID, ok := middleware.CurrentUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}

	profiles, err := h.likeService.LikedProfiles(c.Request.Context(), userID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to load liked profiles"})
		return
	}

	c.JSON(http.StatusOK, profiles)
}

func (h *LikeHandler) Leaderboard(c *gin.Context) {
	limit := parseLimitQuery(c)

	entries, err := h.leaderboardService.ByLikes(c.Request.Context(), limit)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to load leaderboard"})
		return
	}

	c.JSON(http.StatusOK, entries)
}

func parseUintParam(c *gin.Context, name string) (uint, error) {
	v, err := strconv.ParseUint(c.Param(name), 10, 32)
	return uint(v), err
}

func parseLimitQuery(c *gin.Context) int {
	limit, err := strconv.Atoi(c.DefaultQuery("limit", "10"))
	if err != nil {
		return 10
	}
	return limit
}
