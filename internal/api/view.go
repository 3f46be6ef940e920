package api

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/personascape/backend/internal/middleware"
	"github.com/personascape/backend/internal/service"
)

type ViewHandler struct {
	viewService        service.IViewService
	leaderboardService service.ILeaderboardService
	authService        service.IAuthService
}

func NewViewHandler(viewService service.IViewService, leaderboardService service.ILeaderboardService, authService service.IAuthService) *ViewHandler {
	return &ViewHandler{
		viewService:        viewService,
		leaderboardService: leaderboardService,
		authService:        authService,
	}
}

func (h *ViewHandler) RegisterRoutes(router *gin.Engine) {
	views := router.Group("/views")
	{
		views.POST("/profile/:username", middleware.OptionalAuthMiddleware(h.authService), h.RecordView)
		views.GET("/profile/:username/stats", middleware.OptionalAuthMiddleware(h.authService), h.Stats)
		views.GET("/leaderboard", h.Leaderboard)
	}
}

func (h *ViewHandler) RecordView(c *gin.Context) {
	username := c.Param("username")

	var viewerID *uint
	if id, ok := middleware.CurrentUserID(c); ok {
		viewerID = &id
	}

	viewsCount, err := h.viewService.RecordView(
		c.Request.Context(),
		username,
		viewerID,
		c.ClientIP(),
		c.Request.UserAgent(),
	)
	if err != nil {
		if errors.Is(err, service.ErrProfileNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "profile not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to record view"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message":    "view recorded",
		"viewsCount": viewsCount,
	})
}

func (h *ViewHandler) Stats(c *gin.Context) {
	username := c.Param("username")

	var requesterID *uint
	if id, ok := middleware.CurrentUserID(c); ok {
		requesterID = &id
	}

	stats, err := h.viewService.Stats(c.Request.Context(), username, requesterID)
	if err != nil {
		if errors.Is(err, service.ErrProfileNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "profile not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to load stats"})
		return
	}

	c.JSON(http.StatusOK, stats)
}

func (h *ViewHandler) Leaderboard(c *gin.Context) {
	limit := parseLimitQuery(c)

	entries, err := h.leaderboardService.ByViews(c.Request.Context(), limit)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to load leaderboard"})
		return
	}

	c.JSON(http.StatusOK, entries)
}
