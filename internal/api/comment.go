package api

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/personascape/backend/internal/middleware"
	"github.com/personascape/backend/internal/models"
	"github.com/personascape/backend/internal/service"
	"github.com/personascape/backend/internal/types"
)

type CommentHandler struct {
	commentService service.ICommentService
	authService    service.IAuthService
	createLimiter  *middleware.RateLimiter
}

// NewCommentHandler creates a comment handler. createLimiter may be nil
// when Redis is unavailable; comment creation is then unlimited.
func NewCommentHandler(commentService service.ICommentService, authService service.IAuthService, createLimiter *middleware.RateLimiter) *CommentHandler {
	return &CommentHandler{
		commentService: commentService,
		authService:    authService,
		createLimiter:  createLimiter,
	}
}

func (h *CommentHandler) RegisterRoutes(router *gin.Engine) {
	comments := router.Group("/comments")
	{
		comments.GET("/profile/:profileId", h.ListComments)

		createHandlers := []gin.HandlerFunc{middleware.AuthMiddleware(h.authService)}
		if h.createLimiter != nil {
			createHandlers = append(createHandlers, h.createLimiter.RateLimitMiddleware())
		}
		comments.POST("", append(createHandlers, h.CreateComment)...)

		comments.PUT("/:commentId", middleware.AuthMiddleware(h.authService), h.UpdateComment)
		comments.DELETE("/:commentId", middleware.AuthMiddleware(h.authService), h.DeleteComment)
		comments.POST("/:commentId/like", middleware.AuthMiddleware(h.authService), h.ToggleCommentLike)
	}
}

func (h *CommentHandler) ListComments(c *gin.Context) {
	profileID, err := parseUintParam(c, "profileId")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid profile id"})
		return
	}

	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "10"))

	list, err := h.commentService.ListRootComments(c.Request.Context(), profileID, page, limit)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to load comments"})
		return
	}

	c.JSON(http.StatusOK, list)
}

func (h *CommentHandler) CreateComment(c *gin.Context) {
	userID, ok := middleware.CurrentUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}

	var req types.CreateCommentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	comment, err := h.commentService.Create(c.Request.Context(), req.ProfileID, userID, req.Content, req.ParentID)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrProfileNotFound):
			c.JSON(http.StatusNotFound, gin.H{"error": "profile not found"})
		case errors.Is(err, service.ErrEmptyContent),
			errors.Is(err, service.ErrParentNotFound),
			errors.Is(err, service.ErrParentMismatch),
			errors.Is(err, service.ErrReplyDepth):
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to create comment"})
		}
		return
	}

	c.JSON(http.StatusCreated, commentToResponse(comment))
}

func (h *CommentHandler) UpdateComment(c *gin.Context) {
	userID, ok := middleware.CurrentUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}
	commentID, err := parseUintParam(c, "commentId")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid comment id"})
		return
	}

	var req types.UpdateCommentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	comment, err := h.commentService.Update(c.Request.Context(), commentID, userID, req.Content)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrCommentNotFound):
			c.JSON(http.StatusNotFound, gin.H{"error": "comment not found"})
		case errors.Is(err, service.ErrNotCommentAuthor):
			c.JSON(http.StatusForbidden, gin.H{"error": err.Error()})
		case errors.Is(err, service.ErrEmptyContent):
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to update comment"})
		}
		return
	}

	c.JSON(http.StatusOK, commentToResponse(comment))
}

func (h *CommentHandler) DeleteComment(c *gin.Context) {
	userID, ok := middleware.CurrentUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}
	commentID, err := parseUintParam(c, "commentId")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid comment id"})
		return
	}

	if err := h.commentService.Delete(c.Request.Context(), commentID, userID); err != nil {
		switch {
		case errors.Is(err, service.ErrCommentNotFound):
			c.JSON(http.StatusNotFound, gin.H{"error": "comment not found"})
		case errors.Is(err, service.ErrDeleteForbidden):
			c.JSON(http.StatusForbidden, gin.H{"error": err.Error()})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to delete comment"})
		}
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "comment deleted"})
}

func (h *CommentHandler) ToggleCommentLike(c *gin.Context) {
	userID, ok := middleware.CurrentUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}
	commentID, err := parseUintParam(c, "commentId")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid comment id"})
		return
	}

	liked, likesCount, err := h.commentService.ToggleLike(c.Request.Context(), commentID, userID)
	if err != nil {
		if errors.Is(err, service.ErrCommentNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "comment not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to toggle like"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"liked":      liked,
		"likesCount": likesCount,
	})
}

func commentToResponse(comment *models.Comment) types.CommentResponse {
	return types.CommentResponse{
		ID:         comment.ID,
		ProfileID:  comment.ProfileID,
		UserID:     comment.UserID,
		Username:   comment.User.Username,
		ParentID:   comment.ParentID,
		Content:    comment.Content,
		LikesCount: comment.LikesCount,
		CreatedAt:  comment.CreatedAt,
		UpdatedAt:  comment.UpdatedAt,
	}
}
