package api

import (
	"errors"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/personascape/backend/internal/middleware"
	"github.com/personascape/backend/internal/models"
	"github.com/personascape/backend/internal/service"
	"github.com/personascape/backend/internal/types"
)

// maxPictureSize caps profile picture uploads at 5 MiB.
const maxPictureSize = 5 << 20

type ProfileHandler struct {
	profileService service.IProfileService
	authService    service.IAuthService
	imageService   *service.ImageService
}

// NewProfileHandler creates a profile handler. imageService may be nil
// when object storage is not configured; the upload endpoint then
// returns 503.
func NewProfileHandler(profileService service.IProfileService, authService service.IAuthService, imageService *service.ImageService) *ProfileHandler {
	return &ProfileHandler{
		profileService: profileService,
		authService:    authService,
		imageService:   imageService,
	}
}

func (h *ProfileHandler) RegisterRoutes(router *gin.Engine) {
	profile := router.Group("/profile")
	{
		profile.GET("/:username", h.GetProfile)
		profile.PUT("", middleware.AuthMiddleware(h.authService), h.UpdateProfile)
		profile.POST("/picture", middleware.AuthMiddleware(h.authService), h.UploadPicture)
	}
}

func (h *ProfileHandler) GetProfile(c *gin.Context) {
	username := c.Param("username")

	profile, user, err := h.profileService.GetByUsername(c.Request.Context(), username)
	if err != nil {
		if errors.Is(err, service.ErrProfileNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "profile not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to load profile"})
		return
	}

	c.JSON(http.StatusOK, toProfileResponse(profile, user.Username))
}

func (h *ProfileHandler) UpdateProfile(c *gin.Context) {
	userID, ok := middleware.CurrentUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}

	var req types.UpdateProfileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	profile, err := h.profileService.Upsert(c.Request.Context(), userID, &req)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to update profile"})
		return
	}

	c.JSON(http.StatusOK, toProfileResponse(profile, c.GetString("username")))
}

func (h *ProfileHandler) UploadPicture(c *gin.Context) {
	userID, ok := middleware.CurrentUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}
	if h.imageService == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "image storage not configured"})
		return
	}

	fileHeader, err := c.FormFile("picture")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "picture file is required"})
		return
	}
	if fileHeader.Size > maxPictureSize {
		c.JSON(http.StatusBadRequest, gin.H{"error": "picture exceeds 5MB limit"})
		return
	}

	file, err := fileHeader.Open()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to read picture"})
		return
	}
	defer file.Close()

	data, err := io.ReadAll(io.LimitReader(file, maxPictureSize))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to read picture"})
		return
	}

	contentType := fileHeader.Header.Get("Content-Type")
	if contentType == "" {
		contentType = http.DetectContentType(data)
	}

	url, err := h.imageService.UploadProfilePicture(c.Request.Context(), data, contentType)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to upload picture"})
		return
	}

	if _, err := h.profileService.SetProfilePicture(c.Request.Context(), userID, url); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to save picture"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"profilePicture": url})
}

func toProfileResponse(p *models.Profile, username string) types.ProfileResponse {
	return types.ProfileResponse{
		ID:             p.ID,
		UserID:         p.UserID,
		Username:       username,
		Bio:            p.Bio,
		Hobbies:        p.Hobbies,
		SocialLinks:    p.SocialLinks,
		CustomHTML:     p.CustomHTML,
		Theme:          p.Theme,
		LikesCount:     p.LikesCount,
		ViewsCount:     p.ViewsCount,
		ProfilePicture: p.ProfilePictureURL,
		CreatedAt:      p.CreatedAt,
		UpdatedAt:      p.UpdatedAt,
	}
}
