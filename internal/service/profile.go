package service

import (
	"context"
	"errors"
	"strings"

	"gorm.io/gorm"

	"github.com/personascape/backend/internal/models"
	"github.com/personascape/backend/internal/types"
)

var ErrProfileNotFound = errors.New("profile not found")

// ProfileService handles profile page operations
type ProfileService struct {
	db *gorm.DB
}

// NewProfileService creates a new ProfileService instance
func NewProfileService(db *gorm.DB) *ProfileService {
	return &ProfileService{db: db}
}

// GetByUsername retrieves a profile by its owner's username. Usernames
// are normalized at write time, so a single exact match is enough.
func (s *ProfileService) GetByUsername(ctx context.Context, username string) (*models.Profile, *models.User, error) {
	username = strings.TrimSpace(username)

	var user models.User
	if err := s.db.WithContext(ctx).Where("username = ?", username).First(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil, ErrProfileNotFound
		}
		return nil, nil, err
	}

	var profile models.Profile
	if err := s.db.WithContext(ctx).Where("user_id = ?", user.ID).First(&profile).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil, ErrProfileNotFound
		}
		return nil, nil, err
	}
	return &profile, &user, nil
}

// GetByID retrieves a profile by primary key.
func (s *ProfileService) GetByID(ctx context.Context, profileID uint) (*models.Profile, error) {
	var profile models.Profile
	if err := s.db.WithContext(ctx).First(&profile, profileID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrProfileNotFound
		}
		return nil, err
	}
	return &profile, nil
}

// Upsert creates the user's profile on first save and updates it on
// later ones. Counters are never written here; they belong to the like
// and view services.
func (s *ProfileService) Upsert(ctx context.Context, userID uint, req *types.UpdateProfileRequest) (*models.Profile, error) {
	var profile models.Profile
	err := s.db.WithContext(ctx).Where("user_id = ?", userID).First(&profile).Error
	if err != nil {
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, err
		}
		profile = models.Profile{
			UserID:      userID,
			Theme:       "default",
			SocialLinks: models.SocialLinks{},
		}
	}

	if req.Bio != nil {
		profile.Bio = *req.Bio
	}
	if req.Hobbies != nil {
		profile.Hobbies = *req.Hobbies
	}
	if req.SocialLinks != nil {
		profile.SocialLinks = *req.SocialLinks
	}
	if req.CustomHTML != nil {
		profile.CustomHTML = *req.CustomHTML
	}
	if req.Theme != nil && *req.Theme != "" {
		profile.Theme = *req.Theme
	}
	if req.ProfilePicture != nil {
		profile.ProfilePictureURL = *req.ProfilePicture
	}

	if err := s.db.WithContext(ctx).Save(&profile).Error; err != nil {
		return nil, err
	}
	return &profile, nil
}

// SetProfilePicture persists an uploaded picture URL, creating the
// profile if the user has never saved one.
func (s *ProfileService) SetProfilePicture(ctx context.Context, userID uint, url string) (*models.Profile, error) {
	return s.Upsert(ctx, userID, &types.UpdateProfileRequest{ProfilePicture: &url})
}
