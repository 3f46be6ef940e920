package service

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"github.com/personascape/backend/internal/models"
	"github.com/personascape/backend/internal/types"
)

var (
	ErrSelfLike     = errors.New("cannot like your own profile")
	ErrAlreadyLiked = errors.New("profile already liked")
	ErrNotLiked     = errors.New("profile not liked")
)

// LikeService maintains the like relations and their denormalized
// counters. Every counter write is a relative UPDATE inside the same
// transaction as the like-row mutation; the unique index on the
// (target, user) pair is the guard against duplicate rows under
// concurrent requests.
type LikeService struct {
	db *gorm.DB
}

func NewLikeService(db *gorm.DB) *LikeService {
	return &LikeService{db: db}
}

// LikeProfile inserts a like row and increments the profile counter.
func (s *LikeService) LikeProfile(ctx context.Context, userID, profileID uint) (int, error) {
	var profile models.Profile
	if err := s.db.WithContext(ctx).First(&profile, profileID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return 0, ErrProfileNotFound
		}
		return 0, err
	}
	if profile.UserID == userID {
		return 0, ErrSelfLike
	}

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		like := models.ProfileLike{ProfileID: profileID, UserID: userID}
		if err := tx.Create(&like).Error; err != nil {
			if errors.Is(err, gorm.ErrDuplicatedKey) {
				return ErrAlreadyLiked
			}
			return err
		}
		return tx.Model(&models.Profile{}).Where("id = ?", profileID).
			UpdateColumn("likes_count", gorm.Expr("likes_count + ?", 1)).Error
	})
	if err != nil {
		return 0, err
	}

	return s.profileLikesCount(ctx, profileID)
}

// UnlikeProfile removes the like row and decrements the counter, floored
// at zero.
func (s *LikeService) UnlikeProfile(ctx context.Context, userID, profileID uint) (int, error) {
	var profile models.Profile
	if err := s.db.WithContext(ctx).First(&profile, profileID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return 0, ErrProfileNotFound
		}
		return 0, err
	}

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		res := tx.Where("profile_id = ? AND user_id = ?", profileID, userID).
			Delete(&models.ProfileLike{})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return ErrNotLiked
		}
		return tx.Model(&models.Profile{}).
			Where("id = ? AND likes_count > 0", profileID).
			UpdateColumn("likes_count", gorm.Expr("likes_count - ?", 1)).Error
	})
	if err != nil {
		return 0, err
	}

	return s.profileLikesCount(ctx, profileID)
}

// HasLiked reports whether the user currently likes the profile, along
// with the profile's counter.
func (s *LikeService) HasLiked(ctx context.Context, userID, profileID uint) (bool, int, error) {
	count, err := s.profileLikesCount(ctx, profileID)
	if err != nil {
		return false, 0, err
	}

	var likes int64
	if err := s.db.WithContext(ctx).Model(&models.ProfileLike{}).
		Where("profile_id = ? AND user_id = ?", profileID, userID).
		Count(&likes).Error; err != nil {
		return false, 0, err
	}
	return likes > 0, count, nil
}

// LikedProfiles returns the profiles the user has liked, newest like first.
func (s *LikeService) LikedProfiles(ctx context.Context, userID uint) ([]types.LeaderboardEntry, error) {
	var entries []types.LeaderboardEntry
	err := s.db.WithContext(ctx).Table("profile_likes").
		Select("profiles.id AS profile_id, users.username, profiles.profile_picture_url AS profile_picture, profiles.likes_count, profiles.views_count").
		Joins("JOIN profiles ON profiles.id = profile_likes.profile_id AND profiles.deleted_at IS NULL").
		Joins("JOIN users ON users.id = profiles.user_id AND users.deleted_at IS NULL").
		Where("profile_likes.user_id = ?", userID).
		Order("profile_likes.created_at DESC").
		Scan(&entries).Error
	if err != nil {
		return nil, err
	}
	if entries == nil {
		entries = []types.LeaderboardEntry{}
	}
	return entries, nil
}

func (s *LikeService) profileLikesCount(ctx context.Context, profileID uint) (int, error) {
	var profile models.Profile
	if err := s.db.WithContext(ctx).Select("likes_count").First(&profile, profileID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return 0, ErrProfileNotFound
		}
		return 0, err
	}
	return profile.LikesCount, nil
}
