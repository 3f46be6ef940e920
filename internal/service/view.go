package service

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"

	"github.com/personascape/backend/internal/models"
	"github.com/personascape/backend/internal/types"
)

// viewDedupWindow is the span within which repeat views from the same
// viewer/IP do not increment the counter.
const viewDedupWindow = 24 * time.Hour

// ViewService maintains the per-(profile, viewer-or-IP) dedup rows and
// the profile's denormalized view counter. The same transactional
// relative-update discipline as the like counter applies.
type ViewService struct {
	db      *gorm.DB
	profile *ProfileService
	now     func() time.Time
}

func NewViewService(db *gorm.DB, profile *ProfileService) *ViewService {
	return &ViewService{
		db:      db,
		profile: profile,
		now:     time.Now,
	}
}

// RecordView registers a visit to the profile owned by username.
// Self-views never increment. Returns the post-operation counter.
func (s *ViewService) RecordView(ctx context.Context, username string, viewerID *uint, ip, userAgent string) (int, error) {
	profile, _, err := s.profile.GetByUsername(ctx, username)
	if err != nil {
		return 0, err
	}

	if viewerID != nil && *viewerID == profile.UserID {
		return profile.ViewsCount, nil
	}

	now := s.now()
	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		query := tx.Where("profile_id = ? AND ip_address = ?", profile.ID, ip)
		if viewerID == nil {
			query = query.Where("viewer_id IS NULL")
		} else {
			query = query.Where("viewer_id = ?", *viewerID)
		}

		var view models.ProfileView
		if err := query.First(&view).Error; err != nil {
			if !errors.Is(err, gorm.ErrRecordNotFound) {
				return err
			}
			view = models.ProfileView{
				ProfileID:    profile.ID,
				ViewerID:     viewerID,
				IPAddress:    ip,
				UserAgent:    userAgent,
				ViewCount:    1,
				LastViewedAt: now,
			}
			if err := tx.Create(&view).Error; err != nil {
				if errors.Is(err, gorm.ErrDuplicatedKey) {
					// Lost the race to a concurrent first view; that
					// request owns the increment.
					return nil
				}
				return err
			}
			return tx.Model(&models.Profile{}).Where("id = ?", profile.ID).
				UpdateColumn("views_count", gorm.Expr("views_count + ?", 1)).Error
		}

		if now.Sub(view.LastViewedAt) >= viewDedupWindow {
			if err := tx.Model(&models.ProfileView{}).Where("id = ?", view.ID).
				Updates(map[string]interface{}{
					"view_count":     gorm.Expr("view_count + ?", 1),
					"last_viewed_at": now,
					"user_agent":     userAgent,
				}).Error; err != nil {
				return err
			}
			return tx.Model(&models.Profile{}).Where("id = ?", profile.ID).
				UpdateColumn("views_count", gorm.Expr("views_count + ?", 1)).Error
		}

		// Within the dedup window: refresh the visit time only.
		return tx.Model(&models.ProfileView{}).Where("id = ?", view.ID).
			Updates(map[string]interface{}{
				"last_viewed_at": now,
				"user_agent":     userAgent,
			}).Error
	})
	if err != nil {
		return 0, err
	}

	refreshed, err := s.profile.GetByID(ctx, profile.ID)
	if err != nil {
		return 0, err
	}
	return refreshed.ViewsCount, nil
}

// Stats returns view statistics for the profile owned by username. The
// detailed breakdown is only filled when requesterID is the owner.
func (s *ViewService) Stats(ctx context.Context, username string, requesterID *uint) (*types.ViewStats, error) {
	profile, _, err := s.profile.GetByUsername(ctx, username)
	if err != nil {
		return nil, err
	}

	stats := &types.ViewStats{ViewsCount: profile.ViewsCount}
	if requesterID == nil || *requesterID != profile.UserID {
		return stats, nil
	}

	var unique, authed, anon int64
	if err := s.db.WithContext(ctx).Model(&models.ProfileView{}).
		Where("profile_id = ?", profile.ID).Count(&unique).Error; err != nil {
		return nil, err
	}
	if err := s.db.WithContext(ctx).Model(&models.ProfileView{}).
		Where("profile_id = ? AND viewer_id IS NOT NULL", profile.ID).Count(&authed).Error; err != nil {
		return nil, err
	}
	anon = unique - authed

	uniqueViewers := int(unique)
	authedViews := int(authed)
	anonViews := int(anon)
	stats.UniqueViewers = &uniqueViewers
	stats.AuthenticatedViews = &authedViews
	stats.AnonymousViews = &anonViews
	return stats, nil
}
