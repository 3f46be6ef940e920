package service

import (
	"context"
	"log"
	"time"

	"gorm.io/gorm"
)

// ReconcileResult reports how many rows each repair pass touched. All
// zeros means the denormalized counters matched the detail rows.
type ReconcileResult struct {
	ProfileLikes int64
	ProfileViews int64
	CommentLikes int64
}

// Drift reports whether any counter needed repair.
func (r ReconcileResult) Drift() bool {
	return r.ProfileLikes > 0 || r.ProfileViews > 0 || r.CommentLikes > 0
}

// ReconcileService recomputes the denormalized counters from their
// detail rows. The counters are maintained incrementally on the write
// paths; this catches drift from any path that mutates rows without
// touching the counter.
type ReconcileService struct {
	db *gorm.DB
}

func NewReconcileService(db *gorm.DB) *ReconcileService {
	return &ReconcileService{db: db}
}

// Reconcile repairs all counters and returns how many rows changed.
func (s *ReconcileService) Reconcile(ctx context.Context) (ReconcileResult, error) {
	var result ReconcileResult

	res := s.db.WithContext(ctx).Exec(`
		UPDATE profiles SET likes_count = (
			SELECT COUNT(*) FROM profile_likes WHERE profile_likes.profile_id = profiles.id
		)
		WHERE likes_count <> (
			SELECT COUNT(*) FROM profile_likes WHERE profile_likes.profile_id = profiles.id
		)`)
	if res.Error != nil {
		return result, res.Error
	}
	result.ProfileLikes = res.RowsAffected

	res = s.db.WithContext(ctx).Exec(`
		UPDATE profiles SET views_count = (
			SELECT COALESCE(SUM(view_count), 0) FROM profile_views WHERE profile_views.profile_id = profiles.id
		)
		WHERE views_count <> (
			SELECT COALESCE(SUM(view_count), 0) FROM profile_views WHERE profile_views.profile_id = profiles.id
		)`)
	if res.Error != nil {
		return result, res.Error
	}
	result.ProfileViews = res.RowsAffected

	res = s.db.WithContext(ctx).Exec(`
		UPDATE comments SET likes_count = (
			SELECT COUNT(*) FROM comment_likes WHERE comment_likes.comment_id = comments.id
		)
		WHERE likes_count <> (
			SELECT COUNT(*) FROM comment_likes WHERE comment_likes.comment_id = comments.id
		)`)
	if res.Error != nil {
		return result, res.Error
	}
	result.CommentLikes = res.RowsAffected

	return result, nil
}

// Run reconciles on a ticker until the context is cancelled.
func (s *ReconcileService) Run(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			result, err := s.Reconcile(ctx)
			if err != nil {
				log.Printf("counter reconciliation failed: %v", err)
				continue
			}
			if result.Drift() {
				log.Printf("counter reconciliation repaired drift: profiles(likes)=%d profiles(views)=%d comments(likes)=%d",
					result.ProfileLikes, result.ProfileViews, result.CommentLikes)
			}
		}
	}
}
