package service

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"time"

	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"

	"github.com/personascape/backend/internal/types"
)

const (
	defaultLeaderboardLimit = 10
	maxLeaderboardLimit     = 100
	leaderboardCacheTTL     = time.Minute
)

// LeaderboardService ranks profiles by their denormalized counters.
// Results are cached in Redis for a short TTL; the cache client may be
// nil, in which case every read hits the database.
type LeaderboardService struct {
	db    *gorm.DB
	cache *redis.Client
}

func NewLeaderboardService(db *gorm.DB, cache *redis.Client) *LeaderboardService {
	return &LeaderboardService{db: db, cache: cache}
}

// ByLikes returns profiles ordered by likes_count descending.
func (s *LeaderboardService) ByLikes(ctx context.Context, limit int) ([]types.LeaderboardEntry, error) {
	return s.rank(ctx, "likes_count", limit)
}

// ByViews returns profiles ordered by views_count descending.
func (s *LeaderboardService) ByViews(ctx context.Context, limit int) ([]types.LeaderboardEntry, error) {
	return s.rank(ctx, "views_count", limit)
}

func (s *LeaderboardService) rank(ctx context.Context, column string, limit int) ([]types.LeaderboardEntry, error) {
	if limit < 1 {
		limit = defaultLeaderboardLimit
	}
	if limit > maxLeaderboardLimit {
		limit = maxLeaderboardLimit
	}

	cacheKey := fmt.Sprintf("leaderboard:%s:%d", column, limit)
	if s.cache != nil {
		if cached, err := s.cache.Get(ctx, cacheKey).Bytes(); err == nil {
			var entries []types.LeaderboardEntry
			if err := json.Unmarshal(cached, &entries); err == nil {
				return entries, nil
			}
		}
	}

	var entries []types.LeaderboardEntry
	// Ties break on profile id ascending to keep the ordering stable.
	err := s.db.WithContext(ctx).Table("profiles").
		Select("profiles.id AS profile_id, users.username, profiles.profile_picture_url AS profile_picture, profiles.likes_count, profiles.views_count").
		Joins("JOIN users ON users.id = profiles.user_id AND users.deleted_at IS NULL").
		Where("profiles.deleted_at IS NULL").
		Order(fmt.Sprintf("profiles.%s DESC, profiles.id ASC", column)).
		Limit(limit).
		Scan(&entries).Error
	if err != nil {
		return nil, err
	}
	if entries == nil {
		entries = []types.LeaderboardEntry{}
	}

	if s.cache != nil {
		if payload, err := json.Marshal(entries); err == nil {
			if err := s.cache.Set(ctx, cacheKey, payload, leaderboardCacheTTL).Err(); err != nil {
				log.Printf("leaderboard cache write failed: %v", err)
			}
		}
	}
	return entries, nil
}
