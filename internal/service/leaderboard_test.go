package service_test

import (
	"context"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/personascape/backend/internal/models"
	"github.com/personascape/backend/internal/service"
	"github.com/personascape/backend/internal/testhelpers"
)

func seedRankedProfiles(t *testing.T, db *gorm.DB, likes []int) []uint {
	t.Helper()
	ids := make([]uint, len(likes))
	for i, n := range likes {
		user := testhelpers.CreateTestUser(t, db, fmt.Sprintf("user%d", i))
		profile := testhelpers.CreateTestProfile(t, db, user.ID)
		require.NoError(t, db.Model(&models.Profile{}).Where("id = ?", profile.ID).
			UpdateColumns(map[string]interface{}{
				"likes_count": n,
				"views_count": n * 10,
			}).Error)
		ids[i] = profile.ID
	}
	return ids
}

func TestLeaderboardByLikesOrdering(t *testing.T) {
	db := testhelpers.SetupTestDatabase(t)
	svc := service.NewLeaderboardService(db, nil)

	ids := seedRankedProfiles(t, db, []int{3, 9, 5})

	entries, err := svc.ByLikes(context.Background(), 10)
	require.NoError(t, err)
	require.Len(t, entries, 3)
	assert.Equal(t, ids[1], entries[0].ProfileID)
	assert.Equal(t, ids[2], entries[1].ProfileID)
	assert.Equal(t, ids[0], entries[2].ProfileID)
	assert.Equal(t, 9, entries[0].LikesCount)
}

func TestLeaderboardByViewsOrdering(t *testing.T) {
	db := testhelpers.SetupTestDatabase(t)
	svc := service.NewLeaderboardService(db, nil)

	ids := seedRankedProfiles(t, db, []int{1, 2})

	entries, err := svc.ByViews(context.Background(), 10)
	require.NoError(t, err)
	require.Len(t, entries, 2)
	assert.Equal(t, ids[1], entries[0].ProfileID)
	assert.Equal(t, 20, entries[0].ViewsCount)
}

func TestLeaderboardStableTieBreak(t *testing.T) {
	db := testhelpers.SetupTestDatabase(t)
	svc := service.NewLeaderboardService(db, nil)

	ids := seedRankedProfiles(t, db, []int{4, 4, 4})

	entries, err := svc.ByLikes(context.Background(), 10)
	require.NoError(t, err)
	require.Len(t, entries, 3)
	assert.Equal(t, ids[0], entries[0].ProfileID)
	assert.Equal(t, ids[1], entries[1].ProfileID)
	assert.Equal(t, ids[2], entries[2].ProfileID)
}

func TestLeaderboardLimitClamped(t *testing.T) {
	db := testhelpers.SetupTestDatabase(t)
	svc := service.NewLeaderboardService(db, nil)

	seedRankedProfiles(t, db, []int{1, 2, 3})

	// Invalid limits fall back to the default of ten.
	entries, err := svc.ByLikes(context.Background(), 0)
	require.NoError(t, err)
	assert.Len(t, entries, 3)

	entries, err = svc.ByLikes(context.Background(), 2)
	require.NoError(t, err)
	assert.Len(t, entries, 2)
}

func TestLeaderboardEmpty(t *testing.T) {
	db := testhelpers.SetupTestDatabase(t)
	svc := service.NewLeaderboardService(db, nil)

	entries, err := svc.ByLikes(context.Background(), 10)
	require.NoError(t, err)
	assert.NotNil(t, entries)
	assert.Empty(t, entries)
}
