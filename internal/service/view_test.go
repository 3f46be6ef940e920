package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/personascape/backend/internal/models"
	"github.com/personascape/backend/internal/testhelpers"
)

// Internal package test so the clock can be pinned per test.
func newTestViewService(t *testing.T) (*ViewService, *ProfileService, func(time.Time)) {
	db := testhelpers.SetupTestDatabase(t)
	profiles := NewProfileService(db)
	svc := NewViewService(db, profiles)

	current := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	svc.now = func() time.Time { return current }
	setNow := func(ts time.Time) { current = ts }

	return svc, profiles, setNow
}

func seedViewFixtures(t *testing.T, svc *ViewService) (*models.User, *models.User) {
	t.Helper()
	alice := testhelpers.CreateTestUser(t, svc.db, "alice")
	bob := testhelpers.CreateTestUser(t, svc.db, "bob")
	testhelpers.CreateTestProfile(t, svc.db, alice.ID)
	return alice, bob
}

func TestRecordViewFirstVisitIncrements(t *testing.T) {
	svc, _, _ := newTestViewService(t)
	_, bob := seedViewFixtures(t, svc)

	count, err := svc.RecordView(context.Background(), "alice", &bob.ID, "10.0.0.1", "test-agent")
	require.NoError(t, err)
	assert.Equal(t, 1, count)
}

func TestRecordViewDedupedWithinWindow(t *testing.T) {
	svc, _, setNow := newTestViewService(t)
	_, bob := seedViewFixtures(t, svc)

	count, err := svc.RecordView(context.Background(), "alice", &bob.ID, "10.0.0.1", "test-agent")
	require.NoError(t, err)
	require.Equal(t, 1, count)

	setNow(time.Date(2025, 6, 1, 18, 0, 0, 0, time.UTC))
	count, err = svc.RecordView(context.Background(), "alice", &bob.ID, "10.0.0.1", "test-agent")
	require.NoError(t, err)
	assert.Equal(t, 1, count)
}

func TestRecordViewIncrementsAfterWindow(t *testing.T) {
	svc, _, setNow := newTestViewService(t)
	_, bob := seedViewFixtures(t, svc)

	_, err := svc.RecordView(context.Background(), "alice", &bob.ID, "10.0.0.1", "test-agent")
	require.NoError(t, err)

	setNow(time.Date(2025, 6, 2, 12, 0, 0, 0, time.UTC))
	count, err := svc.RecordView(context.Background(), "alice", &bob.ID, "10.0.0.1", "test-agent")
	require.NoError(t, err)
	assert.Equal(t, 2, count)

	var view models.ProfileView
	require.NoError(t, svc.db.First(&view).Error)
	assert.Equal(t, 2, view.ViewCount)
}

func TestRecordViewSelfViewIgnored(t *testing.T) {
	svc, _, _ := newTestViewService(t)
	alice, _ := seedViewFixtures(t, svc)

	count, err := svc.RecordView(context.Background(), "alice", &alice.ID, "10.0.0.1", "test-agent")
	require.NoError(t, err)
	assert.Equal(t, 0, count)

	var views int64
	require.NoError(t, svc.db.Model(&models.ProfileView{}).Count(&views).Error)
	assert.Zero(t, views)
}

func TestRecordViewAnonymousKeyedByIP(t *testing.T) {
	svc, _, _ := newTestViewService(t)
	seedViewFixtures(t, svc)

	count, err := svc.RecordView(context.Background(), "alice", nil, "10.0.0.1", "test-agent")
	require.NoError(t, err)
	assert.Equal(t, 1, count)

	// Same IP again inside the window is a repeat visit.
	count, err = svc.RecordView(context.Background(), "alice", nil, "10.0.0.1", "test-agent")
	require.NoError(t, err)
	assert.Equal(t, 1, count)

	// A different IP is a distinct anonymous viewer.
	count, err = svc.RecordView(context.Background(), "alice", nil, "10.0.0.2", "test-agent")
	require.NoError(t, err)
	assert.Equal(t, 2, count)
}

func TestRecordViewAuthedAndAnonymousSameIPDistinct(t *testing.T) {
	svc, _, _ := newTestViewService(t)
	_, bob := seedViewFixtures(t, svc)

	count, err := svc.RecordView(context.Background(), "alice", nil, "10.0.0.1", "test-agent")
	require.NoError(t, err)
	require.Equal(t, 1, count)

	count, err = svc.RecordView(context.Background(), "alice", &bob.ID, "10.0.0.1", "test-agent")
	require.NoError(t, err)
	assert.Equal(t, 2, count)
}

func TestRecordViewUnknownProfile(t *testing.T) {
	svc, _, _ := newTestViewService(t)

	_, err := svc.RecordView(context.Background(), "nobody", nil, "10.0.0.1", "test-agent")
	assert.ErrorIs(t, err, ErrProfileNotFound)
}

func TestStatsBreakdownOwnerOnly(t *testing.T) {
	svc, _, _ := newTestViewService(t)
	alice, bob := seedViewFixtures(t, svc)

	_, err := svc.RecordView(context.Background(), "alice", &bob.ID, "10.0.0.1", "test-agent")
	require.NoError(t, err)
	_, err = svc.RecordView(context.Background(), "alice", nil, "10.0.0.2", "test-agent")
	require.NoError(t, err)

	// Non-owner gets the public counter only.
	stats, err := svc.Stats(context.Background(), "alice", &bob.ID)
	require.NoError(t, err)
	assert.Equal(t, 2, stats.ViewsCount)
	assert.Nil(t, stats.UniqueViewers)

	stats, err = svc.Stats(context.Background(), "alice", &alice.ID)
	require.NoError(t, err)
	assert.Equal(t, 2, stats.ViewsCount)
	require.NotNil(t, stats.UniqueViewers)
	assert.Equal(t, 2, *stats.UniqueViewers)
	assert.Equal(t, 1, *stats.AuthenticatedViews)
	assert.Equal(t, 1, *stats.AnonymousViews)
}
