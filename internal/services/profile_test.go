package services

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Dashrath-Patel/CareerVision.AI/internal/models"
	"github.com/Dashrath-Patel/CareerVision.AI/internal/testutil"
	apperrors "github.com/Dashrath-Patel/CareerVision.AI/pkg/errors"
)

func intPtr(v int) *int { return &v }
func strPtr(v string) *string { return &v }

func TestProfileUpsert_CreateThenUpdate(t *testing.T) {
	store := testutil.NewStore(t)
	cache := newMemCache()
	svc := NewProfileService(store, cache)
	ctx := context.Background()

	p, created, err := svc.Upsert(ctx, "u1", ProfileInput{Domain: strPtr("data_science")})
	require.NoError(t, err)
	assert.True(t, created)
	assert.Equal(t, "u1", p.UserID)
	assert.Equal(t, "data_science", p.Domain)
	assert.Equal(t, models.MinLevel, p.CurrentLevel)
	assert.Equal(t, 0, p.TotalPoints)

	p, created, err = svc.Upsert(ctx, "u1", ProfileInput{TotalPoints: intPtr(2500), CurrentLevel: intPtr(3)})
	require.NoError(t, err)
	assert.False(t, created)
	assert.Equal(t, "data_science", p.Domain)
	assert.Equal(t, 2500, p.TotalPoints)
	assert.Equal(t, 3, p.CurrentLevel)

	got, err := svc.Get(ctx, "u1")
	require.NoError(t, err)
	assert.Equal(t, 2500, got.TotalPoints)
	assert.Equal(t, 2, cache.invalidated)
}

func TestProfileUpsert_EmptyBodyCreatesDefaults(t *testing.T) {
	svc := NewProfileService(testutil.NewStore(t), nil)

	p, created, err := svc.Upsert(context.Background(), "u1", ProfileInput{})
	require.NoError(t, err)
	assert.True(t, created)
	assert.Equal(t, "", p.Domain)
	assert.Equal(t, 0, p.CurrentStreak)
}

func TestProfileUpsert_RejectsInconsistentStreaks(t *testing.T) {
	store := testutil.NewStore(t)
	svc := NewProfileService(store, nil)
	ctx := context.Background()

	_, _, err := svc.Upsert(ctx, "u1", ProfileInput{CurrentStreak: intPtr(5), LongestStreak: intPtr(2)})
	appErr, ok := apperrors.As(err)
	require.True(t, ok)
	assert.Equal(t, 400, appErr.Code)
	assert.Contains(t, appErr.Fields, "longest_streak")

	// The failed create rolled back.
	_, err = svc.Get(ctx, "u1")
	assertNotFound(t, err)
}

func TestProfileGet_NotFound(t *testing.T) {
	svc := NewProfileService(testutil.NewStore(t), nil)

	_, err := svc.Get(context.Background(), "ghost")
	appErr, ok := apperrors.As(err)
	require.True(t, ok)
	assert.Equal(t, 404, appErr.Code)
	assert.Equal(t, "User profile not found", appErr.Message)
}
