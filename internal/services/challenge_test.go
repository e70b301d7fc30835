package services

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Dashrath-Patel/CareerVision.AI/internal/models"
	"github.com/Dashrath-Patel/CareerVision.AI/internal/repository"
	"github.com/Dashrath-Patel/CareerVision.AI/internal/testutil"
	apperrors "github.com/Dashrath-Patel/CareerVision.AI/pkg/errors"
)

func challengeFor(id string, points int, created time.Time) *models.DailyChallenge {
	return &models.DailyChallenge{
		ChallengeID: id,
		CreatedAt:   created,
		Title:       id,
		Points:      points,
		ExpiresAt:   dayStart(created).AddDate(0, 0, 1),
	}
}

func newChallengeFixture(t *testing.T) (*repository.GormStore, *ChallengeService) {
	t.Helper()
	store := testutil.NewStore(t)
	yesterday := wednesday.AddDate(0, 0, -1)
	testutil.MustUpsert(t, store,
		challengeFor("daily_code_20240313", 50, wednesday.Add(-time.Hour)),
		challengeFor("daily_quiz_20240313", 30, wednesday.Add(-time.Hour)),
		challengeFor("daily_code_20240312", 50, yesterday),
	)
	return store, NewChallengeService(store, nil, testutil.FixedClock(wednesday))
}

func TestCompleteChallenge_OnlyOnce(t *testing.T) {
	store, svc := newChallengeFixture(t)
	ctx := context.Background()
	seedProfile(t, store, "u1", "software_development", 0)

	res, err := svc.Complete(ctx, "u1", "daily_code_20240313")
	require.NoError(t, err)
	assert.False(t, res.AlreadyCompleted)
	assert.Equal(t, 50, res.PointsEarned)
	assert.Equal(t, 50, res.TotalPoints)
	assert.Equal(t, 1, res.NewLevel)
	assert.NotNil(t, res.NewBadges)

	again, err := svc.Complete(ctx, "u1", "daily_code_20240313")
	require.NoError(t, err)
	assert.True(t, again.AlreadyCompleted)

	profile, err := store.GetProfile(ctx, "u1")
	require.NoError(t, err)
	assert.Equal(t, 50, profile.TotalPoints)
	// Completing a challenge is not a streak day.
	assert.Equal(t, 0, profile.CurrentStreak)

	logged, err := store.CountActivitiesByType(ctx, profile.ID, models.ActivityChallengeCompleted)
	require.NoError(t, err)
	assert.EqualValues(t, 1, logged)

	done, err := store.CountCompletedChallenges(ctx, profile.ID)
	require.NoError(t, err)
	assert.EqualValues(t, 1, done)
}

func TestCompleteChallenge_NotFound(t *testing.T) {
	store, svc := newChallengeFixture(t)
	ctx := context.Background()

	_, err := svc.Complete(ctx, "ghost", "daily_code_20240313")
	require.Error(t, err)
	assertNotFound(t, err)

	seedProfile(t, store, "u1", "", 0)
	_, err = svc.Complete(ctx, "u1", "daily_nothing")
	appErr, ok := apperrors.As(err)
	require.True(t, ok)
	assert.Equal(t, 404, appErr.Code)
	assert.Equal(t, "Challenge not found", appErr.Message)
}

func TestCompleteChallenge_Expired(t *testing.T) {
	store, svc := newChallengeFixture(t)
	seedProfile(t, store, "u1", "", 0)

	_, err := svc.Complete(context.Background(), "u1", "daily_code_20240312")
	appErr, ok := apperrors.As(err)
	require.True(t, ok)
	assert.Equal(t, 400, appErr.Code)
	assert.Equal(t, "Challenge has expired", appErr.Message)

	profile, err := store.GetProfile(context.Background(), "u1")
	require.NoError(t, err)
	assert.Equal(t, 0, profile.TotalPoints)
}

func TestCompleteChallenge_InvalidatesCache(t *testing.T) {
	store, _ := newChallengeFixture(t)
	cache := newMemCache()
	svc := NewChallengeService(store, cache, testutil.FixedClock(wednesday))
	seedProfile(t, store, "u1", "", 0)

	_, err := svc.Complete(context.Background(), "u1", "daily_quiz_20240313")
	require.NoError(t, err)
	_, err = svc.Complete(context.Background(), "u1", "daily_quiz_20240313")
	require.NoError(t, err)

	assert.Equal(t, 1, cache.invalidated)
}

func TestTodayChallenges(t *testing.T) {
	store, svc := newChallengeFixture(t)
	ctx := context.Background()
	seedProfile(t, store, "u1", "", 0)

	_, err := svc.Complete(ctx, "u1", "daily_quiz_20240313")
	require.NoError(t, err)

	views, err := svc.Today(ctx, "u1")
	require.NoError(t, err)
	require.Len(t, views, 2)
	assert.Equal(t, "daily_code_20240313", views[0].ChallengeID)
	assert.False(t, views[0].Completed)
	assert.Nil(t, views[0].CompletedAt)
	assert.Equal(t, "daily_quiz_20240313", views[1].ChallengeID)
	assert.True(t, views[1].Completed)
	require.NotNil(t, views[1].CompletedAt)
	assert.True(t, views[1].CompletedAt.Equal(wednesday))

	anonymous, err := svc.Today(ctx, "nobody")
	require.NoError(t, err)
	require.Len(t, anonymous, 2)
	for _, v := range anonymous {
		assert.False(t, v.Completed)
	}
}

func TestTodayChallenges_NoneYet(t *testing.T) {
	store := testutil.NewStore(t)
	svc := NewChallengeService(store, nil, testutil.FixedClock(wednesday))

	views, err := svc.Today(context.Background(), "u1")
	require.NoError(t, err)
	assert.NotNil(t, views)
	assert.Empty(t, views)
}
