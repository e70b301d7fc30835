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
)

func seedProfile(t *testing.T, store repository.Store, userID, domain string, points int) *models.UserProfile {
	t.Helper()
	p := models.NewUserProfile(userID, domain)
	p.TotalPoints = points
	p.CurrentLevel = LevelFor(points)
	_, err := store.EnsureProfile(context.Background(), p)
	require.NoError(t, err)
	return p
}

func TestLeaderboard_OrdersByPoints(t *testing.T) {
	store := testutil.NewStore(t)
	seedProfile(t, store, "A", "software_development", 500)
	seedProfile(t, store, "B", "software_development", 1500)
	seedProfile(t, store, "C", "data_science", 900)

	svc := NewLeaderboardService(store, nil, 0)
	entries, err := svc.Leaderboard(context.Background(), "")
	require.NoError(t, err)
	require.Len(t, entries, 3)

	assert.Equal(t, "B", entries[0].UserID)
	assert.Equal(t, "C", entries[1].UserID)
	assert.Equal(t, "A", entries[2].UserID)
	for i, e := range entries {
		assert.Equal(t, i+1, e.Rank)
	}
	assert.Equal(t, 2, entries[0].Level)
}

func TestLeaderboard_DomainFilterAndTieBreak(t *testing.T) {
	store := testutil.NewStore(t)
	seedProfile(t, store, "zed", "software_development", 700)
	seedProfile(t, store, "amy", "software_development", 700)
	seedProfile(t, store, "bob", "data_science", 9000)

	svc := NewLeaderboardService(store, nil, 0)
	entries, err := svc.Leaderboard(context.Background(), "software_development")
	require.NoError(t, err)
	require.Len(t, entries, 2)
	assert.Equal(t, "amy", entries[0].UserID)
	assert.Equal(t, "zed", entries[1].UserID)
}

func TestLeaderboard_LimitAndBadgeCounts(t *testing.T) {
	store := testutil.NewStore(t)
	ctx := context.Background()
	testutil.MustUpsert(t, store, testutil.Badge("b1", models.CriteriaTotalPoints, 1), testutil.Badge("b2", models.CriteriaTotalPoints, 2))

	var top *models.UserProfile
	for i := 0; i < 12; i++ {
		p := seedProfile(t, store, string(rune('a'+i)), "", i*100)
		if i == 11 {
			top = p
		}
	}
	for _, id := range []string{"b1", "b2"} {
		_, err := store.CreateUserBadge(ctx, &models.UserBadge{UserProfileID: top.ID, BadgeID: id, UnlockedAt: wednesday})
		require.NoError(t, err)
	}

	entries, err := NewLeaderboardService(store, nil, 0).Leaderboard(ctx, "")
	require.NoError(t, err)
	require.Len(t, entries, LeaderboardSize)
	assert.Equal(t, "l", entries[0].UserID)
	assert.EqualValues(t, 2, entries[0].BadgesCount)
	assert.EqualValues(t, 0, entries[1].BadgesCount)
}

func TestLeaderboard_ServedFromCache(t *testing.T) {
	store := testutil.NewStore(t)
	ctx := context.Background()
	seedProfile(t, store, "A", "", 100)

	cache := newMemCache()
	svc := NewLeaderboardService(store, cache, time.Minute)

	first, err := svc.Leaderboard(ctx, "")
	require.NoError(t, err)
	require.Len(t, first, 1)
	assert.Contains(t, cache.data, "global")

	// A write that bypasses invalidation is not visible until the cache is dropped.
	seedProfile(t, store, "B", "", 200)
	cached, err := svc.Leaderboard(ctx, "")
	require.NoError(t, err)
	assert.Len(t, cached, 1)

	svc.Invalidate(ctx)
	fresh, err := svc.Leaderboard(ctx, "")
	require.NoError(t, err)
	require.Len(t, fresh, 2)
	assert.Equal(t, "B", fresh[0].UserID)
}

func TestLeaderboard_DomainNamedGlobalHasOwnCacheEntry(t *testing.T) {
	store := testutil.NewStore(t)
	ctx := context.Background()
	seedProfile(t, store, "a", "global", 100)
	seedProfile(t, store, "b", "other", 900)

	svc := NewLeaderboardService(store, newMemCache(), time.Minute)
	all, err := svc.Leaderboard(ctx, "")
	require.NoError(t, err)
	require.Len(t, all, 2)

	scoped, err := svc.Leaderboard(ctx, "global")
	require.NoError(t, err)
	require.Len(t, scoped, 1)
	assert.Equal(t, "a", scoped[0].UserID)
}

// writeDuringRead runs write after the leaderboard query has read its rows.
type writeDuringRead struct {
	repository.Store
	write func()
}

func (s *writeDuringRead) TopProfiles(ctx context.Context, domain string, limit int) ([]models.UserProfile, error) {
	rows, err := s.Store.TopProfiles(ctx, domain, limit)
	if s.write != nil {
		s.write()
		s.write = nil
	}
	return rows, err
}

func TestLeaderboard_InvalidationDuringRebuildIsNotLost(t *testing.T) {
	base := testutil.NewStore(t)
	ctx := context.Background()
	seedProfile(t, base, "A", "", 100)

	cache := newMemCache()
	store := &writeDuringRead{Store: base}
	store.write = func() {
		seedProfile(t, base, "B", "", 200)
		require.NoError(t, cache.Invalidate(ctx))
	}
	svc := NewLeaderboardService(store, cache, time.Minute)

	stale, err := svc.Leaderboard(ctx, "")
	require.NoError(t, err)
	assert.Len(t, stale, 1)
	assert.NotContains(t, cache.data, "global")

	fresh, err := svc.Leaderboard(ctx, "")
	require.NoError(t, err)
	require.Len(t, fresh, 2)
	assert.Equal(t, "B", fresh[0].UserID)
	assert.Contains(t, cache.data, "global")
}

func TestCompletionRate(t *testing.T) {
	assert.InDelta(t, 60.0, CompletionRate(3, 5), 0.0001)
	assert.Equal(t, 0.0, CompletionRate(0, 0))
	assert.Equal(t, 0.0, CompletionRate(3, 0))
}

func TestSkillDistribution(t *testing.T) {
	shares := SkillDistribution([]models.SkillMastery{
		{SkillName: "go", Progress: 30, Level: models.SkillBeginner},
		{SkillName: "sql", Progress: 10, Level: models.SkillBeginner},
	})
	require.Len(t, shares, 2)
	assert.InDelta(t, 75.0, shares[0].Percentage, 0.001)
	assert.InDelta(t, 25.0, shares[1].Percentage, 0.001)

	zero := SkillDistribution([]models.SkillMastery{{SkillName: "go"}})
	assert.Equal(t, 0.0, zero[0].Percentage)
}

func newReportingFixture(t *testing.T) (*repository.GormStore, *ScoringService, *ProgressService) {
	t.Helper()
	store := testutil.NewStore(t)
	testutil.MustUpsert(t, store,
		testutil.Stage("s1", "software_development", 1, models.DifficultyBeginner, 100, "python"),
		testutil.Stage("s2", "software_development", 2, models.DifficultyBeginner, 100, "python"),
		testutil.Stage("s3", "software_development", 3, models.DifficultyBeginner, 100),
		testutil.Stage("s4", "software_development", 4, models.DifficultyBeginner, 100),
		testutil.Stage("s5", "software_development", 5, models.DifficultyBeginner, 100),
		testutil.Stage("d1", "data_science", 1, models.DifficultyBeginner, 100),
		testutil.Badge(models.BadgeFirstSteps, models.CriteriaStagesCompleted, 1),
	)
	clock := testutil.FixedClock(wednesday)
	return store, NewScoringService(store, nil, clock), NewProgressService(store, clock)
}

func TestStats(t *testing.T) {
	store, scoring, progress := newReportingFixture(t)
	ctx := context.Background()

	domain := "software_development"
	_, _, err := NewProfileService(store, nil).Upsert(ctx, "u1", ProfileInput{Domain: &domain})
	require.NoError(t, err)

	for _, id := range []string{"s1", "s2", "s3"} {
		_, err := scoring.ApplyActivity(ctx, "u1", StageCompleted{StageID: id}, nil)
		require.NoError(t, err)
	}

	stats, err := progress.Stats(ctx, "u1")
	require.NoError(t, err)
	assert.EqualValues(t, 3, stats.CompletedStages)
	assert.EqualValues(t, 5, stats.TotalStages)
	assert.Equal(t, 60.0, stats.CompletionRate)
	assert.Equal(t, 90, stats.TotalTimeSpent)
	assert.Equal(t, 45, stats.AverageSessionTime)
	assert.InDelta(t, 42.86, stats.WeeklyGoalProgress, 0.01)
	assert.Equal(t, 30.0, stats.MonthlyGoalProgress)
	assert.Equal(t, 1, stats.ActiveDays)
	require.Len(t, stats.ProductiveHours, 1)
	assert.Equal(t, HourCount{Hour: 10, Count: 3}, stats.ProductiveHours[0])
	require.Len(t, stats.SkillDistribution, 1)
	assert.Equal(t, 100.0, stats.SkillDistribution[0].Percentage)
	assert.Equal(t, 40, stats.SkillDistribution[0].Progress)
	assert.Equal(t, models.SkillIntermediate, stats.SkillDistribution[0].Level)
}

func TestStats_NoStagesInDomain(t *testing.T) {
	store, _, progress := newReportingFixture(t)
	domain := "underwater_basket_weaving"
	_, _, err := NewProfileService(store, nil).Upsert(context.Background(), "u1", ProfileInput{Domain: &domain})
	require.NoError(t, err)

	stats, err := progress.Stats(context.Background(), "u1")
	require.NoError(t, err)
	assert.Equal(t, 0.0, stats.CompletionRate)
	assert.Empty(t, stats.SkillDistribution)
	assert.Empty(t, stats.ProductiveHours)
}

func TestStats_UnknownUser(t *testing.T) {
	_, _, progress := newReportingFixture(t)
	_, err := progress.Stats(context.Background(), "nobody")
	assertNotFound(t, err)
}

func TestDashboard(t *testing.T) {
	_, scoring, progress := newReportingFixture(t)
	ctx := context.Background()

	for _, id := range []string{"s1", "d1"} {
		_, err := scoring.ApplyActivity(ctx, "u1", StageCompleted{StageID: id}, nil)
		require.NoError(t, err)
	}

	d, err := progress.Dashboard(ctx, "u1")
	require.NoError(t, err)
	assert.Equal(t, 200, d.TotalPoints)
	assert.Equal(t, 1, d.CurrentLevel.Level)
	require.NotNil(t, d.NextLevel)
	assert.Equal(t, 2, d.NextLevel.Level)
	assert.ElementsMatch(t, []string{"s1", "d1"}, d.CompletedStages)
	require.Len(t, d.Badges, 1)
	assert.Equal(t, models.BadgeFirstSteps, d.Badges[0].BadgeID)
	assert.Equal(t, 1, d.Streak.Current)

	assert.Equal(t, 3, d.WeeklyGoals.Target)
	assert.EqualValues(t, 2, d.WeeklyGoals.Current)
	assert.Equal(t, "2024-W11", d.WeeklyGoals.Week)
	assert.Equal(t, 10, d.MonthlyGoals.Target)
	assert.EqualValues(t, 2, d.MonthlyGoals.Current)
	assert.Equal(t, "2024-03", d.MonthlyGoals.Month)
}

func TestDashboard_NextLevelFollowsPoints(t *testing.T) {
	store, _, progress := newReportingFixture(t)
	ctx := context.Background()

	p, _, err := NewProfileService(store, nil).Upsert(ctx, "u1", ProfileInput{TotalPoints: intPtr(5000)})
	require.NoError(t, err)
	require.Equal(t, models.MinLevel, p.CurrentLevel)

	d, err := progress.Dashboard(ctx, "u1")
	require.NoError(t, err)
	assert.Equal(t, 6, d.CurrentLevel.Level)
	require.NotNil(t, d.NextLevel)
	assert.Equal(t, 7, d.NextLevel.Level)

	_, _, err = NewProfileService(store, nil).Upsert(ctx, "u1", ProfileInput{TotalPoints: intPtr(12000)})
	require.NoError(t, err)
	d, err = progress.Dashboard(ctx, "u1")
	require.NoError(t, err)
	assert.Equal(t, models.MaxLevel, d.CurrentLevel.Level)
	assert.Nil(t, d.NextLevel)
}

func TestActivities_NewestFirstAndClamped(t *testing.T) {
	store := testutil.NewStore(t)
	clock := &testutil.MutableClock{At: wednesday}
	scoring := NewScoringService(store, nil, clock.Now)
	progress := NewProgressService(store, clock.Now)
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		_, err := scoring.ApplyActivity(ctx, "u1", DailyActivity{}, nil)
		require.NoError(t, err)
		clock.Advance(time.Minute)
	}
	_, err := scoring.ApplyActivity(ctx, "u1", ResourceCompleted{}, nil)
	require.NoError(t, err)

	logs, err := progress.Activities(ctx, "u1", 2)
	require.NoError(t, err)
	require.Len(t, logs, 2)
	assert.Equal(t, models.ActivityResourceCompleted, logs[0].ActivityType)
	assert.True(t, !logs[0].CreatedAt.Before(logs[1].CreatedAt))

	assert.Equal(t, DefaultActivityLimit, ClampActivityLimit(0))
	assert.Equal(t, MaxActivityLimit, ClampActivityLimit(1000))
	assert.Equal(t, 7, ClampActivityLimit(7))
}

func TestStages_ActiveOnlyInOrder(t *testing.T) {
	store, _, progress := newReportingFixture(t)
	hidden := testutil.Stage("s0", "software_development", 6, models.DifficultyBeginner, 100)
	hidden.IsActive = false
	require.NoError(t, store.UpsertStage(context.Background(), hidden))

	stages, err := progress.Stages(context.Background(), "software_development")
	require.NoError(t, err)
	require.Len(t, stages, 5)
	for i, s := range stages {
		assert.Equal(t, i+1, s.Order)
	}

	none, err := progress.Stages(context.Background(), "nothing")
	require.NoError(t, err)
	assert.NotNil(t, none)
	assert.Empty(t, none)
}
