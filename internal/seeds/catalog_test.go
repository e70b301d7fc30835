package seeds

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Dashrath-Patel/CareerVision.AI/internal/models"
	"github.com/Dashrath-Patel/CareerVision.AI/internal/services"
	"github.com/Dashrath-Patel/CareerVision.AI/internal/testutil"
)

func TestLoadCatalog(t *testing.T) {
	c, err := LoadCatalog()
	require.NoError(t, err)

	assert.Len(t, c.Stages, 8)
	assert.Len(t, c.Badges, 7)
	assert.Len(t, c.Achievements, 4)
	assert.Len(t, c.DailyChallenges, 3)
	assert.Len(t, c.WeeklyQuests, 2)

	ids := make(map[string]bool)
	for _, b := range c.Badges {
		ids[b.BadgeID] = true
	}
	for _, want := range []string{models.BadgeFirstSteps, models.BadgeProgressPioneer, models.BadgeConsistentLearner} {
		assert.True(t, ids[want], "catalog is missing %s", want)
	}
}

func TestApply_Idempotent(t *testing.T) {
	c, err := LoadCatalog()
	require.NoError(t, err)
	store := testutil.NewStore(t)
	ctx := context.Background()

	require.NoError(t, c.Apply(ctx, store))
	require.NoError(t, c.Apply(ctx, store))

	software, err := store.ListStages(ctx, "software_development", true)
	require.NoError(t, err)
	require.Len(t, software, 5)
	assert.Equal(t, "programming_fundamentals", software[0].StageID)
	assert.Equal(t, []string{"programming_fundamentals"}, []string(software[1].Prerequisites))

	data, err := store.CountStages(ctx, "data_science")
	require.NoError(t, err)
	assert.EqualValues(t, 3, data)

	badges, err := store.ListBadges(ctx)
	require.NoError(t, err)
	assert.Len(t, badges, 7)
	for _, b := range badges {
		assert.True(t, b.Criteria.Data().Valid(), b.BadgeID)
	}

	achievements, err := store.ListAchievements(ctx)
	require.NoError(t, err)
	assert.Len(t, achievements, 4)
}

func TestRotationFromCatalog(t *testing.T) {
	c, err := LoadCatalog()
	require.NoError(t, err)
	store := testutil.NewStore(t)

	res, err := c.Rotation(store, testutil.FixedClock(services.SystemClock())).EnsureCurrent(context.Background())
	require.NoError(t, err)
	assert.Equal(t, services.RotationResult{Challenges: 3, Quests: 2}, res)
}

func TestParseCatalog_Rejects(t *testing.T) {
	tests := []struct {
		name string
		doc  string
	}{
		{"unknown prerequisite", `
stages:
  - stage_id: a
    domain: d
    order: 1
    prerequisites: [missing]
`},
		{"duplicate stage", `
stages:
  - {stage_id: a, domain: d, order: 1}
  - {stage_id: a, domain: d, order: 2}
`},
		{"bad criteria", `
badges:
  - badge_id: b
    name: B
    criteria: {type: vibes, value: 1}
`},
		{"zero max progress", `
achievements:
  - achievement_id: x
    name: X
    max_progress: 0
`},
		{"not yaml", "stages: ["},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseCatalog([]byte(tt.doc))
			assert.Error(t, err)
		})
	}
}
