package services

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Dashrath-Patel/CareerVision.AI/internal/models"
)

func TestLevelFor(t *testing.T) {
	cases := map[int]int{
		-5:    1,
		0:     1,
		999:   1,
		1000:  2,
		1999:  2,
		9999:  10,
		10000: 10,
		50000: 10,
	}
	for total, want := range cases {
		assert.Equal(t, want, LevelFor(total), "total=%d", total)
	}
}

func TestCalculateLevel(t *testing.T) {
	info := CalculateLevel(1500)
	assert.Equal(t, 2, info.Level)
	assert.Equal(t, "Skill Seeker", info.Title)
	assert.Equal(t, 1000, info.MinPoints)
	require.NotNil(t, info.MaxPoints)
	assert.Equal(t, 1999, *info.MaxPoints)
	assert.Equal(t, 500, info.PointsInLevel)
	assert.Equal(t, 500, info.PointsToNext)

	top := CalculateLevel(25000)
	assert.Equal(t, models.MaxLevel, top.Level)
	assert.Equal(t, "Visionary Leader", top.Title)
	assert.Nil(t, top.MaxPoints)
	assert.Equal(t, 0, top.PointsToNext)
	assert.Equal(t, 16000, top.PointsInLevel)
}

func TestNextLevel(t *testing.T) {
	next := NextLevel(1)
	require.NotNil(t, next)
	assert.Equal(t, 2, next.Level)
	assert.Equal(t, 1000, next.MinPoints)

	last := NextLevel(9)
	require.NotNil(t, last)
	assert.Equal(t, 10, last.Level)
	assert.Nil(t, last.MaxPoints)

	assert.Nil(t, NextLevel(10))
}

func TestApplyLevel_NeverLowers(t *testing.T) {
	p := &models.UserProfile{TotalPoints: 500, CurrentLevel: 4}
	assert.False(t, applyLevel(p))
	assert.Equal(t, 4, p.CurrentLevel)

	p.TotalPoints = 4000
	assert.True(t, applyLevel(p))
	assert.Equal(t, 5, p.CurrentLevel)
}

func TestGoalTargets(t *testing.T) {
	assert.Equal(t, 3, WeeklyTarget(1))
	assert.Equal(t, 5, WeeklyTarget(10))
	assert.Equal(t, 10, MonthlyTarget(1))
	assert.Equal(t, 20, MonthlyTarget(10))
}

func TestAdvanceStreak(t *testing.T) {
	now := time.Date(2024, 3, 13, 10, 0, 0, 0, time.UTC)
	day := func(offset int) *time.Time {
		d := now.AddDate(0, 0, offset).Add(-3 * time.Hour)
		return &d
	}

	tests := []struct {
		name        string
		last        *time.Time
		current     int
		longest     int
		wantCurrent int
		wantLongest int
	}{
		{"first activity", nil, 0, 0, 1, 1},
		{"same day", day(0), 4, 9, 4, 9},
		{"yesterday extends", day(-1), 5, 5, 6, 6},
		{"yesterday keeps longer record", day(-1), 5, 12, 6, 12},
		{"gap resets", day(-2), 5, 12, 1, 12},
		{"long gap resets", day(-30), 3, 3, 1, 3},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := &models.UserProfile{LastActivityDate: tt.last, CurrentStreak: tt.current, LongestStreak: tt.longest}
			advanceStreak(p, now)
			assert.Equal(t, tt.wantCurrent, p.CurrentStreak)
			assert.Equal(t, tt.wantLongest, p.LongestStreak)
			require.NotNil(t, p.LastActivityDate)
			assert.True(t, p.LastActivityDate.Equal(now))
		})
	}
}

func TestAdvanceStreak_AcrossMidnight(t *testing.T) {
	last := time.Date(2024, 3, 12, 23, 59, 0, 0, time.UTC)
	p := &models.UserProfile{LastActivityDate: &last, CurrentStreak: 2, LongestStreak: 2}

	advanceStreak(p, time.Date(2024, 3, 13, 0, 1, 0, 0, time.UTC))
	assert.Equal(t, 3, p.CurrentStreak)
}

func TestDeriveSkillLevel(t *testing.T) {
	tests := []struct {
		progress int
		current  models.SkillLevel
		want     models.SkillLevel
	}{
		{20, models.SkillBeginner, models.SkillBeginner},
		{40, models.SkillBeginner, models.SkillIntermediate},
		{55, models.SkillIntermediate, models.SkillIntermediate},
		{60, models.SkillBeginner, models.SkillAdvanced},
		{60, models.SkillIntermediate, models.SkillAdvanced},
		{79, models.SkillAdvanced, models.SkillAdvanced},
		{80, models.SkillBeginner, models.SkillExpert},
		{100, models.SkillExpert, models.SkillExpert},
		{45, models.SkillExpert, models.SkillExpert},
		{65, models.SkillExpert, models.SkillExpert},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, DeriveSkillLevel(tt.progress, tt.current), "progress=%d current=%s", tt.progress, tt.current)
	}
}

func TestWeekStart(t *testing.T) {
	sunday := time.Date(2024, 3, 17, 22, 0, 0, 0, time.UTC)
	assert.Equal(t, time.Date(2024, 3, 11, 0, 0, 0, 0, time.UTC), weekStart(sunday))

	monday := time.Date(2024, 3, 11, 0, 0, 0, 0, time.UTC)
	assert.Equal(t, monday, weekStart(monday))
}
