package services

import (
	"context"
	"fmt"
	"math"
	"sort"
	"time"

	"github.com/Dashrath-Patel/CareerVision.AI/internal/models"
	"github.com/Dashrath-Patel/CareerVision.AI/internal/repository"
)

const (
	minutesPerActivity    = 30
	averageSessionMinutes = 45
)

type SkillShare struct {
	Skill      string            `json:"skill"`
	Percentage float64           `json:"percentage"`
	Level      models.SkillLevel `json:"level"`
	Progress   int               `json:"progress"`
}

type HourCount struct {
	Hour  int `json:"hour"`
	Count int `json:"count"`
}

// ProgressStats are the derived per-user statistics.
type ProgressStats struct {
	CompletedStages     int64        `json:"completed_stages"`
	TotalStages         int64        `json:"total_stages"`
	CompletionRate      float64      `json:"completion_rate"`
	SkillDistribution   []SkillShare `json:"skill_distribution"`
	TotalTimeSpent      int          `json:"total_time_spent"`
	AverageSessionTime  int          `json:"average_session_time"`
	WeeklyGoalProgress  float64      `json:"weekly_goal_progress"`
	MonthlyGoalProgress float64      `json:"monthly_goal_progress"`
	LastActivityDate    *time.Time   `json:"last_activity_date"`
	ActiveDays          int          `json:"active_days"`
	ProductiveHours     []HourCount  `json:"productive_hours"`
}

type StreakInfo struct {
	Current          int        `json:"current"`
	Longest          int        `json:"longest"`
	LastActivityDate *time.Time `json:"last_activity_date"`
}

type WeeklyGoal struct {
	Target  int    `json:"target"`
	Current int64  `json:"current"`
	Week    string `json:"week"`
}

type MonthlyGoal struct {
	Target  int    `json:"target"`
	Current int64  `json:"current"`
	Month   string `json:"month"`
}

// Dashboard is the aggregated progress snapshot for one user.
type Dashboard struct {
	Profile         *models.UserProfile      `json:"profile"`
	CurrentLevel    LevelInfo                `json:"current_level"`
	NextLevel       *LevelInfo               `json:"next_level"`
	TotalPoints     int                      `json:"total_points"`
	CompletedStages []string                 `json:"completed_stages"`
	Badges          []UnlockedBadge          `json:"badges"`
	Achievements    []models.UserAchievement `json:"achievements"`
	SkillMasteries  []models.SkillMastery    `json:"skill_masteries"`
	Streak          StreakInfo               `json:"streak"`
	WeeklyGoals     WeeklyGoal               `json:"weekly_goals"`
	MonthlyGoals    MonthlyGoal              `json:"monthly_goals"`
}

// UnlockedBadge is a catalog badge together with when the user earned it.
type UnlockedBadge struct {
	models.Badge
	UnlockedAt time.Time `json:"unlocked_at"`
}

// ProgressService answers read-only questions about a user's progress.
type ProgressService struct {
	store repository.Store
	now   Clock
}

func NewProgressService(store repository.Store, now Clock) *ProgressService {
	if now == nil {
		now = SystemClock
	}
	return &ProgressService{store: store, now: now}
}

// CompletionRate is completed/total as a percentage, 0 when total is 0.
func CompletionRate(completed, total int64) float64 {
	if total <= 0 {
		return 0
	}
	return float64(completed) / float64(total) * 100
}

// SkillDistribution reports each skill's share of the summed progress.
func SkillDistribution(masteries []models.SkillMastery) []SkillShare {
	sum := 0
	for _, m := range masteries {
		sum += m.Progress
	}

	shares := make([]SkillShare, 0, len(masteries))
	for _, m := range masteries {
		pct := 0.0
		if sum > 0 {
			pct = float64(m.Progress) / float64(sum) * 100
		}
		shares = append(shares, SkillShare{
			Skill:      m.SkillName,
			Percentage: round2(pct),
			Level:      m.Level,
			Progress:   m.Progress,
		})
	}
	return shares
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}

// activityShape folds activity timestamps into distinct days and per-hour counts.
func activityShape(stamps []time.Time) (int, []HourCount) {
	days := make(map[time.Time]struct{})
	hours := make(map[int]int)
	for _, t := range stamps {
		days[dayStart(t)] = struct{}{}
		hours[t.UTC().Hour()]++
	}

	counts := make([]HourCount, 0, len(hours))
	for h, n := range hours {
		counts = append(counts, HourCount{Hour: h, Count: n})
	}
	sort.Slice(counts, func(i, j int) bool {
		if counts[i].Count != counts[j].Count {
			return counts[i].Count > counts[j].Count
		}
		return counts[i].Hour < counts[j].Hour
	})
	return len(days), counts
}

func (s *ProgressService) Stats(ctx context.Context, userID string) (*ProgressStats, error) {
	profile, err := s.store.GetProfile(ctx, userID)
	if err != nil {
		return nil, profileNotFound(err)
	}
	now := s.now().UTC()

	completed, err := s.store.CountCompletedStages(ctx, profile.ID)
	if err != nil {
		return nil, fmt.Errorf("count completed stages: %w", err)
	}
	total, err := s.store.CountStages(ctx, profile.Domain)
	if err != nil {
		return nil, fmt.Errorf("count stages: %w", err)
	}
	masteries, err := s.store.ListSkillMasteries(ctx, profile.ID)
	if err != nil {
		return nil, fmt.Errorf("load skills: %w", err)
	}
	activities, err := s.store.CountActivities(ctx, profile.ID, nil)
	if err != nil {
		return nil, fmt.Errorf("count activities: %w", err)
	}
	weekAgo := now.AddDate(0, 0, -7)
	recent, err := s.store.CountActivities(ctx, profile.ID, &weekAgo)
	if err != nil {
		return nil, fmt.Errorf("count recent activities: %w", err)
	}
	stamps, err := s.store.ActivityTimestamps(ctx, profile.ID)
	if err != nil {
		return nil, fmt.Errorf("load activity times: %w", err)
	}

	activeDays, hours := activityShape(stamps)
	return &ProgressStats{
		CompletedStages:     completed,
		TotalStages:         total,
		CompletionRate:      round2(CompletionRate(completed, total)),
		SkillDistribution:   SkillDistribution(masteries),
		TotalTimeSpent:      int(activities) * minutesPerActivity,
		AverageSessionTime:  averageSessionMinutes,
		WeeklyGoalProgress:  round2(float64(recent) / 7 * 100),
		MonthlyGoalProgress: round2(float64(completed) / float64(MonthlyTarget(profile.CurrentLevel)) * 100),
		LastActivityDate:    profile.LastActivityDate,
		ActiveDays:          activeDays,
		ProductiveHours:     hours,
	}, nil
}

func (s *ProgressService) Dashboard(ctx context.Context, userID string) (*Dashboard, error) {
	profile, err := s.store.GetProfile(ctx, userID)
	if err != nil {
		return nil, profileNotFound(err)
	}
	now := s.now().UTC()

	stageIDs, err := s.store.CompletedStageIDs(ctx, profile.ID)
	if err != nil {
		return nil, fmt.Errorf("load completed stages: %w", err)
	}
	badges, err := s.unlockedBadges(ctx, profile.ID)
	if err != nil {
		return nil, err
	}
	achievements, err := s.store.ListUserAchievements(ctx, profile.ID)
	if err != nil {
		return nil, fmt.Errorf("load achievements: %w", err)
	}
	masteries, err := s.store.ListSkillMasteries(ctx, profile.ID)
	if err != nil {
		return nil, fmt.Errorf("load skills: %w", err)
	}

	week := weekStart(now)
	weekly, err := s.store.CountStagesCompletedBetween(ctx, profile.ID, week, week.AddDate(0, 0, 7))
	if err != nil {
		return nil, fmt.Errorf("count weekly stages: %w", err)
	}
	month := monthStart(now)
	monthly, err := s.store.CountStagesCompletedBetween(ctx, profile.ID, month, month.AddDate(0, 1, 0))
	if err != nil {
		return nil, fmt.Errorf("count monthly stages: %w", err)
	}

	isoYear, isoWeek := now.ISOWeek()
	current := CalculateLevel(profile.TotalPoints)
	return &Dashboard{
		Profile:         profile,
		CurrentLevel:    current,
		NextLevel:       NextLevel(current.Level),
		TotalPoints:     profile.TotalPoints,
		CompletedStages: nonNil(stageIDs),
		Badges:          badges,
		Achievements:    nonNil(achievements),
		SkillMasteries:  nonNil(masteries),
		Streak: StreakInfo{
			Current:          profile.CurrentStreak,
			Longest:          profile.LongestStreak,
			LastActivityDate: profile.LastActivityDate,
		},
		WeeklyGoals: WeeklyGoal{
			Target:  WeeklyTarget(profile.CurrentLevel),
			Current: weekly,
			Week:    fmt.Sprintf("%d-W%02d", isoYear, isoWeek),
		},
		MonthlyGoals: MonthlyGoal{
			Target:  MonthlyTarget(profile.CurrentLevel),
			Current: monthly,
			Month:   now.Format("2006-01"),
		},
	}, nil
}

// Badges lists the badges userID has unlocked, oldest first.
func (s *ProgressService) Badges(ctx context.Context, userID string) ([]UnlockedBadge, error) {
	profile, err := s.store.GetProfile(ctx, userID)
	if err != nil {
		return nil, profileNotFound(err)
	}
	return s.unlockedBadges(ctx, profile.ID)
}

func (s *ProgressService) unlockedBadges(ctx context.Context, profileID string) ([]UnlockedBadge, error) {
	owned, err := s.store.ListUserBadges(ctx, profileID)
	if err != nil {
		return nil, fmt.Errorf("load badges: %w", err)
	}
	out := make([]UnlockedBadge, 0, len(owned))
	for _, ub := range owned {
		if ub.Badge == nil {
			continue
		}
		out = append(out, UnlockedBadge{Badge: *ub.Badge, UnlockedAt: ub.UnlockedAt})
	}
	return out, nil
}

// Activities returns the most recent activity entries, newest first.
func (s *ProgressService) Activities(ctx context.Context, userID string, limit int) ([]models.ActivityLog, error) {
	profile, err := s.store.GetProfile(ctx, userID)
	if err != nil {
		return nil, profileNotFound(err)
	}
	logs, err := s.store.ListActivities(ctx, profile.ID, ClampActivityLimit(limit))
	if err != nil {
		return nil, fmt.Errorf("load activity: %w", err)
	}
	return nonNil(logs), nil
}

// Stages lists the active roadmap stages of a domain in order.
func (s *ProgressService) Stages(ctx context.Context, domain string) ([]models.RoadmapStage, error) {
	stages, err := s.store.ListStages(ctx, domain, true)
	if err != nil {
		return nil, fmt.Errorf("load stages: %w", err)
	}
	return nonNil(stages), nil
}

func nonNil[T any](s []T) []T {
	if s == nil {
		return []T{}
	}
	return s
}
