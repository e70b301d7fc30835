// Package repository defines the data-access contracts the gamification services
// depend on, plus a gorm-backed implementation.
package repository

import (
	"context"
	"errors"
	"time"

	"github.com/Dashrath-Patel/CareerVision.AI/internal/models"
)

// ErrNotFound is returned by single-row lookups that match nothing.
var ErrNotFound = errors.New("record not found")

// ProfileStore holds one UserProfile per user id.
type ProfileStore interface {
	GetProfile(ctx context.Context, userID string) (*models.UserProfile, error)
	// EnsureProfile inserts p unless a profile for p.UserID exists. It reports whether a row was created.
	EnsureProfile(ctx context.Context, p *models.UserProfile) (bool, error)
	// LockProfile reads the profile with a row lock held until the surrounding transaction ends.
	LockProfile(ctx context.Context, userID string) (*models.UserProfile, error)
	SaveProfile(ctx context.Context, p *models.UserProfile) error
	// TopProfiles orders by total_points DESC then user_id ASC. An empty domain means all domains.
	TopProfiles(ctx context.Context, domain string, limit int) ([]models.UserProfile, error)
}

// CatalogStore gives access to the shared reference data.
type CatalogStore interface {
	GetStage(ctx context.Context, stageID string) (*models.RoadmapStage, error)
	ListStages(ctx context.Context, domain string, activeOnly bool) ([]models.RoadmapStage, error)
	CountStages(ctx context.Context, domain string) (int64, error)
	UpsertStage(ctx context.Context, s *models.RoadmapStage) error

	ListBadges(ctx context.Context) ([]models.Badge, error)
	UpsertBadge(ctx context.Context, b *models.Badge) error

	ListAchievements(ctx context.Context) ([]models.Achievement, error)
	UpsertAchievement(ctx context.Context, a *models.Achievement) error

	GetChallenge(ctx context.Context, challengeID string) (*models.DailyChallenge, error)
	// ListChallenges returns challenges created in [from, to) that are still open at at, by challenge_id.
	ListChallenges(ctx context.Context, from, to, at time.Time) ([]models.DailyChallenge, error)
	CreateChallengeIfAbsent(ctx context.Context, c *models.DailyChallenge) (bool, error)

	// CurrentQuest returns the lowest quest_id whose window contains at.
	CurrentQuest(ctx context.Context, at time.Time) (*models.WeeklyQuest, error)
	CreateQuestIfAbsent(ctx context.Context, q *models.WeeklyQuest) (bool, error)
}

// LedgerStore holds the per-user rows: progress against catalog entries, badge
// ownership and the activity log. Every method is keyed by the profile's internal id.
type LedgerStore interface {
	GetStageProgress(ctx context.Context, profileID, stageID string) (*models.UserStageProgress, error)
	SaveStageProgress(ctx context.Context, sp *models.UserStageProgress) error
	CompletedStageIDs(ctx context.Context, profileID string) ([]string, error)
	CountCompletedStages(ctx context.Context, profileID string) (int64, error)
	CountStagesCompletedBetween(ctx context.Context, profileID string, from, to time.Time) (int64, error)

	GetSkillMastery(ctx context.Context, profileID, skill string) (*models.SkillMastery, error)
	SaveSkillMastery(ctx context.Context, sm *models.SkillMastery) error
	ListSkillMasteries(ctx context.Context, profileID string) ([]models.SkillMastery, error)
	CountSkillsAtLevel(ctx context.Context, profileID string, level models.SkillLevel) (int64, error)

	OwnedBadgeIDs(ctx context.Context, profileID string) ([]string, error)
	// CreateUserBadge inserts ownership unless it exists; it reports whether a row was created.
	CreateUserBadge(ctx context.Context, ub *models.UserBadge) (bool, error)
	ListUserBadges(ctx context.Context, profileID string) ([]models.UserBadge, error)
	CountBadgesByProfile(ctx context.Context, profileIDs []string) (map[string]int64, error)

	GetChallengeProgress(ctx context.Context, profileID, challengeID string) (*models.UserChallengeProgress, error)
	SaveChallengeProgress(ctx context.Context, cp *models.UserChallengeProgress) error
	ListChallengeProgress(ctx context.Context, profileID string, challengeIDs []string) ([]models.UserChallengeProgress, error)
	CountCompletedChallenges(ctx context.Context, profileID string) (int64, error)

	GetQuestProgress(ctx context.Context, profileID, questID string) (*models.UserQuestProgress, error)

	GetUserAchievement(ctx context.Context, profileID, achievementID string) (*models.UserAchievement, error)
	SaveUserAchievement(ctx context.Context, ua *models.UserAchievement) error
	ListUserAchievements(ctx context.Context, profileID string) ([]models.UserAchievement, error)

	AppendActivity(ctx context.Context, a *models.ActivityLog) error
	ListActivities(ctx context.Context, profileID string, limit int) ([]models.ActivityLog, error)
	CountActivities(ctx context.Context, profileID string, since *time.Time) (int64, error)
	CountActivitiesByType(ctx context.Context, profileID string, t models.ActivityType) (int64, error)
	ActivityTimestamps(ctx context.Context, profileID string) ([]time.Time, error)
}

// Store is the full data-access surface. Transaction runs fn against a Store bound
// to a single database transaction; fn's error rolls everything back.
type Store interface {
	ProfileStore
	CatalogStore
	LedgerStore
	Transaction(ctx context.Context, fn func(tx Store) error) error
}
