package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

type BadgeCategory string
type BadgeRarity string

const (
	BadgeCategorySkill       BadgeCategory = "skill"
	BadgeCategoryProgress    BadgeCategory = "progress"
	BadgeCategoryStreak      BadgeCategory = "streak"
	BadgeCategoryAchievement BadgeCategory = "achievement"
	BadgeCategoryMilestone   BadgeCategory = "milestone"

	RarityCommon    BadgeRarity = "common"
	RarityUncommon  BadgeRarity = "uncommon"
	RarityRare      BadgeRarity = "rare"
	RarityEpic      BadgeRarity = "epic"
	RarityLegendary BadgeRarity = "legendary"
)

// Well-known badge ids. Clients reference these directly.
const (
	BadgeFirstSteps        = "first_steps"
	BadgeProgressPioneer   = "progress_pioneer"
	BadgeConsistentLearner = "consistent_learner"
)

// CriteriaType selects which aggregate a badge rule is evaluated against.
type CriteriaType string

const (
	CriteriaStagesCompleted     CriteriaType = "stages_completed"
	CriteriaStreak              CriteriaType = "streak"
	CriteriaResourcesCompleted  CriteriaType = "resources_completed"
	CriteriaExpertSkills        CriteriaType = "expert_skills"
	CriteriaTotalPoints         CriteriaType = "total_points"
	CriteriaChallengesCompleted CriteriaType = "challenges_completed"
)

// BadgeCriteria is a typed unlock rule: the aggregate named by Type must reach Value.
type BadgeCriteria struct {
	Type  CriteriaType `json:"type" yaml:"type"`
	Value int          `json:"value" yaml:"value"`
}

// BadgeStats is the aggregate state badge rules are evaluated against.
type BadgeStats struct {
	CompletedStages     int
	CurrentStreak       int
	ResourcesCompleted  int
	ExpertSkills        int
	TotalPoints         int
	ChallengesCompleted int
}

// Satisfied evaluates the rule. Unknown types never match.
func (c BadgeCriteria) Satisfied(s BadgeStats) bool {
	var have int
	switch c.Type {
	case CriteriaStagesCompleted:
		have = s.CompletedStages
	case CriteriaStreak:
		have = s.CurrentStreak
	case CriteriaResourcesCompleted:
		have = s.ResourcesCompleted
	case CriteriaExpertSkills:
		have = s.ExpertSkills
	case CriteriaTotalPoints:
		have = s.TotalPoints
	case CriteriaChallengesCompleted:
		have = s.ChallengesCompleted
	default:
		return false
	}
	return have >= c.Value
}

// Valid reports whether the rule names a known aggregate with a positive threshold.
func (c BadgeCriteria) Valid() bool {
	switch c.Type {
	case CriteriaStagesCompleted, CriteriaStreak, CriteriaResourcesCompleted,
		CriteriaExpertSkills, CriteriaTotalPoints, CriteriaChallengesCompleted:
		return c.Value > 0
	}
	return false
}

type Badge struct {
	BadgeID   string    `gorm:"primaryKey;type:text;column:badge_id" json:"badge_id"`
	CreatedAt time.Time `json:"created_at"`

	Name        string                            `gorm:"type:text;not null" json:"name"`
	Description string                            `gorm:"type:text" json:"description"`
	Icon        string                            `gorm:"type:text" json:"icon"` // Emoji or icon path
	Category    BadgeCategory                     `gorm:"type:text" json:"category"`
	Rarity      BadgeRarity                       `gorm:"type:text;default:'common'" json:"rarity"`
	Points      int                               `gorm:"default:0" json:"points"`
	Criteria    datatypes.JSONType[BadgeCriteria] `json:"criteria"`
}

func (Badge) TableName() string {
	return "badges"
}

// UserBadge records ownership. Rows are only ever inserted.
type UserBadge struct {
	ID         string    `gorm:"primaryKey;type:text" json:"-"`
	UnlockedAt time.Time `gorm:"not null" json:"unlocked_at"`

	UserProfileID string `gorm:"type:text;not null;uniqueIndex:idx_user_badge_user_badge" json:"-"`
	BadgeID       string `gorm:"type:text;not null;uniqueIndex:idx_user_badge_user_badge" json:"badge_id"`

	UserProfile *UserProfile `gorm:"foreignKey:UserProfileID;constraint:OnDelete:CASCADE" json:"-"`
	Badge       *Badge       `gorm:"foreignKey:BadgeID;references:BadgeID;constraint:OnDelete:CASCADE" json:"badge,omitempty"`
}

func (UserBadge) TableName() string {
	return "user_badges"
}

func (ub *UserBadge) BeforeCreate(tx *gorm.DB) (err error) {
	if ub.ID == "" {
		ub.ID = uuid.New().String()
	}
	if ub.UnlockedAt.IsZero() {
		ub.UnlockedAt = time.Now()
	}
	return
}
