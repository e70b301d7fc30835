package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

type DailyChallenge struct {
	ChallengeID string    `gorm:"primaryKey;type:text;column:challenge_id" json:"challenge_id"`
	CreatedAt   time.Time `gorm:"index" json:"created_at"`

	Title         string    `gorm:"type:text;not null" json:"title"`
	Description   string    `gorm:"type:text" json:"description"`
	ChallengeType string    `gorm:"type:text" json:"challenge_type"`
	Difficulty    string    `gorm:"type:text" json:"difficulty"` // easy, medium, hard
	Points        int       `gorm:"not null;default:25" json:"points"`
	TimeEstimate  string    `gorm:"type:text" json:"time_estimate"`
	Category      string    `gorm:"type:text" json:"category"`
	ExpiresAt     time.Time `gorm:"index;not null" json:"expires_at"`
}

func (DailyChallenge) TableName() string {
	return "daily_challenges"
}

// ActiveAt reports whether the challenge can still be completed at t.
func (c *DailyChallenge) ActiveAt(t time.Time) bool {
	return t.Before(c.ExpiresAt)
}

type UserChallengeProgress struct {
	ID        string    `gorm:"primaryKey;type:text" json:"-"`
	CreatedAt time.Time `json:"created_at"`

	UserProfileID string     `gorm:"type:text;not null;uniqueIndex:idx_challenge_progress_user_challenge" json:"-"`
	ChallengeID   string     `gorm:"type:text;not null;uniqueIndex:idx_challenge_progress_user_challenge" json:"challenge_id"`
	Completed     bool       `gorm:"not null;default:false" json:"completed"`
	CompletedAt   *time.Time `json:"completed_at"`

	UserProfile *UserProfile    `gorm:"foreignKey:UserProfileID;constraint:OnDelete:CASCADE" json:"-"`
	Challenge   *DailyChallenge `gorm:"foreignKey:ChallengeID;references:ChallengeID;constraint:OnDelete:CASCADE" json:"-"`
}

func (UserChallengeProgress) TableName() string {
	return "user_challenge_progress"
}

func (cp *UserChallengeProgress) BeforeCreate(tx *gorm.DB) (err error) {
	if cp.ID == "" {
		cp.ID = uuid.New().String()
	}
	return
}

type WeeklyQuest struct {
	QuestID   string    `gorm:"primaryKey;type:text;column:quest_id" json:"quest_id"`
	CreatedAt time.Time `json:"created_at"`

	Title         string                      `gorm:"type:text;not null" json:"title"`
	Description   string                      `gorm:"type:text" json:"description"`
	Objectives    datatypes.JSONSlice[string] `json:"objectives"`
	TotalPoints   int                         `gorm:"default:0" json:"total_points"`
	RewardPoints  int                         `gorm:"default:0" json:"reward_points"`
	RewardBadgeID *string                     `gorm:"type:text" json:"reward_badge_id"`
	StartsAt      time.Time                   `gorm:"index;not null" json:"starts_at"`
	EndsAt        time.Time                   `gorm:"index;not null" json:"ends_at"`

	RewardBadge *Badge `gorm:"foreignKey:RewardBadgeID;references:BadgeID;constraint:OnDelete:SET NULL" json:"-"`
}

func (WeeklyQuest) TableName() string {
	return "weekly_quests"
}

// Contains reports whether t falls inside the quest window (inclusive).
func (q *WeeklyQuest) Contains(t time.Time) bool {
	return !t.Before(q.StartsAt) && !t.After(q.EndsAt)
}

type UserQuestProgress struct {
	ID        string    `gorm:"primaryKey;type:text" json:"-"`
	CreatedAt time.Time `json:"started_at"`
	UpdatedAt time.Time `json:"updated_at"`

	UserProfileID       string                      `gorm:"type:text;not null;uniqueIndex:idx_quest_progress_user_quest" json:"-"`
	QuestID             string                      `gorm:"type:text;not null;uniqueIndex:idx_quest_progress_user_quest" json:"quest_id"`
	ObjectivesCompleted datatypes.JSONSlice[string] `json:"objectives_completed"`
	Progress            int                         `gorm:"not null;default:0" json:"progress"` // 0-100
	Completed           bool                        `gorm:"not null;default:false" json:"completed"`
	CompletedAt         *time.Time                  `json:"completed_at"`

	UserProfile *UserProfile `gorm:"foreignKey:UserProfileID;constraint:OnDelete:CASCADE" json:"-"`
	Quest       *WeeklyQuest `gorm:"foreignKey:QuestID;references:QuestID;constraint:OnDelete:CASCADE" json:"-"`
}

func (UserQuestProgress) TableName() string {
	return "user_quest_progress"
}

func (qp *UserQuestProgress) BeforeCreate(tx *gorm.DB) (err error) {
	if qp.ID == "" {
		qp.ID = uuid.New().String()
	}
	return
}
