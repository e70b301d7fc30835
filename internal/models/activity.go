package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

type ActivityType string

const (
	ActivityStageCompleted      ActivityType = "stage_completed"
	ActivityStageProgress       ActivityType = "stage_progress"
	ActivitySkillPracticed      ActivityType = "skill_practiced"
	ActivityResourceCompleted   ActivityType = "resource_completed"
	ActivityDailyActivity       ActivityType = "daily_activity"
	ActivityChallengeCompleted  ActivityType = "challenge_completed"
	ActivityBadgeEarned         ActivityType = "badge_earned"
	ActivityAchievementUnlocked ActivityType = "achievement_unlocked"
)

// ActivityLog is an append-only record of a point-earning event.
type ActivityLog struct {
	ID        string    `gorm:"primaryKey;type:text" json:"id"`
	CreatedAt time.Time `gorm:"index" json:"created_at"`

	UserProfileID string         `gorm:"type:text;not null;index" json:"-"`
	ActivityType  ActivityType   `gorm:"type:text;not null;index" json:"activity_type"`
	PointsEarned  int            `gorm:"not null;default:0" json:"points_earned"`
	Metadata      datatypes.JSON `json:"metadata"`

	UserProfile *UserProfile `gorm:"foreignKey:UserProfileID;constraint:OnDelete:CASCADE" json:"-"`
}

func (ActivityLog) TableName() string {
	return "activity_logs"
}

func (al *ActivityLog) BeforeCreate(tx *gorm.DB) (err error) {
	if al.ID == "" {
		al.ID = uuid.New().String()
	}
	if al.CreatedAt.IsZero() {
		al.CreatedAt = time.Now()
	}
	return
}
