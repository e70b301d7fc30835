package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

type AchievementType string

const (
	AchievementMilestone   AchievementType = "milestone"
	AchievementChallenge   AchievementType = "challenge"
	AchievementSkill       AchievementType = "skill"
	AchievementConsistency AchievementType = "consistency"
)

type Achievement struct {
	AchievementID string    `gorm:"primaryKey;type:text;column:achievement_id" json:"achievement_id"`
	CreatedAt     time.Time `json:"created_at"`

	Name            string                      `gorm:"type:text;not null" json:"name"`
	Description     string                      `gorm:"type:text" json:"description"`
	Icon            string                      `gorm:"type:text" json:"icon"`
	Category        string                      `gorm:"type:text" json:"category"`
	AchievementType AchievementType             `gorm:"type:text" json:"achievement_type"`
	Points          int                         `gorm:"default:0" json:"points"`
	MaxProgress     int                         `gorm:"not null" json:"max_progress"`
	Steps           datatypes.JSONSlice[string] `json:"steps"`
}

func (Achievement) TableName() string {
	return "achievements"
}

type UserAchievement struct {
	ID        string    `gorm:"primaryKey;type:text" json:"-"`
	CreatedAt time.Time `json:"started_at"`
	UpdatedAt time.Time `json:"updated_at"`

	UserProfileID   string     `gorm:"type:text;not null;uniqueIndex:idx_user_achievement_user_ach" json:"-"`
	AchievementID   string     `gorm:"type:text;not null;uniqueIndex:idx_user_achievement_user_ach" json:"achievement_id"`
	CurrentProgress int        `gorm:"not null;default:0" json:"current_progress"`
	Completed       bool       `gorm:"not null;default:false" json:"completed"`
	CompletedAt     *time.Time `json:"completed_at"`

	UserProfile *UserProfile `gorm:"foreignKey:UserProfileID;constraint:OnDelete:CASCADE" json:"-"`
	Achievement *Achievement `gorm:"foreignKey:AchievementID;references:AchievementID;constraint:OnDelete:CASCADE" json:"achievement,omitempty"`
}

func (UserAchievement) TableName() string {
	return "user_achievements"
}

func (ua *UserAchievement) BeforeCreate(tx *gorm.DB) (err error) {
	if ua.ID == "" {
		ua.ID = uuid.New().String()
	}
	return
}

// Advance raises progress towards max. Progress never moves backwards and is
// clamped at max; reaching max completes the row. Returns true if anything changed.
func (ua *UserAchievement) Advance(value, max int, at time.Time) bool {
	if ua.Completed {
		return false
	}
	if value > max {
		value = max
	}
	if value <= ua.CurrentProgress {
		return false
	}
	ua.CurrentProgress = value
	if value == max {
		ua.Completed = true
		ua.CompletedAt = &at
	}
	return true
}
