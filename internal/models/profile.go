package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

const (
	MinLevel = 1
	MaxLevel = 10
)

// UserProfile is the per-user gamification record. UserID is the caller-facing
// identifier (session or account id); ID is the internal key every ledger row references.
type UserProfile struct {
	ID        string    `gorm:"primaryKey;type:text" json:"-"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	UserID           string     `gorm:"uniqueIndex;type:text;not null" json:"user_id"`
	Domain           string     `gorm:"index;type:text" json:"domain"`
	TotalPoints      int        `gorm:"not null;default:0;index" json:"total_points"`
	CurrentLevel     int        `gorm:"not null;default:1" json:"current_level"`
	CurrentStreak    int        `gorm:"not null;default:0" json:"current_streak"`
	LongestStreak    int        `gorm:"not null;default:0" json:"longest_streak"`
	LastActivityDate *time.Time `json:"last_activity_date"`
}

func (UserProfile) TableName() string {
	return "user_profiles"
}

func (p *UserProfile) BeforeCreate(tx *gorm.DB) (err error) {
	if p.ID == "" {
		p.ID = uuid.New().String()
	}
	if p.CurrentLevel < MinLevel {
		p.CurrentLevel = MinLevel
	}
	return
}

// NewUserProfile returns a profile with the defaults used by every get-or-create path.
func NewUserProfile(userID, domain string) *UserProfile {
	return &UserProfile{
		ID:           uuid.New().String(),
		UserID:       userID,
		Domain:       domain,
		CurrentLevel: MinLevel,
	}
}
