package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

type Difficulty string

const (
	DifficultyBeginner     Difficulty = "beginner"
	DifficultyIntermediate Difficulty = "intermediate"
	DifficultyAdvanced     Difficulty = "advanced"
)

// Multiplier scales stage points on completion. Unknown difficulties count as beginner.
func (d Difficulty) Multiplier() float64 {
	switch d {
	case DifficultyIntermediate:
		return 1.5
	case DifficultyAdvanced:
		return 2
	default:
		return 1
	}
}

// RoadmapStage is a unit of curriculum in a domain roadmap.
type RoadmapStage struct {
	StageID   string    `gorm:"primaryKey;type:text;column:stage_id" json:"stage_id"`
	CreatedAt time.Time `json:"created_at"`

	Domain        string                      `gorm:"type:text;not null;uniqueIndex:idx_stage_domain_order" json:"domain"`
	Order         int                         `gorm:"column:stage_order;not null;uniqueIndex:idx_stage_domain_order" json:"order"`
	Title         string                      `gorm:"type:text;not null" json:"title"`
	Description   string                      `gorm:"type:text" json:"description"`
	Category      string                      `gorm:"type:text" json:"category"`
	Difficulty    Difficulty                  `gorm:"type:text;not null;default:'beginner'" json:"difficulty"`
	EstimatedTime string                      `gorm:"type:text" json:"estimated_time"`
	Points        int                         `gorm:"not null;default:100" json:"points"`
	Prerequisites datatypes.JSONSlice[string] `json:"prerequisites"` // Ordered stage ids
	Skills        datatypes.JSONSlice[string] `json:"skills"`
	IsActive      bool                        `gorm:"not null;index" json:"is_active"`
}

func (RoadmapStage) TableName() string {
	return "roadmap_stages"
}

// UserStageProgress is the (user, stage) ledger row.
type UserStageProgress struct {
	ID        string    `gorm:"primaryKey;type:text" json:"-"`
	CreatedAt time.Time `json:"started_at"`
	UpdatedAt time.Time `json:"updated_at"`

	UserProfileID string     `gorm:"type:text;not null;uniqueIndex:idx_stage_progress_user_stage" json:"-"`
	StageID       string     `gorm:"type:text;not null;uniqueIndex:idx_stage_progress_user_stage" json:"stage_id"`
	Progress      int        `gorm:"not null;default:0" json:"progress"` // 0-100
	Completed     bool       `gorm:"not null;default:false;index" json:"completed"`
	CompletedAt   *time.Time `json:"completed_at"`

	UserProfile *UserProfile  `gorm:"foreignKey:UserProfileID;constraint:OnDelete:CASCADE" json:"-"`
	Stage       *RoadmapStage `gorm:"foreignKey:StageID;references:StageID;constraint:OnDelete:CASCADE" json:"stage,omitempty"`
}

func (UserStageProgress) TableName() string {
	return "user_stage_progress"
}

func (sp *UserStageProgress) BeforeCreate(tx *gorm.DB) (err error) {
	if sp.ID == "" {
		sp.ID = uuid.New().String()
	}
	return
}

// MarkCompleted sets the completion triple. It reports false if the row was already complete.
func (sp *UserStageProgress) MarkCompleted(at time.Time) bool {
	if sp.Completed {
		return false
	}
	sp.Completed = true
	sp.Progress = 100
	sp.CompletedAt = &at
	return true
}

type SkillLevel string

const (
	SkillBeginner     SkillLevel = "beginner"
	SkillIntermediate SkillLevel = "intermediate"
	SkillAdvanced     SkillLevel = "advanced"
	SkillExpert       SkillLevel = "expert"
)

// Rank orders levels so callers can compare them.
func (l SkillLevel) Rank() int {
	switch l {
	case SkillIntermediate:
		return 1
	case SkillAdvanced:
		return 2
	case SkillExpert:
		return 3
	default:
		return 0
	}
}

// SkillMastery tracks per-user proficiency in one named skill.
type SkillMastery struct {
	ID        string    `gorm:"primaryKey;type:text" json:"-"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	UserProfileID string     `gorm:"type:text;not null;uniqueIndex:idx_skill_mastery_user_skill" json:"-"`
	SkillName     string     `gorm:"type:text;not null;uniqueIndex:idx_skill_mastery_user_skill" json:"skill_name"`
	Level         SkillLevel `gorm:"type:text;not null;default:'beginner'" json:"level"`
	Progress      int        `gorm:"not null;default:0" json:"progress"` // 0-100

	UserProfile *UserProfile `gorm:"foreignKey:UserProfileID;constraint:OnDelete:CASCADE" json:"-"`
}

func (SkillMastery) TableName() string {
	return "skill_masteries"
}

func (sm *SkillMastery) BeforeCreate(tx *gorm.DB) (err error) {
	if sm.ID == "" {
		sm.ID = uuid.New().String()
	}
	return
}
