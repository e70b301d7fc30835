package services

import (
	"github.com/Dashrath-Patel/CareerVision.AI/internal/models"
	apperrors "github.com/Dashrath-Patel/CareerVision.AI/pkg/errors"
)

// DefaultResourcePoints is awarded for a completed resource that names no value.
const DefaultResourcePoints = 50

const (
	SkillPracticePoints = 25
	DailyActivityPoints = 10
)

// ActivityEvent is one scoring input. The concrete types below are the only implementations.
type ActivityEvent interface {
	Kind() models.ActivityType
}

type StageCompleted struct {
	StageID string `json:"stage_id"`
}

type SkillPracticed struct {
	SkillName string `json:"skill_name,omitempty"`
}

type ResourceCompleted struct {
	Points *int `json:"points,omitempty"`
}

type DailyActivity struct{}

func (StageCompleted) Kind() models.ActivityType    { return models.ActivityStageCompleted }
func (SkillPracticed) Kind() models.ActivityType    { return models.ActivitySkillPracticed }
func (ResourceCompleted) Kind() models.ActivityType { return models.ActivityResourceCompleted }
func (DailyActivity) Kind() models.ActivityType     { return models.ActivityDailyActivity }

// ActivityInput is the wire form of an event, discriminated by Type.
type ActivityInput struct {
	Type      string `json:"type" binding:"required"`
	StageID   string `json:"stage_id" binding:"omitempty,max=100"`
	SkillName string `json:"skill_name" binding:"omitempty,max=100"`
	Points    *int   `json:"points"`
}

// Event decodes the input into its typed event.
func (in ActivityInput) Event() (ActivityEvent, error) {
	switch models.ActivityType(in.Type) {
	case models.ActivityStageCompleted:
		if in.StageID == "" {
			return nil, apperrors.FieldError("stage_id", "is required for stage_completed")
		}
		return StageCompleted{StageID: in.StageID}, nil
	case models.ActivitySkillPracticed:
		return SkillPracticed{SkillName: in.SkillName}, nil
	case models.ActivityResourceCompleted:
		if in.Points != nil && *in.Points < 0 {
			return nil, apperrors.FieldError("points", "must be non-negative")
		}
		return ResourceCompleted{Points: in.Points}, nil
	case models.ActivityDailyActivity:
		return DailyActivity{}, nil
	}
	return nil, apperrors.FieldError("type", "unknown activity type")
}
