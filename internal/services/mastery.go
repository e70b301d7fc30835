package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/Dashrath-Patel/CareerVision.AI/internal/models"
	"github.com/Dashrath-Patel/CareerVision.AI/internal/repository"
)

// SkillGain is how much mastery one event adds to a skill.
type SkillGain struct {
	initial int
	step    int
}

var (
	StageSkillGain    = SkillGain{initial: 20, step: 20}
	PracticeSkillGain = SkillGain{initial: 5, step: 5}
)

// DeriveSkillLevel returns the level a skill reaches at progress, starting from current.
// It only ever moves up.
func DeriveSkillLevel(progress int, current models.SkillLevel) models.SkillLevel {
	target := models.SkillBeginner
	switch {
	case progress >= 80:
		target = models.SkillExpert
	case progress >= 60:
		target = models.SkillAdvanced
	case progress >= 40:
		target = models.SkillIntermediate
	}
	if target.Rank() > current.Rank() {
		return target
	}
	return current
}

// EnsureSkillMastery creates the (profile, skill) row at gain.initial/beginner, or adds
// gain.step to an existing row (capped at 100) and re-derives its level.
func EnsureSkillMastery(ctx context.Context, store repository.LedgerStore, profileID, skill string, gain SkillGain) (*models.SkillMastery, error) {
	sm, err := store.GetSkillMastery(ctx, profileID, skill)
	switch {
	case errors.Is(err, repository.ErrNotFound):
		sm = &models.SkillMastery{
			UserProfileID: profileID,
			SkillName:     skill,
			Level:         models.SkillBeginner,
			Progress:      gain.initial,
		}
	case err != nil:
		return nil, fmt.Errorf("load skill %q: %w", skill, err)
	default:
		sm.Progress = min(100, sm.Progress+gain.step)
		sm.Level = DeriveSkillLevel(sm.Progress, sm.Level)
	}

	if err := store.SaveSkillMastery(ctx, sm); err != nil {
		return nil, fmt.Errorf("save skill %q: %w", skill, err)
	}
	return sm, nil
}
