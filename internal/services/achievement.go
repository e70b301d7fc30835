package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/Dashrath-Patel/CareerVision.AI/internal/models"
	"github.com/Dashrath-Patel/CareerVision.AI/internal/repository"
)

// achievementCounter picks the aggregate an achievement type tracks.
func achievementCounter(t models.AchievementType, stats models.BadgeStats) (int, bool) {
	switch t {
	case models.AchievementMilestone:
		return stats.CompletedStages, true
	case models.AchievementConsistency:
		return stats.CurrentStreak, true
	case models.AchievementChallenge:
		return stats.ChallengesCompleted, true
	case models.AchievementSkill:
		return stats.ExpertSkills, true
	}
	return 0, false
}

// AdvanceAchievements moves every tracked achievement towards its max_progress and
// returns the ones completed by this call.
func AdvanceAchievements(ctx context.Context, store repository.Store, profile *models.UserProfile, stats models.BadgeStats, at time.Time) ([]models.Achievement, error) {
	catalog, err := store.ListAchievements(ctx)
	if err != nil {
		return nil, fmt.Errorf("load achievements: %w", err)
	}

	var completed []models.Achievement
	for _, a := range catalog {
		value, tracked := achievementCounter(a.AchievementType, stats)
		if !tracked || value <= 0 {
			continue
		}

		ua, err := store.GetUserAchievement(ctx, profile.ID, a.AchievementID)
		switch {
		case errors.Is(err, repository.ErrNotFound):
			ua = &models.UserAchievement{UserProfileID: profile.ID, AchievementID: a.AchievementID}
		case err != nil:
			return nil, fmt.Errorf("load achievement %s: %w", a.AchievementID, err)
		}

		if !ua.Advance(value, a.MaxProgress, at) {
			continue
		}
		if err := store.SaveUserAchievement(ctx, ua); err != nil {
			return nil, fmt.Errorf("save achievement %s: %w", a.AchievementID, err)
		}
		if ua.Completed {
			completed = append(completed, a)
		}
	}
	return completed, nil
}
