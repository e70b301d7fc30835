package services

import (
	"context"
	"fmt"
	"time"

	"github.com/Dashrath-Patel/CareerVision.AI/internal/models"
	"github.com/Dashrath-Patel/CareerVision.AI/internal/repository"
)

// CollectBadgeStats snapshots the aggregates badge and achievement rules read.
func CollectBadgeStats(ctx context.Context, store repository.LedgerStore, profile *models.UserProfile) (models.BadgeStats, error) {
	stats := models.BadgeStats{
		CurrentStreak: profile.CurrentStreak,
		TotalPoints:   profile.TotalPoints,
	}

	completed, err := store.CountCompletedStages(ctx, profile.ID)
	if err != nil {
		return stats, fmt.Errorf("count completed stages: %w", err)
	}
	resources, err := store.CountActivitiesByType(ctx, profile.ID, models.ActivityResourceCompleted)
	if err != nil {
		return stats, fmt.Errorf("count resources: %w", err)
	}
	experts, err := store.CountSkillsAtLevel(ctx, profile.ID, models.SkillExpert)
	if err != nil {
		return stats, fmt.Errorf("count expert skills: %w", err)
	}
	challenges, err := store.CountCompletedChallenges(ctx, profile.ID)
	if err != nil {
		return stats, fmt.Errorf("count challenges: %w", err)
	}

	stats.CompletedStages = int(completed)
	stats.ResourcesCompleted = int(resources)
	stats.ExpertSkills = int(experts)
	stats.ChallengesCompleted = int(challenges)
	return stats, nil
}

// CheckBadges grants every catalog badge the profile does not own yet and whose
// criteria the stats satisfy. Only badges created by this call are returned.
func CheckBadges(ctx context.Context, store repository.Store, profile *models.UserProfile, stats models.BadgeStats, at time.Time) ([]models.Badge, error) {
	newBadges := make([]models.Badge, 0)

	existing, err := store.OwnedBadgeIDs(ctx, profile.ID)
	if err != nil {
		return nil, fmt.Errorf("load owned badges: %w", err)
	}
	owned := make(map[string]bool, len(existing))
	for _, id := range existing {
		owned[id] = true
	}

	catalog, err := store.ListBadges(ctx)
	if err != nil {
		return nil, fmt.Errorf("load badge catalog: %w", err)
	}

	for _, badge := range catalog {
		if owned[badge.BadgeID] {
			continue
		}
		if !badge.Criteria.Data().Satisfied(stats) {
			continue
		}

		created, err := store.CreateUserBadge(ctx, &models.UserBadge{
			UserProfileID: profile.ID,
			BadgeID:       badge.BadgeID,
			UnlockedAt:    at,
		})
		if err != nil {
			return nil, fmt.Errorf("grant badge %s: %w", badge.BadgeID, err)
		}
		if created {
			newBadges = append(newBadges, badge)
		}
	}

	return newBadges, nil
}
