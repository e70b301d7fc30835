package services

import (
	"context"
	"fmt"

	"github.com/Dashrath-Patel/CareerVision.AI/internal/models"
	"github.com/Dashrath-Patel/CareerVision.AI/internal/repository"
	apperrors "github.com/Dashrath-Patel/CareerVision.AI/pkg/errors"
)

// ProfileInput carries the writable profile fields. Nil means "leave unchanged".
type ProfileInput struct {
	Domain        *string `json:"domain" binding:"omitempty,max=100"`
	TotalPoints   *int    `json:"total_points" binding:"omitempty,min=0"`
	CurrentLevel  *int    `json:"current_level" binding:"omitempty,min=1,max=10"`
	CurrentStreak *int    `json:"current_streak" binding:"omitempty,min=0"`
	LongestStreak *int    `json:"longest_streak" binding:"omitempty,min=0"`
}

func (in ProfileInput) apply(p *models.UserProfile) {
	if in.Domain != nil {
		p.Domain = *in.Domain
	}
	if in.TotalPoints != nil {
		p.TotalPoints = *in.TotalPoints
	}
	if in.CurrentLevel != nil {
		p.CurrentLevel = *in.CurrentLevel
	}
	if in.CurrentStreak != nil {
		p.CurrentStreak = *in.CurrentStreak
	}
	if in.LongestStreak != nil {
		p.LongestStreak = *in.LongestStreak
	}
}

// validateProfile checks the invariants a stored profile must keep.
func validateProfile(p *models.UserProfile) error {
	fields := make(map[string]string)
	if p.TotalPoints < 0 {
		fields["total_points"] = "must be non-negative"
	}
	if p.CurrentLevel < models.MinLevel || p.CurrentLevel > models.MaxLevel {
		fields["current_level"] = "must be between 1 and 10"
	}
	if p.CurrentStreak < 0 {
		fields["current_streak"] = "must be non-negative"
	}
	if p.LongestStreak < p.CurrentStreak {
		fields["longest_streak"] = "must be at least current_streak"
	}
	if len(fields) > 0 {
		return apperrors.Validation(fields)
	}
	return nil
}

type ProfileService struct {
	store repository.Store
	cache Cache
}

func NewProfileService(store repository.Store, cache Cache) *ProfileService {
	return &ProfileService{store: store, cache: cache}
}

func (s *ProfileService) Get(ctx context.Context, userID string) (*models.UserProfile, error) {
	profile, err := s.store.GetProfile(ctx, userID)
	if err != nil {
		return nil, profileNotFound(err)
	}
	return profile, nil
}

// Upsert creates the profile with defaults or updates the supplied fields. created
// reports whether the row is new.
func (s *ProfileService) Upsert(ctx context.Context, userID string, in ProfileInput) (profile *models.UserProfile, created bool, err error) {
	if userID == "" {
		return nil, false, apperrors.FieldError("user_id", "is required")
	}

	err = s.store.Transaction(ctx, func(tx repository.Store) error {
		domain := ""
		if in.Domain != nil {
			domain = *in.Domain
		}
		created, err = tx.EnsureProfile(ctx, models.NewUserProfile(userID, domain))
		if err != nil {
			return fmt.Errorf("ensure profile: %w", err)
		}

		profile, err = tx.LockProfile(ctx, userID)
		if err != nil {
			return fmt.Errorf("lock profile: %w", err)
		}

		in.apply(profile)
		if err := validateProfile(profile); err != nil {
			return err
		}
		if err := tx.SaveProfile(ctx, profile); err != nil {
			return fmt.Errorf("save profile: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, false, err
	}

	invalidateLeaderboard(ctx, s.cache)
	return profile, created, nil
}
