package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.opentelemetry.io/otel/attribute"

	"github.com/Dashrath-Patel/CareerVision.AI/internal/models"
	"github.com/Dashrath-Patel/CareerVision.AI/internal/repository"
	apperrors "github.com/Dashrath-Patel/CareerVision.AI/pkg/errors"
	"github.com/Dashrath-Patel/CareerVision.AI/pkg/tracing"
)

// ChallengeView is a daily challenge merged with one user's completion state.
type ChallengeView struct {
	models.DailyChallenge
	Completed   bool       `json:"completed"`
	CompletedAt *time.Time `json:"completed_at"`
}

// ChallengeCompletion is the outcome of a completion request.
type ChallengeCompletion struct {
	AlreadyCompleted bool           `json:"-"`
	PointsEarned     int            `json:"points_earned"`
	TotalPoints      int            `json:"total_points"`
	LevelUp          bool           `json:"level_up"`
	NewLevel         int            `json:"new_level"`
	NewBadges        []models.Badge `json:"new_badges"`
}

type ChallengeService struct {
	store repository.Store
	cache Cache
	now   Clock
}

func NewChallengeService(store repository.Store, cache Cache, now Clock) *ChallengeService {
	if now == nil {
		now = SystemClock
	}
	return &ChallengeService{store: store, cache: cache, now: now}
}

// Today lists the challenges created today that have not expired. An unknown user
// simply sees every challenge as not completed.
func (s *ChallengeService) Today(ctx context.Context, userID string) ([]ChallengeView, error) {
	now := s.now().UTC()
	from := dayStart(now)

	challenges, err := s.store.ListChallenges(ctx, from, from.AddDate(0, 0, 1), now)
	if err != nil {
		return nil, fmt.Errorf("load challenges: %w", err)
	}

	done := make(map[string]models.UserChallengeProgress)
	profile, err := s.store.GetProfile(ctx, userID)
	switch {
	case err == nil && len(challenges) > 0:
		ids := make([]string, len(challenges))
		for i, c := range challenges {
			ids[i] = c.ChallengeID
		}
		rows, err := s.store.ListChallengeProgress(ctx, profile.ID, ids)
		if err != nil {
			return nil, fmt.Errorf("load challenge progress: %w", err)
		}
		for _, r := range rows {
			done[r.ChallengeID] = r
		}
	case err != nil && !errors.Is(err, repository.ErrNotFound):
		return nil, fmt.Errorf("load profile: %w", err)
	}

	views := make([]ChallengeView, 0, len(challenges))
	for _, c := range challenges {
		view := ChallengeView{DailyChallenge: c}
		if row, ok := done[c.ChallengeID]; ok {
			view.Completed = row.Completed
			view.CompletedAt = row.CompletedAt
		}
		views = append(views, view)
	}
	return views, nil
}

// Complete records the challenge for the user and awards its points once.
func (s *ChallengeService) Complete(ctx context.Context, userID, challengeID string) (*ChallengeCompletion, error) {
	ctx, span := tracing.Tracer().Start(ctx, "challenges.complete")
	span.SetAttributes(attribute.String("user.id", userID), attribute.String("challenge.id", challengeID))
	defer span.End()

	now := s.now().UTC()
	var (
		result    *ChallengeCompletion
		completed []models.Achievement
	)

	err := s.store.Transaction(ctx, func(tx repository.Store) error {
		profile, err := tx.LockProfile(ctx, userID)
		if err != nil {
			return profileNotFound(err)
		}

		challenge, err := tx.GetChallenge(ctx, challengeID)
		if errors.Is(err, repository.ErrNotFound) {
			return apperrors.NotFound("Challenge not found")
		}
		if err != nil {
			return fmt.Errorf("load challenge: %w", err)
		}

		progress, err := tx.GetChallengeProgress(ctx, profile.ID, challengeID)
		switch {
		case errors.Is(err, repository.ErrNotFound):
			progress = &models.UserChallengeProgress{UserProfileID: profile.ID, ChallengeID: challengeID}
		case err != nil:
			return fmt.Errorf("load challenge progress: %w", err)
		}

		if progress.Completed {
			result = &ChallengeCompletion{AlreadyCompleted: true, TotalPoints: profile.TotalPoints, NewLevel: profile.CurrentLevel}
			return nil
		}
		if !challenge.ActiveAt(now) {
			return apperrors.BadRequest("Challenge has expired")
		}

		progress.Completed = true
		progress.CompletedAt = &now
		if err := tx.SaveChallengeProgress(ctx, progress); err != nil {
			return fmt.Errorf("save challenge progress: %w", err)
		}

		profile.TotalPoints += challenge.Points
		levelUp := applyLevel(profile)
		if err := tx.SaveProfile(ctx, profile); err != nil {
			return fmt.Errorf("save profile: %w", err)
		}

		meta := map[string]string{"challenge_id": challengeID}
		if err := LogActivity(ctx, tx, profile.ID, models.ActivityChallengeCompleted, challenge.Points, meta, now); err != nil {
			return err
		}

		newBadges, done, err := evaluateRewards(ctx, tx, profile, now)
		if err != nil {
			return err
		}
		completed = done

		result = &ChallengeCompletion{
			PointsEarned: challenge.Points,
			TotalPoints:  profile.TotalPoints,
			LevelUp:      levelUp,
			NewLevel:     profile.CurrentLevel,
			NewBadges:    newBadges,
		}
		return nil
	})
	if err != nil {
		span.RecordError(err)
		return nil, err
	}

	if !result.AlreadyCompleted {
		invalidateLeaderboard(ctx, s.cache)
		logRewards(userID, result.LevelUp, result.NewLevel, result.NewBadges, completed)
	}
	return result, nil
}
