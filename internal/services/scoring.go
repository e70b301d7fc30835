package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/Dashrath-Patel/CareerVision.AI/internal/models"
	"github.com/Dashrath-Patel/CareerVision.AI/internal/repository"
	apperrors "github.com/Dashrath-Patel/CareerVision.AI/pkg/errors"
	"github.com/Dashrath-Patel/CareerVision.AI/pkg/logger"
	"github.com/Dashrath-Patel/CareerVision.AI/pkg/tracing"
)

// ActivityResult is what one applied event did to the profile.
type ActivityResult struct {
	PointsEarned  int            `json:"points_earned"`
	TotalPoints   int            `json:"total_points"`
	LevelUp       bool           `json:"level_up"`
	NewLevel      int            `json:"new_level"`
	NewBadges     []models.Badge `json:"new_badges"`
	CurrentStreak int            `json:"current_streak"`
}

// ScoringService applies activity events to user profiles.
type ScoringService struct {
	store repository.Store
	cache Cache
	now   Clock
}

func NewScoringService(store repository.Store, cache Cache, now Clock) *ScoringService {
	if now == nil {
		now = SystemClock
	}
	return &ScoringService{store: store, cache: cache, now: now}
}

// ApplyActivity runs one event for userID inside a single transaction, creating the
// profile if needed. payload is stored verbatim as the activity metadata; when nil the
// event itself is recorded.
func (s *ScoringService) ApplyActivity(ctx context.Context, userID string, event ActivityEvent, payload json.RawMessage) (*ActivityResult, error) {
	if userID == "" {
		return nil, apperrors.FieldError("user_id", "is required")
	}
	if event == nil {
		return nil, apperrors.FieldError("type", "is required")
	}

	ctx, span := tracing.Tracer().Start(ctx, "scoring.apply_activity", trace.WithAttributes(
		attribute.String("user.id", userID),
		attribute.String("activity.type", string(event.Kind())),
	))
	defer span.End()

	now := s.now().UTC()
	var (
		result    *ActivityResult
		completed []models.Achievement
	)

	err := s.store.Transaction(ctx, func(tx repository.Store) error {
		profile, err := lockOrCreateProfile(ctx, tx, userID)
		if err != nil {
			return err
		}

		points, err := s.pointsFor(ctx, tx, profile, event, now)
		if err != nil {
			return err
		}

		profile.TotalPoints += points
		levelUp := applyLevel(profile)
		advanceStreak(profile, now)

		if err := tx.SaveProfile(ctx, profile); err != nil {
			return fmt.Errorf("save profile: %w", err)
		}

		var metadata interface{} = event
		if len(payload) > 0 {
			metadata = payload
		}
		if err := LogActivity(ctx, tx, profile.ID, event.Kind(), points, metadata, now); err != nil {
			return err
		}

		newBadges, done, err := evaluateRewards(ctx, tx, profile, now)
		if err != nil {
			return err
		}
		completed = done

		result = &ActivityResult{
			PointsEarned:  points,
			TotalPoints:   profile.TotalPoints,
			LevelUp:       levelUp,
			NewLevel:      profile.CurrentLevel,
			NewBadges:     newBadges,
			CurrentStreak: profile.CurrentStreak,
		}
		return nil
	})
	if err != nil {
		span.RecordError(err)
		return nil, err
	}
	span.SetAttributes(attribute.Int("points.earned", result.PointsEarned), attribute.Bool("level.up", result.LevelUp))

	invalidateLeaderboard(ctx, s.cache)
	logRewards(userID, result.LevelUp, result.NewLevel, result.NewBadges, completed)
	return result, nil
}

func (s *ScoringService) pointsFor(ctx context.Context, tx repository.Store, profile *models.UserProfile, event ActivityEvent, now time.Time) (int, error) {
	switch ev := event.(type) {
	case StageCompleted:
		return completeStage(ctx, tx, profile, ev.StageID, now)

	case SkillPracticed:
		if ev.SkillName != "" {
			if _, err := EnsureSkillMastery(ctx, tx, profile.ID, ev.SkillName, PracticeSkillGain); err != nil {
				return 0, err
			}
		}
		return SkillPracticePoints, nil

	case ResourceCompleted:
		if ev.Points == nil {
			return DefaultResourcePoints, nil
		}
		if *ev.Points < 0 {
			return 0, apperrors.FieldError("points", "must be non-negative")
		}
		return *ev.Points, nil

	case DailyActivity:
		return DailyActivityPoints, nil
	}
	return 0, apperrors.FieldError("type", "unknown activity type")
}

// completeStage marks the stage done for the profile and returns the points it is worth.
// A stage that was already completed is worth nothing and leaves skills untouched.
func completeStage(ctx context.Context, tx repository.Store, profile *models.UserProfile, stageID string, now time.Time) (int, error) {
	stage, err := tx.GetStage(ctx, stageID)
	if errors.Is(err, repository.ErrNotFound) {
		return 0, apperrors.NotFound("Stage not found")
	}
	if err != nil {
		return 0, fmt.Errorf("load stage: %w", err)
	}

	progress, err := tx.GetStageProgress(ctx, profile.ID, stageID)
	switch {
	case errors.Is(err, repository.ErrNotFound):
		progress = &models.UserStageProgress{UserProfileID: profile.ID, StageID: stageID}
	case err != nil:
		return 0, fmt.Errorf("load stage progress: %w", err)
	}

	if !progress.MarkCompleted(now) {
		return 0, nil
	}
	if err := tx.SaveStageProgress(ctx, progress); err != nil {
		return 0, fmt.Errorf("save stage progress: %w", err)
	}

	for _, skill := range stage.Skills {
		if _, err := EnsureSkillMastery(ctx, tx, profile.ID, skill, StageSkillGain); err != nil {
			return 0, err
		}
	}

	return StagePoints(stage), nil
}

// StagePoints is the stage's base points scaled by its difficulty, rounded half away from zero.
func StagePoints(stage *models.RoadmapStage) int {
	return int(math.Round(float64(stage.Points) * stage.Difficulty.Multiplier()))
}

// lockOrCreateProfile inserts a default profile when none exists, then reads it under a row lock.
func lockOrCreateProfile(ctx context.Context, tx repository.Store, userID string) (*models.UserProfile, error) {
	if _, err := tx.EnsureProfile(ctx, models.NewUserProfile(userID, "")); err != nil {
		return nil, fmt.Errorf("ensure profile: %w", err)
	}
	profile, err := tx.LockProfile(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("lock profile: %w", err)
	}
	return profile, nil
}

// evaluateRewards runs badge and achievement evaluation against one stats snapshot.
func evaluateRewards(ctx context.Context, tx repository.Store, profile *models.UserProfile, now time.Time) ([]models.Badge, []models.Achievement, error) {
	stats, err := CollectBadgeStats(ctx, tx, profile)
	if err != nil {
		return nil, nil, err
	}
	badges, err := CheckBadges(ctx, tx, profile, stats, now)
	if err != nil {
		return nil, nil, err
	}
	achievements, err := AdvanceAchievements(ctx, tx, profile, stats, now)
	if err != nil {
		return nil, nil, err
	}
	return badges, achievements, nil
}

func invalidateLeaderboard(ctx context.Context, cache Cache) {
	if cache == nil {
		return
	}
	if err := cache.Invalidate(ctx); err != nil {
		logger.Warn().Err(err).Msg("Failed to invalidate leaderboard cache")
	}
}

func logRewards(userID string, levelUp bool, level int, badges []models.Badge, achievements []models.Achievement) {
	if levelUp {
		logger.Info().Str("user_id", userID).Int("level", level).Msg("Level up")
	}
	for _, b := range badges {
		logger.Info().Str("user_id", userID).Str("badge_id", b.BadgeID).Msg("Badge unlocked")
	}
	for _, a := range achievements {
		logger.Info().Str("user_id", userID).Str("achievement_id", a.AchievementID).Msg("Achievement completed")
	}
}
