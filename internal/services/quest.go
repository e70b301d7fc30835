package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/Dashrath-Patel/CareerVision.AI/internal/models"
	"github.com/Dashrath-Patel/CareerVision.AI/internal/repository"
)

// QuestView is the active weekly quest plus the user's progress on it.
type QuestView struct {
	QuestID             string     `json:"quest_id"`
	Title               string     `json:"title"`
	Description         string     `json:"description"`
	Objectives          []string   `json:"objectives"`
	TotalPoints         int        `json:"total_points"`
	RewardPoints        int        `json:"reward_points"`
	RewardBadgeID       *string    `json:"reward_badge_id"`
	StartsAt            time.Time  `json:"starts_at"`
	EndsAt              time.Time  `json:"ends_at"`
	Progress            int        `json:"progress"`
	Completed           bool       `json:"completed"`
	CompletedAt         *time.Time `json:"completed_at"`
	ObjectivesCompleted []string   `json:"objectives_completed"`
}

type QuestService struct {
	store repository.Store
	now   Clock
}

func NewQuestService(store repository.Store, now Clock) *QuestService {
	if now == nil {
		now = SystemClock
	}
	return &QuestService{store: store, now: now}
}

// Current returns the quest running now, or nil when there is none.
func (s *QuestService) Current(ctx context.Context, userID string) (*QuestView, error) {
	quest, err := s.store.CurrentQuest(ctx, s.now().UTC())
	if errors.Is(err, repository.ErrNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("load quest: %w", err)
	}

	view := &QuestView{
		QuestID:             quest.QuestID,
		Title:               quest.Title,
		Description:         quest.Description,
		Objectives:          nonNil([]string(quest.Objectives)),
		TotalPoints:         quest.TotalPoints,
		RewardPoints:        quest.RewardPoints,
		RewardBadgeID:       quest.RewardBadgeID,
		StartsAt:            quest.StartsAt,
		EndsAt:              quest.EndsAt,
		ObjectivesCompleted: []string{},
	}

	progress, err := s.questProgress(ctx, userID, quest.QuestID)
	if err != nil {
		return nil, err
	}
	if progress != nil {
		view.Progress = progress.Progress
		view.Completed = progress.Completed
		view.CompletedAt = progress.CompletedAt
		view.ObjectivesCompleted = nonNil([]string(progress.ObjectivesCompleted))
	}
	return view, nil
}

func (s *QuestService) questProgress(ctx context.Context, userID, questID string) (*models.UserQuestProgress, error) {
	profile, err := s.store.GetProfile(ctx, userID)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("load profile: %w", err)
	}

	progress, err := s.store.GetQuestProgress(ctx, profile.ID, questID)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("load quest progress: %w", err)
	}
	return progress, nil
}
