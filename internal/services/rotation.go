package services

import (
	"context"
	"fmt"
	"time"

	"github.com/go-co-op/gocron/v2"

	"github.com/Dashrath-Patel/CareerVision.AI/internal/models"
	"github.com/Dashrath-Patel/CareerVision.AI/internal/repository"
	"github.com/Dashrath-Patel/CareerVision.AI/pkg/logger"
)

// ChallengeTemplate produces one daily challenge per day, id "<IDPrefix>_YYYYMMDD".
type ChallengeTemplate struct {
	IDPrefix      string `yaml:"id_prefix"`
	Title         string `yaml:"title"`
	Description   string `yaml:"description"`
	ChallengeType string `yaml:"challenge_type"`
	Difficulty    string `yaml:"difficulty"`
	Points        int    `yaml:"points"`
	TimeEstimate  string `yaml:"time_estimate"`
	Category      string `yaml:"category"`
}

// QuestTemplate produces one weekly quest per ISO week, id "<IDPrefix>_YYYYMMDD" of the Monday.
type QuestTemplate struct {
	IDPrefix     string   `yaml:"id_prefix"`
	Title        string   `yaml:"title"`
	Description  string   `yaml:"description"`
	Objectives   []string `yaml:"objectives"`
	TotalPoints  int      `yaml:"total_points"`
	RewardPoints int      `yaml:"reward_points"`
}

// RotationResult counts the rows a rotation pass created.
type RotationResult struct {
	Challenges int
	Quests     int
}

// CatalogRotation keeps today's challenges and this week's quests in the catalog.
type CatalogRotation struct {
	store      repository.CatalogStore
	challenges []ChallengeTemplate
	quests     []QuestTemplate
	now        Clock
}

func NewCatalogRotation(store repository.CatalogStore, challenges []ChallengeTemplate, quests []QuestTemplate, now Clock) *CatalogRotation {
	if now == nil {
		now = SystemClock
	}
	return &CatalogRotation{store: store, challenges: challenges, quests: quests, now: now}
}

// EnsureCurrent creates whatever rows for the current day and week are missing.
// Running it again in the same period creates nothing.
func (r *CatalogRotation) EnsureCurrent(ctx context.Context) (RotationResult, error) {
	var res RotationResult
	now := r.now().UTC()

	today := dayStart(now)
	for _, t := range r.challenges {
		c := &models.DailyChallenge{
			ChallengeID:   fmt.Sprintf("%s_%s", t.IDPrefix, today.Format("20060102")),
			CreatedAt:     now,
			Title:         t.Title,
			Description:   t.Description,
			ChallengeType: t.ChallengeType,
			Difficulty:    t.Difficulty,
			Points:        t.Points,
			TimeEstimate:  t.TimeEstimate,
			Category:      t.Category,
			ExpiresAt:     today.AddDate(0, 0, 1),
		}
		created, err := r.store.CreateChallengeIfAbsent(ctx, c)
		if err != nil {
			return res, fmt.Errorf("create challenge %s: %w", c.ChallengeID, err)
		}
		if created {
			res.Challenges++
		}
	}

	week := weekStart(now)
	for _, t := range r.quests {
		q := &models.WeeklyQuest{
			QuestID:      fmt.Sprintf("%s_%s", t.IDPrefix, week.Format("20060102")),
			Title:        t.Title,
			Description:  t.Description,
			Objectives:   t.Objectives,
			TotalPoints:  t.TotalPoints,
			RewardPoints: t.RewardPoints,
			StartsAt:     week,
			EndsAt:       week.AddDate(0, 0, 7).Add(-time.Second),
		}
		created, err := r.store.CreateQuestIfAbsent(ctx, q)
		if err != nil {
			return res, fmt.Errorf("create quest %s: %w", q.QuestID, err)
		}
		if created {
			res.Quests++
		}
	}

	return res, nil
}

// StartScheduler runs EnsureCurrent immediately and then every interval. The caller
// owns the returned scheduler and must Shutdown it.
func (r *CatalogRotation) StartScheduler(ctx context.Context, interval time.Duration) (gocron.Scheduler, error) {
	sched, err := gocron.NewScheduler(gocron.WithLocation(time.UTC))
	if err != nil {
		return nil, err
	}

	_, err = sched.NewJob(
		gocron.DurationJob(interval),
		gocron.NewTask(func() {
			res, err := r.EnsureCurrent(ctx)
			if err != nil {
				logger.Error().Err(err).Msg("[Scheduler] Catalog rotation failed")
				return
			}
			if res.Challenges > 0 || res.Quests > 0 {
				logger.Info().Int("challenges", res.Challenges).Int("quests", res.Quests).Msg("[Scheduler] Catalog rotated")
			}
		}),
		gocron.WithStartAt(gocron.WithStartImmediately()),
		gocron.WithSingletonMode(gocron.LimitModeReschedule),
	)
	if err != nil {
		_ = sched.Shutdown()
		return nil, err
	}

	sched.Start()
	return sched, nil
}
