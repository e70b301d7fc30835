// Package seeds loads the reference catalog (roadmap stages, badges, achievements and
// the daily/weekly rotation templates) and writes it to the database.
package seeds

import (
	"context"
	_ "embed"
	"fmt"

	"gopkg.in/yaml.v3"
	"gorm.io/datatypes"

	"github.com/Dashrath-Patel/CareerVision.AI/internal/models"
	"github.com/Dashrath-Patel/CareerVision.AI/internal/repository"
	"github.com/Dashrath-Patel/CareerVision.AI/internal/services"
	"github.com/Dashrath-Patel/CareerVision.AI/pkg/logger"
)

//go:embed data/catalog.yaml
var defaultCatalog []byte

type stageFixture struct {
	StageID       string   `yaml:"stage_id"`
	Domain        string   `yaml:"domain"`
	Order         int      `yaml:"order"`
	Title         string   `yaml:"title"`
	Description   string   `yaml:"description"`
	Category      string   `yaml:"category"`
	Difficulty    string   `yaml:"difficulty"`
	EstimatedTime string   `yaml:"estimated_time"`
	Points        int      `yaml:"points"`
	Prerequisites []string `yaml:"prerequisites"`
	Skills        []string `yaml:"skills"`
	Inactive      bool     `yaml:"inactive"`
}

type badgeFixture struct {
	BadgeID     string               `yaml:"badge_id"`
	Name        string               `yaml:"name"`
	Description string               `yaml:"description"`
	Icon        string               `yaml:"icon"`
	Category    string               `yaml:"category"`
	Rarity      string               `yaml:"rarity"`
	Points      int                  `yaml:"points"`
	Criteria    models.BadgeCriteria `yaml:"criteria"`
}

type achievementFixture struct {
	AchievementID   string   `yaml:"achievement_id"`
	Name            string   `yaml:"name"`
	Description     string   `yaml:"description"`
	Icon            string   `yaml:"icon"`
	Category        string   `yaml:"category"`
	AchievementType string   `yaml:"achievement_type"`
	Points          int      `yaml:"points"`
	MaxProgress     int      `yaml:"max_progress"`
	Steps           []string `yaml:"steps"`
}

// Catalog is the decoded fixture file.
type Catalog struct {
	Stages          []stageFixture               `yaml:"stages"`
	Badges          []badgeFixture               `yaml:"badges"`
	Achievements    []achievementFixture         `yaml:"achievements"`
	DailyChallenges []services.ChallengeTemplate `yaml:"daily_challenges"`
	WeeklyQuests    []services.QuestTemplate     `yaml:"weekly_quests"`
}

// LoadCatalog decodes the embedded catalog.
func LoadCatalog() (*Catalog, error) {
	return ParseCatalog(defaultCatalog)
}

// ParseCatalog decodes and validates a catalog document.
func ParseCatalog(raw []byte) (*Catalog, error) {
	var c Catalog
	if err := yaml.Unmarshal(raw, &c); err != nil {
		return nil, fmt.Errorf("decode catalog: %w", err)
	}
	if err := c.validate(); err != nil {
		return nil, err
	}
	return &c, nil
}

func (c *Catalog) validate() error {
	stages := make(map[string]bool, len(c.Stages))
	for _, s := range c.Stages {
		if s.StageID == "" || s.Domain == "" {
			return fmt.Errorf("stage %q: stage_id and domain are required", s.StageID)
		}
		if stages[s.StageID] {
			return fmt.Errorf("stage %q: duplicate id", s.StageID)
		}
		stages[s.StageID] = true
	}
	for _, s := range c.Stages {
		for _, p := range s.Prerequisites {
			if !stages[p] {
				return fmt.Errorf("stage %q: unknown prerequisite %q", s.StageID, p)
			}
		}
	}
	for _, b := range c.Badges {
		if !b.Criteria.Valid() {
			return fmt.Errorf("badge %q: invalid criteria %+v", b.BadgeID, b.Criteria)
		}
	}
	for _, a := range c.Achievements {
		if a.MaxProgress <= 0 {
			return fmt.Errorf("achievement %q: max_progress must be positive", a.AchievementID)
		}
	}
	return nil
}

// Rotation builds the daily/weekly rotation from the catalog's templates.
func (c *Catalog) Rotation(store repository.CatalogStore, now services.Clock) *services.CatalogRotation {
	return services.NewCatalogRotation(store, c.DailyChallenges, c.WeeklyQuests, now)
}

// Apply upserts every stage, badge and achievement by its stable id.
func (c *Catalog) Apply(ctx context.Context, store repository.CatalogStore) error {
	for _, f := range c.Stages {
		stage := &models.RoadmapStage{
			StageID:       f.StageID,
			Domain:        f.Domain,
			Order:         f.Order,
			Title:         f.Title,
			Description:   f.Description,
			Category:      f.Category,
			Difficulty:    models.Difficulty(f.Difficulty),
			EstimatedTime: f.EstimatedTime,
			Points:        f.Points,
			Prerequisites: datatypes.JSONSlice[string](nonNil(f.Prerequisites)),
			Skills:        datatypes.JSONSlice[string](nonNil(f.Skills)),
			IsActive:      !f.Inactive,
		}
		if err := store.UpsertStage(ctx, stage); err != nil {
			return fmt.Errorf("seed stage %s: %w", f.StageID, err)
		}
	}
	logger.Info().Int("count", len(c.Stages)).Msg("Seeded roadmap stages")

	for _, f := range c.Badges {
		badge := &models.Badge{
			BadgeID:     f.BadgeID,
			Name:        f.Name,
			Description: f.Description,
			Icon:        f.Icon,
			Category:    models.BadgeCategory(f.Category),
			Rarity:      models.BadgeRarity(f.Rarity),
			Points:      f.Points,
			Criteria:    datatypes.NewJSONType(f.Criteria),
		}
		if err := store.UpsertBadge(ctx, badge); err != nil {
			return fmt.Errorf("seed badge %s: %w", f.BadgeID, err)
		}
	}
	logger.Info().Int("count", len(c.Badges)).Msg("Seeded badges")

	for _, f := range c.Achievements {
		achievement := &models.Achievement{
			AchievementID:   f.AchievementID,
			Name:            f.Name,
			Description:     f.Description,
			Icon:            f.Icon,
			Category:        f.Category,
			AchievementType: models.AchievementType(f.AchievementType),
			Points:          f.Points,
			MaxProgress:     f.MaxProgress,
			Steps:           datatypes.JSONSlice[string](nonNil(f.Steps)),
		}
		if err := store.UpsertAchievement(ctx, achievement); err != nil {
			return fmt.Errorf("seed achievement %s: %w", f.AchievementID, err)
		}
	}
	logger.Info().Int("count", len(c.Achievements)).Msg("Seeded achievements")

	return nil
}

func nonNil(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}
