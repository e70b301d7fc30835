// Package testutil opens throwaway SQLite databases with the gamification schema.
package testutil

import (
	"context"
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"github.com/Dashrath-Patel/CareerVision.AI/internal/database"
	"github.com/Dashrath-Patel/CareerVision.AI/internal/models"
	"github.com/Dashrath-Patel/CareerVision.AI/internal/repository"
)

// NewDB returns a migrated in-memory database private to the test.
func NewDB(t testing.TB) *gorm.DB {
	t.Helper()

	name := strings.ReplaceAll(uuid.New().String(), "-", "")
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared&_foreign_keys=1", name)

	db, err := database.Open(dsn, gormlogger.Silent)
	if err != nil {
		t.Fatalf("open test db: %v", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		t.Fatalf("get sql.DB: %v", err)
	}
	// One connection: SQLite serializes writers anyway and shared-cache tables lock per connection.
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })

	if err := database.Migrate(db); err != nil {
		t.Fatalf("migrate test db: %v", err)
	}
	return db
}

// NewStore is NewDB wrapped in the gorm store.
func NewStore(t testing.TB) *repository.GormStore {
	return repository.NewGormStore(NewDB(t))
}

// FixedClock always returns at.
func FixedClock(at time.Time) func() time.Time {
	return func() time.Time { return at }
}

// MutableClock is a clock tests can move.
type MutableClock struct {
	At time.Time
}

func (c *MutableClock) Now() time.Time { return c.At }

func (c *MutableClock) Advance(d time.Duration) { c.At = c.At.Add(d) }

// Stage builds a roadmap stage with sensible defaults.
func Stage(id, domain string, order int, difficulty models.Difficulty, points int, skills ...string) *models.RoadmapStage {
	return &models.RoadmapStage{
		StageID:       id,
		Domain:        domain,
		Order:         order,
		Title:         id,
		Difficulty:    difficulty,
		Points:        points,
		Prerequisites: datatypes.JSONSlice[string]{},
		Skills:        datatypes.JSONSlice[string](append([]string{}, skills...)),
		IsActive:      true,
	}
}

// Badge builds a catalog badge with one criteria rule.
func Badge(id string, criteria models.CriteriaType, value int) *models.Badge {
	return &models.Badge{
		BadgeID:  id,
		Name:     id,
		Rarity:   models.RarityCommon,
		Criteria: datatypes.NewJSONType(models.BadgeCriteria{Type: criteria, Value: value}),
	}
}

// MustUpsert writes catalog rows or fails the test.
func MustUpsert(t testing.TB, store repository.CatalogStore, rows ...interface{}) {
	t.Helper()
	ctx := context.Background()
	for _, row := range rows {
		var err error
		switch r := row.(type) {
		case *models.RoadmapStage:
			err = store.UpsertStage(ctx, r)
		case *models.Badge:
			err = store.UpsertBadge(ctx, r)
		case *models.Achievement:
			err = store.UpsertAchievement(ctx, r)
		case *models.DailyChallenge:
			_, err = store.CreateChallengeIfAbsent(ctx, r)
		case *models.WeeklyQuest:
			_, err = store.CreateQuestIfAbsent(ctx, r)
		default:
			err = fmt.Errorf("unsupported catalog row %T", row)
		}
		if err != nil {
			t.Fatalf("seed %T: %v", row, err)
		}
	}
}
