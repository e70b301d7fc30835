package migrations

import (
	"fmt"
	"time"

	"github.com/rs/zerolog/log"
	"gorm.io/gorm"
)

// Migration represents a database migration
type Migration struct {
	ID        string // Unique identifier (e.g., "001_add_leaderboard_indexes")
	Name      string // Human-readable name
	Up        func(db *gorm.DB) error
	Down      func(db *gorm.DB) error
	DependsOn []string // IDs of migrations this depends on
}

// MigrationRecord tracks which migrations have been applied
type MigrationRecord struct {
	ID        string    `gorm:"primaryKey;type:text"`
	Name      string    `gorm:"type:text"`
	AppliedAt time.Time `gorm:"autoUpdateTime:nano"`
}

// TableName overrides the table name
func (MigrationRecord) TableName() string {
	return "schema_migrations"
}

// Migrator handles database migrations
type Migrator struct {
	db         *gorm.DB
	migrations []Migration
}

// NewMigrator creates a new migrator
func NewMigrator(db *gorm.DB) *Migrator {
	return &Migrator{
		db:         db,
		migrations: GetMigrations(),
	}
}

// Run executes all pending migrations
func (m *Migrator) Run() error {
	// Ensure migrations table exists
	if err := m.db.AutoMigrate(&MigrationRecord{}); err != nil {
		return fmt.Errorf("failed to create migrations table: %w", err)
	}

	var applied []MigrationRecord
	if err := m.db.Find(&applied).Error; err != nil {
		return fmt.Errorf("failed to fetch applied migrations: %w", err)
	}

	appliedMap := make(map[string]bool)
	for _, r := range applied {
		appliedMap[r.ID] = true
	}

	for _, migration := range m.migrations {
		if appliedMap[migration.ID] {
			continue
		}

		log.Info().Str("migration", migration.ID).Str("name", migration.Name).Msg("🔄 Running migration")

		for _, dep := range migration.DependsOn {
			if !appliedMap[dep] {
				return fmt.Errorf("migration %s depends on %s which is not applied", migration.ID, dep)
			}
		}

		if err := m.db.Transaction(func(tx *gorm.DB) error {
			if err := migration.Up(tx); err != nil {
				return err
			}

			return tx.Create(&MigrationRecord{
				ID:   migration.ID,
				Name: migration.Name,
			}).Error
		}); err != nil {
			log.Error().Err(err).Str("migration", migration.ID).Msg("❌ Migration failed")
			return fmt.Errorf("migration %s failed: %w", migration.ID, err)
		}

		appliedMap[migration.ID] = true
		log.Info().Str("migration", migration.ID).Msg("✅ Migration completed")
	}

	return nil
}

// Applied returns the ids recorded in schema_migrations.
func (m *Migrator) Applied() ([]string, error) {
	var ids []string
	err := m.db.Model(&MigrationRecord{}).Order("id ASC").Pluck("id", &ids).Error
	return ids, err
}

// Rollback reverts the most recently applied migration that has a Down step.
func (m *Migrator) Rollback() error {
	var last MigrationRecord
	if err := m.db.Order("applied_at DESC, id DESC").Take(&last).Error; err != nil {
		return fmt.Errorf("failed to find last migration: %w", err)
	}

	for _, migration := range m.migrations {
		if migration.ID != last.ID {
			continue
		}
		if migration.Down == nil {
			return fmt.Errorf("migration %s has no down step", migration.ID)
		}

		log.Info().Str("migration", migration.ID).Msg("⏪ Rolling back migration")
		return m.db.Transaction(func(tx *gorm.DB) error {
			if err := migration.Down(tx); err != nil {
				return err
			}
			return tx.Delete(&MigrationRecord{}, "id = ?", migration.ID).Error
		})
	}
	return fmt.Errorf("migration %s is not registered", last.ID)
}

// GetMigrations returns all registered migrations in order
func GetMigrations() []Migration {
	return []Migration{
		Migration001AddLeaderboardIndexes(),
		Migration002AddActivityIndexes(),
	}
}

func execAll(db *gorm.DB, statements ...string) error {
	for _, stmt := range statements {
		if err := db.Exec(stmt).Error; err != nil {
			return err
		}
	}
	return nil
}
