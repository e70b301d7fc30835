package database

import (
	"fmt"
	"strings"
	"time"

	"github.com/Dashrath-Patel/CareerVision.AI/internal/config"
	"github.com/Dashrath-Patel/CareerVision.AI/internal/migrations"
	"github.com/Dashrath-Patel/CareerVision.AI/internal/models"
	"github.com/Dashrath-Patel/CareerVision.AI/pkg/logger"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

var DB *gorm.DB

func Connect() {
	db, err := Open(config.AppConfig.DatabaseURL, gormlogger.Silent)
	if err != nil {
		logger.Fatal().Err(err).Msg("Failed to connect to database")
	}

	// Configure connection pool for production performance
	sqlDB, err := db.DB()
	if err != nil {
		logger.Fatal().Err(err).Msg("Failed to get underlying sql.DB")
	}

	sqlDB.SetMaxOpenConns(25)
	sqlDB.SetMaxIdleConns(10)
	sqlDB.SetConnMaxLifetime(5 * time.Minute)

	DB = db
	logger.Info().Str("dialect", db.Dialector.Name()).Msg("Connected to database with connection pooling (max: 25, idle: 10)")
}

// Open picks the driver from the DSN: "sqlite:" / "file:" prefixes use SQLite
// (local development and tests), anything else is handed to PostgreSQL.
// Timestamps are always written in UTC so day arithmetic is stable across hosts.
func Open(dsn string, level gormlogger.LogLevel) (*gorm.DB, error) {
	cfg := &gorm.Config{
		Logger:  gormlogger.Default.LogMode(level),
		NowFunc: func() time.Time { return time.Now().UTC() },
	}

	switch {
	case strings.HasPrefix(dsn, "sqlite:"):
		return gorm.Open(sqlite.Open(strings.TrimPrefix(dsn, "sqlite:")), cfg)
	case strings.HasPrefix(dsn, "file:"):
		return gorm.Open(sqlite.Open(dsn), cfg)
	case dsn == "":
		return nil, fmt.Errorf("DATABASE_URL is not set")
	default:
		return gorm.Open(postgres.Open(dsn), cfg)
	}
}

// Migrate creates the gamification tables, then applies the versioned index migrations.
func Migrate(db *gorm.DB) error {
	if err := db.AutoMigrate(models.GamificationModels()...); err != nil {
		return fmt.Errorf("auto-migrate: %w", err)
	}
	return migrations.NewMigrator(db).Run()
}

// Ping reports whether the database answers.
func Ping(db *gorm.DB) error {
	if db == nil {
		return fmt.Errorf("database not initialised")
	}
	sqlDB, err := db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Ping()
}

// TableName resolves the table gorm maps model to.
func TableName(db *gorm.DB, model interface{}) (string, error) {
	stmt := &gorm.Statement{DB: db}
	if err := stmt.Parse(model); err != nil {
		return "", err
	}
	return stmt.Schema.Table, nil
}

// ClearUserData deletes every profile and everything hanging off one. Catalog
// tables are left alone.
func ClearUserData(db *gorm.DB) error {
	return db.Transaction(func(tx *gorm.DB) error {
		for _, m := range models.UserDataModels() {
			if err := tx.Session(&gorm.Session{AllowGlobalUpdate: true}).Delete(m).Error; err != nil {
				name, _ := TableName(tx, m)
				return fmt.Errorf("clear %s: %w", name, err)
			}
		}
		return nil
	})
}
