package main

import (
	"context"
	"flag"
	"time"

	"github.com/Dashrath-Patel/CareerVision.AI/internal/config"
	"github.com/Dashrath-Patel/CareerVision.AI/internal/database"
	"github.com/Dashrath-Patel/CareerVision.AI/internal/repository"
	"github.com/Dashrath-Patel/CareerVision.AI/internal/seeds"
	"github.com/Dashrath-Patel/CareerVision.AI/internal/services"
	"github.com/Dashrath-Patel/CareerVision.AI/pkg/logger"
)

func main() {
	confirm := flag.Bool("yes", false, "skip the 3 second grace period")
	flag.Parse()

	config.LoadConfig()
	logger.Init(config.AppConfig.Env)
	if config.AppConfig.Env == "production" && !*confirm {
		logger.Fatal().Msg("Refusing to reset a production database without -yes")
	}
	database.Connect()

	if !*confirm {
		logger.Warn().Msg("⚠️  This will PERMANENTLY DELETE every profile, badge and activity. Proceeding in 3 seconds...")
		time.Sleep(3 * time.Second)
	}

	if err := database.Migrate(database.DB); err != nil {
		logger.Fatal().Err(err).Msg("Failed to migrate database")
	}
	if err := database.ClearUserData(database.DB); err != nil {
		logger.Fatal().Err(err).Msg("Failed to clear user data")
	}
	logger.Info().Msg("✅ User data cleared")

	catalog, err := seeds.LoadCatalog()
	if err != nil {
		logger.Fatal().Err(err).Msg("Failed to load seed catalog")
	}

	ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
	defer cancel()

	store := repository.NewGormStore(database.DB)
	if err := catalog.Apply(ctx, store); err != nil {
		logger.Fatal().Err(err).Msg("Failed to seed catalog")
	}
	if _, err := catalog.Rotation(store, services.SystemClock).EnsureCurrent(ctx); err != nil {
		logger.Fatal().Err(err).Msg("Failed to create challenges and quests")
	}

	logger.Info().Msg("✨ Reset & seeding complete!")
}
