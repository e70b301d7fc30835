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
	skipRotation := flag.Bool("skip-rotation", false, "only seed stages, badges and achievements")
	flag.Parse()

	config.LoadConfig()
	logger.Init(config.AppConfig.Env)
	database.Connect()

	logger.Info().Msg("🔄 Running migrations (just in case)...")
	if err := database.Migrate(database.DB); err != nil {
		logger.Fatal().Err(err).Msg("Failed to migrate database")
	}

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

	if !*skipRotation {
		res, err := catalog.Rotation(store, services.SystemClock).EnsureCurrent(ctx)
		if err != nil {
			logger.Fatal().Err(err).Msg("Failed to create challenges and quests")
		}
		logger.Info().Int("challenges", res.Challenges).Int("quests", res.Quests).Msg("Rotation created")
	}

	logger.Info().Msg("✅ Seeding Complete!")
}
