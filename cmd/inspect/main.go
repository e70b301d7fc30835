package main

import (
	"fmt"
	"log"

	"github.com/Dashrath-Patel/CareerVision.AI/internal/config"
	"github.com/Dashrath-Patel/CareerVision.AI/internal/database"
	"github.com/Dashrath-Patel/CareerVision.AI/internal/models"
	gormlogger "gorm.io/gorm/logger"
)

// Prints every gamification table with its row count and columns.
func main() {
	config.LoadConfig()

	db, err := database.Open(config.AppConfig.DatabaseURL, gormlogger.Silent)
	if err != nil {
		log.Fatal("Failed to connect to database:", err)
	}

	for _, m := range models.GamificationModels() {
		table, err := database.TableName(db, m)
		if err != nil {
			log.Fatalf("parse %T: %v", m, err)
		}
		if !db.Migrator().HasTable(m) {
			fmt.Printf("%s: missing\n", table)
			continue
		}

		var count int64
		db.Model(m).Count(&count)
		fmt.Printf("%s: %d rows\n", table, count)

		cols, err := db.Migrator().ColumnTypes(m)
		if err != nil {
			continue
		}
		for _, c := range cols {
			fmt.Printf("  - %s %s\n", c.Name(), c.DatabaseTypeName())
		}
	}
}
