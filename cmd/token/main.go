package main

import (
	"flag"
	"fmt"
	"log"
	"time"

	"github.com/Dashrath-Patel/CareerVision.AI/internal/config"
	"github.com/Dashrath-Patel/CareerVision.AI/pkg/utils"
)

// Issues a bearer token for write endpoints when JWT_SECRET is configured.
func main() {
	userID := flag.String("user", "", "user id to put in the userId claim")
	ttl := flag.Duration("ttl", 24*time.Hour, "token lifetime")
	flag.Parse()

	if *userID == "" {
		log.Fatal("Usage: token -user <user_id> [-ttl 24h]")
	}

	config.LoadConfig()
	if config.AppConfig.JWTSecret == "" {
		log.Fatal("JWT_SECRET is not set; write endpoints accept requests without a token")
	}

	token, err := utils.GenerateToken(*userID, config.AppConfig.JWTSecret, *ttl)
	if err != nil {
		log.Fatalf("Failed to sign token: %v", err)
	}
	fmt.Println(token)
}
