package routes

import (
	"github.com/gin-gonic/gin"

	"github.com/Dashrath-Patel/CareerVision.AI/internal/handlers"
	"github.com/Dashrath-Patel/CareerVision.AI/internal/middleware"
)

// RegisterGamificationRoutes mounts the gamification API under /gamification.
// writeGuard runs in front of every POST endpoint.
func RegisterGamificationRoutes(r gin.IRouter, h *handlers.GamificationHandler, writeGuard gin.HandlerFunc) {
	g := r.Group("/gamification", middleware.ValidatePathParams("user_id", "challenge_id", "domain"))
	{
		// Reads
		g.GET("/profile/:user_id", h.GetProfile)
		g.GET("/roadmap/:domain/stages", h.GetRoadmapStages)
		g.GET("/progress/:user_id", h.GetProgress)
		g.GET("/challenges/:user_id", h.GetDailyChallenges)
		g.GET("/quest/:user_id", h.GetWeeklyQuest)
		g.GET("/badges/:user_id", h.GetBadges)
		g.GET("/leaderboard", h.GetLeaderboard)
		g.GET("/leaderboard/:domain", h.GetLeaderboard)
		g.GET("/stats/:user_id", h.GetStats)
		g.GET("/activity/:user_id", h.GetActivity)

		// Writes
		writes := g.Group("", middleware.WriteRateLimit(), writeGuard)
		{
			writes.POST("/profile/:user_id", h.UpsertProfile)
			writes.POST("/progress/:user_id/update", h.UpdateProgress)
			writes.POST("/challenges/:user_id/:challenge_id/complete", h.CompleteChallenge)
		}
	}
}
