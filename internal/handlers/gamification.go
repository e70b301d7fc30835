package handlers

import (
	"context"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/Dashrath-Patel/CareerVision.AI/internal/services"
)

// GamificationHandler serves the /api/gamification endpoints.
type GamificationHandler struct {
	profiles    *services.ProfileService
	scoring     *services.ScoringService
	progress    *services.ProgressService
	leaderboard *services.LeaderboardService
	challenges  *services.ChallengeService
	quests      *services.QuestService
}

func NewGamificationHandler(
	profiles *services.ProfileService,
	scoring *services.ScoringService,
	progress *services.ProgressService,
	leaderboard *services.LeaderboardService,
	challenges *services.ChallengeService,
	quests *services.QuestService,
) *GamificationHandler {
	return &GamificationHandler{
		profiles:    profiles,
		scoring:     scoring,
		progress:    progress,
		leaderboard: leaderboard,
		challenges:  challenges,
		quests:      quests,
	}
}

// GetProfile GET /profile/:user_id
func (h *GamificationHandler) GetProfile(c *gin.Context) {
	profile, err := h.profiles.Get(c.Request.Context(), c.Param("user_id"))
	if err != nil {
		_ = c.Error(err)
		return
	}
	c.JSON(http.StatusOK, profile)
}

// UpsertProfile POST /profile/:user_id
func (h *GamificationHandler) UpsertProfile(c *gin.Context) {
	var input services.ProfileInput
	if err := bindJSON(c, &input, true); err != nil {
		_ = c.Error(err)
		return
	}

	profile, created, err := h.profiles.Upsert(c.Request.Context(), c.Param("user_id"), input)
	if err != nil {
		_ = c.Error(err)
		return
	}

	status := http.StatusOK
	if created {
		status = http.StatusCreated
	}
	c.JSON(status, profile)
}

// GetRoadmapStages GET /roadmap/:domain/stages
func (h *GamificationHandler) GetRoadmapStages(c *gin.Context) {
	domain := c.Param("domain")
	stages, err := h.progress.Stages(c.Request.Context(), domain)
	if err != nil {
		_ = c.Error(err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"domain": domain, "stages": stages})
}

// GetProgress GET /progress/:user_id
func (h *GamificationHandler) GetProgress(c *gin.Context) {
	dashboard, err := h.progress.Dashboard(c.Request.Context(), c.Param("user_id"))
	if err != nil {
		_ = c.Error(err)
		return
	}
	c.JSON(http.StatusOK, dashboard)
}

// UpdateProgress POST /progress/:user_id/update
func (h *GamificationHandler) UpdateProgress(c *gin.Context) {
	var input services.ActivityInput
	if err := bindJSON(c, &input, false); err != nil {
		_ = c.Error(err)
		return
	}
	event, err := input.Event()
	if err != nil {
		_ = c.Error(err)
		return
	}

	result, err := h.scoring.ApplyActivity(c.Request.Context(), c.Param("user_id"), event, rawBody(c))
	if err != nil {
		_ = c.Error(err)
		return
	}
	c.JSON(http.StatusOK, result)
}

// GetDailyChallenges GET /challenges/:user_id
func (h *GamificationHandler) GetDailyChallenges(c *gin.Context) {
	challenges, err := h.challenges.Today(c.Request.Context(), c.Param("user_id"))
	if err != nil {
		_ = c.Error(err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"challenges": challenges})
}

// CompleteChallenge POST /challenges/:user_id/:challenge_id/complete
func (h *GamificationHandler) CompleteChallenge(c *gin.Context) {
	res, err := h.challenges.Complete(c.Request.Context(), c.Param("user_id"), c.Param("challenge_id"))
	if err != nil {
		_ = c.Error(err)
		return
	}

	if res.AlreadyCompleted {
		c.JSON(http.StatusOK, gin.H{"message": "Challenge already completed"})
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"message":       "Challenge completed successfully",
		"points_earned": res.PointsEarned,
		"total_points":  res.TotalPoints,
		"level_up":      res.LevelUp,
		"new_level":     res.NewLevel,
		"new_badges":    res.NewBadges,
	})
}

// GetWeeklyQuest GET /quest/:user_id
func (h *GamificationHandler) GetWeeklyQuest(c *gin.Context) {
	quest, err := h.quests.Current(c.Request.Context(), c.Param("user_id"))
	if err != nil {
		_ = c.Error(err)
		return
	}
	if quest == nil {
		c.JSON(http.StatusOK, gin.H{"message": "No active weekly quest"})
		return
	}
	c.JSON(http.StatusOK, quest)
}

// GetBadges GET /badges/:user_id
func (h *GamificationHandler) GetBadges(c *gin.Context) {
	badges, err := h.progress.Badges(c.Request.Context(), c.Param("user_id"))
	if err != nil {
		_ = c.Error(err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"badges": badges})
}

// GetLeaderboard GET /leaderboard and /leaderboard/:domain
func (h *GamificationHandler) GetLeaderboard(c *gin.Context) {
	domain := c.Param("domain")
	entries, err := h.leaderboard.Leaderboard(c.Request.Context(), domain)
	if err != nil {
		_ = c.Error(err)
		return
	}

	body := gin.H{"leaderboard": entries}
	if domain != "" {
		body["domain"] = domain
	}
	c.JSON(http.StatusOK, body)
}

// GetStats GET /stats/:user_id
func (h *GamificationHandler) GetStats(c *gin.Context) {
	stats, err := h.progress.Stats(c.Request.Context(), c.Param("user_id"))
	if err != nil {
		_ = c.Error(err)
		return
	}
	c.JSON(http.StatusOK, stats)
}

// GetActivity GET /activity/:user_id?limit=
func (h *GamificationHandler) GetActivity(c *gin.Context) {
	limit, _ := strconv.Atoi(c.Query("limit"))
	activities, err := h.progress.Activities(c.Request.Context(), c.Param("user_id"), limit)
	if err != nil {
		_ = c.Error(err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"activities": activities})
}

// HealthChecker reports the state of one dependency.
type HealthChecker func(ctx context.Context) error

// Health reports database and cache status. A failing database makes the service unhealthy;
// a failing cache only degrades it.
func Health(db HealthChecker, cache HealthChecker) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx := c.Request.Context()
		status := http.StatusOK
		body := gin.H{"status": "ok", "database": "up", "cache": "disabled"}

		if err := db(ctx); err != nil {
			status = http.StatusServiceUnavailable
			body["status"] = "unavailable"
			body["database"] = "down"
		}
		if cache != nil {
			if err := cache(ctx); err != nil {
				body["cache"] = "down"
				if status == http.StatusOK {
					body["status"] = "degraded"
				}
			} else {
				body["cache"] = "up"
			}
		}

		c.JSON(status, body)
	}
}
