package services

import "github.com/Dashrath-Patel/CareerVision.AI/internal/models"

// PointsPerLevel is the width of every level band.
const PointsPerLevel = 1000

var levelTitles = [...]string{
	"Career Explorer",
	"Skill Seeker",
	"Knowledge Warrior",
	"Growth Hacker",
	"Career Ninja",
	"Industry Expert",
	"Career Master",
	"Domain Legend",
	"Career Architect",
	"Visionary Leader",
}

// LevelInfo describes where a point total sits inside its level band.
type LevelInfo struct {
	Level         int    `json:"level"`
	Title         string `json:"title"`
	MinPoints     int    `json:"min_points"`
	MaxPoints     *int   `json:"max_points"` // nil for the top level
	PointsInLevel int    `json:"points_in_level"`
	PointsToNext  int    `json:"points_to_next"`
}

// LevelFor maps a point total to clamp(total/1000 + 1, 1, 10).
func LevelFor(totalPoints int) int {
	if totalPoints < 0 {
		return models.MinLevel
	}
	level := totalPoints/PointsPerLevel + 1
	if level > models.MaxLevel {
		return models.MaxLevel
	}
	return level
}

func levelBand(level int) LevelInfo {
	info := LevelInfo{
		Level:     level,
		Title:     levelTitles[level-1],
		MinPoints: (level - 1) * PointsPerLevel,
	}
	if level < models.MaxLevel {
		max := level*PointsPerLevel - 1
		info.MaxPoints = &max
	}
	return info
}

// CalculateLevel returns the level band for totalPoints with the in-level offsets filled in.
func CalculateLevel(totalPoints int) LevelInfo {
	if totalPoints < 0 {
		totalPoints = 0
	}
	info := levelBand(LevelFor(totalPoints))
	info.PointsInLevel = totalPoints - info.MinPoints
	if info.Level < models.MaxLevel {
		info.PointsToNext = info.Level*PointsPerLevel - totalPoints
	}
	return info
}

// NextLevel describes the band above level, or nil when level is already the top.
func NextLevel(level int) *LevelInfo {
	if level < models.MinLevel {
		level = models.MinLevel
	}
	if level >= models.MaxLevel {
		return nil
	}
	info := levelBand(level + 1)
	if info.Level < models.MaxLevel {
		info.PointsToNext = PointsPerLevel
	}
	return &info
}

// applyLevel raises CurrentLevel to match TotalPoints. Levels never drop here.
func applyLevel(p *models.UserProfile) bool {
	level := LevelFor(p.TotalPoints)
	if level > p.CurrentLevel {
		p.CurrentLevel = level
		return true
	}
	return false
}

// WeeklyTarget is the stage-completion goal for a week at the given level.
func WeeklyTarget(level int) int {
	return max(3, level/2)
}

// MonthlyTarget is the stage-completion goal for a month at the given level.
func MonthlyTarget(level int) int {
	return max(10, level*2)
}
