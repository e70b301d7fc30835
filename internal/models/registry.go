package models

// GamificationModels lists every table in migration order: profiles and catalog
// first so ledger foreign keys can be created.
func GamificationModels() []interface{} {
	return []interface{}{
		&UserProfile{},
		&RoadmapStage{},
		&Badge{},
		&Achievement{},
		&DailyChallenge{},
		&WeeklyQuest{},
		&UserStageProgress{},
		&SkillMastery{},
		&UserBadge{},
		&UserAchievement{},
		&UserChallengeProgress{},
		&UserQuestProgress{},
		&ActivityLog{},
	}
}

// UserDataModels lists the per-user tables, children before the profiles they reference.
func UserDataModels() []interface{} {
	return []interface{}{
		&ActivityLog{},
		&UserQuestProgress{},
		&UserChallengeProgress{},
		&UserAchievement{},
		&UserBadge{},
		&SkillMastery{},
		&UserStageProgress{},
		&UserProfile{},
	}
}
