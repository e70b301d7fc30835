package migrations

import (
	"gorm.io/gorm"
)

// Migration002AddActivityIndexes covers the stats and dashboard hot paths:
// activity history per user ordered by time, and completed stages per user by completion time.
func Migration002AddActivityIndexes() Migration {
	return Migration{
		ID:        "002_add_activity_indexes",
		Name:      "Add per-user activity and completion indexes",
		DependsOn: []string{"001_add_leaderboard_indexes"},
		Up: func(db *gorm.DB) error {
			return execAll(db,
				`CREATE INDEX IF NOT EXISTS idx_activity_logs_profile_created
					ON activity_logs (user_profile_id, created_at DESC)`,
				`CREATE INDEX IF NOT EXISTS idx_stage_progress_profile_completed
					ON user_stage_progress (user_profile_id, completed, completed_at)`,
			)
		},
		Down: func(db *gorm.DB) error {
			return execAll(db,
				`DROP INDEX IF EXISTS idx_activity_logs_profile_created`,
				`DROP INDEX IF EXISTS idx_stage_progress_profile_completed`,
			)
		},
	}
}
