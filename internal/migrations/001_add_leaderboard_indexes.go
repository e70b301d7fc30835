package migrations

import (
	"gorm.io/gorm"
)

// Migration001AddLeaderboardIndexes backs the leaderboard query
// (optional domain filter, ORDER BY total_points DESC, user_id ASC).
// Plain CREATE INDEX IF NOT EXISTS so it runs on both PostgreSQL and SQLite.
func Migration001AddLeaderboardIndexes() Migration {
	return Migration{
		ID:   "001_add_leaderboard_indexes",
		Name: "Add leaderboard ordering indexes on user_profiles",
		Up: func(db *gorm.DB) error {
			return execAll(db,
				`CREATE INDEX IF NOT EXISTS idx_user_profiles_points_user
					ON user_profiles (total_points DESC, user_id ASC)`,
				`CREATE INDEX IF NOT EXISTS idx_user_profiles_domain_points
					ON user_profiles (domain, total_points DESC, user_id ASC)`,
			)
		},
		Down: func(db *gorm.DB) error {
			return execAll(db,
				`DROP INDEX IF EXISTS idx_user_profiles_points_user`,
				`DROP INDEX IF EXISTS idx_user_profiles_domain_points`,
			)
		},
	}
}
