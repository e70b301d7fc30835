package repository

import (
	"context"
	"errors"
	"time"

	"github.com/Dashrath-Patel/CareerVision.AI/internal/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// GormStore implements Store on top of gorm. The same type serves both the root
// connection and transactions opened through Transaction.
type GormStore struct {
	db *gorm.DB
}

func NewGormStore(db *gorm.DB) *GormStore {
	return &GormStore{db: db}
}

// DB exposes the underlying handle for health checks and migrations.
func (s *GormStore) DB() *gorm.DB {
	return s.db
}

func (s *GormStore) Transaction(ctx context.Context, fn func(tx Store) error) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(&GormStore{db: tx})
	})
}

func (s *GormStore) conn(ctx context.Context) *gorm.DB {
	return s.db.WithContext(ctx)
}

func translate(err error) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return ErrNotFound
	}
	return err
}

// ============================================
// Profiles
// ============================================

func (s *GormStore) GetProfile(ctx context.Context, userID string) (*models.UserProfile, error) {
	var p models.UserProfile
	if err := s.conn(ctx).Where("user_id = ?", userID).Take(&p).Error; err != nil {
		return nil, translate(err)
	}
	return &p, nil
}

func (s *GormStore) EnsureProfile(ctx context.Context, p *models.UserProfile) (bool, error) {
	res := s.conn(ctx).
		Clauses(clause.OnConflict{Columns: []clause.Column{{Name: "user_id"}}, DoNothing: true}).
		Create(p)
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected == 1, nil
}

func (s *GormStore) LockProfile(ctx context.Context, userID string) (*models.UserProfile, error) {
	var p models.UserProfile
	if err := s.conn(ctx).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("user_id = ?", userID).
		Take(&p).Error; err != nil {
		return nil, translate(err)
	}
	return &p, nil
}

func (s *GormStore) SaveProfile(ctx context.Context, p *models.UserProfile) error {
	return s.conn(ctx).Save(p).Error
}

func (s *GormStore) TopProfiles(ctx context.Context, domain string, limit int) ([]models.UserProfile, error) {
	query := s.conn(ctx).Model(&models.UserProfile{})
	if domain != "" {
		query = query.Where("domain = ?", domain)
	}

	var profiles []models.UserProfile
	err := query.Order("total_points DESC, user_id ASC").Limit(limit).Find(&profiles).Error
	return profiles, err
}

// ============================================
// Catalog
// ============================================

func (s *GormStore) GetStage(ctx context.Context, stageID string) (*models.RoadmapStage, error) {
	var stage models.RoadmapStage
	if err := s.conn(ctx).Where("stage_id = ?", stageID).Take(&stage).Error; err != nil {
		return nil, translate(err)
	}
	return &stage, nil
}

func (s *GormStore) ListStages(ctx context.Context, domain string, activeOnly bool) ([]models.RoadmapStage, error) {
	query := s.conn(ctx).Where("domain = ?", domain)
	if activeOnly {
		query = query.Where("is_active = ?", true)
	}

	var stages []models.RoadmapStage
	err := query.Order("stage_order ASC").Find(&stages).Error
	return stages, err
}

func (s *GormStore) CountStages(ctx context.Context, domain string) (int64, error) {
	var count int64
	err := s.conn(ctx).Model(&models.RoadmapStage{}).Where("domain = ?", domain).Count(&count).Error
	return count, err
}

func (s *GormStore) UpsertStage(ctx context.Context, stage *models.RoadmapStage) error {
	return s.conn(ctx).
		Clauses(clause.OnConflict{Columns: []clause.Column{{Name: "stage_id"}}, UpdateAll: true}).
		Create(stage).Error
}

func (s *GormStore) ListBadges(ctx context.Context) ([]models.Badge, error) {
	var badges []models.Badge
	err := s.conn(ctx).Order("badge_id ASC").Find(&badges).Error
	return badges, err
}

func (s *GormStore) UpsertBadge(ctx context.Context, b *models.Badge) error {
	return s.conn(ctx).
		Clauses(clause.OnConflict{Columns: []clause.Column{{Name: "badge_id"}}, UpdateAll: true}).
		Create(b).Error
}

func (s *GormStore) ListAchievements(ctx context.Context) ([]models.Achievement, error) {
	var achievements []models.Achievement
	err := s.conn(ctx).Order("achievement_id ASC").Find(&achievements).Error
	return achievements, err
}

func (s *GormStore) UpsertAchievement(ctx context.Context, a *models.Achievement) error {
	return s.conn(ctx).
		Clauses(clause.OnConflict{Columns: []clause.Column{{Name: "achievement_id"}}, UpdateAll: true}).
		Create(a).Error
}

func (s *GormStore) GetChallenge(ctx context.Context, challengeID string) (*models.DailyChallenge, error) {
	var c models.DailyChallenge
	if err := s.conn(ctx).Where("challenge_id = ?", challengeID).Take(&c).Error; err != nil {
		return nil, translate(err)
	}
	return &c, nil
}

func (s *GormStore) ListChallenges(ctx context.Context, from, to, at time.Time) ([]models.DailyChallenge, error) {
	var challenges []models.DailyChallenge
	err := s.conn(ctx).
		Where("created_at >= ? AND created_at < ? AND expires_at > ?", from, to, at).
		Order("challenge_id ASC").
		Find(&challenges).Error
	return challenges, err
}

func (s *GormStore) CreateChallengeIfAbsent(ctx context.Context, c *models.DailyChallenge) (bool, error) {
	res := s.conn(ctx).
		Clauses(clause.OnConflict{Columns: []clause.Column{{Name: "challenge_id"}}, DoNothing: true}).
		Create(c)
	return res.RowsAffected == 1, res.Error
}

func (s *GormStore) CurrentQuest(ctx context.Context, at time.Time) (*models.WeeklyQuest, error) {
	var q models.WeeklyQuest
	if err := s.conn(ctx).
		Where("starts_at <= ? AND ends_at >= ?", at, at).
		Order("quest_id ASC").
		Take(&q).Error; err != nil {
		return nil, translate(err)
	}
	return &q, nil
}

func (s *GormStore) CreateQuestIfAbsent(ctx context.Context, q *models.WeeklyQuest) (bool, error) {
	res := s.conn(ctx).
		Omit(clause.Associations).
		Clauses(clause.OnConflict{Columns: []clause.Column{{Name: "quest_id"}}, DoNothing: true}).
		Create(q)
	return res.RowsAffected == 1, res.Error
}

// ============================================
// Ledger: stages and skills
// ============================================

func (s *GormStore) GetStageProgress(ctx context.Context, profileID, stageID string) (*models.UserStageProgress, error) {
	var sp models.UserStageProgress
	if err := s.conn(ctx).
		Where("user_profile_id = ? AND stage_id = ?", profileID, stageID).
		Take(&sp).Error; err != nil {
		return nil, translate(err)
	}
	return &sp, nil
}

func (s *GormStore) SaveStageProgress(ctx context.Context, sp *models.UserStageProgress) error {
	return s.conn(ctx).Omit(clause.Associations).Save(sp).Error
}

func (s *GormStore) CompletedStageIDs(ctx context.Context, profileID string) ([]string, error) {
	var ids []string
	err := s.conn(ctx).Model(&models.UserStageProgress{}).
		Where("user_profile_id = ? AND completed = ?", profileID, true).
		Order("completed_at ASC").
		Pluck("stage_id", &ids).Error
	return ids, err
}

func (s *GormStore) CountCompletedStages(ctx context.Context, profileID string) (int64, error) {
	var count int64
	err := s.conn(ctx).Model(&models.UserStageProgress{}).
		Where("user_profile_id = ? AND completed = ?", profileID, true).
		Count(&count).Error
	return count, err
}

func (s *GormStore) CountStagesCompletedBetween(ctx context.Context, profileID string, from, to time.Time) (int64, error) {
	var count int64
	err := s.conn(ctx).Model(&models.UserStageProgress{}).
		Where("user_profile_id = ? AND completed = ? AND completed_at >= ? AND completed_at < ?", profileID, true, from, to).
		Count(&count).Error
	return count, err
}

func (s *GormStore) GetSkillMastery(ctx context.Context, profileID, skill string) (*models.SkillMastery, error) {
	var sm models.SkillMastery
	if err := s.conn(ctx).
		Where("user_profile_id = ? AND skill_name = ?", profileID, skill).
		Take(&sm).Error; err != nil {
		return nil, translate(err)
	}
	return &sm, nil
}

func (s *GormStore) SaveSkillMastery(ctx context.Context, sm *models.SkillMastery) error {
	return s.conn(ctx).Omit(clause.Associations).Save(sm).Error
}

func (s *GormStore) ListSkillMasteries(ctx context.Context, profileID string) ([]models.SkillMastery, error) {
	var masteries []models.SkillMastery
	err := s.conn(ctx).
		Where("user_profile_id = ?", profileID).
		Order("skill_name ASC").
		Find(&masteries).Error
	return masteries, err
}

func (s *GormStore) CountSkillsAtLevel(ctx context.Context, profileID string, level models.SkillLevel) (int64, error) {
	var count int64
	err := s.conn(ctx).Model(&models.SkillMastery{}).
		Where("user_profile_id = ? AND level = ?", profileID, level).
		Count(&count).Error
	return count, err
}

// ============================================
// Ledger: badges
// ============================================

func (s *GormStore) OwnedBadgeIDs(ctx context.Context, profileID string) ([]string, error) {
	var ids []string
	err := s.conn(ctx).Model(&models.UserBadge{}).
		Where("user_profile_id = ?", profileID).
		Pluck("badge_id", &ids).Error
	return ids, err
}

func (s *GormStore) CreateUserBadge(ctx context.Context, ub *models.UserBadge) (bool, error) {
	res := s.conn(ctx).
		Omit(clause.Associations).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "user_profile_id"}, {Name: "badge_id"}},
			DoNothing: true,
		}).
		Create(ub)
	return res.RowsAffected == 1, res.Error
}

func (s *GormStore) ListUserBadges(ctx context.Context, profileID string) ([]models.UserBadge, error) {
	var owned []models.UserBadge
	err := s.conn(ctx).
		Preload("Badge").
		Where("user_profile_id = ?", profileID).
		Order("unlocked_at ASC, badge_id ASC").
		Find(&owned).Error
	return owned, err
}

func (s *GormStore) CountBadgesByProfile(ctx context.Context, profileIDs []string) (map[string]int64, error) {
	counts := make(map[string]int64, len(profileIDs))
	if len(profileIDs) == 0 {
		return counts, nil
	}

	var rows []struct {
		UserProfileID string
		Total         int64
	}
	if err := s.conn(ctx).Model(&models.UserBadge{}).
		Select("user_profile_id, COUNT(*) AS total").
		Where("user_profile_id IN ?", profileIDs).
		Group("user_profile_id").
		Scan(&rows).Error; err != nil {
		return nil, err
	}

	for _, r := range rows {
		counts[r.UserProfileID] = r.Total
	}
	return counts, nil
}

// ============================================
// Ledger: challenges, quests, achievements
// ============================================

func (s *GormStore) GetChallengeProgress(ctx context.Context, profileID, challengeID string) (*models.UserChallengeProgress, error) {
	var cp models.UserChallengeProgress
	if err := s.conn(ctx).
		Where("user_profile_id = ? AND challenge_id = ?", profileID, challengeID).
		Take(&cp).Error; err != nil {
		return nil, translate(err)
	}
	return &cp, nil
}

func (s *GormStore) SaveChallengeProgress(ctx context.Context, cp *models.UserChallengeProgress) error {
	return s.conn(ctx).Omit(clause.Associations).Save(cp).Error
}

func (s *GormStore) ListChallengeProgress(ctx context.Context, profileID string, challengeIDs []string) ([]models.UserChallengeProgress, error) {
	var rows []models.UserChallengeProgress
	if len(challengeIDs) == 0 {
		return rows, nil
	}
	err := s.conn(ctx).
		Where("user_profile_id = ? AND challenge_id IN ?", profileID, challengeIDs).
		Find(&rows).Error
	return rows, err
}

func (s *GormStore) CountCompletedChallenges(ctx context.Context, profileID string) (int64, error) {
	var count int64
	err := s.conn(ctx).Model(&models.UserChallengeProgress{}).
		Where("user_profile_id = ? AND completed = ?", profileID, true).
		Count(&count).Error
	return count, err
}

func (s *GormStore) GetQuestProgress(ctx context.Context, profileID, questID string) (*models.UserQuestProgress, error) {
	var qp models.UserQuestProgress
	if err := s.conn(ctx).
		Where("user_profile_id = ? AND quest_id = ?", profileID, questID).
		Take(&qp).Error; err != nil {
		return nil, translate(err)
	}
	return &qp, nil
}

func (s *GormStore) GetUserAchievement(ctx context.Context, profileID, achievementID string) (*models.UserAchievement, error) {
	var ua models.UserAchievement
	if err := s.conn(ctx).
		Where("user_profile_id = ? AND achievement_id = ?", profileID, achievementID).
		Take(&ua).Error; err != nil {
		return nil, translate(err)
	}
	return &ua, nil
}

func (s *GormStore) SaveUserAchievement(ctx context.Context, ua *models.UserAchievement) error {
	return s.conn(ctx).Omit(clause.Associations).Save(ua).Error
}

func (s *GormStore) ListUserAchievements(ctx context.Context, profileID string) ([]models.UserAchievement, error) {
	var rows []models.UserAchievement
	err := s.conn(ctx).
		Preload("Achievement").
		Where("user_profile_id = ?", profileID).
		Order("achievement_id ASC").
		Find(&rows).Error
	return rows, err
}

// ============================================
// Activity log
// ============================================

func (s *GormStore) AppendActivity(ctx context.Context, a *models.ActivityLog) error {
	return s.conn(ctx).Omit(clause.Associations).Create(a).Error
}

func (s *GormStore) ListActivities(ctx context.Context, profileID string, limit int) ([]models.ActivityLog, error) {
	var logs []models.ActivityLog
	err := s.conn(ctx).
		Where("user_profile_id = ?", profileID).
		Order("created_at DESC, id ASC").
		Limit(limit).
		Find(&logs).Error
	return logs, err
}

func (s *GormStore) CountActivities(ctx context.Context, profileID string, since *time.Time) (int64, error) {
	query := s.conn(ctx).Model(&models.ActivityLog{}).Where("user_profile_id = ?", profileID)
	if since != nil {
		query = query.Where("created_at >= ?", *since)
	}

	var count int64
	err := query.Count(&count).Error
	return count, err
}

func (s *GormStore) CountActivitiesByType(ctx context.Context, profileID string, t models.ActivityType) (int64, error) {
	var count int64
	err := s.conn(ctx).Model(&models.ActivityLog{}).
		Where("user_profile_id = ? AND activity_type = ?", profileID, t).
		Count(&count).Error
	return count, err
}

func (s *GormStore) ActivityTimestamps(ctx context.Context, profileID string) ([]time.Time, error) {
	var logs []models.ActivityLog
	if err := s.conn(ctx).
		Select("created_at").
		Where("user_profile_id = ?", profileID).
		Order("created_at ASC").
		Find(&logs).Error; err != nil {
		return nil, err
	}

	stamps := make([]time.Time, len(logs))
	for i, l := range logs {
		stamps[i] = l.CreatedAt
	}
	return stamps, nil
}

var _ Store = (*GormStore)(nil)
