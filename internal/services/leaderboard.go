package services

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/singleflight"

	"github.com/Dashrath-Patel/CareerVision.AI/internal/repository"
	"github.com/Dashrath-Patel/CareerVision.AI/pkg/logger"
)

// LeaderboardSize is how many entries a leaderboard holds.
const LeaderboardSize = 10

type LeaderboardEntry struct {
	Rank          int    `json:"rank"`
	UserID        string `json:"user_id"`
	TotalPoints   int    `json:"total_points"`
	Level         int    `json:"level"`
	Domain        string `json:"domain"`
	BadgesCount   int64  `json:"badges_count"`
	CurrentStreak int    `json:"current_streak"`
}

// LeaderboardService serves ranked profiles, through the cache when one is configured.
type LeaderboardService struct {
	store repository.Store
	cache Cache
	ttl   time.Duration

	// Concurrent misses for the same key share one rebuild.
	rebuilds singleflight.Group
}

func NewLeaderboardService(store repository.Store, cache Cache, ttl time.Duration) *LeaderboardService {
	return &LeaderboardService{store: store, cache: cache, ttl: ttl}
}

func leaderboardKey(domain string) string {
	if domain == "" {
		return "global"
	}
	return "domain:" + domain
}

// Leaderboard returns the top profiles, optionally restricted to one domain. Ties on
// points are broken by user id so the order is stable.
func (s *LeaderboardService) Leaderboard(ctx context.Context, domain string) ([]LeaderboardEntry, error) {
	key := leaderboardKey(domain)

	if s.cache != nil && s.ttl > 0 {
		var cached []LeaderboardEntry
		if err := s.cache.Get(ctx, key, &cached); err == nil {
			return cached, nil
		}
	}

	v, err, _ := s.rebuilds.Do(key, func() (interface{}, error) {
		if s.cache == nil || s.ttl <= 0 {
			return s.build(ctx, domain)
		}
		return s.rebuild(ctx, key, domain)
	})
	if err != nil {
		return nil, err
	}
	return v.([]LeaderboardEntry), nil
}

// rebuild loads the board and caches it. A marker written before the read detects an
// invalidation that lands while the read is in flight; the entry is then dropped again
// so a board built from pre-commit rows never outlives the write that replaced it.
func (s *LeaderboardService) rebuild(ctx context.Context, key, domain string) ([]LeaderboardEntry, error) {
	marker := "rebuild:" + key
	token := uuid.New().String()
	if err := s.cache.Set(ctx, marker, token, s.ttl); err != nil {
		logger.Warn().Err(err).Str("key", key).Msg("Failed to mark leaderboard rebuild")
		return s.build(ctx, domain)
	}

	entries, err := s.build(ctx, domain)
	if err != nil {
		return nil, err
	}
	if err := s.cache.Set(ctx, key, entries, s.ttl); err != nil {
		logger.Warn().Err(err).Str("key", key).Msg("Failed to cache leaderboard")
		return entries, nil
	}

	var seen string
	if err := s.cache.Get(ctx, marker, &seen); err != nil || seen != token {
		logger.Debug().Str("key", key).Msg("Leaderboard invalidated during rebuild")
		s.Invalidate(ctx)
	}
	return entries, nil
}

// Invalidate drops every cached leaderboard.
func (s *LeaderboardService) Invalidate(ctx context.Context) {
	invalidateLeaderboard(ctx, s.cache)
}

func (s *LeaderboardService) build(ctx context.Context, domain string) ([]LeaderboardEntry, error) {
	profiles, err := s.store.TopProfiles(ctx, domain, LeaderboardSize)
	if err != nil {
		return nil, fmt.Errorf("load leaderboard: %w", err)
	}

	ids := make([]string, 0, len(profiles))
	for _, p := range profiles {
		ids = append(ids, p.ID)
	}
	counts, err := s.store.CountBadgesByProfile(ctx, ids)
	if err != nil {
		return nil, fmt.Errorf("count badges: %w", err)
	}

	entries := make([]LeaderboardEntry, 0, len(profiles))
	for i, p := range profiles {
		entries = append(entries, LeaderboardEntry{
			Rank:          i + 1,
			UserID:        p.UserID,
			TotalPoints:   p.TotalPoints,
			Level:         p.CurrentLevel,
			Domain:        p.Domain,
			BadgesCount:   counts[p.ID],
			CurrentStreak: p.CurrentStreak,
		})
	}
	return entries, nil
}
