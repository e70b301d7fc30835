package services

import (
	"context"
	"errors"
	"time"

	"github.com/Dashrath-Patel/CareerVision.AI/internal/repository"
	apperrors "github.com/Dashrath-Patel/CareerVision.AI/pkg/errors"
)

// Clock returns the current instant. Services take one so date logic can be pinned in tests.
type Clock func() time.Time

// SystemClock is the production clock (UTC).
func SystemClock() time.Time {
	return time.Now().UTC()
}

// Cache is the JSON cache the leaderboard is served from. database.RedisCache implements it.
type Cache interface {
	Get(ctx context.Context, key string, dest interface{}) error
	Set(ctx context.Context, key string, value interface{}, ttl time.Duration) error
	Invalidate(ctx context.Context) error
}

func dayStart(t time.Time) time.Time {
	y, m, d := t.UTC().Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// weekStart returns Monday 00:00 UTC of t's ISO week.
func weekStart(t time.Time) time.Time {
	day := dayStart(t)
	offset := int(day.Weekday()) - int(time.Monday)
	if offset < 0 {
		offset += 7
	}
	return day.AddDate(0, 0, -offset)
}

func monthStart(t time.Time) time.Time {
	y, m, _ := t.UTC().Date()
	return time.Date(y, m, 1, 0, 0, 0, 0, time.UTC)
}

func profileNotFound(err error) error {
	if errors.Is(err, repository.ErrNotFound) {
		return apperrors.NotFound("User profile not found")
	}
	return err
}
