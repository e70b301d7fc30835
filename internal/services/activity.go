package services

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"gorm.io/datatypes"

	"github.com/Dashrath-Patel/CareerVision.AI/internal/models"
	"github.com/Dashrath-Patel/CareerVision.AI/internal/repository"
)

const (
	DefaultActivityLimit = 20
	MaxActivityLimit     = 100
)

// LogActivity appends one ledger entry. metadata may be raw JSON ([]byte, json.RawMessage)
// or any value that marshals to a JSON object.
func LogActivity(ctx context.Context, store repository.LedgerStore, profileID string, activityType models.ActivityType, points int, metadata interface{}, at time.Time) error {
	var raw datatypes.JSON
	switch m := metadata.(type) {
	case nil:
		raw = datatypes.JSON("{}")
	case json.RawMessage:
		raw = datatypes.JSON(m)
	case []byte:
		raw = datatypes.JSON(m)
	default:
		b, err := json.Marshal(m)
		if err != nil {
			return fmt.Errorf("encode activity metadata: %w", err)
		}
		raw = datatypes.JSON(b)
	}
	if len(raw) == 0 {
		raw = datatypes.JSON("{}")
	}

	entry := &models.ActivityLog{
		CreatedAt:     at,
		UserProfileID: profileID,
		ActivityType:  activityType,
		PointsEarned:  points,
		Metadata:      raw,
	}
	if err := store.AppendActivity(ctx, entry); err != nil {
		return fmt.Errorf("append activity: %w", err)
	}
	return nil
}

// ClampActivityLimit applies the default and the upper bound to a requested page size.
func ClampActivityLimit(limit int) int {
	if limit <= 0 {
		return DefaultActivityLimit
	}
	if limit > MaxActivityLimit {
		return MaxActivityLimit
	}
	return limit
}
