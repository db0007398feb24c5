package store

import (
	"context"
	"errors"

	"github.com/nulzo/intent-router/internal/store/model"
)

// ErrNotFound is returned when a lookup matches no row.
var ErrNotFound = errors.New("record not found")

// Repository is the main contract for the data layer.
type Repository interface {
	Usage() UsageRepository

	// transaction support
	WithTx(ctx context.Context, fn func(repo Repository) error) error

	Close() error
}

// UsageRepository is the ledger of completion calls and their cost.
type UsageRepository interface {
	// Log stores a finished (or failed) completion call.
	Log(ctx context.Context, rec *model.UsageRecord) error
	// GetByID returns a single record or ErrNotFound.
	GetByID(ctx context.Context, id string) (*model.UsageRecord, error)
	// GetRecent returns the last limit records, newest first.
	GetRecent(ctx context.Context, limit int) ([]model.UsageRecord, error)
	// GetDailyStats returns aggregated stats grouped by day.
	GetDailyStats(ctx context.Context, days int) ([]model.DailyStats, error)
	// GetIntentStats returns aggregated stats grouped by intent.
	GetIntentStats(ctx context.Context, days int) ([]model.IntentStats, error)
}
