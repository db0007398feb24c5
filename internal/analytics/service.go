package analytics

import (
	"context"

	"github.com/nulzo/intent-router/internal/store"
	"github.com/nulzo/intent-router/internal/store/model"
)

const (
	defaultOverviewDays = 7
	defaultRecentLimit  = 20
	maxRecentLimit      = 500
)

// Overview summarises the usage ledger over a window of days.
type Overview struct {
	Days          int                 `json:"days"`
	TotalRequests int                 `json:"total_requests"`
	TotalTokens   int64               `json:"total_tokens"`
	TotalCost     float64             `json:"total_cost"`
	Daily         []model.DailyStats  `json:"daily"`
	ByIntent      []model.IntentStats `json:"by_intent"`
}

type Service interface {
	GetUsageOverview(ctx context.Context, days int) (*Overview, error)
	GetRecord(ctx context.Context, id string) (*model.UsageRecord, error)
	GetRecent(ctx context.Context, limit int) ([]model.UsageRecord, error)
}

type service struct {
	repo store.Repository
}

func NewService(repo store.Repository) Service {
	return &service{
		repo: repo,
	}
}

// GetUsageOverview defaults to the last week when days <= 0.
func (s *service) GetUsageOverview(ctx context.Context, days int) (*Overview, error) {
	if days <= 0 {
		days = defaultOverviewDays
	}

	daily, err := s.repo.Usage().GetDailyStats(ctx, days)
	if err != nil {
		return nil, err
	}
	byIntent, err := s.repo.Usage().GetIntentStats(ctx, days)
	if err != nil {
		return nil, err
	}

	o := &Overview{
		Days:     days,
		Daily:    daily,
		ByIntent: byIntent,
	}
	for _, d := range daily {
		o.TotalRequests += d.TotalRequests
		o.TotalTokens += d.TotalTokens
		o.TotalCost += d.TotalCost
	}
	return o, nil
}

func (s *service) GetRecord(ctx context.Context, id string) (*model.UsageRecord, error) {
	return s.repo.Usage().GetByID(ctx, id)
}

// GetRecent lists the newest records. limit <= 0 uses a default and large
// values are capped.
func (s *service) GetRecent(ctx context.Context, limit int) ([]model.UsageRecord, error) {
	switch {
	case limit <= 0:
		limit = defaultRecentLimit
	case limit > maxRecentLimit:
		limit = maxRecentLimit
	}

	recs, err := s.repo.Usage().GetRecent(ctx, limit)
	if err != nil {
		return nil, err
	}
	if recs == nil {
		recs = []model.UsageRecord{}
	}
	return recs, nil
}
