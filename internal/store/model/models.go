package model

import "time"

// UsageRecord is one completion call as seen by the router.
type UsageRecord struct {
	ID               string    `db:"id" json:"id"`
	UpstreamID       string    `db:"upstream_id" json:"upstream_id,omitempty"`
	Intent           string    `db:"intent" json:"intent,omitempty"`
	Model            string    `db:"model" json:"model"`
	Routed           bool      `db:"routed" json:"routed"`
	PromptTokens     int       `db:"prompt_tokens" json:"prompt_tokens"`
	CompletionTokens int       `db:"completion_tokens" json:"completion_tokens"`
	TotalTokens      int       `db:"total_tokens" json:"total_tokens"`
	Cost             float64   `db:"cost" json:"cost"`
	LatencyMs        int64     `db:"latency_ms" json:"latency_ms"`
	StatusCode       int       `db:"status_code" json:"status_code"`
	Error            string    `db:"error" json:"error,omitempty"`
	CreatedAt        time.Time `db:"created_at" json:"created_at"`
}

// Failed reports whether the call did not produce a completion.
func (r *UsageRecord) Failed() bool {
	return r.Error != ""
}

// DailyStats is the aggregate of one calendar day (UTC).
type DailyStats struct {
	Date           string  `db:"date" json:"date"`
	TotalRequests  int     `db:"total_requests" json:"total_requests"`
	FailedRequests int     `db:"failed_requests" json:"failed_requests"`
	TotalTokens    int64   `db:"total_tokens" json:"total_tokens"`
	TotalCost      float64 `db:"total_cost" json:"total_cost"`
	AvgLatency     float64 `db:"avg_latency" json:"avg_latency_ms"`
}

// IntentStats is the aggregate of all calls routed for one intent.
type IntentStats struct {
	Intent        string  `db:"intent" json:"intent"`
	TotalRequests int     `db:"total_requests" json:"total_requests"`
	TotalTokens   int64   `db:"total_tokens" json:"total_tokens"`
	TotalCost     float64 `db:"total_cost" json:"total_cost"`
}
