package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/nulzo/intent-router/internal/store"
	"github.com/nulzo/intent-router/internal/store/model"
)

// DB is satisfied by *sqlx.DB and *sqlx.Tx.
type DB interface {
	GetContext(ctx context.Context, dest interface{}, query string, args ...interface{}) error
	SelectContext(ctx context.Context, dest interface{}, query string, args ...interface{}) error
	NamedExecContext(ctx context.Context, query string, arg interface{}) (sql.Result, error)
	ExecContext(ctx context.Context, query string, args ...interface{}) (sql.Result, error)
}

// SqliteRepository implements store.Repository
type SqliteRepository struct {
	db       *sqlx.DB // for starting transactions
	executor DB       // *sqlx.DB or *sqlx.Tx
}

func NewSqliteRepository(db *sqlx.DB) *SqliteRepository {
	return &SqliteRepository{
		db:       db,
		executor: db,
	}
}

func (r *SqliteRepository) Close() error {
	return r.db.Close()
}

func (r *SqliteRepository) WithTx(ctx context.Context, fn func(repo store.Repository) error) error {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return err
	}

	txRepo := &SqliteRepository{
		db:       r.db,
		executor: tx,
	}

	if err := fn(txRepo); err != nil {
		// rollback, but the original error wins
		_ = tx.Rollback()
		return err
	}

	return tx.Commit()
}

func (r *SqliteRepository) Usage() store.UsageRepository {
	return &usageRepo{db: r.executor}
}

type usageRepo struct {
	db DB
}

func (r *usageRepo) Log(ctx context.Context, rec *model.UsageRecord) error {
	if rec.CreatedAt.IsZero() {
		rec.CreatedAt = time.Now()
	}
	rec.CreatedAt = rec.CreatedAt.UTC()

	query := `
	INSERT INTO usage_records (
		id, upstream_id, intent, model, routed,
		prompt_tokens, completion_tokens, total_tokens, cost,
		latency_ms, status_code, error, created_at
	) VALUES (
		:id, :upstream_id, :intent, :model, :routed,
		:prompt_tokens, :completion_tokens, :total_tokens, :cost,
		:latency_ms, :status_code, :error, :created_at
	)`
	_, err := r.db.NamedExecContext(ctx, query, rec)
	return err
}

func (r *usageRepo) GetByID(ctx context.Context, id string) (*model.UsageRecord, error) {
	var rec model.UsageRecord
	if err := r.db.GetContext(ctx, &rec, `SELECT * FROM usage_records WHERE id = ?`, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, store.ErrNotFound
		}
		return nil, err
	}
	return &rec, nil
}

func (r *usageRepo) GetRecent(ctx context.Context, limit int) ([]model.UsageRecord, error) {
	var recs []model.UsageRecord
	query := `SELECT * FROM usage_records ORDER BY created_at DESC LIMIT ?`
	err := r.db.SelectContext(ctx, &recs, query, limit)
	return recs, err
}

func (r *usageRepo) GetDailyStats(ctx context.Context, days int) ([]model.DailyStats, error) {
	var stats []model.DailyStats
	query := `
		SELECT
			DATE(created_at) AS date,
			COUNT(*) AS total_requests,
			SUM(CASE WHEN error != '' THEN 1 ELSE 0 END) AS failed_requests,
			SUM(total_tokens) AS total_tokens,
			SUM(cost) AS total_cost,
			AVG(latency_ms) AS avg_latency
		FROM usage_records
		WHERE created_at >= DATE('now', ?)
		GROUP BY date
		ORDER BY date DESC
	`
	// sqlite date offset format is '-7 days'
	err := r.db.SelectContext(ctx, &stats, query, fmt.Sprintf("-%d days", days))
	return stats, err
}

func (r *usageRepo) GetIntentStats(ctx context.Context, days int) ([]model.IntentStats, error) {
	var stats []model.IntentStats
	query := `
		SELECT
			intent,
			COUNT(*) AS total_requests,
			SUM(total_tokens) AS total_tokens,
			SUM(cost) AS total_cost
		FROM usage_records
		WHERE created_at >= DATE('now', ?) AND intent != ''
		GROUP BY intent
		ORDER BY total_cost DESC
	`
	err := r.db.SelectContext(ctx, &stats, query, fmt.Sprintf("-%d days", days))
	return stats, err
}
