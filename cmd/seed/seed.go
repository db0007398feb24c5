package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"math/rand"
	"time"

	"github.com/google/uuid"
	"github.com/nulzo/intent-router/internal/pricing"
	"github.com/nulzo/intent-router/internal/routing"
	"github.com/nulzo/intent-router/internal/store"
	"github.com/nulzo/intent-router/internal/store/model"
	"github.com/nulzo/intent-router/internal/store/sqlite"
	"go.uber.org/zap"
)

var sampleQueries = []string{
	"git status",
	"show me the version",
	"create a function to parse JSON",
	"write a script to rename files",
	"why is this failing with an error",
	"fix the crash in the parser",
	"what is the best approach for a microservice architecture",
	"refactor the system design for scalability",
	"xyz123",
}

// seed fills the usage ledger with synthetic routed calls so /v1/usage has
// something to show.
func main() {
	dsn := flag.String("dsn", "file:usage.db?cache=shared&mode=rwc&_journal_mode=WAL", "sqlite dsn")
	n := flag.Int("n", 200, "number of records")
	days := flag.Int("days", 7, "spread records over this many days")
	failRate := flag.Float64("fail-rate", 0.05, "fraction of failed calls")
	flag.Parse()

	if *days < 1 {
		*days = 1
	}

	repo, err := sqlite.NewSQLiteStorage(*dsn, zap.NewNop())
	if err != nil {
		log.Fatal(err)
	}
	defer func() {
		_ = repo.Close()
	}()

	router, err := routing.NewRouter(nil, routing.DefaultTable())
	if err != nil {
		log.Fatal(err)
	}
	prices := pricing.DefaultTable()
	rng := rand.New(rand.NewSource(time.Now().UnixNano()))

	err = repo.WithTx(context.Background(), func(tx store.Repository) error {
		for i := 0; i < *n; i++ {
			rec := syntheticRecord(rng, router, prices, *days, *failRate)
			if err := tx.Usage().Log(context.Background(), rec); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		log.Fatal(err)
	}

	fmt.Printf("Seeded %d usage records into %s\n", *n, *dsn)
}

func syntheticRecord(rng *rand.Rand, router *routing.Router, prices pricing.Table, days int, failRate float64) *model.UsageRecord {
	query := sampleQueries[rng.Intn(len(sampleQueries))]
	decision, _ := router.Route(query)

	rec := &model.UsageRecord{
		ID:        uuid.NewString(),
		Intent:    decision.Intent.String(),
		Model:     decision.Config.Model,
		Routed:    true,
		LatencyMs: int64(200 + rng.Intn(4000)),
		CreatedAt: time.Now().Add(-time.Duration(rng.Int63n(int64(days) * int64(24*time.Hour)))),
	}

	if rng.Float64() < failRate {
		rec.StatusCode = 503
		rec.Error = "api error: upstream overloaded"
		return rec
	}

	rec.StatusCode = 200
	rec.UpstreamID = "gen-" + uuid.NewString()[:8]
	rec.PromptTokens = 100 + rng.Intn(4000)
	rec.CompletionTokens = 50 + rng.Intn(decision.Config.MaxTokens/2+1)
	rec.TotalTokens = rec.PromptTokens + rec.CompletionTokens
	rec.Cost = prices.CalculateCost(rec.Model, rec.TotalTokens)
	return rec
}
