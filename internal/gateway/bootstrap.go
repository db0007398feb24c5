package gateway

import (
	"context"
	"fmt"

	"github.com/nulzo/intent-router/internal/analytics"
	"github.com/nulzo/intent-router/internal/completion"
	"github.com/nulzo/intent-router/internal/config"
	"github.com/nulzo/intent-router/internal/intent"
	"github.com/nulzo/intent-router/internal/routing"
	"github.com/nulzo/intent-router/internal/store/cache"
	"github.com/nulzo/intent-router/internal/store/sqlite"
	"go.uber.org/zap"
)

// Runtime is a fully wired Service plus the resources it owns.
type Runtime struct {
	Service Service
	Router  *routing.Router
	Client  *completion.Client

	closers []func() error
}

// Close stops the ingestor and releases storage, in reverse order.
func (r *Runtime) Close() error {
	var firstErr error
	for i := len(r.closers) - 1; i >= 0; i-- {
		if err := r.closers[i](); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	return firstErr
}

// Bootstrap builds the classifier, router, completion client and the
// optional usage ledger and metadata cache described by cfg. A routing
// table that misses a reachable intent fails here, at startup.
func Bootstrap(ctx context.Context, cfg *config.Config, log *zap.Logger) (*Runtime, error) {
	patterns, err := cfg.Patterns()
	if err != nil {
		return nil, err
	}
	table, err := cfg.RoutingTable()
	if err != nil {
		return nil, err
	}

	router, err := routing.NewRouter(intent.NewClassifier(patterns), table)
	if err != nil {
		return nil, err
	}

	client := completion.NewClient(completion.Config{
		BaseURL: cfg.Upstream.BaseURL,
		APIKey:  cfg.Upstream.APIKey,
		Referer: cfg.Upstream.Referer,
		Title:   cfg.Upstream.Title,
	}, cfg.PricingTable(), completion.WithLogger(log.Named("completion")))

	if cfg.Upstream.APIKey == "" {
		log.Warn("upstream api key is empty; completions will be rejected upstream")
	}

	rt := &Runtime{Router: router, Client: client}
	var opts []Option

	if cfg.Database.DSN != "" {
		repo, err := sqlite.NewSQLiteStorage(cfg.Database.DSN, log)
		if err != nil {
			return nil, fmt.Errorf("usage ledger: %w", err)
		}
		rt.closers = append(rt.closers, repo.Close)

		ingestor := analytics.NewIngestor(log.Named("ingestor"), repo)
		ingestor.Start(context.Background())
		rt.closers = append(rt.closers, func() error {
			ingestor.Stop()
			return nil
		})

		opts = append(opts, WithIngestor(ingestor), WithAnalytics(analytics.NewService(repo)))
	}

	var metaCache cache.Service
	if cfg.Redis.Enabled {
		rc, err := cache.NewRedisCache(ctx, cache.RedisOptions{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		if err != nil {
			log.Warn("redis unavailable, using in-memory model info cache", zap.Error(err))
		} else {
			metaCache = rc
			rt.closers = append(rt.closers, rc.Close)
		}
	}
	if metaCache == nil {
		metaCache = cache.NewMemoryCache(cfg.ModelInfo.CacheSize, cfg.ModelInfo.CacheTTL)
	}
	opts = append(opts, WithModelInfoCache(metaCache, cfg.ModelInfo.CacheTTL))

	rt.Service = NewService(log, router, client, opts...)

	for _, i := range intent.Reachable {
		d, _ := router.GetRouting(i)
		log.Debug("route loaded", zap.String("intent", i.String()), zap.String("model", d.Config.Model))
	}

	return rt, nil
}
