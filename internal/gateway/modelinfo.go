package gateway

import (
	"context"
	"errors"

	"github.com/nulzo/intent-router/internal/completion"
	"github.com/nulzo/intent-router/internal/store/cache"
	"go.opentelemetry.io/otel/attribute"
	"go.uber.org/zap"
)

const modelInfoKeyPrefix = "model-info:"

// ModelInfo is best effort: cache failures fall through to the upstream
// and an upstream failure is reported as nil. Misses are not cached.
func (s *service) ModelInfo(ctx context.Context, modelID string) *completion.ModelInfo {
	ctx, span := s.tracer.Start(ctx, "gateway.ModelInfo")
	defer span.End()

	key := modelInfoKeyPrefix + modelID

	if s.cache != nil {
		var cached completion.ModelInfo
		err := s.cache.Get(ctx, key, &cached)
		if err == nil {
			span.SetAttributes(attribute.Bool("cache.hit", true))
			return &cached
		}
		if !errors.Is(err, cache.ErrMiss) {
			s.logger.Warn("model info cache read failed", zap.String("model", modelID), zap.Error(err))
		}
	}
	span.SetAttributes(attribute.Bool("cache.hit", false))

	info := s.client.GetModelInfo(ctx, modelID)
	if info == nil {
		return nil
	}

	if s.cache != nil {
		if err := s.cache.Set(ctx, key, info, s.cacheTTL); err != nil {
			s.logger.Warn("model info cache write failed", zap.String("model", modelID), zap.Error(err))
		}
	}
	return info
}
