package gateway

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/nulzo/intent-router/internal/analytics"
	"github.com/nulzo/intent-router/internal/completion"
	"github.com/nulzo/intent-router/internal/intent"
	tracing "github.com/nulzo/intent-router/internal/platform/otel"
	"github.com/nulzo/intent-router/internal/routing"
	"github.com/nulzo/intent-router/internal/store/cache"
	"github.com/nulzo/intent-router/internal/store/model"
	"github.com/nulzo/intent-router/pkg/api"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"
)

var (
	ErrNoUserMessage = errors.New("no user message to classify")
	ErrUsageDisabled = errors.New("usage ledger is not configured")
)

// Completer is the part of *completion.Client the gateway depends on.
type Completer interface {
	Complete(ctx context.Context, model string, messages []completion.Message, opts ...completion.Option) (*completion.Response, error)
	CalculateCost(model string, tokens int) float64
	GetModelInfo(ctx context.Context, model string) *completion.ModelInfo
}

// ClassifyResult is the classifier's answer plus the raw scores behind it.
type ClassifyResult struct {
	Intent     intent.Intent `json:"intent"`
	Scores     intent.Scores `json:"scores"`
	Confidence float64       `json:"confidence"`
}

// Service is what the HTTP server and CLI call into.
type Service interface {
	Classify(ctx context.Context, query string) ClassifyResult
	Route(ctx context.Context, query string) (routing.Decision, error)
	Routes() routing.Table
	Complete(ctx context.Context, req *api.CompletionRequest) (*api.CompletionResult, error)
	Cost(model string, tokens int) float64
	ModelInfo(ctx context.Context, model string) *completion.ModelInfo
	Usage(ctx context.Context, days int) (*analytics.Overview, error)
	UsageRecord(ctx context.Context, id string) (*model.UsageRecord, error)
	RecentUsage(ctx context.Context, limit int) ([]model.UsageRecord, error)
}

type Option func(*service)

// WithIngestor records every completion in the usage ledger.
func WithIngestor(i analytics.Ingestor) Option {
	return func(s *service) {
		s.ingestor = i
	}
}

func WithAnalytics(a analytics.Service) Option {
	return func(s *service) {
		s.analytics = a
	}
}

// WithModelInfoCache enables cache-aside lookups for model metadata.
func WithModelInfoCache(c cache.Service, ttl time.Duration) Option {
	return func(s *service) {
		s.cache = c
		s.cacheTTL = ttl
	}
}

type service struct {
	logger    *zap.Logger
	router    *routing.Router
	client    Completer
	ingestor  analytics.Ingestor
	analytics analytics.Service
	cache     cache.Service
	cacheTTL  time.Duration
	tracer    trace.Tracer
}

func NewService(logger *zap.Logger, router *routing.Router, client Completer, opts ...Option) Service {
	s := &service{
		logger: logger,
		router: router,
		client: client,
		tracer: tracing.Tracer(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *service) Classify(ctx context.Context, query string) ClassifyResult {
	_, span := s.tracer.Start(ctx, "gateway.Classify")
	defer span.End()

	c := s.router.Classifier()
	result := ClassifyResult{
		Intent:     c.Classify(query),
		Scores:     c.Score(query),
		Confidence: c.Confidence(),
	}

	span.SetAttributes(attribute.String("router.intent", result.Intent.String()))
	s.logger.Debug("query classified",
		zap.String("intent", result.Intent.String()),
		zap.Any("scores", result.Scores),
	)
	return result
}

func (s *service) Route(ctx context.Context, query string) (routing.Decision, error) {
	_, span := s.tracer.Start(ctx, "gateway.Route")
	defer span.End()

	decision, err := s.router.Route(query)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return routing.Decision{}, err
	}

	span.SetAttributes(
		attribute.String("router.intent", decision.Intent.String()),
		attribute.String("router.model", decision.Config.Model),
	)
	return decision, nil
}

func (s *service) Routes() routing.Table {
	return s.router.Table()
}

// Complete performs exactly one upstream call. An empty or "auto" model is
// resolved by routing the last user message.
func (s *service) Complete(ctx context.Context, req *api.CompletionRequest) (*api.CompletionResult, error) {
	ctx, span := s.tracer.Start(ctx, "gateway.Complete")
	defer span.End()

	rec := &model.UsageRecord{
		ID:        uuid.NewString(),
		Model:     req.Model,
		CreatedAt: time.Now(),
	}

	var opts []completion.Option
	var routingInfo *api.RoutingInfo

	if req.Model == "" || strings.EqualFold(req.Model, api.AutoModel) {
		query, err := lastUserMessage(req.Messages)
		if err != nil {
			return nil, api.BadRequestError(err.Error(), api.WithLog(err))
		}

		decision, err := s.router.Route(query)
		if err != nil {
			span.RecordError(err)
			return nil, api.InternalError("routing failed", err)
		}

		rec.Model = decision.Config.Model
		rec.Intent = decision.Intent.String()
		rec.Routed = true

		cfg := decision.Config.Resolve(completion.DefaultMaxTokens, completion.DefaultTemperature)
		opts = append(opts,
			completion.WithMaxTokens(cfg.MaxTokens),
			completion.WithTemperature(*cfg.Temperature),
		)
		routingInfo = &api.RoutingInfo{
			Intent:      decision.Intent.String(),
			Model:       cfg.Model,
			MaxTokens:   cfg.MaxTokens,
			Temperature: *cfg.Temperature,
			Confidence:  decision.Confidence,
			Scores:      s.router.Classifier().Score(query).ByName(),
		}
	}

	// explicit request values win over the routed ones
	if req.MaxTokens != nil {
		opts = append(opts, completion.WithMaxTokens(*req.MaxTokens))
	}
	if req.Temperature != nil {
		opts = append(opts, completion.WithTemperature(*req.Temperature))
	}
	if req.Stream {
		opts = append(opts, completion.WithStream(true))
	}

	span.SetAttributes(
		attribute.String("router.model", rec.Model),
		attribute.String("router.intent", rec.Intent),
		attribute.Bool("router.routed", rec.Routed),
	)

	start := time.Now()
	resp, err := s.client.Complete(ctx, rec.Model, req.Messages, opts...)
	rec.LatencyMs = time.Since(start).Milliseconds()

	if err != nil {
		rec.Error = err.Error()
		var apiErr *completion.APIError
		if errors.As(err, &apiErr) {
			rec.StatusCode = apiErr.StatusCode
		}
		s.record(rec)

		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}

	rec.StatusCode = http.StatusOK
	rec.UpstreamID = resp.ID

	var cost float64
	if resp.Usage != nil {
		rec.PromptTokens = resp.Usage.PromptTokens
		rec.CompletionTokens = resp.Usage.CompletionTokens
		rec.TotalTokens = resp.Usage.TotalTokens
		cost = s.client.CalculateCost(rec.Model, resp.Usage.TotalTokens)
		resp.Usage.Cost = &cost
	}
	rec.Cost = cost
	s.record(rec)

	span.SetAttributes(
		attribute.Int("router.total_tokens", rec.TotalTokens),
		attribute.Float64("router.cost", cost),
	)
	s.logger.Info("completion finished",
		zap.String("id", rec.ID),
		zap.String("model", rec.Model),
		zap.String("intent", rec.Intent),
		zap.Int("total_tokens", rec.TotalTokens),
		zap.Float64("cost", cost),
		zap.Int64("latency_ms", rec.LatencyMs),
	)

	return &api.CompletionResult{
		ChatResponse: resp,
		Routing:      routingInfo,
		Cost:         cost,
	}, nil
}

func (s *service) record(rec *model.UsageRecord) {
	if s.ingestor != nil {
		s.ingestor.Log(rec)
	}
}

func (s *service) Cost(model string, tokens int) float64 {
	return s.client.CalculateCost(model, tokens)
}

func (s *service) Usage(ctx context.Context, days int) (*analytics.Overview, error) {
	if s.analytics == nil {
		return nil, ErrUsageDisabled
	}
	return s.analytics.GetUsageOverview(ctx, days)
}

func (s *service) UsageRecord(ctx context.Context, id string) (*model.UsageRecord, error) {
	if s.analytics == nil {
		return nil, ErrUsageDisabled
	}
	return s.analytics.GetRecord(ctx, id)
}

func (s *service) RecentUsage(ctx context.Context, limit int) ([]model.UsageRecord, error) {
	if s.analytics == nil {
		return nil, ErrUsageDisabled
	}
	return s.analytics.GetRecent(ctx, limit)
}

// lastUserMessage picks the query to classify.
func lastUserMessage(messages []completion.Message) (string, error) {
	for i := len(messages) - 1; i >= 0; i-- {
		if messages[i].Role == string(api.User) {
			return messages[i].Content, nil
		}
	}
	return "", ErrNoUserMessage
}
