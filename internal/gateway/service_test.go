package gateway

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/nulzo/intent-router/internal/completion"
	"github.com/nulzo/intent-router/internal/intent"
	"github.com/nulzo/intent-router/internal/routing"
	"github.com/nulzo/intent-router/internal/store/cache"
	"github.com/nulzo/intent-router/internal/store/model"
	"github.com/nulzo/intent-router/pkg/api"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type recordingIngestor struct {
	mu   sync.Mutex
	recs []*model.UsageRecord
}

func (r *recordingIngestor) Log(rec *model.UsageRecord) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.recs = append(r.recs, rec)
}

func (r *recordingIngestor) Start(context.Context) {}
func (r *recordingIngestor) Stop()                 {}

type mockCompleter struct {
	mock.Mock
}

func (m *mockCompleter) Complete(ctx context.Context, model string, messages []completion.Message, opts ...completion.Option) (*completion.Response, error) {
	args := m.Called(ctx, model, messages)
	resp, _ := args.Get(0).(*completion.Response)
	return resp, args.Error(1)
}

func (m *mockCompleter) CalculateCost(model string, tokens int) float64 {
	return m.Called(model, tokens).Get(0).(float64)
}

func (m *mockCompleter) GetModelInfo(ctx context.Context, model string) *completion.ModelInfo {
	info, _ := m.Called(ctx, model).Get(0).(*completion.ModelInfo)
	return info
}

func newRouter(t *testing.T) *routing.Router {
	t.Helper()
	r, err := routing.NewRouter(nil, routing.DefaultTable())
	require.NoError(t, err)
	return r
}

// fakeUpstream answers chat completions and reports what it received.
func fakeUpstream(t *testing.T, totalTokens int) (*httptest.Server, *map[string]interface{}) {
	t.Helper()
	var got map[string]interface{}
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		_ = json.NewEncoder(w).Encode(api.ChatResponse{
			ID:     "gen-42",
			Object: "chat.completion",
			Model:  got["model"].(string),
			Choices: []api.Choice{{
				Message:      &api.ChatMessage{Role: "assistant", Content: "ok"},
				FinishReason: "stop",
			}},
			Usage: &api.ResponseUsage{PromptTokens: totalTokens / 2, CompletionTokens: totalTokens - totalTokens/2, TotalTokens: totalTokens},
		})
	}))
	t.Cleanup(srv.Close)
	return srv, &got
}

func TestComplete_AutoRoutesAndPrices(t *testing.T) {
	srv, got := fakeUpstream(t, 1_000_000)
	ing := &recordingIngestor{}
	client := completion.NewClient(completion.Config{BaseURL: srv.URL, APIKey: "k"}, nil)
	svc := NewService(zap.NewNop(), newRouter(t), client, WithIngestor(ing))

	res, err := svc.Complete(context.Background(), &api.CompletionRequest{
		Model: "auto",
		Messages: []api.ChatMessage{
			{Role: "system", Content: "you are terse"},
			{Role: "user", Content: "what is the best approach for a microservice architecture"},
		},
	})
	require.NoError(t, err)

	assert.Equal(t, "anthropic/claude-opus-4-6", (*got)["model"])
	assert.Equal(t, float64(8192), (*got)["max_tokens"])
	require.NotNil(t, res.Routing)
	assert.Equal(t, "architecture", res.Routing.Intent)
	assert.Equal(t, 0.7, res.Routing.Confidence)
	assert.Equal(t, 15.0, res.Cost)
	require.NotNil(t, res.Usage.Cost)
	assert.Equal(t, 15.0, *res.Usage.Cost)

	require.Len(t, ing.recs, 1)
	rec := ing.recs[0]
	assert.True(t, rec.Routed)
	assert.Equal(t, "architecture", rec.Intent)
	assert.Equal(t, "gen-42", rec.UpstreamID)
	assert.Equal(t, http.StatusOK, rec.StatusCode)
	assert.NotEmpty(t, rec.ID)
}

func TestComplete_ExplicitModelAndOverrides(t *testing.T) {
	srv, got := fakeUpstream(t, 2000)
	client := completion.NewClient(completion.Config{BaseURL: srv.URL}, nil)
	svc := NewService(zap.NewNop(), newRouter(t), client)

	maxTokens := 64
	temp := 0.0
	res, err := svc.Complete(context.Background(), &api.CompletionRequest{
		Model:       "unknown/model",
		Messages:    []api.ChatMessage{{Role: "user", Content: "git status"}},
		MaxTokens:   &maxTokens,
		Temperature: &temp,
	})
	require.NoError(t, err)

	assert.Equal(t, "unknown/model", (*got)["model"])
	assert.Equal(t, float64(64), (*got)["max_tokens"])
	assert.Equal(t, 0.0, (*got)["temperature"])
	assert.Nil(t, res.Routing)
	assert.InDelta(t, 0.002, res.Cost, 1e-12)
}

func TestComplete_RoutedOverridesApplyOnTop(t *testing.T) {
	srv, got := fakeUpstream(t, 10)
	client := completion.NewClient(completion.Config{BaseURL: srv.URL}, nil)
	svc := NewService(zap.NewNop(), newRouter(t), client)

	maxTokens := 100
	_, err := svc.Complete(context.Background(), &api.CompletionRequest{
		Messages:  []api.ChatMessage{{Role: "user", Content: "git status"}},
		MaxTokens: &maxTokens,
	})
	require.NoError(t, err)

	assert.Equal(t, "google/gemini-2.5-flash", (*got)["model"])
	assert.Equal(t, float64(100), (*got)["max_tokens"])
	assert.Equal(t, 0.3, (*got)["temperature"])
}

func TestComplete_RouteWithoutParamsUsesClientDefaults(t *testing.T) {
	srv, got := fakeUpstream(t, 10)
	client := completion.NewClient(completion.Config{BaseURL: srv.URL}, nil)

	table := routing.DefaultTable()
	table[intent.Debug] = routing.ModelConfig{Model: "local/llama"}
	router, err := routing.NewRouter(nil, table)
	require.NoError(t, err)
	svc := NewService(zap.NewNop(), router, client)

	res, err := svc.Complete(context.Background(), &api.CompletionRequest{
		Messages: []api.ChatMessage{{Role: "user", Content: "why does it crash"}},
	})
	require.NoError(t, err)

	assert.Equal(t, "local/llama", (*got)["model"])
	assert.Equal(t, float64(completion.DefaultMaxTokens), (*got)["max_tokens"])
	assert.Equal(t, completion.DefaultTemperature, (*got)["temperature"])

	require.NotNil(t, res.Routing)
	assert.Equal(t, completion.DefaultMaxTokens, res.Routing.MaxTokens)
	assert.Equal(t, completion.DefaultTemperature, res.Routing.Temperature)
	assert.Equal(t, 2, res.Routing.Scores["debug"])
	assert.Equal(t, 0, res.Routing.Scores["architecture_premium"])
}

func TestComplete_NoUserMessage(t *testing.T) {
	svc := NewService(zap.NewNop(), newRouter(t), new(mockCompleter))

	_, err := svc.Complete(context.Background(), &api.CompletionRequest{
		Messages: []api.ChatMessage{{Role: "system", Content: "hello"}},
	})

	var problem *api.Problem
	require.ErrorAs(t, err, &problem)
	assert.Equal(t, http.StatusBadRequest, problem.Status)
	assert.ErrorIs(t, err, ErrNoUserMessage)
}

func TestComplete_UpstreamFailureIsRecordedAndReturned(t *testing.T) {
	ing := &recordingIngestor{}
	upstream := new(mockCompleter)
	apiErr := &completion.APIError{StatusCode: http.StatusServiceUnavailable, Message: "overloaded"}
	upstream.On("Complete", mock.Anything, "anthropic/claude-sonnet-4-5", mock.Anything).Return(nil, apiErr).Once()

	svc := NewService(zap.NewNop(), newRouter(t), upstream, WithIngestor(ing))
	_, err := svc.Complete(context.Background(), &api.CompletionRequest{
		Messages: []api.ChatMessage{{Role: "user", Content: "why does this crash"}},
	})

	assert.Same(t, apiErr, err)
	require.Len(t, ing.recs, 1)
	assert.True(t, ing.recs[0].Failed())
	assert.Equal(t, http.StatusServiceUnavailable, ing.recs[0].StatusCode)
	upstream.AssertNumberOfCalls(t, "Complete", 1)
}

func TestClassify_ReportsScores(t *testing.T) {
	svc := NewService(zap.NewNop(), newRouter(t), new(mockCompleter))

	res := svc.Classify(context.Background(), "fix the error")
	assert.Equal(t, intent.Debug, res.Intent)
	assert.Equal(t, 2, res.Scores[intent.Debug])
	assert.Equal(t, 0, res.Scores[intent.ArchitecturePremium])
	assert.Equal(t, 0.7, res.Confidence)
}

func TestRoute(t *testing.T) {
	svc := NewService(zap.NewNop(), newRouter(t), new(mockCompleter))

	d, err := svc.Route(context.Background(), "")
	require.NoError(t, err)
	assert.Equal(t, intent.Simple, d.Intent)
	assert.Len(t, svc.Routes(), len(routing.DefaultTable()))
}

func TestModelInfo_CacheAside(t *testing.T) {
	upstream := new(mockCompleter)
	info := &completion.ModelInfo{ID: "openai/gpt-4o", ContextLength: 128000}
	upstream.On("GetModelInfo", mock.Anything, "openai/gpt-4o").Return(info).Once()
	upstream.On("GetModelInfo", mock.Anything, "missing").Return(nil).Twice()

	svc := NewService(zap.NewNop(), newRouter(t), upstream,
		WithModelInfoCache(cache.NewMemoryCache(8, time.Minute), time.Minute))
	ctx := context.Background()

	first := svc.ModelInfo(ctx, "openai/gpt-4o")
	second := svc.ModelInfo(ctx, "openai/gpt-4o")
	require.NotNil(t, first)
	require.NotNil(t, second)
	assert.Equal(t, 128000, second.ContextLength)

	assert.Nil(t, svc.ModelInfo(ctx, "missing"))
	assert.Nil(t, svc.ModelInfo(ctx, "missing"))
	upstream.AssertExpectations(t)
}

func TestUsage_DisabledWithoutLedger(t *testing.T) {
	svc := NewService(zap.NewNop(), newRouter(t), new(mockCompleter))

	_, err := svc.Usage(context.Background(), 7)
	assert.True(t, errors.Is(err, ErrUsageDisabled))
}
