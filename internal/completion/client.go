// Package completion talks to an OpenAI-compatible chat completion backend.
// A call is made exactly once; retries and fallbacks belong to the caller.
package completion

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"

	"github.com/nulzo/intent-router/internal/httpclient"
	"github.com/nulzo/intent-router/internal/pricing"
	"github.com/nulzo/intent-router/pkg/api"
	"go.uber.org/zap"
)

// Request defaults. DefaultMaxTokens and DefaultTemperature apply when the
// caller passes no WithMaxTokens or WithTemperature option.
const (
	DefaultBaseURL     = "https://openrouter.ai/api/v1"
	DefaultReferer     = "https://github.com/nulzo/intent-router"
	DefaultTitle       = "Intent Router"
	DefaultMaxTokens   = 4096
	DefaultTemperature = 0.7
)

// The wire types are shared with the HTTP API.
type (
	Message   = api.ChatMessage
	Response  = api.ChatResponse
	ModelInfo = api.Model
)

// Config identifies the backend and the caller.
type Config struct {
	BaseURL string
	APIKey  string
	// Referer and Title are sent as HTTP-Referer and X-Title on every completion.
	Referer string
	Title   string
}

func (c Config) withDefaults() Config {
	if c.BaseURL == "" {
		c.BaseURL = DefaultBaseURL
	}
	c.BaseURL = strings.TrimRight(c.BaseURL, "/")
	if c.Referer == "" {
		c.Referer = DefaultReferer
	}
	if c.Title == "" {
		c.Title = DefaultTitle
	}
	return c
}

// Client is safe for concurrent use. It prices calls with a fixed table.
type Client struct {
	config  Config
	pricing pricing.Table
	http    httpclient.HTTPClient
	logger  *zap.Logger
}

// ClientOption configures a Client at construction.
type ClientOption func(*Client)

// WithHTTPClient swaps the transport. The default client has no timeout.
func WithHTTPClient(c httpclient.HTTPClient) ClientOption {
	return func(cl *Client) {
		cl.http = c
	}
}

// WithLogger sets the logger for failed calls and swallowed metadata errors.
func WithLogger(l *zap.Logger) ClientOption {
	return func(cl *Client) {
		cl.logger = l
	}
}

// NewClient builds a client. A nil pricing table means pricing.DefaultTable.
func NewClient(cfg Config, table pricing.Table, opts ...ClientOption) *Client {
	if table == nil {
		table = pricing.DefaultTable()
	}
	c := &Client{
		config:  cfg.withDefaults(),
		pricing: table,
		http:    &http.Client{},
		logger:  zap.NewNop(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Complete sends messages to model and waits for the full response.
func (c *Client) Complete(ctx context.Context, model string, messages []Message, opts ...Option) (*Response, error) {
	o := options{
		maxTokens:   DefaultMaxTokens,
		temperature: DefaultTemperature,
	}
	for _, opt := range opts {
		opt(&o)
	}

	req := api.ChatRequest{
		Model:       model,
		Messages:    messages,
		MaxTokens:   o.maxTokens,
		Temperature: o.temperature,
		Stream:      o.stream,
	}
	if req.Messages == nil {
		req.Messages = []Message{}
	}

	headers := map[string]string{
		"Authorization": "Bearer " + c.config.APIKey,
		"HTTP-Referer":  c.config.Referer,
		"X-Title":       c.config.Title,
	}

	var resp Response
	if err := httpclient.SendRequest(ctx, c.http, http.MethodPost, c.config.BaseURL+"/chat/completions", headers, req, &resp); err != nil {
		apiErr := newAPIError(err)
		c.logger.Warn("completion failed",
			zap.String("model", model),
			zap.Int("status", apiErr.StatusCode),
			zap.String("error", apiErr.Message),
		)
		return nil, apiErr
	}

	return &resp, nil
}

// CalculateCost prices tokens with the client's pricing table.
func (c *Client) CalculateCost(model string, tokens int) float64 {
	return c.pricing.CalculateCost(model, tokens)
}

// Pricing returns the table the client prices with.
func (c *Client) Pricing() pricing.Table {
	return c.pricing
}

// GetModelInfo fetches metadata for model. It never fails: any problem is
// logged at debug level and reported as nil.
func (c *Client) GetModelInfo(ctx context.Context, model string) *ModelInfo {
	endpoint := fmt.Sprintf("%s/model?model=%s", c.config.BaseURL, url.QueryEscape(model))
	headers := map[string]string{
		"Authorization": "Bearer " + c.config.APIKey,
	}

	var envelope modelEnvelope
	if err := httpclient.SendRequest(ctx, c.http, http.MethodGet, endpoint, headers, nil, &envelope); err != nil {
		c.logger.Debug("model info unavailable", zap.String("model", model), zap.Error(err))
		return nil
	}

	info := envelope.model()
	if info == nil {
		c.logger.Debug("model info empty", zap.String("model", model))
	}
	return info
}

// modelEnvelope accepts both {"data": {...}} and a bare model object.
type modelEnvelope struct {
	Data *ModelInfo `json:"data"`
	ModelInfo
}

func (e *modelEnvelope) model() *ModelInfo {
	if e.Data != nil {
		return e.Data
	}
	if e.ID == "" {
		return nil
	}
	info := e.ModelInfo
	return &info
}

// IsAPIError reports whether err carries an *APIError.
func IsAPIError(err error) bool {
	var apiErr *APIError
	return errors.As(err, &apiErr)
}
