package v1

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/nulzo/intent-router/internal/completion"
	"github.com/nulzo/intent-router/internal/gateway"
	"github.com/nulzo/intent-router/internal/intent"
	"github.com/nulzo/intent-router/internal/server/validator"
	"github.com/nulzo/intent-router/pkg/api"
)

type RouterHandler struct {
	service   gateway.Service
	validator *validator.Validator
}

func NewRouterHandler(service gateway.Service, v *validator.Validator) *RouterHandler {
	return &RouterHandler{service: service, validator: v}
}

// Classify returns the intent of a query with its per-intent scores.
//
// POST /v1/classify
func (h *RouterHandler) Classify(c *gin.Context) {
	var req api.ClassifyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		_ = c.Error(api.ValidationError(h.validator.ParseError(err)))
		return
	}

	res := h.service.Classify(c.Request.Context(), req.Query)
	c.JSON(http.StatusOK, api.ClassifyResponse{
		Intent:     res.Intent.String(),
		Confidence: res.Confidence,
		Scores:     res.Scores.ByName(),
	})
}

// Route classifies a query and returns the model it would be sent to.
//
// POST /v1/route
func (h *RouterHandler) Route(c *gin.Context) {
	var req api.ClassifyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		_ = c.Error(api.ValidationError(h.validator.ParseError(err)))
		return
	}

	decision, err := h.service.Route(c.Request.Context(), req.Query)
	if err != nil {
		_ = c.Error(api.InternalError("routing failed", err))
		return
	}

	cfg := decision.Config.Resolve(completion.DefaultMaxTokens, completion.DefaultTemperature)
	c.JSON(http.StatusOK, api.RoutingInfo{
		Intent:      decision.Intent.String(),
		Model:       cfg.Model,
		MaxTokens:   cfg.MaxTokens,
		Temperature: *cfg.Temperature,
		Confidence:  decision.Confidence,
	})
}

// Routes lists the routing table, reserved intents included.
//
// GET /v1/routes
func (h *RouterHandler) Routes(c *gin.Context) {
	table := h.service.Routes()

	data := make([]gin.H, 0, len(table))
	for _, i := range intent.Order {
		cfg, ok := table[i]
		if !ok {
			continue
		}
		data = append(data, gin.H{
			"intent":    i.String(),
			"reachable": i.Reachable(),
			"config":    cfg,
		})
	}

	c.JSON(http.StatusOK, gin.H{
		"object": "list",
		"data":   data,
	})
}
