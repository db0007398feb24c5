package v1

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/nulzo/intent-router/internal/gateway"
	"github.com/nulzo/intent-router/internal/server/validator"
	"github.com/nulzo/intent-router/pkg/api"
)

type ChatHandler struct {
	service   gateway.Service
	validator *validator.Validator
}

func NewChatHandler(service gateway.Service, v *validator.Validator) *ChatHandler {
	return &ChatHandler{
		service:   service,
		validator: v,
	}
}

// CreateCompletion runs one completion. "model" may be omitted or "auto"
// to route by intent. Upstream failures surface as 502 problems.
//
// POST /v1/chat/completions
func (h *ChatHandler) CreateCompletion(c *gin.Context) {
	var req api.CompletionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		_ = c.Error(api.ValidationError(h.validator.ParseError(err)))
		return
	}

	res, err := h.service.Complete(c.Request.Context(), &req)
	if err != nil {
		_ = c.Error(err)
		return
	}

	if res.Routing != nil {
		c.Header("X-Router-Intent", res.Routing.Intent)
		c.Header("X-Router-Model", res.Routing.Model)
	}
	c.JSON(http.StatusOK, res)
}
