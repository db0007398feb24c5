package v1

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/nulzo/intent-router/internal/gateway"
	"github.com/nulzo/intent-router/internal/pricing"
	"github.com/nulzo/intent-router/internal/server/validator"
	"github.com/nulzo/intent-router/pkg/api"
)

type CostHandler struct {
	service   gateway.Service
	validator *validator.Validator
}

func NewCostHandler(service gateway.Service, v *validator.Validator) *CostHandler {
	return &CostHandler{service: service, validator: v}
}

// Cost prices a token count at the model's blended rate.
//
// POST /v1/cost
func (h *CostHandler) Cost(c *gin.Context) {
	var req api.CostRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		_ = c.Error(api.ValidationError(h.validator.ParseError(err)))
		return
	}

	c.JSON(http.StatusOK, api.CostResponse{
		Model:  req.Model,
		Tokens: req.Tokens,
		Rate:   h.service.Cost(req.Model, pricing.TokensPerUnit),
		Cost:   h.service.Cost(req.Model, req.Tokens),
	})
}
