package v1

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/nulzo/intent-router/internal/gateway"
	"github.com/nulzo/intent-router/pkg/api"
)

type ModelHandler struct {
	service gateway.Service
}

func NewModelHandler(service gateway.Service) *ModelHandler {
	return &ModelHandler{service: service}
}

// GetModelInfo proxies the upstream metadata lookup. Any upstream failure
// is a 404.
//
// GET /v1/models/info?model=<id>
func (h *ModelHandler) GetModelInfo(c *gin.Context) {
	id := c.Query("model")
	if id == "" {
		_ = c.Error(api.BadRequestError("query parameter 'model' is required"))
		return
	}

	info := h.service.ModelInfo(c.Request.Context(), id)
	if info == nil {
		_ = c.Error(api.NotFoundError("no metadata available for model '" + id + "'"))
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": info})
}
