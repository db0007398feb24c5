package v1

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/nulzo/intent-router/internal/gateway"
	"github.com/nulzo/intent-router/pkg/api"
)

type AnalyticsHandler struct {
	service gateway.Service
}

func NewAnalyticsHandler(service gateway.Service) *AnalyticsHandler {
	return &AnalyticsHandler{
		service: service,
	}
}

// GetUsage returns the aggregated overview, or the newest records when
// "recent" is given.
//
// GET /v1/usage?days=7
// GET /v1/usage?recent=20
func (h *AnalyticsHandler) GetUsage(c *gin.Context) {
	if raw, ok := c.GetQuery("recent"); ok {
		h.listRecent(c, raw)
		return
	}

	days, err := strconv.Atoi(c.DefaultQuery("days", "7"))
	if err != nil {
		_ = c.Error(api.BadRequestError("Invalid 'days' parameter"))
		return
	}

	overview, err := h.service.Usage(c.Request.Context(), days)
	if err != nil {
		_ = c.Error(err)
		return
	}

	c.JSON(http.StatusOK, overview)
}

// GET /v1/usage/:id
func (h *AnalyticsHandler) GetRecord(c *gin.Context) {
	rec, err := h.service.UsageRecord(c.Request.Context(), c.Param("id"))
	if err != nil {
		_ = c.Error(err)
		return
	}

	c.JSON(http.StatusOK, rec)
}

func (h *AnalyticsHandler) listRecent(c *gin.Context, raw string) {
	limit, err := strconv.Atoi(raw)
	if err != nil || limit < 1 {
		_ = c.Error(api.BadRequestError("Invalid 'recent' parameter"))
		return
	}

	recs, err := h.service.RecentUsage(c.Request.Context(), limit)
	if err != nil {
		_ = c.Error(err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"object": "list",
		"data":   recs,
	})
}
