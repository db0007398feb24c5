package middleware

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/nulzo/intent-router/internal/completion"
	"github.com/nulzo/intent-router/internal/gateway"
	"github.com/nulzo/intent-router/internal/store"
	"github.com/nulzo/intent-router/pkg/api"
	"go.uber.org/zap"
)

// ErrorHandler renders the last handler error as an RFC 9457 problem.
func ErrorHandler(logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()

		if len(c.Errors) == 0 || c.Writer.Written() {
			return
		}

		problem := toProblem(c.Errors.Last().Err)
		if problem.Log != nil {
			logger.Warn("request failed",
				zap.Int("status", problem.Status),
				zap.String("path", c.Request.URL.Path),
				zap.Error(problem.Log),
			)
		}

		// RFC 9457 dictates the json is at the root
		c.Header("Content-Type", "application/problem+json")
		c.JSON(problem.Status, problem)
		c.Abort()
	}
}

func toProblem(err error) *api.Problem {
	var problem *api.Problem
	if errors.As(err, &problem) {
		return problem
	}

	var apiErr *completion.APIError
	if errors.As(err, &apiErr) {
		opts := []api.ProblemOption{}
		if apiErr.StatusCode != 0 {
			opts = append(opts, api.WithExtension("upstream_status", apiErr.StatusCode))
		}
		if apiErr.Type != "" {
			opts = append(opts, api.WithExtension("upstream_type", apiErr.Type))
		}
		return api.ProviderError(apiErr.Message, err, opts...)
	}

	switch {
	case errors.Is(err, store.ErrNotFound):
		return api.NotFoundError(err.Error())
	case errors.Is(err, gateway.ErrUsageDisabled):
		return api.NewProblem(http.StatusNotImplemented, "Not Implemented", err.Error())
	}

	return api.InternalError("An unexpected error occurred.", err)
}
