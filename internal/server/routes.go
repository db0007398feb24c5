package server

import (
	"github.com/nulzo/intent-router/internal/server/middleware"
	v1 "github.com/nulzo/intent-router/internal/server/v1"
	"github.com/nulzo/intent-router/internal/server/validator"
)

func (s *Server) SetupRoutes() {
	s.router.Use(middleware.ErrorHandler(s.logger))

	healthHandler := v1.NewHealthHandler(s.version)
	s.router.GET("/health", healthHandler.Health)

	v := validator.New()
	limiter := middleware.NewRateLimiter(s.config.RateLimit.RequestsPerSecond, s.config.RateLimit.Burst, s.logger)

	api := s.router.Group("/v1")
	api.Use(middleware.Auth(s.config.Server.APIKeys))
	api.Use(limiter.Middleware())
	{
		routerHandler := v1.NewRouterHandler(s.service, v)
		api.POST("/classify", routerHandler.Classify)
		api.POST("/route", routerHandler.Route)
		api.GET("/routes", routerHandler.Routes)

		chatHandler := v1.NewChatHandler(s.service, v)
		api.POST("/chat/completions", chatHandler.CreateCompletion)

		costHandler := v1.NewCostHandler(s.service, v)
		api.POST("/cost", costHandler.Cost)

		modelHandler := v1.NewModelHandler(s.service)
		api.GET("/models/info", modelHandler.GetModelInfo)

		analyticsHandler := v1.NewAnalyticsHandler(s.service)
		api.GET("/usage", analyticsHandler.GetUsage)
		api.GET("/usage/:id", analyticsHandler.GetRecord)
	}
}
