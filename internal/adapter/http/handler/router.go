package handler

import (
	"net/http"

	"solana-sweeper/internal/adapter/http/middleware"
	"solana-sweeper/internal/core/ports"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
)

// RouterDeps holds all dependencies needed to set up routes.
type RouterDeps struct {
	SweepSvc       ports.SweepService
	Runs           ports.RunRepository // nil = stored run lookup disabled
	HealthCheckers []ports.HealthChecker
	Metrics        http.Handler // nil = /metrics not served
	Logger         zerolog.Logger
}

// SetupRouter initialises the Gin engine for the status API.
func SetupRouter(deps RouterDeps) *gin.Engine {
	gin.SetMode(gin.ReleaseMode)
	r := gin.New()

	r.Use(middleware.Recovery(deps.Logger))
	r.Use(middleware.RequestID())
	r.Use(middleware.RequestLogger(deps.Logger))

	r.GET("/health", HealthCheck(deps.HealthCheckers...))
	if deps.Metrics != nil {
		r.GET("/metrics", gin.WrapH(deps.Metrics))
	}

	runHandler := NewRunHandler(deps.SweepSvc, deps.Runs)
	v1 := r.Group("/api/v1")
	runs := v1.Group("/runs")
	{
		runs.GET("/current", runHandler.Current)
		runs.GET("/:id", runHandler.Get)
	}

	return r
}
