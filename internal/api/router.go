package api

import (
	httpSwagger "github.com/swaggo/http-swagger"

	"retail-kpi-pipeline/internal/api/handler"
	"retail-kpi-pipeline/pkg/router"

	_ "retail-kpi-pipeline/docs"
)

// NewRouter builds the API router with all routes registered.
func NewRouter() *router.Router {
	r := router.New()
	RegisterRoutes(r)
	return r
}

// RegisterRoutes wires the KPI and run-management endpoints.
func RegisterRoutes(r *router.Router) {
	// The KPI document, selected by ?endpoint=summary|region|platform|category|all
	r.GET("/api/v1/kpis", handler.GetKPIs)

	// Run management
	r.POST("/api/v1/runs", handler.CreateRun)
	r.GET("/api/v1/runs", handler.ListRuns)
	// More specific routes first
	r.GET("/api/v1/runs/*/errors", handler.GetRunErrors)
	r.GET("/api/v1/runs/*/warnings", handler.GetRunWarnings)
	r.POST("/api/v1/runs/*/retry", handler.RetryRun)
	r.GET("/api/v1/runs/*", handler.GetRun)

	// Artifacts
	r.GET("/api/v1/download/*/*", handler.DownloadArtifact)

	// API documentation
	r.GET("/swagger/*", router.HandlerFunc(httpSwagger.WrapHandler))
}
