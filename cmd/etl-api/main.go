package main

import (
	"log"

	"retail-kpi-pipeline/internal/api"
	"retail-kpi-pipeline/internal/api/handler"
	"retail-kpi-pipeline/internal/config"
	"retail-kpi-pipeline/internal/store"
)

// @title Retail KPI Pipeline API
// @version 1.0
// @description Batch KPI computation over retail price feeds, served with query-based filtering.
// @BasePath /api/v1
func main() {
	cfg := config.Load()

	if err := store.InitDB(cfg.DBPath); err != nil {
		log.Fatalf("failed to open store: %v", err)
	}

	handler.Init(cfg)

	r := api.NewRouter()
	r.Start(cfg.ListenAddr)
}
