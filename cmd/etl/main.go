package main

import (
	"context"
	"flag"
	"fmt"
	"log"

	"github.com/google/uuid"

	"retail-kpi-pipeline/internal/config"
	"retail-kpi-pipeline/internal/model"
	"retail-kpi-pipeline/internal/pipeline"
	"retail-kpi-pipeline/internal/store"
)

// One-shot batch run: read the price feed, compute KPIs, publish the document.
func main() {
	cfg := config.Load()

	input := flag.String("input", cfg.DataFile, "path or URL of the price feed")
	sourceType := flag.String("type", "csv", "source type: csv or json")
	output := flag.String("output", "", "output directory (default: <OUTPUT_DIR>/<run id>)")
	flag.Parse()

	if err := store.InitDB(cfg.DBPath); err != nil {
		log.Fatalf("failed to open store: %v", err)
	}

	runID := uuid.New().String()
	spec := model.RunSpec{
		Source:          model.Source{Type: *sourceType, URL: *input},
		OutputDir:       *output,
		PlatformColumns: cfg.PlatformColumns,
		Timeout:         cfg.RunTimeout.String(),
	}
	if spec.OutputDir == "" {
		spec.OutputDir = cfg.OutputDir + "/" + runID
	}

	if err := store.SaveRun(runID, spec); err != nil {
		log.Fatalf("failed to save run: %v", err)
	}

	doc, err := pipeline.Run(context.Background(), runID, spec)
	if err != nil {
		log.Fatalf("run %s failed: %v", runID, err)
	}

	fmt.Printf("\nSample KPI results:\n")
	fmt.Printf("Total products: %d\n", doc.OverallStats.TotalProducts)
	fmt.Printf("Total SKUs: %d\n", doc.OverallStats.TotalSKUs)
	if ps := doc.OverallStats.PriceStatistics; ps.MinPrice != nil && ps.MaxPrice != nil {
		fmt.Printf("Price range: %.2f - %.2f\n", *ps.MinPrice, *ps.MaxPrice)
	}
	if doc.TopCategory != nil {
		fmt.Printf("Top category: %s (%d products)\n", doc.TopCategory.Name, doc.TopCategory.ProductCount)
	}
}
