package pipeline

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"retail-kpi-pipeline/internal/model"
)

// Artifact describes one exported output file.
type Artifact struct {
	Type        string    `json:"type"` // "json", "csv"
	Path        string    `json:"path"`
	RecordCount int       `json:"record_count"`
	ExportedAt  time.Time `json:"exported_at"`
}

// ExportArtifacts writes the KPI document and its CSV side-exports into dir.
// The JSON artifact is the contract: it is written complete or not at all.
func ExportArtifacts(doc *model.KPIDocument, dir string) ([]Artifact, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create output directory: %w", err)
	}

	jsonPath, err := WriteDocument(doc, dir)
	if err != nil {
		return nil, err
	}
	artifacts := []Artifact{{Type: "json", Path: jsonPath, RecordCount: 1, ExportedAt: time.Now().UTC()}}

	categoryPath := filepath.Join(dir, "category_kpi.csv")
	if err := writeCategoryCSV(doc.CategoryKPI, categoryPath); err != nil {
		return artifacts, err
	}
	artifacts = append(artifacts, Artifact{Type: "csv", Path: categoryPath, RecordCount: len(doc.CategoryKPI), ExportedAt: time.Now().UTC()})

	catalogPath := filepath.Join(dir, "catalog_kpi.csv")
	if err := writeCatalogCSV(doc.CatalogKPI, catalogPath); err != nil {
		return artifacts, err
	}
	artifacts = append(artifacts, Artifact{Type: "csv", Path: catalogPath, RecordCount: len(doc.CatalogKPI), ExportedAt: time.Now().UTC()})

	fmt.Printf("💾 Export: %d artifacts written to %s\n", len(artifacts), dir)
	return artifacts, nil
}

// WriteDocument serializes the document to kpis.json via a temp file and an
// atomic rename, so a partially written artifact is never observable.
func WriteDocument(doc *model.KPIDocument, dir string) (string, error) {
	payload, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return "", fmt.Errorf("failed to encode KPI document: %w", err)
	}

	tmp, err := os.CreateTemp(dir, "kpis-*.json.tmp")
	if err != nil {
		return "", fmt.Errorf("failed to create temp artifact: %w", err)
	}
	tmpName := tmp.Name()

	if _, err := tmp.Write(payload); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return "", fmt.Errorf("failed to write KPI document: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return "", fmt.Errorf("failed to close temp artifact: %w", err)
	}

	finalPath := filepath.Join(dir, "kpis.json")
	if err := os.Rename(tmpName, finalPath); err != nil {
		os.Remove(tmpName)
		return "", fmt.Errorf("failed to publish KPI document: %w", err)
	}
	return finalPath, nil
}

func writeCategoryCSV(kpis []model.CategoryKPI, path string) error {
	file, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create %s: %w", path, err)
	}
	defer file.Close()

	writer := csv.NewWriter(file)
	defer writer.Flush()

	header := []string{"Category", "min_price", "max_price", "avg_price", "product_count", "unique_skus", "unique_styles"}
	if err := writer.Write(header); err != nil {
		return fmt.Errorf("failed to write header: %w", err)
	}
	for _, k := range kpis {
		row := []string{
			k.Category,
			formatPrice(k.MinPrice),
			formatPrice(k.MaxPrice),
			formatPrice(k.AvgPrice),
			strconv.Itoa(k.ProductCount),
			strconv.Itoa(k.UniqueSKUs),
			strconv.Itoa(k.UniqueStyles),
		}
		if err := writer.Write(row); err != nil {
			return fmt.Errorf("failed to write row: %w", err)
		}
	}
	return nil
}

func writeCatalogCSV(kpis []model.CatalogKPI, path string) error {
	file, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create %s: %w", path, err)
	}
	defer file.Close()

	writer := csv.NewWriter(file)
	defer writer.Flush()

	header := []string{"Catalog", "min_price", "max_price", "avg_price", "product_count", "unique_skus", "unique_categories"}
	if err := writer.Write(header); err != nil {
		return fmt.Errorf("failed to write header: %w", err)
	}
	for _, k := range kpis {
		row := []string{
			k.Catalog,
			formatPrice(k.MinPrice),
			formatPrice(k.MaxPrice),
			formatPrice(k.AvgPrice),
			strconv.Itoa(k.ProductCount),
			strconv.Itoa(k.UniqueSKUs),
			strconv.Itoa(k.UniqueCategories),
		}
		if err := writer.Write(row); err != nil {
			return fmt.Errorf("failed to write row: %w", err)
		}
	}
	return nil
}

func formatPrice(v *float64) string {
	if v == nil {
		return ""
	}
	return strconv.FormatFloat(*v, 'f', -1, 64)
}
