package handler

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"os"
	"strconv"
	"strings"
	"sync"

	"github.com/google/uuid"

	"retail-kpi-pipeline/internal/config"
	"retail-kpi-pipeline/internal/model"
	"retail-kpi-pipeline/internal/pipeline"
	"retail-kpi-pipeline/internal/store"
	"retail-kpi-pipeline/pkg/utils"
)

var (
	cfg     *config.Config
	outputs = utils.NewOutputManager("outputs")

	// current is the served KPI document: an immutable snapshot replaced
	// wholesale after each successful run, never mutated in place.
	currentMu  sync.RWMutex
	currentDoc *model.KPIDocument
)

// Init wires the handler package to its configuration and warms the document
// cache from the store, so a restarted server keeps serving the last
// published document.
func Init(c *config.Config) {
	cfg = c
	outputs = utils.NewOutputManager(c.OutputDir)
	if err := outputs.EnsureOutputDirExists(); err != nil {
		fmt.Printf("❌ Failed to create output directory: %v\n", err)
	}

	doc, err := store.LatestDocument()
	if err != nil {
		if !store.ErrNoDocument(err) {
			fmt.Printf("❌ Failed to load latest KPI document: %v\n", err)
		}
		return
	}
	publishDocument(doc)
}

func publishDocument(doc *model.KPIDocument) {
	currentMu.Lock()
	currentDoc = doc
	currentMu.Unlock()
}

func document() *model.KPIDocument {
	currentMu.RLock()
	defer currentMu.RUnlock()
	return currentDoc
}

// ------------------- KPI endpoint selector -------------------

// GetKPIs serves a sub-tree of the current KPI document selected by the
// endpoint query parameter.
// @Summary Query KPI document
// @Description Return a sub-tree of the latest KPI document selected by the endpoint parameter
// @Tags kpis
// @Produce json
// @Param endpoint query string false "summary | region | platform | category | all" default(summary)
// @Param category query string false "Filter category endpoint to one category"
// @Param platform query string false "Filter platform endpoint to one platform"
// @Success 200 {object} map[string]interface{} "Selected KPI sub-tree"
// @Failure 400 {object} map[string]interface{} "Unknown endpoint selector"
// @Failure 404 {object} map[string]interface{} "No KPI document published yet"
// @Router /kpis [get]
func GetKPIs(w http.ResponseWriter, r *http.Request) {
	doc := document()
	if doc == nil {
		writeError(w, http.StatusNotFound, "KPI_NOT_AVAILABLE",
			"no KPI document has been produced yet; start a run first")
		return
	}

	endpoint := r.URL.Query().Get("endpoint")
	if endpoint == "" {
		endpoint = "summary"
	}

	var data interface{}
	switch endpoint {
	case "summary":
		data = summaryView(doc)
	case "region":
		data = regionView(doc)
	case "platform":
		data = platformView(doc, r.URL.Query().Get("platform"))
	case "category":
		data = categoryView(doc, r.URL.Query().Get("category"))
	case "all":
		data = map[string]interface{}{
			"overall_stats": doc.OverallStats,
			"category_kpi":  doc.CategoryKPI,
			"catalog_kpi":   doc.CatalogKPI,
		}
	default:
		writeError(w, http.StatusBadRequest, "UNKNOWN_ENDPOINT",
			fmt.Sprintf("unknown endpoint: %s (use summary, region, platform, category, or all)", endpoint))
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"status":    "success",
		"endpoint":  endpoint,
		"data":      data,
		"timestamp": doc.GeneratedAt,
	})
}

func summaryView(doc *model.KPIDocument) map[string]interface{} {
	ps := doc.OverallStats.PriceStatistics
	return map[string]interface{}{
		"total_products": doc.OverallStats.TotalProducts,
		"total_skus":     doc.OverallStats.TotalSKUs,
		"price_range": map[string]interface{}{
			"min": ps.MinPrice,
			"max": ps.MaxPrice,
			"avg": ps.AvgPrice,
		},
		"platform_comparison": doc.PlatformComparison,
		"top_category":        doc.TopCategory,
		"price_variation_kpi": doc.PriceVariationKPI,
	}
}

func regionView(doc *model.KPIDocument) map[string]interface{} {
	// Catalogs ordered by product count descending for the breakdown; the
	// document's own list stays label-sorted.
	breakdown := append([]model.CatalogKPI(nil), doc.CatalogKPI...)
	for i := 0; i < len(breakdown); i++ {
		for j := i + 1; j < len(breakdown); j++ {
			if breakdown[j].ProductCount > breakdown[i].ProductCount {
				breakdown[i], breakdown[j] = breakdown[j], breakdown[i]
			}
		}
	}
	if len(breakdown) > 5 {
		breakdown = breakdown[:5]
	}
	return map[string]interface{}{
		"top_region":       doc.TopRegion,
		"region_breakdown": breakdown,
		"total_regions":    len(doc.CatalogKPI),
	}
}

func platformView(doc *model.KPIDocument, platform string) interface{} {
	if platform == "" {
		return doc.PlatformComparison
	}
	key := strings.ToLower(platform)
	if stat, ok := doc.PlatformComparison[key]; ok {
		return map[string]interface{}{key: stat}
	}
	return map[string]interface{}{"error": fmt.Sprintf("platform %q not found", platform)}
}

func categoryView(doc *model.KPIDocument, category string) interface{} {
	if category == "" {
		return map[string]interface{}{"categories": doc.CategoryKPI}
	}
	for _, c := range doc.CategoryKPI {
		if strings.EqualFold(c.Category, category) {
			return c
		}
	}
	return map[string]interface{}{"error": fmt.Sprintf("category %q not found", category)}
}

// ------------------- Run management -------------------

// CreateRun starts a new batch run.
// @Summary Start a batch run
// @Description Create and start a KPI pipeline run over the given source
// @Tags runs
// @Accept json
// @Produce json
// @Param run body model.RunSpec true "Run configuration"
// @Success 202 {object} map[string]interface{} "Run accepted"
// @Failure 400 {object} map[string]interface{} "Invalid request payload"
// @Failure 500 {object} map[string]interface{} "Internal server error"
// @Router /runs [post]
func CreateRun(w http.ResponseWriter, r *http.Request) {
	var spec model.RunSpec
	if err := json.NewDecoder(r.Body).Decode(&spec); err != nil {
		writeError(w, http.StatusBadRequest, "INVALID_PAYLOAD", "invalid JSON payload")
		return
	}
	applyDefaults(&spec)
	if spec.Source.URL == "" {
		writeError(w, http.StatusBadRequest, "INVALID_PAYLOAD", "source.url is required")
		return
	}

	runID := uuid.New().String()
	if err := store.SaveRun(runID, spec); err != nil {
		writeError(w, http.StatusInternalServerError, "STORE_ERROR", "failed to save run")
		return
	}

	go executeRun(runID, spec)

	writeJSON(w, http.StatusAccepted, map[string]interface{}{
		"message": "Run started",
		"runID":   runID,
		"status":  model.StatusPending,
	})
}

func applyDefaults(spec *model.RunSpec) {
	if spec.Source.URL == "" && cfg != nil {
		spec.Source = model.Source{Type: "csv", URL: cfg.DataFile}
	}
	if spec.Source.Type == "" {
		spec.Source.Type = "csv"
	}
	if len(spec.PlatformColumns) == 0 && cfg != nil {
		spec.PlatformColumns = cfg.PlatformColumns
	}
	if spec.Timeout == "" && cfg != nil {
		spec.Timeout = cfg.RunTimeout.String()
	}
}

func executeRun(runID string, spec model.RunSpec) {
	if spec.OutputDir == "" {
		dir, err := outputs.CreateRunOutputDir(runID)
		if err != nil {
			fmt.Printf("❌ Run %s failed: %v\n", runID, err)
			store.UpdateRunStatus(runID, model.StatusFailed)
			store.SaveRunError(runID, err)
			return
		}
		spec.OutputDir = dir
	}
	doc, err := pipeline.Run(context.Background(), runID, spec)
	if err != nil {
		fmt.Printf("❌ Run %s failed: %v\n", runID, err)
		return
	}
	publishDocument(doc)
}

// ListRuns lists all pipeline runs.
// @Summary List runs
// @Tags runs
// @Produce json
// @Success 200 {array} model.RunInfo "Runs, newest first"
// @Router /runs [get]
func ListRuns(w http.ResponseWriter, r *http.Request) {
	runs, err := store.ListRuns()
	if err != nil {
		writeError(w, http.StatusInternalServerError, "STORE_ERROR", "failed to fetch runs")
		return
	}
	writeJSON(w, http.StatusOK, runs)
}

// GetRun retrieves one run with its exported artifacts.
// @Summary Get run
// @Tags runs
// @Produce json
// @Param id path string true "Run ID"
// @Success 200 {object} map[string]interface{} "Run detail plus artifact download links"
// @Failure 404 {object} map[string]interface{} "Run not found"
// @Router /runs/{id} [get]
func GetRun(w http.ResponseWriter, r *http.Request) {
	runID, ok := runIDFromPath(w, r, "")
	if !ok {
		return
	}
	run, err := store.GetRun(runID)
	if err != nil {
		writeError(w, http.StatusNotFound, "NOT_FOUND", "run not found")
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"run":       run,
		"artifacts": runArtifacts(runID),
	})
}

// runArtifacts lists a run's exported files with their download URLs. An
// unfinished or failed run simply has none yet.
func runArtifacts(runID string) []map[string]string {
	artifacts := make([]map[string]string, 0)
	entries, err := os.ReadDir(outputs.BaseOutputDir + "/" + runID)
	if err != nil {
		return artifacts
	}
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		artifacts = append(artifacts, map[string]string{
			"name": entry.Name(),
			"type": outputs.FileType(entry.Name()),
			"url":  outputs.DownloadURL(runID, entry.Name()),
		})
	}
	return artifacts
}

// GetRunErrors retrieves the fatal errors of a run.
// @Summary Get run errors
// @Tags runs
// @Produce json
// @Param id path string true "Run ID"
// @Success 200 {object} map[string]interface{} "Run errors"
// @Router /runs/{id}/errors [get]
func GetRunErrors(w http.ResponseWriter, r *http.Request) {
	runID, ok := runIDFromPath(w, r, "/errors")
	if !ok {
		return
	}
	errs, err := store.GetRunErrors(runID)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "STORE_ERROR", "failed to retrieve errors")
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"run_id": runID,
		"errors": errs,
		"count":  len(errs),
	})
}

// GetRunWarnings retrieves coercion warnings accumulated during a run.
// @Summary Get run warnings
// @Tags runs
// @Produce json
// @Param id path string true "Run ID"
// @Param limit query int false "Max warnings to return" default(100)
// @Success 200 {object} map[string]interface{} "Run warnings"
// @Router /runs/{id}/warnings [get]
func GetRunWarnings(w http.ResponseWriter, r *http.Request) {
	runID, ok := runIDFromPath(w, r, "/warnings")
	if !ok {
		return
	}

	limit := 100
	if limitStr := r.URL.Query().Get("limit"); limitStr != "" {
		if parsed, err := strconv.Atoi(limitStr); err == nil && parsed > 0 {
			limit = parsed
		}
	}

	warnings, err := store.GetRunWarnings(runID, limit)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "STORE_ERROR", "failed to retrieve warnings")
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"run_id":   runID,
		"warnings": warnings,
		"count":    len(warnings),
		"limit":    limit,
	})
}

// RetryRun re-executes a run's spec as a fresh run. A batch run's input is an
// immutable snapshot, so a retry is a whole new run, never a partial replay.
// @Summary Retry run
// @Tags runs
// @Produce json
// @Param id path string true "Run ID"
// @Success 202 {object} map[string]interface{} "Retry started"
// @Failure 404 {object} map[string]interface{} "Run not found"
// @Router /runs/{id}/retry [post]
func RetryRun(w http.ResponseWriter, r *http.Request) {
	runID, ok := runIDFromPath(w, r, "/retry")
	if !ok {
		return
	}
	prev, err := store.GetRun(runID)
	if err != nil {
		writeError(w, http.StatusNotFound, "NOT_FOUND", "run not found")
		return
	}

	spec := prev.Spec
	spec.OutputDir = "" // fresh output dir for the new run
	newID := uuid.New().String()
	if err := store.SaveRun(newID, spec); err != nil {
		writeError(w, http.StatusInternalServerError, "STORE_ERROR", "failed to save run")
		return
	}

	go executeRun(newID, spec)

	writeJSON(w, http.StatusAccepted, map[string]interface{}{
		"message":  "Retry started",
		"runID":    newID,
		"retryOf":  runID,
		"status":   model.StatusPending,
	})
}

// DownloadArtifact serves one exported output file.
// @Summary Download artifact
// @Tags files
// @Produce application/octet-stream
// @Param runID path string true "Run ID"
// @Param filename path string true "File name"
// @Success 200 {file} file "File download"
// @Failure 404 {object} map[string]interface{} "File not found"
// @Router /download/{runID}/{filename} [get]
func DownloadArtifact(w http.ResponseWriter, r *http.Request) {
	parts := strings.Split(strings.Trim(r.URL.Path, "/"), "/")
	if len(parts) < 5 {
		writeError(w, http.StatusBadRequest, "INVALID_PATH", "expected /api/v1/download/{runID}/{filename}")
		return
	}
	runID, fileName := parts[3], parts[4]

	filePath, err := outputs.OutputFilePath(runID, fileName)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "OUTPUT_ERROR", "failed to resolve artifact path")
		return
	}
	if _, err := os.Stat(filePath); os.IsNotExist(err) {
		writeError(w, http.StatusNotFound, "NOT_FOUND", "file not found")
		return
	}

	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", fileName))
	w.Header().Set("Content-Type", "application/octet-stream")
	http.ServeFile(w, r, filePath)
}

// ------------------- Helpers -------------------

func runIDFromPath(w http.ResponseWriter, r *http.Request, suffix string) (string, bool) {
	path := r.URL.Path
	prefix := "/api/v1/runs/"
	if !strings.HasPrefix(path, prefix) || (suffix != "" && !strings.HasSuffix(path, suffix)) {
		writeError(w, http.StatusBadRequest, "INVALID_PATH", "invalid path")
		return "", false
	}
	runID := path[len(prefix) : len(path)-len(suffix)]
	if runID == "" {
		writeError(w, http.StatusBadRequest, "INVALID_PATH", "run ID is required")
		return "", false
	}
	return runID, true
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, code, message string) {
	writeJSON(w, status, map[string]interface{}{
		"status":  "error",
		"code":    code,
		"message": message,
	})
}
