package pipeline

import (
	"context"
	"fmt"
	"time"

	"retail-kpi-pipeline/internal/config"
	"retail-kpi-pipeline/internal/model"
	"retail-kpi-pipeline/internal/store"
	"retail-kpi-pipeline/pkg/utils"
)

// Run executes one batch run: load -> normalize -> aggregate -> assemble ->
// export. The stages are synchronous; the aggregator needs random access to
// the full row set for its multiple passes, so there is nothing to gain from
// the channel fan-out a record-at-a-time pipeline would use. Each run
// produces one immutable document from one immutable row snapshot.
//
// On success the document is published to the store, replacing the previous
// one wholesale. On failure the previously published document is untouched.
func Run(ctx context.Context, runID string, spec model.RunSpec) (doc *model.KPIDocument, err error) {
	start := time.Now()
	fmt.Printf("🚀 Starting KPI run: %s\n", runID)

	store.UpdateRunStatus(runID, model.StatusRunning)
	defer func() {
		if err != nil {
			store.UpdateRunStatus(runID, model.StatusFailed)
			store.SaveRunError(runID, err)
		}
	}()

	ctx, cancel := context.WithTimeout(ctx, utils.ParseDuration(spec.Timeout))
	defer cancel()

	platforms := spec.PlatformColumns
	if len(platforms) == 0 {
		platforms = config.DefaultPlatformColumns
	}

	// --- LOAD ---
	store.UpdateRunStatus(runID, model.StatusLoading)
	raw, err := LoadRows(ctx, spec.Source, platforms)
	if err != nil {
		return nil, fmt.Errorf("load stage failed: %w", err)
	}

	// --- NORMALIZE ---
	store.UpdateRunStatus(runID, model.StatusNormalizing)
	normalized := NormalizeRows(raw, platforms)
	for i, w := range normalized.Warnings {
		if i >= 5 {
			fmt.Printf("⚠️  ... %d more coercion warnings\n", len(normalized.Warnings)-i)
			break
		}
		fmt.Printf("⚠️  %s\n", w)
	}
	if err := store.SaveRunWarnings(runID, normalized.Warnings); err != nil {
		fmt.Printf("❌ Failed to persist warnings for run %s: %v\n", runID, err)
	}

	// --- AGGREGATE ---
	store.UpdateRunStatus(runID, model.StatusAggregating)
	agg, err := AggregateRows(normalized.Rows, platforms)
	if err != nil {
		return nil, err
	}
	doc = AssembleDocument(agg, time.Now)

	// --- EXPORT ---
	store.UpdateRunStatus(runID, model.StatusExporting)
	outputDir := spec.OutputDir
	if outputDir == "" {
		outputDir = "outputs/" + runID
	}
	artifacts, err := ExportArtifacts(doc, outputDir)
	if err != nil {
		return nil, fmt.Errorf("export stage failed: %w", err)
	}
	for _, a := range artifacts {
		fmt.Printf("✅ Export: %d records -> %s (%s)\n", a.RecordCount, a.Path, a.Type)
	}

	if err := store.SaveDocument(runID, doc); err != nil {
		return nil, fmt.Errorf("failed to publish KPI document: %w", err)
	}

	store.UpdateRunStatus(runID, model.StatusCompleted)
	fmt.Printf("🏁 KPI run %s completed in %v\n", runID, time.Since(start))
	return doc, nil
}
