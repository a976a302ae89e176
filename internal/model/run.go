package model

import "time"

// Source points the loader at a tabular input. Type is "csv" or "json"; URL
// may be a local path or an http(s) URL.
type Source struct {
	Type string `json:"type"`
	URL  string `json:"url"`
}

// RunSpec configures a single batch run. PlatformColumns overrides the
// configured platform column list; empty means use the server default. The
// platform list is an input, never a hardcoded constant, so new marketplaces
// need no code change.
type RunSpec struct {
	Source          Source   `json:"source"`
	OutputDir       string   `json:"outputDir,omitempty"`
	PlatformColumns []string `json:"platformColumns,omitempty"`
	Timeout         string   `json:"timeout,omitempty"` // e.g. "5m"
}

// Run statuses as persisted in the store.
const (
	StatusPending     = "pending"
	StatusRunning     = "running"
	StatusLoading     = "loading"
	StatusNormalizing = "normalizing"
	StatusAggregating = "aggregating"
	StatusExporting   = "exporting"
	StatusCompleted   = "completed"
	StatusFailed      = "failed"
)

// RunInfo is the listing shape for persisted runs.
type RunInfo struct {
	ID        string    `json:"id"`
	Status    string    `json:"status"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// RunDetail is RunInfo plus the originating spec.
type RunDetail struct {
	RunInfo
	Spec RunSpec `json:"spec"`
}
