package utils

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// OutputManager organizes per-run output artifacts under a base directory.
type OutputManager struct {
	BaseOutputDir string
}

// NewOutputManager creates a new output manager.
func NewOutputManager(baseOutputDir string) *OutputManager {
	return &OutputManager{BaseOutputDir: baseOutputDir}
}

// CreateRunOutputDir creates (if needed) the directory holding one run's
// artifacts: kpis.json plus the CSV side-exports.
func (om *OutputManager) CreateRunOutputDir(runID string) (string, error) {
	runDir := filepath.Join(om.BaseOutputDir, runID)
	if err := os.MkdirAll(runDir, 0755); err != nil {
		return "", fmt.Errorf("failed to create run output directory: %w", err)
	}
	return runDir, nil
}

// OutputFilePath returns the full path for a named artifact of a run.
func (om *OutputManager) OutputFilePath(runID, fileName string) (string, error) {
	runDir, err := om.CreateRunOutputDir(runID)
	if err != nil {
		return "", err
	}
	return filepath.Join(runDir, filepath.Base(fileName)), nil
}

// DownloadURL returns the API download path for an artifact.
func (om *OutputManager) DownloadURL(runID, fileName string) string {
	return fmt.Sprintf("/api/v1/download/%s/%s", runID, filepath.Base(fileName))
}

// FileType classifies an artifact by extension.
func (om *OutputManager) FileType(fileName string) string {
	switch strings.ToLower(filepath.Ext(fileName)) {
	case ".csv":
		return "csv"
	case ".json":
		return "json"
	default:
		return "unknown"
	}
}

// EnsureOutputDirExists ensures the base output directory exists.
func (om *OutputManager) EnsureOutputDirExists() error {
	return os.MkdirAll(om.BaseOutputDir, 0755)
}
