package store

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	_ "github.com/mattn/go-sqlite3"

	"retail-kpi-pipeline/internal/model"
)

var db *sql.DB

// InitDB opens the sqlite database and creates the schema if needed.
func InitDB(dbPath string) error {
	var err error
	db, err = sql.Open("sqlite3", dbPath)
	if err != nil {
		return err
	}

	schema := []string{
		`CREATE TABLE IF NOT EXISTS runs (
			id TEXT PRIMARY KEY,
			spec TEXT,
			status TEXT,
			created_at DATETIME,
			updated_at DATETIME
		);`,
		`CREATE TABLE IF NOT EXISTS run_errors (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			run_id TEXT,
			error_message TEXT,
			created_at DATETIME
		);`,
		`CREATE TABLE IF NOT EXISTS run_warnings (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			run_id TEXT,
			sku TEXT,
			column_name TEXT,
			cell_value TEXT,
			created_at DATETIME
		);`,
		`CREATE TABLE IF NOT EXISTS kpi_documents (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			run_id TEXT,
			payload TEXT,
			generated_at TEXT,
			created_at DATETIME
		);`,
	}
	for _, stmt := range schema {
		if _, err := db.Exec(stmt); err != nil {
			return err
		}
	}
	return nil
}

// SaveRun stores a new pipeline run in pending state.
func SaveRun(runID string, spec model.RunSpec) error {
	specJSON, err := json.Marshal(spec)
	if err != nil {
		return err
	}
	now := time.Now().UTC()
	_, err = db.Exec(`INSERT INTO runs (id, spec, status, created_at, updated_at) VALUES (?, ?, ?, ?, ?)`,
		runID, specJSON, model.StatusPending, now, now)
	return err
}

// UpdateRunStatus moves a run through its lifecycle.
func UpdateRunStatus(runID, status string) error {
	now := time.Now().UTC()
	_, err := db.Exec(`UPDATE runs SET status = ?, updated_at = ? WHERE id = ?`, status, now, runID)
	return err
}

// SaveRunError records a fatal error for a run.
func SaveRunError(runID string, runErr error) error {
	if runErr == nil {
		return nil
	}
	now := time.Now().UTC()
	_, err := db.Exec(`INSERT INTO run_errors (run_id, error_message, created_at) VALUES (?, ?, ?)`,
		runID, runErr.Error(), now)
	return err
}

// GetRunErrors returns the fatal errors recorded for a run.
func GetRunErrors(runID string) ([]map[string]interface{}, error) {
	rows, err := db.Query(`SELECT error_message, created_at FROM run_errors WHERE run_id = ? ORDER BY created_at`, runID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []map[string]interface{}
	for rows.Next() {
		var msg string
		var createdAt time.Time
		if err := rows.Scan(&msg, &createdAt); err != nil {
			return nil, err
		}
		out = append(out, map[string]interface{}{
			"message":   msg,
			"createdAt": createdAt,
		})
	}
	return out, rows.Err()
}

// SaveRunWarnings persists the normalizer's coercion warnings in one
// transaction. Warnings are diagnostic only and never join the document.
func SaveRunWarnings(runID string, warnings []model.CoercionWarning) error {
	if len(warnings) == 0 {
		return nil
	}
	tx, err := db.Begin()
	if err != nil {
		return err
	}
	stmt, err := tx.Prepare(`INSERT INTO run_warnings (run_id, sku, column_name, cell_value, created_at) VALUES (?, ?, ?, ?, ?)`)
	if err != nil {
		tx.Rollback()
		return err
	}
	defer stmt.Close()

	for _, w := range warnings {
		if _, err := stmt.Exec(runID, w.SKU, w.Column, w.Value, w.Occurred); err != nil {
			tx.Rollback()
			return err
		}
	}
	return tx.Commit()
}

// GetRunWarnings returns up to limit coercion warnings for a run.
func GetRunWarnings(runID string, limit int) ([]model.CoercionWarning, error) {
	rows, err := db.Query(`SELECT sku, column_name, cell_value, created_at FROM run_warnings WHERE run_id = ? ORDER BY id LIMIT ?`,
		runID, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []model.CoercionWarning
	for rows.Next() {
		var w model.CoercionWarning
		if err := rows.Scan(&w.SKU, &w.Column, &w.Value, &w.Occurred); err != nil {
			return nil, err
		}
		out = append(out, w)
	}
	return out, rows.Err()
}

// ListRuns returns all runs, newest first.
func ListRuns() ([]model.RunInfo, error) {
	rows, err := db.Query(`SELECT id, status, created_at, updated_at FROM runs ORDER BY created_at DESC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var runs []model.RunInfo
	for rows.Next() {
		var r model.RunInfo
		if err := rows.Scan(&r.ID, &r.Status, &r.CreatedAt, &r.UpdatedAt); err != nil {
			return nil, err
		}
		runs = append(runs, r)
	}
	return runs, rows.Err()
}

// GetRun fetches the full run spec and status.
func GetRun(runID string) (*model.RunDetail, error) {
	var specJSON string
	detail := &model.RunDetail{}
	detail.ID = runID

	err := db.QueryRow(`SELECT spec, status, created_at, updated_at FROM runs WHERE id = ?`, runID).
		Scan(&specJSON, &detail.Status, &detail.CreatedAt, &detail.UpdatedAt)
	if err != nil {
		return nil, err
	}
	if err := json.Unmarshal([]byte(specJSON), &detail.Spec); err != nil {
		return nil, fmt.Errorf("corrupt run spec for %s: %w", runID, err)
	}
	return detail, nil
}

// SaveDocument publishes a run's KPI document. Only successful runs reach
// this point, so the latest row is always a complete document.
func SaveDocument(runID string, doc *model.KPIDocument) error {
	payload, err := json.Marshal(doc)
	if err != nil {
		return err
	}
	_, err = db.Exec(`INSERT INTO kpi_documents (run_id, payload, generated_at, created_at) VALUES (?, ?, ?, ?)`,
		runID, payload, doc.GeneratedAt, time.Now().UTC())
	return err
}

// LatestDocument returns the most recently published KPI document, or
// sql.ErrNoRows when no run has ever succeeded.
func LatestDocument() (*model.KPIDocument, error) {
	var payload string
	err := db.QueryRow(`SELECT payload FROM kpi_documents ORDER BY id DESC LIMIT 1`).Scan(&payload)
	if err != nil {
		return nil, err
	}
	var doc model.KPIDocument
	if err := json.Unmarshal([]byte(payload), &doc); err != nil {
		return nil, fmt.Errorf("corrupt KPI document payload: %w", err)
	}
	return &doc, nil
}

// ErrNoDocument reports whether an error means no document exists yet.
func ErrNoDocument(err error) bool {
	return err == sql.ErrNoRows
}
