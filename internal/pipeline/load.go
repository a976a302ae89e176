package pipeline

import (
	"context"
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"strings"

	"retail-kpi-pipeline/internal/model"
)

// Canonical column names of the retail price feed. Platform price columns are
// configuration, not constants.
const (
	ColumnSKU      = "Sku"
	ColumnCategory = "Category"
	ColumnCatalog  = "Catalog"
	ColumnStyleID  = "Style Id"
)

// LoadRows reads all rows of a source into memory. The aggregator makes
// multiple passes over the set, so there is no streaming here.
func LoadRows(ctx context.Context, src model.Source, platforms []string) ([]model.RawRow, error) {
	switch strings.ToLower(src.Type) {
	case "csv", "":
		return loadCSV(ctx, src.URL, platforms)
	case "json", "api":
		return loadJSON(ctx, src.URL, platforms)
	default:
		return nil, fmt.Errorf("unknown source type: %s", src.Type)
	}
}

func openSource(pathOrURL string) (io.ReadCloser, error) {
	if strings.HasPrefix(pathOrURL, "http") {
		resp, err := http.Get(pathOrURL)
		if err != nil {
			return nil, fmt.Errorf("failed to GET source: %w", err)
		}
		return resp.Body, nil
	}
	file, err := os.Open(pathOrURL)
	if err != nil {
		return nil, fmt.Errorf("failed to open source file: %w", err)
	}
	return file, nil
}

// ------------------- CSV -------------------

func loadCSV(ctx context.Context, pathOrURL string, platforms []string) ([]model.RawRow, error) {
	rc, err := openSource(pathOrURL)
	if err != nil {
		return nil, err
	}
	defer rc.Close()

	csvReader := csv.NewReader(rc)
	csvReader.LazyQuotes = true
	csvReader.FieldsPerRecord = -1

	headers, err := csvReader.Read()
	if err != nil {
		return nil, fmt.Errorf("failed to read CSV header: %w", err)
	}

	index := headerIndex(headers)
	if err := validateSchema(index); err != nil {
		return nil, err
	}

	var rows []model.RawRow
	for {
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		default:
		}

		record, err := csvReader.Read()
		if err == io.EOF {
			fmt.Printf("📄 Load done: %d rows read from %s\n", len(rows), pathOrURL)
			return rows, nil
		} else if err != nil {
			return nil, fmt.Errorf("CSV read error: %w", err)
		}

		rows = append(rows, rowFromRecord(record, index, platforms))
	}
}

// headerIndex maps cleaned header names to column positions. Header cells are
// trimmed and stripped of stray quotes, as the source exports are messy.
func headerIndex(headers []string) map[string]int {
	index := make(map[string]int, len(headers))
	for i, h := range headers {
		clean := strings.TrimSpace(strings.ReplaceAll(h, `"`, ""))
		index[clean] = i
	}
	return index
}

// validateSchema rejects a source missing a required column once, up front,
// rather than failing per row.
func validateSchema(index map[string]int) error {
	for _, col := range []string{ColumnSKU, ColumnCategory} {
		if _, ok := index[col]; !ok {
			return &model.SchemaError{Column: col}
		}
	}
	return nil
}

func rowFromRecord(record []string, index map[string]int, platforms []string) model.RawRow {
	cell := func(col string) string {
		i, ok := index[col]
		if !ok || i >= len(record) {
			return ""
		}
		return record[i]
	}

	prices := make(map[string]string, len(platforms))
	for _, p := range platforms {
		prices[p] = cell(p)
	}

	return model.RawRow{
		SKU:      cell(ColumnSKU),
		Category: cell(ColumnCategory),
		Catalog:  cell(ColumnCatalog),
		StyleID:  cell(ColumnStyleID),
		Prices:   prices,
	}
}

// ------------------- JSON -------------------

// loadJSON accepts an array of flat objects keyed like the CSV columns.
func loadJSON(ctx context.Context, pathOrURL string, platforms []string) ([]model.RawRow, error) {
	rc, err := openSource(pathOrURL)
	if err != nil {
		return nil, err
	}
	defer rc.Close()

	body, err := io.ReadAll(rc)
	if err != nil {
		return nil, fmt.Errorf("failed to read JSON body: %w", err)
	}

	var records []map[string]interface{}
	if err := json.Unmarshal(body, &records); err != nil {
		return nil, fmt.Errorf("failed to decode JSON: %w", err)
	}

	if len(records) > 0 {
		if err := validateJSONSchema(records[0]); err != nil {
			return nil, err
		}
	}

	rows := make([]model.RawRow, 0, len(records))
	for _, rec := range records {
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		default:
		}

		prices := make(map[string]string, len(platforms))
		for _, p := range platforms {
			prices[p] = stringCell(rec[p])
		}
		rows = append(rows, model.RawRow{
			SKU:      stringCell(rec[ColumnSKU]),
			Category: stringCell(rec[ColumnCategory]),
			Catalog:  stringCell(rec[ColumnCatalog]),
			StyleID:  stringCell(rec[ColumnStyleID]),
			Prices:   prices,
		})
	}

	fmt.Printf("🌐 Load done: %d rows read from %s\n", len(rows), pathOrURL)
	return rows, nil
}

func validateJSONSchema(rec map[string]interface{}) error {
	for _, col := range []string{ColumnSKU, ColumnCategory} {
		if _, ok := rec[col]; !ok {
			return &model.SchemaError{Column: col}
		}
	}
	return nil
}

func stringCell(v interface{}) string {
	switch val := v.(type) {
	case nil:
		return ""
	case string:
		return val
	case float64:
		// JSON numbers arrive as float64; keep full precision for the
		// normalizer to re-parse.
		return fmt.Sprintf("%g", val)
	default:
		return fmt.Sprintf("%v", val)
	}
}
