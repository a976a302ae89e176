package pipeline

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"retail-kpi-pipeline/internal/model"
)

func writeTempFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func TestLoadRows_CSV(t *testing.T) {
	platforms := []string{"Amazon MRP", "Flipkart MRP"}
	path := writeTempFile(t, "feed.csv",
		"Sku,Style Id,Catalog,Category,Amazon MRP,Flipkart MRP\n"+
			"Os206_S,Os206,Moments,Kurta,376,443\n"+
			"Os206_M,Os206,Moments,Kurta,,450\n")

	rows, err := LoadRows(context.Background(), model.Source{Type: "csv", URL: path}, platforms)
	require.NoError(t, err)
	require.Len(t, rows, 2)

	assert.Equal(t, "Os206_S", rows[0].SKU)
	assert.Equal(t, "Kurta", rows[0].Category)
	assert.Equal(t, "Moments", rows[0].Catalog)
	assert.Equal(t, "Os206", rows[0].StyleID)
	assert.Equal(t, "376", rows[0].Prices["Amazon MRP"])
	assert.Equal(t, "443", rows[0].Prices["Flipkart MRP"])
	assert.Equal(t, "", rows[1].Prices["Amazon MRP"])
}

func TestLoadRows_CSVQuotedHeaders(t *testing.T) {
	platforms := []string{"Amazon MRP"}
	path := writeTempFile(t, "feed.csv",
		"\"Sku\", \"Category\" ,Catalog,Style Id,Amazon MRP\n"+
			"SKU1,Kurta,Moments,ST1,100\n")

	rows, err := LoadRows(context.Background(), model.Source{Type: "csv", URL: path}, platforms)
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, "SKU1", rows[0].SKU)
	assert.Equal(t, "Kurta", rows[0].Category)
}

func TestLoadRows_CSVMissingRequiredColumn(t *testing.T) {
	platforms := []string{"Amazon MRP"}
	path := writeTempFile(t, "feed.csv",
		"Sku,Catalog,Style Id,Amazon MRP\n"+
			"SKU1,Moments,ST1,100\n")

	_, err := LoadRows(context.Background(), model.Source{Type: "csv", URL: path}, platforms)
	require.Error(t, err)

	var schemaErr *model.SchemaError
	require.ErrorAs(t, err, &schemaErr)
	assert.Equal(t, ColumnCategory, schemaErr.Column)
}

func TestLoadRows_CSVShortRecord(t *testing.T) {
	platforms := []string{"Amazon MRP"}
	path := writeTempFile(t, "feed.csv",
		"Sku,Category,Amazon MRP\n"+
			"SKU1,Kurta\n")

	rows, err := LoadRows(context.Background(), model.Source{Type: "csv", URL: path}, platforms)
	require.NoError(t, err)
	require.Len(t, rows, 1)

	// A record shorter than the header yields empty cells, not a failure.
	assert.Equal(t, "", rows[0].Prices["Amazon MRP"])
}

func TestLoadRows_JSON(t *testing.T) {
	platforms := []string{"Amazon MRP"}
	path := writeTempFile(t, "feed.json",
		`[{"Sku":"SKU1","Category":"Kurta","Catalog":"Moments","Style Id":"ST1","Amazon MRP":376.5},
		  {"Sku":"SKU2","Category":"Saree","Catalog":"Moments","Style Id":"ST2","Amazon MRP":"443"}]`)

	rows, err := LoadRows(context.Background(), model.Source{Type: "json", URL: path}, platforms)
	require.NoError(t, err)
	require.Len(t, rows, 2)

	assert.Equal(t, "SKU1", rows[0].SKU)
	assert.Equal(t, "376.5", rows[0].Prices["Amazon MRP"])
	assert.Equal(t, "443", rows[1].Prices["Amazon MRP"])
}

func TestLoadRows_JSONMissingRequiredColumn(t *testing.T) {
	platforms := []string{"Amazon MRP"}
	path := writeTempFile(t, "feed.json", `[{"Sku":"SKU1","Amazon MRP":100}]`)

	_, err := LoadRows(context.Background(), model.Source{Type: "json", URL: path}, platforms)
	var schemaErr *model.SchemaError
	require.ErrorAs(t, err, &schemaErr)
	assert.Equal(t, ColumnCategory, schemaErr.Column)
}

func TestLoadRows_UnknownSourceType(t *testing.T) {
	_, err := LoadRows(context.Background(), model.Source{Type: "xml", URL: "feed.xml"}, nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unknown source type")
}

func TestLoadRows_CancelledContext(t *testing.T) {
	platforms := []string{"Amazon MRP"}
	path := writeTempFile(t, "feed.csv",
		"Sku,Category,Amazon MRP\nSKU1,Kurta,100\n")

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := LoadRows(ctx, model.Source{Type: "csv", URL: path}, platforms)
	require.ErrorIs(t, err, context.Canceled)
}
