package pipeline

import (
	"fmt"
	"regexp"
	"strings"
	"time"

	"retail-kpi-pipeline/internal/model"
	"retail-kpi-pipeline/pkg/utils"
)

// sizePattern matches the size token at the end of a SKU, e.g. AN201_XL or
// AN201_2XL.
var sizePattern = regexp.MustCompile(`_([SMXL\d]+XL?)$`)

// NormalizeResult carries the cleaned rows plus everything the caller must
// log or persist: coercion warnings and the duplicate count.
type NormalizeResult struct {
	Rows              []model.NormalizedRow
	Warnings          []model.CoercionWarning
	DuplicatesDropped int
}

// NormalizeRows cleans raw rows into the canonical shape: trimmed strings,
// sentinel labels, coerced prices, size extraction, per-row effective prices,
// and SKU deduplication (first occurrence wins, input order preserved).
func NormalizeRows(raw []model.RawRow, platforms []string) *NormalizeResult {
	result := &NormalizeResult{
		Rows: make([]model.NormalizedRow, 0, len(raw)),
	}

	seen := make(map[string]bool, len(raw))
	for _, rr := range raw {
		sku := strings.TrimSpace(rr.SKU)
		if seen[sku] {
			result.DuplicatesDropped++
			continue
		}
		seen[sku] = true

		row := model.NormalizedRow{
			SKU:      sku,
			Category: utils.CleanLabel(rr.Category, model.SentinelLabel),
			Catalog:  utils.CleanLabel(rr.Catalog, model.SentinelLabel),
			StyleID:  strings.TrimSpace(rr.StyleID),
			Size:     extractSize(sku),
			Prices:   make(map[string]*float64, len(platforms)),
		}

		for _, p := range platforms {
			cell := rr.Prices[p]
			price, ok := utils.ParsePrice(cell)
			if !ok {
				row.Prices[p] = nil
				if strings.TrimSpace(cell) != "" && !utils.IsPlaceholder(cell) {
					result.Warnings = append(result.Warnings, model.CoercionWarning{
						SKU:      sku,
						Column:   p,
						Value:    cell,
						Occurred: time.Now().UTC(),
					})
				}
				continue
			}
			v := price
			row.Prices[p] = &v
		}

		attachEffectivePrices(&row, platforms)
		result.Rows = append(result.Rows, row)
	}

	fmt.Printf("🧹 Normalization: %d raw rows -> %d rows (%d duplicates, %d coercion warnings)\n",
		len(raw), len(result.Rows), result.DuplicatesDropped, len(result.Warnings))
	return result
}

// extractSize pulls the size token from the SKU suffix, empty when the SKU
// carries none.
func extractSize(sku string) string {
	m := sizePattern.FindStringSubmatch(sku)
	if m == nil {
		return ""
	}
	return m[1]
}

// attachEffectivePrices fills the per-row min/max/avg/range and cheapest
// platform from the row's non-missing prices. All stay nil for a row with no
// price on any platform; such a row still counts toward its groups.
func attachEffectivePrices(row *model.NormalizedRow, platforms []string) {
	var (
		sum      float64
		count    int
		min, max float64
		cheapest string
	)

	for _, p := range platforms {
		v := row.Prices[p]
		if v == nil {
			continue
		}
		if count == 0 || *v < min {
			min = *v
			cheapest = PlatformKey(p)
		}
		if count == 0 || *v > max {
			max = *v
		}
		sum += *v
		count++
	}

	if count == 0 {
		return
	}

	avg := sum / float64(count)
	spread := max - min
	row.MinPrice = &min
	row.MaxPrice = &max
	row.AvgPrice = &avg
	row.PriceRange = &spread
	row.CheapestPlatform = cheapest
}

// PlatformKey converts a platform price column name to its short identifier:
// "Amazon FBA MRP" -> "amazon_fba".
func PlatformKey(column string) string {
	name := strings.TrimSuffix(column, " MRP")
	name = strings.ToLower(strings.TrimSpace(name))
	return strings.ReplaceAll(name, " ", "_")
}
