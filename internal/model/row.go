package model

// RawRow is a single SKU observation as read from the tabular source.
// Platform prices arrive as raw cell strings keyed by platform column name;
// coercion happens in the normalizer, not here.
type RawRow struct {
	SKU      string            `json:"sku"`
	Category string            `json:"category"`
	Catalog  string            `json:"catalog"`
	StyleID  string            `json:"style_id"`
	Prices   map[string]string `json:"prices"`
}

// SentinelLabel replaces empty or placeholder category/catalog values so that
// every row belongs to exactly one group.
const SentinelLabel = "Nill"

// NormalizedRow is a RawRow after cleaning: trimmed strings, sentinel labels,
// prices coerced to float64 (nil = absent for that platform), size extracted
// from the SKU suffix, and per-row effective prices across platforms.
type NormalizedRow struct {
	SKU      string              `json:"sku"`
	Category string              `json:"category"`
	Catalog  string              `json:"catalog"`
	StyleID  string              `json:"style_id"`
	Size     string              `json:"size"`
	Prices   map[string]*float64 `json:"prices"`

	// Effective prices pooled across this row's platforms. Nil when the row
	// has no price on any platform.
	MinPrice         *float64 `json:"min_price"`
	MaxPrice         *float64 `json:"max_price"`
	AvgPrice         *float64 `json:"avg_price"`
	PriceRange       *float64 `json:"price_range"`
	CheapestPlatform string   `json:"cheapest_platform,omitempty"`
}

// PlatformPrices returns the row's non-missing prices in platform-column
// order. Order matters for deterministic pooled statistics.
func (r *NormalizedRow) PlatformPrices(platforms []string) []float64 {
	out := make([]float64, 0, len(platforms))
	for _, p := range platforms {
		if v := r.Prices[p]; v != nil {
			out = append(out, *v)
		}
	}
	return out
}
