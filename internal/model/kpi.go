package model

// PriceStatistics describes the pooled price distribution: every non-missing
// platform price of every row contributes one value, so a row listed on eight
// platforms contributes up to eight values. Fields are nil when the pooled
// multiset is empty. StdPrice is the sample standard deviation (n-1) and 0
// for n <= 1.
type PriceStatistics struct {
	MinPrice    *float64 `json:"min_price"`
	MaxPrice    *float64 `json:"max_price"`
	AvgPrice    *float64 `json:"avg_price"`
	MedianPrice *float64 `json:"median_price"`
	StdPrice    *float64 `json:"std_price"`
}

// OverallStats holds process-wide totals and the pooled price distribution.
type OverallStats struct {
	TotalProducts   int             `json:"total_products"`
	TotalSKUs       int             `json:"total_skus"`
	TotalStyles     int             `json:"total_styles"`
	TotalCatalogs   int             `json:"total_catalogs"`
	TotalCategories int             `json:"total_categories"`
	PriceStatistics PriceStatistics `json:"price_statistics"`
}

// PlatformStat summarizes one platform column. Price fields are nil when the
// platform has zero non-missing prices; coverage is always in [0, 100].
type PlatformStat struct {
	ProductsAvailable int      `json:"products_available"`
	MinPrice          *float64 `json:"min_price"`
	MaxPrice          *float64 `json:"max_price"`
	AvgPrice          *float64 `json:"avg_price"`
	MedianPrice       *float64 `json:"median_price"`
	CoveragePct       float64  `json:"coverage_pct"`
}

// CategoryKPI is the per-category rollup. Price statistics are computed over
// the group's pooled platform-price multiset.
type CategoryKPI struct {
	Category     string   `json:"category"`
	MinPrice     *float64 `json:"min_price"`
	MaxPrice     *float64 `json:"max_price"`
	AvgPrice     *float64 `json:"avg_price"`
	ProductCount int      `json:"product_count"`
	UniqueSKUs   int      `json:"unique_skus"`
	UniqueStyles int      `json:"unique_styles"`
}

// CatalogKPI is the per-catalog rollup.
type CatalogKPI struct {
	Catalog          string   `json:"catalog"`
	MinPrice         *float64 `json:"min_price"`
	MaxPrice         *float64 `json:"max_price"`
	AvgPrice         *float64 `json:"avg_price"`
	ProductCount     int      `json:"product_count"`
	UniqueSKUs       int      `json:"unique_skus"`
	UniqueCategories int      `json:"unique_categories"`
}

// TopCategory names the category with the largest product count.
type TopCategory struct {
	Name         string   `json:"name"`
	ProductCount int      `json:"product_count"`
	AvgPrice     *float64 `json:"avg_price"`
}

// PriceVariationKPI summarizes cross-platform price spread per product.
type PriceVariationKPI struct {
	ProductsWithVariation int      `json:"products_with_variation"`
	ProductsUniformPrice  int      `json:"products_uniform_price"`
	AvgPriceRange         *float64 `json:"avg_price_range"`
	MaxPriceRange         *float64 `json:"max_price_range"`
}

// ProductPriceSpread is one row of the top-variation listing.
type ProductPriceSpread struct {
	SKU              string  `json:"sku"`
	StyleID          string  `json:"style_id"`
	Catalog          string  `json:"catalog"`
	Category         string  `json:"category"`
	MinPrice         float64 `json:"min_price"`
	MaxPrice         float64 `json:"max_price"`
	PriceRange       float64 `json:"price_range"`
	CheapestPlatform string  `json:"cheapest_platform"`
}

// SizeKPI is the per-size rollup over sizes extracted from SKU suffixes.
type SizeKPI struct {
	Size         string   `json:"size"`
	ProductCount int      `json:"product_count"`
	AvgMinPrice  *float64 `json:"avg_min_price"`
	AvgMaxPrice  *float64 `json:"avg_max_price"`
}

// KPIDocument is the full aggregated artifact served by the API. It is
// immutable once assembled; each pipeline run replaces the previous document
// wholesale. List-valued fields are sorted by label ascending.
type KPIDocument struct {
	OverallStats         OverallStats            `json:"overall_stats"`
	CategoryKPI          []CategoryKPI           `json:"category_kpi"`
	CatalogKPI           []CatalogKPI            `json:"catalog_kpi"`
	PlatformComparison   map[string]PlatformStat `json:"platform_comparison"`
	TopCategory          *TopCategory            `json:"top_category"`
	TopRegion            *CatalogKPI             `json:"top_region"`
	CheapestPlatformKPI  map[string]int          `json:"cheapest_platform_kpi"`
	PriceVariationKPI    PriceVariationKPI       `json:"price_variation_kpi"`
	TopVariationProducts []ProductPriceSpread    `json:"top_variation_products"`
	SizeKPI              []SizeKPI               `json:"size_kpi"`
	GeneratedAt          string                  `json:"timestamp"`
}

// Aggregates is the raw aggregator output before document assembly. The
// assembler adds the timestamp and final ordering.
type Aggregates struct {
	Overall              OverallStats
	Categories           []CategoryKPI
	Catalogs             []CatalogKPI
	Platforms            map[string]PlatformStat
	TopCategory          *TopCategory
	TopRegion            *CatalogKPI
	CheapestPlatformKPI  map[string]int
	PriceVariation       PriceVariationKPI
	TopVariationProducts []ProductPriceSpread
	Sizes                []SizeKPI
}
