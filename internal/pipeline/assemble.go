package pipeline

import (
	"sort"
	"time"

	"retail-kpi-pipeline/internal/model"
)

// AssembleDocument composes the aggregator output into the final document.
// Pure function of the aggregates plus one clock read; list-valued fields are
// ordered by label ascending so repeated runs over the same rows produce
// byte-identical JSON apart from the timestamp.
func AssembleDocument(agg *model.Aggregates, now func() time.Time) *model.KPIDocument {
	categories := append([]model.CategoryKPI(nil), agg.Categories...)
	sort.Slice(categories, func(i, j int) bool { return categories[i].Category < categories[j].Category })

	catalogs := append([]model.CatalogKPI(nil), agg.Catalogs...)
	sort.Slice(catalogs, func(i, j int) bool { return catalogs[i].Catalog < catalogs[j].Catalog })

	sizes := append([]model.SizeKPI(nil), agg.Sizes...)
	sort.Slice(sizes, func(i, j int) bool { return sizes[i].Size < sizes[j].Size })

	return &model.KPIDocument{
		OverallStats:         agg.Overall,
		CategoryKPI:          categories,
		CatalogKPI:           catalogs,
		PlatformComparison:   agg.Platforms,
		TopCategory:          agg.TopCategory,
		TopRegion:            agg.TopRegion,
		CheapestPlatformKPI:  agg.CheapestPlatformKPI,
		PriceVariationKPI:    agg.PriceVariation,
		TopVariationProducts: agg.TopVariationProducts,
		SizeKPI:              sizes,
		GeneratedAt:          now().UTC().Format(time.RFC3339),
	}
}
