package pipeline

import (
	"fmt"
	"math"
	"sort"

	"github.com/montanaflynn/stats"

	"retail-kpi-pipeline/internal/model"
)

// AggregateRows computes every KPI table from the normalized row set.
//
// Pooling policy: overall and per-group price statistics flatten all platform
// prices of all rows into one multiset, so a row listed on eight platforms
// contributes up to eight values. platform_comparison is per-column.
//
// The only fatal condition is an empty row set: process-wide averages would
// have no denominator, which is signaled as AggregationError rather than
// rendered as NaN. Empty groups and priceless platforms yield zero counts and
// null statistics.
func AggregateRows(rows []model.NormalizedRow, platforms []string) (*model.Aggregates, error) {
	if len(rows) == 0 {
		return nil, &model.AggregationError{Reason: "no usable rows: overall statistics have an empty denominator"}
	}

	agg := &model.Aggregates{
		Platforms:           make(map[string]model.PlatformStat, len(platforms)),
		CheapestPlatformKPI: make(map[string]int),
	}

	aggregatePlatforms(agg, rows, platforms)
	aggregateOverall(agg, rows, platforms)
	aggregateCategories(agg, rows, platforms)
	aggregateCatalogs(agg, rows, platforms)
	aggregateVariation(agg, rows)
	aggregateSizes(agg, rows)

	fmt.Printf("📊 Aggregation: %d rows -> %d categories, %d catalogs, %d platforms\n",
		len(rows), len(agg.Categories), len(agg.Catalogs), len(agg.Platforms))
	return agg, nil
}

// ------------------- Platform pass -------------------

func aggregatePlatforms(agg *model.Aggregates, rows []model.NormalizedRow, platforms []string) {
	total := float64(len(rows))
	for _, col := range platforms {
		var prices []float64
		for _, row := range rows {
			if v := row.Prices[col]; v != nil {
				prices = append(prices, *v)
			}
		}

		stat := model.PlatformStat{ProductsAvailable: len(prices)}
		if len(prices) > 0 {
			stat.MinPrice = must(stats.Min(prices))
			stat.MaxPrice = must(stats.Max(prices))
			stat.AvgPrice = must(stats.Mean(prices))
			stat.MedianPrice = must(stats.Median(prices))
			stat.CoveragePct = float64(len(prices)) / total * 100
		}
		agg.Platforms[PlatformKey(col)] = stat
	}
}

// ------------------- Pooled overall pass -------------------

func aggregateOverall(agg *model.Aggregates, rows []model.NormalizedRow, platforms []string) {
	skus := make(map[string]bool, len(rows))
	styles := make(map[string]bool)
	catalogs := make(map[string]bool)
	categories := make(map[string]bool)

	var pooled []float64
	for _, row := range rows {
		skus[row.SKU] = true
		styles[row.StyleID] = true
		catalogs[row.Catalog] = true
		categories[row.Category] = true
		pooled = append(pooled, row.PlatformPrices(platforms)...)
	}

	agg.Overall = model.OverallStats{
		TotalProducts:   len(rows),
		TotalSKUs:       len(skus),
		TotalStyles:     len(styles),
		TotalCatalogs:   len(catalogs),
		TotalCategories: len(categories),
		PriceStatistics: pooledStatistics(pooled),
	}
}

// pooledStatistics computes the distribution over one flattened multiset. An
// empty multiset yields all-nil statistics, never a failure.
func pooledStatistics(pooled []float64) model.PriceStatistics {
	if len(pooled) == 0 {
		return model.PriceStatistics{}
	}
	ps := model.PriceStatistics{
		MinPrice:    must(stats.Min(pooled)),
		MaxPrice:    must(stats.Max(pooled)),
		AvgPrice:    must(stats.Mean(pooled)),
		MedianPrice: must(stats.Median(pooled)),
	}
	// Sample standard deviation (n-1); reported as 0 for n <= 1.
	if len(pooled) > 1 {
		ps.StdPrice = must(stats.StandardDeviationSample(pooled))
	} else {
		zero := 0.0
		ps.StdPrice = &zero
	}
	return ps
}

// ------------------- Grouping passes -------------------

func aggregateCategories(agg *model.Aggregates, rows []model.NormalizedRow, platforms []string) {
	groups := groupRows(rows, func(r *model.NormalizedRow) string { return r.Category })

	for _, label := range sortedKeys(groups) {
		members := groups[label]
		pooled, skus := groupPool(rows, members, platforms)

		styles := make(map[string]bool)
		for _, i := range members {
			styles[rows[i].StyleID] = true
		}

		kpi := model.CategoryKPI{
			Category:     label,
			ProductCount: len(members),
			UniqueSKUs:   len(skus),
			UniqueStyles: len(styles),
		}
		kpi.MinPrice, kpi.MaxPrice, kpi.AvgPrice = groupPriceStats(pooled)
		agg.Categories = append(agg.Categories, kpi)

		// Top selection: strictly-greater wins, so the ascending label
		// iteration makes ties deterministic (first label wins).
		if agg.TopCategory == nil || kpi.ProductCount > agg.TopCategory.ProductCount {
			agg.TopCategory = &model.TopCategory{
				Name:         kpi.Category,
				ProductCount: kpi.ProductCount,
				AvgPrice:     kpi.AvgPrice,
			}
		}
	}
}

func aggregateCatalogs(agg *model.Aggregates, rows []model.NormalizedRow, platforms []string) {
	groups := groupRows(rows, func(r *model.NormalizedRow) string { return r.Catalog })

	for _, label := range sortedKeys(groups) {
		members := groups[label]
		pooled, skus := groupPool(rows, members, platforms)

		categories := make(map[string]bool)
		for _, i := range members {
			categories[rows[i].Category] = true
		}

		kpi := model.CatalogKPI{
			Catalog:          label,
			ProductCount:     len(members),
			UniqueSKUs:       len(skus),
			UniqueCategories: len(categories),
		}
		kpi.MinPrice, kpi.MaxPrice, kpi.AvgPrice = groupPriceStats(pooled)
		agg.Catalogs = append(agg.Catalogs, kpi)

		if agg.TopRegion == nil || kpi.ProductCount > agg.TopRegion.ProductCount {
			top := kpi
			agg.TopRegion = &top
		}
	}
}

func groupRows(rows []model.NormalizedRow, key func(*model.NormalizedRow) string) map[string][]int {
	groups := make(map[string][]int)
	for i := range rows {
		k := key(&rows[i])
		groups[k] = append(groups[k], i)
	}
	return groups
}

func groupPool(rows []model.NormalizedRow, members []int, platforms []string) ([]float64, map[string]bool) {
	var pooled []float64
	skus := make(map[string]bool, len(members))
	for _, i := range members {
		pooled = append(pooled, rows[i].PlatformPrices(platforms)...)
		skus[rows[i].SKU] = true
	}
	return pooled, skus
}

// groupPriceStats returns rounded min/max/avg over a group's pooled multiset,
// nil for an all-missing group.
func groupPriceStats(pooled []float64) (min, max, avg *float64) {
	if len(pooled) == 0 {
		return nil, nil, nil
	}
	min = round2(must(stats.Min(pooled)))
	max = round2(must(stats.Max(pooled)))
	avg = round2(must(stats.Mean(pooled)))
	return min, max, avg
}

// ------------------- Variation and size passes -------------------

func aggregateVariation(agg *model.Aggregates, rows []model.NormalizedRow) {
	var ranges []float64
	spreads := make([]model.ProductPriceSpread, 0)

	for i := range rows {
		row := &rows[i]
		if row.CheapestPlatform != "" {
			agg.CheapestPlatformKPI[row.CheapestPlatform]++
		}
		if row.PriceRange == nil {
			continue
		}
		ranges = append(ranges, *row.PriceRange)
		if *row.PriceRange > 0 {
			agg.PriceVariation.ProductsWithVariation++
		} else {
			agg.PriceVariation.ProductsUniformPrice++
		}
		spreads = append(spreads, model.ProductPriceSpread{
			SKU:              row.SKU,
			StyleID:          row.StyleID,
			Catalog:          row.Catalog,
			Category:         row.Category,
			MinPrice:         *row.MinPrice,
			MaxPrice:         *row.MaxPrice,
			PriceRange:       *row.PriceRange,
			CheapestPlatform: row.CheapestPlatform,
		})
	}

	if len(ranges) > 0 {
		agg.PriceVariation.AvgPriceRange = must(stats.Mean(ranges))
		agg.PriceVariation.MaxPriceRange = must(stats.Max(ranges))
	}

	sort.Slice(spreads, func(i, j int) bool {
		if spreads[i].PriceRange != spreads[j].PriceRange {
			return spreads[i].PriceRange > spreads[j].PriceRange
		}
		return spreads[i].SKU < spreads[j].SKU
	})
	if len(spreads) > 20 {
		spreads = spreads[:20]
	}
	agg.TopVariationProducts = spreads
}

func aggregateSizes(agg *model.Aggregates, rows []model.NormalizedRow) {
	groups := groupRows(rows, func(r *model.NormalizedRow) string {
		if r.Size == "" {
			return "Unknown"
		}
		return r.Size
	})

	for _, size := range sortedKeys(groups) {
		members := groups[size]
		var mins, maxs []float64
		for _, i := range members {
			if rows[i].MinPrice != nil {
				mins = append(mins, *rows[i].MinPrice)
			}
			if rows[i].MaxPrice != nil {
				maxs = append(maxs, *rows[i].MaxPrice)
			}
		}

		kpi := model.SizeKPI{Size: size, ProductCount: len(members)}
		if len(mins) > 0 {
			kpi.AvgMinPrice = round2(must(stats.Mean(mins)))
		}
		if len(maxs) > 0 {
			kpi.AvgMaxPrice = round2(must(stats.Mean(maxs)))
		}
		agg.Sizes = append(agg.Sizes, kpi)
	}
}

// ------------------- Helpers -------------------

func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// must lifts a montanaflynn/stats result to a pointer. The library only
// errors on empty input, which every caller guards against.
func must(v float64, err error) *float64 {
	if err != nil {
		return nil
	}
	return &v
}

func round2(v *float64) *float64 {
	if v == nil {
		return nil
	}
	r := math.Round(*v*100) / 100
	return &r
}
