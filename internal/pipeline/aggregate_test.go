package pipeline

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"retail-kpi-pipeline/internal/model"
)

func fp(v float64) *float64 { return &v }

func row(sku, category, catalog, style string, prices map[string]*float64, platforms []string) model.NormalizedRow {
	r := model.NormalizedRow{
		SKU:      sku,
		Category: category,
		Catalog:  catalog,
		StyleID:  style,
		Prices:   prices,
	}
	attachEffectivePrices(&r, platforms)
	return r
}

func TestAggregateRows_EmptyInput(t *testing.T) {
	agg, err := AggregateRows(nil, []string{"Amazon MRP"})

	assert.Nil(t, agg)
	require.Error(t, err)
	var aggErr *model.AggregationError
	assert.ErrorAs(t, err, &aggErr)
}

func TestAggregateRows_CategoryRollup(t *testing.T) {
	platforms := []string{"Amazon MRP"}
	rows := []model.NormalizedRow{
		row("SKU1", "CategoryA", "Kurta Set", "ST1", map[string]*float64{"Amazon MRP": fp(100)}, platforms),
		row("SKU2", "CategoryA", "Kurta Set", "ST2", map[string]*float64{"Amazon MRP": fp(300)}, platforms),
		row("SKU3", "CategoryB", "Saree Set", "ST3", map[string]*float64{"Amazon MRP": fp(200)}, platforms),
	}

	agg, err := AggregateRows(rows, platforms)
	require.NoError(t, err)

	assert.Equal(t, 3, agg.Overall.TotalProducts)
	assert.Equal(t, 3, agg.Overall.TotalSKUs)
	assert.Equal(t, 2, agg.Overall.TotalCategories)
	assert.Equal(t, 2, agg.Overall.TotalCatalogs)

	require.Len(t, agg.Categories, 2)
	a, b := agg.Categories[0], agg.Categories[1]
	assert.Equal(t, "CategoryA", a.Category)
	assert.Equal(t, 2, a.ProductCount)
	assert.Equal(t, 100.0, *a.MinPrice)
	assert.Equal(t, 300.0, *a.MaxPrice)
	assert.Equal(t, 200.0, *a.AvgPrice)
	assert.Equal(t, "CategoryB", b.Category)
	assert.Equal(t, 1, b.ProductCount)
	assert.Equal(t, 200.0, *b.MinPrice)
	assert.Equal(t, 200.0, *b.MaxPrice)
	assert.Equal(t, 200.0, *b.AvgPrice)

	// Group counts partition the row set.
	assert.Equal(t, agg.Overall.TotalProducts, a.ProductCount+b.ProductCount)

	require.NotNil(t, agg.TopCategory)
	assert.Equal(t, "CategoryA", agg.TopCategory.Name)
	assert.Equal(t, 2, agg.TopCategory.ProductCount)
}

func TestAggregateRows_PooledStatistics(t *testing.T) {
	platforms := []string{"Amazon MRP", "Flipkart MRP"}
	rows := []model.NormalizedRow{
		row("SKU1", "A", "C1", "ST1", map[string]*float64{"Amazon MRP": fp(100), "Flipkart MRP": fp(300)}, platforms),
		row("SKU2", "A", "C1", "ST2", map[string]*float64{"Amazon MRP": fp(200)}, platforms),
	}

	agg, err := AggregateRows(rows, platforms)
	require.NoError(t, err)

	// Pooled multiset is {100, 300, 200}: one value per non-missing
	// platform price, so SKU1 contributes two.
	ps := agg.Overall.PriceStatistics
	assert.Equal(t, 100.0, *ps.MinPrice)
	assert.Equal(t, 300.0, *ps.MaxPrice)
	assert.Equal(t, 200.0, *ps.AvgPrice)
	assert.Equal(t, 200.0, *ps.MedianPrice)
	assert.InDelta(t, 100.0, *ps.StdPrice, 1e-9) // sample std dev, n-1
}

func TestAggregateRows_StdDevSingleValue(t *testing.T) {
	platforms := []string{"Amazon MRP"}
	rows := []model.NormalizedRow{
		row("SKU1", "A", "C1", "ST1", map[string]*float64{"Amazon MRP": fp(150)}, platforms),
	}

	agg, err := AggregateRows(rows, platforms)
	require.NoError(t, err)
	assert.Equal(t, 0.0, *agg.Overall.PriceStatistics.StdPrice)
}

func TestAggregateRows_PlatformComparison(t *testing.T) {
	platforms := []string{"Amazon MRP", "Flipkart MRP", "Myntra MRP"}
	rows := []model.NormalizedRow{
		row("SKU1", "A", "C1", "ST1", map[string]*float64{"Amazon MRP": fp(100), "Flipkart MRP": fp(120)}, platforms),
		row("SKU2", "A", "C1", "ST2", map[string]*float64{"Amazon MRP": fp(200)}, platforms),
		row("SKU3", "A", "C1", "ST3", map[string]*float64{"Amazon MRP": fp(300), "Flipkart MRP": fp(320)}, platforms),
		row("SKU4", "A", "C1", "ST4", map[string]*float64{"Amazon MRP": fp(400)}, platforms),
	}

	agg, err := AggregateRows(rows, platforms)
	require.NoError(t, err)
	require.Len(t, agg.Platforms, 3)

	amazon := agg.Platforms["amazon"]
	assert.Equal(t, 4, amazon.ProductsAvailable)
	assert.Equal(t, 100.0, *amazon.MinPrice)
	assert.Equal(t, 400.0, *amazon.MaxPrice)
	assert.Equal(t, 250.0, *amazon.AvgPrice)
	assert.Equal(t, 250.0, *amazon.MedianPrice)
	assert.Equal(t, 100.0, amazon.CoveragePct)

	flipkart := agg.Platforms["flipkart"]
	assert.Equal(t, 2, flipkart.ProductsAvailable)
	assert.Equal(t, 50.0, flipkart.CoveragePct)

	// A platform with no prices at all still appears, with zero counts and
	// nil statistics.
	myntra := agg.Platforms["myntra"]
	assert.Equal(t, 0, myntra.ProductsAvailable)
	assert.Nil(t, myntra.MinPrice)
	assert.Nil(t, myntra.AvgPrice)
	assert.Equal(t, 0.0, myntra.CoveragePct)
}

func TestAggregateRows_TopCategoryTieBreak(t *testing.T) {
	platforms := []string{"Amazon MRP"}
	rows := []model.NormalizedRow{
		row("SKU1", "Zeta", "C1", "ST1", map[string]*float64{"Amazon MRP": fp(100)}, platforms),
		row("SKU2", "Alpha", "C1", "ST2", map[string]*float64{"Amazon MRP": fp(200)}, platforms),
	}

	agg, err := AggregateRows(rows, platforms)
	require.NoError(t, err)

	// Equal product counts resolve to the first label in ascending order.
	require.NotNil(t, agg.TopCategory)
	assert.Equal(t, "Alpha", agg.TopCategory.Name)
}

func TestAggregateRows_PricelessRowKeepsGroupMembership(t *testing.T) {
	platforms := []string{"Amazon MRP"}
	rows := []model.NormalizedRow{
		row("SKU1", "A", "C1", "ST1", map[string]*float64{"Amazon MRP": fp(100)}, platforms),
		row("SKU2", "B", "C2", "ST2", map[string]*float64{"Amazon MRP": nil}, platforms),
	}

	agg, err := AggregateRows(rows, platforms)
	require.NoError(t, err)

	assert.Equal(t, 2, agg.Overall.TotalProducts)
	require.Len(t, agg.Categories, 2)
	b := agg.Categories[1]
	assert.Equal(t, "B", b.Category)
	assert.Equal(t, 1, b.ProductCount)
	assert.Nil(t, b.MinPrice)
	assert.Nil(t, b.MaxPrice)
	assert.Nil(t, b.AvgPrice)
}

func TestAggregateRows_PriceVariation(t *testing.T) {
	platforms := []string{"Amazon MRP", "Flipkart MRP"}
	rows := []model.NormalizedRow{
		row("SKU1", "A", "C1", "ST1", map[string]*float64{"Amazon MRP": fp(100), "Flipkart MRP": fp(150)}, platforms),
		row("SKU2", "A", "C1", "ST2", map[string]*float64{"Amazon MRP": fp(200), "Flipkart MRP": fp(200)}, platforms),
		row("SKU3", "A", "C1", "ST3", map[string]*float64{"Amazon MRP": fp(300), "Flipkart MRP": fp(310)}, platforms),
	}

	agg, err := AggregateRows(rows, platforms)
	require.NoError(t, err)

	assert.Equal(t, 2, agg.PriceVariation.ProductsWithVariation)
	assert.Equal(t, 1, agg.PriceVariation.ProductsUniformPrice)
	assert.Equal(t, 50.0, *agg.PriceVariation.MaxPriceRange)
	assert.InDelta(t, 20.0, *agg.PriceVariation.AvgPriceRange, 1e-9)

	// Top-variation listing is ordered by spread descending.
	require.Len(t, agg.TopVariationProducts, 3)
	assert.Equal(t, "SKU1", agg.TopVariationProducts[0].SKU)
	assert.Equal(t, 50.0, agg.TopVariationProducts[0].PriceRange)
	assert.Equal(t, "SKU3", agg.TopVariationProducts[1].SKU)
	assert.Equal(t, "SKU2", agg.TopVariationProducts[2].SKU)

	assert.Equal(t, 3, agg.CheapestPlatformKPI["amazon"])
}

func TestAggregateRows_TopVariationCappedAt20(t *testing.T) {
	platforms := []string{"Amazon MRP", "Flipkart MRP"}
	rows := make([]model.NormalizedRow, 0, 25)
	for i := 0; i < 25; i++ {
		sku := string(rune('A'+i)) + "SKU"
		rows = append(rows, row(sku, "A", "C1", "ST",
			map[string]*float64{"Amazon MRP": fp(100), "Flipkart MRP": fp(100 + float64(i))}, platforms))
	}

	agg, err := AggregateRows(rows, platforms)
	require.NoError(t, err)
	assert.Len(t, agg.TopVariationProducts, 20)
	assert.Equal(t, 24.0, agg.TopVariationProducts[0].PriceRange)
}

func TestAggregateRows_SizeKPI(t *testing.T) {
	platforms := []string{"Amazon MRP", "Flipkart MRP"}
	r1 := row("AN201_XL", "A", "C1", "ST1", map[string]*float64{"Amazon MRP": fp(100), "Flipkart MRP": fp(200)}, platforms)
	r1.Size = "XL"
	r2 := row("AN202_XL", "A", "C1", "ST2", map[string]*float64{"Amazon MRP": fp(300)}, platforms)
	r2.Size = "XL"
	r3 := row("AN203", "A", "C1", "ST3", map[string]*float64{"Amazon MRP": fp(50)}, platforms)

	agg, err := AggregateRows([]model.NormalizedRow{r1, r2, r3}, platforms)
	require.NoError(t, err)

	require.Len(t, agg.Sizes, 2)
	unknown, xl := agg.Sizes[0], agg.Sizes[1]

	assert.Equal(t, "Unknown", unknown.Size)
	assert.Equal(t, 1, unknown.ProductCount)
	assert.Equal(t, 50.0, *unknown.AvgMinPrice)

	assert.Equal(t, "XL", xl.Size)
	assert.Equal(t, 2, xl.ProductCount)
	assert.Equal(t, 200.0, *xl.AvgMinPrice) // mean of row minimums 100, 300
	assert.Equal(t, 250.0, *xl.AvgMaxPrice) // mean of row maximums 200, 300
}

func TestAggregateRows_CatalogRollup(t *testing.T) {
	platforms := []string{"Amazon MRP"}
	rows := []model.NormalizedRow{
		row("SKU1", "A", "Kurta", "ST1", map[string]*float64{"Amazon MRP": fp(100)}, platforms),
		row("SKU2", "B", "Kurta", "ST2", map[string]*float64{"Amazon MRP": fp(200)}, platforms),
		row("SKU3", "A", "Saree", "ST3", map[string]*float64{"Amazon MRP": fp(300)}, platforms),
	}

	agg, err := AggregateRows(rows, platforms)
	require.NoError(t, err)

	require.Len(t, agg.Catalogs, 2)
	kurta := agg.Catalogs[0]
	assert.Equal(t, "Kurta", kurta.Catalog)
	assert.Equal(t, 2, kurta.ProductCount)
	assert.Equal(t, 2, kurta.UniqueCategories)
	assert.Equal(t, 150.0, *kurta.AvgPrice)

	require.NotNil(t, agg.TopRegion)
	assert.Equal(t, "Kurta", agg.TopRegion.Catalog)
}
