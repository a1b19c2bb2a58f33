package recon

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func vendorPurchase(item, vendor string, qty int, rate float64) Purchase {
	return Purchase{
		ItemTypeCode: "FG01",
		ItemCode:     item,
		ItemName:     item + " name",
		BatchRefNo:   item + "-" + vendor,
		VendorCode:   vendor,
		VendorName:   vendor,
		InQty:        qty,
		InRate:       rate,
	}
}

func TestAnalyzeProducts(t *testing.T) {
	purchases := []Purchase{
		vendorPurchase("P1", "Vendor X", 60, 10),
		vendorPurchase("P1", "Vendor Y", 40, 15),
	}

	products := AnalyzeProducts(purchases, nil)
	require.Len(t, products, 1)
	pa := products[0]

	assert.Equal(t, 2, pa.TotalPurchases)
	assert.Equal(t, 2, pa.UniqueVendors)
	assert.Equal(t, 100, pa.TotalQtyPurchased)
	assert.InDelta(t, 10.0, pa.MinRate, 1e-9)
	assert.InDelta(t, 15.0, pa.MaxRate, 1e-9)
	assert.InDelta(t, 12.5, pa.AvgRate, 1e-9)
	assert.InDelta(t, 50.0, pa.RateVariancePct, 1e-9)

	// 60x10 + 40x15 actually paid vs 100x10 at the minimum rate.
	assert.InDelta(t, 1200.0, pa.ActualCost, 1e-9)
	assert.InDelta(t, 1000.0, pa.PotentialCost, 1e-9)
	assert.InDelta(t, 200.0, pa.PotentialSavings, 1e-9)
	assert.Greater(t, pa.PotentialSavings, 0.0)

	require.Len(t, pa.VendorRates, 2)
	assert.Equal(t, "Vendor X", pa.VendorRates[0].VendorName)
	assert.InDelta(t, 10.0, pa.VendorRates[0].AvgRate, 1e-9)
	assert.InDelta(t, 600.0, pa.VendorRates[0].TotalCost, 1e-9)
}

func TestAnalyzeProductsZeroMinRateGuard(t *testing.T) {
	purchases := []Purchase{
		vendorPurchase("P1", "Vendor X", 10, 0),
		vendorPurchase("P1", "Vendor Y", 10, 5),
	}

	products := AnalyzeProducts(purchases, nil)
	require.Len(t, products, 1)
	assert.Zero(t, products[0].RateVariancePct)
}

func TestAnalyzeProductsSortedByVariance(t *testing.T) {
	purchases := []Purchase{
		vendorPurchase("P1", "Vendor X", 10, 10),
		vendorPurchase("P1", "Vendor Y", 10, 12), // 20% spread
		vendorPurchase("P2", "Vendor X", 10, 10),
		vendorPurchase("P2", "Vendor Y", 10, 20), // 100% spread
	}

	products := AnalyzeProducts(purchases, nil)
	require.Len(t, products, 2)
	assert.Equal(t, "P2", products[0].ItemCode)
	assert.Equal(t, "P1", products[1].ItemCode)
}

func TestVendorLeaderboard(t *testing.T) {
	// Vendor Y is consistently above the product average, Vendor X below.
	purchases := []Purchase{
		vendorPurchase("P1", "Vendor X", 10, 10),
		vendorPurchase("P1", "Vendor Y", 10, 15),
		vendorPurchase("P2", "Vendor X", 10, 20),
		vendorPurchase("P2", "Vendor Y", 10, 30),
		vendorPurchase("P3", "Vendor Z", 10, 5), // single vendor, excluded
	}

	products := AnalyzeProducts(purchases, nil)
	scores, multiVendor := VendorLeaderboard(products)

	assert.Equal(t, 2, multiVendor)
	require.Len(t, scores, 2)

	most, least := scores[0], scores[1]
	assert.Equal(t, "Vendor Y", most.VendorName)
	assert.Equal(t, "Vendor X", least.VendorName)
	assert.Greater(t, most.AvgRateDiffPct, least.AvgRateDiffPct)
	assert.Equal(t, 2, most.AboveAvgCount)
	assert.Equal(t, 2, least.BelowAvgCount)
	assert.InDelta(t, 100.0, most.AboveAvgPct, 1e-9)
	assert.InDelta(t, 0.0, least.AboveAvgPct, 1e-9)

	// P1: avg 12.5, Y at 15 is +20%; P2: avg 25, Y at 30 is +20%.
	assert.InDelta(t, 20.0, most.AvgRateDiffPct, 1e-9)
	assert.InDelta(t, -20.0, least.AvgRateDiffPct, 1e-9)
}

func TestVendorLeaderboardNoMultiVendorProducts(t *testing.T) {
	purchases := []Purchase{
		vendorPurchase("P1", "Vendor X", 10, 10),
		vendorPurchase("P2", "Vendor Y", 10, 20),
	}

	scores, multiVendor := VendorLeaderboard(AnalyzeProducts(purchases, nil))
	assert.Zero(t, multiVendor)
	assert.Empty(t, scores)
}
