package recon

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testPurchase(batchRef string, qty int, rate float64) Purchase {
	return Purchase{
		ItemTypeCode:    "FG01",
		ItemCode:        "ITEM1",
		ItemName:        "Widget",
		BatchNo:         "INT-" + batchRef,
		BatchRefNo:      batchRef,
		VendorCode:      "V1",
		VendorName:      "Acme Traders",
		InQty:           qty,
		InRate:          rate,
		TransactionDate: time.Date(2025, 4, 1, 0, 0, 0, 0, time.UTC),
	}
}

func newDecomposer(t *testing.T, purchases []Purchase, sales []Sale) *Decomposer {
	t.Helper()
	ix := BuildBatchIndex(purchases, sales)
	dec, err := NewDecomposer(ix, DefaultShareConfig(), nil)
	require.NoError(t, err)
	return dec
}

func TestBatchProfitDecomposition(t *testing.T) {
	purchases := []Purchase{testPurchase("B1", 100, 10)}
	sales := []Sale{
		{
			ItemCode: "FG001", ItemName: "Widget", BatchNo: "B1", BillNo: "S1",
			SaleQty: 40, FreeQty: 5, OutQty: 45, OutRate: 15,
			DiscountValue: 20, Segment: SegmentDirect,
		},
		{
			ItemCode: "FG001", ItemName: "Widget", BatchNo: "B1", BillNo: "S2",
			SaleQty: 30, FreeQty: 0, OutQty: 30, OutRate: 12,
			Segment: SegmentThirdParty,
		},
	}

	profits := newDecomposer(t, purchases, sales).BatchProfits(nil)
	require.Len(t, profits, 1)
	bp := profits[0]

	assert.True(t, bp.HasPurchase)
	assert.True(t, bp.HasSales)
	assert.Equal(t, "B1", bp.BatchRefNo)
	assert.Equal(t, CategoryFG, bp.Category)
	assert.Equal(t, "Acme Traders", bp.VendorName)

	assert.Equal(t, 70, bp.TotalSaleQty)
	assert.Equal(t, 5, bp.TotalFreeQty)
	assert.Equal(t, 75, bp.TotalOutQty)
	assert.Equal(t, 25, bp.RemainingQty())
	assert.Equal(t, StatusPartial, bp.Status())

	// revenue = 40x15 + 30x12, COGS priced on every outward unit
	assert.InDelta(t, 960.0, bp.RevenueFromSales, 1e-9)
	assert.InDelta(t, 750.0, bp.TotalCOGS, 1e-9)
	assert.InDelta(t, 50.0, bp.TotalCostDueToFree, 1e-9)
	assert.InDelta(t, 20.0, bp.TotalCostDueToDiscount, 1e-9)
	assert.InDelta(t, 190.0, bp.Profit, 1e-9)
	assert.InDelta(t, 190.0/960.0*100, bp.ProfitMargin, 1e-9)
	assert.InDelta(t, 960.0/70.0, bp.AvgSaleRate, 1e-9)

	// Per-sale breakdown uses each sale's own segment for the share split.
	require.Len(t, bp.SaleDetails, 2)
	first := bp.SaleDetails[0]
	assert.InDelta(t, 600.0, first.RevenueFromSale, 1e-9)
	assert.InDelta(t, 400.0, first.CostOfGoodsSold, 1e-9)
	assert.InDelta(t, 50.0, first.CostDueToFree, 1e-9)
	assert.InDelta(t, 20.0, first.CostDueToDiscount, 1e-9)
	assert.InDelta(t, 130.0, first.FinalProfit, 1e-9)
	assert.Equal(t, "67/33", first.ShareRatio)
	assert.InDelta(t, 87.1, first.PartnerAShare, 1e-9)
	assert.InDelta(t, 42.9, first.PartnerBShare, 1e-9)

	second := bp.SaleDetails[1]
	assert.InDelta(t, 60.0, second.FinalProfit, 1e-9)
	assert.Equal(t, "97/3", second.ShareRatio)
	assert.InDelta(t, 58.2, second.PartnerAShare, 1e-9)

	// Batch shares are the sum of per-sale shares; per-sale profits sum to
	// the batch profit because COGS covers free units too.
	assert.InDelta(t, 145.3, bp.PartnerAShare, 1e-9)
	assert.InDelta(t, 44.7, bp.PartnerBShare, 1e-9)
	assert.InDelta(t, bp.Profit, first.FinalProfit+second.FinalProfit, 1e-9)
	assert.Equal(t, "76/24", bp.ShareRatio)
}

func TestBatchProfitNoPurchase(t *testing.T) {
	sales := []Sale{{
		ItemCode: "FG001", ItemName: "Widget", BatchNo: "B9", BillNo: "S1",
		SaleQty: 10, OutQty: 10, OutRate: 12, DiscountValue: 5,
	}}

	profits := newDecomposer(t, nil, sales).BatchProfits(nil)
	require.Len(t, profits, 1)
	bp := profits[0]

	assert.False(t, bp.HasPurchase)
	assert.True(t, bp.HasSales)
	assert.Equal(t, StatusNoPurchase, bp.Status())

	// Missing purchase rate propagates as zero cost, not an error.
	assert.Zero(t, bp.PurchaseRate)
	assert.Zero(t, bp.TotalCOGS)
	assert.Zero(t, bp.TotalCostDueToFree)
	assert.InDelta(t, 120.0, bp.RevenueFromSales, 1e-9)
	assert.InDelta(t, 115.0, bp.Profit, 1e-9)
}

func TestBatchProfitNoSales(t *testing.T) {
	purchases := []Purchase{testPurchase("B1", 50, 8)}

	profits := newDecomposer(t, purchases, nil).BatchProfits(nil)
	require.Len(t, profits, 1)
	bp := profits[0]

	assert.True(t, bp.HasPurchase)
	assert.False(t, bp.HasSales)
	assert.Equal(t, StatusNoSales, bp.Status())
	assert.Equal(t, 50, bp.RemainingQty())
	assert.Zero(t, bp.RevenueFromSales)
	assert.Zero(t, bp.Profit)
	assert.Zero(t, bp.AvgSaleRate)
	assert.Equal(t, "0/0", bp.ShareRatio)
}

func TestBatchProfitStatusTransitions(t *testing.T) {
	tests := []struct {
		name    string
		saleQty int
		outQty  int
		want    string
	}{
		{"nothing sold yet stays partial", 1, 1, StatusPartial},
		{"exactly sold out", 10, 10, StatusFullySold},
		{"oversold batch still reads fully sold", 12, 12, StatusFullySold},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			purchases := []Purchase{testPurchase("B1", 10, 5)}
			sales := []Sale{{
				ItemCode: "FG001", BatchNo: "B1",
				SaleQty: tt.saleQty, OutQty: tt.outQty, OutRate: 9,
			}}

			profits := newDecomposer(t, purchases, sales).BatchProfits(nil)
			require.Len(t, profits, 1)
			assert.Equal(t, tt.want, profits[0].Status())
		})
	}
}

func TestBatchProfitOversoldRemainingQtyNegative(t *testing.T) {
	purchases := []Purchase{testPurchase("B1", 10, 5)}
	sales := []Sale{{ItemCode: "FG001", BatchNo: "B1", SaleQty: 14, OutQty: 14, OutRate: 9}}

	profits := newDecomposer(t, purchases, sales).BatchProfits(nil)
	require.Len(t, profits, 1)
	assert.Equal(t, -4, profits[0].RemainingQty())
}

func TestBatchProfitOnlyFreeQty(t *testing.T) {
	purchases := []Purchase{testPurchase("B1", 10, 5)}
	sales := []Sale{{ItemCode: "FG001", BatchNo: "B1", FreeQty: 4, OutQty: 4, OutRate: 9}}

	profits := newDecomposer(t, purchases, sales).BatchProfits(nil)
	require.Len(t, profits, 1)
	bp := profits[0]

	assert.Zero(t, bp.TotalSaleQty)
	assert.Zero(t, bp.AvgSaleRate) // no divide by zero
	assert.InDelta(t, 20.0, bp.TotalCOGS, 1e-9)
	assert.InDelta(t, -20.0, bp.Profit, 1e-9)
}

func TestBatchProfitZeroProfitShareRatio(t *testing.T) {
	purchases := []Purchase{testPurchase("B1", 10, 10)}
	sales := []Sale{{
		ItemCode: "FG001", BatchNo: "B1",
		SaleQty: 10, OutQty: 10, OutRate: 10, Segment: SegmentDirect,
	}}

	profits := newDecomposer(t, purchases, sales).BatchProfits(nil)
	require.Len(t, profits, 1)
	bp := profits[0]

	assert.Zero(t, bp.Profit)
	assert.Equal(t, "0/0", bp.ShareRatio)
	assert.Zero(t, bp.ProfitMargin)
}

func TestBatchProfitCategoryFilter(t *testing.T) {
	purchases := []Purchase{
		testPurchase("B1", 10, 5),
		{ItemTypeCode: "SV01", ItemCode: "SVC1", ItemName: "Freight", BatchRefNo: "B2", InQty: 1, InRate: 100},
	}
	// Category resolved from the first sale when no purchase matches.
	sales := []Sale{{ItemCode: "AD001", ItemName: "Poster", BatchNo: "B3", SaleQty: 1, OutQty: 1, OutRate: 2}}

	dec := newDecomposer(t, purchases, sales)

	tradeable := dec.BatchProfits(nil)
	require.Len(t, tradeable, 1)
	assert.Equal(t, "B1", tradeable[0].BatchRefNo)

	charges := dec.BatchProfits([]Category{CategorySV})
	require.Len(t, charges, 1)
	assert.Equal(t, "B2", charges[0].BatchRefNo)

	ads := dec.BatchProfits([]Category{CategoryAD})
	require.Len(t, ads, 1)
	assert.Equal(t, "B3", ads[0].BatchRefNo)
	assert.False(t, ads[0].HasPurchase)
}

func TestDominantSegmentFirstMaxTieBreak(t *testing.T) {
	purchases := []Purchase{testPurchase("B1", 100, 1)}
	sales := []Sale{
		{ItemCode: "FG001", BatchNo: "B1", SaleQty: 1, OutQty: 1, OutRate: 2, Segment: SegmentExport},
		{ItemCode: "FG001", BatchNo: "B1", SaleQty: 1, OutQty: 1, OutRate: 2, Segment: SegmentDirect},
		{ItemCode: "FG001", BatchNo: "B1", SaleQty: 1, OutQty: 1, OutRate: 2, Segment: SegmentDirect},
		{ItemCode: "FG001", BatchNo: "B1", SaleQty: 1, OutQty: 1, OutRate: 2, Segment: SegmentExport},
	}

	profits := newDecomposer(t, purchases, sales).BatchProfits(nil)
	require.Len(t, profits, 1)
	// Two-way tie: the segment that first reached the winning count wins,
	// which is DIRECT at the third sale.
	assert.Equal(t, SegmentDirect, profits[0].Segment)
}

func TestProfitIdentityAcrossBatches(t *testing.T) {
	purchases := []Purchase{
		testPurchase("B1", 100, 10),
		testPurchase("B2", 50, 4),
	}
	sales := []Sale{
		{ItemCode: "FG001", BatchNo: "B1", SaleQty: 60, FreeQty: 3, OutQty: 63, OutRate: 14, DiscountValue: 12},
		{ItemCode: "FG001", BatchNo: "B2", SaleQty: 50, OutQty: 50, OutRate: 3.5},
		{ItemCode: "FG001", BatchNo: "B3", SaleQty: 5, OutQty: 5, OutRate: 7},
	}

	profits := newDecomposer(t, purchases, sales).BatchProfits(nil)
	require.Len(t, profits, 3)

	for _, bp := range profits {
		assert.InDelta(t, bp.RevenueFromSales-bp.TotalCOGS-bp.TotalCostDueToDiscount, bp.Profit, 1e-12,
			"profit identity must hold exactly for batch %s", bp.BatchRefNo)
		if !bp.HasPurchase {
			assert.Zero(t, bp.PurchaseRate)
			assert.Zero(t, bp.TotalCOGS)
		}
	}
}

func TestBatchProfitsDeterministic(t *testing.T) {
	purchases := []Purchase{
		testPurchase("B2", 50, 4),
		testPurchase("B1", 100, 10),
	}
	sales := []Sale{
		{ItemCode: "FG001", BatchNo: "B1", SaleQty: 60, OutQty: 60, OutRate: 14, Segment: SegmentDirect},
		{ItemCode: "FG001", BatchNo: "B2", SaleQty: 20, OutQty: 20, OutRate: 5, Segment: SegmentExport},
		{ItemCode: "FG001", BatchNo: "B2", SaleQty: 10, OutQty: 10, OutRate: 6},
	}

	dec := newDecomposer(t, purchases, sales)
	first := dec.BatchProfits(nil)
	second := dec.BatchProfits(nil)

	assert.Equal(t, first, second)
}
