package recon

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuildBatchIndex(t *testing.T) {
	purchases := []Purchase{
		{ItemCode: "A", BatchRefNo: "B1", VendorName: "Vendor X"},
		{ItemCode: "B", BatchRefNo: "B2", VendorName: "Vendor Y"},
		{ItemCode: "C", BatchRefNo: ""}, // no reference, omitted
	}
	sales := []Sale{
		{ItemCode: "A", BatchNo: "B1", BillNo: "S1"},
		{ItemCode: "A", BatchNo: "B1", BillNo: "S2"},
		{ItemCode: "D", BatchNo: "B3", BillNo: "S3"},
		{ItemCode: "E", BatchNo: "", BillNo: "S4"}, // no batch, omitted
	}

	ix := BuildBatchIndex(purchases, sales)

	assert.Len(t, ix.PurchaseByBatch, 2)
	assert.Len(t, ix.SalesByBatch, 2)
	assert.Equal(t, []string{"B1", "B2", "B3"}, ix.AllBatches)
	assert.Equal(t, 1, ix.MatchedBatches())

	// Sales keep insertion order within a batch.
	require.Len(t, ix.SalesByBatch["B1"], 2)
	assert.Equal(t, "S1", ix.SalesByBatch["B1"][0].BillNo)
	assert.Equal(t, "S2", ix.SalesByBatch["B1"][1].BillNo)
}

func TestBuildBatchIndexLastWriteWins(t *testing.T) {
	purchases := []Purchase{
		{ItemCode: "A", BatchRefNo: "B1", VendorName: "First"},
		{ItemCode: "A", BatchRefNo: "B1", VendorName: "Second"},
	}

	ix := BuildBatchIndex(purchases, nil)

	require.Contains(t, ix.PurchaseByBatch, "B1")
	assert.Equal(t, "Second", ix.PurchaseByBatch["B1"].VendorName)
	assert.Equal(t, []string{"B1"}, ix.AllBatches)
}

func TestBuildBatchIndexEmpty(t *testing.T) {
	ix := BuildBatchIndex(nil, nil)

	assert.Empty(t, ix.PurchaseByBatch)
	assert.Empty(t, ix.SalesByBatch)
	assert.Empty(t, ix.AllBatches)
	assert.Zero(t, ix.MatchedBatches())
}
