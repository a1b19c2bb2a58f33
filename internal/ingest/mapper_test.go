package ingest

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"invrecon/internal/recon"
)

func TestBuildHeaderNormalizesTitles(t *testing.T) {
	h := buildHeader([]string{"ITEMCD", "New In rate ", "  Batch No. ", ""})

	assert.Equal(t, 0, h["itemcd"])
	assert.Equal(t, 1, h["new in rate"])
	assert.Equal(t, 2, h["batch no."])
	assert.NotContains(t, h, "")
}

func TestHeaderCellCoercion(t *testing.T) {
	h := buildHeader([]string{"QTY", "RATE", "NAME", "TXDATE"})

	t.Run("float with thousands separator", func(t *testing.T) {
		assert.Equal(t, 1234.5, h.float([]string{"", "1,234.5", "", ""}, "RATE"))
	})
	t.Run("unparseable float defaults to zero", func(t *testing.T) {
		assert.Zero(t, h.float([]string{"", "n/a", "", ""}, "RATE"))
	})
	t.Run("int from decimal formatting", func(t *testing.T) {
		assert.Equal(t, 12, h.int([]string{"12.0", "", "", ""}, "QTY"))
	})
	t.Run("missing column defaults", func(t *testing.T) {
		assert.Zero(t, h.float([]string{"1", "2", "3", ""}, "NO SUCH COLUMN"))
		assert.Empty(t, h.str([]string{"1", "2", "3", ""}, "NO SUCH COLUMN"))
	})
	t.Run("short row defaults", func(t *testing.T) {
		assert.Empty(t, h.str([]string{"1"}, "NAME"))
	})
	t.Run("iso date", func(t *testing.T) {
		got := h.date([]string{"", "", "", "2025-04-01"}, "TXDATE")
		assert.Equal(t, time.Date(2025, 4, 1, 0, 0, 0, 0, time.UTC), got)
	})
	t.Run("excel serial date", func(t *testing.T) {
		got := h.date([]string{"", "", "", "45748"}, "TXDATE")
		assert.Equal(t, time.Date(2025, 4, 1, 0, 0, 0, 0, time.UTC), got)
	})
	t.Run("garbage date zero value", func(t *testing.T) {
		assert.True(t, h.date([]string{"", "", "", "soon"}, "TXDATE").IsZero())
	})
}

func purchaseHeaderAndRow() (header, []string) {
	h := buildHeader([]string{
		"LOCCD", "ITEMTPCD", "ITEMCD", "ITEMNAME", "BATCH NO", "BTREFNO",
		"VENDORCD", "VENDORNAME", "IN_QTY", "New In rate ", "FREEQTY",
		"BSVAL", "BTDSVAL", "BTTCVAL", "GRVAL", "IGST", "CGST", "SGST",
		"TXDATE", "UOMCD", "HSNSACCD",
	})
	row := []string{
		"L1", "FG01", "ITM1", "Widget", "BN1", "BR1",
		"V1", "Acme Traders", "100", "12.5", "5",
		"1250", "50", "1200", "1400", "0", "108", "108",
		"2025-04-01", "BOX", "3004",
	}
	return h, row
}

func TestMapPurchaseRow(t *testing.T) {
	h, row := purchaseHeaderAndRow()

	p, ok := mapPurchaseRow(h, row)
	require.True(t, ok)

	assert.Equal(t, "ITM1", p.ItemCode)
	assert.Equal(t, recon.CategoryFG, p.Category())
	assert.Equal(t, "BR1", p.BatchRefNo)
	assert.Equal(t, "Acme Traders", p.VendorName)
	assert.Equal(t, 100, p.InQty)
	assert.Equal(t, 12.5, p.InRate)
	assert.Equal(t, 5, p.FreeQty)
	assert.Equal(t, 1400.0, p.GrossValue)
	assert.Equal(t, time.Date(2025, 4, 1, 0, 0, 0, 0, time.UTC), p.TransactionDate)
	assert.Equal(t, 3004, p.HSNCode)
}

func TestMapPurchaseRowMissingItemCodeSkipped(t *testing.T) {
	h, row := purchaseHeaderAndRow()
	row[2] = ""

	_, ok := mapPurchaseRow(h, row)
	assert.False(t, ok)
}

func TestMapSaleRow(t *testing.T) {
	h := buildHeader([]string{
		"Item Code", "Item Name", "Batch No.", "Customer Name", "Bill No.",
		"Sale Qty.", "Free Qty.", "OUT_QTY", "OUT_RATE",
		"Discount Value", "Gross Value", "TXDATE", "Final line wise segment ",
	})
	row := []string{
		"FG001", "Widget", "BR1", "Corner Pharmacy", "B123",
		"40", "5", "45", "15",
		"20", "700", "2025-04-10", "THIRD PARTY",
	}

	s, ok := mapSaleRow(h, row)
	require.True(t, ok)

	assert.Equal(t, recon.CategoryFG, s.Category())
	assert.Equal(t, "BR1", s.BatchNo)
	assert.Equal(t, 40, s.SaleQty)
	assert.Equal(t, 5, s.FreeQty)
	assert.Equal(t, 45, s.OutQty)
	assert.Equal(t, 15.0, s.OutRate)
	assert.Equal(t, recon.SegmentThirdParty, s.Segment)
}

func TestNormalizeSegment(t *testing.T) {
	// The register writes its own labels for two of the four channels.
	tests := []struct {
		cell string
		want recon.Segment
	}{
		{"PCD", recon.SegmentDirect},
		{"DIRECT", recon.SegmentDirect},
		{"THIRD PARTY", recon.SegmentThirdParty},
		{"Internal", recon.SegmentInternal},
		{"INTERNAL", recon.SegmentInternal},
		{"EXPORT", recon.SegmentExport},
		{"export ", recon.SegmentExport},
		{"", recon.Segment("")},
		{"SAMPLE", recon.Segment("SAMPLE")},
	}
	for _, tt := range tests {
		t.Run(tt.cell, func(t *testing.T) {
			assert.Equal(t, tt.want, normalizeSegment(tt.cell))
		})
	}
}

func TestMapSaleRowSegmentResolvesConfiguredShare(t *testing.T) {
	h := buildHeader([]string{"Item Code", "Final line wise segment"})
	shares := recon.DefaultShareConfig()

	tests := []struct {
		cell  string
		wantA float64
	}{
		{"PCD", 67},
		{"Internal", 50},
		{"THIRD PARTY", 97},
	}
	for _, tt := range tests {
		t.Run(tt.cell, func(t *testing.T) {
			s, ok := mapSaleRow(h, []string{"FG001", tt.cell})
			require.True(t, ok)

			split := shares.SplitFor(s.Segment)
			assert.Equal(t, tt.wantA, split.PartnerA)
			assert.Equal(t, 100-tt.wantA, split.PartnerB)
		})
	}
}

func TestMapExpenseRow(t *testing.T) {
	h := buildHeader([]string{
		"Date", "Particulers", "Type", "Trans no", "Narration", "Dr", "cr", "Group", "Category",
	})
	row := []string{"2025-04-02", "Rent", "Journal", "J-9", "April rent", "1000", "", "DIRECT EXP", "DIRECT"}

	e, ok := mapExpenseRow(h, row)
	require.True(t, ok)

	assert.Equal(t, "Rent", e.Particulars)
	assert.Equal(t, "Journal", e.TransactionType)
	assert.Equal(t, 1000.0, e.Debit)
	assert.Zero(t, e.Credit)
	assert.True(t, e.IsExpense())
	assert.Equal(t, "2025-04", e.MonthKey())
}

func TestSplitHeaderFindsHeaderBelowTitleRows(t *testing.T) {
	rows := [][]string{
		{"Distributor Pvt Ltd"},
		{"Purchase Register FY 2025-26"},
		{"LOCCD", "ITEMCD", "ITEMNAME"},
		{"L1", "ITM1", "Widget"},
	}

	h, body := splitHeader(rows, "ITEMCD")
	require.NotNil(t, h)
	require.Len(t, body, 1)
	assert.Equal(t, "ITM1", h.str(body[0], "ITEMCD"))
}

func TestSplitHeaderNoMarker(t *testing.T) {
	h, body := splitHeader([][]string{{"a"}, {"b"}}, "ITEMCD")
	assert.Nil(t, h)
	assert.Nil(t, body)
}
