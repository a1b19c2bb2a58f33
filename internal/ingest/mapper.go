package ingest

import (
	"strconv"
	"strings"
	"time"

	"invrecon/internal/expense"
	"invrecon/internal/recon"
)

// header maps a normalized column title to its cell index.
type header map[string]int

// buildHeader indexes a header row. Titles are trimmed and lower-cased so
// the raggedy spacing in the accounting exports ("New In rate ", "Trans no")
// does not matter.
func buildHeader(row []string) header {
	h := make(header, len(row))
	for i, title := range row {
		key := normalizeTitle(title)
		if key == "" {
			continue
		}
		if _, exists := h[key]; !exists {
			h[key] = i
		}
	}
	return h
}

func normalizeTitle(title string) string {
	return strings.ToLower(strings.Join(strings.Fields(title), " "))
}

// cell returns the raw cell under the first matching column title, or ""
// when no candidate column exists or the row is short.
func (h header) cell(row []string, titles ...string) string {
	for _, title := range titles {
		idx, ok := h[normalizeTitle(title)]
		if !ok || idx >= len(row) {
			continue
		}
		return strings.TrimSpace(row[idx])
	}
	return ""
}

func (h header) str(row []string, titles ...string) string {
	return h.cell(row, titles...)
}

func (h header) float(row []string, titles ...string) float64 {
	raw := strings.ReplaceAll(h.cell(row, titles...), ",", "")
	if raw == "" {
		return 0
	}
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return 0
	}
	return v
}

func (h header) int(row []string, titles ...string) int {
	// Quantity columns sometimes arrive formatted as "12.0".
	return int(h.float(row, titles...))
}

// dateLayouts covers the formats seen across the register exports.
var dateLayouts = []string{
	"2006-01-02",
	"01-02-06",
	"1/2/06",
	"01/02/2006",
	"2006-01-02 15:04:05",
	"02-Jan-2006",
	"2-Jan-06",
}

func (h header) date(row []string, titles ...string) time.Time {
	raw := h.cell(row, titles...)
	if raw == "" {
		return time.Time{}
	}
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, raw); err == nil {
			return t
		}
	}
	// Excel serial date number.
	if serial, err := strconv.ParseFloat(raw, 64); err == nil && serial > 0 {
		return excelEpoch.Add(time.Duration(serial * 24 * float64(time.Hour)))
	}
	return time.Time{}
}

// excelEpoch is day zero of the 1900 date system, offset for Excel's
// fictitious 1900-02-29.
var excelEpoch = time.Date(1899, 12, 30, 0, 0, 0, 0, time.UTC)

// mapPurchaseRow maps one purchase register row. The item code is mandatory;
// rows without one fail the mapping and are skipped by the caller.
func mapPurchaseRow(h header, row []string) (recon.Purchase, bool) {
	p := recon.Purchase{
		LocationCode:    h.str(row, "LOCCD"),
		ItemTypeCode:    h.str(row, "ITEMTPCD"),
		ItemCode:        h.str(row, "ITEMCD"),
		ItemName:        h.str(row, "ITEMNAME"),
		BatchNo:         h.str(row, "BATCH NO"),
		BatchRefNo:      h.str(row, "BTREFNO"),
		VendorCode:      h.str(row, "VENDORCD"),
		VendorName:      h.str(row, "VENDORNAME"),
		InQty:           h.int(row, "IN_QTY"),
		InRate:          h.float(row, "New In rate", "IN_RATE"),
		FreeQty:         h.int(row, "FREEQTY"),
		BasicValue:      h.float(row, "BSVAL"),
		DiscountValue:   h.float(row, "BTDSVAL"),
		TaxableValue:    h.float(row, "BTTCVAL"),
		GrossValue:      h.float(row, "GRVAL"),
		IGST:            h.float(row, "IGST"),
		CGST:            h.float(row, "CGST"),
		SGST:            h.float(row, "SGST"),
		TransactionDate: h.date(row, "TXDATE"),
		UOMCode:         h.str(row, "UOMCD"),
		HSNCode:         h.int(row, "HSNSACCD"),
	}
	if exp := h.date(row, "EXPMMYY"); !exp.IsZero() {
		p.ExpiryDate = &exp
	}
	return p, p.ItemCode != ""
}

// mapSaleRow maps one sales register row. The item code is mandatory.
func mapSaleRow(h header, row []string) (recon.Sale, bool) {
	s := recon.Sale{
		LocationCode:    h.str(row, "LOCCD"),
		ItemCode:        h.str(row, "Item Code"),
		ItemName:        h.str(row, "Item Name"),
		BatchNo:         h.str(row, "Batch No."),
		CustomerCode:    h.str(row, "Cust. Code"),
		CustomerName:    h.str(row, "Customer Name"),
		BillNo:          h.str(row, "Bill No."),
		TransactionNo:   h.str(row, "Transaction No."),
		SaleQty:         h.int(row, "Sale Qty."),
		FreeQty:         h.int(row, "Free Qty."),
		OutQty:          h.int(row, "OUT_QTY"),
		OutRate:         h.float(row, "OUT_RATE"),
		BasicValue:      h.float(row, "Basic Value"),
		DiscountValue:   h.float(row, "Discount Value"),
		GrossValue:      h.float(row, "Gross Value"),
		IGSTAmount:      h.float(row, "IGST Amt .", "IGST Amt."),
		CGSTAmount:      h.float(row, "CGST Amt."),
		SGSTAmount:      h.float(row, "SGST Amt."),
		TransactionDate: h.date(row, "TXDATE"),
		Segment:         normalizeSegment(h.str(row, "Final line wise segment")),
	}
	return s, s.ItemCode != ""
}

// normalizeSegment maps the register's segment labels onto the canonical
// vocabulary. The source export writes "PCD" for direct distribution and
// mixed-case "Internal"; unrecognized labels pass through unchanged and
// resolve to the default profit share downstream.
func normalizeSegment(raw string) recon.Segment {
	switch strings.ToUpper(strings.TrimSpace(raw)) {
	case "PCD", "DIRECT":
		return recon.SegmentDirect
	case "THIRD PARTY":
		return recon.SegmentThirdParty
	case "INTERNAL":
		return recon.SegmentInternal
	case "EXPORT":
		return recon.SegmentExport
	}
	return recon.Segment(strings.TrimSpace(raw))
}

// mapExpenseRow maps one expense ledger row. The particulars column is
// mandatory.
func mapExpenseRow(h header, row []string) (expense.Expense, bool) {
	e := expense.Expense{
		Date:            h.date(row, "Date"),
		Particulars:     h.str(row, "Particulers", "Particulars"),
		TransactionType: h.str(row, "Type"),
		TransactionNo:   h.str(row, "Trans no"),
		Narration:       h.str(row, "Narration"),
		Debit:           h.float(row, "Dr", "Debit"),
		Credit:          h.float(row, "cr", "Credit"),
		Group:           h.str(row, "Group"),
		Category:        h.str(row, "Category"),
	}
	return e, e.Particulars != ""
}
