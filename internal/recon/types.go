package recon

import (
	"time"
)

// Category classifies an item by the first two characters of its type code.
type Category string

const (
	// CategoryFG represents finished goods (tradeable stock)
	CategoryFG Category = "FG"
	// CategoryTR represents traded goods (tradeable stock)
	CategoryTR Category = "TR"
	// CategorySV represents service charges
	CategorySV Category = "SV"
	// CategoryCO represents container charges
	CategoryCO Category = "CO"
	// CategoryCG represents cargo/freight charges
	CategoryCG Category = "CG"
	// CategoryAD represents advertising/promotional items
	CategoryAD Category = "AD"
)

// CategoryOf derives the category from an item type or item code.
// Classification is a pure function of the two-character prefix; an empty
// code yields an empty category.
func CategoryOf(code string) Category {
	if len(code) < 2 {
		return Category(code)
	}
	return Category(code[:2])
}

// IsTradeable reports whether the category represents sellable stock.
func (c Category) IsTradeable() bool {
	return c == CategoryFG || c == CategoryTR
}

// IsCharge reports whether the category represents an ancillary cost item.
func (c Category) IsCharge() bool {
	return c == CategorySV || c == CategoryCO || c == CategoryCG
}

// IsAdvertising reports whether the category represents promotional items.
func (c Category) IsAdvertising() bool {
	return c == CategoryAD
}

// TradeableCategories returns the categories representing sellable stock.
// This is the default filter for all analyses.
func TradeableCategories() []Category {
	return []Category{CategoryFG, CategoryTR}
}

func categoryInScope(c Category, include []Category) bool {
	for _, ic := range include {
		if c == ic {
			return true
		}
	}
	return false
}

// Segment is the business channel label on a sale, used to split realized
// profit between the two internal stakeholders.
type Segment string

const (
	// SegmentDirect represents direct distribution sales
	SegmentDirect Segment = "DIRECT"
	// SegmentThirdParty represents third-party channel sales
	SegmentThirdParty Segment = "THIRD PARTY"
	// SegmentInternal represents internal stock transfers
	SegmentInternal Segment = "INTERNAL"
	// SegmentExport represents export sales
	SegmentExport Segment = "EXPORT"
)

// Purchase represents a single purchase register line. Records are
// constructed once by the ingestion layer and never mutated afterwards.
type Purchase struct {
	LocationCode string `json:"location_code"`
	ItemTypeCode string `json:"item_type_code"`
	ItemCode     string `json:"item_code"`
	ItemName     string `json:"item_name"`

	// BatchNo is the internal batch number; BatchRefNo links to sales and
	// may be empty when the purchase was never assigned a reference.
	BatchNo    string `json:"batch_no"`
	BatchRefNo string `json:"batch_ref_no,omitempty"`

	VendorCode string `json:"vendor_code"`
	VendorName string `json:"vendor_name"`

	InQty   int     `json:"in_qty"`   // final billed quantity
	InRate  float64 `json:"in_rate"`  // final billed rate
	FreeQty int     `json:"free_qty"` // free units received

	BasicValue    float64 `json:"basic_value"`
	DiscountValue float64 `json:"discount_value"`
	TaxableValue  float64 `json:"taxable_value"`
	GrossValue    float64 `json:"gross_value"`

	IGST float64 `json:"igst"`
	CGST float64 `json:"cgst"`
	SGST float64 `json:"sgst"`

	TransactionDate time.Time  `json:"transaction_date"`
	ExpiryDate      *time.Time `json:"expiry_date,omitempty"`

	UOMCode string `json:"uom_code"`
	HSNCode int    `json:"hsn_code"`
}

// Category derives the purchase category from the item type code prefix.
func (p Purchase) Category() Category {
	return CategoryOf(p.ItemTypeCode)
}

// IsTradeable reports whether the purchase is sellable stock (FG or TR).
func (p Purchase) IsTradeable() bool {
	return p.Category().IsTradeable()
}

// IsCharge reports whether the purchase is a charge item (SV, CO or CG).
func (p Purchase) IsCharge() bool {
	return p.Category().IsCharge()
}

// IsAdvertising reports whether the purchase is a promotional item.
func (p Purchase) IsAdvertising() bool {
	return p.Category().IsAdvertising()
}

// TotalCost returns the billed cost of the purchase (quantity x rate).
func (p Purchase) TotalCost() float64 {
	return float64(p.InQty) * p.InRate
}

// Sale represents a single sales register line. Records are constructed once
// by the ingestion layer and never mutated afterwards.
type Sale struct {
	LocationCode string `json:"location_code"`
	ItemCode     string `json:"item_code"`
	ItemName     string `json:"item_name"`

	// BatchNo links to a purchase BatchRefNo; empty when the sale carries
	// no batch reference at all.
	BatchNo string `json:"batch_no,omitempty"`

	CustomerCode  string `json:"customer_code"`
	CustomerName  string `json:"customer_name"`
	BillNo        string `json:"bill_no"`
	TransactionNo string `json:"transaction_no"`

	SaleQty int     `json:"sale_qty"` // units actually sold
	FreeQty int     `json:"free_qty"` // free units given away
	OutQty  int     `json:"out_qty"`  // total outward quantity
	OutRate float64 `json:"out_rate"` // selling rate per unit

	BasicValue    float64 `json:"basic_value"`
	DiscountValue float64 `json:"discount_value"`
	GrossValue    float64 `json:"gross_value"`

	IGSTAmount float64 `json:"igst_amount"`
	CGSTAmount float64 `json:"cgst_amount"`
	SGSTAmount float64 `json:"sgst_amount"`

	TransactionDate time.Time `json:"transaction_date"`

	// Segment is the business channel of the sale; empty or unrecognized
	// values fall back to the default profit share.
	Segment Segment `json:"segment,omitempty"`
}

// Category derives the sale category from the item code prefix, using the
// same taxonomy as Purchase.
func (s Sale) Category() Category {
	return CategoryOf(s.ItemCode)
}

// IsTradeable reports whether the sale is of sellable stock (FG or TR).
func (s Sale) IsTradeable() bool {
	return s.Category().IsTradeable()
}

// IsCharge reports whether the sale is of a charge item.
func (s Sale) IsCharge() bool {
	return s.Category().IsCharge()
}

// TotalQty returns the sold plus free quantity.
func (s Sale) TotalQty() int {
	return s.SaleQty + s.FreeQty
}

// Revenue returns the gross value net of discount. Gross value includes tax.
func (s Sale) Revenue() float64 {
	return s.GrossValue - s.DiscountValue
}

// FreeQtyLoss returns the revenue foregone on free units at the sale rate.
func (s Sale) FreeQtyLoss() float64 {
	return float64(s.FreeQty) * s.OutRate
}

// NetRevenue returns revenue after discount and free quantity loss.
func (s Sale) NetRevenue() float64 {
	return s.Revenue() - s.FreeQtyLoss()
}
