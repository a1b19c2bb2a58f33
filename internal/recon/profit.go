package recon

import (
	"log/slog"
	"math"
)

// Batch status values reported by BatchProfit.Status.
const (
	StatusNoPurchase = "No Purchase Record"
	StatusNoSales    = "No Sales Yet"
	StatusPartial    = "Partial Sale"
	StatusFullySold  = "Fully Sold"
)

// SaleDetail is the profit breakdown of a single sale within a batch. It
// holds a read-only back-reference to the sale it summarizes together with
// the batch's purchase rate used for costing.
type SaleDetail struct {
	Sale         Sale    `json:"sale"`
	PurchaseRate float64 `json:"purchase_rate"`

	RevenueFromSale   float64 `json:"revenue_from_sale"`
	CostOfGoodsSold   float64 `json:"cost_of_goods_sold"`
	CostDueToFree     float64 `json:"cost_due_to_free"`
	CostDueToDiscount float64 `json:"cost_due_to_discount"`
	FinalProfit       float64 `json:"final_profit"`

	// Profit share resolved from this sale's own segment, not the batch's
	// dominant segment. A batch may mix segments.
	Segment       Segment `json:"segment,omitempty"`
	ShareRatio    string  `json:"profit_share_ratio"`
	PartnerAShare float64 `json:"partner_a_share"`
	PartnerBShare float64 `json:"partner_b_share"`
}

// calculate fills the derived fields from the sale and purchase rate.
func (sd *SaleDetail) calculate(shares ShareConfig) {
	sd.RevenueFromSale = float64(sd.Sale.SaleQty) * sd.Sale.OutRate
	sd.CostOfGoodsSold = float64(sd.Sale.SaleQty) * sd.PurchaseRate
	sd.CostDueToFree = float64(sd.Sale.FreeQty) * sd.PurchaseRate
	sd.CostDueToDiscount = math.Abs(sd.Sale.DiscountValue)
	sd.FinalProfit = sd.RevenueFromSale - sd.CostOfGoodsSold - sd.CostDueToFree - sd.CostDueToDiscount

	sd.Segment = sd.Sale.Segment
	split := shares.SplitFor(sd.Segment)
	sd.ShareRatio = split.Ratio()
	sd.PartnerAShare = sd.FinalProfit * (split.PartnerA / 100)
	sd.PartnerBShare = sd.FinalProfit * (split.PartnerB / 100)
}

// BatchProfit is the reconciliation unit: one instance per distinct batch
// key, holding the linked purchase (if any), the linked sales and every
// derived aggregate. Instances are created per analysis request and never
// persisted.
type BatchProfit struct {
	BatchRefNo string   `json:"batch_ref_no"`
	ItemCode   string   `json:"item_code"`
	ItemName   string   `json:"item_name"`
	Category   Category `json:"category"`

	Purchase     *Purchase `json:"purchase,omitempty"`
	PurchaseQty  int       `json:"purchase_qty"`
	PurchaseRate float64   `json:"purchase_rate"`
	PurchaseCost float64   `json:"purchase_cost"`
	PurchaseDate string    `json:"purchase_date,omitempty"`
	VendorName   string    `json:"vendor_name,omitempty"`

	Sales       []Sale       `json:"-"`
	SaleDetails []SaleDetail `json:"sale_details,omitempty"`

	TotalSaleQty int     `json:"total_sale_qty"`
	TotalFreeQty int     `json:"total_free_qty"`
	TotalOutQty  int     `json:"total_out_qty"`
	AvgSaleRate  float64 `json:"avg_sale_rate"`

	// Gross figures retained for reference; GrossRevenue includes tax.
	GrossRevenue  float64 `json:"gross_revenue"`
	DiscountGiven float64 `json:"discount_given"`
	NetRevenue    float64 `json:"net_revenue"`

	// RevenueFromSales is tax-exclusive: sale quantity times sale rate,
	// summed across sale details.
	RevenueFromSales float64 `json:"revenue_from_sales"`

	// TotalCOGS charges the purchase rate on every unit leaving the batch,
	// sold or free. TotalCostDueToFree is retained only for display; it is
	// already inside TotalCOGS and never subtracted again.
	TotalCOGS              float64 `json:"total_cogs"`
	TotalCostDueToFree     float64 `json:"total_cost_due_to_free"`
	TotalCostDueToDiscount float64 `json:"total_cost_due_to_discount"`

	Profit       float64 `json:"profit"`
	ProfitMargin float64 `json:"profit_margin"`

	// Segment is the most frequent segment among the batch's sales, ties
	// broken by first occurrence in sale order.
	Segment       Segment `json:"segment,omitempty"`
	ShareRatio    string  `json:"profit_share_ratio"`
	PartnerAShare float64 `json:"partner_a_share"`
	PartnerBShare float64 `json:"partner_b_share"`

	HasPurchase bool `json:"has_purchase"`
	HasSales    bool `json:"has_sales"`
}

// RemainingQty returns the purchased quantity not yet moved out. A negative
// value signals an over-sold or inconsistent batch and is surfaced as-is.
func (bp *BatchProfit) RemainingQty() int {
	return bp.PurchaseQty - bp.TotalOutQty
}

// IsComplete reports whether the batch has both purchase and sales data.
func (bp *BatchProfit) IsComplete() bool {
	return bp.HasPurchase && bp.HasSales
}

// Status classifies the batch. The sentinel states are checked before the
// quantity comparison.
func (bp *BatchProfit) Status() string {
	if !bp.HasPurchase {
		return StatusNoPurchase
	}
	if !bp.HasSales {
		return StatusNoSales
	}
	if bp.RemainingQty() > 0 {
		return StatusPartial
	}
	return StatusFullySold
}

// calculate derives every aggregate from the linked purchase and sales.
func (bp *BatchProfit) calculate(shares ShareConfig) {
	if bp.Purchase != nil {
		bp.HasPurchase = true
		bp.PurchaseQty = bp.Purchase.InQty
		bp.PurchaseRate = bp.Purchase.InRate
		bp.PurchaseCost = bp.Purchase.TotalCost()
		if !bp.Purchase.TransactionDate.IsZero() {
			bp.PurchaseDate = bp.Purchase.TransactionDate.Format("2006-01-02")
		}
		bp.VendorName = bp.Purchase.VendorName
	}

	if len(bp.Sales) > 0 {
		bp.HasSales = true

		bp.SaleDetails = make([]SaleDetail, 0, len(bp.Sales))
		for _, sale := range bp.Sales {
			sd := SaleDetail{Sale: sale, PurchaseRate: bp.PurchaseRate}
			sd.calculate(shares)
			bp.SaleDetails = append(bp.SaleDetails, sd)
		}

		for _, s := range bp.Sales {
			bp.TotalSaleQty += s.SaleQty
			bp.TotalFreeQty += s.FreeQty
			bp.TotalOutQty += s.OutQty
			bp.GrossRevenue += s.GrossValue
			bp.DiscountGiven += s.DiscountValue
		}
		bp.NetRevenue = bp.GrossRevenue - bp.DiscountGiven

		for _, sd := range bp.SaleDetails {
			bp.RevenueFromSales += sd.RevenueFromSale
			bp.TotalCostDueToDiscount += sd.CostDueToDiscount
		}
		bp.TotalCOGS = bp.PurchaseRate * float64(bp.TotalOutQty)
		bp.TotalCostDueToFree = bp.PurchaseRate * float64(bp.TotalFreeQty)

		if bp.TotalSaleQty > 0 {
			bp.AvgSaleRate = bp.RevenueFromSales / float64(bp.TotalSaleQty)
		}
	}

	bp.Profit = bp.RevenueFromSales - bp.TotalCOGS - bp.TotalCostDueToDiscount

	bp.Segment = dominantSegment(bp.Sales)

	if len(bp.SaleDetails) > 0 {
		for _, sd := range bp.SaleDetails {
			bp.PartnerAShare += sd.PartnerAShare
			bp.PartnerBShare += sd.PartnerBShare
		}
		// The displayed ratio is reverse-derived from the share totals so
		// mixed-segment batches report their effective split.
		if bp.Profit != 0 {
			split := ShareSplit{
				PartnerA: bp.PartnerAShare / bp.Profit * 100,
				PartnerB: bp.PartnerBShare / bp.Profit * 100,
			}
			bp.ShareRatio = split.Ratio()
		} else {
			bp.ShareRatio = "0/0"
		}
	} else {
		bp.ShareRatio = "0/0"
	}

	if bp.RevenueFromSales > 0 {
		bp.ProfitMargin = bp.Profit / bp.RevenueFromSales * 100
	}
}

// dominantSegment returns the most frequent segment among the sales, ties
// broken by the segment that first reached the winning count in sale order.
func dominantSegment(sales []Sale) Segment {
	if len(sales) == 0 {
		return ""
	}
	counts := make(map[Segment]int)
	var best Segment
	bestCount := 0
	for _, s := range sales {
		counts[s.Segment]++
		if counts[s.Segment] > bestCount {
			bestCount = counts[s.Segment]
			best = s.Segment
		}
	}
	return best
}

// Decomposer emits one profit record per qualifying batch in the index,
// using a validated profit-share configuration.
type Decomposer struct {
	index  *BatchIndex
	shares ShareConfig
	logger *slog.Logger
}

// NewDecomposer creates a profit decomposer. The share configuration is
// validated eagerly; a misconfigured split is rejected here, never
// discovered mid-calculation.
func NewDecomposer(index *BatchIndex, shares ShareConfig, logger *slog.Logger) (*Decomposer, error) {
	if logger == nil {
		logger = slog.Default()
	}
	if err := shares.Validate(); err != nil {
		return nil, err
	}
	return &Decomposer{index: index, shares: shares, logger: logger}, nil
}

// BatchProfits computes the profit breakdown for every batch whose category
// is in scope. The category is resolved from the purchase when present, else
// from the first sale; batches yielding neither are dropped. A nil filter
// defaults to the tradeable categories.
func (d *Decomposer) BatchProfits(include []Category) []BatchProfit {
	if include == nil {
		include = TradeableCategories()
	}

	profits := make([]BatchProfit, 0, len(d.index.AllBatches))
	for _, ref := range d.index.AllBatches {
		var purchase *Purchase
		if p, ok := d.index.PurchaseByBatch[ref]; ok {
			p := p
			purchase = &p
		}
		sales := d.index.SalesByBatch[ref]

		var category Category
		var itemCode, itemName string
		switch {
		case purchase != nil:
			category = purchase.Category()
			itemCode = purchase.ItemCode
			itemName = purchase.ItemName
		case len(sales) > 0:
			category = sales[0].Category()
			itemCode = sales[0].ItemCode
			itemName = sales[0].ItemName
		default:
			continue
		}

		if !categoryInScope(category, include) {
			continue
		}

		bp := BatchProfit{
			BatchRefNo: ref,
			ItemCode:   itemCode,
			ItemName:   itemName,
			Category:   category,
			Purchase:   purchase,
			Sales:      sales,
		}
		bp.calculate(d.shares)
		profits = append(profits, bp)
	}

	d.logger.Debug("batch profits calculated",
		"batches_in_index", len(d.index.AllBatches),
		"batches_in_scope", len(profits),
	)
	return profits
}
