package recon

// OrphanSales partitions sales whose batch number matches no purchase batch
// reference. Sales with an empty batch number are treated as unlinkable by
// design and excluded from both lists.
type OrphanSales struct {
	Tradeable []Sale `json:"tradeable"`
	Other     []Sale `json:"other"`
}

// Total returns the combined orphan count.
func (o OrphanSales) Total() int {
	return len(o.Tradeable) + len(o.Other)
}

// FindOrphanSales reports sales whose non-empty batch number is absent from
// the index's purchase side, split by category. Each orphan appears in
// exactly one list, chosen by whether its category is tradeable.
func FindOrphanSales(ix *BatchIndex, sales []Sale) OrphanSales {
	var orphans OrphanSales

	for _, s := range sales {
		if s.BatchNo == "" {
			continue
		}
		if _, ok := ix.PurchaseByBatch[s.BatchNo]; ok {
			continue
		}
		if s.IsTradeable() {
			orphans.Tradeable = append(orphans.Tradeable, s)
		} else {
			orphans.Other = append(orphans.Other, s)
		}
	}

	return orphans
}

// ChargeItems returns the charge-category purchases and sales (SV, CO, CG).
func ChargeItems(purchases []Purchase, sales []Sale) ([]Purchase, []Sale) {
	var cp []Purchase
	for _, p := range purchases {
		if p.IsCharge() {
			cp = append(cp, p)
		}
	}
	var cs []Sale
	for _, s := range sales {
		if s.IsCharge() {
			cs = append(cs, s)
		}
	}
	return cp, cs
}

// AdvertisingItems returns the advertising-category purchases and sales.
func AdvertisingItems(purchases []Purchase, sales []Sale) ([]Purchase, []Sale) {
	var ap []Purchase
	for _, p := range purchases {
		if p.IsAdvertising() {
			ap = append(ap, p)
		}
	}
	var as []Sale
	for _, s := range sales {
		if s.Category().IsAdvertising() {
			as = append(as, s)
		}
	}
	return ap, as
}

// ItemFlowSummary aggregates one category's item flow on one side of the
// ledger.
type ItemFlowSummary struct {
	Count      int     `json:"count"`
	TotalQty   int     `json:"total_qty"`
	TotalValue float64 `json:"total_value"`
}

// ChargesReport summarizes charge and advertising purchases and sales by
// category.
type ChargesReport struct {
	Purchases     map[Category]ItemFlowSummary `json:"purchases"`
	Sales         map[Category]ItemFlowSummary `json:"sales"`
	PurchaseItems []Purchase                   `json:"purchase_items"`
	SaleItems     []Sale                       `json:"sale_items"`

	AdvertisingPurchases []Purchase `json:"advertising_purchases,omitempty"`
	AdvertisingSales     []Sale     `json:"advertising_sales,omitempty"`
}

// BuildChargesReport extracts the charge and advertising items and rolls the
// charges up per category. Purchase quantities count billed units in; sale
// quantities count outward units.
func BuildChargesReport(purchases []Purchase, sales []Sale) ChargesReport {
	chargePurchases, chargeSales := ChargeItems(purchases, sales)
	adPurchases, adSales := AdvertisingItems(purchases, sales)

	report := ChargesReport{
		Purchases:            make(map[Category]ItemFlowSummary),
		Sales:                make(map[Category]ItemFlowSummary),
		PurchaseItems:        chargePurchases,
		SaleItems:            chargeSales,
		AdvertisingPurchases: adPurchases,
		AdvertisingSales:     adSales,
	}

	for _, p := range chargePurchases {
		fs := report.Purchases[p.Category()]
		fs.Count++
		fs.TotalQty += p.InQty
		fs.TotalValue += p.GrossValue
		report.Purchases[p.Category()] = fs
	}
	for _, s := range chargeSales {
		fs := report.Sales[s.Category()]
		fs.Count++
		fs.TotalQty += s.OutQty
		fs.TotalValue += s.GrossValue
		report.Sales[s.Category()] = fs
	}

	return report
}
