package recon

import (
	"sort"
)

// VendorRateStat summarizes one vendor's purchases of a single product.
type VendorRateStat struct {
	VendorName string  `json:"vendor_name"`
	Purchases  int     `json:"purchases"`
	AvgRate    float64 `json:"avg_rate"`
	TotalQty   int     `json:"total_qty"`
	TotalCost  float64 `json:"total_cost"`
}

// ProductAnalysis holds cross-sectional purchase statistics for one product.
type ProductAnalysis struct {
	ItemCode          string   `json:"item_code"`
	ItemName          string   `json:"item_name"`
	Category          Category `json:"category"`
	TotalPurchases    int      `json:"total_purchases"`
	UniqueVendors     int      `json:"unique_vendors"`
	TotalQtyPurchased int      `json:"total_qty_purchased"`

	MinRate         float64 `json:"min_rate"`
	MaxRate         float64 `json:"max_rate"`
	AvgRate         float64 `json:"avg_rate"`
	RateVariance    float64 `json:"rate_variance"`
	RateVariancePct float64 `json:"rate_variance_pct"`

	// PotentialCost prices every purchased unit at the minimum observed
	// rate; PotentialSavings is what overpaying above that rate cost.
	ActualCost          float64 `json:"actual_cost"`
	PotentialCost       float64 `json:"potential_cost"`
	PotentialSavings    float64 `json:"potential_savings"`
	PotentialSavingsPct float64 `json:"potential_savings_pct"`

	// VendorRates is sorted by vendor name for stable output.
	VendorRates []VendorRateStat `json:"vendor_rates"`
}

// AnalyzeProducts computes per-product rate statistics over the purchases in
// the given categories (nil defaults to tradeable). The result is sorted by
// rate variance percentage descending, the widest spreads first.
func AnalyzeProducts(purchases []Purchase, categories []Category) []ProductAnalysis {
	if categories == nil {
		categories = TradeableCategories()
	}

	groups := make(map[productKey][]Purchase)
	for _, p := range purchases {
		if !categoryInScope(p.Category(), categories) {
			continue
		}
		key := productKey{p.ItemCode, p.ItemName}
		groups[key] = append(groups[key], p)
	}

	analyses := make([]ProductAnalysis, 0, len(groups))
	for key, group := range groups {
		pa := ProductAnalysis{
			ItemCode:       key.itemCode,
			ItemName:       key.itemName,
			Category:       group[0].Category(),
			TotalPurchases: len(group),
		}

		vendorStats := make(map[string]*VendorRateStat)
		rateSum := 0.0
		for i, p := range group {
			if i == 0 || p.InRate < pa.MinRate {
				pa.MinRate = p.InRate
			}
			if i == 0 || p.InRate > pa.MaxRate {
				pa.MaxRate = p.InRate
			}
			rateSum += p.InRate
			pa.TotalQtyPurchased += p.InQty
			pa.ActualCost += p.TotalCost()

			vs, ok := vendorStats[p.VendorName]
			if !ok {
				vs = &VendorRateStat{VendorName: p.VendorName}
				vendorStats[p.VendorName] = vs
			}
			vs.Purchases++
			vs.AvgRate += p.InRate // running sum, averaged below
			vs.TotalQty += p.InQty
			vs.TotalCost += p.TotalCost()
		}

		pa.UniqueVendors = len(vendorStats)
		pa.AvgRate = rateSum / float64(len(group))
		pa.RateVariance = pa.MaxRate - pa.MinRate
		if pa.MinRate > 0 {
			pa.RateVariancePct = pa.RateVariance / pa.MinRate * 100
		}
		pa.PotentialCost = float64(pa.TotalQtyPurchased) * pa.MinRate
		pa.PotentialSavings = pa.ActualCost - pa.PotentialCost
		if pa.ActualCost > 0 {
			pa.PotentialSavingsPct = pa.PotentialSavings / pa.ActualCost * 100
		}

		for _, vs := range vendorStats {
			vs.AvgRate /= float64(vs.Purchases)
			pa.VendorRates = append(pa.VendorRates, *vs)
		}
		sort.Slice(pa.VendorRates, func(i, j int) bool {
			return pa.VendorRates[i].VendorName < pa.VendorRates[j].VendorName
		})

		analyses = append(analyses, pa)
	}

	sort.Slice(analyses, func(i, j int) bool {
		a, b := analyses[i], analyses[j]
		if a.RateVariancePct != b.RateVariancePct {
			return a.RateVariancePct > b.RateVariancePct
		}
		return a.ItemCode < b.ItemCode
	})

	return analyses
}

// VendorProductDeviation records how one vendor's average rate for a product
// compares with that product's overall average.
type VendorProductDeviation struct {
	ItemCode   string  `json:"item_code"`
	ItemName   string  `json:"item_name"`
	VendorRate float64 `json:"vendor_rate"`
	ProductAvg float64 `json:"product_avg"`
	DiffPct    float64 `json:"diff_pct"`
}

// VendorScore ranks a vendor by its systematic deviation from product
// average rates across multi-vendor products.
type VendorScore struct {
	VendorName     string                   `json:"vendor_name"`
	TotalProducts  int                      `json:"total_products"`
	AboveAvgCount  int                      `json:"above_avg_count"`
	BelowAvgCount  int                      `json:"below_avg_count"`
	AboveAvgPct    float64                  `json:"above_avg_pct"`
	AvgRateDiffPct float64                  `json:"avg_rate_diff_pct"`
	Products       []VendorProductDeviation `json:"products"`
}

// VendorLeaderboard ranks vendors by mean deviation from product-average
// rates, restricted to products bought from more than one vendor. The head
// of the list is the most systematically expensive vendor, the tail the
// cheapest. The multi-vendor product count is returned alongside.
func VendorLeaderboard(products []ProductAnalysis) ([]VendorScore, int) {
	multiVendor := 0
	perf := make(map[string]*VendorScore)

	for _, product := range products {
		if product.UniqueVendors <= 1 {
			continue
		}
		multiVendor++

		for _, vs := range product.VendorRates {
			score, ok := perf[vs.VendorName]
			if !ok {
				score = &VendorScore{VendorName: vs.VendorName}
				perf[vs.VendorName] = score
			}

			diffPct := 0.0
			if product.AvgRate > 0 {
				diffPct = (vs.AvgRate - product.AvgRate) / product.AvgRate * 100
			}

			score.Products = append(score.Products, VendorProductDeviation{
				ItemCode:   product.ItemCode,
				ItemName:   product.ItemName,
				VendorRate: vs.AvgRate,
				ProductAvg: product.AvgRate,
				DiffPct:    diffPct,
			})
			score.AvgRateDiffPct += diffPct // running sum, averaged below
			if vs.AvgRate > product.AvgRate {
				score.AboveAvgCount++
			} else {
				score.BelowAvgCount++
			}
		}
	}

	scores := make([]VendorScore, 0, len(perf))
	for _, score := range perf {
		score.TotalProducts = len(score.Products)
		score.AvgRateDiffPct /= float64(score.TotalProducts)
		score.AboveAvgPct = float64(score.AboveAvgCount) / float64(score.TotalProducts) * 100
		scores = append(scores, *score)
	}

	sort.Slice(scores, func(i, j int) bool {
		a, b := scores[i], scores[j]
		if a.AvgRateDiffPct != b.AvgRateDiffPct {
			return a.AvgRateDiffPct > b.AvgRateDiffPct
		}
		return a.VendorName < b.VendorName
	})

	return scores, multiVendor
}
