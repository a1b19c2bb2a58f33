package recon

import (
	"sort"
)

// Default anomaly detection parameters.
const (
	DefaultAnomalyThresholdPct = 50.0
	DefaultAnomalyIterations   = 2
)

// AnomalyParams configures purchase rate anomaly detection.
type AnomalyParams struct {
	// Categories restricts the purchases analyzed; nil defaults to the
	// tradeable categories.
	Categories []Category `json:"categories,omitempty"`
	// ThresholdPct flags rates below this percentage of the group median.
	ThresholdPct float64 `json:"threshold_pct"`
	// Iterations caps the number of refinement passes.
	Iterations int `json:"iterations"`
}

// DefaultAnomalyParams returns the standard detection parameters.
func DefaultAnomalyParams() AnomalyParams {
	return AnomalyParams{
		Categories:   TradeableCategories(),
		ThresholdPct: DefaultAnomalyThresholdPct,
		Iterations:   DefaultAnomalyIterations,
	}
}

// RateAnomaly is a purchase whose rate sits far below its product's peer
// median, suggesting a data-entry error or an intra-company transfer.
type RateAnomaly struct {
	BatchRefNo      string   `json:"batch_ref_no"`
	ItemCode        string   `json:"item_code"`
	ItemName        string   `json:"item_name"`
	Category        Category `json:"category"`
	VendorName      string   `json:"vendor_name"`
	PurchaseRate    float64  `json:"purchase_rate"`
	PurchaseQty     int      `json:"purchase_qty"`
	PurchaseDate    string   `json:"purchase_date,omitempty"`
	MedianRate      float64  `json:"median_rate"`
	RatePctOfMedian float64  `json:"rate_pct_of_median"`
	DifferencePct   float64  `json:"difference_pct"`
	GroupSize       int      `json:"group_size"`
	Pass            int      `json:"pass"`
}

type productKey struct {
	itemCode string
	itemName string
}

// DetectAnomalousRates finds purchase rates that look like data-entry errors
// or non-market transactions.
//
// Detection is deliberately iterative: a severely low outlier drags its
// group's median down and can mask secondary outliers. Each pass excludes
// records flagged in prior passes, recomputes the median over the remainder
// and flags anything below the threshold, stopping early once a pass yields
// nothing new. Groups need at least two unflagged records to provide a
// baseline; single-purchase groups are never flagged, and a zero median
// skips the group for that pass.
func DetectAnomalousRates(purchases []Purchase, params AnomalyParams) []RateAnomaly {
	if params.Categories == nil {
		params.Categories = TradeableCategories()
	}

	groups := make(map[productKey][]Purchase)
	for _, p := range purchases {
		if !categoryInScope(p.Category(), params.Categories) {
			continue
		}
		key := productKey{p.ItemCode, p.ItemName}
		groups[key] = append(groups[key], p)
	}

	keys := make([]productKey, 0, len(groups))
	for key := range groups {
		keys = append(keys, key)
	}
	sort.Slice(keys, func(i, j int) bool {
		if keys[i].itemCode != keys[j].itemCode {
			return keys[i].itemCode < keys[j].itemCode
		}
		return keys[i].itemName < keys[j].itemName
	})

	var anomalies []RateAnomaly
	flagged := make(map[productKey][]bool, len(groups))
	for key, group := range groups {
		flagged[key] = make([]bool, len(group))
	}

	for pass := 1; pass <= params.Iterations; pass++ {
		newFlags := 0

		for _, key := range keys {
			group := groups[key]
			if len(group) < 2 {
				continue
			}

			var remaining []int
			for i := range group {
				if !flagged[key][i] {
					remaining = append(remaining, i)
				}
			}
			if len(remaining) < 2 {
				continue
			}

			rates := make([]float64, 0, len(remaining))
			for _, i := range remaining {
				rates = append(rates, group[i].InRate)
			}
			median := medianOf(rates)
			if median <= 0 {
				continue
			}

			for _, i := range remaining {
				p := group[i]
				ratePct := p.InRate / median * 100
				if ratePct >= params.ThresholdPct {
					continue
				}

				anomaly := RateAnomaly{
					BatchRefNo:      p.BatchRefNo,
					ItemCode:        p.ItemCode,
					ItemName:        p.ItemName,
					Category:        p.Category(),
					VendorName:      p.VendorName,
					PurchaseRate:    p.InRate,
					PurchaseQty:     p.InQty,
					MedianRate:      median,
					RatePctOfMedian: ratePct,
					DifferencePct:   100 - ratePct,
					GroupSize:       len(remaining),
					Pass:            pass,
				}
				if !p.TransactionDate.IsZero() {
					anomaly.PurchaseDate = p.TransactionDate.Format("2006-01-02")
				}
				anomalies = append(anomalies, anomaly)
				flagged[key][i] = true
				newFlags++
			}
		}

		if newFlags == 0 {
			break
		}
	}

	// Most anomalous first; ties resolved by product and batch so repeated
	// runs produce identical output.
	sort.Slice(anomalies, func(i, j int) bool {
		a, b := anomalies[i], anomalies[j]
		if a.DifferencePct != b.DifferencePct {
			return a.DifferencePct > b.DifferencePct
		}
		if a.ItemCode != b.ItemCode {
			return a.ItemCode < b.ItemCode
		}
		return a.BatchRefNo < b.BatchRefNo
	})

	return anomalies
}

// medianOf returns the standard even/odd median. The input is copied before
// sorting so callers never observe a reordered slice.
func medianOf(values []float64) float64 {
	if len(values) == 0 {
		return 0
	}
	sorted := make([]float64, len(values))
	copy(sorted, values)
	sort.Float64s(sorted)

	mid := len(sorted) / 2
	if len(sorted)%2 == 1 {
		return sorted[mid]
	}
	return (sorted[mid-1] + sorted[mid]) / 2
}
