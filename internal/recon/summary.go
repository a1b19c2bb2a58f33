package recon

// CategorySummary aggregates batch profits for a single category.
type CategorySummary struct {
	Category          Category `json:"category"`
	TotalBatches      int      `json:"total_batches"`
	TotalPurchaseCost float64  `json:"total_purchase_cost"`
	TotalRevenue      float64  `json:"total_revenue"`
	TotalProfit       float64  `json:"total_profit"`
	AvgProfitMargin   float64  `json:"avg_profit_margin"`
	BatchesWithProfit int      `json:"batches_with_profit"`
	BatchesWithLoss   int      `json:"batches_with_loss"`
}

// SummarizeByCategory rolls batch profits up into per-category totals.
func SummarizeByCategory(profits []BatchProfit) map[Category]CategorySummary {
	summary := make(map[Category]CategorySummary)

	for _, bp := range profits {
		cs := summary[bp.Category]
		cs.Category = bp.Category
		cs.TotalBatches++
		cs.TotalPurchaseCost += bp.PurchaseCost
		cs.TotalRevenue += bp.RevenueFromSales
		cs.TotalProfit += bp.Profit
		if bp.Profit > 0 {
			cs.BatchesWithProfit++
		} else {
			cs.BatchesWithLoss++
		}
		summary[bp.Category] = cs
	}

	for cat, cs := range summary {
		if cs.TotalRevenue > 0 {
			cs.AvgProfitMargin = cs.TotalProfit / cs.TotalRevenue * 100
			summary[cat] = cs
		}
	}

	return summary
}

// OverallSummary aggregates batch profits across every category in scope.
type OverallSummary struct {
	TotalBatches      int     `json:"total_batches"`
	TotalPurchaseCost float64 `json:"total_purchase_cost"`
	TotalRevenue      float64 `json:"total_revenue"`
	TotalProfit       float64 `json:"total_profit"`
	AvgProfitMargin   float64 `json:"avg_profit_margin"`
	BatchesWithProfit int     `json:"batches_with_profit"`
	BatchesWithLoss   int     `json:"batches_with_loss"`
	BatchesBreakeven  int     `json:"batches_breakeven"`
}

// Summarize computes the overall profit summary. Breakeven batches are those
// with exactly zero profit.
func Summarize(profits []BatchProfit) OverallSummary {
	var sum OverallSummary
	sum.TotalBatches = len(profits)

	for _, bp := range profits {
		sum.TotalPurchaseCost += bp.PurchaseCost
		sum.TotalRevenue += bp.RevenueFromSales
		sum.TotalProfit += bp.Profit
		switch {
		case bp.Profit > 0:
			sum.BatchesWithProfit++
		case bp.Profit < 0:
			sum.BatchesWithLoss++
		}
	}
	sum.BatchesBreakeven = sum.TotalBatches - sum.BatchesWithProfit - sum.BatchesWithLoss

	if sum.TotalRevenue > 0 {
		sum.AvgProfitMargin = sum.TotalProfit / sum.TotalRevenue * 100
	}

	return sum
}
