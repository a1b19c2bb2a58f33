package exporter

import (
	"sort"

	"invrecon/internal/expense"
	"invrecon/internal/recon"
)

// Default report file names written under the reports directory.
const (
	BatchProfitFile     = "batch_profit.csv"
	CategorySummaryFile = "category_summary.csv"
	AnomalyFile         = "rate_anomalies.csv"
	ProductFile         = "product_variance.csv"
	VendorFile          = "vendor_leaderboard.csv"
	OrphanFile          = "orphan_sales.csv"
	ExpenseMonthlyFile  = "expense_monthly.csv"
	ExpenseTopFile      = "expense_top_particulars.csv"
)

// ReportExporter turns reconciliation results into CSV report files.
type ReportExporter struct {
	csvWriter *CSVWriter
}

// NewReportExporter creates a report exporter writing under reportsDir.
func NewReportExporter(reportsDir string) *ReportExporter {
	return &ReportExporter{
		csvWriter: NewCSVWriter(reportsDir),
	}
}

// ExportBatchProfits writes one row per batch with the full profit breakdown.
func (r *ReportExporter) ExportBatchProfits(profits []recon.BatchProfit, filePath string) error {
	headers := []string{
		"BatchRefNo", "ItemCode", "ItemName", "Category", "Status",
		"VendorName", "PurchaseDate", "PurchaseQty", "PurchaseRate", "PurchaseCost",
		"SaleQty", "FreeQty", "OutQty", "AvgSaleRate",
		"Revenue", "COGS", "CostDueToFree", "CostDueToDiscount",
		"Profit", "ProfitMarginPct", "ShareRatio", "PartnerAShare", "PartnerBShare",
	}

	records := make([][]string, 0, len(profits))
	for i := range profits {
		bp := &profits[i]
		records = append(records, []string{
			bp.BatchRefNo,
			bp.ItemCode,
			bp.ItemName,
			string(bp.Category),
			bp.Status(),
			bp.VendorName,
			bp.PurchaseDate,
			formatInt(bp.PurchaseQty),
			formatFloat(bp.PurchaseRate),
			formatFloat(bp.PurchaseCost),
			formatInt(bp.TotalSaleQty),
			formatInt(bp.TotalFreeQty),
			formatInt(bp.TotalOutQty),
			formatFloat(bp.AvgSaleRate),
			formatFloat(bp.RevenueFromSales),
			formatFloat(bp.TotalCOGS),
			formatFloat(bp.TotalCostDueToFree),
			formatFloat(bp.TotalCostDueToDiscount),
			formatFloat(bp.Profit),
			formatFloat(bp.ProfitMargin),
			bp.ShareRatio,
			formatFloat(bp.PartnerAShare),
			formatFloat(bp.PartnerBShare),
		})
	}

	return r.csvWriter.WriteSimpleCSV(filePath, headers, records)
}

// ExportCategorySummary writes the per-category rollup with an overall
// totals row at the end. Categories are sorted for stable output.
func (r *ReportExporter) ExportCategorySummary(summary recon.OverallSummary, byCategory map[recon.Category]recon.CategorySummary, filePath string) error {
	headers := []string{
		"Category", "TotalBatches", "TotalPurchaseCost", "TotalRevenue",
		"TotalProfit", "AvgProfitMarginPct", "BatchesWithProfit", "BatchesWithLoss",
	}

	categories := make([]string, 0, len(byCategory))
	for cat := range byCategory {
		categories = append(categories, string(cat))
	}
	sort.Strings(categories)

	records := make([][]string, 0, len(categories)+1)
	for _, cat := range categories {
		cs := byCategory[recon.Category(cat)]
		records = append(records, []string{
			cat,
			formatInt(cs.TotalBatches),
			formatFloat(cs.TotalPurchaseCost),
			formatFloat(cs.TotalRevenue),
			formatFloat(cs.TotalProfit),
			formatFloat(cs.AvgProfitMargin),
			formatInt(cs.BatchesWithProfit),
			formatInt(cs.BatchesWithLoss),
		})
	}
	records = append(records, []string{
		"TOTAL",
		formatInt(summary.TotalBatches),
		formatFloat(summary.TotalPurchaseCost),
		formatFloat(summary.TotalRevenue),
		formatFloat(summary.TotalProfit),
		formatFloat(summary.AvgProfitMargin),
		formatInt(summary.BatchesWithProfit),
		formatInt(summary.BatchesWithLoss),
	})

	return r.csvWriter.WriteSimpleCSV(filePath, headers, records)
}

// ExportAnomalies writes the flagged purchase rates.
func (r *ReportExporter) ExportAnomalies(anomalies []recon.RateAnomaly, filePath string) error {
	headers := []string{
		"BatchRefNo", "ItemCode", "ItemName", "Category", "VendorName",
		"PurchaseDate", "PurchaseQty", "PurchaseRate", "MedianRate",
		"RatePctOfMedian", "DifferencePct", "GroupSize", "Pass",
	}

	records := make([][]string, 0, len(anomalies))
	for _, a := range anomalies {
		records = append(records, []string{
			a.BatchRefNo,
			a.ItemCode,
			a.ItemName,
			string(a.Category),
			a.VendorName,
			a.PurchaseDate,
			formatInt(a.PurchaseQty),
			formatFloat(a.PurchaseRate),
			formatFloat(a.MedianRate),
			formatFloat(a.RatePctOfMedian),
			formatFloat(a.DifferencePct),
			formatInt(a.GroupSize),
			formatInt(a.Pass),
		})
	}

	return r.csvWriter.WriteSimpleCSV(filePath, headers, records)
}

// ExportProducts writes the per-product rate variance analysis.
func (r *ReportExporter) ExportProducts(products []recon.ProductAnalysis, filePath string) error {
	headers := []string{
		"ItemCode", "ItemName", "Category", "TotalPurchases", "UniqueVendors",
		"TotalQtyPurchased", "MinRate", "MaxRate", "AvgRate",
		"RateVariance", "RateVariancePct",
		"ActualCost", "PotentialCost", "PotentialSavings", "PotentialSavingsPct",
	}

	records := make([][]string, 0, len(products))
	for _, p := range products {
		records = append(records, []string{
			p.ItemCode,
			p.ItemName,
			string(p.Category),
			formatInt(p.TotalPurchases),
			formatInt(p.UniqueVendors),
			formatInt(p.TotalQtyPurchased),
			formatFloat(p.MinRate),
			formatFloat(p.MaxRate),
			formatFloat(p.AvgRate),
			formatFloat(p.RateVariance),
			formatFloat(p.RateVariancePct),
			formatFloat(p.ActualCost),
			formatFloat(p.PotentialCost),
			formatFloat(p.PotentialSavings),
			formatFloat(p.PotentialSavingsPct),
		})
	}

	return r.csvWriter.WriteSimpleCSV(filePath, headers, records)
}

// ExportVendors writes the vendor pricing leaderboard, most expensive first.
func (r *ReportExporter) ExportVendors(vendors []recon.VendorScore, filePath string) error {
	headers := []string{
		"Rank", "VendorName", "TotalProducts", "AboveAvgCount", "BelowAvgCount",
		"AboveAvgPct", "AvgRateDiffPct",
	}

	records := make([][]string, 0, len(vendors))
	for i, v := range vendors {
		records = append(records, []string{
			formatInt(i + 1),
			v.VendorName,
			formatInt(v.TotalProducts),
			formatInt(v.AboveAvgCount),
			formatInt(v.BelowAvgCount),
			formatFloat(v.AboveAvgPct),
			formatFloat(v.AvgRateDiffPct),
		})
	}

	return r.csvWriter.WriteSimpleCSV(filePath, headers, records)
}

// ExportOrphans writes sales whose batch number has no purchase record,
// tradeable items first.
func (r *ReportExporter) ExportOrphans(orphans recon.OrphanSales, filePath string) error {
	headers := []string{
		"Bucket", "BatchNo", "ItemCode", "ItemName", "Category",
		"CustomerName", "BillNo", "TransactionDate",
		"SaleQty", "FreeQty", "OutRate", "GrossValue",
	}

	records := make([][]string, 0, orphans.Total())
	appendSale := func(bucket string, s recon.Sale) {
		records = append(records, []string{
			bucket,
			s.BatchNo,
			s.ItemCode,
			s.ItemName,
			string(s.Category()),
			s.CustomerName,
			s.BillNo,
			formatDate(s.TransactionDate),
			formatInt(s.SaleQty),
			formatInt(s.FreeQty),
			formatFloat(s.OutRate),
			formatFloat(s.GrossValue),
		})
	}
	for _, s := range orphans.Tradeable {
		appendSale("tradeable", s)
	}
	for _, s := range orphans.Other {
		appendSale("other", s)
	}

	return r.csvWriter.WriteSimpleCSV(filePath, headers, records)
}

// ExportExpenseMonthly writes the monthly expense trend in chronological order.
func (r *ReportExporter) ExportExpenseMonthly(monthly []expense.MonthRollup, filePath string) error {
	headers := []string{"Month", "MonthName", "Count", "TotalDebit", "TotalCredit", "NetExpense"}

	records := make([][]string, 0, len(monthly))
	for _, m := range monthly {
		records = append(records, []string{
			m.MonthKey,
			m.MonthName,
			formatInt(m.Count),
			formatFloat(m.TotalDebit),
			formatFloat(m.TotalCredit),
			formatFloat(m.NetExpense),
		})
	}

	return r.csvWriter.WriteSimpleCSV(filePath, headers, records)
}

// ExportExpenseTop writes the largest expense heads by net amount.
func (r *ReportExporter) ExportExpenseTop(top []expense.ParticularRollup, filePath string) error {
	headers := []string{"Rank", "Particular", "Count", "TotalDebit", "TotalCredit", "NetExpense"}

	records := make([][]string, 0, len(top))
	for i, p := range top {
		records = append(records, []string{
			formatInt(i + 1),
			p.Particular,
			formatInt(p.Count),
			formatFloat(p.TotalDebit),
			formatFloat(p.TotalCredit),
			formatFloat(p.NetExpense),
		})
	}

	return r.csvWriter.WriteSimpleCSV(filePath, headers, records)
}
