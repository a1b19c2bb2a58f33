package main

import (
	"context"
	"errors"
	"flag"
	"log/slog"
	"os"
	"strings"

	"invrecon/internal/config"
	"invrecon/internal/exporter"
	"invrecon/internal/infrastructure"
	"invrecon/internal/recon"
	"invrecon/internal/services"
)

func main() {
	registersFile := flag.String("registers", "", "purchase/sale register workbook (defaults to configured path)")
	expensesFile := flag.String("expenses", "", "expense ledger workbook (optional)")
	outputDir := flag.String("out", "", "output directory for CSV reports (defaults to configured reports dir)")
	threshold := flag.Float64("threshold", 0, "anomaly threshold as percent of median (defaults to configured value)")
	iterations := flag.Int("iterations", 0, "anomaly detection passes (defaults to configured value)")
	categories := flag.String("categories", "", "comma-separated category filter, e.g. FG,TR")
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		slog.Error("Failed to load configuration", "error", err)
		os.Exit(1)
	}

	// Flags override the configured paths and analysis parameters.
	if *registersFile != "" {
		cfg.Paths.RegistersFile = *registersFile
	}
	if *expensesFile != "" {
		cfg.Paths.ExpensesFile = *expensesFile
	}
	if *outputDir != "" {
		cfg.Paths.ReportsDir = *outputDir
	}
	if *threshold > 0 {
		cfg.Analysis.AnomalyThresholdPct = *threshold
	}
	if *iterations > 0 {
		cfg.Analysis.AnomalyIterations = *iterations
	}

	logger, err := infrastructure.InitializeLogger(cfg.Logging)
	if err != nil {
		slog.Error("Failed to initialize logger", "error", err)
		os.Exit(1)
	}
	defer infrastructure.CloseLogFile()

	var filter []recon.Category
	if *categories != "" {
		filter, err = services.ParseCategories(strings.Split(*categories, ","))
		if err != nil {
			logger.Error("Invalid category filter", "categories", *categories, "error", err)
			os.Exit(1)
		}
	}

	svc, err := services.NewReconService(cfg, logger)
	if err != nil {
		logger.Error("Failed to initialize reconciliation service", "error", err)
		os.Exit(1)
	}

	ctx := context.Background()
	logger.Info("Loading registers", "path", cfg.Paths.RegistersFile)
	if err := svc.LoadRegisters(ctx); err != nil {
		logger.Error("Failed to load registers", "error", err)
		os.Exit(1)
	}

	if err := writeReports(ctx, svc, cfg, filter, logger); err != nil {
		logger.Error("Report generation failed", "error", err)
		os.Exit(1)
	}

	logger.Info("Reports written", "dir", cfg.ReportsDir())
}

// writeReports runs every analysis and exports one CSV per report.
func writeReports(ctx context.Context, svc *services.ReconService, cfg *config.Config, filter []recon.Category, logger *slog.Logger) error {
	re := exporter.NewReportExporter(cfg.ReportsDir())

	profit, err := svc.ProfitReport(ctx, filter)
	if err != nil {
		return err
	}
	if err := re.ExportBatchProfits(profit.Batches, exporter.BatchProfitFile); err != nil {
		return err
	}
	if err := re.ExportCategorySummary(profit.Summary, profit.ByCategory, exporter.CategorySummaryFile); err != nil {
		return err
	}

	anomalies, err := svc.Anomalies(ctx, nil)
	if err != nil {
		return err
	}
	if err := re.ExportAnomalies(anomalies, exporter.AnomalyFile); err != nil {
		return err
	}

	products, err := svc.ProductVariance(ctx, filter)
	if err != nil {
		return err
	}
	if err := re.ExportProducts(products, exporter.ProductFile); err != nil {
		return err
	}

	vendors, err := svc.VendorLeaderboard(ctx)
	if err != nil {
		return err
	}
	if err := re.ExportVendors(vendors.Vendors, exporter.VendorFile); err != nil {
		return err
	}

	orphans, err := svc.Orphans(ctx)
	if err != nil {
		return err
	}
	if err := re.ExportOrphans(orphans, exporter.OrphanFile); err != nil {
		return err
	}

	// Expense reports only when an expense ledger was loaded.
	expenses, err := svc.ExpenseReport(ctx)
	switch {
	case errors.Is(err, services.ErrExpensesNotLoaded):
		logger.Info("No expense ledger loaded, skipping expense reports")
	case err != nil:
		return err
	default:
		if err := re.ExportExpenseMonthly(expenses.ByMonth, exporter.ExpenseMonthlyFile); err != nil {
			return err
		}
		if err := re.ExportExpenseTop(expenses.Top, exporter.ExpenseTopFile); err != nil {
			return err
		}
	}

	return nil
}
