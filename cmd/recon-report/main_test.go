package main

import (
	"context"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"invrecon/internal/config"
	"invrecon/internal/exporter"
	"invrecon/internal/ingest"
	"invrecon/internal/recon"
	"invrecon/internal/services"
)

func testService(t *testing.T, cfg *config.Config) *services.ReconService {
	t.Helper()

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	svc, err := services.NewReconService(cfg, logger)
	require.NoError(t, err)

	registers := &ingest.Registers{
		Purchases: []recon.Purchase{
			{
				ItemTypeCode:    "FG",
				ItemCode:        "FG001",
				ItemName:        "Widget",
				BatchRefNo:      "BR-001",
				VendorName:      "Acme Traders",
				InQty:           100,
				InRate:          10,
				TransactionDate: time.Date(2025, 4, 1, 0, 0, 0, 0, time.UTC),
			},
			{
				ItemTypeCode:    "FG",
				ItemCode:        "FG001",
				ItemName:        "Widget",
				BatchRefNo:      "BR-002",
				VendorName:      "Globex",
				InQty:           50,
				InRate:          16,
				TransactionDate: time.Date(2025, 4, 5, 0, 0, 0, 0, time.UTC),
			},
		},
		Sales: []recon.Sale{
			{
				ItemCode:        "FG001",
				ItemName:        "Widget",
				BatchNo:         "BR-001",
				SaleQty:         40,
				OutQty:          40,
				OutRate:         15,
				Segment:         recon.SegmentDirect,
				TransactionDate: time.Date(2025, 4, 10, 0, 0, 0, 0, time.UTC),
			},
		},
	}
	require.NoError(t, svc.UseRegisters(registers, nil))
	return svc
}

func TestWriteReports(t *testing.T) {
	dir := t.TempDir()
	cfg := config.Default()
	cfg.Paths.ReportsDir = dir

	svc := testService(t, cfg)
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	require.NoError(t, writeReports(context.Background(), svc, cfg, nil, logger))

	for _, name := range []string{
		exporter.BatchProfitFile,
		exporter.CategorySummaryFile,
		exporter.AnomalyFile,
		exporter.ProductFile,
		exporter.VendorFile,
		exporter.OrphanFile,
	} {
		_, err := os.Stat(filepath.Join(dir, name))
		assert.NoError(t, err, name)
	}

	// No expense ledger loaded, so the expense reports are skipped.
	_, err := os.Stat(filepath.Join(dir, exporter.ExpenseMonthlyFile))
	assert.True(t, os.IsNotExist(err))
}

func TestWriteReportsCategoryFilter(t *testing.T) {
	dir := t.TempDir()
	cfg := config.Default()
	cfg.Paths.ReportsDir = dir

	svc := testService(t, cfg)
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	filter := []recon.Category{recon.CategoryTR}
	require.NoError(t, writeReports(context.Background(), svc, cfg, filter, logger))

	data, err := os.ReadFile(filepath.Join(dir, exporter.BatchProfitFile))
	require.NoError(t, err)
	assert.NotContains(t, string(data), "BR-001")
}
