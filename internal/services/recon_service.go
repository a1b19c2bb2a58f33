package services

import (
	"context"
	"fmt"
	"log/slog"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"invrecon/internal/config"
	"invrecon/internal/expense"
	"invrecon/internal/ingest"
	"invrecon/internal/recon"
)

// ReconService owns the loaded register data and runs the analyses over it.
type ReconService struct {
	cfg    *config.Config
	shares recon.ShareConfig
	params recon.AnomalyParams
	logger *slog.Logger

	mu         sync.RWMutex
	registers  *ingest.Registers
	expenses   []expense.Expense
	index      *recon.BatchIndex
	decomposer *recon.Decomposer
	loadedAt   time.Time
}

// NewReconService creates a new reconciliation service. The profit share
// table is materialized and validated up front so a bad table fails at
// construction.
func NewReconService(cfg *config.Config, logger *slog.Logger) (*ReconService, error) {
	if logger == nil {
		logger = slog.Default()
	}

	shares, err := cfg.ShareConfig()
	if err != nil {
		return nil, fmt.Errorf("recon service: %w", err)
	}

	return &ReconService{
		cfg:    cfg,
		shares: shares,
		params: cfg.AnomalyParams(),
		logger: logger.With(slog.String("component", "recon_service")),
	}, nil
}

// LoadRegisters reads the configured register workbook (and the expense
// ledger, when configured) and replaces the in-memory data set.
func (s *ReconService) LoadRegisters(ctx context.Context) error {
	start := time.Now()

	registers, err := ingest.LoadRegisters(s.cfg.Paths.RegistersFile, s.logger)
	if err != nil {
		return fmt.Errorf("load registers: %w", err)
	}

	var expenses []expense.Expense
	if path := s.cfg.Paths.ExpensesFile; path != "" {
		expenses, err = ingest.LoadExpenses(path, s.logger)
		if err != nil {
			// The expense ledger is optional; analyses over the registers
			// still work without it.
			s.logger.WarnContext(ctx, "expense ledger not loaded",
				slog.String("path", path),
				slog.String("error", err.Error()))
		}
	}

	if err := s.UseRegisters(registers, expenses); err != nil {
		return err
	}

	s.logger.InfoContext(ctx, "registers loaded",
		slog.Int("purchases", len(registers.Purchases)),
		slog.Int("sales", len(registers.Sales)),
		slog.Int("expenses", len(expenses)),
		slog.Duration("duration", time.Since(start)))

	return nil
}

// UseRegisters installs an already-parsed data set. Callers that load the
// workbook themselves (the CLI, tests) use this instead of LoadRegisters.
func (s *ReconService) UseRegisters(registers *ingest.Registers, expenses []expense.Expense) error {
	if registers == nil {
		return ErrInvalidInput
	}

	index := recon.BuildBatchIndex(registers.Purchases, registers.Sales)
	decomposer, err := recon.NewDecomposer(index, s.shares, s.logger)
	if err != nil {
		return fmt.Errorf("use registers: %w", err)
	}

	s.mu.Lock()
	s.registers = registers
	s.expenses = expenses
	s.index = index
	s.decomposer = decomposer
	s.loadedAt = time.Now()
	s.mu.Unlock()

	return nil
}

// Loaded reports whether register data is available.
func (s *ReconService) Loaded() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.registers != nil
}

// LoadedAt returns the time the current data set was installed.
func (s *ReconService) LoadedAt() time.Time {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.loadedAt
}

// snapshot returns the current data set under the read lock.
func (s *ReconService) snapshot() (*ingest.Registers, []expense.Expense, *recon.BatchIndex, *recon.Decomposer, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.registers == nil {
		return nil, nil, nil, nil, ErrRegistersNotLoaded
	}
	return s.registers, s.expenses, s.index, s.decomposer, nil
}

// ProfitReport is the batch profit decomposition over the loaded registers.
type ProfitReport struct {
	GeneratedAt time.Time                                `json:"generated_at"`
	Summary     recon.OverallSummary                     `json:"summary"`
	ByCategory  map[recon.Category]recon.CategorySummary `json:"by_category"`
	Batches     []recon.BatchProfit                      `json:"batches"`
}

// ProfitReport decomposes every batch in the given categories. A nil
// category list means all tradeable categories.
func (s *ReconService) ProfitReport(ctx context.Context, categories []recon.Category) (*ProfitReport, error) {
	_, _, _, decomposer, err := s.snapshot()
	if err != nil {
		return nil, err
	}

	profits := decomposer.BatchProfits(categories)

	return &ProfitReport{
		GeneratedAt: time.Now(),
		Summary:     recon.Summarize(profits),
		ByCategory:  recon.SummarizeByCategory(profits),
		Batches:     profits,
	}, nil
}

// BatchProfit decomposes a single batch by its purchase reference.
func (s *ReconService) BatchProfit(ctx context.Context, batchRefNo string) (recon.BatchProfit, error) {
	_, _, _, decomposer, err := s.snapshot()
	if err != nil {
		return recon.BatchProfit{}, err
	}

	for _, bp := range decomposer.BatchProfits(nil) {
		if bp.BatchRefNo == batchRefNo {
			return bp, nil
		}
	}
	return recon.BatchProfit{}, fmt.Errorf("batch %s: %w", batchRefNo, ErrBatchNotFound)
}

// Anomalies runs the iterative median sweep over the loaded purchases.
// A nil params argument uses the configured defaults.
func (s *ReconService) Anomalies(ctx context.Context, params *recon.AnomalyParams) ([]recon.RateAnomaly, error) {
	registers, _, _, _, err := s.snapshot()
	if err != nil {
		return nil, err
	}

	p := s.params
	if params != nil {
		p = *params
	}
	return recon.DetectAnomalousRates(registers.Purchases, p), nil
}

// ProductVariance analyzes purchase rate spread per product.
func (s *ReconService) ProductVariance(ctx context.Context, categories []recon.Category) ([]recon.ProductAnalysis, error) {
	registers, _, _, _, err := s.snapshot()
	if err != nil {
		return nil, err
	}
	return recon.AnalyzeProducts(registers.Purchases, categories), nil
}

// VendorReport ranks vendors by their average rate deviation on products
// sourced from more than one vendor.
type VendorReport struct {
	GeneratedAt      time.Time           `json:"generated_at"`
	MultiVendorCount int                 `json:"multi_vendor_count"`
	Vendors          []recon.VendorScore `json:"vendors"`
}

// VendorLeaderboard builds the vendor pricing leaderboard.
func (s *ReconService) VendorLeaderboard(ctx context.Context) (*VendorReport, error) {
	products, err := s.ProductVariance(ctx, nil)
	if err != nil {
		return nil, err
	}

	vendors, multiVendor := recon.VendorLeaderboard(products)
	return &VendorReport{
		GeneratedAt:      time.Now(),
		MultiVendorCount: multiVendor,
		Vendors:          vendors,
	}, nil
}

// Orphans partitions sales whose batch has no purchase record.
func (s *ReconService) Orphans(ctx context.Context) (recon.OrphanSales, error) {
	registers, _, index, _, err := s.snapshot()
	if err != nil {
		return recon.OrphanSales{}, err
	}
	return recon.FindOrphanSales(index, registers.Sales), nil
}

// Charges summarizes the non-tradeable charge and advertising items.
func (s *ReconService) Charges(ctx context.Context) (recon.ChargesReport, error) {
	registers, _, _, _, err := s.snapshot()
	if err != nil {
		return recon.ChargesReport{}, err
	}
	return recon.BuildChargesReport(registers.Purchases, registers.Sales), nil
}

// ExpenseReport is the expense ledger rolled up along its axes.
type ExpenseReport struct {
	GeneratedAt time.Time                  `json:"generated_at"`
	Summary     expense.Summary            `json:"summary"`
	ByGroup     map[string]expense.Rollup  `json:"by_group"`
	ByCategory  map[string]expense.Rollup  `json:"by_category"`
	ByMonth     []expense.MonthRollup      `json:"by_month"`
	Top         []expense.ParticularRollup `json:"top_particulars"`
}

// ExpenseTopN is how many particulars the expense report ranks.
const ExpenseTopN = 15

// ExpenseReport rolls up the loaded expense ledger.
func (s *ReconService) ExpenseReport(ctx context.Context) (*ExpenseReport, error) {
	_, expenses, _, _, err := s.snapshot()
	if err != nil {
		return nil, err
	}
	if len(expenses) == 0 {
		return nil, ErrExpensesNotLoaded
	}

	return &ExpenseReport{
		GeneratedAt: time.Now(),
		Summary:     expense.Summarize(expenses),
		ByGroup:     expense.ByGroup(expenses),
		ByCategory:  expense.ByCategory(expenses),
		ByMonth:     expense.ByMonth(expenses),
		Top:         expense.TopParticulars(expenses, ExpenseTopN, nil),
	}, nil
}

// AnalysisReport bundles every analysis from one run over the same data set.
type AnalysisReport struct {
	RunID       string                  `json:"run_id"`
	GeneratedAt time.Time               `json:"generated_at"`
	Profit      *ProfitReport           `json:"profit"`
	Anomalies   []recon.RateAnomaly     `json:"anomalies"`
	Products    []recon.ProductAnalysis `json:"products"`
	Vendors     *VendorReport           `json:"vendors"`
	Orphans     recon.OrphanSales       `json:"orphans"`
	Charges     recon.ChargesReport     `json:"charges"`
	Expenses    *ExpenseReport          `json:"expenses,omitempty"`
}

// RunAll executes every analysis concurrently over the loaded data set.
// One snapshot is taken up front and every analysis reads from it, so a
// reload landing mid-run cannot mix two data sets into one report.
func (s *ReconService) RunAll(ctx context.Context) (*AnalysisReport, error) {
	registers, expenses, index, decomposer, err := s.snapshot()
	if err != nil {
		return nil, err
	}

	report := &AnalysisReport{
		RunID:       uuid.New().String(),
		GeneratedAt: time.Now(),
	}

	start := time.Now()
	g, ctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		if err := ctx.Err(); err != nil {
			return err
		}
		profits := decomposer.BatchProfits(nil)
		report.Profit = &ProfitReport{
			GeneratedAt: report.GeneratedAt,
			Summary:     recon.Summarize(profits),
			ByCategory:  recon.SummarizeByCategory(profits),
			Batches:     profits,
		}
		return nil
	})
	g.Go(func() error {
		if err := ctx.Err(); err != nil {
			return err
		}
		report.Anomalies = recon.DetectAnomalousRates(registers.Purchases, s.params)
		return nil
	})
	g.Go(func() error {
		if err := ctx.Err(); err != nil {
			return err
		}
		products := recon.AnalyzeProducts(registers.Purchases, nil)
		vendors, multiVendor := recon.VendorLeaderboard(products)
		report.Products = products
		report.Vendors = &VendorReport{
			GeneratedAt:      report.GeneratedAt,
			MultiVendorCount: multiVendor,
			Vendors:          vendors,
		}
		return nil
	})
	g.Go(func() error {
		if err := ctx.Err(); err != nil {
			return err
		}
		report.Orphans = recon.FindOrphanSales(index, registers.Sales)
		report.Charges = recon.BuildChargesReport(registers.Purchases, registers.Sales)
		return nil
	})
	if len(expenses) > 0 {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			report.Expenses = &ExpenseReport{
				GeneratedAt: report.GeneratedAt,
				Summary:     expense.Summarize(expenses),
				ByGroup:     expense.ByGroup(expenses),
				ByCategory:  expense.ByCategory(expenses),
				ByMonth:     expense.ByMonth(expenses),
				Top:         expense.TopParticulars(expenses, ExpenseTopN, nil),
			}
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}

	s.logger.InfoContext(ctx, "analysis run complete",
		slog.String("run_id", report.RunID),
		slog.Int("batches", len(report.Profit.Batches)),
		slog.Int("anomalies", len(report.Anomalies)),
		slog.Duration("duration", time.Since(start)))

	return report, nil
}

// ParseCategories converts user-supplied category codes. Codes are
// case-insensitive; an empty list yields nil, meaning the caller's default.
func ParseCategories(codes []string) ([]recon.Category, error) {
	if len(codes) == 0 {
		return nil, nil
	}

	known := map[recon.Category]bool{
		recon.CategoryFG: true,
		recon.CategoryTR: true,
		recon.CategorySV: true,
		recon.CategoryCO: true,
		recon.CategoryCG: true,
		recon.CategoryAD: true,
	}

	seen := make(map[recon.Category]bool)
	var categories []recon.Category
	for _, code := range codes {
		c := recon.Category(strings.ToUpper(strings.TrimSpace(code)))
		if c == "" {
			continue
		}
		if !known[c] {
			return nil, fmt.Errorf("%w: unknown category %q", ErrInvalidInput, code)
		}
		if !seen[c] {
			seen[c] = true
			categories = append(categories, c)
		}
	}
	sort.Slice(categories, func(i, j int) bool { return categories[i] < categories[j] })
	return categories, nil
}
