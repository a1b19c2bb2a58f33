package ingest

import (
	"fmt"
	"log/slog"
	"strings"

	"github.com/xuri/excelize/v2"

	apierrors "invrecon/internal/errors"
	"invrecon/internal/expense"
	"invrecon/internal/recon"
)

// Registers holds the parsed contents of a purchase/sales workbook.
type Registers struct {
	Purchases []recon.Purchase
	Sales     []recon.Sale

	// SkippedPurchases and SkippedSales count rows that failed mapping.
	SkippedPurchases int
	SkippedSales     int
}

// LoadRegisters reads the Purchases and Sales sheets from an accounting
// export workbook.
func LoadRegisters(path string, logger *slog.Logger) (*Registers, error) {
	if logger == nil {
		logger = slog.Default()
	}

	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, fmt.Errorf("open workbook: %w", err)
	}
	defer f.Close()

	purchaseRows, err := sheetRows(f, "Purchases")
	if err != nil {
		return nil, err
	}
	saleRows, err := sheetRows(f, "Sales")
	if err != nil {
		return nil, err
	}

	reg := &Registers{}

	h, body := splitHeader(purchaseRows, "ITEMCD")
	if h == nil {
		return nil, fmt.Errorf("Purchases sheet: %w", apierrors.ErrHeaderNotFound)
	}
	for _, row := range body {
		if isEmptyRow(row) {
			continue
		}
		p, ok := mapPurchaseRow(h, row)
		if !ok {
			reg.SkippedPurchases++
			continue
		}
		reg.Purchases = append(reg.Purchases, p)
	}

	h, body = splitHeader(saleRows, "Item Code")
	if h == nil {
		return nil, fmt.Errorf("Sales sheet: %w", apierrors.ErrHeaderNotFound)
	}
	for _, row := range body {
		if isEmptyRow(row) {
			continue
		}
		s, ok := mapSaleRow(h, row)
		if !ok {
			reg.SkippedSales++
			continue
		}
		reg.Sales = append(reg.Sales, s)
	}

	if len(reg.Purchases) == 0 && len(reg.Sales) == 0 {
		return nil, fmt.Errorf("%s: %w", path, apierrors.ErrEmptyRegister)
	}

	logger.Info("registers loaded",
		"path", path,
		"purchases", len(reg.Purchases),
		"sales", len(reg.Sales),
		"skipped_purchases", reg.SkippedPurchases,
		"skipped_sales", reg.SkippedSales,
	)

	return reg, nil
}

// LoadExpenses reads the day-wise expense sheet from a ledger workbook. The
// sheet name varies between exports, so known names are tried before
// scanning for one whose header carries the ledger columns.
func LoadExpenses(path string, logger *slog.Logger) ([]expense.Expense, error) {
	if logger == nil {
		logger = slog.Default()
	}

	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, fmt.Errorf("open workbook: %w", err)
	}
	defer f.Close()

	var rows [][]string
	// The source export misspells the sheet name; both spellings occur.
	for _, name := range []string{"Day Wise Wokring", "Day Wise Working", "Expenses"} {
		if r, err := sheetRows(f, name); err == nil {
			rows = r
			break
		}
	}
	if rows == nil {
		for _, name := range f.GetSheetList() {
			r, err := f.GetRows(name)
			if err != nil {
				continue
			}
			if _, body := splitHeader(r, "Particulers"); body != nil {
				rows = r
				break
			}
		}
	}
	if rows == nil {
		return nil, fmt.Errorf("no expense sheet found in %s", path)
	}

	h, body := splitHeader(rows, "Particulers", "Particulars")
	if h == nil {
		return nil, fmt.Errorf("expense sheet: %w", apierrors.ErrHeaderNotFound)
	}

	var expenses []expense.Expense
	skipped := 0
	for _, row := range body {
		if isEmptyRow(row) {
			continue
		}
		e, ok := mapExpenseRow(h, row)
		if !ok {
			skipped++
			continue
		}
		expenses = append(expenses, e)
	}

	logger.Info("expenses loaded",
		"path", path,
		"expenses", len(expenses),
		"skipped", skipped,
	)

	return expenses, nil
}

// sheetRows fetches a sheet by name, tolerating trailing spaces in the
// workbook's sheet titles.
func sheetRows(f *excelize.File, name string) ([][]string, error) {
	if rows, err := f.GetRows(name); err == nil {
		return rows, nil
	}
	for _, actual := range f.GetSheetList() {
		if strings.TrimSpace(actual) == name {
			return f.GetRows(actual)
		}
	}
	return nil, fmt.Errorf("sheet %q: %w", name, apierrors.ErrSheetNotFound)
}

// splitHeader locates the header row by looking for any marker column in
// the first few rows, returning the indexed header and the body below it.
func splitHeader(rows [][]string, markers ...string) (header, [][]string) {
	limit := len(rows)
	if limit > 8 {
		limit = 8
	}
	for i := 0; i < limit; i++ {
		h := buildHeader(rows[i])
		for _, marker := range markers {
			if _, ok := h[normalizeTitle(marker)]; ok {
				return h, rows[i+1:]
			}
		}
	}
	return nil, nil
}

func isEmptyRow(row []string) bool {
	for _, cell := range row {
		if strings.TrimSpace(cell) != "" {
			return false
		}
	}
	return true
}
