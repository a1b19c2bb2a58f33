// Package expense implements the standalone expense-ledger rollups: group,
// category and month aggregations over journal-style debit/credit entries.
// Unlike the batch analytics in internal/recon, nothing here links to
// purchases or sales.
package expense

import (
	"time"
)

// Expense groups.
const (
	GroupDirect   = "DIRECT EXP"
	GroupIndirect = "IN DIRECT EXP"
)

// Expense represents one ledger transaction. Constructed once by the
// ingestion layer and never mutated.
type Expense struct {
	Date            time.Time `json:"date"`
	Particulars     string    `json:"particulars"`
	TransactionType string    `json:"transaction_type,omitempty"`
	TransactionNo   string    `json:"transaction_no"`
	Narration       string    `json:"narration"`

	Debit  float64 `json:"debit"`
	Credit float64 `json:"credit"`

	Group    string `json:"group"`
	Category string `json:"category"`
}

// NetAmount returns the net expense (debit minus credit).
func (e Expense) NetAmount() float64 {
	return e.Debit - e.Credit
}

// IsExpense reports whether the entry is a debit-side expense.
func (e Expense) IsExpense() bool {
	return e.Debit > 0
}

// IsCredit reports whether the entry is a credit or refund.
func (e Expense) IsCredit() bool {
	return e.Credit > 0
}

// IsDirect reports whether the entry belongs to the direct expense group.
func (e Expense) IsDirect() bool {
	return e.Group == GroupDirect
}

// MonthKey returns the YYYY-MM grouping key, empty when the date is unset.
func (e Expense) MonthKey() string {
	if e.Date.IsZero() {
		return ""
	}
	return e.Date.Format("2006-01")
}

// MonthName returns the display name of the entry's month, e.g. "April 2025".
func (e Expense) MonthName() string {
	if e.Date.IsZero() {
		return ""
	}
	return e.Date.Format("January 2006")
}
