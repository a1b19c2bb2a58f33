package expense

import (
	"sort"
	"time"
)

// Rollup aggregates one slice of the ledger: a group, category, month,
// transaction type or particular.
type Rollup struct {
	Count       int     `json:"count"`
	TotalDebit  float64 `json:"total_debit"`
	TotalCredit float64 `json:"total_credit"`
	NetExpense  float64 `json:"net_expense"`
}

func (r *Rollup) add(e Expense) {
	r.Count++
	r.TotalDebit += e.Debit
	r.TotalCredit += e.Credit
	r.NetExpense += e.NetAmount()
}

// Summary holds the overall ledger statistics.
type Summary struct {
	TotalTransactions int       `json:"total_transactions"`
	ExpenseCount      int       `json:"expense_count"`
	CreditCount       int       `json:"credit_count"`
	TotalDebit        float64   `json:"total_debit"`
	TotalCredit       float64   `json:"total_credit"`
	NetExpense        float64   `json:"net_expense"`
	AvgExpense        float64   `json:"avg_expense"`
	AvgCredit         float64   `json:"avg_credit"`
	DateStart         time.Time `json:"date_start"`
	DateEnd           time.Time `json:"date_end"`
}

// Summarize computes the overall ledger summary.
func Summarize(expenses []Expense) Summary {
	var sum Summary
	sum.TotalTransactions = len(expenses)

	for _, e := range expenses {
		sum.TotalDebit += e.Debit
		sum.TotalCredit += e.Credit
		if e.IsExpense() {
			sum.ExpenseCount++
		}
		if e.IsCredit() {
			sum.CreditCount++
		}
		if e.Date.IsZero() {
			continue
		}
		if sum.DateStart.IsZero() || e.Date.Before(sum.DateStart) {
			sum.DateStart = e.Date
		}
		if sum.DateEnd.IsZero() || e.Date.After(sum.DateEnd) {
			sum.DateEnd = e.Date
		}
	}

	sum.NetExpense = sum.TotalDebit - sum.TotalCredit
	if sum.ExpenseCount > 0 {
		sum.AvgExpense = sum.TotalDebit / float64(sum.ExpenseCount)
	}
	if sum.CreditCount > 0 {
		sum.AvgCredit = sum.TotalCredit / float64(sum.CreditCount)
	}

	return sum
}

// ByGroup rolls the ledger up per expense group.
func ByGroup(expenses []Expense) map[string]Rollup {
	return rollupBy(expenses, func(e Expense) string { return e.Group })
}

// ByCategory rolls the ledger up per category.
func ByCategory(expenses []Expense) map[string]Rollup {
	return rollupBy(expenses, func(e Expense) string { return e.Category })
}

// ByTransactionType rolls the ledger up per transaction type; entries
// without a type fall under "Unknown".
func ByTransactionType(expenses []Expense) map[string]Rollup {
	return rollupBy(expenses, func(e Expense) string {
		if e.TransactionType == "" {
			return "Unknown"
		}
		return e.TransactionType
	})
}

func rollupBy(expenses []Expense, key func(Expense) string) map[string]Rollup {
	out := make(map[string]Rollup)
	for _, e := range expenses {
		r := out[key(e)]
		r.add(e)
		out[key(e)] = r
	}
	return out
}

// MonthRollup is one month's ledger aggregate.
type MonthRollup struct {
	MonthKey  string `json:"month_year"`
	MonthName string `json:"month_name"`
	Rollup
}

// ByMonth returns the monthly trend in chronological order. Entries without
// a date are skipped.
func ByMonth(expenses []Expense) []MonthRollup {
	monthly := make(map[string]*MonthRollup)
	for _, e := range expenses {
		key := e.MonthKey()
		if key == "" {
			continue
		}
		mr, ok := monthly[key]
		if !ok {
			mr = &MonthRollup{MonthKey: key, MonthName: e.MonthName()}
			monthly[key] = mr
		}
		mr.add(e)
	}

	out := make([]MonthRollup, 0, len(monthly))
	for _, mr := range monthly {
		out = append(out, *mr)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].MonthKey < out[j].MonthKey })
	return out
}

// ParticularRollup aggregates the ledger for one particular.
type ParticularRollup struct {
	Particular string `json:"particular"`
	Rollup
}

// TopParticulars returns the topN particulars by net expense, excluding any
// named particulars (e.g. "Round Off"). Ties are broken by name so repeated
// runs produce identical output.
func TopParticulars(expenses []Expense, topN int, exclude []string) []ParticularRollup {
	excluded := make(map[string]bool, len(exclude))
	for _, p := range exclude {
		excluded[p] = true
	}

	byParticular := make(map[string]*ParticularRollup)
	for _, e := range expenses {
		if excluded[e.Particulars] {
			continue
		}
		pr, ok := byParticular[e.Particulars]
		if !ok {
			pr = &ParticularRollup{Particular: e.Particulars}
			byParticular[e.Particulars] = pr
		}
		pr.add(e)
	}

	out := make([]ParticularRollup, 0, len(byParticular))
	for _, pr := range byParticular {
		out = append(out, *pr)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].NetExpense != out[j].NetExpense {
			return out[i].NetExpense > out[j].NetExpense
		}
		return out[i].Particular < out[j].Particular
	})

	if topN > 0 && len(out) > topN {
		out = out[:topN]
	}
	return out
}
