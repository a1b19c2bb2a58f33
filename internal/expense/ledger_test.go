package expense

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func entry(date time.Time, particulars, group, category string, debit, credit float64) Expense {
	return Expense{
		Date:        date,
		Particulars: particulars,
		Group:       group,
		Category:    category,
		Debit:       debit,
		Credit:      credit,
	}
}

func testLedger() []Expense {
	apr := time.Date(2025, 4, 10, 0, 0, 0, 0, time.UTC)
	may := time.Date(2025, 5, 2, 0, 0, 0, 0, time.UTC)
	return []Expense{
		entry(apr, "Rent", GroupDirect, "DIRECT", 1000, 0),
		entry(apr, "Courier", GroupDirect, "OTHER(S)", 200, 0),
		entry(may, "Rent", GroupDirect, "DIRECT", 1000, 0),
		entry(may, "Refund", GroupIndirect, "OTHER(S)", 0, 150),
		entry(may, "Round Off", GroupIndirect, "OTHER(S)", 1, 0),
	}
}

func TestSummarize(t *testing.T) {
	sum := Summarize(testLedger())

	assert.Equal(t, 5, sum.TotalTransactions)
	assert.Equal(t, 4, sum.ExpenseCount)
	assert.Equal(t, 1, sum.CreditCount)
	assert.InDelta(t, 2201.0, sum.TotalDebit, 1e-9)
	assert.InDelta(t, 150.0, sum.TotalCredit, 1e-9)
	assert.InDelta(t, 2051.0, sum.NetExpense, 1e-9)
	assert.InDelta(t, 2201.0/4, sum.AvgExpense, 1e-9)
	assert.InDelta(t, 150.0, sum.AvgCredit, 1e-9)
	assert.Equal(t, time.Date(2025, 4, 10, 0, 0, 0, 0, time.UTC), sum.DateStart)
	assert.Equal(t, time.Date(2025, 5, 2, 0, 0, 0, 0, time.UTC), sum.DateEnd)
}

func TestSummarizeEmpty(t *testing.T) {
	sum := Summarize(nil)

	assert.Zero(t, sum.TotalTransactions)
	assert.Zero(t, sum.AvgExpense) // no divide by zero
	assert.True(t, sum.DateStart.IsZero())
}

func TestByGroup(t *testing.T) {
	groups := ByGroup(testLedger())
	require.Len(t, groups, 2)

	direct := groups[GroupDirect]
	assert.Equal(t, 3, direct.Count)
	assert.InDelta(t, 2200.0, direct.TotalDebit, 1e-9)
	assert.InDelta(t, 2200.0, direct.NetExpense, 1e-9)

	indirect := groups[GroupIndirect]
	assert.Equal(t, 2, indirect.Count)
	assert.InDelta(t, -149.0, indirect.NetExpense, 1e-9)
}

func TestByCategory(t *testing.T) {
	categories := ByCategory(testLedger())
	require.Len(t, categories, 2)
	assert.InDelta(t, 2000.0, categories["DIRECT"].NetExpense, 1e-9)
	assert.InDelta(t, 51.0, categories["OTHER(S)"].NetExpense, 1e-9)
}

func TestByMonthChronological(t *testing.T) {
	months := ByMonth(testLedger())
	require.Len(t, months, 2)

	assert.Equal(t, "2025-04", months[0].MonthKey)
	assert.Equal(t, "April 2025", months[0].MonthName)
	assert.Equal(t, 2, months[0].Count)
	assert.InDelta(t, 1200.0, months[0].NetExpense, 1e-9)

	assert.Equal(t, "2025-05", months[1].MonthKey)
	assert.InDelta(t, 851.0, months[1].NetExpense, 1e-9)
}

func TestByMonthSkipsUndated(t *testing.T) {
	ledger := append(testLedger(), entry(time.Time{}, "Stale", GroupDirect, "DIRECT", 99, 0))
	months := ByMonth(ledger)
	assert.Len(t, months, 2)
}

func TestTopParticulars(t *testing.T) {
	top := TopParticulars(testLedger(), 2, []string{"Round Off"})
	require.Len(t, top, 2)

	assert.Equal(t, "Rent", top[0].Particular)
	assert.InDelta(t, 2000.0, top[0].NetExpense, 1e-9)
	assert.Equal(t, 2, top[0].Count)
	assert.Equal(t, "Courier", top[1].Particular)
}

func TestByTransactionTypeUnknownBucket(t *testing.T) {
	ledger := testLedger()
	ledger[0].TransactionType = "Journal"

	byType := ByTransactionType(ledger)
	require.Contains(t, byType, "Journal")
	require.Contains(t, byType, "Unknown")
	assert.Equal(t, 1, byType["Journal"].Count)
	assert.Equal(t, 4, byType["Unknown"].Count)
}
