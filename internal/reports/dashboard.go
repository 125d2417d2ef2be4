package reports

import (
	"sort"
	"time"

	"github.com/shopspring/decimal"

	"financepro/internal/core"
)

const (
	topCategoryLimit  = 5
	recentTxnLimit    = 5
	trendWindowMonths = 12
)

// BuildDashboard computes the all-time overview: income/expense totals,
// the unclassified count, top expense categories, the trailing twelve
// month trend relative to now, and the most recent transactions.
//
// Transactions without a resolved category count as expenses, and their
// positive amounts still inflate the expense total through abs(). That
// mirrors the behavior this report has always had; callers own the sign
// convention.
func BuildDashboard(now time.Time, txns []core.Transaction) DashboardSummary {
	var income, expenses decimal.Decimal
	unclassified := 0
	for _, t := range txns {
		if t.EffectiveType() == core.CategoryIncome {
			income = income.Add(t.Amount)
		} else {
			expenses = expenses.Add(t.Amount.Abs())
		}
		if t.Unclassified() {
			unclassified++
		}
	}

	summary := DashboardSummary{
		TotalIncome:        core.Round2(income),
		TotalExpenses:      core.Round2(expenses),
		UnclassifiedCount:  unclassified,
		TopCategories:      topExpenseCategories(txns, expenses),
		MonthlyTrend:       monthlyTrend(now, txns),
		RecentTransactions: recentTransactions(txns),
	}
	summary.NetIncome = summary.TotalIncome.Sub(summary.TotalExpenses)
	return summary
}

// topExpenseCategories ranks classified expense-category spend by summed
// abs(amount), descending. Ties keep first-appearance order, and at most
// five rows are returned.
func topExpenseCategories(txns []core.Transaction, totalExpenses decimal.Decimal) []CategorySpend {
	type bucket struct {
		spend CategorySpend
		total decimal.Decimal
	}
	index := make(map[int64]int)
	var buckets []bucket

	for _, t := range txns {
		if t.CategoryID == nil || t.CategoryType != core.CategoryExpense {
			continue
		}
		id := *t.CategoryID
		i, ok := index[id]
		if !ok {
			i = len(buckets)
			index[id] = i
			buckets = append(buckets, bucket{spend: CategorySpend{
				CategoryID:   id,
				CategoryName: t.CategoryName,
				TaxCategory:  t.TaxCategory,
			}})
		}
		buckets[i].total = buckets[i].total.Add(t.Amount.Abs())
	}

	sort.SliceStable(buckets, func(i, j int) bool {
		return buckets[i].total.GreaterThan(buckets[j].total)
	})
	if len(buckets) > topCategoryLimit {
		buckets = buckets[:topCategoryLimit]
	}

	top := make([]CategorySpend, 0, len(buckets))
	for _, b := range buckets {
		b.spend.Amount = core.Round2(b.total)
		b.spend.Percentage = core.Percentage(b.total, totalExpenses)
		top = append(top, b.spend)
	}
	return top
}

// monthlyTrend buckets income and expenses by calendar month from the
// first day of the month eleven months before now. Months with no
// activity are omitted rather than zero-filled.
func monthlyTrend(now time.Time, txns []core.Transaction) []MonthlyFlow {
	windowStart := time.Date(now.Year(), now.Month()-trendWindowMonths+1, 1, 0, 0, 0, 0, time.UTC)

	type key struct{ year, month int }
	type flow struct{ income, expenses decimal.Decimal }
	months := make(map[key]*flow)

	for _, t := range txns {
		if t.Date.Time.Before(windowStart) {
			continue
		}
		k := key{t.Date.Year(), t.Date.Month()}
		f, ok := months[k]
		if !ok {
			f = &flow{}
			months[k] = f
		}
		if t.EffectiveType() == core.CategoryIncome {
			f.income = f.income.Add(t.Amount)
		} else {
			f.expenses = f.expenses.Add(t.Amount.Abs())
		}
	}

	trend := make([]MonthlyFlow, 0, len(months))
	for k, f := range months {
		income := core.Round2(f.income)
		expenses := core.Round2(f.expenses)
		trend = append(trend, MonthlyFlow{
			Year:     k.year,
			Month:    k.month,
			Income:   income,
			Expenses: expenses,
			Net:      income.Sub(expenses),
		})
	}
	sort.Slice(trend, func(i, j int) bool {
		if trend[i].Year != trend[j].Year {
			return trend[i].Year < trend[j].Year
		}
		return trend[i].Month < trend[j].Month
	})
	return trend
}

// recentTransactions returns the five most recent transactions by
// (date desc, id desc).
func recentTransactions(txns []core.Transaction) []TransactionSummary {
	sorted := make([]core.Transaction, len(txns))
	copy(sorted, txns)
	sort.Slice(sorted, func(i, j int) bool {
		if !sorted[i].Date.Equal(sorted[j].Date.Time) {
			return sorted[i].Date.After(sorted[j].Date)
		}
		return sorted[i].ID > sorted[j].ID
	})
	if len(sorted) > recentTxnLimit {
		sorted = sorted[:recentTxnLimit]
	}

	recent := make([]TransactionSummary, 0, len(sorted))
	for _, t := range sorted {
		recent = append(recent, TransactionSummary{
			ID:           t.ID,
			Date:         t.Date,
			Description:  t.Description,
			Amount:       t.Amount,
			Currency:     t.Currency,
			CategoryName: t.CategoryName,
			Vendor:       t.Vendor,
		})
	}
	return recent
}
