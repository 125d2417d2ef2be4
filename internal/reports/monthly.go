package reports

import (
	"sort"

	"github.com/shopspring/decimal"

	"financepro/internal/core"
)

// BuildMonth computes the income/expense split and per-category totals
// for a single calendar month, first day through last day inclusive.
//
// Grouping is keyed by category id, so transactions without a category
// show up under the "Uncategorized" display name without merging into a
// real category that happens to carry that name.
func BuildMonth(year, month int, txns []core.Transaction) MonthReport {
	start := core.NewDate(year, month, 1)
	end := core.EndOfMonth(year, month)

	type accum struct {
		row   MonthCategory
		total decimal.Decimal
	}
	// Category id 0 never exists, so it is a safe key for unclassified.
	index := make(map[int64]int)
	var groups []accum

	var income, expenses decimal.Decimal
	count := 0

	for _, t := range txns {
		if !t.Date.In(&start, &end) {
			continue
		}
		count++

		if t.EffectiveType() == core.CategoryIncome {
			income = income.Add(t.Amount)
		} else {
			expenses = expenses.Add(t.Amount.Abs())
		}

		var key int64
		name := core.UncategorizedName
		if t.CategoryID != nil {
			key = *t.CategoryID
			name = t.CategoryName
		}
		i, ok := index[key]
		if !ok {
			i = len(groups)
			index[key] = i
			groups = append(groups, accum{row: MonthCategory{
				CategoryID:   t.CategoryID,
				CategoryName: name,
				Type:         t.EffectiveType(),
			}})
		}
		groups[i].total = groups[i].total.Add(t.Amount.Abs())
		groups[i].row.Count++
	}

	sort.SliceStable(groups, func(i, j int) bool {
		return groups[i].total.GreaterThan(groups[j].total)
	})

	byCategory := make([]MonthCategory, 0, len(groups))
	for _, g := range groups {
		g.row.Amount = core.Round2(g.total)
		byCategory = append(byCategory, g.row)
	}

	report := MonthReport{
		Year:             year,
		Month:            month,
		TotalIncome:      core.Round2(income),
		TotalExpenses:    core.Round2(expenses),
		TransactionCount: count,
		ByCategory:       byCategory,
	}
	report.Net = report.TotalIncome.Sub(report.TotalExpenses)
	return report
}
