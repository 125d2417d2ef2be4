package reports

import (
	"sort"

	"github.com/shopspring/decimal"

	"financepro/internal/core"
)

// BuildCategory details one category's transactions over an optional
// inclusive date range: totals, average, a chronological month-by-month
// breakdown, and the matching transactions ordered by date ascending.
// Resolving the category id is the caller's job; an empty category
// yields zeroed aggregates, not an error.
func BuildCategory(cat core.Category, start, end *core.Date, txns []core.Transaction) CategoryReport {
	matched := make([]core.Transaction, 0, len(txns))
	for _, t := range txns {
		if t.CategoryID == nil || *t.CategoryID != cat.ID {
			continue
		}
		if !t.Date.In(start, end) {
			continue
		}
		matched = append(matched, t)
	}
	sort.Slice(matched, func(i, j int) bool {
		if !matched[i].Date.Equal(matched[j].Date.Time) {
			return matched[i].Date.Before(matched[j].Date)
		}
		return matched[i].ID < matched[j].ID
	})

	var total decimal.Decimal
	type key struct{ year, month int }
	type accum struct {
		amount decimal.Decimal
		count  int
	}
	months := make(map[key]*accum)

	rows := make([]CategoryTransaction, 0, len(matched))
	for _, t := range matched {
		total = total.Add(t.Amount.Abs())

		k := key{t.Date.Year(), t.Date.Month()}
		a, ok := months[k]
		if !ok {
			a = &accum{}
			months[k] = a
		}
		a.amount = a.amount.Add(t.Amount.Abs())
		a.count++

		rows = append(rows, CategoryTransaction{
			ID:            t.ID,
			Date:          t.Date,
			Description:   t.Description,
			Amount:        t.Amount,
			Vendor:        t.Vendor,
			TaxDeductible: t.TaxDeductible,
		})
	}

	breakdown := make([]MonthlyTotal, 0, len(months))
	for k, a := range months {
		breakdown = append(breakdown, MonthlyTotal{
			Year:   k.year,
			Month:  k.month,
			Amount: core.Round2(a.amount),
			Count:  a.count,
		})
	}
	sort.Slice(breakdown, func(i, j int) bool {
		if breakdown[i].Year != breakdown[j].Year {
			return breakdown[i].Year < breakdown[j].Year
		}
		return breakdown[i].Month < breakdown[j].Month
	})

	average := decimal.Zero
	if len(matched) > 0 {
		average = core.Round2(total.Div(decimal.NewFromInt(int64(len(matched)))))
	}

	return CategoryReport{
		Category: CategoryInfo{
			ID:          cat.ID,
			Name:        cat.Name,
			Type:        cat.Type,
			TaxCategory: cat.TaxCategory,
		},
		StartDate:          start,
		EndDate:            end,
		TotalAmount:        core.Round2(total),
		TransactionCount:   len(matched),
		AverageTransaction: average,
		MonthlyBreakdown:   breakdown,
		Transactions:       rows,
	}
}
