package reports

import (
	"github.com/shopspring/decimal"

	"financepro/internal/classify"
	"financepro/internal/core"
)

// BuildTaxYear summarizes deductible and non-deductible spend for one
// calendar year, grouped by tax category.
//
// Transactions tagged with the income tax category feed total_income and
// never enter an expense bucket. Everything else contributes abs(amount)
// to total_expenses and to its tax category's bucket; a missing tag
// resolves to pending_review. Deductible figures come from the fixed
// deductibility table, with each bucket's deductible amount rounded from
// its reported gross.
func BuildTaxYear(year int, txns []core.Transaction) TaxYearSummary {
	start := core.NewDate(year, 1, 1)
	end := core.NewDate(year, 12, 31)

	type accum struct {
		gross decimal.Decimal
		count int
	}
	grosses := make(map[core.TaxCategory]*accum)

	var totalIncome, totalExpenses decimal.Decimal
	unclassified := 0
	pendingReview := 0

	for _, t := range txns {
		if !t.Date.In(&start, &end) {
			continue
		}
		if t.Unclassified() {
			unclassified++
		}

		tag := t.EffectiveTaxCategory()
		if tag == core.TaxIncome {
			totalIncome = totalIncome.Add(t.Amount)
			continue
		}

		expense := t.Amount.Abs()
		totalExpenses = totalExpenses.Add(expense)
		a, ok := grosses[tag]
		if !ok {
			a = &accum{}
			grosses[tag] = a
		}
		a.gross = a.gross.Add(expense)
		a.count++

		if tag == core.TaxPendingReview {
			pendingReview++
		}
	}

	buckets := make(map[core.TaxCategory]TaxBucket, len(grosses))
	var totalDeductible decimal.Decimal
	for tag, a := range grosses {
		rate := classify.DeductibilityFactor(tag)
		gross := core.Round2(a.gross)
		deductible := core.Round2(gross.Mul(rate))
		buckets[tag] = TaxBucket{
			GrossAmount:       gross,
			DeductibleAmount:  deductible,
			TransactionCount:  a.count,
			DeductibilityRate: rate,
		}
		totalDeductible = totalDeductible.Add(deductible)
	}

	summary := TaxYearSummary{
		Year:              year,
		TotalIncome:       core.Round2(totalIncome),
		TotalExpenses:     core.Round2(totalExpenses),
		TotalDeductible:   totalDeductible,
		ByTaxCategory:     buckets,
		UnclassifiedCount: unclassified,
		PendingReview:     pendingReview,
	}
	summary.NetIncome = summary.TotalIncome.Sub(summary.TotalExpenses)
	return summary
}
