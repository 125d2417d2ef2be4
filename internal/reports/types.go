// Package reports builds the financial report shapes served by the API:
// the all-time dashboard summary, tax-year summaries, single-month
// reports, and per-category reports.
//
// Every builder is a pure function over a caller-supplied transaction
// snapshot. Input order never affects output; builders re-sort as
// needed. Amounts accumulate in full precision and are rounded once per
// reported field: two decimal places for currency, one for percentages.
package reports

import (
	"github.com/shopspring/decimal"

	"financepro/internal/core"
)

// TransactionSummary is the compact transaction view embedded in report
// payloads.
type TransactionSummary struct {
	ID           int64           `json:"id"`
	Date         core.Date       `json:"date"`
	Description  string          `json:"description"`
	Amount       decimal.Decimal `json:"amount"`
	Currency     string          `json:"currency,omitempty"`
	CategoryName string          `json:"category_name,omitempty"`
	Vendor       string          `json:"vendor,omitempty"`
}

// CategorySpend is one row of the dashboard's top-categories ranking.
type CategorySpend struct {
	CategoryID   int64            `json:"category_id"`
	CategoryName string           `json:"category_name"`
	TaxCategory  core.TaxCategory `json:"tax_category,omitempty"`
	Amount       decimal.Decimal  `json:"amount"`
	Percentage   decimal.Decimal  `json:"percentage"`
}

// MonthlyFlow is one month of the dashboard trend.
type MonthlyFlow struct {
	Year     int             `json:"year"`
	Month    int             `json:"month"`
	Income   decimal.Decimal `json:"income"`
	Expenses decimal.Decimal `json:"expenses"`
	Net      decimal.Decimal `json:"net"`
}

// DashboardSummary is the all-time financial overview.
type DashboardSummary struct {
	TotalIncome        decimal.Decimal      `json:"total_income"`
	TotalExpenses      decimal.Decimal      `json:"total_expenses"`
	NetIncome          decimal.Decimal      `json:"net_income"`
	UnclassifiedCount  int                  `json:"unclassified_count"`
	TopCategories      []CategorySpend      `json:"top_categories"`
	MonthlyTrend       []MonthlyFlow        `json:"monthly_trend"`
	RecentTransactions []TransactionSummary `json:"recent_transactions"`
}

// TaxBucket rolls up one tax category within a tax year.
type TaxBucket struct {
	GrossAmount       decimal.Decimal `json:"gross_amount"`
	DeductibleAmount  decimal.Decimal `json:"deductible_amount"`
	TransactionCount  int             `json:"transaction_count"`
	DeductibilityRate decimal.Decimal `json:"deductibility_rate"`
}

// TaxYearSummary groups a calendar year's expenses by tax category.
type TaxYearSummary struct {
	Year              int                            `json:"year"`
	TotalIncome       decimal.Decimal                `json:"total_income"`
	TotalExpenses     decimal.Decimal                `json:"total_expenses"`
	TotalDeductible   decimal.Decimal                `json:"total_deductible"`
	NetIncome         decimal.Decimal                `json:"net_income"`
	ByTaxCategory     map[core.TaxCategory]TaxBucket `json:"by_tax_category"`
	UnclassifiedCount int                            `json:"unclassified_count"`
	PendingReview     int                            `json:"transactions_pending_review"`
}

// MonthCategory is one category's totals within a month report.
type MonthCategory struct {
	CategoryID   *int64            `json:"category_id"`
	CategoryName string            `json:"category_name"`
	Type         core.CategoryType `json:"type"`
	Amount       decimal.Decimal   `json:"amount"`
	Count        int               `json:"count"`
}

// MonthReport is the income/expense breakdown of a single month.
type MonthReport struct {
	Year             int             `json:"year"`
	Month            int             `json:"month"`
	TotalIncome      decimal.Decimal `json:"total_income"`
	TotalExpenses    decimal.Decimal `json:"total_expenses"`
	Net              decimal.Decimal `json:"net"`
	TransactionCount int             `json:"transaction_count"`
	ByCategory       []MonthCategory `json:"by_category"`
}

// CategoryInfo identifies the category a category report covers.
type CategoryInfo struct {
	ID          int64             `json:"id"`
	Name        string            `json:"name"`
	Type        core.CategoryType `json:"type"`
	TaxCategory core.TaxCategory  `json:"tax_category,omitempty"`
}

// MonthlyTotal is one month of a category report breakdown.
type MonthlyTotal struct {
	Year   int             `json:"year"`
	Month  int             `json:"month"`
	Amount decimal.Decimal `json:"amount"`
	Count  int             `json:"count"`
}

// CategoryTransaction is a transaction row inside a category report.
type CategoryTransaction struct {
	ID            int64           `json:"id"`
	Date          core.Date       `json:"date"`
	Description   string          `json:"description"`
	Amount        decimal.Decimal `json:"amount"`
	Vendor        string          `json:"vendor,omitempty"`
	TaxDeductible bool            `json:"tax_deductible"`
}

// CategoryReport details one category's activity over an optional date
// range.
type CategoryReport struct {
	Category           CategoryInfo          `json:"category"`
	StartDate          *core.Date            `json:"start_date"`
	EndDate            *core.Date            `json:"end_date"`
	TotalAmount        decimal.Decimal       `json:"total_amount"`
	TransactionCount   int                   `json:"transaction_count"`
	AverageTransaction decimal.Decimal       `json:"average_transaction"`
	MonthlyBreakdown   []MonthlyTotal        `json:"monthly_breakdown"`
	Transactions       []CategoryTransaction `json:"transactions"`
}
