package storage

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/shopspring/decimal"

	"financepro/internal/core"
)

var defaultCategories = []core.Category{
	{Name: "Software & SaaS", Type: core.CategoryExpense, TaxCategory: core.TaxBusinessExpense},
	{Name: "Cloud Infrastructure", Type: core.CategoryExpense, TaxCategory: core.TaxBusinessExpense},
	{Name: "Professional Services", Type: core.CategoryExpense, TaxCategory: core.TaxBusinessExpense},
	{Name: "Travel & Transportation", Type: core.CategoryExpense, TaxCategory: core.TaxBusinessExpense},
	{Name: "Meals & Entertainment", Type: core.CategoryExpense, TaxCategory: core.TaxMealsEntertainment},
	{Name: "Office Supplies", Type: core.CategoryExpense, TaxCategory: core.TaxBusinessExpense},
	{Name: "Marketing & Advertising", Type: core.CategoryExpense, TaxCategory: core.TaxBusinessExpense},
	{Name: "Insurance", Type: core.CategoryExpense, TaxCategory: core.TaxBusinessExpense},
	{Name: "Rent & Utilities", Type: core.CategoryExpense, TaxCategory: core.TaxBusinessExpense},
	{Name: "Education & Training", Type: core.CategoryExpense, TaxCategory: core.TaxBusinessExpense},
	{Name: "Hardware & Equipment", Type: core.CategoryExpense, TaxCategory: core.TaxDepreciation},
	{Name: "Health & Medical", Type: core.CategoryExpense, TaxCategory: core.TaxMedicalExpense},
	{Name: "Consulting Income", Type: core.CategoryIncome, TaxCategory: core.TaxIncome},
	{Name: "Product Revenue", Type: core.CategoryIncome, TaxCategory: core.TaxIncome},
	{Name: core.UncategorizedName, Type: core.CategoryExpense, TaxCategory: core.TaxPendingReview},
}

type seedTxn struct {
	date     string
	desc     string
	amount   string
	category string
	vendor   string
}

var sampleTransactions = []seedTxn{
	{"2025-01-05", "Consulting retainer January", "8500.00", "Consulting Income", "Acme Corp"},
	{"2025-01-07", "AWS monthly bill", "-342.18", "Cloud Infrastructure", "Amazon Web Services"},
	{"2025-01-10", "GitHub Team subscription", "-44.00", "Software & SaaS", "GitHub"},
	{"2025-01-14", "Client lunch", "-86.40", "Meals & Entertainment", "Osteria Da Mario"},
	{"2025-01-20", "MacBook Pro 14", "-2399.00", "Hardware & Equipment", "Apple"},
	{"2025-02-03", "Consulting retainer February", "8500.00", "Consulting Income", "Acme Corp"},
	{"2025-02-05", "Accountant quarterly fee", "-450.00", "Professional Services", "Rossi & Partners"},
	{"2025-02-12", "Flight to client site", "-312.55", "Travel & Transportation", "Lufthansa"},
	{"2025-02-18", "Google Ads campaign", "-600.00", "Marketing & Advertising", "Google"},
	{"2025-03-01", "Office rent March", "-1200.00", "Rent & Utilities", "Immobiliare Centro"},
	{"2025-03-09", "Team dinner", "-154.30", "Meals & Entertainment", "Trattoria Bella"},
	{"2025-03-15", "Udemy course bundle", "-59.99", "Education & Training", "Udemy"},
}

type seedBudget struct {
	category string
	period   core.BudgetPeriod
	amount   string
}

var sampleBudgets = []seedBudget{
	{"Software & SaaS", core.PeriodMonthly, "2000.00"},
	{"Cloud Infrastructure", core.PeriodMonthly, "3000.00"},
	{"Marketing & Advertising", core.PeriodQuarterly, "10000.00"},
	{"Travel & Transportation", core.PeriodAnnual, "15000.00"},
	{"Meals & Entertainment", core.PeriodMonthly, "800.00"},
}

// Seed loads the default category tree, demo accounts, sample
// transactions, budgets and a saved report. It is a no-op once any
// category exists, so restarting with seeding enabled never duplicates
// data.
func (r *SQLiteRepository) Seed(ctx context.Context) error {
	n, err := r.CountCategories(ctx)
	if err != nil {
		return fmt.Errorf("seed: %w", err)
	}
	if n > 0 {
		slog.DebugContext(ctx, "Seed skipped, categories already present", "count", n)
		return nil
	}

	byName := make(map[string]int64, len(defaultCategories))
	for _, c := range defaultCategories {
		created, err := r.CreateCategory(ctx, c)
		if err != nil {
			return fmt.Errorf("seed category %q: %w", c.Name, err)
		}
		byName[created.Name] = created.ID
	}

	_, err = r.CreateAccount(ctx, core.Account{
		Name:        "Business Checking",
		Type:        "checking",
		Institution: "First National",
		LastFour:    "4821",
		Currency:    "USD",
		Balance:     decimal.NewFromInt(12000),
	})
	if err != nil {
		return fmt.Errorf("seed account: %w", err)
	}
	_, err = r.CreateAccount(ctx, core.Account{
		Name:        "Business Credit Card",
		Type:        "credit_card",
		Institution: "American Express",
		LastFour:    "9003",
		Currency:    "USD",
		Balance:     decimal.RequireFromString("-3412.75"),
	})
	if err != nil {
		return fmt.Errorf("seed account: %w", err)
	}

	txns := make([]core.Transaction, 0, len(sampleTransactions))
	for _, s := range sampleTransactions {
		date, err := core.ParseDate(s.date)
		if err != nil {
			return fmt.Errorf("seed transaction %q: %w", s.desc, err)
		}
		amount, err := decimal.NewFromString(s.amount)
		if err != nil {
			return fmt.Errorf("seed transaction %q: %w", s.desc, err)
		}
		id, ok := byName[s.category]
		if !ok {
			return fmt.Errorf("seed transaction %q: unknown category %q", s.desc, s.category)
		}
		txns = append(txns, core.Transaction{
			Date:        date,
			Description: s.desc,
			Amount:      amount,
			Currency:    "USD",
			CategoryID:  &id,
			Vendor:      s.vendor,
			IsBusiness:  true,
			Source:      core.SourceManual,
		})
	}
	if _, err := r.CreateTransactions(ctx, txns); err != nil {
		return fmt.Errorf("seed transactions: %w", err)
	}

	for _, b := range sampleBudgets {
		id, ok := byName[b.category]
		if !ok {
			return fmt.Errorf("seed budget: unknown category %q", b.category)
		}
		_, err := r.CreateBudget(ctx, core.Budget{
			CategoryID: id,
			Period:     b.period,
			Amount:     decimal.RequireFromString(b.amount),
			Year:       2025,
		})
		if err != nil {
			return fmt.Errorf("seed budget %q: %w", b.category, err)
		}
	}

	_, err = r.CreateReport(ctx, core.Report{
		Name:       "2025 Q1 Tax Summary",
		Type:       "tax_report",
		Parameters: map[string]any{"year": 2025, "quarter": 1},
	})
	if err != nil {
		return fmt.Errorf("seed report: %w", err)
	}

	slog.InfoContext(ctx, "Database seeded",
		"categories", len(defaultCategories),
		"transactions", len(sampleTransactions),
		"budgets", len(sampleBudgets))
	return nil
}
