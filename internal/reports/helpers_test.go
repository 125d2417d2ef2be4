package reports

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"

	"financepro/internal/core"
)

var nextTxnID int64

// expenseTxn builds a resolved expense transaction for a category.
func expenseTxn(date core.Date, amount string, cat core.Category) core.Transaction {
	nextTxnID++
	return core.Transaction{
		ID:           nextTxnID,
		Date:         date,
		Description:  "test expense",
		Amount:       decimal.RequireFromString(amount),
		CategoryID:   &cat.ID,
		CategoryName: cat.Name,
		CategoryType: cat.Type,
		TaxCategory:  cat.TaxCategory,
	}
}

// incomeTxn builds a resolved income transaction.
func incomeTxn(date core.Date, amount string, cat core.Category) core.Transaction {
	t := expenseTxn(date, amount, cat)
	t.Description = "test income"
	return t
}

// unclassifiedTxn builds a transaction with no category reference.
func unclassifiedTxn(date core.Date, amount string) core.Transaction {
	nextTxnID++
	return core.Transaction{
		ID:          nextTxnID,
		Date:        date,
		Description: "mystery charge",
		Amount:      decimal.RequireFromString(amount),
	}
}

func assertDec(t *testing.T, want string, got decimal.Decimal, msgAndArgs ...any) {
	t.Helper()
	assert.True(t, decimal.RequireFromString(want).Equal(got),
		"want %s, got %s %v", want, got, msgAndArgs)
}

var (
	catSoftware = core.Category{ID: 1, Name: "Software & SaaS", Type: core.CategoryExpense, TaxCategory: core.TaxBusinessExpense}
	catCloud    = core.Category{ID: 2, Name: "Cloud Infrastructure", Type: core.CategoryExpense, TaxCategory: core.TaxBusinessExpense}
	catMeals    = core.Category{ID: 3, Name: "Meals & Entertainment", Type: core.CategoryExpense, TaxCategory: core.TaxMealsEntertainment}
	catTravel   = core.Category{ID: 4, Name: "Travel & Transportation", Type: core.CategoryExpense, TaxCategory: core.TaxBusinessExpense}
	catOffice   = core.Category{ID: 5, Name: "Office Supplies", Type: core.CategoryExpense, TaxCategory: core.TaxBusinessExpense}
	catHardware = core.Category{ID: 6, Name: "Hardware & Equipment", Type: core.CategoryExpense, TaxCategory: core.TaxDepreciation}
	catPersonal = core.Category{ID: 7, Name: "Personal", Type: core.CategoryExpense, TaxCategory: core.TaxNotDeductible}
	catRevenue  = core.Category{ID: 8, Name: "Revenue", Type: core.CategoryIncome, TaxCategory: core.TaxIncome}
	catUncat    = core.Category{ID: 9, Name: core.UncategorizedName, Type: core.CategoryExpense, TaxCategory: core.TaxPendingReview}
)
