package core

import (
	"errors"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

const (
	CategoryIncome  CategoryType = "income"
	CategoryExpense CategoryType = "expense"
)

const (
	TaxBusinessExpense    TaxCategory = "business_expense"
	TaxMealsEntertainment TaxCategory = "meals_entertainment"
	TaxDepreciation       TaxCategory = "depreciation"
	TaxMedicalExpense     TaxCategory = "medical_expense"
	TaxIncome             TaxCategory = "income"
	TaxNotDeductible      TaxCategory = "not_deductible"
	TaxPendingReview      TaxCategory = "pending_review"
)

const (
	SourceManual TransactionSource = "manual"
	SourceImport TransactionSource = "import"
)

const (
	PeriodMonthly   BudgetPeriod = "monthly"
	PeriodQuarterly BudgetPeriod = "quarterly"
	PeriodAnnual    BudgetPeriod = "annual"
)

// UncategorizedName is the display name used for transactions without a
// resolved category, and the name of the fallback category the classifier
// suggests when nothing matches.
const UncategorizedName = "Uncategorized"

type (
	CategoryType      string
	TaxCategory       string
	TransactionSource string
	BudgetPeriod      string

	// Category is a named income or expense bucket. TaxCategory tags how
	// its expenses are treated for deduction purposes; ParentID forms an
	// informational tree and is never followed by the reporting code.
	Category struct {
		ID          int64
		Name        string
		Type        CategoryType
		ParentID    *int64
		TaxCategory TaxCategory
		Description string
	}

	// Account is a bank account, card, or cash drawer.
	Account struct {
		ID          int64
		Name        string
		Type        string
		Institution string
		LastFour    string
		Currency    string
		Balance     decimal.Decimal
	}

	// Transaction is a single money movement. Amount is signed: positive
	// for inflows, negative for outflows. The sign is the caller's
	// responsibility and is never validated against the category type.
	//
	// CategoryName, CategoryType and TaxCategory are derived from the
	// referenced category when the record is loaded with its join; they
	// are zero-valued when CategoryID is nil.
	Transaction struct {
		ID            int64
		Date          Date
		Description   string
		Amount        decimal.Decimal
		Currency      string
		CategoryID    *int64
		Subcategory   string
		Vendor        string
		PaymentMethod string
		IsBusiness    bool
		TaxDeductible bool
		Notes         string
		ReceiptURL    string
		Source        TransactionSource
		CreatedAt     time.Time
		UpdatedAt     time.Time

		CategoryName string
		CategoryType CategoryType
		TaxCategory  TaxCategory
	}

	// Budget caps spend for a category over a period.
	Budget struct {
		ID           int64
		CategoryID   int64
		Period       BudgetPeriod
		Amount       decimal.Decimal
		Year         int
		Month        *int
		CategoryName string
	}

	// Report is a saved report definition with free-form parameters.
	Report struct {
		ID          int64
		Name        string
		Type        string
		Parameters  map[string]any
		GeneratedAt time.Time
	}
)

var (
	ErrEmptyName          = errors.New("empty name")
	ErrEmptyDescription   = errors.New("empty description")
	ErrInvalidType        = errors.New("invalid type")
	ErrInvalidPeriod      = errors.New("invalid budget period")
	ErrInvalidMonth       = errors.New("invalid month")
	ErrInvalidDate        = errors.New("invalid date")
	ErrInvalidSource      = errors.New("invalid source")
	ErrCategoryRequired   = errors.New("category is required")
)

// EffectiveType returns the category type used by the aggregation rules:
// transactions without a resolved category count as expenses.
func (t Transaction) EffectiveType() CategoryType {
	if t.CategoryType == CategoryIncome {
		return CategoryIncome
	}
	return CategoryExpense
}

// EffectiveTaxCategory resolves a missing or blank tax category tag to
// pending_review, so deductibility lookups never dangle.
func (t Transaction) EffectiveTaxCategory() TaxCategory {
	if t.TaxCategory == "" {
		return TaxPendingReview
	}
	return t.TaxCategory
}

// Unclassified reports whether the transaction has no category reference.
func (t Transaction) Unclassified() bool {
	return t.CategoryID == nil
}

func (c Category) Validate() error {
	if strings.TrimSpace(c.Name) == "" {
		return ErrEmptyName
	}
	if c.Type != CategoryIncome && c.Type != CategoryExpense {
		return ErrInvalidType
	}
	return nil
}

func (a Account) Validate() error {
	if strings.TrimSpace(a.Name) == "" {
		return ErrEmptyName
	}
	if strings.TrimSpace(a.Type) == "" {
		return ErrInvalidType
	}
	return nil
}

func (t Transaction) Validate() error {
	if err := t.Date.Validate(); err != nil {
		return err
	}
	if strings.TrimSpace(t.Description) == "" {
		return ErrEmptyDescription
	}
	if len(t.Description) > 500 {
		return errors.New("description too long (max 500 characters)")
	}
	switch t.Source {
	case SourceManual, SourceImport:
	default:
		return ErrInvalidSource
	}
	return nil
}

func (b Budget) Validate() error {
	if b.CategoryID == 0 {
		return ErrCategoryRequired
	}
	switch b.Period {
	case PeriodMonthly, PeriodQuarterly, PeriodAnnual:
	default:
		return ErrInvalidPeriod
	}
	if b.Year < 1900 || b.Year > 3000 {
		return errors.New("invalid year")
	}
	if b.Month != nil && (*b.Month < 1 || *b.Month > 12) {
		return ErrInvalidMonth
	}
	return nil
}

func (r Report) Validate() error {
	if strings.TrimSpace(r.Name) == "" {
		return ErrEmptyName
	}
	if strings.TrimSpace(r.Type) == "" {
		return ErrInvalidType
	}
	return nil
}
