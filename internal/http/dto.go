package http

import (
	"time"

	"github.com/shopspring/decimal"

	"financepro/internal/core"
)

// Request and response shapes for the JSON API. Requests use pointers
// where a field may be omitted; updates apply only the fields present.

type transactionCreate struct {
	Date          core.Date       `json:"date"`
	Description   string          `json:"description"`
	Amount        decimal.Decimal `json:"amount"`
	Currency      string          `json:"currency"`
	CategoryID    *int64          `json:"category_id"`
	Subcategory   string          `json:"subcategory"`
	Vendor        string          `json:"vendor"`
	PaymentMethod string          `json:"payment_method"`
	IsBusiness    *bool           `json:"is_business"`
	TaxDeductible bool            `json:"tax_deductible"`
	Notes         string          `json:"notes"`
	ReceiptURL    string          `json:"receipt_url"`
	Source        string          `json:"source"`
}

func (p transactionCreate) toDomain() core.Transaction {
	isBusiness := true
	if p.IsBusiness != nil {
		isBusiness = *p.IsBusiness
	}
	currency := p.Currency
	if currency == "" {
		currency = "USD"
	}
	source := core.TransactionSource(p.Source)
	if source == "" {
		source = core.SourceManual
	}
	return core.Transaction{
		Date:          p.Date,
		Description:   p.Description,
		Amount:        p.Amount,
		Currency:      currency,
		CategoryID:    p.CategoryID,
		Subcategory:   p.Subcategory,
		Vendor:        p.Vendor,
		PaymentMethod: p.PaymentMethod,
		IsBusiness:    isBusiness,
		TaxDeductible: p.TaxDeductible,
		Notes:         p.Notes,
		ReceiptURL:    p.ReceiptURL,
		Source:        source,
	}
}

type transactionUpdate struct {
	Date          *core.Date       `json:"date"`
	Description   *string          `json:"description"`
	Amount        *decimal.Decimal `json:"amount"`
	Currency      *string          `json:"currency"`
	CategoryID    *int64           `json:"category_id"`
	Subcategory   *string          `json:"subcategory"`
	Vendor        *string          `json:"vendor"`
	PaymentMethod *string          `json:"payment_method"`
	IsBusiness    *bool            `json:"is_business"`
	TaxDeductible *bool            `json:"tax_deductible"`
	Notes         *string          `json:"notes"`
	ReceiptURL    *string          `json:"receipt_url"`
}

func (p transactionUpdate) apply(t *core.Transaction) {
	if p.Date != nil {
		t.Date = *p.Date
	}
	if p.Description != nil {
		t.Description = *p.Description
	}
	if p.Amount != nil {
		t.Amount = *p.Amount
	}
	if p.Currency != nil {
		t.Currency = *p.Currency
	}
	if p.CategoryID != nil {
		t.CategoryID = p.CategoryID
	}
	if p.Subcategory != nil {
		t.Subcategory = *p.Subcategory
	}
	if p.Vendor != nil {
		t.Vendor = *p.Vendor
	}
	if p.PaymentMethod != nil {
		t.PaymentMethod = *p.PaymentMethod
	}
	if p.IsBusiness != nil {
		t.IsBusiness = *p.IsBusiness
	}
	if p.TaxDeductible != nil {
		t.TaxDeductible = *p.TaxDeductible
	}
	if p.Notes != nil {
		t.Notes = *p.Notes
	}
	if p.ReceiptURL != nil {
		t.ReceiptURL = *p.ReceiptURL
	}
}

type transactionResponse struct {
	ID            int64                  `json:"id"`
	Date          core.Date              `json:"date"`
	Description   string                 `json:"description"`
	Amount        decimal.Decimal        `json:"amount"`
	Currency      string                 `json:"currency"`
	CategoryID    *int64                 `json:"category_id"`
	Subcategory   string                 `json:"subcategory"`
	Vendor        string                 `json:"vendor"`
	PaymentMethod string                 `json:"payment_method"`
	IsBusiness    bool                   `json:"is_business"`
	TaxDeductible bool                   `json:"tax_deductible"`
	Notes         string                 `json:"notes"`
	ReceiptURL    string                 `json:"receipt_url"`
	Source        core.TransactionSource `json:"source"`
	CategoryName  string                 `json:"category_name"`
	TaxCategory   core.TaxCategory       `json:"tax_category"`
	CreatedAt     time.Time              `json:"created_at"`
	UpdatedAt     time.Time              `json:"updated_at"`
}

func toTransactionResponse(t core.Transaction) transactionResponse {
	return transactionResponse{
		ID:            t.ID,
		Date:          t.Date,
		Description:   t.Description,
		Amount:        t.Amount,
		Currency:      t.Currency,
		CategoryID:    t.CategoryID,
		Subcategory:   t.Subcategory,
		Vendor:        t.Vendor,
		PaymentMethod: t.PaymentMethod,
		IsBusiness:    t.IsBusiness,
		TaxDeductible: t.TaxDeductible,
		Notes:         t.Notes,
		ReceiptURL:    t.ReceiptURL,
		Source:        t.Source,
		CategoryName:  t.CategoryName,
		TaxCategory:   t.TaxCategory,
		CreatedAt:     t.CreatedAt,
		UpdatedAt:     t.UpdatedAt,
	}
}

func toTransactionResponses(txns []core.Transaction) []transactionResponse {
	out := make([]transactionResponse, 0, len(txns))
	for _, t := range txns {
		out = append(out, toTransactionResponse(t))
	}
	return out
}

type categoryPayload struct {
	Name        *string            `json:"name"`
	Type        *core.CategoryType `json:"type"`
	ParentID    *int64             `json:"parent_id"`
	TaxCategory *core.TaxCategory  `json:"tax_category"`
	Description *string            `json:"description"`
}

func (p categoryPayload) apply(c *core.Category) {
	if p.Name != nil {
		c.Name = *p.Name
	}
	if p.Type != nil {
		c.Type = *p.Type
	}
	if p.ParentID != nil {
		c.ParentID = p.ParentID
	}
	if p.TaxCategory != nil {
		c.TaxCategory = *p.TaxCategory
	}
	if p.Description != nil {
		c.Description = *p.Description
	}
}

type categoryResponse struct {
	ID          int64             `json:"id"`
	Name        string            `json:"name"`
	Type        core.CategoryType `json:"type"`
	ParentID    *int64            `json:"parent_id"`
	TaxCategory core.TaxCategory  `json:"tax_category"`
	Description string            `json:"description"`
}

func toCategoryResponse(c core.Category) categoryResponse {
	return categoryResponse{
		ID:          c.ID,
		Name:        c.Name,
		Type:        c.Type,
		ParentID:    c.ParentID,
		TaxCategory: c.TaxCategory,
		Description: c.Description,
	}
}

type accountPayload struct {
	Name        *string          `json:"name"`
	Type        *string          `json:"type"`
	Institution *string          `json:"institution"`
	LastFour    *string          `json:"last_four"`
	Currency    *string          `json:"currency"`
	Balance     *decimal.Decimal `json:"balance"`
}

func (p accountPayload) apply(a *core.Account) {
	if p.Name != nil {
		a.Name = *p.Name
	}
	if p.Type != nil {
		a.Type = *p.Type
	}
	if p.Institution != nil {
		a.Institution = *p.Institution
	}
	if p.LastFour != nil {
		a.LastFour = *p.LastFour
	}
	if p.Currency != nil {
		a.Currency = *p.Currency
	}
	if p.Balance != nil {
		a.Balance = *p.Balance
	}
}

type accountResponse struct {
	ID          int64           `json:"id"`
	Name        string          `json:"name"`
	Type        string          `json:"type"`
	Institution string          `json:"institution"`
	LastFour    string          `json:"last_four"`
	Currency    string          `json:"currency"`
	Balance     decimal.Decimal `json:"balance"`
}

func toAccountResponse(a core.Account) accountResponse {
	return accountResponse{
		ID:          a.ID,
		Name:        a.Name,
		Type:        a.Type,
		Institution: a.Institution,
		LastFour:    a.LastFour,
		Currency:    a.Currency,
		Balance:     a.Balance,
	}
}

type budgetPayload struct {
	CategoryID *int64             `json:"category_id"`
	Period     *core.BudgetPeriod `json:"period"`
	Amount     *decimal.Decimal   `json:"amount"`
	Year       *int               `json:"year"`
	Month      *int               `json:"month"`
}

func (p budgetPayload) apply(b *core.Budget) {
	if p.CategoryID != nil {
		b.CategoryID = *p.CategoryID
	}
	if p.Period != nil {
		b.Period = *p.Period
	}
	if p.Amount != nil {
		b.Amount = *p.Amount
	}
	if p.Year != nil {
		b.Year = *p.Year
	}
	if p.Month != nil {
		b.Month = p.Month
	}
}

type budgetResponse struct {
	ID           int64             `json:"id"`
	CategoryID   int64             `json:"category_id"`
	Period       core.BudgetPeriod `json:"period"`
	Amount       decimal.Decimal   `json:"amount"`
	Year         int               `json:"year"`
	Month        *int              `json:"month"`
	CategoryName string            `json:"category_name"`
}

func toBudgetResponse(b core.Budget) budgetResponse {
	return budgetResponse{
		ID:           b.ID,
		CategoryID:   b.CategoryID,
		Period:       b.Period,
		Amount:       b.Amount,
		Year:         b.Year,
		Month:        b.Month,
		CategoryName: b.CategoryName,
	}
}

type reportPayload struct {
	Name       *string        `json:"name"`
	Type       *string        `json:"type"`
	Parameters map[string]any `json:"parameters"`
}

func (p reportPayload) apply(rep *core.Report) {
	if p.Name != nil {
		rep.Name = *p.Name
	}
	if p.Type != nil {
		rep.Type = *p.Type
	}
	if p.Parameters != nil {
		rep.Parameters = p.Parameters
	}
}

type reportResponse struct {
	ID          int64          `json:"id"`
	Name        string         `json:"name"`
	Type        string         `json:"type"`
	Parameters  map[string]any `json:"parameters"`
	GeneratedAt time.Time      `json:"generated_at"`
}

func toReportResponse(rep core.Report) reportResponse {
	return reportResponse{
		ID:          rep.ID,
		Name:        rep.Name,
		Type:        rep.Type,
		Parameters:  rep.Parameters,
		GeneratedAt: rep.GeneratedAt,
	}
}

type classifyRequest struct {
	Description string `json:"description"`
	Vendor      string `json:"vendor"`
}
