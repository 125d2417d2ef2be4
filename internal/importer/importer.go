// Package importer parses uploaded CSV or JSON files into transactions.
// Parsing is per row: a bad row is reported with its position and never
// aborts the rest of the file.
package importer

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"

	"github.com/gocarina/gocsv"

	"financepro/internal/core"
)

// Row mirrors one line of an import file. Every field is textual so the
// same shape serves both the CSV header and JSON objects.
type Row struct {
	Date          string `csv:"date" json:"date"`
	Description   string `csv:"description" json:"description"`
	Amount        string `csv:"amount" json:"amount"`
	Currency      string `csv:"currency" json:"currency"`
	CategoryID    string `csv:"category_id" json:"category_id"`
	Subcategory   string `csv:"subcategory" json:"subcategory"`
	Vendor        string `csv:"vendor" json:"vendor"`
	PaymentMethod string `csv:"payment_method" json:"payment_method"`
	IsBusiness    string `csv:"is_business" json:"is_business"`
	TaxDeductible string `csv:"tax_deductible" json:"tax_deductible"`
	Notes         string `csv:"notes" json:"notes"`
	ReceiptURL    string `csv:"receipt_url" json:"receipt_url"`
}

// RowError reports one rejected row. Row numbers are 1-based.
type RowError struct {
	Row   int    `json:"row"`
	Error string `json:"error"`
}

// Result is the outcome of parsing one upload.
type Result struct {
	Transactions []core.Transaction
	Errors       []RowError
}

// CategoryChecker reports whether a category id exists. Unknown ids are
// dropped silently so imported rows land unclassified instead of
// failing.
type CategoryChecker func(id int64) bool

var dateLayouts = []string{"2006-01-02", "1/2/2006", "2/1/2006", "2006/1/2"}

// Parse decodes the upload, preferring JSON when the name or content
// type says so, otherwise sniffing JSON and falling back to CSV.
func Parse(data []byte, filename, contentType string, hasCategory CategoryChecker) (Result, error) {
	rows, err := decodeRows(data, filename, contentType)
	if err != nil {
		return Result{}, err
	}

	var res Result
	for i, row := range rows {
		txn, err := convertRow(row, hasCategory)
		if err != nil {
			res.Errors = append(res.Errors, RowError{Row: i + 1, Error: err.Error()})
			continue
		}
		res.Transactions = append(res.Transactions, txn)
	}
	return res, nil
}

func decodeRows(data []byte, filename, contentType string) ([]Row, error) {
	data = bytes.TrimPrefix(data, []byte("\xef\xbb\xbf"))

	isJSON := strings.HasSuffix(strings.ToLower(filename), ".json") ||
		strings.HasPrefix(contentType, "application/json")
	if !isJSON {
		isJSON = json.Valid(data)
	}

	if isJSON {
		var raw []map[string]any
		if err := json.Unmarshal(data, &raw); err != nil {
			return nil, fmt.Errorf("invalid JSON: body must be an array of transaction objects: %w", err)
		}
		rows := make([]Row, len(raw))
		for i, m := range raw {
			rows[i] = rowFromMap(m)
		}
		return rows, nil
	}

	var rows []Row
	if err := gocsv.UnmarshalBytes(data, &rows); err != nil {
		return nil, fmt.Errorf("invalid CSV: %w", err)
	}
	return rows, nil
}

func rowFromMap(m map[string]any) Row {
	return Row{
		Date:          stringField(m, "date"),
		Description:   stringField(m, "description"),
		Amount:        stringField(m, "amount"),
		Currency:      stringField(m, "currency"),
		CategoryID:    stringField(m, "category_id"),
		Subcategory:   stringField(m, "subcategory"),
		Vendor:        stringField(m, "vendor"),
		PaymentMethod: stringField(m, "payment_method"),
		IsBusiness:    stringField(m, "is_business"),
		TaxDeductible: stringField(m, "tax_deductible"),
		Notes:         stringField(m, "notes"),
		ReceiptURL:    stringField(m, "receipt_url"),
	}
}

func stringField(m map[string]any, key string) string {
	v, ok := m[key]
	if !ok || v == nil {
		return ""
	}
	switch t := v.(type) {
	case string:
		return t
	case bool:
		return strconv.FormatBool(t)
	case float64:
		return strconv.FormatFloat(t, 'f', -1, 64)
	default:
		return fmt.Sprint(t)
	}
}

func convertRow(row Row, hasCategory CategoryChecker) (core.Transaction, error) {
	date, err := parseDate(row.Date)
	if err != nil {
		return core.Transaction{}, err
	}

	amount, err := core.ParseAmount(row.Amount)
	if err != nil {
		return core.Transaction{}, fmt.Errorf("invalid amount %q", row.Amount)
	}

	description := strings.TrimSpace(row.Description)
	if description == "" {
		description = "Imported transaction"
	}

	currency := strings.ToUpper(strings.TrimSpace(row.Currency))
	if currency == "" {
		currency = "USD"
	}
	if len(currency) > 3 {
		currency = currency[:3]
	}

	var categoryID *int64
	if raw := strings.TrimSpace(row.CategoryID); raw != "" && raw != "null" {
		id, err := strconv.ParseInt(raw, 10, 64)
		if err != nil {
			return core.Transaction{}, fmt.Errorf("invalid category_id %q", row.CategoryID)
		}
		// Unknown categories are dropped, not rejected.
		if hasCategory != nil && hasCategory(id) {
			categoryID = &id
		}
	}

	return core.Transaction{
		Date:          date,
		Description:   description,
		Amount:        amount,
		Currency:      currency,
		CategoryID:    categoryID,
		Subcategory:   row.Subcategory,
		Vendor:        row.Vendor,
		PaymentMethod: row.PaymentMethod,
		IsBusiness:    parseBool(row.IsBusiness, true),
		TaxDeductible: parseBool(row.TaxDeductible, false),
		Notes:         row.Notes,
		ReceiptURL:    row.ReceiptURL,
		Source:        core.SourceImport,
	}, nil
}

func parseDate(s string) (core.Date, error) {
	s = strings.TrimSpace(s)
	for _, layout := range dateLayouts {
		if d, err := core.ParseDateLayout(s, layout); err == nil {
			return d, nil
		}
	}
	return core.Date{}, fmt.Errorf("cannot parse date %q", s)
}

func parseBool(s string, def bool) bool {
	s = strings.ToLower(strings.TrimSpace(s))
	if s == "" {
		return def
	}
	switch s {
	case "true", "1", "yes":
		return true
	default:
		return false
	}
}
