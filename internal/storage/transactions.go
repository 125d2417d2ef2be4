package storage

import (
	"context"
	"database/sql"
	"log/slog"
	"strings"
	"time"

	"financepro/internal/core"
)

// TransactionFilter narrows ListTransactions. Nil and zero fields are
// ignored; dates are inclusive bounds.
type TransactionFilter struct {
	CategoryID    *int64
	IsBusiness    *bool
	TaxDeductible *bool
	Source        string
	StartDate     *core.Date
	EndDate       *core.Date
	Search        string
	Limit         int
	Offset        int
}

const transactionSelect = `
SELECT t.id, t.date, t.description, t.amount, t.currency, t.category_id,
       t.subcategory, t.vendor, t.payment_method, t.is_business,
       t.tax_deductible, t.notes, t.receipt_url, t.source,
       t.created_at, t.updated_at,
       c.name, c.type, c.tax_category
FROM transactions t
LEFT JOIN categories c ON c.id = t.category_id`

func (r *SQLiteRepository) CreateTransaction(ctx context.Context, t core.Transaction) (core.Transaction, error) {
	now := time.Now()
	t.CreatedAt = now
	t.UpdatedAt = now

	res, err := r.db.ExecContext(ctx,
		`INSERT INTO transactions (date, description, amount, currency, category_id,
		 subcategory, vendor, payment_method, is_business, tax_deductible,
		 notes, receipt_url, source, created_at, updated_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		t.Date.String(), t.Description, t.Amount.String(), t.Currency, t.CategoryID,
		t.Subcategory, t.Vendor, t.PaymentMethod, t.IsBusiness, t.TaxDeductible,
		t.Notes, t.ReceiptURL, string(t.Source), formatTime(now), formatTime(now))
	if err != nil {
		return core.Transaction{}, wrapErr("create transaction", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return core.Transaction{}, wrapErr("create transaction", err)
	}

	slog.InfoContext(ctx, "Transaction created",
		"id", id,
		"date", t.Date.String(),
		"amount", t.Amount.String(),
		"source", t.Source)

	// Re-read to resolve the joined category fields.
	return r.GetTransaction(ctx, id)
}

// CreateTransactions inserts a batch atomically. Either every row lands
// or none do; the import endpoint relies on this.
func (r *SQLiteRepository) CreateTransactions(ctx context.Context, txns []core.Transaction) ([]int64, error) {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, wrapErr("create transactions", err)
	}
	defer tx.Rollback()

	stmt, err := tx.PrepareContext(ctx,
		`INSERT INTO transactions (date, description, amount, currency, category_id,
		 subcategory, vendor, payment_method, is_business, tax_deductible,
		 notes, receipt_url, source, created_at, updated_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return nil, wrapErr("create transactions", err)
	}
	defer stmt.Close()

	now := formatTime(time.Now())
	ids := make([]int64, 0, len(txns))
	for _, t := range txns {
		res, err := stmt.ExecContext(ctx,
			t.Date.String(), t.Description, t.Amount.String(), t.Currency, t.CategoryID,
			t.Subcategory, t.Vendor, t.PaymentMethod, t.IsBusiness, t.TaxDeductible,
			t.Notes, t.ReceiptURL, string(t.Source), now, now)
		if err != nil {
			return nil, wrapErr("create transactions", err)
		}
		id, err := res.LastInsertId()
		if err != nil {
			return nil, wrapErr("create transactions", err)
		}
		ids = append(ids, id)
	}

	if err := tx.Commit(); err != nil {
		return nil, wrapErr("create transactions", err)
	}

	slog.InfoContext(ctx, "Transactions imported", "count", len(ids))
	return ids, nil
}

func (r *SQLiteRepository) GetTransaction(ctx context.Context, id int64) (core.Transaction, error) {
	row := r.db.QueryRowContext(ctx, transactionSelect+" WHERE t.id = ?", id)
	t, err := scanTransaction(row)
	if err != nil {
		return core.Transaction{}, wrapErr("get transaction", err)
	}
	return t, nil
}

func (r *SQLiteRepository) ListTransactions(ctx context.Context, f TransactionFilter) ([]core.Transaction, error) {
	var (
		conds []string
		args  []any
	)
	if f.CategoryID != nil {
		conds = append(conds, "t.category_id = ?")
		args = append(args, *f.CategoryID)
	}
	if f.IsBusiness != nil {
		conds = append(conds, "t.is_business = ?")
		args = append(args, *f.IsBusiness)
	}
	if f.TaxDeductible != nil {
		conds = append(conds, "t.tax_deductible = ?")
		args = append(args, *f.TaxDeductible)
	}
	if f.Source != "" {
		conds = append(conds, "t.source = ?")
		args = append(args, f.Source)
	}
	if f.StartDate != nil {
		conds = append(conds, "t.date >= ?")
		args = append(args, f.StartDate.String())
	}
	if f.EndDate != nil {
		conds = append(conds, "t.date <= ?")
		args = append(args, f.EndDate.String())
	}
	if f.Search != "" {
		conds = append(conds, "(t.description LIKE ? OR t.vendor LIKE ?)")
		pattern := "%" + f.Search + "%"
		args = append(args, pattern, pattern)
	}

	query := transactionSelect
	if len(conds) > 0 {
		query += " WHERE " + strings.Join(conds, " AND ")
	}
	query += " ORDER BY t.date DESC, t.id DESC"
	if f.Limit > 0 {
		query += " LIMIT ?"
		args = append(args, f.Limit)
		if f.Offset > 0 {
			query += " OFFSET ?"
			args = append(args, f.Offset)
		}
	}

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, wrapErr("list transactions", err)
	}
	defer rows.Close()

	var out []core.Transaction
	for rows.Next() {
		t, err := scanTransaction(rows)
		if err != nil {
			return nil, wrapErr("list transactions", err)
		}
		out = append(out, t)
	}
	if err := rows.Err(); err != nil {
		return nil, wrapErr("list transactions", err)
	}
	return out, nil
}

// AllTransactions loads the full resolved set for the report builders.
func (r *SQLiteRepository) AllTransactions(ctx context.Context) ([]core.Transaction, error) {
	return r.ListTransactions(ctx, TransactionFilter{})
}

func (r *SQLiteRepository) UpdateTransaction(ctx context.Context, t core.Transaction) (core.Transaction, error) {
	res, err := r.db.ExecContext(ctx,
		`UPDATE transactions
		 SET date = ?, description = ?, amount = ?, currency = ?, category_id = ?,
		     subcategory = ?, vendor = ?, payment_method = ?, is_business = ?,
		     tax_deductible = ?, notes = ?, receipt_url = ?, updated_at = ?
		 WHERE id = ?`,
		t.Date.String(), t.Description, t.Amount.String(), t.Currency, t.CategoryID,
		t.Subcategory, t.Vendor, t.PaymentMethod, t.IsBusiness,
		t.TaxDeductible, t.Notes, t.ReceiptURL, formatTime(time.Now()), t.ID)
	if err != nil {
		return core.Transaction{}, wrapErr("update transaction", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return core.Transaction{}, wrapErr("update transaction", err)
	}
	if n == 0 {
		return core.Transaction{}, wrapErr("update transaction", sql.ErrNoRows)
	}
	return r.GetTransaction(ctx, t.ID)
}

// SetTransactionCategory points the transaction at a category, or
// clears it when categoryID is nil.
func (r *SQLiteRepository) SetTransactionCategory(ctx context.Context, id int64, categoryID *int64) (core.Transaction, error) {
	res, err := r.db.ExecContext(ctx,
		"UPDATE transactions SET category_id = ?, updated_at = ? WHERE id = ?",
		categoryID, formatTime(time.Now()), id)
	if err != nil {
		return core.Transaction{}, wrapErr("set transaction category", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return core.Transaction{}, wrapErr("set transaction category", err)
	}
	if n == 0 {
		return core.Transaction{}, wrapErr("set transaction category", sql.ErrNoRows)
	}
	return r.GetTransaction(ctx, id)
}

func (r *SQLiteRepository) DeleteTransaction(ctx context.Context, id int64) error {
	res, err := r.db.ExecContext(ctx, "DELETE FROM transactions WHERE id = ?", id)
	if err != nil {
		return wrapErr("delete transaction", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return wrapErr("delete transaction", err)
	}
	if n == 0 {
		return wrapErr("delete transaction", sql.ErrNoRows)
	}

	slog.InfoContext(ctx, "Transaction deleted", "id", id)
	return nil
}

func scanTransaction(row rowScanner) (core.Transaction, error) {
	var (
		t                  core.Transaction
		date, amount       string
		source             string
		createdAt, updated string
		catName, catType   sql.NullString
		catTax             sql.NullString
	)
	err := row.Scan(&t.ID, &date, &t.Description, &amount, &t.Currency, &t.CategoryID,
		&t.Subcategory, &t.Vendor, &t.PaymentMethod, &t.IsBusiness,
		&t.TaxDeductible, &t.Notes, &t.ReceiptURL, &source,
		&createdAt, &updated,
		&catName, &catType, &catTax)
	if err != nil {
		return core.Transaction{}, err
	}

	d, err := core.ParseDate(date)
	if err != nil {
		return core.Transaction{}, err
	}
	t.Date = d

	dec, err := scanDecimal(amount)
	if err != nil {
		return core.Transaction{}, err
	}
	t.Amount = dec

	t.Source = core.TransactionSource(source)
	t.CreatedAt = parseTime(createdAt)
	t.UpdatedAt = parseTime(updated)
	if catName.Valid {
		t.CategoryName = catName.String
		t.CategoryType = core.CategoryType(catType.String)
		t.TaxCategory = core.TaxCategory(catTax.String)
	}
	return t, nil
}
