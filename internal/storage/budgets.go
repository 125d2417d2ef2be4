package storage

import (
	"context"
	"database/sql"
	"log/slog"

	"financepro/internal/core"
)

const budgetSelect = `
SELECT b.id, b.category_id, b.period, b.amount, b.year, b.month, c.name
FROM budgets b
JOIN categories c ON c.id = b.category_id`

func (r *SQLiteRepository) CreateBudget(ctx context.Context, b core.Budget) (core.Budget, error) {
	res, err := r.db.ExecContext(ctx,
		`INSERT INTO budgets (category_id, period, amount, year, month)
		 VALUES (?, ?, ?, ?, ?)`,
		b.CategoryID, string(b.Period), b.Amount.String(), b.Year, b.Month)
	if err != nil {
		return core.Budget{}, wrapErr("create budget", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return core.Budget{}, wrapErr("create budget", err)
	}

	slog.InfoContext(ctx, "Budget created",
		"id", id, "category_id", b.CategoryID, "period", b.Period, "year", b.Year)
	return r.GetBudget(ctx, id)
}

func (r *SQLiteRepository) GetBudget(ctx context.Context, id int64) (core.Budget, error) {
	row := r.db.QueryRowContext(ctx, budgetSelect+" WHERE b.id = ?", id)
	b, err := scanBudget(row)
	if err != nil {
		return core.Budget{}, wrapErr("get budget", err)
	}
	return b, nil
}

func (r *SQLiteRepository) ListBudgets(ctx context.Context, year int) ([]core.Budget, error) {
	query := budgetSelect
	var args []any
	if year > 0 {
		query += " WHERE b.year = ?"
		args = append(args, year)
	}
	query += " ORDER BY b.year, b.month, c.name"

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, wrapErr("list budgets", err)
	}
	defer rows.Close()

	var out []core.Budget
	for rows.Next() {
		b, err := scanBudget(rows)
		if err != nil {
			return nil, wrapErr("list budgets", err)
		}
		out = append(out, b)
	}
	if err := rows.Err(); err != nil {
		return nil, wrapErr("list budgets", err)
	}
	return out, nil
}

func (r *SQLiteRepository) UpdateBudget(ctx context.Context, b core.Budget) (core.Budget, error) {
	res, err := r.db.ExecContext(ctx,
		`UPDATE budgets
		 SET category_id = ?, period = ?, amount = ?, year = ?, month = ?
		 WHERE id = ?`,
		b.CategoryID, string(b.Period), b.Amount.String(), b.Year, b.Month, b.ID)
	if err != nil {
		return core.Budget{}, wrapErr("update budget", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return core.Budget{}, wrapErr("update budget", err)
	}
	if n == 0 {
		return core.Budget{}, wrapErr("update budget", sql.ErrNoRows)
	}
	return r.GetBudget(ctx, b.ID)
}

func (r *SQLiteRepository) DeleteBudget(ctx context.Context, id int64) error {
	res, err := r.db.ExecContext(ctx, "DELETE FROM budgets WHERE id = ?", id)
	if err != nil {
		return wrapErr("delete budget", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return wrapErr("delete budget", err)
	}
	if n == 0 {
		return wrapErr("delete budget", sql.ErrNoRows)
	}

	slog.InfoContext(ctx, "Budget deleted", "id", id)
	return nil
}

func scanBudget(row rowScanner) (core.Budget, error) {
	var (
		b      core.Budget
		period string
		amount string
	)
	if err := row.Scan(&b.ID, &b.CategoryID, &period, &amount, &b.Year, &b.Month, &b.CategoryName); err != nil {
		return core.Budget{}, err
	}
	b.Period = core.BudgetPeriod(period)
	dec, err := scanDecimal(amount)
	if err != nil {
		return core.Budget{}, err
	}
	b.Amount = dec
	return b, nil
}
