package storage

import (
	"context"
	"database/sql"
	"log/slog"

	"financepro/internal/core"
)

const accountColumns = "id, name, type, institution, last_four, currency, balance"

func (r *SQLiteRepository) CreateAccount(ctx context.Context, a core.Account) (core.Account, error) {
	res, err := r.db.ExecContext(ctx,
		`INSERT INTO accounts (name, type, institution, last_four, currency, balance)
		 VALUES (?, ?, ?, ?, ?, ?)`,
		a.Name, a.Type, a.Institution, a.LastFour, a.Currency, a.Balance.String())
	if err != nil {
		return core.Account{}, wrapErr("create account", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return core.Account{}, wrapErr("create account", err)
	}
	a.ID = id

	slog.InfoContext(ctx, "Account created", "id", a.ID, "name", a.Name)
	return a, nil
}

func (r *SQLiteRepository) GetAccount(ctx context.Context, id int64) (core.Account, error) {
	row := r.db.QueryRowContext(ctx,
		"SELECT "+accountColumns+" FROM accounts WHERE id = ?", id)
	a, err := scanAccount(row)
	if err != nil {
		return core.Account{}, wrapErr("get account", err)
	}
	return a, nil
}

func (r *SQLiteRepository) ListAccounts(ctx context.Context) ([]core.Account, error) {
	rows, err := r.db.QueryContext(ctx,
		"SELECT "+accountColumns+" FROM accounts ORDER BY name")
	if err != nil {
		return nil, wrapErr("list accounts", err)
	}
	defer rows.Close()

	var out []core.Account
	for rows.Next() {
		a, err := scanAccount(rows)
		if err != nil {
			return nil, wrapErr("list accounts", err)
		}
		out = append(out, a)
	}
	if err := rows.Err(); err != nil {
		return nil, wrapErr("list accounts", err)
	}
	return out, nil
}

func (r *SQLiteRepository) UpdateAccount(ctx context.Context, a core.Account) (core.Account, error) {
	res, err := r.db.ExecContext(ctx,
		`UPDATE accounts
		 SET name = ?, type = ?, institution = ?, last_four = ?, currency = ?, balance = ?
		 WHERE id = ?`,
		a.Name, a.Type, a.Institution, a.LastFour, a.Currency, a.Balance.String(), a.ID)
	if err != nil {
		return core.Account{}, wrapErr("update account", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return core.Account{}, wrapErr("update account", err)
	}
	if n == 0 {
		return core.Account{}, wrapErr("update account", sql.ErrNoRows)
	}
	return a, nil
}

func (r *SQLiteRepository) DeleteAccount(ctx context.Context, id int64) error {
	res, err := r.db.ExecContext(ctx, "DELETE FROM accounts WHERE id = ?", id)
	if err != nil {
		return wrapErr("delete account", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return wrapErr("delete account", err)
	}
	if n == 0 {
		return wrapErr("delete account", sql.ErrNoRows)
	}

	slog.InfoContext(ctx, "Account deleted", "id", id)
	return nil
}

func scanAccount(row rowScanner) (core.Account, error) {
	var (
		a       core.Account
		balance string
	)
	if err := row.Scan(&a.ID, &a.Name, &a.Type, &a.Institution, &a.LastFour, &a.Currency, &balance); err != nil {
		return core.Account{}, err
	}
	dec, err := scanDecimal(balance)
	if err != nil {
		return core.Account{}, err
	}
	a.Balance = dec
	return a, nil
}
