package storage

import (
	"context"
	"database/sql"
	"log/slog"

	"financepro/internal/core"
)

const categoryColumns = "id, name, type, parent_id, tax_category, description"

func (r *SQLiteRepository) CreateCategory(ctx context.Context, c core.Category) (core.Category, error) {
	res, err := r.db.ExecContext(ctx,
		`INSERT INTO categories (name, type, parent_id, tax_category, description)
		 VALUES (?, ?, ?, ?, ?)`,
		c.Name, string(c.Type), c.ParentID, string(c.TaxCategory), c.Description)
	if err != nil {
		return core.Category{}, wrapErr("create category", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return core.Category{}, wrapErr("create category", err)
	}
	c.ID = id

	slog.InfoContext(ctx, "Category created", "id", c.ID, "name", c.Name, "type", c.Type)
	return c, nil
}

func (r *SQLiteRepository) GetCategory(ctx context.Context, id int64) (core.Category, error) {
	row := r.db.QueryRowContext(ctx,
		"SELECT "+categoryColumns+" FROM categories WHERE id = ?", id)
	c, err := scanCategory(row)
	if err != nil {
		return core.Category{}, wrapErr("get category", err)
	}
	return c, nil
}

// GetCategoryByName resolves a category by its exact name. The
// classifier's suggestions are looked up this way.
func (r *SQLiteRepository) GetCategoryByName(ctx context.Context, name string) (core.Category, error) {
	row := r.db.QueryRowContext(ctx,
		"SELECT "+categoryColumns+" FROM categories WHERE name = ?", name)
	c, err := scanCategory(row)
	if err != nil {
		return core.Category{}, wrapErr("get category by name", err)
	}
	return c, nil
}

func (r *SQLiteRepository) ListCategories(ctx context.Context) ([]core.Category, error) {
	rows, err := r.db.QueryContext(ctx,
		"SELECT "+categoryColumns+" FROM categories ORDER BY name")
	if err != nil {
		return nil, wrapErr("list categories", err)
	}
	defer rows.Close()

	var out []core.Category
	for rows.Next() {
		c, err := scanCategory(rows)
		if err != nil {
			return nil, wrapErr("list categories", err)
		}
		out = append(out, c)
	}
	if err := rows.Err(); err != nil {
		return nil, wrapErr("list categories", err)
	}
	return out, nil
}

func (r *SQLiteRepository) UpdateCategory(ctx context.Context, c core.Category) (core.Category, error) {
	res, err := r.db.ExecContext(ctx,
		`UPDATE categories
		 SET name = ?, type = ?, parent_id = ?, tax_category = ?, description = ?
		 WHERE id = ?`,
		c.Name, string(c.Type), c.ParentID, string(c.TaxCategory), c.Description, c.ID)
	if err != nil {
		return core.Category{}, wrapErr("update category", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return core.Category{}, wrapErr("update category", err)
	}
	if n == 0 {
		return core.Category{}, wrapErr("update category", sql.ErrNoRows)
	}
	return c, nil
}

// DeleteCategory removes the category. Referencing transactions keep
// their rows and fall back to unclassified via ON DELETE SET NULL.
func (r *SQLiteRepository) DeleteCategory(ctx context.Context, id int64) error {
	res, err := r.db.ExecContext(ctx, "DELETE FROM categories WHERE id = ?", id)
	if err != nil {
		return wrapErr("delete category", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return wrapErr("delete category", err)
	}
	if n == 0 {
		return wrapErr("delete category", sql.ErrNoRows)
	}

	slog.InfoContext(ctx, "Category deleted", "id", id)
	return nil
}

func (r *SQLiteRepository) CountCategories(ctx context.Context) (int, error) {
	var n int
	if err := r.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM categories").Scan(&n); err != nil {
		return 0, wrapErr("count categories", err)
	}
	return n, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanCategory(row rowScanner) (core.Category, error) {
	var (
		c        core.Category
		typ, tax string
	)
	if err := row.Scan(&c.ID, &c.Name, &typ, &c.ParentID, &tax, &c.Description); err != nil {
		return core.Category{}, err
	}
	c.Type = core.CategoryType(typ)
	c.TaxCategory = core.TaxCategory(tax)
	return c, nil
}
