package storage

import (
	"context"
	"database/sql"
	"encoding/json"
	"log/slog"
	"time"

	"financepro/internal/core"
)

func (r *SQLiteRepository) CreateReport(ctx context.Context, rep core.Report) (core.Report, error) {
	params, err := json.Marshal(rep.Parameters)
	if err != nil {
		return core.Report{}, wrapErr("create report", err)
	}
	rep.GeneratedAt = time.Now()

	res, err := r.db.ExecContext(ctx,
		"INSERT INTO reports (name, type, parameters, generated_at) VALUES (?, ?, ?, ?)",
		rep.Name, rep.Type, string(params), formatTime(rep.GeneratedAt))
	if err != nil {
		return core.Report{}, wrapErr("create report", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return core.Report{}, wrapErr("create report", err)
	}
	rep.ID = id

	slog.InfoContext(ctx, "Report saved", "id", rep.ID, "name", rep.Name, "type", rep.Type)
	return rep, nil
}

func (r *SQLiteRepository) GetReport(ctx context.Context, id int64) (core.Report, error) {
	row := r.db.QueryRowContext(ctx,
		"SELECT id, name, type, parameters, generated_at FROM reports WHERE id = ?", id)
	rep, err := scanReport(row)
	if err != nil {
		return core.Report{}, wrapErr("get report", err)
	}
	return rep, nil
}

func (r *SQLiteRepository) ListReports(ctx context.Context) ([]core.Report, error) {
	rows, err := r.db.QueryContext(ctx,
		"SELECT id, name, type, parameters, generated_at FROM reports ORDER BY generated_at DESC, id DESC")
	if err != nil {
		return nil, wrapErr("list reports", err)
	}
	defer rows.Close()

	var out []core.Report
	for rows.Next() {
		rep, err := scanReport(rows)
		if err != nil {
			return nil, wrapErr("list reports", err)
		}
		out = append(out, rep)
	}
	if err := rows.Err(); err != nil {
		return nil, wrapErr("list reports", err)
	}
	return out, nil
}

func (r *SQLiteRepository) UpdateReport(ctx context.Context, rep core.Report) (core.Report, error) {
	params, err := json.Marshal(rep.Parameters)
	if err != nil {
		return core.Report{}, wrapErr("update report", err)
	}

	res, err := r.db.ExecContext(ctx,
		"UPDATE reports SET name = ?, type = ?, parameters = ? WHERE id = ?",
		rep.Name, rep.Type, string(params), rep.ID)
	if err != nil {
		return core.Report{}, wrapErr("update report", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return core.Report{}, wrapErr("update report", err)
	}
	if n == 0 {
		return core.Report{}, wrapErr("update report", sql.ErrNoRows)
	}
	return r.GetReport(ctx, rep.ID)
}

func (r *SQLiteRepository) DeleteReport(ctx context.Context, id int64) error {
	res, err := r.db.ExecContext(ctx, "DELETE FROM reports WHERE id = ?", id)
	if err != nil {
		return wrapErr("delete report", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return wrapErr("delete report", err)
	}
	if n == 0 {
		return wrapErr("delete report", sql.ErrNoRows)
	}

	slog.InfoContext(ctx, "Report deleted", "id", id)
	return nil
}

func scanReport(row rowScanner) (core.Report, error) {
	var (
		rep         core.Report
		params      string
		generatedAt string
	)
	if err := row.Scan(&rep.ID, &rep.Name, &rep.Type, &params, &generatedAt); err != nil {
		return core.Report{}, err
	}
	if params != "" {
		if err := json.Unmarshal([]byte(params), &rep.Parameters); err != nil {
			return core.Report{}, err
		}
	}
	rep.GeneratedAt = parseTime(generatedAt)
	return rep, nil
}
