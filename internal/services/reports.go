package services

import (
	"context"
	"fmt"
	"time"

	"financepro/internal/core"
	"financepro/internal/reports"
	"financepro/internal/storage"
)

// ReportService loads a transaction snapshot and hands it to the pure
// report builders.
type ReportService struct {
	storage *storage.SQLiteRepository
}

func NewReportService(storage *storage.SQLiteRepository) *ReportService {
	return &ReportService{storage: storage}
}

func (s *ReportService) Dashboard(ctx context.Context, now time.Time) (reports.DashboardSummary, error) {
	txns, err := s.storage.AllTransactions(ctx)
	if err != nil {
		return reports.DashboardSummary{}, fmt.Errorf("load transactions: %w", err)
	}
	return reports.BuildDashboard(now, txns), nil
}

func (s *ReportService) TaxYear(ctx context.Context, year int) (reports.TaxYearSummary, error) {
	txns, err := s.storage.AllTransactions(ctx)
	if err != nil {
		return reports.TaxYearSummary{}, fmt.Errorf("load transactions: %w", err)
	}
	return reports.BuildTaxYear(year, txns), nil
}

func (s *ReportService) Month(ctx context.Context, year, month int) (reports.MonthReport, error) {
	txns, err := s.storage.AllTransactions(ctx)
	if err != nil {
		return reports.MonthReport{}, fmt.Errorf("load transactions: %w", err)
	}
	return reports.BuildMonth(year, month, txns), nil
}

// Category fails with storage.ErrNotFound when the id does not exist;
// an existing category with no transactions reports zeroed aggregates.
func (s *ReportService) Category(ctx context.Context, categoryID int64, start, end *core.Date) (reports.CategoryReport, error) {
	cat, err := s.storage.GetCategory(ctx, categoryID)
	if err != nil {
		return reports.CategoryReport{}, err
	}

	txns, err := s.storage.AllTransactions(ctx)
	if err != nil {
		return reports.CategoryReport{}, fmt.Errorf("load transactions: %w", err)
	}
	return reports.BuildCategory(cat, start, end, txns), nil
}
