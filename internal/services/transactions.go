// Package services orchestrates storage, classification and event
// publishing behind the HTTP handlers.
package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"financepro/internal/classify"
	"financepro/internal/core"
	"financepro/internal/events"
	"financepro/internal/importer"
	"financepro/internal/storage"
)

// TransactionService wraps transaction writes so storage stays the
// source of truth and event publishing never fails a request.
type TransactionService struct {
	storage   *storage.SQLiteRepository
	publisher *events.Publisher
}

func NewTransactionService(storage *storage.SQLiteRepository, publisher *events.Publisher) *TransactionService {
	return &TransactionService{
		storage:   storage,
		publisher: publisher,
	}
}

// Create validates the category reference, persists the transaction and
// announces it. A broker failure is logged, not returned.
func (s *TransactionService) Create(ctx context.Context, txn core.Transaction) (core.Transaction, error) {
	if txn.CategoryID != nil {
		if _, err := s.storage.GetCategory(ctx, *txn.CategoryID); err != nil {
			return core.Transaction{}, fmt.Errorf("resolve category: %w", err)
		}
	}
	if txn.Source == "" {
		txn.Source = core.SourceManual
	}

	created, err := s.storage.CreateTransaction(ctx, txn)
	if err != nil {
		return core.Transaction{}, fmt.Errorf("save transaction: %w", err)
	}

	if err := s.publisher.TransactionCreated(ctx, created.ID); err != nil {
		slog.ErrorContext(ctx, "Failed to publish created event",
			"id", created.ID, "error", err)
	}

	return created, nil
}

// Update validates a changed category reference before persisting.
func (s *TransactionService) Update(ctx context.Context, txn core.Transaction) (core.Transaction, error) {
	if txn.CategoryID != nil {
		if _, err := s.storage.GetCategory(ctx, *txn.CategoryID); err != nil {
			return core.Transaction{}, fmt.Errorf("resolve category: %w", err)
		}
	}
	return s.storage.UpdateTransaction(ctx, txn)
}

func (s *TransactionService) Delete(ctx context.Context, id int64) error {
	if err := s.storage.DeleteTransaction(ctx, id); err != nil {
		return err
	}

	if err := s.publisher.TransactionDeleted(ctx, id); err != nil {
		slog.ErrorContext(ctx, "Failed to publish deleted event",
			"id", id, "error", err)
	}

	return nil
}

// ImportSummary reports the outcome of a file import.
type ImportSummary struct {
	Imported int                 `json:"imported"`
	Failed   int                 `json:"failed"`
	Errors   []importer.RowError `json:"errors"`
}

// Import parses an uploaded CSV or JSON file and stores the valid rows
// in one batch. Row failures are collected, not fatal.
func (s *TransactionService) Import(ctx context.Context, data []byte, filename, contentType string) (ImportSummary, error) {
	categories, err := s.storage.ListCategories(ctx)
	if err != nil {
		return ImportSummary{}, fmt.Errorf("load categories: %w", err)
	}
	known := make(map[int64]bool, len(categories))
	for _, c := range categories {
		known[c.ID] = true
	}

	parsed, err := importer.Parse(data, filename, contentType, func(id int64) bool {
		return known[id]
	})
	if err != nil {
		return ImportSummary{}, err
	}

	if len(parsed.Transactions) > 0 {
		if _, err := s.storage.CreateTransactions(ctx, parsed.Transactions); err != nil {
			return ImportSummary{}, fmt.Errorf("store imported transactions: %w", err)
		}
		if err := s.publisher.TransactionsImported(ctx, len(parsed.Transactions)); err != nil {
			slog.ErrorContext(ctx, "Failed to publish import event",
				"count", len(parsed.Transactions), "error", err)
		}
	}

	summary := ImportSummary{
		Imported: len(parsed.Transactions),
		Failed:   len(parsed.Errors),
		Errors:   parsed.Errors,
	}
	if summary.Errors == nil {
		summary.Errors = []importer.RowError{}
	}
	return summary, nil
}

// Suggestion is a classification proposal resolved against storage.
type Suggestion struct {
	CategoryID   *int64           `json:"category_id"`
	CategoryName string           `json:"category_name"`
	TaxCategory  core.TaxCategory `json:"tax_category,omitempty"`
	Confidence   float64          `json:"confidence"`
	MatchCount   int              `json:"match_count"`
}

// Classify runs keyword matching and resolves the winning name to a
// stored category. A missing category leaves the id nil; the name and
// score still come back.
func (s *TransactionService) Classify(ctx context.Context, description, vendor string) (Suggestion, error) {
	res := classify.Classify(description, vendor)

	suggestion := Suggestion{
		CategoryName: res.CategoryName,
		Confidence:   res.Confidence,
		MatchCount:   res.MatchCount,
	}

	cat, err := s.storage.GetCategoryByName(ctx, res.CategoryName)
	switch {
	case err == nil:
		suggestion.CategoryID = &cat.ID
		suggestion.TaxCategory = cat.TaxCategory
	case errors.Is(err, storage.ErrNotFound):
		// Keep the name and score; the caller just cannot persist it.
	default:
		return Suggestion{}, fmt.Errorf("resolve suggestion: %w", err)
	}

	if res.MatchCount == 0 {
		suggestion.TaxCategory = core.TaxPendingReview
	}

	return suggestion, nil
}
