package services

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"financepro/internal/core"
	"financepro/internal/storage"
)

func newTestStorage(t *testing.T) *storage.SQLiteRepository {
	t.Helper()
	repo, err := storage.NewSQLiteRepository(filepath.Join(t.TempDir(), "test.db"))
	require.NoError(t, err)
	t.Cleanup(func() { repo.Close() })
	return repo
}

func TestTransactionServiceCreate(t *testing.T) {
	repo := newTestStorage(t)
	svc := NewTransactionService(repo, nil)
	ctx := context.Background()

	cat, err := repo.CreateCategory(ctx, core.Category{
		Name: "Software & SaaS", Type: core.CategoryExpense, TaxCategory: core.TaxBusinessExpense,
	})
	require.NoError(t, err)

	created, err := svc.Create(ctx, core.Transaction{
		Date:        core.NewDate(2025, 6, 1),
		Description: "GitHub Team",
		Amount:      decimal.RequireFromString("-44"),
		Currency:    "USD",
		CategoryID:  &cat.ID,
	})
	require.NoError(t, err)
	assert.Equal(t, "Software & SaaS", created.CategoryName)
	assert.Equal(t, core.SourceManual, created.Source)
}

func TestTransactionServiceCreateUnknownCategory(t *testing.T) {
	repo := newTestStorage(t)
	svc := NewTransactionService(repo, nil)

	bad := int64(99)
	_, err := svc.Create(context.Background(), core.Transaction{
		Date:        core.NewDate(2025, 6, 1),
		Description: "x",
		Amount:      decimal.RequireFromString("-1"),
		CategoryID:  &bad,
	})
	assert.ErrorIs(t, err, storage.ErrNotFound)
}

func TestTransactionServiceDelete(t *testing.T) {
	repo := newTestStorage(t)
	svc := NewTransactionService(repo, nil)
	ctx := context.Background()

	created, err := svc.Create(ctx, core.Transaction{
		Date:        core.NewDate(2025, 6, 1),
		Description: "x",
		Amount:      decimal.RequireFromString("-1"),
	})
	require.NoError(t, err)

	require.NoError(t, svc.Delete(ctx, created.ID))
	assert.ErrorIs(t, svc.Delete(ctx, created.ID), storage.ErrNotFound)
}

func TestTransactionServiceImport(t *testing.T) {
	repo := newTestStorage(t)
	svc := NewTransactionService(repo, nil)
	ctx := context.Background()

	csv := `date,description,amount
2025-01-05,AWS bill,-342.18
bad-date,broken row,1
`
	summary, err := svc.Import(ctx, []byte(csv), "upload.csv", "text/csv")
	require.NoError(t, err)
	assert.Equal(t, 1, summary.Imported)
	assert.Equal(t, 1, summary.Failed)
	require.Len(t, summary.Errors, 1)
	assert.Equal(t, 2, summary.Errors[0].Row)

	stored, err := repo.AllTransactions(ctx)
	require.NoError(t, err)
	require.Len(t, stored, 1)
	assert.Equal(t, core.SourceImport, stored[0].Source)
}

func TestClassifyResolvesStoredCategory(t *testing.T) {
	repo := newTestStorage(t)
	svc := NewTransactionService(repo, nil)
	ctx := context.Background()

	cat, err := repo.CreateCategory(ctx, core.Category{
		Name: "Cloud Infrastructure", Type: core.CategoryExpense, TaxCategory: core.TaxBusinessExpense,
	})
	require.NoError(t, err)

	got, err := svc.Classify(ctx, "AWS EC2 and S3 usage", "Amazon Web Services")
	require.NoError(t, err)
	assert.Equal(t, "Cloud Infrastructure", got.CategoryName)
	require.NotNil(t, got.CategoryID)
	assert.Equal(t, cat.ID, *got.CategoryID)
	assert.Equal(t, core.TaxBusinessExpense, got.TaxCategory)
	assert.GreaterOrEqual(t, got.MatchCount, 3)
	assert.Equal(t, 1.0, got.Confidence)
}

func TestClassifyNoMatchWithoutUncategorized(t *testing.T) {
	repo := newTestStorage(t)
	svc := NewTransactionService(repo, nil)

	got, err := svc.Classify(context.Background(), "zzz qqq", "")
	require.NoError(t, err)
	assert.Equal(t, core.UncategorizedName, got.CategoryName)
	assert.Nil(t, got.CategoryID)
	assert.Equal(t, core.TaxPendingReview, got.TaxCategory)
	assert.Equal(t, 0, got.MatchCount)
	assert.Equal(t, 0.0, got.Confidence)
}

func TestClassifyNoMatchResolvesUncategorized(t *testing.T) {
	repo := newTestStorage(t)
	svc := NewTransactionService(repo, nil)
	ctx := context.Background()

	uncat, err := repo.CreateCategory(ctx, core.Category{
		Name: core.UncategorizedName, Type: core.CategoryExpense, TaxCategory: core.TaxPendingReview,
	})
	require.NoError(t, err)

	got, err := svc.Classify(ctx, "zzz qqq", "")
	require.NoError(t, err)
	require.NotNil(t, got.CategoryID)
	assert.Equal(t, uncat.ID, *got.CategoryID)
	assert.Equal(t, core.TaxPendingReview, got.TaxCategory)
}

func TestReportServiceCategoryNotFound(t *testing.T) {
	repo := newTestStorage(t)
	svc := NewReportService(repo)

	_, err := svc.Category(context.Background(), 4242, nil, nil)
	assert.ErrorIs(t, err, storage.ErrNotFound)
}

func TestReportServiceDashboard(t *testing.T) {
	repo := newTestStorage(t)
	require.NoError(t, repo.Seed(context.Background()))
	svc := NewReportService(repo)

	sum, err := svc.Dashboard(context.Background(), time.Date(2025, 3, 20, 0, 0, 0, 0, time.UTC))
	require.NoError(t, err)
	assert.True(t, sum.TotalIncome.GreaterThan(decimal.Zero))
	assert.True(t, sum.TotalExpenses.GreaterThan(decimal.Zero))
	assert.True(t, sum.NetIncome.Equal(sum.TotalIncome.Sub(sum.TotalExpenses)))
	assert.NotEmpty(t, sum.TopCategories)
	assert.LessOrEqual(t, len(sum.TopCategories), 5)
}
