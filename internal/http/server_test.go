package http

import (
	"bytes"
	"encoding/json"
	"fmt"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"financepro/internal/services"
	"financepro/internal/storage"
)

const testToken = "test-token"

func newTestServer(t *testing.T) *Server {
	t.Helper()
	repo, err := storage.NewSQLiteRepository(filepath.Join(t.TempDir(), "test.db"))
	require.NoError(t, err)
	t.Cleanup(func() { repo.Close() })

	srv := NewServer(Options{
		Addr:               ":0",
		APIToken:           testToken,
		Store:              repo,
		Transactions:       services.NewTransactionService(repo, nil),
		Reports:            services.NewReportService(repo),
		RateLimitPerMinute: 1000,
		CacheTTL:           time.Minute,
		CacheMaxSize:       8,
	})
	t.Cleanup(func() { srv.dashCache.Stop(); srv.limiter.stop() })
	return srv
}

func doJSON(t *testing.T, srv *Server, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var reader *bytes.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	} else {
		reader = bytes.NewReader(nil)
	}
	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("X-API-Key", testToken)
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	srv.Server.Handler.ServeHTTP(rec, req)
	return rec
}

func decodeBody[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &v))
	return v
}

func createCategory(t *testing.T, srv *Server, name, typ string) map[string]any {
	t.Helper()
	rec := doJSON(t, srv, "POST", "/api/v1/categories", map[string]any{
		"name": name, "type": typ, "tax_category": "business_expense",
	})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	return decodeBody[map[string]any](t, rec)
}

func TestHealthNeedsNoKey(t *testing.T) {
	srv := newTestServer(t)
	req := httptest.NewRequest("GET", "/health", nil)
	rec := httptest.NewRecorder()
	srv.Server.Handler.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"status":"ok"}`, rec.Body.String())
}

func TestReadyChecksDatabase(t *testing.T) {
	srv := newTestServer(t)
	req := httptest.NewRequest("GET", "/readyz", nil)
	rec := httptest.NewRecorder()
	srv.Server.Handler.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"status":"ready"}`, rec.Body.String())
}

func TestMissingAPIKey(t *testing.T) {
	srv := newTestServer(t)
	req := httptest.NewRequest("GET", "/api/v1/transactions", nil)
	rec := httptest.NewRecorder()
	srv.Server.Handler.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	body := decodeBody[map[string]string](t, rec)
	assert.Contains(t, body["detail"], "X-API-Key")
}

func TestWrongAPIKey(t *testing.T) {
	srv := newTestServer(t)
	req := httptest.NewRequest("GET", "/api/v1/categories", nil)
	req.Header.Set("X-API-Key", "wrong")
	rec := httptest.NewRecorder()
	srv.Server.Handler.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestCategoryCRUD(t *testing.T) {
	srv := newTestServer(t)

	created := createCategory(t, srv, "Software & SaaS", "expense")
	id := int64(created["id"].(float64))
	assert.Equal(t, "Software & SaaS", created["name"])

	// Duplicate name conflicts.
	rec := doJSON(t, srv, "POST", "/api/v1/categories", map[string]any{
		"name": "Software & SaaS", "type": "expense",
	})
	assert.Equal(t, http.StatusConflict, rec.Code)

	// Unknown parent is a 404.
	rec = doJSON(t, srv, "POST", "/api/v1/categories", map[string]any{
		"name": "Sub", "type": "expense", "parent_id": 9999,
	})
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Contains(t, decodeBody[map[string]string](t, rec)["detail"], "Parent category")

	rec = doJSON(t, srv, "PUT", fmt.Sprintf("/api/v1/categories/%d", id), map[string]any{
		"description": "Licences and subscriptions",
	})
	require.Equal(t, http.StatusOK, rec.Code)
	updated := decodeBody[map[string]any](t, rec)
	assert.Equal(t, "Licences and subscriptions", updated["description"])
	assert.Equal(t, "Software & SaaS", updated["name"])

	rec = doJSON(t, srv, "DELETE", fmt.Sprintf("/api/v1/categories/%d", id), nil)
	assert.Equal(t, http.StatusNoContent, rec.Code)

	rec = doJSON(t, srv, "GET", fmt.Sprintf("/api/v1/categories/%d", id), nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, "Category not found", decodeBody[map[string]string](t, rec)["detail"])
}

func TestListCategoriesFiltersByType(t *testing.T) {
	srv := newTestServer(t)
	createCategory(t, srv, "Cloud", "expense")
	createCategory(t, srv, "Revenue", "income")

	rec := doJSON(t, srv, "GET", "/api/v1/categories?type=income", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	list := decodeBody[[]map[string]any](t, rec)
	require.Len(t, list, 1)
	assert.Equal(t, "Revenue", list[0]["name"])

	rec = doJSON(t, srv, "GET", "/api/v1/categories?skip=1&limit=1", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Len(t, decodeBody[[]map[string]any](t, rec), 1)
}

func TestTransactionCRUD(t *testing.T) {
	srv := newTestServer(t)
	cat := createCategory(t, srv, "Cloud Infrastructure", "expense")
	catID := int64(cat["id"].(float64))

	rec := doJSON(t, srv, "POST", "/api/v1/transactions", map[string]any{
		"date":        "2025-06-15",
		"description": "AWS monthly bill",
		"amount":      "-142.50",
		"category_id": catID,
	})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	created := decodeBody[map[string]any](t, rec)
	id := int64(created["id"].(float64))
	assert.Equal(t, "Cloud Infrastructure", created["category_name"])
	assert.Equal(t, "USD", created["currency"])
	assert.Equal(t, "manual", created["source"])
	assert.Equal(t, true, created["is_business"])

	// Partial update touches only the named field.
	rec = doJSON(t, srv, "PUT", fmt.Sprintf("/api/v1/transactions/%d", id), map[string]any{
		"notes": "Shared with staging account",
	})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	updated := decodeBody[map[string]any](t, rec)
	assert.Equal(t, "Shared with staging account", updated["notes"])
	assert.Equal(t, "AWS monthly bill", updated["description"])

	rec = doJSON(t, srv, "DELETE", fmt.Sprintf("/api/v1/transactions/%d", id), nil)
	assert.Equal(t, http.StatusNoContent, rec.Code)

	rec = doJSON(t, srv, "GET", fmt.Sprintf("/api/v1/transactions/%d", id), nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestCreateTransactionUnknownCategory(t *testing.T) {
	srv := newTestServer(t)
	rec := doJSON(t, srv, "POST", "/api/v1/transactions", map[string]any{
		"date":        "2025-06-15",
		"description": "Mystery spend",
		"amount":      "-10",
		"category_id": 12345,
	})
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestCreateTransactionValidation(t *testing.T) {
	srv := newTestServer(t)
	rec := doJSON(t, srv, "POST", "/api/v1/transactions", map[string]any{
		"date":   "2025-06-15",
		"amount": "-10",
	})
	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
}

func TestListTransactionsFilters(t *testing.T) {
	srv := newTestServer(t)
	cat := createCategory(t, srv, "Meals", "expense")
	catID := int64(cat["id"].(float64))

	for i, row := range []map[string]any{
		{"date": "2025-01-10", "description": "Client lunch", "amount": "-60", "category_id": catID},
		{"date": "2025-02-10", "description": "Team dinner", "amount": "-120", "category_id": catID},
		{"date": "2025-02-20", "description": "Stationery", "amount": "-15"},
	} {
		rec := doJSON(t, srv, "POST", "/api/v1/transactions", row)
		require.Equal(t, http.StatusCreated, rec.Code, "row %d: %s", i, rec.Body.String())
	}

	rec := doJSON(t, srv, "GET", fmt.Sprintf("/api/v1/transactions?category_id=%d", catID), nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Len(t, decodeBody[[]map[string]any](t, rec), 2)

	rec = doJSON(t, srv, "GET", "/api/v1/transactions?start=2025-02-01&end=2025-02-28", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	list := decodeBody[[]map[string]any](t, rec)
	require.Len(t, list, 2)
	// Newest first.
	assert.Equal(t, "Stationery", list[0]["description"])

	rec = doJSON(t, srv, "GET", "/api/v1/transactions?limit=1", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Len(t, decodeBody[[]map[string]any](t, rec), 1)

	rec = doJSON(t, srv, "GET", "/api/v1/transactions?start=notadate", nil)
	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
}

func TestImportTransactionsCSV(t *testing.T) {
	srv := newTestServer(t)
	cat := createCategory(t, srv, "Software", "expense")
	catID := int64(cat["id"].(float64))

	csv := fmt.Sprintf(
		"date,description,amount,currency,category_id,subcategory,vendor,payment_method,is_business,tax_deductible,notes,receipt_url\n"+
			"2025-03-01,GitHub Team,-44.00,usd,%d,,GitHub,credit_card,true,true,,\n"+
			"not-a-date,Broken row,-10,,,,,,,,,\n", catID)

	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	part, err := mw.CreateFormFile("file", "transactions.csv")
	require.NoError(t, err)
	_, err = part.Write([]byte(csv))
	require.NoError(t, err)
	require.NoError(t, mw.Close())

	req := httptest.NewRequest("POST", "/api/v1/transactions/import", &buf)
	req.Header.Set("X-API-Key", testToken)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	rec := httptest.NewRecorder()
	srv.Server.Handler.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	result := decodeBody[map[string]any](t, rec)
	assert.Equal(t, float64(1), result["imported"])
	assert.Equal(t, float64(1), result["failed"])
	errs := result["errors"].([]any)
	require.Len(t, errs, 1)
	assert.Equal(t, float64(2), errs[0].(map[string]any)["row"])

	rec = doJSON(t, srv, "GET", "/api/v1/transactions?source=import", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	list := decodeBody[[]map[string]any](t, rec)
	require.Len(t, list, 1)
	assert.Equal(t, "GitHub Team", list[0]["description"])
	assert.Equal(t, "USD", list[0]["currency"])
}

func TestClassifyEndpoint(t *testing.T) {
	srv := newTestServer(t)
	rec := doJSON(t, srv, "POST", "/api/v1/transactions/classify", map[string]any{
		"description": "AWS invoice", "vendor": "Amazon Web Services",
	})
	require.Equal(t, http.StatusOK, rec.Code)
	body := decodeBody[map[string]any](t, rec)
	assert.Equal(t, "Cloud Infrastructure", body["category_name"])
	assert.Greater(t, body["match_count"].(float64), float64(0))

	rec = doJSON(t, srv, "POST", "/api/v1/transactions/classify", map[string]any{
		"description": "zzz nothing matches",
	})
	require.Equal(t, http.StatusOK, rec.Code)
	body = decodeBody[map[string]any](t, rec)
	assert.Equal(t, "Uncategorized", body["category_name"])
	assert.Equal(t, float64(0), body["confidence"])
}

func TestAccountCRUD(t *testing.T) {
	srv := newTestServer(t)

	rec := doJSON(t, srv, "POST", "/api/v1/accounts", map[string]any{
		"name": "Business Checking", "type": "checking", "institution": "First Bank",
		"last_four": "4821", "balance": "12500.00",
	})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	created := decodeBody[map[string]any](t, rec)
	id := int64(created["id"].(float64))
	assert.Equal(t, "USD", created["currency"])

	rec = doJSON(t, srv, "PUT", fmt.Sprintf("/api/v1/accounts/%d", id), map[string]any{
		"balance": "11000.00",
	})
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "11000", decodeBody[map[string]any](t, rec)["balance"])

	rec = doJSON(t, srv, "GET", "/api/v1/accounts", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Len(t, decodeBody[[]map[string]any](t, rec), 1)

	rec = doJSON(t, srv, "DELETE", fmt.Sprintf("/api/v1/accounts/%d", id), nil)
	assert.Equal(t, http.StatusNoContent, rec.Code)
}

func TestBudgetCRUD(t *testing.T) {
	srv := newTestServer(t)
	cat := createCategory(t, srv, "Marketing", "expense")
	catID := int64(cat["id"].(float64))

	rec := doJSON(t, srv, "POST", "/api/v1/budgets", map[string]any{
		"category_id": catID, "period": "monthly", "amount": "500", "year": 2025, "month": 6,
	})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	created := decodeBody[map[string]any](t, rec)
	id := int64(created["id"].(float64))
	assert.Equal(t, "Marketing", created["category_name"])

	// Unknown category is a 404, not a validation error.
	rec = doJSON(t, srv, "POST", "/api/v1/budgets", map[string]any{
		"category_id": 9999, "period": "monthly", "amount": "500", "year": 2025,
	})
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec = doJSON(t, srv, "GET", "/api/v1/budgets?year=2025", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Len(t, decodeBody[[]map[string]any](t, rec), 1)

	rec = doJSON(t, srv, "GET", "/api/v1/budgets?year=1999", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Empty(t, decodeBody[[]map[string]any](t, rec))

	rec = doJSON(t, srv, "DELETE", fmt.Sprintf("/api/v1/budgets/%d", id), nil)
	assert.Equal(t, http.StatusNoContent, rec.Code)
}

func TestSavedReportCRUD(t *testing.T) {
	srv := newTestServer(t)

	rec := doJSON(t, srv, "POST", "/api/v1/reports", map[string]any{
		"name": "Q2 tax prep", "type": "tax_summary", "parameters": map[string]any{"year": 2025},
	})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	created := decodeBody[map[string]any](t, rec)
	id := int64(created["id"].(float64))
	assert.NotEmpty(t, created["generated_at"])

	rec = doJSON(t, srv, "PUT", fmt.Sprintf("/api/v1/reports/%d", id), map[string]any{
		"name": "FY2025 tax prep",
	})
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "FY2025 tax prep", decodeBody[map[string]any](t, rec)["name"])

	rec = doJSON(t, srv, "GET", "/api/v1/reports?type=tax_summary", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Len(t, decodeBody[[]map[string]any](t, rec), 1)

	rec = doJSON(t, srv, "GET", "/api/v1/reports?type=other", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Empty(t, decodeBody[[]map[string]any](t, rec))

	rec = doJSON(t, srv, "DELETE", fmt.Sprintf("/api/v1/reports/%d", id), nil)
	assert.Equal(t, http.StatusNoContent, rec.Code)
	rec = doJSON(t, srv, "GET", fmt.Sprintf("/api/v1/reports/%d", id), nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestReportEndpointsValidateParams(t *testing.T) {
	srv := newTestServer(t)

	rec := doJSON(t, srv, "GET", "/api/v1/reports/tax-summary", nil)
	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)

	rec = doJSON(t, srv, "GET", "/api/v1/reports/monthly?year=2025&month=13", nil)
	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)

	rec = doJSON(t, srv, "GET", "/api/v1/reports/category", nil)
	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)

	rec = doJSON(t, srv, "GET", "/api/v1/reports/category?category_id=9999", nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestTaxSummaryReport(t *testing.T) {
	srv := newTestServer(t)
	cat := createCategory(t, srv, "Cloud Infrastructure", "expense")
	catID := int64(cat["id"].(float64))

	rec := doJSON(t, srv, "POST", "/api/v1/transactions", map[string]any{
		"date": "2025-04-01", "description": "AWS", "amount": "-100", "category_id": catID,
	})
	require.Equal(t, http.StatusCreated, rec.Code)

	rec = doJSON(t, srv, "GET", "/api/v1/reports/tax-summary?year=2025", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	body := decodeBody[map[string]any](t, rec)
	assert.Equal(t, float64(2025), body["year"])
	assert.Equal(t, "100", body["total_expenses"])
	buckets := body["by_tax_category"].(map[string]any)
	require.Contains(t, buckets, "business_expense")
	bucket := buckets["business_expense"].(map[string]any)
	assert.Equal(t, "100", bucket["deductible_amount"])
}

func TestDashboardCachesBetweenWrites(t *testing.T) {
	srv := newTestServer(t)
	today := time.Now().UTC().Format("2006-01-02")

	rec := doJSON(t, srv, "GET", "/api/v1/dashboard", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	first := decodeBody[map[string]any](t, rec)
	assert.Empty(t, first["recent_transactions"])

	// A write flushes the cached summary.
	rec = doJSON(t, srv, "POST", "/api/v1/transactions", map[string]any{
		"date": today, "description": "Fresh spend", "amount": "-25",
	})
	require.Equal(t, http.StatusCreated, rec.Code)

	rec = doJSON(t, srv, "GET", "/api/v1/dashboard", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	second := decodeBody[map[string]any](t, rec)
	require.Len(t, second["recent_transactions"].([]any), 1)
}

func TestRateLimitOnWrites(t *testing.T) {
	srv := newTestServer(t)
	srv.limiter.stop()
	srv.limiter = newRateLimiter(2)
	t.Cleanup(srv.limiter.stop)

	var last int
	for i := 0; i < 3; i++ {
		rec := doJSON(t, srv, "POST", "/api/v1/reports", map[string]any{
			"name": fmt.Sprintf("r%d", i), "type": "custom",
		})
		last = rec.Code
	}
	assert.Equal(t, http.StatusTooManyRequests, last)

	// Reads are never limited.
	rec := doJSON(t, srv, "GET", "/api/v1/reports", nil)
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestSecurityHeaders(t *testing.T) {
	srv := newTestServer(t)
	rec := doJSON(t, srv, "GET", "/api/v1/categories", nil)

	assert.Equal(t, "nosniff", rec.Header().Get("X-Content-Type-Options"))
	assert.Equal(t, "DENY", rec.Header().Get("X-Frame-Options"))
	assert.NotEmpty(t, rec.Header().Get("X-Request-ID"))
}

func TestUnknownBodyFieldRejected(t *testing.T) {
	srv := newTestServer(t)
	req := httptest.NewRequest("POST", "/api/v1/categories",
		strings.NewReader(`{"name":"X","type":"expense","bogus":true}`))
	req.Header.Set("X-API-Key", testToken)
	rec := httptest.NewRecorder()
	srv.Server.Handler.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
}
