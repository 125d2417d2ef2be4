package http

import (
	"io"
	"net/http"

	"financepro/internal/storage"
)

func (s *Server) handleListTransactions(w http.ResponseWriter, r *http.Request) {
	filter := storage.TransactionFilter{Limit: 100}

	var err error
	if filter.CategoryID, err = queryInt64(r, "category_id"); err != nil {
		respondError(w, http.StatusUnprocessableEntity, "Invalid category_id")
		return
	}
	if filter.IsBusiness, err = queryBool(r, "is_business"); err != nil {
		respondError(w, http.StatusUnprocessableEntity, "Invalid is_business")
		return
	}
	if filter.TaxDeductible, err = queryBool(r, "tax_deductible"); err != nil {
		respondError(w, http.StatusUnprocessableEntity, "Invalid tax_deductible")
		return
	}
	filter.Source = r.URL.Query().Get("source")
	filter.Search = r.URL.Query().Get("search")
	if filter.StartDate, err = queryDate(r, "start"); err != nil {
		respondError(w, http.StatusUnprocessableEntity, "Invalid start date, expected YYYY-MM-DD")
		return
	}
	if filter.EndDate, err = queryDate(r, "end"); err != nil {
		respondError(w, http.StatusUnprocessableEntity, "Invalid end date, expected YYYY-MM-DD")
		return
	}
	if filter.Offset, err = queryInt(r, "skip", 0); err != nil {
		respondError(w, http.StatusUnprocessableEntity, "Invalid skip")
		return
	}
	if filter.Limit, err = queryInt(r, "limit", 100); err != nil {
		respondError(w, http.StatusUnprocessableEntity, "Invalid limit")
		return
	}

	txns, err := s.store.ListTransactions(r.Context(), filter)
	if err != nil {
		respondStorageError(w, err, "Transaction")
		return
	}
	respondJSON(w, http.StatusOK, toTransactionResponses(txns))
}

func (s *Server) handleCreateTransaction(w http.ResponseWriter, r *http.Request) {
	var payload transactionCreate
	if err := decodeJSON(r, &payload); err != nil {
		respondError(w, http.StatusUnprocessableEntity, "Invalid request body: "+err.Error())
		return
	}
	txn := payload.toDomain()
	if err := txn.Validate(); err != nil {
		respondError(w, http.StatusUnprocessableEntity, err.Error())
		return
	}

	created, err := s.txns.Create(r.Context(), txn)
	if err != nil {
		respondStorageError(w, err, "Category")
		return
	}
	s.invalidateDashboard()
	respondJSON(w, http.StatusCreated, toTransactionResponse(created))
}

func (s *Server) handleGetTransaction(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		respondError(w, http.StatusUnprocessableEntity, "Invalid transaction id")
		return
	}
	txn, err := s.store.GetTransaction(r.Context(), id)
	if err != nil {
		respondStorageError(w, err, "Transaction")
		return
	}
	respondJSON(w, http.StatusOK, toTransactionResponse(txn))
}

func (s *Server) handleUpdateTransaction(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		respondError(w, http.StatusUnprocessableEntity, "Invalid transaction id")
		return
	}
	txn, err := s.store.GetTransaction(r.Context(), id)
	if err != nil {
		respondStorageError(w, err, "Transaction")
		return
	}

	var payload transactionUpdate
	if err := decodeJSON(r, &payload); err != nil {
		respondError(w, http.StatusUnprocessableEntity, "Invalid request body: "+err.Error())
		return
	}
	payload.apply(&txn)
	if err := txn.Validate(); err != nil {
		respondError(w, http.StatusUnprocessableEntity, err.Error())
		return
	}

	updated, err := s.txns.Update(r.Context(), txn)
	if err != nil {
		respondStorageError(w, err, "Category")
		return
	}
	s.invalidateDashboard()
	respondJSON(w, http.StatusOK, toTransactionResponse(updated))
}

func (s *Server) handleDeleteTransaction(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		respondError(w, http.StatusUnprocessableEntity, "Invalid transaction id")
		return
	}
	if err := s.txns.Delete(r.Context(), id); err != nil {
		respondStorageError(w, err, "Transaction")
		return
	}
	s.invalidateDashboard()
	w.WriteHeader(http.StatusNoContent)
}

// handleImportTransactions accepts a multipart upload of a CSV or JSON
// file. Rows are validated individually; the response reports per-row
// failures alongside the import counts.
func (s *Server) handleImportTransactions(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, 10<<20)
	file, header, err := r.FormFile("file")
	if err != nil {
		respondError(w, http.StatusUnprocessableEntity, "Missing file upload")
		return
	}
	defer file.Close()

	data, err := io.ReadAll(file)
	if err != nil {
		respondError(w, http.StatusUnprocessableEntity, "Could not read uploaded file")
		return
	}

	summary, err := s.txns.Import(r.Context(), data, header.Filename, header.Header.Get("Content-Type"))
	if err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}
	if summary.Imported > 0 {
		s.invalidateDashboard()
	}
	respondJSON(w, http.StatusOK, summary)
}

func (s *Server) handleClassify(w http.ResponseWriter, r *http.Request) {
	var payload classifyRequest
	if err := decodeJSON(r, &payload); err != nil {
		respondError(w, http.StatusUnprocessableEntity, "Invalid request body: "+err.Error())
		return
	}
	suggestion, err := s.txns.Classify(r.Context(), payload.Description, payload.Vendor)
	if err != nil {
		respondStorageError(w, err, "Category")
		return
	}
	respondJSON(w, http.StatusOK, suggestion)
}
