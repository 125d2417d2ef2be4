package http

import (
	"net/http"
	"time"

	"financepro/internal/core"
)

func (s *Server) handleTaxSummary(w http.ResponseWriter, r *http.Request) {
	year, err := queryInt(r, "year", 0)
	if err != nil || year == 0 {
		respondError(w, http.StatusUnprocessableEntity, "Query parameter year is required")
		return
	}
	summary, err := s.reports.TaxYear(r.Context(), year)
	if err != nil {
		respondStorageError(w, err, "Report")
		return
	}
	respondJSON(w, http.StatusOK, summary)
}

func (s *Server) handleMonthlyReport(w http.ResponseWriter, r *http.Request) {
	year, err := queryInt(r, "year", 0)
	if err != nil || year == 0 {
		respondError(w, http.StatusUnprocessableEntity, "Query parameter year is required")
		return
	}
	month, err := queryInt(r, "month", 0)
	if err != nil || month < 1 || month > 12 {
		respondError(w, http.StatusUnprocessableEntity, "Query parameter month must be between 1 and 12")
		return
	}
	report, err := s.reports.Month(r.Context(), year, month)
	if err != nil {
		respondStorageError(w, err, "Report")
		return
	}
	respondJSON(w, http.StatusOK, report)
}

func (s *Server) handleCategoryReport(w http.ResponseWriter, r *http.Request) {
	categoryID, err := queryInt64(r, "category_id")
	if err != nil || categoryID == nil {
		respondError(w, http.StatusUnprocessableEntity, "Query parameter category_id is required")
		return
	}
	start, err := queryDate(r, "start")
	if err != nil {
		respondError(w, http.StatusUnprocessableEntity, "Invalid start date, expected YYYY-MM-DD")
		return
	}
	end, err := queryDate(r, "end")
	if err != nil {
		respondError(w, http.StatusUnprocessableEntity, "Invalid end date, expected YYYY-MM-DD")
		return
	}

	report, err := s.reports.Category(r.Context(), *categoryID, start, end)
	if err != nil {
		respondStorageError(w, err, "Category")
		return
	}
	respondJSON(w, http.StatusOK, report)
}

func (s *Server) handleListReports(w http.ResponseWriter, r *http.Request) {
	saved, err := s.store.ListReports(r.Context())
	if err != nil {
		respondStorageError(w, err, "Report")
		return
	}

	typeFilter := r.URL.Query().Get("type")
	out := make([]reportResponse, 0, len(saved))
	for _, rep := range saved {
		if typeFilter != "" && rep.Type != typeFilter {
			continue
		}
		out = append(out, toReportResponse(rep))
	}

	skip, err := queryInt(r, "skip", 0)
	if err != nil {
		respondError(w, http.StatusUnprocessableEntity, "Invalid skip")
		return
	}
	limit, err := queryInt(r, "limit", 100)
	if err != nil {
		respondError(w, http.StatusUnprocessableEntity, "Invalid limit")
		return
	}
	respondJSON(w, http.StatusOK, paginate(out, skip, limit))
}

func (s *Server) handleCreateReport(w http.ResponseWriter, r *http.Request) {
	var payload reportPayload
	if err := decodeJSON(r, &payload); err != nil {
		respondError(w, http.StatusUnprocessableEntity, "Invalid request body: "+err.Error())
		return
	}

	var rep core.Report
	payload.apply(&rep)
	if err := rep.Validate(); err != nil {
		respondError(w, http.StatusUnprocessableEntity, err.Error())
		return
	}

	created, err := s.store.CreateReport(r.Context(), rep)
	if err != nil {
		respondStorageError(w, err, "Report")
		return
	}
	respondJSON(w, http.StatusCreated, toReportResponse(created))
}

func (s *Server) handleGetReport(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		respondError(w, http.StatusUnprocessableEntity, "Invalid report id")
		return
	}
	rep, err := s.store.GetReport(r.Context(), id)
	if err != nil {
		respondStorageError(w, err, "Report")
		return
	}
	respondJSON(w, http.StatusOK, toReportResponse(rep))
}

func (s *Server) handleUpdateReport(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		respondError(w, http.StatusUnprocessableEntity, "Invalid report id")
		return
	}
	rep, err := s.store.GetReport(r.Context(), id)
	if err != nil {
		respondStorageError(w, err, "Report")
		return
	}

	var payload reportPayload
	if err := decodeJSON(r, &payload); err != nil {
		respondError(w, http.StatusUnprocessableEntity, "Invalid request body: "+err.Error())
		return
	}
	payload.apply(&rep)
	if err := rep.Validate(); err != nil {
		respondError(w, http.StatusUnprocessableEntity, err.Error())
		return
	}

	updated, err := s.store.UpdateReport(r.Context(), rep)
	if err != nil {
		respondStorageError(w, err, "Report")
		return
	}
	respondJSON(w, http.StatusOK, toReportResponse(updated))
}

func (s *Server) handleDeleteReport(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		respondError(w, http.StatusUnprocessableEntity, "Invalid report id")
		return
	}
	if err := s.store.DeleteReport(r.Context(), id); err != nil {
		respondStorageError(w, err, "Report")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// handleDashboard serves the cached summary when a fresh copy exists.
// Every write handler flushes the cache, so a hit is always current.
func (s *Server) handleDashboard(w http.ResponseWriter, r *http.Request) {
	const cacheKey = "dashboard"

	if summary, ok := s.dashCache.Get(cacheKey); ok {
		respondJSON(w, http.StatusOK, summary)
		return
	}

	summary, err := s.reports.Dashboard(r.Context(), time.Now())
	if err != nil {
		respondStorageError(w, err, "Dashboard")
		return
	}
	s.dashCache.Set(cacheKey, summary)
	respondJSON(w, http.StatusOK, summary)
}
