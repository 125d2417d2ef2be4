package http

import (
	"errors"
	"net/http"

	"financepro/internal/core"
	"financepro/internal/storage"
)

func (s *Server) handleListBudgets(w http.ResponseWriter, r *http.Request) {
	year, err := queryInt(r, "year", 0)
	if err != nil {
		respondError(w, http.StatusUnprocessableEntity, "Invalid year")
		return
	}
	categoryID, err := queryInt64(r, "category_id")
	if err != nil {
		respondError(w, http.StatusUnprocessableEntity, "Invalid category_id")
		return
	}
	period := core.BudgetPeriod(r.URL.Query().Get("period"))
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

	budgets, err := s.store.ListBudgets(r.Context(), year)
	if err != nil {
		respondStorageError(w, err, "Budget")
		return
	}

	out := make([]budgetResponse, 0, len(budgets))
	for _, b := range budgets {
		if categoryID != nil && b.CategoryID != *categoryID {
			continue
		}
		if period != "" && b.Period != period {
			continue
		}
		out = append(out, toBudgetResponse(b))
	}
	respondJSON(w, http.StatusOK, paginate(out, skip, limit))
}

func (s *Server) handleCreateBudget(w http.ResponseWriter, r *http.Request) {
	var payload budgetPayload
	if err := decodeJSON(r, &payload); err != nil {
		respondError(w, http.StatusUnprocessableEntity, "Invalid request body: "+err.Error())
		return
	}

	budget := core.Budget{Period: core.PeriodMonthly}
	payload.apply(&budget)
	if err := budget.Validate(); err != nil {
		respondError(w, http.StatusUnprocessableEntity, err.Error())
		return
	}
	if _, err := s.store.GetCategory(r.Context(), budget.CategoryID); err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			respondError(w, http.StatusNotFound, "Category not found")
			return
		}
		respondStorageError(w, err, "Budget")
		return
	}

	created, err := s.store.CreateBudget(r.Context(), budget)
	if err != nil {
		respondStorageError(w, err, "Budget")
		return
	}
	respondJSON(w, http.StatusCreated, toBudgetResponse(created))
}

func (s *Server) handleGetBudget(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		respondError(w, http.StatusUnprocessableEntity, "Invalid budget id")
		return
	}
	budget, err := s.store.GetBudget(r.Context(), id)
	if err != nil {
		respondStorageError(w, err, "Budget")
		return
	}
	respondJSON(w, http.StatusOK, toBudgetResponse(budget))
}

func (s *Server) handleUpdateBudget(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		respondError(w, http.StatusUnprocessableEntity, "Invalid budget id")
		return
	}
	budget, err := s.store.GetBudget(r.Context(), id)
	if err != nil {
		respondStorageError(w, err, "Budget")
		return
	}

	var payload budgetPayload
	if err := decodeJSON(r, &payload); err != nil {
		respondError(w, http.StatusUnprocessableEntity, "Invalid request body: "+err.Error())
		return
	}
	payload.apply(&budget)
	if err := budget.Validate(); err != nil {
		respondError(w, http.StatusUnprocessableEntity, err.Error())
		return
	}
	if payload.CategoryID != nil {
		if _, err := s.store.GetCategory(r.Context(), budget.CategoryID); err != nil {
			if errors.Is(err, storage.ErrNotFound) {
				respondError(w, http.StatusNotFound, "Category not found")
				return
			}
			respondStorageError(w, err, "Budget")
			return
		}
	}

	updated, err := s.store.UpdateBudget(r.Context(), budget)
	if err != nil {
		respondStorageError(w, err, "Budget")
		return
	}
	respondJSON(w, http.StatusOK, toBudgetResponse(updated))
}

func (s *Server) handleDeleteBudget(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		respondError(w, http.StatusUnprocessableEntity, "Invalid budget id")
		return
	}
	if err := s.store.DeleteBudget(r.Context(), id); err != nil {
		respondStorageError(w, err, "Budget")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
