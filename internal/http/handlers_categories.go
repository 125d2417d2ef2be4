package http

import (
	"errors"
	"net/http"

	"financepro/internal/core"
	"financepro/internal/storage"
)

func (s *Server) handleListCategories(w http.ResponseWriter, r *http.Request) {
	categories, err := s.store.ListCategories(r.Context())
	if err != nil {
		respondStorageError(w, err, "Category")
		return
	}

	typeFilter := core.CategoryType(r.URL.Query().Get("type"))
	out := make([]categoryResponse, 0, len(categories))
	for _, c := range categories {
		if typeFilter != "" && c.Type != typeFilter {
			continue
		}
		out = append(out, toCategoryResponse(c))
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

func (s *Server) handleCreateCategory(w http.ResponseWriter, r *http.Request) {
	var payload categoryPayload
	if err := decodeJSON(r, &payload); err != nil {
		respondError(w, http.StatusUnprocessableEntity, "Invalid request body: "+err.Error())
		return
	}

	var cat core.Category
	cat.TaxCategory = core.TaxPendingReview
	payload.apply(&cat)
	if err := cat.Validate(); err != nil {
		respondError(w, http.StatusUnprocessableEntity, err.Error())
		return
	}
	if cat.ParentID != nil {
		if _, err := s.store.GetCategory(r.Context(), *cat.ParentID); err != nil {
			if errors.Is(err, storage.ErrNotFound) {
				respondError(w, http.StatusNotFound, "Parent category not found")
				return
			}
			respondStorageError(w, err, "Category")
			return
		}
	}

	created, err := s.store.CreateCategory(r.Context(), cat)
	if err != nil {
		if errors.Is(err, storage.ErrConflict) {
			respondError(w, http.StatusConflict, "Category with this name already exists")
			return
		}
		respondStorageError(w, err, "Category")
		return
	}
	s.invalidateDashboard()
	respondJSON(w, http.StatusCreated, toCategoryResponse(created))
}

func (s *Server) handleGetCategory(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		respondError(w, http.StatusUnprocessableEntity, "Invalid category id")
		return
	}
	cat, err := s.store.GetCategory(r.Context(), id)
	if err != nil {
		respondStorageError(w, err, "Category")
		return
	}
	respondJSON(w, http.StatusOK, toCategoryResponse(cat))
}

func (s *Server) handleUpdateCategory(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		respondError(w, http.StatusUnprocessableEntity, "Invalid category id")
		return
	}
	cat, err := s.store.GetCategory(r.Context(), id)
	if err != nil {
		respondStorageError(w, err, "Category")
		return
	}

	var payload categoryPayload
	if err := decodeJSON(r, &payload); err != nil {
		respondError(w, http.StatusUnprocessableEntity, "Invalid request body: "+err.Error())
		return
	}
	payload.apply(&cat)
	if err := cat.Validate(); err != nil {
		respondError(w, http.StatusUnprocessableEntity, err.Error())
		return
	}

	updated, err := s.store.UpdateCategory(r.Context(), cat)
	if err != nil {
		respondStorageError(w, err, "Category")
		return
	}
	s.invalidateDashboard()
	respondJSON(w, http.StatusOK, toCategoryResponse(updated))
}

func (s *Server) handleDeleteCategory(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		respondError(w, http.StatusUnprocessableEntity, "Invalid category id")
		return
	}
	if err := s.store.DeleteCategory(r.Context(), id); err != nil {
		respondStorageError(w, err, "Category")
		return
	}
	s.invalidateDashboard()
	w.WriteHeader(http.StatusNoContent)
}
