package http

import (
	"net/http"

	"financepro/internal/core"
)

func (s *Server) handleListAccounts(w http.ResponseWriter, r *http.Request) {
	accounts, err := s.store.ListAccounts(r.Context())
	if err != nil {
		respondStorageError(w, err, "Account")
		return
	}
	out := make([]accountResponse, 0, len(accounts))
	for _, a := range accounts {
		out = append(out, toAccountResponse(a))
	}
	respondJSON(w, http.StatusOK, out)
}

func (s *Server) handleCreateAccount(w http.ResponseWriter, r *http.Request) {
	var payload accountPayload
	if err := decodeJSON(r, &payload); err != nil {
		respondError(w, http.StatusUnprocessableEntity, "Invalid request body: "+err.Error())
		return
	}

	acct := core.Account{Currency: "USD"}
	payload.apply(&acct)
	if err := acct.Validate(); err != nil {
		respondError(w, http.StatusUnprocessableEntity, err.Error())
		return
	}

	created, err := s.store.CreateAccount(r.Context(), acct)
	if err != nil {
		respondStorageError(w, err, "Account")
		return
	}
	respondJSON(w, http.StatusCreated, toAccountResponse(created))
}

func (s *Server) handleGetAccount(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		respondError(w, http.StatusUnprocessableEntity, "Invalid account id")
		return
	}
	acct, err := s.store.GetAccount(r.Context(), id)
	if err != nil {
		respondStorageError(w, err, "Account")
		return
	}
	respondJSON(w, http.StatusOK, toAccountResponse(acct))
}

func (s *Server) handleUpdateAccount(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		respondError(w, http.StatusUnprocessableEntity, "Invalid account id")
		return
	}
	acct, err := s.store.GetAccount(r.Context(), id)
	if err != nil {
		respondStorageError(w, err, "Account")
		return
	}

	var payload accountPayload
	if err := decodeJSON(r, &payload); err != nil {
		respondError(w, http.StatusUnprocessableEntity, "Invalid request body: "+err.Error())
		return
	}
	payload.apply(&acct)
	if err := acct.Validate(); err != nil {
		respondError(w, http.StatusUnprocessableEntity, err.Error())
		return
	}

	updated, err := s.store.UpdateAccount(r.Context(), acct)
	if err != nil {
		respondStorageError(w, err, "Account")
		return
	}
	respondJSON(w, http.StatusOK, toAccountResponse(updated))
}

func (s *Server) handleDeleteAccount(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		respondError(w, http.StatusUnprocessableEntity, "Invalid account id")
		return
	}
	if err := s.store.DeleteAccount(r.Context(), id); err != nil {
		respondStorageError(w, err, "Account")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
