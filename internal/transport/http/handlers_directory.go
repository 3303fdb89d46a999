package httptransport

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"

	"finshare/internal/directory"
	"finshare/internal/finance"
	dErrors "finshare/pkg/domain-errors"
	"finshare/pkg/platform/httputil"
)

type usernameRequest struct {
	Username string `json:"username"`
	Address  string `json:"address"`
}

func (h *Handler) handleRegisterUsername(w http.ResponseWriter, r *http.Request) {
	var req usernameRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httputil.WriteError(w, dErrors.New(dErrors.CodeBadRequest, "invalid request body"))
		return
	}
	addr, err := finance.ParseAddress(req.Address)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	if err := h.directory.Register(r.Context(), req.Username, addr); err != nil {
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusCreated, map[string]string{
		"username":     req.Username,
		"address":      string(addr),
		"usernameHash": directory.UsernameHash(req.Username),
	})
}

func (h *Handler) handleListUsernames(w http.ResponseWriter, r *http.Request) {
	httputil.WriteJSON(w, http.StatusOK, map[string]any{
		"usernames": h.directory.List(r.Context()),
		"count":     h.directory.Count(r.Context()),
	})
}

func (h *Handler) handleResolveUsername(w http.ResponseWriter, r *http.Request) {
	username := chi.URLParam(r, "username")
	addr, err := h.directory.GetAddress(r.Context(), username)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, map[string]string{
		"username": username,
		"address":  string(addr),
	})
}

func (h *Handler) handleUpdateUsername(w http.ResponseWriter, r *http.Request) {
	var req usernameRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httputil.WriteError(w, dErrors.New(dErrors.CodeBadRequest, "invalid request body"))
		return
	}
	addr, err := finance.ParseAddress(req.Address)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	if err := h.directory.Update(r.Context(), chi.URLParam(r, "username"), addr); err != nil {
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, map[string]string{"address": string(addr)})
}

func (h *Handler) handleUnregisterUsername(w http.ResponseWriter, r *http.Request) {
	if err := h.directory.Unregister(r.Context(), chi.URLParam(r, "username")); err != nil {
		httputil.WriteError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) handleUsernameAvailable(w http.ResponseWriter, r *http.Request) {
	available, err := h.directory.IsAvailable(r.Context(), chi.URLParam(r, "username"))
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, map[string]bool{"available": available})
}

func (h *Handler) handleResolveAddress(w http.ResponseWriter, r *http.Request) {
	addr, err := ownerParam(r, "address")
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	username, err := h.directory.GetUsername(r.Context(), addr)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, map[string]string{
		"address":  string(addr),
		"username": username,
	})
}
