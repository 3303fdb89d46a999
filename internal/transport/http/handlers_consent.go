package httptransport

import (
	"encoding/json"
	"net/http"
	"time"

	"finshare/internal/finance"
	"finshare/internal/ledger"
	dErrors "finshare/pkg/domain-errors"
	"finshare/pkg/platform/httputil"
)

type consentMutationRequest struct {
	Owner     string `json:"owner"`
	Requester string `json:"requester"`
	ValidDays int    `json:"validDays,omitempty"`
}

func (h *Handler) handleGrantConsent(w http.ResponseWriter, r *http.Request) {
	var req consentMutationRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httputil.WriteError(w, dErrors.New(dErrors.CodeBadRequest, "invalid request body"))
		return
	}
	owner, requester, err := consentParties(req.Owner, req.Requester)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	receipt, err := h.consent.Grant(r.Context(), ledger.Signer{From: owner}, requester, time.Duration(req.ValidDays)*24*time.Hour)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, map[string]any{
		"consentId": ledger.ConsentID(requester, owner),
		"receipt":   receipt,
	})
}

func (h *Handler) handleRevokeConsent(w http.ResponseWriter, r *http.Request) {
	var req consentMutationRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httputil.WriteError(w, dErrors.New(dErrors.CodeBadRequest, "invalid request body"))
		return
	}
	owner, requester, err := consentParties(req.Owner, req.Requester)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	receipt, err := h.consent.Revoke(r.Context(), ledger.Signer{From: owner}, requester)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, map[string]any{"receipt": receipt})
}

func (h *Handler) handleConsentStatus(w http.ResponseWriter, r *http.Request) {
	owner, requester, err := consentParties(r.URL.Query().Get("owner"), r.URL.Query().Get("requester"))
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	detail, err := h.consent.StatusOf(r.Context(), owner, requester)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, map[string]any{
		"consentId": detail.ConsentID,
		"status":    detail.Status.String(),
		"startDate": detail.StartDate,
		"endDate":   detail.EndDate,
		"granted":   h.consent.IsGranted(r.Context(), owner, requester),
	})
}

func consentParties(rawOwner, rawRequester string) (finance.Address, finance.Address, error) {
	owner, err := finance.ParseAddress(rawOwner)
	if err != nil {
		return "", "", dErrors.Wrap(err, dErrors.CodeBadRequest, "invalid owner address")
	}
	requester, err := finance.ParseAddress(rawRequester)
	if err != nil {
		return "", "", dErrors.Wrap(err, dErrors.CodeBadRequest, "invalid requester address")
	}
	return owner, requester, nil
}
