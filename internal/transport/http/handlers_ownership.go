package httptransport

import (
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"finshare/internal/finance"
	"finshare/internal/ledger"
	dErrors "finshare/pkg/domain-errors"
	"finshare/pkg/platform/httputil"
)

type challengeRequest struct {
	Institution string `json:"institution"`
}

func (h *Handler) handleOwnershipChallenge(w http.ResponseWriter, r *http.Request) {
	var req challengeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httputil.WriteError(w, dErrors.New(dErrors.CodeBadRequest, "invalid request body"))
		return
	}
	if req.Institution == "" {
		httputil.WriteError(w, dErrors.New(dErrors.CodeBadRequest, "institution is required"))
		return
	}
	challenge := fmt.Sprintf("%s-Verify-%s", req.Institution, time.Now().UTC().Format("20060102150405"))
	httputil.WriteJSON(w, http.StatusOK, map[string]string{"challenge": challenge})
}

type ownershipSignRequest struct {
	Address string `json:"address"`
	Message string `json:"message"`
}

func (h *Handler) handleOwnershipSign(w http.ResponseWriter, r *http.Request) {
	var req ownershipSignRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httputil.WriteError(w, dErrors.New(dErrors.CodeBadRequest, "invalid request body"))
		return
	}
	addr, err := finance.ParseAddress(req.Address)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	signature, err := h.ledger.SignOwnershipChallenge(r.Context(), ledger.Signer{From: addr}, req.Message)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, map[string]string{"signature": signature})
}

type ownershipVerifyRequest struct {
	Address   string `json:"address"`
	Message   string `json:"message"`
	Signature string `json:"signature"`
}

func (h *Handler) handleOwnershipVerify(w http.ResponseWriter, r *http.Request) {
	var req ownershipVerifyRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httputil.WriteError(w, dErrors.New(dErrors.CodeBadRequest, "invalid request body"))
		return
	}
	addr, err := finance.ParseAddress(req.Address)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	valid, err := h.ledger.VerifySignatureOwnership(r.Context(), addr, req.Message, req.Signature)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, map[string]bool{"valid": valid})
}
