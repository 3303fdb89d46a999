package httptransport

import (
	"encoding/json"
	"net/http"

	"finshare/internal/finance"
	"finshare/internal/ledger"
	dErrors "finshare/pkg/domain-errors"
	"finshare/pkg/platform/httputil"
)

type registerIdentityRequest struct {
	Address  string `json:"address"`
	Username string `json:"username,omitempty"`
}

func (h *Handler) handleRegisterIdentity(w http.ResponseWriter, r *http.Request) {
	var req registerIdentityRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httputil.WriteError(w, dErrors.New(dErrors.CodeBadRequest, "invalid request body"))
		return
	}
	addr, err := finance.ParseAddress(req.Address)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	receipt, err := h.ledger.Register(r.Context(), ledger.Signer{From: addr})
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	if req.Username != "" {
		if err := h.directory.Register(r.Context(), req.Username, addr); err != nil {
			httputil.WriteError(w, err)
			return
		}
	}
	httputil.WriteJSON(w, http.StatusCreated, map[string]any{"receipt": receipt})
}

func (h *Handler) handleGetIdentity(w http.ResponseWriter, r *http.Request) {
	owner, err := ownerParam(r, "owner")
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	id, err := h.ledger.GetIdentity(r.Context(), owner)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, map[string]any{
		"did":         id.DID,
		"creditTier":  string(finance.TierFromIndex(id.CreditTierIndex)),
		"incomeBand":  string(finance.BandFromIndex(id.IncomeBandIndex)),
		"dataPointer": id.DataPointer.Hex(),
	})
}

type verificationCodeRequest struct {
	Address string `json:"address"`
	Code    string `json:"code,omitempty"`
}

func (h *Handler) handleIssueCode(w http.ResponseWriter, r *http.Request) {
	var req verificationCodeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httputil.WriteError(w, dErrors.New(dErrors.CodeBadRequest, "invalid request body"))
		return
	}
	addr, err := finance.ParseAddress(req.Address)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	code, err := h.identity.IssueCode(r.Context(), addr)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	// The code is returned here in place of an out-of-band SMS/email channel.
	httputil.WriteJSON(w, http.StatusOK, map[string]string{"code": code})
}

func (h *Handler) handleConfirmCode(w http.ResponseWriter, r *http.Request) {
	var req verificationCodeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httputil.WriteError(w, dErrors.New(dErrors.CodeBadRequest, "invalid request body"))
		return
	}
	addr, err := finance.ParseAddress(req.Address)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	verified, err := h.identity.VerifyCode(r.Context(), addr, req.Code)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, map[string]bool{"verified": verified})
}

type nationalIDRequest struct {
	Address    string `json:"address"`
	NationalID string `json:"nationalId"`
}

func (h *Handler) handleRecordNationalID(w http.ResponseWriter, r *http.Request) {
	var req nationalIDRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httputil.WriteError(w, dErrors.New(dErrors.CodeBadRequest, "invalid request body"))
		return
	}
	addr, err := finance.ParseAddress(req.Address)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	if err := h.identity.RecordNationalID(r.Context(), addr, req.NationalID); err != nil {
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, map[string]bool{"recorded": true})
}

func (h *Handler) handleVerificationStatus(w http.ResponseWriter, r *http.Request) {
	owner, err := ownerParam(r, "owner")
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	proofs, err := h.identity.Proofs(r.Context(), owner)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, map[string]any{
		"codeVerified":       proofs.Code != "",
		"nationalIdRecorded": proofs.NationalID != "",
		"fullyVerified":      proofs.Complete(),
	})
}

func (h *Handler) handleAttestation(w http.ResponseWriter, r *http.Request) {
	var req verificationCodeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httputil.WriteError(w, dErrors.New(dErrors.CodeBadRequest, "invalid request body"))
		return
	}
	addr, err := finance.ParseAddress(req.Address)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	token, err := h.identity.Attestation(r.Context(), addr)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, map[string]string{"attestation": token})
}
