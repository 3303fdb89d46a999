package httptransport

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"finshare/internal/finance"
	"finshare/internal/ledger"
	"finshare/internal/profile"
	dErrors "finshare/pkg/domain-errors"
	"finshare/pkg/platform/httputil"
)

// requesterHeader carries the caller's ledger address. In production this is
// set by the authenticating proxy after signature auth.
const requesterHeader = "X-Requester-Address"

func ownerParam(r *http.Request, name string) (finance.Address, error) {
	return finance.ParseAddress(chi.URLParam(r, name))
}

func requesterFrom(r *http.Request) (finance.Address, error) {
	raw := r.Header.Get(requesterHeader)
	if raw == "" {
		return "", dErrors.New(dErrors.CodeUnauthorized, "missing "+requesterHeader+" header")
	}
	return finance.ParseAddress(raw)
}

func queryFloat(r *http.Request, name string) float64 {
	if v := r.URL.Query().Get(name); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			return f
		}
	}
	return 0
}

type saveRecordsRequest struct {
	Record       finance.RecordSet `json:"record"`
	AnnualIncome float64           `json:"annualIncome"`
	CreditLimit  float64           `json:"creditLimit"`
}

type saveRecordsResponse struct {
	Fingerprint     string          `json:"fingerprint"`
	PointerReceipt  ledger.Receipt  `json:"pointerReceipt"`
	Summary         finance.Summary `json:"summary"`
	ProfileReceipt  *ledger.Receipt `json:"profileReceipt,omitempty"`
	ProfileDeferred bool            `json:"profileDeferred,omitempty"`
	ProfileError    string          `json:"profileError,omitempty"`
}

func (h *Handler) handleSaveRecords(w http.ResponseWriter, r *http.Request) {
	var req saveRecordsRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httputil.WriteError(w, dErrors.New(dErrors.CodeBadRequest, "invalid request body"))
		return
	}
	owner, err := finance.ParseAddress(string(req.Record.OwnerID))
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	req.Record.OwnerID = owner

	result, err := h.orchestrator.SaveAndSync(r.Context(), ledger.Signer{From: owner}, req.Record, req.AnnualIncome, req.CreditLimit)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, saveRecordsResponse{
		Fingerprint:     result.Fingerprint.Hex(),
		PointerReceipt:  result.PointerReceipt,
		Summary:         result.Summary,
		ProfileReceipt:  result.ProfileReceipt,
		ProfileDeferred: result.ProfileDeferred,
		ProfileError:    result.ProfileErr,
	})
}

func (h *Handler) handleFetchRecords(w http.ResponseWriter, r *http.Request) {
	requester, err := requesterFrom(r)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	// owner may be an address or a directory username
	record, err := h.orchestrator.FetchWithConsent(r.Context(), requester, chi.URLParam(r, "owner"))
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, record)
}

func (h *Handler) handleDeleteRecords(w http.ResponseWriter, r *http.Request) {
	owner, err := ownerParam(r, "owner")
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	removed, err := h.orchestrator.DeleteRecords(r.Context(), owner)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, map[string]bool{"removed": removed})
}

func (h *Handler) handleSummary(w http.ResponseWriter, r *http.Request) {
	owner, err := ownerParam(r, "owner")
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	summary, err := h.orchestrator.Summarize(r.Context(), owner, queryFloat(r, "annualIncome"), queryFloat(r, "creditLimit"))
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, summary)
}

func (h *Handler) handleIntegrity(w http.ResponseWriter, r *http.Request) {
	owner, err := ownerParam(r, "owner")
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	report := h.orchestrator.VerifyIntegrity(r.Context(), owner)
	httputil.WriteJSON(w, http.StatusOK, map[string]any{
		"match":    report.Match,
		"local":    report.Local,
		"anchored": report.Anchored,
		"reason":   report.Reason,
	})
}

func (h *Handler) handleAccessHistory(w http.ResponseWriter, r *http.Request) {
	owner, err := ownerParam(r, "owner")
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	limit := 100
	if v := r.URL.Query().Get("limit"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			limit = n
		}
	}
	events, err := h.orchestrator.AccessHistory(r.Context(), owner, limit)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, map[string]any{"events": events})
}

func (h *Handler) handleAddAsset(w http.ResponseWriter, r *http.Request) {
	owner, err := ownerParam(r, "owner")
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	var asset finance.Asset
	if err := json.NewDecoder(r.Body).Decode(&asset); err != nil {
		httputil.WriteError(w, dErrors.New(dErrors.CodeBadRequest, "invalid request body"))
		return
	}
	if err := asset.Validate(); err != nil {
		httputil.WriteError(w, err)
		return
	}
	result, err := h.orchestrator.AddAsset(r.Context(), ledger.Signer{From: owner}, asset)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	writeMutation(w, result)
}

func (h *Handler) handleRemoveAsset(w http.ResponseWriter, r *http.Request) {
	owner, err := ownerParam(r, "owner")
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	result, err := h.orchestrator.RemoveAsset(r.Context(), ledger.Signer{From: owner}, chi.URLParam(r, "assetID"))
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	writeMutation(w, result)
}

func (h *Handler) handleAddLiability(w http.ResponseWriter, r *http.Request) {
	owner, err := ownerParam(r, "owner")
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	var liability finance.Liability
	if err := json.NewDecoder(r.Body).Decode(&liability); err != nil {
		httputil.WriteError(w, dErrors.New(dErrors.CodeBadRequest, "invalid request body"))
		return
	}
	if err := liability.Validate(); err != nil {
		httputil.WriteError(w, err)
		return
	}
	result, err := h.orchestrator.AddLiability(r.Context(), ledger.Signer{From: owner}, liability)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	writeMutation(w, result)
}

func (h *Handler) handleRemoveLiability(w http.ResponseWriter, r *http.Request) {
	owner, err := ownerParam(r, "owner")
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	result, err := h.orchestrator.RemoveLiability(r.Context(), ledger.Signer{From: owner}, chi.URLParam(r, "liabilityID"))
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	writeMutation(w, result)
}

func writeMutation(w http.ResponseWriter, result profile.MutationResult) {
	httputil.WriteJSON(w, http.StatusOK, map[string]any{
		"fingerprint":    result.Fingerprint.Hex(),
		"pointerReceipt": result.PointerReceipt,
		"changed":        result.Changed,
	})
}
