package httptransport

import (
	"encoding/json"
	"net/http"

	"finshare/internal/finance"
	dErrors "finshare/pkg/domain-errors"
	"finshare/pkg/platform/httputil"
)

func (h *Handler) handleListCreditTiers(w http.ResponseWriter, r *http.Request) {
	tiers := make([]map[string]any, 0, len(finance.CreditTiers))
	for i, tier := range finance.CreditTiers {
		tiers = append(tiers, map[string]any{"index": i, "label": string(tier)})
	}
	httputil.WriteJSON(w, http.StatusOK, map[string]any{"creditTiers": tiers})
}

func (h *Handler) handleListIncomeBands(w http.ResponseWriter, r *http.Request) {
	bands := make([]map[string]any, 0, len(finance.IncomeBands))
	for i, band := range finance.IncomeBands {
		bands = append(bands, map[string]any{"index": i, "label": string(band)})
	}
	httputil.WriteJSON(w, http.StatusOK, map[string]any{"incomeBands": bands})
}

type validatorUpdateRequest struct {
	Owner        string  `json:"owner"`
	AnnualIncome float64 `json:"annualIncome,omitempty"`
	CreditLimit  float64 `json:"creditLimit,omitempty"`
}

func (h *Handler) handleValidatorUpdateProfile(w http.ResponseWriter, r *http.Request) {
	var req validatorUpdateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httputil.WriteError(w, dErrors.New(dErrors.CodeBadRequest, "invalid request body"))
		return
	}
	owner, err := finance.ParseAddress(req.Owner)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	summary, receipt, err := h.orchestrator.UpdateProfileAsValidator(r.Context(), owner, req.AnnualIncome, req.CreditLimit)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, map[string]any{
		"summary": summary,
		"receipt": receipt,
	})
}
