package httptransport

import (
	"context"
	"encoding/json"
	"net/http"

	"finshare/internal/finance"
	"finshare/internal/ledger"
	"finshare/internal/profile"
	dErrors "finshare/pkg/domain-errors"
	"finshare/pkg/platform/httputil"
)

type brokerRequest struct {
	Requester string `json:"requester"`
	Owner     string `json:"owner"`
}

func (h *Handler) handleRequestCreditTier(w http.ResponseWriter, r *http.Request) {
	h.brokered(w, r, h.orchestrator.RequestCreditTier)
}

func (h *Handler) handleRequestIncomeBand(w http.ResponseWriter, r *http.Request) {
	h.brokered(w, r, h.orchestrator.RequestIncomeBand)
}

func (h *Handler) brokered(w http.ResponseWriter, r *http.Request, request func(ctx context.Context, requester ledger.Signer, ownerRef string) (profile.BrokerOutcome, error)) {
	var req brokerRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httputil.WriteError(w, dErrors.New(dErrors.CodeBadRequest, "invalid request body"))
		return
	}
	requester, err := finance.ParseAddress(req.Requester)
	if err != nil {
		httputil.WriteError(w, dErrors.Wrap(err, dErrors.CodeBadRequest, "invalid requester address"))
		return
	}
	outcome, err := request(r.Context(), ledger.Signer{From: requester}, req.Owner)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, map[string]any{
		"granted": outcome.Granted,
		"value":   outcome.Value,
		"label":   outcome.Label,
		"receipt": outcome.Receipt,
	})
}
