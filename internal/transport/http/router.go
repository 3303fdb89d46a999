// Package httptransport is the thin HTTP layer. Handlers decode, delegate to
// services, and encode; business rules stay behind the service boundary.
package httptransport

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"finshare/internal/consent"
	"finshare/internal/directory"
	"finshare/internal/identity"
	"finshare/internal/ledger"
	"finshare/internal/platform/metrics"
	"finshare/internal/platform/middleware"
	"finshare/internal/profile"
	"finshare/pkg/platform/httputil"
)

// Handler carries the services the HTTP surface exposes.
type Handler struct {
	logger       *slog.Logger
	metrics      *metrics.Metrics
	orchestrator *profile.Orchestrator
	consent      *consent.Service
	identity     *identity.Service
	ledger       ledger.Client
	directory    *directory.Directory
}

func NewHandler(
	orchestrator *profile.Orchestrator,
	consentSvc *consent.Service,
	identitySvc *identity.Service,
	ledgerClient ledger.Client,
	dir *directory.Directory,
	logger *slog.Logger,
	m *metrics.Metrics,
) *Handler {
	return &Handler{
		logger:       logger,
		metrics:      m,
		orchestrator: orchestrator,
		consent:      consentSvc,
		identity:     identitySvc,
		ledger:       ledgerClient,
		directory:    dir,
	}
}

// NewRouter wires all endpoints behind the shared middleware chain.
func NewRouter(h *Handler) http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.Recovery(h.logger))
	r.Use(middleware.RequestID)
	r.Use(middleware.Logger(h.logger))
	r.Use(middleware.Latency(h.metrics))
	r.Use(middleware.Timeout(30 * time.Second))

	r.Get("/healthz", h.handleHealth)
	r.Handle("/metrics", promhttp.Handler())

	r.Route("/api/v1", func(api chi.Router) {
		api.Use(middleware.ContentTypeJSON)

		api.Route("/records", func(rr chi.Router) {
			rr.Post("/", h.handleSaveRecords)
			rr.Get("/{owner}", h.handleFetchRecords)
			rr.Delete("/{owner}", h.handleDeleteRecords)
			rr.Get("/{owner}/summary", h.handleSummary)
			rr.Get("/{owner}/integrity", h.handleIntegrity)
			rr.Get("/{owner}/history", h.handleAccessHistory)
			rr.Post("/{owner}/assets", h.handleAddAsset)
			rr.Delete("/{owner}/assets/{assetID}", h.handleRemoveAsset)
			rr.Post("/{owner}/liabilities", h.handleAddLiability)
			rr.Delete("/{owner}/liabilities/{liabilityID}", h.handleRemoveLiability)
		})

		api.Route("/consent", func(cr chi.Router) {
			cr.Post("/grant", h.handleGrantConsent)
			cr.Post("/revoke", h.handleRevokeConsent)
			cr.Get("/status", h.handleConsentStatus)
		})

		api.Route("/identity", func(ir chi.Router) {
			ir.Post("/register", h.handleRegisterIdentity)
			ir.Get("/{owner}", h.handleGetIdentity)
			ir.Post("/verification/code", h.handleIssueCode)
			ir.Post("/verification/confirm", h.handleConfirmCode)
			ir.Post("/verification/national-id", h.handleRecordNationalID)
			ir.Get("/{owner}/verification", h.handleVerificationStatus)
			ir.Post("/attestation", h.handleAttestation)
		})

		api.Route("/ownership", func(or chi.Router) {
			or.Post("/challenge", h.handleOwnershipChallenge)
			or.Post("/sign", h.handleOwnershipSign)
			or.Post("/verify", h.handleOwnershipVerify)
		})

		api.Route("/broker", func(br chi.Router) {
			br.Post("/credit-tier", h.handleRequestCreditTier)
			br.Post("/income-band", h.handleRequestIncomeBand)
		})

		api.Route("/directory", func(dr chi.Router) {
			dr.Post("/", h.handleRegisterUsername)
			dr.Get("/", h.handleListUsernames)
			dr.Get("/{username}", h.handleResolveUsername)
			dr.Put("/{username}", h.handleUpdateUsername)
			dr.Delete("/{username}", h.handleUnregisterUsername)
			dr.Get("/{username}/available", h.handleUsernameAvailable)
			dr.Get("/address/{address}", h.handleResolveAddress)
		})

		api.Route("/lookup", func(lr chi.Router) {
			lr.Get("/credit-tiers", h.handleListCreditTiers)
			lr.Get("/income-bands", h.handleListIncomeBands)
		})

		api.Post("/profile/update", h.handleValidatorUpdateProfile)
	})

	return r
}

func (h *Handler) handleHealth(w http.ResponseWriter, r *http.Request) {
	httputil.WriteJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}
