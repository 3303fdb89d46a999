// Package profile orchestrates the custody flow: records are saved off
// ledger, their fingerprint is anchored on ledger, and the derived risk
// profile is pushed to the identity registry. The plaintext never leaves the
// record store.
package profile

import (
	"context"
	"log/slog"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/trace"
	"golang.org/x/sync/errgroup"

	"finshare/internal/audit"
	"finshare/internal/consent"
	"finshare/internal/directory"
	"finshare/internal/finance"
	"finshare/internal/ledger"
	"finshare/internal/records"
	dErrors "finshare/pkg/domain-errors"
)

// SyncResult reports what a save-and-sync accomplished. The pointer anchor is
// mandatory; the profile push is best effort, so its failure or deferral is
// carried here instead of failing the operation.
type SyncResult struct {
	Fingerprint     finance.Fingerprint
	PointerReceipt  ledger.Receipt
	Summary         finance.Summary
	ProfileReceipt  *ledger.Receipt
	ProfileDeferred bool
	ProfileErr      string
}

// IntegrityReport compares the local record fingerprint against the anchored
// pointer. A failed comparison is a report, not an error.
type IntegrityReport struct {
	Match    bool
	Local    string
	Anchored string
	Reason   string
}

// BrokerOutcome is the result of a requester's brokered data request.
type BrokerOutcome struct {
	Granted bool
	Value   int
	Label   string
	Receipt ledger.Receipt
}

// Orchestrator wires the record store, ledger, consent gate, directory and
// audit trail into the operations the API exposes.
type Orchestrator struct {
	store     records.Store
	ledger    ledger.Client
	consent   *consent.Service
	directory *directory.Directory
	audit     *audit.Service
	logger    *slog.Logger
	metrics   *Metrics
	tracer    trace.Tracer

	// validator signs profile pushes; nil defers them.
	validator *ledger.Signer
}

func NewOrchestrator(
	store records.Store,
	lc ledger.Client,
	consentSvc *consent.Service,
	dir *directory.Directory,
	auditSvc *audit.Service,
	logger *slog.Logger,
	metrics *Metrics,
) *Orchestrator {
	return &Orchestrator{
		store:     store,
		ledger:    lc,
		consent:   consentSvc,
		directory: dir,
		audit:     auditSvc,
		logger:    logger,
		metrics:   metrics,
		tracer:    otel.Tracer("finshare/profile"),
	}
}

// WithValidator sets the signing credential used for profile pushes. Without
// one, SaveAndSync defers the profile update rather than impersonating the
// validator.
func (o *Orchestrator) WithValidator(signer ledger.Signer) *Orchestrator {
	o.validator = &signer
	return o
}

// SaveAndSync persists the owner's record set, anchors its fingerprint, and
// pushes the derived profile. The anchor is mandatory: if it fails the whole
// operation fails, though the local save already happened and a retry will
// re-anchor the same fingerprint.
func (o *Orchestrator) SaveAndSync(ctx context.Context, owner ledger.Signer, record finance.RecordSet, annualIncome, creditLimit float64) (SyncResult, error) {
	ctx, span := o.tracer.Start(ctx, "profile.SaveAndSync")
	defer span.End()
	start := time.Now()

	if record.OwnerID != owner.From {
		o.metrics.ObserveSync("failed", start)
		return SyncResult{}, dErrors.New(dErrors.CodeUnauthorized, "record owner does not match signer")
	}

	fingerprint, err := o.store.Save(ctx, record)
	if err != nil {
		span.RecordError(err)
		o.metrics.ObserveSync("failed", start)
		return SyncResult{}, err
	}

	pointerReceipt, err := o.ledger.UpdateDataPointer(ctx, owner, fingerprint)
	if err != nil {
		span.RecordError(err)
		o.metrics.ObserveSync("failed", start)
		return SyncResult{}, dErrors.Wrap(err, dErrors.CodeUnavailable, "anchoring record fingerprint")
	}

	// Recompute from the stored copy so the summary reflects exactly what
	// was fingerprinted.
	stored, err := o.store.Load(ctx, owner.From)
	if err != nil {
		span.RecordError(err)
		o.metrics.ObserveSync("failed", start)
		return SyncResult{}, err
	}
	summary := finance.ComputeSummary(stored, annualIncome, creditLimit)

	result := SyncResult{
		Fingerprint:    fingerprint,
		PointerReceipt: pointerReceipt,
		Summary:        summary,
	}

	if o.validator == nil {
		result.ProfileDeferred = true
		o.logger.Info("profile push deferred, no validator credential",
			"owner", owner.From)
		o.metrics.ObserveSync("profile_deferred", start)
		return result, nil
	}

	profileReceipt, err := o.ledger.UpdateProfile(ctx, *o.validator, owner.From,
		summary.CreditTier.Index(), summary.IncomeBand.Index())
	if err != nil {
		result.ProfileErr = err.Error()
		o.logger.Warn("profile push failed, record and anchor are current",
			"owner", owner.From, "error", err)
		o.metrics.ObserveSync("profile_failed", start)
		return result, nil
	}
	result.ProfileReceipt = &profileReceipt
	o.logger.Info("record synced",
		"owner", owner.From,
		"fingerprint", fingerprint.Hex(),
		"tier", summary.CreditTier,
		"band", summary.IncomeBand)
	o.metrics.ObserveSync("synced", start)
	return result, nil
}

// MutationResult reports a targeted record mutation and its re-anchor.
type MutationResult struct {
	Fingerprint    finance.Fingerprint
	PointerReceipt ledger.Receipt
	Changed        bool
}

// AddAsset upserts one asset and re-anchors the new fingerprint. A missing
// record set is created on the fly.
func (o *Orchestrator) AddAsset(ctx context.Context, owner ledger.Signer, asset finance.Asset) (MutationResult, error) {
	fingerprint, err := o.store.AddAsset(ctx, owner.From, asset)
	if err != nil {
		return MutationResult{}, err
	}
	return o.anchor(ctx, owner, fingerprint, true)
}

// RemoveAsset removes one asset by ID and re-anchors when something changed.
func (o *Orchestrator) RemoveAsset(ctx context.Context, owner ledger.Signer, assetID string) (MutationResult, error) {
	fingerprint, changed, err := o.store.RemoveAsset(ctx, owner.From, assetID)
	if err != nil {
		return MutationResult{}, err
	}
	if !changed {
		return MutationResult{Fingerprint: fingerprint, Changed: false}, nil
	}
	return o.anchor(ctx, owner, fingerprint, true)
}

// AddLiability upserts one liability and re-anchors the new fingerprint.
func (o *Orchestrator) AddLiability(ctx context.Context, owner ledger.Signer, liability finance.Liability) (MutationResult, error) {
	fingerprint, err := o.store.AddLiability(ctx, owner.From, liability)
	if err != nil {
		return MutationResult{}, err
	}
	return o.anchor(ctx, owner, fingerprint, true)
}

// RemoveLiability removes one liability by ID and re-anchors when something
// changed.
func (o *Orchestrator) RemoveLiability(ctx context.Context, owner ledger.Signer, liabilityID string) (MutationResult, error) {
	fingerprint, changed, err := o.store.RemoveLiability(ctx, owner.From, liabilityID)
	if err != nil {
		return MutationResult{}, err
	}
	if !changed {
		return MutationResult{Fingerprint: fingerprint, Changed: false}, nil
	}
	return o.anchor(ctx, owner, fingerprint, true)
}

func (o *Orchestrator) anchor(ctx context.Context, owner ledger.Signer, fingerprint finance.Fingerprint, changed bool) (MutationResult, error) {
	receipt, err := o.ledger.UpdateDataPointer(ctx, owner, fingerprint)
	if err != nil {
		return MutationResult{}, dErrors.Wrap(err, dErrors.CodeUnavailable, "anchoring record fingerprint")
	}
	return MutationResult{Fingerprint: fingerprint, PointerReceipt: receipt, Changed: changed}, nil
}

// Summarize loads the owner's records and computes the derived summary.
func (o *Orchestrator) Summarize(ctx context.Context, owner finance.Address, annualIncome, creditLimit float64) (finance.Summary, error) {
	record, err := o.store.Load(ctx, owner)
	if err != nil {
		return finance.Summary{}, err
	}
	return finance.ComputeSummary(record, annualIncome, creditLimit), nil
}

// DeleteRecords removes the owner's stored record set. The anchored pointer
// is left as is; a later save re-anchors.
func (o *Orchestrator) DeleteRecords(ctx context.Context, owner finance.Address) (bool, error) {
	return o.store.Delete(ctx, owner)
}

// AccessHistory returns the owner's audit trail.
func (o *Orchestrator) AccessHistory(ctx context.Context, owner finance.Address, limit int) ([]audit.Event, error) {
	if o.audit == nil {
		return nil, nil
	}
	return o.audit.History(ctx, owner, limit)
}

// ResolveOwner turns a username or address reference into an address.
func (o *Orchestrator) ResolveOwner(ctx context.Context, ref string) (finance.Address, error) {
	if finance.IsAddress(ref) {
		return finance.ParseAddress(ref)
	}
	return o.directory.GetAddress(ctx, ref)
}

// FetchWithConsent returns the owner's records to the requester, provided the
// owner granted consent. Owners always read their own records. Every foreign
// attempt lands in the audit trail, denied ones included.
func (o *Orchestrator) FetchWithConsent(ctx context.Context, requester finance.Address, ownerRef string) (finance.RecordSet, error) {
	ctx, span := o.tracer.Start(ctx, "profile.FetchWithConsent")
	defer span.End()

	owner, err := o.ResolveOwner(ctx, ownerRef)
	if err != nil {
		return finance.RecordSet{}, err
	}

	if requester != owner {
		if !o.consent.IsGranted(ctx, owner, requester) {
			o.recordAccess(ctx, owner, requester, audit.ResourceRecords, audit.DecisionDenied, 0, "")
			return finance.RecordSet{}, dErrors.New(dErrors.CodeUnauthorized, "consent not granted")
		}
		o.recordAccess(ctx, owner, requester, audit.ResourceRecords, audit.DecisionGranted, 0, "")
	}

	return o.store.Load(ctx, owner)
}

// VerifyIntegrity checks the stored record against the anchored fingerprint.
// Local state and ledger state are fetched concurrently; any side being
// unavailable yields an unverifiable report rather than an error.
func (o *Orchestrator) VerifyIntegrity(ctx context.Context, owner finance.Address) IntegrityReport {
	ctx, span := o.tracer.Start(ctx, "profile.VerifyIntegrity")
	defer span.End()

	var (
		local    finance.Fingerprint
		identity ledger.Identity
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		local, err = o.store.FingerprintOf(gctx, owner)
		if err != nil {
			return dErrors.Wrap(err, dErrors.CodeNotFound, "no local record")
		}
		return nil
	})
	g.Go(func() error {
		var err error
		identity, err = o.ledger.GetIdentity(gctx, owner)
		if err != nil {
			return dErrors.Wrap(err, dErrors.CodeUnavailable, "no anchored identity")
		}
		return nil
	})
	if err := g.Wait(); err != nil {
		o.metrics.ObserveIntegrity("unverifiable")
		return IntegrityReport{Match: false, Reason: err.Error()}
	}

	report := IntegrityReport{
		Local:    local.Hex(),
		Anchored: identity.DataPointer.Hex(),
		Match:    local == identity.DataPointer,
	}
	if report.Match {
		o.metrics.ObserveIntegrity("match")
	} else {
		report.Reason = "stored record does not match anchored fingerprint"
		o.logger.Warn("integrity mismatch",
			"owner", owner, "local", report.Local, "anchored", report.Anchored)
		o.metrics.ObserveIntegrity("mismatch")
	}
	return report
}

// UpdateProfileAsValidator recomputes the owner's summary from the stored
// record and pushes the derived tier and band with the validator credential.
// Used by the validator-facing endpoint.
func (o *Orchestrator) UpdateProfileAsValidator(ctx context.Context, owner finance.Address, annualIncome, creditLimit float64) (finance.Summary, ledger.Receipt, error) {
	if o.validator == nil {
		return finance.Summary{}, ledger.Receipt{}, dErrors.New(dErrors.CodeUnauthorized, "no validator credential configured")
	}
	record, err := o.store.Load(ctx, owner)
	if err != nil {
		return finance.Summary{}, ledger.Receipt{}, err
	}
	summary := finance.ComputeSummary(record, annualIncome, creditLimit)
	receipt, err := o.ledger.UpdateProfile(ctx, *o.validator, owner, summary.CreditTier.Index(), summary.IncomeBand.Index())
	if err != nil {
		return finance.Summary{}, ledger.Receipt{}, dErrors.Wrap(err, dErrors.CodeUnavailable, "pushing profile classification")
	}
	return summary, receipt, nil
}

// RequestCreditTier runs a brokered credit tier request on behalf of the
// requester and audits the outcome.
func (o *Orchestrator) RequestCreditTier(ctx context.Context, requester ledger.Signer, ownerRef string) (BrokerOutcome, error) {
	return o.brokerRequest(ctx, requester, ownerRef, audit.ResourceCreditTier)
}

// RequestIncomeBand runs a brokered income band request on behalf of the
// requester and audits the outcome.
func (o *Orchestrator) RequestIncomeBand(ctx context.Context, requester ledger.Signer, ownerRef string) (BrokerOutcome, error) {
	return o.brokerRequest(ctx, requester, ownerRef, audit.ResourceIncomeBand)
}

func (o *Orchestrator) brokerRequest(ctx context.Context, requester ledger.Signer, ownerRef string, resource audit.Resource) (BrokerOutcome, error) {
	ctx, span := o.tracer.Start(ctx, "profile.BrokerRequest")
	defer span.End()

	owner, err := o.ResolveOwner(ctx, ownerRef)
	if err != nil {
		return BrokerOutcome{}, err
	}

	var result ledger.BrokerResult
	switch resource {
	case audit.ResourceCreditTier:
		result, err = o.ledger.RequestCreditTier(ctx, requester, owner)
	case audit.ResourceIncomeBand:
		result, err = o.ledger.RequestIncomeBand(ctx, requester, owner)
	default:
		return BrokerOutcome{}, dErrors.New(dErrors.CodeInternal, "unknown broker resource")
	}
	if err != nil {
		span.RecordError(err)
		return BrokerOutcome{}, err
	}

	outcome := BrokerOutcome{Value: result.Value, Receipt: result.Receipt}
	for _, ev := range result.Events {
		switch ev.Kind {
		case ledger.AccessGranted:
			outcome.Granted = true
			o.recordAccess(ctx, owner, requester.From, resource, audit.DecisionGranted, 0, result.Receipt.TxHash)
		case ledger.AccessDenied:
			o.recordAccess(ctx, owner, requester.From, resource, audit.DecisionDenied, 0, result.Receipt.TxHash)
		case ledger.RewardDistributed:
			o.recordAccess(ctx, owner, requester.From, resource, audit.DecisionGranted, ev.Amount, result.Receipt.TxHash)
		}
	}
	if outcome.Granted {
		switch resource {
		case audit.ResourceCreditTier:
			outcome.Label = string(finance.TierFromIndex(outcome.Value))
		case audit.ResourceIncomeBand:
			outcome.Label = string(finance.BandFromIndex(outcome.Value))
		}
	}
	return outcome, nil
}

func (o *Orchestrator) recordAccess(ctx context.Context, owner, requester finance.Address, resource audit.Resource, decision audit.Decision, reward float64, txHash string) {
	if o.audit == nil {
		return
	}
	if err := o.audit.Record(ctx, audit.Event{
		Owner:        owner,
		Requester:    requester,
		Resource:     resource,
		Decision:     decision,
		RewardAmount: reward,
		TxHash:       txHash,
	}); err != nil {
		o.logger.Warn("recording access event", "error", err)
	}
}
