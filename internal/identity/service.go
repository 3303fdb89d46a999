package identity

import (
	"context"
	"crypto/rand"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"log/slog"
	"math/big"
	"time"

	"finshare/internal/finance"
	dErrors "finshare/pkg/domain-errors"
)

const attestationValidity = time.Hour

// Service runs the verification flow: a one-time code proves control of an
// out-of-band channel, a national identifier digest proves the second factor.
// Codes are single use and superseded by re-issue.
type Service struct {
	store   Store
	tokens  *TokenService
	logger  *slog.Logger
	codeTTL time.Duration
}

func NewService(store Store, tokens *TokenService, logger *slog.Logger, codeTTL time.Duration) *Service {
	if codeTTL <= 0 {
		codeTTL = 10 * time.Minute
	}
	return &Service{store: store, tokens: tokens, logger: logger, codeTTL: codeTTL}
}

// IssueCode mints a fresh six-digit code for the owner, replacing any code
// already pending. The code is returned to the caller for out-of-band
// delivery and is never logged.
func (s *Service) IssueCode(ctx context.Context, owner finance.Address) (string, error) {
	n, err := rand.Int(rand.Reader, big.NewInt(1000000))
	if err != nil {
		return "", dErrors.Wrap(err, dErrors.CodeInternal, "generating verification code")
	}
	code := fmt.Sprintf("%06d", n.Int64())
	if err := s.store.PutCode(ctx, string(owner), code, s.codeTTL); err != nil {
		return "", dErrors.Wrap(err, dErrors.CodeInternal, "storing verification code")
	}
	s.logger.Info("verification code issued", "owner", owner, "ttl", s.codeTTL)
	return code, nil
}

// VerifyCode checks a submitted code against the pending one. On success the
// pending code is consumed and its digest recorded as the code proof. Any
// failure (missing, expired, mismatch) reports false without an error; callers
// never learn which of the three happened.
func (s *Service) VerifyCode(ctx context.Context, owner finance.Address, submitted string) (bool, error) {
	pending, err := s.store.GetCode(ctx, string(owner))
	if err != nil {
		return false, nil
	}
	if pending.Code != submitted {
		return false, nil
	}
	if err := s.store.DeleteCode(ctx, string(owner)); err != nil {
		return false, dErrors.Wrap(err, dErrors.CodeInternal, "consuming verification code")
	}
	if err := s.store.PutProof(ctx, string(owner), ProofCode, digest(submitted)); err != nil {
		return false, dErrors.Wrap(err, dErrors.CodeInternal, "recording code proof")
	}
	s.logger.Info("verification code confirmed", "owner", owner)
	return true, nil
}

// RecordNationalID stores the digest of the owner's national identifier as
// the second proof. The raw identifier is hashed immediately and discarded.
func (s *Service) RecordNationalID(ctx context.Context, owner finance.Address, nationalID string) error {
	if nationalID == "" {
		return dErrors.New(dErrors.CodeInvalidInput, "national identifier must not be empty")
	}
	if err := s.store.PutProof(ctx, string(owner), ProofNationalID, digest(nationalID)); err != nil {
		return dErrors.Wrap(err, dErrors.CodeInternal, "recording national id proof")
	}
	return nil
}

// IsFullyVerified reports whether the owner holds both proofs.
func (s *Service) IsFullyVerified(ctx context.Context, owner finance.Address) (bool, error) {
	proofs, err := s.store.GetProofs(ctx, string(owner))
	if err != nil {
		return false, dErrors.Wrap(err, dErrors.CodeInternal, "reading proofs")
	}
	return proofs.Complete(), nil
}

// Proofs returns the recorded proof digests for an owner.
func (s *Service) Proofs(ctx context.Context, owner finance.Address) (Proofs, error) {
	proofs, err := s.store.GetProofs(ctx, string(owner))
	if err != nil {
		return Proofs{}, dErrors.Wrap(err, dErrors.CodeInternal, "reading proofs")
	}
	return proofs, nil
}

// Attestation mints a signed token asserting the owner completed
// verification. Fails with unauthorized when verification is incomplete.
func (s *Service) Attestation(ctx context.Context, owner finance.Address) (string, error) {
	proofs, err := s.store.GetProofs(ctx, string(owner))
	if err != nil {
		return "", dErrors.Wrap(err, dErrors.CodeInternal, "reading proofs")
	}
	if !proofs.Complete() {
		return "", dErrors.New(dErrors.CodeUnauthorized, "identity verification incomplete")
	}
	return s.tokens.Generate(string(owner), []string{string(ProofCode), string(ProofNationalID)}, attestationValidity)
}

func digest(v string) string {
	sum := sha256.Sum256([]byte(v))
	return hex.EncodeToString(sum[:])
}
