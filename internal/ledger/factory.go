package ledger

import (
	"fmt"
	"strings"

	"finshare/internal/finance"
	"finshare/internal/platform/config"
	dErrors "finshare/pkg/domain-errors"
)

// FromConfig builds a Client from process configuration. Mode "stub" needs no
// node; mode "rpc" requires a reachable node and deployed contract addresses.
func FromConfig(cfg config.Config) (Client, error) {
	switch strings.ToLower(strings.TrimSpace(cfg.LedgerMode)) {
	case "", "stub":
		return NewStub(), nil
	case "rpc":
		return NewRPCClient(cfg.LedgerRPCURL, Contracts{
			IdentityRegistry: finance.Address(strings.ToLower(cfg.RegistryContract)),
			ConsentManager:   finance.Address(strings.ToLower(cfg.ConsentContract)),
			DataBroker:       finance.Address(strings.ToLower(cfg.BrokerContract)),
		}, cfg.LedgerGasLimit, cfg.LedgerCallTimeout)
	default:
		return nil, dErrors.New(dErrors.CodeInvalidInput, fmt.Sprintf("unknown ledger mode %q", cfg.LedgerMode))
	}
}
