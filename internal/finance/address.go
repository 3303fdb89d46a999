package finance

import (
	"regexp"
	"strings"

	dErrors "finshare/pkg/domain-errors"
)

var addressPattern = regexp.MustCompile(`^0x[0-9a-fA-F]{40}$`)

// Address is a 20-byte ledger address in its textual 0x form, normalized to
// lowercase. The zero value is invalid; use ParseAddress at trust boundaries.
type Address string

// ParseAddress validates and normalizes a ledger address.
func ParseAddress(s string) (Address, error) {
	s = strings.TrimSpace(s)
	if !addressPattern.MatchString(s) {
		return "", dErrors.New(dErrors.CodeInvalidInput, "malformed ledger address")
	}
	return Address(strings.ToLower(s)), nil
}

// IsAddress reports whether s looks like a ledger address. Used to decide
// between address and username lookups.
func IsAddress(s string) bool {
	return addressPattern.MatchString(strings.TrimSpace(s))
}

func (a Address) String() string { return string(a) }

// FileStem returns the address without its 0x prefix, used to name the
// per-owner record file.
func (a Address) FileStem() string {
	return strings.TrimPrefix(string(a), "0x")
}
