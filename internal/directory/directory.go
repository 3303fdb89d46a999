// Package directory maps human-readable usernames to ledger addresses. The
// mapping lives in a single JSON file and is held in memory behind a lock;
// usernames are case-insensitive and unique in both directions.
package directory

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"

	"finshare/internal/finance"
	dErrors "finshare/pkg/domain-errors"
	"finshare/pkg/platform/sentinel"
)

const directoryFile = "user_directory.json"

// Directory is a file-backed username registry. Both lookup directions are
// kept in memory; every mutation rewrites the backing file before returning.
type Directory struct {
	path   string
	logger *slog.Logger

	mu        sync.RWMutex
	byName    map[string]finance.Address
	byAddress map[finance.Address]string
}

func New(dir string, logger *slog.Logger) (*Directory, error) {
	if err := os.MkdirAll(dir, 0o700); err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "creating directory data dir")
	}
	d := &Directory{
		path:      filepath.Join(dir, directoryFile),
		logger:    logger,
		byName:    make(map[string]finance.Address),
		byAddress: make(map[finance.Address]string),
	}
	if err := d.load(); err != nil {
		return nil, err
	}
	return d, nil
}

func (d *Directory) load() error {
	raw, err := os.ReadFile(d.path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil
	}
	if err != nil {
		return dErrors.Wrap(err, dErrors.CodeInternal, "reading user directory")
	}
	var entries map[string]string
	if err := json.Unmarshal(raw, &entries); err != nil {
		return dErrors.Wrap(err, dErrors.CodeInternal, "parsing user directory")
	}
	for name, addr := range entries {
		parsed, err := finance.ParseAddress(addr)
		if err != nil {
			d.logger.Warn("skipping directory entry with bad address", "username", name)
			continue
		}
		lower := strings.ToLower(name)
		d.byName[lower] = parsed
		d.byAddress[parsed] = lower
	}
	return nil
}

// persist writes the current mapping. Caller holds the write lock.
func (d *Directory) persist() error {
	entries := make(map[string]string, len(d.byName))
	for name, addr := range d.byName {
		entries[name] = string(addr)
	}
	raw, err := json.MarshalIndent(entries, "", "  ")
	if err != nil {
		return dErrors.Wrap(err, dErrors.CodeInternal, "encoding user directory")
	}
	if err := os.WriteFile(d.path, raw, 0o600); err != nil {
		return dErrors.Wrap(err, dErrors.CodeInternal, "writing user directory")
	}
	return nil
}

func normalize(username string) (string, error) {
	name := strings.ToLower(strings.TrimSpace(username))
	if name == "" {
		return "", dErrors.New(dErrors.CodeInvalidInput, "username must not be empty")
	}
	return name, nil
}

// Register claims a username for an address. Conflicts on either side fail:
// a taken username and an address that already holds a name both refuse.
func (d *Directory) Register(ctx context.Context, username string, addr finance.Address) error {
	name, err := normalize(username)
	if err != nil {
		return err
	}
	d.mu.Lock()
	defer d.mu.Unlock()
	if _, taken := d.byName[name]; taken {
		return dErrors.Wrap(sentinel.ErrConflict, dErrors.CodeConflict, "username already registered")
	}
	if existing, ok := d.byAddress[addr]; ok {
		return dErrors.Wrap(sentinel.ErrConflict, dErrors.CodeConflict, "address already registered as "+existing)
	}
	d.byName[name] = addr
	d.byAddress[addr] = name
	if err := d.persist(); err != nil {
		delete(d.byName, name)
		delete(d.byAddress, addr)
		return err
	}
	d.logger.Info("username registered", "username", name, "address", addr)
	return nil
}

// Update points an existing username at a new address.
func (d *Directory) Update(ctx context.Context, username string, addr finance.Address) error {
	name, err := normalize(username)
	if err != nil {
		return err
	}
	d.mu.Lock()
	defer d.mu.Unlock()
	old, ok := d.byName[name]
	if !ok {
		return dErrors.Wrap(sentinel.ErrNotFound, dErrors.CodeNotFound, "username not registered")
	}
	if other, taken := d.byAddress[addr]; taken && other != name {
		return dErrors.Wrap(sentinel.ErrConflict, dErrors.CodeConflict, "address already registered as "+other)
	}
	delete(d.byAddress, old)
	d.byName[name] = addr
	d.byAddress[addr] = name
	if err := d.persist(); err != nil {
		d.byName[name] = old
		delete(d.byAddress, addr)
		d.byAddress[old] = name
		return err
	}
	return nil
}

// Unregister releases a username. Removing an unknown name is a no-op.
func (d *Directory) Unregister(ctx context.Context, username string) error {
	name, err := normalize(username)
	if err != nil {
		return err
	}
	d.mu.Lock()
	defer d.mu.Unlock()
	addr, ok := d.byName[name]
	if !ok {
		return nil
	}
	delete(d.byName, name)
	delete(d.byAddress, addr)
	if err := d.persist(); err != nil {
		d.byName[name] = addr
		d.byAddress[addr] = name
		return err
	}
	return nil
}

// GetAddress resolves a username to its address.
func (d *Directory) GetAddress(ctx context.Context, username string) (finance.Address, error) {
	name, err := normalize(username)
	if err != nil {
		return "", err
	}
	d.mu.RLock()
	defer d.mu.RUnlock()
	addr, ok := d.byName[name]
	if !ok {
		return "", dErrors.Wrap(sentinel.ErrNotFound, dErrors.CodeNotFound, "username not registered")
	}
	return addr, nil
}

// GetUsername resolves an address to its username.
func (d *Directory) GetUsername(ctx context.Context, addr finance.Address) (string, error) {
	d.mu.RLock()
	defer d.mu.RUnlock()
	name, ok := d.byAddress[addr]
	if !ok {
		return "", dErrors.Wrap(sentinel.ErrNotFound, dErrors.CodeNotFound, "address not registered")
	}
	return name, nil
}

// IsAvailable reports whether a username can still be claimed.
func (d *Directory) IsAvailable(ctx context.Context, username string) (bool, error) {
	name, err := normalize(username)
	if err != nil {
		return false, err
	}
	d.mu.RLock()
	defer d.mu.RUnlock()
	_, taken := d.byName[name]
	return !taken, nil
}

// List returns all registered usernames in sorted order.
func (d *Directory) List(ctx context.Context) []string {
	d.mu.RLock()
	defer d.mu.RUnlock()
	names := make([]string, 0, len(d.byName))
	for name := range d.byName {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Count returns the number of registered usernames.
func (d *Directory) Count(ctx context.Context) int {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return len(d.byName)
}

// UsernameHash returns the 0x-prefixed sha256 digest of the normalized
// username, the form used when a name is referenced on the ledger.
func UsernameHash(username string) string {
	sum := sha256.Sum256([]byte(strings.ToLower(strings.TrimSpace(username))))
	return "0x" + hex.EncodeToString(sum[:])
}
