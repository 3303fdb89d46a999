package records

import (
	"context"
	"crypto/cipher"
	"crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"sync"
	"time"

	"golang.org/x/crypto/chacha20poly1305"

	"finshare/internal/finance"
	dErrors "finshare/pkg/domain-errors"
	"finshare/pkg/platform/sentinel"
)

// FileStore keeps one file per owner under a data directory, named by the
// owner's address with the 0x prefix stripped. Writers to the same owner are
// serialized in-process by a per-owner lock; cross-process locking is not
// provided, so concurrent external writers can interleave (last writer wins).
// Writes go through a temp file and rename, so readers never see torn content.
type FileStore struct {
	dir    string
	cipher *cipherBox // nil when encryption at rest is disabled

	mu    sync.Mutex
	locks map[finance.Address]*sync.Mutex
}

// Option configures a FileStore.
type Option func(*FileStore) error

// WithEncryptionKey enables encryption at rest with a 32-byte hex key.
func WithEncryptionKey(hexKey string) Option {
	return func(s *FileStore) error {
		key, err := hex.DecodeString(hexKey)
		if err != nil || len(key) != chacha20poly1305.KeySize {
			return fmt.Errorf("encryption key must be %d hex-encoded bytes", chacha20poly1305.KeySize)
		}
		box, err := newCipherBox(key)
		if err != nil {
			return err
		}
		s.cipher = box
		return nil
	}
}

// NewFileStore creates the data directory if needed and returns a store.
func NewFileStore(dir string, opts ...Option) (*FileStore, error) {
	if err := os.MkdirAll(dir, 0o700); err != nil {
		return nil, fmt.Errorf("create data dir: %w", err)
	}
	s := &FileStore{
		dir:   dir,
		locks: make(map[finance.Address]*sync.Mutex),
	}
	for _, opt := range opts {
		if err := opt(s); err != nil {
			return nil, err
		}
	}
	return s, nil
}

func (s *FileStore) path(owner finance.Address) string {
	return filepath.Join(s.dir, owner.FileStem()+".json")
}

// ownerLock returns the mutex serializing writers for one owner.
func (s *FileStore) ownerLock(owner finance.Address) *sync.Mutex {
	s.mu.Lock()
	defer s.mu.Unlock()
	lock, ok := s.locks[owner]
	if !ok {
		lock = &sync.Mutex{}
		s.locks[owner] = lock
	}
	return lock
}

func (s *FileStore) Save(ctx context.Context, record finance.RecordSet) (finance.Fingerprint, error) {
	if err := record.Validate(); err != nil {
		return finance.Fingerprint{}, err
	}
	lock := s.ownerLock(record.OwnerID)
	lock.Lock()
	defer lock.Unlock()
	return s.saveLocked(ctx, record)
}

// saveLocked writes the record assuming the owner lock is held.
func (s *FileStore) saveLocked(_ context.Context, record finance.RecordSet) (finance.Fingerprint, error) {
	record.LastUpdated = time.Now().UTC()

	canonical, err := finance.CanonicalJSON(record)
	if err != nil {
		return finance.Fingerprint{}, err
	}
	fingerprint := finance.FingerprintOf(canonical)

	payload := canonical
	if s.cipher != nil {
		payload, err = s.cipher.seal(canonical)
		if err != nil {
			return finance.Fingerprint{}, dErrors.Wrap(err, dErrors.CodeInternal, "encrypt record")
		}
	}

	// write-then-rename so a crash never leaves a torn record behind
	path := s.path(record.OwnerID)
	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, payload, 0o600); err != nil {
		return finance.Fingerprint{}, dErrors.Wrap(err, dErrors.CodeInternal, "write record file")
	}
	if err := os.Rename(tmp, path); err != nil {
		return finance.Fingerprint{}, dErrors.Wrap(err, dErrors.CodeInternal, "commit record file")
	}
	return fingerprint, nil
}

// readPlaintext loads and decrypts the stored bytes for an owner.
func (s *FileStore) readPlaintext(owner finance.Address) ([]byte, error) {
	data, err := os.ReadFile(s.path(owner))
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("record for %s: %w", owner, sentinel.ErrNotFound)
		}
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "read record file")
	}
	if s.cipher != nil {
		plain, err := s.cipher.open(data)
		if err != nil {
			return nil, dErrors.Wrap(err, dErrors.CodeInvalidInput, "decrypt record file")
		}
		return plain, nil
	}
	return data, nil
}

func (s *FileStore) Load(_ context.Context, owner finance.Address) (finance.RecordSet, error) {
	data, err := s.readPlaintext(owner)
	if err != nil {
		return finance.RecordSet{}, err
	}
	return finance.DecodeRecordSet(data)
}

func (s *FileStore) FingerprintOf(_ context.Context, owner finance.Address) (finance.Fingerprint, error) {
	data, err := s.readPlaintext(owner)
	if err != nil {
		return finance.Fingerprint{}, err
	}
	return finance.FingerprintOf(data), nil
}

func (s *FileStore) Delete(_ context.Context, owner finance.Address) (bool, error) {
	lock := s.ownerLock(owner)
	lock.Lock()
	defer lock.Unlock()
	if err := os.Remove(s.path(owner)); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return false, nil
		}
		return false, dErrors.Wrap(err, dErrors.CodeInternal, "delete record file")
	}
	return true, nil
}

func (s *FileStore) AddAsset(ctx context.Context, owner finance.Address, asset finance.Asset) (finance.Fingerprint, error) {
	if err := asset.Validate(); err != nil {
		return finance.Fingerprint{}, err
	}
	lock := s.ownerLock(owner)
	lock.Lock()
	defer lock.Unlock()

	record, err := s.loadOrEmpty(owner)
	if err != nil {
		return finance.Fingerprint{}, err
	}
	record.UpsertAsset(asset)
	return s.saveLocked(ctx, record)
}

func (s *FileStore) RemoveAsset(ctx context.Context, owner finance.Address, assetID string) (finance.Fingerprint, bool, error) {
	lock := s.ownerLock(owner)
	lock.Lock()
	defer lock.Unlock()

	record, err := s.Load(ctx, owner)
	if err != nil {
		return finance.Fingerprint{}, false, err
	}
	if !record.RemoveAsset(assetID) {
		// no write: an untouched record keeps its anchored fingerprint
		canonical, err := finance.CanonicalJSON(record)
		if err != nil {
			return finance.Fingerprint{}, false, err
		}
		return finance.FingerprintOf(canonical), false, nil
	}
	fingerprint, err := s.saveLocked(ctx, record)
	return fingerprint, true, err
}

func (s *FileStore) AddLiability(ctx context.Context, owner finance.Address, liability finance.Liability) (finance.Fingerprint, error) {
	if err := liability.Validate(); err != nil {
		return finance.Fingerprint{}, err
	}
	lock := s.ownerLock(owner)
	lock.Lock()
	defer lock.Unlock()

	record, err := s.loadOrEmpty(owner)
	if err != nil {
		return finance.Fingerprint{}, err
	}
	record.UpsertLiability(liability)
	return s.saveLocked(ctx, record)
}

func (s *FileStore) RemoveLiability(ctx context.Context, owner finance.Address, liabilityID string) (finance.Fingerprint, bool, error) {
	lock := s.ownerLock(owner)
	lock.Lock()
	defer lock.Unlock()

	record, err := s.Load(ctx, owner)
	if err != nil {
		return finance.Fingerprint{}, false, err
	}
	if !record.RemoveLiability(liabilityID) {
		canonical, err := finance.CanonicalJSON(record)
		if err != nil {
			return finance.Fingerprint{}, false, err
		}
		return finance.FingerprintOf(canonical), false, nil
	}
	fingerprint, err := s.saveLocked(ctx, record)
	return fingerprint, true, err
}

// loadOrEmpty returns the stored record or a fresh empty one for add paths.
func (s *FileStore) loadOrEmpty(owner finance.Address) (finance.RecordSet, error) {
	data, err := s.readPlaintext(owner)
	if err != nil {
		if errors.Is(err, sentinel.ErrNotFound) {
			return finance.NewRecordSet(owner), nil
		}
		return finance.RecordSet{}, err
	}
	return finance.DecodeRecordSet(data)
}

// cipherBox seals and opens record bytes with XChaCha20-Poly1305, prepending
// a fresh random nonce to every ciphertext.
type cipherBox struct {
	aead cipher.AEAD
}

func newCipherBox(key []byte) (*cipherBox, error) {
	aead, err := chacha20poly1305.NewX(key)
	if err != nil {
		return nil, err
	}
	return &cipherBox{aead: aead}, nil
}

func (b *cipherBox) seal(plaintext []byte) ([]byte, error) {
	nonce := make([]byte, b.aead.NonceSize())
	if _, err := io.ReadFull(rand.Reader, nonce); err != nil {
		return nil, err
	}
	return b.aead.Seal(nonce, nonce, plaintext, nil), nil
}

func (b *cipherBox) open(payload []byte) ([]byte, error) {
	nonce := b.aead.NonceSize()
	if len(payload) < nonce {
		return nil, errors.New("ciphertext shorter than nonce")
	}
	return b.aead.Open(nil, payload[:nonce], payload[nonce:], nil)
}
