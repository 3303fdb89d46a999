package records

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"finshare/internal/finance"
	dErrors "finshare/pkg/domain-errors"
	"finshare/pkg/platform/sentinel"
)

const (
	testOwner   = finance.Address("0x1111111111111111111111111111111111111111")
	testHexKey  = "000102030405060708090a0b0c0d0e0f101112131415161718191a1b1c1d1e1f"
	otherHexKey = "ffeeddccbbaa99887766554433221100ffeeddccbbaa99887766554433221100"
)

func testRecord() finance.RecordSet {
	r := finance.NewRecordSet(testOwner)
	r.UpsertAsset(finance.Asset{AssetID: "a1", AssetType: finance.AssetSavings, Value: 5000, OwnershipPercentage: 100})
	r.UpsertLiability(finance.Liability{LiabilityID: "l1", LiabilityType: finance.LiabilityCreditCard, Amount: 1200, MonthlyPayment: 60})
	return r
}

func TestFileStore_SaveLoadRoundTrip(t *testing.T) {
	store, err := NewFileStore(t.TempDir())
	require.NoError(t, err)
	ctx := context.Background()

	fp, err := store.Save(ctx, testRecord())
	require.NoError(t, err)

	loaded, err := store.Load(ctx, testOwner)
	require.NoError(t, err)
	assert.Equal(t, testOwner, loaded.OwnerID)
	require.Len(t, loaded.Assets, 1)
	assert.Equal(t, 5000.0, loaded.Assets[0].Value)
	require.Len(t, loaded.Liabilities, 1)

	stored, err := store.FingerprintOf(ctx, testOwner)
	require.NoError(t, err)
	assert.Equal(t, fp, stored)
}

func TestFileStore_LoadMissing(t *testing.T) {
	store, err := NewFileStore(t.TempDir())
	require.NoError(t, err)

	_, err = store.Load(context.Background(), testOwner)
	assert.ErrorIs(t, err, sentinel.ErrNotFound)
}

func TestFileStore_SaveRejectsInvalidRecord(t *testing.T) {
	store, err := NewFileStore(t.TempDir())
	require.NoError(t, err)

	bad := finance.NewRecordSet("bogus")
	_, err = store.Save(context.Background(), bad)
	assert.True(t, dErrors.HasCode(err, dErrors.CodeInvalidInput))
}

func TestFileStore_FingerprintStableUnderEncryption(t *testing.T) {
	// The digest covers the plaintext canonical bytes, so the same record
	// fingerprints identically whether or not the file is encrypted.
	ctx := context.Background()
	record := testRecord()

	plain, err := NewFileStore(t.TempDir())
	require.NoError(t, err)
	encrypted, err := NewFileStore(t.TempDir(), WithEncryptionKey(testHexKey))
	require.NoError(t, err)

	fpPlain, err := plain.Save(ctx, record)
	require.NoError(t, err)
	fpEnc, err := encrypted.Save(ctx, record)
	require.NoError(t, err)

	// LastUpdated is stamped at save time; compare via the stored plaintext
	// instead of the returned fingerprints when stamps differ.
	loadedPlain, err := plain.Load(ctx, testOwner)
	require.NoError(t, err)
	loadedEnc, err := encrypted.Load(ctx, testOwner)
	require.NoError(t, err)
	loadedEnc.LastUpdated = loadedPlain.LastUpdated

	canonPlain, err := finance.CanonicalJSON(loadedPlain)
	require.NoError(t, err)
	canonEnc, err := finance.CanonicalJSON(loadedEnc)
	require.NoError(t, err)
	assert.Equal(t, finance.FingerprintOf(canonPlain), finance.FingerprintOf(canonEnc))

	assert.Len(t, fpPlain, finance.FingerprintSize)
	assert.Len(t, fpEnc, finance.FingerprintSize)
}

func TestFileStore_EncryptedFileIsOpaque(t *testing.T) {
	dir := t.TempDir()
	store, err := NewFileStore(dir, WithEncryptionKey(testHexKey))
	require.NoError(t, err)
	ctx := context.Background()

	_, err = store.Save(ctx, testRecord())
	require.NoError(t, err)

	raw, err := os.ReadFile(filepath.Join(dir, testOwner.FileStem()+".json"))
	require.NoError(t, err)
	assert.NotContains(t, string(raw), "assetID", "ciphertext must not leak field names")

	// wrong key cannot open the file
	wrong, err := NewFileStore(dir, WithEncryptionKey(otherHexKey))
	require.NoError(t, err)
	_, err = wrong.Load(ctx, testOwner)
	assert.True(t, dErrors.HasCode(err, dErrors.CodeInvalidInput))
}

func TestFileStore_BadEncryptionKey(t *testing.T) {
	_, err := NewFileStore(t.TempDir(), WithEncryptionKey("deadbeef"))
	assert.Error(t, err, "key must be 32 bytes of hex")
}

func TestFileStore_OutOfBandMutationChangesFingerprint(t *testing.T) {
	dir := t.TempDir()
	store, err := NewFileStore(dir)
	require.NoError(t, err)
	ctx := context.Background()

	fp, err := store.Save(ctx, testRecord())
	require.NoError(t, err)

	path := filepath.Join(dir, testOwner.FileStem()+".json")
	raw, err := os.ReadFile(path)
	require.NoError(t, err)
	tampered := []byte(string(raw[:len(raw)-2]) + " }")
	require.NoError(t, os.WriteFile(path, tampered, 0o600))

	after, err := store.FingerprintOf(ctx, testOwner)
	require.NoError(t, err)
	assert.NotEqual(t, fp, after)
}

func TestFileStore_AddAssetCreatesRecordWhenMissing(t *testing.T) {
	store, err := NewFileStore(t.TempDir())
	require.NoError(t, err)
	ctx := context.Background()

	_, err = store.AddAsset(ctx, testOwner, finance.Asset{
		AssetID: "a1", AssetType: finance.AssetChecking, Value: 10, OwnershipPercentage: 100,
	})
	require.NoError(t, err)

	loaded, err := store.Load(ctx, testOwner)
	require.NoError(t, err)
	require.Len(t, loaded.Assets, 1)
	assert.Empty(t, loaded.Liabilities)
}

func TestFileStore_RemoveFromMissingRecord(t *testing.T) {
	store, err := NewFileStore(t.TempDir())
	require.NoError(t, err)
	ctx := context.Background()

	_, _, err = store.RemoveAsset(ctx, testOwner, "a1")
	assert.ErrorIs(t, err, sentinel.ErrNotFound)

	_, _, err = store.RemoveLiability(ctx, testOwner, "l1")
	assert.ErrorIs(t, err, sentinel.ErrNotFound)
}

func TestFileStore_RemoveReportsChanged(t *testing.T) {
	store, err := NewFileStore(t.TempDir())
	require.NoError(t, err)
	ctx := context.Background()

	_, err = store.Save(ctx, testRecord())
	require.NoError(t, err)

	_, changed, err := store.RemoveAsset(ctx, testOwner, "a1")
	require.NoError(t, err)
	assert.True(t, changed)

	before, err := store.FingerprintOf(ctx, testOwner)
	require.NoError(t, err)

	fingerprint, changed, err := store.RemoveAsset(ctx, testOwner, "a1")
	require.NoError(t, err)
	assert.False(t, changed, "removing an absent asset reports no change")
	assert.Equal(t, before, fingerprint, "no-op remove must not rewrite the record")

	after, err := store.FingerprintOf(ctx, testOwner)
	require.NoError(t, err)
	assert.Equal(t, before, after)
}

func TestFileStore_DeleteIdempotent(t *testing.T) {
	store, err := NewFileStore(t.TempDir())
	require.NoError(t, err)
	ctx := context.Background()

	_, err = store.Save(ctx, testRecord())
	require.NoError(t, err)

	removed, err := store.Delete(ctx, testOwner)
	require.NoError(t, err)
	assert.True(t, removed)

	removed, err = store.Delete(ctx, testOwner)
	require.NoError(t, err)
	assert.False(t, removed)

	_, err = store.Load(ctx, testOwner)
	assert.ErrorIs(t, err, sentinel.ErrNotFound)
}
