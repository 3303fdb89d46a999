package httptransport

import (
	"bytes"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"finshare/internal/audit"
	"finshare/internal/consent"
	"finshare/internal/directory"
	"finshare/internal/finance"
	"finshare/internal/identity"
	"finshare/internal/ledger"
	"finshare/internal/profile"
	"finshare/internal/records"
	"finshare/pkg/testutil"
)

var (
	ownerAddr     = finance.Address("0x1111111111111111111111111111111111111111")
	requesterAddr = finance.Address("0x2222222222222222222222222222222222222222")
)

func newTestServer(t *testing.T) (*httptest.Server, *ledger.Stub) {
	t.Helper()
	logger := slog.Default()

	store, err := records.NewFileStore(t.TempDir())
	require.NoError(t, err)
	stub := ledger.NewStub()
	dir, err := directory.New(t.TempDir(), logger)
	require.NoError(t, err)

	consentSvc := consent.NewService(stub, logger, nil, 30*24*time.Hour)
	auditSvc := audit.NewService(audit.NewInMemoryStore(), nil, logger)
	orch := profile.NewOrchestrator(store, stub, consentSvc, dir, auditSvc, logger, nil)

	identitySvc := identity.NewService(
		identity.NewInMemoryStore(),
		identity.NewTokenService("test-signing-key", "finshare-test"),
		logger,
		10*time.Minute,
	)

	h := NewHandler(orch, consentSvc, identitySvc, stub, dir, logger, nil)
	srv := httptest.NewServer(NewRouter(h))
	t.Cleanup(srv.Close)
	return srv, stub
}

func doJSON(t *testing.T, method, url string, body any, headers map[string]string) (*http.Response, map[string]any) {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req, err := http.NewRequest(method, url, &buf)
	require.NoError(t, err)
	for k, v := range headers {
		req.Header.Set(k, v)
	}
	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	t.Cleanup(func() { resp.Body.Close() })

	var decoded map[string]any
	if resp.ContentLength != 0 && resp.StatusCode != http.StatusNoContent {
		require.NoError(t, json.NewDecoder(resp.Body).Decode(&decoded))
	}
	return resp, decoded
}

func saveRecordsBody(owner finance.Address) map[string]any {
	return map[string]any{
		"record": map[string]any{
			"ownerID": string(owner),
			"assets": []map[string]any{
				{"assetID": "a1", "assetType": "property", "value": 100000, "ownershipPercentage": 100},
			},
			"liabilities": []map[string]any{
				{"liabilityID": "l1", "liabilityType": "mortgage", "amount": 20000, "monthlyPayment": 500},
			},
		},
		"annualIncome": 60000,
		"creditLimit":  25000,
	}
}

func TestHealth(t *testing.T) {
	srv, _ := newTestServer(t)
	resp, body := doJSON(t, http.MethodGet, srv.URL+"/healthz", nil, nil)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "ok", body["status"])
}

func TestSaveAndFetchRecords_Owner(t *testing.T) {
	srv, _ := newTestServer(t)

	resp, body := doJSON(t, http.MethodPost, srv.URL+"/api/v1/records", saveRecordsBody(ownerAddr), nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.NotEmpty(t, body["fingerprint"])
	assert.Equal(t, true, body["profileDeferred"])

	summary, ok := body["summary"].(map[string]any)
	require.True(t, ok)
	assert.Equal(t, 80000.0, summary["netWorth"])

	resp, body = doJSON(t, http.MethodGet, srv.URL+"/api/v1/records/"+string(ownerAddr), nil,
		map[string]string{requesterHeader: string(ownerAddr)})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, string(ownerAddr), body["ownerID"])
}

func TestFetchRecords_RequiresConsent(t *testing.T) {
	srv, _ := newTestServer(t)
	headers := map[string]string{requesterHeader: string(requesterAddr)}
	recordsURL := srv.URL + "/api/v1/records/" + string(ownerAddr)

	testutil.Given(t, "an owner with stored records", func(t *testing.T) {
		doJSON(t, http.MethodPost, srv.URL+"/api/v1/records", saveRecordsBody(ownerAddr), nil)
	})

	testutil.When(t, "a third party reads without consent", func(t *testing.T) {
		resp, body := doJSON(t, http.MethodGet, recordsURL, nil, headers)
		assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
		assert.Equal(t, "unauthorized", body["error"])
	})

	testutil.When(t, "the owner grants consent", func(t *testing.T) {
		grant := map[string]any{"owner": string(ownerAddr), "requester": string(requesterAddr), "validDays": 7}
		resp, _ := doJSON(t, http.MethodPost, srv.URL+"/api/v1/consent/grant", grant, nil)
		require.Equal(t, http.StatusOK, resp.StatusCode)
	})

	testutil.Then(t, "the read succeeds", func(t *testing.T) {
		resp, body := doJSON(t, http.MethodGet, recordsURL, nil, headers)
		require.Equal(t, http.StatusOK, resp.StatusCode)
		assert.Equal(t, string(ownerAddr), body["ownerID"])
	})

	testutil.When(t, "the owner revokes consent", func(t *testing.T) {
		revoke := map[string]any{"owner": string(ownerAddr), "requester": string(requesterAddr)}
		resp, _ := doJSON(t, http.MethodPost, srv.URL+"/api/v1/consent/revoke", revoke, nil)
		require.Equal(t, http.StatusOK, resp.StatusCode)
	})

	testutil.Then(t, "the read is denied again", func(t *testing.T) {
		resp, _ := doJSON(t, http.MethodGet, recordsURL, nil, headers)
		assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	})
}

func TestFetchRecords_MissingRequesterHeader(t *testing.T) {
	srv, _ := newTestServer(t)
	resp, body := doJSON(t, http.MethodGet, srv.URL+"/api/v1/records/"+string(ownerAddr), nil, nil)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	assert.Contains(t, body["error_description"], requesterHeader)
}

func TestConsentStatus(t *testing.T) {
	srv, _ := newTestServer(t)
	grant := map[string]any{"owner": string(ownerAddr), "requester": string(requesterAddr), "validDays": 7}
	resp, _ := doJSON(t, http.MethodPost, srv.URL+"/api/v1/consent/grant", grant, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	url := fmt.Sprintf("%s/api/v1/consent/status?owner=%s&requester=%s", srv.URL, ownerAddr, requesterAddr)
	resp, body := doJSON(t, http.MethodGet, url, nil, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "Granted", body["status"])
	assert.Equal(t, true, body["granted"])
	assert.Equal(t, ledger.ConsentID(requesterAddr, ownerAddr), body["consentId"])
}

func TestAssetMutationReanchors(t *testing.T) {
	srv, stub := newTestServer(t)
	_, body := doJSON(t, http.MethodPost, srv.URL+"/api/v1/records", saveRecordsBody(ownerAddr), nil)
	before := body["fingerprint"].(string)

	asset := map[string]any{"assetID": "a2", "assetType": "savings", "value": 5000, "ownershipPercentage": 100}
	resp, body := doJSON(t, http.MethodPost, srv.URL+"/api/v1/records/"+string(ownerAddr)+"/assets", asset, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, true, body["changed"])
	assert.NotEqual(t, before, body["fingerprint"])

	id, err := stub.GetIdentity(t.Context(), ownerAddr)
	require.NoError(t, err)
	assert.Equal(t, body["fingerprint"], id.DataPointer.Hex())
}

func TestRemoveAsset_Unknown(t *testing.T) {
	srv, _ := newTestServer(t)
	doJSON(t, http.MethodPost, srv.URL+"/api/v1/records", saveRecordsBody(ownerAddr), nil)

	resp, body := doJSON(t, http.MethodDelete, srv.URL+"/api/v1/records/"+string(ownerAddr)+"/assets/nope", nil, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, false, body["changed"])

	resp, _ = doJSON(t, http.MethodDelete, srv.URL+"/api/v1/records/"+string(requesterAddr)+"/assets/nope", nil, nil)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestIntegrityEndpoint(t *testing.T) {
	srv, _ := newTestServer(t)
	doJSON(t, http.MethodPost, srv.URL+"/api/v1/records", saveRecordsBody(ownerAddr), nil)

	resp, body := doJSON(t, http.MethodGet, srv.URL+"/api/v1/records/"+string(ownerAddr)+"/integrity", nil, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, true, body["match"])
	assert.Equal(t, body["local"], body["anchored"])
}

func TestVerificationFlow(t *testing.T) {
	srv, _ := newTestServer(t)
	addr := map[string]any{"address": string(ownerAddr)}

	resp, body := doJSON(t, http.MethodPost, srv.URL+"/api/v1/identity/verification/code", addr, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	code := body["code"].(string)
	require.Len(t, code, 6)

	confirm := map[string]any{"address": string(ownerAddr), "code": code}
	resp, body = doJSON(t, http.MethodPost, srv.URL+"/api/v1/identity/verification/confirm", confirm, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, true, body["verified"])

	// attestation still blocked until the national ID lands
	resp, _ = doJSON(t, http.MethodPost, srv.URL+"/api/v1/identity/attestation", addr, nil)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)

	nid := map[string]any{"address": string(ownerAddr), "nationalId": "AB123456"}
	resp, _ = doJSON(t, http.MethodPost, srv.URL+"/api/v1/identity/verification/national-id", nid, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	resp, body = doJSON(t, http.MethodGet, srv.URL+"/api/v1/identity/"+string(ownerAddr)+"/verification", nil, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, true, body["fullyVerified"])

	resp, body = doJSON(t, http.MethodPost, srv.URL+"/api/v1/identity/attestation", addr, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.NotEmpty(t, body["attestation"])
}

func TestOwnershipRoundTrip(t *testing.T) {
	srv, _ := newTestServer(t)

	resp, body := doJSON(t, http.MethodPost, srv.URL+"/api/v1/ownership/challenge",
		map[string]any{"institution": "FirstNational"}, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	challenge := body["challenge"].(string)
	assert.Contains(t, challenge, "FirstNational-Verify-")

	sign := map[string]any{"address": string(ownerAddr), "message": challenge}
	resp, body = doJSON(t, http.MethodPost, srv.URL+"/api/v1/ownership/sign", sign, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	signature := body["signature"].(string)

	verify := map[string]any{"address": string(ownerAddr), "message": challenge, "signature": signature}
	resp, body = doJSON(t, http.MethodPost, srv.URL+"/api/v1/ownership/verify", verify, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, true, body["valid"])

	verify["address"] = string(requesterAddr)
	resp, body = doJSON(t, http.MethodPost, srv.URL+"/api/v1/ownership/verify", verify, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, false, body["valid"])
}

func TestBrokerCreditTier(t *testing.T) {
	srv, _ := newTestServer(t)
	doJSON(t, http.MethodPost, srv.URL+"/api/v1/records", saveRecordsBody(ownerAddr), nil)

	req := map[string]any{"requester": string(requesterAddr), "owner": string(ownerAddr)}
	resp, body := doJSON(t, http.MethodPost, srv.URL+"/api/v1/broker/credit-tier", req, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, false, body["granted"])

	grant := map[string]any{"owner": string(ownerAddr), "requester": string(requesterAddr), "validDays": 7}
	doJSON(t, http.MethodPost, srv.URL+"/api/v1/consent/grant", grant, nil)

	resp, body = doJSON(t, http.MethodPost, srv.URL+"/api/v1/broker/credit-tier", req, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, true, body["granted"])
	assert.NotEmpty(t, body["label"])
}

func TestDirectoryEndpoints(t *testing.T) {
	srv, _ := newTestServer(t)

	reg := map[string]any{"username": "Alice", "address": string(ownerAddr)}
	resp, body := doJSON(t, http.MethodPost, srv.URL+"/api/v1/directory", reg, nil)
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	assert.NotEmpty(t, body["usernameHash"])

	reg = map[string]any{"username": "ALICE", "address": string(requesterAddr)}
	resp, body = doJSON(t, http.MethodPost, srv.URL+"/api/v1/directory", reg, nil)
	assert.Equal(t, http.StatusConflict, resp.StatusCode)
	assert.Equal(t, "conflict", body["error"])

	resp, body = doJSON(t, http.MethodGet, srv.URL+"/api/v1/directory/aLiCe", nil, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, string(ownerAddr), body["address"])

	resp, body = doJSON(t, http.MethodGet, srv.URL+"/api/v1/directory/bob/available", nil, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, true, body["available"])

	resp, body = doJSON(t, http.MethodGet, srv.URL+"/api/v1/directory/address/"+string(ownerAddr), nil, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "alice", body["username"])

	resp, _ = doJSON(t, http.MethodDelete, srv.URL+"/api/v1/directory/alice", nil, nil)
	assert.Equal(t, http.StatusNoContent, resp.StatusCode)
}

func TestRecordsByUsername(t *testing.T) {
	srv, _ := newTestServer(t)
	doJSON(t, http.MethodPost, srv.URL+"/api/v1/records", saveRecordsBody(ownerAddr), nil)
	doJSON(t, http.MethodPost, srv.URL+"/api/v1/directory",
		map[string]any{"username": "alice", "address": string(ownerAddr)}, nil)

	resp, body := doJSON(t, http.MethodGet, srv.URL+"/api/v1/records/alice", nil,
		map[string]string{requesterHeader: string(ownerAddr)})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, string(ownerAddr), body["ownerID"])
}

func TestLookupTables(t *testing.T) {
	srv, _ := newTestServer(t)

	resp, body := doJSON(t, http.MethodGet, srv.URL+"/api/v1/lookup/credit-tiers", nil, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	tiers := body["creditTiers"].([]any)
	assert.Len(t, tiers, 13)

	resp, body = doJSON(t, http.MethodGet, srv.URL+"/api/v1/lookup/income-bands", nil, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	bands := body["incomeBands"].([]any)
	assert.Len(t, bands, 14)
}

func TestErrorEnvelope_BadBody(t *testing.T) {
	srv, _ := newTestServer(t)
	req, err := http.NewRequest(http.MethodPost, srv.URL+"/api/v1/records", bytes.NewBufferString("{not json"))
	require.NoError(t, err)
	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	var body map[string]any
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	assert.Equal(t, "bad_request", body["error"])
	assert.Equal(t, "invalid request body", body["error_description"])
}

func TestValidatorProfileUpdate_RequiresCredential(t *testing.T) {
	srv, _ := newTestServer(t)
	req := map[string]any{"owner": string(ownerAddr), "annualIncome": 60000, "creditLimit": 25000}
	resp, _ := doJSON(t, http.MethodPost, srv.URL+"/api/v1/profile/update", req, nil)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}
