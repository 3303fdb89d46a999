package ledger

import (
	"bytes"
	"context"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	dErrors "finshare/pkg/domain-errors"
	"finshare/internal/finance"
)

// Contracts holds the deployed addresses the client talks to.
type Contracts struct {
	IdentityRegistry finance.Address
	ConsentManager   finance.Address
	DataBroker       finance.Address
}

// RPCClient talks to a ledger node over JSON-RPC. Writes are submitted as
// marker transactions whose data field carries a hex-encoded JSON envelope
// {method, params}; reads go through eth_call with the same envelope and
// expect a hex-encoded JSON result.
type RPCClient struct {
	url         string
	contracts   Contracts
	gasLimit    uint64
	callTimeout time.Duration
	httpClient  *http.Client
}

func NewRPCClient(url string, contracts Contracts, gasLimit uint64, callTimeout time.Duration) (*RPCClient, error) {
	if strings.TrimSpace(url) == "" {
		return nil, dErrors.New(dErrors.CodeInvalidInput, "missing ledger rpc url")
	}
	for _, addr := range []finance.Address{contracts.IdentityRegistry, contracts.ConsentManager, contracts.DataBroker} {
		if !finance.IsAddress(string(addr)) {
			return nil, dErrors.New(dErrors.CodeInvalidInput, fmt.Sprintf("invalid contract address %q", addr))
		}
	}
	if gasLimit == 0 {
		gasLimit = 300000
	}
	if callTimeout <= 0 {
		callTimeout = 20 * time.Second
	}
	return &RPCClient{
		url:         strings.TrimSpace(url),
		contracts:   contracts,
		gasLimit:    gasLimit,
		callTimeout: callTimeout,
		httpClient:  &http.Client{Timeout: callTimeout},
	}, nil
}

func (c *RPCClient) Register(ctx context.Context, signer Signer) (Receipt, error) {
	return c.send(ctx, signer, c.contracts.IdentityRegistry, "register", map[string]any{})
}

func (c *RPCClient) UpdateDataPointer(ctx context.Context, signer Signer, pointer finance.Fingerprint) (Receipt, error) {
	return c.send(ctx, signer, c.contracts.IdentityRegistry, "updateDataPointer", map[string]any{
		"dataPointer": pointer.Hex(),
	})
}

func (c *RPCClient) UpdateProfile(ctx context.Context, signer Signer, owner finance.Address, tierIndex, bandIndex int) (Receipt, error) {
	return c.send(ctx, signer, c.contracts.IdentityRegistry, "updateProfile", map[string]any{
		"user":       string(owner),
		"creditTier": tierIndex,
		"incomeBand": bandIndex,
	})
}

func (c *RPCClient) GetIdentity(ctx context.Context, owner finance.Address) (Identity, error) {
	var out struct {
		DID         string `json:"did"`
		CreditTier  int    `json:"creditTier"`
		IncomeBand  int    `json:"incomeBand"`
		DataPointer string `json:"dataPointer"`
	}
	if err := c.call(ctx, c.contracts.IdentityRegistry, "getIdentity", map[string]any{"user": string(owner)}, &out); err != nil {
		return Identity{}, err
	}
	pointer, err := finance.ParseFingerprint(out.DataPointer)
	if err != nil {
		return Identity{}, dErrors.Wrap(err, dErrors.CodeInternal, "malformed data pointer from ledger")
	}
	return Identity{
		DID:             out.DID,
		CreditTierIndex: out.CreditTier,
		IncomeBandIndex: out.IncomeBand,
		DataPointer:     pointer,
	}, nil
}

func (c *RPCClient) GetCreditTier(ctx context.Context, owner finance.Address) (int, error) {
	var tier int
	err := c.call(ctx, c.contracts.IdentityRegistry, "getCreditTier", map[string]any{"user": string(owner)}, &tier)
	return tier, err
}

func (c *RPCClient) GetIncomeBand(ctx context.Context, owner finance.Address) (int, error) {
	var band int
	err := c.call(ctx, c.contracts.IdentityRegistry, "getIncomeBand", map[string]any{"user": string(owner)}, &band)
	return band, err
}

func (c *RPCClient) VerifySignatureOwnership(ctx context.Context, owner finance.Address, message, signature string) (bool, error) {
	var ok bool
	err := c.call(ctx, c.contracts.IdentityRegistry, "verifySignatureOwnership", map[string]any{
		"claimed":     string(owner),
		"messageHash": "0x" + hex.EncodeToString(ChallengeHash(message)),
		"signature":   signature,
	}, &ok)
	return ok, err
}

// SignOwnershipChallenge asks the node to sign the challenge with the key
// behind the signer's handle (eth_sign over the hashed message).
func (c *RPCClient) SignOwnershipChallenge(ctx context.Context, signer Signer, message string) (string, error) {
	var signature string
	err := c.rpc(ctx, "eth_sign", []any{
		string(signer.From),
		"0x" + hex.EncodeToString(ChallengeHash(message)),
	}, &signature)
	return signature, err
}

func (c *RPCClient) IsConsentGranted(ctx context.Context, owner, requester finance.Address) (bool, error) {
	var granted bool
	err := c.call(ctx, c.contracts.ConsentManager, "isConsentGranted", map[string]any{
		"owner":     string(owner),
		"requester": string(requester),
	}, &granted)
	return granted, err
}

func (c *RPCClient) GetConsent(ctx context.Context, owner, requester finance.Address) (ConsentDetail, error) {
	var out struct {
		Status    int   `json:"status"`
		StartDate int64 `json:"startDate"`
		EndDate   int64 `json:"endDate"`
	}
	if err := c.call(ctx, c.contracts.ConsentManager, "getConsent", map[string]any{
		"owner":     string(owner),
		"requester": string(requester),
	}, &out); err != nil {
		return ConsentDetail{}, err
	}
	return ConsentDetail{
		ConsentID: ConsentID(requester, owner),
		Status:    ConsentStatus(out.Status),
		StartDate: time.Unix(out.StartDate, 0).UTC(),
		EndDate:   time.Unix(out.EndDate, 0).UTC(),
	}, nil
}

func (c *RPCClient) CreateConsent(ctx context.Context, signer Signer, requester finance.Address, start, end time.Time) (Receipt, error) {
	return c.send(ctx, signer, c.contracts.ConsentManager, "createConsent", map[string]any{
		"requester": string(requester),
		"startDate": start.Unix(),
		"endDate":   end.Unix(),
	})
}

func (c *RPCClient) ChangeConsentStatus(ctx context.Context, signer Signer, requester finance.Address, status ConsentStatus) (Receipt, error) {
	return c.send(ctx, signer, c.contracts.ConsentManager, "changeConsentStatus", map[string]any{
		"requester": string(requester),
		"status":    int(status),
	})
}

func (c *RPCClient) RequestCreditTier(ctx context.Context, signer Signer, owner finance.Address) (BrokerResult, error) {
	receipt, err := c.send(ctx, signer, c.contracts.DataBroker, "requestCreditTier", map[string]any{"owner": string(owner)})
	if err != nil {
		return BrokerResult{}, err
	}
	return c.brokerResult(ctx, receipt, owner, signer.From, c.GetCreditTier)
}

func (c *RPCClient) RequestIncomeBand(ctx context.Context, signer Signer, owner finance.Address) (BrokerResult, error) {
	receipt, err := c.send(ctx, signer, c.contracts.DataBroker, "requestIncomeBand", map[string]any{"owner": string(owner)})
	if err != nil {
		return BrokerResult{}, err
	}
	return c.brokerResult(ctx, receipt, owner, signer.From, c.GetIncomeBand)
}

func (c *RPCClient) brokerResult(ctx context.Context, receipt Receipt, owner, requester finance.Address, read func(context.Context, finance.Address) (int, error)) (BrokerResult, error) {
	events, err := c.receiptEvents(ctx, receipt.TxHash, owner, requester)
	if err != nil {
		return BrokerResult{}, err
	}
	result := BrokerResult{Receipt: receipt, Events: events}
	for _, ev := range events {
		if ev.Kind == AccessGranted {
			value, err := read(ctx, owner)
			if err != nil {
				return BrokerResult{}, err
			}
			result.Value = value
		}
	}
	return result, nil
}

// receiptEvents decodes marker logs from the transaction receipt. Each log's
// data field carries the same hex-JSON envelope used on the way in.
func (c *RPCClient) receiptEvents(ctx context.Context, txHash string, owner, requester finance.Address) ([]AccessEvent, error) {
	var receipt struct {
		Logs []struct {
			Data string `json:"data"`
		} `json:"logs"`
	}
	if err := c.rpc(ctx, "eth_getTransactionReceipt", []any{txHash}, &receipt); err != nil {
		return nil, err
	}
	var events []AccessEvent
	for _, lg := range receipt.Logs {
		raw, err := hex.DecodeString(strings.TrimPrefix(lg.Data, "0x"))
		if err != nil {
			continue
		}
		var ev struct {
			Event  string  `json:"event"`
			Amount float64 `json:"amount"`
		}
		if err := json.Unmarshal(raw, &ev); err != nil {
			continue
		}
		switch AccessEventKind(ev.Event) {
		case AccessGranted, AccessDenied, RewardDistributed:
			events = append(events, AccessEvent{
				Kind:      AccessEventKind(ev.Event),
				Owner:     owner,
				Requester: requester,
				Amount:    ev.Amount,
			})
		}
	}
	return events, nil
}

func (c *RPCClient) send(ctx context.Context, signer Signer, to finance.Address, method string, params map[string]any) (Receipt, error) {
	if !finance.IsAddress(string(signer.From)) {
		return Receipt{}, dErrors.New(dErrors.CodeInvalidInput, "invalid signer address")
	}
	dataBytes, _ := json.Marshal(map[string]any{
		"method": method,
		"params": params,
	})
	txObj := map[string]string{
		"from":  string(signer.From),
		"to":    string(to),
		"gas":   fmt.Sprintf("0x%x", c.gasLimit),
		"data":  "0x" + hex.EncodeToString(dataBytes),
		"value": "0x0",
	}

	var txHash string
	if err := c.rpc(ctx, "eth_sendTransaction", []any{txObj}, &txHash); err != nil {
		return Receipt{}, err
	}
	if !strings.HasPrefix(txHash, "0x") {
		return Receipt{}, dErrors.New(dErrors.CodeUnavailable, "invalid tx hash response")
	}
	block, err := c.waitMined(ctx, txHash)
	if err != nil {
		return Receipt{}, err
	}
	return Receipt{TxHash: txHash, BlockNumber: block}, nil
}

func (c *RPCClient) waitMined(ctx context.Context, txHash string) (uint64, error) {
	ticker := time.NewTicker(500 * time.Millisecond)
	defer ticker.Stop()
	deadline := time.Now().Add(c.callTimeout)
	for {
		var receipt *struct {
			BlockNumber string `json:"blockNumber"`
		}
		if err := c.rpc(ctx, "eth_getTransactionReceipt", []any{txHash}, &receipt); err == nil && receipt != nil && receipt.BlockNumber != "" {
			block, err := strconv.ParseUint(strings.TrimPrefix(receipt.BlockNumber, "0x"), 16, 64)
			if err != nil {
				return 0, dErrors.Wrap(err, dErrors.CodeUnavailable, "malformed block number in receipt")
			}
			return block, nil
		}
		if time.Now().After(deadline) {
			return 0, dErrors.New(dErrors.CodeTimeout, "transaction not mined before deadline")
		}
		select {
		case <-ctx.Done():
			return 0, dErrors.Wrap(ctx.Err(), dErrors.CodeTimeout, "waiting for transaction receipt")
		case <-ticker.C:
		}
	}
}

func (c *RPCClient) call(ctx context.Context, to finance.Address, method string, params map[string]any, out any) error {
	dataBytes, _ := json.Marshal(map[string]any{
		"method": method,
		"params": params,
	})
	callObj := map[string]string{
		"to":   string(to),
		"data": "0x" + hex.EncodeToString(dataBytes),
	}
	var result string
	if err := c.rpc(ctx, "eth_call", []any{callObj, "latest"}, &result); err != nil {
		return err
	}
	raw, err := hex.DecodeString(strings.TrimPrefix(result, "0x"))
	if err != nil {
		return dErrors.Wrap(err, dErrors.CodeUnavailable, "malformed call result")
	}
	if err := json.Unmarshal(raw, out); err != nil {
		return dErrors.Wrap(err, dErrors.CodeUnavailable, "decoding call result")
	}
	return nil
}

func (c *RPCClient) rpc(ctx context.Context, method string, params []any, out any) error {
	reqBody, _ := json.Marshal(map[string]any{
		"jsonrpc": "2.0",
		"id":      1,
		"method":  method,
		"params":  params,
	})
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.url, bytes.NewReader(reqBody))
	if err != nil {
		return dErrors.Wrap(err, dErrors.CodeInternal, "building rpc request")
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return dErrors.Wrap(err, dErrors.CodeUnavailable, "ledger rpc call failed")
	}
	defer resp.Body.Close()

	var payload struct {
		Result json.RawMessage `json:"result"`
		Error  *struct {
			Code    int    `json:"code"`
			Message string `json:"message"`
		} `json:"error"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return dErrors.Wrap(err, dErrors.CodeUnavailable, "decoding rpc response")
	}
	if payload.Error != nil {
		return dErrors.New(dErrors.CodeUnavailable, fmt.Sprintf("rpc error %d: %s", payload.Error.Code, payload.Error.Message))
	}
	if len(payload.Result) == 0 {
		return dErrors.New(dErrors.CodeUnavailable, "rpc empty result")
	}
	if err := json.Unmarshal(payload.Result, out); err != nil {
		return dErrors.Wrap(err, dErrors.CodeUnavailable, "decoding rpc result")
	}
	return nil
}

var _ Client = (*RPCClient)(nil)
