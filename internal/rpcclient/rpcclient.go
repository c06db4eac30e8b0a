// Package rpcclient implements a minimal Solana JSON-RPC client for fetching
// a program's executable account bytes via getAccountInfo.
package rpcclient

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"net/http"
)

// Client is a minimal Solana JSON-RPC client.
type Client struct {
	endpoint string
	hc       *http.Client
}

// New returns a Client pointed at endpoint (e.g. "https://api.mainnet-beta.solana.com").
func New(endpoint string) *Client {
	return &Client{endpoint: endpoint, hc: &http.Client{}}
}

type rpcRequest struct {
	JSONRPC string `json:"jsonrpc"`
	ID      int    `json:"id"`
	Method  string `json:"method"`
	Params  []any  `json:"params"`
}

type rpcError struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}

type accountInfoResponse struct {
	Result struct {
		Value *struct {
			Data       [2]string `json:"data"` // [base64, "base64"]
			Executable bool      `json:"executable"`
		} `json:"value"`
	} `json:"result"`
	Error *rpcError `json:"error"`
}

// GetAccountData fetches programID's account and returns its raw data bytes,
// decoded from the RPC response's base64 encoding. Returns an error if the
// account does not exist or the RPC call fails.
func (c *Client) GetAccountData(ctx context.Context, programID string) ([]byte, error) {
	reqBody := rpcRequest{
		JSONRPC: "2.0",
		ID:      1,
		Method:  "getAccountInfo",
		Params: []any{
			programID,
			map[string]string{"encoding": "base64"},
		},
	}
	body, err := json.Marshal(reqBody)
	if err != nil {
		return nil, fmt.Errorf("rpcclient: marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("rpcclient: build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.hc.Do(req)
	if err != nil {
		return nil, fmt.Errorf("rpcclient: request failed: %w", err)
	}
	defer resp.Body.Close()

	var parsed accountInfoResponse
	if err := json.NewDecoder(resp.Body).Decode(&parsed); err != nil {
		return nil, fmt.Errorf("rpcclient: decode response: %w", err)
	}
	if parsed.Error != nil {
		return nil, fmt.Errorf("rpcclient: rpc error %d: %s", parsed.Error.Code, parsed.Error.Message)
	}
	if parsed.Result.Value == nil {
		return nil, fmt.Errorf("rpcclient: account %s not found", programID)
	}

	data, err := base64.StdEncoding.DecodeString(parsed.Result.Value.Data[0])
	if err != nil {
		return nil, fmt.Errorf("rpcclient: decode account data: %w", err)
	}
	return data, nil
}
