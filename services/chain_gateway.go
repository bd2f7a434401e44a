// token-wager-system/services/chain_gateway.go
package services

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"

	"token-wager-system/utils"
)

// ChainGateway is the engine's view of the blockchain service that verifies
// deposits and signs payout transfers. It is slow and can fail; the engine
// never retries a call inside a settlement transaction (a blind retry of
// SendPayout risks paying twice) — it aborts the whole operation instead.
// The gateway itself is expected to be idempotent per (wallet, amount, tx).
type ChainGateway interface {
	VerifyDeposit(ctx context.Context, walletAddress string, amount int64, txHash string) (bool, error)
	SendPayout(ctx context.Context, walletAddress string, amount int64) (signature string, err error)
	PayoutStatus(ctx context.Context, signature string) (confirmed bool, err error)
}

type ChainGatewayClient struct {
	BaseURL string
	Token   string
	Client  *http.Client
}

func NewChainGatewayClient(baseURL, token string) *ChainGatewayClient {
	return &ChainGatewayClient{
		BaseURL: baseURL,
		Token:   token,
		Client:  utils.HTTPClient,
	}
}

type verifyDepositResponse struct {
	Verified bool   `json:"verified"`
	Reason   string `json:"reason,omitempty"`
}

type sendPayoutResponse struct {
	Signature string `json:"signature"`
}

type payoutStatusResponse struct {
	Signature string `json:"signature"`
	Confirmed bool   `json:"confirmed"`
}

// VerifyDeposit calls /deposits/verify on the chain gateway. A clean "no"
// (wrong amount, wrong sender, unknown tx) comes back as (false, nil);
// transport trouble and non-200s surface as ErrGatewayUnavailable.
func (c *ChainGatewayClient) VerifyDeposit(ctx context.Context, walletAddress string, amount int64, txHash string) (bool, error) {
	reqBody := map[string]interface{}{
		"wallet_address": walletAddress,
		"amount":         amount,
		"tx_hash":        txHash,
	}

	var out verifyDepositResponse
	if err := c.post(ctx, "/deposits/verify", reqBody, &out); err != nil {
		return false, err
	}
	if !out.Verified && out.Reason != "" {
		log.Printf("ChainGateway rejected deposit %s from %s: %s", txHash, walletAddress, out.Reason)
	}
	return out.Verified, nil
}

// SendPayout calls /payouts and returns the submitted transaction signature.
func (c *ChainGatewayClient) SendPayout(ctx context.Context, walletAddress string, amount int64) (string, error) {
	reqBody := map[string]interface{}{
		"wallet_address": walletAddress,
		"amount":         amount,
	}

	var out sendPayoutResponse
	if err := c.post(ctx, "/payouts", reqBody, &out); err != nil {
		return "", err
	}
	if out.Signature == "" {
		return "", fmt.Errorf("gateway returned empty payout signature: %w", ErrGatewayUnavailable)
	}
	return out.Signature, nil
}

// PayoutStatus asks whether a previously submitted payout has confirmed.
func (c *ChainGatewayClient) PayoutStatus(ctx context.Context, signature string) (bool, error) {
	url := fmt.Sprintf("%s/payouts/%s", c.BaseURL, signature)

	req, err := http.NewRequestWithContext(ctx, "GET", url, nil)
	if err != nil {
		return false, err
	}
	req.Header.Set("Authorization", "Bearer "+c.Token)

	resp, err := c.Client.Do(req)
	if err != nil {
		return false, fmt.Errorf("chain gateway call failed: %v: %w", err, ErrGatewayUnavailable)
	}
	defer resp.Body.Close()

	body, _ := io.ReadAll(io.LimitReader(resp.Body, 1024))
	if resp.StatusCode != http.StatusOK {
		log.Printf("ChainGateway %s returned %d: %s", url, resp.StatusCode, string(body))
		return false, fmt.Errorf("chain gateway status %d: %w", resp.StatusCode, ErrGatewayUnavailable)
	}

	var out payoutStatusResponse
	if err := json.Unmarshal(body, &out); err != nil {
		return false, err
	}
	return out.Confirmed, nil
}

func (c *ChainGatewayClient) post(ctx context.Context, path string, reqBody interface{}, out interface{}) error {
	jsonData, _ := json.Marshal(reqBody)

	req, err := http.NewRequestWithContext(ctx, "POST", c.BaseURL+path, bytes.NewBuffer(jsonData))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.Token)

	resp, err := c.Client.Do(req)
	if err != nil {
		return fmt.Errorf("chain gateway call failed: %v: %w", err, ErrGatewayUnavailable)
	}
	defer resp.Body.Close()

	body, _ := io.ReadAll(resp.Body)
	if resp.StatusCode != http.StatusOK {
		log.Printf("ChainGateway %s returned %d: %s", path, resp.StatusCode, string(body))
		return fmt.Errorf("chain gateway status %d: %w", resp.StatusCode, ErrGatewayUnavailable)
	}

	return json.Unmarshal(body, out)
}
