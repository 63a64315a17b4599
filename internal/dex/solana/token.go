package solana

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"

	solana "github.com/gagliardetto/solana-go"

	"solagent-go/internal/market"
)

// WrappedSOL is the mint of the wrapped native asset used as the trade counterpart.
var WrappedSOL = solana.MustPublicKeyFromBase58("So11111111111111111111111111111111111111112")

// ErrTokenNotFound is returned when the token list has no entry for a mint.
var ErrTokenNotFound = errors.New("token not found")

// TokenInfo merges token-list metadata, on-chain supply and an optional market snapshot.
type TokenInfo struct {
	Address     string           `json:"address"`
	Name        string           `json:"name"`
	Symbol      string           `json:"symbol"`
	Decimals    int              `json:"decimals"`
	LogoURI     string           `json:"logoURI,omitempty"`
	Tags        []string         `json:"tags,omitempty"`
	DailyVolume float64          `json:"daily_volume,omitempty"`
	Supply      *TokenSupply     `json:"supply,omitempty"`
	Market      *market.Snapshot `json:"market,omitempty"`
}

// TokenSupply is the mint's circulating supply as reported by the RPC node.
type TokenSupply struct {
	Amount   string `json:"amount"`
	Decimals uint8  `json:"decimals"`
	UiAmount string `json:"uiAmount"`
}

// TokenClient reads token metadata from the Jupiter token list.
type TokenClient struct {
	Base string
	Http *http.Client
}

func NewTokenClient(base string, httpClient *http.Client) *TokenClient {
	if httpClient == nil {
		httpClient = http.DefaultClient
	}
	return &TokenClient{Base: strings.TrimSuffix(base, "/"), Http: httpClient}
}

// GetToken fetches /token/{mint}.
func (c *TokenClient) GetToken(ctx context.Context, mint solana.PublicKey) (*TokenInfo, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.Base+"/token/"+mint.String(), nil)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	resp, err := c.Http.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()
	switch resp.StatusCode {
	case http.StatusOK:
	case http.StatusNotFound:
		return nil, fmt.Errorf("%s: %w", mint, ErrTokenNotFound)
	default:
		return nil, fmt.Errorf("jupiter token status %d", resp.StatusCode)
	}

	var info TokenInfo
	if err := json.NewDecoder(resp.Body).Decode(&info); err != nil {
		return nil, fmt.Errorf("decode token: %w", err)
	}
	// the token list answers 200 with "null" for unknown mints
	if info.Address == "" {
		return nil, fmt.Errorf("%s: %w", mint, ErrTokenNotFound)
	}
	return &info, nil
}

// GetTokenSupply reads the mint supply from the RPC node.
func (j *JupiterClient) GetTokenSupply(ctx context.Context, mint solana.PublicKey) (*TokenSupply, error) {
	out, err := j.RPC.GetTokenSupply(ctx, mint, j.Commit)
	if err != nil {
		return nil, fmt.Errorf("get token supply: %w", err)
	}
	if out == nil || out.Value == nil {
		return nil, fmt.Errorf("get token supply: empty result")
	}
	return &TokenSupply{
		Amount:   out.Value.Amount,
		Decimals: out.Value.Decimals,
		UiAmount: out.Value.UiAmountString,
	}, nil
}
