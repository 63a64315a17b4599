// Package market fetches public pair statistics for tokens from DexScreener.
package market

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"
)

// ChainSolana is DexScreener's chain id for Solana pairs.
const ChainSolana = "solana"

// ErrNoPairs is returned when DexScreener lists no pair for the token on the requested chain.
var ErrNoPairs = errors.New("no pairs listed")

// Snapshot is the deepest pair for a token at the time of the request.
type Snapshot struct {
	PairAddress    string    `json:"pairAddress"`
	DexID          string    `json:"dexId"`
	BaseSymbol     string    `json:"baseSymbol"`
	QuoteSymbol    string    `json:"quoteSymbol"`
	PriceUSD       float64   `json:"priceUsd"`
	PriceNative    float64   `json:"priceNative"`
	LiquidityUSD   float64   `json:"liquidityUsd"`
	Volume24h      float64   `json:"volume24h"`
	PriceChange24h float64   `json:"priceChange24h"`
	Buys24h        int       `json:"buys24h"`
	Sells24h       int       `json:"sells24h"`
	Ts             time.Time `json:"ts"`
}

// Client talks to the DexScreener REST API.
type Client struct {
	Base string
	Http *http.Client
}

func NewClient(base string) *Client {
	return &Client{
		Base: strings.TrimSuffix(base, "/"),
		Http: &http.Client{Timeout: 10 * time.Second},
	}
}

type dexscreenerPairsResponse struct {
	Pairs []dexscreenerPair `json:"pairs"`
	Pair  *dexscreenerPair  `json:"pair"`
}

type dexscreenerPair struct {
	ChainID     string                 `json:"chainId"`
	DexID       string                 `json:"dexId"`
	PairAddress string                 `json:"pairAddress"`
	BaseToken   dexscreenerToken       `json:"baseToken"`
	QuoteToken  dexscreenerToken       `json:"quoteToken"`
	PriceUsd    string                 `json:"priceUsd"`
	PriceNative string                 `json:"priceNative"`
	Txns        dexscreenerTxns        `json:"txns"`
	Volume      dexscreenerVolumes     `json:"volume"`
	Liquidity   dexscreenerLiquidity   `json:"liquidity"`
	PriceChange dexscreenerPriceChange `json:"priceChange"`
	Fdv         float64                `json:"fdv"`
	CreatedAtMs int64                  `json:"pairCreatedAt"`
}

type dexscreenerToken struct {
	Address string `json:"address"`
	Name    string `json:"name"`
	Symbol  string `json:"symbol"`
}

type dexscreenerTxns struct {
	M5  dexscreenerTxn `json:"m5"`
	H24 dexscreenerTxn `json:"h24"`
}

type dexscreenerTxn struct {
	Buys  int `json:"buys"`
	Sells int `json:"sells"`
}

type dexscreenerVolumes struct {
	H1  float64 `json:"h1"`
	H24 float64 `json:"h24"`
}

type dexscreenerLiquidity struct {
	USD float64 `json:"usd"`
}

type dexscreenerPriceChange struct {
	H24 float64 `json:"h24"`
}

// TokenSnapshot fetches /latest/dex/tokens/{address} and keeps the most liquid pair on chain.
func (c *Client) TokenSnapshot(ctx context.Context, chain, address string) (*Snapshot, error) {
	payload, err := c.get(ctx, fmt.Sprintf("%s/latest/dex/tokens/%s", c.Base, address))
	if err != nil {
		return nil, err
	}
	pair, ok := deepestPair(payload.Pairs, chain)
	if !ok {
		return nil, ErrNoPairs
	}
	return &Snapshot{
		PairAddress:    pair.PairAddress,
		DexID:          pair.DexID,
		BaseSymbol:     pair.BaseToken.Symbol,
		QuoteSymbol:    pair.QuoteToken.Symbol,
		PriceUSD:       parsePrice(pair.PriceUsd),
		PriceNative:    parsePrice(pair.PriceNative),
		LiquidityUSD:   pair.Liquidity.USD,
		Volume24h:      pair.Volume.H24,
		PriceChange24h: pair.PriceChange.H24,
		Buys24h:        pair.Txns.H24.Buys,
		Sells24h:       pair.Txns.H24.Sells,
		Ts:             time.Now().UTC(),
	}, nil
}

func (c *Client) get(ctx context.Context, endpoint string) (*dexscreenerPairsResponse, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("User-Agent", "solagent-go/1.0")
	resp, err := c.Http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("http do: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("unexpected status %d", resp.StatusCode)
	}

	var payload dexscreenerPairsResponse
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return nil, fmt.Errorf("decode response: %w", err)
	}
	if len(payload.Pairs) == 0 && payload.Pair != nil {
		payload.Pairs = []dexscreenerPair{*payload.Pair}
	}
	return &payload, nil
}

func deepestPair(pairs []dexscreenerPair, chain string) (*dexscreenerPair, bool) {
	chain = strings.ToLower(strings.TrimSpace(chain))
	var best *dexscreenerPair
	for i := range pairs {
		p := &pairs[i]
		if chain != "" && !strings.EqualFold(p.ChainID, chain) {
			continue
		}
		if best == nil || p.Liquidity.USD > best.Liquidity.USD {
			best = p
		}
	}
	return best, best != nil
}

func parsePrice(raw string) float64 {
	if raw == "" {
		return 0
	}
	px, err := strconv.ParseFloat(raw, 64)
	if err != nil || px < 0 {
		return 0
	}
	return px
}
