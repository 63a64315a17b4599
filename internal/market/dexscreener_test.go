package market

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestTokenSnapshotPicksDeepestPair(t *testing.T) {
	const body = `{"pairs":[
		{"chainId":"solana","dexId":"raydium","pairAddress":"SMALL","baseToken":{"symbol":"WIF"},"quoteToken":{"symbol":"SOL"},"priceUsd":"1.5","priceNative":"0.01","liquidity":{"usd":1000},"volume":{"h24":50}},
		{"chainId":"solana","dexId":"orca","pairAddress":"DEEP","baseToken":{"symbol":"WIF"},"quoteToken":{"symbol":"USDC"},"priceUsd":"1.6","priceNative":"0.011","txns":{"h24":{"buys":12,"sells":4}},"liquidity":{"usd":90000},"volume":{"h24":5000},"priceChange":{"h24":-3.5}},
		{"chainId":"base","dexId":"uniswap","pairAddress":"OTHERCHAIN","priceUsd":"1.7","liquidity":{"usd":500000}}
	]}`
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/latest/dex/tokens/MINT" {
			t.Fatalf("unexpected path %s", r.URL.Path)
		}
		_, _ = w.Write([]byte(body))
	}))
	defer server.Close()

	client := NewClient(server.URL + "/")
	snap, err := client.TokenSnapshot(context.Background(), ChainSolana, "MINT")
	if err != nil {
		t.Fatalf("TokenSnapshot returned error: %v", err)
	}
	if snap.PairAddress != "DEEP" {
		t.Fatalf("expected deepest solana pair, got %s", snap.PairAddress)
	}
	if snap.PriceUSD != 1.6 || snap.LiquidityUSD != 90000 {
		t.Fatalf("unexpected price/liquidity: %+v", snap)
	}
	if snap.Buys24h != 12 || snap.Sells24h != 4 {
		t.Fatalf("unexpected txn counts: %+v", snap)
	}
	if snap.PriceChange24h != -3.5 {
		t.Fatalf("unexpected price change: %.2f", snap.PriceChange24h)
	}
}

func TestTokenSnapshotNoPairs(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"pairs":null}`))
	}))
	defer server.Close()

	_, err := NewClient(server.URL).TokenSnapshot(context.Background(), ChainSolana, "MINT")
	if !errors.Is(err, ErrNoPairs) {
		t.Fatalf("expected ErrNoPairs, got %v", err)
	}
}

func TestTokenSnapshotStatus(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTooManyRequests)
	}))
	defer server.Close()

	if _, err := NewClient(server.URL).TokenSnapshot(context.Background(), ChainSolana, "MINT"); err == nil {
		t.Fatalf("expected error on non-200 status")
	}
}

func TestParsePrice(t *testing.T) {
	cases := map[string]float64{"": 0, "abc": 0, "-1": 0, "0.25": 0.25}
	for in, want := range cases {
		if got := parsePrice(in); got != want {
			t.Fatalf("parsePrice(%q) = %v, want %v", in, got, want)
		}
	}
}
