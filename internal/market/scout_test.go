package market

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"solagent-go/internal/config"
)

func TestFilterThresholds(t *testing.T) {
	now := time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)
	base := Listing{
		Chain:        "solana",
		PairAddress:  "KEEP",
		Symbol:       "KEEP",
		LiquidityUSD: 2000,
		FDVUSD:       500_000,
		VolumeUSD1h:  800,
		Buys5m:       8,
		Sells5m:      4,
		CreatedAt:    now.Add(-30 * time.Minute),
	}
	variant := func(symbol string, mutate func(*Listing)) Listing {
		l := base
		l.Symbol = symbol
		mutate(&l)
		return l
	}
	listings := []Listing{
		base,
		variant("CHAIN", func(l *Listing) { l.Chain = "base" }),
		variant("THIN", func(l *Listing) { l.LiquidityUSD = 500 }),
		variant("RICH", func(l *Listing) { l.FDVUSD = 2_000_000 }),
		variant("NEW", func(l *Listing) { l.CreatedAt = now.Add(-2 * time.Minute) }),
		variant("OLD", func(l *Listing) { l.CreatedAt = now.Add(-90 * time.Minute) }),
		variant("NOAGE", func(l *Listing) { l.CreatedAt = time.Time{} }),
		variant("QUIET", func(l *Listing) { l.Buys5m, l.Sells5m = 2, 1 }),
		variant("NOVOL", func(l *Listing) { l.VolumeUSD1h = 100 }),
	}
	cfg := config.Scan{
		Chains:          []string{"Solana"},
		MinLiquidityUSD: 1000,
		MaxFDVUSD:       1_000_000,
		MinAgeMinutes:   5,
		MaxAgeMinutes:   60,
		MinTrades5m:     10,
		MinVolumeUSD1h:  500,
	}

	passed := Filter(listings, cfg, now)
	if len(passed) != 1 || passed[0].Symbol != "KEEP" {
		t.Fatalf("expected only KEEP to pass, got %+v", passed)
	}
	if passed[0].AgeMinutes != 30 {
		t.Fatalf("expected age 30m, got %d", passed[0].AgeMinutes)
	}

	// zero thresholds disable the fdv and max-age checks
	cfg.MaxFDVUSD, cfg.MaxAgeMinutes = 0, 0
	passed = Filter(listings, cfg, now)
	if len(passed) != 3 {
		t.Fatalf("expected KEEP, RICH and OLD with caps off, got %d", len(passed))
	}
}

func TestScoreOrdersBestFirst(t *testing.T) {
	cfg := config.Scan{MinLiquidityUSD: 1000, MinVolumeUSD1h: 1000, MinTrades5m: 10}
	scored := Score([]Listing{
		{Symbol: "HALF", LiquidityUSD: 1000, VolumeUSD1h: 500, Buys5m: 5, Sells5m: 5},
		{Symbol: "LOW", LiquidityUSD: 500},
		{Symbol: "SHALLOW", LiquidityUSD: 3000, VolumeUSD1h: 2000, Buys5m: 10},
		{Symbol: "DEEP", LiquidityUSD: 5000, VolumeUSD1h: 2000, Buys5m: 10},
	}, cfg)

	want := []struct {
		symbol string
		score  float64
	}{
		{"DEEP", 100},
		{"SHALLOW", 100},
		{"HALF", 75},
		{"LOW", 15},
	}
	for i, w := range want {
		if scored[i].Symbol != w.symbol || scored[i].Score != w.score {
			t.Fatalf("position %d: expected %s=%.2f, got %s=%.2f", i, w.symbol, w.score, scored[i].Symbol, scored[i].Score)
		}
	}
}

func searchPair(address, symbol string, liquidity, volume1h float64, buys, sells int, created time.Time) string {
	return fmt.Sprintf(`{"chainId":"solana","dexId":"raydium","pairAddress":%q,"baseToken":{"address":"MINT%s","name":"%s coin","symbol":%q},"priceUsd":"0.001","fdv":250000,"pairCreatedAt":%d,"liquidity":{"usd":%g},"volume":{"h1":%g,"h24":%g},"txns":{"m5":{"buys":%d,"sells":%d}}}`,
		address, symbol, symbol, symbol, created.UnixMilli(), liquidity, volume1h, volume1h*10, buys, sells)
}

func TestScanSearchesKeywords(t *testing.T) {
	created := time.Now().Add(-20 * time.Minute)
	good := searchPair("P1", "ONE", 20_000, 6_000, 6, 6, created)
	better := searchPair("P3", "THREE", 40_000, 9_000, 20, 0, created)
	thin := searchPair("P2", "TWO", 50, 6_000, 6, 6, created)

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/latest/dex/search" {
			t.Fatalf("unexpected path %s", r.URL.Path)
		}
		switch r.URL.Query().Get("q") {
		case "raydium solana":
			_, _ = w.Write([]byte(`{"pairs":[` + good + `,` + thin + `]}`))
		case "pump":
			_, _ = w.Write([]byte(`{"pairs":[` + good + `,` + better + `]}`))
		default:
			w.WriteHeader(http.StatusBadGateway)
		}
	}))
	defer server.Close()

	cfg := config.Default().Scan
	cfg.Keywords = []string{"raydium solana", "pump", "broken"}
	client := NewClient(server.URL)

	listings, err := client.Scan(context.Background(), cfg)
	if err != nil {
		t.Fatalf("Scan returned error: %v", err)
	}
	if len(listings) != 2 {
		t.Fatalf("expected 2 deduplicated listings, got %+v", listings)
	}
	if listings[0].PairAddress != "P3" || listings[1].PairAddress != "P1" {
		t.Fatalf("expected P3 before P1, got %s, %s", listings[0].PairAddress, listings[1].PairAddress)
	}
	if listings[0].Address != "MINTTHREE" || listings[0].AgeMinutes < 19 {
		t.Fatalf("unexpected listing fields: %+v", listings[0])
	}

	cfg.MaxPairs = 1
	listings, err = client.Scan(context.Background(), cfg)
	if err != nil || len(listings) != 1 || listings[0].PairAddress != "P3" {
		t.Fatalf("expected only the top listing, got %+v (err %v)", listings, err)
	}
}

func TestScanFailsWhenEverySearchFails(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTooManyRequests)
	}))
	defer server.Close()

	cfg := config.Default().Scan
	cfg.Keywords = []string{"a", "b"}
	if _, err := NewClient(server.URL).Scan(context.Background(), cfg); err == nil {
		t.Fatalf("expected error when every search fails")
	}
}
