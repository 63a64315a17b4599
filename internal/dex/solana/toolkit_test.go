package solana

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	solana "github.com/gagliardetto/solana-go"

	"solagent-go/internal/config"
)

// rpcServer answers getTokenSupply like a Solana JSON-RPC node.
func rpcServer(t *testing.T) *httptest.Server {
	t.Helper()
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var req struct {
			ID     any    `json:"id"`
			Method string `json:"method"`
		}
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			t.Fatalf("decode rpc request: %v", err)
		}
		if req.Method != "getTokenSupply" {
			t.Fatalf("unexpected rpc method %s", req.Method)
		}
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(map[string]any{
			"jsonrpc": "2.0",
			"id":      req.ID,
			"result": map[string]any{
				"context": map[string]any{"slot": 1},
				"value": map[string]any{
					"amount":         "1000000000",
					"decimals":       6,
					"uiAmount":       1000.0,
					"uiAmountString": "1000",
				},
			},
		})
	}))
}

func TestToolkitTokenInfo(t *testing.T) {
	mint := solana.NewWallet().PublicKey()
	node := rpcServer(t)
	defer node.Close()

	tokens := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/token/"+mint.String() {
			t.Fatalf("unexpected path %s", r.URL.Path)
		}
		_, _ = w.Write([]byte(`{"address":"` + mint.String() + `","name":"Dog Wif Hat","symbol":"WIF","decimals":6,"tags":["verified"]}`))
	}))
	defer tokens.Close()

	tk := NewToolkit(solana.NewWallet().PrivateKey, node.URL, config.Dex{
		TokensBase:  tokens.URL,
		JupiterBase: "http://unused",
	}, false)
	if tk.Market != nil {
		t.Fatalf("expected market disabled without a base url")
	}

	info, err := tk.TokenInfo(context.Background(), mint)
	if err != nil {
		t.Fatalf("TokenInfo returned error: %v", err)
	}
	if info.Symbol != "WIF" || info.Decimals != 6 {
		t.Fatalf("unexpected token info: %+v", info)
	}
	if info.Supply == nil || info.Supply.Amount != "1000000000" {
		t.Fatalf("expected supply from rpc, got %+v", info.Supply)
	}
}

func TestToolkitTokenInfoUnlisted(t *testing.T) {
	mint := solana.NewWallet().PublicKey()
	node := rpcServer(t)
	defer node.Close()

	tokens := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`null`))
	}))
	defer tokens.Close()

	tk := NewToolkit(solana.NewWallet().PrivateKey, node.URL, config.Dex{TokensBase: tokens.URL}, false)
	info, err := tk.TokenInfo(context.Background(), mint)
	if err != nil {
		t.Fatalf("TokenInfo returned error: %v", err)
	}
	if info.Address != mint.String() || info.Decimals != 6 {
		t.Fatalf("expected fallback info from supply, got %+v", info)
	}
}

func TestToolkitTradeQuoteFailure(t *testing.T) {
	jup := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !strings.HasPrefix(r.URL.Path, "/v6/quote") {
			t.Fatalf("swap should not be requested after a failed quote")
		}
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer jup.Close()

	tk := NewToolkit(solana.NewWallet().PrivateKey, "http://unused", config.Dex{JupiterBase: jup.URL}, false)
	_, err := tk.Trade(context.Background(), TradeRequest{
		InputMint:   solana.NewWallet().PublicKey(),
		Amount:      100_000_000,
		OutputMint:  WrappedSOL,
		SlippageBps: 300,
	})
	if err == nil || !strings.Contains(err.Error(), "quote") {
		t.Fatalf("expected quote error, got %v", err)
	}
}
