package solana

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	solana "github.com/gagliardetto/solana-go"

	"solagent-go/internal/config"
	"solagent-go/internal/market"
)

// TradeRequest is one swap of Amount base units of InputMint into OutputMint.
type TradeRequest struct {
	InputMint   solana.PublicKey
	Amount      uint64
	OutputMint  solana.PublicKey
	SlippageBps int
}

// Toolkit binds the token operations (swap, token lookup) to a single owner key.
type Toolkit struct {
	Jupiter      *JupiterClient
	Tokens       *TokenClient
	Market       *market.Client // nil disables market snapshots
	Confirm      bool
	PollInterval time.Duration
}

// NewToolkit wires the Jupiter, token-list and DexScreener clients for owner.
func NewToolkit(owner solana.PrivateKey, rpcURL string, dex config.Dex, confirm bool) *Toolkit {
	jup := NewJupiterClient(rpcURL, dex.JupiterBase, owner, dex.Commitment)
	tk := &Toolkit{
		Jupiter: jup,
		Tokens:  NewTokenClient(dex.TokensBase, &http.Client{Timeout: 8 * time.Second}),
		Confirm: confirm,
	}
	if dex.DexScreenerBase != "" {
		tk.Market = market.NewClient(dex.DexScreenerBase)
	}
	return tk
}

// Trade quotes, signs and submits a swap, optionally waiting for confirmation.
func (t *Toolkit) Trade(ctx context.Context, req TradeRequest) (solana.Signature, error) {
	quote, err := t.Jupiter.GetQuote(ctx, req.InputMint.String(), req.OutputMint.String(), req.Amount, req.SlippageBps)
	if err != nil {
		return solana.Signature{}, fmt.Errorf("quote: %w", err)
	}
	sig, err := t.Jupiter.BuildAndSendSwap(ctx, quote)
	if err != nil {
		return solana.Signature{}, fmt.Errorf("swap: %w", err)
	}
	if t.Confirm {
		if err := t.Jupiter.WaitForConfirmation(ctx, sig, t.PollInterval); err != nil {
			return sig, fmt.Errorf("confirm: %w", err)
		}
	}
	return sig, nil
}

// TokenInfo returns token-list metadata enriched with the on-chain supply.
// Mints unknown to the token list still resolve as long as the RPC node knows them.
func (t *Toolkit) TokenInfo(ctx context.Context, mint solana.PublicKey) (*TokenInfo, error) {
	info, err := t.Tokens.GetToken(ctx, mint)
	if err != nil {
		if !errors.Is(err, ErrTokenNotFound) {
			return nil, fmt.Errorf("token metadata: %w", err)
		}
		info = &TokenInfo{Address: mint.String()}
	}

	supply, err := t.Jupiter.GetTokenSupply(ctx, mint)
	if err != nil {
		return nil, err
	}
	info.Supply = supply
	if info.Decimals == 0 {
		info.Decimals = int(supply.Decimals)
	}

	if t.Market != nil {
		// market data is best-effort; devnet mints are rarely listed
		if snap, err := t.Market.TokenSnapshot(ctx, market.ChainSolana, mint.String()); err == nil {
			info.Market = snap
		}
	}
	return info, nil
}
