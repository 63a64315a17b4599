package agent

import (
	"context"
	"fmt"

	solana "github.com/gagliardetto/solana-go"
	"github.com/rs/zerolog"

	dex "solagent-go/internal/dex/solana"
	"solagent-go/internal/journal"
	"solagent-go/internal/metrics"
	"solagent-go/internal/util"
)

// TradeDefault swaps DefaultTradeAmount of tokenMint.
func (a *Agent) TradeDefault(ctx context.Context, tokenMint string) Result[solana.Signature] {
	return a.Trade(ctx, tokenMint, DefaultTradeAmount)
}

// Trade swaps amount (whole units, scaled by 10^9) of tokenMint into wrapped SOL.
// Failures are logged once and returned in the Result; nothing panics past this call.
func (a *Agent) Trade(ctx context.Context, tokenMint string, amount float64) Result[solana.Signature] {
	log := util.Tagged(a.log, "TRADE")
	log.Info().Msgf("Executing for %s", tokenMint)

	mint, err := dex.ParseMint(tokenMint)
	if err != nil {
		return tradeFailed(log, KindInvalidInput, err)
	}
	lamports, err := ToBaseUnits(amount)
	if err != nil {
		return tradeFailed(log, KindInvalidInput, err)
	}
	if !a.limits.Allow(amount) {
		return tradeFailed(log, KindRejected, fmt.Errorf("%w: %v > %v", ErrAmountNotAllowed, amount, a.limits.MaxAmountPerTrade))
	}

	req := dex.TradeRequest{
		InputMint:   mint,
		Amount:      lamports,
		OutputMint:  dex.WrappedSOL,
		SlippageBps: SlippageBps,
	}
	sig, err := a.toolkit.Trade(ctx, req)
	a.record(log, req, amount, sig, err)
	if err != nil {
		return tradeFailed(log, KindCollaborator, err)
	}

	metrics.TradesTotal.WithLabelValues(metrics.OutcomeSuccess).Inc()
	log.Info().Msgf("Success: %s", sig)
	return succeed(sig)
}

func tradeFailed(log zerolog.Logger, kind Kind, err error) Result[solana.Signature] {
	metrics.TradesTotal.WithLabelValues(outcomeFor(kind)).Inc()
	log.Error().Err(err).Str("kind", kind.String()).Msg("Failed")
	return fail[solana.Signature](kind, err)
}

func (a *Agent) record(log zerolog.Logger, req dex.TradeRequest, amount float64, sig solana.Signature, err error) {
	rec := journal.TradeRecord{
		Wallet:      a.PublicKey().String(),
		Mint:        req.InputMint.String(),
		Amount:      amount,
		Lamports:    req.Amount,
		OutputMint:  req.OutputMint.String(),
		SlippageBps: req.SlippageBps,
	}
	if err != nil {
		rec.Error = err.Error()
	}
	if sig != (solana.Signature{}) {
		rec.Signature = sig.String()
	}
	if jerr := a.journal.Record(rec); jerr != nil {
		log.Warn().Err(jerr).Msg("journal write skipped")
	}
}

// TokenInfo looks up metadata, supply and market data for tokenMint.
func (a *Agent) TokenInfo(ctx context.Context, tokenMint string) Result[*dex.TokenInfo] {
	log := util.Tagged(a.log, "INFO")

	info, kind, err := a.lookup(ctx, tokenMint)
	if err != nil {
		metrics.TokenInfoTotal.WithLabelValues(outcomeFor(kind)).Inc()
		log.Error().Err(err).Str("kind", kind.String()).Msg("Failed")
		return fail[*dex.TokenInfo](kind, err)
	}
	metrics.TokenInfoTotal.WithLabelValues(metrics.OutcomeSuccess).Inc()
	return succeed(info)
}

// Analyze asks the configured model for a risk assessment of tokenMint.
func (a *Agent) Analyze(ctx context.Context, tokenMint string) Result[string] {
	log := util.Tagged(a.log, "ANALYZE")

	failed := func(kind Kind, err error) Result[string] {
		metrics.AnalysesTotal.WithLabelValues(outcomeFor(kind)).Inc()
		log.Error().Err(err).Str("kind", kind.String()).Msg("Failed")
		return fail[string](kind, err)
	}
	if a.analyst == nil {
		return failed(KindRejected, ErrNoAnalyst)
	}
	info, kind, err := a.lookup(ctx, tokenMint)
	if err != nil {
		return failed(kind, err)
	}
	text, err := a.analyst.AnalyzeToken(ctx, info)
	if err != nil {
		return failed(KindCollaborator, err)
	}
	metrics.AnalysesTotal.WithLabelValues(metrics.OutcomeSuccess).Inc()
	return succeed(text)
}

func (a *Agent) lookup(ctx context.Context, tokenMint string) (*dex.TokenInfo, Kind, error) {
	mint, err := dex.ParseMint(tokenMint)
	if err != nil {
		return nil, KindInvalidInput, err
	}
	info, err := a.toolkit.TokenInfo(ctx, mint)
	if err != nil {
		return nil, KindCollaborator, err
	}
	return info, KindNone, nil
}

func outcomeFor(kind Kind) string {
	if kind == KindCollaborator {
		return metrics.OutcomeFailed
	}
	return metrics.OutcomeRejected
}
