// Package agent builds a signing agent from configuration and exposes its trade and token operations.
package agent

import (
	"context"
	"fmt"
	"math"

	solana "github.com/gagliardetto/solana-go"
	"github.com/rs/zerolog"

	"solagent-go/internal/config"
	dex "solagent-go/internal/dex/solana"
	"solagent-go/internal/journal"
	"solagent-go/internal/llm"
	"solagent-go/internal/risk"
	"solagent-go/internal/util"
)

const (
	// DefaultTradeAmount is the whole-SOL amount used by TradeDefault.
	DefaultTradeAmount = 0.1
	// SlippageBps is the slippage tolerance sent with every swap (3%).
	SlippageBps = 300
	// LamportsPerSOL scales whole units into base units.
	LamportsPerSOL = 1_000_000_000
)

// Toolkit is the set of token operations the agent delegates to.
type Toolkit interface {
	Trade(ctx context.Context, req dex.TradeRequest) (solana.Signature, error)
	TokenInfo(ctx context.Context, mint solana.PublicKey) (*dex.TokenInfo, error)
}

// Analyst turns token data into a human-readable assessment.
type Analyst interface {
	AnalyzeToken(ctx context.Context, token any) (string, error)
}

// Agent is bound to one key, one RPC endpoint and one toolkit. It is immutable after Initialize.
type Agent struct {
	key     solana.PrivateKey
	rpcURL  string
	apiKey  string
	toolkit Toolkit
	analyst Analyst
	limits  risk.Limits
	journal journal.Recorder
	log     zerolog.Logger
}

type options struct {
	toolkit Toolkit
	analyst Analyst
	limits  risk.Limits
	journal journal.Recorder
	log     zerolog.Logger
	dex     config.Dex
	llm     config.LLM
	confirm bool
}

// Option customises Initialize.
type Option func(*options)

func WithToolkit(t Toolkit) Option { return func(o *options) { o.toolkit = t } }
func WithAnalyst(a Analyst) Option { return func(o *options) { o.analyst = a } }
func WithLimits(l risk.Limits) Option { return func(o *options) { o.limits = l } }
func WithJournal(r journal.Recorder) Option { return func(o *options) { o.journal = r } }
func WithLogger(l zerolog.Logger) Option { return func(o *options) { o.log = l } }
func WithDex(d config.Dex) Option { return func(o *options) { o.dex = d } }
func WithLLM(l config.LLM) Option { return func(o *options) { o.llm = l } }
func WithConfirm(c bool) Option { return func(o *options) { o.confirm = c } }

// Initialize decodes the configured key and binds an Agent to it.
// Key problems are reported as *ConfigurationError before any network call.
func Initialize(cfg config.Agent, opts ...Option) (*Agent, error) {
	defaults := config.Default()
	o := options{
		journal: journal.Nop{},
		log:     zerolog.Nop(),
		dex:     defaults.Dex,
		llm:     defaults.LLM,
	}
	for _, opt := range opts {
		opt(&o)
	}
	log := util.Tagged(o.log, "AGENT")

	key, field, err := loadKey(cfg)
	if err != nil {
		log.Error().Err(err).Msg("Failed")
		return nil, &ConfigurationError{Field: field, Err: err}
	}

	rpcURL := cfg.RPCURL
	if rpcURL == "" {
		rpcURL = config.DefaultRPCURL
	}
	apiKey := cfg.APIKey
	if apiKey == "" {
		apiKey = config.DefaultAPIKey
	}

	toolkit := o.toolkit
	if toolkit == nil {
		toolkit = dex.NewToolkit(key, rpcURL, o.dex, o.confirm)
	}
	analyst := o.analyst
	if analyst == nil && o.llm.BaseURL != "" {
		analyst = llm.NewClient(o.llm.BaseURL, apiKey, o.llm.Model)
	}

	a := &Agent{
		key:     key,
		rpcURL:  rpcURL,
		apiKey:  apiKey,
		toolkit: toolkit,
		analyst: analyst,
		limits:  o.limits,
		journal: o.journal,
		log:     o.log,
	}
	log.Info().Msg("Initialized successfully")
	log.Info().Msgf("Wallet: %s", key.PublicKey())
	return a, nil
}

// loadKey also returns the setting the key was read from, for error reporting.
func loadKey(cfg config.Agent) (solana.PrivateKey, string, error) {
	if cfg.PrivateKey == "" && cfg.KeypairPath != "" {
		key, err := dex.ReadKeyFile(cfg.KeypairPath)
		return key, config.EnvKeypairPath, err
	}
	key, err := dex.DecodePrivateKey(cfg.PrivateKey)
	return key, config.EnvPrivateKey, err
}

func (a *Agent) PublicKey() solana.PublicKey { return a.key.PublicKey() }

func (a *Agent) RPCURL() string { return a.rpcURL }

// APIKey is the model-backend key forwarded from configuration.
func (a *Agent) APIKey() string { return a.apiKey }

// ToBaseUnits converts whole SOL into lamports.
func ToBaseUnits(amount float64) (uint64, error) {
	if math.IsNaN(amount) || math.IsInf(amount, 0) || amount <= 0 {
		return 0, fmt.Errorf("%w: %v", ErrInvalidAmount, amount)
	}
	scaled := math.Round(amount * LamportsPerSOL)
	if scaled < 1 || scaled >= math.MaxUint64 {
		return 0, fmt.Errorf("%w: %v out of range", ErrInvalidAmount, amount)
	}
	return uint64(scaled), nil
}
