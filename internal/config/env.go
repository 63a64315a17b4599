package config

import (
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

// Environment variable names recognised by ApplyEnv.
const (
	EnvPrivateKey      = "SOLANA_PRIVATE_KEY"
	EnvKeypairPath     = "SOLANA_KEYPAIR_PATH"
	EnvRPCURL          = "RPC_URL"
	EnvAPIKey          = "OLLAMA_API_KEY"
	EnvJupiterBase     = "JUPITER_BASE_URL"
	EnvTokensBase      = "JUPITER_TOKENS_URL"
	EnvDexScreenerBase = "DEXSCREENER_BASE_URL"
	EnvCommitment      = "SOLANA_COMMITMENT"
	EnvLLMBaseURL      = "LLM_BASE_URL"
	EnvLLMModel        = "LLM_MODEL"
	EnvLogLevel        = "LOG_LEVEL"
	EnvMetricsAddr     = "METRICS_ADDR"
	EnvMaxTradeAmount  = "MAX_TRADE_AMOUNT"
	EnvJournalPath     = "TRADE_JOURNAL_PATH"
)

// LookupFunc matches os.LookupEnv so tests can supply a fixed environment.
type LookupFunc func(key string) (string, bool)

// LoadDotEnv reads .env style files into the process environment. Missing files are ignored.
func LoadDotEnv(files ...string) {
	_ = godotenv.Load(files...) // best-effort
}

// ApplyEnv overlays non-empty environment values onto cfg.
func ApplyEnv(cfg *Config, lookup LookupFunc) {
	if cfg == nil {
		return
	}
	if lookup == nil {
		lookup = os.LookupEnv
	}
	set := func(dst *string, key string) {
		if v, ok := lookup(key); ok && v != "" {
			*dst = v
		}
	}
	set(&cfg.Agent.PrivateKey, EnvPrivateKey)
	set(&cfg.Agent.KeypairPath, EnvKeypairPath)
	set(&cfg.Agent.RPCURL, EnvRPCURL)
	set(&cfg.Agent.APIKey, EnvAPIKey)
	set(&cfg.Dex.JupiterBase, EnvJupiterBase)
	set(&cfg.Dex.TokensBase, EnvTokensBase)
	set(&cfg.Dex.DexScreenerBase, EnvDexScreenerBase)
	set(&cfg.Dex.Commitment, EnvCommitment)
	set(&cfg.LLM.BaseURL, EnvLLMBaseURL)
	set(&cfg.LLM.Model, EnvLLMModel)
	set(&cfg.App.LogLevel, EnvLogLevel)
	set(&cfg.App.MetricsAddr, EnvMetricsAddr)
	set(&cfg.Trade.JournalPath, EnvJournalPath)

	if v, ok := lookup(EnvMaxTradeAmount); ok && v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil && f >= 0 {
			cfg.Trade.MaxAmountPerTrade = f
		}
	}
}
