// Package config exposes strongly typed application configuration structs loaded from YAML and the environment.
package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

const (
	// DefaultRPCURL is the public Solana devnet endpoint used when none is configured.
	DefaultRPCURL = "https://api.devnet.solana.com"
	// DefaultAPIKey is forwarded to the model backend when OLLAMA_API_KEY is unset.
	DefaultAPIKey = "local"
	// DefaultWalletPath is where the wallet generator writes new key material.
	DefaultWalletPath = "devnet-wallet.json"
)

// App captures process-wide runtime settings such as name, environment, metrics, and logging levels.
type App struct {
	Name        string `yaml:"name"`
	Env         string `yaml:"env"`
	MetricsAddr string `yaml:"metrics_addr"`
	LogLevel    string `yaml:"log_level"`
}

// Agent holds the values the bootstrapper needs to build a signing agent.
type Agent struct {
	PrivateKey  string `yaml:"private_key"`  // base58 secret key
	KeypairPath string `yaml:"keypair_path"` // JSON byte array, used when PrivateKey is empty
	RPCURL      string `yaml:"rpc_url"`
	APIKey      string `yaml:"api_key"`
}

// Trade encodes guard-rails and bookkeeping for swaps.
type Trade struct {
	MaxAmountPerTrade float64 `yaml:"max_amount_per_trade"` // whole SOL units, 0 disables (default)
	JournalPath       string  `yaml:"journal_path"`
	Confirm           bool    `yaml:"confirm"`
}

// LLM points the analysis helper at an OpenAI-compatible endpoint.
type LLM struct {
	BaseURL string `yaml:"base_url"`
	Model   string `yaml:"model"`
}

// Config collects every configuration leaf for easy marshaling from YAML.
type Config struct {
	App    App    `yaml:"app"`
	Agent  Agent  `yaml:"agent"`
	Dex    Dex    `yaml:"dex"`
	Trade  Trade  `yaml:"trade"`
	LLM    LLM    `yaml:"llm"`
	Wallet Wallet `yaml:"wallet"`
	Scan   Scan   `yaml:"scan"`
}

// Default returns a Config with every optional value filled in.
func Default() *Config {
	return &Config{
		App: App{
			Name:     "solagent",
			Env:      "devnet",
			LogLevel: "info",
		},
		Agent: Agent{
			RPCURL: DefaultRPCURL,
			APIKey: DefaultAPIKey,
		},
		Dex: Dex{
			Commitment:      "confirmed",
			JupiterBase:     "https://quote-api.jup.ag",
			TokensBase:      "https://tokens.jup.ag",
			DexScreenerBase: "https://api.dexscreener.com",
		},
		LLM: LLM{
			BaseURL: "http://localhost:11434/v1",
			Model:   "llama3.1",
		},
		Wallet: Wallet{
			OutputPath: DefaultWalletPath,
		},
		Scan: Scan{
			Keywords:        []string{"raydium solana"},
			Chains:          []string{"solana"},
			MaxPairs:        20,
			RefreshInterval: 180_000,
			MinLiquidityUSD: 10_000,
			MaxFDVUSD:       5_000_000,
			MinAgeMinutes:   5,
			MaxAgeMinutes:   60,
			MinTrades5m:     10,
			MinVolumeUSD1h:  5_000,
		},
	}
}

// Load reads a YAML file from disk and hydrates a Config struct on top of the defaults.
func Load(path string) (*Config, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open config: %w", err)
	}
	defer file.Close()

	config := Default()
	if err := yaml.NewDecoder(file).Decode(config); err != nil {
		return nil, fmt.Errorf("decode yaml: %w", err)
	}
	return config, nil
}

// Save persists a Config struct to disk as YAML.
func Save(path string, cfg *Config) error {
	if cfg == nil {
		return fmt.Errorf("nil config")
	}
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("marshal yaml: %w", err)
	}
	if err := os.WriteFile(path, data, 0o600); err != nil {
		return fmt.Errorf("write config: %w", err)
	}
	return nil
}
