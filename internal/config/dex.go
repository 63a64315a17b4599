// Package config also contains DEX-specific configuration surfaces.
package config

// Dex defines network endpoints and defaults for decentralized execution.
type Dex struct {
	Commitment      string `yaml:"commitment"`       // processed|confirmed|finalized
	JupiterBase     string `yaml:"jupiter_base"`     // https://quote-api.jup.ag
	TokensBase      string `yaml:"tokens_base"`      // https://tokens.jup.ag
	DexScreenerBase string `yaml:"dexscreener_base"` // empty disables market snapshots
}

// Wallet configures the keypair generator.
type Wallet struct {
	OutputPath string `yaml:"output_path"`
}
