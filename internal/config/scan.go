package config

// Scan configures the new-listing scout: DexScreener search keywords plus the
// thresholds a pair must clear before it is scored.
type Scan struct {
	Keywords        []string `yaml:"keywords"`
	Chains          []string `yaml:"chains"`
	MaxPairs        int      `yaml:"max_pairs"`
	RefreshInterval int      `yaml:"refresh_interval_ms"`
	MinLiquidityUSD float64  `yaml:"min_liquidity_usd"`
	MaxFDVUSD       float64  `yaml:"max_fdv_usd"`     // 0 disables
	MinAgeMinutes   int      `yaml:"min_age_minutes"` // pairs without a creation time count as age 0
	MaxAgeMinutes   int      `yaml:"max_age_minutes"` // 0 disables
	MinTrades5m     int      `yaml:"min_trades_5m"`
	MinVolumeUSD1h  float64  `yaml:"min_volume_usd_1h"`
}
