package market

import (
	"context"
	"errors"
	"fmt"
	"math"
	"net/url"
	"sort"
	"strings"
	"time"

	"solagent-go/internal/config"
)

// Listing is one DexScreener pair reduced to the fields the scout filters and scores on.
type Listing struct {
	Name         string    `json:"name"`
	Symbol       string    `json:"symbol"`
	Chain        string    `json:"chain"`
	Address      string    `json:"address"`
	PairAddress  string    `json:"pairAddress"`
	DexID        string    `json:"dexId"`
	PriceUSD     float64   `json:"priceUsd"`
	LiquidityUSD float64   `json:"liquidityUsd"`
	FDVUSD       float64   `json:"fdvUsd"`
	VolumeUSD1h  float64   `json:"volumeUsd1h"`
	VolumeUSD24h float64   `json:"volumeUsd24h"`
	Buys5m       int       `json:"buys5m"`
	Sells5m      int       `json:"sells5m"`
	CreatedAt    time.Time `json:"createdAt"`
	AgeMinutes   int       `json:"ageMinutes"`
	Score        float64   `json:"score"`
}

// Trades5m is the buy plus sell count over the last five minutes.
func (l Listing) Trades5m() int { return l.Buys5m + l.Sells5m }

// Age is zero for pairs DexScreener reports without a creation time.
func (l Listing) Age(now time.Time) time.Duration {
	if l.CreatedAt.IsZero() || now.Before(l.CreatedAt) {
		return 0
	}
	return now.Sub(l.CreatedAt)
}

// Search runs /latest/dex/search for one keyword.
func (c *Client) Search(ctx context.Context, keyword string) ([]Listing, error) {
	endpoint := fmt.Sprintf("%s/latest/dex/search?q=%s", c.Base, url.QueryEscape(keyword))
	payload, err := c.get(ctx, endpoint)
	if err != nil {
		return nil, err
	}
	out := make([]Listing, 0, len(payload.Pairs))
	for _, pair := range payload.Pairs {
		out = append(out, listingFromPair(pair))
	}
	return out, nil
}

// Scan searches every configured keyword, then filters, scores and truncates the union.
// It fails only when every search fails.
func (c *Client) Scan(ctx context.Context, cfg config.Scan) ([]Listing, error) {
	var (
		all  []Listing
		errs []error
		seen = make(map[string]struct{})
	)
	for _, keyword := range cfg.Keywords {
		found, err := c.Search(ctx, keyword)
		if err != nil {
			errs = append(errs, fmt.Errorf("search %q: %w", keyword, err))
			continue
		}
		for _, l := range found {
			if l.PairAddress == "" {
				continue
			}
			if _, ok := seen[l.PairAddress]; ok {
				continue
			}
			seen[l.PairAddress] = struct{}{}
			all = append(all, l)
		}
	}
	if len(errs) > 0 && len(errs) == len(cfg.Keywords) {
		return nil, errors.Join(errs...)
	}

	scored := Score(Filter(all, cfg, time.Now()), cfg)
	if cfg.MaxPairs > 0 && len(scored) > cfg.MaxPairs {
		scored = scored[:cfg.MaxPairs]
	}
	return scored, nil
}

// Filter keeps the listings that clear every threshold in cfg and stamps their age.
func Filter(listings []Listing, cfg config.Scan, now time.Time) []Listing {
	chains := make(map[string]struct{}, len(cfg.Chains))
	for _, chain := range cfg.Chains {
		if chain = strings.ToLower(strings.TrimSpace(chain)); chain != "" {
			chains[chain] = struct{}{}
		}
	}

	passed := make([]Listing, 0, len(listings))
	for _, l := range listings {
		if len(chains) > 0 {
			if _, ok := chains[strings.ToLower(l.Chain)]; !ok {
				continue
			}
		}
		if l.LiquidityUSD < cfg.MinLiquidityUSD {
			continue
		}
		if cfg.MaxFDVUSD > 0 && l.FDVUSD > cfg.MaxFDVUSD {
			continue
		}
		age := int(l.Age(now) / time.Minute)
		if age < cfg.MinAgeMinutes {
			continue
		}
		if cfg.MaxAgeMinutes > 0 && age > cfg.MaxAgeMinutes {
			continue
		}
		if l.Trades5m() < cfg.MinTrades5m {
			continue
		}
		if l.VolumeUSD1h < cfg.MinVolumeUSD1h {
			continue
		}
		l.AgeMinutes = age
		passed = append(passed, l)
	}
	return passed
}

// Score rates each listing out of 100 and returns them best first.
// Liquidity and 1h volume weigh 0.3 each, 5m trade count and 5m buy share 0.2 each;
// the first three saturate once they reach their configured minimum.
func Score(listings []Listing, cfg config.Scan) []Listing {
	out := make([]Listing, len(listings))
	for i, l := range listings {
		total := 0.3*ratio(l.LiquidityUSD, cfg.MinLiquidityUSD) +
			0.3*ratio(l.VolumeUSD1h, cfg.MinVolumeUSD1h) +
			0.2*ratio(float64(l.Trades5m()), float64(cfg.MinTrades5m)) +
			0.2*buyShare(l)
		l.Score = math.Round(total*100*100) / 100
		out[i] = l
	}
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].Score != out[j].Score {
			return out[i].Score > out[j].Score
		}
		return out[i].LiquidityUSD > out[j].LiquidityUSD
	})
	return out
}

func ratio(v, floor float64) float64 {
	return math.Min(1, v/math.Max(floor, 1))
}

func buyShare(l Listing) float64 {
	trades := l.Trades5m()
	if trades == 0 {
		return 0
	}
	return float64(l.Buys5m) / float64(trades)
}

func listingFromPair(p dexscreenerPair) Listing {
	l := Listing{
		Name:         p.BaseToken.Name,
		Symbol:       p.BaseToken.Symbol,
		Chain:        strings.ToLower(p.ChainID),
		Address:      p.BaseToken.Address,
		PairAddress:  p.PairAddress,
		DexID:        p.DexID,
		PriceUSD:     parsePrice(p.PriceUsd),
		LiquidityUSD: p.Liquidity.USD,
		FDVUSD:       p.Fdv,
		VolumeUSD1h:  p.Volume.H1,
		VolumeUSD24h: p.Volume.H24,
		Buys5m:       p.Txns.M5.Buys,
		Sells5m:      p.Txns.M5.Sells,
	}
	if l.Symbol == "" {
		l.Symbol = "?"
	}
	if p.CreatedAtMs > 0 {
		l.CreatedAt = time.UnixMilli(p.CreatedAtMs).UTC()
	}
	return l
}
