package metrics

import (
	"errors"
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"
)

// Outcome label values.
const (
	OutcomeSuccess  = "success"
	OutcomeRejected = "rejected"
	OutcomeFailed   = "failed"
)

var (
	TradesTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{Name: "agent_trades_total", Help: "Swaps attempted by outcome"},
		[]string{"outcome"},
	)
	TokenInfoTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{Name: "agent_token_info_total", Help: "Token info lookups by outcome"},
		[]string{"outcome"},
	)
	AnalysesTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{Name: "agent_analyses_total", Help: "LLM token analyses by outcome"},
		[]string{"outcome"},
	)
	ScansTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{Name: "scout_scans_total", Help: "New-listing scans by outcome"},
		[]string{"outcome"},
	)
	ScanCandidates = prometheus.NewGauge(
		prometheus.GaugeOpts{Name: "scout_candidates", Help: "Listings that passed the filters in the last scan"},
	)
	WalletsGenerated = prometheus.NewCounter(
		prometheus.CounterOpts{Name: "wallets_generated_total", Help: "Keypairs written by the generator"},
	)
)

func init() {
	prometheus.MustRegister(TradesTotal, TokenInfoTotal, AnalysesTotal, ScansTotal, ScanCandidates, WalletsGenerated)
}

// Serve exposes /metrics on addr in the background. Listen failures are logged, not returned.
func Serve(addr string, log zerolog.Logger) *http.Server {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.Handler())
	srv := &http.Server{Addr: addr, Handler: mux}
	go func() {
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error().Err(err).Str("addr", addr).Msg("metrics server stopped")
		}
	}()
	return srv
}
