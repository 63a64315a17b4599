package metrics

import (
	"net"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/rs/zerolog"
)

// lineWriter hands each log line to a channel so the test can wait on the server goroutine.
type lineWriter chan string

func (w lineWriter) Write(p []byte) (int, error) {
	w <- string(p)
	return len(p), nil
}

func TestServeRegistersMetrics(t *testing.T) {
	srv := Serve("127.0.0.1:0", zerolog.Nop())
	defer srv.Close()

	TradesTotal.WithLabelValues(OutcomeSuccess).Inc()
	ScansTotal.WithLabelValues(OutcomeSuccess).Inc()
	WalletsGenerated.Inc()

	mfs, err := prometheus.DefaultGatherer.Gather()
	if err != nil {
		t.Fatalf("failed to gather metrics: %v", err)
	}
	want := map[string]bool{"agent_trades_total": false, "scout_scans_total": false, "wallets_generated_total": false}
	for _, mf := range mfs {
		if _, ok := want[mf.GetName()]; ok {
			want[mf.GetName()] = true
		}
	}
	for name, found := range want {
		if !found {
			t.Fatalf("%s metric not found", name)
		}
	}
}

func TestServeLogsListenFailure(t *testing.T) {
	busy, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		t.Fatalf("listen: %v", err)
	}
	defer busy.Close()

	lines := make(lineWriter, 1)
	srv := Serve(busy.Addr().String(), zerolog.New(lines))
	defer srv.Close()

	select {
	case line := <-lines:
		if !strings.Contains(line, "metrics server stopped") || !strings.Contains(line, busy.Addr().String()) {
			t.Fatalf("unexpected log line %q", line)
		}
	case <-time.After(2 * time.Second):
		t.Fatalf("expected the bind failure to be logged")
	}
}
