// Package cli wires configuration, logging and the agent into cobra commands.
package cli

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	ossignal "os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"solagent-go/internal/agent"
	"solagent-go/internal/config"
	"solagent-go/internal/journal"
	"solagent-go/internal/market"
	"solagent-go/internal/metrics"
	"solagent-go/internal/risk"
	"solagent-go/internal/util"
	"solagent-go/internal/walletgen"
)

// errReported marks failures the agent already logged; Run only sets the exit code.
var errReported = errors.New("operation failed")

type Runner struct {
	stdout io.Writer
	stderr io.Writer
	lookup config.LookupFunc
	// extra options appended when the agent is built, used to inject fakes
	agentOpts []agent.Option
}

func NewRunner() *Runner {
	return NewRunnerWithWriters(os.Stdout, os.Stderr)
}

func NewRunnerWithWriters(stdout, stderr io.Writer) *Runner {
	return &Runner{stdout: stdout, stderr: stderr, lookup: os.LookupEnv}
}

type globalFlags struct {
	configPath  string
	envFile     string
	logLevel    string
	metricsAddr string
	logJSON     bool
	timeout     time.Duration
}

type runtimeState struct {
	runner  *Runner
	flags   globalFlags
	cfg     *config.Config
	log     zerolog.Logger
	metrics interface{ Close() error }
}

// Run executes the agent command tree and returns the process exit code.
func (r *Runner) Run(args []string) int {
	state := &runtimeState{runner: r}
	root := state.newRootCommand()
	root.SetArgs(args)
	root.SetOut(r.stdout)
	root.SetErr(r.stderr)
	root.SilenceUsage = true
	root.SilenceErrors = true

	err := root.Execute()
	if state.metrics != nil {
		_ = state.metrics.Close()
	}
	if err == nil {
		return 0
	}
	if !errors.Is(err, errReported) {
		fmt.Fprintf(r.stderr, "error: %v\n", err)
	}
	return 1
}

func (s *runtimeState) newRootCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "agent",
		Short: "Devnet trading agent: token info, swaps into wrapped SOL, new-listing scout",
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return s.setup()
		},
	}
	pf := cmd.PersistentFlags()
	pf.StringVar(&s.flags.configPath, "config", "", "optional YAML config file")
	pf.StringVar(&s.flags.envFile, "env-file", ".env", "dotenv file loaded before reading the environment")
	pf.StringVar(&s.flags.logLevel, "log-level", "", "log level override")
	pf.StringVar(&s.flags.metricsAddr, "metrics-addr", "", "serve prometheus metrics on this address")
	pf.BoolVar(&s.flags.logJSON, "log-json", false, "emit JSON log lines instead of [TAG] console lines")
	pf.DurationVar(&s.flags.timeout, "timeout", 30*time.Second, "deadline for network calls")

	cmd.AddCommand(s.newWhoamiCommand(), s.newTradeCommand(), s.newInfoCommand(), s.newAnalyzeCommand(), s.newScanCommand(), s.newWalletCommand())
	return cmd
}

func (s *runtimeState) setup() error {
	if s.flags.envFile != "" {
		config.LoadDotEnv(s.flags.envFile)
	}
	cfg := config.Default()
	if s.flags.configPath != "" {
		loaded, err := config.Load(s.flags.configPath)
		if err != nil {
			return err
		}
		cfg = loaded
	}
	config.ApplyEnv(cfg, s.runner.lookup)
	if s.flags.logLevel != "" {
		cfg.App.LogLevel = s.flags.logLevel
	}
	if s.flags.metricsAddr != "" {
		cfg.App.MetricsAddr = s.flags.metricsAddr
	}
	s.cfg = cfg
	if s.flags.logJSON {
		s.log = util.NewLogger(cfg.App.LogLevel)
	} else {
		s.log = util.NewConsoleLogger(s.runner.stdout, cfg.App.LogLevel)
	}

	if cfg.App.MetricsAddr != "" {
		s.metrics = metrics.Serve(cfg.App.MetricsAddr, util.Tagged(s.log, "METRICS"))
		s.log.Debug().Str(util.TagField, "METRICS").Str("addr", cfg.App.MetricsAddr).Msg("metrics up")
	}
	return nil
}

// callContext returns a context cancelled on SIGINT/SIGTERM or after --timeout.
func (s *runtimeState) callContext() (context.Context, context.CancelFunc) {
	ctx, stop := ossignal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	if s.flags.timeout <= 0 {
		return ctx, stop
	}
	ctx, cancel := context.WithTimeout(ctx, s.flags.timeout)
	return ctx, func() {
		cancel()
		stop()
	}
}

// buildAgent initializes the agent; the returned close func flushes the journal.
func (s *runtimeState) buildAgent() (*agent.Agent, func(), error) {
	opts := []agent.Option{
		agent.WithLogger(s.log),
		agent.WithDex(s.cfg.Dex),
		agent.WithLLM(s.cfg.LLM),
		agent.WithConfirm(s.cfg.Trade.Confirm),
		agent.WithLimits(risk.Limits{MaxAmountPerTrade: s.cfg.Trade.MaxAmountPerTrade}),
	}
	closer := func() {}
	if s.cfg.Trade.JournalPath != "" {
		rec, err := journal.NewJSONLRecorder(s.cfg.Trade.JournalPath)
		if err != nil {
			return nil, nil, fmt.Errorf("open journal: %w", err)
		}
		opts = append(opts, agent.WithJournal(rec))
		closer = func() { _ = rec.Close() }
	}
	opts = append(opts, s.runner.agentOpts...)

	a, err := agent.Initialize(s.cfg.Agent, opts...)
	if err != nil {
		closer()
		return nil, nil, fmt.Errorf("%w: %v", errReported, err)
	}
	return a, closer, nil
}

func (s *runtimeState) newWhoamiCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "whoami",
		Short: "Initialize the agent and print its wallet",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			_, closer, err := s.buildAgent()
			if err != nil {
				return err
			}
			closer()
			return nil
		},
	}
}

func (s *runtimeState) newTradeCommand() *cobra.Command {
	var amount float64
	cmd := &cobra.Command{
		Use:   "trade <token-mint>",
		Short: "Swap an amount of the token into wrapped SOL (300 bps slippage)",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, closer, err := s.buildAgent()
			if err != nil {
				return err
			}
			defer closer()
			ctx, cancel := s.callContext()
			defer cancel()

			if _, ok := a.Trade(ctx, args[0], amount).Get(); !ok {
				return errReported
			}
			return nil
		},
	}
	cmd.Flags().Float64Var(&amount, "amount", agent.DefaultTradeAmount,
		"amount in whole units (scaled by 10^9); rejected above trade.max_amount_per_trade / MAX_TRADE_AMOUNT when that cap is set")
	return cmd
}

func (s *runtimeState) newInfoCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "info <token-mint>",
		Short: "Print token metadata, supply and market snapshot as JSON",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, closer, err := s.buildAgent()
			if err != nil {
				return err
			}
			defer closer()
			ctx, cancel := s.callContext()
			defer cancel()

			info, ok := a.TokenInfo(ctx, args[0]).Get()
			if !ok {
				return errReported
			}
			enc := json.NewEncoder(cmd.OutOrStdout())
			enc.SetIndent("", "  ")
			return enc.Encode(info)
		},
	}
}

func (s *runtimeState) newAnalyzeCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "analyze <token-mint>",
		Short: "Ask the configured model for a risk assessment of the token",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, closer, err := s.buildAgent()
			if err != nil {
				return err
			}
			defer closer()
			ctx, cancel := s.callContext()
			defer cancel()

			text, ok := a.Analyze(ctx, args[0]).Get()
			if !ok {
				return errReported
			}
			fmt.Fprintln(cmd.OutOrStdout(), text)
			return nil
		},
	}
}

func (s *runtimeState) newScanCommand() *cobra.Command {
	var watch, asJSON bool
	cmd := &cobra.Command{
		Use:   "scan",
		Short: "Search DexScreener for new listings, filter them and rank the survivors",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if s.cfg.Dex.DexScreenerBase == "" {
				return fmt.Errorf("scan needs dex.dexscreener_base or %s", config.EnvDexScreenerBase)
			}
			client := market.NewClient(s.cfg.Dex.DexScreenerBase)
			if !watch {
				if !s.scanOnce(cmd.OutOrStdout(), client, asJSON) {
					return errReported
				}
				return nil
			}

			ctx, stop := ossignal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
			defer stop()
			interval := time.Duration(s.cfg.Scan.RefreshInterval) * time.Millisecond
			if interval <= 0 {
				interval = 3 * time.Minute
			}
			ticker := time.NewTicker(interval)
			defer ticker.Stop()
			for {
				// a failed round is already logged; the next tick retries
				s.scanOnce(cmd.OutOrStdout(), client, asJSON)
				select {
				case <-ctx.Done():
					return nil
				case <-ticker.C:
				}
			}
		},
	}
	cmd.Flags().BoolVar(&watch, "watch", false, "rescan every scan.refresh_interval_ms until interrupted")
	cmd.Flags().BoolVar(&asJSON, "json", false, "print the ranked listings as JSON")
	return cmd
}

// scanOnce runs one search/filter/score round and reports whether it succeeded.
func (s *runtimeState) scanOnce(w io.Writer, client *market.Client, asJSON bool) bool {
	log := util.Tagged(s.log, "SCAN")
	ctx, cancel := s.callContext()
	defer cancel()

	log.Debug().Strs("keywords", s.cfg.Scan.Keywords).Msg("Fetching new listings")
	listings, err := client.Scan(ctx, s.cfg.Scan)
	if err != nil {
		metrics.ScansTotal.WithLabelValues(metrics.OutcomeFailed).Inc()
		log.Error().Err(err).Msg("Failed")
		return false
	}
	metrics.ScansTotal.WithLabelValues(metrics.OutcomeSuccess).Inc()
	metrics.ScanCandidates.Set(float64(len(listings)))

	if asJSON {
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		if err := enc.Encode(listings); err != nil {
			log.Error().Err(err).Msg("Failed")
			return false
		}
		return true
	}
	if len(listings) == 0 {
		log.Info().Msg("No tokens passed filters this round")
		return true
	}
	log.Info().Msgf("Found %d candidates", len(listings))
	for _, l := range listings {
		fmt.Fprintf(w, "  - %s | score %.2f | liq $%.0f | vol 1h $%.0f | trades 5m %d | age %dm | %s\n",
			l.Symbol, l.Score, l.LiquidityUSD, l.VolumeUSD1h, l.Trades5m(), l.AgeMinutes, l.Address)
	}
	return true
}

func (s *runtimeState) newWalletCommand() *cobra.Command {
	var out string
	cmd := &cobra.Command{
		Use:   "new-wallet",
		Short: "Generate a devnet keypair and save it as a JSON byte array",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if out == "" {
				out = s.cfg.Wallet.OutputPath
			}
			_, err := walletgen.Generate(cmd.OutOrStdout(), out)
			return err
		},
	}
	cmd.Flags().StringVar(&out, "out", "", "output path (default wallet.output_path, devnet-wallet.json)")
	return cmd
}
