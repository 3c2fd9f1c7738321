package cli

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/spf13/cobra"

	"github.com/signalsfoundry/orbit-simulator/catalog"
	"github.com/signalsfoundry/orbit-simulator/internal/logging"
	"github.com/signalsfoundry/orbit-simulator/internal/observability"
	"github.com/signalsfoundry/orbit-simulator/sim"
	"github.com/signalsfoundry/orbit-simulator/turnctrl"
)

type runOptions struct {
	demo        bool
	turns       int64
	interval    time.Duration
	metricsAddr string
}

func newRunCommand() *cobra.Command {
	opts := &runOptions{}

	cmd := &cobra.Command{
		Use:   "run [scenario]",
		Short: "Run a simulation over a scenario file (or the embedded demo)",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runSimulation(cmd, args, opts)
		},
	}

	cmd.Flags().BoolVar(&opts.demo, "demo", false, "Use the embedded demo scenario")
	cmd.Flags().Int64Var(&opts.turns, "turns", 200, "Number of turns to simulate")
	cmd.Flags().DurationVar(&opts.interval, "interval", 0, "Wall-clock pacing between turns (0 runs as fast as possible)")
	cmd.Flags().StringVar(&opts.metricsAddr, "metrics-addr", "", "HTTP address for Prometheus /metrics (empty disables)")

	return cmd
}

func runSimulation(cmd *cobra.Command, args []string, opts *runOptions) error {
	ctx, log := logging.WithRunLogger(cmd.Context(), logging.LoggerFromContext(cmd.Context()))

	tracingCfg, err := observability.TracingConfigFromEnv()
	if err != nil {
		return err
	}
	shutdownTracing, err := observability.InitTracing(ctx, tracingCfg, log)
	if err != nil {
		return fmt.Errorf("init tracing: %w", err)
	}
	defer observability.ShutdownWithTimeout(context.Background(), shutdownTracing, log)

	collector, err := observability.NewSimCollector(nil)
	if err != nil {
		return fmt.Errorf("init metrics: %w", err)
	}
	metricsSrv := serveMetrics(opts.metricsAddr, collector, log)
	defer func() {
		if metricsSrv != nil {
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			_ = metricsSrv.Shutdown(shutdownCtx)
		}
	}()

	cat := catalog.NewCatalog(
		catalog.WithLogger(log),
		catalog.WithMetricsRecorder(collector),
	)
	report, err := loadInto(cat, args, opts.demo)
	if err != nil {
		return err
	}
	for _, findings := range report.Findings {
		collector.CountValidationFindings(findings)
	}
	log.Info(ctx, "scenario loaded",
		logging.String("scenario", report.Scenario),
		logging.Int("bodies", len(report.BodyIDs)),
		logging.Int("invalid_bodies", len(report.Findings)),
	)

	engine := sim.NewEngine(cat,
		sim.WithLogger(log),
		sim.WithMetricsRecorder(collector),
	)
	engine.RegisterTurnListener(func(turn int64, positions []sim.BodyPosition) {
		for _, bp := range positions {
			log.Debug(ctx, "position",
				logging.Int64("turn", turn),
				logging.String("body", bp.Name),
				logging.Any("x", bp.Pos.X),
				logging.Any("y", bp.Pos.Y),
			)
		}
	})

	start := time.Now()
	var executed int64
	if opts.interval > 0 {
		executed = runPaced(ctx, engine, opts.turns, opts.interval)
	} else {
		executed = engine.Run(ctx, opts.turns)
	}

	log.Info(ctx, "simulation complete",
		logging.Int64("turns", executed),
		logging.String("elapsed", time.Since(start).String()),
	)
	return nil
}

// runPaced drives the engine through a TurnController so turns advance on
// a wall-clock interval rather than back to back.
func runPaced(ctx context.Context, engine *sim.Engine, turns int64, interval time.Duration) int64 {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	var executed int64
	controller := turnctrl.NewTurnController(interval, func() {
		engine.Step(ctx)
		executed++
		if executed >= turns {
			cancel()
		}
	})
	<-controller.Start(ctx)
	return executed
}

func loadInto(cat *catalog.Catalog, args []string, demo bool) (*catalog.Report, error) {
	if demo || len(args) == 0 {
		return catalog.LoadScenario(cat, []byte(demoScenario), catalog.FormatJSON)
	}
	return catalog.LoadScenarioFile(cat, args[0])
}

func serveMetrics(addr string, collector *observability.SimCollector, log logging.Logger) *http.Server {
	if addr == "" || collector == nil {
		return nil
	}
	mux := http.NewServeMux()
	mux.Handle("/metrics", collector.Handler())

	srv := &http.Server{
		Addr:    addr,
		Handler: mux,
	}

	go func() {
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Warn(context.Background(), "metrics server exited", logging.String("error", err.Error()))
		}
	}()

	log.Info(context.Background(), "serving Prometheus metrics", logging.String("addr", addr))
	return srv
}
