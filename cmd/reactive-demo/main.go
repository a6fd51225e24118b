package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/AnatoleLucet/reactive"
	"github.com/AnatoleLucet/reactive/internal/tracing"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/spf13/cobra"
)

// Version information set at build time.
var version = "dev"

type globalFlags struct {
	configPath   string
	logLevel     string
	logFormat    string
	metricsAddr  string
	otlpEndpoint string
	otlpInsecure bool
}

func main() {
	var flags globalFlags

	rootCmd := &cobra.Command{
		Use:   "reactive-demo",
		Short: "Walk through the reactive engine",
		Long: `reactive-demo runs small scenarios against the reactive engine and
prints what the effects observe.

Examples:
  reactive-demo effect
  reactive-demo watch --log-level debug
  reactive-demo array --metrics :9090
  reactive-demo config validate reactive.yaml`,
		Version:       version,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	pf := rootCmd.PersistentFlags()
	pf.StringVarP(&flags.configPath, "config", "c", "", "Path to a YAML engine config")
	pf.StringVar(&flags.logLevel, "log-level", "", "Override the configured log level")
	pf.StringVar(&flags.logFormat, "log-format", "", "Override the configured log format (text or json)")
	pf.StringVar(&flags.metricsAddr, "metrics", "", "Serve engine metrics on this address after the demo")
	pf.StringVar(&flags.otlpEndpoint, "otlp-endpoint", "", "Export flush spans to this OTLP/HTTP endpoint")
	pf.BoolVar(&flags.otlpInsecure, "otlp-insecure", true, "Disable TLS for the OTLP exporter")

	rootCmd.AddCommand(
		effectCmd(&flags),
		computedCmd(&flags),
		watchCmd(&flags),
		arrayCmd(&flags),
		configCmd(),
	)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %s\n", err)
		os.Exit(1)
	}
}

// session is one engine plus whatever has to be torn down with it.
type session struct {
	engine   *reactive.Engine
	flags    *globalFlags
	shutdown []func(context.Context) error
}

func newSession(ctx context.Context, flags *globalFlags) (*session, error) {
	cfg := reactive.DefaultConfig()
	if flags.configPath != "" {
		loaded, err := reactive.LoadConfig(flags.configPath)
		if err != nil {
			return nil, err
		}
		cfg = loaded
	}

	if flags.logLevel != "" {
		cfg.Log.Level = flags.logLevel
	}
	if flags.logFormat != "" {
		cfg.Log.Format = flags.logFormat
	}

	s := &session{flags: flags}
	opts := []reactive.Option{
		reactive.WithConfig(cfg),
		reactive.WithLogger(reactive.NewLogger(cfg.Log.Level, cfg.Log.Format, os.Stderr)),
	}

	if flags.otlpEndpoint != "" {
		tp, err := tracing.NewOTLPProvider(ctx, flags.otlpEndpoint, "reactive-demo", flags.otlpInsecure)
		if err != nil {
			return nil, err
		}
		s.shutdown = append(s.shutdown, tp.Shutdown)
		opts = append(opts, reactive.WithTracerProvider(tp))
	}

	s.engine = reactive.NewEngine(opts...)
	return s, nil
}

// run executes scenario on the session's engine, then optionally serves its
// metrics until ctx is done.
func (s *session) run(ctx context.Context, scenario func()) error {
	s.engine.Run(scenario)
	s.engine.FlushContext(ctx)

	if s.flags.metricsAddr != "" {
		if err := s.serveMetrics(ctx); err != nil {
			return err
		}
	}

	return s.close()
}

func (s *session) serveMetrics(ctx context.Context) error {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.HandlerFor(s.engine.Registry(), promhttp.HandlerOpts{}))

	srv := &http.Server{
		Addr:              s.flags.metricsAddr,
		Handler:           mux,
		ReadHeaderTimeout: 5 * time.Second,
	}

	errc := make(chan error, 1)
	go func() { errc <- srv.ListenAndServe() }()

	s.engine.Logger().Infof("serving metrics on %s/metrics", s.flags.metricsAddr)

	select {
	case err := <-errc:
		if !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("serve metrics: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}

func (s *session) close() error {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	var errs []error
	for _, fn := range s.shutdown {
		errs = append(errs, fn(ctx))
	}
	return errors.Join(errs...)
}
