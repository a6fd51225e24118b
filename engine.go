package reactive

import (
	"context"
	"io"

	"github.com/AnatoleLucet/reactive/internal"
	"github.com/AnatoleLucet/reactive/internal/config"
	rxerrors "github.com/AnatoleLucet/reactive/internal/errors"
	"github.com/AnatoleLucet/reactive/internal/logger"
	"github.com/prometheus/client_golang/prometheus"
	"go.opentelemetry.io/otel/trace"
)

type (
	Config = config.Config
	Logger = logger.Logger

	ReadonlyError       = rxerrors.ReadonlyError
	RecursionLimitError = rxerrors.RecursionLimitError
	ConfigError         = rxerrors.ConfigError
	ValidationError     = rxerrors.ValidationError
)

// DefaultConfig returns the settings engines use when none are given.
func DefaultConfig() Config { return config.Default() }

// LoadConfig reads a YAML config file.
func LoadConfig(path string) (Config, error) { return config.Load(path) }

// ParseConfig decodes a YAML config document.
func ParseConfig(document []byte) (Config, error) { return config.Parse(document) }

// NewLogger builds a leveled logger writing text or json records to w.
func NewLogger(level, format string, w io.Writer) Logger { return logger.New(level, format, w) }

// Engine is an independent reactive runtime: its own dependency store,
// wrapper caches and job queue. Each goroutine gets a default engine on first
// use; Run binds another one for the duration of a call.
type Engine struct {
	rt *internal.Runtime
}

type Option func(*internal.Options)

func WithConfig(cfg Config) Option {
	return func(o *internal.Options) { o.Config = cfg }
}

func WithLogger(l Logger) Option {
	return func(o *internal.Options) { o.Logger = l }
}

func WithTracerProvider(tp trace.TracerProvider) Option {
	return func(o *internal.Options) { o.TracerProvider = tp }
}

// WithDiagnostics receives read-only violations and recursion limit errors.
func WithDiagnostics(fn func(error)) Option {
	return func(o *internal.Options) { o.Diagnostics = fn }
}

func WithRecursionLimit(n int) Option {
	return func(o *internal.Options) { o.Config.Scheduler.RecursionLimit = n }
}

func NewEngine(opts ...Option) *Engine {
	o := internal.DefaultOptions()
	for _, opt := range opts {
		opt(&o)
	}

	return &Engine{internal.NewRuntime(o)}
}

// Current returns the engine bound to the calling goroutine, creating the
// goroutine's default engine on first use.
func Current() *Engine {
	return &Engine{internal.GetRuntime()}
}

// Reset drops the calling goroutine's engine. The next call starts a fresh one.
//
// Default engines outlive the goroutines that created them. A short-lived
// goroutine using the package-level API should defer Reset, or run its work
// through Engine.Run instead.
func Reset() {
	internal.ReleaseRuntime()
}

// Run binds the engine to the calling goroutine and runs fn as one batch.
// The previous binding is restored afterwards.
func (e *Engine) Run(fn func()) {
	restore := internal.BindRuntime(e.rt)
	defer restore()

	e.rt.NewBatch(fn)
}

// Flush runs every job queued on this engine.
func (e *Engine) Flush() {
	e.rt.Flush()
}

// FlushContext is Flush with a parent context for the flush span.
func (e *Engine) FlushContext(ctx context.Context) {
	e.rt.FlushContext(ctx)
}

func (e *Engine) Config() Config {
	return e.rt.Config()
}

func (e *Engine) Logger() Logger {
	return e.rt.Logger()
}

// Registry exposes the engine's metrics.
func (e *Engine) Registry() *prometheus.Registry {
	return e.rt.Registry()
}

// StoreSize returns the number of live targets the engine tracks dependencies for.
func (e *Engine) StoreSize() int {
	return e.rt.StoreSize()
}
