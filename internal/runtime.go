package internal

import (
	"context"
	"log/slog"
	"os"

	"github.com/AnatoleLucet/reactive/internal/config"
	rxerrors "github.com/AnatoleLucet/reactive/internal/errors"
	"github.com/AnatoleLucet/reactive/internal/logger"
	"github.com/AnatoleLucet/reactive/internal/metrics"
	"github.com/AnatoleLucet/reactive/internal/tracing"
	"github.com/prometheus/client_golang/prometheus"
	"go.opentelemetry.io/otel/trace"
)

type Options struct {
	Config config.Config

	// Logger overrides the logger built from Config.Log.
	Logger logger.Logger

	// TracerProvider overrides the global provider when tracing is enabled.
	TracerProvider trace.TracerProvider

	// Diagnostics receives every reported engine error.
	Diagnostics func(error)
}

func DefaultOptions() Options {
	return Options{Config: config.Default()}
}

// Runtime is one engine instance: its dependency store, wrapper caches,
// effect stack, batch depth and job queue. A Runtime is not safe for
// concurrent use; it belongs to the goroutine that drives it.
type Runtime struct {
	store   *store
	tracker *Tracker
	batcher *Batcher
	queue   *JobQueue

	cfg         config.Config
	log         logger.Logger
	metrics     *metrics.Collector
	tracer      *tracing.Tracer
	diagnostics func(error)
}

func NewRuntime(opts Options) *Runtime {
	cfg := opts.Config
	if cfg.Scheduler.RecursionLimit <= 0 {
		cfg.Scheduler.RecursionLimit = config.DefaultRecursionLimit
	}

	log := opts.Logger
	if log == nil {
		log = logger.New(cfg.Log.Level, cfg.Log.Format, os.Stderr)
	}

	m := metrics.New(cfg.Metrics.Enabled)

	r := &Runtime{
		store:   newStore(log, m),
		tracker: NewTracker(),
		queue:   NewJobQueue(),

		cfg:         cfg,
		log:         log,
		metrics:     m,
		tracer:      tracing.New(opts.TracerProvider, cfg.Tracing.Enabled),
		diagnostics: opts.Diagnostics,
	}
	r.batcher = NewBatcher(r.Flush)

	return r
}

func (r *Runtime) Config() config.Config {
	return r.cfg
}

func (r *Runtime) Logger() logger.Logger {
	return r.log
}

func (r *Runtime) Registry() *prometheus.Registry {
	return r.metrics.Registry()
}

// StoreSize returns the number of targets currently holding a dependency entry.
func (r *Runtime) StoreSize() int {
	return r.store.size()
}

func (r *Runtime) Untrack(fn func()) {
	r.tracker.RunUntracked(fn)
}

func (r *Runtime) IsBatching() bool {
	return r.batcher.IsBatching()
}

// QueueJob schedules job for the current flush. Outside a batch and outside
// a flush, the queue is drained right away.
func (r *Runtime) QueueJob(job *Job) {
	if r.queue.Enqueue(job) {
		r.log.Debugf("queue: job '%s' scheduled", job.name)
	}
	r.flushUnlessBatching()
}

func (r *Runtime) QueuePostFlush(job *Job) {
	if r.queue.EnqueuePost(job) {
		r.log.Debugf("queue: post-flush job '%s' scheduled", job.name)
	}
	r.flushUnlessBatching()
}

func (r *Runtime) flushUnlessBatching() {
	if !r.batcher.IsBatching() {
		r.Flush()
	}
}

func (r *Runtime) Flush() {
	r.FlushContext(context.Background())
}

// FlushContext runs queued jobs until both lanes are empty, including jobs
// queued by the jobs themselves. A job that runs more than the recursion
// limit within one flush is dropped and reported.
func (r *Runtime) FlushContext(ctx context.Context) {
	if r.queue.flushing || r.queue.Len() == 0 {
		return
	}

	r.queue.flushing = true
	defer func() { r.queue.flushing = false }()

	ctx, span := r.tracer.StartFlush(ctx, r.queue.Len())

	var (
		ran  int
		err  error
		runs = make(map[*Job]int)
	)
	defer func() { tracing.EndFlush(span, ran, err) }()

	for {
		job, ok := r.queue.next()
		if !ok {
			break
		}

		runs[job]++
		if limit := r.cfg.Scheduler.RecursionLimit; runs[job] > limit {
			err = rxerrors.NewRecursionLimitError(job.name, limit)
			r.metrics.RecursionLimitHits.Inc()
			r.report(ctx, slog.LevelError, err)
			continue
		}

		job.Run()
		ran++
		r.metrics.JobsRun.Inc()
	}

	r.metrics.Flushes.Inc()
	r.log.LogCtx(ctx, slog.LevelDebug, "queue flushed", "jobs", ran)
}

func (r *Runtime) readonlyViolation(op string, key any) {
	r.metrics.ReadonlyViolations.Inc()

	err := rxerrors.NewReadonlyError(op, key)
	if r.cfg.Diagnostics.ReadonlyWarnings {
		r.report(context.Background(), slog.LevelWarn, err)
	} else if r.diagnostics != nil {
		r.diagnostics(err)
	}
}

func (r *Runtime) report(ctx context.Context, level slog.Level, err error) {
	r.log.LogCtx(ctx, level, err.Error())

	if r.diagnostics != nil {
		r.diagnostics(err)
	}
}

func (r *Runtime) OnCleanup(fn func()) {
	if o := r.tracker.CurrentOwner(); o != nil {
		o.OnCleanup(fn)
	}
}
