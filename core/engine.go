package core

import (
	"context"
	"errors"
	"sync"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/driftlab/dch-digitizer/internal/logging"
	"github.com/driftlab/dch-digitizer/internal/observability"
	"github.com/driftlab/dch-digitizer/model"
)

// EngineConfig sizes the digitization engine.
type EngineConfig struct {
	// Workers is the number of event workers. Values below 1 mean 1.
	Workers int
	// Resolution configures each worker's Gaussian samplers.
	Resolution Resolution
	// DebugHistograms enables the diagnostic histograms.
	DebugHistograms bool
}

// Engine fans whole events out to a pool of workers. Each worker owns one
// EventRand, so no random state is ever shared; all geometry and table data
// is read-only by the time Run starts. Because every event's output depends
// only on its own data and seed, the digis are identical for any worker
// count; the engine only has to put them back in input order.
type Engine struct {
	digi    *Digitizer
	cfg     EngineConfig
	log     logging.Logger
	metrics *observability.DigiCollector
	tracer  trace.Tracer

	// Hists holds the merged debug histograms after Run, when enabled.
	Hists *DebugHists
}

// NewEngine builds an engine around a digitizer. metrics may be nil.
func NewEngine(digi *Digitizer, cfg EngineConfig, log logging.Logger, metrics *observability.DigiCollector) *Engine {
	if cfg.Workers < 1 {
		cfg.Workers = 1
	}
	if log == nil {
		log = logging.Noop()
	}
	return &Engine{
		digi:    digi,
		cfg:     cfg,
		log:     log,
		metrics: metrics,
		tracer:  otel.Tracer("digitizer/engine"),
	}
}

type engineJob struct {
	index int
	event model.SimEvent
}

type engineResult struct {
	index int
	out   model.DigiEvent
	err   error
}

// Run digitizes the events and returns the outputs in input order. Events
// that fail (undecodable cell ids) come back with an empty digi collection;
// their errors are joined into the returned error while the remaining
// events still process.
func (e *Engine) Run(ctx context.Context, events []model.SimEvent) ([]model.DigiEvent, error) {
	jobs := make(chan engineJob, e.cfg.Workers)
	results := make(chan engineResult, e.cfg.Workers)

	var wg sync.WaitGroup
	workerHists := make([]*DebugHists, e.cfg.Workers)
	for w := 0; w < e.cfg.Workers; w++ {
		var hists *DebugHists
		if e.cfg.DebugHistograms {
			hists = NewDebugHists()
			workerHists[w] = hists
		}
		wg.Add(1)
		go e.worker(ctx, jobs, results, hists, &wg)
	}

	go func() {
		for i, ev := range events {
			jobs <- engineJob{index: i, event: ev}
		}
		close(jobs)
	}()

	go func() {
		wg.Wait()
		close(results)
	}()

	out := make([]model.DigiEvent, len(events))
	var errs []error
	for res := range results {
		out[res.index] = res.out
		if res.err != nil {
			errs = append(errs, res.err)
		}
	}

	if e.cfg.DebugHistograms {
		merged := NewDebugHists()
		for _, h := range workerHists {
			merged.Merge(h)
		}
		e.Hists = merged
	}

	return out, errors.Join(errs...)
}

func (e *Engine) worker(ctx context.Context, jobs <-chan engineJob, results chan<- engineResult, hists *DebugHists, wg *sync.WaitGroup) {
	defer wg.Done()

	rng := NewEventRand(e.cfg.Resolution)
	for job := range jobs {
		spanCtx, span := e.tracer.Start(ctx, "digitize_event",
			trace.WithAttributes(
				attribute.Int64("run", int64(job.event.Header.RunNumber)),
				attribute.Int64("event", int64(job.event.Header.EventNumber)),
				attribute.Int("hits", len(job.event.Hits)),
			),
		)

		start := time.Now()
		out, err := e.digi.DigitizeEvent(spanCtx, job.event, rng, hists)
		elapsed := time.Since(start)

		if err != nil {
			span.RecordError(err)
			e.log.Error(spanCtx, "event digitization failed",
				logging.Int("event", int(job.event.Header.EventNumber)),
				logging.Any("error", err),
			)
			e.metrics.ObserveEventFailed()
		} else {
			e.metrics.ObserveEvent(len(out.Digis), elapsed)
			for _, digi := range out.Digis {
				e.metrics.ObserveDriftDistance(digi.DriftDistance)
			}
		}
		span.End()

		results <- engineResult{index: job.index, out: out, err: err}
	}
}
