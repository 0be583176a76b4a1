package observability

import (
	"fmt"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// DigiCollector bundles the Prometheus metrics of the digitization pipeline.
// All observe methods are safe on a nil receiver so library code can record
// unconditionally whether or not metrics were wired.
type DigiCollector struct {
	gatherer prometheus.Gatherer

	EventsDigitized prometheus.Counter
	EventsFailed    prometheus.Counter
	HitsDigitized   prometheus.Counter

	EventDuration prometheus.Histogram
	DriftDistance prometheus.Histogram
}

// NewDigiCollector registers digitization metrics against the provided
// registerer, defaulting to the global Prometheus registry when nil.
func NewDigiCollector(reg prometheus.Registerer) (*DigiCollector, error) {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	gatherer := prometheus.DefaultGatherer
	if g, ok := reg.(prometheus.Gatherer); ok {
		gatherer = g
	}

	eventsDigitized, err := registerCounter(reg, prometheus.NewCounter(prometheus.CounterOpts{
		Name: "digi_events_total",
		Help: "Total number of events digitized successfully.",
	}), "digi_events_total")
	if err != nil {
		return nil, err
	}
	eventsFailed, err := registerCounter(reg, prometheus.NewCounter(prometheus.CounterOpts{
		Name: "digi_events_failed_total",
		Help: "Total number of events aborted by decode failures.",
	}), "digi_events_failed_total")
	if err != nil {
		return nil, err
	}
	hitsDigitized, err := registerCounter(reg, prometheus.NewCounter(prometheus.CounterOpts{
		Name: "digi_hits_total",
		Help: "Total number of simulated hits converted into digis.",
	}), "digi_hits_total")
	if err != nil {
		return nil, err
	}

	eventDuration, err := registerHistogram(reg, prometheus.NewHistogram(prometheus.HistogramOpts{
		Name:    "digi_event_duration_seconds",
		Help:    "Wall-clock time spent digitizing one event.",
		Buckets: []float64{0.0001, 0.00025, 0.0005, 0.001, 0.0025, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25},
	}), "digi_event_duration_seconds")
	if err != nil {
		return nil, err
	}
	driftDistance, err := registerHistogram(reg, prometheus.NewHistogram(prometheus.HistogramOpts{
		Name:    "digi_drift_distance_cm",
		Help:    "Smeared drift distances of emitted digis, in centimetres.",
		Buckets: prometheus.LinearBuckets(0, 0.1, 20),
	}), "digi_drift_distance_cm")
	if err != nil {
		return nil, err
	}

	return &DigiCollector{
		gatherer:        gatherer,
		EventsDigitized: eventsDigitized,
		EventsFailed:    eventsFailed,
		HitsDigitized:   hitsDigitized,
		EventDuration:   eventDuration,
		DriftDistance:   driftDistance,
	}, nil
}

// ObserveEvent records one successfully digitized event.
func (c *DigiCollector) ObserveEvent(hits int, elapsed time.Duration) {
	if c == nil {
		return
	}
	c.EventsDigitized.Inc()
	c.HitsDigitized.Add(float64(hits))
	c.EventDuration.Observe(elapsed.Seconds())
}

// ObserveEventFailed records one aborted event.
func (c *DigiCollector) ObserveEventFailed() {
	if c == nil {
		return
	}
	c.EventsFailed.Inc()
}

// ObserveDriftDistance records one emitted drift distance.
func (c *DigiCollector) ObserveDriftDistance(cm float64) {
	if c == nil {
		return
	}
	c.DriftDistance.Observe(cm)
}

// Handler exposes a ready-to-use /metrics handler.
func (c *DigiCollector) Handler() http.Handler {
	gatherer := c.gatherer
	if gatherer == nil {
		gatherer = prometheus.DefaultGatherer
	}
	return promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{})
}

func registerCounter(reg prometheus.Registerer, counter prometheus.Counter, name string) (prometheus.Counter, error) {
	if err := reg.Register(counter); err != nil {
		if are, ok := err.(prometheus.AlreadyRegisteredError); ok {
			if existing, ok := are.ExistingCollector.(prometheus.Counter); ok {
				return existing, nil
			}
			return nil, fmt.Errorf("collector %s already registered with incompatible type", name)
		}
		return nil, err
	}
	return counter, nil
}

func registerHistogram(reg prometheus.Registerer, hist prometheus.Histogram, name string) (prometheus.Histogram, error) {
	if err := reg.Register(hist); err != nil {
		if are, ok := err.(prometheus.AlreadyRegisteredError); ok {
			if existing, ok := are.ExistingCollector.(prometheus.Histogram); ok {
				return existing, nil
			}
			return nil, fmt.Errorf("collector %s already registered with incompatible type", name)
		}
		return nil, err
	}
	return hist, nil
}
