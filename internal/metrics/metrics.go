// Package metrics records pipeline activity as Prometheus metrics.
//
// The CLI is short lived, so metrics are written to a node_exporter textfile
// rather than served over HTTP.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/rxtech-lab/argo-indicators/internal/engine"
	"github.com/rxtech-lab/argo-indicators/internal/types"
	"github.com/rxtech-lab/argo-indicators/pkg/errors"
)

const namespace = "argo_indicators"

// Metrics holds the collectors for one process.
type Metrics struct {
	registry *prometheus.Registry
	now      func() time.Time

	FetchDuration      prometheus.Histogram
	FetchesTotal       *prometheus.CounterVec // labels: status
	QuotesFetched      prometheus.Counter
	IndicatorsComputed *prometheus.CounterVec // labels: type
	ArtifactsWritten   prometheus.Counter
	CacheHits          prometheus.Counter
	CacheMisses        prometheus.Counter
	RunsTotal          *prometheus.CounterVec // labels: status
	LastRunTimestamp   prometheus.Gauge
}

// New creates the collectors on a private registry.
func New() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		now:      time.Now,
		FetchDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "fetch_duration_seconds",
			Help:      "Time spent fetching quotes from the provider",
			Buckets:   []float64{0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10, 30},
		}),
		FetchesTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "fetches_total",
			Help:      "Quote fetches by outcome",
		}, []string{"status"}),
		QuotesFetched: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "quotes_fetched_total",
			Help:      "Quotes returned by successful fetches",
		}),
		IndicatorsComputed: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "indicators_computed_total",
			Help:      "Indicator series computed, by indicator type",
		}, []string{"type"}),
		ArtifactsWritten: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "artifacts_written_total",
			Help:      "Charts and export files written",
		}),
		CacheHits: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "cache_hits_total",
			Help:      "Quote cache hits",
		}),
		CacheMisses: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "cache_misses_total",
			Help:      "Quote cache misses",
		}),
		RunsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "runs_total",
			Help:      "Analysis runs by outcome",
		}, []string{"status"}),
		LastRunTimestamp: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "last_run_timestamp_seconds",
			Help:      "Unix time the last run finished",
		}),
	}

	m.registry.MustRegister(
		m.FetchDuration,
		m.FetchesTotal,
		m.QuotesFetched,
		m.IndicatorsComputed,
		m.ArtifactsWritten,
		m.CacheHits,
		m.CacheMisses,
		m.RunsTotal,
		m.LastRunTimestamp,
	)

	return m
}

// Registry exposes the collectors for gathering.
func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}

// CacheHit implements cache.Observer.
func (m *Metrics) CacheHit() { m.CacheHits.Inc() }

// CacheMiss implements cache.Observer.
func (m *Metrics) CacheMiss() { m.CacheMisses.Inc() }

// RecordRun counts a finished run. The status label is the error kind, or "ok".
func (m *Metrics) RecordRun(err error) {
	status := "ok"
	if err != nil {
		status = errors.KindOf(err).String()
	}

	m.RunsTotal.WithLabelValues(status).Inc()
	m.LastRunTimestamp.Set(float64(m.now().Unix()))
}

// Instrument returns callbacks that record metrics and then call the matching
// callback of next, if any.
func (m *Metrics) Instrument(next engine.LifecycleCallbacks) engine.LifecycleCallbacks {
	var fetchStarted time.Time

	onFetchStart := engine.OnFetchStartCallback(func(ticker string) error {
		fetchStarted = m.now()

		if next.OnFetchStart != nil {
			return (*next.OnFetchStart)(ticker)
		}

		return nil
	})

	onFetchEnd := engine.OnFetchEndCallback(func(quotes int, err error) {
		m.FetchDuration.Observe(m.now().Sub(fetchStarted).Seconds())

		if err != nil {
			m.FetchesTotal.WithLabelValues("error").Inc()
		} else {
			m.FetchesTotal.WithLabelValues("ok").Inc()
			m.QuotesFetched.Add(float64(quotes))
		}

		if next.OnFetchEnd != nil {
			(*next.OnFetchEnd)(quotes, err)
		}
	})

	onIndicatorComputed := engine.OnIndicatorComputedCallback(func(series types.IndicatorSeries) error {
		m.IndicatorsComputed.WithLabelValues(string(series.Type)).Inc()

		if next.OnIndicatorComputed != nil {
			return (*next.OnIndicatorComputed)(series)
		}

		return nil
	})

	onArtifactWritten := engine.OnArtifactWrittenCallback(func(path string) {
		m.ArtifactsWritten.Inc()

		if next.OnArtifactWritten != nil {
			(*next.OnArtifactWritten)(path)
		}
	})

	return engine.LifecycleCallbacks{
		OnFetchStart:        &onFetchStart,
		OnFetchEnd:          &onFetchEnd,
		OnIndicatorComputed: &onIndicatorComputed,
		OnArtifactWritten:   &onArtifactWritten,
	}
}

// WriteTextfile writes the current values in the Prometheus text format to path.
func (m *Metrics) WriteTextfile(path string) error {
	if err := prometheus.WriteToTextfile(path, m.registry); err != nil {
		return errors.Wrapf(errors.ErrCodeExportFailed, err, "failed to write metrics to %s", path)
	}

	return nil
}
