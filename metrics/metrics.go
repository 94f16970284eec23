package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

const namespace = "cohosting"

// Metrics collects the counters for a single sync run. The registry is
// written out as a node_exporter textfile once the run completes.
type Metrics struct {
	registry *prometheus.Registry

	fetches      *prometheus.CounterVec
	fetchLatency *prometheus.HistogramVec
	reservations *prometheus.CounterVec
	bookings     *prometheus.GaugeVec
	rows         *prometheus.GaugeVec
	skipped      prometheus.Counter
	lastRun      prometheus.Gauge
	duration     prometheus.Gauge
	success      prometheus.Gauge
}

func New() *Metrics {
	m := Metrics{
		registry: prometheus.NewRegistry(),

		fetches: prometheus.NewCounterVec(
			prometheus.CounterOpts{Namespace: namespace, Name: "fetches_total", Help: "Reservation API requests by account and result."},
			[]string{"account", "result"},
		),
		fetchLatency: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{Namespace: namespace, Name: "fetch_duration_seconds", Help: "Reservation API request duration seconds.", Buckets: prometheus.DefBuckets},
			[]string{"account"},
		),
		reservations: prometheus.NewCounterVec(
			prometheus.CounterOpts{Namespace: namespace, Name: "reservations_total", Help: "Reservations retrieved per account."},
			[]string{"account"},
		),
		bookings: prometheus.NewGaugeVec(
			prometheus.GaugeOpts{Namespace: namespace, Name: "bookings", Help: "Reconciled bookings per sheet by source (kept|updated|added)."},
			[]string{"sheet", "source"},
		),
		rows: prometheus.NewGaugeVec(
			prometheus.GaugeOpts{Namespace: namespace, Name: "rows_written", Help: "Data rows written per sheet."},
			[]string{"sheet"},
		),
		skipped: prometheus.NewCounter(
			prometheus.CounterOpts{Namespace: namespace, Name: "groups_skipped_total", Help: "Sheet groups skipped because the worksheet does not exist."},
		),
		lastRun: prometheus.NewGauge(
			prometheus.GaugeOpts{Namespace: namespace, Name: "last_run_timestamp_seconds", Help: "Unix time of the last sync run."},
		),
		duration: prometheus.NewGauge(
			prometheus.GaugeOpts{Namespace: namespace, Name: "run_duration_seconds", Help: "Duration of the last sync run."},
		),
		success: prometheus.NewGauge(
			prometheus.GaugeOpts{Namespace: namespace, Name: "last_run_success", Help: "1 if the last sync run completed without error."},
		),
	}

	m.registry.MustRegister(m.fetches, m.fetchLatency, m.reservations, m.bookings, m.rows, m.skipped, m.lastRun, m.duration, m.success)

	return &m
}

func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}

func (m *Metrics) ObserveFetch(account string, n int, err error, dt time.Duration) {
	result := "ok"
	switch {
	case err != nil:
		result = "error"
	case n < 0:
		result = "no-token"
	}

	m.fetches.WithLabelValues(account, result).Inc()
	m.fetchLatency.WithLabelValues(account).Observe(dt.Seconds())

	if n > 0 {
		m.reservations.WithLabelValues(account).Add(float64(n))
	}
}

func (m *Metrics) ObserveSheet(sheet string, kept, updated, added, rows int) {
	m.bookings.WithLabelValues(sheet, "kept").Set(float64(kept))
	m.bookings.WithLabelValues(sheet, "updated").Set(float64(updated))
	m.bookings.WithLabelValues(sheet, "added").Set(float64(added))
	m.rows.WithLabelValues(sheet).Set(float64(rows))
}

func (m *Metrics) Skipped() {
	m.skipped.Inc()
}

func (m *Metrics) ObserveRun(start time.Time, err error) {
	m.lastRun.Set(float64(start.Unix()))
	m.duration.Set(time.Since(start).Seconds())

	if err == nil {
		m.success.Set(1)
	} else {
		m.success.Set(0)
	}
}

// WriteTextfile writes the collected metrics in the Prometheus text format
// for node_exporter's textfile collector.
func (m *Metrics) WriteTextfile(path string) error {
	return prometheus.WriteToTextfile(path, m.registry)
}
