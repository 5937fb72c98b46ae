// Package metrics provides Prometheus metrics for the standby daemon.
package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics holds all Prometheus collectors for the daemon.
type Metrics struct {
	RemindersFired     prometheus.Counter
	SedentaryEvents    *prometheus.CounterVec
	StandupEvents      *prometheus.CounterVec
	Acknowledgments    *prometheus.CounterVec
	Exports            *prometheus.CounterVec
	StoreWriteFailures *prometheus.CounterVec
	DroppedEvents      prometheus.Counter
	CountdownSeconds   prometheus.Gauge
	ReminderVisible    prometheus.Gauge

	registry *prometheus.Registry
}

// New creates and registers all metrics on a private registry.
func New() *Metrics {
	reg := prometheus.NewRegistry()

	m := &Metrics{
		RemindersFired: prometheus.NewCounter(
			prometheus.CounterOpts{
				Name: "standby_reminders_fired_total",
				Help: "Total number of reminder prompts raised.",
			},
		),
		SedentaryEvents: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "standby_sedentary_events_total",
				Help: "Total sedentary events logged, by detection path.",
			},
			[]string{"path"},
		),
		StandupEvents: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "standby_standup_events_total",
				Help: "Total standup events logged, by source.",
			},
			[]string{"source"},
		),
		Acknowledgments: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "standby_acknowledgments_total",
				Help: "Total reminder acknowledgments, by outcome.",
			},
			[]string{"result"},
		),
		Exports: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "standby_exports_total",
				Help: "Total analytics exports, by kind and result.",
			},
			[]string{"kind", "result"},
		),
		StoreWriteFailures: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "standby_store_write_failures_total",
				Help: "Total persisted-document write failures, by document.",
			},
			[]string{"doc"},
		),
		DroppedEvents: prometheus.NewCounter(
			prometheus.CounterOpts{
				Name: "standby_notifications_dropped_total",
				Help: "Total notifications dropped on full subscriber buffers.",
			},
		),
		CountdownSeconds: prometheus.NewGauge(
			prometheus.GaugeOpts{
				Name: "standby_countdown_seconds",
				Help: "Seconds remaining until the next reminder fires.",
			},
		),
		ReminderVisible: prometheus.NewGauge(
			prometheus.GaugeOpts{
				Name: "standby_reminder_visible",
				Help: "Whether a reminder prompt is currently visible (0 or 1).",
			},
		),
		registry: reg,
	}

	reg.MustRegister(m.RemindersFired)
	reg.MustRegister(m.SedentaryEvents)
	reg.MustRegister(m.StandupEvents)
	reg.MustRegister(m.Acknowledgments)
	reg.MustRegister(m.Exports)
	reg.MustRegister(m.StoreWriteFailures)
	reg.MustRegister(m.DroppedEvents)
	reg.MustRegister(m.CountdownSeconds)
	reg.MustRegister(m.ReminderVisible)

	return m
}

// Handler returns an http.Handler for the /metrics endpoint.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

// RecordReminderFired increments the fired-reminder counter.
func (m *Metrics) RecordReminderFired() {
	m.RemindersFired.Inc()
}

// RecordSedentary increments the sedentary counter. Path is "tick" for the
// background staleness check and "ack" for acknowledgment-time logging.
func (m *Metrics) RecordSedentary(path string) {
	m.SedentaryEvents.WithLabelValues(path).Inc()
}

// RecordStandup increments the standup counter. Source is "ack" for
// acknowledged reminders and "direct" for the explicit log operation.
func (m *Metrics) RecordStandup(source string) {
	m.StandupEvents.WithLabelValues(source).Inc()
}

// RecordAcknowledgment increments the acknowledgment counter by outcome,
// "applied" or "ignored".
func (m *Metrics) RecordAcknowledgment(result string) {
	m.Acknowledgments.WithLabelValues(result).Inc()
}

// RecordExport increments the export counter.
func (m *Metrics) RecordExport(kind, result string) {
	m.Exports.WithLabelValues(kind, result).Inc()
}

// RecordStoreWriteFailure increments the write-failure counter for a
// persisted document ("settings" or "events").
func (m *Metrics) RecordStoreWriteFailure(doc string) {
	m.StoreWriteFailures.WithLabelValues(doc).Inc()
}

// RecordDroppedEvent counts a notification lost to a full subscriber buffer.
func (m *Metrics) RecordDroppedEvent() {
	m.DroppedEvents.Inc()
}

// SetCountdownSeconds updates the countdown gauge.
func (m *Metrics) SetCountdownSeconds(secs float64) {
	m.CountdownSeconds.Set(secs)
}

// SetReminderVisible updates the visibility gauge.
func (m *Metrics) SetReminderVisible(visible bool) {
	if visible {
		m.ReminderVisible.Set(1)
	} else {
		m.ReminderVisible.Set(0)
	}
}
