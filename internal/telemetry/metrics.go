package telemetry

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	// Ticks counts evaluations of the playback state machine.
	Ticks = promauto.NewCounter(prometheus.CounterOpts{
		Name: "clockradio_ticks_total",
		Help: "Number of playback ticks evaluated.",
	})

	// AudioCommands counts commands sent to the audio sink by kind.
	AudioCommands = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "clockradio_audio_commands_total",
		Help: "Audio commands issued, by kind.",
	}, []string{"kind"})

	// AudioErrors counts sink failures by command kind.
	AudioErrors = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "clockradio_audio_errors_total",
		Help: "Audio sink command failures, by kind.",
	}, []string{"kind"})

	// WindowActive is 1 while a window is playing.
	WindowActive = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "clockradio_window_active",
		Help: "Whether a timeslot is currently playing.",
	})

	// Volume is the last volume applied.
	Volume = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "clockradio_volume_percent",
		Help: "Last volume sent to the audio sink.",
	})

	// ConfigSaves counts configuration flushes by result.
	ConfigSaves = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "clockradio_config_saves_total",
		Help: "Configuration saves, by result.",
	}, []string{"result"})

	// APIRequestsTotal counts admin HTTP requests.
	APIRequestsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "clockradio_http_requests_total",
		Help: "Admin HTTP requests, by method, route and status.",
	}, []string{"method", "route", "status"})

	// APIRequestDuration observes admin HTTP latency.
	APIRequestDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "clockradio_http_request_duration_seconds",
		Help:    "Admin HTTP request latency.",
		Buckets: prometheus.DefBuckets,
	}, []string{"method", "route", "status"})
)

// Handler exposes the metrics endpoint.
func Handler() http.Handler {
	return promhttp.Handler()
}
