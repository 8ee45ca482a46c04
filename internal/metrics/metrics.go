// Package metrics exposes the daemon's Prometheus metrics.
package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "ledman"

var (
	schedulerTicks = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: "scheduler",
		Name:      "ticks_total",
		Help:      "Scheduler ticks by mode",
	}, []string{"mode"})

	outputFrames = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: "output",
		Name:      "frames_total",
		Help:      "Frames written to the strip",
	}, []string{"transport"})

	outputErrors = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: "output",
		Name:      "frame_errors_total",
		Help:      "Frames that failed to be written to the strip",
	}, []string{"transport"})

	outputDropped = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: "output",
		Name:      "frames_dropped_total",
		Help:      "Frames dropped because the strip was still busy",
	}, []string{"transport"})

	powerScale = promauto.NewGauge(prometheus.GaugeOpts{
		Namespace: namespace,
		Subsystem: "output",
		Name:      "power_scale",
		Help:      "Brightness scale applied by the power limiter, 0-255",
	})

	brightness = promauto.NewGauge(prometheus.GaugeOpts{
		Namespace: namespace,
		Name:      "brightness",
		Help:      "Global brightness of the last frame, 0-255",
	})

	controlRequests = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: "control",
		Name:      "requests_total",
		Help:      "Control requests by source and kind",
	}, []string{"source", "kind"})
)

// Tick counts a scheduler tick in the given mode.
func Tick(mode string) {
	schedulerTicks.WithLabelValues(mode).Inc()
}

// Frame records a frame written through the given transport at the given
// brightness.
func Frame(transport string, b uint8) {
	outputFrames.WithLabelValues(transport).Inc()
	brightness.Set(float64(b))
}

// FrameError counts a frame that failed to be written.
func FrameError(transport string) {
	outputErrors.WithLabelValues(transport).Inc()
}

// FrameDropped counts a frame that was skipped because the transport was
// busy.
func FrameDropped(transport string) {
	outputDropped.WithLabelValues(transport).Inc()
}

// PowerScale sets the brightness scale last applied by the power limiter.
func PowerScale(scale uint8) {
	powerScale.Set(float64(scale))
}

// ControlRequest counts a control request.
func ControlRequest(source, kind string) {
	controlRequests.WithLabelValues(source, kind).Inc()
}

// Handler returns the Prometheus metrics HTTP handler.
func Handler() http.Handler {
	return promhttp.Handler()
}
