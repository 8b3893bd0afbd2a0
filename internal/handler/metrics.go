package handler

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/relay-one/tray-service/internal/domain"
)

// Metrics holds Prometheus metrics
type Metrics struct {
	httpRequestsTotal   *prometheus.CounterVec
	httpRequestDuration *prometheus.HistogramVec
	presentedTotal      prometheus.Counter
	dismissedTotal      prometheus.Counter
	dismissedAllTotal   prometheus.Counter
	trayActive          prometheus.Gauge
}

// NewMetrics creates new Prometheus metrics
func NewMetrics() *Metrics {
	return &Metrics{
		httpRequestsTotal: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "http_requests_total",
				Help: "Total number of HTTP requests",
			},
			[]string{"method", "path", "status"},
		),
		httpRequestDuration: promauto.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "http_request_duration_seconds",
				Help:    "HTTP request duration in seconds",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"method", "path"},
		),
		presentedTotal: promauto.NewCounter(
			prometheus.CounterOpts{
				Name: "tray_notifications_presented_total",
				Help: "Total number of notifications presented to the host tray",
			},
		),
		dismissedTotal: promauto.NewCounter(
			prometheus.CounterOpts{
				Name: "tray_notifications_dismissed_total",
				Help: "Total number of notifications dismissed by identifier",
			},
		),
		dismissedAllTotal: promauto.NewCounter(
			prometheus.CounterOpts{
				Name: "tray_dismiss_all_total",
				Help: "Total number of dismiss-all operations",
			},
		),
		trayActive: promauto.NewGauge(
			prometheus.GaugeOpts{
				Name: "tray_active_notifications",
				Help: "Number of notifications visible at the last enumeration",
			},
		),
	}
}

// RecordRequest records HTTP request metrics
func (m *Metrics) RecordRequest(method, path, status string, duration time.Duration) {
	m.httpRequestsTotal.WithLabelValues(method, path, status).Inc()
	m.httpRequestDuration.WithLabelValues(method, path).Observe(duration.Seconds())
}

// RecordPresented records a successful presentation
func (m *Metrics) RecordPresented() {
	m.presentedTotal.Inc()
}

// RecordDismissed records dismissed identifiers
func (m *Metrics) RecordDismissed(count int) {
	m.dismissedTotal.Add(float64(count))
}

// RecordDismissedAll records a dismiss-all operation
func (m *Metrics) RecordDismissedAll() {
	m.dismissedAllTotal.Inc()
}

// SetTrayActive sets the last observed tray depth
func (m *Metrics) SetTrayActive(count int) {
	m.trayActive.Set(float64(count))
}

// MetricsHandler handles metrics endpoints
type MetricsHandler struct {
	metrics *Metrics
	tray    domain.Tray
}

// NewMetricsHandler creates a new MetricsHandler
func NewMetricsHandler(metrics *Metrics, tray domain.Tray) *MetricsHandler {
	return &MetricsHandler{
		metrics: metrics,
		tray:    tray,
	}
}

// Handler returns the Prometheus HTTP handler
func (h *MetricsHandler) Handler() http.Handler {
	return promhttp.Handler()
}

// TrayMetrics represents real-time tray metrics
type TrayMetrics struct {
	Active int `json:"active"`
}

// RealtimeMetrics handles real-time metrics requests
// @Summary Real-time metrics
// @Description Get the current number of tray entries
// @Tags metrics
// @Produce json
// @Success 200 {object} TrayMetrics
// @Failure 500 {object} Response
// @Router /metrics/realtime [get]
func (h *MetricsHandler) RealtimeMetrics(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	records, err := h.tray.Active(ctx)
	if err != nil {
		if errors.Is(err, domain.ErrTrayUnsupported) {
			JSON(w, http.StatusOK, TrayMetrics{Active: 0})
			return
		}
		JSONError(w, http.StatusInternalServerError, "METRICS_ERROR", "Failed to enumerate tray", nil)
		return
	}

	h.metrics.SetTrayActive(len(records))
	JSON(w, http.StatusOK, TrayMetrics{Active: len(records)})
}
