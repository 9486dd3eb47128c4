package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "shop"

type ServerMetrics struct {
	Requests  *prometheus.CounterVec
	LatencyMS *prometheus.HistogramVec
}

func NewServerMetrics(reg prometheus.Registerer, service string) *ServerMetrics {
	requests := prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: service,
		Name:      "http_requests_total",
		Help:      "Total number of HTTP requests.",
	}, []string{"route", "method", "status"})
	latency := prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: namespace,
		Subsystem: service,
		Name:      "http_request_duration_ms",
		Help:      "HTTP request latency in milliseconds.",
		Buckets:   []float64{5, 10, 25, 50, 100, 250, 500, 1000, 2500, 5000},
	}, []string{"route", "method"})

	reg.MustRegister(requests, latency)
	return &ServerMetrics{Requests: requests, LatencyMS: latency}
}

// Workflow counts order state transitions and stock rejections. A nil
// *Workflow is a no-op.
type Workflow struct {
	Transitions    *prometheus.CounterVec
	Rejections     prometheus.Counter
	NotifyFailures *prometheus.CounterVec
}

func NewWorkflow(reg prometheus.Registerer) *Workflow {
	w := &Workflow{
		Transitions: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "order_transitions_total",
			Help:      "Orders entering a status.",
		}, []string{"status"}),
		Rejections: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "order_stock_rejections_total",
			Help:      "Order items rejected for insufficient stock.",
		}),
		NotifyFailures: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "notification_failures_total",
			Help:      "Notifications that could not be handed off or delivered.",
		}, []string{"template"}),
	}
	reg.MustRegister(w.Transitions, w.Rejections, w.NotifyFailures)
	return w
}

func (w *Workflow) Transition(status string) {
	if w == nil {
		return
	}
	w.Transitions.WithLabelValues(status).Inc()
}

func (w *Workflow) StockRejected() {
	if w == nil {
		return
	}
	w.Rejections.Inc()
}

func (w *Workflow) NotifyFailed(template string) {
	if w == nil {
		return
	}
	w.NotifyFailures.WithLabelValues(template).Inc()
}

func Handler() http.Handler {
	return promhttp.Handler()
}
