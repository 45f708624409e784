package observability

import (
	"net/http"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/spec-kit/barber-portal/internal/config"
)

var (
	registerOnce sync.Once

	loginAttempts = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "barber_portal",
			Name:      "login_attempts_total",
			Help:      "Count of login attempts by result.",
		},
		[]string{"result"},
	)

	appointmentTransitions = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "barber_portal",
			Name:      "appointment_transitions_total",
			Help:      "Count of appointment status transitions by target status.",
		},
		[]string{"status"},
	)

	blockRequests = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "barber_portal",
			Name:      "block_requests_total",
			Help:      "Count of schedule block requests by type.",
		},
		[]string{"type"},
	)

	dataReloads = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "barber_portal",
			Name:      "data_reloads_total",
			Help:      "Count of session data reloads by result.",
		},
		[]string{"result"},
	)

	httpRequests = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "barber_portal",
			Name:      "http_requests_total",
			Help:      "Count of HTTP requests by path, method and status.",
		},
		[]string{"path", "method", "status"},
	)
)

// Register registers metrics (idempotent).
func Register() {
	registerOnce.Do(func() {
		prometheus.MustRegister(loginAttempts, appointmentTransitions, blockRequests, dataReloads, httpRequests)
	})
}

func IncLoginAttempt(result string) {
	loginAttempts.WithLabelValues(result).Inc()
}

func IncAppointmentTransition(status string) {
	appointmentTransitions.WithLabelValues(status).Inc()
}

func IncBlockRequest(blockType string) {
	blockRequests.WithLabelValues(blockType).Inc()
}

func IncDataReload(result string) {
	dataReloads.WithLabelValues(result).Inc()
}

func IncHTTPRequest(path, method, status string) {
	httpRequests.WithLabelValues(path, method, status).Inc()
}

// ServeMetrics exposes the Prometheus handler on a dedicated listener.
func ServeMetrics(cfg config.MetricsConfig, logger *zap.Logger) *http.Server {
	if !cfg.Enabled {
		return nil
	}
	Register()

	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.Handler())

	srv := &http.Server{
		Addr:              cfg.Addr,
		Handler:           mux,
		ReadHeaderTimeout: 5 * time.Second,
	}
	go func() {
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error("metrics listener failed", zap.Error(err))
		}
	}()
	return srv
}
