package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/calzado-fabianne/almacen-api/internal/application/inventory"
)

var _ inventory.Metrics = (*Prometheus)(nil)

// Prometheus agrupa los colectores de la API sobre un registro propio.
type Prometheus struct {
	registry *prometheus.Registry

	movements       *prometheus.CounterVec
	movementLines   *prometheus.CounterVec
	rejected        *prometheus.CounterVec
	requestCounter  *prometheus.CounterVec
	requestDuration *prometheus.HistogramVec
}

// NewPrometheus crea y registra los colectores (más los de runtime de Go y del proceso).
func NewPrometheus(namespace string) *Prometheus {
	p := &Prometheus{
		registry: prometheus.NewRegistry(),
		movements: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "movements_recorded_total",
			Help:      "Entradas y salidas confirmadas",
		}, []string{"kind"}),
		movementLines: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "movement_lines_total",
			Help:      "Líneas confirmadas por tipo de movimiento",
		}, []string{"kind"}),
		rejected: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "movements_rejected_total",
			Help:      "Movimientos rechazados por motivo",
		}, []string{"kind", "reason"}),
		requestCounter: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "http_requests_total",
			Help:      "Peticiones HTTP por método, ruta y estado",
		}, []string{"method", "route", "status"}),
		requestDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "http_request_duration_seconds",
			Help:      "Latencia de las peticiones HTTP",
			Buckets:   prometheus.DefBuckets,
		}, []string{"method", "route"}),
	}
	p.registry.MustRegister(
		p.movements, p.movementLines, p.rejected, p.requestCounter, p.requestDuration,
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	return p
}

// MovementRecorded cuenta un movimiento confirmado y sus líneas.
func (p *Prometheus) MovementRecorded(kind string, lines int) {
	p.movements.WithLabelValues(kind).Inc()
	p.movementLines.WithLabelValues(kind).Add(float64(lines))
}

// MovementRejected cuenta un movimiento rechazado.
func (p *Prometheus) MovementRejected(kind, reason string) {
	p.rejected.WithLabelValues(kind, reason).Inc()
}

// ObserveRequest registra una petición HTTP ya respondida. route es el patrón, no la URL.
func (p *Prometheus) ObserveRequest(method, route string, status int, elapsed time.Duration) {
	p.requestCounter.WithLabelValues(method, route, strconv.Itoa(status)).Inc()
	p.requestDuration.WithLabelValues(method, route).Observe(elapsed.Seconds())
}

// Handler expone el registro en formato Prometheus.
func (p *Prometheus) Handler() http.Handler {
	return promhttp.HandlerFor(p.registry, promhttp.HandlerOpts{Registry: p.registry})
}
