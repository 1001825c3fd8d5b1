// Package metrics concentra los collectors Prometheus del servicio.
package metrics

import (
	"context"
	"net/http"
	"strconv"

	"medication-manager/internal/ports/storage"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "medication_manager"

// Registry es propio (no el global) para que los tests no choquen al
// construir varios routers.
var Registry = prometheus.NewRegistry()

var (
	StoreWrites = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "store_writes_total",
		Help:      "Escrituras al sustrato KV por key y operación.",
	}, []string{"key", "op"})

	StoreErrors = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "store_errors_total",
		Help:      "Errores del sustrato KV por operación.",
	}, []string{"op"})

	HTTPRequests = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "http_requests_total",
		Help:      "Requests HTTP por método, ruta y status.",
	}, []string{"method", "route", "status"})

	OverdueReminders = prometheus.NewGauge(prometheus.GaugeOpts{
		Namespace: namespace,
		Name:      "overdue_reminders",
		Help:      "Recordatorios vencidos sin tomar en el último barrido.",
	})

	LowStockMedicines = prometheus.NewGauge(prometheus.GaugeOpts{
		Namespace: namespace,
		Name:      "low_stock_medicines",
		Help:      "Medicamentos con stock <= threshold en el último barrido.",
	})
)

func init() {
	Registry.MustRegister(
		collectors.NewGoCollector(),
		StoreWrites,
		StoreErrors,
		HTTPRequests,
		OverdueReminders,
		LowStockMedicines,
	)
}

// Handler expone /metrics.
func Handler() http.Handler {
	return promhttp.HandlerFor(Registry, promhttp.HandlerOpts{})
}

// ObserveRequest registra un request ya respondido.
func ObserveRequest(method, route string, status int) {
	if route == "" {
		route = "unmatched"
	}
	HTTPRequests.WithLabelValues(method, route, strconv.Itoa(status)).Inc()
}

// InstrumentKV decora un sustrato para contar escrituras y errores.
func InstrumentKV(kv storage.KV) storage.KV {
	return &instrumentedKV{next: kv}
}

type instrumentedKV struct {
	next storage.KV
}

func (k *instrumentedKV) Get(ctx context.Context, key string) ([]byte, bool, error) {
	v, ok, err := k.next.Get(ctx, key)
	if err != nil {
		StoreErrors.WithLabelValues("get").Inc()
	}
	return v, ok, err
}

func (k *instrumentedKV) Set(ctx context.Context, key string, value []byte) error {
	if err := k.next.Set(ctx, key, value); err != nil {
		StoreErrors.WithLabelValues("set").Inc()
		return err
	}
	StoreWrites.WithLabelValues(key, "set").Inc()
	return nil
}

func (k *instrumentedKV) Remove(ctx context.Context, key string) error {
	if err := k.next.Remove(ctx, key); err != nil {
		StoreErrors.WithLabelValues("remove").Inc()
		return err
	}
	StoreWrites.WithLabelValues(key, "remove").Inc()
	return nil
}
