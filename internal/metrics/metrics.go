// Package metrics собирает бизнес-счётчики сервиса заказов в отдельный реестр Prometheus.
package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

type Registry struct {
	reg         *prometheus.Registry
	Extractions *prometheus.CounterVec
	OrderEvents *prometheus.CounterVec
	Reminders   *prometheus.CounterVec
}

func NewRegistry() *Registry {
	r := prometheus.NewRegistry()

	extractions := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "bakery_extractions_total",
		Help: "Извлечения полей заказа по источнику и результату.",
	}, []string{"source", "result"})
	orderEvents := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "bakery_order_events_total",
		Help: "События заказов, записанные в outbox.",
	}, []string{"type"})
	reminders := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "bakery_reminders_total",
		Help: "Напоминания о доставке по статусу отправки.",
	}, []string{"status"})

	r.MustRegister(
		extractions,
		orderEvents,
		reminders,
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)

	return &Registry{
		reg:         r,
		Extractions: extractions,
		OrderEvents: orderEvents,
		Reminders:   reminders,
	}
}

func (r *Registry) ObserveExtraction(source string, extracted bool) {
	result := "empty"
	if extracted {
		result = "extracted"
	}
	r.Extractions.WithLabelValues(source, result).Inc()
}

func (r *Registry) IncOrderEvent(eventType string) {
	r.OrderEvents.WithLabelValues(eventType).Inc()
}

func (r *Registry) IncReminder(status string) {
	r.Reminders.WithLabelValues(status).Inc()
}

func (r *Registry) Handler() http.Handler { return promhttp.HandlerFor(r.reg, promhttp.HandlerOpts{}) }
