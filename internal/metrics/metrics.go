// Package metrics собирает метрики Prometheus: HTTP-запросы и работу кеша.
package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Recorder - то, что нужно middleware от сборщика метрик.
type Recorder interface {
	RecordHTTPRequest(method, route string, status int, d time.Duration)
	RecordCacheHit(namespace string)
	RecordCacheMiss(namespace string)
	RecordCacheError(op string)
	RecordInvalidation(pattern string, deleted int)
	RecordRateLimited(limiter string)
}

// Collector - реализация Recorder поверх prometheus.
type Collector struct {
	httpRequests  *prometheus.CounterVec
	httpLatency   *prometheus.HistogramVec
	cacheHits     *prometheus.CounterVec
	cacheMisses   *prometheus.CounterVec
	cacheErrors   *prometheus.CounterVec
	invalidations *prometheus.CounterVec
	rateLimited   *prometheus.CounterVec
}

// NewCollector создаёт Collector и регистрирует метрики в reg.
func NewCollector(reg prometheus.Registerer) *Collector {
	c := &Collector{
		httpRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "inkwell_http_requests_total",
			Help: "HTTP-запросы по методу, маршруту и статусу",
		}, []string{"method", "route", "status"}),
		httpLatency: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "inkwell_http_request_duration_seconds",
			Help:    "Время обработки HTTP-запроса",
			Buckets: prometheus.DefBuckets,
		}, []string{"method", "route"}),
		cacheHits: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "inkwell_cache_hits_total",
			Help: "Попадания в кеш по пространству ключей",
		}, []string{"namespace"}),
		cacheMisses: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "inkwell_cache_misses_total",
			Help: "Промахи кеша по пространству ключей",
		}, []string{"namespace"}),
		cacheErrors: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "inkwell_cache_errors_total",
			Help: "Ошибки хранилища кеша по операции",
		}, []string{"op"}),
		invalidations: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "inkwell_cache_invalidated_keys_total",
			Help: "Удалённые при инвалидации ключи по шаблону",
		}, []string{"pattern"}),
		rateLimited: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "inkwell_rate_limited_total",
			Help: "Отклонённые лимитером запросы",
		}, []string{"limiter"}),
	}

	reg.MustRegister(
		c.httpRequests,
		c.httpLatency,
		c.cacheHits,
		c.cacheMisses,
		c.cacheErrors,
		c.invalidations,
		c.rateLimited,
	)
	return c
}

func (c *Collector) RecordHTTPRequest(method, route string, status int, d time.Duration) {
	c.httpRequests.WithLabelValues(method, route, strconv.Itoa(status)).Inc()
	c.httpLatency.WithLabelValues(method, route).Observe(d.Seconds())
}

func (c *Collector) RecordCacheHit(namespace string) {
	c.cacheHits.WithLabelValues(namespace).Inc()
}

func (c *Collector) RecordCacheMiss(namespace string) {
	c.cacheMisses.WithLabelValues(namespace).Inc()
}

func (c *Collector) RecordCacheError(op string) {
	c.cacheErrors.WithLabelValues(op).Inc()
}

func (c *Collector) RecordInvalidation(pattern string, deleted int) {
	c.invalidations.WithLabelValues(pattern).Add(float64(deleted))
}

func (c *Collector) RecordRateLimited(limiter string) {
	c.rateLimited.WithLabelValues(limiter).Inc()
}

// Nop - Recorder, который ничего не делает (тесты, отключённые метрики).
type Nop struct{}

func (Nop) RecordHTTPRequest(string, string, int, time.Duration) {}
func (Nop) RecordCacheHit(string)                                {}
func (Nop) RecordCacheMiss(string)                               {}
func (Nop) RecordCacheError(string)                              {}
func (Nop) RecordInvalidation(string, int)                       {}
func (Nop) RecordRateLimited(string)                             {}

// Handler - HTTP-обработчик для скрейпа /metrics.
func Handler(gatherer prometheus.Gatherer) http.Handler {
	return promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{})
}
