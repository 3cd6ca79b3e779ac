package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	HTTPRequestsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "sportsmap_http_requests_total",
		Help: "Total HTTP requests by status code",
	}, []string{"code"})
	HTTPDurationMs = prometheus.NewHistogram(prometheus.HistogramOpts{
		Name:    "sportsmap_http_duration_ms",
		Help:    "HTTP request duration in milliseconds",
		Buckets: []float64{1, 5, 10, 20, 50, 100, 200, 500, 1000},
	})
	ViewRequestsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "sportsmap_view_requests_total",
		Help: "Total map view computations by output kind",
	}, []string{"kind"})
	ViewDurationMs = prometheus.NewHistogram(prometheus.HistogramOpts{
		Name:    "sportsmap_view_duration_ms",
		Help:    "View computation duration in milliseconds",
		Buckets: []float64{0.1, 0.5, 1, 2, 5, 10, 20, 50, 100},
	})
	EmptyViewsTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "sportsmap_empty_views_total",
		Help: "Total views without any facility marker",
	})
	CacheHitsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "sportsmap_cache_hits_total",
		Help: "View cache hits by layer",
	}, []string{"layer"})
	CacheMissesTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "sportsmap_cache_misses_total",
		Help: "View cache misses across all layers",
	})
	FacilitiesLoaded = prometheus.NewGauge(prometheus.GaugeOpts{
		Name: "sportsmap_facilities_loaded",
		Help: "Facility records held in memory",
	})
	ConstituenciesLoaded = prometheus.NewGauge(prometheus.GaugeOpts{
		Name: "sportsmap_constituencies_loaded",
		Help: "Constituency geometries held in memory",
	})
	UnmatchedFacilities = prometheus.NewGauge(prometheus.GaugeOpts{
		Name: "sportsmap_unmatched_facilities",
		Help: "Facility records whose constituency matches no geometry",
	})
	RowsDroppedTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "sportsmap_rows_dropped_total",
		Help: "Spreadsheet rows dropped because coordinates failed numeric coercion",
	})
	InvalidGeometriesTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "sportsmap_invalid_geometries_total",
		Help: "Constituency features rejected as empty or degenerate",
	})
)

func init() {
	prometheus.MustRegister(HTTPRequestsTotal)
	prometheus.MustRegister(HTTPDurationMs)
	prometheus.MustRegister(ViewRequestsTotal)
	prometheus.MustRegister(ViewDurationMs)
	prometheus.MustRegister(EmptyViewsTotal)
	prometheus.MustRegister(CacheHitsTotal)
	prometheus.MustRegister(CacheMissesTotal)
	prometheus.MustRegister(FacilitiesLoaded)
	prometheus.MustRegister(ConstituenciesLoaded)
	prometheus.MustRegister(UnmatchedFacilities)
	prometheus.MustRegister(RowsDroppedTotal)
	prometheus.MustRegister(InvalidGeometriesTotal)
}

// ObserveHTTP：记录一次请求的状态码与耗时
func ObserveHTTP(status int, d time.Duration) {
	HTTPRequestsTotal.WithLabelValues(strconv.Itoa(status)).Inc()
	HTTPDurationMs.Observe(float64(d.Microseconds()) / 1000)
}

// 文档注释：返回 Prometheus 指标监听器，在主入口挂载到 {API_BASE}/metrics
func Handler() http.Handler { return promhttp.Handler() }
