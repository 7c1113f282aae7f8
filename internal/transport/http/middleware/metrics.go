package middleware

import (
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	httpReqTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "enquiry_api",
			Name:      "http_requests_total",
			Help:      "Count of HTTP requests",
		},
		[]string{"route", "method", "status"},
	)
	httpLatency = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "enquiry_api",
			Name:      "http_request_duration_seconds",
			Help:      "Latency of HTTP requests",
			Buckets:   prometheus.DefBuckets,
		}, []string{"route", "method"},
	)
	httpInFlight = promauto.NewGauge(prometheus.GaugeOpts{
		Namespace: "enquiry_api",
		Name:      "http_requests_in_flight",
		Help:      "Requests currently being served",
	})
)

// Metrics 按路由模板统计；未匹配的路由归入 "unmatched"，避免 label 爆炸
func Metrics() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		httpInFlight.Inc()
		defer httpInFlight.Dec()

		c.Next()

		route := c.FullPath()
		if route == "" {
			route = "unmatched"
		}
		httpReqTotal.WithLabelValues(route, c.Request.Method, strconv.Itoa(c.Writer.Status())).Inc()
		httpLatency.WithLabelValues(route, c.Request.Method).Observe(time.Since(start).Seconds())
	}
}
