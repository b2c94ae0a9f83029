package metrics

import (
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var GateDecisions = promauto.NewCounterVec(prometheus.CounterOpts{
	Name: "meow_gate_decisions_total",
	Help: "Authorization gate outcomes by action",
}, []string{"action", "outcome"})

var LoginAttempts = promauto.NewCounterVec(prometheus.CounterOpts{
	Name: "meow_login_attempts_total",
	Help: "Login attempts by result",
}, []string{"result"})

var ModerationActions = promauto.NewCounterVec(prometheus.CounterOpts{
	Name: "meow_moderation_actions_total",
	Help: "Mute and ban commands applied by administrators",
}, []string{"action"})

var SanctionsCleared = promauto.NewCounterVec(prometheus.CounterOpts{
	Name: "meow_sanctions_cleared_total",
	Help: "Expired mutes and bans cleared on evaluation or reconcile",
}, []string{"kind"})

var requestDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
	Name:    "meow_http_request_duration_seconds",
	Help:    "HTTP request latency by route and status",
	Buckets: prometheus.DefBuckets,
}, []string{"method", "route", "status"})

// Middleware records request latency per matched route.
func Middleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		route := c.FullPath()
		if route == "" {
			route = "unmatched"
		}
		requestDuration.WithLabelValues(c.Request.Method, route, strconv.Itoa(c.Writer.Status())).
			Observe(time.Since(start).Seconds())
	}
}

func Handler() gin.HandlerFunc {
	return gin.WrapH(promhttp.Handler())
}
