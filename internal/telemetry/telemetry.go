package telemetry

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// MetricsHandler exposes the default Prometheus registry on a gin route.
func MetricsHandler() gin.HandlerFunc {
	return gin.WrapH(promhttp.Handler())
}

// ObserveReport records how long a report took; use with defer.
func ObserveReport(name string, started time.Time) {
	ReportDurationSeconds.WithLabelValues(name).Observe(time.Since(started).Seconds())
}
