package resources

import (
	"context"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

type HTTPMetrics struct {
	reqs    metric.Int64Counter
	latency metric.Float64Histogram
}

func NewHTTPMetrics(name string) *HTTPMetrics {
	meter := otel.Meter(name)

	reqs, _ := meter.Int64Counter(
		"http.server.requests",
		metric.WithDescription("HTTP requests"),
	)
	latency, _ := meter.Float64Histogram(
		"http.server.duration.ms",
		metric.WithDescription("HTTP request duration in milliseconds"),
	)

	return &HTTPMetrics{reqs: reqs, latency: latency}
}

func MeterMiddleware(name string) gin.HandlerFunc {
	return NewHTTPMetrics(name).Middleware()
}

func (m *HTTPMetrics) Middleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()

		c.Next()

		route := c.FullPath()
		if route == "" {
			route = "unmatched"
		}

		status := c.Writer.Status()

		attrs := metric.WithAttributes(
			attribute.String("http.route", route),
			attribute.String("http.method", c.Request.Method),
			attribute.Int("http.status_code", status),
			attribute.String("http.status_class", strconv.Itoa(status/100)+"xx"),
		)

		m.reqs.Add(c.Request.Context(), 1, attrs)
		m.latency.Record(c.Request.Context(), float64(time.Since(start).Milliseconds()), attrs)
	}
}

// ValidationMetrics counts validator runs and the number of rule violations they report.
type ValidationMetrics struct {
	runs       metric.Int64Counter
	violations metric.Int64Counter
}

func NewValidationMetrics(name string) *ValidationMetrics {
	meter := otel.Meter(name)

	runs, _ := meter.Int64Counter(
		"eventos.validacion.total",
		metric.WithDescription("Validator runs"),
	)
	violations, _ := meter.Int64Counter(
		"eventos.validacion.errores",
		metric.WithDescription("Rule violations reported by the validators"),
	)

	return &ValidationMetrics{runs: runs, violations: violations}
}

func (m *ValidationMetrics) Observe(ctx context.Context, kind string, violations int) {
	attrs := metric.WithAttributes(
		attribute.String("validacion.tipo", kind),
		attribute.Bool("validacion.valido", violations == 0),
	)

	m.runs.Add(ctx, 1, attrs)

	if violations > 0 {
		m.violations.Add(ctx, int64(violations), attrs)
	}
}
