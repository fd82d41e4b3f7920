package middleware

import (
	"fmt"

	"zestyy/internal/observability"

	"github.com/gofiber/fiber/v2"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/propagation"
	"go.opentelemetry.io/otel/trace"
)

// TracingMiddleware opens a server span per request, continuing any trace
// carried in the incoming headers. The span is renamed to the matched route
// once routing is done so ids stay out of span names.
func TracingMiddleware() fiber.Handler {
	return func(c *fiber.Ctx) error {
		carrier := propagation.HeaderCarrier(c.GetReqHeaders())
		ctx := otel.GetTextMapPropagator().Extract(c.UserContext(), carrier)

		ctx, span := observability.Tracer.Start(ctx, c.Method()+" "+c.Path(),
			trace.WithSpanKind(trace.SpanKindServer),
			trace.WithAttributes(
				attribute.String("http.method", c.Method()),
				attribute.String("http.target", c.OriginalURL()),
				attribute.String("client.address", c.IP()),
			),
		)
		defer span.End()

		if sc := span.SpanContext(); sc.HasTraceID() {
			traceID := sc.TraceID().String()
			c.Locals("traceID", traceID)
			c.Set("X-Trace-ID", traceID)
		}
		if rid := c.Locals("requestid"); rid != nil {
			span.SetAttributes(attribute.String("request.id", fmt.Sprint(rid)))
		}
		c.SetUserContext(ctx)

		err := c.Next()

		status := c.Response().StatusCode()
		span.SetName(c.Method() + " " + c.Route().Path)
		span.SetAttributes(
			attribute.String("http.route", c.Route().Path),
			attribute.Int("http.status_code", status),
		)
		if userID := CurrentUserID(c); userID != "" {
			span.SetAttributes(attribute.String("user.id", userID))
		}
		if err != nil {
			span.RecordError(err)
		}
		if status >= fiber.StatusInternalServerError {
			span.SetStatus(codes.Error, fmt.Sprintf("HTTP %d", status))
		}
		return err
	}
}
