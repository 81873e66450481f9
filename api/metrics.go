package api

import (
	"context"
	"net/http"
	"time"

	log "github.com/sirupsen/logrus"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

const (
	mutationEventName   = "board.mutation"
	mutationEventDomain = "board-api"
	mutationSpanName    = "board.mutation"

	tracerName = "board-api/api"
)

// mutationMetrics collects per-request timings for a mutating endpoint
// and emits a single observability event (log entry plus span) when the
// request completes.
type mutationMetrics struct {
	logger *log.Logger
	span   trace.Span
	route  string

	start           time.Time
	applyDuration   time.Duration
	confirmDuration time.Duration
	applied         bool
	cancelled       bool
	errorStage      string
}

func newMutationMetrics(ctx context.Context, logger *log.Logger, route string) (*mutationMetrics, context.Context) {
	spanCtx, span := otel.Tracer(tracerName).Start(ctx, mutationSpanName)
	return &mutationMetrics{
		logger: logger,
		span:   span,
		route:  route,
		start:  time.Now(),
	}, spanCtx
}

func (m *mutationMetrics) ObserveApply(duration time.Duration) {
	if duration <= 0 {
		return
	}
	m.applyDuration = duration
}

func (m *mutationMetrics) ObserveConfirm(duration time.Duration) {
	if duration <= 0 {
		return
	}
	m.confirmDuration = duration
}

func (m *mutationMetrics) SetApplied(applied bool) {
	m.applied = applied
}

func (m *mutationMetrics) SetCancelled(cancelled bool) {
	m.cancelled = cancelled
}

func (m *mutationMetrics) SetErrorStage(stage string) {
	if stage == "" {
		return
	}
	m.errorStage = stage
}

// Log emits the observability event and ends the span. Call it exactly
// once, after the response has been written.
func (m *mutationMetrics) Log(status int, err error) {
	if m == nil {
		return
	}

	attrs := map[string]any{
		"http.route":               m.route,
		"board.mutation.total_ms":  durationToMillis(time.Since(m.start)),
		"board.mutation.applied":   m.applied,
		"board.mutation.cancelled": m.cancelled,
	}
	if m.applyDuration > 0 {
		attrs["board.mutation.apply_ms"] = durationToMillis(m.applyDuration)
	}
	if m.confirmDuration > 0 {
		attrs["board.mutation.confirm_ms"] = durationToMillis(m.confirmDuration)
	}
	if m.errorStage != "" {
		attrs["board.mutation.error_stage"] = m.errorStage
	}
	if err != nil {
		attrs["error.message"] = err.Error()
	}

	severityText, severityNumber := severityForStatus(status, err)

	if m.span != nil {
		spanAttrs := []attribute.KeyValue{
			attribute.String("http.route", m.route),
			attribute.Int64("http.status_code", int64(status)),
			attribute.Bool("board.mutation.applied", m.applied),
			attribute.Bool("board.mutation.cancelled", m.cancelled),
		}
		if m.errorStage != "" {
			spanAttrs = append(spanAttrs, attribute.String("board.mutation.error_stage", m.errorStage))
		}
		m.span.SetAttributes(spanAttrs...)

		eventAttrs := []attribute.KeyValue{
			attribute.String("event.name", mutationEventName),
			attribute.String("event.domain", mutationEventDomain),
			attribute.String("severity_text", severityText),
			attribute.Int("severity_number", severityNumber),
		}
		eventAttrs = append(eventAttrs, attributesFromMap(attrs)...)
		m.span.AddEvent("observability.event", trace.WithAttributes(eventAttrs...))

		if err != nil {
			m.span.RecordError(err)
			m.span.SetStatus(codes.Error, err.Error())
		} else if status >= http.StatusInternalServerError {
			m.span.SetStatus(codes.Error, http.StatusText(status))
		} else {
			m.span.SetStatus(codes.Ok, "")
		}
		m.span.End()
	}

	if m.logger == nil {
		return
	}

	fields := log.Fields{
		"event.name":      mutationEventName,
		"event.domain":    mutationEventDomain,
		"http.status":     status,
		"attributes":      attrs,
		"severity_text":   severityText,
		"severity_number": severityNumber,
	}
	if m.span != nil {
		if sc := m.span.SpanContext(); sc.IsValid() {
			fields["trace_id"] = sc.TraceID().String()
			fields["span_id"] = sc.SpanID().String()
		}
	}

	m.logger.WithFields(fields).Info("observability.event")
}

func severityForStatus(status int, err error) (string, int) {
	switch {
	case err != nil || status >= http.StatusInternalServerError:
		return "ERROR", 17
	case status >= http.StatusBadRequest:
		return "WARN", 13
	default:
		return "INFO", 9
	}
}

func attributesFromMap(attrs map[string]any) []attribute.KeyValue {
	out := make([]attribute.KeyValue, 0, len(attrs))
	for key, value := range attrs {
		switch v := value.(type) {
		case string:
			out = append(out, attribute.String(key, v))
		case bool:
			out = append(out, attribute.Bool(key, v))
		case int:
			out = append(out, attribute.Int(key, v))
		case int64:
			out = append(out, attribute.Int64(key, v))
		case float64:
			out = append(out, attribute.Float64(key, v))
		}
	}
	return out
}

func durationToMillis(d time.Duration) float64 {
	if d <= 0 {
		return 0
	}
	return float64(d) / float64(time.Millisecond)
}
