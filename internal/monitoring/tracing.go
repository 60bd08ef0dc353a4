package monitoring

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"sync/atomic"
	"time"

	"github.com/gin-gonic/gin"
)

// Span is one unit of traced work. Spans nest through the request
// context; a child picks up the parent's trace ID automatically.
type Span struct {
	TraceID   string
	SpanID    string
	ParentID  string
	Operation string
	StartTime time.Time
	tags      map[string]string
	failed    bool
}

// SetTag attaches a key/value pair that is emitted when the span ends.
func (s *Span) SetTag(key, value string) {
	s.tags[key] = value
}

type spanContextKey struct{}

// Tracer generates correlated trace and span IDs and logs completed
// spans through the structured logger. There is no external collector,
// the JSON log stream is the trace store.
type Tracer struct {
	service     string
	logger      *Logger
	activeSpans atomic.Int64
}

func NewTracer(service string, logger *Logger) *Tracer {
	return &Tracer{service: service, logger: logger}
}

func randomID(bytes int) string {
	buf := make([]byte, bytes)
	rand.Read(buf)
	return hex.EncodeToString(buf)
}

// StartSpan opens a span under the trace found in ctx, or starts a new
// trace when ctx carries none. The returned context propagates the span
// to child operations.
func (t *Tracer) StartSpan(ctx context.Context, operation string) (*Span, context.Context) {
	span := &Span{
		SpanID:    randomID(8),
		Operation: operation,
		StartTime: time.Now(),
		tags:      make(map[string]string),
	}

	if parent, ok := ctx.Value(spanContextKey{}).(*Span); ok {
		span.TraceID = parent.TraceID
		span.ParentID = parent.SpanID
	} else {
		span.TraceID = randomID(16)
	}

	t.activeSpans.Add(1)
	return span, context.WithValue(ctx, spanContextKey{}, span)
}

// EndSpan closes the span and writes it to the log. A non-nil err marks
// the span failed and records the error message as a tag.
func (t *Tracer) EndSpan(span *Span, err error) {
	duration := time.Since(span.StartTime)
	t.activeSpans.Add(-1)

	if err != nil {
		span.failed = true
		span.tags["error"] = err.Error()
	}

	status := "ok"
	if span.failed {
		status = "error"
	}

	fields := []any{
		"trace_id", span.TraceID,
		"span_id", span.SpanID,
		"service", t.service,
		"operation", span.Operation,
		"duration_ms", duration.Milliseconds(),
		"status", status,
	}
	if span.ParentID != "" {
		fields = append(fields, "parent_id", span.ParentID)
	}
	for k, v := range span.tags {
		fields = append(fields, "tag_"+k, v)
	}

	t.logger.Info("Trace span", fields...)
}

// ActiveSpans reports how many spans are currently open.
func (t *Tracer) ActiveSpans() int64 {
	return t.activeSpans.Load()
}

// SpanFromContext returns the span stored in ctx, or nil.
func SpanFromContext(ctx context.Context) *Span {
	if span, ok := ctx.Value(spanContextKey{}).(*Span); ok {
		return span
	}
	return nil
}

// TracingMiddleware traces every request and exposes the IDs in
// response headers so clients can reference them in bug reports. An
// inbound X-Trace-ID header joins the request to an existing trace.
func TracingMiddleware(tracer *Tracer) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx := c.Request.Context()
		if inbound := c.GetHeader("X-Trace-ID"); inbound != "" && len(inbound) <= 64 {
			parent := &Span{TraceID: inbound, tags: map[string]string{}}
			ctx = context.WithValue(ctx, spanContextKey{}, parent)
		}

		span, ctx := tracer.StartSpan(ctx, c.Request.Method+" "+c.FullPath())
		span.SetTag("http.method", c.Request.Method)
		span.SetTag("http.path", c.Request.URL.Path)
		span.SetTag("client_ip", c.ClientIP())

		c.Header("X-Trace-ID", span.TraceID)
		c.Header("X-Span-ID", span.SpanID)
		c.Request = c.Request.WithContext(ctx)

		c.Next()

		span.SetTag("http.status_code", fmt.Sprintf("%d", c.Writer.Status()))
		if c.Writer.Status() >= 500 {
			span.failed = true
		}

		var spanErr error
		if len(c.Errors) > 0 {
			spanErr = c.Errors.Last()
		}
		tracer.EndSpan(span, spanErr)
	}
}
