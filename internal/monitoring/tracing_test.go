package monitoring

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
)

func TestStartSpanNewTrace(t *testing.T) {
	tracer := NewTracer("test-service", NewLogger())

	span, ctx := tracer.StartSpan(context.Background(), "analyze")

	assert.Len(t, span.TraceID, 32)
	assert.Len(t, span.SpanID, 16)
	assert.Empty(t, span.ParentID)
	assert.Equal(t, "analyze", span.Operation)
	assert.Equal(t, int64(1), tracer.ActiveSpans())
	assert.Equal(t, span, SpanFromContext(ctx))

	tracer.EndSpan(span, nil)
	assert.Equal(t, int64(0), tracer.ActiveSpans())
}

func TestStartSpanInheritsTrace(t *testing.T) {
	tracer := NewTracer("test-service", NewLogger())

	parent, ctx := tracer.StartSpan(context.Background(), "request")
	child, _ := tracer.StartSpan(ctx, "model-call")

	assert.Equal(t, parent.TraceID, child.TraceID)
	assert.Equal(t, parent.SpanID, child.ParentID)
	assert.NotEqual(t, parent.SpanID, child.SpanID)

	tracer.EndSpan(child, errors.New("upstream timeout"))
	tracer.EndSpan(parent, nil)
	assert.Equal(t, int64(0), tracer.ActiveSpans())
}

func TestTracingMiddleware(t *testing.T) {
	gin.SetMode(gin.TestMode)
	tracer := NewTracer("test-service", NewLogger())

	r := gin.New()
	r.Use(TracingMiddleware(tracer))
	r.GET("/ping", func(c *gin.Context) {
		span := SpanFromContext(c.Request.Context())
		assert.NotNil(t, span)
		c.String(http.StatusOK, "pong")
	})

	req := httptest.NewRequest("GET", "/ping", nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Len(t, w.Header().Get("X-Trace-ID"), 32)
	assert.Len(t, w.Header().Get("X-Span-ID"), 16)
	assert.Equal(t, int64(0), tracer.ActiveSpans())
}

func TestTracingMiddlewareJoinsInboundTrace(t *testing.T) {
	gin.SetMode(gin.TestMode)
	tracer := NewTracer("test-service", NewLogger())

	r := gin.New()
	r.Use(TracingMiddleware(tracer))
	r.GET("/ping", func(c *gin.Context) { c.Status(http.StatusOK) })

	req := httptest.NewRequest("GET", "/ping", nil)
	req.Header.Set("X-Trace-ID", "abc123def456")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, "abc123def456", w.Header().Get("X-Trace-ID"))
}
