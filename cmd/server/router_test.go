package main

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
	"go.opentelemetry.io/otel/attribute"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"
)

func TestServerSpansAreNamedByRoute(t *testing.T) {
	spans := tracetest.NewSpanRecorder()
	tp := sdktrace.NewTracerProvider(sdktrace.WithSpanProcessor(spans))
	t.Cleanup(func() { _ = tp.Shutdown(context.Background()) })

	r := chi.NewRouter()
	r.Use(routeSpanName)
	r.Route("/api/tasks", func(r chi.Router) {
		r.Get("/{id}", func(w http.ResponseWriter, _ *http.Request) {
			w.WriteHeader(http.StatusOK)
		})
	})
	h := instrumentHandler(r, otelhttp.WithTracerProvider(tp))

	for _, target := range []string{"/api/tasks/1", "/api/tasks/2", "/nowhere"} {
		h.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, target, nil))
	}

	ended := spans.Ended()
	require.Len(t, ended, 3)
	assert.Equal(t, "GET /api/tasks/{id}", ended[0].Name())
	assert.Equal(t, "GET /api/tasks/{id}", ended[1].Name())
	assert.Equal(t, "HTTP GET", ended[2].Name())
	assert.Contains(t, ended[0].Attributes(), attribute.String("http.route", "/api/tasks/{id}"))
}
