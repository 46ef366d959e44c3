package infrastructure

import (
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"scoreline/internal/config"
	"scoreline/internal/shared/testutil"
)

func TestNewTelemetry_MetricsExposed(t *testing.T) {
	logger, _ := testutil.NewTestLogger(t)
	tel, err := NewTelemetry(config.TelemetryConfig{
		ServiceName:    "scoreline-test",
		TraceExporter:  "none",
		SampleRatio:    1,
		MetricsEnabled: true,
	}, logger)
	require.NoError(t, err)
	t.Cleanup(func() { _ = tel.Shutdown(context.Background()) })

	assert.Nil(t, tel.TracerProvider)
	require.NotNil(t, tel.MeterProvider)

	m, err := NewAnalysisMetrics(tel.Meter)
	require.NoError(t, err)

	ctx := context.Background()
	m.RecordAnalysis(ctx, "league", 120*time.Millisecond, nil)
	m.RecordAnalysis(ctx, "league", time.Millisecond, errors.New("boom"))
	m.RecordWorkbook(ctx, "league")
	m.RecordExcluded(ctx, 3)

	rec := httptest.NewRecorder()
	tel.MetricsHandler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	require.Equal(t, http.StatusOK, rec.Code)

	body, err := io.ReadAll(rec.Body)
	require.NoError(t, err)
	text := string(body)
	assert.Contains(t, text, "scoreline_analyses_total")
	assert.Contains(t, text, `outcome="error"`)
	assert.Contains(t, text, "scoreline_students_excluded_total")
	assert.Contains(t, text, "go_goroutines")
}

func TestNewTelemetry_Disabled(t *testing.T) {
	tel, err := NewTelemetry(config.TelemetryConfig{TraceExporter: "none"}, nil)
	require.NoError(t, err)

	assert.NotNil(t, tel.Tracer)
	assert.NotNil(t, tel.Meter)
	assert.Nil(t, tel.MeterProvider)
	assert.NoError(t, tel.Shutdown(context.Background()))

	// nil metrics are inert
	var m *AnalysisMetrics
	m.RecordAnalysis(context.Background(), "x", time.Second, nil)
}

func TestNewTelemetry_UnsupportedExporter(t *testing.T) {
	_, err := NewTelemetry(config.TelemetryConfig{TraceExporter: "zipkin"}, nil)
	assert.Error(t, err)
}

func TestRecordErrorWithoutSpan(t *testing.T) {
	assert.NotPanics(t, func() {
		RecordError(context.Background(), errors.New("x"))
		AddSpanEvent(context.Background(), "evt")
	})
}
