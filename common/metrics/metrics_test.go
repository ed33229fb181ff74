package metrics_test

import (
	"context"
	"database/sql"
	"errors"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/Narendra1431-dot/Portfolio-web-development/common/metrics"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/metric/metricdata"
)

func setupMeter(t *testing.T) (*metrics.Metrics, *sdkmetric.ManualReader) {
	t.Helper()
	reader := sdkmetric.NewManualReader()
	provider := sdkmetric.NewMeterProvider(sdkmetric.WithReader(reader))
	t.Cleanup(func() { _ = provider.Shutdown(context.Background()) })

	m, err := metrics.New(provider.Meter("test"), slog.New(slog.NewTextHandler(io.Discard, nil)))
	require.NoError(t, err)
	return m, reader
}

func collect(t *testing.T, reader *sdkmetric.ManualReader) map[string]metricdata.Metrics {
	t.Helper()
	var rm metricdata.ResourceMetrics
	require.NoError(t, reader.Collect(context.Background(), &rm))

	out := make(map[string]metricdata.Metrics)
	for _, sm := range rm.ScopeMetrics {
		for _, m := range sm.Metrics {
			out[m.Name] = m
		}
	}
	return out
}

func sumInt64(t *testing.T, m metricdata.Metrics) int64 {
	t.Helper()
	sum, ok := m.Data.(metricdata.Sum[int64])
	require.True(t, ok, "metric %s is not an int64 sum", m.Name)
	var total int64
	for _, dp := range sum.DataPoints {
		total += dp.Value
	}
	return total
}

func TestDatabaseMetrics(t *testing.T) {
	m, reader := setupMeter(t)
	ctx := context.Background()

	m.Database.RecordQuery(ctx, "insert", "contacts", 3*time.Millisecond, nil)
	m.Database.RecordQuery(ctx, "select", "projects", 2*time.Millisecond, sql.ErrNoRows)
	m.Database.RecordQuery(ctx, "select", "projects", time.Second, context.DeadlineExceeded)

	got := collect(t, reader)

	require.Contains(t, got, "db.query.duration")
	hist, ok := got["db.query.duration"].Data.(metricdata.Histogram[float64])
	require.True(t, ok)
	var count uint64
	for _, dp := range hist.DataPoints {
		count += dp.Count
	}
	assert.Equal(t, uint64(3), count)

	require.Contains(t, got, "db.query.errors")
	assert.Equal(t, int64(1), sumInt64(t, got["db.query.errors"]))
}

func TestMessagingMetrics(t *testing.T) {
	m, reader := setupMeter(t)
	ctx := context.Background()

	m.Messaging.RecordPublish(ctx, "nats", "portfolio.contacts.submitted", time.Millisecond, nil)
	m.Messaging.RecordPublish(ctx, "nats", "portfolio.contacts.submitted", time.Millisecond, errors.New("no responders"))

	got := collect(t, reader)
	assert.Equal(t, int64(1), sumInt64(t, got["messaging.messages.published"]))
	assert.Equal(t, int64(1), sumInt64(t, got["messaging.publish.errors"]))
}

func TestHealthMetrics(t *testing.T) {
	m, reader := setupMeter(t)
	ctx := context.Background()

	require.NoError(t, m.Health.RegisterDependencies(m.Meter, "database"))
	m.Health.RecordDependencyCheck(ctx, "database", time.Millisecond, nil)

	got := collect(t, reader)
	require.Contains(t, got, "dependency.up")
	gauge, ok := got["dependency.up"].Data.(metricdata.Gauge[int64])
	require.True(t, ok)
	require.Len(t, gauge.DataPoints, 1)
	assert.Equal(t, int64(1), gauge.DataPoints[0].Value)
}

func TestNewMock(t *testing.T) {
	m := metrics.NewMock()
	ctx := context.Background()

	assert.NotPanics(t, func() {
		m.Database.RecordQuery(ctx, "insert", "contacts", time.Millisecond, errors.New("boom"))
		m.Database.RecordConnectionAcquire(ctx, time.Millisecond, nil)
		m.Messaging.RecordPublish(ctx, "kafka", "topic", time.Millisecond, nil)
		m.Health.RecordDependencyCheck(ctx, "database", time.Millisecond, nil)
	})
}
