package observability_test

import (
	"bytes"
	"context"
	"sync"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/zatekoja/saunabooking/internal/infrastructure/observability"
	otellog "go.opentelemetry.io/otel/log"
	sdklog "go.opentelemetry.io/otel/sdk/log"
)

type memoryExporter struct {
	mu      sync.Mutex
	records []sdklog.Record
}

func (e *memoryExporter) Export(_ context.Context, records []sdklog.Record) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	for _, r := range records {
		e.records = append(e.records, r.Clone())
	}
	return nil
}

func (e *memoryExporter) Shutdown(context.Context) error   { return nil }
func (e *memoryExporter) ForceFlush(context.Context) error { return nil }

func TestOTelLogHook_EmitsRecords(t *testing.T) {
	exporter := &memoryExporter{}
	provider := sdklog.NewLoggerProvider(sdklog.WithProcessor(sdklog.NewSimpleProcessor(exporter)))
	defer provider.Shutdown(context.Background())

	var out bytes.Buffer
	logger := zerolog.New(&out).Hook(observability.NewOTelLogHook(provider.Logger("test")))

	logger.Info().Str("booking_id", "b-1").Msg("Booking created")
	logger.Warn().Msg("Cache circuit state changed")

	require.Len(t, exporter.records, 2)
	assert.Equal(t, "Booking created", exporter.records[0].Body().AsString())
	assert.Equal(t, otellog.SeverityInfo, exporter.records[0].Severity())
	assert.Equal(t, "info", exporter.records[0].SeverityText())
	assert.Equal(t, otellog.SeverityWarn, exporter.records[1].Severity())
	assert.Contains(t, out.String(), `"booking_id":"b-1"`)
}
