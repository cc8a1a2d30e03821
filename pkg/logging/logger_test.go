package logging

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newBufferLogger(level LogLevel) (*Logger, *bytes.Buffer) {
	var buf bytes.Buffer
	return New(&Config{
		Level:       level,
		ServiceName: "fulfillment-test",
		Environment: "test",
		Version:     "0.0.1",
		Output:      &buf,
	}), &buf
}

func lastRecord(t *testing.T, buf *bytes.Buffer) map[string]any {
	t.Helper()
	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	var record map[string]any
	require.NoError(t, json.Unmarshal([]byte(lines[len(lines)-1]), &record))
	return record
}

func TestParseLevel(t *testing.T) {
	tests := map[string]LogLevel{
		"debug":   LevelDebug,
		" WARN ":  LevelWarn,
		"warning": LevelWarn,
		"error":   LevelError,
		"":        LevelInfo,
		"verbose": LevelInfo,
	}
	for in, want := range tests {
		assert.Equal(t, want, ParseLevel(in), in)
	}
}

func TestLogger_ContextAttributes(t *testing.T) {
	logger, buf := newBufferLogger(LevelInfo)

	ctx := ContextWithRequestID(context.Background(), "req-1")
	ctx = ContextWithCorrelationID(ctx, "corr-1")
	logger.WithContext(ctx).WithOrder("ORD-1").Info("hello")

	record := lastRecord(t, buf)
	assert.Equal(t, "fulfillment-test", record["service"])
	assert.Equal(t, "test", record["environment"])
	assert.Equal(t, "req-1", record["requestId"])
	assert.Equal(t, "corr-1", record["correlationId"])
	assert.Equal(t, "ORD-1", record["orderId"])
	assert.Equal(t, "corr-1", CorrelationIDFromContext(ctx))
}

func TestLogger_Audit(t *testing.T) {
	logger, buf := newBufferLogger(LevelInfo)

	logger.Audit(context.Background(), "workflow_action.rejected", "order", "ORD-2", map[string]any{"action": "rush_escalation"})

	record := lastRecord(t, buf)
	assert.Equal(t, "Audit event", record["msg"])
	assert.Equal(t, "workflow_action.rejected", record["auditAction"])
	assert.Equal(t, "ORD-2", record["resourceId"])
	assert.Equal(t, "rush_escalation", record["action"])
}

func TestLogger_LevelFiltering(t *testing.T) {
	logger, buf := newBufferLogger(LevelWarn)

	logger.Performance(context.Background(), "rank_queue", 0, true, nil)
	logger.Info("dropped")
	assert.Empty(t, buf.String())

	logger.KafkaPublish(context.Background(), "apparel.fulfillment.events", "x", 0, errors.New("broker down"))
	record := lastRecord(t, buf)
	assert.Equal(t, "ERROR", record["level"])
	assert.Equal(t, "broker down", record["error"])
}

func TestDiscard(t *testing.T) {
	assert.NotPanics(t, func() { Discard().Error("nothing") })
}
