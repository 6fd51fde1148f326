package resources

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	otelog "go.opentelemetry.io/otel/log"
)

func TestToAttributes(t *testing.T) {
	t.Parallel()

	kvs := toAttributes(map[string]any{
		"component": "rest-server",
		"ok":        true,
		"count":     float64(3),
		"ratio":     0.5,
	})

	got := make(map[string]otelog.Value, len(kvs))
	for _, kv := range kvs {
		got[kv.Key] = kv.Value
	}

	assert.Equal(t, "rest-server", got["component"].AsString())
	assert.True(t, got["ok"].AsBool())
	assert.Equal(t, int64(3), got["count"].AsInt64())
	assert.InDelta(t, 0.5, got["ratio"].AsFloat64(), 0.0001)
}

func TestRecordTime(t *testing.T) {
	t.Parallel()

	t.Run("rfc3339", func(t *testing.T) {
		t.Parallel()

		got := recordTime(map[string]any{"time": "2025-03-15T14:30:00Z"})
		assert.Equal(t, time.Date(2025, 3, 15, 14, 30, 0, 0, time.UTC), got.UTC())
	})

	t.Run("missing or malformed falls back to now", func(t *testing.T) {
		t.Parallel()

		before := time.Now()
		assert.False(t, recordTime(map[string]any{}).Before(before))
		assert.False(t, recordTime(map[string]any{"time": "ayer"}).Before(before))
	})
}

func TestEventFields_Nil(t *testing.T) {
	t.Parallel()

	_, ok := eventFields(nil)
	assert.False(t, ok)
}
