package influx

import (
	"context"
	"mqtt-onoff/internal/interfaces"
	"mqtt-onoff/internal/models"
	"testing"
	"time"

	"github.com/influxdata/influxdb-client-go/v2/api/write"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type capturingWriter struct {
	points []*write.Point
}

func (w *capturingWriter) WritePoint(point *write.Point) {
	w.points = append(w.points, point)
}

func TestStateWriter_RecordTransition(t *testing.T) {
	writer := &capturingWriter{}
	stateWriter := NewStateWriter(writer, "ESP-01", zerolog.Nop())

	at := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	err := stateWriter.RecordTransition(context.Background(), &interfaces.StateTransition{
		Command:   models.CommandToggle,
		Previous:  models.StateOff,
		Current:   models.StateOn,
		Level:     models.LevelOn,
		Timestamp: at,
	})
	require.NoError(t, err)

	require.Len(t, writer.points, 1)
	point := writer.points[0]
	assert.Equal(t, "output_state", point.Name())
	assert.Equal(t, at, point.Time())

	tags := map[string]string{}
	for _, tag := range point.TagList() {
		tags[tag.Key] = tag.Value
	}
	assert.Equal(t, map[string]string{"device": "ESP-01", "command": "toggle"}, tags)

	fields := map[string]interface{}{}
	for _, field := range point.FieldList() {
		fields[field.Key] = field.Value
	}
	assert.Equal(t, int64(1), fields["state"])
	assert.Equal(t, int64(0), fields["previous"])
	assert.Equal(t, int64(0), fields["level"])
}
