package influx

import (
	"context"
	"mqtt-onoff/internal/interfaces"

	influxdb2 "github.com/influxdata/influxdb-client-go/v2"
	"github.com/influxdata/influxdb-client-go/v2/api/write"
	"github.com/rs/zerolog"
)

const stateMeasurement = "output_state"

// PointWriter is the subset of api.WriteAPI the state writer needs.
type PointWriter interface {
	WritePoint(point *write.Point)
}

type StateWriter struct {
	writeAPI PointWriter
	device   string
	logger   zerolog.Logger
}

func NewStateWriter(writeAPI PointWriter, device string, logger zerolog.Logger) *StateWriter {
	return &StateWriter{
		writeAPI: writeAPI,
		device:   device,
		logger:   logger,
	}
}

func (w *StateWriter) RecordTransition(ctx context.Context, transition *interfaces.StateTransition) error {
	tags := map[string]string{
		"device":  w.device,
		"command": string(transition.Command),
	}

	fields := map[string]interface{}{
		"state":    int(transition.Current),
		"previous": int(transition.Previous),
		"level":    int(transition.Level),
	}

	point := influxdb2.NewPoint(stateMeasurement, tags, fields, transition.Timestamp)
	w.writeAPI.WritePoint(point)

	w.logger.Debug().
		Str("device", w.device).
		Str("state", transition.Current.String()).
		Msg("Added state transition to influxDB")

	return nil
}

var _ interfaces.IStateRecorder = (*StateWriter)(nil)
