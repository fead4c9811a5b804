package interfaces

import (
	"context"
	"mqtt-onoff/internal/models"
	"time"
)

// StateTransition describes one committed change of the output.
type StateTransition struct {
	Command   models.CommandType `json:"command"`
	Previous  models.OutputState `json:"previous"`
	Current   models.OutputState `json:"current"`
	Level     models.Level       `json:"level"`
	Timestamp time.Time          `json:"timestamp"`
}

type IStateRecorder interface {
	RecordTransition(ctx context.Context, transition *StateTransition) error
}
