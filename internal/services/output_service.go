package services

import (
	"context"
	"fmt"
	"mqtt-onoff/internal/dispatch"
	"mqtt-onoff/internal/gpio"
	"mqtt-onoff/internal/interfaces"
	"mqtt-onoff/internal/models"
	"time"

	"github.com/rs/zerolog"
)

// OutputService owns the output state and the pin it is mirrored on.
// It is not safe for concurrent use; the receive loop serializes calls.
type OutputService struct {
	output   gpio.DigitalOutput
	recorder interfaces.IStateRecorder
	logger   zerolog.Logger

	state models.OutputState
}

// NewOutputService starts in StateOff. recorder may be nil.
func NewOutputService(output gpio.DigitalOutput, recorder interfaces.IStateRecorder, logger zerolog.Logger) *OutputService {
	return &OutputService{
		output:   output,
		recorder: recorder,
		logger:   logger,
		state:    models.StateOff,
	}
}

// Initialize drives the pin to the level of the boot state.
func (s *OutputService) Initialize() error {
	if err := s.output.Set(s.state.Level()); err != nil {
		return fmt.Errorf("could not initialize output: %w", err)
	}
	return nil
}

func (s *OutputService) State() models.OutputState {
	return s.state
}

// Apply runs the payload through the dispatcher, writes the pin and only then
// commits the new state. A failed write leaves the state unchanged.
func (s *OutputService) Apply(ctx context.Context, payload []byte) (dispatch.Transition, error) {
	transition := dispatch.Apply(s.state, payload)
	if !transition.Write {
		return transition, nil
	}

	if err := s.output.Set(transition.Level); err != nil {
		return transition, fmt.Errorf("could not drive output %s: %w", transition.Next, err)
	}

	previous := s.state
	s.state = transition.Next

	s.logger.Info().
		Str("command", string(transition.Command.Type)).
		Str("previous", previous.String()).
		Str("state", s.state.String()).
		Str("level", transition.Level.String()).
		Msg("Output updated")

	if s.recorder != nil {
		record := &interfaces.StateTransition{
			Command:   transition.Command.Type,
			Previous:  previous,
			Current:   s.state,
			Level:     transition.Level,
			Timestamp: time.Now(),
		}
		if err := s.recorder.RecordTransition(ctx, record); err != nil {
			s.logger.Warn().Err(err).Msg("Could not record state transition")
		}
	}

	return transition, nil
}
