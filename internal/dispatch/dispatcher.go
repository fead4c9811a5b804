// Package dispatch maps feed payloads onto output state transitions.
package dispatch

import (
	"bytes"
	"mqtt-onoff/internal/models"
)

var (
	payloadOn     = []byte("on")
	payloadOff    = []byte("off")
	payloadToggle = []byte("toggle")
)

// Transition is the result of applying one payload to the current state.
// Write reports whether Level has to be driven onto the pin.
type Transition struct {
	Command models.Command
	Next    models.OutputState
	Level   models.Level
	Write   bool
}

// ParseCommand matches the payload byte for byte; "ON" or "on\n" are unrecognized.
func ParseCommand(payload []byte) models.Command {
	cmd := models.Command{Type: models.CommandUnrecognized, Payload: payload}
	switch {
	case bytes.Equal(payload, payloadOn):
		cmd.Type = models.CommandOn
	case bytes.Equal(payload, payloadOff):
		cmd.Type = models.CommandOff
	case bytes.Equal(payload, payloadToggle):
		cmd.Type = models.CommandToggle
	}
	return cmd
}

func Apply(current models.OutputState, payload []byte) Transition {
	cmd := ParseCommand(payload)

	next := current
	switch cmd.Type {
	case models.CommandOn:
		next = models.StateOn
	case models.CommandOff:
		next = models.StateOff
	case models.CommandToggle:
		next = current.Invert()
	default:
		return Transition{Command: cmd, Next: current, Level: current.Level()}
	}

	return Transition{
		Command: cmd,
		Next:    next,
		Level:   next.Level(),
		Write:   true,
	}
}
