// Package gpio drives the single digital output of the appliance.
package gpio

import (
	"errors"
	"mqtt-onoff/internal/models"
)

var ErrClosed = errors.New("gpio: output closed")

// DigitalOutput is one output pin. Levels are electrical, the caller owns
// the active-low mapping.
type DigitalOutput interface {
	Set(level models.Level) error
	Get() (models.Level, error)
	Close() error
}
