//go:build !linux

package gpio

import (
	"errors"
	"mqtt-onoff/internal/models"

	"github.com/rs/zerolog"
)

var ErrChardevUnsupported = errors.New("GPIO character device is only available on linux, use GPIO_DRIVER=memory")

// ChardevOutput cannot be requested outside linux.
type ChardevOutput struct{}

func NewChardevOutput(chip string, offset int, initial models.Level, logger zerolog.Logger) (*ChardevOutput, error) {
	return nil, ErrChardevUnsupported
}

func (o *ChardevOutput) Set(models.Level) error { return ErrChardevUnsupported }

func (o *ChardevOutput) Get() (models.Level, error) { return models.LevelOff, ErrChardevUnsupported }

func (o *ChardevOutput) Close() error { return nil }

var _ DigitalOutput = (*ChardevOutput)(nil)
