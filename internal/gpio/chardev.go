//go:build linux

package gpio

import (
	"fmt"
	"mqtt-onoff/internal/models"
	"sync"

	"github.com/rs/zerolog"
	"github.com/warthog618/go-gpiocdev"
)

// ChardevOutput drives a line through the Linux GPIO character device.
type ChardevOutput struct {
	line   *gpiocdev.Line
	chip   string
	offset int
	logger zerolog.Logger

	mu     sync.Mutex
	closed bool
}

func NewChardevOutput(chip string, offset int, initial models.Level, logger zerolog.Logger) (*ChardevOutput, error) {
	line, err := gpiocdev.RequestLine(chip, offset,
		gpiocdev.AsOutput(int(initial)),
		gpiocdev.WithConsumer("mqtt-onoff"),
	)
	if err != nil {
		return nil, fmt.Errorf("could not request %s line %d: %w", chip, offset, err)
	}

	logger.Info().
		Str("chip", chip).
		Int("line", offset).
		Str("level", initial.String()).
		Msg("Requested output line")

	return &ChardevOutput{
		line:   line,
		chip:   chip,
		offset: offset,
		logger: logger,
	}, nil
}

func (o *ChardevOutput) Set(level models.Level) error {
	o.mu.Lock()
	defer o.mu.Unlock()

	if o.closed {
		return ErrClosed
	}
	if err := o.line.SetValue(int(level)); err != nil {
		return fmt.Errorf("could not set %s line %d: %w", o.chip, o.offset, err)
	}
	return nil
}

func (o *ChardevOutput) Get() (models.Level, error) {
	o.mu.Lock()
	defer o.mu.Unlock()

	if o.closed {
		return models.LevelOff, ErrClosed
	}
	value, err := o.line.Value()
	if err != nil {
		return models.LevelOff, fmt.Errorf("could not read %s line %d: %w", o.chip, o.offset, err)
	}
	if value == 0 {
		return models.LevelOn, nil
	}
	return models.LevelOff, nil
}

func (o *ChardevOutput) Close() error {
	o.mu.Lock()
	defer o.mu.Unlock()

	if o.closed {
		return nil
	}
	o.closed = true
	return o.line.Close()
}

var _ DigitalOutput = (*ChardevOutput)(nil)
