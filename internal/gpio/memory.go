package gpio

import (
	"mqtt-onoff/internal/models"
	"sync"
)

// MemoryOutput keeps the level in memory. Used on hosts without a GPIO chip.
type MemoryOutput struct {
	mu     sync.Mutex
	level  models.Level
	writes int
	closed bool
}

func NewMemoryOutput(initial models.Level) *MemoryOutput {
	return &MemoryOutput{level: initial}
}

func (o *MemoryOutput) Set(level models.Level) error {
	o.mu.Lock()
	defer o.mu.Unlock()

	if o.closed {
		return ErrClosed
	}
	o.level = level
	o.writes++
	return nil
}

func (o *MemoryOutput) Get() (models.Level, error) {
	o.mu.Lock()
	defer o.mu.Unlock()

	if o.closed {
		return models.LevelOff, ErrClosed
	}
	return o.level, nil
}

// Writes returns how many times Set succeeded.
func (o *MemoryOutput) Writes() int {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.writes
}

func (o *MemoryOutput) Close() error {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.closed = true
	return nil
}

var _ DigitalOutput = (*MemoryOutput)(nil)
