package components

import (
	"mqtt-onoff/internal/config/shared"
	"mqtt-onoff/internal/interfaces"
	"strings"
)

const (
	GPIODriverChardev = "chardev"
	GPIODriverMemory  = "memory"
)

type GPIOConfig interface {
	interfaces.Config
}

type GPIOConfigImpl struct {
	Driver string `json:"driver"`
	Chip   string `json:"chip"`
	Line   int    `json:"line"`

	lineSet bool
}

func NewGPIOConfig() GPIOConfigImpl {
	config := GPIOConfigImpl{}
	config.Load()
	config.SetDefaults()
	return config
}

func (G *GPIOConfigImpl) Load() {
	G.Driver = strings.ToLower(shared.GetEnv("GPIO_DRIVER"))
	G.Chip = shared.GetEnv("GPIO_CHIP")
	G.lineSet = shared.GetEnv("GPIO_LINE") != ""
	G.Line = shared.GetEnvAsInt("GPIO_LINE")
}

func (G *GPIOConfigImpl) SetDefaults() {
	if G.Driver == "" {
		G.Driver = GPIODriverChardev
	}
	if G.Chip == "" {
		G.Chip = "gpiochip0"
	}
	// Sonoff relay boards wire the status LED to GPIO13.
	if !G.lineSet {
		G.Line = 13
		G.lineSet = true
	}
}

func (G *GPIOConfigImpl) Validate() error {
	if G.Driver != GPIODriverChardev && G.Driver != GPIODriverMemory {
		return shared.NewConfigError("gpio", "driver", G.Driver, "GPIO_DRIVER must be one of: chardev, memory")
	}
	if G.Driver == GPIODriverChardev && G.Chip == "" {
		return shared.NewConfigError("gpio", "chip", nil, "GPIO_CHIP is required")
	}
	if G.Line < 0 {
		return shared.NewConfigError("gpio", "line", G.Line, "GPIO_LINE cannot be negative")
	}
	return nil
}

var _ GPIOConfig = (*GPIOConfigImpl)(nil)
