package config

import (
	"fmt"
	"mqtt-onoff/internal/config/components"
	"mqtt-onoff/internal/interfaces"

	"github.com/joho/godotenv"
)

type Config struct {
	Station     components.StationConfigImpl     `json:"station"`
	AccessPoint components.AccessPointConfigImpl `json:"access_point"`
	Broker      components.BrokerConfigImpl      `json:"broker"`
	GPIO        components.GPIOConfigImpl        `json:"gpio"`
	Device      components.DeviceConfigImpl      `json:"device"`
	InfluxDB    components.InfluxConfigImpl      `json:"influxdb"`
	Logger      components.LoggerConfigImpl      `json:"logger"`
}

// Load reads every component from the environment (and .env, if present),
// applies defaults and returns the first validation error.
func Load() (*Config, error) {
	_ = godotenv.Load()

	config := &Config{
		Station:     components.NewStationConfig(),
		AccessPoint: components.NewAccessPointConfig(),
		Broker:      components.NewBrokerConfig(),
		GPIO:        components.NewGPIOConfig(),
		Device:      components.NewDeviceConfig(),
		InfluxDB:    components.NewInfluxConfig(),
		Logger:      components.NewLoggerConfig(),
	}

	return config, config.validate()
}

func (c *Config) validate() error {
	for _, component := range c.components() {
		if err := component.Validate(); err != nil {
			return fmt.Errorf("invalid configuration: %w", err)
		}
	}
	return nil
}

func (c *Config) components() []interfaces.Config {
	return []interfaces.Config{
		&c.Logger,
		&c.Device,
		&c.Station,
		&c.AccessPoint,
		&c.Broker,
		&c.GPIO,
		&c.InfluxDB,
	}
}
