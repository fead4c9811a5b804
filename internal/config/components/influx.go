package components

import (
	"mqtt-onoff/internal/config/shared"
	"mqtt-onoff/internal/interfaces"
	"strings"
)

type InfluxConfig interface {
	interfaces.Config
	GetUrl() string
}

type InfluxConfigImpl struct {
	Enabled      bool   `json:"enabled"`
	URL          string `json:"url"`
	Token        string `json:"token"`
	Organization string `json:"organization"`
	Bucket       string `json:"bucket"`
}

func NewInfluxConfig() InfluxConfigImpl {
	config := InfluxConfigImpl{}
	config.Load()
	config.SetDefaults()
	return config
}

func (I *InfluxConfigImpl) Load() {
	I.Enabled = shared.GetEnvAsBool("INFLUXDB_ENABLED", false)
	I.URL = shared.GetEnv("INFLUXDB_URL")
	I.Token = shared.GetEnv("INFLUXDB_TOKEN")
	I.Organization = shared.GetEnv("INFLUXDB_ORG")
	I.Bucket = shared.GetEnv("INFLUXDB_BUCKET")
}

func (I *InfluxConfigImpl) SetDefaults() {
	if I.URL == "" {
		I.URL = "http://localhost:8086"
	}
	if I.Organization == "" {
		I.Organization = "home"
	}
	if I.Bucket == "" {
		I.Bucket = "onoff"
	}
}

func (I *InfluxConfigImpl) Validate() error {
	if !I.Enabled {
		return nil
	}
	if !strings.HasPrefix(I.URL, "http://") && !strings.HasPrefix(I.URL, "https://") {
		return shared.NewConfigError("influxdb", "url", I.URL, "INFLUXDB_URL must start with http:// or https://")
	}
	if I.Token == "" {
		return shared.NewConfigError("influxdb", "token", nil, "INFLUXDB_TOKEN is required when INFLUXDB_ENABLED is set")
	}
	if I.Organization == "" {
		return shared.NewConfigError("influxdb", "organization", nil, "INFLUXDB_ORG is required")
	}
	if I.Bucket == "" {
		return shared.NewConfigError("influxdb", "bucket", nil, "INFLUXDB_BUCKET is required")
	}
	return nil
}

func (I *InfluxConfigImpl) GetUrl() string {
	return I.URL
}

var _ InfluxConfig = (*InfluxConfigImpl)(nil)
