package components

import (
	"mqtt-onoff/internal/config/shared"
	"mqtt-onoff/internal/interfaces"
	"strings"
)

type LoggerConfig interface {
	interfaces.Config
}

type LoggerConfigImpl struct {
	Level  string `json:"level"`
	Format string `json:"format"`
}

func NewLoggerConfig() LoggerConfigImpl {
	config := LoggerConfigImpl{}
	config.Load()
	config.SetDefaults()
	return config
}

func (L *LoggerConfigImpl) Load() {
	L.Level = strings.ToLower(shared.GetEnv("LOG_LEVEL"))
	L.Format = strings.ToLower(shared.GetEnv("LOG_FORMAT"))
}

func (L *LoggerConfigImpl) SetDefaults() {
	if L.Level == "" {
		L.Level = "info"
	}
	if L.Format == "" {
		L.Format = "console"
	}
}

func (L *LoggerConfigImpl) Validate() error {
	switch L.Level {
	case "debug", "info", "warn", "error", "fatal":
	default:
		return shared.NewConfigError("logger", "level", L.Level, "LOG_LEVEL must be one of: debug, info, warn, error, fatal")
	}

	if L.Format != "console" && L.Format != "json" {
		return shared.NewConfigError("logger", "format", L.Format, "LOG_FORMAT must be one of: console, json")
	}

	return nil
}

var _ LoggerConfig = (*LoggerConfigImpl)(nil)
