package components

import (
	"mqtt-onoff/internal/config/shared"
	"mqtt-onoff/internal/interfaces"
	"time"

	"github.com/joho/godotenv"
)

type StationConfig interface {
	interfaces.Config
	GetInterface() string
}

type StationConfigImpl struct {
	Interface      string        `json:"interface"`
	SSID           string        `json:"ssid"`
	Password       string        `json:"password"`
	Hostname       string        `json:"hostname"`
	PollInterval   time.Duration `json:"poll_interval"`
	ConnectTimeout time.Duration `json:"connect_timeout"`
}

func NewStationConfig() StationConfigImpl {
	config := StationConfigImpl{}
	config.Load()
	config.SetDefaults()
	return config
}

func (S *StationConfigImpl) Load() {
	_ = godotenv.Load()

	S.Interface = shared.GetEnv("STA_INTERFACE")
	S.SSID = shared.GetEnv("STA_SSID")
	S.Password = shared.GetEnv("STA_PASSWORD")
	S.Hostname = shared.GetEnv("STA_HOSTNAME")
	S.PollInterval = shared.GetEnvAsDuration("STA_POLL_INTERVAL")
	S.ConnectTimeout = shared.GetEnvAsDuration("STA_CONNECT_TIMEOUT")
}

func (S *StationConfigImpl) SetDefaults() {
	if S.Interface == "" {
		S.Interface = "wlan0"
	}
	if S.Hostname == "" {
		S.Hostname = "ESP-01"
	}
	if S.PollInterval <= 0 {
		S.PollInterval = 250 * time.Millisecond
	}
	if S.ConnectTimeout < 0 {
		S.ConnectTimeout = 0
	}
}

func (S *StationConfigImpl) Validate() error {
	if S.Interface == "" {
		return shared.NewConfigError("station", "interface", nil, "STA_INTERFACE is required")
	}
	if S.SSID == "" {
		return shared.NewConfigError("station", "ssid", nil, "STA_SSID is required")
	}
	if len(S.SSID) > 32 {
		return shared.NewConfigError("station", "ssid", S.SSID, "STA_SSID must be at most 32 bytes")
	}
	if S.Hostname == "" {
		return shared.NewConfigError("station", "hostname", nil, "STA_HOSTNAME is required")
	}
	if S.PollInterval <= 0 {
		return shared.NewConfigError("station", "poll_interval", S.PollInterval, "STA_POLL_INTERVAL must be greater than 0")
	}
	return nil
}

func (S *StationConfigImpl) GetInterface() string {
	return S.Interface
}

var _ StationConfig = (*StationConfigImpl)(nil)
