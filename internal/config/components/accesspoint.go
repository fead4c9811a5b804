package components

import (
	"mqtt-onoff/internal/config/shared"
	"mqtt-onoff/internal/interfaces"
	"mqtt-onoff/internal/models"
)

type AccessPointConfig interface {
	interfaces.Config
	GetAuthMode() models.AuthMode
}

type AccessPointConfigImpl struct {
	Enabled   bool   `json:"enabled"`
	Interface string `json:"interface"`
	SSID      string `json:"ssid"`
	Password  string `json:"password"`
	Channel   int    `json:"channel"`
	AuthMode  int    `json:"auth_mode"`

	authModeSet bool
	authModeRaw string
	authModeErr error
}

func NewAccessPointConfig() AccessPointConfigImpl {
	config := AccessPointConfigImpl{}
	config.Load()
	config.SetDefaults()
	return config
}

func (A *AccessPointConfigImpl) Load() {
	A.Enabled = shared.GetEnvAsBool("AP_ENABLED", true)
	A.Interface = shared.GetEnv("AP_INTERFACE")
	A.SSID = shared.GetEnv("AP_SSID")
	A.Password = shared.GetEnv("AP_PASSWORD")
	A.Channel = shared.GetEnvAsInt("AP_CHANNEL")

	// 0 is a valid auth mode (open), so presence is tracked separately.
	A.AuthMode, A.authModeRaw, A.authModeErr = shared.ParseEnvAsInt("AP_AUTHMODE")
	A.authModeSet = A.authModeRaw != ""
}

func (A *AccessPointConfigImpl) SetDefaults() {
	if A.Interface == "" {
		A.Interface = "wlan1"
	}
	if A.SSID == "" {
		A.SSID = "MPonoff"
	}
	if A.Channel == 0 {
		A.Channel = 11
	}
	if !A.authModeSet {
		A.AuthMode = int(models.AuthWPA2PSK)
		A.authModeSet = true
	}
}

func (A *AccessPointConfigImpl) Validate() error {
	if !A.Enabled {
		return nil
	}
	if A.SSID == "" {
		return shared.NewConfigError("access_point", "ssid", nil, "AP_SSID is required")
	}
	if A.Channel < 1 || A.Channel > 13 {
		return shared.NewConfigError("access_point", "channel", A.Channel, "AP_CHANNEL must be between 1 and 13")
	}

	if A.authModeErr != nil {
		return shared.NewConfigError("access_point", "auth_mode", A.authModeRaw, "AP_AUTHMODE must be a number between 0 and 4")
	}

	mode := models.AuthMode(A.AuthMode)
	if !mode.Valid() {
		return shared.NewConfigError("access_point", "auth_mode", A.AuthMode, "AP_AUTHMODE must be between 0 and 4")
	}

	switch mode {
	case models.AuthOpen:
	case models.AuthWEP:
		if n := len(A.Password); n != 5 && n != 13 {
			return shared.NewConfigError("access_point", "password", nil, "WEP key must be 5 or 13 characters")
		}
	default:
		if n := len(A.Password); n < 8 || n > 63 {
			return shared.NewConfigError("access_point", "password", nil, "WPA passphrase must be 8 to 63 characters")
		}
	}

	return nil
}

func (A *AccessPointConfigImpl) GetAuthMode() models.AuthMode {
	return models.AuthMode(A.AuthMode)
}

var _ AccessPointConfig = (*AccessPointConfigImpl)(nil)
