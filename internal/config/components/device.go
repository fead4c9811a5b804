package components

import (
	"mqtt-onoff/internal/config/shared"
	"mqtt-onoff/internal/interfaces"
	"strings"
)

const (
	NetworkDriverNmcli = "nmcli"
	NetworkDriverHost  = "host"

	ResetModeReboot = "reboot"
	ResetModeExit   = "exit"
)

type DeviceConfig interface {
	interfaces.Config
}

type DeviceConfigImpl struct {
	Name          string `json:"name"`
	Version       string `json:"version"`
	NetworkDriver string `json:"network_driver"`
	ResetMode     string `json:"reset_mode"`
}

func NewDeviceConfig() DeviceConfigImpl {
	config := DeviceConfigImpl{}
	config.Load()
	config.SetDefaults()
	return config
}

func (D *DeviceConfigImpl) Load() {
	D.Name = shared.GetEnv("SERVICE_NAME")
	D.Version = shared.GetEnv("SERVICE_VERSION")
	D.NetworkDriver = strings.ToLower(shared.GetEnv("NETWORK_DRIVER"))
	D.ResetMode = strings.ToLower(shared.GetEnv("RESET_MODE"))
}

func (D *DeviceConfigImpl) SetDefaults() {
	if D.Name == "" {
		D.Name = "mqtt-onoff"
	}
	if D.Version == "" {
		D.Version = "1.0.0"
	}
	if D.NetworkDriver == "" {
		D.NetworkDriver = NetworkDriverNmcli
	}
	if D.ResetMode == "" {
		D.ResetMode = ResetModeReboot
	}
}

func (D *DeviceConfigImpl) Validate() error {
	if D.NetworkDriver != NetworkDriverNmcli && D.NetworkDriver != NetworkDriverHost {
		return shared.NewConfigError("device", "network_driver", D.NetworkDriver, "NETWORK_DRIVER must be one of: nmcli, host")
	}
	if D.ResetMode != ResetModeReboot && D.ResetMode != ResetModeExit {
		return shared.NewConfigError("device", "reset_mode", D.ResetMode, "RESET_MODE must be one of: reboot, exit")
	}
	return nil
}

var _ DeviceConfig = (*DeviceConfigImpl)(nil)
