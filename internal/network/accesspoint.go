package network

import (
	"context"
	"fmt"
	"mqtt-onoff/internal/config/components"

	"github.com/rs/zerolog"
)

type AccessPointManager struct {
	driver AccessPointDriver
	logger zerolog.Logger
}

func NewAccessPointManager(driver AccessPointDriver, logger zerolog.Logger) *AccessPointManager {
	return &AccessPointManager{
		driver: driver,
		logger: logger,
	}
}

// BringUp activates the access point and applies its settings. It does not
// wait for clients or confirm the network is visible.
func (m *AccessPointManager) BringUp(ctx context.Context, cfg components.AccessPointConfigImpl) error {
	if err := m.driver.ActivateAccessPoint(ctx); err != nil {
		return fmt.Errorf("could not activate access point interface: %w", err)
	}

	settings := AccessPointSettings{
		SSID:     cfg.SSID,
		Password: cfg.Password,
		Channel:  cfg.Channel,
		AuthMode: cfg.GetAuthMode(),
	}
	if err := m.driver.ConfigureAccessPoint(ctx, settings); err != nil {
		return fmt.Errorf("could not configure access point %q: %w", cfg.SSID, err)
	}

	m.logger.Info().
		Str("ssid", settings.SSID).
		Int("channel", settings.Channel).
		Str("auth_mode", settings.AuthMode.String()).
		Msg("Access point configured")

	return nil
}
