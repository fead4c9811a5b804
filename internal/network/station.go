package network

import (
	"context"
	"fmt"
	"mqtt-onoff/internal/config/components"
	"mqtt-onoff/internal/models"
	"time"

	"github.com/rs/zerolog"
)

type StationManager struct {
	driver StationDriver
	logger zerolog.Logger
}

func NewStationManager(driver StationDriver, logger zerolog.Logger) *StationManager {
	return &StationManager{
		driver: driver,
		logger: logger,
	}
}

// BringUp activates the station interface and blocks until it is associated.
// With a zero ConnectTimeout it only returns early when ctx is cancelled;
// activation and association are both retried until then.
func (m *StationManager) BringUp(ctx context.Context, cfg components.StationConfigImpl) (models.ConnectionInfo, error) {
	waitCtx := ctx
	if cfg.ConnectTimeout > 0 {
		var cancel context.CancelFunc
		waitCtx, cancel = context.WithTimeout(ctx, cfg.ConnectTimeout)
		defer cancel()
	}

	ticker := time.NewTicker(cfg.PollInterval)
	defer ticker.Stop()

	if err := m.activate(ctx, waitCtx, ticker, cfg); err != nil {
		return models.ConnectionInfo{}, err
	}

	if err := m.driver.SetHostname(ctx, cfg.Hostname); err != nil {
		m.logger.Warn().Err(err).Str("hostname", cfg.Hostname).Msg("Could not apply hostname")
	}

	connected, err := m.driver.IsConnected(ctx)
	if err != nil {
		m.logger.Debug().Err(err).Msg("Could not query station state")
	}

	if !connected {
		m.logger.Info().Str("ssid", cfg.SSID).Msg("connecting to network...")

		if err := m.driver.Connect(ctx, cfg.SSID, cfg.Password); err != nil {
			m.logger.Warn().Err(err).Str("ssid", cfg.SSID).Msg("Connect request failed, waiting for association")
		}

		if err := m.waitConnected(ctx, waitCtx, ticker, cfg); err != nil {
			return models.ConnectionInfo{}, err
		}
	}

	info, err := m.driver.IPConfig(ctx)
	if err != nil {
		m.logger.Warn().Err(err).Msg("Could not read IP configuration")
	}

	m.logger.Info().
		Str("address", info.Address.String()).
		Str("gateway", info.Gateway.String()).
		Msgf("network config: %s", info)

	return info, nil
}

func (m *StationManager) activate(ctx, waitCtx context.Context, ticker *time.Ticker, cfg components.StationConfigImpl) error {
	for attempt := 1; ; attempt++ {
		err := m.driver.ActivateStation(waitCtx)
		if err == nil {
			if attempt > 1 {
				m.logger.Info().Int("attempts", attempt).Msg("Station interface activated")
			}
			return nil
		}

		if attempt == 1 {
			m.logger.Warn().Err(err).Str("interface", cfg.Interface).Msg("Could not activate station interface, retrying")
		} else {
			m.logger.Debug().Err(err).Int("attempt", attempt).Msg("Station activation failed")
		}

		select {
		case <-waitCtx.Done():
			if err := ctx.Err(); err != nil {
				return err
			}
			return fmt.Errorf("%w: %s after %v: %w", ErrActivateFailed, cfg.Interface, cfg.ConnectTimeout, err)
		case <-ticker.C:
		}
	}
}

func (m *StationManager) waitConnected(ctx, waitCtx context.Context, ticker *time.Ticker, cfg components.StationConfigImpl) error {
	for {
		connected, err := m.driver.IsConnected(waitCtx)
		if err != nil {
			m.logger.Debug().Err(err).Msg("Could not query station state")
		}
		if connected {
			return nil
		}

		select {
		case <-waitCtx.Done():
			if err := ctx.Err(); err != nil {
				return err
			}
			return fmt.Errorf("%w: not associated with %q after %v", ErrConnectFailed, cfg.SSID, cfg.ConnectTimeout)
		case <-ticker.C:
		}
	}
}
