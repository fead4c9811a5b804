// Package appliance sequences network bring-up, the broker session and the
// receive loop, and decides how each fault ends the process.
package appliance

import (
	"context"
	"errors"
	"mqtt-onoff/internal/config/components"
	"mqtt-onoff/internal/device"
	"mqtt-onoff/internal/models"
	"mqtt-onoff/internal/network"

	"github.com/rs/zerolog"
)

type StationManager interface {
	BringUp(ctx context.Context, cfg components.StationConfigImpl) (models.ConnectionInfo, error)
}

type AccessPointManager interface {
	BringUp(ctx context.Context, cfg components.AccessPointConfigImpl) error
}

type Session interface {
	Open(ctx context.Context) error
	Subscribe(ctx context.Context, topic string) error
	RunForever(ctx context.Context) error
	Close()
}

type Options struct {
	Station     components.StationConfigImpl
	AccessPoint components.AccessPointConfigImpl
	Broker      components.BrokerConfigImpl
	Topic       string

	// BeforeReset runs right before the device is reset, e.g. to flush
	// buffered telemetry. A successful reset never returns to the caller.
	BeforeReset func()
}

type Driver struct {
	options     Options
	station     StationManager
	accessPoint AccessPointManager
	session     Session
	resetter    device.Resetter
	logger      zerolog.Logger

	phase Phase
	fault *Fault
}

func NewDriver(options Options, station StationManager, accessPoint AccessPointManager, session Session, resetter device.Resetter, logger zerolog.Logger) *Driver {
	return &Driver{
		options:     options,
		station:     station,
		accessPoint: accessPoint,
		session:     session,
		resetter:    resetter,
		logger:      logger,
		phase:       PhaseBooting,
	}
}

func (d *Driver) Phase() Phase {
	return d.phase
}

// Fault returns the fault that ended Run, or nil after a clean shutdown.
func (d *Driver) Fault() *Fault {
	return d.fault
}

// Run blocks until the process should end and returns its exit code.
// Cancelling ctx is the operator interrupt. A transport fault resets the
// device; Run only returns ExitReset if the reset itself returned.
func (d *Driver) Run(ctx context.Context) int {
	d.enter(PhaseBooting)

	info, err := d.station.BringUp(ctx, d.options.Station)
	if err != nil {
		if ctx.Err() != nil {
			return d.shutdown()
		}
		// Association timeouts may clear after a reboot. Anything else, such
		// as an interface that never activates, would only loop.
		if errors.Is(err, network.ErrConnectFailed) {
			return d.reset(&Fault{Kind: TransportFault, Phase: PhaseBooting, Err: err})
		}
		d.logger.Error().Err(err).Str("interface", d.options.Station.Interface).Msg("could not bring up station")
		return d.terminate(&Fault{Kind: ConfigFault, Phase: PhaseBooting, Err: err})
	}
	d.enter(PhaseStationUp)
	d.logger.Debug().Str("address", info.Address.String()).Msg("Station interface is up")

	if d.options.AccessPoint.Enabled {
		if err := d.accessPoint.BringUp(ctx, d.options.AccessPoint); err != nil {
			d.logger.Warn().Err(err).Msg("Access point setup failed, continuing")
		}
	}

	if err := d.session.Open(ctx); err != nil {
		if ctx.Err() != nil {
			return d.shutdown()
		}
		d.logger.Error().Err(err).Str("host", d.options.Broker.Host).Msg("could not connect to MQTT server")
		return d.terminate(&Fault{Kind: ConfigFault, Phase: PhaseSessionOpen, Err: err})
	}
	d.enter(PhaseSessionOpen)

	if err := d.session.Subscribe(ctx, d.options.Topic); err != nil {
		d.session.Close()
		if ctx.Err() != nil {
			return d.shutdown()
		}
		d.logger.Error().Err(err).Str("topic", d.options.Topic).Msg("could not subscribe to feed")
		return d.terminate(&Fault{Kind: ConfigFault, Phase: PhaseSubscribed, Err: err})
	}
	d.enter(PhaseSubscribed)

	d.logger.Info().
		Str("host", d.options.Broker.Host).
		Str("feed", d.options.Broker.FeedName).
		Msgf("Connected to %s, subscribed to %s feed", d.options.Broker.Host, d.options.Broker.FeedName)

	d.enter(PhaseRunning)
	err = d.session.RunForever(ctx)
	d.session.Close()

	if ctx.Err() != nil || errors.Is(err, context.Canceled) {
		d.logger.Info().Msg("Interrupt received...exiting")
		return d.shutdown()
	}

	return d.reset(&Fault{Kind: TransportFault, Phase: PhaseRunning, Err: err})
}

func (d *Driver) enter(phase Phase) {
	d.phase = phase
	d.logger.Debug().Str("phase", phase.String()).Msg("Entering phase")
}

func (d *Driver) shutdown() int {
	d.enter(PhaseShuttingDown)
	return ExitOK
}

func (d *Driver) terminate(fault *Fault) int {
	d.fault = fault
	d.enter(PhaseTerminated)
	return ExitConfigFault
}

func (d *Driver) reset(fault *Fault) int {
	d.fault = fault
	d.logger.Error().Err(fault.Err).Str("fault", fault.Kind.String()).Msg("Resetting device")
	d.enter(PhaseResetting)

	if d.options.BeforeReset != nil {
		d.options.BeforeReset()
	}
	if err := d.resetter.Reset(); err != nil {
		d.logger.Error().Err(err).Msg("Device reset failed")
	}
	return ExitReset
}
