package main

import (
	"context"
	"fmt"
	"mqtt-onoff/internal/appliance"
	"mqtt-onoff/internal/config"
	"mqtt-onoff/internal/config/components"
	"mqtt-onoff/internal/database/influx"
	"mqtt-onoff/internal/device"
	"mqtt-onoff/internal/gpio"
	"mqtt-onoff/internal/interfaces"
	"mqtt-onoff/internal/logger"
	"mqtt-onoff/internal/models"
	"mqtt-onoff/internal/mqtt"
	"mqtt-onoff/internal/mqtt/handlers"
	"mqtt-onoff/internal/network"
	"mqtt-onoff/internal/network/host"
	"mqtt-onoff/internal/network/nmcli"
	"mqtt-onoff/internal/services"
	"os"
	"os/signal"
	"syscall"

	"github.com/rs/zerolog/log"
)

type Application struct {
	config *config.Config

	output   gpio.DigitalOutput
	influxDB *influx.InfluxDB

	outputService  *services.OutputService
	commandHandler *handlers.CommandHandler

	stationManager     *network.StationManager
	accessPointManager *network.AccessPointManager

	mqttClient   *mqtt.Client
	topicManager *mqtt.TopicManager
	session      *mqtt.Session

	resetter device.Resetter
	driver   *appliance.Driver

	shutdownChan chan os.Signal
	ctx          context.Context
	cancelFunc   context.CancelFunc
}

func main() {
	app := &Application{}

	if err := app.initialize(); err != nil {
		log.Fatal().Err(err).Msg("Failed to initialize application")
	}

	os.Exit(app.run())
}

func (app *Application) initialize() error {
	var err error

	app.config, err = config.Load()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	logger.NewLogger(app.config.Logger)
	log.Info().
		Str("component", "main").
		Str("version", app.config.Device.Version).
		Msg("Setting up device...")

	app.ctx, app.cancelFunc = context.WithCancel(context.Background())
	app.shutdownChan = make(chan os.Signal, 1)
	signal.Notify(app.shutdownChan, syscall.SIGINT, syscall.SIGTERM)

	if err := app.initializeOutput(); err != nil {
		return fmt.Errorf("error while initializing output: %w", err)
	}

	if err := app.initializeNetwork(); err != nil {
		return fmt.Errorf("error while initializing network: %w", err)
	}

	if err := app.initializeMQTT(); err != nil {
		return fmt.Errorf("error while initializing MQTT: %w", err)
	}

	app.initializeDriver()

	log.Info().Msg("Successfully initialized application")
	return nil
}

func (app *Application) initializeOutput() error {
	var err error

	switch app.config.GPIO.Driver {
	case components.GPIODriverMemory:
		app.output = gpio.NewMemoryOutput(models.LevelOff)
	default:
		app.output, err = gpio.NewChardevOutput(
			app.config.GPIO.Chip,
			app.config.GPIO.Line,
			models.LevelOff,
			logger.GetLogger("gpio"),
		)
		if err != nil {
			return err
		}
	}

	var recorder interfaces.IStateRecorder
	if app.config.InfluxDB.Enabled {
		app.influxDB, err = influx.NewConnection(context.Background(), &app.config.InfluxDB, logger.GetLogger("influxdb"))
		if err != nil {
			log.Warn().Err(err).Msg("InfluxDB unavailable, state transitions will not be recorded")
		} else {
			recorder = influx.NewStateWriter(
				app.influxDB.GetWriteAPI(),
				app.config.Station.Hostname,
				logger.GetLogger("state-writer"),
			)
		}
	}

	app.outputService = services.NewOutputService(app.output, recorder, logger.GetLogger("output-service"))
	if err := app.outputService.Initialize(); err != nil {
		return err
	}

	log.Info().
		Str("component", "main").
		Str("driver", app.config.GPIO.Driver).
		Msg("Successfully initialized output")
	return nil
}

func (app *Application) initializeNetwork() error {
	var (
		stationDriver network.StationDriver
		accessDriver  network.AccessPointDriver
	)

	switch app.config.Device.NetworkDriver {
	case components.NetworkDriverHost:
		driver := host.NewDriver(app.config.Station.Interface, logger.GetLogger("host-network"))
		stationDriver, accessDriver = driver, driver
	default:
		driver := nmcli.NewDriver(
			nmcli.ExecRunner,
			app.config.Station.Interface,
			app.config.AccessPoint.Interface,
			logger.GetLogger("nmcli"),
		)
		stationDriver, accessDriver = driver, driver
	}

	app.stationManager = network.NewStationManager(stationDriver, logger.GetLogger("station"))
	app.accessPointManager = network.NewAccessPointManager(accessDriver, logger.GetLogger("access-point"))

	switch app.config.Device.ResetMode {
	case components.ResetModeExit:
		app.resetter = device.NewExitResetter(logger.GetLogger("reset"))
	default:
		app.resetter = device.NewRebootResetter(logger.GetLogger("reset"))
	}

	return nil
}

func (app *Application) initializeMQTT() error {
	identity := device.NewIdentitySource(app.config.Station.Interface)
	clientID, stable := identity.ClientID()
	if !stable {
		log.Warn().Str("client_id", clientID).Msg("No hardware identifier found, using a random client id")
	}

	app.topicManager = mqtt.NewTopicManager(app.config.Broker.Username)
	app.commandHandler = handlers.NewCommandHandler(
		app.outputService,
		app.topicManager,
		app.config.Broker.FeedName,
		logger.GetLogger("command-handler"),
	)
	app.mqttClient = mqtt.NewClient(&app.config.Broker, clientID, logger.GetLogger("mqtt-client"))
	app.session = mqtt.NewSession(app.mqttClient, app.commandHandler.HandleMessage, logger.GetLogger("session"))

	log.Info().
		Str("component", "main").
		Str("broker", app.config.Broker.GetUrl()).
		Str("client_id", clientID).
		Msg("Successfully initialized MQTT client")
	return nil
}

func (app *Application) initializeDriver() {
	options := appliance.Options{
		Station:     app.config.Station,
		AccessPoint: app.config.AccessPoint,
		Broker:      app.config.Broker,
		Topic:       app.topicManager.FeedTopic(app.config.Broker.FeedName),
		BeforeReset: app.flushTelemetry,
	}

	app.driver = appliance.NewDriver(
		options,
		app.stationManager,
		app.accessPointManager,
		app.session,
		app.resetter,
		logger.GetLogger("driver"),
	)
}

func (app *Application) run() int {
	go func() {
		select {
		case sig := <-app.shutdownChan:
			log.Info().Str("signal", sig.String()).Msg("Received shutdown signal")
			app.cancelFunc()
		case <-app.ctx.Done():
		}
	}()

	code := app.driver.Run(app.ctx)
	app.shutdown()
	return code
}

// flushTelemetry writes out buffered state transitions. A reset does not
// return, so shutdown never runs on that path.
func (app *Application) flushTelemetry() {
	if app.influxDB != nil {
		app.influxDB.Flush()
	}
}

func (app *Application) shutdown() {
	signal.Stop(app.shutdownChan)

	if app.influxDB != nil {
		app.influxDB.Close()
	}

	if app.output != nil {
		if err := app.output.Close(); err != nil {
			log.Error().Err(err).Msg("Error releasing output")
		}
	}

	app.cancelFunc()
}
