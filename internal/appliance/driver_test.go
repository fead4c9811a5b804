package appliance_test

import (
	"context"
	"errors"
	"fmt"
	"mqtt-onoff/internal/appliance"
	"mqtt-onoff/internal/config/components"
	"mqtt-onoff/internal/gpio"
	"mqtt-onoff/internal/models"
	"mqtt-onoff/internal/mqtt"
	"mqtt-onoff/internal/mqtt/handlers"
	"mqtt-onoff/internal/network"
	"mqtt-onoff/internal/services"
	"net"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

const feedTopic = "alice/feeds/onoff"

type mockResetter struct {
	mock.Mock
}

func (m *mockResetter) Reset() error {
	args := m.Called()
	return args.Error(0)
}

type fakeStation struct {
	err   error
	calls int
}

func (s *fakeStation) BringUp(context.Context, components.StationConfigImpl) (models.ConnectionInfo, error) {
	s.calls++
	if s.err != nil {
		return models.ConnectionInfo{}, s.err
	}
	return models.ConnectionInfo{Address: net.ParseIP("192.168.1.20")}, nil
}

type fakeAccessPoint struct {
	calls int
	err   error
}

func (a *fakeAccessPoint) BringUp(context.Context, components.AccessPointConfigImpl) error {
	a.calls++
	return a.err
}

type step func(ctx context.Context, handler mqtt.MessageHandler) error

// fakeBroker plays a fixed script from WaitMessage and then blocks until ctx ends.
type fakeBroker struct {
	handler mqtt.MessageHandler

	connectErr    error
	subscribeErr  error
	disconnectErr error
	script        []step

	subscribed  []string
	disconnects int
}

func (b *fakeBroker) Connect(context.Context) error { return b.connectErr }

func (b *fakeBroker) Subscribe(_ context.Context, topic string) error {
	b.subscribed = append(b.subscribed, topic)
	return b.subscribeErr
}

func (b *fakeBroker) SetMessageHandler(handler mqtt.MessageHandler) { b.handler = handler }

func (b *fakeBroker) WaitMessage(ctx context.Context) error {
	if len(b.script) == 0 {
		<-ctx.Done()
		return ctx.Err()
	}
	next := b.script[0]
	b.script = b.script[1:]
	return next(ctx, b.handler)
}

func (b *fakeBroker) Disconnect() error {
	b.disconnects++
	return b.disconnectErr
}

func publish(payload string) step {
	return func(_ context.Context, handler mqtt.MessageHandler) error {
		handler(feedTopic, []byte(payload))
		return nil
	}
}

func fault(err error) step {
	return func(context.Context, mqtt.MessageHandler) error {
		return err
	}
}

type fixture struct {
	station     *fakeStation
	accessPoint *fakeAccessPoint
	broker      *fakeBroker
	output      *gpio.MemoryOutput
	service     *services.OutputService
	resetter    *mockResetter
	driver      *appliance.Driver
}

func newFixture(t *testing.T, broker *fakeBroker, configure ...func(*appliance.Options)) *fixture {
	t.Helper()

	f := &fixture{
		station:     &fakeStation{},
		accessPoint: &fakeAccessPoint{},
		broker:      broker,
		output:      gpio.NewMemoryOutput(models.LevelOff),
		resetter:    &mockResetter{},
	}

	f.service = services.NewOutputService(f.output, nil, zerolog.Nop())
	require.NoError(t, f.service.Initialize())

	handler := handlers.NewCommandHandler(f.service, mqtt.NewTopicManager("alice"), "onoff", zerolog.Nop())
	session := mqtt.NewSession(broker, handler.HandleMessage, zerolog.Nop())

	options := appliance.Options{
		AccessPoint: components.AccessPointConfigImpl{Enabled: true, SSID: "MPonoff", Channel: 11},
		Broker:      components.BrokerConfigImpl{Host: "io.adafruit.com", FeedName: "onoff"},
		Topic:       feedTopic,
	}
	for _, fn := range configure {
		fn(&options)
	}
	f.driver = appliance.NewDriver(options, f.station, f.accessPoint, session, f.resetter, zerolog.Nop())
	return f
}

func TestDriver_ToggleDrivesOutputOn(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	broker := &fakeBroker{script: []step{
		publish("toggle"),
		func(context.Context, mqtt.MessageHandler) error {
			cancel()
			return context.Canceled
		},
	}}
	f := newFixture(t, broker)

	code := f.driver.Run(ctx)

	assert.Equal(t, appliance.ExitOK, code)
	assert.Equal(t, 1, f.station.calls)
	assert.Equal(t, 1, f.accessPoint.calls)
	assert.Equal(t, []string{feedTopic}, broker.subscribed)

	level, err := f.output.Get()
	require.NoError(t, err)
	assert.Equal(t, models.Level(0), level)
	assert.Equal(t, models.StateOn, f.service.State())
}

func TestDriver_ConnectFailureTerminatesWithoutReset(t *testing.T) {
	broker := &fakeBroker{connectErr: mqtt.ErrConnectionFailed}
	f := newFixture(t, broker)

	code := f.driver.Run(context.Background())

	assert.Equal(t, appliance.ExitConfigFault, code)
	assert.NotEqual(t, 0, code)
	assert.Equal(t, appliance.PhaseTerminated, f.driver.Phase())
	require.NotNil(t, f.driver.Fault())
	assert.Equal(t, appliance.ConfigFault, f.driver.Fault().Kind)
	assert.True(t, errors.Is(f.driver.Fault(), mqtt.ErrConnectionFailed))
	assert.Empty(t, broker.subscribed)
	f.resetter.AssertNotCalled(t, "Reset")
}

func TestDriver_SubscribeFailureTerminatesWithoutReset(t *testing.T) {
	broker := &fakeBroker{subscribeErr: mqtt.ErrSubscribeFailed}
	f := newFixture(t, broker)

	code := f.driver.Run(context.Background())

	assert.Equal(t, appliance.ExitConfigFault, code)
	assert.Equal(t, appliance.ConfigFault, f.driver.Fault().Kind)
	assert.Equal(t, 1, broker.disconnects)
	f.resetter.AssertNotCalled(t, "Reset")
}

func TestDriver_TransportFaultResetsOnce(t *testing.T) {
	broker := &fakeBroker{
		disconnectErr: errors.New("socket closed"),
		script: []step{
			publish("on"),
			fault(mqtt.ErrConnectionLost),
		},
	}
	f := newFixture(t, broker)
	f.resetter.On("Reset").Return(nil)

	code := f.driver.Run(context.Background())

	assert.Equal(t, appliance.ExitReset, code)
	assert.Equal(t, appliance.PhaseResetting, f.driver.Phase())
	assert.Equal(t, appliance.TransportFault, f.driver.Fault().Kind)
	assert.Equal(t, 1, broker.disconnects, "disconnect is attempted even though it fails")
	f.resetter.AssertNumberOfCalls(t, "Reset", 1)
	assert.Equal(t, models.StateOn, f.service.State())
}

func TestDriver_ResetErrorIsLogged(t *testing.T) {
	broker := &fakeBroker{script: []step{fault(errors.New("i/o timeout"))}}
	f := newFixture(t, broker)
	f.resetter.On("Reset").Return(errors.New("operation not permitted"))

	code := f.driver.Run(context.Background())

	assert.Equal(t, appliance.ExitReset, code)
	f.resetter.AssertNumberOfCalls(t, "Reset", 1)
}

func TestDriver_InterruptExitsCleanly(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())

	broker := &fakeBroker{script: []step{
		publish("on"),
		publish("off"),
		func(context.Context, mqtt.MessageHandler) error {
			cancel()
			return nil
		},
	}}
	f := newFixture(t, broker)

	code := f.driver.Run(ctx)

	assert.Equal(t, appliance.ExitOK, code)
	assert.Equal(t, appliance.PhaseShuttingDown, f.driver.Phase())
	assert.Nil(t, f.driver.Fault())
	assert.Equal(t, 1, broker.disconnects)
	f.resetter.AssertNotCalled(t, "Reset")
	assert.Equal(t, models.StateOff, f.service.State())
}

func TestDriver_AccessPointFailureDoesNotBlockSession(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	broker := &fakeBroker{}
	f := newFixture(t, broker)
	f.accessPoint.err = errors.New("no such device")

	code := f.driver.Run(ctx)

	assert.Equal(t, appliance.ExitOK, code)
	assert.Equal(t, []string{feedTopic}, broker.subscribed)
}

func TestDriver_StationTimeoutResets(t *testing.T) {
	broker := &fakeBroker{}
	f := newFixture(t, broker)
	f.station.err = network.ErrConnectFailed
	f.resetter.On("Reset").Return(nil)

	code := f.driver.Run(context.Background())

	assert.Equal(t, appliance.ExitReset, code)
	assert.Equal(t, appliance.TransportFault, f.driver.Fault().Kind)
	assert.Equal(t, 0, broker.disconnects)
	f.resetter.AssertNumberOfCalls(t, "Reset", 1)
}

func TestDriver_StationActivationFailureTerminatesWithoutReset(t *testing.T) {
	broker := &fakeBroker{}
	f := newFixture(t, broker)
	f.station.err = fmt.Errorf("could not activate station interface: %w",
		errors.New(`exec: "nmcli": executable file not found in $PATH`))

	code := f.driver.Run(context.Background())

	assert.Equal(t, appliance.ExitConfigFault, code)
	assert.Equal(t, appliance.PhaseTerminated, f.driver.Phase())
	require.NotNil(t, f.driver.Fault())
	assert.Equal(t, appliance.ConfigFault, f.driver.Fault().Kind)
	assert.Equal(t, appliance.PhaseBooting, f.driver.Fault().Phase)
	assert.Equal(t, 0, f.accessPoint.calls)
	assert.Empty(t, broker.subscribed)
	f.resetter.AssertNotCalled(t, "Reset")
}

func TestDriver_StationActivationTimeoutTerminatesWithoutReset(t *testing.T) {
	f := newFixture(t, &fakeBroker{})
	f.station.err = fmt.Errorf("%w: wlan0 after 30s: rfkill", network.ErrActivateFailed)

	code := f.driver.Run(context.Background())

	assert.Equal(t, appliance.ExitConfigFault, code)
	assert.True(t, errors.Is(f.driver.Fault(), network.ErrActivateFailed))
	f.resetter.AssertNotCalled(t, "Reset")
}

func TestDriver_BeforeResetRunsBeforeReset(t *testing.T) {
	var order []string

	broker := &fakeBroker{script: []step{
		publish("on"),
		fault(mqtt.ErrConnectionLost),
	}}
	f := newFixture(t, broker, func(o *appliance.Options) {
		o.BeforeReset = func() { order = append(order, "flush") }
	})
	f.resetter.On("Reset").Run(func(mock.Arguments) {
		order = append(order, "reset")
	}).Return(nil)

	code := f.driver.Run(context.Background())

	assert.Equal(t, appliance.ExitReset, code)
	assert.Equal(t, []string{"flush", "reset"}, order)
}

func TestDriver_BeforeResetNotCalledOnCleanExit(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	called := false
	f := newFixture(t, &fakeBroker{}, func(o *appliance.Options) {
		o.BeforeReset = func() { called = true }
	})

	assert.Equal(t, appliance.ExitOK, f.driver.Run(ctx))
	assert.False(t, called)
}
