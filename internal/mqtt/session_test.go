package mqtt

import (
	"context"
	"errors"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type scriptedClient struct {
	handler MessageHandler

	connectErr    error
	subscribeErr  error
	disconnectErr error

	steps []func(ctx context.Context, handler MessageHandler) error

	connects    int
	subscribed  []string
	disconnects int
}

func (c *scriptedClient) Connect(context.Context) error {
	c.connects++
	return c.connectErr
}

func (c *scriptedClient) Subscribe(_ context.Context, topic string) error {
	c.subscribed = append(c.subscribed, topic)
	return c.subscribeErr
}

func (c *scriptedClient) SetMessageHandler(handler MessageHandler) {
	c.handler = handler
}

func (c *scriptedClient) WaitMessage(ctx context.Context) error {
	if len(c.steps) == 0 {
		<-ctx.Done()
		return ctx.Err()
	}
	step := c.steps[0]
	c.steps = c.steps[1:]
	return step(ctx, c.handler)
}

func (c *scriptedClient) Disconnect() error {
	c.disconnects++
	return c.disconnectErr
}

func deliver(topic, payload string) func(context.Context, MessageHandler) error {
	return func(_ context.Context, handler MessageHandler) error {
		handler(topic, []byte(payload))
		return nil
	}
}

func fail(err error) func(context.Context, MessageHandler) error {
	return func(context.Context, MessageHandler) error {
		return err
	}
}

func TestSession_OpenRegistersHandlerBeforeConnect(t *testing.T) {
	client := &scriptedClient{}
	var payloads []string
	session := NewSession(client, func(_ string, payload []byte) {
		payloads = append(payloads, string(payload))
	}, zerolog.Nop())

	require.NoError(t, session.Open(context.Background()))
	require.NotNil(t, client.handler)
	assert.Equal(t, 1, client.connects)

	client.handler("t", []byte("on"))
	assert.Equal(t, []string{"on"}, payloads)
}

func TestSession_OpenFailure(t *testing.T) {
	client := &scriptedClient{connectErr: ErrConnectionFailed}
	session := NewSession(client, func(string, []byte) {}, zerolog.Nop())

	err := session.Open(context.Background())
	assert.True(t, errors.Is(err, ErrConnectionFailed))
}

func TestSession_SubscribeFailure(t *testing.T) {
	client := &scriptedClient{subscribeErr: ErrSubscribeFailed}
	session := NewSession(client, func(string, []byte) {}, zerolog.Nop())

	err := session.Subscribe(context.Background(), "alice/feeds/onoff")
	assert.True(t, errors.Is(err, ErrSubscribeFailed))
	assert.Equal(t, []string{"alice/feeds/onoff"}, client.subscribed)
}

func TestSession_RunForeverDispatchesUntilFault(t *testing.T) {
	lost := errors.New("connection reset by peer")
	client := &scriptedClient{
		steps: []func(context.Context, MessageHandler) error{
			deliver("alice/feeds/onoff", "on"),
			deliver("alice/feeds/onoff", "off"),
			fail(lost),
			deliver("alice/feeds/onoff", "never"),
		},
	}

	var payloads []string
	session := NewSession(client, func(_ string, payload []byte) {
		payloads = append(payloads, string(payload))
	}, zerolog.Nop())
	require.NoError(t, session.Open(context.Background()))

	err := session.RunForever(context.Background())

	assert.Equal(t, lost, err)
	assert.Equal(t, []string{"on", "off"}, payloads)
}

func TestSession_RunForeverStopsOnCancel(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	client := &scriptedClient{
		steps: []func(context.Context, MessageHandler) error{
			deliver("alice/feeds/onoff", "on"),
			func(context.Context, MessageHandler) error {
				cancel()
				return nil
			},
			deliver("alice/feeds/onoff", "never"),
		},
	}

	var payloads []string
	session := NewSession(client, func(_ string, payload []byte) {
		payloads = append(payloads, string(payload))
	}, zerolog.Nop())
	require.NoError(t, session.Open(ctx))

	err := session.RunForever(ctx)

	assert.True(t, errors.Is(err, context.Canceled))
	assert.Equal(t, []string{"on"}, payloads)
}

func TestSession_CloseSuppressesDisconnectErrors(t *testing.T) {
	client := &scriptedClient{disconnectErr: errors.New("broken pipe")}
	session := NewSession(client, func(string, []byte) {}, zerolog.Nop())

	assert.NotPanics(t, session.Close)
	session.Close()

	assert.Equal(t, 1, client.disconnects)
}
