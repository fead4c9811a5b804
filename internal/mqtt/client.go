package mqtt

import (
	"context"
	"fmt"
	"mqtt-onoff/internal/config/components"
	"sync"

	pahomqtt "github.com/eclipse/paho.mqtt.golang"
	"github.com/rs/zerolog"
)

// subscribeFailure is the SUBACK return code for a rejected subscription.
const subscribeFailure = 0x80

// MessageHandler receives one message. It runs on the goroutine that called
// WaitMessage.
type MessageHandler func(topic string, payload []byte)

// Client exposes paho's asynchronous client as a blocking receive API:
// messages are only delivered from inside WaitMessage, one at a time.
type Client struct {
	client   pahomqtt.Client
	config   *components.BrokerConfigImpl
	clientID string
	logger   zerolog.Logger

	messages chan pahomqtt.Message
	done     chan struct{}
	lost     chan struct{}
	lostErr  error

	closeOnce sync.Once
	lostOnce  sync.Once

	mu        sync.RWMutex
	handler   MessageHandler
	connected bool
}

func NewClient(cfg *components.BrokerConfigImpl, clientID string, logger zerolog.Logger) *Client {
	c := &Client{
		config:   cfg,
		clientID: clientID,
		logger:   logger,
		messages: make(chan pahomqtt.Message),
		done:     make(chan struct{}),
		lost:     make(chan struct{}),
	}

	opts := buildClientOptions(cfg, clientID)
	opts.SetOnConnectHandler(c.onConnect)
	opts.SetConnectionLostHandler(c.onConnectionLost)
	opts.SetDefaultPublishHandler(c.onMessage)

	c.client = pahomqtt.NewClient(opts)
	return c
}

func (c *Client) ClientID() string {
	return c.clientID
}

func (c *Client) SetMessageHandler(handler MessageHandler) {
	c.mu.Lock()
	c.handler = handler
	c.mu.Unlock()
}

func (c *Client) Connect(ctx context.Context) error {
	token := c.client.Connect()

	select {
	case <-token.Done():
		if err := token.Error(); err != nil {
			return fmt.Errorf("%w: %s: %w", ErrConnectionFailed, c.config.GetUrl(), err)
		}
	case <-ctx.Done():
		return fmt.Errorf("%w: %s: %w", ErrConnectionFailed, c.config.GetUrl(), ctx.Err())
	}

	c.mu.Lock()
	c.connected = true
	c.mu.Unlock()

	return nil
}

func (c *Client) Subscribe(ctx context.Context, topic string) error {
	if !c.IsConnected() {
		return fmt.Errorf("%w: cannot subscribe to topic %s", ErrNotConnected, topic)
	}

	token := c.client.Subscribe(topic, c.config.QoS, c.onMessage)

	select {
	case <-token.Done():
	case <-ctx.Done():
		return fmt.Errorf("%w: %s: %w", ErrSubscribeFailed, topic, ctx.Err())
	}

	if err := token.Error(); err != nil {
		return fmt.Errorf("%w: %s: %w", ErrSubscribeFailed, topic, err)
	}
	if st, ok := token.(*pahomqtt.SubscribeToken); ok {
		if code, found := st.Result()[topic]; found && code == subscribeFailure {
			return fmt.Errorf("%w: %s: rejected by broker", ErrSubscribeFailed, topic)
		}
	}

	c.logger.Info().Str("topic", topic).Msg("Added topic subscription")
	return nil
}

// WaitMessage blocks until one message has been passed to the handler, the
// connection is lost, the client is disconnected or ctx is done.
func (c *Client) WaitMessage(ctx context.Context) error {
	select {
	case msg := <-c.messages:
		c.dispatch(msg)
		return nil
	case <-c.lost:
		return fmt.Errorf("%w: %w", ErrConnectionLost, c.lostErr)
	case <-c.done:
		return ErrNotConnected
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (c *Client) Disconnect() error {
	var err error
	c.closeOnce.Do(func() {
		close(c.done)

		if !c.client.IsConnected() {
			err = ErrNotConnected
			return
		}
		c.client.Disconnect(disconnectQuiesce)
		c.logger.Info().Msg("Disconnected from broker")
	})

	c.mu.Lock()
	c.connected = false
	c.mu.Unlock()

	return err
}

func (c *Client) IsConnected() bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.connected && c.client.IsConnected()
}

func (c *Client) dispatch(msg pahomqtt.Message) {
	c.mu.RLock()
	handler := c.handler
	c.mu.RUnlock()

	if handler == nil {
		c.logger.Warn().Str("topic", msg.Topic()).Msg("No message handler registered, dropping message")
		return
	}

	defer func() {
		if r := recover(); r != nil {
			c.logger.Error().
				Str("topic", msg.Topic()).
				Interface("panic", r).
				Msg("Message handler panic recovered")
		}
	}()

	handler(msg.Topic(), msg.Payload())
}

// onMessage runs on paho's router goroutine and hands the message over to
// WaitMessage, blocking until it is taken or the client is closed.
func (c *Client) onMessage(_ pahomqtt.Client, msg pahomqtt.Message) {
	select {
	case c.messages <- msg:
	case <-c.done:
	}
}

func (c *Client) onConnect(_ pahomqtt.Client) {
	c.mu.Lock()
	c.connected = true
	c.mu.Unlock()

	c.logger.Info().
		Str("broker", c.config.Host).
		Str("client_id", c.clientID).
		Msg("Successfully connected to broker")
}

func (c *Client) onConnectionLost(_ pahomqtt.Client, err error) {
	c.mu.Lock()
	c.connected = false
	c.mu.Unlock()

	c.lostOnce.Do(func() {
		c.lostErr = err
		close(c.lost)
	})

	c.logger.Warn().Err(err).Msg("lost connection to broker")
}

var _ BrokerClient = (*Client)(nil)
