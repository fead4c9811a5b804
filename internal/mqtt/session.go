package mqtt

import (
	"context"
	"fmt"
	"sync"

	"github.com/rs/zerolog"
)

// BrokerClient is the broker capability a Session drives.
type BrokerClient interface {
	Connect(ctx context.Context) error
	Subscribe(ctx context.Context, topic string) error
	SetMessageHandler(handler MessageHandler)
	WaitMessage(ctx context.Context) error
	Disconnect() error
}

// Session owns one broker connection for the lifetime of the process.
type Session struct {
	client  BrokerClient
	handler MessageHandler
	logger  zerolog.Logger

	closeOnce sync.Once
}

func NewSession(client BrokerClient, handler MessageHandler, logger zerolog.Logger) *Session {
	return &Session{
		client:  client,
		handler: handler,
		logger:  logger,
	}
}

// Open registers the message handler and connects.
func (s *Session) Open(ctx context.Context) error {
	s.client.SetMessageHandler(s.handler)

	if err := s.client.Connect(ctx); err != nil {
		return fmt.Errorf("could not connect to broker: %w", err)
	}
	return nil
}

func (s *Session) Subscribe(ctx context.Context, topic string) error {
	if err := s.client.Subscribe(ctx, topic); err != nil {
		return fmt.Errorf("could not subscribe to %s: %w", topic, err)
	}
	return nil
}

// RunForever handles messages one after another until WaitMessage fails or
// ctx is cancelled. It always returns a non-nil error.
func (s *Session) RunForever(ctx context.Context) error {
	for {
		if err := ctx.Err(); err != nil {
			return err
		}
		if err := s.client.WaitMessage(ctx); err != nil {
			return err
		}
	}
}

// Close disconnects once. Disconnect errors are logged, never returned.
func (s *Session) Close() {
	s.closeOnce.Do(func() {
		if err := s.client.Disconnect(); err != nil {
			s.logger.Debug().Err(err).Msg("Disconnect failed, ignoring")
		}
	})
}
