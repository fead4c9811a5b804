package mqtt

import "errors"

var (
	// ErrNotConnected is returned when the client has no broker connection.
	ErrNotConnected = errors.New("mqtt: client not connected")

	// ErrConnectionFailed is returned when the connect handshake fails or times out.
	ErrConnectionFailed = errors.New("mqtt: connection failed")

	// ErrSubscribeFailed is returned when the broker rejects or does not acknowledge a subscription.
	ErrSubscribeFailed = errors.New("mqtt: subscribe failed")

	// ErrConnectionLost is returned by WaitMessage once the established connection drops.
	ErrConnectionLost = errors.New("mqtt: connection lost")
)
