// Package network brings up the station and access point WLAN interfaces.
//
// The radio itself is managed by a Driver; the managers here only sequence
// driver calls, poll for association and report what they did.
package network

import (
	"context"
	"errors"
	"mqtt-onoff/internal/models"
)

var (
	// ErrConnectFailed is returned when the station did not associate before
	// the configured connect timeout.
	ErrConnectFailed = errors.New("network: station connect failed")

	// ErrActivateFailed is returned when the station interface could not be
	// activated before the configured connect timeout. It points at the host
	// (missing tooling, wrong interface) rather than at the network.
	ErrActivateFailed = errors.New("network: station activation failed")
)

type StationDriver interface {
	ActivateStation(ctx context.Context) error
	SetHostname(ctx context.Context, hostname string) error
	IsConnected(ctx context.Context) (bool, error)
	Connect(ctx context.Context, ssid, password string) error
	IPConfig(ctx context.Context) (models.ConnectionInfo, error)
}

// AccessPointSettings is applied in a single driver call.
type AccessPointSettings struct {
	SSID     string
	Password string
	Channel  int
	AuthMode models.AuthMode
}

type AccessPointDriver interface {
	ActivateAccessPoint(ctx context.Context) error
	ConfigureAccessPoint(ctx context.Context, settings AccessPointSettings) error
}
