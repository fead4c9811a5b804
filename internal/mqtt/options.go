package mqtt

import (
	"crypto/tls"
	"mqtt-onoff/internal/config/components"
	"time"

	pahomqtt "github.com/eclipse/paho.mqtt.golang"
)

const (
	// disconnectQuiesce is how long Disconnect waits for in-flight work, in milliseconds.
	disconnectQuiesce = 250

	tlsMinVersion = tls.VersionTLS12
)

func buildClientOptions(cfg *components.BrokerConfigImpl, clientID string) *pahomqtt.ClientOptions {
	opts := pahomqtt.NewClientOptions()
	opts.AddBroker(cfg.GetUrl())
	opts.SetClientID(clientID)

	if cfg.Username != "" {
		opts.SetUsername(cfg.Username)
		opts.SetPassword(cfg.Key)
	}

	opts.SetCleanSession(true)
	opts.SetKeepAlive(cfg.KeepAlive)
	opts.SetPingTimeout(10 * time.Second)
	opts.SetConnectTimeout(cfg.ConnectTimeout)

	// A dropped connection is surfaced to the receive loop instead of being
	// repaired in the background.
	opts.SetAutoReconnect(false)
	opts.SetConnectRetry(false)
	opts.SetOrderMatters(true)

	if cfg.UseTLS {
		opts.SetTLSConfig(&tls.Config{
			MinVersion: tlsMinVersion,
			ServerName: cfg.Host,
		})
	}

	return opts
}
