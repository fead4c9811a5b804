package components

import (
	"fmt"
	"mqtt-onoff/internal/config/shared"
	"mqtt-onoff/internal/interfaces"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

type BrokerConfig interface {
	interfaces.Config
	GetUrl() string
}

type BrokerConfigImpl struct {
	Host           string        `json:"host"`
	Port           int           `json:"port"`
	Username       string        `json:"username"`
	Key            string        `json:"key"`
	FeedName       string        `json:"feed_name"`
	UseTLS         bool          `json:"use_tls"`
	QoS            byte          `json:"qos"`
	KeepAlive      time.Duration `json:"keep_alive"`
	ConnectTimeout time.Duration `json:"connect_timeout"`

	qos    int
	qosRaw string
	qosErr error
}

func NewBrokerConfig() BrokerConfigImpl {
	config := BrokerConfigImpl{}
	config.Load()
	config.SetDefaults()
	return config
}

func (B *BrokerConfigImpl) Load() {
	_ = godotenv.Load()

	B.Host = shared.GetEnv("AIO_HOST")
	B.Port = shared.GetEnvAsInt("AIO_PORT")
	B.Username = shared.GetEnv("AIO_USERNAME")
	B.Key = shared.GetEnv("AIO_KEY")
	B.FeedName = shared.GetEnv("AIO_FEEDNAME")
	B.UseTLS = shared.GetEnvAsBool("AIO_USE_TLS", false)
	B.qos, B.qosRaw, B.qosErr = shared.ParseEnvAsInt("MQTT_QOS")
	if B.qos >= 0 && B.qos <= 2 {
		B.QoS = byte(B.qos)
	}
	B.KeepAlive = shared.GetEnvAsDuration("MQTT_KEEP_ALIVE")
	B.ConnectTimeout = shared.GetEnvAsDuration("MQTT_CONNECT_TIMEOUT")
}

func (B *BrokerConfigImpl) SetDefaults() {
	if B.Host == "" {
		B.Host = "io.adafruit.com"
	}
	if B.Port == 0 {
		if B.UseTLS {
			B.Port = 8883
		} else {
			B.Port = 1883
		}
	}
	if B.FeedName == "" {
		B.FeedName = "onoff"
	}
	if B.KeepAlive == 0 {
		B.KeepAlive = 60 * time.Second
	}
	if B.ConnectTimeout == 0 {
		B.ConnectTimeout = 10 * time.Second
	}

	B.FeedName = strings.Trim(B.FeedName, "/")
}

func (B *BrokerConfigImpl) Validate() error {
	if B.Host == "" {
		return shared.NewConfigError("broker", "host", nil, "AIO_HOST is required")
	}
	if B.Port <= 0 || B.Port > 65535 {
		return shared.NewConfigError("broker", "port", B.Port, "AIO_PORT must be between 1 and 65535")
	}
	if B.Username == "" {
		return shared.NewConfigError("broker", "username", nil, "AIO_USERNAME is required")
	}
	if strings.ContainsAny(B.Username, "/+#") {
		return shared.NewConfigError("broker", "username", B.Username, "AIO_USERNAME must not contain topic separators or wildcards")
	}
	if B.FeedName == "" || strings.ContainsAny(B.FeedName, "+#") {
		return shared.NewConfigError("broker", "feed_name", B.FeedName, "AIO_FEEDNAME must be a plain feed name")
	}
	if B.qosErr != nil {
		return shared.NewConfigError("broker", "qos", B.qosRaw, "MQTT_QOS must be 0, 1, or 2")
	}
	if B.qos < 0 || B.qos > 2 {
		return shared.NewConfigError("broker", "qos", B.qos, "MQTT_QOS must be 0, 1, or 2")
	}
	if B.QoS > 2 {
		return shared.NewConfigError("broker", "qos", B.QoS, "MQTT_QOS must be 0, 1, or 2")
	}
	if B.KeepAlive < 0 {
		return shared.NewConfigError("broker", "keep_alive", B.KeepAlive, "MQTT_KEEP_ALIVE cannot be negative")
	}
	if B.ConnectTimeout < 0 {
		return shared.NewConfigError("broker", "connect_timeout", B.ConnectTimeout, "MQTT_CONNECT_TIMEOUT cannot be negative")
	}
	return nil
}

func (B *BrokerConfigImpl) GetUrl() string {
	scheme := "tcp"
	if B.UseTLS {
		scheme = "ssl"
	}
	return fmt.Sprintf("%s://%s:%d", scheme, B.Host, B.Port)
}

var _ BrokerConfig = (*BrokerConfigImpl)(nil)
