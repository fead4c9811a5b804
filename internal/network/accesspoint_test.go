package network

import (
	"context"
	"errors"
	"mqtt-onoff/internal/config/components"
	"mqtt-onoff/internal/models"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeAccessPointDriver struct {
	activated    bool
	settings     []AccessPointSettings
	configureErr error
}

func (d *fakeAccessPointDriver) ActivateAccessPoint(context.Context) error {
	d.activated = true
	return nil
}

func (d *fakeAccessPointDriver) ConfigureAccessPoint(_ context.Context, settings AccessPointSettings) error {
	d.settings = append(d.settings, settings)
	return d.configureErr
}

func testAccessPointConfig() components.AccessPointConfigImpl {
	return components.AccessPointConfigImpl{
		Enabled:  true,
		SSID:     "MPonoff",
		Password: "password123",
		Channel:  11,
		AuthMode: int(models.AuthWPA2PSK),
	}
}

func TestAccessPointManager_AppliesSettingsInOneCall(t *testing.T) {
	driver := &fakeAccessPointDriver{}
	manager := NewAccessPointManager(driver, zerolog.Nop())

	require.NoError(t, manager.BringUp(context.Background(), testAccessPointConfig()))

	assert.True(t, driver.activated)
	require.Len(t, driver.settings, 1)
	assert.Equal(t, AccessPointSettings{
		SSID:     "MPonoff",
		Password: "password123",
		Channel:  11,
		AuthMode: models.AuthWPA2PSK,
	}, driver.settings[0])
}

func TestAccessPointManager_ConfigureError(t *testing.T) {
	driver := &fakeAccessPointDriver{configureErr: errors.New("unsupported channel")}
	manager := NewAccessPointManager(driver, zerolog.Nop())

	err := manager.BringUp(context.Background(), testAccessPointConfig())
	assert.ErrorContains(t, err, "unsupported channel")
}
