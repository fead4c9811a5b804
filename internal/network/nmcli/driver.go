// Package nmcli drives WLAN interfaces through NetworkManager's command line client.
package nmcli

import (
	"bufio"
	"bytes"
	"context"
	"fmt"
	"mqtt-onoff/internal/models"
	"mqtt-onoff/internal/network"
	"net"
	"os/exec"
	"strconv"
	"strings"

	"github.com/rs/zerolog"
)

const accessPointConnection = "mqtt-onoff-ap"

// Runner executes nmcli with the given arguments and returns its stdout.
type Runner func(ctx context.Context, args ...string) ([]byte, error)

func ExecRunner(ctx context.Context, args ...string) ([]byte, error) {
	cmd := exec.CommandContext(ctx, "nmcli", args...)
	var stderr bytes.Buffer
	cmd.Stderr = &stderr

	out, err := cmd.Output()
	if err != nil {
		return out, fmt.Errorf("nmcli %s: %w: %s", strings.Join(redact(args), " "), err, strings.TrimSpace(stderr.String()))
	}
	return out, nil
}

type Driver struct {
	run       Runner
	stationIf string
	accessIf  string
	logger    zerolog.Logger
}

func NewDriver(run Runner, stationIf, accessIf string, logger zerolog.Logger) *Driver {
	if run == nil {
		run = ExecRunner
	}
	return &Driver{
		run:       run,
		stationIf: stationIf,
		accessIf:  accessIf,
		logger:    logger,
	}
}

func (d *Driver) ActivateStation(ctx context.Context) error {
	if _, err := d.run(ctx, "radio", "wifi", "on"); err != nil {
		return err
	}
	_, err := d.run(ctx, "device", "set", d.stationIf, "managed", "yes")
	return err
}

func (d *Driver) SetHostname(ctx context.Context, hostname string) error {
	_, err := d.run(ctx, "general", "hostname", hostname)
	return err
}

func (d *Driver) IsConnected(ctx context.Context) (bool, error) {
	out, err := d.run(ctx, "-t", "-f", "DEVICE,STATE", "device", "status")
	if err != nil {
		return false, err
	}

	scanner := bufio.NewScanner(bytes.NewReader(out))
	for scanner.Scan() {
		fields := splitTerse(scanner.Text())
		if len(fields) < 2 || fields[0] != d.stationIf {
			continue
		}
		return fields[1] == "connected", nil
	}
	return false, scanner.Err()
}

// Connect asks NetworkManager to associate without waiting; the caller polls
// IsConnected.
func (d *Driver) Connect(ctx context.Context, ssid, password string) error {
	args := []string{"--wait", "0", "device", "wifi", "connect", ssid}
	if password != "" {
		args = append(args, "password", password)
	}
	args = append(args, "ifname", d.stationIf)

	_, err := d.run(ctx, args...)
	return err
}

func (d *Driver) IPConfig(ctx context.Context) (models.ConnectionInfo, error) {
	out, err := d.run(ctx, "-t", "-f", "IP4.ADDRESS,IP4.GATEWAY,IP4.DNS", "device", "show", d.stationIf)
	if err != nil {
		return models.ConnectionInfo{}, err
	}
	return parseIPConfig(out)
}

func (d *Driver) ActivateAccessPoint(ctx context.Context) error {
	_, err := d.run(ctx, "radio", "wifi", "on")
	return err
}

// ConfigureAccessPoint replaces the access point connection profile and
// activates it.
func (d *Driver) ConfigureAccessPoint(ctx context.Context, settings network.AccessPointSettings) error {
	if _, err := d.run(ctx, "connection", "delete", accessPointConnection); err != nil {
		d.logger.Debug().Err(err).Msg("No previous access point profile")
	}

	if _, err := d.run(ctx, accessPointArgs(d.accessIf, settings)...); err != nil {
		return err
	}

	_, err := d.run(ctx, "--wait", "0", "connection", "up", accessPointConnection)
	return err
}

func accessPointArgs(iface string, settings network.AccessPointSettings) []string {
	args := []string{
		"connection", "add",
		"type", "wifi",
		"ifname", iface,
		"con-name", accessPointConnection,
		"autoconnect", "no",
		"ssid", settings.SSID,
		"802-11-wireless.mode", "ap",
		"802-11-wireless.band", "bg",
		"802-11-wireless.channel", strconv.Itoa(settings.Channel),
		"ipv4.method", "shared",
	}

	switch settings.AuthMode {
	case models.AuthOpen:
	case models.AuthWEP:
		args = append(args,
			"wifi-sec.key-mgmt", "none",
			"wifi-sec.wep-key-type", "1",
			"wifi-sec.wep-key0", settings.Password,
		)
	case models.AuthWPAPSK:
		args = append(args, "wifi-sec.key-mgmt", "wpa-psk", "wifi-sec.proto", "wpa", "wifi-sec.psk", settings.Password)
	case models.AuthWPA2PSK:
		args = append(args, "wifi-sec.key-mgmt", "wpa-psk", "wifi-sec.proto", "rsn", "wifi-sec.psk", settings.Password)
	case models.AuthWPAWPA2PSK:
		args = append(args, "wifi-sec.key-mgmt", "wpa-psk", "wifi-sec.proto", "wpa,rsn", "wifi-sec.psk", settings.Password)
	}

	return args
}

func parseIPConfig(out []byte) (models.ConnectionInfo, error) {
	var info models.ConnectionInfo

	scanner := bufio.NewScanner(bytes.NewReader(out))
	for scanner.Scan() {
		key, value, ok := strings.Cut(scanner.Text(), ":")
		if !ok || value == "" {
			continue
		}
		if i := strings.IndexByte(key, '['); i >= 0 {
			key = key[:i]
		}

		switch key {
		case "IP4.ADDRESS":
			if info.Address != nil {
				continue
			}
			ip, ipNet, err := net.ParseCIDR(value)
			if err != nil {
				return info, fmt.Errorf("invalid address %q: %w", value, err)
			}
			info.Address = ip
			info.Netmask = ipNet.Mask
		case "IP4.GATEWAY":
			info.Gateway = net.ParseIP(value)
		case "IP4.DNS":
			if ip := net.ParseIP(value); ip != nil {
				info.DNS = append(info.DNS, ip)
			}
		}
	}

	return info, scanner.Err()
}

// splitTerse splits a terse nmcli line, honouring backslash escaped colons.
func splitTerse(line string) []string {
	var fields []string
	var current strings.Builder

	escaped := false
	for _, r := range line {
		switch {
		case escaped:
			current.WriteRune(r)
			escaped = false
		case r == '\\':
			escaped = true
		case r == ':':
			fields = append(fields, current.String())
			current.Reset()
		default:
			current.WriteRune(r)
		}
	}
	return append(fields, current.String())
}

func redact(args []string) []string {
	out := make([]string, len(args))
	copy(out, args)
	for i := 0; i < len(out)-1; i++ {
		switch out[i] {
		case "password", "wifi-sec.psk", "wifi-sec.wep-key0":
			out[i+1] = "***"
		}
	}
	return out
}

var (
	_ network.StationDriver     = (*Driver)(nil)
	_ network.AccessPointDriver = (*Driver)(nil)
)
