// Package host is a network driver for machines whose interfaces are
// managed outside the appliance. It never changes the radio configuration.
package host

import (
	"bufio"
	"bytes"
	"context"
	"encoding/binary"
	"encoding/hex"
	"fmt"
	"mqtt-onoff/internal/models"
	"mqtt-onoff/internal/network"
	"net"
	"os"
	"strings"

	"github.com/rs/zerolog"
)

type Driver struct {
	iface      string
	logger     zerolog.Logger
	routesPath string
	resolvPath string
	addrs      func(name string) ([]net.Addr, error)
}

func NewDriver(iface string, logger zerolog.Logger) *Driver {
	return &Driver{
		iface:      iface,
		logger:     logger,
		routesPath: "/proc/net/route",
		resolvPath: "/etc/resolv.conf",
		addrs:      interfaceAddrs,
	}
}

func (d *Driver) ActivateStation(ctx context.Context) error {
	return nil
}

func (d *Driver) SetHostname(ctx context.Context, hostname string) error {
	d.logger.Debug().Str("hostname", hostname).Msg("Hostname is managed by the host")
	return nil
}

func (d *Driver) IsConnected(ctx context.Context) (bool, error) {
	addr, _, err := d.ipv4()
	if err != nil {
		return false, err
	}
	return addr != nil, nil
}

func (d *Driver) Connect(ctx context.Context, ssid, password string) error {
	d.logger.Info().Str("interface", d.iface).Msg("Waiting for host to bring up the interface")
	return nil
}

func (d *Driver) IPConfig(ctx context.Context) (models.ConnectionInfo, error) {
	addr, mask, err := d.ipv4()
	if err != nil {
		return models.ConnectionInfo{}, err
	}

	info := models.ConnectionInfo{Address: addr, Netmask: mask}

	if raw, err := os.ReadFile(d.routesPath); err == nil {
		info.Gateway = parseGateway(raw, d.iface)
	}
	if raw, err := os.ReadFile(d.resolvPath); err == nil {
		info.DNS = parseNameservers(raw)
	}

	return info, nil
}

func (d *Driver) ActivateAccessPoint(ctx context.Context) error {
	return nil
}

func (d *Driver) ConfigureAccessPoint(ctx context.Context, settings network.AccessPointSettings) error {
	d.logger.Warn().
		Str("ssid", settings.SSID).
		Msg("Access point is not supported by the host network driver")
	return nil
}

func (d *Driver) ipv4() (net.IP, net.IPMask, error) {
	addrs, err := d.addrs(d.iface)
	if err != nil {
		return nil, nil, fmt.Errorf("could not read addresses of %s: %w", d.iface, err)
	}
	for _, addr := range addrs {
		ipNet, ok := addr.(*net.IPNet)
		if !ok {
			continue
		}
		if ip := ipNet.IP.To4(); ip != nil {
			return ip, ipNet.Mask, nil
		}
	}
	return nil, nil, nil
}

func interfaceAddrs(name string) ([]net.Addr, error) {
	iface, err := net.InterfaceByName(name)
	if err != nil {
		return nil, err
	}
	if iface.Flags&net.FlagUp == 0 {
		return nil, nil
	}
	return iface.Addrs()
}

// parseGateway reads the default route of iface from /proc/net/route, where
// addresses are little-endian hex.
func parseGateway(raw []byte, iface string) net.IP {
	scanner := bufio.NewScanner(bytes.NewReader(raw))
	for scanner.Scan() {
		fields := strings.Fields(scanner.Text())
		if len(fields) < 3 || fields[0] != iface || fields[1] != "00000000" {
			continue
		}
		b, err := hex.DecodeString(fields[2])
		if err != nil || len(b) != 4 {
			continue
		}
		ip := make(net.IP, 4)
		binary.BigEndian.PutUint32(ip, binary.LittleEndian.Uint32(b))
		return ip
	}
	return nil
}

func parseNameservers(raw []byte) []net.IP {
	var servers []net.IP
	scanner := bufio.NewScanner(bytes.NewReader(raw))
	for scanner.Scan() {
		fields := strings.Fields(scanner.Text())
		if len(fields) < 2 || fields[0] != "nameserver" {
			continue
		}
		if ip := net.ParseIP(fields[1]); ip != nil {
			servers = append(servers, ip)
		}
	}
	return servers
}

var (
	_ network.StationDriver     = (*Driver)(nil)
	_ network.AccessPointDriver = (*Driver)(nil)
)
