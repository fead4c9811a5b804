package models

import (
	"fmt"
	"net"
	"strings"
)

// AuthMode values follow the common embedded WLAN numbering
// (0 open .. 4 mixed WPA/WPA2).
type AuthMode int

const (
	AuthOpen AuthMode = iota
	AuthWEP
	AuthWPAPSK
	AuthWPA2PSK
	AuthWPAWPA2PSK
)

func (a AuthMode) String() string {
	switch a {
	case AuthOpen:
		return "open"
	case AuthWEP:
		return "wep"
	case AuthWPAPSK:
		return "wpa-psk"
	case AuthWPA2PSK:
		return "wpa2-psk"
	case AuthWPAWPA2PSK:
		return "wpa/wpa2-psk"
	default:
		return fmt.Sprintf("authmode(%d)", int(a))
	}
}

func (a AuthMode) Valid() bool {
	return a >= AuthOpen && a <= AuthWPAWPA2PSK
}

// ConnectionInfo is the IP configuration assigned to the station interface.
type ConnectionInfo struct {
	Address net.IP
	Netmask net.IPMask
	Gateway net.IP
	DNS     []net.IP
}

func (c ConnectionInfo) String() string {
	dns := make([]string, 0, len(c.DNS))
	for _, ip := range c.DNS {
		dns = append(dns, ip.String())
	}
	mask := ""
	if c.Netmask != nil {
		mask = net.IP(c.Netmask).String()
	}
	return fmt.Sprintf("('%s', '%s', '%s', '%s')", c.Address, mask, c.Gateway, strings.Join(dns, ","))
}
