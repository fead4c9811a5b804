package device

import (
	"bytes"
	"encoding/hex"
	"net"
	"os"
	"strings"

	"github.com/google/uuid"
)

const machineIDPath = "/etc/machine-id"

// IdentitySource resolves the raw device-unique identifier.
type IdentitySource struct {
	Interface   string
	MachineID   string
	hardwareMAC func(name string) (net.HardwareAddr, error)
	readFile    func(name string) ([]byte, error)
}

func NewIdentitySource(iface string) *IdentitySource {
	return &IdentitySource{
		Interface:   iface,
		MachineID:   machineIDPath,
		hardwareMAC: interfaceMAC,
		readFile:    os.ReadFile,
	}
}

// UniqueID returns the MAC of the station interface, falling back to the
// systemd machine id. The boolean is false when neither was available and
// a random identifier was generated instead.
func (s *IdentitySource) UniqueID() ([]byte, bool) {
	if s.Interface != "" {
		if mac, err := s.hardwareMAC(s.Interface); err == nil && len(mac) > 0 {
			return []byte(mac), true
		}
	}

	if s.MachineID != "" {
		if raw, err := s.readFile(s.MachineID); err == nil {
			id := strings.TrimSpace(string(raw))
			if decoded, err := hex.DecodeString(id); err == nil && len(decoded) > 0 {
				return decoded, true
			}
		}
	}

	random := uuid.New()
	return random[:], false
}

// ClientID hex-encodes the unique identifier.
func (s *IdentitySource) ClientID() (string, bool) {
	id, stable := s.UniqueID()
	return hex.EncodeToString(id), stable
}

func interfaceMAC(name string) (net.HardwareAddr, error) {
	iface, err := net.InterfaceByName(name)
	if err != nil {
		return nil, err
	}
	if bytes.Equal(iface.HardwareAddr, make([]byte, len(iface.HardwareAddr))) {
		return nil, nil
	}
	return iface.HardwareAddr, nil
}
