package appliance

import (
	"fmt"
	"mqtt-onoff/internal/device"
)

// Process exit codes.
const (
	ExitOK          = 0
	ExitConfigFault = 1
	ExitReset       = device.ExitCodeReset
)

type FaultKind int

const (
	// ConfigFault is a startup failure that a reset would only repeat, so
	// the process terminates instead.
	ConfigFault FaultKind = iota + 1

	// TransportFault is any failure after the receive loop was running.
	// It is recovered by resetting the device.
	TransportFault
)

func (k FaultKind) String() string {
	switch k {
	case ConfigFault:
		return "config"
	case TransportFault:
		return "transport"
	default:
		return "unknown"
	}
}

type Fault struct {
	Kind  FaultKind
	Phase Phase
	Err   error
}

func (f *Fault) Error() string {
	return fmt.Sprintf("%s fault during %s: %v", f.Kind, f.Phase, f.Err)
}

func (f *Fault) Unwrap() error {
	return f.Err
}
