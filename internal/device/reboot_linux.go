package device

import (
	"fmt"

	"github.com/rs/zerolog"
	"golang.org/x/sys/unix"
)

// RebootResetter flushes filesystem buffers and restarts the machine.
// Requires CAP_SYS_BOOT.
type RebootResetter struct {
	logger zerolog.Logger
}

func NewRebootResetter(logger zerolog.Logger) *RebootResetter {
	return &RebootResetter{logger: logger}
}

func (r *RebootResetter) Reset() error {
	r.logger.Warn().Msg("Rebooting device")

	unix.Sync()
	if err := unix.Reboot(unix.LINUX_REBOOT_CMD_RESTART); err != nil {
		return fmt.Errorf("reboot failed: %w", err)
	}
	return nil
}

var _ Resetter = (*RebootResetter)(nil)
