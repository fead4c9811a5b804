package device

import (
	"os"

	"github.com/rs/zerolog"
)

// ExitCodeReset is the process exit code used when a reset is delegated to
// the process supervisor.
const ExitCodeReset = 2

// Resetter restarts the device. A successful Reset does not return.
type Resetter interface {
	Reset() error
}

// ExitResetter terminates the process with ExitCodeReset and relies on the
// supervisor (systemd Restart=always, container restart policy) to boot it again.
type ExitResetter struct {
	logger zerolog.Logger
	exit   func(code int)
}

func NewExitResetter(logger zerolog.Logger) *ExitResetter {
	return &ExitResetter{logger: logger, exit: os.Exit}
}

func (r *ExitResetter) Reset() error {
	r.logger.Warn().Int("exit_code", ExitCodeReset).Msg("Exiting for supervisor restart")
	r.exit(ExitCodeReset)
	return nil
}

var _ Resetter = (*ExitResetter)(nil)
