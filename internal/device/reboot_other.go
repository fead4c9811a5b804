//go:build !linux

package device

import (
	"errors"
	"runtime"

	"github.com/rs/zerolog"
)

var ErrRebootUnsupported = errors.New("reboot is only supported on linux, use RESET_MODE=exit")

type RebootResetter struct {
	logger zerolog.Logger
}

func NewRebootResetter(logger zerolog.Logger) *RebootResetter {
	return &RebootResetter{logger: logger}
}

func (r *RebootResetter) Reset() error {
	r.logger.Error().Str("os", runtime.GOOS).Msg("Cannot reboot device")
	return ErrRebootUnsupported
}

var _ Resetter = (*RebootResetter)(nil)
