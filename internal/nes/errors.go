package nes

import (
	"errors"
	"fmt"

	"github.com/nescore/nesbox/internal/cartridge"
)

// ErrInvalidROM re-exports internal/cartridge.ErrInvalidROM so callers
// driving only nes.New can match it with errors.Is without importing
// internal/cartridge themselves.
var ErrInvalidROM = cartridge.ErrInvalidROM

// ErrUnsupportedRegion is returned by New when asked for a region this
// build has no timing table for. Only NTSC is implemented; PAL is
// accepted by Config as a forward-compatible field per spec's own
// "region detection beyond selection at construction" non-goal.
var ErrUnsupportedRegion = errors.New("nes: unsupported region")

func wrapLoadError(err error) error {
	return fmt.Errorf("nes: loading cartridge: %w", err)
}
