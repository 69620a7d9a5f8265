package nes

// Region selects the master clock and vertical-blank timing an
// Emulator runs at. Only NTSC's scanline/dot counts are implemented by
// internal/ppu today; PAL is recorded in Config for forward
// compatibility with a future timing table, per RNG999-gones's own
// "NTSC/PAL/Dendy" region field.
type Region string

const (
	RegionNTSC Region = "NTSC"
	RegionPAL  Region = "PAL"
)

// Config holds the construction-time options nes.New accepts, in the
// encoding/json-tagged style RNG999-gones/internal/app/config.go uses
// for its own settings structs.
type Config struct {
	Region Region `json:"region"`
}

func defaultConfig() Config {
	return Config{Region: RegionNTSC}
}

// Option configures an Emulator at construction time.
type Option func(*Config)

// WithRegion overrides the default NTSC region selection.
func WithRegion(r Region) Option {
	return func(c *Config) { c.Region = r }
}
