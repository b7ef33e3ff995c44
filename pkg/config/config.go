package config

import (
	"github.com/provisio/databag/pkg/errors"
)

// Mode selects how data bags are resolved
type Mode int

const (
	// ModeSolo resolves bags from local data bag paths
	ModeSolo Mode = iota
	// ModeServer resolves bags from the configuration server
	ModeServer
)

// String returns the configuration-file spelling of the mode
func (m Mode) String() string {
	switch m {
	case ModeServer:
		return "server"
	default:
		return "solo"
	}
}

// ParseMode converts a configuration value into a Mode.
// An empty string defaults to solo.
func ParseMode(s string) (Mode, error) {
	switch s {
	case "", "solo":
		return ModeSolo, nil
	case "server":
		return ModeServer, nil
	default:
		return ModeSolo, errors.Newf(errors.ErrConfigValid, "unknown mode %q (expected \"solo\" or \"server\")", s)
	}
}

// Config holds the resolved runtime configuration. It is an immutable
// value: operations receive it by value and never write to it.
type Config struct {
	// Mode selects remote (server) or local (solo) resolution
	Mode Mode

	// DataBagPaths are the local bag roots, in merge order. Ordering is
	// caller-determined and preserved: later roots win on item id clashes.
	DataBagPaths []string

	// ServerURL is the base URL of the configuration server
	ServerURL string

	// DryRun disables all mutating remote calls
	DryRun bool
}

// IsSolo reports whether bags resolve from the local filesystem
func (c Config) IsSolo() bool {
	return c.Mode == ModeSolo
}

// Validate checks invariants that cannot be expressed in the type
func (c Config) Validate() error {
	if c.Mode == ModeServer && c.ServerURL == "" {
		return errors.New(errors.ErrConfigValid, "server mode requires server_url")
	}
	return nil
}

// Default returns the built-in configuration used when no file or
// environment overrides are present
func Default() Config {
	return Config{
		Mode:         ModeSolo,
		DataBagPaths: []string{"/var/databag/data_bags"},
		ServerURL:    "",
		DryRun:       false,
	}
}
