package config

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/adrg/xdg"
	"github.com/knadh/koanf/parsers/toml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"

	"github.com/provisio/databag/pkg/errors"
	"github.com/provisio/databag/pkg/logging"
)

// ConfigFileName is the file looked up in the working directory and the
// XDG config home when no explicit path is given
const ConfigFileName = "databag.toml"

// Load builds the runtime configuration by layering, in order:
// embedded defaults, an optional TOML config file, and DATABAG_*
// environment variables. An empty configPath triggers the default
// file lookup; a missing explicit file is an error.
func Load(configPath string) (Config, error) {
	logger := logging.GetLogger("config")
	k := koanf.New(".")

	// 1. Embedded defaults
	if err := k.Load(&rawBytesProvider{bytes: defaultConfig}, toml.Parser()); err != nil {
		return Config{}, errors.Wrap(err, errors.ErrConfigLoad, "failed to load built-in defaults")
	}

	// 2. Config file
	explicit := configPath != ""
	if !explicit {
		configPath = findConfigFile()
	}
	if configPath != "" {
		if _, err := os.Stat(configPath); err != nil {
			if explicit {
				return Config{}, errors.Wrapf(err, errors.ErrConfigLoad, "cannot read config file %s", configPath)
			}
		} else {
			if err := k.Load(file.Provider(configPath), toml.Parser()); err != nil {
				return Config{}, errors.Wrapf(err, errors.ErrConfigLoad, "failed to parse %s", configPath)
			}
			logger.Debug().Str("path", configPath).Msg("Loaded config file")
		}
	}

	// 3. Environment overrides: DATABAG_SERVER_URL -> server_url
	err := k.Load(env.Provider("DATABAG_", ".", func(s string) string {
		return strings.ToLower(strings.TrimPrefix(s, "DATABAG_"))
	}), nil)
	if err != nil {
		return Config{}, errors.Wrap(err, errors.ErrConfigLoad, "failed to load environment overrides")
	}

	return fromKoanf(k)
}

// fromKoanf converts the merged key set into a validated Config
func fromKoanf(k *koanf.Koanf) (Config, error) {
	mode, err := ParseMode(k.String("mode"))
	if err != nil {
		return Config{}, err
	}

	paths, err := bagPaths(k.Get("data_bag_path"))
	if err != nil {
		return Config{}, err
	}

	cfg := Config{
		Mode:         mode,
		DataBagPaths: paths,
		ServerURL:    strings.TrimRight(k.String("server_url"), "/"),
		DryRun:       k.Bool("dry_run"),
	}

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// bagPaths accepts both the single-string and list forms of data_bag_path
func bagPaths(v interface{}) ([]string, error) {
	switch val := v.(type) {
	case nil:
		return nil, nil
	case string:
		if val == "" {
			return nil, nil
		}
		return []string{val}, nil
	case []interface{}:
		paths := make([]string, 0, len(val))
		for _, p := range val {
			s, ok := p.(string)
			if !ok {
				return nil, errors.Newf(errors.ErrConfigValid, "data_bag_path entries must be strings, got %T", p)
			}
			paths = append(paths, s)
		}
		return paths, nil
	case []string:
		return val, nil
	default:
		return nil, errors.Newf(errors.ErrConfigValid, "data_bag_path must be a string or list of strings, got %T", v)
	}
}

// findConfigFile looks for databag.toml in the working directory, then
// in the XDG config home
func findConfigFile() string {
	if _, err := os.Stat(ConfigFileName); err == nil {
		return ConfigFileName
	}
	xdgPath := filepath.Join(xdg.ConfigHome, "databag", ConfigFileName)
	if _, err := os.Stat(xdgPath); err == nil {
		return xdgPath
	}
	return ""
}
