package config

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"

	"github.com/sitekit-dev/sitekit/internal/defs"
)

// Loader reads configuration from sitekit.yaml and SITEKIT_* environment
// variables on top of the built-in defaults.
type Loader struct {
	// EnvPrefix is the environment variable prefix (default "SITEKIT").
	EnvPrefix string
	// Logger receives load diagnostics. Nil means slog.Default().
	Logger *slog.Logger
}

// NewLoader creates a Loader with the default environment prefix.
func NewLoader() *Loader {
	return &Loader{EnvPrefix: DefaultEnvPrefix}
}

// Load builds the configuration for the project at root.
//
// When path is empty, <root>/sitekit.yaml is read if present and defaults
// are used otherwise. When path is set the file must exist.
// Environment variables override file values: SITEKIT_SERVER_PORT=9000
// sets server.port.
func (l *Loader) Load(root, path string) (*Config, error) {
	logger := l.Logger
	if logger == nil {
		logger = slog.Default()
	}

	absRoot, err := filepath.Abs(root)
	if err != nil {
		return nil, fmt.Errorf("resolve project root %q: %w", root, err)
	}

	v := viper.New()
	for k, val := range defaultKeys() {
		v.SetDefault(k, val)
	}

	prefix := l.EnvPrefix
	if prefix == "" {
		prefix = DefaultEnvPrefix
	}
	v.SetEnvPrefix(prefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	explicit := path != ""
	if !explicit {
		path = filepath.Join(absRoot, defs.ConfigYAML)
	}
	v.SetConfigFile(path)
	v.SetConfigType("yaml")

	if _, statErr := os.Stat(path); statErr != nil {
		if !errors.Is(statErr, os.ErrNotExist) {
			return nil, fmt.Errorf("stat %s: %w", path, statErr)
		}
		if explicit {
			return nil, fmt.Errorf("%w: %s", ErrConfigNotFound, path)
		}
		logger.Debug("no config file, using defaults", "path", path)
	} else if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrInvalidYAML, path, err)
	} else {
		logger.Debug("loaded config file", "path", v.ConfigFileUsed())
	}

	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("decode config: %w", err)
	}
	cfg.Root = absRoot

	if err := Validate(cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Marshal renders the configuration as YAML.
func Marshal(cfg *Config) ([]byte, error) {
	out, err := yaml.Marshal(cfg)
	if err != nil {
		return nil, fmt.Errorf("marshal config: %w", err)
	}
	return out, nil
}
