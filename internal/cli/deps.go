// Package cli provides the Cobra command tree for sitekit. This file is
// the composition root: it builds the logger, the terminal UI components
// and the project configuration the commands share.
package cli

import (
	"fmt"
	"io"
	"log/slog"
	"strings"

	"github.com/spf13/cobra"

	"github.com/sitekit-dev/sitekit/internal/config"
	"github.com/sitekit-dev/sitekit/internal/server"
	"github.com/sitekit-dev/sitekit/internal/ui"
)

// Dependencies holds the services CLI commands use.
type Dependencies struct {
	Logger   *slog.Logger
	Theme    *ui.Theme
	Headless *ui.HeadlessManager
	Prompt   ui.Prompt
	Selector ui.Selector
	Progress ui.Progress

	// NewManager builds the process manager for a project. Tests replace it.
	NewManager func(cfg *config.Config, logger *slog.Logger) *server.Manager
}

// deps is the global dependencies instance, initialized by InitDependencies.
var deps *Dependencies

// InitDependencies creates the shared dependencies. The logger is replaced
// once a command has loaded the project configuration.
func InitDependencies() {
	theme := ui.NewTheme(ui.ThemeConfig{})
	hm := ui.NewHeadlessManager()

	deps = &Dependencies{
		Logger:     slog.New(slog.NewTextHandler(io.Discard, nil)),
		Theme:      theme,
		Headless:   hm,
		Prompt:     ui.NewPrompt(theme, hm),
		Selector:   ui.NewSelector(theme, hm),
		Progress:   ui.NewProgress(theme, hm),
		NewManager: defaultManager,
	}
}

// GetDeps returns the current Dependencies instance.
func GetDeps() *Dependencies {
	return deps
}

// SetDeps replaces the global dependencies (used for testing).
func SetDeps(d *Dependencies) {
	deps = d
}

func defaultManager(cfg *config.Config, logger *slog.Logger) *server.Manager {
	return server.NewManager(server.Options{
		Root:          cfg.Root,
		ProjectMarker: cfg.TemplatesPath(),
		PIDPath:       cfg.PIDPath(),
		LogPath:       cfg.LogPath(),
	}, logger)
}

// loadProject reads the configuration selected by the global flags and
// installs a logger built from it. Without --root the project is found by
// walking up from the working directory.
func loadProject(cmd *cobra.Command) (*config.Config, error) {
	root := getStringFlag(cmd, "root")
	if root == "" {
		root = "."
	}
	if !cmd.Flags().Changed("root") {
		// Allow running from anywhere inside the project.
		found, err := config.FindProjectRootOrCurrent(root)
		if err != nil {
			return nil, err
		}
		root = found
	}

	loader := config.NewLoader()
	loader.Logger = deps.Logger
	cfg, err := loader.Load(root, getStringFlag(cmd, "config"))
	if err != nil {
		return nil, err
	}

	if level := getStringFlag(cmd, "log-level"); level != "" {
		cfg.Log.Level = level
	}
	logger, err := newLogger(cmd.ErrOrStderr(), cfg.Log.Level, cfg.Log.Format)
	if err != nil {
		return nil, err
	}
	deps.Logger = logger
	return cfg, nil
}

// newLogger builds the slog logger for the configured level and format.
func newLogger(w io.Writer, level, format string) (*slog.Logger, error) {
	var lvl slog.Level
	if err := lvl.UnmarshalText([]byte(strings.ToLower(level))); err != nil {
		return nil, fmt.Errorf("invalid log level %q: %w", level, err)
	}
	opts := &slog.HandlerOptions{Level: lvl}
	if format == "json" {
		return slog.New(slog.NewJSONHandler(w, opts)), nil
	}
	return slog.New(slog.NewTextHandler(w, opts)), nil
}

// getStringFlag retrieves a string flag value, local or inherited.
func getStringFlag(cmd *cobra.Command, name string) string {
	val, err := cmd.Flags().GetString(name)
	if err != nil {
		return ""
	}
	return val
}

// getBoolFlag retrieves a bool flag value.
func getBoolFlag(cmd *cobra.Command, name string) bool {
	val, err := cmd.Flags().GetBool(name)
	if err != nil {
		return false
	}
	return val
}

// getIntFlag retrieves an int flag value.
func getIntFlag(cmd *cobra.Command, name string) int {
	val, err := cmd.Flags().GetInt(name)
	if err != nil {
		return 0
	}
	return val
}
