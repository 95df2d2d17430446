package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/sitekit-dev/sitekit/pkg/version"
)

var rootCmd = &cobra.Command{
	Use:   "sitekit",
	Short: "Scaffold, build and serve small static sites",
	Long: `sitekit scaffolds a template-driven static site, renders it to plain
HTML with clean /<slug>/ URLs, and runs a local server in the background.

A project is a directory with templates/ (base layout, home page,
components and pages/), static/ assets and an optional sitekit.yaml.`,
	Version:      version.GetVersion(),
	SilenceUsage: true,
}

// Execute initializes dependencies and runs the root command.
func Execute() error {
	InitDependencies()
	return rootCmd.ExecuteContext(context.Background())
}

func init() {
	rootCmd.SetVersionTemplate(fmt.Sprintf("sitekit %s\n", version.GetFullVersion()))

	rootCmd.PersistentFlags().String("root", ".", "Project root directory; when unset the nearest ancestor with sitekit.yaml or templates/ is used")
	rootCmd.PersistentFlags().String("config", "", "Config file (default: <root>/sitekit.yaml)")
	rootCmd.PersistentFlags().String("log-level", "", "Log level: debug, info, warn, error (overrides config)")
}
