package cli

import (
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/sitekit-dev/sitekit/internal/config"
	"github.com/sitekit-dev/sitekit/internal/server"
	"github.com/sitekit-dev/sitekit/internal/site"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the built site in the foreground",
	Long: `Build the site and serve the output directory over HTTP until
interrupted. /<slug>/ serves <slug>/index.html.

This is the process "sitekit start" runs in the background.`,
	Args: cobra.NoArgs,
	RunE: runServe,
}

func init() {
	rootCmd.AddCommand(serveCmd)

	serveCmd.Flags().Int("port", 0, "Port to listen on (default: server.port from config)")
	serveCmd.Flags().String("dir", "", "Directory to serve (default: build output directory)")
	serveCmd.Flags().Bool("watch", false, "Rebuild when templates or static files change")
	serveCmd.Flags().Bool("no-build", false, "Serve without building first")
}

func runServe(cmd *cobra.Command, _ []string) error {
	cfg, err := loadProject(cmd)
	if err != nil {
		return err
	}
	out := cmd.OutOrStdout()

	port := getIntFlag(cmd, "port")
	if port == 0 {
		port = cfg.Server.Port
	}
	if err := config.ValidatePort(port); err != nil {
		return err
	}
	dir := getStringFlag(cmd, "dir")
	if dir == "" {
		dir = cfg.OutputPath()
	}

	if !getBoolFlag(cmd, "no-build") {
		// Partial output is still worth serving.
		if err := buildSite(cmd.Context(), out, cfg); err != nil && !errors.Is(err, site.ErrBuildFailed) {
			return err
		}
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if getBoolFlag(cmd, "watch") {
		go func() {
			if err := watchSite(ctx, out, cfg); err != nil {
				deps.Logger.Error("watch stopped", "error", err)
			}
		}()
	}

	printSuccess(out, "Serving %s on http://localhost:%d (Ctrl+C to stop)", dir, port)
	return server.Serve(ctx, fmt.Sprintf(":%d", port), dir, deps.Logger)
}
