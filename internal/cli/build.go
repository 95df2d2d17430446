package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/sitekit-dev/sitekit/internal/config"
	"github.com/sitekit-dev/sitekit/internal/site"
)

var buildCmd = &cobra.Command{
	Use:   "build",
	Short: "Render the templates into static HTML",
	Long: `Render the home template to index.html and every template in
templates/pages/ to <slug>/index.html. Markdown pages (.md) are rendered
inside the markdown layout.

Each page is rendered independently: a failing page is reported and the
remaining pages are still built. The command exits non-zero when any
page failed.`,
	Args: cobra.NoArgs,
	RunE: runBuildCmd,
}

func init() {
	rootCmd.AddCommand(buildCmd)

	buildCmd.Flags().Bool("watch", false, "Rebuild when templates or static files change")
}

func runBuildCmd(cmd *cobra.Command, _ []string) error {
	cfg, err := loadProject(cmd)
	if err != nil {
		return err
	}
	out := cmd.OutOrStdout()

	buildErr := buildSite(cmd.Context(), out, cfg)
	if !getBoolFlag(cmd, "watch") {
		return buildErr
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	printInfo(out, "Watching for changes (Ctrl+C to stop)")
	return watchSite(ctx, out, cfg)
}

// buildSite runs one build, printing a line per page and a summary.
func buildSite(ctx context.Context, out io.Writer, cfg *config.Config) error {
	reporter := site.ReporterFunc(func(r site.PageResult) {
		if r.OK() {
			printSuccess(out, "%s", r.Output)
			return
		}
		printError(out, "%s: %v", r.Output, r.Err)
	})

	report, err := site.NewBuilder(site.OptionsFromConfig(cfg), reporter, deps.Logger).Build(ctx)
	if err != nil {
		return err
	}

	summary := fmt.Sprintf("Built %d of %d pages", report.Succeeded(), len(report.Pages))
	if report.StaticFiles > 0 {
		summary += fmt.Sprintf(", copied %d static files", report.StaticFiles)
	}
	if report.SitemapWrote {
		summary += ", wrote sitemap.xml"
	}
	if failed := len(report.Failed()); failed > 0 {
		printWarn(out, "%s (%d failed)", summary, failed)
	} else {
		printSuccess(out, "%s", summary)
	}
	return report.Err()
}

// watchSite rebuilds on changes under the templates and static directories
// until ctx is cancelled. Build failures are printed and watching continues.
func watchSite(ctx context.Context, out io.Writer, cfg *config.Config) error {
	dirs := []string{cfg.TemplatesPath(), cfg.StaticPath()}
	return site.Watch(ctx, dirs, site.DefaultDebounce, deps.Logger, func(ctx context.Context) {
		printInfo(out, "Change detected, rebuilding")
		if err := buildSite(ctx, out, cfg); err != nil && !errors.Is(err, site.ErrBuildFailed) {
			printError(out, "rebuild: %v", err)
		}
	})
}
