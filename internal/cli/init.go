package cli

import (
	"fmt"
	"io"
	"path/filepath"
	"strconv"

	"github.com/charmbracelet/glamour"
	"github.com/spf13/cobra"

	"github.com/sitekit-dev/sitekit/internal/config"
	"github.com/sitekit-dev/sitekit/internal/scaffold"
	"github.com/sitekit-dev/sitekit/internal/ui"
)

var initCmd = &cobra.Command{
	Use:   "init [dir]",
	Short: "Scaffold a new site",
	Long: `Create the project skeleton in dir (default: the --root directory):
templates with a base layout, home page, components and an about page,
a theme stylesheet, sitekit.yaml and the setup_env.sh, build.sh and
manage.sh helper scripts.

Existing files with the same names are overwritten.

Examples:
  sitekit init my-site
  sitekit init . --name "Acme Docs" --non-interactive`,
	Args: cobra.MaximumNArgs(1),
	RunE: runInit,
}

func init() {
	rootCmd.AddCommand(initCmd)

	initCmd.Flags().String("name", "", "Site name (default: title-cased directory name)")
	initCmd.Flags().Int("port", config.DefaultPort, "Default server port written to sitekit.yaml")
	initCmd.Flags().Bool("non-interactive", false, "Do not prompt; use flags and defaults")
}

func runInit(cmd *cobra.Command, args []string) error {
	out := cmd.OutOrStdout()

	dir := getStringFlag(cmd, "root")
	if len(args) > 0 {
		dir = args[0]
	}
	absDir, err := filepath.Abs(dir)
	if err != nil {
		return fmt.Errorf("resolve directory: %w", err)
	}

	port := getIntFlag(cmd, "port")
	if err := config.ValidatePort(port); err != nil {
		return err
	}

	defaultName := scaffold.ToTitle(filepath.Base(absDir))
	name := getStringFlag(cmd, "name")
	if getBoolFlag(cmd, "non-interactive") {
		deps.Headless.ForceHeadless(true)
		if name == "" {
			name = defaultName
		}
	}
	if name == "" {
		name, err = deps.Prompt.Input("Site name", ui.WithDefault(defaultName))
		if err != nil {
			return err
		}
	}

	fsys, err := scaffold.Skeleton()
	if err != nil {
		return err
	}
	entries, err := scaffold.Entries(fsys, scaffold.NewRenderer(fsys), scaffold.NewData(absDir, name, port))
	if err != nil {
		return err
	}

	_, _ = fmt.Fprintln(out, cliPrimary.Render("Creating "+name+" in "+absDir))
	bar := deps.Progress.Start("Scaffolding", len(entries))
	reporter := scaffold.ReporterFunc(func(rel string) {
		bar.SetTitle(rel)
		bar.Increment(1)
	})

	result, err := scaffold.NewWriter(reporter, deps.Logger).Write(cmd.Context(), absDir, entries)
	bar.Done()
	if err != nil {
		return err
	}
	printSuccess(out, "Created %d files (%d overwritten)", len(result.Created), len(result.Overwritten))

	renderNextSteps(out, dir, port)
	return nil
}

const nextSteps = `## Next steps

1. ` + "`cd %s`" + `
2. ` + "`./setup_env.sh`" + ` installs the pinned sitekit into ` + "`.bin/`" + `
3. ` + "`./build.sh`" + ` renders the site
4. ` + "`./manage.sh`" + ` starts, stops and restarts the local server on port %s

Edit ` + "`templates/`" + ` and rebuild; pages in ` + "`templates/pages/`" + ` become ` + "`/<slug>/`" + `.
`

// renderNextSteps prints the post-init guide, styled when stdout is a terminal.
func renderNextSteps(w io.Writer, dir string, port int) {
	md := fmt.Sprintf(nextSteps, dir, strconv.Itoa(port))

	r, err := glamour.NewTermRenderer(glamour.WithAutoStyle(), glamour.WithWordWrap(80))
	if err == nil {
		if rendered, renderErr := r.Render(md); renderErr == nil {
			md = rendered
		}
	}
	_, _ = fmt.Fprint(w, md)
}
