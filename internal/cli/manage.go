package cli

import (
	"errors"
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/sitekit-dev/sitekit/internal/config"
	"github.com/sitekit-dev/sitekit/internal/server"
	"github.com/sitekit-dev/sitekit/internal/site"
	"github.com/sitekit-dev/sitekit/internal/ui"
)

// Menu actions.
const (
	actionStop    = "stop"
	actionRun     = "run"
	actionRestart = "restart"
	actionExit    = "exit"
)

var manageCmd = &cobra.Command{
	Use:   "manage",
	Short: "Interactive menu to stop, build & run, or restart the site",
	Long: `Show a menu until Exit is chosen:

  1) Stop the site
  2) Build & run: ask for a port (default 8000), build, start
  3) Quick restart: stop, build, start on port 8000
  4) Exit

Without a terminal the menu reads option numbers from stdin, one per
line, and exits at end of input.`,
	Args: cobra.NoArgs,
	RunE: runManage,
}

func init() {
	rootCmd.AddCommand(manageCmd)
}

func menuItems() []ui.SelectItem {
	return []ui.SelectItem{
		{Label: "Stop the site", Value: actionStop},
		{Label: "Build & run", Value: actionRun, Desc: "choose a port"},
		{Label: "Quick restart", Value: actionRestart, Desc: "rebuild and restart on port " + strconv.Itoa(config.DefaultPort)},
		{Label: "Exit", Value: actionExit},
	}
}

func runManage(cmd *cobra.Command, _ []string) error {
	cfg, m, err := projectManager(cmd)
	if err != nil {
		return err
	}
	out := cmd.OutOrStdout()

	for {
		_, _ = fmt.Fprintln(out)
		printStatus(out, m)

		choice, err := deps.Selector.Select(cliPrimary.Render(cfg.Site.Name)+" - what would you like to do?", menuItems())
		switch {
		case errors.Is(err, ui.ErrNoInput), errors.Is(err, ui.ErrCancelled):
			return nil
		case errors.Is(err, ui.ErrInvalidChoice):
			printWarn(out, "%v", err)
			continue
		case err != nil:
			return err
		}

		switch choice {
		case actionStop:
			err = stopServer(cmd, m)
		case actionRun:
			err = buildAndRun(cmd, cfg, m)
		case actionRestart:
			err = quickRestart(cmd, cfg, m)
		case actionExit:
			return nil
		}
		// Manager failures were already printed; keep the menu open.
		if err != nil {
			deps.Logger.Debug("menu action failed", "action", choice, "error", err)
		}
	}
}

// buildAndRun asks for a port, refuses while a server is live, then
// builds and starts.
func buildAndRun(cmd *cobra.Command, cfg *config.Config, m *server.Manager) error {
	out := cmd.OutOrStdout()

	answer, err := deps.Prompt.Input("Port",
		ui.WithDefault(strconv.Itoa(config.DefaultPort)),
		ui.WithValidate(validatePortAnswer))
	if err != nil {
		printWarn(out, "%v", err)
		return err
	}
	port, _ := strconv.Atoi(answer)

	status, info, err := m.Status()
	if err != nil {
		return reportManagerError(out, err)
	}
	if status == server.StatusRunning {
		printWarn(out, "Server already running on port %d (pid %d); stop it first", info.Port, info.PID)
		return nil
	}

	if err := buildForServer(cmd, cfg); err != nil {
		return err
	}
	return startServer(cmd, m, port)
}

// quickRestart stops any running server, rebuilds and starts on the default port.
func quickRestart(cmd *cobra.Command, cfg *config.Config, m *server.Manager) error {
	if err := stopServer(cmd, m); err != nil {
		return err
	}
	if err := buildForServer(cmd, cfg); err != nil {
		return err
	}
	return startServer(cmd, m, config.DefaultPort)
}

// buildForServer builds before a start. Page failures still allow starting.
func buildForServer(cmd *cobra.Command, cfg *config.Config) error {
	err := buildSite(cmd.Context(), cmd.OutOrStdout(), cfg)
	if err != nil && !errors.Is(err, site.ErrBuildFailed) {
		printError(cmd.OutOrStdout(), "build: %v", err)
		return err
	}
	return nil
}

func validatePortAnswer(s string) error {
	port, err := strconv.Atoi(s)
	if err != nil {
		return config.ErrInvalidPort
	}
	return config.ValidatePort(port)
}
