package cli

import (
	"errors"
	"io"
	"time"

	"github.com/spf13/cobra"

	"github.com/sitekit-dev/sitekit/internal/config"
	"github.com/sitekit-dev/sitekit/internal/server"
)

var startCmd = &cobra.Command{
	Use:   "start",
	Short: "Start the site server in the background",
	Long: `Start "sitekit serve --no-build" as a detached background process,
record it in the lock file and append its output to the server log.

Refuses to start while a live server is recorded. A lock left by a
process that no longer exists is cleared first.`,
	Args: cobra.NoArgs,
	RunE: runStart,
}

var stopCmd = &cobra.Command{
	Use:   "stop",
	Short: "Stop the background site server",
	Args:  cobra.NoArgs,
	RunE:  runStop,
}

var restartCmd = &cobra.Command{
	Use:   "restart",
	Short: "Stop the background server if running, then start it again",
	Args:  cobra.NoArgs,
	RunE:  runRestart,
}

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show whether the background server is running",
	Args:  cobra.NoArgs,
	RunE:  runStatus,
}

func init() {
	rootCmd.AddCommand(startCmd, stopCmd, restartCmd, statusCmd)

	startCmd.Flags().Int("port", 0, "Port to listen on (default: server.port from config)")
	restartCmd.Flags().Int("port", 0, "Port to listen on (default: server.port from config)")
	stopCmd.Flags().Bool("force", false, "Remove the lock file even when it cannot be read")
}

// projectManager loads the project and builds its process manager.
func projectManager(cmd *cobra.Command) (*config.Config, *server.Manager, error) {
	cfg, err := loadProject(cmd)
	if err != nil {
		return nil, nil, err
	}
	return cfg, deps.NewManager(cfg, deps.Logger), nil
}

func portFlag(cmd *cobra.Command, cfg *config.Config) (int, error) {
	port := getIntFlag(cmd, "port")
	if port == 0 {
		port = cfg.Server.Port
	}
	return port, config.ValidatePort(port)
}

func runStart(cmd *cobra.Command, _ []string) error {
	cfg, m, err := projectManager(cmd)
	if err != nil {
		return err
	}
	port, err := portFlag(cmd, cfg)
	if err != nil {
		return err
	}
	return startServer(cmd, m, port)
}

func startServer(cmd *cobra.Command, m *server.Manager, port int) error {
	out := cmd.OutOrStdout()
	info, err := m.Start(cmd.Context(), port)
	if err != nil {
		return reportManagerError(out, err)
	}
	printSuccess(out, "Server started on http://localhost:%d (pid %d)", info.Port, info.PID)
	printInfo(out, "Logs: %s", info.LogFile)
	return nil
}

func runStop(cmd *cobra.Command, _ []string) error {
	_, m, err := projectManager(cmd)
	if err != nil {
		return err
	}
	out := cmd.OutOrStdout()

	err = stopServer(cmd, m)
	if errors.Is(err, server.ErrLockUnreadable) && getBoolFlag(cmd, "force") {
		if rmErr := m.Lock().Remove(); rmErr != nil {
			return rmErr
		}
		printSuccess(out, "Removed lock file %s", m.Lock().Path)
		return nil
	}
	return err
}

func stopServer(cmd *cobra.Command, m *server.Manager) error {
	out := cmd.OutOrStdout()
	spin := deps.Progress.Spinner("Stopping server")
	info, err := m.Stop(cmd.Context())
	spin.Stop()
	if err != nil {
		if info != nil && errors.Is(err, server.ErrNotRunning) {
			printWarn(out, "Server (pid %d) was not running; stale lock cleared", info.PID)
			return nil
		}
		return reportManagerError(out, err)
	}
	printSuccess(out, "Server stopped (pid %d)", info.PID)
	return nil
}

func runRestart(cmd *cobra.Command, _ []string) error {
	cfg, m, err := projectManager(cmd)
	if err != nil {
		return err
	}
	port, err := portFlag(cmd, cfg)
	if err != nil {
		return err
	}
	info, err := m.Restart(cmd.Context(), port)
	if err != nil {
		return reportManagerError(cmd.OutOrStdout(), err)
	}
	printSuccess(cmd.OutOrStdout(), "Server restarted on http://localhost:%d (pid %d)", info.Port, info.PID)
	return nil
}

func runStatus(cmd *cobra.Command, _ []string) error {
	_, m, err := projectManager(cmd)
	if err != nil {
		return err
	}
	printStatus(cmd.OutOrStdout(), m)
	return nil
}

func printStatus(out io.Writer, m *server.Manager) {
	status, info, err := m.Status()
	switch {
	case err != nil:
		printWarn(out, "Lock file %s is unreadable; run 'sitekit stop --force' to remove it", m.Lock().Path)
	case status == server.StatusRunning:
		printSuccess(out, "Running on http://localhost:%d (pid %d, since %s)",
			info.Port, info.PID, info.StartedAt.Local().Format(time.DateTime))
	case status == server.StatusStale:
		printWarn(out, "Not running (stale lock for pid %d)", info.PID)
	default:
		printInfo(out, "Not running")
	}
}

// reportManagerError prints a process-manager failure as a warning. When
// there is nothing to do (already running, not running) the action is
// skipped and nil returned; other failures are returned after the warning.
func reportManagerError(out io.Writer, err error) error {
	var running *server.AlreadyRunningError
	switch {
	case errors.As(err, &running):
		printWarn(out, "Server already running on port %d (pid %d); stop it first", running.Info.Port, running.Info.PID)
		return nil
	case errors.Is(err, server.ErrNotRunning):
		printWarn(out, "No server running")
		return nil
	case errors.Is(err, server.ErrLockUnreadable):
		printWarn(out, "Lock file is unreadable; run 'sitekit stop --force' to remove it")
	case errors.Is(err, server.ErrProjectNotFound):
		printWarn(out, "Not a sitekit project; run 'sitekit init' first")
	case errors.Is(err, server.ErrServerExited):
		printWarn(out, "Server exited right after starting (port in use?): %v", err)
	}
	return err
}
