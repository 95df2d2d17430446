package cli

import (
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/sitekit-dev/sitekit/internal/config"
	"github.com/sitekit-dev/sitekit/internal/server"
	"github.com/sitekit-dev/sitekit/internal/site"
)

// resetFlags restores every flag in the tree to its default so that
// executions in one test do not leak into the next.
func resetFlags(cmd *cobra.Command) {
	reset := func(f *pflag.Flag) {
		_ = f.Value.Set(f.DefValue)
		f.Changed = false
	}
	cmd.Flags().VisitAll(reset)
	cmd.PersistentFlags().VisitAll(reset)
	for _, c := range cmd.Commands() {
		resetFlags(c)
	}
}

// runCLI executes the root command headless with stdin as the answer
// stream. setup, when non-nil, adjusts the fresh dependencies first.
func runCLI(t *testing.T, stdin string, setup func(*Dependencies), args ...string) (string, error) {
	t.Helper()

	InitDependencies()
	var out bytes.Buffer
	deps.Headless.ForceHeadless(true)
	deps.Headless.SetIO(strings.NewReader(stdin), &out)
	if setup != nil {
		setup(deps)
	}

	resetFlags(rootCmd)
	rootCmd.SetArgs(args)
	rootCmd.SetOut(&out)
	rootCmd.SetErr(&out)
	t.Cleanup(func() {
		rootCmd.SetArgs(nil)
		rootCmd.SetOut(nil)
		rootCmd.SetErr(nil)
	})

	err := rootCmd.ExecuteContext(context.Background())
	return out.String(), err
}

// initProject scaffolds a site into a temp dir through the init command.
func initProject(t *testing.T) string {
	t.Helper()
	dir := filepath.Join(t.TempDir(), "demo")
	out, err := runCLI(t, "", nil, "init", dir, "--non-interactive", "--name", "Demo Site")
	if err != nil {
		t.Fatalf("init error: %v\n%s", err, out)
	}
	return dir
}

func TestRootCmd_Subcommands(t *testing.T) {
	want := []string{"init", "build", "serve", "start", "stop", "restart", "status", "manage", "config"}
	for _, name := range want {
		found := false
		for _, c := range rootCmd.Commands() {
			if c.Name() == name {
				found = true
				break
			}
		}
		if !found {
			t.Errorf("%s should be registered on the root command", name)
		}
	}
}

func TestInitCmd_NonInteractive(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "my-site")

	out, err := runCLI(t, "", nil, "init", dir, "--non-interactive")
	if err != nil {
		t.Fatalf("init error: %v", err)
	}
	if !strings.Contains(out, "Created") {
		t.Errorf("expected summary line, got: %q", out)
	}
	for _, rel := range []string{"templates/base.html", "templates/home.html", "templates/pages/about.html", "sitekit.yaml", "manage.sh"} {
		if _, statErr := os.Stat(filepath.Join(dir, rel)); statErr != nil {
			t.Errorf("expected %s: %v", rel, statErr)
		}
	}

	data, err := os.ReadFile(filepath.Join(dir, "sitekit.yaml"))
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(string(data), "My Site") {
		t.Errorf("sitekit.yaml should carry the title-cased directory name:\n%s", data)
	}
}

func TestInitCmd_PromptsForName(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "prompted")

	out, err := runCLI(t, "Acme Docs\n", nil, "init", dir)
	if err != nil {
		t.Fatalf("init error: %v", err)
	}
	if !strings.Contains(out, "Site name [Prompted]: ") {
		t.Errorf("expected name prompt with default, got: %q", out)
	}
	data, err := os.ReadFile(filepath.Join(dir, "sitekit.yaml"))
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(string(data), "Acme Docs") {
		t.Errorf("sitekit.yaml should carry the answered name:\n%s", data)
	}
}

func TestInitCmd_InvalidPort(t *testing.T) {
	_, err := runCLI(t, "", nil, "init", t.TempDir(), "--non-interactive", "--port", "70000")
	if !errors.Is(err, config.ErrInvalidPort) {
		t.Errorf("expected ErrInvalidPort, got: %v", err)
	}
}

func TestBuildCmd(t *testing.T) {
	dir := initProject(t)

	out, err := runCLI(t, "", nil, "build", "--root", dir)
	if err != nil {
		t.Fatalf("build error: %v\n%s", err, out)
	}
	if !strings.Contains(out, "Built 2 of 2 pages") {
		t.Errorf("expected build summary, got: %q", out)
	}
	for _, rel := range []string{"index.html", "about/index.html"} {
		if _, statErr := os.Stat(filepath.Join(dir, rel)); statErr != nil {
			t.Errorf("expected %s: %v", rel, statErr)
		}
	}
}

func TestBuildCmd_PageFailure(t *testing.T) {
	dir := initProject(t)
	broken := "{{template \"missing.html\" .}}"
	if err := os.WriteFile(filepath.Join(dir, "templates", "pages", "broken.html"), []byte(broken), 0o644); err != nil {
		t.Fatal(err)
	}

	out, err := runCLI(t, "", nil, "build", "--root", dir)
	if !errors.Is(err, site.ErrBuildFailed) {
		t.Fatalf("expected ErrBuildFailed, got: %v", err)
	}
	if !strings.Contains(out, "Built 2 of 3 pages (1 failed)") {
		t.Errorf("expected partial summary, got: %q", out)
	}
	if _, statErr := os.Stat(filepath.Join(dir, "about", "index.html")); statErr != nil {
		t.Errorf("about page should still be built: %v", statErr)
	}
}

func TestConfigCmd_EnvOverride(t *testing.T) {
	dir := initProject(t)
	t.Setenv("SITEKIT_SERVER_PORT", "9000")

	out, err := runCLI(t, "", nil, "config", "--root", dir)
	if err != nil {
		t.Fatalf("config error: %v", err)
	}
	if !strings.Contains(out, "port: 9000") {
		t.Errorf("expected env override in output, got: %q", out)
	}
	if !strings.Contains(out, "name: Demo Site") {
		t.Errorf("expected site name from sitekit.yaml, got: %q", out)
	}
}

func TestLogLevelFlag_Invalid(t *testing.T) {
	dir := initProject(t)
	_, err := runCLI(t, "", nil, "status", "--root", dir, "--log-level", "loud")
	if err == nil || !strings.Contains(err.Error(), "invalid log level") {
		t.Errorf("expected invalid log level error, got: %v", err)
	}
}

func TestStatusAndStop_NotRunning(t *testing.T) {
	dir := initProject(t)

	out, err := runCLI(t, "", nil, "status", "--root", dir)
	if err != nil {
		t.Fatalf("status error: %v", err)
	}
	if !strings.Contains(out, "Not running") {
		t.Errorf("status output = %q", out)
	}

	out, err = runCLI(t, "", nil, "stop", "--root", dir)
	if err != nil {
		t.Fatalf("stop should be a no-op when nothing runs: %v", err)
	}
	if !strings.Contains(out, "No server running") {
		t.Errorf("stop output = %q", out)
	}
}

func TestStartCmd_NotAProject(t *testing.T) {
	out, err := runCLI(t, "", nil, "start", "--root", t.TempDir())
	if !errors.Is(err, server.ErrProjectNotFound) {
		t.Fatalf("expected ErrProjectNotFound, got: %v", err)
	}
	if !strings.Contains(out, "sitekit init") {
		t.Errorf("expected init hint, got: %q", out)
	}
}

func TestStopCmd_ForceRemovesUnreadableLock(t *testing.T) {
	dir := initProject(t)
	lockPath := filepath.Join(dir, ".server_pid")
	if err := os.WriteFile(lockPath, []byte("garbage"), 0o644); err != nil {
		t.Fatal(err)
	}

	if _, err := runCLI(t, "", nil, "stop", "--root", dir); !errors.Is(err, server.ErrLockUnreadable) {
		t.Fatalf("stop without --force: expected ErrLockUnreadable, got: %v", err)
	}
	if _, err := runCLI(t, "", nil, "stop", "--root", dir, "--force"); err != nil {
		t.Fatalf("stop --force error: %v", err)
	}
	if _, err := os.Stat(lockPath); !os.IsNotExist(err) {
		t.Errorf("lock file should be removed, stat err = %v", err)
	}
}

func TestBuildCmd_FindsRootFromSubdirectory(t *testing.T) {
	dir := initProject(t)
	t.Chdir(filepath.Join(dir, "templates", "pages"))

	out, err := runCLI(t, "", nil, "build")
	if err != nil {
		t.Fatalf("build error: %v\n%s", err, out)
	}
	if _, statErr := os.Stat(filepath.Join(dir, "about", "index.html")); statErr != nil {
		t.Errorf("build from a subdirectory should write into the project root: %v", statErr)
	}
}
