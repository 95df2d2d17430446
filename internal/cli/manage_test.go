package cli

import (
	"context"
	"log/slog"
	"os"
	"strings"
	"syscall"
	"testing"
	"time"

	"github.com/sitekit-dev/sitekit/internal/config"
	"github.com/sitekit-dev/sitekit/internal/server"
)

// fakeServers records spawned servers instead of starting processes.
type fakeServers struct {
	alive   map[int]bool
	nextPID int
	ports   []string
	signals []os.Signal
}

func (f *fakeServers) install(d *Dependencies) {
	d.NewManager = func(cfg *config.Config, logger *slog.Logger) *server.Manager {
		m := defaultManager(cfg, logger)
		m.Lock().IsPIDAlive = func(pid int) bool { return f.alive[pid] }
		m.Spawn = func(_ context.Context, req server.SpawnRequest) (int, error) {
			f.nextPID++
			f.alive[f.nextPID] = true
			for i, a := range req.Args {
				if a == "--port" && i+1 < len(req.Args) {
					f.ports = append(f.ports, req.Args[i+1])
				}
			}
			return f.nextPID, nil
		}
		m.Kill = func(pid int, sig os.Signal) error {
			f.signals = append(f.signals, sig)
			f.alive[pid] = false
			return nil
		}
		m.Sleep = func(time.Duration) {}
		return m
	}
}

func newFakeServers() *fakeServers {
	return &fakeServers{alive: map[int]bool{}, nextPID: 4000}
}

func TestManage_BuildRunThenStop(t *testing.T) {
	dir := initProject(t)
	fake := newFakeServers()

	out, err := runCLI(t, "2\n9001\n1\n4\n", fake.install, "manage", "--root", dir)
	if err != nil {
		t.Fatalf("manage error: %v\n%s", err, out)
	}

	if len(fake.ports) != 1 || fake.ports[0] != "9001" {
		t.Errorf("spawned ports = %v, want [9001]", fake.ports)
	}
	if len(fake.signals) != 1 || fake.signals[0] != syscall.SIGTERM {
		t.Errorf("signals = %v, want [SIGTERM]", fake.signals)
	}
	for _, want := range []string{
		"Not running",
		"Port [8000]: ",
		"Built 2 of 2 pages",
		"Server started on http://localhost:9001 (pid 4001)",
		"Running on http://localhost:9001 (pid 4001",
		"Server stopped (pid 4001)",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q:\n%s", want, out)
		}
	}
	if _, statErr := os.Stat(dir + "/.server_pid"); !os.IsNotExist(statErr) {
		t.Errorf("lock file should be removed after stop, stat err = %v", statErr)
	}
}

func TestManage_QuickRestartUsesDefaultPort(t *testing.T) {
	dir := initProject(t)
	fake := newFakeServers()

	// Input ends after one choice; the menu exits quietly.
	out, err := runCLI(t, "3\n", fake.install, "manage", "--root", dir)
	if err != nil {
		t.Fatalf("manage error: %v\n%s", err, out)
	}
	if len(fake.ports) != 1 || fake.ports[0] != "8000" {
		t.Errorf("spawned ports = %v, want [8000]", fake.ports)
	}
	if !strings.Contains(out, "No server running") {
		t.Errorf("restart with nothing running should warn, got:\n%s", out)
	}
}

func TestManage_QuickRestartReplacesRunningServer(t *testing.T) {
	dir := initProject(t)
	fake := newFakeServers()

	out, err := runCLI(t, "2\n9100\n3\n4\n", fake.install, "manage", "--root", dir)
	if err != nil {
		t.Fatalf("manage error: %v\n%s", err, out)
	}
	if strings.Join(fake.ports, ",") != "9100,8000" {
		t.Errorf("spawned ports = %v, want [9100 8000]", fake.ports)
	}
	if !strings.Contains(out, "Server stopped (pid 4001)") {
		t.Errorf("first server should be stopped:\n%s", out)
	}
	if !strings.Contains(out, "Server started on http://localhost:8000 (pid 4002)") {
		t.Errorf("second server should start on the default port:\n%s", out)
	}
}

func TestManage_BuildRunRefusesWhileRunning(t *testing.T) {
	dir := initProject(t)
	fake := newFakeServers()

	out, err := runCLI(t, "2\n9001\n2\n9002\n4\n", fake.install, "manage", "--root", dir)
	if err != nil {
		t.Fatalf("manage error: %v\n%s", err, out)
	}
	if len(fake.ports) != 1 {
		t.Errorf("spawned ports = %v, want only the first", fake.ports)
	}
	if !strings.Contains(out, "Server already running on port 9001 (pid 4001); stop it first") {
		t.Errorf("expected refusal warning:\n%s", out)
	}
}

func TestManage_InvalidInputs(t *testing.T) {
	dir := initProject(t)
	fake := newFakeServers()

	out, err := runCLI(t, "9\nbogus\n2\nabc\n4\n", fake.install, "manage", "--root", dir)
	if err != nil {
		t.Fatalf("manage error: %v\n%s", err, out)
	}
	if len(fake.ports) != 0 {
		t.Errorf("nothing should be spawned, got ports %v", fake.ports)
	}
	if strings.Count(out, "invalid choice") != 2 {
		t.Errorf("expected two invalid choice warnings:\n%s", out)
	}
	if !strings.Contains(out, "invalid port") {
		t.Errorf("expected invalid port warning:\n%s", out)
	}
}

func TestManage_EmptyInputExits(t *testing.T) {
	dir := initProject(t)
	if _, err := runCLI(t, "", newFakeServers().install, "manage", "--root", dir); err != nil {
		t.Errorf("manage with no input should exit cleanly, got: %v", err)
	}
}
