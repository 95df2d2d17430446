package server

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strconv"
	"syscall"
	"time"
)

// Default timings for starting and stopping the server.
const (
	DefaultStopTimeout  = 5 * time.Second
	DefaultPollInterval = 100 * time.Millisecond
	DefaultStartupGrace = 500 * time.Millisecond
)

// Options configures a Manager.
type Options struct {
	// Root is the project directory the server process runs in.
	Root string
	// ProjectMarker must exist for Root to count as an initialized project.
	ProjectMarker string
	PIDPath       string
	LogPath       string
	// Executable is the binary re-invoked as "serve"; empty means os.Executable.
	Executable string
}

// Manager starts, stops and restarts the background server.
type Manager struct {
	opts   Options
	lock   PIDFile
	logger *slog.Logger

	Spawn        Spawner
	Kill         func(pid int, sig os.Signal) error
	Now          func() time.Time
	Sleep        func(time.Duration)
	StopTimeout  time.Duration
	PollInterval time.Duration
	// StartupGrace is how long Start waits before checking the child is up.
	StartupGrace time.Duration
}

// NewManager returns a Manager with platform defaults.
func NewManager(opts Options, logger *slog.Logger) *Manager {
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return &Manager{
		opts:         opts,
		lock:         NewPIDFile(opts.PIDPath),
		logger:       logger,
		Spawn:        execSpawn,
		Kill:         killPID,
		Now:          time.Now,
		Sleep:        time.Sleep,
		StopTimeout:  DefaultStopTimeout,
		PollInterval: DefaultPollInterval,
		StartupGrace: DefaultStartupGrace,
	}
}

// Lock exposes the manager's lock file.
func (m *Manager) Lock() *PIDFile {
	return &m.lock
}

// Status reports the recorded server state without changing anything.
func (m *Manager) Status() (Status, *LockInfo, error) {
	return m.lock.Status()
}

// Start launches the background server on port. A stale lock is cleared
// first; a live one is refused with *AlreadyRunningError.
func (m *Manager) Start(ctx context.Context, port int) (*LockInfo, error) {
	if err := m.checkProject(); err != nil {
		return nil, err
	}

	cleared, err := m.lock.ClearStale()
	if err != nil {
		return nil, err
	}
	if cleared {
		m.logger.Info("cleared stale lock", "path", m.lock.Path)
	}
	status, info, err := m.lock.Status()
	if err != nil {
		return nil, err
	}
	if status == StatusRunning {
		return nil, &AlreadyRunningError{Info: info, Path: m.lock.Path}
	}

	exe := m.opts.Executable
	if exe == "" {
		if exe, err = os.Executable(); err != nil {
			return nil, fmt.Errorf("locate executable: %w", err)
		}
	}

	pid, err := m.Spawn(ctx, SpawnRequest{
		Executable: exe,
		Args: []string{
			"serve", "--no-build",
			"--port", strconv.Itoa(port),
			"--root", m.opts.Root,
			"--log-level", "info",
		},
		Dir:     m.opts.Root,
		LogFile: m.opts.LogPath,
	})
	if err != nil {
		return nil, err
	}

	// A server that cannot bind its port exits right away.
	m.Sleep(m.StartupGrace)
	if !m.lock.IsPIDAlive(pid) {
		return nil, fmt.Errorf("%w: pid %d, see %s", ErrServerExited, pid, m.opts.LogPath)
	}

	started := LockInfo{PID: pid, Port: port, StartedAt: m.Now(), LogFile: m.opts.LogPath}
	if err := m.lock.Acquire(started); err != nil {
		// Another start won the race; do not leave an untracked server.
		_ = m.Kill(pid, syscall.SIGTERM)
		return nil, err
	}
	m.logger.Info("server started", "pid", pid, "port", port, "log", m.opts.LogPath)
	return &started, nil
}

// Stop terminates the recorded server: SIGTERM, then SIGKILL after
// StopTimeout. A stale lock is cleared and reported as ErrNotRunning.
func (m *Manager) Stop(ctx context.Context) (*LockInfo, error) {
	status, info, err := m.lock.Status()
	if err != nil {
		return nil, err
	}
	switch status {
	case StatusNotRunning:
		return nil, ErrNotRunning
	case StatusStale:
		if err := m.lock.Remove(); err != nil {
			return nil, err
		}
		m.logger.Info("cleared stale lock", "pid", info.PID)
		return info, fmt.Errorf("%w: stale lock for pid %d cleared", ErrNotRunning, info.PID)
	}

	if err := m.Kill(info.PID, syscall.SIGTERM); err != nil && m.lock.IsPIDAlive(info.PID) {
		return nil, fmt.Errorf("signal pid %d: %w", info.PID, err)
	}
	if !m.waitExit(ctx, info.PID) {
		m.logger.Warn("server ignored SIGTERM, killing", "pid", info.PID)
		if err := m.Kill(info.PID, syscall.SIGKILL); err != nil && m.lock.IsPIDAlive(info.PID) {
			return nil, fmt.Errorf("kill pid %d: %w", info.PID, err)
		}
	}

	if err := m.lock.Release(info.PID); err != nil {
		return nil, err
	}
	m.logger.Info("server stopped", "pid", info.PID)
	return info, nil
}

// Restart stops any running server and starts a new one on port.
func (m *Manager) Restart(ctx context.Context, port int) (*LockInfo, error) {
	if _, err := m.Stop(ctx); err != nil && !errors.Is(err, ErrNotRunning) {
		return nil, err
	}
	return m.Start(ctx, port)
}

// waitExit polls until pid is gone, the timeout passes or ctx is done.
func (m *Manager) waitExit(ctx context.Context, pid int) bool {
	deadline := m.Now().Add(m.StopTimeout)
	for {
		if !m.lock.IsPIDAlive(pid) {
			return true
		}
		if ctx.Err() != nil || !m.Now().Before(deadline) {
			return false
		}
		m.Sleep(m.PollInterval)
	}
}

func (m *Manager) checkProject() error {
	if m.opts.ProjectMarker == "" {
		return nil
	}
	if _, err := os.Stat(m.opts.ProjectMarker); err != nil {
		return fmt.Errorf("%w: %s missing (run sitekit init)", ErrProjectNotFound, m.opts.ProjectMarker)
	}
	return nil
}
