package server

import (
	"context"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
)

// SpawnRequest describes the background server process to launch.
type SpawnRequest struct {
	Executable string
	Args       []string
	Dir        string
	LogFile    string
}

// Spawner starts a detached process and returns its pid.
type Spawner func(ctx context.Context, req SpawnRequest) (int, error)

// execSpawn starts req in its own session with stdout and stderr appended
// to the log file. The child is reaped in the background so that a later
// stop from the same process does not see a zombie as alive.
func execSpawn(_ context.Context, req SpawnRequest) (int, error) {
	if err := os.MkdirAll(filepath.Dir(req.LogFile), 0o755); err != nil {
		return 0, fmt.Errorf("create log directory: %w", err)
	}
	logFile, err := os.OpenFile(req.LogFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return 0, fmt.Errorf("open server log: %w", err)
	}
	defer logFile.Close()

	// Not CommandContext: the server must outlive this command.
	cmd := exec.Command(req.Executable, req.Args...)
	cmd.Dir = req.Dir
	cmd.Stdin = nil
	cmd.Stdout = logFile
	cmd.Stderr = logFile
	cmd.SysProcAttr = detachedProcAttr()

	if err := cmd.Start(); err != nil {
		return 0, fmt.Errorf("start server process: %w", err)
	}
	go func() { _ = cmd.Wait() }()
	return cmd.Process.Pid, nil
}

// killPID sends sig to pid.
func killPID(pid int, sig os.Signal) error {
	process, err := os.FindProcess(pid)
	if err != nil {
		return err
	}
	return process.Signal(sig)
}
