// Package server runs the static file server and manages it as a
// background process tracked by a PID lock file.
package server

import (
	"errors"
	"fmt"
	"time"
)

// Sentinel errors for the server package.
var (
	// ErrAlreadyRunning indicates the lock file references a live process.
	ErrAlreadyRunning = errors.New("server: already running")

	// ErrNotRunning indicates no live server is recorded.
	ErrNotRunning = errors.New("server: not running")

	// ErrLockUnreadable indicates the lock file exists but cannot be parsed.
	// It is never removed implicitly.
	ErrLockUnreadable = errors.New("server: lock file unreadable")

	// ErrProjectNotFound indicates the directory is not an initialized project.
	ErrProjectNotFound = errors.New("server: project not initialized")

	// ErrServerExited indicates the spawned server died during startup,
	// typically because its port is in use.
	ErrServerExited = errors.New("server: exited during startup")
)

// AlreadyRunningError reports the live server that blocked a start.
type AlreadyRunningError struct {
	Info *LockInfo
	Path string
}

func (e *AlreadyRunningError) Error() string {
	return fmt.Sprintf("server already running with pid %d on port %d since %s (lock file: %s)",
		e.Info.PID, e.Info.Port, e.Info.StartedAt.Format(time.RFC3339), e.Path)
}

// Is lets errors.Is match ErrAlreadyRunning.
func (e *AlreadyRunningError) Is(target error) bool {
	return target == ErrAlreadyRunning
}
