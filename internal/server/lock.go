package server

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"syscall"
	"time"
)

// LockInfo is the content of the lock file.
type LockInfo struct {
	PID       int       `json:"pid"`
	Port      int       `json:"port"`
	StartedAt time.Time `json:"started_at"`
	LogFile   string    `json:"log_file,omitempty"`
}

// Status classifies the lock file.
type Status int

const (
	// StatusNotRunning means there is no lock file.
	StatusNotRunning Status = iota
	// StatusRunning means the recorded process is alive.
	StatusRunning
	// StatusStale means the recorded process no longer exists.
	StatusStale
)

func (s Status) String() string {
	switch s {
	case StatusRunning:
		return "running"
	case StatusStale:
		return "stale"
	default:
		return "not running"
	}
}

// PIDFile is the lock file recording the background server.
type PIDFile struct {
	Path       string
	IsPIDAlive func(pid int) bool
}

// NewPIDFile returns a PIDFile using the platform liveness probe.
func NewPIDFile(path string) PIDFile {
	return PIDFile{Path: path, IsPIDAlive: isPIDAlive}
}

// Read parses the lock file. It returns ErrNotRunning when the file does
// not exist and ErrLockUnreadable when its content is invalid.
func (p PIDFile) Read() (*LockInfo, error) {
	data, err := os.ReadFile(p.Path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, ErrNotRunning
		}
		return nil, fmt.Errorf("%w: %s: %w", ErrLockUnreadable, p.Path, err)
	}
	var info LockInfo
	if err := json.Unmarshal(data, &info); err != nil {
		return nil, fmt.Errorf("%w: %s: %w", ErrLockUnreadable, p.Path, err)
	}
	if info.PID <= 0 {
		return nil, fmt.Errorf("%w: %s: invalid pid %d", ErrLockUnreadable, p.Path, info.PID)
	}
	return &info, nil
}

// Status reports the state of the lock. An unreadable lock is an error.
func (p PIDFile) Status() (Status, *LockInfo, error) {
	info, err := p.Read()
	if errors.Is(err, ErrNotRunning) {
		return StatusNotRunning, nil, nil
	}
	if err != nil {
		return StatusNotRunning, nil, err
	}
	if p.IsPIDAlive(info.PID) {
		return StatusRunning, info, nil
	}
	return StatusStale, info, nil
}

// ClearStale removes the lock when its process is gone. It reports whether
// a lock was removed and never touches a live or unreadable lock.
func (p PIDFile) ClearStale() (bool, error) {
	status, _, err := p.Status()
	if err != nil || status != StatusStale {
		return false, err
	}
	if err := p.Remove(); err != nil {
		return false, err
	}
	return true, nil
}

// Acquire creates the lock file for info. It fails with
// *AlreadyRunningError when a live server holds the lock; callers clear
// stale locks first.
func (p PIDFile) Acquire(info LockInfo) error {
	if err := os.MkdirAll(filepath.Dir(p.Path), 0o755); err != nil {
		return fmt.Errorf("create lock directory: %w", err)
	}

	f, err := os.OpenFile(p.Path, os.O_CREATE|os.O_EXCL|os.O_WRONLY, 0o644)
	if err != nil {
		if !errors.Is(err, fs.ErrExist) {
			return fmt.Errorf("create lock file: %w", err)
		}
		existing, readErr := p.Read()
		if readErr != nil {
			return readErr
		}
		if p.IsPIDAlive(existing.PID) {
			return &AlreadyRunningError{Info: existing, Path: p.Path}
		}
		return fmt.Errorf("stale lock for pid %d at %s", existing.PID, p.Path)
	}

	data, _ := json.Marshal(info)
	if _, writeErr := f.Write(data); writeErr != nil {
		f.Close()
		os.Remove(p.Path)
		return fmt.Errorf("write lock file: %w", writeErr)
	}
	if closeErr := f.Close(); closeErr != nil {
		os.Remove(p.Path)
		return fmt.Errorf("close lock file: %w", closeErr)
	}
	return nil
}

// Release removes the lock file if it still records pid.
func (p PIDFile) Release(pid int) error {
	info, err := p.Read()
	if err != nil {
		if errors.Is(err, ErrNotRunning) {
			return nil
		}
		return err
	}
	if info.PID != pid {
		return nil
	}
	return p.Remove()
}

// Remove deletes the lock file unconditionally.
func (p PIDFile) Remove() error {
	if err := os.Remove(p.Path); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("remove lock file: %w", err)
	}
	return nil
}

// isPIDAlive probes pid with signal 0. EPERM means the process exists
// but belongs to someone else.
func isPIDAlive(pid int) bool {
	if pid <= 0 {
		return false
	}
	process, err := os.FindProcess(pid)
	if err != nil {
		return false
	}
	err = process.Signal(syscall.Signal(0))
	if err == nil {
		return true
	}
	return errors.Is(err, syscall.EPERM)
}
