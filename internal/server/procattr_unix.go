//go:build unix

package server

import "syscall"

// detachedProcAttr starts the child in a new session so it survives the
// terminal that launched it.
func detachedProcAttr() *syscall.SysProcAttr {
	return &syscall.SysProcAttr{Setsid: true}
}
