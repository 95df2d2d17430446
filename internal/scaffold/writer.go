package scaffold

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/natefinch/atomic"
)

// Reporter receives one notification per written file.
type Reporter interface {
	Created(relPath string)
}

// ReporterFunc adapts a function to the Reporter interface.
type ReporterFunc func(relPath string)

// Created calls f(relPath).
func (f ReporterFunc) Created(relPath string) { f(relPath) }

// Result summarizes a Write call.
type Result struct {
	Root        string
	Created     []string // every path written, in write order
	Overwritten []string // subset of Created that replaced an existing file
}

// Writer writes scaffold entries to disk.
type Writer struct {
	reporter Reporter
	logger   *slog.Logger
}

// NewWriter creates a Writer. Both arguments may be nil.
func NewWriter(reporter Reporter, logger *slog.Logger) *Writer {
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return &Writer{reporter: reporter, logger: logger}
}

// Write creates every entry below root, creating parent directories on
// demand and overwriting existing files. Each file is replaced atomically,
// but the set is not: on error, files written so far stay on disk.
func (w *Writer) Write(ctx context.Context, root string, entries []Entry) (*Result, error) {
	root = filepath.Clean(root)
	result := &Result{Root: root}

	// Reject the whole set up front so a bad path never leaves a partial tree.
	for _, e := range entries {
		if err := validatePath(root, e.Path); err != nil {
			return nil, err
		}
	}

	for _, e := range entries {
		if err := ctx.Err(); err != nil {
			return result, err
		}

		dest := filepath.Join(root, filepath.FromSlash(e.Path))
		if err := os.MkdirAll(filepath.Dir(dest), 0o755); err != nil {
			return result, fmt.Errorf("scaffold mkdir %q: %w", filepath.Dir(dest), err)
		}

		_, statErr := os.Stat(dest)
		existed := statErr == nil

		if err := atomic.WriteFile(dest, strings.NewReader(e.Content)); err != nil {
			return result, fmt.Errorf("scaffold write %q: %w", dest, err)
		}
		if err := os.Chmod(dest, e.Mode); err != nil {
			return result, fmt.Errorf("scaffold chmod %q: %w", dest, err)
		}

		result.Created = append(result.Created, e.Path)
		if existed {
			result.Overwritten = append(result.Overwritten, e.Path)
		}
		w.logger.Debug("scaffold file written", "path", e.Path, "overwritten", existed)
		if w.reporter != nil {
			w.reporter.Created(e.Path)
		}
	}

	return result, nil
}

// validatePath ensures an entry path does not escape root.
func validatePath(root, relPath string) error {
	cleaned := filepath.Clean(filepath.FromSlash(relPath))

	if filepath.IsAbs(cleaned) {
		return fmt.Errorf("%w: absolute path %q", ErrPathTraversal, relPath)
	}
	if cleaned == ".." || strings.HasPrefix(cleaned, ".."+string(filepath.Separator)) {
		return fmt.Errorf("%w: parent reference in %q", ErrPathTraversal, relPath)
	}

	absRoot, err := filepath.Abs(root)
	if err != nil {
		return fmt.Errorf("resolve project root: %w", err)
	}
	absPath := filepath.Join(absRoot, cleaned)
	if !strings.HasPrefix(absPath, absRoot+string(filepath.Separator)) {
		return fmt.Errorf("%w: %q escapes project root", ErrPathTraversal, relPath)
	}
	return nil
}
