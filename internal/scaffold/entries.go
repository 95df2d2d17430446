package scaffold

import (
	"fmt"
	"io/fs"
	"strings"
)

// TemplateExt marks skeleton files that are rendered before writing.
const TemplateExt = ".tmpl"

// Entry is one file of the starter project.
type Entry struct {
	Path    string      // slash-separated, relative to the project root
	Content string      // whitespace-trimmed
	Mode    fs.FileMode // 0755 for shell scripts, 0644 otherwise
}

// Entries builds the path -> content table from the skeleton filesystem.
// It performs no I/O beyond reading fsys; the result is the exact set of
// files Write produces, in lexical path order.
func Entries(fsys fs.FS, r Renderer, data Data) ([]Entry, error) {
	var entries []Entry

	err := fs.WalkDir(fsys, ".", func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			return nil
		}

		var raw []byte
		dest := path
		if before, ok := strings.CutSuffix(path, TemplateExt); ok {
			rendered, renderErr := r.Render(path, data)
			if renderErr != nil {
				return fmt.Errorf("render %q: %w", path, renderErr)
			}
			raw = rendered
			dest = before
		} else {
			content, readErr := fs.ReadFile(fsys, path)
			if readErr != nil {
				return fmt.Errorf("read %q: %w", path, readErr)
			}
			raw = content
		}

		entries = append(entries, Entry{
			Path:    dest,
			Content: strings.TrimSpace(string(raw)),
			Mode:    modeFor(dest),
		})
		return nil
	})
	if err != nil {
		return nil, err
	}
	return entries, nil
}

// modeFor returns the permission bits for a destination path.
func modeFor(path string) fs.FileMode {
	if strings.HasSuffix(path, ".sh") {
		return 0o755
	}
	return 0o644
}
