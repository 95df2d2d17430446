package site

import (
	"errors"
	"fmt"
)

// PageResult records the outcome of rendering one page.
type PageResult struct {
	Name     string // "home" or the page slug
	Template string // template name relative to the templates root
	Output   string // output path relative to the output root, slash separated
	Bytes    int
	Err      error
}

// OK reports whether the page rendered and was written.
func (r PageResult) OK() bool {
	return r.Err == nil
}

// Report summarizes a build.
type Report struct {
	Pages        []PageResult
	StaticFiles  int
	SitemapWrote bool
}

// Failed returns the pages that did not render.
func (r *Report) Failed() []PageResult {
	var failed []PageResult
	for _, p := range r.Pages {
		if !p.OK() {
			failed = append(failed, p)
		}
	}
	return failed
}

// Succeeded returns the number of pages written.
func (r *Report) Succeeded() int {
	return len(r.Pages) - len(r.Failed())
}

// Err returns nil when every page rendered, otherwise an error matching
// ErrBuildFailed that joins every page failure.
func (r *Report) Err() error {
	failed := r.Failed()
	if len(failed) == 0 {
		return nil
	}
	errs := make([]error, 0, len(failed))
	for _, p := range failed {
		errs = append(errs, p.Err)
	}
	return fmt.Errorf("%w: %d of %d pages failed: %w",
		ErrBuildFailed, len(failed), len(r.Pages), errors.Join(errs...))
}
