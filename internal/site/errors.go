// Package site renders a templates directory into a static site: the home
// template becomes index.html and every page template becomes
// <slug>/index.html.
package site

import (
	"errors"
	"fmt"
)

// Sentinel errors for the site package.
var (
	// ErrTemplateNotFound indicates an included or extended template does not exist.
	ErrTemplateNotFound = errors.New("site: template not found")

	// ErrTemplateCycle indicates templates include each other in a loop.
	ErrTemplateCycle = errors.New("site: template include cycle")

	// ErrInvalidSlug indicates a page file name yields an unusable slug.
	ErrInvalidSlug = errors.New("site: invalid page slug")

	// ErrDuplicateSlug indicates two page files map to the same output directory.
	ErrDuplicateSlug = errors.New("site: duplicate page slug")

	// ErrBuildFailed indicates at least one page failed to render.
	ErrBuildFailed = errors.New("site: build failed")
)

// PageError reports a render failure for a single page.
type PageError struct {
	Page     string // "home" or the page slug
	Template string // template name relative to the templates root
	Err      error
}

// Error implements the error interface.
func (e *PageError) Error() string {
	return fmt.Sprintf("page %q (%s): %v", e.Page, e.Template, e.Err)
}

// Unwrap returns the underlying error.
func (e *PageError) Unwrap() error {
	return e.Err
}
