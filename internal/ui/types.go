// Package ui provides terminal UI components for sitekit: prompts, a
// selection menu, progress bars and spinners. Every component has a
// headless fallback for non-TTY use.
package ui

import "errors"

// Sentinel errors for the ui package.
var (
	// ErrCancelled indicates the user aborted a prompt.
	ErrCancelled = errors.New("ui: cancelled by user")

	// ErrNoInput indicates headless input ended before an answer was read.
	ErrNoInput = errors.New("ui: no input")

	// ErrNoItems indicates a selection was requested without options.
	ErrNoItems = errors.New("ui: no items to select")

	// ErrInvalidChoice indicates headless input named no listed option.
	ErrInvalidChoice = errors.New("ui: invalid choice")
)

// SelectItem is one option of a selection.
type SelectItem struct {
	Label string
	Value string
	Desc  string
}

// Selector asks the user to pick one item.
type Selector interface {
	Select(label string, items []SelectItem) (string, error)
}

// Prompt asks the user for free text or a yes/no answer.
type Prompt interface {
	Input(label string, opts ...InputOption) (string, error)
	Confirm(label string, defaultVal bool) (bool, error)
}

// Progress creates progress indicators.
type Progress interface {
	Start(title string, total int) ProgressBar
	Spinner(title string) Spinner
}

// ProgressBar is a determinate progress indicator.
type ProgressBar interface {
	Increment(n int)
	SetTitle(title string)
	Done()
}

// Spinner is an indeterminate progress indicator.
type Spinner interface {
	SetTitle(title string)
	Stop()
}
