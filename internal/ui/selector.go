package ui

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/charmbracelet/huh"
)

// selectorImpl implements the Selector interface.
type selectorImpl struct {
	theme    *Theme
	headless *HeadlessManager
}

// NewSelector creates a Selector backed by the given theme and headless manager.
func NewSelector(theme *Theme, hm *HeadlessManager) Selector {
	return &selectorImpl{theme: theme, headless: hm}
}

// Select returns the Value of the chosen item. Headless, the items are
// printed as a numbered list and a number or a value is read from input.
func (s *selectorImpl) Select(label string, items []SelectItem) (string, error) {
	if len(items) == 0 {
		return "", ErrNoItems
	}
	if s.headless.IsHeadless() {
		return s.selectHeadless(label, items)
	}
	return s.selectInteractive(label, items)
}

func (s *selectorImpl) selectHeadless(label string, items []SelectItem) (string, error) {
	var b strings.Builder
	b.WriteString(label + "\n")
	for i, item := range items {
		fmt.Fprintf(&b, "  %d) %s\n", i+1, item.Label)
	}
	fmt.Fprintf(&b, "Choose [1-%d]: ", len(items))

	answer, err := s.headless.ask(b.String())
	if err != nil {
		return "", err
	}
	if n, convErr := strconv.Atoi(answer); convErr == nil {
		if n < 1 || n > len(items) {
			return "", fmt.Errorf("%w: %d is not in 1-%d", ErrInvalidChoice, n, len(items))
		}
		return items[n-1].Value, nil
	}
	for _, item := range items {
		if strings.EqualFold(answer, item.Value) {
			return item.Value, nil
		}
	}
	return "", fmt.Errorf("%w: %q", ErrInvalidChoice, answer)
}

func (s *selectorImpl) selectInteractive(label string, items []SelectItem) (string, error) {
	opts := make([]huh.Option[string], len(items))
	for i, item := range items {
		key := item.Label
		if item.Desc != "" {
			key = item.Label + " - " + item.Desc
		}
		opts[i] = huh.NewOption(key, item.Value)
	}

	var selected string
	sel := huh.NewSelect[string]().Title(label).Options(opts...).Value(&selected)
	if err := huh.NewForm(huh.NewGroup(sel)).WithTheme(s.theme.huhTheme()).Run(); err != nil {
		if errors.Is(err, huh.ErrUserAborted) {
			return "", ErrCancelled
		}
		return "", fmt.Errorf("select: %w", err)
	}
	return selected, nil
}
