package ui

import (
	"errors"
	"fmt"
	"strings"

	"github.com/charmbracelet/huh"
)

// InputOption configures an Input prompt.
type InputOption func(*inputConfig)

type inputConfig struct {
	key        string
	defaultVal string
	validate   func(string) error
}

// WithDefault sets the value used when the answer is empty.
func WithDefault(v string) InputOption {
	return func(c *inputConfig) { c.defaultVal = v }
}

// WithValidate rejects answers for which fn returns an error.
func WithValidate(fn func(string) error) InputOption {
	return func(c *inputConfig) { c.validate = fn }
}

// WithDefaultKey answers from the HeadlessManager default stored under key
// when running headless.
func WithDefaultKey(key string) InputOption {
	return func(c *inputConfig) { c.key = key }
}

// promptImpl implements the Prompt interface.
type promptImpl struct {
	theme    *Theme
	headless *HeadlessManager
}

// NewPrompt creates a Prompt backed by the given theme and headless manager.
func NewPrompt(theme *Theme, hm *HeadlessManager) Prompt {
	return &promptImpl{theme: theme, headless: hm}
}

// Input asks for a line of text.
func (p *promptImpl) Input(label string, opts ...InputOption) (string, error) {
	var cfg inputConfig
	for _, o := range opts {
		o(&cfg)
	}
	if p.headless.IsHeadless() {
		return p.inputHeadless(label, cfg)
	}
	return p.inputInteractive(label, cfg)
}

func (p *promptImpl) inputHeadless(label string, cfg inputConfig) (string, error) {
	if cfg.key != "" {
		if v, ok := p.headless.GetDefault(cfg.key); ok {
			return v, nil
		}
	}

	prompt := label + ": "
	if cfg.defaultVal != "" {
		prompt = fmt.Sprintf("%s [%s]: ", label, cfg.defaultVal)
	}
	answer, err := p.headless.ask(prompt)
	if errors.Is(err, ErrNoInput) && cfg.defaultVal != "" {
		answer, err = "", nil
	}
	if err != nil {
		return "", err
	}
	if answer == "" {
		answer = cfg.defaultVal
	}
	if cfg.validate != nil {
		if err := cfg.validate(answer); err != nil {
			return "", err
		}
	}
	return answer, nil
}

func (p *promptImpl) inputInteractive(label string, cfg inputConfig) (string, error) {
	value := cfg.defaultVal
	inp := huh.NewInput().Title(label).Value(&value)
	if cfg.defaultVal != "" {
		inp = inp.Placeholder(cfg.defaultVal)
	}
	if cfg.validate != nil {
		inp = inp.Validate(func(v string) error {
			if strings.TrimSpace(v) == "" && cfg.defaultVal != "" {
				return nil
			}
			return cfg.validate(strings.TrimSpace(v))
		})
	}

	if err := huh.NewForm(huh.NewGroup(inp)).WithTheme(p.theme.huhTheme()).Run(); err != nil {
		if errors.Is(err, huh.ErrUserAborted) {
			return "", ErrCancelled
		}
		return "", fmt.Errorf("prompt: %w", err)
	}
	value = strings.TrimSpace(value)
	if value == "" {
		value = cfg.defaultVal
	}
	return value, nil
}

// Confirm asks a yes/no question.
func (p *promptImpl) Confirm(label string, defaultVal bool) (bool, error) {
	if p.headless.IsHeadless() {
		return p.confirmHeadless(label, defaultVal)
	}
	return p.confirmInteractive(label, defaultVal)
}

func (p *promptImpl) confirmHeadless(label string, defaultVal bool) (bool, error) {
	hint := "y/N"
	if defaultVal {
		hint = "Y/n"
	}
	answer, err := p.headless.ask(fmt.Sprintf("%s [%s]: ", label, hint))
	if errors.Is(err, ErrNoInput) {
		return defaultVal, nil
	}
	if err != nil {
		return false, err
	}
	switch strings.ToLower(answer) {
	case "":
		return defaultVal, nil
	case "y", "yes":
		return true, nil
	case "n", "no":
		return false, nil
	}
	return false, fmt.Errorf("invalid answer %q: expected y or n", answer)
}

func (p *promptImpl) confirmInteractive(label string, defaultVal bool) (bool, error) {
	value := defaultVal
	c := huh.NewConfirm().Title(label).Value(&value)
	if err := huh.NewForm(huh.NewGroup(c)).WithTheme(p.theme.huhTheme()).Run(); err != nil {
		if errors.Is(err, huh.ErrUserAborted) {
			return false, ErrCancelled
		}
		return false, fmt.Errorf("confirm: %w", err)
	}
	return value, nil
}
