package ui

import (
	"os"

	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"
)

// Brand colors.
const (
	ColorPrimary   = "#DA7756"
	ColorSecondary = "#7C3AED"
	ColorSuccess   = "#10B981"
	ColorWarning   = "#F59E0B"
	ColorError     = "#EF4444"
	ColorText      = "#E5E7EB"
	ColorMuted     = "#6B7280"
	ColorBorder    = "#4B5563"
)

// ThemeConfig selects how a Theme renders.
type ThemeConfig struct {
	NoColor bool
	Mode    string // "dark", "light" or "" for terminal detection
}

// ThemeColors holds the palette used by components.
type ThemeColors struct {
	Primary   string
	Secondary string
	Success   string
	Warning   string
	Error     string
	Muted     string
}

// Theme carries the palette and color setting shared by all components.
type Theme struct {
	NoColor bool
	Colors  ThemeColors
}

// NewTheme builds a Theme. NO_COLOR in the environment disables color.
func NewTheme(cfg ThemeConfig) *Theme {
	noColor := cfg.NoColor || os.Getenv("NO_COLOR") != ""
	colors := ThemeColors{
		Primary:   ColorPrimary,
		Secondary: ColorSecondary,
		Success:   ColorSuccess,
		Warning:   ColorWarning,
		Error:     ColorError,
		Muted:     ColorMuted,
	}
	if cfg.Mode == "light" {
		colors.Primary = "#C45A3C"
		colors.Secondary = "#5B21B6"
		colors.Success = "#059669"
		colors.Warning = "#D97706"
		colors.Error = "#DC2626"
		colors.Muted = "#9CA3AF"
	}
	return &Theme{NoColor: noColor, Colors: colors}
}

// huhTheme maps the palette onto a huh form theme.
func (t *Theme) huhTheme() *huh.Theme {
	if t.NoColor {
		return huh.ThemeBase()
	}
	ht := huh.ThemeBase()

	primary := lipgloss.AdaptiveColor{Light: "#C45A3C", Dark: ColorPrimary}
	secondary := lipgloss.AdaptiveColor{Light: "#5B21B6", Dark: ColorSecondary}
	green := lipgloss.AdaptiveColor{Light: "#059669", Dark: ColorSuccess}
	red := lipgloss.AdaptiveColor{Light: "#DC2626", Dark: ColorError}
	text := lipgloss.AdaptiveColor{Light: "#111827", Dark: ColorText}
	muted := lipgloss.AdaptiveColor{Light: "#9CA3AF", Dark: ColorMuted}
	border := lipgloss.AdaptiveColor{Light: "#D1D5DB", Dark: ColorBorder}

	ht.Focused.Base = ht.Focused.Base.BorderForeground(border)
	ht.Focused.Title = ht.Focused.Title.Foreground(primary).Bold(true)
	ht.Focused.Description = ht.Focused.Description.Foreground(muted)
	ht.Focused.ErrorIndicator = ht.Focused.ErrorIndicator.Foreground(red)
	ht.Focused.ErrorMessage = ht.Focused.ErrorMessage.Foreground(red)
	ht.Focused.SelectSelector = ht.Focused.SelectSelector.Foreground(primary).SetString("▸ ")
	ht.Focused.Option = ht.Focused.Option.Foreground(text)
	ht.Focused.SelectedOption = ht.Focused.SelectedOption.Foreground(green)
	ht.Focused.TextInput.Cursor = ht.Focused.TextInput.Cursor.Foreground(primary)
	ht.Focused.TextInput.Placeholder = ht.Focused.TextInput.Placeholder.Foreground(muted)
	ht.Focused.TextInput.Prompt = ht.Focused.TextInput.Prompt.Foreground(secondary)
	ht.Focused.FocusedButton = ht.Focused.FocusedButton.
		Foreground(lipgloss.AdaptiveColor{Light: "#FFFFFF", Dark: "#FFFFFF"}).
		Background(primary)

	ht.Blurred = ht.Focused
	ht.Blurred.Base = ht.Focused.Base.BorderStyle(lipgloss.HiddenBorder())
	ht.Group.Title = ht.Focused.Title
	return ht
}
