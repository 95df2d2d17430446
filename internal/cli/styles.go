package cli

import (
	"fmt"
	"io"

	"github.com/charmbracelet/lipgloss"
)

// Terminal styles for command output.
var (
	cliSuccess = lipgloss.NewStyle().Foreground(lipgloss.AdaptiveColor{Light: "#059669", Dark: "#10B981"})
	cliWarn    = lipgloss.NewStyle().Foreground(lipgloss.AdaptiveColor{Light: "#D97706", Dark: "#F59E0B"})
	cliError   = lipgloss.NewStyle().Foreground(lipgloss.AdaptiveColor{Light: "#DC2626", Dark: "#EF4444"})
	cliMuted   = lipgloss.NewStyle().Foreground(lipgloss.AdaptiveColor{Light: "#9CA3AF", Dark: "#6B7280"})
	cliPrimary = lipgloss.NewStyle().Foreground(lipgloss.AdaptiveColor{Light: "#C45A3C", Dark: "#DA7756"}).Bold(true)
)

func printSuccess(w io.Writer, format string, args ...any) {
	_, _ = fmt.Fprintln(w, cliSuccess.Render("✓ "+fmt.Sprintf(format, args...)))
}

func printWarn(w io.Writer, format string, args ...any) {
	_, _ = fmt.Fprintln(w, cliWarn.Render("! "+fmt.Sprintf(format, args...)))
}

func printError(w io.Writer, format string, args ...any) {
	_, _ = fmt.Fprintln(w, cliError.Render("✗ "+fmt.Sprintf(format, args...)))
}

func printInfo(w io.Writer, format string, args ...any) {
	_, _ = fmt.Fprintln(w, cliMuted.Render(fmt.Sprintf(format, args...)))
}
