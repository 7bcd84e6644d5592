package cmd

import (
	"os"

	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/viper"
	"golang.org/x/term"
)

var (
	headingStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#bd93f9")).Bold(true)
	okStyle      = lipgloss.NewStyle().Foreground(lipgloss.Color("#50fa7b"))
	warnStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("#ffb86c"))
	errStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("#ff5555"))
	dimStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("#6272a4"))

	colorEnabled bool
)

// initStyles decides once per run whether output is colored.
func initStyles() {
	switch {
	case noColor, os.Getenv("NO_COLOR") != "":
		colorEnabled = false
	case viper.GetString("output.color") == "always":
		colorEnabled = true
	case viper.GetString("output.color") == "never":
		colorEnabled = false
	default:
		colorEnabled = term.IsTerminal(int(os.Stdout.Fd()))
	}
}

func paint(style lipgloss.Style, s string) string {
	if !colorEnabled {
		return s
	}
	return style.Render(s)
}
