package ui

import (
	"fmt"

	"github.com/charmbracelet/bubbles/progress"
	"github.com/charmbracelet/lipgloss"
)

// TermBar renders a static bar showing how much of a term has elapsed.
func (u *UI) TermBar(fraction float64, caption string) string {
	if fraction < 0 {
		fraction = 0
	}
	if fraction > 1 {
		fraction = 1
	}

	if !u.shouldStyle() {
		return fmt.Sprintf("%3.0f%% %s", fraction*100, caption)
	}

	bar := progress.New(
		progress.WithDefaultGradient(),
		progress.WithWidth(24),
		progress.WithoutPercentage(),
	)
	countStyle := lipgloss.NewStyle().Foreground(ColorMuted)

	return fmt.Sprintf("%s %s", bar.ViewAs(fraction), countStyle.Render(fmt.Sprintf("%3.0f%% %s", fraction*100, caption)))
}
