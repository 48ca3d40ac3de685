package ui

import "github.com/charmbracelet/lipgloss"

// Palette. Adaptive colors keep badges readable on light and dark terminals.
var (
	ColorBrand     = lipgloss.AdaptiveColor{Light: "#B8001F", Dark: "#FF6B6B"}
	ColorActive    = lipgloss.AdaptiveColor{Light: "#1A7F37", Dark: "#3FB950"}
	ColorFailure   = lipgloss.AdaptiveColor{Light: "#CF222E", Dark: "#F85149"}
	ColorAttention = lipgloss.AdaptiveColor{Light: "#BC4C00", Dark: "#DB6D28"}
	ColorFrozen    = lipgloss.AdaptiveColor{Light: "#0969DA", Dark: "#79C0FF"}
	ColorAccruing  = lipgloss.AdaptiveColor{Light: "#8250DF", Dark: "#D2A8FF"}
	ColorMuted     = lipgloss.AdaptiveColor{Light: "#6E7781", Dark: "#8B949E"}
)

const (
	SymbolSuccess  = "✓"
	SymbolError    = "✗"
	SymbolWarning  = "!"
	SymbolFrozen   = "❄"
	SymbolProgress = "●"
	SymbolPending  = "○"
)

var (
	StyleSuccess  = lipgloss.NewStyle().Foreground(ColorActive)
	StyleError    = lipgloss.NewStyle().Foreground(ColorFailure).Bold(true)
	StyleWarning  = lipgloss.NewStyle().Foreground(ColorAttention)
	StyleFrozen   = lipgloss.NewStyle().Foreground(ColorFrozen)
	StyleMuted    = lipgloss.NewStyle().Foreground(ColorMuted)
	StyleProgress = lipgloss.NewStyle().Foreground(ColorAccruing)

	// Amounts are bold so balances stand out in key-value listings
	StyleAmount = lipgloss.NewStyle().Bold(true)
)

type badgeStyle struct {
	symbol string
	style  lipgloss.Style
}

// badges maps a tone to its badge. A normal card and a matured deposit share
// StatusSuccess, a lost card is StatusWarning, a cancelled card or a closed
// deposit is StatusPending.
var badges = map[Status]badgeStyle{
	StatusSuccess:  {SymbolSuccess, StyleSuccess},
	StatusWarning:  {SymbolWarning, StyleWarning},
	StatusFrozen:   {SymbolFrozen, StyleFrozen},
	StatusError:    {SymbolError, StyleError},
	StatusPending:  {SymbolPending, StyleMuted},
	StatusProgress: {SymbolProgress, StyleProgress},
}
