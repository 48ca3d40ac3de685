// Package ui provides styled terminal output for the bankfront CLI.
// It uses the Charm.sh ecosystem for styling with automatic fallback to
// plain text for non-TTY environments.
package ui

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"golang.org/x/term"
)

// UI holds the terminal state and provides styled output methods.
type UI struct {
	IsTTY   bool
	Width   int
	NoColor bool

	Out io.Writer
	in  *bufio.Reader

	// inFd is the input file descriptor when input is a terminal, -1 otherwise
	inFd int
}

// KV represents a key-value pair for summary displays.
type KV struct {
	Key   string
	Value string
}

// noColorEnv is the standard environment variable to disable colors.
var noColorEnv = os.Getenv("NO_COLOR") != ""

// New creates a UI on stdin/stdout with TTY detection.
func New() *UI {
	isTTY := term.IsTerminal(int(os.Stdout.Fd()))
	width := 80
	if isTTY {
		if w, _, err := term.GetSize(int(os.Stdout.Fd())); err == nil && w > 0 {
			width = w
		}
	}

	inFd := -1
	if fd := int(os.Stdin.Fd()); term.IsTerminal(fd) {
		inFd = fd
	}

	return &UI{
		IsTTY:   isTTY,
		Width:   width,
		NoColor: noColorEnv,
		Out:     os.Stdout,
		in:      bufio.NewReader(os.Stdin),
		inFd:    inFd,
	}
}

// NewPlain creates an unstyled UI over arbitrary streams
func NewPlain(in io.Reader, out io.Writer) *UI {
	return &UI{
		Width:   80,
		NoColor: true,
		Out:     out,
		in:      bufio.NewReader(in),
		inFd:    -1,
	}
}

// SetNoColor disables colors and animations.
func (u *UI) SetNoColor(noColor bool) {
	u.NoColor = u.NoColor || noColor
}

// shouldStyle returns true if we should use styled output.
func (u *UI) shouldStyle() bool {
	return u.IsTTY && !u.NoColor
}

// Println writes a line to the output
func (u *UI) Println(a ...any) {
	fmt.Fprintln(u.Out, a...)
}

// Header renders a bordered header box.
func (u *UI) Header(title string) string {
	if !u.shouldStyle() {
		return fmt.Sprintf("=== %s ===", title)
	}

	style := lipgloss.NewStyle().
		Bold(true).
		Foreground(ColorBrand).
		BorderStyle(lipgloss.RoundedBorder()).
		BorderForeground(ColorBrand).
		Padding(0, 2)

	return style.Render(title)
}

// KeyValue renders a styled key-value pair.
func (u *UI) KeyValue(key, value string) string {
	if !u.shouldStyle() {
		return fmt.Sprintf("%s: %s", key, value)
	}

	keyStyle := lipgloss.NewStyle().
		Foreground(ColorMuted).
		Width(16)

	return "  " + keyStyle.Render(key) + " " + StyleAmount.Render(value)
}

// Success renders a success message with a green checkmark.
func (u *UI) Success(msg string) string {
	if !u.shouldStyle() {
		return "[OK] " + msg
	}

	return StyleSuccess.Render(SymbolSuccess+" ") + msg
}

// Error renders an error message with a red X.
func (u *UI) Error(msg string) string {
	if !u.shouldStyle() {
		return "[FAILED] " + msg
	}

	return StyleError.Render(SymbolError + " " + msg)
}

// Warning renders a warning message.
func (u *UI) Warning(msg string) string {
	if !u.shouldStyle() {
		return "[WARN] " + msg
	}

	return StyleWarning.Render(SymbolWarning + " " + msg)
}

// Muted renders muted/dim text.
func (u *UI) Muted(msg string) string {
	if !u.shouldStyle() {
		return msg
	}

	return StyleMuted.Render(msg)
}

// SummaryBox renders a bordered summary section with an optional notice under it.
func (u *UI) SummaryBox(title string, items []KV, notice string) string {
	if !u.shouldStyle() {
		var sb strings.Builder
		sb.WriteString(fmt.Sprintf("\n=== %s ===\n", title))
		for _, item := range items {
			sb.WriteString(fmt.Sprintf("%s: %s\n", item.Key, item.Value))
		}
		if notice != "" {
			sb.WriteString(notice + "\n")
		}
		return sb.String()
	}

	maxKeyWidth := 0
	for _, item := range items {
		if w := lipgloss.Width(item.Key); w > maxKeyWidth {
			maxKeyWidth = w
		}
	}

	keyStyle := lipgloss.NewStyle().Foreground(ColorMuted).Width(maxKeyWidth + 2)

	var lines []string
	for _, item := range items {
		lines = append(lines, "  "+keyStyle.Render(item.Key)+" "+StyleAmount.Render(item.Value))
	}
	content := strings.Join(lines, "\n")

	titleStyle := lipgloss.NewStyle().
		Bold(true).
		Foreground(ColorBrand)

	boxStyle := lipgloss.NewStyle().
		BorderStyle(lipgloss.RoundedBorder()).
		BorderForeground(ColorBrand).
		Padding(0, 1)

	out := "\n" + titleStyle.Render("  "+title) + "\n" + boxStyle.Render(content)
	if notice != "" {
		out += "\n" + StyleWarning.Render("  "+notice)
	}
	return out
}

// Status represents the tone a value is rendered in.
type Status int

const (
	StatusNone Status = iota
	StatusPending
	StatusProgress
	StatusSuccess
	StatusWarning
	StatusFrozen
	StatusError
)

// Badge renders text in the tone of status
func (u *UI) Badge(text string, status Status) string {
	if !u.shouldStyle() {
		return text
	}
	b, ok := badges[status]
	if !ok {
		return text
	}
	return b.style.Render(b.symbol + " " + text)
}

// Table renders rows under headers with padded columns.
func (u *UI) Table(headers []string, rows [][]string) string {
	widths := make([]int, len(headers))
	for i, h := range headers {
		widths[i] = lipgloss.Width(h)
	}
	for _, row := range rows {
		for i := range headers {
			if i < len(row) {
				if w := lipgloss.Width(row[i]); w > widths[i] {
					widths[i] = w
				}
			}
		}
	}

	renderRow := func(cells []string, style *lipgloss.Style) string {
		parts := make([]string, len(headers))
		for i := range headers {
			cell := ""
			if i < len(cells) {
				cell = cells[i]
			}
			pad := strings.Repeat(" ", widths[i]-lipgloss.Width(cell))
			if style != nil {
				cell = style.Render(cell)
			}
			parts[i] = cell + pad
		}
		return "  " + strings.TrimRight(strings.Join(parts, "  "), " ")
	}

	var sb strings.Builder
	if u.shouldStyle() {
		headerStyle := lipgloss.NewStyle().Bold(true).Foreground(ColorBrand)
		sb.WriteString(renderRow(headers, &headerStyle))
	} else {
		sb.WriteString(renderRow(headers, nil))
	}
	for _, row := range rows {
		sb.WriteString("\n")
		sb.WriteString(renderRow(row, nil))
	}
	return sb.String()
}
