package cli

import (
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/matzehuels/irwalk/pkg/diag"
)

// =============================================================================
// Color Palette
// =============================================================================

var (
	colorCyan   = lipgloss.Color("36")  // Teal - primary actions
	colorGreen  = lipgloss.Color("35")  // Green - success
	colorYellow = lipgloss.Color("220") // Amber - warnings
	colorRed    = lipgloss.Color("167") // Soft red - errors
	colorWhite  = lipgloss.Color("255") // Bright white - values
	colorGray   = lipgloss.Color("245") // Gray - secondary text
	colorDim    = lipgloss.Color("240") // Dim gray - muted text
)

// =============================================================================
// Styles
// =============================================================================

var (
	// StyleTitle for main headings.
	StyleTitle = lipgloss.NewStyle().Bold(true).Foreground(colorCyan)

	// StyleDim for secondary/muted text.
	StyleDim = lipgloss.NewStyle().Foreground(colorDim)

	// StyleValue for data values.
	StyleValue = lipgloss.NewStyle().Foreground(colorWhite)

	// StyleWarning for warning messages.
	StyleWarning = lipgloss.NewStyle().Foreground(colorYellow)

	styleIconSuccess = lipgloss.NewStyle().Foreground(colorGreen)
	styleIconError   = lipgloss.NewStyle().Foreground(colorRed)
	styleIconWarning = lipgloss.NewStyle().Foreground(colorYellow)
	styleIconInfo    = lipgloss.NewStyle().Foreground(colorGray)

	styleChanged   = lipgloss.NewStyle().Foreground(colorGreen)
	styleUnchanged = lipgloss.NewStyle().Foreground(colorGray)
)

// =============================================================================
// Icons
// =============================================================================

const (
	iconSuccess = "✓"
	iconError   = "✗"
	iconWarning = "!"
	iconInfo    = "›"
	iconArrow   = "→"
)

// =============================================================================
// Status Output
// =============================================================================

// ui prints human-facing output. Logs go to the logger instead.
type ui struct {
	w io.Writer
}

func (u ui) success(format string, args ...any) {
	fmt.Fprintln(u.w, styleIconSuccess.Render(iconSuccess)+" "+fmt.Sprintf(format, args...))
}

func (u ui) failure(format string, args ...any) {
	fmt.Fprintln(u.w, styleIconError.Render(iconError)+" "+fmt.Sprintf(format, args...))
}

func (u ui) warning(format string, args ...any) {
	fmt.Fprintln(u.w, styleIconWarning.Render(iconWarning)+" "+StyleWarning.Render(fmt.Sprintf(format, args...)))
}

func (u ui) info(format string, args ...any) {
	fmt.Fprintln(u.w, styleIconInfo.Render(iconInfo)+" "+fmt.Sprintf(format, args...))
}

func (u ui) detail(format string, args ...any) {
	fmt.Fprintln(u.w, "  "+StyleDim.Render(fmt.Sprintf(format, args...)))
}

// file prints a file output line.
func (u ui) file(path string) {
	fmt.Fprintln(u.w, "  "+StyleDim.Render(iconArrow)+" "+StyleValue.Render(path))
}

// keyValue prints a labeled value.
func (u ui) keyValue(key, value string) {
	keyStyle := lipgloss.NewStyle().Foreground(colorGray).Width(12)
	fmt.Fprintln(u.w, keyStyle.Render(key)+" "+StyleValue.Render(value))
}

// =============================================================================
// Diagnostics & Stats
// =============================================================================

// diagnostic prints one diagnostic with the icon of its severity.
func (u ui) diagnostic(d diag.Diagnostic) {
	switch d.Severity {
	case diag.SeverityError:
		u.failure("%s", d)
	case diag.SeverityWarning:
		u.warning("%s", d)
	default:
		u.info("%s", d)
	}
}

// passStats prints one pass on a single line.
func (u ui) passStats(name string, diagnostics int, changed bool) {
	parts := []string{name}
	if diagnostics > 0 {
		parts = append(parts, fmt.Sprintf("%d diagnostics", diagnostics))
	}
	status := styleUnchanged.Render("unchanged")
	if changed {
		status = styleChanged.Render("changed")
	}
	line := "  " + StyleDim.Render(strings.Join(parts, " · "))
	fmt.Fprintln(u.w, line+StyleDim.Render(" · ")+status)
}
