// Package ui provides colored terminal output for the skills CLI.
package ui

import (
	"fmt"
	"strings"

	"github.com/fatih/color"
)

// Color function types for styled output.
var (
	// Success is used for created, installed and valid results (green).
	Success = color.New(color.FgGreen).SprintFunc()
	// Error is used for errors and failures (red).
	Error = color.New(color.FgRed).SprintFunc()
	// Warning is used for scan findings and skipped skills (yellow).
	Warning = color.New(color.FgYellow).SprintFunc()
	// Info is used for progress notices such as downloads (cyan).
	Info = color.New(color.FgCyan).SprintFunc()
	// Bold is used for skill names.
	Bold = color.New(color.Bold).SprintFunc()
	// Dim is used for secondary information (faint).
	Dim = color.New(color.Faint).SprintFunc()
	// Header is used for directory headings in listings (bold cyan).
	Header = color.New(color.FgCyan, color.Bold).SprintFunc()
)

// Color modes accepted by SetColorMode.
const (
	ColorAuto   = "auto"
	ColorAlways = "always"
	ColorNever  = "never"
)

// SetColorMode applies an auto, always or never color preference. Auto keeps
// the terminal and NO_COLOR detection done by fatih/color.
func SetColorMode(mode string) error {
	switch strings.ToLower(strings.TrimSpace(mode)) {
	case "", ColorAuto:
	case ColorAlways:
		EnableColors()
	case ColorNever:
		DisableColors()
	default:
		return fmt.Errorf("invalid color mode %q (valid: auto, always, never)", mode)
	}
	return nil
}

// Warningf formats a "Warning: ..." line in the warning color.
func Warningf(format string, args ...any) string {
	return Warning("Warning: " + fmt.Sprintf(format, args...))
}

// Errorf formats an "Error: ..." line in the error color.
func Errorf(format string, args ...any) string {
	return Error("Error: " + fmt.Sprintf(format, args...))
}

// DisableColors disables all color output.
// This is useful for piping output or for users who prefer no colors.
func DisableColors() {
	color.NoColor = true
}

// EnableColors enables color output.
func EnableColors() {
	color.NoColor = false
}

// IsColorEnabled returns whether colors are currently enabled.
func IsColorEnabled() bool {
	return !color.NoColor
}
