// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"fmt"
	"io"

	"github.com/charmbracelet/lipgloss"
	"github.com/schollz/progressbar/v3"
)

var (
	okStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("42")).Bold(true)
	warnStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("214")).Bold(true)
	failStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("196")).Bold(true)
	dimStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("245"))
)

func printOK(w io.Writer, format string, args ...any) {
	fmt.Fprintln(w, okStyle.Render("✅ "+fmt.Sprintf(format, args...)))
}

func printWarn(w io.Writer, format string, args ...any) {
	fmt.Fprintln(w, warnStyle.Render("⚠️  "+fmt.Sprintf(format, args...)))
}

func printFail(w io.Writer, format string, args ...any) {
	fmt.Fprintln(w, failStyle.Render("❌ "+fmt.Sprintf(format, args...)))
}

// newProgressBar returns a stderr progress bar, or nil when progress output
// is disabled or there is nothing to count.
func newProgressBar(w io.Writer, total int, desc string) *progressbar.ProgressBar {
	if !progressEnabled() || total <= 0 {
		return nil
	}
	return progressbar.NewOptions(total,
		progressbar.OptionSetWriter(w),
		progressbar.OptionSetDescription(desc),
		progressbar.OptionShowCount(),
		progressbar.OptionClearOnFinish(),
	)
}
