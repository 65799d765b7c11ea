// Package output renders modkill's terminal output: module and run tables,
// deletion summaries, restore guidance, and progress indicators.
//
// Rendering functions return strings and never write to stdout themselves.
// Colour is applied through lipgloss and disappears automatically when the
// output is not a terminal or NO_COLOR is set.
package output

import (
	"fmt"
	"math"
	"os"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/dustin/go-humanize"
	"github.com/mattn/go-isatty"
)

// Age thresholds in days for row colouring.
const (
	AgeWarnDays  = 30
	AgeErrorDays = 60
)

var (
	styleOld    = lipgloss.NewStyle().Foreground(lipgloss.Color("1"))
	styleAging  = lipgloss.NewStyle().Foreground(lipgloss.Color("3"))
	styleFresh  = lipgloss.NewStyle().Foreground(lipgloss.Color("2"))
	styleDim    = lipgloss.NewStyle().Foreground(lipgloss.Color("8"))
	styleAccent = lipgloss.NewStyle().Foreground(lipgloss.Color("4"))
	styleBold   = lipgloss.NewStyle().Bold(true)
)

// IsColorEnabled returns true if colour should be emitted on stdout.
func IsColorEnabled() bool {
	if os.Getenv("NO_COLOR") != "" {
		return false
	}
	return isatty.IsTerminal(os.Stdout.Fd())
}

// AgeStyle returns the colour for a module of the given age.
func AgeStyle(ageDays float64) lipgloss.Style {
	switch {
	case ageDays > AgeErrorDays:
		return styleOld
	case ageDays > AgeWarnDays:
		return styleAging
	default:
		return styleFresh
	}
}

// FormatSize renders bytes in SI units ("82 MB").
func FormatSize(bytes int64) string {
	if bytes < 0 {
		bytes = 0
	}
	return humanize.Bytes(uint64(bytes))
}

// FormatAge renders an age in days as "today", "12d ago" or "3mo ago".
// A month is 30 days.
func FormatAge(days float64) string {
	switch {
	case days < 1:
		return "today"
	case days < 30:
		return fmt.Sprintf("%dd ago", int(math.Floor(days)))
	default:
		return fmt.Sprintf("%dmo ago", int(math.Floor(days/30)))
	}
}

// formatRelativeTime converts a timestamp to relative time (e.g., "2 days ago").
func formatRelativeTime(t time.Time) string {
	if t.IsZero() {
		return "never"
	}
	if time.Since(t) < time.Minute {
		return "just now"
	}
	return humanize.Time(t)
}

// truncate truncates a string to maxLen, adding "..." if truncated.
func truncate(s string, maxLen int) string {
	if len(s) <= maxLen {
		return s
	}
	if maxLen <= 3 {
		return s[:maxLen]
	}
	return s[:maxLen-3] + "..."
}

// truncateLeft keeps the tail of s, which is the informative end of a path.
func truncateLeft(s string, maxLen int) string {
	if len(s) <= maxLen {
		return s
	}
	if maxLen <= 3 {
		return s[len(s)-maxLen:]
	}
	return "..." + s[len(s)-maxLen+3:]
}
