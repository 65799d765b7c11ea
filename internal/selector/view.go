package selector

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/blackwell-systems/modkill/internal/output"
)

var (
	titleStyle  = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("5"))
	cursorStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("6")).Bold(true)
	dimStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("8"))
)

func (m Model) View() string {
	if m.confirmed || m.cancelled {
		return ""
	}

	var sb strings.Builder

	sb.WriteString(titleStyle.Render("Select node_modules to delete"))
	sb.WriteString("\n\n")

	if len(m.items) == 0 {
		sb.WriteString(dimStyle.Render("  nothing found"))
		sb.WriteString("\n")
	}

	end := min(len(m.items), m.offset+PageSize)
	for i := m.offset; i < end; i++ {
		sb.WriteString(m.renderRow(i))
		sb.WriteString("\n")
	}

	if len(m.items) > PageSize {
		sb.WriteString(dimStyle.Render(fmt.Sprintf("  %d-%d of %d", m.offset+1, end, len(m.items))))
		sb.WriteString("\n")
	}

	var total int64
	for i, s := range m.selected {
		if s {
			total += m.items[i].SizeBytes
		}
	}
	sb.WriteString("\n")
	sb.WriteString(fmt.Sprintf("  %d selected, %s\n", m.count(), output.FormatSize(total)))
	sb.WriteString(dimStyle.Render("  " + helpLine()))
	sb.WriteString("\n")

	return sb.String()
}

func (m Model) renderRow(i int) string {
	item := m.items[i]

	pointer := "  "
	if i == m.cursor {
		pointer = cursorStyle.Render("> ")
	}
	box := "[ ]"
	if m.selected[i] {
		box = "[x]"
	}

	project, rel := output.ProjectLabel(item, m.root)
	age := output.AgeStyle(item.AgeDays).Render(fmt.Sprintf("%-8s", output.FormatAge(item.AgeDays)))

	return fmt.Sprintf("%s%s %10s  %s  %s %s",
		pointer,
		box,
		output.FormatSize(item.SizeBytes),
		age,
		project,
		dimStyle.Render(rel))
}

func helpLine() string {
	var parts []string
	for _, b := range keys.help() {
		h := b.Help()
		parts = append(parts, h.Key+" "+h.Desc)
	}
	return strings.Join(parts, " • ")
}
