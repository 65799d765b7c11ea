// Package selector is the interactive checkbox list used to pick which
// node_modules directories to delete.
package selector

import (
	"errors"
	"os"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/blackwell-systems/modkill/internal/analyzer"
)

// PageSize is the number of rows shown at once.
const PageSize = 18

// PrecheckDays is the age above which rows start selected.
const PrecheckDays = 30

// ErrCancelled is returned by Run when the user quits without confirming.
var ErrCancelled = errors.New("selection cancelled")

// Model is the bubbletea model for the selection list.
type Model struct {
	items     []analyzer.AnalyzedModule
	root      string
	selected  []bool
	cursor    int
	offset    int
	confirmed bool
	cancelled bool
}

// New creates a Model over items. Rows older than PrecheckDays start selected.
func New(items []analyzer.AnalyzedModule, root string) Model {
	selected := make([]bool, len(items))
	for i, m := range items {
		selected[i] = m.AgeDays > PrecheckDays
	}
	return Model{items: items, root: root, selected: selected}
}

func (m Model) Init() tea.Cmd {
	return nil
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	kmsg, ok := msg.(tea.KeyMsg)
	if !ok {
		return m, nil
	}

	switch {
	case key.Matches(kmsg, keys.Cancel):
		m.cancelled = true
		return m, tea.Quit

	case key.Matches(kmsg, keys.Confirm):
		m.confirmed = true
		return m, tea.Quit

	case key.Matches(kmsg, keys.Up):
		m.move(-1)

	case key.Matches(kmsg, keys.Down):
		m.move(1)

	case key.Matches(kmsg, keys.PageUp):
		m.move(-PageSize)

	case key.Matches(kmsg, keys.PageDown):
		m.move(PageSize)

	case key.Matches(kmsg, keys.Toggle):
		if len(m.items) > 0 {
			m.selected[m.cursor] = !m.selected[m.cursor]
		}

	case key.Matches(kmsg, keys.All):
		// Select everything unless everything is already selected.
		all := m.count() == len(m.items)
		for i := range m.selected {
			m.selected[i] = !all
		}

	case key.Matches(kmsg, keys.Invert):
		for i := range m.selected {
			m.selected[i] = !m.selected[i]
		}
	}

	return m, nil
}

func (m *Model) move(delta int) {
	if len(m.items) == 0 {
		return
	}
	m.cursor = max(0, min(len(m.items)-1, m.cursor+delta))
	if m.cursor < m.offset {
		m.offset = m.cursor
	}
	if m.cursor >= m.offset+PageSize {
		m.offset = m.cursor - PageSize + 1
	}
}

func (m Model) count() int {
	n := 0
	for _, s := range m.selected {
		if s {
			n++
		}
	}
	return n
}

// Selected returns the paths of the selected rows in list order.
func (m Model) Selected() []string {
	var paths []string
	for i, s := range m.selected {
		if s {
			paths = append(paths, m.items[i].Path)
		}
	}
	return paths
}

// Confirmed reports whether the user accepted the selection.
func (m Model) Confirmed() bool {
	return m.confirmed && !m.cancelled
}

// Run shows the list on stderr and returns the chosen paths.
func Run(items []analyzer.AnalyzedModule, root string) ([]string, error) {
	final, err := tea.NewProgram(New(items, root), tea.WithOutput(os.Stderr)).Run()
	if err != nil {
		return nil, err
	}

	m := final.(Model)
	if !m.Confirmed() {
		return nil, ErrCancelled
	}
	return m.Selected(), nil
}
