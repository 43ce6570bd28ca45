package input

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

var (
	selectedStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("cyan")).Bold(true)
	mutedStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("240"))
	checkedStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("green"))
)

// Option is one entry of a Select or MultiSelect menu.
type Option struct {
	Label   string
	Hint    string
	Checked bool
}

// Select shows a single-choice menu and returns the chosen index.
func Select(message string, options []Option, defaultIndex int) (int, error) {
	if len(options) == 0 {
		return 0, fmt.Errorf("select %q: no options", message)
	}
	m := newMenuModel(message, options, false, 0)
	if defaultIndex > 0 && defaultIndex < len(options) {
		m.cursor = defaultIndex
	}

	final, err := runMenu(m)
	if err != nil {
		return 0, err
	}
	return final.cursor, nil
}

// MultiSelect shows a checkbox menu and returns the checked indexes in
// option order. Options with Checked set start selected.
func MultiSelect(message string, options []Option, pageSize int) ([]int, error) {
	m := newMenuModel(message, options, true, pageSize)

	final, err := runMenu(m)
	if err != nil {
		return nil, err
	}
	return final.selectedIndexes(), nil
}

func runMenu(m menuModel) (menuModel, error) {
	p := tea.NewProgram(m, tea.WithInput(stdin), tea.WithOutput(stdout))
	finalModel, err := p.Run()
	if err != nil {
		return menuModel{}, fmt.Errorf("failed to show menu: %w", err)
	}

	result := finalModel.(menuModel)
	if result.aborted {
		return menuModel{}, ErrAborted
	}
	return result, nil
}

// menuModel is the BubbleTea model shared by Select and MultiSelect.
type menuModel struct {
	message  string
	options  []Option
	checked  []bool
	multi    bool
	pageSize int
	cursor   int
	done     bool
	aborted  bool
}

func newMenuModel(message string, options []Option, multi bool, pageSize int) menuModel {
	checked := make([]bool, len(options))
	for i, o := range options {
		checked[i] = o.Checked
	}
	if pageSize <= 0 || pageSize > len(options) {
		pageSize = len(options)
	}
	return menuModel{
		message:  message,
		options:  options,
		checked:  checked,
		multi:    multi,
		pageSize: pageSize,
	}
}

func (m menuModel) Init() tea.Cmd {
	return nil
}

func (m menuModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	key, ok := msg.(tea.KeyMsg)
	if !ok {
		return m, nil
	}

	switch key.String() {
	case "ctrl+c", "q", "esc":
		m.aborted = true
		return m, tea.Quit

	case "up", "k":
		if m.cursor > 0 {
			m.cursor--
		}

	case "down", "j":
		if m.cursor < len(m.options)-1 {
			m.cursor++
		}

	case " ", "space":
		if m.multi {
			m.checked[m.cursor] = !m.checked[m.cursor]
		}

	case "a":
		if m.multi {
			all := !allTrue(m.checked)
			for i := range m.checked {
				m.checked[i] = all
			}
		}

	case "enter":
		m.done = true
		return m, tea.Quit
	}

	return m, nil
}

func (m menuModel) View() string {
	var b strings.Builder

	b.WriteString(promptStyle.Render("? "+m.message) + "\n")
	if m.done {
		return b.String()
	}

	if m.multi {
		b.WriteString(mutedStyle.Render("  [↑/↓] Navigate    [Space] Toggle    [a] All    [Enter] Confirm") + "\n")
	} else {
		b.WriteString(mutedStyle.Render("  [↑/↓] Navigate    [Enter] Select    [q] Cancel") + "\n")
	}

	start := 0
	if m.cursor >= m.pageSize {
		start = m.cursor - m.pageSize + 1
	}
	end := start + m.pageSize

	for i := start; i < end && i < len(m.options); i++ {
		o := m.options[i]
		line := o.Label
		if m.multi {
			box := "◯ "
			if m.checked[i] {
				box = checkedStyle.Render("◉ ")
			}
			line = box + line
		}

		if m.cursor == i {
			b.WriteString("  " + selectedStyle.Render("❯ "+line))
			if o.Hint != "" {
				b.WriteString(mutedStyle.Render("  " + o.Hint))
			}
			b.WriteString("\n")
		} else {
			b.WriteString("    " + line + "\n")
		}
	}

	return b.String()
}

func (m menuModel) selectedIndexes() []int {
	out := []int{}
	for i, c := range m.checked {
		if c {
			out = append(out, i)
		}
	}
	return out
}

func allTrue(values []bool) bool {
	for _, v := range values {
		if !v {
			return false
		}
	}
	return true
}
