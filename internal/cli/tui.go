package cli

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"

	"github.com/skyf0l/basecracker/pkg/cracker"
)

var listDimStyle = lipgloss.NewStyle().Foreground(colorDim)

// maxPreview bounds the plaintext column width.
const maxPreview = 48

// =============================================================================
// ResultListModel - Interactive crack result selection
// =============================================================================

// ResultListModel is the bubbletea model for picking one crack result.
type ResultListModel struct {
	Results  []cracker.Result
	Cursor   int
	Selected *cracker.Result
	Height   int
	Offset   int
}

// NewResultListModel creates a picker over results.
func NewResultListModel(results []cracker.Result) ResultListModel {
	return ResultListModel{Results: results, Height: 15}
}

func (m ResultListModel) Init() tea.Cmd {
	return nil
}

func (m ResultListModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c", "esc":
			return m, tea.Quit
		case "up", "k":
			if m.Cursor > 0 {
				m.Cursor--
				if m.Cursor < m.Offset {
					m.Offset = m.Cursor
				}
			}
		case "down", "j":
			if m.Cursor < len(m.Results)-1 {
				m.Cursor++
				if m.Cursor >= m.Offset+m.Height {
					m.Offset = m.Cursor - m.Height + 1
				}
			}
		case "enter":
			if len(m.Results) == 0 {
				return m, tea.Quit
			}
			r := m.Results[m.Cursor]
			m.Selected = &r
			return m, tea.Quit
		}
	case tea.WindowSizeMsg:
		m.Height = max(msg.Height-6, 5)
	}
	return m, nil
}

func (m ResultListModel) View() string {
	var b strings.Builder

	b.WriteString(StyleTitle.Render("Select Plaintext"))
	b.WriteString("\n")
	b.WriteString(listDimStyle.Render("↑/↓ navigate  ⏎ select  q quit"))
	b.WriteString("\n\n")

	end := min(m.Offset+m.Height, len(m.Results))
	rows := [][]string{}
	for i := m.Offset; i < end; i++ {
		r := m.Results[i]
		cursor := "  "
		if i == m.Cursor {
			cursor = "▸ "
		}
		rows = append(rows, []string{
			cursor,
			strings.Join(r.Schemes, " "+iconArrow+" "),
			fmt.Sprintf("%d", len(r.Schemes)),
			truncatePreview(quoteIfNeeded(r.Plaintext), maxPreview),
		})
	}

	headerStyle := lipgloss.NewStyle().Foreground(colorGray).Bold(true)
	t := table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(colorDim)).
		Headers("", "Chain", "Depth", "Plaintext").
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == -1 {
				return headerStyle
			}
			if m.Offset+row == m.Cursor {
				return lipgloss.NewStyle().Foreground(colorGreen).Bold(true)
			}
			if col == 2 {
				return lipgloss.NewStyle().Foreground(colorDim)
			}
			return lipgloss.NewStyle().Foreground(colorWhite)
		})

	b.WriteString(t.Render())
	b.WriteString("\n\n")
	b.WriteString(listDimStyle.Render(fmt.Sprintf("  [%d/%d]", m.Cursor+1, len(m.Results))))

	return b.String()
}

func truncatePreview(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n-3] + "..."
}
