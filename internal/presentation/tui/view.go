package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

var (
	modalStyle  = lipgloss.NewStyle().Width(60).Border(lipgloss.RoundedBorder()).Padding(1, 2)
	errorStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("196"))
	statusStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("244"))
)

// View renders the browser.
func (m *Model) View() string {
	switch m.session {
	case AddingFeedView:
		return m.modal(lipgloss.Color("205"), m.addFeedBody())
	case DeleteFeedView:
		return m.modal(lipgloss.Color("196"), m.deleteFeedBody())
	}
	return lipgloss.JoinVertical(lipgloss.Left, m.list.View(), m.footer())
}

func (m *Model) footer() string {
	var lines []string
	switch {
	case m.uploading:
		lines = append(lines, m.spinner.View()+" Uploading...")
	case m.err != nil:
		lines = append(lines, errorStyle.Render("Error: "+m.err.Error()))
	case m.status != "":
		lines = append(lines, statusStyle.Render(m.status))
	}
	lines = append(lines, m.help.View(&m.keys))
	return strings.Join(lines, "\n")
}

func (m *Model) addFeedBody() string {
	var b strings.Builder
	b.WriteString("Add subscription\n\n")
	b.WriteString("Title\n")
	b.WriteString(m.inputs[titleInput].View())
	b.WriteString("\n\nFeed URL\n")
	b.WriteString(m.inputs[urlInput].View())
	if m.err != nil {
		b.WriteString("\n\n")
		b.WriteString(errorStyle.Render(m.err.Error()))
	}
	b.WriteString("\n\n(enter to continue, tab to switch, esc to cancel)")
	return b.String()
}

func (m *Model) deleteFeedBody() string {
	item, ok := m.selected()
	if !ok {
		return "Nothing selected"
	}
	return fmt.Sprintf("Remove %s?\n\n%s\n\n(y/n)", item.TitleText, item.FeedURL)
}

func (m *Model) modal(border lipgloss.Color, body string) string {
	content := modalStyle.BorderForeground(border).Render(body)
	if m.width == 0 || m.height == 0 {
		return content
	}
	return lipgloss.Place(m.width, m.height, lipgloss.Center, lipgloss.Center, content)
}
