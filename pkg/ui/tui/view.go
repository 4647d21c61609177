package tui

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"
)

// View renders the entire TUI
func (m *Model) View() string {
	if m.width == 0 || m.height == 0 {
		return "Initializing..."
	}

	var sections []string

	sections = append(sections, m.renderLogo())

	leftColumn := m.renderLeftColumn()
	rightColumn := m.renderRightColumn()

	mainContent := lipgloss.JoinHorizontal(
		lipgloss.Top,
		leftColumn,
		"  ",
		rightColumn,
	)
	sections = append(sections, mainContent)

	if m.showHelp {
		sections = append(sections, m.renderHelp())
	} else {
		sections = append(sections, helpStyle.Render("Press ? for help"))
	}

	return baseStyle.Width(m.width).Height(m.height).Render(
		lipgloss.JoinVertical(lipgloss.Left, sections...),
	)
}

func (m *Model) renderLogo() string {
	logo := `
╔════════════════════════════════════════╗
║   I G B A T C H  ·  NETWORK EXPORTER   ║
╚════════════════════════════════════════╝`

	return logoStyle.Width(m.width).Render(logo)
}

func (m *Model) renderLeftColumn() string {
	width := (m.width - 4) / 2

	return lipgloss.JoinVertical(lipgloss.Left,
		m.renderStatsPanel(width),
		m.renderAccountsPanel(width),
	)
}

func (m *Model) renderRightColumn() string {
	width := (m.width - 4) / 2

	return m.renderLogsPanel(width)
}

// renderStatsPanel renders batch totals and the progress bar
func (m *Model) renderStatsPanel(width int) string {
	title := titleStyle.Render(" BATCH ")

	bar := m.bar
	bar.Width = width - 8
	if bar.Width < 10 {
		bar.Width = 10
	}

	stats := []string{
		stat("Elapsed:", formatDuration(time.Since(m.startTime))),
		stat("Accounts:", fmt.Sprintf("%d/%d", m.Processed(), m.total)),
		stat("Skipped:", fmt.Sprintf("%d", len(m.skipped))),
		stat("Posts:", fmt.Sprintf("%d (limit %d per user)", m.totalPosts, m.postsPerUser)),
		bar.ViewAs(m.Percent()),
	}

	switch {
	case m.done && m.err != nil:
		stats = append(stats, errorStyle.Render("✗ FAILED"))
	case m.done:
		stats = append(stats, successStyle.Render("✓ DONE"))
	case m.collected:
		stats = append(stats, warningStyle.Render(m.spinner.View()+" writing graph"))
	case m.current != "":
		stats = append(stats, accountActiveStyle.Render(
			fmt.Sprintf("%s %s (%d posts)", m.spinner.View(), m.current, m.currentPosts)))
	default:
		stats = append(stats, m.spinner.View()+" waiting")
	}

	return panelStyle.Width(width).Render(
		lipgloss.JoinVertical(lipgloss.Left, title, lipgloss.JoinVertical(lipgloss.Left, stats...)),
	)
}

// renderAccountsPanel lists the most recently finished accounts
func (m *Model) renderAccountsPanel(width int) string {
	title := titleStyle.Render(" ACCOUNTS ")

	var items []string
	start := len(m.finished) - 5
	if start < 0 {
		start = 0
	}
	for _, s := range m.finished[start:] {
		items = append(items, accountDoneStyle.Render(fmt.Sprintf("✓ %s  %d followers · %d followees · %d posts",
			s.Username, s.Followers, s.Followees, s.Posts)))
	}
	if n := len(m.skipped); n > 0 {
		items = append(items, "", warningStyle.Render(fmt.Sprintf("⚠ %d skipped", n)))
		for _, u := range m.skipped[max(0, n-3):] {
			items = append(items, accountDoneStyle.Render("• "+u))
		}
	}

	content := strings.Join(items, "\n")
	if content == "" {
		content = lipgloss.NewStyle().Foreground(dimWhite).Render("No accounts finished yet")
	}

	return panelStyle.Width(width).Render(
		lipgloss.JoinVertical(lipgloss.Left, title, content),
	)
}

// renderLogsPanel renders the logs panel
func (m *Model) renderLogsPanel(width int) string {
	title := titleStyle.Render(" LOG ")

	start := len(m.logMessages) - 10
	if start < 0 {
		start = 0
	}

	maxMsgLen := width - 25
	var logs []string
	for _, log := range m.logMessages[start:] {
		msg := log.Message
		if maxMsgLen > 3 && len(msg) > maxMsgLen {
			msg = msg[:maxMsgLen-3] + "..."
		}
		timestamp := logTimestampStyle.Render(log.Time.Format("15:04:05"))
		level := lipgloss.NewStyle().Foreground(log.Color).Bold(true).Render(fmt.Sprintf("[%-7s]", log.Level))
		logs = append(logs, fmt.Sprintf("%s %s %s", timestamp, level, logMessageStyle.Render(msg)))
	}

	content := strings.Join(logs, "\n")
	if content == "" {
		content = lipgloss.NewStyle().Foreground(dimWhite).Render("No logs yet...")
	}

	logsHeight := m.height - 12
	if logsHeight < 5 {
		logsHeight = 5
	}

	return panelStyle.Width(width).Height(logsHeight).Render(
		lipgloss.JoinVertical(lipgloss.Left, title, content),
	)
}

func (m *Model) renderHelp() string {
	help := `
  Keys:
    q/Q      - Quit (cancels the running batch)
    ctrl+l   - Clear the log
    ?        - Toggle this help

  Status:
    ` + successStyle.Render("Green") + `    - Account written
    ` + warningStyle.Render("Orange") + `   - Skipped profile
    ` + errorStyle.Render("Red") + `      - Run failed
`

	return panelStyle.Width(m.width).Render(help)
}

func stat(label, value string) string {
	return fmt.Sprintf("%s %s", statsLabelStyle.Render(label), statsValueStyle.Render(value))
}

// formatDuration formats a duration in a human-readable way
func formatDuration(d time.Duration) string {
	if d < 0 {
		return "00:00"
	}

	h := int(d.Hours())
	m := int(d.Minutes()) % 60
	s := int(d.Seconds()) % 60

	if h > 0 {
		return fmt.Sprintf("%02d:%02d:%02d", h, m, s)
	}
	return fmt.Sprintf("%02d:%02d", m, s)
}
