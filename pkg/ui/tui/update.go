package tui

import (
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"

	"igbatch/pkg/scraper"
)

// Message types for the TUI

// BatchStartedMsg is sent once the username list is known
type BatchStartedMsg struct {
	Usernames    int
	PostsPerUser int
}

// AccountStartedMsg is sent when an account is picked up
type AccountStartedMsg struct {
	Username string
}

// AccountSkippedMsg is sent for a username that does not exist
type AccountSkippedMsg struct {
	Username string
}

// PostScrapedMsg is sent for every post written
type PostScrapedMsg struct {
	Username  string
	Shortcode string
}

// AccountDoneMsg is sent when an account and its posts are written
type AccountDoneMsg struct {
	Summary scraper.AccountSummary
}

// CollectionDoneMsg is sent when every account has been visited
type CollectionDoneMsg struct{}

// DoneMsg ends the program once the outputs are written
type DoneMsg struct {
	Err error
}

// LogMsg is sent to add a log message
type LogMsg struct {
	Level   string
	Message string
}

// Update handles all messages and updates the model
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKeyPress(msg)

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd

	case BatchStartedMsg:
		m.StartBatch(msg.Usernames, msg.PostsPerUser)
		return m, nil

	case AccountStartedMsg:
		m.StartAccount(msg.Username)
		return m, nil

	case AccountSkippedMsg:
		m.SkipAccount(msg.Username)
		return m, nil

	case PostScrapedMsg:
		m.RecordPost(msg.Username, msg.Shortcode)
		return m, nil

	case AccountDoneMsg:
		m.FinishAccount(msg.Summary)
		return m, nil

	case CollectionDoneMsg:
		m.FinishCollection()
		return m, nil

	case LogMsg:
		m.AddLogMessage(msg.Level, msg.Message)
		return m, nil

	case DoneMsg:
		m.Finish(msg.Err)
		return m, tea.Quit
	}

	return m, nil
}

// handleKeyPress handles keyboard input
func (m *Model) handleKeyPress(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "q", "Q", "ctrl+c":
		if !m.done && m.onQuit != nil {
			m.onQuit()
		}
		return m, tea.Quit

	case "?":
		m.showHelp = !m.showHelp
		return m, nil

	case "ctrl+l":
		m.logMessages = nil
		return m, nil
	}

	return m, nil
}
