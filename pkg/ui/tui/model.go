package tui

import (
	"strconv"
	"time"

	"github.com/charmbracelet/bubbles/progress"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"igbatch/pkg/scraper"
)

// Log levels shown in the log panel
const (
	LevelInfo    = "INFO"
	LevelSuccess = "SUCCESS"
	LevelWarn    = "WARN"
	LevelError   = "ERROR"
)

// LogMessage represents a log entry
type LogMessage struct {
	Time    time.Time
	Level   string
	Message string
	Color   lipgloss.Color
}

// Model represents the TUI model. It is only touched from the bubbletea
// event loop.
type Model struct {
	spinner spinner.Model
	bar     progress.Model

	// Batch state
	total        int
	postsPerUser int
	current      string
	currentPosts int
	finished     []scraper.AccountSummary
	skipped      []string
	totalPosts   int
	collected    bool
	done         bool
	err          error
	startTime    time.Time

	// UI state
	width          int
	height         int
	showHelp       bool
	logMessages    []LogMessage
	maxLogMessages int

	// onQuit runs when the user quits before the batch finishes
	onQuit func()
}

// NewModel creates a new TUI model
func NewModel(onQuit func()) *Model {
	s := spinner.New()
	s.Spinner = spinner.Dot
	s.Style = lipgloss.NewStyle().Foreground(neonCyan)

	p := progress.New(progress.WithDefaultGradient())
	p.Width = 40

	return &Model{
		spinner:        s,
		bar:            p,
		startTime:      time.Now(),
		maxLogMessages: 50,
		onQuit:         onQuit,
	}
}

// Init initializes the model
func (m *Model) Init() tea.Cmd {
	return m.spinner.Tick
}

// StartBatch records the size of the batch
func (m *Model) StartBatch(usernames, postsPerUser int) {
	m.total = usernames
	m.postsPerUser = postsPerUser
	m.startTime = time.Now()
	m.AddLogMessage(LevelInfo, "Batch of "+strconv.Itoa(usernames)+" usernames started")
}

// StartAccount marks username as the account being scraped
func (m *Model) StartAccount(username string) {
	m.current = username
	m.currentPosts = 0
}

// SkipAccount records an account that does not exist
func (m *Model) SkipAccount(username string) {
	m.skipped = append(m.skipped, username)
	if m.current == username {
		m.current = ""
	}
	m.AddLogMessage(LevelWarn, "Profile "+username+" does not exist, skipping")
}

// RecordPost counts one scraped post for the current account
func (m *Model) RecordPost(username, shortcode string) {
	if username == m.current {
		m.currentPosts++
	}
	m.totalPosts++
}

// FinishAccount records a completed account
func (m *Model) FinishAccount(summary scraper.AccountSummary) {
	m.finished = append(m.finished, summary)
	if m.current == summary.Username {
		m.current = ""
	}
	m.AddLogMessage(LevelSuccess, "Scraped "+strconv.Itoa(summary.Posts)+" posts for "+summary.Username)
}

// FinishCollection marks the end of scraping
func (m *Model) FinishCollection() {
	m.collected = true
	m.current = ""
	m.AddLogMessage(LevelInfo, "Done scraping. Writing follower/followee graph.")
}

// Finish marks the whole run as complete
func (m *Model) Finish(err error) {
	m.done = true
	m.err = err
	if err != nil {
		m.AddLogMessage(LevelError, err.Error())
		return
	}
	m.AddLogMessage(LevelSuccess, "Done!")
}

// Processed returns how many accounts were scraped or skipped
func (m *Model) Processed() int {
	return len(m.finished) + len(m.skipped)
}

// Percent returns the batch completion ratio in [0, 1]
func (m *Model) Percent() float64 {
	if m.total == 0 {
		if m.collected {
			return 1
		}
		return 0
	}
	p := float64(m.Processed()) / float64(m.total)
	if p > 1 {
		p = 1
	}
	return p
}

// AddLogMessage adds a log message
func (m *Model) AddLogMessage(level, message string) {
	m.logMessages = append(m.logMessages, LogMessage{
		Time:    time.Now(),
		Level:   level,
		Message: message,
		Color:   levelColor(level),
	})

	// Keep only the last N messages
	if len(m.logMessages) > m.maxLogMessages {
		m.logMessages = m.logMessages[len(m.logMessages)-m.maxLogMessages:]
	}
}
