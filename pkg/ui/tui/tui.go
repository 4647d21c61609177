package tui

import (
	"fmt"

	tea "github.com/charmbracelet/bubbletea"

	"igbatch/pkg/scraper"
)

// TUI represents the terminal user interface. It implements
// scraper.Reporter by forwarding every event to the program.
type TUI struct {
	program *tea.Program
	model   *Model
	stopped chan struct{}
}

var _ scraper.Reporter = (*TUI)(nil)

// NewTUI creates a new TUI instance. onQuit is called when the user
// leaves before the batch is done and would normally cancel the run.
func NewTUI(onQuit func(), opts ...tea.ProgramOption) *TUI {
	model := NewModel(onQuit)
	opts = append([]tea.ProgramOption{tea.WithAltScreen()}, opts...)

	return &TUI{
		program: tea.NewProgram(model, opts...),
		model:   model,
		stopped: make(chan struct{}),
	}
}

// Start runs the TUI until Done is sent or the user quits
func (t *TUI) Start() error {
	defer close(t.stopped)
	_, err := t.program.Run()
	return err
}

// Stop stops the TUI gracefully
func (t *TUI) Stop() {
	t.program.Quit()
}

// Send sends a message to the TUI. Messages sent after Start returned
// are dropped.
func (t *TUI) Send(msg tea.Msg) {
	select {
	case <-t.stopped:
		return
	default:
	}
	// Program.Send is a no-op once the program has terminated, which
	// covers a Start that returns between the check above and this call.
	t.program.Send(msg)
}

func (t *TUI) BatchStarted(usernames, postsPerUser int) {
	t.Send(BatchStartedMsg{Usernames: usernames, PostsPerUser: postsPerUser})
}

func (t *TUI) AccountStarted(username string) {
	t.Send(AccountStartedMsg{Username: username})
}

func (t *TUI) AccountSkipped(username string) {
	t.Send(AccountSkippedMsg{Username: username})
}

func (t *TUI) PostScraped(username, shortcode string) {
	t.Send(PostScrapedMsg{Username: username, Shortcode: shortcode})
}

func (t *TUI) AccountDone(summary scraper.AccountSummary) {
	t.Send(AccountDoneMsg{Summary: summary})
}

func (t *TUI) CollectionDone() {
	t.Send(CollectionDoneMsg{})
}

// Done ends the program, showing err if the run failed
func (t *TUI) Done(err error) {
	t.Send(DoneMsg{Err: err})
}

// Log sends a log message to the TUI
func (t *TUI) Log(level, format string, args ...interface{}) {
	t.Send(LogMsg{Level: level, Message: fmt.Sprintf(format, args...)})
}
