package tui

import (
	"errors"
	"io"
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"igbatch/pkg/scraper"
)

func TestModel(t *testing.T) {
	model := NewModel(nil)

	model.Update(BatchStartedMsg{Usernames: 3, PostsPerUser: 2})
	if model.total != 3 || model.postsPerUser != 2 {
		t.Errorf("Expected batch of 3 with 2 posts, got %d and %d", model.total, model.postsPerUser)
	}

	model.Update(AccountStartedMsg{Username: "alice"})
	if model.current != "alice" {
		t.Errorf("Expected current account alice, got %q", model.current)
	}

	model.Update(PostScrapedMsg{Username: "alice", Shortcode: "A1"})
	model.Update(PostScrapedMsg{Username: "alice", Shortcode: "A2"})
	if model.currentPosts != 2 || model.totalPosts != 2 {
		t.Errorf("Expected 2 posts, got current %d total %d", model.currentPosts, model.totalPosts)
	}

	model.Update(AccountDoneMsg{Summary: scraper.AccountSummary{Username: "alice", Followers: 1, Followees: 1, Posts: 2}})
	if model.current != "" {
		t.Errorf("Expected no current account, got %q", model.current)
	}
	if len(model.finished) != 1 {
		t.Errorf("Expected 1 finished account, got %d", len(model.finished))
	}

	model.Update(AccountStartedMsg{Username: "ghost"})
	model.Update(AccountSkippedMsg{Username: "ghost"})
	if len(model.skipped) != 1 || model.skipped[0] != "ghost" {
		t.Errorf("Expected ghost to be skipped, got %v", model.skipped)
	}

	if got := model.Processed(); got != 2 {
		t.Errorf("Expected 2 processed accounts, got %d", got)
	}
	if got := model.Percent(); got < 0.66 || got > 0.67 {
		t.Errorf("Expected 2/3 progress, got %f", got)
	}

	model.Update(CollectionDoneMsg{})
	if !model.collected {
		t.Error("Expected collection to be marked done")
	}
}

func TestDoneMsgQuits(t *testing.T) {
	model := NewModel(nil)

	_, cmd := model.Update(DoneMsg{})
	if cmd == nil {
		t.Fatal("Expected a quit command")
	}
	if _, ok := cmd().(tea.QuitMsg); !ok {
		t.Error("Expected tea.QuitMsg")
	}
	if !model.done || model.err != nil {
		t.Error("Expected successful completion")
	}

	failed := NewModel(nil)
	failed.Update(DoneMsg{Err: errors.New("boom")})
	last := failed.logMessages[len(failed.logMessages)-1]
	if last.Level != LevelError || last.Message != "boom" {
		t.Errorf("Expected error log, got %+v", last)
	}
}

func TestQuitCancelsRunningBatch(t *testing.T) {
	cancelled := 0
	model := NewModel(func() { cancelled++ })

	_, cmd := model.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("q")})
	if cmd == nil {
		t.Fatal("Expected a quit command")
	}
	if cancelled != 1 {
		t.Errorf("Expected onQuit to run once, ran %d times", cancelled)
	}

	// Quitting after completion does not cancel anything
	done := NewModel(func() { cancelled++ })
	done.Update(DoneMsg{})
	done.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("q")})
	if cancelled != 1 {
		t.Errorf("Expected onQuit not to run after completion, ran %d times", cancelled)
	}
}

func TestLogMessages(t *testing.T) {
	model := NewModel(nil)
	model.maxLogMessages = 3

	for i := 0; i < 5; i++ {
		model.Update(LogMsg{Level: LevelInfo, Message: "message"})
	}
	if len(model.logMessages) != 3 {
		t.Errorf("Expected 3 log messages, got %d", len(model.logMessages))
	}
	if model.logMessages[0].Color != neonCyan {
		t.Errorf("Expected info color, got %v", model.logMessages[0].Color)
	}

	model.Update(tea.KeyMsg{Type: tea.KeyCtrlL})
	if len(model.logMessages) != 0 {
		t.Errorf("Expected logs to be cleared, got %d", len(model.logMessages))
	}
}

func TestView(t *testing.T) {
	model := NewModel(nil)
	if got := model.View(); got != "Initializing..." {
		t.Errorf("Expected placeholder before size is known, got %q", got)
	}

	model.Update(tea.WindowSizeMsg{Width: 120, Height: 40})
	model.Update(BatchStartedMsg{Usernames: 1, PostsPerUser: 0})
	model.Update(AccountDoneMsg{Summary: scraper.AccountSummary{Username: "alice"}})

	view := model.View()
	for _, want := range []string{"BATCH", "ACCOUNTS", "alice", "1/1"} {
		if !strings.Contains(view, want) {
			t.Errorf("Expected view to contain %q", want)
		}
	}
}

func TestFormatDuration(t *testing.T) {
	tests := []struct {
		in   time.Duration
		want string
	}{
		{-time.Second, "00:00"},
		{75 * time.Second, "01:15"},
		{time.Hour + 2*time.Minute + 3*time.Second, "01:02:03"},
	}

	for _, tt := range tests {
		if got := formatDuration(tt.in); got != tt.want {
			t.Errorf("formatDuration(%v) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestSendAfterStartReturns(t *testing.T) {
	view := NewTUI(nil,
		tea.WithInput(nil),
		tea.WithOutput(io.Discard),
		tea.WithoutRenderer(),
		tea.WithoutSignalHandler(),
	)

	started := make(chan error, 1)
	go func() { started <- view.Start() }()
	view.Done(nil)

	select {
	case err := <-started:
		if err != nil {
			t.Fatalf("Start returned %v", err)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("program did not quit on DoneMsg")
	}

	sent := make(chan struct{})
	go func() {
		view.AccountStarted("alice")
		view.Done(errors.New("late"))
		close(sent)
	}()

	select {
	case <-sent:
	case <-time.After(time.Second):
		t.Fatal("Send blocked after the program stopped")
	}
}
