package ui

import (
	"fmt"
	"strings"
	"time"
)

const (
	ProgressBar   = "█"
	ProgressEmpty = "░"
	progressWidth = 20
)

// StatusTracker keeps track of batch progress
type StatusTracker struct {
	TotalAccounts int
	Done          int
	Skipped       int
	Posts         int
	StartTime     time.Time
}

// NewStatusTracker creates a new status tracker
func NewStatusTracker() *StatusTracker {
	return &StatusTracker{
		StartTime: time.Now(),
	}
}

// Start resets the tracker for a batch of the given size
func (st *StatusTracker) Start(total int) {
	st.TotalAccounts = total
	st.Done = 0
	st.Skipped = 0
	st.Posts = 0
	st.StartTime = time.Now()
}

// AccountFinished counts a scraped account and its posts
func (st *StatusTracker) AccountFinished(posts int) {
	st.Done++
	st.Posts += posts
}

// AccountSkipped counts an account that did not exist
func (st *StatusTracker) AccountSkipped() {
	st.Done++
	st.Skipped++
}

// GetBatchProgress returns a formatted progress bar over the batch
func (st *StatusTracker) GetBatchProgress() string {
	filled := 0
	if st.TotalAccounts > 0 {
		filled = st.Done * progressWidth / st.TotalAccounts
	}
	if filled > progressWidth {
		filled = progressWidth
	}

	bar := strings.Repeat(ProgressBar, filled) +
		strings.Repeat(ProgressEmpty, progressWidth-filled)

	return fmt.Sprintf("[%s] %d/%d", bar, st.Done, st.TotalAccounts)
}

// GetElapsedTime returns the elapsed time since tracking started
func (st *StatusTracker) GetElapsedTime() time.Duration {
	return time.Since(st.StartTime)
}

// GetAccountRate returns the average number of accounts per minute
func (st *StatusTracker) GetAccountRate() float64 {
	elapsed := st.GetElapsedTime().Minutes()
	if elapsed == 0 {
		return 0
	}
	return float64(st.Done) / elapsed
}

// Summary returns a one-line description of the finished batch
func (st *StatusTracker) Summary() string {
	return fmt.Sprintf("%d accounts (%d skipped), %d posts in %s",
		st.Done-st.Skipped, st.Skipped, st.Posts,
		st.GetElapsedTime().Round(time.Second))
}
