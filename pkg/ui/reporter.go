package ui

import (
	"fmt"
	"io"
	"sync"

	"igbatch/pkg/scraper"
)

// ConsoleReporter prints batch progress as plain lines
type ConsoleReporter struct {
	mu      sync.Mutex
	w       io.Writer
	tracker *StatusTracker
	verbose bool
}

// NewConsoleReporter creates a reporter writing to w. A nil w uses the
// package output. Verbose adds a progress bar after every account.
func NewConsoleReporter(w io.Writer, verbose bool) *ConsoleReporter {
	if w == nil {
		w = out
	}
	return &ConsoleReporter{
		w:       w,
		tracker: NewStatusTracker(),
		verbose: verbose,
	}
}

var _ scraper.Reporter = (*ConsoleReporter)(nil)

func (r *ConsoleReporter) BatchStarted(usernames, postsPerUser int) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.tracker.Start(usernames)
	fmt.Fprintf(r.w, "Scraping %d usernames, %d posts per user.\n", usernames, postsPerUser)
}

func (r *ConsoleReporter) AccountStarted(username string) {
	r.mu.Lock()
	defer r.mu.Unlock()

	fmt.Fprintf(r.w, "Scraping %s...\n", Cyan(username))
}

func (r *ConsoleReporter) AccountSkipped(username string) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.tracker.AccountSkipped()
	fmt.Fprintln(r.w, Yellow(fmt.Sprintf("Profile %s does not exist, skipping.", username)))
	r.printProgress()
}

func (r *ConsoleReporter) PostScraped(_, shortcode string) {
	r.mu.Lock()
	defer r.mu.Unlock()

	fmt.Fprintf(r.w, "...scraping info for post %s\n", shortcode)
}

func (r *ConsoleReporter) AccountDone(summary scraper.AccountSummary) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.tracker.AccountFinished(summary.Posts)
	fmt.Fprintf(r.w, "...scraped %d posts for %s\n", summary.Posts, summary.Username)
	r.printProgress()
}

func (r *ConsoleReporter) CollectionDone() {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.verbose {
		fmt.Fprintln(r.w, Dim(r.tracker.Summary()))
	}
	fmt.Fprintln(r.w, "Done scraping. Writing follower/followee graph.")
}

// Tracker exposes the running totals
func (r *ConsoleReporter) Tracker() *StatusTracker {
	return r.tracker
}

func (r *ConsoleReporter) printProgress() {
	if !r.verbose {
		return
	}
	fmt.Fprintf(r.w, "%s %s\n", Magenta("[BATCH]"), Yellow(r.tracker.GetBatchProgress()))
}
