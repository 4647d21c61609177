package scraper

import (
	"context"
	"iter"

	"igbatch/pkg/models"
)

// Session is a logged-in connection to Instagram. Listings are lazy: each
// call starts a fresh sequence and pages are fetched only while the caller
// keeps ranging.
type Session interface {
	Authenticate(ctx context.Context, creds models.Credentials) error
	ResolveProfile(ctx context.Context, username string) (*models.Profile, error)
	Followers(ctx context.Context, profile *models.Profile) iter.Seq2[models.User, error]
	Followees(ctx context.Context, profile *models.Profile) iter.Seq2[models.User, error]
	Posts(ctx context.Context, profile *models.Profile) iter.Seq2[*models.Post, error]
}

// Sink receives account and post rows as they are scraped
type Sink interface {
	WriteAccount(ctx context.Context, profile *models.Profile) error
	WritePost(ctx context.Context, post *models.Post) error
}

// AccountSummary describes one finished account
type AccountSummary struct {
	Username  string
	Followers int
	Followees int
	Posts     int
}

// Reporter is told about batch progress. It is for display only.
type Reporter interface {
	BatchStarted(usernames, postsPerUser int)
	AccountStarted(username string)
	AccountSkipped(username string)
	PostScraped(username, shortcode string)
	AccountDone(summary AccountSummary)
	CollectionDone()
}

type nopReporter struct{}

func (nopReporter) BatchStarted(int, int)      {}
func (nopReporter) AccountStarted(string)      {}
func (nopReporter) AccountSkipped(string)      {}
func (nopReporter) PostScraped(string, string) {}
func (nopReporter) AccountDone(AccountSummary) {}
func (nopReporter) CollectionDone()            {}
