package scraper

import (
	"context"
	"fmt"
	"time"

	"igbatch/pkg/errors"
	"igbatch/pkg/graph"
	"igbatch/pkg/logger"
	"igbatch/pkg/models"
)

// Options controls what a batch run collects
type Options struct {
	// PostsPerUsername caps the post rows emitted per account. Zero skips posts.
	PostsPerUsername int
	// DedupeEdges records a repeated follow pair once in the graph
	DedupeEdges bool
}

// Stats summarizes a finished run
type Stats struct {
	Requested int
	Scraped   []string
	Skipped   []string
	Posts     int
	Nodes     int
	Edges     int
	Duration  time.Duration
}

// Scraper walks a list of usernames and feeds accounts, posts and follow
// edges to its sinks and graph
type Scraper struct {
	session  Session
	sinks    []Sink
	reporter Reporter
	graph    *graph.Graph
	opts     Options
	logger   logger.Logger
}

// New creates a Scraper over an Instagram session
func New(session Session, opts Options, log logger.Logger, sinks ...Sink) *Scraper {
	if log == nil {
		log = logger.GetLogger()
	}
	return &Scraper{
		session:  session,
		sinks:    sinks,
		reporter: nopReporter{},
		graph:    graph.New(opts.DedupeEdges),
		opts:     opts,
		logger:   log,
	}
}

// SetReporter sets where progress is shown
func (s *Scraper) SetReporter(r Reporter) {
	if r == nil {
		r = nopReporter{}
	}
	s.reporter = r
}

// AddSink registers another row destination. Sinks must be added before Run.
func (s *Scraper) AddSink(sink Sink) {
	s.sinks = append(s.sinks, sink)
}

// Graph returns the follower network collected so far
func (s *Scraper) Graph() *graph.Graph {
	return s.graph
}

// Login authenticates the session. Errors are returned as is so callers can
// tell bad credentials and two-factor prompts apart with errors.IsType.
func (s *Scraper) Login(ctx context.Context, creds models.Credentials) error {
	s.logger.InfoWithFields("Logging in", map[string]interface{}{
		"username": creds.Username,
	})
	if err := s.session.Authenticate(ctx, creds); err != nil {
		s.logger.WithError(err).WithField("error_type", string(errors.TypeOf(err))).Error("Login failed")
		return err
	}
	s.logger.Info("Login successful")
	return nil
}

// Run scrapes every username in order. A profile that does not exist is
// skipped; any other error stops the run and is returned with the stats
// gathered so far.
func (s *Scraper) Run(ctx context.Context, usernames []string) (*Stats, error) {
	start := time.Now()
	stats := &Stats{Requested: len(usernames)}
	defer func() {
		stats.Nodes = s.graph.NodeCount()
		stats.Edges = s.graph.EdgeCount()
		stats.Duration = time.Since(start)
	}()

	s.reporter.BatchStarted(len(usernames), s.opts.PostsPerUsername)
	s.logger.InfoWithFields("Starting batch", map[string]interface{}{
		"usernames":      len(usernames),
		"posts_per_user": s.opts.PostsPerUsername,
		"dedupe_edges":   s.opts.DedupeEdges,
	})

	for _, username := range usernames {
		if err := ctx.Err(); err != nil {
			return stats, err
		}

		summary, err := s.scrapeAccount(ctx, username)
		if err != nil {
			if errors.IsType(err, errors.ErrorTypeNotFound) {
				s.reporter.AccountSkipped(username)
				s.logger.WarnWithFields("Profile does not exist, skipping", map[string]interface{}{
					"username": username,
				})
				stats.Skipped = append(stats.Skipped, username)
				continue
			}
			s.logger.WithError(err).WithField("username", username).Error("Scraping account failed")
			return stats, err
		}

		stats.Scraped = append(stats.Scraped, username)
		stats.Posts += summary.Posts
	}

	s.reporter.CollectionDone()
	s.logger.InfoWithFields("Batch collected", map[string]interface{}{
		"scraped": len(stats.Scraped),
		"skipped": len(stats.Skipped),
		"posts":   stats.Posts,
		"nodes":   s.graph.NodeCount(),
		"edges":   s.graph.EdgeCount(),
	})
	return stats, nil
}

// scrapeAccount collects one account. Its not-found error is returned
// unwrapped so Run can skip the account.
func (s *Scraper) scrapeAccount(ctx context.Context, username string) (AccountSummary, error) {
	summary := AccountSummary{Username: username}
	s.reporter.AccountStarted(username)

	profile, err := s.session.ResolveProfile(ctx, username)
	if err != nil {
		if errors.IsType(err, errors.ErrorTypeNotFound) {
			return summary, err
		}
		return summary, fmt.Errorf("resolve profile %s: %w", username, err)
	}

	// rows and graph use the name as listed in the batch file
	account := *profile
	account.Username = username

	s.graph.AddNode(username, account.UserID)

	for follower, err := range s.session.Followers(ctx, &account) {
		if err != nil {
			return summary, fmt.Errorf("list followers of %s: %w", username, err)
		}
		s.graph.AddEdge(follower.Username, follower.UserID, username, account.UserID)
		summary.Followers++
	}

	for followee, err := range s.session.Followees(ctx, &account) {
		if err != nil {
			return summary, fmt.Errorf("list followees of %s: %w", username, err)
		}
		s.graph.AddEdge(username, account.UserID, followee.Username, followee.UserID)
		summary.Followees++
	}

	for _, sink := range s.sinks {
		if err := sink.WriteAccount(ctx, &account); err != nil {
			return summary, fmt.Errorf("write account %s: %w", username, err)
		}
	}

	posts, err := s.scrapePosts(ctx, username, &account)
	summary.Posts = posts
	if err != nil {
		return summary, err
	}

	s.reporter.AccountDone(summary)
	logger.LogAccountDone(s.logger, username, summary.Followers, summary.Followees, summary.Posts)
	return summary, nil
}

// scrapePosts emits at most PostsPerUsername posts and stops pulling from
// the listing as soon as the cap is reached
func (s *Scraper) scrapePosts(ctx context.Context, username string, profile *models.Profile) (int, error) {
	limit := s.opts.PostsPerUsername
	if limit <= 0 {
		return 0, nil
	}

	written := 0
	for post, err := range s.session.Posts(ctx, profile) {
		if err != nil {
			return written, fmt.Errorf("list posts of %s: %w", username, err)
		}

		s.reporter.PostScraped(username, post.Shortcode)

		row := *post
		row.OwnerUsername = username
		for _, sink := range s.sinks {
			if err := sink.WritePost(ctx, &row); err != nil {
				return written, fmt.Errorf("write post %s: %w", post.Shortcode, err)
			}
		}

		written++
		if written >= limit {
			break
		}
	}
	return written, nil
}
