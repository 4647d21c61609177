// Package scraper runs a batch of Instagram accounts through a Session.
//
// For every username it resolves the profile, walks the full follower and
// followee lists into a follow graph, writes one account row and then at
// most Options.PostsPerUsername post rows. A profile that does not exist is
// skipped; every other error ends the run.
//
//	s := scraper.New(client, scraper.Options{PostsPerUsername: 10}, log, csvSink)
//	if err := s.Login(ctx, creds); err != nil {
//	    return err
//	}
//	stats, err := s.Run(ctx, usernames)
//	...
//	manager.WriteGraph(s.Graph())
//
// The scraper never retries and never sees pagination; both belong to the
// Session implementation.
package scraper
