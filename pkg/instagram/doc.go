// Package instagram is a logged-in Instagram web session.
//
// A Client authenticates with the web login form and then reads profiles,
// follower and followee lists, and timeline posts. Paginated listings are
// exposed as iter.Seq2 sequences that fetch the next page only when the
// consumer asks for more, so breaking out of a range loop stops all further
// requests for that listing.
//
//	client := instagram.NewClient(cfg, log)
//	if err := client.Authenticate(ctx, creds); err != nil {
//	    if errors.IsType(err, errors.ErrorTypeTwoFactor) {
//	        // ask the user to disable 2FA
//	    }
//	}
//	profile, err := client.ResolveProfile(ctx, "instagram")
//	for post, err := range client.Posts(ctx, profile) {
//	    ...
//	}
//
// Every request passes through a token bucket rate limiter and, except for
// login, is retried on network, throttling and server errors.
package instagram
