package logger

import (
	"time"
)

// LogRequest logs an Instagram API request at a level derived from its status
func LogRequest(log Logger, method, endpoint string, statusCode int, duration time.Duration) {
	fields := map[string]interface{}{
		"method":      method,
		"endpoint":    endpoint,
		"status_code": statusCode,
		"duration_ms": duration.Milliseconds(),
	}

	switch {
	case statusCode >= 500:
		log.ErrorWithFields("Instagram request server error", fields)
	case statusCode >= 400:
		log.WarnWithFields("Instagram request client error", fields)
	default:
		log.DebugWithFields("Instagram request completed", fields)
	}
}

// LogRateLimit logs rate limiting events
func LogRateLimit(log Logger, endpoint string, retryAfter time.Duration) {
	log.WithFields(map[string]interface{}{
		"endpoint":    endpoint,
		"retry_after": retryAfter,
		"action":      "rate_limited",
	}).Warn("Rate limit reached, backing off")
}

// LogAccountDone logs the per-account summary of a batch run
func LogAccountDone(log Logger, username string, followers, followees, posts int) {
	log.InfoWithFields("Account scraped", map[string]interface{}{
		"username":  username,
		"followers": followers,
		"followees": followees,
		"posts":     posts,
	})
}

// NewNopLogger creates a no-operation logger for testing
func NewNopLogger() Logger {
	return &nopLogger{}
}

type nopLogger struct{}

func (n *nopLogger) Debug(msg string)                                          {}
func (n *nopLogger) Info(msg string)                                           {}
func (n *nopLogger) Warn(msg string)                                           {}
func (n *nopLogger) Error(msg string)                                          {}
func (n *nopLogger) WithField(key string, value interface{}) Logger            { return n }
func (n *nopLogger) WithFields(fields map[string]interface{}) Logger           { return n }
func (n *nopLogger) WithError(err error) Logger                                { return n }
func (n *nopLogger) DebugWithFields(msg string, fields map[string]interface{}) {}
func (n *nopLogger) InfoWithFields(msg string, fields map[string]interface{})  {}
func (n *nopLogger) WarnWithFields(msg string, fields map[string]interface{})  {}
func (n *nopLogger) ErrorWithFields(msg string, fields map[string]interface{}) {}
