// Package logger provides the structured logging interface used across igbatch.
//
// It wraps zerolog with a small Logger interface so packages can take a
// logger as a dependency and tests can substitute TestLogger or NewNopLogger.
//
//	err := logger.Initialize(&cfg.Logging)
//	logger.WithField("username", "alice").Info("Scraping account")
//
// Console output goes to stderr with colored levels. When a log file is
// configured, entries are written to both.
package logger
