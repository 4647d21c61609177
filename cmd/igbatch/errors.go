package main

import (
	stderrors "errors"

	"igbatch/pkg/batch"
	"igbatch/pkg/config"
	"igbatch/pkg/errors"
	"igbatch/pkg/storage"
	"igbatch/pkg/ui"
)

const badCredentialsMessage = "Invalid username or password configured. Cannot scrape."

// reportedError wraps an error whose message was already shown
type reportedError struct {
	err error
}

func (e *reportedError) Error() string { return e.err.Error() }
func (e *reportedError) Unwrap() error { return e.err }

func reportError(err error) {
	var reported *reportedError
	if stderrors.As(err, &reported) {
		return
	}
	ui.PrintError(failureMessage(err))
}

// failureMessage turns a run error into the line shown to the user
func failureMessage(err error) string {
	switch {
	case errors.IsType(err, errors.ErrorTypeBadCredentials):
		return badCredentialsMessage
	case stderrors.Is(err, config.ErrMissingConfig):
		return "Missing configuration: " + err.Error()
	case stderrors.Is(err, batch.ErrBatchFileNotFound):
		return "Batch file not found: " + err.Error()
	case stderrors.Is(err, storage.ErrInvalidOutputDir):
		return "Invalid output directory: " + err.Error()
	default:
		return "Error: " + err.Error()
	}
}

// exitCode is 1 for every failure the command reports
func exitCode(err error) int {
	if err == nil {
		return 0
	}
	return 1
}
