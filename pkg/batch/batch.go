// Package batch reads the list of usernames to scrape.
package batch

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
)

// ErrBatchFileNotFound is returned when the batch file path does not exist
var ErrBatchFileNotFound = errors.New("batch file not found")

// LoadUsernames reads one username per line from path. Surrounding
// whitespace is stripped, blank lines are skipped and repeated names are
// kept once, in the order they were first seen.
func LoadUsernames(path string) ([]string, error) {
	f, err := os.Open(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("%w: %s", ErrBatchFileNotFound, path)
		}
		return nil, fmt.Errorf("failed to open batch file: %w", err)
	}
	defer f.Close()

	return ReadUsernames(f)
}

// ReadUsernames is LoadUsernames over an already open reader
func ReadUsernames(r io.Reader) ([]string, error) {
	var usernames []string
	seen := make(map[string]struct{})

	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		name := strings.TrimSpace(scanner.Text())
		if name == "" {
			continue
		}
		if _, ok := seen[name]; ok {
			continue
		}
		seen[name] = struct{}{}
		usernames = append(usernames, name)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("failed to read batch file: %w", err)
	}

	return usernames, nil
}
