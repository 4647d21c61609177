package storage

import (
	"context"
	"encoding/csv"
	"fmt"
	"os"

	"igbatch/pkg/models"
)

type table struct {
	file *os.File
	w    *csv.Writer
	rows int
}

func newTable(path string, header []string) (*table, error) {
	f, err := os.Create(path)
	if err != nil {
		return nil, fmt.Errorf("failed to create %s: %w", path, err)
	}
	t := &table{file: f, w: csv.NewWriter(f)}
	if err := t.w.Write(header); err != nil {
		f.Close()
		return nil, fmt.Errorf("failed to write header to %s: %w", path, err)
	}
	return t, nil
}

func (t *table) write(record []string) error {
	if err := t.w.Write(record); err != nil {
		return fmt.Errorf("failed to write row to %s: %w", t.file.Name(), err)
	}
	t.rows++
	return nil
}

func (t *table) close() error {
	t.w.Flush()
	flushErr := t.w.Error()
	closeErr := t.file.Close()
	if flushErr != nil {
		return fmt.Errorf("failed to flush %s: %w", t.file.Name(), flushErr)
	}
	return closeErr
}

// CSVSink appends account and post rows to accounts.csv and posts.csv.
// It is not safe for concurrent use.
type CSVSink struct {
	accounts *table
	posts    *table
}

// WriteAccount appends one row to accounts.csv
func (s *CSVSink) WriteAccount(_ context.Context, p *models.Profile) error {
	return s.accounts.write(AccountRecord(p))
}

// WritePost appends one row to posts.csv
func (s *CSVSink) WritePost(_ context.Context, p *models.Post) error {
	return s.posts.write(PostRecord(p))
}

// Counts returns the number of data rows written to each file
func (s *CSVSink) Counts() (accounts, posts int) {
	return s.accounts.rows, s.posts.rows
}

// Close flushes and closes both files
func (s *CSVSink) Close() error {
	accErr := s.accounts.close()
	postErr := s.posts.close()
	if accErr != nil {
		return accErr
	}
	return postErr
}
