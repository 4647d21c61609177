package storage

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
)

// Output file names, written into the manager's directory
const (
	AccountsFile = "accounts.csv"
	PostsFile    = "posts.csv"
	GraphFile    = "follower-network.gdf"
)

// ErrInvalidOutputDir is returned when the output path is missing or is not a directory
var ErrInvalidOutputDir = errors.New("output path is not a valid directory")

// Manager owns the output directory of a batch run
type Manager struct {
	outputDir string
}

// NewManager validates outputDir and returns a manager for it. An empty
// outputDir resolves to the directory holding the running executable. The
// directory must already exist.
func NewManager(outputDir string) (*Manager, error) {
	if outputDir == "" {
		dir, err := DefaultOutputDir()
		if err != nil {
			return nil, err
		}
		outputDir = dir
	}

	abs, err := filepath.Abs(outputDir)
	if err != nil {
		return nil, fmt.Errorf("%w (%s): %v", ErrInvalidOutputDir, outputDir, err)
	}

	info, err := os.Stat(abs)
	if err != nil || !info.IsDir() {
		return nil, fmt.Errorf("%w (%s)", ErrInvalidOutputDir, abs)
	}

	return &Manager{outputDir: abs}, nil
}

// DefaultOutputDir returns the directory of the running executable
func DefaultOutputDir() (string, error) {
	exe, err := os.Executable()
	if err != nil {
		return "", fmt.Errorf("failed to locate executable: %w", err)
	}
	if resolved, err := filepath.EvalSymlinks(exe); err == nil {
		exe = resolved
	}
	return filepath.Dir(exe), nil
}

// GetOutputDir returns the output directory path
func (m *Manager) GetOutputDir() string {
	return m.outputDir
}

// Path returns the location of name inside the output directory
func (m *Manager) Path(name string) string {
	return filepath.Join(m.outputDir, name)
}

// Artifacts returns the paths of the files a completed run produces
func (m *Manager) Artifacts() []string {
	return []string{m.Path(AccountsFile), m.Path(PostsFile), m.Path(GraphFile)}
}

// OpenCSV creates accounts.csv and posts.csv, truncating earlier runs, and
// writes their header rows.
func (m *Manager) OpenCSV() (*CSVSink, error) {
	accounts, err := newTable(m.Path(AccountsFile), AccountHeader)
	if err != nil {
		return nil, err
	}
	posts, err := newTable(m.Path(PostsFile), PostHeader)
	if err != nil {
		accounts.close()
		return nil, err
	}
	return &CSVSink{accounts: accounts, posts: posts}, nil
}

// GraphWriter is anything that can serialize itself as a graph file
type GraphWriter interface {
	WriteGDF(w io.Writer) error
}

// WriteGraph writes the follower network to follower-network.gdf. The file
// only appears once it is complete.
func (m *Manager) WriteGraph(g GraphWriter) error {
	filename := m.Path(GraphFile)

	tempFile := filename + ".tmp"
	out, err := os.Create(tempFile)
	if err != nil {
		return fmt.Errorf("failed to create temporary file: %w", err)
	}

	err = g.WriteGDF(out)
	closeErr := out.Close()

	if err != nil {
		os.Remove(tempFile)
		return fmt.Errorf("failed to save graph: %w", err)
	}
	if closeErr != nil {
		os.Remove(tempFile)
		return fmt.Errorf("failed to close file: %w", closeErr)
	}

	if err := os.Rename(tempFile, filename); err != nil {
		os.Remove(tempFile)
		return fmt.Errorf("failed to rename temporary file: %w", err)
	}
	return nil
}
