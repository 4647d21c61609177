// Package runner drives one batch run from the username file to the
// written outputs.
package runner

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"igbatch/pkg/batch"
	"igbatch/pkg/config"
	"igbatch/pkg/database"
	"igbatch/pkg/graph"
	"igbatch/pkg/instagram"
	"igbatch/pkg/logger"
	"igbatch/pkg/models"
	"igbatch/pkg/scraper"
	"igbatch/pkg/storage"
	"igbatch/pkg/upload"
)

// DatabaseSink mirrors rows and the graph into a database
type DatabaseSink interface {
	scraper.Sink
	WriteGraph(ctx context.Context, g *graph.Graph) error
	Close()
}

// Uploader copies finished files elsewhere
type Uploader interface {
	UploadFiles(ctx context.Context, runID string, files []string) ([]string, error)
}

// Result describes a finished run
type Result struct {
	RunID     string
	OutputDir string
	Files     []string
	Uploaded  []string
	Stats     *scraper.Stats
}

// Runner wires configuration, session, sinks and outputs together
type Runner struct {
	cfg      *config.Config
	runID    string
	session  scraper.Session
	reporter scraper.Reporter
	logger   logger.Logger

	openDatabase func(ctx context.Context) (DatabaseSink, error)
	newUploader  func(ctx context.Context) (Uploader, error)
}

// New creates a runner for cfg. Every run gets a fresh id that tags log
// lines, database rows and uploaded keys.
func New(cfg *config.Config, log logger.Logger) *Runner {
	if log == nil {
		log = logger.GetLogger()
	}
	runID := uuid.NewString()
	log = log.WithField("run_id", runID)

	r := &Runner{
		cfg:    cfg,
		runID:  runID,
		logger: log,
	}
	r.openDatabase = func(ctx context.Context) (DatabaseSink, error) {
		sink, err := database.Open(ctx, cfg.Database, runID, log)
		if err != nil {
			return nil, err
		}
		return sink, nil
	}
	r.newUploader = func(ctx context.Context) (Uploader, error) {
		u, err := upload.New(ctx, cfg.Upload, log)
		if err != nil {
			return nil, err
		}
		return u, nil
	}
	return r
}

// RunID returns the id of this run
func (r *Runner) RunID() string {
	return r.runID
}

// SetSession replaces the Instagram client
func (r *Runner) SetSession(s scraper.Session) {
	r.session = s
}

// SetReporter sets where progress is shown
func (r *Runner) SetReporter(rep scraper.Reporter) {
	r.reporter = rep
}

// Run executes the batch in usernamesPath. The batch file and the output
// directory are checked before logging in; no output file is created
// until the login succeeded. On a collection error the CSV files are
// closed and no graph is written.
func (r *Runner) Run(ctx context.Context, usernamesPath string) (*Result, error) {
	usernames, err := batch.LoadUsernames(usernamesPath)
	if err != nil {
		return nil, err
	}

	store, err := storage.NewManager(r.cfg.Output.Directory)
	if err != nil {
		return nil, err
	}

	session := r.session
	if session == nil {
		session = instagram.NewClient(r.cfg, r.logger)
	}

	s := scraper.New(session, scraper.Options{
		PostsPerUsername: r.cfg.Instagram.PostsPerUsername,
		DedupeEdges:      r.cfg.Output.DedupeEdges,
	}, r.logger)
	s.SetReporter(r.reporter)

	creds := models.Credentials{
		Username: r.cfg.Instagram.Username,
		Password: r.cfg.Instagram.Password,
	}
	if err := s.Login(ctx, creds); err != nil {
		return nil, err
	}

	csvSink, err := store.OpenCSV()
	if err != nil {
		return nil, err
	}
	s.AddSink(csvSink)

	var db DatabaseSink
	if r.cfg.Database.Enabled {
		db, err = r.openDatabase(ctx)
		if err != nil {
			_ = csvSink.Close()
			return nil, err
		}
		defer db.Close()
		s.AddSink(db)
	}

	stats, err := s.Run(ctx, usernames)
	if err != nil {
		_ = csvSink.Close()
		return nil, err
	}
	if err := csvSink.Close(); err != nil {
		return nil, err
	}

	if err := store.WriteGraph(s.Graph()); err != nil {
		return nil, err
	}
	if db != nil {
		if err := db.WriteGraph(ctx, s.Graph()); err != nil {
			return nil, err
		}
	}

	result := &Result{
		RunID:     r.runID,
		OutputDir: store.GetOutputDir(),
		Files:     store.Artifacts(),
		Stats:     stats,
	}

	if r.cfg.Upload.Enabled {
		u, err := r.newUploader(ctx)
		if err != nil {
			return nil, err
		}
		result.Uploaded, err = u.UploadFiles(ctx, r.runID, result.Files)
		if err != nil {
			return nil, fmt.Errorf("upload failed: %w", err)
		}
	}

	r.logger.InfoWithFields("Run finished", map[string]interface{}{
		"output_dir": result.OutputDir,
		"accounts":   len(stats.Scraped),
		"skipped":    len(stats.Skipped),
		"posts":      stats.Posts,
		"nodes":      stats.Nodes,
		"edges":      stats.Edges,
		"duration":   stats.Duration.String(),
	})
	return result, nil
}
