package database

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"igbatch/pkg/config"
	"igbatch/pkg/graph"
	"igbatch/pkg/logger"
	"igbatch/pkg/models"
	"igbatch/pkg/storage"
)

// DefaultBatchSize is the number of graph rows sent per round trip
const DefaultBatchSize = 200

// conn is the part of *pgxpool.Pool the sink uses
type conn interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	SendBatch(ctx context.Context, b *pgx.Batch) pgx.BatchResults
}

// Sink mirrors the CSV rows and the follow graph into Postgres. Every row
// carries the run id.
type Sink struct {
	db        conn
	pool      *pgxpool.Pool
	runID     string
	batchSize int
	log       logger.Logger
}

// Open connects to cfg.URL, creates the tables if needed and returns a
// sink tagging rows with runID.
func Open(ctx context.Context, cfg config.DatabaseConfig, runID string, log logger.Logger) (*Sink, error) {
	poolCfg, err := pgxpool.ParseConfig(cfg.URL)
	if err != nil {
		return nil, fmt.Errorf("failed to parse database url: %w", err)
	}
	if cfg.MaxConns > 0 {
		poolCfg.MaxConns = cfg.MaxConns
	}

	pool, err := pgxpool.NewWithConfig(ctx, poolCfg)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	s := newSink(pool, runID, log)
	s.pool = pool
	if err := s.migrate(ctx); err != nil {
		pool.Close()
		return nil, err
	}

	log.InfoWithFields("Database sink ready", map[string]interface{}{
		"run_id": runID,
		"host":   poolCfg.ConnConfig.Host,
	})
	return s, nil
}

func newSink(db conn, runID string, log logger.Logger) *Sink {
	if log == nil {
		log = logger.NewNopLogger()
	}
	return &Sink{
		db:        db,
		runID:     runID,
		batchSize: DefaultBatchSize,
		log:       log,
	}
}

func (s *Sink) migrate(ctx context.Context) error {
	if _, err := s.db.Exec(ctx, schema); err != nil {
		return fmt.Errorf("failed to create tables: %w", err)
	}
	return nil
}

// RunID returns the id stored with every row
func (s *Sink) RunID() string {
	return s.runID
}

// WriteAccount upserts one account row
func (s *Sink) WriteAccount(ctx context.Context, p *models.Profile) error {
	if _, err := s.db.Exec(ctx, insertAccount, accountArgs(s.runID, p)...); err != nil {
		return fmt.Errorf("failed to insert account %s: %w", p.Username, err)
	}
	return nil
}

// WritePost inserts one post row
func (s *Sink) WritePost(ctx context.Context, p *models.Post) error {
	if _, err := s.db.Exec(ctx, insertPost, postArgs(s.runID, p)...); err != nil {
		return fmt.Errorf("failed to insert post %s: %w", p.Shortcode, err)
	}
	return nil
}

// WriteGraph stores every node and edge of g. Edges keep their
// accumulation order through the seq column.
func (s *Sink) WriteGraph(ctx context.Context, g *graph.Graph) error {
	nodes := g.Nodes()
	edges := g.Edges()

	b := &pgx.Batch{}
	for _, n := range nodes {
		b.Queue(insertNode, s.runID, n.Username, n.UserID)
		if b.Len() >= s.batchSize {
			if err := s.flush(ctx, b); err != nil {
				return err
			}
			b = &pgx.Batch{}
		}
	}
	for i, e := range edges {
		b.Queue(insertEdge, s.runID, i, e.From, e.To)
		if b.Len() >= s.batchSize {
			if err := s.flush(ctx, b); err != nil {
				return err
			}
			b = &pgx.Batch{}
		}
	}
	if err := s.flush(ctx, b); err != nil {
		return err
	}

	s.log.InfoWithFields("Graph stored in database", map[string]interface{}{
		"run_id": s.runID,
		"nodes":  len(nodes),
		"edges":  len(edges),
	})
	return nil
}

func (s *Sink) flush(ctx context.Context, b *pgx.Batch) error {
	if b.Len() == 0 {
		return nil
	}
	br := s.db.SendBatch(ctx, b)
	for i := 0; i < b.Len(); i++ {
		if _, err := br.Exec(); err != nil {
			_ = br.Close()
			return fmt.Errorf("failed to store graph: %w", err)
		}
	}
	if err := br.Close(); err != nil {
		return fmt.Errorf("failed to store graph: %w", err)
	}
	return nil
}

// Close releases the connection pool
func (s *Sink) Close() {
	if s.pool != nil {
		s.pool.Close()
	}
}

func accountArgs(runID string, p *models.Profile) []any {
	return []any{
		runID,
		p.Username,
		storage.ProfileURL(p.Username),
		p.ProfilePicURL,
		p.FullName,
		p.UserID,
		p.IsVerified,
		p.HasViewableStory,
		p.HasPublicStory,
		p.Biography,
		p.MediaCount,
		p.IGTVCount,
		p.Followers,
		p.Followees,
	}
}

func postArgs(runID string, p *models.Post) []any {
	media := p.DisplayURL
	views, length := 0, 0.0
	if p.IsVideo {
		media = p.VideoURL
		views, length = p.VideoViewCount, p.VideoDuration
	}

	var locName *string
	var lat, lng *float64
	if p.Location != nil {
		locName = &p.Location.Name
		if p.Location.Lat != nil && p.Location.Lng != nil {
			lat, lng = p.Location.Lat, p.Location.Lng
		}
	}

	return []any{
		runID,
		p.Shortcode,
		p.OwnerUsername,
		p.TakenAt.UTC(),
		p.DisplayURL,
		media,
		p.IsVideo,
		p.IsSponsored,
		nonNil(p.Hashtags),
		nonNil(p.Mentions),
		p.Caption,
		views,
		length,
		p.Likes,
		p.Comments,
		locName,
		lat,
		lng,
	}
}

func nonNil(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}
