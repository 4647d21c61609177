package database

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"igbatch/pkg/graph"
	"igbatch/pkg/models"
)

type execCall struct {
	sql  string
	args []any
}

type fakeConn struct {
	execs    []execCall
	batches  [][]execCall
	execErr  error
	batchErr error
}

func (f *fakeConn) Exec(_ context.Context, sql string, args ...any) (pgconn.CommandTag, error) {
	f.execs = append(f.execs, execCall{sql: sql, args: args})
	return pgconn.NewCommandTag("INSERT 0 1"), f.execErr
}

func (f *fakeConn) SendBatch(_ context.Context, b *pgx.Batch) pgx.BatchResults {
	var calls []execCall
	for _, q := range b.QueuedQueries {
		calls = append(calls, execCall{sql: q.SQL, args: q.Arguments})
	}
	f.batches = append(f.batches, calls)
	return &fakeResults{err: f.batchErr}
}

type fakeResults struct {
	err error
}

func (r *fakeResults) Exec() (pgconn.CommandTag, error) { return pgconn.NewCommandTag("INSERT 0 1"), r.err }
func (r *fakeResults) Query() (pgx.Rows, error)         { return nil, errors.New("not implemented") }
func (r *fakeResults) QueryRow() pgx.Row                { return nil }
func (r *fakeResults) Close() error                     { return nil }

func TestMigrate(t *testing.T) {
	fc := &fakeConn{}
	s := newSink(fc, "run-1", nil)

	require.NoError(t, s.migrate(context.Background()))
	require.Len(t, fc.execs, 1)
	assert.Contains(t, fc.execs[0].sql, "CREATE TABLE IF NOT EXISTS igbatch_accounts")
	assert.Contains(t, fc.execs[0].sql, "CREATE TABLE IF NOT EXISTS igbatch_edges")

	fc.execErr = errors.New("permission denied")
	err := s.migrate(context.Background())
	assert.ErrorContains(t, err, "failed to create tables")
}

func TestWriteAccount(t *testing.T) {
	fc := &fakeConn{}
	s := newSink(fc, "run-1", nil)

	profile := &models.Profile{
		Username:   "alice",
		UserID:     "1",
		FullName:   "Alice",
		IsVerified: true,
		Followers:  10,
		Followees:  5,
	}
	require.NoError(t, s.WriteAccount(context.Background(), profile))
	require.Len(t, fc.execs, 1)

	args := fc.execs[0].args
	require.Len(t, args, 14)
	assert.Equal(t, "run-1", args[0])
	assert.Equal(t, "alice", args[1])
	assert.Equal(t, "https://instagram.com/alice", args[2])
	assert.Equal(t, true, args[6])
	assert.Equal(t, 10, args[12])
	assert.Equal(t, 5, args[13])

	fc.execErr = errors.New("connection reset")
	err := s.WriteAccount(context.Background(), profile)
	assert.ErrorContains(t, err, "failed to insert account alice")
}

func TestPostArgs(t *testing.T) {
	lat, lng := 52.37, 4.89
	taken := time.Date(2024, 3, 1, 12, 30, 0, 0, time.FixedZone("CET", 3600))

	t.Run("video with location", func(t *testing.T) {
		post := &models.Post{
			Shortcode:      "ABC",
			OwnerUsername:  "alice",
			TakenAt:        taken,
			DisplayURL:     "https://cdn/thumb.jpg",
			VideoURL:       "https://cdn/video.mp4",
			IsVideo:        true,
			VideoViewCount: 100,
			VideoDuration:  12.5,
			Hashtags:       []string{"go"},
			Likes:          3,
			Comments:       2,
			Location:       &models.Location{Name: "Amsterdam", Lat: &lat, Lng: &lng},
		}
		args := postArgs("run-1", post)
		require.Len(t, args, 18)
		assert.Equal(t, taken.UTC(), args[3])
		assert.Equal(t, "https://cdn/video.mp4", args[5])
		assert.Equal(t, []string{"go"}, args[8])
		assert.Equal(t, []string{}, args[9])
		assert.Equal(t, 100, args[11])
		assert.Equal(t, 12.5, args[12])
		assert.Equal(t, "Amsterdam", *args[15].(*string))
		assert.Equal(t, 52.37, *args[16].(*float64))
		assert.Equal(t, 4.89, *args[17].(*float64))
	})

	t.Run("image without location", func(t *testing.T) {
		post := &models.Post{
			Shortcode:      "DEF",
			DisplayURL:     "https://cdn/img.jpg",
			VideoViewCount: 7,
		}
		args := postArgs("run-1", post)
		assert.Equal(t, "https://cdn/img.jpg", args[5])
		assert.Equal(t, 0, args[11])
		assert.Nil(t, args[15].(*string))
		assert.Nil(t, args[16].(*float64))
	})

	t.Run("location without coordinates", func(t *testing.T) {
		post := &models.Post{Location: &models.Location{Name: "Somewhere", Lat: &lat}}
		args := postArgs("run-1", post)
		assert.Equal(t, "Somewhere", *args[15].(*string))
		assert.Nil(t, args[16].(*float64))
		assert.Nil(t, args[17].(*float64))
	})
}

func TestWriteGraphBatches(t *testing.T) {
	fc := &fakeConn{}
	s := newSink(fc, "run-1", nil)
	s.batchSize = 2

	g := graph.New(false)
	g.AddNode("alice", "1")
	g.AddEdge("bob", "2", "alice", "1")
	g.AddEdge("alice", "1", "carol", "3")

	require.NoError(t, s.WriteGraph(context.Background(), g))

	var all []execCall
	for _, b := range fc.batches {
		assert.LessOrEqual(t, len(b), 2)
		all = append(all, b...)
	}
	require.Len(t, all, 5)

	for _, c := range all[:3] {
		assert.Equal(t, insertNode, c.sql)
	}
	assert.Equal(t, []any{"run-1", "alice", "1"}, all[0].args)
	assert.Equal(t, []any{"run-1", 0, "bob", "alice"}, all[3].args)
	assert.Equal(t, []any{"run-1", 1, "alice", "carol"}, all[4].args)
}

func TestWriteGraphEmpty(t *testing.T) {
	fc := &fakeConn{}
	s := newSink(fc, "run-1", nil)

	require.NoError(t, s.WriteGraph(context.Background(), graph.New(false)))
	assert.Empty(t, fc.batches)
}

func TestWriteGraphError(t *testing.T) {
	fc := &fakeConn{batchErr: errors.New("duplicate key")}
	s := newSink(fc, "run-1", nil)

	g := graph.New(false)
	g.AddNode("alice", "1")

	err := s.WriteGraph(context.Background(), g)
	assert.ErrorContains(t, err, "failed to store graph")
}
