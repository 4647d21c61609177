package graph

import (
	"bytes"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAddEdgeIndexesBothEndpoints(t *testing.T) {
	g := New(false)
	g.AddNode("alice", "1")
	g.AddEdge("bob", "2", "alice", "1")
	g.AddEdge("alice", "1", "carol", "3")

	assert.Equal(t, 3, g.NodeCount())
	assert.Equal(t, 2, g.EdgeCount())
	ids := nodeIDs(g)
	for _, e := range g.Edges() {
		assert.Contains(t, ids, e.From)
		assert.Contains(t, ids, e.To)
	}
	assert.Equal(t, "3", ids["carol"])
}

func nodeIDs(g *Graph) map[string]string {
	ids := make(map[string]string)
	for _, n := range g.Nodes() {
		ids[n.Username] = n.UserID
	}
	return ids
}

func TestAddNodeKeepsOneEntryPerUsername(t *testing.T) {
	g := New(false)
	g.AddNode("alice", "")
	g.AddNode("alice", "1")
	g.AddNode("alice", "")

	require.Equal(t, 1, g.NodeCount())
	assert.Equal(t, []Node{{Username: "alice", UserID: "1"}}, g.Nodes())
}

func TestDuplicateEdges(t *testing.T) {
	build := func(dedupe bool) *Graph {
		g := New(dedupe)
		g.AddEdge("bob", "2", "alice", "1")
		g.AddEdge("bob", "2", "alice", "1")
		g.AddEdge("alice", "1", "bob", "2")
		return g
	}

	t.Run("kept by default", func(t *testing.T) {
		assert.Equal(t, 3, build(false).EdgeCount())
	})

	t.Run("collapsed when deduplicating", func(t *testing.T) {
		g := build(true)
		assert.Equal(t, []Edge{{From: "bob", To: "alice"}, {From: "alice", To: "bob"}}, g.Edges())
	})
}

func TestWriteGDF(t *testing.T) {
	g := New(false)
	g.AddNode("alice", "1")
	g.AddEdge("bob", "2", "alice", "1")
	g.AddEdge("alice", "1", "carol", "3")

	var buf bytes.Buffer
	require.NoError(t, g.WriteGDF(&buf))

	expected := "nodedef>name VARCHAR,userid VARCHAR\n" +
		"alice,1\n" +
		"bob,2\n" +
		"carol,3\n" +
		"edgedef>from VARCHAR,to VARCHAR,directed BOOLEAN\n" +
		"bob,alice,true\n" +
		"alice,carol,true\n"
	assert.Equal(t, expected, buf.String())
}

func TestWriteGDFEmptyGraph(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, New(false).WriteGDF(&buf))
	assert.Equal(t, nodeHeader+"\n"+edgeHeader+"\n", buf.String())
}

type failingWriter struct{}

func (failingWriter) Write([]byte) (int, error) { return 0, errors.New("disk full") }

func TestWriteGDFError(t *testing.T) {
	g := New(false)
	g.AddNode("alice", "1")

	err := g.WriteGDF(failingWriter{})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "disk full")
}
