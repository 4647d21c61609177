// Package graph accumulates the follower network and writes it as GDF.
package graph

import (
	"bufio"
	"fmt"
	"io"
	"sync"
)

// Node is a username and its numeric Instagram id
type Node struct {
	Username string
	UserID   string
}

// Edge is a directed follow relationship: From follows To
type Edge struct {
	From string
	To   string
}

func edgeKey(from, to string) string {
	return from + "|" + to
}

// Graph is an in-memory follower network. Nodes and edges keep insertion
// order so the written file is stable across identical runs.
type Graph struct {
	mu          sync.RWMutex
	nodes       []*Node
	index       map[string]*Node
	edges       []Edge
	seen        map[string]struct{}
	dedupeEdges bool
}

// New creates an empty graph. With dedupeEdges set, a repeated
// (from, to) pair is recorded once.
func New(dedupeEdges bool) *Graph {
	return &Graph{
		index:       make(map[string]*Node),
		seen:        make(map[string]struct{}),
		dedupeEdges: dedupeEdges,
	}
}

// AddNode records username in the id index. A later non-empty id replaces
// an earlier one.
func (g *Graph) AddNode(username, userID string) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.addNode(username, userID)
}

func (g *Graph) addNode(username, userID string) {
	if n, ok := g.index[username]; ok {
		if userID != "" {
			n.UserID = userID
		}
		return
	}
	n := &Node{Username: username, UserID: userID}
	g.nodes = append(g.nodes, n)
	g.index[username] = n
}

// AddEdge records that from follows to. Both endpoints are indexed with
// the ids given.
func (g *Graph) AddEdge(from, fromID, to, toID string) {
	g.mu.Lock()
	defer g.mu.Unlock()

	g.addNode(from, fromID)
	g.addNode(to, toID)

	if g.dedupeEdges {
		key := edgeKey(from, to)
		if _, ok := g.seen[key]; ok {
			return
		}
		g.seen[key] = struct{}{}
	}
	g.edges = append(g.edges, Edge{From: from, To: to})
}

// NodeCount returns the number of indexed usernames
func (g *Graph) NodeCount() int {
	g.mu.RLock()
	defer g.mu.RUnlock()
	return len(g.nodes)
}

// EdgeCount returns the number of recorded edges, duplicates included
// unless the graph dedupes
func (g *Graph) EdgeCount() int {
	g.mu.RLock()
	defer g.mu.RUnlock()
	return len(g.edges)
}

// Nodes returns a copy of the node list in insertion order
func (g *Graph) Nodes() []Node {
	g.mu.RLock()
	defer g.mu.RUnlock()
	out := make([]Node, len(g.nodes))
	for i, n := range g.nodes {
		out[i] = *n
	}
	return out
}

// Edges returns a copy of the edge list in insertion order
func (g *Graph) Edges() []Edge {
	g.mu.RLock()
	defer g.mu.RUnlock()
	out := make([]Edge, len(g.edges))
	copy(out, g.edges)
	return out
}

const (
	nodeHeader = "nodedef>name VARCHAR,userid VARCHAR"
	edgeHeader = "edgedef>from VARCHAR,to VARCHAR,directed BOOLEAN"
)

// WriteGDF writes the node block followed by the edge block in GUESS
// graph data format.
func (g *Graph) WriteGDF(w io.Writer) error {
	g.mu.RLock()
	defer g.mu.RUnlock()

	bw := bufio.NewWriter(w)
	fmt.Fprintln(bw, nodeHeader)
	for _, n := range g.nodes {
		fmt.Fprintf(bw, "%s,%s\n", n.Username, n.UserID)
	}
	fmt.Fprintln(bw, edgeHeader)
	for _, e := range g.edges {
		fmt.Fprintf(bw, "%s,%s,true\n", e.From, e.To)
	}
	if err := bw.Flush(); err != nil {
		return fmt.Errorf("failed to write graph: %w", err)
	}
	return nil
}
