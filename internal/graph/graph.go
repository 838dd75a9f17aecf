// Package graph assembles inheritance edges into a directed class graph and
// ranks its classes.
package graph

import (
	"math"

	"gonum.org/v1/gonum/graph"
	"gonum.org/v1/gonum/graph/simple"

	"github.com/scott-clare1/oop-viewer/internal/model"
)

// PlaceholderWeight is stored on every edge; edges carry no semantic weight.
const PlaceholderWeight = -1

// NodeID is the handle assigned to a class when it is first inserted.
// It indexes Nodes() and every per-node slice derived from the graph.
type NodeID int

// Node is one class in the graph.
type Node struct {
	ID    NodeID
	Name  string
	Label string
}

// Edge points from a parent class to a child class.
type Edge struct {
	From   NodeID // parent
	To     NodeID // child
	Weight int
	Label  string
}

// Graph is a directed inheritance graph with one node per distinct class name.
// Every node has at least one edge. A Graph is immutable once built.
//
// Topology lives in a gonum simple.DirectedGraph keyed by NodeID. Self
// inheritance ("class A(A):") cannot be stored there and is tracked in
// loops instead.
type Graph struct {
	dg       *simple.DirectedGraph
	loops    map[NodeID]bool
	nodes    []Node
	edges    []Edge
	index    map[string]NodeID
	children [][]NodeID
	parents  [][]NodeID
}

// Build assembles edges in order. A name becomes a node the first time it
// appears as either endpoint and keeps that NodeID; repeated (parent, child)
// pairs are stored once.
func Build(edges []model.Edge) *Graph {
	g := &Graph{
		dg:    simple.NewDirectedGraph(),
		loops: make(map[NodeID]bool),
		index: make(map[string]NodeID),
	}

	for _, e := range edges {
		from := g.intern(e.Parent)
		to := g.intern(e.Child)
		if !g.link(from, to) {
			continue
		}
		g.edges = append(g.edges, Edge{From: from, To: to, Weight: PlaceholderWeight})
		g.children[from] = append(g.children[from], to)
		g.parents[to] = append(g.parents[to], from)
	}

	return g
}

// link records from -> to and reports whether it was new.
func (g *Graph) link(from, to NodeID) bool {
	if from == to {
		if g.loops[from] {
			return false
		}
		g.loops[from] = true
		return true
	}
	if g.dg.HasEdgeFromTo(int64(from), int64(to)) {
		return false
	}
	g.dg.SetEdge(g.dg.NewEdge(simple.Node(from), simple.Node(to)))
	return true
}

func (g *Graph) intern(name string) NodeID {
	if id, ok := g.index[name]; ok {
		return id
	}
	id := NodeID(len(g.nodes))
	g.dg.AddNode(simple.Node(id))
	g.nodes = append(g.nodes, Node{ID: id, Name: name, Label: name})
	g.children = append(g.children, nil)
	g.parents = append(g.parents, nil)
	g.index[name] = id
	return id
}

// Directed exposes the topology to gonum algorithms. Node IDs are NodeIDs
// and edges point parent -> child. Self inheritance is not included.
func (g *Graph) Directed() graph.Directed {
	return g.dg
}

// NodeCount returns the number of classes.
func (g *Graph) NodeCount() int {
	return len(g.nodes)
}

// EdgeCount returns the number of distinct inheritance edges.
func (g *Graph) EdgeCount() int {
	return len(g.edges)
}

// Nodes returns a copy of the nodes in NodeID order.
func (g *Graph) Nodes() []Node {
	return append([]Node(nil), g.nodes...)
}

// Edges returns a copy of the edges in insertion order.
func (g *Graph) Edges() []Edge {
	return append([]Edge(nil), g.edges...)
}

// Node returns the node for id.
func (g *Graph) Node(id NodeID) (Node, bool) {
	if id < 0 || int(id) >= len(g.nodes) {
		return Node{}, false
	}
	return g.nodes[id], true
}

// Lookup resolves a class name to its handle.
func (g *Graph) Lookup(name string) (NodeID, bool) {
	id, ok := g.index[name]
	return id, ok
}

// Name returns the class name for id, or "" if id is unknown.
func (g *Graph) Name(id NodeID) string {
	if n, ok := g.Node(id); ok {
		return n.Name
	}
	return ""
}

// Children returns the direct subclasses of id.
func (g *Graph) Children(id NodeID) []NodeID {
	if _, ok := g.Node(id); !ok {
		return nil
	}
	return append([]NodeID(nil), g.children[id]...)
}

// Parents returns the direct base classes of id.
func (g *Graph) Parents(id NodeID) []NodeID {
	if _, ok := g.Node(id); !ok {
		return nil
	}
	return append([]NodeID(nil), g.parents[id]...)
}

// Rank applies PageRank with links running child -> parent, so widely
// inherited base classes score highest. The result is indexed by NodeID.
//
// Power iteration walks the gonum in-edges (g.Directed().To) sparsely;
// network.PageRank builds a dense V x V matrix.
func Rank(g *Graph) []float64 {
	n := g.NodeCount()
	if n == 0 {
		return nil
	}

	d := g.Directed()
	outEdges := make([][]NodeID, n)
	outDegree := make([]int, n)
	for id := range g.nodes {
		bases := d.To(int64(id))
		for bases.Next() {
			outEdges[id] = append(outEdges[id], NodeID(bases.Node().ID()))
		}
		outDegree[id] = len(outEdges[id])
	}

	return pageRank(n, outEdges, outDegree, 0.85, 100, 1e-6)
}

func pageRank(
	n int,
	outEdges [][]NodeID,
	outDegree []int,
	alpha float64,
	maxIter int,
	tol float64,
) []float64 {
	rank := make([]float64, n)
	initial := 1.0 / float64(n)
	for i := range rank {
		rank[i] = initial
	}

	teleport := (1.0 - alpha) / float64(n)

	for iter := 0; iter < maxIter; iter++ {
		newRank := make([]float64, n)

		// Dangling node contribution (nodes with no outgoing edges)
		var danglingSum float64
		for node := 0; node < n; node++ {
			if outDegree[node] == 0 {
				danglingSum += rank[node]
			}
		}
		danglingContrib := alpha * danglingSum / float64(n)

		for node := range newRank {
			newRank[node] = teleport + danglingContrib
		}

		// Distribute rank through edges
		for src, targets := range outEdges {
			if outDegree[src] == 0 {
				continue
			}
			contrib := alpha * rank[src] / float64(outDegree[src])
			for _, tgt := range targets {
				newRank[tgt] += contrib
			}
		}

		// Check convergence
		var diff float64
		for node := range rank {
			diff += math.Abs(newRank[node] - rank[node])
		}

		rank = newRank

		if diff < tol {
			break
		}
	}

	return rank
}
