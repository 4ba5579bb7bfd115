// This file contains thin wrappers around the graph module
// for managing the reference structure of the competition data.
package internal

import (
	"github.com/dominikbraun/graph"
)

// An edge that would close a reference cycle is rejected with this error.
var ErrEdgeCreatesCycle = graph.ErrEdgeCreatesCycle

type GraphNode interface {
	// A unique key that is used as the node hash
	Key() string
}

func getNodeKey[T GraphNode](node T) string {
	return node.Key()
}

// A ReferenceGraph has nodes that reference each other through
// directed edges. An edge from A to B means A depends on B.
//
// Valid competition documents only reference earlier or sibling
// stages so the graph stays acyclic. Cycle creation is prevented
// on edge insertion.
type ReferenceGraph[T GraphNode] struct {
	graph.Graph[string, T]
	adjacencyMap map[string]map[string]graph.Edge[string]
}

func (g *ReferenceGraph[T]) AddVertex(node T) error {
	g.adjacencyMap = nil
	return g.Graph.AddVertex(node)
}

// Adds a directed edge from source to target. Returns
// ErrEdgeCreatesCycle when the edge would close a cycle.
// Adding an already present edge is a no-op.
func (g *ReferenceGraph[T]) AddEdge(source, target T) error {
	g.adjacencyMap = nil
	err := g.Graph.AddEdge(source.Key(), target.Key())
	if err == graph.ErrEdgeAlreadyExists {
		return nil
	}
	return err
}

// Returns the nodes that are on the outgoing edges of the given
// source node (the nodes it references).
func (g *ReferenceGraph[T]) GetReferenced(source T) []T {
	if g.adjacencyMap == nil {
		g.adjacencyMap, _ = g.Graph.AdjacencyMap()
	}

	outEdges := g.adjacencyMap[source.Key()]
	referenced := make([]T, 0, len(outEdges))
	for k := range outEdges {
		node, _ := g.Vertex(k)
		referenced = append(referenced, node)
	}

	return referenced
}

func NewReferenceGraph[T GraphNode]() *ReferenceGraph[T] {
	g := ReferenceGraph[T]{
		Graph: graph.New(getNodeKey[T], graph.Directed(), graph.PreventCycles()),
	}
	return &g
}
