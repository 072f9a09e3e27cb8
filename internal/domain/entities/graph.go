package entities

import "fmt"

// GraphNode is one person projected into the relationship graph.
type GraphNode struct {
	ID         string `json:"id"`
	Name       string `json:"name"`
	BirthDate  string `json:"birth_date,omitempty"`
	BirthPlace string `json:"birth_place,omitempty"`
	Occupation string `json:"occupation,omitempty"`
}

// GraphEdge is one undirected edge of the projection. Exactly one edge
// exists per relationship pair; derived edges are never projected.
type GraphEdge struct {
	FromID string `json:"from_id"`
	ToID   string `json:"to_id"`
	Label  string `json:"label"`
	Notes  string `json:"notes,omitempty"`
}

// Graph is the node/edge set handed to a layout engine or renderer.
type Graph struct {
	Nodes []GraphNode `json:"nodes"`
	Edges []GraphEdge `json:"edges"`
}

// Point is a 2-D position produced by a layout engine.
type Point struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// EdgeLabel formats the display label for an edge of the given type,
// showing both directions of the pair.
func EdgeLabel(t RelationType) string {
	return fmt.Sprintf("%s ↔ %s", t, t.Inverse())
}
