package services

import (
	"context"
	"fmt"

	"github.com/emkern/kin-core/internal/domain/entities"
	"github.com/emkern/kin-core/internal/domain/ports"
)

// GraphProjector builds the undirected node/edge projection of a tree:
// one node per person, one edge per relationship pair. Geometry is left to
// a layout engine.
type GraphProjector struct {
	db ports.RelationalDB
}

// NewGraphProjector creates a new GraphProjector.
func NewGraphProjector(db ports.RelationalDB) *GraphProjector {
	return &GraphProjector{db: db}
}

// Project returns the graph for a tree. Only primary edges are projected,
// so a pair never produces two edges.
func (p *GraphProjector) Project(ctx context.Context, treeID string) (*entities.Graph, error) {
	persons, err := p.db.ListPersons(ctx, treeID)
	if err != nil {
		return nil, fmt.Errorf("listing persons: %w", err)
	}

	edges, err := p.db.ListRelationshipsByRole(ctx, treeID, entities.RolePrimary)
	if err != nil {
		return nil, fmt.Errorf("listing relationships: %w", err)
	}

	graph := &entities.Graph{
		Nodes: make([]entities.GraphNode, 0, len(persons)),
		Edges: make([]entities.GraphEdge, 0, len(edges)),
	}

	for _, person := range persons {
		graph.Nodes = append(graph.Nodes, entities.GraphNode{
			ID:         person.ID,
			Name:       person.FullName(),
			BirthDate:  person.BirthDate,
			BirthPlace: person.BirthPlace,
			Occupation: person.Occupation,
		})
	}

	for i := range edges {
		e := &edges[i]
		graph.Edges = append(graph.Edges, entities.GraphEdge{
			FromID: e.FromPersonID,
			ToID:   e.ToPersonID,
			Label:  entities.EdgeLabel(e.Type),
			Notes:  e.Notes,
		})
	}

	return graph, nil
}
