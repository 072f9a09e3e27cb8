package services

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/emkern/kin-core/internal/domain/entities"
)

func TestGraphProjector_Project(t *testing.T) {
	ctx := context.Background()
	ledger, db := setupLedger(t)
	projector := NewGraphProjector(db)

	_, err := ledger.Add(ctx, testTree, "ann", "ben", entities.RelationParent, "eldest")
	require.NoError(t, err)
	_, err = ledger.Add(ctx, testTree, "ann", "cal", entities.RelationSpouse, "")
	require.NoError(t, err)

	graph, err := projector.Project(ctx, testTree)
	require.NoError(t, err)

	t.Run("one node per person", func(t *testing.T) {
		require.Len(t, graph.Nodes, 3)
		assert.Equal(t, "ann", graph.Nodes[0].ID)
		assert.Equal(t, "Ann Reed", graph.Nodes[0].Name)
	})

	t.Run("one edge per pair", func(t *testing.T) {
		require.Len(t, graph.Edges, 2, "derived edges must not double the edge count")
		assert.Equal(t, "ann", graph.Edges[0].FromID)
		assert.Equal(t, "ben", graph.Edges[0].ToID)
		assert.Equal(t, "parent ↔ child", graph.Edges[0].Label)
		assert.Equal(t, "eldest", graph.Edges[0].Notes)
		assert.Equal(t, "spouse ↔ spouse", graph.Edges[1].Label)
	})
}

func TestGraphProjector_Project_EmptyTree(t *testing.T) {
	ctx := context.Background()
	_, db := setupLedger(t)
	projector := NewGraphProjector(db)

	graph, err := projector.Project(ctx, "empty-tree")
	require.NoError(t, err)
	assert.Empty(t, graph.Nodes)
	assert.Empty(t, graph.Edges)
}
