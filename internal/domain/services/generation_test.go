package services

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/emkern/kin-core/internal/domain/entities"
)

func parentEdge(from, to string) entities.Relationship {
	return entities.Relationship{
		FromPersonID: from,
		ToPersonID:   to,
		Type:         entities.RelationParent,
		Role:         entities.RolePrimary,
	}
}

func TestInferGenerations(t *testing.T) {
	tests := []struct {
		name      string
		personIDs []string
		edges     []entities.Relationship
		root      []string
		next      []string
	}{
		{
			name:      "no edges puts everyone in root",
			personIDs: []string{"a", "b"},
			root:      []string{"a", "b"},
		},
		{
			name:      "children of roots form the next tier",
			personIDs: []string{"a", "b", "c", "d"},
			edges: []entities.Relationship{
				parentEdge("a", "b"),
				parentEdge("a", "c"),
				parentEdge("c", "d"),
			},
			root: []string{"a"},
			next: []string{"b", "c"},
		},
		{
			name:      "two parents share a child without duplication",
			personIDs: []string{"a", "b", "c"},
			edges: []entities.Relationship{
				parentEdge("a", "c"),
				parentEdge("b", "c"),
			},
			root: []string{"a", "b"},
			next: []string{"c"},
		},
		{
			name:      "grandchild stays out of the next tier",
			personIDs: []string{"a", "b", "c"},
			edges: []entities.Relationship{
				parentEdge("a", "b"),
				parentEdge("b", "c"),
			},
			root: []string{"a"},
			next: []string{"b"},
		},
		{
			name:      "cycle leaves root empty",
			personIDs: []string{"a", "b"},
			edges: []entities.Relationship{
				parentEdge("a", "b"),
				parentEdge("b", "a"),
			},
		},
		{
			name: "empty tree",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tiers := InferGenerations(tt.personIDs, tt.edges)
			assert.Equal(t, tt.root, tiers.Root)
			assert.Equal(t, tt.next, tiers.Next)
		})
	}
}

func TestAllTiers(t *testing.T) {
	t.Run("three tiers", func(t *testing.T) {
		personIDs := []string{"a", "b", "c", "d"}
		edges := []entities.Relationship{
			parentEdge("a", "b"),
			parentEdge("a", "c"),
			parentEdge("c", "d"),
		}

		tiers := AllTiers(personIDs, edges)
		assert.Equal(t, [][]string{{"a"}, {"b", "c"}, {"d"}}, tiers)
	})

	t.Run("cycle below the roots terminates", func(t *testing.T) {
		// b and c are each other's parents; the visited set stops the walk
		personIDs := []string{"a", "b", "c"}
		edges := []entities.Relationship{
			parentEdge("a", "b"),
			parentEdge("b", "c"),
			parentEdge("c", "b"),
		}

		tiers := AllTiers(personIDs, edges)
		assert.Equal(t, [][]string{{"a"}, {"b"}, {"c"}}, tiers)
	})

	t.Run("no roots returns nil", func(t *testing.T) {
		personIDs := []string{"a", "b"}
		edges := []entities.Relationship{
			parentEdge("a", "b"),
			parentEdge("b", "a"),
		}

		assert.Nil(t, AllTiers(personIDs, edges))
	})
}
