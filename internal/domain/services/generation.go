package services

import "github.com/emkern/kin-core/internal/domain/entities"

// Tiers holds the two inferred generations: people with no recorded parent
// and their direct children. Root membership is a heuristic — a person with
// unrecorded parents is indistinguishable from a true root.
type Tiers struct {
	Root []string
	Next []string
}

// InferGenerations derives generation tiers from the primary parent edges.
// An edge (from, to) reads "from is parent of to". Only primary edges of
// type parent should be passed in; the function itself is pure.
func InferGenerations(personIDs []string, parentEdges []entities.Relationship) Tiers {
	children := make(map[string]bool, len(parentEdges))
	for i := range parentEdges {
		children[parentEdges[i].ToPersonID] = true
	}

	rootSet := make(map[string]bool, len(personIDs))
	var root []string
	for _, id := range personIDs {
		if !children[id] {
			root = append(root, id)
			rootSet[id] = true
		}
	}

	var next []string
	seen := make(map[string]bool)
	for i := range parentEdges {
		e := &parentEdges[i]
		if rootSet[e.FromPersonID] && !seen[e.ToPersonID] {
			next = append(next, e.ToPersonID)
			seen[e.ToPersonID] = true
		}
	}

	return Tiers{Root: root, Next: next}
}

// AllTiers generalizes InferGenerations into repeated frontier expansion:
// tier 0 is the root set, tier n+1 the children of tier n not yet placed.
// The visited set guarantees termination on cyclic or contradictory parent
// data. People unreachable from the root set (every ancestor inside a
// cycle) appear in no tier.
func AllTiers(personIDs []string, parentEdges []entities.Relationship) [][]string {
	first := InferGenerations(personIDs, parentEdges)
	if len(first.Root) == 0 {
		return nil
	}

	visited := make(map[string]bool, len(personIDs))
	for _, id := range first.Root {
		visited[id] = true
	}

	tiers := [][]string{first.Root}
	frontier := first.Root

	for len(frontier) > 0 {
		inFrontier := make(map[string]bool, len(frontier))
		for _, id := range frontier {
			inFrontier[id] = true
		}

		var nextTier []string
		for i := range parentEdges {
			e := &parentEdges[i]
			if inFrontier[e.FromPersonID] && !visited[e.ToPersonID] {
				nextTier = append(nextTier, e.ToPersonID)
				visited[e.ToPersonID] = true
			}
		}
		if len(nextTier) == 0 {
			break
		}
		tiers = append(tiers, nextTier)
		frontier = nextTier
	}

	return tiers
}
