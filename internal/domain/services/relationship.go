package services

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/emkern/kin-core/internal/domain/entities"
	"github.com/emkern/kin-core/internal/domain/ports"
)

// Ledger owns the relationship-pair invariants: every relationship is a
// primary edge plus (for most types) a derived inverse edge, created and
// deleted as one unit. At most one pair may connect any two people,
// regardless of type.
type Ledger struct {
	db ports.RelationalDB
}

// NewLedger creates a new Ledger.
func NewLedger(db ports.RelationalDB) *Ledger {
	return &Ledger{db: db}
}

// Add records that fromID is relType of toID. It validates both people
// exist, rejects self-relationships and duplicates, then stores the primary
// edge and its derived inverse (when the type is materialized both ways) in
// a single transaction. Returns the stored pair.
func (l *Ledger) Add(ctx context.Context, treeID, fromID, toID string, relType entities.RelationType, notes string) (*entities.Pair, error) {
	if fromID == toID {
		return nil, entities.ErrSelfRelationship
	}

	for _, id := range []string{fromID, toID} {
		person, err := l.db.FindPersonByID(ctx, treeID, id)
		if err != nil {
			return nil, fmt.Errorf("looking up person: %w", err)
		}
		if person == nil {
			return nil, fmt.Errorf("%w: %s", entities.ErrPersonNotFound, id)
		}
	}

	// Pair-level lock: any existing edge between the two people blocks a
	// second relationship claim, whatever its type.
	existing, err := l.db.FindRelationshipBetween(ctx, treeID, fromID, toID)
	if err != nil {
		return nil, fmt.Errorf("checking existing relationship: %w", err)
	}
	if existing != nil {
		return nil, fmt.Errorf("%w (id: %s)", entities.ErrDuplicateRelationship, existing.ID)
	}

	now := time.Now()
	pair := &entities.Pair{
		Primary: entities.Relationship{
			ID:           uuid.New().String(),
			TreeID:       treeID,
			FromPersonID: fromID,
			ToPersonID:   toID,
			Type:         relType,
			Notes:        notes,
			Role:         entities.RolePrimary,
			CreatedAt:    now,
		},
	}

	if relType.MaterializedBothWays() {
		pair.Derived = &entities.Relationship{
			ID:           uuid.New().String(),
			TreeID:       treeID,
			FromPersonID: toID,
			ToPersonID:   fromID,
			Type:         relType.Inverse(),
			Notes:        notes,
			Role:         entities.RoleDerived,
			LinkedID:     pair.Primary.ID,
			CreatedAt:    now,
		}
	}

	if err := l.db.SavePair(ctx, pair); err != nil {
		return nil, fmt.Errorf("saving relationship pair: %w", err)
	}

	return pair, nil
}

// Delete removes the pair containing the given edge, whichever member is
// addressed. Both edges go in a single transaction; neither may outlive
// the other.
func (l *Ledger) Delete(ctx context.Context, treeID, edgeID string) error {
	edge, err := l.db.FindRelationshipByID(ctx, treeID, edgeID)
	if err != nil {
		return fmt.Errorf("looking up relationship: %w", err)
	}
	if edge == nil {
		return fmt.Errorf("%w: %s", entities.ErrRelationshipNotFound, edgeID)
	}

	ids := []string{edge.ID}
	if edge.IsPrimary() {
		derived, err := l.db.FindRelationshipByLinkedID(ctx, treeID, edge.ID)
		if err != nil {
			return fmt.Errorf("looking up derived edge: %w", err)
		}
		if derived != nil {
			ids = append(ids, derived.ID)
		}
	} else if edge.LinkedID != "" {
		ids = append(ids, edge.LinkedID)
	}

	if err := l.db.DeleteRelationships(ctx, treeID, ids); err != nil {
		return fmt.Errorf("deleting relationship pair: %w", err)
	}
	return nil
}

// DeleteAllForPerson removes every edge touching the person. Both members
// of a pair always touch the same two people, so pair atomicity holds.
func (l *Ledger) DeleteAllForPerson(ctx context.Context, treeID, personID string) error {
	if err := l.db.DeleteRelationshipsByPerson(ctx, treeID, personID); err != nil {
		return fmt.Errorf("deleting relationships for person: %w", err)
	}
	return nil
}

// PrimaryEdges returns the canonical non-duplicated view: only the
// user-created edge of each pair, in creation order.
func (l *Ledger) PrimaryEdges(ctx context.Context, treeID string) ([]entities.Relationship, error) {
	return l.db.ListRelationshipsByRole(ctx, treeID, entities.RolePrimary)
}

// ListForPerson returns every edge touching a person, both roles, so a
// listing can show "A is parent of B" and "B is child of A" alike.
func (l *Ledger) ListForPerson(ctx context.Context, treeID, personID string) ([]entities.Relationship, error) {
	return l.db.ListRelationshipsByPerson(ctx, treeID, personID)
}

// Find returns the edge with the given ID, or ErrRelationshipNotFound.
func (l *Ledger) Find(ctx context.Context, treeID, edgeID string) (*entities.Relationship, error) {
	edge, err := l.db.FindRelationshipByID(ctx, treeID, edgeID)
	if err != nil {
		return nil, fmt.Errorf("looking up relationship: %w", err)
	}
	if edge == nil {
		return nil, fmt.Errorf("%w: %s", entities.ErrRelationshipNotFound, edgeID)
	}
	return edge, nil
}

// InverseLabel returns the relationship type seen from the other side of
// the edge, without a second storage lookup.
func (l *Ledger) InverseLabel(edge *entities.Relationship) entities.RelationType {
	return edge.Type.Inverse()
}

// Count returns the number of relationship pairs (primary edges) in a tree.
func (l *Ledger) Count(ctx context.Context, treeID string) (int, error) {
	return l.db.CountRelationshipsByRole(ctx, treeID, entities.RolePrimary)
}
