package entities

import "time"

// RelationType defines the kind of relationship between two people.
type RelationType string

const (
	RelationSpouse      RelationType = "spouse"
	RelationParent      RelationType = "parent"
	RelationChild       RelationType = "child"
	RelationSibling     RelationType = "sibling"
	RelationGrandparent RelationType = "grandparent"
	RelationGrandchild  RelationType = "grandchild"
	RelationAuntUncle   RelationType = "aunt-uncle"
	RelationNieceNephew RelationType = "niece-nephew"
	RelationCousin      RelationType = "cousin"
	RelationInLaw       RelationType = "in-law"
	RelationOther       RelationType = "other"
)

// inverseTypes maps each relationship type to the type seen from the
// other person's side.
var inverseTypes = map[RelationType]RelationType{
	RelationSpouse:      RelationSpouse,
	RelationParent:      RelationChild,
	RelationChild:       RelationParent,
	RelationSibling:     RelationSibling,
	RelationGrandparent: RelationGrandchild,
	RelationGrandchild:  RelationGrandparent,
	RelationAuntUncle:   RelationNieceNephew,
	RelationNieceNephew: RelationAuntUncle,
	RelationCousin:      RelationCousin,
	RelationInLaw:       RelationInLaw,
	RelationOther:       RelationOther,
}

// symmetricMaterialized lists self-inverse types whose inverse edge is
// stored anyway, so both people see the relationship in listings.
var symmetricMaterialized = map[RelationType]bool{
	RelationSpouse:  true,
	RelationSibling: true,
	RelationCousin:  true,
}

// Inverse returns the relationship type as seen from the other side.
// Unknown types fall back to RelationOther.
func (t RelationType) Inverse() RelationType {
	if inv, ok := inverseTypes[t]; ok {
		return inv
	}
	return RelationOther
}

// MaterializedBothWays reports whether creating a relationship of this type
// also stores a derived inverse edge. True when the inverse differs, or for
// the symmetric types that are listed from both sides.
func (t RelationType) MaterializedBothWays() bool {
	return t != t.Inverse() || symmetricMaterialized[t]
}

// Role distinguishes the user-created edge of a pair from its
// auto-generated inverse.
type Role string

const (
	RolePrimary Role = "primary"
	RoleDerived Role = "derived"
)

// Relationship represents one directed edge of a relationship pair.
// A derived edge carries the ID of its primary counterpart in LinkedID.
type Relationship struct {
	ID           string       `json:"id"`
	TreeID       string       `json:"tree_id"`
	FromPersonID string       `json:"from_person_id"`
	ToPersonID   string       `json:"to_person_id"`
	Type         RelationType `json:"type"`
	Notes        string       `json:"notes,omitempty"`
	Role         Role         `json:"role"`
	LinkedID     string       `json:"linked_id,omitempty"`
	CreatedAt    time.Time    `json:"created_at"`
}

// IsPrimary reports whether this is the user-created edge of its pair.
func (r *Relationship) IsPrimary() bool {
	return r.Role == RolePrimary
}

// Pair is a primary relationship together with its materialized inverse.
// It is persisted and deleted as one atomic unit; Derived is nil for types
// that store only the primary edge.
type Pair struct {
	Primary Relationship
	Derived *Relationship
}
