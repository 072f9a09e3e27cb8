package ports

import (
	"context"

	"github.com/emkern/kin-core/internal/domain/entities"
)

// RelationalDB defines the interface for the relational store backing
// person records and relationship edges. Multi-row operations (SavePair,
// DeleteRelationships) must be atomic: either every row is visible or none
// is, even across process restart.
type RelationalDB interface {
	// EnsureSchema creates the database schema if it doesn't exist.
	EnsureSchema(ctx context.Context) error

	// Close closes the database connection.
	Close() error

	// Person operations

	// SavePerson inserts a person, or updates the record when the ID
	// already exists.
	SavePerson(ctx context.Context, person *entities.Person) error

	// FindPersonByID finds a person by ID within a tree.
	// Returns nil when no such person exists.
	FindPersonByID(ctx context.Context, treeID, personID string) (*entities.Person, error)

	// FindPersonByName finds a person by normalized full name (case-insensitive).
	// Returns nil when no such person exists.
	FindPersonByName(ctx context.Context, treeID, name string) (*entities.Person, error)

	// ListPersons lists all persons in a tree, ordered by name.
	ListPersons(ctx context.Context, treeID string) ([]*entities.Person, error)

	// SearchPersons searches persons by substring over name, birth place
	// and occupation.
	SearchPersons(ctx context.Context, treeID, query string, limit int) ([]*entities.Person, error)

	// DeletePerson deletes a person by ID. The caller is responsible for
	// removing the person's relationships first.
	DeletePerson(ctx context.Context, treeID, personID string) error

	// CountPersons returns the number of persons in a tree.
	CountPersons(ctx context.Context, treeID string) (int, error)

	// Relationship operations

	// SavePair inserts the primary edge and, when present, the derived
	// edge of a pair in a single transaction.
	SavePair(ctx context.Context, pair *entities.Pair) error

	// FindRelationshipByID finds an edge by ID within a tree.
	// Returns nil when no such edge exists.
	FindRelationshipByID(ctx context.Context, treeID, edgeID string) (*entities.Relationship, error)

	// FindRelationshipByLinkedID finds the derived edge whose LinkedID
	// references the given primary edge. Returns nil when none exists.
	FindRelationshipByLinkedID(ctx context.Context, treeID, primaryID string) (*entities.Relationship, error)

	// FindRelationshipBetween finds any edge connecting the two people,
	// in either direction. Returns nil when none exists.
	FindRelationshipBetween(ctx context.Context, treeID, personA, personB string) (*entities.Relationship, error)

	// ListRelationships lists every edge in a tree (both roles), in
	// creation order.
	ListRelationships(ctx context.Context, treeID string) ([]entities.Relationship, error)

	// ListRelationshipsByRole lists edges of one role, in creation order.
	ListRelationshipsByRole(ctx context.Context, treeID string, role entities.Role) ([]entities.Relationship, error)

	// ListRelationshipsByPerson lists every edge touching a person
	// (as source or target), in creation order.
	ListRelationshipsByPerson(ctx context.Context, treeID, personID string) ([]entities.Relationship, error)

	// DeleteRelationships deletes the given edges as one atomic unit.
	DeleteRelationships(ctx context.Context, treeID string, edgeIDs []string) error

	// DeleteRelationshipsByPerson deletes every edge touching a person.
	DeleteRelationshipsByPerson(ctx context.Context, treeID, personID string) error

	// CountRelationshipsByRole counts edges of one role in a tree.
	CountRelationshipsByRole(ctx context.Context, treeID string, role entities.Role) (int, error)
}
