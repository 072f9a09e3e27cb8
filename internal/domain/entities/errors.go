package entities

import "errors"

// Domain errors surfaced by the ledger and person service. All are
// recoverable at the CLI boundary; callers match them with errors.Is.
var (
	// ErrSelfRelationship is returned when both sides of a relationship
	// are the same person. Rejected before any storage call.
	ErrSelfRelationship = errors.New("cannot relate a person to themselves")

	// ErrDuplicateRelationship is returned when any relationship already
	// connects the two people, in either direction and regardless of type.
	ErrDuplicateRelationship = errors.New("relationship already exists between these people")

	// ErrRelationshipNotFound is returned for a stale or unknown edge ID.
	ErrRelationshipNotFound = errors.New("relationship not found")

	// ErrPersonNotFound is returned when a person ID or name does not
	// resolve within the tree.
	ErrPersonNotFound = errors.New("person not found")
)
