package services

import (
	"context"
	"fmt"
	"time"

	"github.com/emkern/kin-core/internal/domain/entities"
	"github.com/emkern/kin-core/internal/domain/ports"
)

// ConflictStrategy defines how to handle records that already exist
// during import.
type ConflictStrategy string

const (
	// ConflictSkip skips records whose ID already exists.
	ConflictSkip ConflictStrategy = "skip"
	// ConflictOverwrite overwrites existing records with imported data.
	ConflictOverwrite ConflictStrategy = "overwrite"
)

// ImportOptions controls import behavior.
type ImportOptions struct {
	DryRun     bool             // Validate without saving
	OnConflict ConflictStrategy // How to handle existing records
}

// ImportError describes one record rejected during import.
type ImportError struct {
	Record  string // Which record (person name, edge id)
	Field   string // Which field has the error
	Message string // Human-readable error message
}

func (e ImportError) Error() string {
	if e.Record != "" {
		return fmt.Sprintf("%s: %s", e.Record, e.Message)
	}
	return e.Message
}

// ImportResult summarizes an import run.
type ImportResult struct {
	PersonsImported       int
	RelationshipsImported int
	Skipped               int
	Errors                []ImportError
}

// Snapshot is the lossless serialized form of one tree: the person set and
// the full edge set including role and pair linkage, so a re-import
// reconstructs identical invariants.
type Snapshot struct {
	Tree          string                  `json:"tree"`
	ExportedAt    time.Time               `json:"exported_at"`
	Persons       []entities.Person       `json:"persons"`
	Relationships []entities.Relationship `json:"relationships"`
}

// SnapshotService exports and imports whole trees.
type SnapshotService struct {
	db ports.RelationalDB
}

// NewSnapshotService creates a new SnapshotService.
func NewSnapshotService(db ports.RelationalDB) *SnapshotService {
	return &SnapshotService{db: db}
}

// Export captures the full state of a tree.
func (s *SnapshotService) Export(ctx context.Context, treeID string) (*Snapshot, error) {
	persons, err := s.db.ListPersons(ctx, treeID)
	if err != nil {
		return nil, fmt.Errorf("listing persons: %w", err)
	}

	relationships, err := s.db.ListRelationships(ctx, treeID)
	if err != nil {
		return nil, fmt.Errorf("listing relationships: %w", err)
	}

	snap := &Snapshot{
		Tree:          treeID,
		ExportedAt:    time.Now(),
		Persons:       make([]entities.Person, 0, len(persons)),
		Relationships: relationships,
	}
	for _, p := range persons {
		snap.Persons = append(snap.Persons, *p)
	}
	return snap, nil
}

// Import restores a snapshot into the given tree. Persons go in first,
// then relationships are regrouped into pairs and saved atomically, so the
// pair invariants hold in the imported tree exactly as they did in the
// exported one. Malformed edges (orphaned derived, unknown person, second
// pair for the same two people) are reported and skipped rather than
// aborting the run.
func (s *SnapshotService) Import(ctx context.Context, treeID string, snap *Snapshot, opts ImportOptions) (*ImportResult, error) {
	result := &ImportResult{}

	pairs, pairErrors := s.rebuildPairs(snap)
	result.Errors = append(result.Errors, pairErrors...)

	if opts.DryRun {
		result.PersonsImported = len(snap.Persons)
		result.RelationshipsImported = len(pairs)
		return result, nil
	}

	imported := make(map[string]bool, len(snap.Persons))
	for i := range snap.Persons {
		person := snap.Persons[i]
		person.TreeID = treeID

		existing, err := s.db.FindPersonByID(ctx, treeID, person.ID)
		if err != nil {
			return nil, fmt.Errorf("checking person: %w", err)
		}
		if existing != nil && opts.OnConflict != ConflictOverwrite {
			result.Skipped++
			imported[person.ID] = true
			continue
		}

		if err := s.db.SavePerson(ctx, &person); err != nil {
			return nil, fmt.Errorf("saving person: %w", err)
		}
		imported[person.ID] = true
		result.PersonsImported++
	}

	for i := range pairs {
		pair := pairs[i]
		if !imported[pair.Primary.FromPersonID] || !imported[pair.Primary.ToPersonID] {
			result.Errors = append(result.Errors, ImportError{
				Record:  pair.Primary.ID,
				Field:   "from_person_id",
				Message: "edge references a person missing from the snapshot",
			})
			continue
		}

		existing, err := s.db.FindRelationshipBetween(ctx, treeID, pair.Primary.FromPersonID, pair.Primary.ToPersonID)
		if err != nil {
			return nil, fmt.Errorf("checking existing relationship: %w", err)
		}
		if existing != nil {
			result.Skipped++
			continue
		}

		pair.Primary.TreeID = treeID
		if pair.Derived != nil {
			pair.Derived.TreeID = treeID
		}
		if err := s.db.SavePair(ctx, &pair); err != nil {
			return nil, fmt.Errorf("saving relationship pair: %w", err)
		}
		result.RelationshipsImported++
	}

	return result, nil
}

// rebuildPairs regroups a flat edge list into pairs by pair linkage.
// Derived edges without a matching primary, and primaries claimed by more
// than one derived edge, are reported as errors.
func (s *SnapshotService) rebuildPairs(snap *Snapshot) ([]entities.Pair, []ImportError) {
	var errs []ImportError

	primaries := make(map[string]*entities.Relationship)
	order := make([]string, 0, len(snap.Relationships))
	for i := range snap.Relationships {
		edge := &snap.Relationships[i]
		if edge.IsPrimary() {
			primaries[edge.ID] = edge
			order = append(order, edge.ID)
		}
	}

	derivedFor := make(map[string]*entities.Relationship)
	for i := range snap.Relationships {
		edge := &snap.Relationships[i]
		if edge.IsPrimary() {
			continue
		}
		if _, ok := primaries[edge.LinkedID]; !ok {
			errs = append(errs, ImportError{
				Record:  edge.ID,
				Field:   "linked_id",
				Message: "derived edge has no matching primary",
			})
			continue
		}
		if _, dup := derivedFor[edge.LinkedID]; dup {
			errs = append(errs, ImportError{
				Record:  edge.ID,
				Field:   "linked_id",
				Message: "primary edge already has a derived counterpart",
			})
			continue
		}
		derivedFor[edge.LinkedID] = edge
	}

	pairs := make([]entities.Pair, 0, len(order))
	for _, id := range order {
		pair := entities.Pair{Primary: *primaries[id]}
		if derived, ok := derivedFor[id]; ok {
			d := *derived
			pair.Derived = &d
		}
		pairs = append(pairs, pair)
	}

	return pairs, errs
}
