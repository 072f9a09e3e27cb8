package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/emkern/kin-core/internal/domain/entities"
	"github.com/emkern/kin-core/internal/domain/ports"
)

// ErrNameRequired is returned when a person is added or edited without
// both a first and a last name.
var ErrNameRequired = errors.New("first and last name are required")

// PersonService manages person records. Deleting a person cascades to the
// relationship ledger so no edge can reference a removed person.
type PersonService struct {
	db     ports.RelationalDB
	ledger *Ledger
}

// NewPersonService creates a new PersonService.
func NewPersonService(db ports.RelationalDB, ledger *Ledger) *PersonService {
	return &PersonService{db: db, ledger: ledger}
}

// Add creates a new person in the tree. ID, normalized name and creation
// time are filled in here.
func (s *PersonService) Add(ctx context.Context, treeID string, person *entities.Person) (*entities.Person, error) {
	if person.FirstName == "" || person.LastName == "" {
		return nil, ErrNameRequired
	}

	person.ID = uuid.New().String()
	person.TreeID = treeID
	person.NormalizedName = entities.NormalizeName(person.FirstName, person.LastName)
	person.CreatedAt = time.Now()

	if err := s.db.SavePerson(ctx, person); err != nil {
		return nil, fmt.Errorf("saving person: %w", err)
	}
	return person, nil
}

// Update edits an existing person, keeping its ID and creation time.
func (s *PersonService) Update(ctx context.Context, treeID string, person *entities.Person) error {
	if person.FirstName == "" || person.LastName == "" {
		return ErrNameRequired
	}

	existing, err := s.db.FindPersonByID(ctx, treeID, person.ID)
	if err != nil {
		return fmt.Errorf("looking up person: %w", err)
	}
	if existing == nil {
		return fmt.Errorf("%w: %s", entities.ErrPersonNotFound, person.ID)
	}

	person.TreeID = treeID
	person.NormalizedName = entities.NormalizeName(person.FirstName, person.LastName)
	person.CreatedAt = existing.CreatedAt

	if err := s.db.SavePerson(ctx, person); err != nil {
		return fmt.Errorf("updating person: %w", err)
	}
	return nil
}

// Get finds a person by ID.
func (s *PersonService) Get(ctx context.Context, treeID, personID string) (*entities.Person, error) {
	person, err := s.db.FindPersonByID(ctx, treeID, personID)
	if err != nil {
		return nil, fmt.Errorf("looking up person: %w", err)
	}
	if person == nil {
		return nil, fmt.Errorf("%w: %s", entities.ErrPersonNotFound, personID)
	}
	return person, nil
}

// GetByName finds a person by full name, case-insensitive.
func (s *PersonService) GetByName(ctx context.Context, treeID, name string) (*entities.Person, error) {
	person, err := s.db.FindPersonByName(ctx, treeID, name)
	if err != nil {
		return nil, fmt.Errorf("looking up person: %w", err)
	}
	if person == nil {
		return nil, fmt.Errorf("%w: %s", entities.ErrPersonNotFound, name)
	}
	return person, nil
}

// List returns all persons in a tree, ordered by name.
func (s *PersonService) List(ctx context.Context, treeID string) ([]*entities.Person, error) {
	return s.db.ListPersons(ctx, treeID)
}

// Search finds persons whose name, birth place or occupation contains the
// query string.
func (s *PersonService) Search(ctx context.Context, treeID, query string, limit int) ([]*entities.Person, error) {
	return s.db.SearchPersons(ctx, treeID, query, limit)
}

// Delete removes a person and every relationship touching them. The
// relationship cascade runs first so no derived edge survives its primary.
func (s *PersonService) Delete(ctx context.Context, treeID, personID string) error {
	person, err := s.db.FindPersonByID(ctx, treeID, personID)
	if err != nil {
		return fmt.Errorf("looking up person: %w", err)
	}
	if person == nil {
		return fmt.Errorf("%w: %s", entities.ErrPersonNotFound, personID)
	}

	// Edges go before the person row: a failure between the two statements
	// can strand a relationship-less person, never an edge referencing a
	// deleted one.
	if err := s.ledger.DeleteAllForPerson(ctx, treeID, personID); err != nil {
		return err
	}
	if err := s.db.DeletePerson(ctx, treeID, personID); err != nil {
		return fmt.Errorf("deleting person: %w", err)
	}
	return nil
}

// Count returns the number of persons in a tree.
func (s *PersonService) Count(ctx context.Context, treeID string) (int, error) {
	return s.db.CountPersons(ctx, treeID)
}
