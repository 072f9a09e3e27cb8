package handlers

import (
	"context"
	"fmt"
	"time"

	"github.com/emkern/kin-core/internal/domain/entities"
	"github.com/emkern/kin-core/internal/domain/services"
)

// PersonInput carries the user-editable fields of a person record.
type PersonInput struct {
	FirstName  string
	LastName   string
	BirthDate  string
	DeathDate  string
	BirthPlace string
	Occupation string
	Notes      string
}

// PersonHandler validates person input before calling the service.
type PersonHandler struct {
	service *services.PersonService
}

// NewPersonHandler creates a new PersonHandler.
func NewPersonHandler(service *services.PersonService) *PersonHandler {
	return &PersonHandler{service: service}
}

// HandleAdd creates a new person from validated input.
func (h *PersonHandler) HandleAdd(ctx context.Context, treeID string, input PersonInput) (*entities.Person, error) {
	if err := validateInput(&input); err != nil {
		return nil, err
	}
	return h.service.Add(ctx, treeID, personFromInput(input))
}

// HandleEdit updates the named person with the given input. Empty input
// fields keep their current value; names always come from the input.
func (h *PersonHandler) HandleEdit(ctx context.Context, treeID, name string, input PersonInput) (*entities.Person, error) {
	existing, err := h.service.GetByName(ctx, treeID, name)
	if err != nil {
		return nil, err
	}

	if input.FirstName == "" {
		input.FirstName = existing.FirstName
	}
	if input.LastName == "" {
		input.LastName = existing.LastName
	}
	if err := validateInput(&input); err != nil {
		return nil, err
	}

	updated := personFromInput(input)
	updated.ID = existing.ID
	updated.PosX = existing.PosX
	updated.PosY = existing.PosY
	if updated.BirthDate == "" {
		updated.BirthDate = existing.BirthDate
	}
	if updated.DeathDate == "" {
		updated.DeathDate = existing.DeathDate
	}
	if updated.BirthPlace == "" {
		updated.BirthPlace = existing.BirthPlace
	}
	if updated.Occupation == "" {
		updated.Occupation = existing.Occupation
	}
	if updated.Notes == "" {
		updated.Notes = existing.Notes
	}

	if err := h.service.Update(ctx, treeID, updated); err != nil {
		return nil, err
	}
	return updated, nil
}

// HandleDelete removes the named person and cascades to their relationships.
func (h *PersonHandler) HandleDelete(ctx context.Context, treeID, name string) error {
	person, err := h.service.GetByName(ctx, treeID, name)
	if err != nil {
		return err
	}
	return h.service.Delete(ctx, treeID, person.ID)
}

// HandleShow finds a person by full name.
func (h *PersonHandler) HandleShow(ctx context.Context, treeID, name string) (*entities.Person, error) {
	return h.service.GetByName(ctx, treeID, name)
}

// HandleList returns all persons in the tree.
func (h *PersonHandler) HandleList(ctx context.Context, treeID string) ([]*entities.Person, error) {
	return h.service.List(ctx, treeID)
}

// HandleSearch finds persons matching the query.
func (h *PersonHandler) HandleSearch(ctx context.Context, treeID, query string, limit int) ([]*entities.Person, error) {
	return h.service.Search(ctx, treeID, query, limit)
}

func personFromInput(input PersonInput) *entities.Person {
	return &entities.Person{
		FirstName:  input.FirstName,
		LastName:   input.LastName,
		BirthDate:  input.BirthDate,
		DeathDate:  input.DeathDate,
		BirthPlace: input.BirthPlace,
		Occupation: input.Occupation,
		Notes:      input.Notes,
	}
}

func validateInput(input *PersonInput) error {
	if input.FirstName == "" || input.LastName == "" {
		return services.ErrNameRequired
	}
	if err := validateDate("birth date", input.BirthDate); err != nil {
		return err
	}
	return validateDate("death date", input.DeathDate)
}

func validateDate(field, value string) error {
	if value == "" {
		return nil
	}
	if _, err := time.Parse(entities.DateLayout, value); err != nil {
		return fmt.Errorf("invalid %s %q (expected YYYY-MM-DD)", field, value)
	}
	return nil
}
