package handlers

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/emkern/kin-core/internal/domain/entities"
	"github.com/emkern/kin-core/internal/domain/services"
	"github.com/emkern/kin-core/internal/infrastructure/parsers"
)

// ImportHandler imports person records parsed from external files.
type ImportHandler struct {
	persons *services.PersonService
}

// NewImportHandler creates a new ImportHandler.
func NewImportHandler(persons *services.PersonService) *ImportHandler {
	return &ImportHandler{persons: persons}
}

// HandleImportPersons validates and stores parsed person records. Rows
// that fail validation are reported in the result; a name collision with
// an existing person skips the row unless overwrite is requested.
func (h *ImportHandler) HandleImportPersons(ctx context.Context, treeID string, raw []parsers.RawPerson, opts services.ImportOptions) (*services.ImportResult, error) {
	result := &services.ImportResult{}

	for i := range raw {
		record := &raw[i]
		line := record.LineNum
		if line == 0 {
			line = i + 1
		}

		if err := validateRaw(record, line, result); err != nil {
			continue
		}

		if opts.DryRun {
			result.PersonsImported++
			continue
		}

		name := record.FirstName + " " + record.LastName
		existing, err := h.persons.GetByName(ctx, treeID, name)
		if err != nil && !errors.Is(err, entities.ErrPersonNotFound) {
			return nil, err
		}

		person := &entities.Person{
			FirstName:  record.FirstName,
			LastName:   record.LastName,
			BirthDate:  record.BirthDate,
			DeathDate:  record.DeathDate,
			BirthPlace: record.BirthPlace,
			Occupation: record.Occupation,
			Notes:      record.Notes,
		}

		if existing != nil {
			if opts.OnConflict != services.ConflictOverwrite {
				result.Skipped++
				continue
			}
			person.ID = existing.ID
			if err := h.persons.Update(ctx, treeID, person); err != nil {
				return nil, err
			}
		} else {
			if _, err := h.persons.Add(ctx, treeID, person); err != nil {
				return nil, err
			}
		}
		result.PersonsImported++
	}

	return result, nil
}

// validateRaw checks one parsed record, appending errors to the result.
func validateRaw(record *parsers.RawPerson, line int, result *services.ImportResult) error {
	fail := func(field, msg string) error {
		err := services.ImportError{
			Record:  fmt.Sprintf("line %d", line),
			Field:   field,
			Message: msg,
		}
		result.Errors = append(result.Errors, err)
		return err
	}

	if record.FirstName == "" {
		return fail("first_name", "first name is required")
	}
	if record.LastName == "" {
		return fail("last_name", "last name is required")
	}
	for _, d := range []struct{ field, value string }{
		{"birth_date", record.BirthDate},
		{"death_date", record.DeathDate},
	} {
		if d.value == "" {
			continue
		}
		if _, err := time.Parse(entities.DateLayout, d.value); err != nil {
			return fail(d.field, fmt.Sprintf("invalid date %q (expected YYYY-MM-DD)", d.value))
		}
	}
	return nil
}
