// Package parsers provides parsers for importing person records from
// external files.
package parsers

import (
	"io"
	"path/filepath"
	"strings"
)

// RawPerson represents a person record parsed from an external source
// before validation.
type RawPerson struct {
	FirstName  string `json:"first_name"`
	LastName   string `json:"last_name"`
	BirthDate  string `json:"birth_date,omitempty"`
	DeathDate  string `json:"death_date,omitempty"`
	BirthPlace string `json:"birth_place,omitempty"`
	Occupation string `json:"occupation,omitempty"`
	Notes      string `json:"notes,omitempty"`
	LineNum    int    `json:"-"` // Line number in source file (set by parser)
}

// Parser defines the interface for parsing person records.
type Parser interface {
	Parse(r io.Reader) ([]RawPerson, error)
}

// ForFormat returns the appropriate parser for the given format.
// Supported formats: "json", "csv".
func ForFormat(format string) Parser {
	switch strings.ToLower(format) {
	case "json":
		return &JSONParser{}
	case "csv":
		return &CSVParser{}
	default:
		return nil
	}
}

// ForFile returns the appropriate parser based on file extension.
func ForFile(filename string) Parser {
	ext := strings.ToLower(filepath.Ext(filename))
	switch ext {
	case ".json":
		return &JSONParser{}
	case ".csv":
		return &CSVParser{}
	default:
		return nil
	}
}
