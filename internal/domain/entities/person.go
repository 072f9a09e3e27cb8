package entities

import (
	"strings"
	"time"
)

// DateLayout is the ISO date format used for birth and death dates.
const DateLayout = "2006-01-02"

// Person represents a family member within a single tree.
// Dates are stored as ISO strings; an empty string means unknown.
type Person struct {
	ID             string    `json:"id"`
	TreeID         string    `json:"tree_id"`
	FirstName      string    `json:"first_name"`
	LastName       string    `json:"last_name"`
	NormalizedName string    `json:"normalized_name"` // Lowercase full name for matching
	BirthDate      string    `json:"birth_date,omitempty"`
	DeathDate      string    `json:"death_date,omitempty"`
	BirthPlace     string    `json:"birth_place,omitempty"`
	Occupation     string    `json:"occupation,omitempty"`
	Notes          string    `json:"notes,omitempty"`
	PosX           float64   `json:"x_position,omitempty"`
	PosY           float64   `json:"y_position,omitempty"`
	CreatedAt      time.Time `json:"created_at"`
}

// FullName returns the display name "First Last".
func (p *Person) FullName() string {
	return strings.TrimSpace(p.FirstName + " " + p.LastName)
}

// Living reports whether the person has no recorded death date.
func (p *Person) Living() bool {
	return p.DeathDate == ""
}

// BirthYear parses the birth date and returns its year.
// The second return value is false when the date is missing or malformed.
func (p *Person) BirthYear() (int, bool) {
	if p.BirthDate == "" {
		return 0, false
	}
	t, err := time.Parse(DateLayout, p.BirthDate)
	if err != nil {
		return 0, false
	}
	return t.Year(), true
}

// NormalizeName converts a name to lowercase for case-insensitive matching.
func NormalizeName(first, last string) string {
	full := strings.TrimSpace(first) + " " + strings.TrimSpace(last)
	return strings.ToLower(strings.TrimSpace(full))
}
