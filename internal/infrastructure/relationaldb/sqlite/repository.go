// Package sqlite provides a SQLite implementation of the RelationalDB interface.
package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/emkern/kin-core/internal/domain/entities"
	"github.com/emkern/kin-core/internal/infrastructure/config"
	_ "modernc.org/sqlite" // Pure Go SQLite driver
)

// Repository implements ports.RelationalDB using SQLite.
type Repository struct {
	db   *sql.DB
	path string
}

// NewRepository creates a new SQLite repository.
func NewRepository(cfg config.SQLiteConfig) (*Repository, error) {
	if cfg.Path == "" {
		return nil, errors.New("sqlite path is required")
	}

	db, err := sql.Open("sqlite", cfg.Path)
	if err != nil {
		return nil, fmt.Errorf("opening sqlite database: %w", err)
	}

	// Enable foreign keys for referential integrity
	if _, err := db.Exec("PRAGMA foreign_keys = ON"); err != nil {
		db.Close()
		return nil, fmt.Errorf("enabling foreign keys: %w", err)
	}

	// Enable WAL mode for better concurrent read/write performance
	if _, err := db.Exec("PRAGMA journal_mode = WAL"); err != nil {
		db.Close()
		return nil, fmt.Errorf("enabling WAL mode: %w", err)
	}

	// Set busy timeout to avoid "database is locked" errors
	if _, err := db.Exec("PRAGMA busy_timeout = 5000"); err != nil {
		db.Close()
		return nil, fmt.Errorf("setting busy timeout: %w", err)
	}

	return &Repository{
		db:   db,
		path: cfg.Path,
	}, nil
}

// Close closes the database connection.
func (r *Repository) Close() error {
	return r.db.Close()
}

// Path returns the database file path.
func (r *Repository) Path() string {
	return r.path
}

// EnsureSchema creates the database schema if it doesn't exist.
func (r *Repository) EnsureSchema(ctx context.Context) error {
	schema := `
	-- Persons (family members)
	CREATE TABLE IF NOT EXISTS persons (
		id TEXT PRIMARY KEY,
		tree_id TEXT NOT NULL,
		first_name TEXT NOT NULL,
		last_name TEXT NOT NULL,
		normalized_name TEXT NOT NULL,
		birth_date TEXT,
		death_date TEXT,
		birth_place TEXT,
		occupation TEXT,
		notes TEXT,
		x_position REAL NOT NULL DEFAULT 0,
		y_position REAL NOT NULL DEFAULT 0,
		created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP,
		UNIQUE(tree_id, normalized_name)
	);
	CREATE INDEX IF NOT EXISTS idx_persons_tree ON persons(tree_id);
	CREATE INDEX IF NOT EXISTS idx_persons_normalized ON persons(tree_id, normalized_name);

	-- Relationship edges (each pair stores a primary edge and, for most
	-- types, a derived inverse edge pointing back via linked_id)
	CREATE TABLE IF NOT EXISTS relationships (
		id TEXT PRIMARY KEY,
		tree_id TEXT NOT NULL,
		from_person_id TEXT NOT NULL,
		to_person_id TEXT NOT NULL,
		type TEXT NOT NULL,
		notes TEXT,
		role TEXT NOT NULL DEFAULT 'primary',
		linked_id TEXT,
		created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP
	);
	CREATE INDEX IF NOT EXISTS idx_relationships_tree ON relationships(tree_id);
	CREATE INDEX IF NOT EXISTS idx_relationships_from ON relationships(tree_id, from_person_id);
	CREATE INDEX IF NOT EXISTS idx_relationships_to ON relationships(tree_id, to_person_id);
	CREATE INDEX IF NOT EXISTS idx_relationships_role ON relationships(tree_id, role);
	CREATE INDEX IF NOT EXISTS idx_relationships_linked ON relationships(tree_id, linked_id);
	`

	_, err := r.db.ExecContext(ctx, schema)
	if err != nil {
		return fmt.Errorf("creating schema: %w", err)
	}
	return nil
}

const personSelect = `
	SELECT id, tree_id, first_name, last_name, normalized_name,
		birth_date, death_date, birth_place, occupation, notes,
		x_position, y_position, created_at
	FROM persons
`

const relationshipSelect = `
	SELECT id, tree_id, from_person_id, to_person_id, type, notes, role, linked_id, created_at
	FROM relationships
`

// SavePerson saves or updates a person.
func (r *Repository) SavePerson(ctx context.Context, person *entities.Person) error {
	query := `
		INSERT INTO persons (id, tree_id, first_name, last_name, normalized_name,
			birth_date, death_date, birth_place, occupation, notes,
			x_position, y_position, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			first_name = excluded.first_name,
			last_name = excluded.last_name,
			normalized_name = excluded.normalized_name,
			birth_date = excluded.birth_date,
			death_date = excluded.death_date,
			birth_place = excluded.birth_place,
			occupation = excluded.occupation,
			notes = excluded.notes,
			x_position = excluded.x_position,
			y_position = excluded.y_position
	`
	_, err := r.db.ExecContext(ctx, query,
		person.ID,
		person.TreeID,
		person.FirstName,
		person.LastName,
		person.NormalizedName,
		nullable(person.BirthDate),
		nullable(person.DeathDate),
		nullable(person.BirthPlace),
		nullable(person.Occupation),
		nullable(person.Notes),
		person.PosX,
		person.PosY,
		person.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("saving person: %w", err)
	}
	return nil
}

// FindPersonByID finds a person by ID within a tree.
func (r *Repository) FindPersonByID(ctx context.Context, treeID, personID string) (*entities.Person, error) {
	query := personSelect + ` WHERE tree_id = ? AND id = ?`
	return r.scanPersonRow(r.db.QueryRowContext(ctx, query, treeID, personID))
}

// FindPersonByName finds a person by normalized full name (case-insensitive).
func (r *Repository) FindPersonByName(ctx context.Context, treeID, name string) (*entities.Person, error) {
	normalized := strings.ToLower(strings.TrimSpace(name))
	query := personSelect + ` WHERE tree_id = ? AND normalized_name = ?`
	return r.scanPersonRow(r.db.QueryRowContext(ctx, query, treeID, normalized))
}

// ListPersons lists all persons in a tree, ordered by name.
func (r *Repository) ListPersons(ctx context.Context, treeID string) ([]*entities.Person, error) {
	query := personSelect + `
		WHERE tree_id = ?
		ORDER BY normalized_name ASC
	`
	return r.queryPersons(ctx, query, treeID)
}

// SearchPersons searches persons by substring over name, birth place and
// occupation.
func (r *Repository) SearchPersons(ctx context.Context, treeID, query string, limit int) ([]*entities.Person, error) {
	pattern := "%" + strings.ToLower(strings.TrimSpace(query)) + "%"
	sqlQuery := personSelect + `
		WHERE tree_id = ?
		  AND (normalized_name LIKE ?
		   OR LOWER(COALESCE(birth_place, '')) LIKE ?
		   OR LOWER(COALESCE(occupation, '')) LIKE ?)
		ORDER BY normalized_name ASC
		LIMIT ?
	`
	return r.queryPersons(ctx, sqlQuery, treeID, pattern, pattern, pattern, limit)
}

// DeletePerson deletes a person by ID.
func (r *Repository) DeletePerson(ctx context.Context, treeID, personID string) error {
	query := `DELETE FROM persons WHERE tree_id = ? AND id = ?`
	result, err := r.db.ExecContext(ctx, query, treeID, personID)
	if err != nil {
		return fmt.Errorf("deleting person: %w", err)
	}
	rows, _ := result.RowsAffected()
	if rows == 0 {
		return fmt.Errorf("person not found: %s", personID)
	}
	return nil
}

// CountPersons returns the number of persons in a tree.
func (r *Repository) CountPersons(ctx context.Context, treeID string) (int, error) {
	query := `SELECT COUNT(*) FROM persons WHERE tree_id = ?`
	var count int
	err := r.db.QueryRowContext(ctx, query, treeID).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("counting persons: %w", err)
	}
	return count, nil
}

// SavePair inserts the primary edge and, when present, the derived edge in
// a single transaction. A pair is never half-visible.
func (r *Repository) SavePair(ctx context.Context, pair *entities.Pair) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback()

	if err := insertRelationship(ctx, tx, &pair.Primary); err != nil {
		return err
	}
	if pair.Derived != nil {
		if err := insertRelationship(ctx, tx, pair.Derived); err != nil {
			return err
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("committing pair: %w", err)
	}
	return nil
}

// insertRelationship inserts one edge within a transaction.
func insertRelationship(ctx context.Context, tx *sql.Tx, rel *entities.Relationship) error {
	query := `
		INSERT INTO relationships (id, tree_id, from_person_id, to_person_id,
			type, notes, role, linked_id, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
	`
	_, err := tx.ExecContext(ctx, query,
		rel.ID,
		rel.TreeID,
		rel.FromPersonID,
		rel.ToPersonID,
		string(rel.Type),
		nullable(rel.Notes),
		string(rel.Role),
		nullable(rel.LinkedID),
		rel.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("inserting relationship: %w", err)
	}
	return nil
}

// FindRelationshipByID finds an edge by ID within a tree.
func (r *Repository) FindRelationshipByID(ctx context.Context, treeID, edgeID string) (*entities.Relationship, error) {
	query := relationshipSelect + ` WHERE tree_id = ? AND id = ?`
	return r.scanRelationshipRow(r.db.QueryRowContext(ctx, query, treeID, edgeID))
}

// FindRelationshipByLinkedID finds the derived edge whose linked_id
// references the given primary edge.
func (r *Repository) FindRelationshipByLinkedID(ctx context.Context, treeID, primaryID string) (*entities.Relationship, error) {
	query := relationshipSelect + ` WHERE tree_id = ? AND linked_id = ? AND role = ?`
	return r.scanRelationshipRow(r.db.QueryRowContext(ctx, query, treeID, primaryID, string(entities.RoleDerived)))
}

// FindRelationshipBetween finds any edge connecting the two people, in
// either direction.
func (r *Repository) FindRelationshipBetween(ctx context.Context, treeID, personA, personB string) (*entities.Relationship, error) {
	query := relationshipSelect + `
		WHERE tree_id = ?
		  AND ((from_person_id = ? AND to_person_id = ?)
		   OR (from_person_id = ? AND to_person_id = ?))
		LIMIT 1
	`
	return r.scanRelationshipRow(r.db.QueryRowContext(ctx, query, treeID, personA, personB, personB, personA))
}

// ListRelationships lists every edge in a tree, in creation order.
func (r *Repository) ListRelationships(ctx context.Context, treeID string) ([]entities.Relationship, error) {
	query := relationshipSelect + `
		WHERE tree_id = ?
		ORDER BY created_at ASC, rowid ASC
	`
	return r.queryRelationships(ctx, query, treeID)
}

// ListRelationshipsByRole lists edges of one role, in creation order.
func (r *Repository) ListRelationshipsByRole(ctx context.Context, treeID string, role entities.Role) ([]entities.Relationship, error) {
	query := relationshipSelect + `
		WHERE tree_id = ? AND role = ?
		ORDER BY created_at ASC, rowid ASC
	`
	return r.queryRelationships(ctx, query, treeID, string(role))
}

// ListRelationshipsByPerson lists every edge touching a person, in
// creation order.
func (r *Repository) ListRelationshipsByPerson(ctx context.Context, treeID, personID string) ([]entities.Relationship, error) {
	query := relationshipSelect + `
		WHERE tree_id = ? AND (from_person_id = ? OR to_person_id = ?)
		ORDER BY created_at ASC, rowid ASC
	`
	return r.queryRelationships(ctx, query, treeID, personID, personID)
}

// DeleteRelationships deletes the given edges as one atomic unit.
func (r *Repository) DeleteRelationships(ctx context.Context, treeID string, edgeIDs []string) error {
	if len(edgeIDs) == 0 {
		return nil
	}

	placeholders := make([]string, len(edgeIDs))
	args := make([]any, 0, len(edgeIDs)+1)
	args = append(args, treeID)
	for i, id := range edgeIDs {
		placeholders[i] = "?"
		args = append(args, id)
	}

	query := fmt.Sprintf(`DELETE FROM relationships WHERE tree_id = ? AND id IN (%s)`,
		strings.Join(placeholders, ","))
	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("deleting relationships: %w", err)
	}
	return nil
}

// DeleteRelationshipsByPerson deletes every edge touching a person.
func (r *Repository) DeleteRelationshipsByPerson(ctx context.Context, treeID, personID string) error {
	query := `DELETE FROM relationships WHERE tree_id = ? AND (from_person_id = ? OR to_person_id = ?)`
	if _, err := r.db.ExecContext(ctx, query, treeID, personID, personID); err != nil {
		return fmt.Errorf("deleting relationships by person: %w", err)
	}
	return nil
}

// CountRelationshipsByRole counts edges of one role in a tree.
func (r *Repository) CountRelationshipsByRole(ctx context.Context, treeID string, role entities.Role) (int, error) {
	query := `SELECT COUNT(*) FROM relationships WHERE tree_id = ? AND role = ?`
	var count int
	err := r.db.QueryRowContext(ctx, query, treeID, string(role)).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("counting relationships: %w", err)
	}
	return count, nil
}

// scanPersonRow scans a single person row. Returns nil on no rows.
func (r *Repository) scanPersonRow(row *sql.Row) (*entities.Person, error) {
	var person entities.Person
	var birthDate, deathDate, birthPlace, occupation, notes sql.NullString

	err := row.Scan(
		&person.ID,
		&person.TreeID,
		&person.FirstName,
		&person.LastName,
		&person.NormalizedName,
		&birthDate,
		&deathDate,
		&birthPlace,
		&occupation,
		&notes,
		&person.PosX,
		&person.PosY,
		&person.CreatedAt,
	)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("scanning person: %w", err)
	}

	person.BirthDate = birthDate.String
	person.DeathDate = deathDate.String
	person.BirthPlace = birthPlace.String
	person.Occupation = occupation.String
	person.Notes = notes.String
	return &person, nil
}

// queryPersons is a helper to execute person queries.
func (r *Repository) queryPersons(ctx context.Context, query string, args ...any) ([]*entities.Person, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("querying persons: %w", err)
	}
	defer rows.Close()

	result := make([]*entities.Person, 0, 16)
	for rows.Next() {
		var person entities.Person
		var birthDate, deathDate, birthPlace, occupation, notes sql.NullString

		if err := rows.Scan(
			&person.ID,
			&person.TreeID,
			&person.FirstName,
			&person.LastName,
			&person.NormalizedName,
			&birthDate,
			&deathDate,
			&birthPlace,
			&occupation,
			&notes,
			&person.PosX,
			&person.PosY,
			&person.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("scanning person: %w", err)
		}

		person.BirthDate = birthDate.String
		person.DeathDate = deathDate.String
		person.BirthPlace = birthPlace.String
		person.Occupation = occupation.String
		person.Notes = notes.String
		result = append(result, &person)
	}
	return result, rows.Err()
}

// scanRelationshipRow scans a single edge row. Returns nil on no rows.
func (r *Repository) scanRelationshipRow(row *sql.Row) (*entities.Relationship, error) {
	var rel entities.Relationship
	var relType, role string
	var notes, linkedID sql.NullString

	err := row.Scan(
		&rel.ID,
		&rel.TreeID,
		&rel.FromPersonID,
		&rel.ToPersonID,
		&relType,
		&notes,
		&role,
		&linkedID,
		&rel.CreatedAt,
	)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("scanning relationship: %w", err)
	}

	rel.Type = entities.RelationType(relType)
	rel.Role = entities.Role(role)
	rel.Notes = notes.String
	rel.LinkedID = linkedID.String
	return &rel, nil
}

// queryRelationships is a helper to execute edge queries.
func (r *Repository) queryRelationships(ctx context.Context, query string, args ...any) ([]entities.Relationship, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("querying relationships: %w", err)
	}
	defer rows.Close()

	relationships := make([]entities.Relationship, 0, 16)
	for rows.Next() {
		var rel entities.Relationship
		var relType, role string
		var notes, linkedID sql.NullString

		if err := rows.Scan(
			&rel.ID,
			&rel.TreeID,
			&rel.FromPersonID,
			&rel.ToPersonID,
			&relType,
			&notes,
			&role,
			&linkedID,
			&rel.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("scanning relationship: %w", err)
		}

		rel.Type = entities.RelationType(relType)
		rel.Role = entities.Role(role)
		rel.Notes = notes.String
		rel.LinkedID = linkedID.String
		relationships = append(relationships, rel)
	}
	return relationships, rows.Err()
}

// nullable converts an empty string to NULL.
func nullable(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}
