// Package mocks provides in-memory test doubles for the domain ports.
package mocks

import (
	"context"
	"sort"
	"strings"

	"github.com/emkern/kin-core/internal/domain/entities"
)

// RelationalDB is an in-memory implementation of ports.RelationalDB.
// Insertion order of relationships is preserved so creation-order queries
// behave like the SQLite repository. Err, when set, is returned from every
// operation to exercise failure paths.
type RelationalDB struct {
	Persons map[string]*entities.Person
	Edges   map[string]*entities.Relationship
	edgeSeq []string
	SaveErr error
	FindErr error
	DelErr  error
	Err     error
}

// NewRelationalDB creates an empty mock store.
func NewRelationalDB() *RelationalDB {
	return &RelationalDB{
		Persons: make(map[string]*entities.Person),
		Edges:   make(map[string]*entities.Relationship),
	}
}

func (m *RelationalDB) EnsureSchema(_ context.Context) error { return m.Err }
func (m *RelationalDB) Close() error                         { return nil }

// SavePerson inserts or replaces a person.
func (m *RelationalDB) SavePerson(_ context.Context, person *entities.Person) error {
	if err := m.firstErr(m.SaveErr); err != nil {
		return err
	}
	p := *person
	m.Persons[p.ID] = &p
	return nil
}

// FindPersonByID finds a person by ID within a tree.
func (m *RelationalDB) FindPersonByID(_ context.Context, treeID, personID string) (*entities.Person, error) {
	if err := m.firstErr(m.FindErr); err != nil {
		return nil, err
	}
	p, ok := m.Persons[personID]
	if !ok || p.TreeID != treeID {
		return nil, nil
	}
	cp := *p
	return &cp, nil
}

// FindPersonByName finds a person by normalized full name.
func (m *RelationalDB) FindPersonByName(_ context.Context, treeID, name string) (*entities.Person, error) {
	if err := m.firstErr(m.FindErr); err != nil {
		return nil, err
	}
	normalized := strings.ToLower(strings.TrimSpace(name))
	for _, p := range m.Persons {
		if p.TreeID == treeID && p.NormalizedName == normalized {
			cp := *p
			return &cp, nil
		}
	}
	return nil, nil
}

// ListPersons lists persons in a tree ordered by name.
func (m *RelationalDB) ListPersons(_ context.Context, treeID string) ([]*entities.Person, error) {
	if err := m.firstErr(m.FindErr); err != nil {
		return nil, err
	}
	result := make([]*entities.Person, 0, len(m.Persons))
	for _, p := range m.Persons {
		if p.TreeID == treeID {
			cp := *p
			result = append(result, &cp)
		}
	}
	sort.Slice(result, func(i, j int) bool {
		return result[i].NormalizedName < result[j].NormalizedName
	})
	return result, nil
}

// SearchPersons searches by substring over name, place and occupation.
func (m *RelationalDB) SearchPersons(_ context.Context, treeID, query string, limit int) ([]*entities.Person, error) {
	if err := m.firstErr(m.FindErr); err != nil {
		return nil, err
	}
	q := strings.ToLower(query)
	all, _ := m.ListPersons(context.Background(), treeID)
	var result []*entities.Person
	for _, p := range all {
		if strings.Contains(p.NormalizedName, q) ||
			strings.Contains(strings.ToLower(p.BirthPlace), q) ||
			strings.Contains(strings.ToLower(p.Occupation), q) {
			result = append(result, p)
		}
		if limit > 0 && len(result) >= limit {
			break
		}
	}
	return result, nil
}

// DeletePerson removes a person by ID.
func (m *RelationalDB) DeletePerson(_ context.Context, treeID, personID string) error {
	if err := m.firstErr(m.DelErr); err != nil {
		return err
	}
	if p, ok := m.Persons[personID]; ok && p.TreeID == treeID {
		delete(m.Persons, personID)
	}
	return nil
}

// CountPersons counts persons in a tree.
func (m *RelationalDB) CountPersons(_ context.Context, treeID string) (int, error) {
	if err := m.firstErr(m.FindErr); err != nil {
		return 0, err
	}
	count := 0
	for _, p := range m.Persons {
		if p.TreeID == treeID {
			count++
		}
	}
	return count, nil
}

// SavePair stores both edges of a pair together.
func (m *RelationalDB) SavePair(_ context.Context, pair *entities.Pair) error {
	if err := m.firstErr(m.SaveErr); err != nil {
		return err
	}
	primary := pair.Primary
	m.Edges[primary.ID] = &primary
	m.edgeSeq = append(m.edgeSeq, primary.ID)
	if pair.Derived != nil {
		derived := *pair.Derived
		m.Edges[derived.ID] = &derived
		m.edgeSeq = append(m.edgeSeq, derived.ID)
	}
	return nil
}

// FindRelationshipByID finds an edge by ID within a tree.
func (m *RelationalDB) FindRelationshipByID(_ context.Context, treeID, edgeID string) (*entities.Relationship, error) {
	if err := m.firstErr(m.FindErr); err != nil {
		return nil, err
	}
	e, ok := m.Edges[edgeID]
	if !ok || e.TreeID != treeID {
		return nil, nil
	}
	cp := *e
	return &cp, nil
}

// FindRelationshipByLinkedID finds the derived edge for a primary.
func (m *RelationalDB) FindRelationshipByLinkedID(_ context.Context, treeID, primaryID string) (*entities.Relationship, error) {
	if err := m.firstErr(m.FindErr); err != nil {
		return nil, err
	}
	for _, id := range m.edgeSeq {
		e, ok := m.Edges[id]
		if ok && e.TreeID == treeID && e.LinkedID == primaryID {
			cp := *e
			return &cp, nil
		}
	}
	return nil, nil
}

// FindRelationshipBetween finds any edge connecting two people, in either
// direction.
func (m *RelationalDB) FindRelationshipBetween(_ context.Context, treeID, personA, personB string) (*entities.Relationship, error) {
	if err := m.firstErr(m.FindErr); err != nil {
		return nil, err
	}
	for _, id := range m.edgeSeq {
		e, ok := m.Edges[id]
		if !ok || e.TreeID != treeID {
			continue
		}
		if (e.FromPersonID == personA && e.ToPersonID == personB) ||
			(e.FromPersonID == personB && e.ToPersonID == personA) {
			cp := *e
			return &cp, nil
		}
	}
	return nil, nil
}

// ListRelationships lists every edge in creation order.
func (m *RelationalDB) ListRelationships(_ context.Context, treeID string) ([]entities.Relationship, error) {
	return m.listEdges(treeID, func(*entities.Relationship) bool { return true })
}

// ListRelationshipsByRole lists edges of one role in creation order.
func (m *RelationalDB) ListRelationshipsByRole(_ context.Context, treeID string, role entities.Role) ([]entities.Relationship, error) {
	return m.listEdges(treeID, func(e *entities.Relationship) bool { return e.Role == role })
}

// ListRelationshipsByPerson lists edges touching a person in creation order.
func (m *RelationalDB) ListRelationshipsByPerson(_ context.Context, treeID, personID string) ([]entities.Relationship, error) {
	return m.listEdges(treeID, func(e *entities.Relationship) bool {
		return e.FromPersonID == personID || e.ToPersonID == personID
	})
}

// DeleteRelationships removes the given edges.
func (m *RelationalDB) DeleteRelationships(_ context.Context, treeID string, edgeIDs []string) error {
	if err := m.firstErr(m.DelErr); err != nil {
		return err
	}
	for _, id := range edgeIDs {
		if e, ok := m.Edges[id]; ok && e.TreeID == treeID {
			delete(m.Edges, id)
		}
	}
	return nil
}

// DeleteRelationshipsByPerson removes every edge touching a person.
func (m *RelationalDB) DeleteRelationshipsByPerson(_ context.Context, treeID, personID string) error {
	if err := m.firstErr(m.DelErr); err != nil {
		return err
	}
	for id, e := range m.Edges {
		if e.TreeID == treeID && (e.FromPersonID == personID || e.ToPersonID == personID) {
			delete(m.Edges, id)
		}
	}
	return nil
}

// CountRelationshipsByRole counts edges of one role.
func (m *RelationalDB) CountRelationshipsByRole(_ context.Context, treeID string, role entities.Role) (int, error) {
	if err := m.firstErr(m.FindErr); err != nil {
		return 0, err
	}
	count := 0
	for _, e := range m.Edges {
		if e.TreeID == treeID && e.Role == role {
			count++
		}
	}
	return count, nil
}

func (m *RelationalDB) listEdges(treeID string, keep func(*entities.Relationship) bool) ([]entities.Relationship, error) {
	if err := m.firstErr(m.FindErr); err != nil {
		return nil, err
	}
	result := make([]entities.Relationship, 0, len(m.edgeSeq))
	for _, id := range m.edgeSeq {
		e, ok := m.Edges[id]
		if ok && e.TreeID == treeID && keep(e) {
			result = append(result, *e)
		}
	}
	return result, nil
}

func (m *RelationalDB) firstErr(specific error) error {
	if specific != nil {
		return specific
	}
	return m.Err
}
