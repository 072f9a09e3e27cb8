package services

import (
	"context"
	"fmt"
	"sort"

	"github.com/emkern/kin-core/internal/domain/entities"
	"github.com/emkern/kin-core/internal/domain/ports"
)

// DefaultTopN caps the frequency tables in a stats report.
const DefaultTopN = 10

// CountEntry is one row of a frequency table.
type CountEntry struct {
	Value string `json:"value"`
	Count int    `json:"count"`
}

// Stats is the aggregated report for one tree. Relationship counts are
// over primary edges only, so pairs are never counted twice.
type Stats struct {
	TotalMembers       int          `json:"total_members"`
	LivingMembers      int          `json:"living_members"`
	DeceasedMembers    int          `json:"deceased_members"`
	TotalRelationships int          `json:"total_relationships"`
	BirthPlaces        []CountEntry `json:"birth_places,omitempty"`
	Occupations        []CountEntry `json:"occupations,omitempty"`
	RelationshipTypes  []CountEntry `json:"relationship_types,omitempty"`
	BirthYears         map[int]int  `json:"birth_years,omitempty"`
	Generations        Tiers        `json:"-"`
	RootGeneration     []string     `json:"root_generation,omitempty"`
	NextGeneration     []string     `json:"next_generation,omitempty"`
}

// StatsService computes the statistics report from the stored tree.
type StatsService struct {
	db ports.RelationalDB
}

// NewStatsService creates a new StatsService.
func NewStatsService(db ports.RelationalDB) *StatsService {
	return &StatsService{db: db}
}

// Report builds the full statistics report for a tree. topN bounds the
// birth-place and occupation tables; pass 0 for the default.
func (s *StatsService) Report(ctx context.Context, treeID string, topN int) (*Stats, error) {
	if topN <= 0 {
		topN = DefaultTopN
	}

	persons, err := s.db.ListPersons(ctx, treeID)
	if err != nil {
		return nil, fmt.Errorf("listing persons: %w", err)
	}

	primary, err := s.db.ListRelationshipsByRole(ctx, treeID, entities.RolePrimary)
	if err != nil {
		return nil, fmt.Errorf("listing relationships: %w", err)
	}

	stats := &Stats{
		TotalMembers:       len(persons),
		TotalRelationships: len(primary),
		BirthYears:         make(map[int]int),
	}

	places := make(map[string]int)
	occupations := make(map[string]int)
	personIDs := make([]string, 0, len(persons))
	names := make(map[string]string, len(persons))

	for _, p := range persons {
		personIDs = append(personIDs, p.ID)
		names[p.ID] = p.FullName()
		if p.Living() {
			stats.LivingMembers++
		} else {
			stats.DeceasedMembers++
		}
		if p.BirthPlace != "" {
			places[p.BirthPlace]++
		}
		if p.Occupation != "" {
			occupations[p.Occupation]++
		}
		if year, ok := p.BirthYear(); ok {
			stats.BirthYears[year]++
		}
	}

	stats.BirthPlaces = topEntries(places, topN)
	stats.Occupations = topEntries(occupations, topN)

	typeCounts := make(map[string]int)
	var parentEdges []entities.Relationship
	for i := range primary {
		typeCounts[string(primary[i].Type)]++
		if primary[i].Type == entities.RelationParent {
			parentEdges = append(parentEdges, primary[i])
		}
	}
	stats.RelationshipTypes = topEntries(typeCounts, len(typeCounts))

	stats.Generations = InferGenerations(personIDs, parentEdges)
	for _, id := range stats.Generations.Root {
		stats.RootGeneration = append(stats.RootGeneration, names[id])
	}
	for _, id := range stats.Generations.Next {
		stats.NextGeneration = append(stats.NextGeneration, names[id])
	}

	return stats, nil
}

// topEntries sorts a frequency map by descending count, ties broken by
// value, and keeps the first n rows.
func topEntries(counts map[string]int, n int) []CountEntry {
	if len(counts) == 0 {
		return nil
	}
	entries := make([]CountEntry, 0, len(counts))
	for value, count := range counts {
		entries = append(entries, CountEntry{Value: value, Count: count})
	}
	sort.Slice(entries, func(i, j int) bool {
		if entries[i].Count != entries[j].Count {
			return entries[i].Count > entries[j].Count
		}
		return entries[i].Value < entries[j].Value
	})
	if len(entries) > n {
		entries = entries[:n]
	}
	return entries
}
