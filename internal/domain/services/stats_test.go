package services

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/emkern/kin-core/internal/domain/entities"
	"github.com/emkern/kin-core/internal/domain/mocks"
)

func seedDetailedPerson(db *mocks.RelationalDB, id, first, last, born, died, place, occupation string) {
	db.Persons[id] = &entities.Person{
		ID:             id,
		TreeID:         testTree,
		FirstName:      first,
		LastName:       last,
		BirthDate:      born,
		DeathDate:      died,
		BirthPlace:     place,
		Occupation:     occupation,
		NormalizedName: entities.NormalizeName(first, last),
		CreatedAt:      time.Now(),
	}
}

func TestStatsService_Report(t *testing.T) {
	ctx := context.Background()
	db := mocks.NewRelationalDB()
	ledger := NewLedger(db)
	svc := NewStatsService(db)

	seedDetailedPerson(db, "ann", "Ann", "Reed", "1950-02-01", "", "Boston", "teacher")
	seedDetailedPerson(db, "ben", "Ben", "Reed", "1975-06-15", "", "Boston", "engineer")
	seedDetailedPerson(db, "cal", "Cal", "Reed", "1922-11-30", "1999-01-02", "Chicago", "teacher")

	_, err := ledger.Add(ctx, testTree, "ann", "ben", entities.RelationParent, "")
	require.NoError(t, err)
	_, err = ledger.Add(ctx, testTree, "ann", "cal", entities.RelationSpouse, "")
	require.NoError(t, err)

	stats, err := svc.Report(ctx, testTree, 0)
	require.NoError(t, err)

	t.Run("member counts", func(t *testing.T) {
		assert.Equal(t, 3, stats.TotalMembers)
		assert.Equal(t, 2, stats.LivingMembers)
		assert.Equal(t, 1, stats.DeceasedMembers)
	})

	t.Run("relationships counted per pair", func(t *testing.T) {
		assert.Equal(t, 2, stats.TotalRelationships)
		assert.Equal(t, []CountEntry{
			{Value: "parent", Count: 1},
			{Value: "spouse", Count: 1},
		}, stats.RelationshipTypes)
	})

	t.Run("frequency tables", func(t *testing.T) {
		assert.Equal(t, []CountEntry{
			{Value: "Boston", Count: 2},
			{Value: "Chicago", Count: 1},
		}, stats.BirthPlaces)
		assert.Equal(t, []CountEntry{
			{Value: "teacher", Count: 2},
			{Value: "engineer", Count: 1},
		}, stats.Occupations)
	})

	t.Run("birth years", func(t *testing.T) {
		assert.Equal(t, map[int]int{1950: 1, 1975: 1, 1922: 1}, stats.BirthYears)
	})

	t.Run("generations use parent edges only", func(t *testing.T) {
		assert.Equal(t, []string{"ann", "cal"}, stats.Generations.Root, "spouse edge does not demote cal")
		assert.Equal(t, []string{"ben"}, stats.Generations.Next)
		assert.Equal(t, []string{"Ann Reed", "Cal Reed"}, stats.RootGeneration)
		assert.Equal(t, []string{"Ben Reed"}, stats.NextGeneration)
	})
}

func TestStatsService_Report_TopN(t *testing.T) {
	ctx := context.Background()
	db := mocks.NewRelationalDB()
	svc := NewStatsService(db)

	seedDetailedPerson(db, "a", "Ann", "Reed", "", "", "Boston", "")
	seedDetailedPerson(db, "b", "Ben", "Reed", "", "", "Boston", "")
	seedDetailedPerson(db, "c", "Cal", "Reed", "", "", "Chicago", "")
	seedDetailedPerson(db, "d", "Dot", "Reed", "", "", "Austin", "")

	stats, err := svc.Report(ctx, testTree, 2)
	require.NoError(t, err)

	require.Len(t, stats.BirthPlaces, 2)
	assert.Equal(t, CountEntry{Value: "Boston", Count: 2}, stats.BirthPlaces[0])
	assert.Equal(t, CountEntry{Value: "Austin", Count: 1}, stats.BirthPlaces[1], "ties break on value")
}

func TestTopEntries(t *testing.T) {
	counts := map[string]int{"x": 1, "y": 3, "z": 3}

	entries := topEntries(counts, 10)
	assert.Equal(t, []CountEntry{
		{Value: "y", Count: 3},
		{Value: "z", Count: 3},
		{Value: "x", Count: 1},
	}, entries)

	assert.Nil(t, topEntries(nil, 10))
}
