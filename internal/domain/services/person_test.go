package services

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/emkern/kin-core/internal/domain/entities"
	"github.com/emkern/kin-core/internal/domain/mocks"
)

func setupPersonService(t *testing.T) (*PersonService, *mocks.RelationalDB) {
	t.Helper()
	db := mocks.NewRelationalDB()
	return NewPersonService(db, NewLedger(db)), db
}

func TestPersonService_Add(t *testing.T) {
	ctx := context.Background()

	t.Run("fills id, tree and normalized name", func(t *testing.T) {
		svc, _ := setupPersonService(t)

		person, err := svc.Add(ctx, testTree, &entities.Person{
			FirstName: "Jane",
			LastName:  "Stark",
		})
		require.NoError(t, err)

		assert.NotEmpty(t, person.ID)
		assert.Equal(t, testTree, person.TreeID)
		assert.Equal(t, "jane stark", person.NormalizedName)
		assert.False(t, person.CreatedAt.IsZero())
	})

	t.Run("requires both names", func(t *testing.T) {
		svc, _ := setupPersonService(t)

		_, err := svc.Add(ctx, testTree, &entities.Person{FirstName: "Jane"})
		assert.ErrorIs(t, err, ErrNameRequired)

		_, err = svc.Add(ctx, testTree, &entities.Person{LastName: "Stark"})
		assert.ErrorIs(t, err, ErrNameRequired)
	})
}

func TestPersonService_Update(t *testing.T) {
	ctx := context.Background()
	svc, _ := setupPersonService(t)

	person, err := svc.Add(ctx, testTree, &entities.Person{FirstName: "Jane", LastName: "Stark"})
	require.NoError(t, err)
	created := person.CreatedAt

	t.Run("keeps creation time and renormalizes", func(t *testing.T) {
		updated := &entities.Person{
			ID:        person.ID,
			FirstName: "Janet",
			LastName:  "Stark",
		}
		require.NoError(t, svc.Update(ctx, testTree, updated))

		found, err := svc.Get(ctx, testTree, person.ID)
		require.NoError(t, err)
		assert.Equal(t, "Janet", found.FirstName)
		assert.Equal(t, "janet stark", found.NormalizedName)
		assert.Equal(t, created, found.CreatedAt)
	})

	t.Run("unknown person", func(t *testing.T) {
		err := svc.Update(ctx, testTree, &entities.Person{
			ID:        "ghost",
			FirstName: "No",
			LastName:  "One",
		})
		assert.ErrorIs(t, err, entities.ErrPersonNotFound)
	})
}

func TestPersonService_GetByName(t *testing.T) {
	ctx := context.Background()
	svc, _ := setupPersonService(t)

	_, err := svc.Add(ctx, testTree, &entities.Person{FirstName: "Jane", LastName: "Stark"})
	require.NoError(t, err)

	found, err := svc.GetByName(ctx, testTree, "JANE STARK")
	require.NoError(t, err)
	assert.Equal(t, "Jane", found.FirstName)

	_, err = svc.GetByName(ctx, testTree, "Nobody Here")
	assert.ErrorIs(t, err, entities.ErrPersonNotFound)
}

func TestPersonService_Delete_CascadesRelationships(t *testing.T) {
	ctx := context.Background()
	db := mocks.NewRelationalDB()
	ledger := NewLedger(db)
	svc := NewPersonService(db, ledger)

	ann, err := svc.Add(ctx, testTree, &entities.Person{FirstName: "Ann", LastName: "Reed"})
	require.NoError(t, err)
	ben, err := svc.Add(ctx, testTree, &entities.Person{FirstName: "Ben", LastName: "Reed"})
	require.NoError(t, err)

	_, err = ledger.Add(ctx, testTree, ann.ID, ben.ID, entities.RelationSpouse, "")
	require.NoError(t, err)

	require.NoError(t, svc.Delete(ctx, testTree, ann.ID))

	assert.Empty(t, db.Edges, "both edges of the pair are gone")
	_, err = svc.Get(ctx, testTree, ann.ID)
	assert.ErrorIs(t, err, entities.ErrPersonNotFound)

	count, err := svc.Count(ctx, testTree)
	require.NoError(t, err)
	assert.Equal(t, 1, count)
}

func TestPersonService_Delete_CascadeFailureKeepsPerson(t *testing.T) {
	ctx := context.Background()
	db := mocks.NewRelationalDB()
	ledger := NewLedger(db)
	svc := NewPersonService(db, ledger)

	ann, err := svc.Add(ctx, testTree, &entities.Person{FirstName: "Ann", LastName: "Reed"})
	require.NoError(t, err)
	ben, err := svc.Add(ctx, testTree, &entities.Person{FirstName: "Ben", LastName: "Reed"})
	require.NoError(t, err)

	_, err = ledger.Add(ctx, testTree, ann.ID, ben.ID, entities.RelationSpouse, "")
	require.NoError(t, err)

	db.DelErr = errors.New("disk full")
	err = svc.Delete(ctx, testTree, ann.ID)
	require.Error(t, err)

	// Edges go first, so a failed cascade never strands an edge pointing
	// at a deleted person.
	db.DelErr = nil
	found, err := svc.Get(ctx, testTree, ann.ID)
	require.NoError(t, err)
	assert.Equal(t, "Ann", found.FirstName)
	assert.Len(t, db.Edges, 2)
}
