package handlers

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/emkern/kin-core/internal/domain/entities"
	"github.com/emkern/kin-core/internal/domain/mocks"
	"github.com/emkern/kin-core/internal/domain/services"
)

func setupRelationshipHandler(t *testing.T) (*RelationshipHandler, *mocks.RelationalDB) {
	t.Helper()
	db := mocks.NewRelationalDB()
	for _, p := range []struct{ id, first, last string }{
		{"ann", "Ann", "Reed"},
		{"ben", "Ben", "Reed"},
		{"cal", "Cal", "Reed"},
	} {
		db.Persons[p.id] = &entities.Person{
			ID:             p.id,
			TreeID:         testTree,
			FirstName:      p.first,
			LastName:       p.last,
			NormalizedName: entities.NormalizeName(p.first, p.last),
			CreatedAt:      time.Now(),
		}
	}
	ledger := services.NewLedger(db)
	persons := services.NewPersonService(db, ledger)
	return NewRelationshipHandler(ledger, persons), db
}

func TestParseRelationType(t *testing.T) {
	for _, valid := range ValidRelationTypes {
		t.Run(valid, func(t *testing.T) {
			rt, err := ParseRelationType(valid)
			require.NoError(t, err)
			assert.Equal(t, valid, string(rt))
		})
	}

	t.Run("invalid type", func(t *testing.T) {
		_, err := ParseRelationType("step-parent")
		require.Error(t, err)
		assert.Contains(t, err.Error(), "invalid relationship type: step-parent")
	})
}

func TestRelationshipHandler_HandleCreate(t *testing.T) {
	ctx := context.Background()

	t.Run("resolves names to ids", func(t *testing.T) {
		handler, _ := setupRelationshipHandler(t)

		pair, err := handler.HandleCreate(ctx, testTree, "Ann Reed", "parent", "Ben Reed", "")
		require.NoError(t, err)

		assert.Equal(t, "ann", pair.Primary.FromPersonID)
		assert.Equal(t, "ben", pair.Primary.ToPersonID)
		require.NotNil(t, pair.Derived)
		assert.Equal(t, entities.RelationChild, pair.Derived.Type)
	})

	t.Run("unknown person name", func(t *testing.T) {
		handler, _ := setupRelationshipHandler(t)

		_, err := handler.HandleCreate(ctx, testTree, "Ann Reed", "parent", "Nobody Here", "")
		assert.ErrorIs(t, err, entities.ErrPersonNotFound)
	})

	t.Run("invalid type rejected before lookups", func(t *testing.T) {
		handler, _ := setupRelationshipHandler(t)

		_, err := handler.HandleCreate(ctx, testTree, "Ann Reed", "nemesis", "Ben Reed", "")
		require.Error(t, err)
		assert.Contains(t, err.Error(), "invalid relationship type")
	})

	t.Run("duplicate pair rejected", func(t *testing.T) {
		handler, _ := setupRelationshipHandler(t)

		_, err := handler.HandleCreate(ctx, testTree, "Ann Reed", "parent", "Ben Reed", "")
		require.NoError(t, err)

		_, err = handler.HandleCreate(ctx, testTree, "Ben Reed", "spouse", "Ann Reed", "")
		assert.ErrorIs(t, err, entities.ErrDuplicateRelationship)
	})
}

func TestRelationshipHandler_HandleList(t *testing.T) {
	ctx := context.Background()
	handler, _ := setupRelationshipHandler(t)

	_, err := handler.HandleCreate(ctx, testTree, "Ann Reed", "parent", "Ben Reed", "")
	require.NoError(t, err)
	_, err = handler.HandleCreate(ctx, testTree, "Ann Reed", "spouse", "Cal Reed", "")
	require.NoError(t, err)

	infos, err := handler.HandleList(ctx, testTree)
	require.NoError(t, err)
	require.Len(t, infos, 2, "one row per pair")

	assert.Equal(t, "Ann Reed", infos[0].FromName)
	assert.Equal(t, "Ben Reed", infos[0].ToName)
	assert.Equal(t, entities.RelationChild, infos[0].InverseType)
	assert.Equal(t, entities.RelationSpouse, infos[1].InverseType)
}

func TestRelationshipHandler_HandleListFor(t *testing.T) {
	ctx := context.Background()
	handler, _ := setupRelationshipHandler(t)

	_, err := handler.HandleCreate(ctx, testTree, "Ann Reed", "parent", "Ben Reed", "")
	require.NoError(t, err)

	infos, err := handler.HandleListFor(ctx, testTree, "Ben Reed")
	require.NoError(t, err)
	require.Len(t, infos, 2, "both roles of the pair are visible")

	assert.Equal(t, entities.RolePrimary, infos[0].Relationship.Role)
	assert.Equal(t, entities.RoleDerived, infos[1].Relationship.Role)
	assert.Equal(t, "Ben Reed", infos[1].FromName)

	_, err = handler.HandleListFor(ctx, testTree, "Nobody Here")
	assert.ErrorIs(t, err, entities.ErrPersonNotFound)
}

func TestRelationshipHandler_HandleDelete(t *testing.T) {
	ctx := context.Background()
	handler, db := setupRelationshipHandler(t)

	pair, err := handler.HandleCreate(ctx, testTree, "Ann Reed", "parent", "Ben Reed", "")
	require.NoError(t, err)

	require.NoError(t, handler.HandleDelete(ctx, testTree, pair.Derived.ID))
	assert.Empty(t, db.Edges)

	count, err := handler.HandleCount(ctx, testTree)
	require.NoError(t, err)
	assert.Zero(t, count)
}
