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

func snapshotFixture() *Snapshot {
	now := time.Now()
	return &Snapshot{
		Tree:       testTree,
		ExportedAt: now,
		Persons: []entities.Person{
			{ID: "ann", FirstName: "Ann", LastName: "Reed", NormalizedName: "ann reed", CreatedAt: now},
			{ID: "ben", FirstName: "Ben", LastName: "Reed", NormalizedName: "ben reed", CreatedAt: now},
		},
		Relationships: []entities.Relationship{
			{ID: "e1", FromPersonID: "ann", ToPersonID: "ben", Type: entities.RelationParent, Role: entities.RolePrimary, CreatedAt: now},
			{ID: "e2", FromPersonID: "ben", ToPersonID: "ann", Type: entities.RelationChild, Role: entities.RoleDerived, LinkedID: "e1", CreatedAt: now},
		},
	}
}

func TestSnapshotService_Export(t *testing.T) {
	ctx := context.Background()
	ledger, db := setupLedger(t)
	svc := NewSnapshotService(db)

	pair, err := ledger.Add(ctx, testTree, "ann", "ben", entities.RelationParent, "")
	require.NoError(t, err)

	snap, err := svc.Export(ctx, testTree)
	require.NoError(t, err)

	assert.Equal(t, testTree, snap.Tree)
	assert.False(t, snap.ExportedAt.IsZero())
	assert.Len(t, snap.Persons, 3)

	require.Len(t, snap.Relationships, 2, "both edges of the pair are exported")
	assert.Equal(t, pair.Primary.ID, snap.Relationships[0].ID)
	assert.Equal(t, pair.Primary.ID, snap.Relationships[1].LinkedID)
}

func TestSnapshotService_Import(t *testing.T) {
	ctx := context.Background()

	t.Run("restores persons and pairs", func(t *testing.T) {
		db := mocks.NewRelationalDB()
		svc := NewSnapshotService(db)

		result, err := svc.Import(ctx, testTree, snapshotFixture(), ImportOptions{})
		require.NoError(t, err)

		assert.Equal(t, 2, result.PersonsImported)
		assert.Equal(t, 1, result.RelationshipsImported)
		assert.Zero(t, result.Skipped)
		assert.Empty(t, result.Errors)

		assert.Len(t, db.Persons, 2)
		assert.Len(t, db.Edges, 2)
		assert.Equal(t, testTree, db.Persons["ann"].TreeID, "tree is rewritten on import")
		assert.Equal(t, testTree, db.Edges["e2"].TreeID)
	})

	t.Run("dry run saves nothing", func(t *testing.T) {
		db := mocks.NewRelationalDB()
		svc := NewSnapshotService(db)

		result, err := svc.Import(ctx, testTree, snapshotFixture(), ImportOptions{DryRun: true})
		require.NoError(t, err)

		assert.Equal(t, 2, result.PersonsImported)
		assert.Equal(t, 1, result.RelationshipsImported)
		assert.Empty(t, db.Persons)
		assert.Empty(t, db.Edges)
	})

	t.Run("existing person skipped by default", func(t *testing.T) {
		db := mocks.NewRelationalDB()
		svc := NewSnapshotService(db)
		seedPerson(db, "ann", "Annette", "Reed")

		result, err := svc.Import(ctx, testTree, snapshotFixture(), ImportOptions{})
		require.NoError(t, err)

		assert.Equal(t, 1, result.PersonsImported)
		assert.Equal(t, 1, result.Skipped)
		assert.Equal(t, "Annette", db.Persons["ann"].FirstName)
	})

	t.Run("overwrite replaces existing person", func(t *testing.T) {
		db := mocks.NewRelationalDB()
		svc := NewSnapshotService(db)
		seedPerson(db, "ann", "Annette", "Reed")

		result, err := svc.Import(ctx, testTree, snapshotFixture(), ImportOptions{OnConflict: ConflictOverwrite})
		require.NoError(t, err)

		assert.Equal(t, 2, result.PersonsImported)
		assert.Zero(t, result.Skipped)
		assert.Equal(t, "Ann", db.Persons["ann"].FirstName)
	})

	t.Run("existing pair between the two people is skipped", func(t *testing.T) {
		db := mocks.NewRelationalDB()
		ledger := NewLedger(db)
		svc := NewSnapshotService(db)
		seedPerson(db, "ann", "Ann", "Reed")
		seedPerson(db, "ben", "Ben", "Reed")
		_, err := ledger.Add(ctx, testTree, "ben", "ann", entities.RelationSpouse, "")
		require.NoError(t, err)

		result, err := svc.Import(ctx, testTree, snapshotFixture(), ImportOptions{})
		require.NoError(t, err)

		assert.Zero(t, result.RelationshipsImported)
		assert.Equal(t, 3, result.Skipped, "two persons and the pair")
	})

	t.Run("edge referencing unknown person is reported", func(t *testing.T) {
		db := mocks.NewRelationalDB()
		svc := NewSnapshotService(db)

		snap := snapshotFixture()
		snap.Relationships = append(snap.Relationships, entities.Relationship{
			ID: "e3", FromPersonID: "ann", ToPersonID: "ghost",
			Type: entities.RelationSibling, Role: entities.RolePrimary,
		})

		result, err := svc.Import(ctx, testTree, snap, ImportOptions{})
		require.NoError(t, err)

		assert.Equal(t, 1, result.RelationshipsImported)
		require.Len(t, result.Errors, 1)
		assert.Equal(t, "e3", result.Errors[0].Record)
		assert.Contains(t, result.Errors[0].Message, "missing from the snapshot")
	})
}

func TestSnapshotService_RebuildPairs(t *testing.T) {
	svc := NewSnapshotService(mocks.NewRelationalDB())

	t.Run("orphaned derived edge", func(t *testing.T) {
		snap := snapshotFixture()
		snap.Relationships[1].LinkedID = "missing"

		pairs, errs := svc.rebuildPairs(snap)
		require.Len(t, pairs, 1)
		assert.Nil(t, pairs[0].Derived)
		require.Len(t, errs, 1)
		assert.Equal(t, "derived edge has no matching primary", errs[0].Message)
	})

	t.Run("second derived edge for one primary", func(t *testing.T) {
		snap := snapshotFixture()
		snap.Relationships = append(snap.Relationships, entities.Relationship{
			ID: "e3", FromPersonID: "ben", ToPersonID: "ann",
			Type: entities.RelationChild, Role: entities.RoleDerived, LinkedID: "e1",
		})

		pairs, errs := svc.rebuildPairs(snap)
		require.Len(t, pairs, 1)
		require.NotNil(t, pairs[0].Derived)
		assert.Equal(t, "e2", pairs[0].Derived.ID, "first claim wins")
		require.Len(t, errs, 1)
		assert.Equal(t, "primary edge already has a derived counterpart", errs[0].Message)
	})

	t.Run("pair without derived edge", func(t *testing.T) {
		snap := snapshotFixture()
		snap.Relationships = snap.Relationships[:1]
		snap.Relationships[0].Type = entities.RelationInLaw

		pairs, errs := svc.rebuildPairs(snap)
		require.Len(t, pairs, 1)
		assert.Nil(t, pairs[0].Derived)
		assert.Empty(t, errs)
	})
}

func TestImportError_Error(t *testing.T) {
	withRecord := ImportError{Record: "line 3", Message: "first name is required"}
	assert.Equal(t, "line 3: first name is required", withRecord.Error())

	bare := ImportError{Message: "malformed row"}
	assert.Equal(t, "malformed row", bare.Error())
}
