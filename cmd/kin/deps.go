package main

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/charmbracelet/log"

	"github.com/emkern/kin-core/internal/application/handlers"
	"github.com/emkern/kin-core/internal/domain/ports"
	"github.com/emkern/kin-core/internal/domain/services"
	"github.com/emkern/kin-core/internal/infrastructure/config"
	"github.com/emkern/kin-core/internal/infrastructure/relationaldb/sqlite"
)

// Deps holds high-level dependencies for commands.
// Only handlers are exposed - services and repositories are internal.
type Deps struct {
	Config        *config.Config
	Trees         *config.TreesConfig
	Persons       *handlers.PersonHandler
	Relationships *handlers.RelationshipHandler
}

// internalDeps holds all dependencies including low-level components.
// Used internally by helper functions.
type internalDeps struct {
	Deps
	db            *sqlite.Repository
	ledger        *services.Ledger
	personService *services.PersonService
}

// withDeps loads config and builds dependencies, then calls the provided function.
// It handles cleanup automatically.
func withDeps(fn func(*Deps) error) error {
	return withInternalDeps(func(d *internalDeps) error {
		return fn(&d.Deps)
	})
}

// withInternalDeps provides access to all dependencies including low-level components.
func withInternalDeps(fn func(*internalDeps) error) error {
	cwd, err := os.Getwd()
	if err != nil {
		return fmt.Errorf("getting current directory: %w", err)
	}

	cfg, err := config.Load(cwd)
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	trees, err := config.LoadTrees(cwd)
	if err != nil {
		return fmt.Errorf("loading trees: %w", err)
	}

	if globalTree == "" {
		return errors.New("tree is required (use --tree flag)")
	}

	dbPath, err := trees.GetDatabase(globalTree)
	if err != nil {
		return err
	}
	log.Debug("opening tree database", "tree", globalTree, "path", dbPath)

	db, err := sqlite.NewRepository(config.SQLiteConfig{Path: dbPath})
	if err != nil {
		return fmt.Errorf("creating sqlite repository: %w", err)
	}
	defer db.Close()

	if err := db.EnsureSchema(context.Background()); err != nil {
		return fmt.Errorf("ensuring sqlite schema: %w", err)
	}
	log.Debug("schema ensured", "tree", globalTree)

	ledger := services.NewLedger(db)
	personService := services.NewPersonService(db, ledger)

	deps := &internalDeps{
		Deps: Deps{
			Config:        cfg,
			Trees:         trees,
			Persons:       handlers.NewPersonHandler(personService),
			Relationships: handlers.NewRelationshipHandler(ledger, personService),
		},
		db:            db,
		ledger:        ledger,
		personService: personService,
	}

	return fn(deps)
}

// withRelationalDB provides direct relational database access.
func withRelationalDB(fn func(ports.RelationalDB) error) error {
	return withInternalDeps(func(d *internalDeps) error {
		return fn(d.db)
	})
}

// withSnapshotService provides access to the snapshot service for export/import.
func withSnapshotService(fn func(*services.SnapshotService, *handlers.ImportHandler) error) error {
	return withInternalDeps(func(d *internalDeps) error {
		snapshots := services.NewSnapshotService(d.db)
		importer := handlers.NewImportHandler(d.personService)
		return fn(snapshots, importer)
	})
}

// withStatsService provides access to the stats service.
func withStatsService(fn func(*services.StatsService) error) error {
	return withInternalDeps(func(d *internalDeps) error {
		return fn(services.NewStatsService(d.db))
	})
}

// withGraph provides the graph projector together with the configured
// layout engine.
func withGraph(fn func(*services.GraphProjector, ports.LayoutEngine) error) error {
	return withInternalDeps(func(d *internalDeps) error {
		projector := services.NewGraphProjector(d.db)
		engine := layoutEngine(d.Config)
		return fn(projector, engine)
	})
}
