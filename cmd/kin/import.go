package main

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/emkern/kin-core/internal/application/handlers"
	"github.com/emkern/kin-core/internal/domain/services"
	"github.com/emkern/kin-core/internal/infrastructure/parsers"
)

type importFlags struct {
	persons    bool
	dryRun     bool
	onConflict string
}

func newImportCmd() *cobra.Command {
	var flags importFlags

	cmd := &cobra.Command{
		Use:   "import <file>",
		Short: "Import a tree snapshot or person records",
		Long: `Imports data into the tree. JSON files are treated as snapshots
(the format written by 'kin export') unless --persons is given; CSV
files always hold person records.

Examples:
  kin -t smith import smith.json
  kin -t smith import persons.csv
  kin -t smith import persons.json --persons --dry-run`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runImport(cmd, args[0], flags)
		},
	}

	cmd.Flags().BoolVar(&flags.persons, "persons", false, "Treat the file as person records instead of a snapshot")
	cmd.Flags().BoolVar(&flags.dryRun, "dry-run", false, "Validate without saving")
	cmd.Flags().StringVar(&flags.onConflict, "on-conflict", "skip", "Conflict strategy (skip, overwrite)")

	return cmd
}

func runImport(cmd *cobra.Command, path string, flags importFlags) error {
	ctx := cmd.Context()

	strategy := services.ConflictStrategy(flags.onConflict)
	if strategy != services.ConflictSkip && strategy != services.ConflictOverwrite {
		return fmt.Errorf("invalid conflict strategy: %s (valid: skip, overwrite)", flags.onConflict)
	}
	opts := services.ImportOptions{
		DryRun:     flags.dryRun,
		OnConflict: strategy,
	}

	asPersons := flags.persons || strings.EqualFold(filepath.Ext(path), ".csv")

	return withSnapshotService(func(snapshots *services.SnapshotService, importer *handlers.ImportHandler) error {
		var result *services.ImportResult

		if asPersons {
			parser := parsers.ForFile(path)
			if parser == nil {
				return fmt.Errorf("unsupported file format: %s", filepath.Ext(path))
			}

			f, err := os.Open(path)
			if err != nil {
				return fmt.Errorf("opening file: %w", err)
			}
			defer f.Close()

			records, err := parser.Parse(f)
			if err != nil {
				return fmt.Errorf("parsing file: %w", err)
			}
			log.Debug("parsed person records", "file", path, "records", len(records))

			result, err = importer.HandleImportPersons(ctx, globalTree, records, opts)
			if err != nil {
				return fmt.Errorf("importing persons: %w", err)
			}
		} else {
			data, err := os.ReadFile(path)
			if err != nil {
				return fmt.Errorf("reading file: %w", err)
			}

			var snap services.Snapshot
			if err := json.Unmarshal(data, &snap); err != nil {
				return fmt.Errorf("parsing snapshot: %w", err)
			}
			log.Debug("parsed snapshot", "file", path, "persons", len(snap.Persons), "edges", len(snap.Relationships))

			result, err = snapshots.Import(ctx, globalTree, &snap, opts)
			if err != nil {
				return fmt.Errorf("importing snapshot: %w", err)
			}
		}

		printImportResult(result, flags.dryRun)
		return nil
	})
}

func printImportResult(result *services.ImportResult, dryRun bool) {
	if dryRun {
		fmt.Println("Dry run, nothing was saved.")
	}
	fmt.Printf("Persons imported:       %d\n", result.PersonsImported)
	fmt.Printf("Relationships imported: %d\n", result.RelationshipsImported)
	fmt.Printf("Skipped:                %d\n", result.Skipped)

	if len(result.Errors) > 0 {
		fmt.Printf("Errors:                 %d\n", len(result.Errors))
		for _, e := range result.Errors {
			fmt.Printf("  - %s\n", e.Error())
		}
	}
}
