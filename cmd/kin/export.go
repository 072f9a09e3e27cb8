package main

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/emkern/kin-core/internal/application/handlers"
	"github.com/emkern/kin-core/internal/domain/services"
)

type exportFlags struct {
	format string
	output string
}

func newExportCmd() *cobra.Command {
	var flags exportFlags

	cmd := &cobra.Command{
		Use:   "export",
		Short: "Export the tree to file",
		Long: `Exports the tree. The JSON format is a lossless snapshot holding
persons and all relationship edges with their pair linkage; the CSV
format holds person records only.

Examples:
  kin -t smith export -o smith.json
  kin -t smith export --format csv -o persons.csv`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runExport(cmd, flags)
		},
	}

	cmd.Flags().StringVarP(&flags.format, "format", "f", "json", "Output format (json, csv)")
	cmd.Flags().StringVarP(&flags.output, "output", "o", "", "Output file (default: stdout)")

	return cmd
}

func runExport(cmd *cobra.Command, flags exportFlags) error {
	if !contains(validExportFormats, flags.format) {
		return fmt.Errorf("invalid format %q, valid formats: %v", flags.format, validExportFormats)
	}

	ctx := cmd.Context()

	return withSnapshotService(func(snapshots *services.SnapshotService, _ *handlers.ImportHandler) error {
		snap, err := snapshots.Export(ctx, globalTree)
		if err != nil {
			return fmt.Errorf("exporting tree: %w", err)
		}

		if len(snap.Persons) == 0 {
			return fmt.Errorf("no persons found to export")
		}
		log.Debug("snapshot captured", "persons", len(snap.Persons), "edges", len(snap.Relationships))

		return writeExport(snap, flags)
	})
}

func writeExport(snap *services.Snapshot, flags exportFlags) (err error) {
	var w io.Writer
	var f *os.File

	if flags.output != "" {
		f, err = os.OpenFile(flags.output, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, 0644)
		if err != nil {
			return fmt.Errorf("creating file: %w", err)
		}
		defer func() {
			if cerr := f.Close(); cerr != nil && err == nil {
				err = fmt.Errorf("closing file: %w", cerr)
			}
		}()
		w = f
	} else {
		w = os.Stdout
	}

	switch flags.format {
	case "csv":
		err = formatPersonsCSV(w, snap)
	default:
		err = formatSnapshotJSON(w, snap)
	}
	if err != nil {
		return fmt.Errorf("formatting output: %w", err)
	}

	if flags.output != "" {
		fmt.Printf("Exported %d persons and %d edges to %s\n",
			len(snap.Persons), len(snap.Relationships), flags.output)
	}

	return nil
}

func formatSnapshotJSON(w io.Writer, snap *services.Snapshot) error {
	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	return encoder.Encode(snap)
}

func formatPersonsCSV(w io.Writer, snap *services.Snapshot) error {
	writer := csv.NewWriter(w)

	header := []string{"first_name", "last_name", "birth_date", "death_date", "birth_place", "occupation", "notes"}
	if err := writer.Write(header); err != nil {
		return err
	}

	for _, p := range snap.Persons {
		row := []string{
			p.FirstName,
			p.LastName,
			p.BirthDate,
			p.DeathDate,
			p.BirthPlace,
			p.Occupation,
			p.Notes,
		}
		if err := writer.Write(row); err != nil {
			return err
		}
	}

	writer.Flush()
	return writer.Error()
}
