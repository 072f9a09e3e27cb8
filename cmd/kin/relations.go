package main

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/emkern/kin-core/internal/application/handlers"
)

func newRelationsCmd() *cobra.Command {
	var format string

	cmd := &cobra.Command{
		Use:   "relations <full-name>",
		Short: "List relationships for a family member",
		Long: `Shows every relationship touching a person, including derived
inverse edges.

Examples:
  kin -t smith relations "Jane Smith"
  kin -t smith relations "Jane Smith" --format json`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runRelations(cmd, args[0], format)
		},
	}

	cmd.Flags().StringVar(&format, "format", "tree", "Output format: tree, list, json")

	return cmd
}

func runRelations(cmd *cobra.Command, personName, format string) error {
	ctx := cmd.Context()

	validFormats := map[string]bool{"tree": true, "list": true, "json": true}
	if !validFormats[format] {
		return fmt.Errorf("invalid format: %s (valid: tree, list, json)", format)
	}

	return withDeps(func(d *Deps) error {
		infos, err := d.Relationships.HandleListFor(ctx, globalTree, personName)
		if err != nil {
			return fmt.Errorf("listing relationships: %w", err)
		}

		if len(infos) == 0 {
			fmt.Printf("No relationships found for: %s\n", personName)
			return nil
		}

		return printRelations(personName, infos, format)
	})
}

func printRelations(personName string, infos []handlers.RelationshipInfo, format string) error {
	switch format {
	case "json":
		return printRelationsJSON(infos)
	case "list":
		return printRelationsList(personName, infos)
	default:
		return printRelationsTree(personName, infos)
	}
}

func printRelationsJSON(infos []handlers.RelationshipInfo) error {
	data, err := json.MarshalIndent(infos, "", "  ")
	if err != nil {
		return fmt.Errorf("marshaling JSON: %w", err)
	}
	fmt.Println(string(data))
	return nil
}

func printRelationsList(personName string, infos []handlers.RelationshipInfo) error {
	fmt.Printf("Relationships for %s:\n", personName)
	fmt.Println(strings.Repeat("-", 60))

	for _, info := range infos {
		rel := info.Relationship
		role := ""
		if !rel.IsPrimary() {
			role = " (derived)"
		}
		fmt.Printf("%s -[%s]-> %s%s\n", info.FromName, rel.Type, info.ToName, role)
	}
	return nil
}

func printRelationsTree(personName string, infos []handlers.RelationshipInfo) error {
	fmt.Printf("%s\n", personName)

	for i, info := range infos {
		rel := info.Relationship
		prefix := "+-"
		if i == len(infos)-1 {
			prefix = "\\-"
		}

		// Phrase the edge from the root person's point of view
		var line string
		if strings.EqualFold(info.FromName, personName) {
			line = fmt.Sprintf("%s of %s", rel.Type, info.ToName)
		} else {
			line = fmt.Sprintf("%s of %s", info.InverseType, info.FromName)
		}

		role := ""
		if !rel.IsPrimary() {
			role = " (derived)"
		}

		fmt.Printf("%s %s%s\n", prefix, line, role)
	}

	return nil
}
