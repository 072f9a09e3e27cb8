package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/emkern/kin-core/internal/application/handlers"
)

func newRelateCmd() *cobra.Command {
	var notes string

	cmd := &cobra.Command{
		Use:   "relate <from-person> <type> <to-person>",
		Short: "Create a relationship between two family members",
		Long: `Creates a relationship reading "from is TYPE of to". The inverse
direction is derived automatically and stays linked to the primary edge,
so deleting either removes both.

Valid relationship types:
  ` + strings.Join(handlers.ValidRelationTypes, ", ") + `

Examples:
  kin -t smith relate "Jane Smith" parent "Tom Smith"
  kin -t smith relate "Jane Smith" spouse "John Smith" --notes "married 1985"`,
		Args: cobra.ExactArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runRelate(cmd, args, notes)
		},
	}

	cmd.Flags().StringVar(&notes, "notes", "", "Free-form notes on the relationship")

	cmd.AddCommand(
		newRelateDeleteCmd(),
		newRelateListCmd(),
	)

	return cmd
}

func runRelate(cmd *cobra.Command, args []string, notes string) error {
	ctx := cmd.Context()
	fromName := args[0]
	relType := args[1]
	toName := args[2]

	return withDeps(func(d *Deps) error {
		pair, err := d.Relationships.HandleCreate(ctx, globalTree, fromName, relType, toName, notes)
		if err != nil {
			return fmt.Errorf("creating relationship: %w", err)
		}

		fmt.Printf("Created relationship: %s\n", pair.Primary.ID)
		fmt.Printf("  %s -[%s]-> %s\n", fromName, pair.Primary.Type, toName)
		if pair.Derived != nil {
			fmt.Printf("  %s -[%s]-> %s (derived)\n", toName, pair.Derived.Type, fromName)
		}

		return nil
	})
}

func newRelateDeleteCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "delete <relationship-id>",
		Short: "Delete a relationship pair",
		Long:  "Deletes a relationship by edge ID. The linked inverse edge is removed with it.",
		Args:  cobra.ExactArgs(1),
		RunE:  runRelateDelete,
	}
}

func runRelateDelete(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	edgeID := args[0]

	return withDeps(func(d *Deps) error {
		if err := d.Relationships.HandleDelete(ctx, globalTree, edgeID); err != nil {
			return fmt.Errorf("deleting relationship: %w", err)
		}

		fmt.Printf("Deleted relationship pair: %s\n", edgeID)
		return nil
	})
}

func newRelateListCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List all relationship pairs",
		RunE:  runRelateList,
	}
}

func runRelateList(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()

	return withDeps(func(d *Deps) error {
		infos, err := d.Relationships.HandleList(ctx, globalTree)
		if err != nil {
			return fmt.Errorf("listing relationships: %w", err)
		}

		if len(infos) == 0 {
			fmt.Println("No relationships yet.")
			return nil
		}

		for _, info := range infos {
			rel := info.Relationship
			fmt.Printf("%s  %s -[%s]-> %s (inverse: %s)\n",
				rel.ID, info.FromName, rel.Type, info.ToName, info.InverseType)
		}

		return nil
	})
}
