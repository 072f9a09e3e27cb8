package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/emkern/kin-core/internal/domain/entities"
	"github.com/emkern/kin-core/internal/domain/services"
)

func newGenerationsCmd() *cobra.Command {
	var all bool

	cmd := &cobra.Command{
		Use:   "generations",
		Short: "Infer generations from parent relationships",
		Long: `Infers generation tiers from primary parent edges. The root tier
holds everyone who is not anyone's child; the next tier holds their
children. With --all the inference continues down the whole tree.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runGenerations(cmd, all)
		},
	}

	cmd.Flags().BoolVar(&all, "all", false, "Infer every tier, not just the first two")

	return cmd
}

func runGenerations(cmd *cobra.Command, all bool) error {
	ctx := cmd.Context()

	return withInternalDeps(func(d *internalDeps) error {
		persons, err := d.db.ListPersons(ctx, globalTree)
		if err != nil {
			return fmt.Errorf("listing persons: %w", err)
		}
		if len(persons) == 0 {
			fmt.Println("No family members yet.")
			return nil
		}

		personIDs := make([]string, 0, len(persons))
		names := make(map[string]string, len(persons))
		for _, p := range persons {
			personIDs = append(personIDs, p.ID)
			names[p.ID] = p.FullName()
		}

		primaries, err := d.db.ListRelationshipsByRole(ctx, globalTree, entities.RolePrimary)
		if err != nil {
			return fmt.Errorf("listing relationships: %w", err)
		}
		parentEdges := make([]entities.Relationship, 0, len(primaries))
		for _, e := range primaries {
			if e.Type == entities.RelationParent {
				parentEdges = append(parentEdges, e)
			}
		}

		if all {
			tiers := services.AllTiers(personIDs, parentEdges)
			if tiers == nil {
				fmt.Println("No root generation found (every person is someone's child).")
				return nil
			}
			for i, tier := range tiers {
				printTier(fmt.Sprintf("Generation %d", i+1), tier, names)
			}
			return nil
		}

		tiers := services.InferGenerations(personIDs, parentEdges)
		printTier("Root generation", tiers.Root, names)
		printTier("Next generation", tiers.Next, names)
		return nil
	})
}

func printTier(label string, ids []string, names map[string]string) {
	resolved := make([]string, 0, len(ids))
	for _, id := range ids {
		if name, ok := names[id]; ok {
			resolved = append(resolved, name)
		}
	}
	if len(resolved) == 0 {
		fmt.Printf("%s: (none)\n", label)
		return
	}
	fmt.Printf("%s: %s\n", label, strings.Join(resolved, ", "))
}
