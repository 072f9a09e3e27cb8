package main

import (
	"encoding/json"
	"fmt"
	"sort"
	"strings"

	"github.com/spf13/cobra"

	"github.com/emkern/kin-core/internal/domain/services"
)

func newStatsCmd() *cobra.Command {
	var topN int
	var format string

	cmd := &cobra.Command{
		Use:   "stats",
		Short: "Show statistics for the tree",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runStats(cmd, topN, format)
		},
	}

	cmd.Flags().IntVar(&topN, "top", DefaultStatsTopN, "Rows in the birth-place and occupation tables")
	cmd.Flags().StringVar(&format, "format", "text", "Output format: text, json")

	return cmd
}

func runStats(cmd *cobra.Command, topN int, format string) error {
	ctx := cmd.Context()

	if format != "text" && format != "json" {
		return fmt.Errorf("invalid format: %s (valid: text, json)", format)
	}

	return withStatsService(func(svc *services.StatsService) error {
		stats, err := svc.Report(ctx, globalTree, topN)
		if err != nil {
			return fmt.Errorf("building report: %w", err)
		}

		if format == "json" {
			data, err := json.MarshalIndent(stats, "", "  ")
			if err != nil {
				return fmt.Errorf("marshaling JSON: %w", err)
			}
			fmt.Println(string(data))
			return nil
		}

		printStats(stats)
		return nil
	})
}

func printStats(stats *services.Stats) {
	fmt.Printf("Members:       %d (%d living, %d deceased)\n",
		stats.TotalMembers, stats.LivingMembers, stats.DeceasedMembers)
	fmt.Printf("Relationships: %d\n", stats.TotalRelationships)

	printCountTable("Birth places", stats.BirthPlaces)
	printCountTable("Occupations", stats.Occupations)
	printCountTable("Relationship types", stats.RelationshipTypes)

	if len(stats.BirthYears) > 0 {
		years := make([]int, 0, len(stats.BirthYears))
		for y := range stats.BirthYears {
			years = append(years, y)
		}
		sort.Ints(years)

		fmt.Println("\nBirth years:")
		for _, y := range years {
			fmt.Printf("  %d: %d\n", y, stats.BirthYears[y])
		}
	}

	if len(stats.RootGeneration) > 0 {
		fmt.Printf("\nRoot generation: %s\n", strings.Join(stats.RootGeneration, ", "))
	}
	if len(stats.NextGeneration) > 0 {
		fmt.Printf("Next generation: %s\n", strings.Join(stats.NextGeneration, ", "))
	}
}

func printCountTable(label string, entries []services.CountEntry) {
	if len(entries) == 0 {
		return
	}
	fmt.Printf("\n%s:\n", label)
	for _, e := range entries {
		fmt.Printf("  %-25s %d\n", e.Value, e.Count)
	}
}
