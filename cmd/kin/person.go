package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/emkern/kin-core/internal/application/handlers"
	"github.com/emkern/kin-core/internal/domain/entities"
)

type personFlags struct {
	born       string
	died       string
	place      string
	occupation string
	notes      string
}

func (f *personFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVar(&f.born, "born", "", "Birth date (YYYY-MM-DD)")
	cmd.Flags().StringVar(&f.died, "died", "", "Death date (YYYY-MM-DD)")
	cmd.Flags().StringVar(&f.place, "place", "", "Birth place")
	cmd.Flags().StringVar(&f.occupation, "occupation", "", "Occupation")
	cmd.Flags().StringVar(&f.notes, "notes", "", "Free-form notes")
}

func (f *personFlags) input(first, last string) handlers.PersonInput {
	return handlers.PersonInput{
		FirstName:  first,
		LastName:   last,
		BirthDate:  f.born,
		DeathDate:  f.died,
		BirthPlace: f.place,
		Occupation: f.occupation,
		Notes:      f.notes,
	}
}

func newPersonCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "person",
		Short: "Manage family members",
	}

	cmd.AddCommand(
		newPersonAddCmd(),
		newPersonEditCmd(),
		newPersonDeleteCmd(),
		newPersonShowCmd(),
		newPersonListCmd(),
		newPersonSearchCmd(),
	)

	return cmd
}

func newPersonAddCmd() *cobra.Command {
	var flags personFlags

	cmd := &cobra.Command{
		Use:   "add <first-name> <last-name>",
		Short: "Add a family member",
		Long: `Adds a new family member to the tree.

Examples:
  kin -t smith person add Jane Smith --born 1960-04-12
  kin -t smith person add John Smith --place "Boston" --occupation carpenter`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runPersonAdd(cmd, args, flags)
		},
	}

	flags.register(cmd)

	return cmd
}

func runPersonAdd(cmd *cobra.Command, args []string, flags personFlags) error {
	ctx := cmd.Context()

	return withDeps(func(d *Deps) error {
		person, err := d.Persons.HandleAdd(ctx, globalTree, flags.input(args[0], args[1]))
		if err != nil {
			return fmt.Errorf("adding person: %w", err)
		}

		fmt.Printf("Added %s (%s)\n", person.FullName(), person.ID)
		return nil
	})
}

func newPersonEditCmd() *cobra.Command {
	var flags personFlags
	var first, last string

	cmd := &cobra.Command{
		Use:   "edit <full-name>",
		Short: "Edit a family member",
		Long:  "Edits an existing family member. Only the given flags change; everything else is kept.",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runPersonEdit(cmd, args[0], first, last, flags)
		},
	}

	cmd.Flags().StringVar(&first, "first", "", "New first name")
	cmd.Flags().StringVar(&last, "last", "", "New last name")
	flags.register(cmd)

	return cmd
}

func runPersonEdit(cmd *cobra.Command, name, first, last string, flags personFlags) error {
	ctx := cmd.Context()

	return withDeps(func(d *Deps) error {
		person, err := d.Persons.HandleEdit(ctx, globalTree, name, flags.input(first, last))
		if err != nil {
			return fmt.Errorf("editing person: %w", err)
		}

		fmt.Printf("Updated %s\n", person.FullName())
		return nil
	})
}

func newPersonDeleteCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "delete <full-name>",
		Short: "Delete a family member",
		Long:  "Deletes a family member and every relationship touching them.",
		Args:  cobra.ExactArgs(1),
		RunE:  runPersonDelete,
	}
}

func runPersonDelete(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	name := args[0]

	return withDeps(func(d *Deps) error {
		if err := d.Persons.HandleDelete(ctx, globalTree, name); err != nil {
			return fmt.Errorf("deleting person: %w", err)
		}

		fmt.Printf("Deleted %s and their relationships\n", name)
		return nil
	})
}

func newPersonShowCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "show <full-name>",
		Short: "Show a family member",
		Args:  cobra.ExactArgs(1),
		RunE:  runPersonShow,
	}
}

func runPersonShow(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	name := args[0]

	return withDeps(func(d *Deps) error {
		person, err := d.Persons.HandleShow(ctx, globalTree, name)
		if err != nil {
			return fmt.Errorf("showing person: %w", err)
		}

		printPerson(person)
		return nil
	})
}

func printPerson(p *entities.Person) {
	fmt.Printf("%s\n", p.FullName())
	fmt.Printf("%s\n", strings.Repeat("-", len(p.FullName())))
	fmt.Printf("  ID:         %s\n", p.ID)
	if p.BirthDate != "" {
		fmt.Printf("  Born:       %s\n", p.BirthDate)
	}
	if p.DeathDate != "" {
		fmt.Printf("  Died:       %s\n", p.DeathDate)
	}
	if p.BirthPlace != "" {
		fmt.Printf("  Place:      %s\n", p.BirthPlace)
	}
	if p.Occupation != "" {
		fmt.Printf("  Occupation: %s\n", p.Occupation)
	}
	if p.Notes != "" {
		fmt.Printf("  Notes:      %s\n", p.Notes)
	}
}

func newPersonListCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List all family members",
		RunE:  runPersonList,
	}
}

func runPersonList(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()

	return withDeps(func(d *Deps) error {
		persons, err := d.Persons.HandleList(ctx, globalTree)
		if err != nil {
			return fmt.Errorf("listing persons: %w", err)
		}

		if len(persons) == 0 {
			fmt.Println("No family members yet.")
			return nil
		}

		printPersonTable(persons)
		return nil
	})
}

func newPersonSearchCmd() *cobra.Command {
	var limit int

	cmd := &cobra.Command{
		Use:   "search <query>",
		Short: "Search family members",
		Long:  "Searches names, birth places and occupations for a substring.",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runPersonSearch(cmd, args[0], limit)
		},
	}

	cmd.Flags().IntVarP(&limit, "limit", "l", DefaultSearchLimit, "Maximum number of results")

	return cmd
}

func runPersonSearch(cmd *cobra.Command, query string, limit int) error {
	ctx := cmd.Context()

	return withDeps(func(d *Deps) error {
		persons, err := d.Persons.HandleSearch(ctx, globalTree, query, limit)
		if err != nil {
			return fmt.Errorf("searching persons: %w", err)
		}

		if len(persons) == 0 {
			fmt.Printf("No matches for %q\n", query)
			return nil
		}

		printPersonTable(persons)
		return nil
	})
}

func printPersonTable(persons []*entities.Person) {
	fmt.Printf("%-25s %-12s %-12s %s\n", "NAME", "BORN", "DIED", "OCCUPATION")
	fmt.Printf("%-25s %-12s %-12s %s\n", "----", "----", "----", "----------")
	for _, p := range persons {
		fmt.Printf("%-25s %-12s %-12s %s\n", p.FullName(), p.BirthDate, p.DeathDate, p.Occupation)
	}
}
