package main

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/emkern/kin-core/internal/infrastructure/config"
	"github.com/emkern/kin-core/internal/infrastructure/relationaldb/sqlite"
)

func newTreesCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "trees",
		Short: "Manage family trees",
		RunE:  runTreesList,
	}

	cmd.AddCommand(
		newTreesListCmd(),
		newTreesCreateCmd(),
		newTreesDeleteCmd(),
	)

	return cmd
}

func newTreesListCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List all trees",
		RunE:  runTreesList,
	}
}

func runTreesList(cmd *cobra.Command, args []string) error {
	cwd, err := os.Getwd()
	if err != nil {
		return fmt.Errorf("getting current directory: %w", err)
	}

	trees, err := config.LoadTrees(cwd)
	if err != nil {
		return fmt.Errorf("loading trees: %w", err)
	}

	if len(trees.Trees) == 0 {
		fmt.Println("No trees configured.")
		fmt.Println("Use 'kin trees create NAME' to create a tree.")
		return nil
	}

	fmt.Printf("%-20s %-40s %s\n", "NAME", "DATABASE", "DESCRIPTION")
	fmt.Printf("%-20s %-40s %s\n", "----", "--------", "-----------")

	for name, tree := range trees.Trees {
		fmt.Printf("%-20s %-40s %s\n", name, tree.Database, tree.Description)
	}

	return nil
}

func newTreesCreateCmd() *cobra.Command {
	var description string

	cmd := &cobra.Command{
		Use:   "create NAME",
		Short: "Create a new tree",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runTreesCreate(cmd, args[0], description)
		},
	}

	cmd.Flags().StringVarP(&description, "description", "d", "", "Tree description")

	return cmd
}

func runTreesCreate(cmd *cobra.Command, name string, description string) error {
	ctx := cmd.Context()

	cwd, err := os.Getwd()
	if err != nil {
		return fmt.Errorf("getting current directory: %w", err)
	}

	// Initialize the config directory on first use
	if !config.Exists(cwd) {
		if err := config.WriteDefault(cwd); err != nil {
			return fmt.Errorf("initializing config: %w", err)
		}
		fmt.Printf("Initialized kin in %s\n", config.ConfigDir(cwd))
	}

	trees, err := config.LoadTrees(cwd)
	if err != nil {
		return fmt.Errorf("loading trees: %w", err)
	}

	if trees.Exists(name) {
		return fmt.Errorf("tree %q already exists", name)
	}

	dbPath := config.SQLitePathForTree(cwd, name)
	if err := os.MkdirAll(config.TreeDir(cwd, name), 0755); err != nil {
		return fmt.Errorf("creating tree directory: %w", err)
	}

	if err := createTreeDatabase(ctx, dbPath); err != nil {
		return fmt.Errorf("creating tree database: %w", err)
	}

	trees.Add(name, config.TreeEntry{
		Database:    dbPath,
		Description: description,
	})
	if err := trees.Save(cwd); err != nil {
		return fmt.Errorf("saving trees config: %w", err)
	}

	fmt.Printf("Created tree %q with database %q\n", name, dbPath)

	return nil
}

// createTreeDatabase opens the database once so the schema exists up front.
func createTreeDatabase(ctx context.Context, path string) error {
	db, err := sqlite.NewRepository(config.SQLiteConfig{Path: path})
	if err != nil {
		return err
	}
	defer db.Close()

	return db.EnsureSchema(ctx)
}

func newTreesDeleteCmd() *cobra.Command {
	var force bool

	cmd := &cobra.Command{
		Use:   "delete NAME",
		Short: "Delete a tree",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runTreesDelete(cmd, args[0], force)
		},
	}

	cmd.Flags().BoolVarP(&force, "force", "f", false, "Delete even if the tree contains persons")

	return cmd
}

func runTreesDelete(cmd *cobra.Command, name string, force bool) error {
	ctx := cmd.Context()

	cwd, err := os.Getwd()
	if err != nil {
		return fmt.Errorf("getting current directory: %w", err)
	}

	trees, err := config.LoadTrees(cwd)
	if err != nil {
		return fmt.Errorf("loading trees: %w", err)
	}

	entry, err := trees.Get(name)
	if err != nil {
		return err
	}

	if !force {
		count, err := countTreePersons(ctx, entry.Database, name)
		if err == nil && count > 0 {
			return fmt.Errorf("tree %q contains %d persons, use --force to delete", name, count)
		}
	}

	if err := os.RemoveAll(config.TreeDir(cwd, name)); err != nil {
		fmt.Printf("Warning: could not delete tree directory: %v\n", err)
	}

	trees.Remove(name)
	if err := trees.Save(cwd); err != nil {
		return fmt.Errorf("saving trees config: %w", err)
	}

	fmt.Printf("Deleted tree %q\n", name)

	return nil
}

func countTreePersons(ctx context.Context, dbPath, treeID string) (int, error) {
	db, err := sqlite.NewRepository(config.SQLiteConfig{Path: dbPath})
	if err != nil {
		return 0, err
	}
	defer db.Close()

	if err := db.EnsureSchema(ctx); err != nil {
		return 0, err
	}
	return db.CountPersons(ctx, treeID)
}
