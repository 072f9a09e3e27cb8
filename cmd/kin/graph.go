package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/emkern/kin-core/internal/domain/entities"
	"github.com/emkern/kin-core/internal/domain/ports"
	"github.com/emkern/kin-core/internal/domain/services"
	"github.com/emkern/kin-core/internal/infrastructure/config"
	"github.com/emkern/kin-core/internal/infrastructure/layout"
)

type graphFlags struct {
	format     string
	output     string
	withLayout bool
}

func newGraphCmd() *cobra.Command {
	var flags graphFlags

	cmd := &cobra.Command{
		Use:   "graph",
		Short: "Project the tree as a graph",
		Long: `Projects the tree as a graph of persons and primary relationship
edges. Each pair contributes one edge labeled with both directions.

Examples:
  kin -t smith graph --format dot -o tree.dot
  kin -t smith graph --format json --layout`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runGraph(cmd, flags)
		},
	}

	cmd.Flags().StringVarP(&flags.format, "format", "f", "dot", "Output format (dot, json)")
	cmd.Flags().StringVarP(&flags.output, "output", "o", "", "Output file (default: stdout)")
	cmd.Flags().BoolVar(&flags.withLayout, "layout", false, "Compute node positions with the spring layout")

	return cmd
}

// layoutEngine builds the configured layout engine.
func layoutEngine(cfg *config.Config) ports.LayoutEngine {
	return layout.New(cfg.Layout)
}

func runGraph(cmd *cobra.Command, flags graphFlags) error {
	if !contains(validGraphFormats, flags.format) {
		return fmt.Errorf("invalid format %q, valid formats: %v", flags.format, validGraphFormats)
	}

	ctx := cmd.Context()

	return withGraph(func(projector *services.GraphProjector, engine ports.LayoutEngine) error {
		graph, err := projector.Project(ctx, globalTree)
		if err != nil {
			return fmt.Errorf("projecting graph: %w", err)
		}

		var positions map[string]entities.Point
		if flags.withLayout {
			positions = engine.Layout(graph)
			log.Debug("computed layout", "nodes", len(graph.Nodes), "edges", len(graph.Edges))
		}

		return writeGraph(graph, positions, flags)
	})
}

func writeGraph(graph *entities.Graph, positions map[string]entities.Point, flags graphFlags) (err error) {
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
	case "json":
		err = formatGraphJSON(w, graph, positions)
	default:
		err = formatGraphDOT(w, graph, positions)
	}
	if err != nil {
		return fmt.Errorf("formatting graph: %w", err)
	}

	if flags.output != "" {
		fmt.Printf("Wrote graph with %d nodes and %d edges to %s\n",
			len(graph.Nodes), len(graph.Edges), flags.output)
	}

	return nil
}

func formatGraphJSON(w io.Writer, graph *entities.Graph, positions map[string]entities.Point) error {
	type jsonNode struct {
		entities.GraphNode
		X *float64 `json:"x,omitempty"`
		Y *float64 `json:"y,omitempty"`
	}
	type jsonGraph struct {
		Nodes []jsonNode           `json:"nodes"`
		Edges []entities.GraphEdge `json:"edges"`
	}

	out := jsonGraph{
		Nodes: make([]jsonNode, 0, len(graph.Nodes)),
		Edges: graph.Edges,
	}
	for _, n := range graph.Nodes {
		jn := jsonNode{GraphNode: n}
		if p, ok := positions[n.ID]; ok {
			x, y := p.X, p.Y
			jn.X = &x
			jn.Y = &y
		}
		out.Nodes = append(out.Nodes, jn)
	}

	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	return encoder.Encode(out)
}

func formatGraphDOT(w io.Writer, graph *entities.Graph, positions map[string]entities.Point) error {
	if _, err := fmt.Fprintln(w, "graph kin {"); err != nil {
		return err
	}

	for _, n := range graph.Nodes {
		attrs := fmt.Sprintf("label=%q", n.Name)
		if p, ok := positions[n.ID]; ok {
			attrs += fmt.Sprintf(", pos=\"%.4f,%.4f!\"", p.X, p.Y)
		}
		if _, err := fmt.Fprintf(w, "  %q [%s];\n", n.ID, attrs); err != nil {
			return err
		}
	}

	for _, e := range graph.Edges {
		if _, err := fmt.Fprintf(w, "  %q -- %q [label=%q];\n", e.FromID, e.ToID, e.Label); err != nil {
			return err
		}
	}

	_, err := fmt.Fprintln(w, "}")
	return err
}

func contains(slice []string, item string) bool {
	for _, s := range slice {
		if s == item {
			return true
		}
	}
	return false
}
