// Package layout provides a deterministic force-directed graph layout.
package layout

import (
	"math"
	"math/rand"

	"github.com/emkern/kin-core/internal/domain/entities"
	"github.com/emkern/kin-core/internal/infrastructure/config"
)

// Engine computes node positions with a Fruchterman-Reingold spring
// simulation. The same seed always produces the same layout.
type Engine struct {
	iterations int
	spring     float64
	seed       int64
}

// New creates a layout engine from configuration. Zero values fall back
// to the defaults.
func New(cfg config.LayoutConfig) *Engine {
	e := &Engine{
		iterations: cfg.Iterations,
		spring:     cfg.Spring,
		seed:       cfg.Seed,
	}
	if e.iterations <= 0 {
		e.iterations = 50
	}
	if e.spring <= 0 {
		e.spring = 3
	}
	return e
}

// Layout computes a position for every node in the graph.
func (e *Engine) Layout(g *entities.Graph) map[string]entities.Point {
	positions := make(map[string]entities.Point, len(g.Nodes))
	n := len(g.Nodes)
	if n == 0 {
		return positions
	}

	ids := make([]string, n)
	index := make(map[string]int, n)
	for i, node := range g.Nodes {
		ids[i] = node.ID
		index[node.ID] = i
	}

	if n == 1 {
		positions[ids[0]] = entities.Point{}
		return positions
	}

	// Seeded initial placement keeps layouts reproducible across runs
	rng := rand.New(rand.NewSource(e.seed))
	xs := make([]float64, n)
	ys := make([]float64, n)
	for i := range xs {
		xs[i] = rng.Float64()*2 - 1
		ys[i] = rng.Float64()*2 - 1
	}

	// Edges as index pairs; edges to unknown nodes are ignored
	type edge struct{ a, b int }
	edges := make([]edge, 0, len(g.Edges))
	for _, ge := range g.Edges {
		a, okA := index[ge.FromID]
		b, okB := index[ge.ToID]
		if okA && okB && a != b {
			edges = append(edges, edge{a, b})
		}
	}

	k := e.spring / math.Sqrt(float64(n))
	temp := 0.1
	cooling := temp / float64(e.iterations+1)

	dx := make([]float64, n)
	dy := make([]float64, n)

	for iter := 0; iter < e.iterations; iter++ {
		for i := range dx {
			dx[i] = 0
			dy[i] = 0
		}

		// Repulsion between every node pair
		for i := 0; i < n; i++ {
			for j := i + 1; j < n; j++ {
				ddx := xs[i] - xs[j]
				ddy := ys[i] - ys[j]
				dist := math.Hypot(ddx, ddy)
				if dist < 1e-9 {
					dist = 1e-9
				}
				force := k * k / dist
				fx := ddx / dist * force
				fy := ddy / dist * force
				dx[i] += fx
				dy[i] += fy
				dx[j] -= fx
				dy[j] -= fy
			}
		}

		// Attraction along edges
		for _, ed := range edges {
			ddx := xs[ed.a] - xs[ed.b]
			ddy := ys[ed.a] - ys[ed.b]
			dist := math.Hypot(ddx, ddy)
			if dist < 1e-9 {
				dist = 1e-9
			}
			force := dist * dist / k
			fx := ddx / dist * force
			fy := ddy / dist * force
			dx[ed.a] -= fx
			dy[ed.a] -= fy
			dx[ed.b] += fx
			dy[ed.b] += fy
		}

		// Move nodes, capped by the cooling temperature
		for i := 0; i < n; i++ {
			disp := math.Hypot(dx[i], dy[i])
			if disp < 1e-9 {
				continue
			}
			limited := math.Min(disp, temp)
			xs[i] += dx[i] / disp * limited
			ys[i] += dy[i] / disp * limited
		}

		temp -= cooling
		if temp < 0 {
			temp = 0
		}
	}

	for i, id := range ids {
		positions[id] = entities.Point{X: xs[i], Y: ys[i]}
	}
	return positions
}
