package ports

import "github.com/emkern/kin-core/internal/domain/entities"

// LayoutEngine computes 2-D coordinates for a projected graph. The
// projector only produces nodes, edges and labels; geometry belongs here.
// Implementations must be deterministic for a fixed configuration.
type LayoutEngine interface {
	Layout(graph *entities.Graph) map[string]entities.Point
}
