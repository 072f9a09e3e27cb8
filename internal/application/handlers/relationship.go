package handlers

import (
	"context"
	"fmt"

	"github.com/emkern/kin-core/internal/domain/entities"
	"github.com/emkern/kin-core/internal/domain/services"
)

// ValidRelationTypes lists all valid relationship type strings.
var ValidRelationTypes = []string{
	"spouse", "parent", "child", "sibling",
	"grandparent", "grandchild",
	"aunt-uncle", "niece-nephew",
	"cousin", "in-law", "other",
}

// RelationshipHandler handles relationship operations, resolving person
// names to ids before calling the ledger.
type RelationshipHandler struct {
	ledger  *services.Ledger
	persons *services.PersonService
}

// NewRelationshipHandler creates a new RelationshipHandler.
func NewRelationshipHandler(ledger *services.Ledger, persons *services.PersonService) *RelationshipHandler {
	return &RelationshipHandler{ledger: ledger, persons: persons}
}

// RelationshipInfo pairs an edge with the resolved person names and the
// inverse type, so listings can show both directions of the relationship.
type RelationshipInfo struct {
	Relationship entities.Relationship `json:"relationship"`
	FromName     string                `json:"from_name"`
	ToName       string                `json:"to_name"`
	InverseType  entities.RelationType `json:"inverse_type"`
}

// HandleCreate creates a relationship "from is relType of to", where both
// people are addressed by full name.
func (h *RelationshipHandler) HandleCreate(ctx context.Context, treeID, fromName, relType, toName, notes string) (*entities.Pair, error) {
	rt, err := ParseRelationType(relType)
	if err != nil {
		return nil, err
	}

	from, err := h.persons.GetByName(ctx, treeID, fromName)
	if err != nil {
		return nil, err
	}
	to, err := h.persons.GetByName(ctx, treeID, toName)
	if err != nil {
		return nil, err
	}

	return h.ledger.Add(ctx, treeID, from.ID, to.ID, rt, notes)
}

// HandleDelete removes the pair containing the given edge ID.
func (h *RelationshipHandler) HandleDelete(ctx context.Context, treeID, edgeID string) error {
	return h.ledger.Delete(ctx, treeID, edgeID)
}

// HandleList returns the primary edge of every pair with names resolved.
func (h *RelationshipHandler) HandleList(ctx context.Context, treeID string) ([]RelationshipInfo, error) {
	edges, err := h.ledger.PrimaryEdges(ctx, treeID)
	if err != nil {
		return nil, fmt.Errorf("listing relationships: %w", err)
	}
	return h.resolve(ctx, treeID, edges)
}

// HandleListFor returns every edge touching the named person, both roles,
// for the per-person relationship view.
func (h *RelationshipHandler) HandleListFor(ctx context.Context, treeID, personName string) ([]RelationshipInfo, error) {
	person, err := h.persons.GetByName(ctx, treeID, personName)
	if err != nil {
		return nil, err
	}

	edges, err := h.ledger.ListForPerson(ctx, treeID, person.ID)
	if err != nil {
		return nil, fmt.Errorf("listing relationships: %w", err)
	}
	return h.resolve(ctx, treeID, edges)
}

// HandleCount returns the number of relationship pairs in the tree.
func (h *RelationshipHandler) HandleCount(ctx context.Context, treeID string) (int, error) {
	return h.ledger.Count(ctx, treeID)
}

// resolve attaches person names and inverse labels to edges.
func (h *RelationshipHandler) resolve(ctx context.Context, treeID string, edges []entities.Relationship) ([]RelationshipInfo, error) {
	all, err := h.persons.List(ctx, treeID)
	if err != nil {
		return nil, fmt.Errorf("listing persons: %w", err)
	}
	names := make(map[string]string, len(all))
	for _, p := range all {
		names[p.ID] = p.FullName()
	}

	result := make([]RelationshipInfo, 0, len(edges))
	for i := range edges {
		result = append(result, RelationshipInfo{
			Relationship: edges[i],
			FromName:     names[edges[i].FromPersonID],
			ToName:       names[edges[i].ToPersonID],
			InverseType:  h.ledger.InverseLabel(&edges[i]),
		})
	}
	return result, nil
}

// ParseRelationType validates and converts a string to RelationType.
func ParseRelationType(s string) (entities.RelationType, error) {
	switch s {
	case "spouse":
		return entities.RelationSpouse, nil
	case "parent":
		return entities.RelationParent, nil
	case "child":
		return entities.RelationChild, nil
	case "sibling":
		return entities.RelationSibling, nil
	case "grandparent":
		return entities.RelationGrandparent, nil
	case "grandchild":
		return entities.RelationGrandchild, nil
	case "aunt-uncle":
		return entities.RelationAuntUncle, nil
	case "niece-nephew":
		return entities.RelationNieceNephew, nil
	case "cousin":
		return entities.RelationCousin, nil
	case "in-law":
		return entities.RelationInLaw, nil
	case "other":
		return entities.RelationOther, nil
	default:
		return "", fmt.Errorf("invalid relationship type: %s (valid: %v)", s, ValidRelationTypes)
	}
}
