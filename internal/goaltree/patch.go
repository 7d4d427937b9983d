package goaltree

import (
	"fmt"

	"github.com/alexanderramin/timeweave/internal/domain"
)

type Field string

const (
	FieldID         Field = "id"
	FieldDependency Field = "dependency"
	FieldParentID   Field = "parent_id"
)

// MatchKey selects every item whose Field equals Value.
type MatchKey struct {
	Field Field
	Value string
}

func (k MatchKey) Matches(p domain.PlannerItem) bool {
	switch k.Field {
	case FieldID:
		return p.ID == k.Value
	case FieldDependency:
		return p.Dependency != nil && *p.Dependency == k.Value
	case FieldParentID:
		return p.ParentID != nil && *p.ParentID == k.Value
	}
	return false
}

type Op string

const (
	OpClearDependency Op = "clear_dependency"
	OpClearParent     Op = "clear_parent"
)

// Patch is one repair record: apply Op to every item matching Match.
// Reason is the user-facing warning.
type Patch struct {
	Match  MatchKey
	Op     Op
	Reason string
}

// Apply returns a copy of items with every patch applied in order.
func Apply(items []domain.PlannerItem, patches []Patch) []domain.PlannerItem {
	out := append([]domain.PlannerItem(nil), items...)
	for _, p := range patches {
		for i := range out {
			if !p.Match.Matches(out[i]) {
				continue
			}
			switch p.Op {
			case OpClearDependency:
				out[i].Dependency = nil
			case OpClearParent:
				out[i].ParentID = nil
			default:
				panic(fmt.Sprintf("goaltree: unknown patch op %q", p.Op))
			}
		}
	}
	return out
}

// RepairParents clears parent references to ids that do not exist, turning
// the orphans into top-level items.
func RepairParents(items []domain.PlannerItem) []Patch {
	known := make(map[string]bool, len(items))
	for _, it := range items {
		known[it.ID] = true
	}
	var patches []Patch
	reported := make(map[string]bool)
	for _, it := range items {
		parent := it.ParentIDValue()
		if parent == "" || known[parent] || reported[parent] {
			continue
		}
		reported[parent] = true
		patches = append(patches, Patch{
			Match:  MatchKey{Field: FieldParentID, Value: parent},
			Op:     OpClearParent,
			Reason: fmt.Sprintf("unknown parent %s; its children are treated as top-level", parent),
		})
	}
	return patches
}

// RepairDependencies clears dependencies that point at themselves, at a
// missing item or at an item outside the sibling group.
func RepairDependencies(items []domain.PlannerItem) []Patch {
	byID := make(map[string]domain.PlannerItem, len(items))
	for _, it := range items {
		if _, dup := byID[it.ID]; !dup {
			byID[it.ID] = it
		}
	}

	var patches []Patch
	dangling := make(map[string]bool)
	for _, it := range items {
		dep := it.DependencyValue()
		if dep == "" {
			continue
		}
		target, ok := byID[dep]
		switch {
		case dep == it.ID:
			patches = append(patches, Patch{
				Match:  MatchKey{Field: FieldID, Value: it.ID},
				Op:     OpClearDependency,
				Reason: fmt.Sprintf("item %s depends on itself; dependency cleared", it.ID),
			})
		case !ok:
			if dangling[dep] {
				continue
			}
			dangling[dep] = true
			patches = append(patches, Patch{
				Match:  MatchKey{Field: FieldDependency, Value: dep},
				Op:     OpClearDependency,
				Reason: fmt.Sprintf("dependency %s does not exist; cleared on its dependents", dep),
			})
		case target.ParentIDValue() != it.ParentIDValue():
			patches = append(patches, Patch{
				Match:  MatchKey{Field: FieldID, Value: it.ID},
				Op:     OpClearDependency,
				Reason: fmt.Sprintf("item %s depends on %s which is not a sibling; dependency cleared", it.ID, dep),
			})
		}
	}
	return patches
}
