// Package goaltree answers structural questions about a planner list: sibling
// chain order, the leaf layer of a goal and completion. Every function works
// on copies; no caller's item is modified.
package goaltree

import (
	"github.com/alexanderramin/timeweave/internal/domain"
)

type Tree struct {
	items    []domain.PlannerItem
	byID     map[string]int
	children map[string][]int
}

// New indexes items by id and parent. Later duplicates of an id are ignored.
func New(items []domain.PlannerItem) *Tree {
	t := &Tree{
		items:    append([]domain.PlannerItem(nil), items...),
		byID:     make(map[string]int, len(items)),
		children: make(map[string][]int),
	}
	for i, it := range t.items {
		if _, dup := t.byID[it.ID]; dup {
			continue
		}
		t.byID[it.ID] = i
	}
	for i, it := range t.items {
		if it.ParentID != nil {
			t.children[*it.ParentID] = append(t.children[*it.ParentID], i)
		}
	}
	return t
}

func (t *Tree) Item(id string) (domain.PlannerItem, bool) {
	i, ok := t.byID[id]
	if !ok {
		return domain.PlannerItem{}, false
	}
	return t.items[i], true
}

// Children returns the direct children of parentID in chain order.
func (t *Tree) Children(parentID string) []domain.PlannerItem {
	idx := t.children[parentID]
	group := make([]domain.PlannerItem, len(idx))
	for i, j := range idx {
		group[i] = t.items[j]
	}
	return OrderSiblings(group)
}

func (t *Tree) HasChildren(id string) bool {
	return len(t.children[id]) > 0
}

// BottomLayer returns the actionable leaves under goalID, depth first with
// every sibling group in chain order. A goal without children is its own
// single leaf.
func (t *Tree) BottomLayer(goalID string) []domain.PlannerItem {
	var out []domain.PlannerItem
	seen := make(map[string]bool)
	var visit func(id string)
	visit = func(id string) {
		if seen[id] {
			return
		}
		seen[id] = true
		if !t.HasChildren(id) {
			if it, ok := t.Item(id); ok {
				out = append(out, it)
			}
			return
		}
		for _, c := range t.Children(id) {
			visit(c.ID)
		}
	}
	visit(goalID)
	return out
}

// IsCompleted reports whether the item carries both completion timestamps,
// or, for a goal with children, whether every leaf beneath it does.
func (t *Tree) IsCompleted(id string) bool {
	it, ok := t.Item(id)
	if !ok {
		return false
	}
	if it.IsCompleted() {
		return true
	}
	if !t.HasChildren(id) {
		return false
	}
	for _, leaf := range t.BottomLayer(id) {
		if !leaf.IsCompleted() {
			return false
		}
	}
	return true
}

// OrderSiblings sorts one sibling group along its dependency chain. Heads
// (items whose dependency is unset or outside the group) keep input order;
// anything unreachable from a head, i.e. a cycle, is appended in input order.
func OrderSiblings(group []domain.PlannerItem) []domain.PlannerItem {
	inGroup := make(map[string]bool, len(group))
	for _, it := range group {
		inGroup[it.ID] = true
	}

	next := make(map[string][]int)
	var heads []int
	for i, it := range group {
		dep := it.DependencyValue()
		if dep == "" || dep == it.ID || !inGroup[dep] {
			heads = append(heads, i)
			continue
		}
		next[dep] = append(next[dep], i)
	}

	out := make([]domain.PlannerItem, 0, len(group))
	seen := make([]bool, len(group))
	var walk func(i int)
	walk = func(i int) {
		if seen[i] {
			return
		}
		seen[i] = true
		out = append(out, group[i])
		for _, n := range next[group[i].ID] {
			walk(n)
		}
	}
	for _, h := range heads {
		walk(h)
	}
	for i := range group {
		walk(i)
	}
	return out
}
