package goaltree

import (
	"errors"
	"fmt"

	"github.com/alexanderramin/timeweave/internal/domain"
)

var (
	ErrParentCycle     = errors.New("parent cycle")
	ErrBranchingChain  = errors.New("branching dependency chain")
	ErrDependencyCycle = errors.New("dependency cycle")
)

// CheckParents returns an error for every item whose ancestry loops.
func CheckParents(items []domain.PlannerItem) error {
	parent := make(map[string]string, len(items))
	for _, it := range items {
		if it.ParentID != nil {
			parent[it.ID] = *it.ParentID
		}
	}

	var errs []error
	for _, it := range items {
		cur := it.ID
		for steps := 0; ; steps++ {
			p, ok := parent[cur]
			if !ok {
				break
			}
			if p == it.ID || steps > len(items) {
				errs = append(errs, fmt.Errorf("item %s: %w", it.ID, ErrParentCycle))
				break
			}
			cur = p
		}
	}
	return errors.Join(errs...)
}

// CheckChains verifies that the sibling dependencies of every group form at
// most one linked chain: no item has two followers and no chain loops.
// Dependencies that leave the group are ignored; repair them first.
func CheckChains(items []domain.PlannerItem) error {
	groups := make(map[string][]domain.PlannerItem)
	var order []string
	for _, it := range items {
		key := it.ParentIDValue()
		if _, ok := groups[key]; !ok {
			order = append(order, key)
		}
		groups[key] = append(groups[key], it)
	}

	var errs []error
	for _, key := range order {
		errs = append(errs, checkGroup(groups[key])...)
	}
	return errors.Join(errs...)
}

func checkGroup(group []domain.PlannerItem) []error {
	dep := make(map[string]string, len(group))
	for _, it := range group {
		dep[it.ID] = ""
	}
	followers := make(map[string][]string)
	for _, it := range group {
		d := it.DependencyValue()
		if _, sibling := dep[d]; d == "" || d == it.ID || !sibling {
			continue
		}
		dep[it.ID] = d
		followers[d] = append(followers[d], it.ID)
	}

	var errs []error
	for _, it := range group {
		if f := followers[it.ID]; len(f) > 1 {
			errs = append(errs, fmt.Errorf("item %s is followed by %v: %w", it.ID, f, ErrBranchingChain))
		}
	}

	reported := make(map[string]bool)
	for _, it := range group {
		seen := map[string]bool{it.ID: true}
		for cur := dep[it.ID]; cur != ""; cur = dep[cur] {
			if seen[cur] {
				if !reported[cur] {
					errs = append(errs, fmt.Errorf("item %s: %w", cur, ErrDependencyCycle))
					markCycle(dep, cur, reported)
				}
				break
			}
			seen[cur] = true
		}
	}
	return errs
}

func markCycle(dep map[string]string, start string, reported map[string]bool) {
	for cur := start; !reported[cur]; cur = dep[cur] {
		reported[cur] = true
	}
}
