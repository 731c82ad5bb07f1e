// Package graph computes derived state over an immutable task snapshot:
// per-task execution status, the critical path, and related-task closures.
//
// All functions are pure. They validate the snapshot, allocate their own
// working state per call, and never mutate the input, so concurrent callers
// are safe as long as each call gets its own snapshot.
package graph

import (
	"sort"

	"github.com/taskpath/taskpath/internal/domain"
)

// index is the per-call view of a snapshot: tasks by id plus the downstream
// adjacency (parent id -> ids of tasks that depend on it).
type index struct {
	tasks      map[int64]*domain.Task
	downstream map[int64][]int64
	ids        []int64 // all task ids, ascending
}

// buildIndex validates the snapshot and builds lookup structures.
// A task that depends on itself or references a task id absent from the
// snapshot is a data error and fails the whole computation.
func buildIndex(tasks []domain.Task) (*index, error) {
	ix := &index{
		tasks:      make(map[int64]*domain.Task, len(tasks)),
		downstream: make(map[int64][]int64),
		ids:        make([]int64, 0, len(tasks)),
	}

	for i := range tasks {
		t := &tasks[i]
		ix.tasks[t.ID] = t
		ix.ids = append(ix.ids, t.ID)
	}
	sort.Slice(ix.ids, func(a, b int) bool { return ix.ids[a] < ix.ids[b] })

	var invalid []int64
	var reason string
	for _, id := range ix.ids {
		t := ix.tasks[id]
		for _, dep := range t.DependsOn {
			if dep == t.ID {
				invalid = append(invalid, t.ID)
				reason = "task depends on itself"
				continue
			}
			if _, ok := ix.tasks[dep]; !ok {
				invalid = append(invalid, t.ID)
				reason = "dependency references a nonexistent task"
				continue
			}
			ix.downstream[dep] = append(ix.downstream[dep], t.ID)
		}
	}
	if len(invalid) > 0 {
		return nil, domain.NewInvalidGraphError(invalid, reason)
	}

	// Deterministic traversal order for tie-breaking.
	for _, children := range ix.downstream {
		sort.Slice(children, func(a, b int) bool { return children[a] < children[b] })
	}

	return ix, nil
}

// detectCycle runs a depth-first search over dependsOn edges and returns the
// task ids forming a cycle, or nil if the graph is acyclic. Nodes are visited
// in ascending id order so the reported cycle is deterministic.
func (ix *index) detectCycle() []int64 {
	const (
		unvisited = 0
		inStack   = 1
		finished  = 2
	)
	state := make(map[int64]int, len(ix.ids))
	stack := make([]int64, 0, len(ix.ids))

	var cycle []int64
	var visit func(id int64) bool
	visit = func(id int64) bool {
		state[id] = inStack
		stack = append(stack, id)

		for _, dep := range ix.tasks[id].DependsOn {
			switch state[dep] {
			case inStack:
				// Slice the current stack from the first occurrence of dep
				// to get the cycle, then close the loop.
				for i, sid := range stack {
					if sid == dep {
						cycle = append(cycle, stack[i:]...)
						cycle = append(cycle, dep)
						return true
					}
				}
			case unvisited:
				if visit(dep) {
					return true
				}
			}
		}

		stack = stack[:len(stack)-1]
		state[id] = finished
		return false
	}

	for _, id := range ix.ids {
		if state[id] == unvisited {
			if visit(id) {
				return cycle
			}
		}
	}
	return nil
}

// roots returns the ids of tasks with no dependencies, ascending.
func (ix *index) roots() []int64 {
	var roots []int64
	for _, id := range ix.ids {
		if len(ix.tasks[id].DependsOn) == 0 {
			roots = append(roots, id)
		}
	}
	return roots
}
