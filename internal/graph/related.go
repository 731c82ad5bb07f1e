package graph

import (
	"sort"

	"github.com/taskpath/taskpath/internal/domain"
)

// ComputeRelatedTaskIDs returns the bidirectional transitive closure of the
// focus task: everything it depends on upstream, everything that depends on
// it downstream, and the focus task itself. Ids are returned in ascending
// order.
//
// Unlike the status and critical-path computations this walk tolerates
// cycles: visited sets stop revisits, so malformed data highlights what it
// can instead of looping. An unknown focus id or dangling edge still fails
// with INVALID_GRAPH.
func ComputeRelatedTaskIDs(tasks []domain.Task, focusID int64) ([]int64, error) {
	ix, err := buildIndex(tasks)
	if err != nil {
		return nil, err
	}
	if _, ok := ix.tasks[focusID]; !ok {
		return nil, domain.NewInvalidGraphError([]int64{focusID}, "focus task not in snapshot")
	}

	related := map[int64]bool{focusID: true}

	// Upstream: follow dependsOn edges.
	walk(focusID, related, func(id int64) []int64 {
		return ix.tasks[id].DependsOn
	})

	// Downstream: follow the inverse edges.
	walk(focusID, related, func(id int64) []int64 {
		return ix.downstream[id]
	})

	ids := make([]int64, 0, len(related))
	for id := range related {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(a, b int) bool { return ids[a] < ids[b] })
	return ids, nil
}

// walk marks every task reachable from start via next, skipping tasks
// already marked so cyclic input terminates.
func walk(start int64, seen map[int64]bool, next func(int64) []int64) {
	stack := []int64{start}
	visited := map[int64]bool{start: true}
	for len(stack) > 0 {
		id := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		for _, n := range next(id) {
			if visited[n] {
				continue
			}
			visited[n] = true
			seen[n] = true
			stack = append(stack, n)
		}
	}
}
