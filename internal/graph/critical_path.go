package graph

import (
	"math"

	"github.com/taskpath/taskpath/internal/domain"
)

// HoursPerWorkDay converts effort estimates into whole work-days.
const HoursPerWorkDay = 8.0

// DurationDays returns the task's duration in work-days:
// ceil(estimatedEffortHours / 8), with a minimum of one day when the
// estimate is unset or zero. Done tasks count their full duration.
func DurationDays(t *domain.Task) int {
	if t.EstimatedEffortHours == nil || *t.EstimatedEffortHours <= 0 {
		return 1
	}
	days := int(math.Ceil(*t.EstimatedEffortHours / HoursPerWorkDay))
	if days < 1 {
		return 1
	}
	return days
}

// longest is the memoized longest-path result starting at a node and
// following downstream ("blocks") edges to a leaf.
type longest struct {
	days int
	ids  []int64
}

// ComputeCriticalPath finds the maximum-duration root-to-leaf chain through
// the dependency DAG, following edges from each task to the tasks that
// depend on it. Ties are broken by lowest task id so results are stable.
//
// The memo table lives only for the duration of the call; every invocation
// recomputes from the snapshot it is given.
func ComputeCriticalPath(tasks []domain.Task) (*domain.CriticalPathResult, error) {
	ix, err := buildIndex(tasks)
	if err != nil {
		return nil, err
	}
	if cycle := ix.detectCycle(); cycle != nil {
		return nil, domain.NewCycleDetectedError(cycle)
	}

	memo := make(map[int64]longest, len(ix.ids))
	best := longest{}
	for _, root := range ix.roots() {
		// Roots are visited in ascending id order and only a strictly
		// longer path replaces the current best, so the lowest id wins ties.
		if p := longestFrom(ix, root, memo); p.days > best.days {
			best = p
		}
	}

	result := &domain.CriticalPathResult{
		TaskIDs:           best.ids,
		TotalDurationDays: float64(best.days),
	}
	if result.TaskIDs == nil {
		result.TaskIDs = []int64{}
	}
	return result, nil
}

func longestFrom(ix *index, id int64, memo map[int64]longest) longest {
	if p, ok := memo[id]; ok {
		return p
	}

	own := DurationDays(ix.tasks[id])
	best := longest{days: own, ids: []int64{id}}
	for _, succ := range ix.downstream[id] {
		// Successors are sorted ascending; strict comparison keeps the
		// lowest-id continuation on ties.
		if sub := longestFrom(ix, succ, memo); own+sub.days > best.days {
			path := make([]int64, 0, len(sub.ids)+1)
			path = append(path, id)
			path = append(path, sub.ids...)
			best = longest{days: own + sub.days, ids: path}
		}
	}

	memo[id] = best
	return best
}
