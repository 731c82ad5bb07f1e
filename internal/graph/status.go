package graph

import "github.com/taskpath/taskpath/internal/domain"

// ComputeExecutionStatus classifies every task in the snapshot.
//
// A done task is done regardless of its dependencies. Otherwise the task is
// ready when all of its dependencies are done (trivially so with none),
// waiting when every unfinished dependency is in progress, and blocked when
// at least one unfinished dependency is not being worked on.
//
// The whole computation fails with an INVALID_GRAPH or CYCLE_DETECTED error
// on malformed input; no partial map is returned.
func ComputeExecutionStatus(tasks []domain.Task) (map[int64]domain.ExecutionStatus, error) {
	ix, err := buildIndex(tasks)
	if err != nil {
		return nil, err
	}
	if cycle := ix.detectCycle(); cycle != nil {
		return nil, domain.NewCycleDetectedError(cycle)
	}

	statuses := make(map[int64]domain.ExecutionStatus, len(ix.ids))
	for _, id := range ix.ids {
		statuses[id] = classify(ix, ix.tasks[id])
	}
	return statuses, nil
}

func classify(ix *index, t *domain.Task) domain.ExecutionStatus {
	if t.Status == domain.StatusDone {
		return domain.ExecDone
	}
	if len(t.DependsOn) == 0 {
		return domain.ExecReady
	}

	allDone := true
	allActive := true
	for _, dep := range t.DependsOn {
		parent := ix.tasks[dep]
		if parent.Status == domain.StatusDone {
			continue
		}
		allDone = false
		if parent.Status != domain.StatusInProgress {
			allActive = false
		}
	}

	switch {
	case allDone:
		return domain.ExecReady
	case allActive:
		return domain.ExecWaiting
	default:
		return domain.ExecBlocked
	}
}
