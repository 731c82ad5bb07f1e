package sqlite

import (
	"database/sql"

	"github.com/taskpath/taskpath/internal/domain"
)

// DependencyRepository handles dependency persistence operations.
type DependencyRepository struct {
	db *sql.DB
}

// NewDependencyRepository creates a new DependencyRepository.
func NewDependencyRepository(db *sql.DB) *DependencyRepository {
	return &DependencyRepository{db: db}
}

// Add adds a dependency (child depends on parent).
func (r *DependencyRepository) Add(childID, parentID int64) error {
	_, err := r.db.Exec(
		"INSERT INTO dependencies (child_id, parent_id) VALUES (?, ?)",
		childID, parentID,
	)
	return err
}

// Remove removes a dependency.
func (r *DependencyRepository) Remove(childID, parentID int64) error {
	result, err := r.db.Exec(
		"DELETE FROM dependencies WHERE child_id = ? AND parent_id = ?",
		childID, parentID,
	)
	if err != nil {
		return err
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if rowsAffected == 0 {
		return sql.ErrNoRows
	}
	return nil
}

// ListByChild returns all dependencies for a given child task.
func (r *DependencyRepository) ListByChild(childID int64) ([]*domain.Dependency, error) {
	rows, err := r.db.Query(
		"SELECT child_id, parent_id FROM dependencies WHERE child_id = ? ORDER BY parent_id ASC",
		childID,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var deps []*domain.Dependency
	for rows.Next() {
		var dep domain.Dependency
		if err := rows.Scan(&dep.ChildID, &dep.ParentID); err != nil {
			return nil, err
		}
		deps = append(deps, &dep)
	}

	return deps, rows.Err()
}

// ListByParent returns all tasks that depend on a given parent task.
func (r *DependencyRepository) ListByParent(parentID int64) ([]*domain.Dependency, error) {
	rows, err := r.db.Query(
		"SELECT child_id, parent_id FROM dependencies WHERE parent_id = ? ORDER BY child_id ASC",
		parentID,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var deps []*domain.Dependency
	for rows.Next() {
		var dep domain.Dependency
		if err := rows.Scan(&dep.ChildID, &dep.ParentID); err != nil {
			return nil, err
		}
		deps = append(deps, &dep)
	}

	return deps, rows.Err()
}

// Exists checks if a dependency exists.
func (r *DependencyRepository) Exists(childID, parentID int64) (bool, error) {
	var count int
	err := r.db.QueryRow(
		"SELECT COUNT(*) FROM dependencies WHERE child_id = ? AND parent_id = ?",
		childID, parentID,
	).Scan(&count)
	if err != nil {
		return false, err
	}
	return count > 0, nil
}

// WouldCreateCycle checks if adding a dependency would create a cycle.
// Returns the cycle path if a cycle would be created, nil otherwise.
func (r *DependencyRepository) WouldCreateCycle(childID, parentID int64) ([]int64, error) {
	// Use BFS to check if childID is reachable from parentID via existing
	// dependencies. If so, adding childID -> parentID would close a cycle.

	visited := make(map[int64]bool)
	cameFrom := make(map[int64]int64) // tracks BFS traversal path
	queue := []int64{parentID}
	visited[parentID] = true

	for len(queue) > 0 {
		current := queue[0]
		queue = queue[1:]

		if current == childID {
			// Reconstruct: childID -> ... -> parentID -> childID
			path := []int64{current}
			node := current
			for node != parentID {
				prev := cameFrom[node]
				path = append(path, prev)
				node = prev
			}
			path = append(path, childID)
			return path, nil
		}

		// Get all tasks that current depends on
		deps, err := r.ListByChild(current)
		if err != nil {
			return nil, err
		}

		for _, dep := range deps {
			if !visited[dep.ParentID] {
				visited[dep.ParentID] = true
				cameFrom[dep.ParentID] = current
				queue = append(queue, dep.ParentID)
			}
		}
	}

	return nil, nil
}
