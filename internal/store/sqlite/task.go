package sqlite

import (
	"database/sql"
	"time"

	"github.com/taskpath/taskpath/internal/domain"
)

// taskColumns is the column list shared by all task queries.
const taskColumns = "id, title, description, status, priority, estimated_effort_hours, claimed_by, claimed_at, created_at, updated_at"

// TaskRepository handles task persistence operations.
type TaskRepository struct {
	db *sql.DB
}

// NewTaskRepository creates a new TaskRepository.
func NewTaskRepository(db *sql.DB) *TaskRepository {
	return &TaskRepository{db: db}
}

// Create inserts a new task and assigns its generated id.
func (r *TaskRepository) Create(task *domain.Task) error {
	query := `
		INSERT INTO tasks (title, description, status, priority, estimated_effort_hours, claimed_by, claimed_at, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
	`
	var claimedAt *string
	if task.ClaimedAt != nil {
		t := task.ClaimedAt.Format(time.RFC3339)
		claimedAt = &t
	}

	result, err := r.db.Exec(query,
		task.Title,
		task.Description,
		string(task.Status),
		task.Priority,
		task.EstimatedEffortHours,
		task.ClaimedBy,
		claimedAt,
		task.CreatedAt.Format(time.RFC3339),
		task.UpdatedAt.Format(time.RFC3339),
	)
	if err != nil {
		return err
	}

	id, err := result.LastInsertId()
	if err != nil {
		return err
	}
	task.ID = id
	return nil
}

// GetByID retrieves a task by its ID.
func (r *TaskRepository) GetByID(id int64) (*domain.Task, error) {
	row := r.db.QueryRow("SELECT "+taskColumns+" FROM tasks WHERE id = ?", id)
	return r.scanTask(row)
}

// List retrieves tasks with pagination and optional status filter.
func (r *TaskRepository) List(status *domain.TaskStatus, page, perPage int) ([]*domain.Task, int, error) {
	offset := (page - 1) * perPage

	// Count total
	countQuery := "SELECT COUNT(*) FROM tasks"
	args := []interface{}{}
	if status != nil {
		countQuery += " WHERE status = ?"
		args = append(args, string(*status))
	}

	var total int
	if err := r.db.QueryRow(countQuery, args...).Scan(&total); err != nil {
		return nil, 0, err
	}

	// Fetch tasks
	query := "SELECT " + taskColumns + " FROM tasks"
	if status != nil {
		query += " WHERE status = ?"
	}
	query += " ORDER BY priority ASC, id ASC LIMIT ? OFFSET ?"

	fetchArgs := args
	fetchArgs = append(fetchArgs, perPage, offset)

	rows, err := r.db.Query(query, fetchArgs...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	var tasks []*domain.Task
	for rows.Next() {
		task, err := r.scanTaskRows(rows)
		if err != nil {
			return nil, 0, err
		}
		tasks = append(tasks, task)
	}

	return tasks, total, rows.Err()
}

// ListReady retrieves tasks that are ready to be worked on.
// A task is ready if it's pending and has no incomplete dependencies.
func (r *TaskRepository) ListReady(page, perPage int) ([]*domain.Task, int, error) {
	offset := (page - 1) * perPage

	// Count ready tasks
	countQuery := `
		SELECT COUNT(*) FROM tasks t
		WHERE t.status = 'pending'
		AND NOT EXISTS (
			SELECT 1 FROM dependencies d
			JOIN tasks dep ON d.parent_id = dep.id
			WHERE d.child_id = t.id AND dep.status != 'done'
		)
	`
	var total int
	if err := r.db.QueryRow(countQuery).Scan(&total); err != nil {
		return nil, 0, err
	}

	// Fetch ready tasks
	query := `
		SELECT ` + taskColumns + ` FROM tasks t
		WHERE t.status = 'pending'
		AND NOT EXISTS (
			SELECT 1 FROM dependencies d
			JOIN tasks dep ON d.parent_id = dep.id
			WHERE d.child_id = t.id AND dep.status != 'done'
		)
		ORDER BY t.priority ASC, t.id ASC
		LIMIT ? OFFSET ?
	`

	rows, err := r.db.Query(query, perPage, offset)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	var tasks []*domain.Task
	for rows.Next() {
		task, err := r.scanTaskRows(rows)
		if err != nil {
			return nil, 0, err
		}
		tasks = append(tasks, task)
	}

	return tasks, total, rows.Err()
}

// Snapshot loads every task with its DependsOn edges populated.
// The result is the immutable input the graph engine computes over;
// callers re-fetch it whenever they need fresh derived state.
func (r *TaskRepository) Snapshot() ([]domain.Task, error) {
	rows, err := r.db.Query("SELECT " + taskColumns + " FROM tasks ORDER BY id ASC")
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var tasks []domain.Task
	byID := make(map[int64]int)
	for rows.Next() {
		task, err := r.scanTaskRows(rows)
		if err != nil {
			return nil, err
		}
		byID[task.ID] = len(tasks)
		tasks = append(tasks, *task)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	depRows, err := r.db.Query("SELECT child_id, parent_id FROM dependencies ORDER BY child_id ASC, parent_id ASC")
	if err != nil {
		return nil, err
	}
	defer depRows.Close()

	for depRows.Next() {
		var childID, parentID int64
		if err := depRows.Scan(&childID, &parentID); err != nil {
			return nil, err
		}
		if i, ok := byID[childID]; ok {
			tasks[i].DependsOn = append(tasks[i].DependsOn, parentID)
		}
	}

	return tasks, depRows.Err()
}

// Update updates a task's fields.
func (r *TaskRepository) Update(task *domain.Task) error {
	query := `
		UPDATE tasks
		SET title = ?, description = ?, status = ?, priority = ?, estimated_effort_hours = ?, claimed_by = ?, claimed_at = ?, updated_at = ?
		WHERE id = ?
	`
	var claimedAt *string
	if task.ClaimedAt != nil {
		t := task.ClaimedAt.Format(time.RFC3339)
		claimedAt = &t
	}

	result, err := r.db.Exec(query,
		task.Title,
		task.Description,
		string(task.Status),
		task.Priority,
		task.EstimatedEffortHours,
		task.ClaimedBy,
		claimedAt,
		task.UpdatedAt.Format(time.RFC3339),
		task.ID,
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

// Delete deletes a task by ID.
func (r *TaskRepository) Delete(id int64) error {
	result, err := r.db.Exec("DELETE FROM tasks WHERE id = ?", id)
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

// AtomicClaim attempts to claim a task atomically.
// Returns the updated task if successful, or the current state so the caller
// can report why the claim failed.
func (r *TaskRepository) AtomicClaim(taskID int64, agentID string, now time.Time) (*domain.Task, error) {
	nowStr := now.Format(time.RFC3339)

	_, err := r.db.Exec(`
		UPDATE tasks
		SET status = 'in_progress',
		    claimed_by = ?,
		    claimed_at = ?,
		    updated_at = ?
		WHERE id = ? AND status = 'pending'
	`, agentID, nowStr, nowStr, taskID)
	if err != nil {
		return nil, err
	}

	return r.GetByID(taskID)
}

func (r *TaskRepository) scanTask(row *sql.Row) (*domain.Task, error) {
	var task domain.Task
	var description, claimedBy, claimedAt sql.NullString
	var effort sql.NullFloat64
	var status string
	var createdAt, updatedAt string

	err := row.Scan(
		&task.ID,
		&task.Title,
		&description,
		&status,
		&task.Priority,
		&effort,
		&claimedBy,
		&claimedAt,
		&createdAt,
		&updatedAt,
	)
	if err != nil {
		return nil, err
	}

	task.Status = domain.TaskStatus(status)
	if description.Valid {
		task.Description = &description.String
	}
	if effort.Valid {
		task.EstimatedEffortHours = &effort.Float64
	}
	if claimedBy.Valid {
		task.ClaimedBy = &claimedBy.String
	}
	if claimedAt.Valid {
		t, _ := time.Parse(time.RFC3339, claimedAt.String)
		task.ClaimedAt = &t
	}
	task.CreatedAt, _ = time.Parse(time.RFC3339, createdAt)
	task.UpdatedAt, _ = time.Parse(time.RFC3339, updatedAt)

	return &task, nil
}

func (r *TaskRepository) scanTaskRows(rows *sql.Rows) (*domain.Task, error) {
	var task domain.Task
	var description, claimedBy, claimedAt sql.NullString
	var effort sql.NullFloat64
	var status string
	var createdAt, updatedAt string

	err := rows.Scan(
		&task.ID,
		&task.Title,
		&description,
		&status,
		&task.Priority,
		&effort,
		&claimedBy,
		&claimedAt,
		&createdAt,
		&updatedAt,
	)
	if err != nil {
		return nil, err
	}

	task.Status = domain.TaskStatus(status)
	if description.Valid {
		task.Description = &description.String
	}
	if effort.Valid {
		task.EstimatedEffortHours = &effort.Float64
	}
	if claimedBy.Valid {
		task.ClaimedBy = &claimedBy.String
	}
	if claimedAt.Valid {
		t, _ := time.Parse(time.RFC3339, claimedAt.String)
		task.ClaimedAt = &t
	}
	task.CreatedAt, _ = time.Parse(time.RFC3339, createdAt)
	task.UpdatedAt, _ = time.Parse(time.RFC3339, updatedAt)

	return &task, nil
}
