package repo

import (
	"context"
	"database/sql"
	"strings"

	"mediadesk/internal/domain"
)

const taskCols = `id,campaign_id,title,COALESCE(description,''),status,priority,start_date,due_date,estimated_hours,actual_hours,created_by_id,assigned_to_id,created_at,updated_at,completed_at,deleted_at`

func scanTaskRow(scan func(dest ...any) error) (domain.Task, error) {
	var t domain.Task
	var campaignID, startDate, dueDate, assignedTo, completedAt, deletedAt sql.NullString
	var estHours, actHours sql.NullFloat64
	err := scan(&t.ID, &campaignID, &t.Title, &t.Description, &t.Status, &t.Priority,
		&startDate, &dueDate, &estHours, &actHours, &t.CreatedByID, &assignedTo,
		&t.CreatedAt, &t.UpdatedAt, &completedAt, &deletedAt)
	if err != nil {
		return t, err
	}
	t.CampaignID = strPtr(campaignID)
	t.StartDate = strPtr(startDate)
	t.DueDate = strPtr(dueDate)
	t.EstimatedHours = floatPtr(estHours)
	t.ActualHours = floatPtr(actHours)
	t.AssignedToID = strPtr(assignedTo)
	t.CompletedAt = strPtr(completedAt)
	t.DeletedAt = strPtr(deletedAt)
	return t, nil
}

func (r Repo) InsertTask(ctx context.Context, tx *sql.Tx, t domain.Task) error {
	_, err := tx.ExecContext(ctx, `INSERT INTO tasks(`+taskCols2+`) VALUES (?,?,?,?,?,?,?,?,?,?,?,?,?,?)`,
		t.ID, nullablePtr(t.CampaignID), t.Title, nullable(t.Description), t.Status, t.Priority,
		nullablePtr(t.StartDate), nullablePtr(t.DueDate), nullableFloat(t.EstimatedHours), nullableFloat(t.ActualHours),
		t.CreatedByID, nullablePtr(t.AssignedToID), t.CreatedAt, t.UpdatedAt)
	return err
}

const taskCols2 = `id,campaign_id,title,description,status,priority,start_date,due_date,estimated_hours,actual_hours,created_by_id,assigned_to_id,created_at,updated_at`

func (r Repo) GetTask(ctx context.Context, id string) (domain.Task, error) {
	row := r.DB.QueryRowContext(ctx, `SELECT `+taskCols+` FROM tasks WHERE id=? AND deleted_at IS NULL`, id)
	t, err := scanTaskRow(row.Scan)
	if err == sql.ErrNoRows {
		return t, ErrNotFound
	}
	return t, err
}

func (r Repo) GetTaskTx(ctx context.Context, tx *sql.Tx, id string) (domain.Task, error) {
	row := tx.QueryRowContext(ctx, `SELECT `+taskCols+` FROM tasks WHERE id=? AND deleted_at IS NULL`, id)
	t, err := scanTaskRow(row.Scan)
	if err == sql.ErrNoRows {
		return t, ErrNotFound
	}
	return t, err
}

type TaskFilter struct {
	CampaignID   string
	AssignedToID string
	CreatedByID  string
	Status       string
	Priority     string
	DueBefore    string
	DueAfter     string
	Search       string
}

func (r Repo) ListTasks(ctx context.Context, f TaskFilter) ([]domain.Task, error) {
	clauses := []string{"deleted_at IS NULL"}
	var args []any
	if f.CampaignID != "" {
		clauses = append(clauses, "campaign_id=?")
		args = append(args, f.CampaignID)
	}
	if f.AssignedToID != "" {
		clauses = append(clauses, "assigned_to_id=?")
		args = append(args, f.AssignedToID)
	}
	if f.CreatedByID != "" {
		clauses = append(clauses, "created_by_id=?")
		args = append(args, f.CreatedByID)
	}
	if f.Status != "" {
		clauses = append(clauses, "status=?")
		args = append(args, f.Status)
	}
	if f.Priority != "" {
		clauses = append(clauses, "priority=?")
		args = append(args, f.Priority)
	}
	if f.DueBefore != "" {
		clauses = append(clauses, "due_date IS NOT NULL AND due_date<=?")
		args = append(args, f.DueBefore)
	}
	if f.DueAfter != "" {
		clauses = append(clauses, "due_date IS NOT NULL AND due_date>=?")
		args = append(args, f.DueAfter)
	}
	if f.Search != "" {
		clauses = append(clauses, "(title LIKE ? OR description LIKE ?)")
		pattern := "%" + f.Search + "%"
		args = append(args, pattern, pattern)
	}
	query := `SELECT ` + taskCols + ` FROM tasks WHERE ` + strings.Join(clauses, " AND ") + ` ORDER BY created_at, id`
	rows, err := r.DB.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var res []domain.Task
	for rows.Next() {
		t, err := scanTaskRow(rows.Scan)
		if err != nil {
			return nil, err
		}
		res = append(res, t)
	}
	return res, rows.Err()
}

// UpdateTaskFields applies a partial update. Keys are column names; a nil
// value clears the column.
func (r Repo) UpdateTaskFields(ctx context.Context, tx *sql.Tx, id string, fields map[string]any) error {
	if len(fields) == 0 {
		return nil
	}
	var (
		sets []string
		args []any
	)
	for col, v := range fields {
		sets = append(sets, col+"=?")
		args = append(args, v)
	}
	args = append(args, id)
	res, err := tx.ExecContext(ctx, `UPDATE tasks SET `+strings.Join(sets, ",")+` WHERE id=? AND deleted_at IS NULL`, args...)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrNotFound
	}
	return nil
}

func (r Repo) SoftDeleteTask(ctx context.Context, tx *sql.Tx, id, now string) error {
	res, err := tx.ExecContext(ctx, `UPDATE tasks SET deleted_at=?, status='cancelled', updated_at=? WHERE id=? AND deleted_at IS NULL`, now, now, id)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrNotFound
	}
	return nil
}

// InsertDependency records an edge. Re-adding an existing edge is a no-op.
func (r Repo) InsertDependency(ctx context.Context, tx *sql.Tx, d domain.TaskDependency) error {
	_, err := tx.ExecContext(ctx, `INSERT OR IGNORE INTO task_dependencies(task_id,depends_on_id,kind,created_at) VALUES (?,?,?,?)`,
		d.TaskID, d.DependsOnID, d.Kind, d.CreatedAt)
	return err
}

// DeleteDependency removes an edge. Missing edges are not an error.
func (r Repo) DeleteDependency(ctx context.Context, tx *sql.Tx, taskID, dependsOnID string) error {
	_, err := tx.ExecContext(ctx, `DELETE FROM task_dependencies WHERE task_id=? AND depends_on_id=?`, taskID, dependsOnID)
	return err
}

// DeleteDependenciesFor removes all edges touching the task, both directions.
func (r Repo) DeleteDependenciesFor(ctx context.Context, tx *sql.Tx, taskID string) error {
	_, err := tx.ExecContext(ctx, `DELETE FROM task_dependencies WHERE task_id=? OR depends_on_id=?`, taskID, taskID)
	return err
}

// DependsOnTx returns the prerequisite IDs of taskID inside tx.
func (r Repo) DependsOnTx(ctx context.Context, tx *sql.Tx, taskID string) ([]string, error) {
	rows, err := tx.QueryContext(ctx, `SELECT depends_on_id FROM task_dependencies WHERE task_id=?`, taskID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var res []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		res = append(res, id)
	}
	return res, rows.Err()
}

func (r Repo) ListDependencies(ctx context.Context, taskID string) ([]domain.TaskDependency, error) {
	return r.queryDependencies(ctx, `SELECT task_id,depends_on_id,kind,created_at FROM task_dependencies WHERE task_id=? ORDER BY created_at, depends_on_id`, taskID)
}

// ListDependents returns edges whose prerequisite is taskID.
func (r Repo) ListDependents(ctx context.Context, taskID string) ([]domain.TaskDependency, error) {
	return r.queryDependencies(ctx, `SELECT task_id,depends_on_id,kind,created_at FROM task_dependencies WHERE depends_on_id=? ORDER BY created_at, task_id`, taskID)
}

// AllDependencies returns every edge whose endpoints are both live tasks.
func (r Repo) AllDependencies(ctx context.Context) ([]domain.TaskDependency, error) {
	return r.queryDependencies(ctx, `
SELECT d.task_id, d.depends_on_id, d.kind, d.created_at
FROM task_dependencies d
JOIN tasks t ON t.id = d.task_id AND t.deleted_at IS NULL
JOIN tasks p ON p.id = d.depends_on_id AND p.deleted_at IS NULL
ORDER BY d.created_at, d.task_id`)
}

func (r Repo) queryDependencies(ctx context.Context, query string, args ...any) ([]domain.TaskDependency, error) {
	rows, err := r.DB.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var res []domain.TaskDependency
	for rows.Next() {
		var d domain.TaskDependency
		if err := rows.Scan(&d.TaskID, &d.DependsOnID, &d.Kind, &d.CreatedAt); err != nil {
			return nil, err
		}
		res = append(res, d)
	}
	return res, rows.Err()
}
