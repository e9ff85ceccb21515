package engine

import (
	"context"
	"errors"
	"fmt"
	"time"

	"mediadesk/internal/domain"
	"mediadesk/internal/events"
	"mediadesk/internal/repo"
)

// TaskCreateOptions are parameters for creating a task.
type TaskCreateOptions struct {
	CampaignID     string
	Title          string
	Description    string
	Priority       string
	StartDate      string
	DueDate        string
	EstimatedHours *float64
	AssignedToID   string
	DependsOn      []string
	ActorID        string
}

func (e Engine) CreateTask(ctx context.Context, opts TaskCreateOptions) (domain.Task, error) {
	if opts.Title == "" {
		return domain.Task{}, errors.New("title is required")
	}
	if opts.Priority == "" {
		opts.Priority = "medium"
	}
	if opts.CampaignID != "" {
		if _, err := e.Repo.GetCampaign(ctx, opts.CampaignID); err != nil {
			return domain.Task{}, err
		}
	}
	if opts.AssignedToID != "" {
		if _, err := e.Repo.GetUser(ctx, opts.AssignedToID); err != nil {
			return domain.Task{}, err
		}
	}
	now := e.nowRFC3339()
	t := domain.Task{
		ID:             newID(),
		CampaignID:     optionalString(opts.CampaignID),
		Title:          opts.Title,
		Description:    opts.Description,
		Status:         "not_started",
		Priority:       opts.Priority,
		StartDate:      optionalString(opts.StartDate),
		DueDate:        optionalString(opts.DueDate),
		EstimatedHours: opts.EstimatedHours,
		CreatedByID:    opts.ActorID,
		AssignedToID:   optionalString(opts.AssignedToID),
		CreatedAt:      now,
		UpdatedAt:      now,
	}
	tx, err := e.DB.BeginTx(ctx, nil)
	if err != nil {
		return domain.Task{}, err
	}
	defer tx.Rollback()

	if err := e.Repo.InsertTask(ctx, tx, t); err != nil {
		return domain.Task{}, fmt.Errorf("insert task: %w", err)
	}
	for _, dep := range opts.DependsOn {
		if err := e.addDependencyTx(ctx, tx, t.ID, dep, "finish_to_start", now); err != nil {
			return domain.Task{}, err
		}
	}
	if err := e.Events.Append(ctx, tx, "task.created", "task", t.ID, opts.ActorID, events.Payload{"title": t.Title, "status": t.Status}); err != nil {
		return domain.Task{}, err
	}
	if t.AssignedToID != nil && *t.AssignedToID != opts.ActorID {
		if err := e.notify(ctx, tx, *t.AssignedToID, "task_assigned", "Task Assigned",
			fmt.Sprintf("You were assigned %q", t.Title), "/tasks/"+t.ID); err != nil {
			return domain.Task{}, err
		}
	}
	if err := tx.Commit(); err != nil {
		return domain.Task{}, err
	}
	t.DependsOn = opts.DependsOn
	return t, nil
}

// TaskUpdateOptions encapsulates allowed partial updates. Nil pointers leave
// the field untouched; pointers to empty strings clear nullable columns.
type TaskUpdateOptions struct {
	ID             string
	Title          *string
	Description    *string
	Priority       *string
	CampaignID     *string
	StartDate      *string
	DueDate        *string
	EstimatedHours *float64
	ActualHours    *float64
	AssignedToID   *string
	ActorID        string
}

func (e Engine) UpdateTask(ctx context.Context, opts TaskUpdateOptions) (domain.Task, error) {
	t, err := e.Repo.GetTask(ctx, opts.ID)
	if err != nil {
		return t, err
	}
	fields := map[string]any{}
	if opts.Title != nil {
		if *opts.Title == "" {
			return t, errors.New("title cannot be empty")
		}
		fields["title"] = *opts.Title
	}
	if opts.Description != nil {
		fields["description"] = nullableVal(*opts.Description)
	}
	if opts.Priority != nil {
		fields["priority"] = *opts.Priority
	}
	if opts.CampaignID != nil {
		if *opts.CampaignID == "" {
			fields["campaign_id"] = nil
		} else {
			if _, err := e.Repo.GetCampaign(ctx, *opts.CampaignID); err != nil {
				return t, err
			}
			fields["campaign_id"] = *opts.CampaignID
		}
	}
	if opts.StartDate != nil {
		fields["start_date"] = nullableVal(*opts.StartDate)
	}
	if opts.DueDate != nil {
		fields["due_date"] = nullableVal(*opts.DueDate)
	}
	if opts.EstimatedHours != nil {
		fields["estimated_hours"] = *opts.EstimatedHours
	}
	if opts.ActualHours != nil {
		fields["actual_hours"] = *opts.ActualHours
	}
	assigneeChanged := false
	if opts.AssignedToID != nil {
		if *opts.AssignedToID == "" {
			fields["assigned_to_id"] = nil
		} else {
			if _, err := e.Repo.GetUser(ctx, *opts.AssignedToID); err != nil {
				return t, err
			}
			fields["assigned_to_id"] = *opts.AssignedToID
			assigneeChanged = t.AssignedToID == nil || *t.AssignedToID != *opts.AssignedToID
		}
	}
	if len(fields) == 0 {
		return t, nil
	}
	fields["updated_at"] = e.nowRFC3339()

	tx, err := e.DB.BeginTx(ctx, nil)
	if err != nil {
		return t, err
	}
	defer tx.Rollback()

	if err := e.Repo.UpdateTaskFields(ctx, tx, t.ID, fields); err != nil {
		return t, err
	}
	if err := e.Events.Append(ctx, tx, "task.updated", "task", t.ID, opts.ActorID, events.Payload{"title": t.Title}); err != nil {
		return t, err
	}
	if assigneeChanged && *opts.AssignedToID != opts.ActorID {
		if err := e.notify(ctx, tx, *opts.AssignedToID, "task_assigned", "Task Assigned",
			fmt.Sprintf("You were assigned %q", t.Title), "/tasks/"+t.ID); err != nil {
			return t, err
		}
	}
	if err := tx.Commit(); err != nil {
		return t, err
	}
	return e.GetTask(ctx, t.ID)
}

func nullableVal(v string) any {
	if v == "" {
		return nil
	}
	return v
}

// UpdateTaskStatus moves a task along the workflow, stamping start and
// completion times as it goes.
func (e Engine) UpdateTaskStatus(ctx context.Context, id, status, actorID string) (domain.Task, error) {
	t, err := e.Repo.GetTask(ctx, id)
	if err != nil {
		return t, err
	}
	if err := ensureTaskTransition(t.Status, status); err != nil {
		return t, err
	}
	now := e.nowRFC3339()
	fields := map[string]any{"status": status, "updated_at": now}
	if status == "completed" {
		fields["completed_at"] = now
	} else if status == "in_progress" && t.StartDate == nil {
		fields["start_date"] = now
	}
	tx, err := e.DB.BeginTx(ctx, nil)
	if err != nil {
		return t, err
	}
	defer tx.Rollback()

	if err := e.Repo.UpdateTaskFields(ctx, tx, id, fields); err != nil {
		return t, err
	}
	evtType := "task.status_changed"
	if status == "completed" {
		evtType = "task.completed"
	}
	if err := e.Events.Append(ctx, tx, evtType, "task", id, actorID, events.Payload{
		"old_status": t.Status,
		"new_status": status,
	}); err != nil {
		return t, err
	}
	if t.AssignedToID != nil && *t.AssignedToID != actorID {
		if err := e.notify(ctx, tx, *t.AssignedToID, "task_updated", "Task Updated",
			fmt.Sprintf("Task %q status changed to %s", t.Title, status), "/tasks/"+id); err != nil {
			return t, err
		}
	}
	if err := tx.Commit(); err != nil {
		return t, err
	}
	return e.GetTask(ctx, id)
}

// ensureTaskTransition rejects anything not in the workflow table, including
// repeating the current status. Terminal states have no outgoing edges.
func ensureTaskTransition(oldStatus, newStatus string) error {
	switch oldStatus {
	case "not_started":
		if newStatus == "in_progress" || newStatus == "cancelled" {
			return nil
		}
	case "in_progress":
		switch newStatus {
		case "under_review", "completed", "blocked", "cancelled":
			return nil
		}
	case "under_review":
		switch newStatus {
		case "completed", "in_progress", "cancelled":
			return nil
		}
	case "blocked":
		if newStatus == "in_progress" || newStatus == "cancelled" {
			return nil
		}
	}
	return InvalidTransitionError{Entity: "task", From: oldStatus, To: newStatus}
}

// DeleteTask soft deletes the task and drops its dependency edges both ways.
func (e Engine) DeleteTask(ctx context.Context, id, actorID string) error {
	now := e.nowRFC3339()
	tx, err := e.DB.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if err := e.Repo.SoftDeleteTask(ctx, tx, id, now); err != nil {
		return err
	}
	if err := e.Repo.DeleteDependenciesFor(ctx, tx, id); err != nil {
		return err
	}
	if err := e.Events.Append(ctx, tx, "task.deleted", "task", id, actorID, nil); err != nil {
		return err
	}
	return tx.Commit()
}

// GetTask returns a task with its prerequisite IDs attached.
func (e Engine) GetTask(ctx context.Context, id string) (domain.Task, error) {
	t, err := e.Repo.GetTask(ctx, id)
	if err != nil {
		return t, err
	}
	deps, err := e.Repo.ListDependencies(ctx, id)
	if err != nil {
		return t, err
	}
	for _, d := range deps {
		t.DependsOn = append(t.DependsOn, d.DependsOnID)
	}
	return t, nil
}

// UpdateTimeTracking records actual hours spent on the task.
func (e Engine) UpdateTimeTracking(ctx context.Context, id string, actualHours float64, actorID string) (domain.Task, error) {
	if actualHours < 0 {
		return domain.Task{}, errors.New("actual hours cannot be negative")
	}
	return e.UpdateTask(ctx, TaskUpdateOptions{ID: id, ActualHours: &actualHours, ActorID: actorID})
}

// OverdueTasks returns live tasks past their due date and not finished.
func (e Engine) OverdueTasks(ctx context.Context) ([]domain.Task, error) {
	tasks, err := e.Repo.ListTasks(ctx, repo.TaskFilter{})
	if err != nil {
		return nil, err
	}
	now := e.now().UTC()
	var res []domain.Task
	for _, t := range tasks {
		if t.Status == "completed" || t.Status == "cancelled" || t.DueDate == nil {
			continue
		}
		due, err := time.Parse(time.RFC3339, *t.DueDate)
		if err != nil {
			continue
		}
		if due.Before(now) {
			res = append(res, t)
		}
	}
	return res, nil
}
