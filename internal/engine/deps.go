package engine

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"mediadesk/internal/domain"
	"mediadesk/internal/events"
	"mediadesk/internal/repo"
)

var dependencyKinds = map[string]bool{
	"finish_to_start":  true,
	"start_to_start":   true,
	"finish_to_finish": true,
	"start_to_finish":  true,
}

// AddDependency records that taskID waits on dependsOnID. The reachability
// check and the insert share one transaction, so concurrent adds cannot
// slip a cycle past each other.
func (e Engine) AddDependency(ctx context.Context, taskID, dependsOnID, kind, actorID string) error {
	if kind == "" {
		kind = "finish_to_start"
	}
	if !dependencyKinds[kind] {
		return errors.New("unknown dependency kind " + kind)
	}
	if taskID == dependsOnID {
		return CircularDependencyError{TaskID: taskID, DependsOnID: dependsOnID}
	}
	if _, err := e.Repo.GetTask(ctx, taskID); err != nil {
		return err
	}
	if _, err := e.Repo.GetTask(ctx, dependsOnID); err != nil {
		return err
	}
	now := e.nowRFC3339()
	tx, err := e.DB.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if err := e.addDependencyTx(ctx, tx, taskID, dependsOnID, kind, now); err != nil {
		return err
	}
	if err := e.Events.Append(ctx, tx, "task.dependency_added", "task", taskID, actorID, events.Payload{
		"depends_on_id": dependsOnID,
		"kind":          kind,
	}); err != nil {
		return err
	}
	return tx.Commit()
}

func (e Engine) addDependencyTx(ctx context.Context, tx *sql.Tx, taskID, dependsOnID, kind string, now string) error {
	if taskID == dependsOnID {
		return CircularDependencyError{TaskID: taskID, DependsOnID: dependsOnID}
	}
	cycle, err := e.wouldCreateCycle(ctx, tx, taskID, dependsOnID)
	if err != nil {
		return err
	}
	if cycle {
		return CircularDependencyError{TaskID: taskID, DependsOnID: dependsOnID}
	}
	return e.Repo.InsertDependency(ctx, tx, domain.TaskDependency{
		TaskID:      taskID,
		DependsOnID: dependsOnID,
		Kind:        kind,
		CreatedAt:   now,
	})
}

// wouldCreateCycle walks the prerequisite graph from dependsOnID. If taskID
// is reachable, the new edge would close a loop.
func (e Engine) wouldCreateCycle(ctx context.Context, tx *sql.Tx, taskID, dependsOnID string) (bool, error) {
	visited := map[string]bool{}
	queue := []string{dependsOnID}
	for len(queue) > 0 {
		cur := queue[0]
		queue = queue[1:]
		if cur == taskID {
			return true, nil
		}
		if visited[cur] {
			continue
		}
		visited[cur] = true
		next, err := e.Repo.DependsOnTx(ctx, tx, cur)
		if err != nil {
			return false, err
		}
		queue = append(queue, next...)
	}
	return false, nil
}

// RemoveDependency drops the edge. Removing a missing edge is a no-op.
func (e Engine) RemoveDependency(ctx context.Context, taskID, dependsOnID, actorID string) error {
	if _, err := e.Repo.GetTask(ctx, taskID); err != nil {
		return err
	}
	tx, err := e.DB.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if err := e.Repo.DeleteDependency(ctx, tx, taskID, dependsOnID); err != nil {
		return err
	}
	if err := e.Events.Append(ctx, tx, "task.dependency_removed", "task", taskID, actorID, events.Payload{
		"depends_on_id": dependsOnID,
	}); err != nil {
		return err
	}
	return tx.Commit()
}

// ScheduleView derives Gantt bars for live tasks, optionally scoped to a
// campaign. Missing start falls back to creation time; missing due date to
// creation plus seven days.
func (e Engine) ScheduleView(ctx context.Context, campaignID string) ([]domain.GanttBar, error) {
	tasks, err := e.Repo.ListTasks(ctx, repo.TaskFilter{CampaignID: campaignID})
	if err != nil {
		return nil, err
	}
	edges := map[string][]string{}
	all, err := e.Repo.AllDependencies(ctx)
	if err != nil {
		return nil, err
	}
	for _, d := range all {
		edges[d.TaskID] = append(edges[d.TaskID], d.DependsOnID)
	}
	bars := make([]domain.GanttBar, 0, len(tasks))
	for _, t := range tasks {
		start := t.CreatedAt
		if t.StartDate != nil {
			start = *t.StartDate
		}
		end := defaultEnd(t.CreatedAt)
		if t.DueDate != nil {
			end = *t.DueDate
		}
		bars = append(bars, domain.GanttBar{
			ID:              t.ID,
			Title:           t.Title,
			Start:           start,
			End:             end,
			PercentComplete: progressFor(t.Status),
			DependencyIDs:   edges[t.ID],
		})
	}
	return bars, nil
}

func defaultEnd(createdAt string) string {
	ts, err := time.Parse(time.RFC3339, createdAt)
	if err != nil {
		return createdAt
	}
	return ts.Add(7 * 24 * time.Hour).Format(time.RFC3339)
}

func progressFor(status string) int {
	switch status {
	case "completed":
		return 100
	case "in_progress":
		return 50
	default:
		return 0
	}
}
