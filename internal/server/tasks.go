package server

import (
	"context"
	"net/http"

	"github.com/danielgtaylor/huma/v2"

	"mediadesk/internal/domain"
	"mediadesk/internal/engine"
	"mediadesk/internal/rbac"
	"mediadesk/internal/repo"
)

func registerTasks(api huma.API, e engine.Engine, authz rbac.Service) {
	huma.Register(api, huma.Operation{
		OperationID:   "create-task",
		Method:        http.MethodPost,
		Path:          "/tasks",
		Summary:       "Create task",
		DefaultStatus: http.StatusCreated,
	}, func(ctx context.Context, input *struct {
		Body CreateTaskRequest `json:"body"`
	}) (*struct {
		Body domain.Task `json:"body"`
	}, error) {
		principal, err := requireAccess(ctx, authz, rbac.ResourceTasks, rbac.ActionCreate, "")
		if err != nil {
			return nil, handleError(err)
		}
		t, err := e.CreateTask(ctx, engine.TaskCreateOptions{
			CampaignID:     input.Body.CampaignID,
			Title:          input.Body.Title,
			Description:    input.Body.Description,
			Priority:       input.Body.Priority,
			StartDate:      input.Body.StartDate,
			DueDate:        input.Body.DueDate,
			EstimatedHours: input.Body.EstimatedHours,
			AssignedToID:   input.Body.AssignedToID,
			DependsOn:      input.Body.DependsOn,
			ActorID:        principal.UserID,
		})
		if err != nil {
			return nil, handleError(err)
		}
		return &struct {
			Body domain.Task `json:"body"`
		}{Body: t}, nil
	})

	huma.Register(api, huma.Operation{
		OperationID: "list-tasks",
		Method:      http.MethodGet,
		Path:        "/tasks",
		Summary:     "List tasks",
	}, func(ctx context.Context, input *struct {
		CampaignID   string `query:"campaign_id"`
		AssignedToID string `query:"assigned_to_id"`
		Status       string `query:"status"`
		Priority     string `query:"priority"`
		DueBefore    string `query:"due_before" format:"date-time"`
		DueAfter     string `query:"due_after" format:"date-time"`
		Search       string `query:"search"`
	}) (*struct {
		Body TaskListResponse `json:"body"`
	}, error) {
		principal, err := requireAccess(ctx, authz, rbac.ResourceTasks, rbac.ActionRead, "")
		if err != nil {
			return nil, handleError(err)
		}
		filter := repo.TaskFilter{
			CampaignID:   input.CampaignID,
			AssignedToID: input.AssignedToID,
			Status:       input.Status,
			Priority:     input.Priority,
			DueBefore:    input.DueBefore,
			DueAfter:     input.DueAfter,
			Search:       input.Search,
		}
		// Admins and managers browse everything, everyone else only their
		// own assignments.
		role := rbac.Role(principal.Role)
		if role != rbac.RoleAdmin && role != rbac.RoleManager {
			filter.AssignedToID = principal.UserID
		}
		tasks, err := e.Repo.ListTasks(ctx, filter)
		if err != nil {
			return nil, handleError(err)
		}
		return &struct {
			Body TaskListResponse `json:"body"`
		}{Body: TaskListResponse{Tasks: tasks}}, nil
	})

	huma.Register(api, huma.Operation{
		OperationID: "get-task",
		Method:      http.MethodGet,
		Path:        "/tasks/{task_id}",
		Summary:     "Get task",
	}, func(ctx context.Context, input *struct {
		TaskID string `path:"task_id"`
	}) (*struct {
		Body domain.Task `json:"body"`
	}, error) {
		if _, err := requireAccess(ctx, authz, rbac.ResourceTasks, rbac.ActionRead, input.TaskID); err != nil {
			return nil, handleError(err)
		}
		t, err := e.GetTask(ctx, input.TaskID)
		if err != nil {
			return nil, handleError(err)
		}
		return &struct {
			Body domain.Task `json:"body"`
		}{Body: t}, nil
	})

	huma.Register(api, huma.Operation{
		OperationID: "update-task",
		Method:      http.MethodPatch,
		Path:        "/tasks/{task_id}",
		Summary:     "Update task",
	}, func(ctx context.Context, input *struct {
		TaskID string            `path:"task_id"`
		Body   UpdateTaskRequest `json:"body"`
	}) (*struct {
		Body domain.Task `json:"body"`
	}, error) {
		principal, err := requireAccess(ctx, authz, rbac.ResourceTasks, rbac.ActionUpdate, input.TaskID)
		if err != nil {
			return nil, handleError(err)
		}
		t, err := e.UpdateTask(ctx, engine.TaskUpdateOptions{
			ID:             input.TaskID,
			Title:          input.Body.Title,
			Description:    input.Body.Description,
			Priority:       input.Body.Priority,
			CampaignID:     input.Body.CampaignID,
			StartDate:      input.Body.StartDate,
			DueDate:        input.Body.DueDate,
			EstimatedHours: input.Body.EstimatedHours,
			ActualHours:    input.Body.ActualHours,
			AssignedToID:   input.Body.AssignedToID,
			ActorID:        principal.UserID,
		})
		if err != nil {
			return nil, handleError(err)
		}
		return &struct {
			Body domain.Task `json:"body"`
		}{Body: t}, nil
	})

	huma.Register(api, huma.Operation{
		OperationID: "update-task-status",
		Method:      http.MethodPost,
		Path:        "/tasks/{task_id}/status",
		Summary:     "Update task status",
	}, func(ctx context.Context, input *struct {
		TaskID string        `path:"task_id"`
		Body   StatusRequest `json:"body"`
	}) (*struct {
		Body domain.Task `json:"body"`
	}, error) {
		principal, err := requireAccess(ctx, authz, rbac.ResourceTasks, rbac.ActionUpdate, input.TaskID)
		if err != nil {
			return nil, handleError(err)
		}
		t, err := e.UpdateTaskStatus(ctx, input.TaskID, input.Body.Status, principal.UserID)
		if err != nil {
			return nil, handleError(err)
		}
		return &struct {
			Body domain.Task `json:"body"`
		}{Body: t}, nil
	})

	huma.Register(api, huma.Operation{
		OperationID:   "delete-task",
		Method:        http.MethodDelete,
		Path:          "/tasks/{task_id}",
		Summary:       "Delete task",
		DefaultStatus: http.StatusNoContent,
	}, func(ctx context.Context, input *struct {
		TaskID string `path:"task_id"`
	}) (*struct{}, error) {
		principal, err := requireAccess(ctx, authz, rbac.ResourceTasks, rbac.ActionDelete, input.TaskID)
		if err != nil {
			return nil, handleError(err)
		}
		if err := e.DeleteTask(ctx, input.TaskID, principal.UserID); err != nil {
			return nil, handleError(err)
		}
		return &struct{}{}, nil
	})

	huma.Register(api, huma.Operation{
		OperationID:   "add-task-dependency",
		Method:        http.MethodPost,
		Path:          "/tasks/{task_id}/dependencies",
		Summary:       "Add task dependency",
		DefaultStatus: http.StatusCreated,
	}, func(ctx context.Context, input *struct {
		TaskID string               `path:"task_id"`
		Body   AddDependencyRequest `json:"body"`
	}) (*struct{}, error) {
		principal, err := requireAccess(ctx, authz, rbac.ResourceTasks, rbac.ActionUpdate, input.TaskID)
		if err != nil {
			return nil, handleError(err)
		}
		if err := e.AddDependency(ctx, input.TaskID, input.Body.DependsOnID, input.Body.Kind, principal.UserID); err != nil {
			return nil, handleError(err)
		}
		return &struct{}{}, nil
	})

	huma.Register(api, huma.Operation{
		OperationID: "list-task-dependencies",
		Method:      http.MethodGet,
		Path:        "/tasks/{task_id}/dependencies",
		Summary:     "List task dependencies",
	}, func(ctx context.Context, input *struct {
		TaskID string `path:"task_id"`
	}) (*struct {
		Body DependencyListResponse `json:"body"`
	}, error) {
		if _, err := requireAccess(ctx, authz, rbac.ResourceTasks, rbac.ActionRead, input.TaskID); err != nil {
			return nil, handleError(err)
		}
		deps, err := e.Repo.ListDependencies(ctx, input.TaskID)
		if err != nil {
			return nil, handleError(err)
		}
		dependents, err := e.Repo.ListDependents(ctx, input.TaskID)
		if err != nil {
			return nil, handleError(err)
		}
		return &struct {
			Body DependencyListResponse `json:"body"`
		}{Body: DependencyListResponse{Dependencies: deps, Dependents: dependents}}, nil
	})

	huma.Register(api, huma.Operation{
		OperationID:   "remove-task-dependency",
		Method:        http.MethodDelete,
		Path:          "/tasks/{task_id}/dependencies/{depends_on_id}",
		Summary:       "Remove task dependency",
		DefaultStatus: http.StatusNoContent,
	}, func(ctx context.Context, input *struct {
		TaskID      string `path:"task_id"`
		DependsOnID string `path:"depends_on_id"`
	}) (*struct{}, error) {
		principal, err := requireAccess(ctx, authz, rbac.ResourceTasks, rbac.ActionUpdate, input.TaskID)
		if err != nil {
			return nil, handleError(err)
		}
		if err := e.RemoveDependency(ctx, input.TaskID, input.DependsOnID, principal.UserID); err != nil {
			return nil, handleError(err)
		}
		return &struct{}{}, nil
	})

	huma.Register(api, huma.Operation{
		OperationID: "task-time-tracking",
		Method:      http.MethodPost,
		Path:        "/tasks/{task_id}/time",
		Summary:     "Record actual hours",
	}, func(ctx context.Context, input *struct {
		TaskID string              `path:"task_id"`
		Body   TimeTrackingRequest `json:"body"`
	}) (*struct {
		Body domain.Task `json:"body"`
	}, error) {
		principal, err := requireAccess(ctx, authz, rbac.ResourceTasks, rbac.ActionUpdate, input.TaskID)
		if err != nil {
			return nil, handleError(err)
		}
		t, err := e.UpdateTimeTracking(ctx, input.TaskID, input.Body.ActualHours, principal.UserID)
		if err != nil {
			return nil, handleError(err)
		}
		return &struct {
			Body domain.Task `json:"body"`
		}{Body: t}, nil
	})

	huma.Register(api, huma.Operation{
		OperationID: "task-schedule",
		Method:      http.MethodGet,
		Path:        "/tasks/schedule",
		Summary:     "Gantt schedule view",
	}, func(ctx context.Context, input *struct {
		CampaignID string `query:"campaign_id"`
	}) (*struct {
		Body ScheduleResponse `json:"body"`
	}, error) {
		if _, err := requireAccess(ctx, authz, rbac.ResourceTasks, rbac.ActionRead, ""); err != nil {
			return nil, handleError(err)
		}
		bars, err := e.ScheduleView(ctx, input.CampaignID)
		if err != nil {
			return nil, handleError(err)
		}
		return &struct {
			Body ScheduleResponse `json:"body"`
		}{Body: ScheduleResponse{Bars: bars}}, nil
	})
}
