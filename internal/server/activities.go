package server

import (
	"context"
	"net/http"

	"github.com/danielgtaylor/huma/v2"

	"mediadesk/internal/domain"
	"mediadesk/internal/engine"
	"mediadesk/internal/rbac"
)

func registerActivities(api huma.API, e engine.Engine, authz rbac.Service) {
	huma.Register(api, huma.Operation{
		OperationID: "list-activities",
		Method:      http.MethodGet,
		Path:        "/activities",
		Summary:     "Activity feed",
	}, func(ctx context.Context, input *struct {
		AfterID int64 `query:"after_id" minimum:"0"`
		Limit   int   `query:"limit" minimum:"1" maximum:"500" default:"100"`
	}) (*struct {
		Body struct {
			Activities []domain.Activity `json:"activities"`
		} `json:"body"`
	}, error) {
		if _, err := requireAccess(ctx, authz, rbac.ResourceReports, rbac.ActionRead, ""); err != nil {
			return nil, handleError(err)
		}
		activities, err := e.Repo.ListActivitiesAfter(ctx, input.AfterID, input.Limit)
		if err != nil {
			return nil, handleError(err)
		}
		out := &struct {
			Body struct {
				Activities []domain.Activity `json:"activities"`
			} `json:"body"`
		}{}
		out.Body.Activities = activities
		return out, nil
	})

	huma.Register(api, huma.Operation{
		OperationID: "entity-activities",
		Method:      http.MethodGet,
		Path:        "/activities/{entity_kind}/{entity_id}",
		Summary:     "Activity feed for one entity",
	}, func(ctx context.Context, input *struct {
		EntityKind string `path:"entity_kind"`
		EntityID   string `path:"entity_id"`
		Limit      int    `query:"limit" minimum:"1" maximum:"500" default:"100"`
	}) (*struct {
		Body struct {
			Activities []domain.Activity `json:"activities"`
		} `json:"body"`
	}, error) {
		if _, err := requireAccess(ctx, authz, rbac.ResourceReports, rbac.ActionRead, ""); err != nil {
			return nil, handleError(err)
		}
		activities, err := e.Repo.ListActivitiesForEntity(ctx, input.EntityKind, input.EntityID, input.Limit)
		if err != nil {
			return nil, handleError(err)
		}
		out := &struct {
			Body struct {
				Activities []domain.Activity `json:"activities"`
			} `json:"body"`
		}{}
		out.Body.Activities = activities
		return out, nil
	})
}
