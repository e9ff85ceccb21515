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

func registerClients(api huma.API, e engine.Engine, authz rbac.Service) {
	huma.Register(api, huma.Operation{
		OperationID:   "create-client",
		Method:        http.MethodPost,
		Path:          "/clients",
		Summary:       "Create client",
		DefaultStatus: http.StatusCreated,
	}, func(ctx context.Context, input *struct {
		Body CreateClientRequest `json:"body"`
	}) (*struct {
		Body domain.Client `json:"body"`
	}, error) {
		principal, err := requireAccess(ctx, authz, rbac.ResourceClients, rbac.ActionCreate, "")
		if err != nil {
			return nil, handleError(err)
		}
		c, err := e.CreateClient(ctx, engine.ClientCreateOptions{
			Name:          input.Body.Name,
			Industry:      input.Body.Industry,
			Email:         input.Body.Email,
			Phone:         input.Body.Phone,
			Website:       input.Body.Website,
			Status:        input.Body.Status,
			ContractValue: input.Body.ContractValue,
			ContractStart: input.Body.ContractStart,
			ContractEnd:   input.Body.ContractEnd,
			Notes:         input.Body.Notes,
			ActorID:       principal.UserID,
		})
		if err != nil {
			return nil, handleError(err)
		}
		return &struct {
			Body domain.Client `json:"body"`
		}{Body: c}, nil
	})

	huma.Register(api, huma.Operation{
		OperationID: "list-clients",
		Method:      http.MethodGet,
		Path:        "/clients",
		Summary:     "List clients",
	}, func(ctx context.Context, input *struct {
		Status string `query:"status"`
	}) (*struct {
		Body struct {
			Clients []domain.Client `json:"clients"`
		} `json:"body"`
	}, error) {
		principal, err := requireAccess(ctx, authz, rbac.ResourceClients, rbac.ActionRead, "")
		if err != nil {
			return nil, handleError(err)
		}
		filter := repo.ClientFilter{Status: input.Status}
		role := rbac.Role(principal.Role)
		if role != rbac.RoleAdmin && role != rbac.RoleManager {
			filter.OwnerID = principal.UserID
		}
		clients, err := e.ListClients(ctx, filter)
		if err != nil {
			return nil, handleError(err)
		}
		out := &struct {
			Body struct {
				Clients []domain.Client `json:"clients"`
			} `json:"body"`
		}{}
		out.Body.Clients = clients
		return out, nil
	})

	huma.Register(api, huma.Operation{
		OperationID: "get-client",
		Method:      http.MethodGet,
		Path:        "/clients/{client_id}",
		Summary:     "Get client",
	}, func(ctx context.Context, input *struct {
		ClientID string `path:"client_id"`
	}) (*struct {
		Body domain.Client `json:"body"`
	}, error) {
		if _, err := requireAccess(ctx, authz, rbac.ResourceClients, rbac.ActionRead, input.ClientID); err != nil {
			return nil, handleError(err)
		}
		c, err := e.Repo.GetClient(ctx, input.ClientID)
		if err != nil {
			return nil, handleError(err)
		}
		return &struct {
			Body domain.Client `json:"body"`
		}{Body: c}, nil
	})

	huma.Register(api, huma.Operation{
		OperationID: "update-client",
		Method:      http.MethodPatch,
		Path:        "/clients/{client_id}",
		Summary:     "Update client",
	}, func(ctx context.Context, input *struct {
		ClientID string              `path:"client_id"`
		Body     UpdateClientRequest `json:"body"`
	}) (*struct {
		Body domain.Client `json:"body"`
	}, error) {
		principal, err := requireAccess(ctx, authz, rbac.ResourceClients, rbac.ActionUpdate, input.ClientID)
		if err != nil {
			return nil, handleError(err)
		}
		c, err := e.UpdateClient(ctx, engine.ClientUpdateOptions{
			ID:            input.ClientID,
			Name:          input.Body.Name,
			Industry:      input.Body.Industry,
			Email:         input.Body.Email,
			Phone:         input.Body.Phone,
			Website:       input.Body.Website,
			Status:        input.Body.Status,
			ContractValue: input.Body.ContractValue,
			ContractStart: input.Body.ContractStart,
			ContractEnd:   input.Body.ContractEnd,
			Notes:         input.Body.Notes,
			ActorID:       principal.UserID,
		})
		if err != nil {
			return nil, handleError(err)
		}
		return &struct {
			Body domain.Client `json:"body"`
		}{Body: c}, nil
	})

	huma.Register(api, huma.Operation{
		OperationID:   "delete-client",
		Method:        http.MethodDelete,
		Path:          "/clients/{client_id}",
		Summary:       "Delete client",
		DefaultStatus: http.StatusNoContent,
	}, func(ctx context.Context, input *struct {
		ClientID string `path:"client_id"`
	}) (*struct{}, error) {
		principal, err := requireAccess(ctx, authz, rbac.ResourceClients, rbac.ActionDelete, input.ClientID)
		if err != nil {
			return nil, handleError(err)
		}
		if err := e.DeleteClient(ctx, input.ClientID, principal.UserID); err != nil {
			return nil, handleError(err)
		}
		return &struct{}{}, nil
	})
}
