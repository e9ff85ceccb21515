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

func registerCampaigns(api huma.API, e engine.Engine, authz rbac.Service) {
	huma.Register(api, huma.Operation{
		OperationID:   "create-campaign",
		Method:        http.MethodPost,
		Path:          "/campaigns",
		Summary:       "Create campaign",
		DefaultStatus: http.StatusCreated,
	}, func(ctx context.Context, input *struct {
		Body CreateCampaignRequest `json:"body"`
	}) (*struct {
		Body domain.Campaign `json:"body"`
	}, error) {
		principal, err := requireAccess(ctx, authz, rbac.ResourceCampaigns, rbac.ActionCreate, "")
		if err != nil {
			return nil, handleError(err)
		}
		c, err := e.CreateCampaign(ctx, engine.CampaignCreateOptions{
			ClientID:     input.Body.ClientID,
			Name:         input.Body.Name,
			Type:         input.Body.Type,
			Budget:       input.Body.Budget,
			StartDate:    input.Body.StartDate,
			EndDate:      input.Body.EndDate,
			AssignedToID: input.Body.AssignedToID,
			ActorID:      principal.UserID,
		})
		if err != nil {
			return nil, handleError(err)
		}
		return &struct {
			Body domain.Campaign `json:"body"`
		}{Body: c}, nil
	})

	huma.Register(api, huma.Operation{
		OperationID: "list-campaigns",
		Method:      http.MethodGet,
		Path:        "/campaigns",
		Summary:     "List campaigns",
	}, func(ctx context.Context, input *struct {
		ClientID string `query:"client_id"`
		Status   string `query:"status"`
	}) (*struct {
		Body struct {
			Campaigns []domain.Campaign `json:"campaigns"`
		} `json:"body"`
	}, error) {
		principal, err := requireAccess(ctx, authz, rbac.ResourceCampaigns, rbac.ActionRead, "")
		if err != nil {
			return nil, handleError(err)
		}
		filter := repo.CampaignFilter{ClientID: input.ClientID, Status: input.Status}
		role := rbac.Role(principal.Role)
		if role != rbac.RoleAdmin && role != rbac.RoleManager {
			filter.AssignedToID = principal.UserID
		}
		campaigns, err := e.ListCampaigns(ctx, filter)
		if err != nil {
			return nil, handleError(err)
		}
		out := &struct {
			Body struct {
				Campaigns []domain.Campaign `json:"campaigns"`
			} `json:"body"`
		}{}
		out.Body.Campaigns = campaigns
		return out, nil
	})

	huma.Register(api, huma.Operation{
		OperationID: "get-campaign",
		Method:      http.MethodGet,
		Path:        "/campaigns/{campaign_id}",
		Summary:     "Get campaign",
	}, func(ctx context.Context, input *struct {
		CampaignID string `path:"campaign_id"`
	}) (*struct {
		Body domain.Campaign `json:"body"`
	}, error) {
		if _, err := requireAccess(ctx, authz, rbac.ResourceCampaigns, rbac.ActionRead, input.CampaignID); err != nil {
			return nil, handleError(err)
		}
		c, err := e.Repo.GetCampaign(ctx, input.CampaignID)
		if err != nil {
			return nil, handleError(err)
		}
		return &struct {
			Body domain.Campaign `json:"body"`
		}{Body: c}, nil
	})

	huma.Register(api, huma.Operation{
		OperationID: "update-campaign",
		Method:      http.MethodPatch,
		Path:        "/campaigns/{campaign_id}",
		Summary:     "Update campaign",
	}, func(ctx context.Context, input *struct {
		CampaignID string                `path:"campaign_id"`
		Body       UpdateCampaignRequest `json:"body"`
	}) (*struct {
		Body domain.Campaign `json:"body"`
	}, error) {
		principal, err := requireAccess(ctx, authz, rbac.ResourceCampaigns, rbac.ActionUpdate, input.CampaignID)
		if err != nil {
			return nil, handleError(err)
		}
		c, err := e.UpdateCampaign(ctx, engine.CampaignUpdateOptions{
			ID:           input.CampaignID,
			Name:         input.Body.Name,
			Type:         input.Body.Type,
			Budget:       input.Body.Budget,
			ActualSpend:  input.Body.ActualSpend,
			StartDate:    input.Body.StartDate,
			EndDate:      input.Body.EndDate,
			AssignedToID: input.Body.AssignedToID,
			ActorID:      principal.UserID,
		})
		if err != nil {
			return nil, handleError(err)
		}
		return &struct {
			Body domain.Campaign `json:"body"`
		}{Body: c}, nil
	})

	huma.Register(api, huma.Operation{
		OperationID: "update-campaign-status",
		Method:      http.MethodPost,
		Path:        "/campaigns/{campaign_id}/status",
		Summary:     "Update campaign status",
	}, func(ctx context.Context, input *struct {
		CampaignID string        `path:"campaign_id"`
		Body       StatusRequest `json:"body"`
	}) (*struct {
		Body domain.Campaign `json:"body"`
	}, error) {
		principal, err := requireAccess(ctx, authz, rbac.ResourceCampaigns, rbac.ActionUpdate, input.CampaignID)
		if err != nil {
			return nil, handleError(err)
		}
		c, err := e.UpdateCampaignStatus(ctx, input.CampaignID, input.Body.Status, principal.UserID)
		if err != nil {
			return nil, handleError(err)
		}
		return &struct {
			Body domain.Campaign `json:"body"`
		}{Body: c}, nil
	})

	huma.Register(api, huma.Operation{
		OperationID: "campaign-stats",
		Method:      http.MethodGet,
		Path:        "/campaigns/{campaign_id}/stats",
		Summary:     "Campaign budget and task stats",
	}, func(ctx context.Context, input *struct {
		CampaignID string `path:"campaign_id"`
	}) (*struct {
		Body engine.CampaignStats `json:"body"`
	}, error) {
		if _, err := requireAccess(ctx, authz, rbac.ResourceCampaigns, rbac.ActionRead, input.CampaignID); err != nil {
			return nil, handleError(err)
		}
		stats, err := e.CampaignStats(ctx, input.CampaignID)
		if err != nil {
			return nil, handleError(err)
		}
		return &struct {
			Body engine.CampaignStats `json:"body"`
		}{Body: stats}, nil
	})

	huma.Register(api, huma.Operation{
		OperationID:   "delete-campaign",
		Method:        http.MethodDelete,
		Path:          "/campaigns/{campaign_id}",
		Summary:       "Delete campaign",
		DefaultStatus: http.StatusNoContent,
	}, func(ctx context.Context, input *struct {
		CampaignID string `path:"campaign_id"`
	}) (*struct{}, error) {
		principal, err := requireAccess(ctx, authz, rbac.ResourceCampaigns, rbac.ActionDelete, input.CampaignID)
		if err != nil {
			return nil, handleError(err)
		}
		if err := e.DeleteCampaign(ctx, input.CampaignID, principal.UserID); err != nil {
			return nil, handleError(err)
		}
		return &struct{}{}, nil
	})
}
