package server

import (
	"context"
	"net/http"

	"github.com/danielgtaylor/huma/v2"

	"mediadesk/internal/engine"
	"mediadesk/internal/rbac"
)

func registerAnalytics(api huma.API, e engine.Engine, authz rbac.Service) {
	huma.Register(api, huma.Operation{
		OperationID: "dashboard",
		Method:      http.MethodGet,
		Path:        "/analytics/dashboard",
		Summary:     "Dashboard summary",
	}, func(ctx context.Context, _ *struct{}) (*struct {
		Body engine.DashboardSummary `json:"body"`
	}, error) {
		if _, err := requireAccess(ctx, authz, rbac.ResourceAnalytics, rbac.ActionRead, ""); err != nil {
			return nil, handleError(err)
		}
		sum, err := e.Dashboard(ctx)
		if err != nil {
			return nil, handleError(err)
		}
		return &struct {
			Body engine.DashboardSummary `json:"body"`
		}{Body: sum}, nil
	})

	huma.Register(api, huma.Operation{
		OperationID: "campaign-roi-report",
		Method:      http.MethodGet,
		Path:        "/analytics/campaign-roi",
		Summary:     "Campaign ROI report",
	}, func(ctx context.Context, input *struct {
		ClientID string `query:"client_id"`
	}) (*struct {
		Body struct {
			Campaigns []engine.CampaignROI `json:"campaigns"`
		} `json:"body"`
	}, error) {
		if _, err := requireAccess(ctx, authz, rbac.ResourceReports, rbac.ActionRead, ""); err != nil {
			return nil, handleError(err)
		}
		rows, err := e.CampaignROIReport(ctx, input.ClientID)
		if err != nil {
			return nil, handleError(err)
		}
		out := &struct {
			Body struct {
				Campaigns []engine.CampaignROI `json:"campaigns"`
			} `json:"body"`
		}{}
		out.Body.Campaigns = rows
		return out, nil
	})

	huma.Register(api, huma.Operation{
		OperationID: "team-utilization-report",
		Method:      http.MethodGet,
		Path:        "/analytics/team-utilization",
		Summary:     "Team utilization report",
	}, func(ctx context.Context, input *struct {
		Weeks int `query:"weeks" minimum:"1" default:"4"`
	}) (*struct {
		Body struct {
			Members []engine.TeamUtilization `json:"members"`
		} `json:"body"`
	}, error) {
		if _, err := requireAccess(ctx, authz, rbac.ResourceReports, rbac.ActionRead, ""); err != nil {
			return nil, handleError(err)
		}
		rows, err := e.TeamUtilizationReport(ctx, input.Weeks)
		if err != nil {
			return nil, handleError(err)
		}
		out := &struct {
			Body struct {
				Members []engine.TeamUtilization `json:"members"`
			} `json:"body"`
		}{}
		out.Body.Members = rows
		return out, nil
	})

	huma.Register(api, huma.Operation{
		OperationID: "on-time-report",
		Method:      http.MethodGet,
		Path:        "/analytics/on-time",
		Summary:     "Task on time completion report",
	}, func(ctx context.Context, _ *struct{}) (*struct {
		Body engine.OnTimeReport `json:"body"`
	}, error) {
		if _, err := requireAccess(ctx, authz, rbac.ResourceReports, rbac.ActionRead, ""); err != nil {
			return nil, handleError(err)
		}
		rep, err := e.TaskOnTimeReport(ctx)
		if err != nil {
			return nil, handleError(err)
		}
		return &struct {
			Body engine.OnTimeReport `json:"body"`
		}{Body: rep}, nil
	})

	huma.Register(api, huma.Operation{
		OperationID: "client-profitability-report",
		Method:      http.MethodGet,
		Path:        "/analytics/client-profitability",
		Summary:     "Client profitability report",
	}, func(ctx context.Context, _ *struct{}) (*struct {
		Body struct {
			Clients []engine.ClientProfitability `json:"clients"`
		} `json:"body"`
	}, error) {
		if _, err := requireAccess(ctx, authz, rbac.ResourceReports, rbac.ActionRead, ""); err != nil {
			return nil, handleError(err)
		}
		rows, err := e.ClientProfitabilityReport(ctx)
		if err != nil {
			return nil, handleError(err)
		}
		out := &struct {
			Body struct {
				Clients []engine.ClientProfitability `json:"clients"`
			} `json:"body"`
		}{}
		out.Body.Clients = rows
		return out, nil
	})
}
