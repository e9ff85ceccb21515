package server

import (
	"context"
	"net/http"

	"github.com/danielgtaylor/huma/v2"

	"mediadesk/internal/domain"
	"mediadesk/internal/engine"
)

// Notifications are scoped to the authenticated user, no resource grant needed.
func registerNotifications(api huma.API, e engine.Engine) {
	huma.Register(api, huma.Operation{
		OperationID: "list-notifications",
		Method:      http.MethodGet,
		Path:        "/notifications",
		Summary:     "List notifications",
	}, func(ctx context.Context, input *struct {
		Unread bool `query:"unread"`
	}) (*struct {
		Body struct {
			Notifications []domain.Notification `json:"notifications"`
		} `json:"body"`
	}, error) {
		principal, authErr := requirePrincipal(ctx)
		if authErr != nil {
			return nil, authErr
		}
		notifications, err := e.ListNotifications(ctx, principal.UserID, input.Unread)
		if err != nil {
			return nil, handleError(err)
		}
		out := &struct {
			Body struct {
				Notifications []domain.Notification `json:"notifications"`
			} `json:"body"`
		}{}
		out.Body.Notifications = notifications
		return out, nil
	})

	huma.Register(api, huma.Operation{
		OperationID: "unread-notification-count",
		Method:      http.MethodGet,
		Path:        "/notifications/unread-count",
		Summary:     "Count unread notifications",
	}, func(ctx context.Context, _ *struct{}) (*struct {
		Body struct {
			Count int64 `json:"count"`
		} `json:"body"`
	}, error) {
		principal, authErr := requirePrincipal(ctx)
		if authErr != nil {
			return nil, authErr
		}
		n, err := e.Repo.CountUnreadNotifications(ctx, principal.UserID)
		if err != nil {
			return nil, handleError(err)
		}
		out := &struct {
			Body struct {
				Count int64 `json:"count"`
			} `json:"body"`
		}{}
		out.Body.Count = n
		return out, nil
	})

	huma.Register(api, huma.Operation{
		OperationID: "read-notification",
		Method:      http.MethodPost,
		Path:        "/notifications/{notification_id}/read",
		Summary:     "Mark notification read",
	}, func(ctx context.Context, input *struct {
		NotificationID string `path:"notification_id"`
	}) (*struct {
		Body struct {
			Read bool `json:"read"`
		} `json:"body"`
	}, error) {
		principal, authErr := requirePrincipal(ctx)
		if authErr != nil {
			return nil, authErr
		}
		if err := e.MarkNotificationRead(ctx, input.NotificationID, principal.UserID); err != nil {
			return nil, handleError(err)
		}
		out := &struct {
			Body struct {
				Read bool `json:"read"`
			} `json:"body"`
		}{}
		out.Body.Read = true
		return out, nil
	})

	huma.Register(api, huma.Operation{
		OperationID: "read-all-notifications",
		Method:      http.MethodPost,
		Path:        "/notifications/read-all",
		Summary:     "Mark all notifications read",
	}, func(ctx context.Context, _ *struct{}) (*struct {
		Body struct {
			Updated int64 `json:"updated"`
		} `json:"body"`
	}, error) {
		principal, authErr := requirePrincipal(ctx)
		if authErr != nil {
			return nil, authErr
		}
		n, err := e.MarkAllNotificationsRead(ctx, principal.UserID)
		if err != nil {
			return nil, handleError(err)
		}
		out := &struct {
			Body struct {
				Updated int64 `json:"updated"`
			} `json:"body"`
		}{}
		out.Body.Updated = n
		return out, nil
	})

	huma.Register(api, huma.Operation{
		OperationID: "get-notification-preference",
		Method:      http.MethodGet,
		Path:        "/notifications/preferences",
		Summary:     "Get notification preference",
	}, func(ctx context.Context, _ *struct{}) (*struct {
		Body domain.NotificationPreference `json:"body"`
	}, error) {
		principal, authErr := requirePrincipal(ctx)
		if authErr != nil {
			return nil, authErr
		}
		pref, err := e.Repo.GetNotificationPreference(ctx, principal.UserID)
		if err != nil {
			return nil, handleError(err)
		}
		return &struct {
			Body domain.NotificationPreference `json:"body"`
		}{Body: pref}, nil
	})

	huma.Register(api, huma.Operation{
		OperationID: "set-notification-preference",
		Method:      http.MethodPut,
		Path:        "/notifications/preferences",
		Summary:     "Set notification preference",
	}, func(ctx context.Context, input *struct {
		Body NotificationPreferenceRequest `json:"body"`
	}) (*struct {
		Body domain.NotificationPreference `json:"body"`
	}, error) {
		principal, authErr := requirePrincipal(ctx)
		if authErr != nil {
			return nil, authErr
		}
		pref := domain.NotificationPreference{
			UserID:  principal.UserID,
			InApp:   input.Body.InApp,
			Webhook: input.Body.Webhook,
		}
		if err := e.SetNotificationPreference(ctx, pref); err != nil {
			return nil, handleError(err)
		}
		return &struct {
			Body domain.NotificationPreference `json:"body"`
		}{Body: pref}, nil
	})
}
