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

func registerInvoices(api huma.API, e engine.Engine, authz rbac.Service) {
	huma.Register(api, huma.Operation{
		OperationID:   "create-invoice",
		Method:        http.MethodPost,
		Path:          "/invoices",
		Summary:       "Create invoice",
		DefaultStatus: http.StatusCreated,
	}, func(ctx context.Context, input *struct {
		Body CreateInvoiceRequest `json:"body"`
	}) (*struct {
		Body domain.Invoice `json:"body"`
	}, error) {
		principal, err := requireAccess(ctx, authz, rbac.ResourceInvoices, rbac.ActionCreate, "")
		if err != nil {
			return nil, handleError(err)
		}
		inv, err := e.CreateInvoice(ctx, engine.InvoiceCreateOptions{
			ClientID:   input.Body.ClientID,
			CampaignID: input.Body.CampaignID,
			Amount:     input.Body.Amount,
			Tax:        input.Body.Tax,
			IssueDate:  input.Body.IssueDate,
			DueDate:    input.Body.DueDate,
			Notes:      input.Body.Notes,
			ActorID:    principal.UserID,
		})
		if err != nil {
			return nil, handleError(err)
		}
		return &struct {
			Body domain.Invoice `json:"body"`
		}{Body: inv}, nil
	})

	huma.Register(api, huma.Operation{
		OperationID: "list-invoices",
		Method:      http.MethodGet,
		Path:        "/invoices",
		Summary:     "List invoices",
	}, func(ctx context.Context, input *struct {
		ClientID string `query:"client_id"`
		Status   string `query:"status"`
	}) (*struct {
		Body struct {
			Invoices []domain.Invoice `json:"invoices"`
		} `json:"body"`
	}, error) {
		principal, err := requireAccess(ctx, authz, rbac.ResourceInvoices, rbac.ActionRead, "")
		if err != nil {
			return nil, handleError(err)
		}
		filter := repo.InvoiceFilter{ClientID: input.ClientID, Status: input.Status}
		// Finance and admins see everything, everyone else their own.
		role := rbac.Role(principal.Role)
		if role != rbac.RoleAdmin && role != rbac.RoleFinance {
			filter.CreatedByID = principal.UserID
		}
		invoices, err := e.ListInvoices(ctx, filter)
		if err != nil {
			return nil, handleError(err)
		}
		out := &struct {
			Body struct {
				Invoices []domain.Invoice `json:"invoices"`
			} `json:"body"`
		}{}
		out.Body.Invoices = invoices
		return out, nil
	})

	huma.Register(api, huma.Operation{
		OperationID: "list-overdue-invoices",
		Method:      http.MethodGet,
		Path:        "/invoices/overdue",
		Summary:     "List overdue invoices",
	}, func(ctx context.Context, _ *struct{}) (*struct {
		Body struct {
			Invoices []domain.Invoice `json:"invoices"`
		} `json:"body"`
	}, error) {
		if _, err := requireAccess(ctx, authz, rbac.ResourceInvoices, rbac.ActionRead, ""); err != nil {
			return nil, handleError(err)
		}
		invoices, err := e.OverdueInvoices(ctx)
		if err != nil {
			return nil, handleError(err)
		}
		out := &struct {
			Body struct {
				Invoices []domain.Invoice `json:"invoices"`
			} `json:"body"`
		}{}
		out.Body.Invoices = invoices
		return out, nil
	})

	huma.Register(api, huma.Operation{
		OperationID: "get-invoice",
		Method:      http.MethodGet,
		Path:        "/invoices/{invoice_id}",
		Summary:     "Get invoice",
	}, func(ctx context.Context, input *struct {
		InvoiceID string `path:"invoice_id"`
	}) (*struct {
		Body domain.Invoice `json:"body"`
	}, error) {
		if _, err := requireAccess(ctx, authz, rbac.ResourceInvoices, rbac.ActionRead, input.InvoiceID); err != nil {
			return nil, handleError(err)
		}
		inv, err := e.Repo.GetInvoice(ctx, input.InvoiceID)
		if err != nil {
			return nil, handleError(err)
		}
		return &struct {
			Body domain.Invoice `json:"body"`
		}{Body: inv}, nil
	})

	huma.Register(api, huma.Operation{
		OperationID: "update-invoice",
		Method:      http.MethodPatch,
		Path:        "/invoices/{invoice_id}",
		Summary:     "Update invoice",
	}, func(ctx context.Context, input *struct {
		InvoiceID string               `path:"invoice_id"`
		Body      UpdateInvoiceRequest `json:"body"`
	}) (*struct {
		Body domain.Invoice `json:"body"`
	}, error) {
		principal, err := requireAccess(ctx, authz, rbac.ResourceInvoices, rbac.ActionUpdate, input.InvoiceID)
		if err != nil {
			return nil, handleError(err)
		}
		inv, err := e.UpdateInvoice(ctx, engine.InvoiceUpdateOptions{
			ID:      input.InvoiceID,
			Amount:  input.Body.Amount,
			Tax:     input.Body.Tax,
			DueDate: input.Body.DueDate,
			Notes:   input.Body.Notes,
			ActorID: principal.UserID,
		})
		if err != nil {
			return nil, handleError(err)
		}
		return &struct {
			Body domain.Invoice `json:"body"`
		}{Body: inv}, nil
	})

	huma.Register(api, huma.Operation{
		OperationID: "update-invoice-status",
		Method:      http.MethodPost,
		Path:        "/invoices/{invoice_id}/status",
		Summary:     "Update invoice status",
	}, func(ctx context.Context, input *struct {
		InvoiceID string        `path:"invoice_id"`
		Body      StatusRequest `json:"body"`
	}) (*struct {
		Body domain.Invoice `json:"body"`
	}, error) {
		principal, err := requireAccess(ctx, authz, rbac.ResourceInvoices, rbac.ActionUpdate, input.InvoiceID)
		if err != nil {
			return nil, handleError(err)
		}
		inv, err := e.UpdateInvoiceStatus(ctx, input.InvoiceID, input.Body.Status, principal.UserID)
		if err != nil {
			return nil, handleError(err)
		}
		return &struct {
			Body domain.Invoice `json:"body"`
		}{Body: inv}, nil
	})

	huma.Register(api, huma.Operation{
		OperationID: "record-invoice-payment",
		Method:      http.MethodPost,
		Path:        "/invoices/{invoice_id}/payment",
		Summary:     "Record invoice payment",
	}, func(ctx context.Context, input *struct {
		InvoiceID string         `path:"invoice_id"`
		Body      PaymentRequest `json:"body"`
	}) (*struct {
		Body domain.Invoice `json:"body"`
	}, error) {
		principal, err := requireAccess(ctx, authz, rbac.ResourceInvoices, rbac.ActionUpdate, input.InvoiceID)
		if err != nil {
			return nil, handleError(err)
		}
		inv, err := e.RecordInvoicePayment(ctx, input.InvoiceID, input.Body.PaymentStatus, principal.UserID)
		if err != nil {
			return nil, handleError(err)
		}
		return &struct {
			Body domain.Invoice `json:"body"`
		}{Body: inv}, nil
	})

	huma.Register(api, huma.Operation{
		OperationID:   "delete-invoice",
		Method:        http.MethodDelete,
		Path:          "/invoices/{invoice_id}",
		Summary:       "Delete invoice",
		DefaultStatus: http.StatusNoContent,
	}, func(ctx context.Context, input *struct {
		InvoiceID string `path:"invoice_id"`
	}) (*struct{}, error) {
		principal, err := requireAccess(ctx, authz, rbac.ResourceInvoices, rbac.ActionDelete, input.InvoiceID)
		if err != nil {
			return nil, handleError(err)
		}
		if err := e.DeleteInvoice(ctx, input.InvoiceID, principal.UserID); err != nil {
			return nil, handleError(err)
		}
		return &struct{}{}, nil
	})
}

func registerExpenses(api huma.API, e engine.Engine, authz rbac.Service) {
	huma.Register(api, huma.Operation{
		OperationID:   "create-expense",
		Method:        http.MethodPost,
		Path:          "/expenses",
		Summary:       "Submit expense",
		DefaultStatus: http.StatusCreated,
	}, func(ctx context.Context, input *struct {
		Body CreateExpenseRequest `json:"body"`
	}) (*struct {
		Body domain.Expense `json:"body"`
	}, error) {
		principal, err := requireAccess(ctx, authz, rbac.ResourceExpenses, rbac.ActionCreate, "")
		if err != nil {
			return nil, handleError(err)
		}
		exp, err := e.CreateExpense(ctx, engine.ExpenseCreateOptions{
			CampaignID:  input.Body.CampaignID,
			Description: input.Body.Description,
			Amount:      input.Body.Amount,
			Category:    input.Body.Category,
			ExpenseDate: input.Body.ExpenseDate,
			ActorID:     principal.UserID,
		})
		if err != nil {
			return nil, handleError(err)
		}
		return &struct {
			Body domain.Expense `json:"body"`
		}{Body: exp}, nil
	})

	huma.Register(api, huma.Operation{
		OperationID: "list-expenses",
		Method:      http.MethodGet,
		Path:        "/expenses",
		Summary:     "List expenses",
	}, func(ctx context.Context, input *struct {
		CampaignID string `query:"campaign_id"`
		Status     string `query:"status"`
	}) (*struct {
		Body struct {
			Expenses []domain.Expense `json:"expenses"`
		} `json:"body"`
	}, error) {
		if _, err := requireAccess(ctx, authz, rbac.ResourceExpenses, rbac.ActionRead, ""); err != nil {
			return nil, handleError(err)
		}
		expenses, err := e.ListExpenses(ctx, repo.ExpenseFilter{CampaignID: input.CampaignID, Status: input.Status})
		if err != nil {
			return nil, handleError(err)
		}
		out := &struct {
			Body struct {
				Expenses []domain.Expense `json:"expenses"`
			} `json:"body"`
		}{}
		out.Body.Expenses = expenses
		return out, nil
	})

	huma.Register(api, huma.Operation{
		OperationID: "get-expense",
		Method:      http.MethodGet,
		Path:        "/expenses/{expense_id}",
		Summary:     "Get expense",
	}, func(ctx context.Context, input *struct {
		ExpenseID string `path:"expense_id"`
	}) (*struct {
		Body domain.Expense `json:"body"`
	}, error) {
		if _, err := requireAccess(ctx, authz, rbac.ResourceExpenses, rbac.ActionRead, input.ExpenseID); err != nil {
			return nil, handleError(err)
		}
		exp, err := e.Repo.GetExpense(ctx, input.ExpenseID)
		if err != nil {
			return nil, handleError(err)
		}
		return &struct {
			Body domain.Expense `json:"body"`
		}{Body: exp}, nil
	})

	huma.Register(api, huma.Operation{
		OperationID: "update-expense",
		Method:      http.MethodPatch,
		Path:        "/expenses/{expense_id}",
		Summary:     "Update expense",
	}, func(ctx context.Context, input *struct {
		ExpenseID string               `path:"expense_id"`
		Body      UpdateExpenseRequest `json:"body"`
	}) (*struct {
		Body domain.Expense `json:"body"`
	}, error) {
		principal, err := requireAccess(ctx, authz, rbac.ResourceExpenses, rbac.ActionUpdate, input.ExpenseID)
		if err != nil {
			return nil, handleError(err)
		}
		exp, err := e.UpdateExpense(ctx, engine.ExpenseUpdateOptions{
			ID:          input.ExpenseID,
			Description: input.Body.Description,
			Amount:      input.Body.Amount,
			Category:    input.Body.Category,
			ExpenseDate: input.Body.ExpenseDate,
			ActorID:     principal.UserID,
		})
		if err != nil {
			return nil, handleError(err)
		}
		return &struct {
			Body domain.Expense `json:"body"`
		}{Body: exp}, nil
	})

	huma.Register(api, huma.Operation{
		OperationID: "review-expense",
		Method:      http.MethodPost,
		Path:        "/expenses/{expense_id}/review",
		Summary:     "Approve or reject expense",
	}, func(ctx context.Context, input *struct {
		ExpenseID string               `path:"expense_id"`
		Body      ReviewExpenseRequest `json:"body"`
	}) (*struct {
		Body domain.Expense `json:"body"`
	}, error) {
		principal, err := requireAccess(ctx, authz, rbac.ResourceExpenses, rbac.ActionUpdate, input.ExpenseID)
		if err != nil {
			return nil, handleError(err)
		}
		exp, err := e.ReviewExpense(ctx, input.ExpenseID, input.Body.Approve, principal.UserID)
		if err != nil {
			return nil, handleError(err)
		}
		return &struct {
			Body domain.Expense `json:"body"`
		}{Body: exp}, nil
	})

	huma.Register(api, huma.Operation{
		OperationID:   "delete-expense",
		Method:        http.MethodDelete,
		Path:          "/expenses/{expense_id}",
		Summary:       "Delete expense",
		DefaultStatus: http.StatusNoContent,
	}, func(ctx context.Context, input *struct {
		ExpenseID string `path:"expense_id"`
	}) (*struct{}, error) {
		principal, err := requireAccess(ctx, authz, rbac.ResourceExpenses, rbac.ActionDelete, input.ExpenseID)
		if err != nil {
			return nil, handleError(err)
		}
		if err := e.DeleteExpense(ctx, input.ExpenseID, principal.UserID); err != nil {
			return nil, handleError(err)
		}
		return &struct{}{}, nil
	})
}
