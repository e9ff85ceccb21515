package engine

import (
	"context"
	"errors"
	"fmt"

	"mediadesk/internal/domain"
	"mediadesk/internal/events"
	"mediadesk/internal/rbac"
	"mediadesk/internal/repo"
)

// ExpenseCreateOptions are parameters for submitting an expense.
type ExpenseCreateOptions struct {
	CampaignID  string
	Description string
	Amount      float64
	Category    string
	ExpenseDate string
	ActorID     string
}

func (e Engine) CreateExpense(ctx context.Context, opts ExpenseCreateOptions) (domain.Expense, error) {
	if opts.Description == "" {
		return domain.Expense{}, errors.New("description is required")
	}
	if opts.Amount <= 0 {
		return domain.Expense{}, errors.New("amount must be positive")
	}
	if opts.CampaignID != "" {
		if _, err := e.Repo.GetCampaign(ctx, opts.CampaignID); err != nil {
			return domain.Expense{}, err
		}
	}
	now := e.nowRFC3339()
	if opts.ExpenseDate == "" {
		opts.ExpenseDate = now
	}
	exp := domain.Expense{
		ID:          newID(),
		CampaignID:  optionalString(opts.CampaignID),
		Description: opts.Description,
		Amount:      opts.Amount,
		Category:    opts.Category,
		Status:      "pending",
		ExpenseDate: opts.ExpenseDate,
		CreatedByID: opts.ActorID,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	tx, err := e.DB.BeginTx(ctx, nil)
	if err != nil {
		return domain.Expense{}, err
	}
	defer tx.Rollback()

	if err := e.Repo.InsertExpense(ctx, tx, exp); err != nil {
		return domain.Expense{}, err
	}
	if err := e.Events.Append(ctx, tx, "expense.created", "expense", exp.ID, opts.ActorID, events.Payload{
		"amount":      exp.Amount,
		"description": exp.Description,
	}); err != nil {
		return domain.Expense{}, err
	}
	if err := tx.Commit(); err != nil {
		return domain.Expense{}, err
	}
	return exp, nil
}

// ExpenseUpdateOptions are partial fields for editing a pending expense.
type ExpenseUpdateOptions struct {
	ID          string
	Description *string
	Amount      *float64
	Category    *string
	ExpenseDate *string
	ActorID     string
}

// UpdateExpense edits a pending expense. Only the submitter may edit, and
// only before review.
func (e Engine) UpdateExpense(ctx context.Context, opts ExpenseUpdateOptions) (domain.Expense, error) {
	exp, err := e.Repo.GetExpense(ctx, opts.ID)
	if err != nil {
		return exp, err
	}
	if exp.Status != "pending" {
		return exp, errors.New("expense cannot be edited after review")
	}
	if exp.CreatedByID != opts.ActorID {
		return exp, rbac.ForbiddenError{Resource: rbac.ResourceExpenses, Action: rbac.ActionUpdate}
	}
	fields := map[string]any{"updated_at": e.nowRFC3339()}
	if opts.Description != nil {
		if *opts.Description == "" {
			return exp, errors.New("description is required")
		}
		fields["description"] = *opts.Description
	}
	if opts.Amount != nil {
		if *opts.Amount <= 0 {
			return exp, errors.New("amount must be positive")
		}
		fields["amount"] = *opts.Amount
	}
	if opts.Category != nil {
		fields["category"] = *opts.Category
	}
	if opts.ExpenseDate != nil {
		fields["expense_date"] = *opts.ExpenseDate
	}
	tx, err := e.DB.BeginTx(ctx, nil)
	if err != nil {
		return exp, err
	}
	defer tx.Rollback()

	if err := e.Repo.UpdateExpenseFields(ctx, tx, opts.ID, fields); err != nil {
		return exp, err
	}
	if err := e.Events.Append(ctx, tx, "expense.updated", "expense", opts.ID, opts.ActorID, nil); err != nil {
		return exp, err
	}
	if err := tx.Commit(); err != nil {
		return exp, err
	}
	return e.Repo.GetExpense(ctx, opts.ID)
}

// ReviewExpense approves or rejects a pending expense, stamping the reviewer.
// Approving a campaign expense adds its amount to the campaign's actual spend.
func (e Engine) ReviewExpense(ctx context.Context, id string, approve bool, actorID string) (domain.Expense, error) {
	exp, err := e.Repo.GetExpense(ctx, id)
	if err != nil {
		return exp, err
	}
	if exp.Status != "pending" {
		status := "rejected"
		if approve {
			status = "approved"
		}
		return exp, InvalidTransitionError{Entity: "expense", From: exp.Status, To: status}
	}
	status := "rejected"
	if approve {
		status = "approved"
	}
	now := e.nowRFC3339()
	tx, err := e.DB.BeginTx(ctx, nil)
	if err != nil {
		return exp, err
	}
	defer tx.Rollback()

	if err := e.Repo.UpdateExpenseFields(ctx, tx, id, map[string]any{
		"status":         status,
		"approved_by_id": actorID,
		"approved_at":    now,
		"updated_at":     now,
	}); err != nil {
		return exp, err
	}
	if approve && exp.CampaignID != nil {
		c, err := e.Repo.GetCampaignTx(ctx, tx, *exp.CampaignID)
		if err != nil {
			return exp, err
		}
		spend := exp.Amount
		if c.ActualSpend != nil {
			spend += *c.ActualSpend
		}
		if err := e.Repo.UpdateCampaignFields(ctx, tx, c.ID, map[string]any{
			"actual_spend": spend,
			"updated_at":   now,
		}); err != nil {
			return exp, err
		}
	}
	if err := e.Events.Append(ctx, tx, "expense."+status, "expense", id, actorID, events.Payload{
		"amount": exp.Amount,
	}); err != nil {
		return exp, err
	}
	if exp.CreatedByID != actorID {
		if err := e.notify(ctx, tx, exp.CreatedByID, "expense_reviewed", "Expense Reviewed",
			fmt.Sprintf("Your expense %q was %s", exp.Description, status), "/expenses/"+id); err != nil {
			return exp, err
		}
	}
	if err := tx.Commit(); err != nil {
		return exp, err
	}
	return e.Repo.GetExpense(ctx, id)
}

func (e Engine) DeleteExpense(ctx context.Context, id, actorID string) error {
	tx, err := e.DB.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if err := e.Repo.SoftDeleteExpense(ctx, tx, id, e.nowRFC3339()); err != nil {
		return err
	}
	if err := e.Events.Append(ctx, tx, "expense.deleted", "expense", id, actorID, nil); err != nil {
		return err
	}
	return tx.Commit()
}

func (e Engine) ListExpenses(ctx context.Context, f repo.ExpenseFilter) ([]domain.Expense, error) {
	return e.Repo.ListExpenses(ctx, f)
}
