package engine

import (
	"context"
	"errors"
	"fmt"

	"mediadesk/internal/domain"
	"mediadesk/internal/events"
	"mediadesk/internal/repo"
)

// CampaignCreateOptions are parameters for creating a campaign.
type CampaignCreateOptions struct {
	ClientID     string
	Name         string
	Type         string
	Budget       *float64
	StartDate    string
	EndDate      string
	AssignedToID string
	ActorID      string
}

func (e Engine) CreateCampaign(ctx context.Context, opts CampaignCreateOptions) (domain.Campaign, error) {
	if opts.Name == "" {
		return domain.Campaign{}, errors.New("name is required")
	}
	if _, err := e.Repo.GetClient(ctx, opts.ClientID); err != nil {
		return domain.Campaign{}, err
	}
	if opts.AssignedToID != "" {
		if _, err := e.Repo.GetUser(ctx, opts.AssignedToID); err != nil {
			return domain.Campaign{}, err
		}
	}
	now := e.nowRFC3339()
	c := domain.Campaign{
		ID:           newID(),
		ClientID:     opts.ClientID,
		Name:         opts.Name,
		Type:         opts.Type,
		Status:       "planning",
		Budget:       opts.Budget,
		StartDate:    optionalString(opts.StartDate),
		EndDate:      optionalString(opts.EndDate),
		CreatedByID:  opts.ActorID,
		AssignedToID: optionalString(opts.AssignedToID),
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	tx, err := e.DB.BeginTx(ctx, nil)
	if err != nil {
		return domain.Campaign{}, err
	}
	defer tx.Rollback()

	if err := e.Repo.InsertCampaign(ctx, tx, c); err != nil {
		return domain.Campaign{}, err
	}
	if err := e.Events.Append(ctx, tx, "campaign.created", "campaign", c.ID, opts.ActorID, events.Payload{"name": c.Name, "client_id": c.ClientID}); err != nil {
		return domain.Campaign{}, err
	}
	if c.AssignedToID != nil && *c.AssignedToID != opts.ActorID {
		if err := e.notify(ctx, tx, *c.AssignedToID, "campaign_assigned", "Campaign Assigned",
			fmt.Sprintf("You were assigned campaign %q", c.Name), "/campaigns/"+c.ID); err != nil {
			return domain.Campaign{}, err
		}
	}
	if err := tx.Commit(); err != nil {
		return domain.Campaign{}, err
	}
	return c, nil
}

// CampaignUpdateOptions carries partial updates for a campaign.
type CampaignUpdateOptions struct {
	ID           string
	Name         *string
	Type         *string
	Budget       *float64
	ActualSpend  *float64
	StartDate    *string
	EndDate      *string
	AssignedToID *string
	ActorID      string
}

func (e Engine) UpdateCampaign(ctx context.Context, opts CampaignUpdateOptions) (domain.Campaign, error) {
	c, err := e.Repo.GetCampaign(ctx, opts.ID)
	if err != nil {
		return c, err
	}
	fields := map[string]any{}
	if opts.Name != nil {
		if *opts.Name == "" {
			return c, errors.New("name cannot be empty")
		}
		fields["name"] = *opts.Name
	}
	if opts.Type != nil {
		fields["type"] = nullableVal(*opts.Type)
	}
	if opts.Budget != nil {
		fields["budget"] = *opts.Budget
	}
	if opts.ActualSpend != nil {
		fields["actual_spend"] = *opts.ActualSpend
	}
	if opts.StartDate != nil {
		fields["start_date"] = nullableVal(*opts.StartDate)
	}
	if opts.EndDate != nil {
		fields["end_date"] = nullableVal(*opts.EndDate)
	}
	if opts.AssignedToID != nil {
		if *opts.AssignedToID == "" {
			fields["assigned_to_id"] = nil
		} else {
			if _, err := e.Repo.GetUser(ctx, *opts.AssignedToID); err != nil {
				return c, err
			}
			fields["assigned_to_id"] = *opts.AssignedToID
		}
	}
	if len(fields) == 0 {
		return c, nil
	}
	fields["updated_at"] = e.nowRFC3339()

	tx, err := e.DB.BeginTx(ctx, nil)
	if err != nil {
		return c, err
	}
	defer tx.Rollback()

	if err := e.Repo.UpdateCampaignFields(ctx, tx, c.ID, fields); err != nil {
		return c, err
	}
	if err := e.Events.Append(ctx, tx, "campaign.updated", "campaign", c.ID, opts.ActorID, nil); err != nil {
		return c, err
	}
	if err := tx.Commit(); err != nil {
		return c, err
	}
	return e.Repo.GetCampaign(ctx, c.ID)
}

// UpdateCampaignStatus moves a campaign along its workflow.
func (e Engine) UpdateCampaignStatus(ctx context.Context, id, status, actorID string) (domain.Campaign, error) {
	c, err := e.Repo.GetCampaign(ctx, id)
	if err != nil {
		return c, err
	}
	if err := ensureCampaignTransition(c.Status, status); err != nil {
		return c, err
	}
	tx, err := e.DB.BeginTx(ctx, nil)
	if err != nil {
		return c, err
	}
	defer tx.Rollback()

	if err := e.Repo.UpdateCampaignFields(ctx, tx, id, map[string]any{
		"status":     status,
		"updated_at": e.nowRFC3339(),
	}); err != nil {
		return c, err
	}
	if err := e.Events.Append(ctx, tx, "campaign.status_changed", "campaign", id, actorID, events.Payload{
		"old_status": c.Status,
		"new_status": status,
	}); err != nil {
		return c, err
	}
	if err := tx.Commit(); err != nil {
		return c, err
	}
	return e.Repo.GetCampaign(ctx, id)
}

func ensureCampaignTransition(oldStatus, newStatus string) error {
	switch oldStatus {
	case "planning":
		if newStatus == "active" || newStatus == "cancelled" {
			return nil
		}
	case "active":
		switch newStatus {
		case "paused", "completed", "cancelled":
			return nil
		}
	case "paused":
		switch newStatus {
		case "active", "completed", "cancelled":
			return nil
		}
	}
	return InvalidTransitionError{Entity: "campaign", From: oldStatus, To: newStatus}
}

func (e Engine) DeleteCampaign(ctx context.Context, id, actorID string) error {
	tx, err := e.DB.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if err := e.Repo.SoftDeleteCampaign(ctx, tx, id, e.nowRFC3339()); err != nil {
		return err
	}
	if err := e.Events.Append(ctx, tx, "campaign.deleted", "campaign", id, actorID, nil); err != nil {
		return err
	}
	return tx.Commit()
}

func (e Engine) ListCampaigns(ctx context.Context, f repo.CampaignFilter) ([]domain.Campaign, error) {
	return e.Repo.ListCampaigns(ctx, f)
}

// CampaignStats summarizes budget and task progress for one campaign.
type CampaignStats struct {
	Budget            float64 `json:"budget"`
	ActualSpend       float64 `json:"actual_spend"`
	BudgetRemaining   float64 `json:"budget_remaining"`
	BudgetUtilization float64 `json:"budget_utilization"`
	TotalTasks        int     `json:"total_tasks"`
	CompletedTasks    int     `json:"completed_tasks"`
	InProgressTasks   int     `json:"in_progress_tasks"`
	NotStartedTasks   int     `json:"not_started_tasks"`
}

func (e Engine) CampaignStats(ctx context.Context, id string) (CampaignStats, error) {
	c, err := e.Repo.GetCampaign(ctx, id)
	if err != nil {
		return CampaignStats{}, err
	}
	tasks, err := e.Repo.ListTasks(ctx, repo.TaskFilter{CampaignID: id})
	if err != nil {
		return CampaignStats{}, err
	}
	var stats CampaignStats
	if c.Budget != nil {
		stats.Budget = *c.Budget
	}
	if c.ActualSpend != nil {
		stats.ActualSpend = *c.ActualSpend
	}
	stats.BudgetRemaining = stats.Budget - stats.ActualSpend
	if stats.Budget > 0 {
		stats.BudgetUtilization = stats.ActualSpend / stats.Budget * 100
	}
	stats.TotalTasks = len(tasks)
	for _, t := range tasks {
		switch t.Status {
		case "completed":
			stats.CompletedTasks++
		case "in_progress":
			stats.InProgressTasks++
		case "not_started":
			stats.NotStartedTasks++
		}
	}
	return stats, nil
}
