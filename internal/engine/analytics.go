package engine

import (
	"context"
	"time"

	"mediadesk/internal/repo"
)

// CampaignROI relates paid revenue on a campaign to its actual spend.
type CampaignROI struct {
	CampaignID   string  `json:"campaign_id"`
	CampaignName string  `json:"campaign_name"`
	Revenue      float64 `json:"revenue"`
	Spend        float64 `json:"spend"`
	ROI          float64 `json:"roi"`
}

func (e Engine) CampaignROIReport(ctx context.Context, clientID string) ([]CampaignROI, error) {
	campaigns, err := e.Repo.ListCampaigns(ctx, repo.CampaignFilter{ClientID: clientID})
	if err != nil {
		return nil, err
	}
	invoices, err := e.Repo.ListInvoices(ctx, repo.InvoiceFilter{})
	if err != nil {
		return nil, err
	}
	revenueByCampaign := map[string]float64{}
	for _, inv := range invoices {
		if inv.PaymentStatus != "paid" || inv.CampaignID == nil {
			continue
		}
		revenueByCampaign[*inv.CampaignID] += inv.Total
	}
	res := make([]CampaignROI, 0, len(campaigns))
	for _, c := range campaigns {
		row := CampaignROI{
			CampaignID:   c.ID,
			CampaignName: c.Name,
			Revenue:      revenueByCampaign[c.ID],
		}
		if c.ActualSpend != nil {
			row.Spend = *c.ActualSpend
		}
		if row.Spend > 0 {
			row.ROI = (row.Revenue - row.Spend) / row.Spend * 100
		}
		res = append(res, row)
	}
	return res, nil
}

// TeamUtilization compares billable hours against a 40 hour week.
type TeamUtilization struct {
	UserID         string  `json:"user_id"`
	UserName       string  `json:"user_name"`
	BillableHours  float64 `json:"billable_hours"`
	AvailableHours float64 `json:"available_hours"`
	Utilization    float64 `json:"utilization"`
}

func (e Engine) TeamUtilizationReport(ctx context.Context, weeks int) ([]TeamUtilization, error) {
	if weeks <= 0 {
		weeks = 1
	}
	tasks, err := e.Repo.ListTasks(ctx, repo.TaskFilter{})
	if err != nil {
		return nil, err
	}
	users, err := e.Repo.ListUsers(ctx)
	if err != nil {
		return nil, err
	}
	names := map[string]string{}
	for _, u := range users {
		names[u.ID] = u.FirstName + " " + u.LastName
	}
	hours := map[string]float64{}
	for _, t := range tasks {
		if t.AssignedToID == nil || t.ActualHours == nil {
			continue
		}
		hours[*t.AssignedToID] += *t.ActualHours
	}
	available := float64(weeks) * 40
	res := make([]TeamUtilization, 0, len(hours))
	for userID, billable := range hours {
		res = append(res, TeamUtilization{
			UserID:         userID,
			UserName:       names[userID],
			BillableHours:  billable,
			AvailableHours: available,
			Utilization:    billable / available * 100,
		})
	}
	return res, nil
}

// OnTimeReport summarizes completed tasks that met their due date.
type OnTimeReport struct {
	TotalCompleted   int     `json:"total_completed"`
	CompletedOnTime  int     `json:"completed_on_time"`
	OnTimePercentage float64 `json:"on_time_percentage"`
}

func (e Engine) TaskOnTimeReport(ctx context.Context) (OnTimeReport, error) {
	tasks, err := e.Repo.ListTasks(ctx, repo.TaskFilter{Status: "completed"})
	if err != nil {
		return OnTimeReport{}, err
	}
	var rep OnTimeReport
	for _, t := range tasks {
		if t.CompletedAt == nil {
			continue
		}
		rep.TotalCompleted++
		if t.DueDate == nil {
			continue
		}
		completed, err1 := time.Parse(time.RFC3339, *t.CompletedAt)
		due, err2 := time.Parse(time.RFC3339, *t.DueDate)
		if err1 != nil || err2 != nil {
			continue
		}
		if !completed.After(due) {
			rep.CompletedOnTime++
		}
	}
	if rep.TotalCompleted > 0 {
		rep.OnTimePercentage = float64(rep.CompletedOnTime) / float64(rep.TotalCompleted) * 100
	}
	return rep, nil
}

// ClientProfitability relates paid revenue to approved expenses per client.
type ClientProfitability struct {
	ClientID     string  `json:"client_id"`
	ClientName   string  `json:"client_name"`
	Revenue      float64 `json:"revenue"`
	Expenses     float64 `json:"expenses"`
	Profit       float64 `json:"profit"`
	ProfitMargin float64 `json:"profit_margin"`
}

func (e Engine) ClientProfitabilityReport(ctx context.Context) ([]ClientProfitability, error) {
	clients, err := e.Repo.ListClients(ctx, repo.ClientFilter{})
	if err != nil {
		return nil, err
	}
	invoices, err := e.Repo.ListInvoices(ctx, repo.InvoiceFilter{})
	if err != nil {
		return nil, err
	}
	campaigns, err := e.Repo.ListCampaigns(ctx, repo.CampaignFilter{})
	if err != nil {
		return nil, err
	}
	expenses, err := e.Repo.ListExpenses(ctx, repo.ExpenseFilter{Status: "approved"})
	if err != nil {
		return nil, err
	}
	clientByCampaign := map[string]string{}
	for _, c := range campaigns {
		clientByCampaign[c.ID] = c.ClientID
	}
	revenue := map[string]float64{}
	for _, inv := range invoices {
		if inv.PaymentStatus == "paid" {
			revenue[inv.ClientID] += inv.Total
		}
	}
	spent := map[string]float64{}
	for _, exp := range expenses {
		if exp.CampaignID == nil {
			continue
		}
		spent[clientByCampaign[*exp.CampaignID]] += exp.Amount
	}
	res := make([]ClientProfitability, 0, len(clients))
	for _, c := range clients {
		row := ClientProfitability{
			ClientID:   c.ID,
			ClientName: c.Name,
			Revenue:    revenue[c.ID],
			Expenses:   spent[c.ID],
		}
		row.Profit = row.Revenue - row.Expenses
		if row.Revenue > 0 {
			row.ProfitMargin = row.Profit / row.Revenue * 100
		}
		res = append(res, row)
	}
	return res, nil
}

// DashboardSummary is the landing page rollup.
type DashboardSummary struct {
	ActiveClients    int     `json:"active_clients"`
	ActiveCampaigns  int     `json:"active_campaigns"`
	OpenTasks        int     `json:"open_tasks"`
	OverdueTasks     int     `json:"overdue_tasks"`
	OutstandingTotal float64 `json:"outstanding_total"`
	PaidTotal        float64 `json:"paid_total"`
	PendingExpenses  int     `json:"pending_expenses"`
}

func (e Engine) Dashboard(ctx context.Context) (DashboardSummary, error) {
	var sum DashboardSummary
	clients, err := e.Repo.ListClients(ctx, repo.ClientFilter{Status: "active"})
	if err != nil {
		return sum, err
	}
	sum.ActiveClients = len(clients)
	campaigns, err := e.Repo.ListCampaigns(ctx, repo.CampaignFilter{Status: "active"})
	if err != nil {
		return sum, err
	}
	sum.ActiveCampaigns = len(campaigns)
	tasks, err := e.Repo.ListTasks(ctx, repo.TaskFilter{})
	if err != nil {
		return sum, err
	}
	for _, t := range tasks {
		if t.Status != "completed" && t.Status != "cancelled" {
			sum.OpenTasks++
		}
	}
	overdue, err := e.OverdueTasks(ctx)
	if err != nil {
		return sum, err
	}
	sum.OverdueTasks = len(overdue)
	invoices, err := e.Repo.ListInvoices(ctx, repo.InvoiceFilter{})
	if err != nil {
		return sum, err
	}
	for _, inv := range invoices {
		if inv.Status == "cancelled" {
			continue
		}
		if inv.PaymentStatus == "paid" {
			sum.PaidTotal += inv.Total
		} else {
			sum.OutstandingTotal += inv.Total
		}
	}
	expenses, err := e.Repo.ListExpenses(ctx, repo.ExpenseFilter{Status: "pending"})
	if err != nil {
		return sum, err
	}
	sum.PendingExpenses = len(expenses)
	return sum, nil
}
