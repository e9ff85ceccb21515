package server

import "mediadesk/internal/domain"

type MeResponse struct {
	UserID string              `json:"user_id"`
	Email  string              `json:"email"`
	Role   string              `json:"role"`
	Source string              `json:"source"`
	Grants map[string][]string `json:"grants"`
}

type CreateUserRequest struct {
	Email     string `json:"email" format:"email"`
	FirstName string `json:"first_name,omitempty"`
	LastName  string `json:"last_name,omitempty"`
	Role      string `json:"role" enum:"admin,manager,team_member,finance,client_viewer"`
}

type UpdateUserRequest struct {
	Role     *string `json:"role,omitempty" enum:"admin,manager,team_member,finance,client_viewer"`
	IsActive *bool   `json:"is_active,omitempty"`
}

type CreateClientRequest struct {
	Name          string   `json:"name"`
	Industry      string   `json:"industry,omitempty"`
	Email         string   `json:"email,omitempty"`
	Phone         string   `json:"phone,omitempty"`
	Website       string   `json:"website,omitempty"`
	Status        string   `json:"status,omitempty" enum:"active,inactive,prospect"`
	ContractValue *float64 `json:"contract_value,omitempty"`
	ContractStart string   `json:"contract_start,omitempty" format:"date-time"`
	ContractEnd   string   `json:"contract_end,omitempty" format:"date-time"`
	Notes         string   `json:"notes,omitempty"`
}

type UpdateClientRequest struct {
	Name          *string  `json:"name,omitempty"`
	Industry      *string  `json:"industry,omitempty"`
	Email         *string  `json:"email,omitempty"`
	Phone         *string  `json:"phone,omitempty"`
	Website       *string  `json:"website,omitempty"`
	Status        *string  `json:"status,omitempty" enum:"active,inactive,prospect"`
	ContractValue *float64 `json:"contract_value,omitempty"`
	ContractStart *string  `json:"contract_start,omitempty" format:"date-time"`
	ContractEnd   *string  `json:"contract_end,omitempty" format:"date-time"`
	Notes         *string  `json:"notes,omitempty"`
}

type CreateCampaignRequest struct {
	ClientID     string   `json:"client_id"`
	Name         string   `json:"name"`
	Type         string   `json:"type,omitempty"`
	Budget       *float64 `json:"budget,omitempty"`
	StartDate    string   `json:"start_date,omitempty" format:"date-time"`
	EndDate      string   `json:"end_date,omitempty" format:"date-time"`
	AssignedToID string   `json:"assigned_to_id,omitempty"`
}

type UpdateCampaignRequest struct {
	Name         *string  `json:"name,omitempty"`
	Type         *string  `json:"type,omitempty"`
	Budget       *float64 `json:"budget,omitempty"`
	ActualSpend  *float64 `json:"actual_spend,omitempty"`
	StartDate    *string  `json:"start_date,omitempty" format:"date-time"`
	EndDate      *string  `json:"end_date,omitempty" format:"date-time"`
	AssignedToID *string  `json:"assigned_to_id,omitempty"`
}

type StatusRequest struct {
	Status string `json:"status"`
}

type CreateTaskRequest struct {
	CampaignID     string   `json:"campaign_id,omitempty"`
	Title          string   `json:"title"`
	Description    string   `json:"description,omitempty"`
	Priority       string   `json:"priority,omitempty" enum:"low,medium,high,urgent"`
	StartDate      string   `json:"start_date,omitempty" format:"date-time"`
	DueDate        string   `json:"due_date,omitempty" format:"date-time"`
	EstimatedHours *float64 `json:"estimated_hours,omitempty"`
	AssignedToID   string   `json:"assigned_to_id,omitempty"`
	DependsOn      []string `json:"depends_on,omitempty"`
}

type UpdateTaskRequest struct {
	Title          *string  `json:"title,omitempty"`
	Description    *string  `json:"description,omitempty"`
	Priority       *string  `json:"priority,omitempty" enum:"low,medium,high,urgent"`
	CampaignID     *string  `json:"campaign_id,omitempty"`
	StartDate      *string  `json:"start_date,omitempty" format:"date-time"`
	DueDate        *string  `json:"due_date,omitempty" format:"date-time"`
	EstimatedHours *float64 `json:"estimated_hours,omitempty"`
	ActualHours    *float64 `json:"actual_hours,omitempty"`
	AssignedToID   *string  `json:"assigned_to_id,omitempty"`
}

type AddDependencyRequest struct {
	DependsOnID string `json:"depends_on_id"`
	Kind        string `json:"kind,omitempty" enum:"finish_to_start,start_to_start,finish_to_finish,start_to_finish"`
}

type TimeTrackingRequest struct {
	ActualHours float64 `json:"actual_hours" minimum:"0"`
}

type CreateInvoiceRequest struct {
	ClientID   string  `json:"client_id"`
	CampaignID string  `json:"campaign_id,omitempty"`
	Amount     float64 `json:"amount" minimum:"0"`
	Tax        float64 `json:"tax,omitempty" minimum:"0"`
	IssueDate  string  `json:"issue_date,omitempty" format:"date-time"`
	DueDate    string  `json:"due_date,omitempty" format:"date-time"`
	Notes      string  `json:"notes,omitempty"`
}

type UpdateInvoiceRequest struct {
	Amount  *float64 `json:"amount,omitempty" minimum:"0"`
	Tax     *float64 `json:"tax,omitempty" minimum:"0"`
	DueDate *string  `json:"due_date,omitempty" format:"date-time"`
	Notes   *string  `json:"notes,omitempty"`
}

type PaymentRequest struct {
	PaymentStatus string `json:"payment_status" enum:"unpaid,partial,paid"`
}

type CreateExpenseRequest struct {
	CampaignID  string  `json:"campaign_id,omitempty"`
	Description string  `json:"description"`
	Amount      float64 `json:"amount" minimum:"0"`
	Category    string  `json:"category,omitempty"`
	ExpenseDate string  `json:"expense_date,omitempty" format:"date-time"`
}

type UpdateExpenseRequest struct {
	Description *string  `json:"description,omitempty"`
	Amount      *float64 `json:"amount,omitempty" minimum:"0"`
	Category    *string  `json:"category,omitempty"`
	ExpenseDate *string  `json:"expense_date,omitempty" format:"date-time"`
}

type ReviewExpenseRequest struct {
	Approve bool `json:"approve"`
}

type NotificationPreferenceRequest struct {
	InApp   bool `json:"in_app"`
	Webhook bool `json:"webhook"`
}

type TaskListResponse struct {
	Tasks []domain.Task `json:"tasks"`
}

type ScheduleResponse struct {
	Bars []domain.GanttBar `json:"bars"`
}

type DependencyListResponse struct {
	Dependencies []domain.TaskDependency `json:"dependencies"`
	Dependents   []domain.TaskDependency `json:"dependents"`
}
