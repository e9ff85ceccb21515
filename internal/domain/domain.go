package domain

type User struct {
	ID        string `json:"id"`
	Email     string `json:"email"`
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	Role      string `json:"role" enum:"admin,manager,team_member,finance,client_viewer"`
	IsActive  bool   `json:"is_active"`
	CreatedAt string `json:"created_at" format:"date-time"`
}

type Client struct {
	ID            string   `json:"id"`
	Name          string   `json:"name"`
	Industry      string   `json:"industry,omitempty"`
	Email         string   `json:"email,omitempty"`
	Phone         string   `json:"phone,omitempty"`
	Website       string   `json:"website,omitempty"`
	Status        string   `json:"status" enum:"active,inactive,prospect"`
	ContractValue *float64 `json:"contract_value,omitempty"`
	ContractStart *string  `json:"contract_start,omitempty" format:"date-time"`
	ContractEnd   *string  `json:"contract_end,omitempty" format:"date-time"`
	Notes         string   `json:"notes,omitempty"`
	OwnerID       string   `json:"owner_id"`
	CreatedAt     string   `json:"created_at" format:"date-time"`
	UpdatedAt     string   `json:"updated_at" format:"date-time"`
	DeletedAt     *string  `json:"deleted_at,omitempty" format:"date-time"`
}

type Campaign struct {
	ID           string   `json:"id"`
	ClientID     string   `json:"client_id"`
	Name         string   `json:"name"`
	Type         string   `json:"type,omitempty"`
	Status       string   `json:"status" enum:"planning,active,paused,completed,cancelled"`
	Budget       *float64 `json:"budget,omitempty"`
	ActualSpend  *float64 `json:"actual_spend,omitempty"`
	StartDate    *string  `json:"start_date,omitempty" format:"date-time"`
	EndDate      *string  `json:"end_date,omitempty" format:"date-time"`
	CreatedByID  string   `json:"created_by_id"`
	AssignedToID *string  `json:"assigned_to_id,omitempty"`
	CreatedAt    string   `json:"created_at" format:"date-time"`
	UpdatedAt    string   `json:"updated_at" format:"date-time"`
	DeletedAt    *string  `json:"deleted_at,omitempty" format:"date-time"`
}

type Task struct {
	ID             string   `json:"id"`
	CampaignID     *string  `json:"campaign_id,omitempty"`
	Title          string   `json:"title"`
	Description    string   `json:"description,omitempty"`
	Status         string   `json:"status" enum:"not_started,in_progress,under_review,completed,blocked,cancelled"`
	Priority       string   `json:"priority" enum:"low,medium,high,urgent"`
	StartDate      *string  `json:"start_date,omitempty" format:"date-time"`
	DueDate        *string  `json:"due_date,omitempty" format:"date-time"`
	EstimatedHours *float64 `json:"estimated_hours,omitempty"`
	ActualHours    *float64 `json:"actual_hours,omitempty"`
	CreatedByID    string   `json:"created_by_id"`
	AssignedToID   *string  `json:"assigned_to_id,omitempty"`
	DependsOn      []string `json:"depends_on,omitempty"`
	CreatedAt      string   `json:"created_at" format:"date-time"`
	UpdatedAt      string   `json:"updated_at" format:"date-time"`
	CompletedAt    *string  `json:"completed_at,omitempty" format:"date-time"`
	DeletedAt      *string  `json:"deleted_at,omitempty" format:"date-time"`
}

// TaskDependency is a directed edge: TaskID cannot reach the lifecycle point
// implied by Kind until DependsOnID has reached its counterpart.
type TaskDependency struct {
	TaskID      string `json:"task_id"`
	DependsOnID string `json:"depends_on_id"`
	Kind        string `json:"kind" enum:"finish_to_start,start_to_start,finish_to_finish,start_to_finish"`
	CreatedAt   string `json:"created_at" format:"date-time"`
}

// GanttBar is one row of the derived schedule view.
type GanttBar struct {
	ID              string   `json:"id"`
	Title           string   `json:"title"`
	Start           string   `json:"start" format:"date-time"`
	End             string   `json:"end" format:"date-time"`
	PercentComplete int      `json:"percent_complete"`
	DependencyIDs   []string `json:"dependency_ids"`
}

type Invoice struct {
	ID            string  `json:"id"`
	InvoiceNumber string  `json:"invoice_number"`
	ClientID      string  `json:"client_id"`
	CampaignID    *string `json:"campaign_id,omitempty"`
	Amount        float64 `json:"amount"`
	Tax           float64 `json:"tax"`
	Total         float64 `json:"total"`
	Status        string  `json:"status" enum:"draft,sent,paid,overdue,cancelled"`
	PaymentStatus string  `json:"payment_status" enum:"unpaid,partial,paid"`
	IssueDate     string  `json:"issue_date" format:"date-time"`
	DueDate       *string `json:"due_date,omitempty" format:"date-time"`
	PaidDate      *string `json:"paid_date,omitempty" format:"date-time"`
	Notes         string  `json:"notes,omitempty"`
	CreatedByID   string  `json:"created_by_id"`
	CreatedAt     string  `json:"created_at" format:"date-time"`
	UpdatedAt     string  `json:"updated_at" format:"date-time"`
	DeletedAt     *string `json:"deleted_at,omitempty" format:"date-time"`
}

type Expense struct {
	ID           string  `json:"id"`
	CampaignID   *string `json:"campaign_id,omitempty"`
	Description  string  `json:"description"`
	Amount       float64 `json:"amount"`
	Category     string  `json:"category,omitempty"`
	Status       string  `json:"status" enum:"pending,approved,rejected"`
	ExpenseDate  string  `json:"expense_date" format:"date-time"`
	CreatedByID  string  `json:"created_by_id"`
	ApprovedByID *string `json:"approved_by_id,omitempty"`
	ApprovedAt   *string `json:"approved_at,omitempty" format:"date-time"`
	CreatedAt    string  `json:"created_at" format:"date-time"`
	UpdatedAt    string  `json:"updated_at" format:"date-time"`
	DeletedAt    *string `json:"deleted_at,omitempty" format:"date-time"`
}

type Notification struct {
	ID        string  `json:"id"`
	UserID    string  `json:"user_id"`
	Type      string  `json:"type"`
	Title     string  `json:"title"`
	Message   string  `json:"message"`
	Link      string  `json:"link,omitempty"`
	Read      bool    `json:"read"`
	ReadAt    *string `json:"read_at,omitempty" format:"date-time"`
	CreatedAt string  `json:"created_at" format:"date-time"`
}

type NotificationPreference struct {
	UserID  string `json:"user_id"`
	InApp   bool   `json:"in_app"`
	Webhook bool   `json:"webhook"`
}

// Activity is one append-only row in the audit/event feed.
type Activity struct {
	ID         int64  `json:"id"`
	TS         string `json:"ts" format:"date-time"`
	Type       string `json:"type"`
	EntityKind string `json:"entity_kind"`
	EntityID   string `json:"entity_id,omitempty"`
	ActorID    string `json:"actor_id"`
	Payload    string `json:"payload_json"`
}

type APIKey struct {
	ID        string `json:"id"`
	UserID    string `json:"user_id"`
	Name      string `json:"name,omitempty"`
	KeyHash   string `json:"key_hash"`
	CreatedAt string `json:"created_at" format:"date-time"`
}
