package rbac

// Role is one of the five account roles.
type Role string

const (
	RoleAdmin        Role = "admin"
	RoleManager      Role = "manager"
	RoleTeamMember   Role = "team_member"
	RoleFinance      Role = "finance"
	RoleClientViewer Role = "client_viewer"
)

// Resource names a protected resource class.
type Resource string

const (
	ResourceUsers     Resource = "users"
	ResourceClients   Resource = "clients"
	ResourceCampaigns Resource = "campaigns"
	ResourceTasks     Resource = "tasks"
	ResourceInvoices  Resource = "invoices"
	ResourceExpenses  Resource = "expenses"
	ResourceReports   Resource = "reports"
	ResourceAnalytics Resource = "analytics"
)

// Action is a verb against a resource. ActionManage implies every other verb.
type Action string

const (
	ActionRead   Action = "read"
	ActionCreate Action = "create"
	ActionUpdate Action = "update"
	ActionDelete Action = "delete"
	ActionManage Action = "manage"
)

type Permission struct {
	Resource Resource
	Actions  []Action
}

// matrix is the coarse grant table. It is fixed at compile time; role
// semantics are part of the product, not per-deployment configuration.
var matrix = map[Role][]Permission{
	RoleAdmin: {
		{ResourceUsers, []Action{ActionManage}},
		{ResourceClients, []Action{ActionManage}},
		{ResourceCampaigns, []Action{ActionManage}},
		{ResourceTasks, []Action{ActionManage}},
		{ResourceInvoices, []Action{ActionManage}},
		{ResourceExpenses, []Action{ActionManage}},
		{ResourceReports, []Action{ActionManage}},
		{ResourceAnalytics, []Action{ActionManage}},
	},
	RoleManager: {
		{ResourceUsers, []Action{ActionRead}},
		{ResourceClients, []Action{ActionManage}},
		{ResourceCampaigns, []Action{ActionManage}},
		{ResourceTasks, []Action{ActionManage}},
		{ResourceReports, []Action{ActionManage}},
		{ResourceInvoices, []Action{ActionRead}},
		{ResourceExpenses, []Action{ActionRead}},
		{ResourceAnalytics, []Action{ActionRead}},
	},
	RoleTeamMember: {
		{ResourceClients, []Action{ActionRead}},
		{ResourceCampaigns, []Action{ActionRead}},
		{ResourceTasks, []Action{ActionManage}},
		{ResourceInvoices, []Action{ActionRead}},
	},
	RoleFinance: {
		{ResourceClients, []Action{ActionRead}},
		{ResourceCampaigns, []Action{ActionRead}},
		{ResourceInvoices, []Action{ActionManage}},
		{ResourceExpenses, []Action{ActionManage}},
		{ResourceReports, []Action{ActionRead}},
		{ResourceAnalytics, []Action{ActionRead}},
	},
	RoleClientViewer: {
		{ResourceClients, []Action{ActionRead}},
		{ResourceCampaigns, []Action{ActionRead}},
		{ResourceInvoices, []Action{ActionRead}},
	},
}

// ValidRole reports whether r is a known role.
func ValidRole(r Role) bool {
	_, ok := matrix[r]
	return ok
}

// HasPermission is the coarse grant check: does the role hold the action on
// the resource class at all, ignoring row ownership.
func HasPermission(role Role, resource Resource, action Action) bool {
	perms, ok := matrix[role]
	if !ok {
		return false
	}
	for _, p := range perms {
		if p.Resource != resource {
			continue
		}
		for _, a := range p.Actions {
			if a == ActionManage || a == action {
				return true
			}
		}
	}
	return false
}

// Permissions returns the grant list for a role.
func Permissions(role Role) []Permission {
	return matrix[role]
}
