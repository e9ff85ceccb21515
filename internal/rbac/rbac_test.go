package rbac_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"mediadesk/internal/config"
	"mediadesk/internal/db"
	"mediadesk/internal/domain"
	"mediadesk/internal/engine"
	"mediadesk/internal/migrate"
	"mediadesk/internal/rbac"
	"mediadesk/internal/repo"
)

func TestMatrixGrants(t *testing.T) {
	cases := []struct {
		role     rbac.Role
		resource rbac.Resource
		action   rbac.Action
		want     bool
	}{
		{rbac.RoleAdmin, rbac.ResourceUsers, rbac.ActionDelete, true},
		{rbac.RoleManager, rbac.ResourceUsers, rbac.ActionRead, true},
		{rbac.RoleManager, rbac.ResourceUsers, rbac.ActionCreate, false},
		{rbac.RoleManager, rbac.ResourceClients, rbac.ActionDelete, true},
		{rbac.RoleManager, rbac.ResourceInvoices, rbac.ActionCreate, false},
		{rbac.RoleTeamMember, rbac.ResourceTasks, rbac.ActionDelete, true},
		{rbac.RoleTeamMember, rbac.ResourceClients, rbac.ActionUpdate, false},
		{rbac.RoleTeamMember, rbac.ResourceExpenses, rbac.ActionRead, false},
		{rbac.RoleFinance, rbac.ResourceInvoices, rbac.ActionUpdate, true},
		{rbac.RoleFinance, rbac.ResourceExpenses, rbac.ActionDelete, true},
		{rbac.RoleFinance, rbac.ResourceTasks, rbac.ActionRead, false},
		{rbac.RoleClientViewer, rbac.ResourceInvoices, rbac.ActionRead, true},
		{rbac.RoleClientViewer, rbac.ResourceInvoices, rbac.ActionCreate, false},
		{rbac.RoleClientViewer, rbac.ResourceAnalytics, rbac.ActionRead, false},
	}
	for _, tc := range cases {
		got := rbac.HasPermission(tc.role, tc.resource, tc.action)
		if got != tc.want {
			t.Errorf("%s %s:%s = %v, want %v", tc.role, tc.resource, tc.action, got, tc.want)
		}
	}
}

func TestManageImpliesAll(t *testing.T) {
	for _, action := range []rbac.Action{rbac.ActionRead, rbac.ActionCreate, rbac.ActionUpdate, rbac.ActionDelete} {
		if !rbac.HasPermission(rbac.RoleTeamMember, rbac.ResourceTasks, action) {
			t.Errorf("manage should imply %s", action)
		}
	}
}

func TestValidRole(t *testing.T) {
	if !rbac.ValidRole(rbac.RoleFinance) {
		t.Fatalf("finance should be valid")
	}
	if rbac.ValidRole("superuser") {
		t.Fatalf("unknown role should be invalid")
	}
}

type accessEnv struct {
	Engine  engine.Engine
	Service rbac.Service
	Ctx     context.Context
}

func newAccessEnv(t *testing.T) accessEnv {
	t.Helper()
	conn, err := db.Open(db.Config{Workspace: t.TempDir()})
	if err != nil {
		t.Fatalf("open db: %v", err)
	}
	if err := migrate.Migrate(conn); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	eng := engine.New(conn, config.Default("test-secret"))
	eng.Now = func() time.Time { return time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC) }
	return accessEnv{Engine: eng, Service: rbac.Service{DB: conn}, Ctx: context.Background()}
}

func (env accessEnv) seedTask(t *testing.T, creatorID, assigneeID string) domain.Task {
	t.Helper()
	task, err := env.Engine.CreateTask(env.Ctx, engine.TaskCreateOptions{
		Title: "work", AssignedToID: assigneeID, ActorID: creatorID,
	})
	if err != nil {
		t.Fatalf("seed task: %v", err)
	}
	return task
}

func (env accessEnv) seedUser(t *testing.T, email, role string) domain.User {
	t.Helper()
	u, err := env.Engine.CreateUser(env.Ctx, engine.UserCreateOptions{Email: email, Role: role, ActorID: "seed"})
	if err != nil {
		t.Fatalf("seed user: %v", err)
	}
	return u
}

func TestOwnershipOnTasks(t *testing.T) {
	env := newAccessEnv(t)
	owner := env.seedUser(t, "owner@example.com", "team_member")
	assignee := env.seedUser(t, "assignee@example.com", "team_member")
	stranger := env.seedUser(t, "stranger@example.com", "team_member")
	task := env.seedTask(t, owner.ID, assignee.ID)

	if err := env.Service.CheckAccess(env.Ctx, rbac.Principal{UserID: owner.ID, Role: rbac.RoleTeamMember},
		rbac.ResourceTasks, rbac.ActionUpdate, task.ID); err != nil {
		t.Fatalf("creator should own row: %v", err)
	}
	if err := env.Service.CheckAccess(env.Ctx, rbac.Principal{UserID: assignee.ID, Role: rbac.RoleTeamMember},
		rbac.ResourceTasks, rbac.ActionUpdate, task.ID); err != nil {
		t.Fatalf("assignee should own row: %v", err)
	}
	err := env.Service.CheckAccess(env.Ctx, rbac.Principal{UserID: stranger.ID, Role: rbac.RoleTeamMember},
		rbac.ResourceTasks, rbac.ActionUpdate, task.ID)
	var fe rbac.ForbiddenError
	if !errors.As(err, &fe) {
		t.Fatalf("expected forbidden for stranger, got %v", err)
	}
	// managers see every row
	if err := env.Service.CheckAccess(env.Ctx, rbac.Principal{UserID: stranger.ID, Role: rbac.RoleManager},
		rbac.ResourceTasks, rbac.ActionUpdate, task.ID); err != nil {
		t.Fatalf("manager should bypass ownership: %v", err)
	}
}

func TestAdminBypass(t *testing.T) {
	env := newAccessEnv(t)
	owner := env.seedUser(t, "owner@example.com", "team_member")
	task := env.seedTask(t, owner.ID, "")
	if err := env.Service.CheckAccess(env.Ctx, rbac.Principal{UserID: "someone", Role: rbac.RoleAdmin},
		rbac.ResourceTasks, rbac.ActionDelete, task.ID); err != nil {
		t.Fatalf("admin should bypass everything: %v", err)
	}
}

func TestMissingRowIsNotFound(t *testing.T) {
	env := newAccessEnv(t)
	err := env.Service.CheckAccess(env.Ctx, rbac.Principal{UserID: "u1", Role: rbac.RoleManager},
		rbac.ResourceInvoices, rbac.ActionRead, "missing-id")
	if !errors.Is(err, repo.ErrNotFound) {
		t.Fatalf("expected not found, got %v", err)
	}
}

func TestUnknownRoleForbidden(t *testing.T) {
	env := newAccessEnv(t)
	err := env.Service.CheckAccess(env.Ctx, rbac.Principal{UserID: "u1", Role: "superuser"},
		rbac.ResourceTasks, rbac.ActionRead, "")
	var fe rbac.ForbiddenError
	if !errors.As(err, &fe) {
		t.Fatalf("expected forbidden, got %v", err)
	}
}

func TestFinanceOwnsAllInvoices(t *testing.T) {
	env := newAccessEnv(t)
	creator := env.seedUser(t, "creator@example.com", "manager")
	client, err := env.Engine.CreateClient(env.Ctx, engine.ClientCreateOptions{Name: "Acme", ActorID: creator.ID})
	if err != nil {
		t.Fatal(err)
	}
	inv, err := env.Engine.CreateInvoice(env.Ctx, engine.InvoiceCreateOptions{ClientID: client.ID, Amount: 10, ActorID: creator.ID})
	if err != nil {
		t.Fatal(err)
	}
	if err := env.Service.CheckAccess(env.Ctx, rbac.Principal{UserID: "someone-else", Role: rbac.RoleFinance},
		rbac.ResourceInvoices, rbac.ActionUpdate, inv.ID); err != nil {
		t.Fatalf("finance should own every invoice row: %v", err)
	}
	err = env.Service.CheckAccess(env.Ctx, rbac.Principal{UserID: "someone-else", Role: rbac.RoleTeamMember},
		rbac.ResourceInvoices, rbac.ActionRead, inv.ID)
	var fe rbac.ForbiddenError
	if !errors.As(err, &fe) {
		t.Fatalf("expected forbidden for non-creator, got %v", err)
	}
}
