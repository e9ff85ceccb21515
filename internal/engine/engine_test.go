package engine_test

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
	"mediadesk/internal/repo"
)

type testEnv struct {
	Engine engine.Engine
	Ctx    context.Context
}

func newTestEnv(t *testing.T) testEnv {
	t.Helper()
	dir := t.TempDir()
	conn, err := db.Open(db.Config{Workspace: dir})
	if err != nil {
		t.Fatalf("open db: %v", err)
	}
	if err := migrate.Migrate(conn); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	cfg := config.Default("test-secret")
	eng := engine.New(conn, cfg)
	eng.Now = func() time.Time { return time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC) }
	return testEnv{Engine: eng, Ctx: context.Background()}
}

func (env testEnv) seedUser(t *testing.T, email, role string) domain.User {
	t.Helper()
	u, err := env.Engine.CreateUser(env.Ctx, engine.UserCreateOptions{
		Email: email, FirstName: "Test", Role: role, ActorID: "seed",
	})
	if err != nil {
		t.Fatalf("seed user: %v", err)
	}
	return u
}

// seedActor creates the admin user most tests act as. Rows carry real user
// foreign keys, so actors must exist.
func (env testEnv) seedActor(t *testing.T) string {
	t.Helper()
	return env.seedUser(t, "tester@example.com", "admin").ID
}

func (env testEnv) seedCampaign(t *testing.T, actorID string) domain.Campaign {
	t.Helper()
	client, err := env.Engine.CreateClient(env.Ctx, engine.ClientCreateOptions{
		Name: "Acme", ActorID: actorID,
	})
	if err != nil {
		t.Fatalf("seed client: %v", err)
	}
	budget := 1000.0
	c, err := env.Engine.CreateCampaign(env.Ctx, engine.CampaignCreateOptions{
		ClientID: client.ID, Name: "Launch", Budget: &budget, ActorID: actorID,
	})
	if err != nil {
		t.Fatalf("seed campaign: %v", err)
	}
	return c
}

func TestTaskStatusWorkflow(t *testing.T) {
	env := newTestEnv(t)
	actor := env.seedActor(t)
	task, err := env.Engine.CreateTask(env.Ctx, engine.TaskCreateOptions{Title: "Do work", ActorID: actor})
	if err != nil {
		t.Fatalf("create task: %v", err)
	}
	task, err = env.Engine.UpdateTaskStatus(env.Ctx, task.ID, "in_progress", actor)
	if err != nil || task.Status != "in_progress" {
		t.Fatalf("to in_progress: %v", err)
	}
	if task.StartDate == nil {
		t.Fatalf("expected start date stamped on in_progress")
	}
	task, err = env.Engine.UpdateTaskStatus(env.Ctx, task.ID, "under_review", actor)
	if err != nil || task.Status != "under_review" {
		t.Fatalf("to under_review: %v", err)
	}
	task, err = env.Engine.UpdateTaskStatus(env.Ctx, task.ID, "completed", actor)
	if err != nil || task.Status != "completed" {
		t.Fatalf("to completed: %v", err)
	}
	if task.CompletedAt == nil {
		t.Fatalf("expected completed_at stamped")
	}
	var te engine.InvalidTransitionError
	_, err = env.Engine.UpdateTaskStatus(env.Ctx, task.ID, "in_progress", actor)
	if !errors.As(err, &te) {
		t.Fatalf("expected transition error, got %v", err)
	}
	// completed is terminal, even for the same status
	_, err = env.Engine.UpdateTaskStatus(env.Ctx, task.ID, "completed", actor)
	if !errors.As(err, &te) {
		t.Fatalf("expected terminal state rejection, got %v", err)
	}
}

func TestTaskSkipWorkflowRejected(t *testing.T) {
	env := newTestEnv(t)
	actor := env.seedActor(t)
	task, err := env.Engine.CreateTask(env.Ctx, engine.TaskCreateOptions{Title: "skip", ActorID: actor})
	if err != nil {
		t.Fatal(err)
	}
	var te engine.InvalidTransitionError
	_, err = env.Engine.UpdateTaskStatus(env.Ctx, task.ID, "completed", actor)
	if !errors.As(err, &te) {
		t.Fatalf("expected transition error, got %v", err)
	}
	// repeating the current status is outside the workflow table
	_, err = env.Engine.UpdateTaskStatus(env.Ctx, task.ID, "not_started", actor)
	if !errors.As(err, &te) {
		t.Fatalf("expected same-status rejection, got %v", err)
	}
}

func TestCycleDetection(t *testing.T) {
	env := newTestEnv(t)
	actor := env.seedActor(t)
	a, _ := env.Engine.CreateTask(env.Ctx, engine.TaskCreateOptions{Title: "a", ActorID: actor})
	b, _ := env.Engine.CreateTask(env.Ctx, engine.TaskCreateOptions{Title: "b", ActorID: actor})
	c, _ := env.Engine.CreateTask(env.Ctx, engine.TaskCreateOptions{Title: "c", ActorID: actor})

	if err := env.Engine.AddDependency(env.Ctx, a.ID, b.ID, "", actor); err != nil {
		t.Fatalf("a->b: %v", err)
	}
	if err := env.Engine.AddDependency(env.Ctx, b.ID, c.ID, "", actor); err != nil {
		t.Fatalf("b->c: %v", err)
	}
	var ce engine.CircularDependencyError
	// direct cycle
	err := env.Engine.AddDependency(env.Ctx, b.ID, a.ID, "", actor)
	if !errors.As(err, &ce) {
		t.Fatalf("expected cycle error, got %v", err)
	}
	// transitive cycle
	err = env.Engine.AddDependency(env.Ctx, c.ID, a.ID, "", actor)
	if !errors.As(err, &ce) {
		t.Fatalf("expected transitive cycle error, got %v", err)
	}
	// self edge
	err = env.Engine.AddDependency(env.Ctx, a.ID, a.ID, "", actor)
	if !errors.As(err, &ce) {
		t.Fatalf("expected self edge error, got %v", err)
	}
	// a diamond is fine
	if err := env.Engine.AddDependency(env.Ctx, a.ID, c.ID, "", actor); err != nil {
		t.Fatalf("a->c diamond: %v", err)
	}
}

func TestAddDependencyIdempotent(t *testing.T) {
	env := newTestEnv(t)
	actor := env.seedActor(t)
	a, _ := env.Engine.CreateTask(env.Ctx, engine.TaskCreateOptions{Title: "a", ActorID: actor})
	b, _ := env.Engine.CreateTask(env.Ctx, engine.TaskCreateOptions{Title: "b", ActorID: actor})
	if err := env.Engine.AddDependency(env.Ctx, a.ID, b.ID, "", actor); err != nil {
		t.Fatal(err)
	}
	if err := env.Engine.AddDependency(env.Ctx, a.ID, b.ID, "", actor); err != nil {
		t.Fatalf("re-adding an existing edge should be a no-op: %v", err)
	}
	got, err := env.Engine.GetTask(env.Ctx, a.ID)
	if err != nil {
		t.Fatal(err)
	}
	if len(got.DependsOn) != 1 || got.DependsOn[0] != b.ID {
		t.Fatalf("expected single edge, got %v", got.DependsOn)
	}
}

func TestRemoveDependencyIdempotent(t *testing.T) {
	env := newTestEnv(t)
	actor := env.seedActor(t)
	a, _ := env.Engine.CreateTask(env.Ctx, engine.TaskCreateOptions{Title: "a", ActorID: actor})
	b, _ := env.Engine.CreateTask(env.Ctx, engine.TaskCreateOptions{Title: "b", ActorID: actor})
	if err := env.Engine.AddDependency(env.Ctx, a.ID, b.ID, "", actor); err != nil {
		t.Fatal(err)
	}
	if err := env.Engine.RemoveDependency(env.Ctx, a.ID, b.ID, actor); err != nil {
		t.Fatalf("remove: %v", err)
	}
	if err := env.Engine.RemoveDependency(env.Ctx, a.ID, b.ID, actor); err != nil {
		t.Fatalf("second remove should be a no-op: %v", err)
	}
	got, err := env.Engine.GetTask(env.Ctx, a.ID)
	if err != nil {
		t.Fatal(err)
	}
	if len(got.DependsOn) != 0 {
		t.Fatalf("expected no deps, got %v", got.DependsOn)
	}
}

func TestDeleteTaskClearsEdges(t *testing.T) {
	env := newTestEnv(t)
	actor := env.seedActor(t)
	a, _ := env.Engine.CreateTask(env.Ctx, engine.TaskCreateOptions{Title: "a", ActorID: actor})
	b, _ := env.Engine.CreateTask(env.Ctx, engine.TaskCreateOptions{Title: "b", ActorID: actor})
	if err := env.Engine.AddDependency(env.Ctx, a.ID, b.ID, "", actor); err != nil {
		t.Fatal(err)
	}
	if err := env.Engine.DeleteTask(env.Ctx, b.ID, actor); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if _, err := env.Engine.GetTask(env.Ctx, b.ID); !errors.Is(err, repo.ErrNotFound) {
		t.Fatalf("expected not found, got %v", err)
	}
	got, err := env.Engine.GetTask(env.Ctx, a.ID)
	if err != nil {
		t.Fatal(err)
	}
	if len(got.DependsOn) != 0 {
		t.Fatalf("expected edges dropped with task, got %v", got.DependsOn)
	}
}

func TestScheduleViewDefaults(t *testing.T) {
	env := newTestEnv(t)
	actor := env.seedActor(t)
	a, _ := env.Engine.CreateTask(env.Ctx, engine.TaskCreateOptions{Title: "a", ActorID: actor})
	b, _ := env.Engine.CreateTask(env.Ctx, engine.TaskCreateOptions{Title: "b", ActorID: actor, DependsOn: []string{a.ID}})
	if _, err := env.Engine.UpdateTaskStatus(env.Ctx, a.ID, "in_progress", actor); err != nil {
		t.Fatal(err)
	}
	bars, err := env.Engine.ScheduleView(env.Ctx, "")
	if err != nil {
		t.Fatalf("schedule: %v", err)
	}
	if len(bars) != 2 {
		t.Fatalf("expected 2 bars, got %d", len(bars))
	}
	byID := map[string]domain.GanttBar{}
	for _, bar := range bars {
		byID[bar.ID] = bar
	}
	if byID[a.ID].PercentComplete != 50 {
		t.Fatalf("expected 50%% for in_progress, got %d", byID[a.ID].PercentComplete)
	}
	if byID[b.ID].PercentComplete != 0 {
		t.Fatalf("expected 0%% for not_started, got %d", byID[b.ID].PercentComplete)
	}
	// no due date: end defaults to creation plus seven days
	if byID[b.ID].End != "2024-01-08T00:00:00Z" {
		t.Fatalf("unexpected default end %s", byID[b.ID].End)
	}
	if len(byID[b.ID].DependencyIDs) != 1 || byID[b.ID].DependencyIDs[0] != a.ID {
		t.Fatalf("expected dependency edge on bar, got %v", byID[b.ID].DependencyIDs)
	}
}

func TestInvoiceNumbering(t *testing.T) {
	env := newTestEnv(t)
	actor := env.seedActor(t)
	client, err := env.Engine.CreateClient(env.Ctx, engine.ClientCreateOptions{Name: "Acme", ActorID: actor})
	if err != nil {
		t.Fatal(err)
	}
	first, err := env.Engine.CreateInvoice(env.Ctx, engine.InvoiceCreateOptions{ClientID: client.ID, Amount: 100, Tax: 20, ActorID: actor})
	if err != nil {
		t.Fatalf("first invoice: %v", err)
	}
	if first.InvoiceNumber != "INV-2024-0001" {
		t.Fatalf("unexpected number %s", first.InvoiceNumber)
	}
	if first.Total != 120 {
		t.Fatalf("expected total 120, got %v", first.Total)
	}
	second, err := env.Engine.CreateInvoice(env.Ctx, engine.InvoiceCreateOptions{ClientID: client.ID, Amount: 50, ActorID: actor})
	if err != nil {
		t.Fatalf("second invoice: %v", err)
	}
	if second.InvoiceNumber != "INV-2024-0002" {
		t.Fatalf("unexpected number %s", second.InvoiceNumber)
	}
}

func TestInvoiceWorkflow(t *testing.T) {
	env := newTestEnv(t)
	actor := env.seedActor(t)
	client, _ := env.Engine.CreateClient(env.Ctx, engine.ClientCreateOptions{Name: "Acme", ActorID: actor})
	inv, err := env.Engine.CreateInvoice(env.Ctx, engine.InvoiceCreateOptions{ClientID: client.ID, Amount: 100, ActorID: actor})
	if err != nil {
		t.Fatal(err)
	}
	// draft cannot jump straight to paid
	_, err = env.Engine.UpdateInvoiceStatus(env.Ctx, inv.ID, "paid", actor)
	var te engine.InvalidTransitionError
	if !errors.As(err, &te) {
		t.Fatalf("expected transition error, got %v", err)
	}
	if _, err := env.Engine.UpdateInvoiceStatus(env.Ctx, inv.ID, "sent", actor); err != nil {
		t.Fatalf("to sent: %v", err)
	}
	paid, err := env.Engine.RecordInvoicePayment(env.Ctx, inv.ID, "paid", actor)
	if err != nil {
		t.Fatalf("record payment: %v", err)
	}
	if paid.PaymentStatus != "paid" || paid.Status != "paid" {
		t.Fatalf("expected paid/paid, got %s/%s", paid.PaymentStatus, paid.Status)
	}
	if paid.PaidDate == nil {
		t.Fatalf("expected paid_date stamped")
	}
}

func TestExpenseApprovalUpdatesSpend(t *testing.T) {
	env := newTestEnv(t)
	actor := env.seedActor(t)
	approver := env.seedUser(t, "finance@example.com", "finance")
	campaign := env.seedCampaign(t, actor)
	exp, err := env.Engine.CreateExpense(env.Ctx, engine.ExpenseCreateOptions{
		CampaignID: campaign.ID, Description: "Ad buy", Amount: 250, ActorID: actor,
	})
	if err != nil {
		t.Fatal(err)
	}
	approved, err := env.Engine.ReviewExpense(env.Ctx, exp.ID, true, approver.ID)
	if err != nil {
		t.Fatalf("approve: %v", err)
	}
	if approved.Status != "approved" || approved.ApprovedByID == nil || *approved.ApprovedByID != approver.ID {
		t.Fatalf("unexpected review result %+v", approved)
	}
	c, err := env.Engine.Repo.GetCampaign(env.Ctx, campaign.ID)
	if err != nil {
		t.Fatal(err)
	}
	if c.ActualSpend == nil || *c.ActualSpend != 250 {
		t.Fatalf("expected actual spend 250, got %v", c.ActualSpend)
	}
	// pending is the only reviewable state
	_, err = env.Engine.ReviewExpense(env.Ctx, exp.ID, false, approver.ID)
	var te engine.InvalidTransitionError
	if !errors.As(err, &te) {
		t.Fatalf("expected transition error, got %v", err)
	}
}

func TestCampaignWorkflowAndStats(t *testing.T) {
	env := newTestEnv(t)
	actor := env.seedActor(t)
	campaign := env.seedCampaign(t, actor)
	var te engine.InvalidTransitionError
	_, err := env.Engine.UpdateCampaignStatus(env.Ctx, campaign.ID, "completed", actor)
	if !errors.As(err, &te) {
		t.Fatalf("expected transition error, got %v", err)
	}
	// repeating the current status is rejected too
	_, err = env.Engine.UpdateCampaignStatus(env.Ctx, campaign.ID, "planning", actor)
	if !errors.As(err, &te) {
		t.Fatalf("expected same-status rejection, got %v", err)
	}
	if _, err := env.Engine.UpdateCampaignStatus(env.Ctx, campaign.ID, "active", actor); err != nil {
		t.Fatalf("to active: %v", err)
	}
	if _, err := env.Engine.UpdateCampaignStatus(env.Ctx, campaign.ID, "paused", actor); err != nil {
		t.Fatalf("to paused: %v", err)
	}

	task, _ := env.Engine.CreateTask(env.Ctx, engine.TaskCreateOptions{CampaignID: campaign.ID, Title: "t1", ActorID: actor})
	_, _ = env.Engine.CreateTask(env.Ctx, engine.TaskCreateOptions{CampaignID: campaign.ID, Title: "t2", ActorID: actor})
	_, _ = env.Engine.UpdateTaskStatus(env.Ctx, task.ID, "in_progress", actor)

	stats, err := env.Engine.CampaignStats(env.Ctx, campaign.ID)
	if err != nil {
		t.Fatal(err)
	}
	if stats.TotalTasks != 2 || stats.InProgressTasks != 1 || stats.NotStartedTasks != 1 {
		t.Fatalf("unexpected stats %+v", stats)
	}
	if stats.Budget != 1000 || stats.BudgetRemaining != 1000 {
		t.Fatalf("unexpected budget stats %+v", stats)
	}
}

func TestAssignmentNotification(t *testing.T) {
	env := newTestEnv(t)
	actor := env.seedActor(t)
	assignee := env.seedUser(t, "member@example.com", "team_member")
	_, err := env.Engine.CreateTask(env.Ctx, engine.TaskCreateOptions{
		Title: "Review copy", AssignedToID: assignee.ID, ActorID: actor,
	})
	if err != nil {
		t.Fatal(err)
	}
	items, err := env.Engine.ListNotifications(env.Ctx, assignee.ID, true)
	if err != nil {
		t.Fatal(err)
	}
	if len(items) != 1 || items[0].Type != "task_assigned" {
		t.Fatalf("expected one assignment notification, got %+v", items)
	}
	if err := env.Engine.MarkNotificationRead(env.Ctx, items[0].ID, assignee.ID); err != nil {
		t.Fatalf("mark read: %v", err)
	}
	items, err = env.Engine.ListNotifications(env.Ctx, assignee.ID, true)
	if err != nil {
		t.Fatal(err)
	}
	if len(items) != 0 {
		t.Fatalf("expected no unread notifications, got %d", len(items))
	}
}

func TestNotificationPreferenceSuppressesInApp(t *testing.T) {
	env := newTestEnv(t)
	actor := env.seedActor(t)
	assignee := env.seedUser(t, "quiet@example.com", "team_member")
	if err := env.Engine.SetNotificationPreference(env.Ctx, domain.NotificationPreference{
		UserID: assignee.ID, InApp: false, Webhook: true,
	}); err != nil {
		t.Fatal(err)
	}
	_, err := env.Engine.CreateTask(env.Ctx, engine.TaskCreateOptions{
		Title: "Quiet task", AssignedToID: assignee.ID, ActorID: actor,
	})
	if err != nil {
		t.Fatal(err)
	}
	items, err := env.Engine.ListNotifications(env.Ctx, assignee.ID, false)
	if err != nil {
		t.Fatal(err)
	}
	if len(items) != 0 {
		t.Fatalf("expected suppressed notifications, got %d", len(items))
	}
}

func TestUnknownRoleRejected(t *testing.T) {
	env := newTestEnv(t)
	_, err := env.Engine.CreateUser(env.Ctx, engine.UserCreateOptions{
		Email: "x@example.com", Role: "superuser", ActorID: "seed",
	})
	if err == nil {
		t.Fatalf("expected unknown role error")
	}
}

func TestActivitiesAppended(t *testing.T) {
	env := newTestEnv(t)
	actor := env.seedActor(t)
	task, err := env.Engine.CreateTask(env.Ctx, engine.TaskCreateOptions{Title: "evented", ActorID: actor})
	if err != nil {
		t.Fatal(err)
	}
	_, _ = env.Engine.UpdateTaskStatus(env.Ctx, task.ID, "in_progress", actor)
	_, _ = env.Engine.UpdateTaskStatus(env.Ctx, task.ID, "completed", actor)
	items, err := env.Engine.Repo.ListActivitiesForEntity(env.Ctx, "task", task.ID, 10)
	if err != nil {
		t.Fatal(err)
	}
	if len(items) < 3 {
		t.Fatalf("expected multiple activities, got %d", len(items))
	}
	seen := map[string]bool{}
	for _, a := range items {
		seen[a.Type] = true
	}
	if !seen["task.created"] || !seen["task.completed"] {
		t.Fatalf("missing expected activity types: %v", seen)
	}
}

func TestAPIKeyRoundTrip(t *testing.T) {
	env := newTestEnv(t)
	u := env.seedUser(t, "keys@example.com", "manager")
	key, raw, err := env.Engine.MintAPIKey(env.Ctx, u.ID, "ci", "seed")
	if err != nil {
		t.Fatalf("mint: %v", err)
	}
	if raw == "" || key.KeyHash == raw {
		t.Fatalf("expected hashed storage")
	}
	got, err := env.Engine.Repo.GetAPIKeyByHash(env.Ctx, repo.HashAPIKey(raw))
	if err != nil {
		t.Fatalf("lookup: %v", err)
	}
	if got.UserID != u.ID {
		t.Fatalf("unexpected key owner %s", got.UserID)
	}
}

func TestInvoiceEditableOnlyWhileDraft(t *testing.T) {
	env := newTestEnv(t)
	actor := env.seedActor(t)
	client, _ := env.Engine.CreateClient(env.Ctx, engine.ClientCreateOptions{Name: "Acme", ActorID: actor})
	inv, err := env.Engine.CreateInvoice(env.Ctx, engine.InvoiceCreateOptions{ClientID: client.ID, Amount: 100, Tax: 10, ActorID: actor})
	if err != nil {
		t.Fatal(err)
	}
	amount := 200.0
	updated, err := env.Engine.UpdateInvoice(env.Ctx, engine.InvoiceUpdateOptions{ID: inv.ID, Amount: &amount, ActorID: actor})
	if err != nil {
		t.Fatalf("update draft: %v", err)
	}
	if updated.Amount != 200 || updated.Total != 210 {
		t.Fatalf("expected total recomputed to 210, got %v/%v", updated.Amount, updated.Total)
	}
	if _, err := env.Engine.UpdateInvoiceStatus(env.Ctx, inv.ID, "sent", actor); err != nil {
		t.Fatalf("to sent: %v", err)
	}
	if _, err := env.Engine.UpdateInvoice(env.Ctx, engine.InvoiceUpdateOptions{ID: inv.ID, Amount: &amount, ActorID: actor}); err == nil {
		t.Fatalf("expected edit rejection after sending")
	}
}

func TestExpenseEditableOnlyByCreatorWhilePending(t *testing.T) {
	env := newTestEnv(t)
	creator := env.seedUser(t, "creator@example.com", "finance")
	other := env.seedUser(t, "other@example.com", "finance")
	reviewer := env.seedUser(t, "reviewer@example.com", "admin")
	exp, err := env.Engine.CreateExpense(env.Ctx, engine.ExpenseCreateOptions{Description: "stock photos", Amount: 40, ActorID: creator.ID})
	if err != nil {
		t.Fatal(err)
	}
	amount := 55.0
	if _, err := env.Engine.UpdateExpense(env.Ctx, engine.ExpenseUpdateOptions{ID: exp.ID, Amount: &amount, ActorID: other.ID}); err == nil {
		t.Fatalf("expected edit rejection for non-creator")
	}
	updated, err := env.Engine.UpdateExpense(env.Ctx, engine.ExpenseUpdateOptions{ID: exp.ID, Amount: &amount, ActorID: creator.ID})
	if err != nil {
		t.Fatalf("creator edit: %v", err)
	}
	if updated.Amount != 55 {
		t.Fatalf("expected amount 55, got %v", updated.Amount)
	}
	if _, err := env.Engine.ReviewExpense(env.Ctx, exp.ID, true, reviewer.ID); err != nil {
		t.Fatalf("approve: %v", err)
	}
	if _, err := env.Engine.UpdateExpense(env.Ctx, engine.ExpenseUpdateOptions{ID: exp.ID, Amount: &amount, ActorID: creator.ID}); err == nil {
		t.Fatalf("expected edit rejection after review")
	}
}

func TestTaskListFilters(t *testing.T) {
	env := newTestEnv(t)
	actor := env.seedActor(t)
	due := "2024-02-01T00:00:00Z"
	if _, err := env.Engine.CreateTask(env.Ctx, engine.TaskCreateOptions{Title: "Draft banner copy", Priority: "high", DueDate: due, ActorID: actor}); err != nil {
		t.Fatal(err)
	}
	if _, err := env.Engine.CreateTask(env.Ctx, engine.TaskCreateOptions{Title: "Book venue", Priority: "low", ActorID: actor}); err != nil {
		t.Fatal(err)
	}

	byPriority, err := env.Engine.Repo.ListTasks(env.Ctx, repo.TaskFilter{Priority: "high"})
	if err != nil {
		t.Fatalf("priority filter: %v", err)
	}
	if len(byPriority) != 1 || byPriority[0].Title != "Draft banner copy" {
		t.Fatalf("priority filter returned %+v", byPriority)
	}

	bySearch, err := env.Engine.Repo.ListTasks(env.Ctx, repo.TaskFilter{Search: "venue"})
	if err != nil {
		t.Fatalf("search filter: %v", err)
	}
	if len(bySearch) != 1 || bySearch[0].Title != "Book venue" {
		t.Fatalf("search filter returned %+v", bySearch)
	}

	byDue, err := env.Engine.Repo.ListTasks(env.Ctx, repo.TaskFilter{DueBefore: "2024-03-01T00:00:00Z"})
	if err != nil {
		t.Fatalf("due filter: %v", err)
	}
	if len(byDue) != 1 || byDue[0].Title != "Draft banner copy" {
		t.Fatalf("due filter returned %+v", byDue)
	}
}
