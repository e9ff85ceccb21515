package server

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net"
	"net/http"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"mediadesk/internal/config"
	"mediadesk/internal/db"
	"mediadesk/internal/domain"
	"mediadesk/internal/engine"
	"mediadesk/internal/migrate"
	"mediadesk/internal/repo"
)

const testSecret = "test-secret"

type testServer struct {
	URL    string
	Engine engine.Engine
	client *http.Client
	close  func()
}

func (s *testServer) Client() *http.Client { return s.client }
func (s *testServer) Close()               { s.close() }

func newTestServer(t *testing.T) (*testServer, func()) {
	t.Helper()
	conn, err := db.Open(db.Config{Workspace: t.TempDir()})
	if err != nil {
		t.Fatalf("open db: %v", err)
	}
	if err := migrate.Migrate(conn); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	e := engine.New(conn, config.Default(testSecret))
	e.Now = func() time.Time { return time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC) }
	handler, err := New(Config{Engine: e, BasePath: "/api", Auth: AuthConfig{JWTSecret: testSecret}})
	if err != nil {
		t.Fatalf("build handler: %v", err)
	}
	ln, err := net.Listen("tcp4", "127.0.0.1:0")
	if err != nil {
		t.Fatalf("listen: %v", err)
	}
	srv := &http.Server{Handler: handler}
	go srv.Serve(ln)
	testSrv := &testServer{
		URL:    "http://" + ln.Addr().String(),
		Engine: e,
		client: &http.Client{},
		close: func() {
			srv.Shutdown(context.Background())
			ln.Close()
			conn.Close()
		},
	}
	return testSrv, func() { testSrv.Close() }
}

// seedUser creates a user and mints a bearer token for it.
func seedUser(t *testing.T, e engine.Engine, email, role string) (domain.User, string) {
	t.Helper()
	u, err := e.CreateUser(context.Background(), engine.UserCreateOptions{Email: email, Role: role, ActorID: "seed"})
	if err != nil {
		t.Fatalf("seed user: %v", err)
	}
	claims := jwt.RegisteredClaims{
		Subject:   u.ID,
		ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(testSecret))
	if err != nil {
		t.Fatalf("sign token: %v", err)
	}
	return u, token
}

func bearer(token string) map[string]string {
	return map[string]string{"Authorization": "Bearer " + token}
}

func doJSON(t *testing.T, client *http.Client, method, url string, body any, headers map[string]string) (*http.Response, []byte) {
	t.Helper()
	var reader *bytes.Reader
	if body != nil {
		b, err := json.Marshal(body)
		if err != nil {
			t.Fatalf("marshal body: %v", err)
		}
		reader = bytes.NewReader(b)
	} else {
		reader = bytes.NewReader(nil)
	}
	req, err := http.NewRequest(method, url, reader)
	if err != nil {
		t.Fatalf("new request: %v", err)
	}
	req.Header.Set("Content-Type", "application/json")
	for k, v := range headers {
		req.Header.Set(k, v)
	}
	res, err := client.Do(req)
	if err != nil {
		t.Fatalf("do request: %v", err)
	}
	defer res.Body.Close()
	data, err := io.ReadAll(res.Body)
	if err != nil {
		t.Fatalf("read body: %v", err)
	}
	return res, data
}

type errorEnvelope struct {
	Error struct {
		Code    string         `json:"code"`
		Message string         `json:"message"`
		Details map[string]any `json:"details"`
	} `json:"error"`
}

func decodeError(t *testing.T, data []byte) errorEnvelope {
	t.Helper()
	var env errorEnvelope
	if err := json.Unmarshal(data, &env); err != nil {
		t.Fatalf("unmarshal error envelope: %v (%s)", err, string(data))
	}
	return env
}

func TestAuthRequired(t *testing.T) {
	srv, cleanup := newTestServer(t)
	defer cleanup()
	client := srv.Client()

	res, _ := doJSON(t, client, http.MethodGet, srv.URL+"/api/health", nil, nil)
	if res.StatusCode != http.StatusOK {
		t.Fatalf("health should be open, got %d", res.StatusCode)
	}

	res, data := doJSON(t, client, http.MethodGet, srv.URL+"/api/tasks", nil, nil)
	if res.StatusCode != http.StatusUnauthorized {
		t.Fatalf("expected 401 without credentials, got %d: %s", res.StatusCode, string(data))
	}
	env := decodeError(t, data)
	if env.Error.Code != "unauthorized" {
		t.Fatalf("expected unauthorized code, got %s", env.Error.Code)
	}

	res, _ = doJSON(t, client, http.MethodGet, srv.URL+"/api/tasks", nil, bearer("not-a-token"))
	if res.StatusCode != http.StatusUnauthorized {
		t.Fatalf("expected 401 for garbage token, got %d", res.StatusCode)
	}
}

func TestTaskWorkflowOverHTTP(t *testing.T) {
	srv, cleanup := newTestServer(t)
	defer cleanup()
	client := srv.Client()
	_, token := seedUser(t, srv.Engine, "admin@example.com", "admin")

	res, data := doJSON(t, client, http.MethodPost, srv.URL+"/api/tasks", map[string]any{
		"title": "Write brief",
	}, bearer(token))
	if res.StatusCode != http.StatusCreated {
		t.Fatalf("create task status %d: %s", res.StatusCode, string(data))
	}
	var created domain.Task
	if err := json.Unmarshal(data, &created); err != nil {
		t.Fatalf("unmarshal task: %v", err)
	}
	if created.Status != "not_started" {
		t.Fatalf("new task should be not_started, got %s", created.Status)
	}

	res, data = doJSON(t, client, http.MethodPost, srv.URL+"/api/tasks/"+created.ID+"/status", map[string]any{
		"status": "completed",
	}, bearer(token))
	if res.StatusCode != http.StatusBadRequest {
		t.Fatalf("expected 400 for skipped workflow, got %d: %s", res.StatusCode, string(data))
	}
	env := decodeError(t, data)
	if env.Error.Code != "invalid_transition" {
		t.Fatalf("expected invalid_transition, got %s", env.Error.Code)
	}

	res, data = doJSON(t, client, http.MethodPost, srv.URL+"/api/tasks/"+created.ID+"/status", map[string]any{
		"status": "in_progress",
	}, bearer(token))
	if res.StatusCode != http.StatusOK {
		t.Fatalf("set in_progress: %d %s", res.StatusCode, string(data))
	}

	res, data = doJSON(t, client, http.MethodPost, srv.URL+"/api/tasks/"+created.ID+"/status", map[string]any{
		"status": "completed",
	}, bearer(token))
	if res.StatusCode != http.StatusOK {
		t.Fatalf("set completed: %d %s", res.StatusCode, string(data))
	}
	var done domain.Task
	if err := json.Unmarshal(data, &done); err != nil {
		t.Fatalf("unmarshal done: %v", err)
	}
	if done.CompletedAt == nil {
		t.Fatalf("completed task should carry completed_at")
	}
}

func TestCircularDependencyOverHTTP(t *testing.T) {
	srv, cleanup := newTestServer(t)
	defer cleanup()
	client := srv.Client()
	_, token := seedUser(t, srv.Engine, "admin@example.com", "admin")

	createTask := func(title string) string {
		res, data := doJSON(t, client, http.MethodPost, srv.URL+"/api/tasks", map[string]any{"title": title}, bearer(token))
		if res.StatusCode != http.StatusCreated {
			t.Fatalf("create %s: %d %s", title, res.StatusCode, string(data))
		}
		var task domain.Task
		if err := json.Unmarshal(data, &task); err != nil {
			t.Fatalf("unmarshal: %v", err)
		}
		return task.ID
	}
	a := createTask("a")
	b := createTask("b")

	res, data := doJSON(t, client, http.MethodPost, srv.URL+"/api/tasks/"+a+"/dependencies", map[string]any{
		"depends_on_id": b,
	}, bearer(token))
	if res.StatusCode != http.StatusCreated {
		t.Fatalf("add dependency: %d %s", res.StatusCode, string(data))
	}

	res, data = doJSON(t, client, http.MethodPost, srv.URL+"/api/tasks/"+b+"/dependencies", map[string]any{
		"depends_on_id": a,
	}, bearer(token))
	if res.StatusCode != http.StatusBadRequest {
		t.Fatalf("expected 400 for cycle, got %d: %s", res.StatusCode, string(data))
	}
	env := decodeError(t, data)
	if env.Error.Code != "circular_dependency" {
		t.Fatalf("expected circular_dependency, got %s", env.Error.Code)
	}
}

func TestForbiddenEnvelope(t *testing.T) {
	srv, cleanup := newTestServer(t)
	defer cleanup()
	client := srv.Client()
	_, token := seedUser(t, srv.Engine, "viewer@example.com", "client_viewer")

	res, data := doJSON(t, client, http.MethodPost, srv.URL+"/api/tasks", map[string]any{
		"title": "not allowed",
	}, bearer(token))
	if res.StatusCode != http.StatusForbidden {
		t.Fatalf("expected 403, got %d: %s", res.StatusCode, string(data))
	}
	env := decodeError(t, data)
	if env.Error.Code != "forbidden" {
		t.Fatalf("expected forbidden code, got %s", env.Error.Code)
	}
	if env.Error.Details["resource"] != "tasks" {
		t.Fatalf("expected tasks resource in details, got %v", env.Error.Details)
	}
}

func TestTaskListScopedToAssignee(t *testing.T) {
	srv, cleanup := newTestServer(t)
	defer cleanup()
	client := srv.Client()
	ctx := context.Background()
	admin, adminToken := seedUser(t, srv.Engine, "admin@example.com", "admin")
	member, memberToken := seedUser(t, srv.Engine, "member@example.com", "team_member")

	if _, err := srv.Engine.CreateTask(ctx, engine.TaskCreateOptions{Title: "mine", AssignedToID: member.ID, ActorID: admin.ID}); err != nil {
		t.Fatalf("seed assigned task: %v", err)
	}
	if _, err := srv.Engine.CreateTask(ctx, engine.TaskCreateOptions{Title: "someone else's", ActorID: admin.ID}); err != nil {
		t.Fatalf("seed other task: %v", err)
	}

	res, data := doJSON(t, client, http.MethodGet, srv.URL+"/api/tasks", nil, bearer(memberToken))
	if res.StatusCode != http.StatusOK {
		t.Fatalf("member list: %d %s", res.StatusCode, string(data))
	}
	var memberList TaskListResponse
	if err := json.Unmarshal(data, &memberList); err != nil {
		t.Fatalf("unmarshal list: %v", err)
	}
	if len(memberList.Tasks) != 1 || memberList.Tasks[0].Title != "mine" {
		t.Fatalf("member should only see assigned tasks, got %+v", memberList.Tasks)
	}

	res, data = doJSON(t, client, http.MethodGet, srv.URL+"/api/tasks", nil, bearer(adminToken))
	if res.StatusCode != http.StatusOK {
		t.Fatalf("admin list: %d %s", res.StatusCode, string(data))
	}
	var adminList TaskListResponse
	if err := json.Unmarshal(data, &adminList); err != nil {
		t.Fatalf("unmarshal list: %v", err)
	}
	if len(adminList.Tasks) != 2 {
		t.Fatalf("admin should see both tasks, got %d", len(adminList.Tasks))
	}
}

func TestAPIKeyAuth(t *testing.T) {
	srv, cleanup := newTestServer(t)
	defer cleanup()
	client := srv.Client()
	ctx := context.Background()
	member, _ := seedUser(t, srv.Engine, "member@example.com", "team_member")

	raw := "md_" + uuid.NewString()
	err := srv.Engine.Repo.InsertAPIKey(ctx, nil, domain.APIKey{
		ID:      uuid.NewString(),
		UserID:  member.ID,
		Name:    "ci",
		KeyHash: repo.HashAPIKey(raw),
	})
	if err != nil {
		t.Fatalf("insert api key: %v", err)
	}

	res, data := doJSON(t, client, http.MethodGet, srv.URL+"/api/me", nil, map[string]string{"X-Api-Key": raw})
	if res.StatusCode != http.StatusOK {
		t.Fatalf("me via api key: %d %s", res.StatusCode, string(data))
	}
	var me MeResponse
	if err := json.Unmarshal(data, &me); err != nil {
		t.Fatalf("unmarshal me: %v", err)
	}
	if me.UserID != member.ID || me.Role != "team_member" || me.Source != "api_key" {
		t.Fatalf("unexpected principal: %+v", me)
	}

	res, _ = doJSON(t, client, http.MethodGet, srv.URL+"/api/me", nil, map[string]string{"X-Api-Key": "wrong"})
	if res.StatusCode != http.StatusUnauthorized {
		t.Fatalf("expected 401 for unknown key, got %d", res.StatusCode)
	}
}

func TestMissingTaskNotFound(t *testing.T) {
	srv, cleanup := newTestServer(t)
	defer cleanup()
	client := srv.Client()
	_, token := seedUser(t, srv.Engine, "admin@example.com", "admin")

	res, data := doJSON(t, client, http.MethodGet, srv.URL+"/api/tasks/"+uuid.NewString(), nil, bearer(token))
	if res.StatusCode != http.StatusNotFound {
		t.Fatalf("expected 404, got %d: %s", res.StatusCode, string(data))
	}
	env := decodeError(t, data)
	if env.Error.Code != "not_found" {
		t.Fatalf("expected not_found, got %s", env.Error.Code)
	}
}

func TestNotificationEndpoints(t *testing.T) {
	srv, cleanup := newTestServer(t)
	defer cleanup()
	client := srv.Client()
	ctx := context.Background()
	manager, _ := seedUser(t, srv.Engine, "manager@example.com", "manager")
	member, memberToken := seedUser(t, srv.Engine, "member@example.com", "team_member")

	if _, err := srv.Engine.CreateTask(ctx, engine.TaskCreateOptions{Title: "review deck", AssignedToID: member.ID, ActorID: manager.ID}); err != nil {
		t.Fatalf("seed task: %v", err)
	}

	res, data := doJSON(t, client, http.MethodGet, srv.URL+"/api/notifications?unread=true", nil, bearer(memberToken))
	if res.StatusCode != http.StatusOK {
		t.Fatalf("list notifications: %d %s", res.StatusCode, string(data))
	}
	var list struct {
		Notifications []domain.Notification `json:"notifications"`
	}
	if err := json.Unmarshal(data, &list); err != nil {
		t.Fatalf("unmarshal notifications: %v", err)
	}
	if len(list.Notifications) != 1 || list.Notifications[0].Type != "task_assigned" {
		t.Fatalf("expected one task_assigned notification, got %+v", list.Notifications)
	}

	res, data = doJSON(t, client, http.MethodPost, srv.URL+"/api/notifications/read-all", nil, bearer(memberToken))
	if res.StatusCode != http.StatusOK {
		t.Fatalf("read all: %d %s", res.StatusCode, string(data))
	}

	res, data = doJSON(t, client, http.MethodGet, srv.URL+"/api/notifications?unread=true", nil, bearer(memberToken))
	if res.StatusCode != http.StatusOK {
		t.Fatalf("list after read-all: %d %s", res.StatusCode, string(data))
	}
	list.Notifications = nil
	if err := json.Unmarshal(data, &list); err != nil {
		t.Fatalf("unmarshal notifications: %v", err)
	}
	if len(list.Notifications) != 0 {
		t.Fatalf("expected no unread notifications, got %d", len(list.Notifications))
	}
}

func TestInactiveUserRejected(t *testing.T) {
	srv, cleanup := newTestServer(t)
	defer cleanup()
	client := srv.Client()
	ctx := context.Background()
	member, token := seedUser(t, srv.Engine, "member@example.com", "team_member")

	inactive := false
	if _, err := srv.Engine.UpdateUser(ctx, member.ID, nil, &inactive, "seed"); err != nil {
		t.Fatalf("deactivate user: %v", err)
	}

	res, _ := doJSON(t, client, http.MethodGet, srv.URL+"/api/me", nil, bearer(token))
	if res.StatusCode != http.StatusUnauthorized {
		t.Fatalf("expected 401 for disabled account, got %d", res.StatusCode)
	}
}
