package mediadesksdk

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"
)

// Client is a minimal Mediadesk HTTP API client.
type Client struct {
	BaseURL     string
	BasePath    string
	APIKey      string
	BearerToken string
	HTTPClient  *http.Client
	Timeout     time.Duration
}

// New creates a client with sane defaults.
func New(baseURL string) *Client {
	return &Client{
		BaseURL:  baseURL,
		BasePath: "api",
		Timeout:  10 * time.Second,
	}
}

// Task represents the API task model (partial).
type Task struct {
	ID           string   `json:"id"`
	CampaignID   *string  `json:"campaign_id,omitempty"`
	Title        string   `json:"title"`
	Status       string   `json:"status"`
	Priority     string   `json:"priority"`
	AssignedToID *string  `json:"assigned_to_id,omitempty"`
	DependsOn    []string `json:"depends_on,omitempty"`
	DueDate      *string  `json:"due_date,omitempty"`
}

// Campaign represents the API campaign model (partial).
type Campaign struct {
	ID       string `json:"id"`
	ClientID string `json:"client_id"`
	Name     string `json:"name"`
	Status   string `json:"status"`
}

// Dependency is one edge of the task graph.
type Dependency struct {
	TaskID      string `json:"task_id"`
	DependsOnID string `json:"depends_on_id"`
	Kind        string `json:"kind"`
}

// GanttBar is one row of the schedule view.
type GanttBar struct {
	ID              string   `json:"id"`
	Title           string   `json:"title"`
	Start           string   `json:"start"`
	End             string   `json:"end"`
	PercentComplete int      `json:"percent_complete"`
	DependencyIDs   []string `json:"dependency_ids"`
}

// Activity represents one audit log entry.
type Activity struct {
	ID         int64  `json:"id"`
	TS         string `json:"ts"`
	Type       string `json:"type"`
	EntityKind string `json:"entity_kind"`
	EntityID   string `json:"entity_id"`
	ActorID    string `json:"actor_id"`
}

// APIError wraps non-2xx responses.
type APIError struct {
	StatusCode int
	Body       string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("api error: status=%d body=%s", e.StatusCode, e.Body)
}

// CreateTask creates a task.
func (c *Client) CreateTask(ctx context.Context, title, campaignID string, dependsOn []string) (Task, error) {
	body := map[string]any{"title": title}
	if campaignID != "" {
		body["campaign_id"] = campaignID
	}
	if len(dependsOn) > 0 {
		body["depends_on"] = dependsOn
	}
	var resp Task
	err := c.do(ctx, http.MethodPost, "tasks", body, &resp)
	return resp, err
}

// UpdateTaskStatus moves a task through its workflow.
func (c *Client) UpdateTaskStatus(ctx context.Context, taskID, status string) (Task, error) {
	var resp Task
	endpoint := fmt.Sprintf("tasks/%s/status", url.PathEscape(taskID))
	err := c.do(ctx, http.MethodPost, endpoint, map[string]any{"status": status}, &resp)
	return resp, err
}

// AddDependency links taskID to a prerequisite.
func (c *Client) AddDependency(ctx context.Context, taskID, dependsOnID string) (Dependency, error) {
	var resp Dependency
	endpoint := fmt.Sprintf("tasks/%s/dependencies", url.PathEscape(taskID))
	err := c.do(ctx, http.MethodPost, endpoint, map[string]any{"depends_on_id": dependsOnID}, &resp)
	return resp, err
}

// Schedule returns the Gantt view, optionally scoped to one campaign.
func (c *Client) Schedule(ctx context.Context, campaignID string) ([]GanttBar, error) {
	endpoint := "tasks/schedule"
	if campaignID != "" {
		endpoint += "?campaign_id=" + url.QueryEscape(campaignID)
	}
	var resp struct {
		Bars []GanttBar `json:"bars"`
	}
	err := c.do(ctx, http.MethodGet, endpoint, nil, &resp)
	return resp.Bars, err
}

// ListTasks returns tasks visible to the caller.
func (c *Client) ListTasks(ctx context.Context, campaignID, status string) ([]Task, error) {
	endpoint := "tasks"
	q := url.Values{}
	if campaignID != "" {
		q.Set("campaign_id", campaignID)
	}
	if status != "" {
		q.Set("status", status)
	}
	if len(q) > 0 {
		endpoint += "?" + q.Encode()
	}
	var resp struct {
		Tasks []Task `json:"tasks"`
	}
	err := c.do(ctx, http.MethodGet, endpoint, nil, &resp)
	return resp.Tasks, err
}

// ListCampaigns returns campaigns visible to the caller.
func (c *Client) ListCampaigns(ctx context.Context, clientID string) ([]Campaign, error) {
	endpoint := "campaigns"
	if clientID != "" {
		endpoint += "?client_id=" + url.QueryEscape(clientID)
	}
	var resp struct {
		Campaigns []Campaign `json:"campaigns"`
	}
	err := c.do(ctx, http.MethodGet, endpoint, nil, &resp)
	return resp.Campaigns, err
}

// Activities returns feed entries after the given cursor.
func (c *Client) Activities(ctx context.Context, afterID int64, limit int) ([]Activity, error) {
	endpoint := "activities"
	q := url.Values{}
	if afterID > 0 {
		q.Set("after_id", fmt.Sprint(afterID))
	}
	if limit > 0 {
		q.Set("limit", fmt.Sprint(limit))
	}
	if len(q) > 0 {
		endpoint += "?" + q.Encode()
	}
	var resp struct {
		Activities []Activity `json:"activities"`
	}
	err := c.do(ctx, http.MethodGet, endpoint, nil, &resp)
	return resp.Activities, err
}

func (c *Client) do(ctx context.Context, method, endpoint string, body any, out any) error {
	if c.HTTPClient == nil {
		c.HTTPClient = &http.Client{Timeout: c.Timeout}
	}
	u := c.base() + "/" + strings.Trim(c.BasePath, "/") + "/" + strings.TrimLeft(endpoint, "/")
	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			return err
		}
	}
	req, err := http.NewRequestWithContext(ctx, method, u, &buf)
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	switch {
	case c.BearerToken != "":
		req.Header.Set("Authorization", "Bearer "+c.BearerToken)
	case c.APIKey != "":
		req.Header.Set("X-Api-Key", c.APIKey)
	}
	resp, err := c.HTTPClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	if resp.StatusCode >= 300 {
		b, _ := io.ReadAll(resp.Body)
		return &APIError{StatusCode: resp.StatusCode, Body: string(b)}
	}
	if out != nil {
		return json.NewDecoder(resp.Body).Decode(out)
	}
	return nil
}

func (c *Client) base() string {
	return strings.TrimRight(c.BaseURL, "/")
}
