package client

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/url"
	"time"

	"github.com/Azure/azure-sdk-for-go/sdk/azcore/policy"
	"github.com/hashicorp/terraform-plugin-log/tflog"
)

// Project represents a project resource owned by the remote service.
type Project struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	Description string    `json:"description"`
	CreatedAt   Timestamp `json:"createdAt"`
}

// timestampLayouts are tried in order; fractional seconds parse under each.
var timestampLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05Z07:00",
	"2006-01-02 15:04:05",
}

// Timestamp is a service-assigned time. Raw holds the value exactly as the
// service sent it; Time is zero when no layout matched.
type Timestamp struct {
	time.Time
	Raw string
}

// UnmarshalJSON never fails on an unexpected shape so a created resource is
// always reported.
func (t *Timestamp) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if bytes.Equal(data, []byte("null")) {
		return nil
	}

	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		t.Raw = string(data)
		return nil
	}
	t.Raw = s

	for _, layout := range timestampLayouts {
		if parsed, err := time.Parse(layout, s); err == nil {
			t.Time = parsed
			break
		}
	}
	return nil
}

// MarshalJSON writes the value in the form String returns.
func (t Timestamp) MarshalJSON() ([]byte, error) {
	return json.Marshal(t.String())
}

// String returns Raw when set, otherwise Time in RFC3339 with full precision.
func (t Timestamp) String() string {
	if t.Raw != "" {
		return t.Raw
	}
	if t.Time.IsZero() {
		return ""
	}
	return t.Time.Format(time.RFC3339Nano)
}

// CreateProjectRequest is the request body for creating a project.
type CreateProjectRequest struct {
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
}

// CreateProject creates a new project. The returned ID and CreatedAt are
// assigned by the service. The request is sent exactly once: a retry after
// a timeout or 5xx could leave a second project behind.
func (c *Client) CreateProject(ctx context.Context, name, description string) (*Project, error) {
	ctx = policy.WithRetryOptions(ctx, policy.RetryOptions{
		MaxRetries: -1,
		TryTimeout: DefaultTimeout,
	})

	req := CreateProjectRequest{
		Name:        name,
		Description: description,
	}

	tflog.Debug(ctx, "creating project", map[string]interface{}{
		"name": name,
	})

	var project Project
	if err := c.doRequest(ctx, "create project", http.MethodPost, "/projects", req, &project,
		http.StatusOK, http.StatusCreated); err != nil {
		return nil, err
	}

	tflog.Debug(ctx, "created project", map[string]interface{}{
		"id": project.ID,
	})

	return &project, nil
}

// GetProject retrieves a project by ID.
func (c *Client) GetProject(ctx context.Context, id string) (*Project, error) {
	var project Project
	if err := c.doRequest(ctx, "get project", http.MethodGet, "/projects/"+url.PathEscape(id), nil, &project,
		http.StatusOK); err != nil {
		return nil, err
	}
	return &project, nil
}

// DeleteProject deletes a project.
func (c *Client) DeleteProject(ctx context.Context, id string) error {
	tflog.Debug(ctx, "deleting project", map[string]interface{}{
		"id": id,
	})
	return c.doRequest(ctx, "delete project", http.MethodDelete, "/projects/"+url.PathEscape(id), nil, nil,
		http.StatusOK, http.StatusNoContent)
}
