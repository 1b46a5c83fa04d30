package client

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/hashicorp/terraform-plugin-log/tflogtest"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestClient(t *testing.T, handler http.HandlerFunc) (*Client, *httptest.Server) {
	t.Helper()

	srv := httptest.NewTLSServer(handler)
	t.Cleanup(srv.Close)

	c, err := New(Config{
		APIKey:     "test-key",
		Endpoint:   srv.URL + "/",
		MaxRetries: -1,
		Transport:  srv.Client(),
	})
	require.NoError(t, err)
	return c, srv
}

func TestNew_Validation(t *testing.T) {
	tests := []struct {
		name     string
		cfg      Config
		field    string
		contains string
	}{
		{"empty key", Config{Endpoint: "https://example.com"}, "api key", "must not be empty"},
		{"blank key", Config{APIKey: "   ", Endpoint: "https://example.com"}, "api key", "must not be empty"},
		{"empty endpoint", Config{APIKey: "k"}, "endpoint", "must not be empty"},
		{"plain http", Config{APIKey: "k", Endpoint: "http://example.com"}, "endpoint", "must use https"},
		{"no scheme", Config{APIKey: "k", Endpoint: "example.com"}, "endpoint", "must use https"},
		{"no host", Config{APIKey: "k", Endpoint: "https://"}, "endpoint", "must include a host"},
		{"unparseable", Config{APIKey: "k", Endpoint: "https://exa mple.com/%zz"}, "endpoint", "not a valid URL"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c, err := New(tt.cfg)
			require.Error(t, err)
			assert.Nil(t, c)

			var initErr *InitError
			require.ErrorAs(t, err, &initErr)
			assert.Equal(t, tt.field, initErr.Field)
			assert.Contains(t, err.Error(), tt.contains)
		})
	}
}

func TestNew_NormalizesEndpoint(t *testing.T) {
	c, err := New(Config{APIKey: "k", Endpoint: " https://example.com/api/ "})
	require.NoError(t, err)
	assert.Equal(t, "https://example.com/api", c.Endpoint())
	assert.Equal(t, DefaultAPIVersion, c.apiVersion)
}

func TestCreateProject(t *testing.T) {
	var gotBody CreateProjectRequest
	c, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/projects", r.URL.Path)
		assert.Equal(t, DefaultAPIVersion, r.URL.Query().Get("api-version"))
		assert.Equal(t, "test-key", r.Header.Get("api-key"))
		assert.Contains(t, r.Header.Get("User-Agent"), DefaultUserAgent)

		body, err := io.ReadAll(r.Body)
		assert.NoError(t, err)
		assert.NoError(t, json.Unmarshal(body, &gotBody))

		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusCreated)
		_, _ = w.Write([]byte(`{"id":"abc123","name":"P","description":"D","createdAt":"2024-01-01T00:00:00Z"}`))
	})

	var logs bytes.Buffer
	ctx := tflogtest.RootLogger(context.Background(), &logs)

	project, err := c.CreateProject(ctx, "P", "D")
	require.NoError(t, err)

	assert.Equal(t, CreateProjectRequest{Name: "P", Description: "D"}, gotBody)
	assert.Equal(t, "abc123", project.ID)
	assert.Equal(t, "P", project.Name)
	assert.Equal(t, "D", project.Description)
	assert.True(t, project.CreatedAt.Equal(time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)))

	entries, err := tflogtest.MultilineJSONDecode(&logs)
	require.NoError(t, err)
	var messages []interface{}
	for _, e := range entries {
		messages = append(messages, e["@message"])
	}
	assert.Contains(t, messages, "creating project")
	assert.Contains(t, messages, "created project")
}

func TestCreateProject_ServiceError(t *testing.T) {
	c, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusBadRequest)
		_, _ = w.Write([]byte(`{"error":{"code":"InvalidName","message":"name is too long"}}`))
	})

	project, err := c.CreateProject(context.Background(), "P", "D")
	require.Error(t, err)
	assert.Nil(t, project)

	var opErr *OperationError
	require.ErrorAs(t, err, &opErr)
	assert.Equal(t, "create project", opErr.Op)
	assert.Equal(t, http.StatusBadRequest, opErr.StatusCode)
	assert.Equal(t, "InvalidName", opErr.Code)
	assert.Equal(t, "name is too long", opErr.Message)
	assert.Equal(t, "create project failed (status 400, code InvalidName): name is too long", err.Error())
	assert.False(t, IsRetryable(err))
}

func TestCreateProject_FlatErrorBody(t *testing.T) {
	c, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusConflict)
		_, _ = w.Write([]byte(`{"error":"project already exists"}`))
	})

	_, err := c.CreateProject(context.Background(), "P", "D")
	require.Error(t, err)
	assert.True(t, IsConflict(err))
	assert.Contains(t, err.Error(), "project already exists")
}

func TestCreateProject_NonJSONErrorBody(t *testing.T) {
	c, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		_, _ = w.Write([]byte("access denied"))
	})

	_, err := c.CreateProject(context.Background(), "P", "D")
	require.Error(t, err)
	assert.True(t, IsUnauthorized(err))
	assert.Equal(t, "create project failed (status 401): access denied", err.Error())
}

func TestCreateProject_TransportError(t *testing.T) {
	c, srv := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {})
	srv.Close()

	_, err := c.CreateProject(context.Background(), "P", "D")
	require.Error(t, err)

	var opErr *OperationError
	require.ErrorAs(t, err, &opErr)
	assert.Equal(t, 0, opErr.StatusCode)
	assert.NotNil(t, opErr.Err)
	assert.Contains(t, err.Error(), "create project failed:")
}

func newRetryingClient(t *testing.T, handler http.HandlerFunc) *Client {
	t.Helper()

	srv := httptest.NewTLSServer(handler)
	t.Cleanup(srv.Close)

	c, err := New(Config{
		APIKey:     "k",
		Endpoint:   srv.URL,
		MaxRetries: 2,
		RetryDelay: 10 * time.Millisecond,
		Transport:  srv.Client(),
	})
	require.NoError(t, err)
	return c
}

func TestCreateProject_NotRetried(t *testing.T) {
	var calls atomic.Int32
	c := newRetryingClient(t, func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		w.WriteHeader(http.StatusServiceUnavailable)
	})

	_, err := c.CreateProject(context.Background(), "P", "D")
	require.Error(t, err)
	assert.True(t, IsRetryable(err))
	assert.Equal(t, int32(1), calls.Load(), "create must be sent once")
}

func TestGetProject_RetriesTransientFailure(t *testing.T) {
	var calls atomic.Int32
	c := newRetryingClient(t, func(w http.ResponseWriter, r *http.Request) {
		if calls.Add(1) == 1 {
			w.WriteHeader(http.StatusServiceUnavailable)
			return
		}
		_, _ = w.Write([]byte(`{"id":"abc123","name":"P","description":"D","createdAt":"2024-01-01T00:00:00Z"}`))
	})

	project, err := c.GetProject(context.Background(), "abc123")
	require.NoError(t, err)
	assert.Equal(t, "abc123", project.ID)
	assert.Equal(t, int32(2), calls.Load())
}

func TestCreateProject_UnusualTimestamps(t *testing.T) {
	tests := []struct {
		name      string
		createdAt string
		raw       string
		want      time.Time
	}{
		{"fractional", `"2024-01-01T00:00:00.1234567Z"`, "2024-01-01T00:00:00.1234567Z", time.Date(2024, 1, 1, 0, 0, 0, 123456700, time.UTC)},
		{"no offset", `"2024-01-01T00:00:00"`, "2024-01-01T00:00:00", time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)},
		{"space separated", `"2024-01-01 00:00:00Z"`, "2024-01-01 00:00:00Z", time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)},
		{"unparseable", `"yesterday"`, "yesterday", time.Time{}},
		{"number", `1704067200`, "1704067200", time.Time{}},
		{"null", `null`, "", time.Time{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(http.StatusCreated)
				_, _ = w.Write([]byte(`{"id":"abc123","name":"P","description":"D","createdAt":` + tt.createdAt + `}`))
			})

			project, err := c.CreateProject(context.Background(), "P", "D")
			require.NoError(t, err)
			assert.Equal(t, "abc123", project.ID)
			assert.Equal(t, tt.raw, project.CreatedAt.Raw)
			assert.Equal(t, tt.raw, project.CreatedAt.String())
			assert.True(t, project.CreatedAt.Equal(tt.want), "got %v", project.CreatedAt.Time)
		})
	}
}

func TestTimestamp_String(t *testing.T) {
	ts := Timestamp{Time: time.Date(2024, 1, 1, 0, 0, 0, 500, time.UTC)}
	assert.Equal(t, "2024-01-01T00:00:00.0000005Z", ts.String())
	assert.Equal(t, "", Timestamp{}.String())
	assert.Equal(t, "as-sent", Timestamp{Time: time.Now(), Raw: "as-sent"}.String())
}

func TestCreateProject_MalformedBodyReportsCause(t *testing.T) {
	c, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusCreated)
		_, _ = w.Write([]byte(`{"id":`))
	})

	_, err := c.CreateProject(context.Background(), "P", "D")
	require.Error(t, err)

	var opErr *OperationError
	require.ErrorAs(t, err, &opErr)
	require.NotNil(t, opErr.Err)
	assert.Equal(t, "create project failed (status 201): failed to parse response: "+opErr.Err.Error(), err.Error())
}

func TestGetProject(t *testing.T) {
	c, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodGet, r.Method)
		assert.Equal(t, "/projects/abc123", r.URL.Path)
		_, _ = w.Write([]byte(`{"id":"abc123","name":"P","description":"D","createdAt":"2024-01-01T00:00:00Z"}`))
	})

	project, err := c.GetProject(context.Background(), "abc123")
	require.NoError(t, err)
	assert.Equal(t, "abc123", project.ID)
}

func TestGetProject_NotFound(t *testing.T) {
	c, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("x-ms-error-code", "ProjectNotFound")
		w.WriteHeader(http.StatusNotFound)
	})

	_, err := c.GetProject(context.Background(), "missing")
	require.Error(t, err)
	assert.True(t, IsNotFound(err))
	assert.False(t, IsForbidden(err))

	var opErr *OperationError
	require.ErrorAs(t, err, &opErr)
	assert.Equal(t, "ProjectNotFound", opErr.Code)
}

func TestDeleteProject(t *testing.T) {
	c, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodDelete, r.Method)
		assert.Equal(t, "/projects/abc123", r.URL.Path)
		w.WriteHeader(http.StatusNoContent)
	})

	require.NoError(t, c.DeleteProject(context.Background(), "abc123"))
}
