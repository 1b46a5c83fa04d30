package client

import (
	"context"
	"encoding/json"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/Azure/azure-sdk-for-go/sdk/azcore"
	"github.com/Azure/azure-sdk-for-go/sdk/azcore/policy"
	"github.com/Azure/azure-sdk-for-go/sdk/azcore/runtime"
	"github.com/hashicorp/terraform-plugin-log/tflog"
)

const (
	// DefaultAPIVersion is the projects API version sent when none is configured.
	DefaultAPIVersion = "2025-05-01"
	// DefaultUserAgent is the application ID prefixed to the SDK user agent.
	DefaultUserAgent = "foundry-samples"
	// DefaultTimeout is the per-try HTTP request timeout.
	DefaultTimeout = 15 * time.Second
	// MaxRetries is the default maximum number of retry attempts.
	MaxRetries = 5
	// BaseRetryDelay is the base delay between retries.
	BaseRetryDelay = 1 * time.Second

	apiKeyHeader  = "api-key"
	moduleName    = "projects"
	moduleVersion = "v0.1.0"
)

// Client is the projects API client.
type Client struct {
	pipeline   runtime.Pipeline
	endpoint   string
	apiVersion string
}

// Config holds configuration for creating a new client.
type Config struct {
	APIKey     string
	Endpoint   string
	APIVersion string
	UserAgent  string

	// MaxRetries overrides the retry count. Zero means MaxRetries,
	// a negative value disables retries.
	MaxRetries int32
	// RetryDelay overrides BaseRetryDelay when non-zero.
	RetryDelay time.Duration
	// Transport replaces the default HTTP transport (tests).
	Transport policy.Transporter
}

// New creates a new projects API client bound to cfg.Endpoint.
// It performs no network I/O; a malformed key or endpoint yields an *InitError.
func New(cfg Config) (*Client, error) {
	if strings.TrimSpace(cfg.APIKey) == "" {
		return nil, &InitError{Field: "api key", Reason: "must not be empty"}
	}

	endpoint, err := normalizeEndpoint(cfg.Endpoint)
	if err != nil {
		return nil, err
	}

	apiVersion := cfg.APIVersion
	if apiVersion == "" {
		apiVersion = DefaultAPIVersion
	}

	userAgent := cfg.UserAgent
	if userAgent == "" {
		userAgent = DefaultUserAgent
	}

	maxRetries := cfg.MaxRetries
	if maxRetries == 0 {
		maxRetries = MaxRetries
	}

	retryDelay := cfg.RetryDelay
	if retryDelay == 0 {
		retryDelay = BaseRetryDelay
	}

	opts := &policy.ClientOptions{
		Retry: policy.RetryOptions{
			MaxRetries: maxRetries,
			RetryDelay: retryDelay,
			TryTimeout: DefaultTimeout,
		},
		Telemetry: policy.TelemetryOptions{
			ApplicationID: userAgent,
		},
		Transport: cfg.Transport,
	}

	cred := azcore.NewKeyCredential(cfg.APIKey)
	pl := runtime.NewPipeline(moduleName, moduleVersion, runtime.PipelineOptions{
		PerRetry: []policy.Policy{runtime.NewKeyCredentialPolicy(cred, apiKeyHeader, nil)},
	}, opts)

	return &Client{
		pipeline:   pl,
		endpoint:   endpoint,
		apiVersion: apiVersion,
	}, nil
}

// Endpoint returns the normalized endpoint the client is bound to.
func (c *Client) Endpoint() string {
	return c.endpoint
}

// normalizeEndpoint validates the endpoint shape and strips a trailing slash.
func normalizeEndpoint(raw string) (string, error) {
	endpoint := strings.TrimSuffix(strings.TrimSpace(raw), "/")
	if endpoint == "" {
		return "", &InitError{Field: "endpoint", Reason: "must not be empty"}
	}

	u, err := url.Parse(endpoint)
	if err != nil {
		return "", &InitError{Field: "endpoint", Reason: "is not a valid URL", Err: err}
	}
	if u.Scheme != "https" {
		return "", &InitError{Field: "endpoint", Reason: "must use https, got scheme " + quoteScheme(u.Scheme)}
	}
	if u.Host == "" {
		return "", &InitError{Field: "endpoint", Reason: "must include a host"}
	}

	return endpoint, nil
}

func quoteScheme(s string) string {
	if s == "" {
		return `""`
	}
	return `"` + s + `"`
}

// doRequest sends one request through the pipeline. Retries, authentication
// and timeouts are applied by the pipeline policies.
func (c *Client) doRequest(ctx context.Context, op, method, path string, body, result interface{}, okStatus ...int) error {
	req, err := runtime.NewRequest(ctx, method, runtime.JoinPaths(c.endpoint, path))
	if err != nil {
		return &OperationError{Op: op, Err: err}
	}

	query := req.Raw().URL.Query()
	query.Set("api-version", c.apiVersion)
	req.Raw().URL.RawQuery = query.Encode()
	req.Raw().Header.Set("Accept", "application/json")

	if body != nil {
		if err := runtime.MarshalAsJSON(req, body); err != nil {
			return &OperationError{Op: op, Err: err}
		}
	}

	tflog.Trace(ctx, "sending request", map[string]interface{}{
		"op":     op,
		"method": method,
		"url":    req.Raw().URL.String(),
	})

	resp, err := c.pipeline.Do(req)
	if err != nil {
		return &OperationError{Op: op, Err: err}
	}

	if !runtime.HasStatusCode(resp, okStatus...) {
		return newOperationError(op, resp)
	}

	if result != nil && resp.StatusCode != http.StatusNoContent {
		if err := runtime.UnmarshalAsJSON(resp, result); err != nil {
			return &OperationError{Op: op, StatusCode: resp.StatusCode, Message: "failed to parse response", Err: err}
		}
	}

	return nil
}

// newOperationError builds an OperationError from a non-success response.
func newOperationError(op string, resp *http.Response) *OperationError {
	opErr := &OperationError{
		Op:         op,
		StatusCode: resp.StatusCode,
		Code:       resp.Header.Get("x-ms-error-code"),
	}

	payload, err := runtime.Payload(resp)
	if err != nil {
		opErr.Err = err
		return opErr
	}
	opErr.Body = string(payload)

	// Accept {"error":{"code","message"}} and {"error":"...","message":"..."}.
	var errResp struct {
		Error   json.RawMessage `json:"error"`
		Message string          `json:"message"`
	}
	if json.Unmarshal(payload, &errResp) != nil {
		return opErr
	}

	var detail struct {
		Code    string `json:"code"`
		Message string `json:"message"`
	}
	var flat string
	switch {
	case len(errResp.Error) > 0 && json.Unmarshal(errResp.Error, &detail) == nil:
		if detail.Code != "" {
			opErr.Code = detail.Code
		}
		opErr.Message = detail.Message
	case len(errResp.Error) > 0 && json.Unmarshal(errResp.Error, &flat) == nil:
		opErr.Message = flat
	}
	if opErr.Message == "" {
		opErr.Message = errResp.Message
	}

	return opErr
}
