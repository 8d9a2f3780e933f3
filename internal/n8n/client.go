// Package n8n is the HTTP client for the n8n server. It wraps two
// interchangeable authentication modes over the same logical endpoints:
// a cookie session obtained via login (internal REST prefix) and a
// static API key header (public API prefix).
package n8n

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/http/cookiejar"
	"time"

	"github.com/n8nops/n8nctl/internal/credentials"
)

const (
	apiPrefix  = "/api/v1/workflows"
	restPrefix = "/rest/workflows"
	loginPath  = "/rest/login"

	// keyHeader carries the API key in key mode.
	keyHeader = "X-N8N-API-KEY"

	requestTimeout = 30 * time.Second
)

// Sentinel errors for the lookup path. A found workflow without an id
// is a distinct condition from not-found.
var (
	ErrNotFound  = errors.New("workflow not found")
	ErrMissingID = errors.New("workflow found but has no ID")
)

// APIError is a non-2xx response, with the body surfaced verbatim.
type APIError struct {
	StatusCode int
	Body       string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("server returned %d - %s", e.StatusCode, e.Body)
}

// Client issues authenticated requests against one n8n server. The
// authentication mode is fixed at construction and never re-selected.
type Client struct {
	baseURL    string
	httpClient *http.Client
	apiKey     string // set in key mode; session mode relies on the cookie jar
	prefix     string
}

// New builds a client for the given credential. Session credentials are
// exchanged for a cookie immediately; a failed login is returned to the
// caller, who decides whether to fall back to the other mode.
func New(ctx context.Context, baseURL string, cred credentials.Credential) (*Client, error) {
	switch c := cred.(type) {
	case credentials.Session:
		return login(ctx, baseURL, c.Email, c.Password)
	case credentials.Key:
		return NewKeyClient(baseURL, c.APIKey), nil
	default:
		return nil, fmt.Errorf("unsupported credential type %T", cred)
	}
}

// NewKeyClient builds a client that authenticates with the API key
// header against the public API prefix.
func NewKeyClient(baseURL, apiKey string) *Client {
	return &Client{
		baseURL:    baseURL,
		apiKey:     apiKey,
		prefix:     apiPrefix,
		httpClient: &http.Client{Timeout: requestTimeout},
	}
}

// login posts the admin pair to the login endpoint and keeps the
// granted cookie in a jar. All subsequent calls use the REST prefix.
func login(ctx context.Context, baseURL, email, password string) (*Client, error) {
	jar, err := cookiejar.New(nil)
	if err != nil {
		return nil, fmt.Errorf("create cookie jar: %w", err)
	}

	c := &Client{
		baseURL:    baseURL,
		prefix:     restPrefix,
		httpClient: &http.Client{Timeout: requestTimeout, Jar: jar},
	}

	body := map[string]string{
		"emailOrLdapLoginId": email,
		"password":           password,
	}
	if _, err := c.do(ctx, http.MethodPost, loginPath, body); err != nil {
		return nil, fmt.Errorf("login failed: %w", err)
	}
	return c, nil
}

// Workflow is the server-owned workflow object. Only id and name are
// interpreted locally; everything else passes through untouched.
type Workflow map[string]any

// ID returns the server-assigned identifier, or "" when absent.
func (w Workflow) ID() string {
	id, _ := w["id"].(string)
	return id
}

// Name returns the workflow name, or "" when absent.
func (w Workflow) Name() string {
	name, _ := w["name"].(string)
	return name
}

// List fetches the full workflow collection, normalized to a flat slice.
func (c *Client) List(ctx context.Context) ([]Workflow, error) {
	body, err := c.do(ctx, http.MethodGet, c.prefix, nil)
	if err != nil {
		return nil, err
	}
	return decodeCollection(body)
}

// ListRaw fetches the workflow collection verbatim, without
// reshaping the server's response.
func (c *Client) ListRaw(ctx context.Context) (json.RawMessage, error) {
	body, err := c.do(ctx, http.MethodGet, c.prefix, nil)
	if err != nil {
		return nil, err
	}
	return json.RawMessage(body), nil
}

// Get fetches one workflow by identifier.
func (c *Client) Get(ctx context.Context, id string) (Workflow, error) {
	body, err := c.do(ctx, http.MethodGet, c.prefix+"/"+id, nil)
	if err != nil {
		return nil, err
	}
	var wf Workflow
	if err := json.Unmarshal(body, &wf); err != nil {
		return nil, fmt.Errorf("parse workflow response: %w", err)
	}
	return wf, nil
}

// Create imports a workflow and returns the server's record, which
// carries the assigned id.
func (c *Client) Create(ctx context.Context, wf Workflow) (Workflow, error) {
	body, err := c.do(ctx, http.MethodPost, c.prefix, wf)
	if err != nil {
		return nil, err
	}
	var created Workflow
	if err := json.Unmarshal(body, &created); err != nil {
		return nil, fmt.Errorf("parse create response: %w", err)
	}
	return created, nil
}

// Delete removes a workflow by identifier. Any 2xx status is success;
// everything else surfaces as an *APIError.
func (c *Client) Delete(ctx context.Context, id string) error {
	_, err := c.do(ctx, http.MethodDelete, c.prefix+"/"+id, nil)
	return err
}

// FindByName scans the collection for the first workflow whose name
// matches exactly (case-sensitive).
func (c *Client) FindByName(ctx context.Context, name string) (Workflow, error) {
	workflows, err := c.List(ctx)
	if err != nil {
		return nil, err
	}
	for _, wf := range workflows {
		if wf.Name() == name {
			if wf.ID() == "" {
				return nil, ErrMissingID
			}
			return wf, nil
		}
	}
	return nil, ErrNotFound
}

// Ping verifies the server is reachable and the credential works, with
// a shorter deadline than regular calls.
func (c *Client) Ping(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()
	_, err := c.do(ctx, http.MethodGet, c.prefix, nil)
	return err
}

// decodeCollection normalizes the two collection shapes the server
// produces: a bare array, or a wrapper object with a "data" or
// "workflows" field. All other shapes are an error.
func decodeCollection(data []byte) ([]Workflow, error) {
	var list []Workflow
	if err := json.Unmarshal(data, &list); err == nil {
		return list, nil
	}

	var wrapped struct {
		Data      []Workflow `json:"data"`
		Workflows []Workflow `json:"workflows"`
	}
	if err := json.Unmarshal(data, &wrapped); err != nil {
		return nil, fmt.Errorf("unexpected workflow collection format: %w", err)
	}
	if wrapped.Data != nil {
		return wrapped.Data, nil
	}
	if wrapped.Workflows != nil {
		return wrapped.Workflows, nil
	}
	return nil, errors.New("unexpected workflow collection format")
}

// do issues one request and classifies the response: 2xx returns the
// body, non-2xx returns *APIError, transport failures are wrapped.
// No retries.
func (c *Client) do(ctx context.Context, method, path string, body any) ([]byte, error) {
	var bodyReader io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		if err != nil {
			return nil, fmt.Errorf("marshal request: %w", err)
		}
		bodyReader = bytes.NewReader(b)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, bodyReader)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}

	req.Header.Set("Content-Type", "application/json")
	if c.apiKey != "" {
		req.Header.Set(keyHeader, c.apiKey)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read response: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, &APIError{StatusCode: resp.StatusCode, Body: string(respBody)}
	}

	return respBody, nil
}
