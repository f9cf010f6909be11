// Package api is the client for the Lakshya backend REST API.
package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"lakshya/internal/domain/milestone"
	"lakshya/internal/domain/transaction"
	"lakshya/internal/domain/user"
)

const (
	defaultTimeout   = 30 * time.Second
	transactionsPath = "/api/transactions"
	milestonesPath   = "/api/milestone"
	mePath           = "/api/auth/me"
	registerPath     = "/api/auth/register"
)

// Resource names used in errors and as cache keys by the callers.
const (
	ResourceTransactions = "transactions"
	ResourceMilestones   = "milestones"
	ResourceUserData     = "userData"
	ResourceRegistration = "registration"
)

// Client handles communication with the backend API. The bearer token is a
// per-call argument: it is attached even when empty, and the server decides
// whether to reject (no client-side short-circuit).
type Client struct {
	httpClient *http.Client
	baseURL    string
}

// NewClient creates an API client for the given base URL.
func NewClient(baseURL string) *Client {
	return &Client{
		httpClient: &http.Client{
			Timeout: defaultTimeout,
		},
		baseURL: baseURL,
	}
}

// ListTransactions fetches all transactions for the authenticated account.
func (c *Client) ListTransactions(ctx context.Context, token string) ([]transaction.Transaction, error) {
	var out []transaction.Transaction
	if err := c.doJSON(ctx, http.MethodGet, transactionsPath, token, nil, &out, ResourceTransactions); err != nil {
		return nil, err
	}
	return out, nil
}

// CreateTransaction submits a new transaction and returns the created record.
func (c *Client) CreateTransaction(ctx context.Context, token string, params transaction.CreateParams) (*transaction.Transaction, error) {
	var out transaction.Transaction
	if err := c.doJSON(ctx, http.MethodPost, transactionsPath, token, params, &out, ResourceTransactions); err != nil {
		return nil, err
	}
	return &out, nil
}

// DeleteTransaction deletes a transaction by id. The server may answer with
// an empty body; the confirmation message is "" then.
func (c *Client) DeleteTransaction(ctx context.Context, token, id string) (*transaction.DeleteResult, error) {
	path := transactionsPath + "/" + url.PathEscape(id)
	out := &transaction.DeleteResult{}
	if err := c.doJSON(ctx, http.MethodDelete, path, token, nil, out, ResourceTransactions); err != nil {
		return nil, err
	}
	return out, nil
}

// ListMilestones fetches all savings milestones.
func (c *Client) ListMilestones(ctx context.Context, token string) ([]milestone.Milestone, error) {
	var out []milestone.Milestone
	if err := c.doJSON(ctx, http.MethodGet, milestonesPath, token, nil, &out, ResourceMilestones); err != nil {
		return nil, err
	}
	return out, nil
}

// CreateMilestone submits a new milestone and returns the created record.
func (c *Client) CreateMilestone(ctx context.Context, token string, params milestone.CreateParams) (*milestone.Milestone, error) {
	var out milestone.Milestone
	if err := c.doJSON(ctx, http.MethodPost, milestonesPath, token, params, &out, ResourceMilestones); err != nil {
		return nil, err
	}
	return &out, nil
}

// Me fetches the profile of the authenticated account.
func (c *Client) Me(ctx context.Context, token string) (*user.User, error) {
	var out user.User
	if err := c.doJSON(ctx, http.MethodGet, mePath, token, nil, &out, ResourceUserData); err != nil {
		return nil, err
	}
	return &out, nil
}

// registerResponse is the wire shape of the register endpoint. The token
// arrives in the "jwt" field.
type registerResponse struct {
	JWT     string `json:"jwt"`
	Message string `json:"message"`
}

// Register creates (or logs into) an account. No auth header is sent. On
// failure the server-provided message is preferred over the generic one.
func (c *Client) Register(ctx context.Context, params user.RegisterParams) (*user.RegisterResult, error) {
	body, err := json.Marshal(params)
	if err != nil {
		return nil, &RequestError{Resource: ResourceRegistration, Err: err}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+registerPath, bytes.NewReader(body))
	if err != nil {
		return nil, &RequestError{Resource: ResourceRegistration, Err: err}
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, &RequestError{Resource: ResourceRegistration, Err: err}
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, &RequestError{Resource: ResourceRegistration, StatusCode: resp.StatusCode, Err: err}
	}

	var decoded registerResponse
	// The error body may not be JSON at all; a failed decode just means no
	// server message is available.
	_ = json.Unmarshal(respBody, &decoded)

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, &RequestError{
			Resource:   ResourceRegistration,
			StatusCode: resp.StatusCode,
			Message:    decoded.Message,
		}
	}

	return &user.RegisterResult{
		Success: true,
		Token:   decoded.JWT,
		Message: "Registration successful!",
	}, nil
}

// doJSON issues one request with a bearer token and decodes the JSON
// response into out. All failure modes, transport, non-2xx status and
// decode, surface as *RequestError for the given resource.
func (c *Client) doJSON(ctx context.Context, method, path, token string, payload, out any, resource string) error {
	var body io.Reader
	if payload != nil {
		encoded, err := json.Marshal(payload)
		if err != nil {
			return &RequestError{Resource: resource, Err: err}
		}
		body = bytes.NewReader(encoded)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return &RequestError{Resource: resource, Err: err}
	}

	req.Header.Set("Authorization", fmt.Sprintf("Bearer %s", token))
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return &RequestError{Resource: resource, Err: err}
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return &RequestError{Resource: resource, StatusCode: resp.StatusCode, Err: err}
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return &RequestError{Resource: resource, StatusCode: resp.StatusCode, Message: serverMessage(respBody)}
	}

	if out != nil && len(respBody) > 0 {
		if err := json.Unmarshal(respBody, out); err != nil {
			return &RequestError{Resource: resource, StatusCode: resp.StatusCode, Err: err}
		}
	}

	return nil
}

// serverMessage pulls the "message" field out of an error body, if there is
// one to pull.
func serverMessage(body []byte) string {
	var envelope struct {
		Message string `json:"message"`
	}
	if err := json.Unmarshal(body, &envelope); err != nil {
		return ""
	}
	return envelope.Message
}
