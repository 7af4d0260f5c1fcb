package client

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"parley/internal/config"
)

// Client talks to the agent backend. Every method is a plain request/response
// wrapper; all session-consistency logic lives in internal/chat.
type Client struct {
	baseURL string
	token   string
	http    *http.Client
}

func New(cfg config.Config) (*Client, error) {
	token, err := cfg.ResolveToken()
	if err != nil {
		return nil, err
	}
	return NewWithBaseURL(cfg.BaseURL(), token), nil
}

func NewWithBaseURL(baseURL, token string) *Client {
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		token:   token,
		http: &http.Client{
			Timeout: 10 * time.Second,
		},
	}
}

// SessionMessages fetches the authoritative snapshot for a session. A backend
// not-found is returned as ErrNotFound so callers can treat it as an empty
// snapshot rather than an error.
func (c *Client) SessionMessages(ctx context.Context, sessionID string) ([]WireMessage, error) {
	sessionID = strings.TrimSpace(sessionID)
	if sessionID == "" {
		return nil, errors.New("session id is required")
	}
	var resp messagesResponse
	path := "/v1/sessions/" + url.PathEscape(sessionID) + "/messages"
	if err := c.doJSON(ctx, http.MethodGet, path, nil, &resp); err != nil {
		if IsNotFound(err) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return resp.Messages, nil
}

// SendMessage submits a user prompt. The session id is omitted for the first
// message of a conversation; the response carries the authoritative id.
func (c *Client) SendMessage(ctx context.Context, req SendMessageRequest) (*SendMessageResponse, error) {
	if strings.TrimSpace(req.Prompt) == "" {
		return nil, errors.New("prompt is required")
	}
	var resp SendMessageResponse
	if err := c.doJSON(ctx, http.MethodPost, "/v1/messages", req, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// ContinueMessage asks the backend to chain a follow-up turn off the given
// assistant message.
func (c *Client) ContinueMessage(ctx context.Context, messageID string) (*ContinueMessageResponse, error) {
	messageID = strings.TrimSpace(messageID)
	if messageID == "" {
		return nil, errors.New("message id is required")
	}
	var resp ContinueMessageResponse
	path := "/v1/messages/" + url.PathEscape(messageID) + "/continue"
	if err := c.doJSON(ctx, http.MethodPost, path, nil, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// SessionList returns the conversation threads for a sub-project.
func (c *Client) SessionList(ctx context.Context, subProjectID string) ([]WireSessionSummary, error) {
	subProjectID = strings.TrimSpace(subProjectID)
	if subProjectID == "" {
		return nil, errors.New("sub-project id is required")
	}
	var resp sessionListResponse
	path := "/v1/sub-projects/" + url.PathEscape(subProjectID) + "/sessions"
	if err := c.doJSON(ctx, http.MethodGet, path, nil, &resp); err != nil {
		if IsNotFound(err) {
			return nil, nil
		}
		return nil, err
	}
	return resp.Sessions, nil
}

// MessageHooks returns tool/process log entries for a message. Display only.
func (c *Client) MessageHooks(ctx context.Context, messageID string) ([]WireHook, error) {
	messageID = strings.TrimSpace(messageID)
	if messageID == "" {
		return nil, errors.New("message id is required")
	}
	var resp hooksResponse
	path := "/v1/messages/" + url.PathEscape(messageID) + "/hooks"
	if err := c.doJSON(ctx, http.MethodGet, path, nil, &resp); err != nil {
		if IsNotFound(err) {
			return nil, nil
		}
		return nil, err
	}
	return resp.Hooks, nil
}

func (c *Client) doJSON(ctx context.Context, method, path string, body any, out any) error {
	var reader io.Reader
	if body != nil {
		buf, err := json.Marshal(body)
		if err != nil {
			return err
		}
		reader = bytes.NewReader(buf)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return err
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return decodeAPIError(resp)
	}
	if out == nil {
		return nil
	}
	return json.NewDecoder(resp.Body).Decode(out)
}

func decodeAPIError(resp *http.Response) error {
	type errorPayload struct {
		Error  string `json:"error"`
		Detail string `json:"detail,omitempty"`
	}
	var payload errorPayload
	_ = json.NewDecoder(resp.Body).Decode(&payload)
	message := payload.Error
	if message == "" {
		message = resp.Status
	}
	return &APIError{StatusCode: resp.StatusCode, Message: message, Detail: payload.Detail}
}

// ErrNotFound marks a read against a record that has not materialized yet.
var ErrNotFound = errors.New("not found")

type APIError struct {
	StatusCode int
	Message    string
	// Detail carries actionable context for user-facing failures, e.g. the
	// remaining quota on an insufficient-credit send rejection.
	Detail string
}

func (e *APIError) Error() string {
	if e == nil {
		return ""
	}
	if e.Detail != "" {
		return fmt.Sprintf("api error (%d): %s: %s", e.StatusCode, e.Message, e.Detail)
	}
	return fmt.Sprintf("api error (%d): %s", e.StatusCode, e.Message)
}

func AsAPIError(err error) *APIError {
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr
	}
	return nil
}

func IsNotFound(err error) bool {
	if errors.Is(err, ErrNotFound) {
		return true
	}
	apiErr := AsAPIError(err)
	return apiErr != nil && apiErr.StatusCode == http.StatusNotFound
}

// IsInsufficientResource reports a quota/credit rejection on a write.
func IsInsufficientResource(err error) bool {
	apiErr := AsAPIError(err)
	return apiErr != nil && apiErr.StatusCode == http.StatusPaymentRequired
}
