package api

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

// ErrUnauthorized is wrapped into the *Error returned for 401 responses.
var ErrUnauthorized = errors.New("unauthorized")

// Error is a non-2xx response from the server.
type Error struct {
	StatusCode int
	Message    string
}

func (e *Error) Error() string {
	if e.Message != "" {
		return fmt.Sprintf("server returned %d: %s", e.StatusCode, e.Message)
	}
	return fmt.Sprintf("server returned %d", e.StatusCode)
}

func (e *Error) Unwrap() error {
	if e.StatusCode == http.StatusUnauthorized {
		return ErrUnauthorized
	}
	return nil
}

// Client talks to the task-management server.
type Client struct {
	baseURL string
	http    *http.Client
	logger  *logrus.Logger
	token   string
}

// NewClient creates a client for the given base URL.
func NewClient(baseURL string, logger *logrus.Logger) *Client {
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    &http.Client{},
		logger:  logger,
	}
}

// SetToken attaches a bearer token to every subsequent request.
func (c *Client) SetToken(token string) {
	c.token = token
}

// Token returns the bearer token currently attached to requests.
func (c *Client) Token() string {
	return c.token
}

func (c *Client) do(ctx context.Context, method, path string, body, out any) error {
	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("encode %s %s: %w", method, path, err)
		}
		reader = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return fmt.Errorf("build %s %s: %w", method, path, err)
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}
	requestID := uuid.NewString()
	req.Header.Set("X-Request-Id", requestID)

	logEntry := c.logger.WithFields(logrus.Fields{
		"method":     method,
		"path":       path,
		"request_id": requestID,
	})
	logEntry.Debug("api request")

	resp, err := c.http.Do(req)
	if err != nil {
		logEntry.WithError(err).Error("api request failed")
		return fmt.Errorf("%s %s: %w", method, path, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		data, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		apiErr := &Error{StatusCode: resp.StatusCode, Message: serverMessage(data)}
		logEntry.WithField("status", resp.StatusCode).Warn("api error response")
		return apiErr
	}

	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		logEntry.WithError(err).Error("decode api response")
		return fmt.Errorf("decode %s %s: %w", method, path, err)
	}
	return nil
}

// serverMessage extracts a human-readable message from an error body.
// The server sends either a bare string or {"message": "..."}.
func serverMessage(data []byte) string {
	var wrapped struct {
		Message string `json:"message"`
		Error   string `json:"error"`
	}
	if err := json.Unmarshal(data, &wrapped); err == nil {
		if wrapped.Message != "" {
			return wrapped.Message
		}
		if wrapped.Error != "" {
			return wrapped.Error
		}
	}
	return strings.TrimSpace(string(data))
}

// Login authenticates and returns the token plus the wire user record.
func (c *Client) Login(ctx context.Context, username, password string) (*LoginResponse, error) {
	var out LoginResponse
	err := c.do(ctx, http.MethodPost, "/api/auth/login", LoginRequest{Username: username, Password: password}, &out)
	if err != nil {
		return nil, err
	}
	return &out, nil
}

// Tasks fetches all active (non-trashed) tasks.
func (c *Client) Tasks(ctx context.Context) ([]Task, error) {
	var out []Task
	if err := c.do(ctx, http.MethodGet, "/api/tasks", nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// Task fetches one task with full details.
func (c *Client) Task(ctx context.Context, id int64) (*Task, error) {
	var out Task
	if err := c.do(ctx, http.MethodGet, fmt.Sprintf("/api/tasks/%d", id), nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// CreateTask creates a task and returns the saved record.
func (c *Client) CreateTask(ctx context.Context, req CreateTaskRequest) (*Task, error) {
	var out Task
	if err := c.do(ctx, http.MethodPost, "/api/tasks", req, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// UpdateTask updates a task and returns the saved record.
func (c *Client) UpdateTask(ctx context.Context, id int64, req UpdateTaskRequest) (*Task, error) {
	var out Task
	if err := c.do(ctx, http.MethodPut, fmt.Sprintf("/api/tasks/%d", id), req, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// DeleteTask moves a task to the trash. With permanent set, the record is
// removed for good; the server only honors that for already-trashed tasks.
func (c *Client) DeleteTask(ctx context.Context, id int64, permanent bool) error {
	path := fmt.Sprintf("/api/tasks/%d", id)
	if permanent {
		path += "?permanent=true"
	}
	return c.do(ctx, http.MethodDelete, path, nil, nil)
}

// RestoreTask brings a task back from the trash.
func (c *Client) RestoreTask(ctx context.Context, id int64) (*Task, error) {
	var out Task
	if err := c.do(ctx, http.MethodPut, fmt.Sprintf("/api/tasks/%d/restore", id), nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// Trash fetches trashed tasks.
func (c *Client) Trash(ctx context.Context) ([]Task, error) {
	var out []Task
	if err := c.do(ctx, http.MethodGet, "/api/trash", nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// Users fetches all team members.
func (c *Client) Users(ctx context.Context) ([]User, error) {
	var out []User
	if err := c.do(ctx, http.MethodGet, "/api/users", nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// User fetches one team member.
func (c *Client) User(ctx context.Context, id int64) (*User, error) {
	var out User
	if err := c.do(ctx, http.MethodGet, fmt.Sprintf("/api/users/%d", id), nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// CreateUser adds a team member.
func (c *Client) CreateUser(ctx context.Context, req CreateUserRequest) (*User, error) {
	var out User
	if err := c.do(ctx, http.MethodPost, "/api/users", req, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// UpdateUser updates a team member.
func (c *Client) UpdateUser(ctx context.Context, id int64, req UpdateUserRequest) (*User, error) {
	var out User
	if err := c.do(ctx, http.MethodPut, fmt.Sprintf("/api/users/%d", id), req, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// TaskComments fetches the comments on one task.
func (c *Client) TaskComments(ctx context.Context, taskID int64) ([]Comment, error) {
	var out []Comment
	if err := c.do(ctx, http.MethodGet, fmt.Sprintf("/api/comments/task/%d", taskID), nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// CreateComment adds a comment and returns the saved record.
func (c *Client) CreateComment(ctx context.Context, req CreateCommentRequest) (*Comment, error) {
	var out Comment
	if err := c.do(ctx, http.MethodPost, "/api/comments", req, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// RecentActivities fetches the newest activity log entries.
func (c *Client) RecentActivities(ctx context.Context, limit int) ([]ActivityLog, error) {
	var out []ActivityLog
	path := fmt.Sprintf("/api/activities/recent?limit=%d", limit)
	if err := c.do(ctx, http.MethodGet, path, nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}
