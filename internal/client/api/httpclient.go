package api

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

	"github.com/fosys/fosys-client/internal/client/models"
	"github.com/fosys/fosys-client/internal/common"
)

const defaultTimeout = 15 * time.Second

// HTTPClient talks JSON over HTTP to the FOSYS backend. Successful responses
// arrive wrapped in an envelope: {"success": true, "data": ...} for domain
// rows and {"success": true, "user": ...} for auth calls. Failures carry
// {"detail": "..."}.
type HTTPClient struct {
	baseURL string
	http    *http.Client
}

// NewHTTPClient returns a client bound to the given base URL,
// e.g. "http://localhost:8000".
func NewHTTPClient(baseURL string) *HTTPClient {
	return &HTTPClient{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    &http.Client{Timeout: defaultTimeout},
	}
}

func (c *HTTPClient) Close() error { return nil }

// envelope is the backend's standard response wrapper.
type envelope struct {
	Success bool            `json:"success"`
	Data    json.RawMessage `json:"data"`
	User    json.RawMessage `json:"user"`
	Message string          `json:"message"`
}

// apiError is the FastAPI error body.
type apiError struct {
	Detail string `json:"detail"`
}

// do issues the request and decodes the envelope. Transport-level failures
// map to ErrUnavailable; HTTP-level failures map to sentinels where the
// status is unambiguous, otherwise to a wrapped error carrying the server's
// detail message.
func (c *HTTPClient) do(ctx context.Context, method, path string, body any) (*envelope, error) {
	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return nil, fmt.Errorf("encoding request: %w", err)
		}
		reader = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return nil, fmt.Errorf("building request: %w", err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.http.Do(req)
	if err != nil {
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		return nil, fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("reading response: %w", err)
	}

	if resp.StatusCode >= 400 {
		return nil, c.mapError(resp.StatusCode, raw)
	}

	var env envelope
	if err := json.Unmarshal(raw, &env); err != nil {
		return nil, fmt.Errorf("decoding response: %w", err)
	}
	return &env, nil
}

func (c *HTTPClient) mapError(status int, raw []byte) error {
	var ae apiError
	_ = json.Unmarshal(raw, &ae)

	switch status {
	case http.StatusUnauthorized:
		return ErrInvalidCredentials
	case http.StatusNotFound:
		return ErrUserNotFound
	case http.StatusBadRequest:
		if strings.Contains(ae.Detail, "already exists") {
			return ErrUserExists
		}
	}
	if status >= 500 {
		return fmt.Errorf("backend error (%d): %w", status, common.ErrorInternal)
	}
	if ae.Detail != "" {
		return fmt.Errorf("backend error (%d): %s", status, ae.Detail)
	}
	return fmt.Errorf("backend error (%d)", status)
}

// Login authenticates with email and password. The backend returns the
// local user record with the password column already stripped.
func (c *HTTPClient) Login(ctx context.Context, email, password string) (*models.User, error) {
	env, err := c.do(ctx, http.MethodPost, "/login", map[string]string{
		"email":    email,
		"password": password,
	})
	if err != nil {
		return nil, err
	}

	var user models.User
	if err := json.Unmarshal(env.User, &user); err != nil {
		return nil, fmt.Errorf("decoding user: %w", err)
	}
	return &user, nil
}

// Signup creates an account. The backend returns the created employee row;
// some revisions return it as a single-element array.
func (c *HTTPClient) Signup(ctx context.Context, sr SignupRequest) (*models.User, error) {
	env, err := c.do(ctx, http.MethodPost, "/signup", sr)
	if err != nil {
		return nil, err
	}

	raw := env.User
	if len(raw) == 0 {
		raw = env.Data
	}
	if len(raw) == 0 {
		return nil, nil
	}

	var user models.User
	if err := json.Unmarshal(raw, &user); err == nil {
		return &user, nil
	}
	var users []models.User
	if err := json.Unmarshal(raw, &users); err != nil || len(users) == 0 {
		return nil, fmt.Errorf("decoding signup response: unexpected shape")
	}
	return &users[0], nil
}

// ListTasks fetches the full, unfiltered task list. Ownership filtering is
// the caller's job.
func (c *HTTPClient) ListTasks(ctx context.Context) ([]models.Task, error) {
	env, err := c.do(ctx, http.MethodGet, "/tasks", nil)
	if err != nil {
		return nil, err
	}

	var tasks []models.Task
	if err := json.Unmarshal(env.Data, &tasks); err != nil {
		return nil, fmt.Errorf("decoding tasks: %w", err)
	}
	return tasks, nil
}

// CreateTask posts a new task. The backend echoes the inserted row as a
// single-element array.
func (c *HTTPClient) CreateTask(ctx context.Context, task models.NewTask) (*models.Task, error) {
	env, err := c.do(ctx, http.MethodPost, "/tasks", task)
	if err != nil {
		return nil, err
	}

	var rows []models.Task
	if err := json.Unmarshal(env.Data, &rows); err != nil {
		var single models.Task
		if err := json.Unmarshal(env.Data, &single); err != nil {
			return nil, fmt.Errorf("decoding created task: %w", err)
		}
		return &single, nil
	}
	if len(rows) == 0 {
		return nil, nil
	}
	return &rows[0], nil
}

// UpdateTaskStatus issues a partial update touching only the status column.
func (c *HTTPClient) UpdateTaskStatus(ctx context.Context, taskID string, status models.TaskStatus) error {
	path := "/tasks/" + url.PathEscape(taskID)
	_, err := c.do(ctx, http.MethodPut, path, map[string]string{"status": string(status)})
	return err
}

// MeetingSummaries fetches the recent meeting-summary feed.
func (c *HTTPClient) MeetingSummaries(ctx context.Context) ([]models.MeetingSummary, error) {
	env, err := c.do(ctx, http.MethodGet, "/meeting-summary", nil)
	if err != nil {
		return nil, err
	}

	var summaries []models.MeetingSummary
	if err := json.Unmarshal(env.Data, &summaries); err != nil {
		return nil, fmt.Errorf("decoding meeting summaries: %w", err)
	}
	return summaries, nil
}

// Transcripts fetches the stored transcripts, newest first, with their full
// text. The summary feed is the truncated view of the same rows.
func (c *HTTPClient) Transcripts(ctx context.Context) ([]models.Transcript, error) {
	env, err := c.do(ctx, http.MethodGet, "/meeting-transcript", nil)
	if err != nil {
		return nil, err
	}

	var rows []models.Transcript
	if err := json.Unmarshal(env.Data, &rows); err != nil {
		return nil, fmt.Errorf("decoding transcripts: %w", err)
	}
	return rows, nil
}

// UploadTranscript stores a meeting transcript with its extracted summary
// and action items.
func (c *HTTPClient) UploadTranscript(ctx context.Context, tr models.NewTranscript) error {
	_, err := c.do(ctx, http.MethodPost, "/meeting-transcript", tr)
	return err
}

// Ping probes backend liveness via the root endpoint.
func (c *HTTPClient) Ping(ctx context.Context) error {
	_, err := c.do(ctx, http.MethodGet, "/", nil)
	return err
}
