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
	"taskManager/internal/models/task"
	"time"
)

// APIError - ответ API со статусом вне 2xx
type APIError struct {
	StatusCode int
	Message    string
}

func (e *APIError) Error() string {
	return e.Message
}

// CreateRequest и UpdateRequest - тела запросов, nil поля не отправляются
type CreateRequest struct {
	Title       string       `json:"title"`
	Description *string      `json:"description,omitempty"`
	Status      *task.Status `json:"status,omitempty"`
}

type UpdateRequest struct {
	Title       *string      `json:"title,omitempty"`
	Description *string      `json:"description,omitempty"`
	Status      *task.Status `json:"status,omitempty"`
}

type Client struct {
	baseURL    string
	httpClient *http.Client
}

func New(baseURL string, timeout time.Duration) *Client {
	return &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{Timeout: timeout},
	}
}

func (c *Client) List(ctx context.Context) ([]*task.Task, error) {
	var tasks []*task.Task
	if err := c.do(ctx, http.MethodGet, "/tasks", nil, &tasks); err != nil {
		return nil, err
	}
	if tasks == nil {
		tasks = []*task.Task{}
	}
	return tasks, nil
}

func (c *Client) Create(ctx context.Context, req CreateRequest) (*task.Task, error) {
	var created task.Task
	if err := c.do(ctx, http.MethodPost, "/tasks", req, &created); err != nil {
		return nil, err
	}
	return &created, nil
}

func (c *Client) Get(ctx context.Context, id string) (*task.Task, error) {
	var t task.Task
	if err := c.do(ctx, http.MethodGet, taskPath(id), nil, &t); err != nil {
		return nil, err
	}
	return &t, nil
}

func (c *Client) Update(ctx context.Context, id string, req UpdateRequest) (*task.Task, error) {
	var updated task.Task
	if err := c.do(ctx, http.MethodPut, taskPath(id), req, &updated); err != nil {
		return nil, err
	}
	return &updated, nil
}

func (c *Client) Remove(ctx context.Context, id string) error {
	return c.do(ctx, http.MethodDelete, taskPath(id), nil, nil)
}

func taskPath(id string) string {
	return "/tasks/" + url.PathEscape(id)
}

func (c *Client) do(ctx context.Context, method, path string, body, out any) error {
	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("сериализация запроса: %w", err)
		}
		reader = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return fmt.Errorf("создание запроса: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("%s %s: %w", method, path, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return readAPIError(resp)
	}

	// 204 без тела
	if resp.StatusCode == http.StatusNoContent || out == nil {
		return nil
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("разбор ответа %s %s: %w", method, path, err)
	}
	return nil
}

// readAPIError: поле message из тела, иначе сырой текст, иначе строка статуса
func readAPIError(resp *http.Response) error {
	apiErr := &APIError{
		StatusCode: resp.StatusCode,
		Message:    fmt.Sprintf("%d %s", resp.StatusCode, http.StatusText(resp.StatusCode)),
	}

	raw, err := io.ReadAll(io.LimitReader(resp.Body, 64<<10))
	if err != nil && !errors.Is(err, io.EOF) {
		return apiErr
	}

	var body struct {
		Message string `json:"message"`
	}
	if json.Unmarshal(raw, &body) == nil && body.Message != "" {
		apiErr.Message = body.Message
		return apiErr
	}

	if text := strings.TrimSpace(string(raw)); text != "" {
		apiErr.Message = text
	}
	return apiErr
}
