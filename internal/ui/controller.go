package ui

import (
	"context"
	"errors"
	"strings"
	"sync"
	"taskManager/internal/client"
	"taskManager/internal/logger"
	"taskManager/internal/models/task"

	"go.uber.org/zap"
)

var ErrTitleRequired = errors.New("title is required")

const titleRequiredMessage = "Title is required."

// TaskClient - то, что контроллеру нужно от API
type TaskClient interface {
	List(ctx context.Context) ([]*task.Task, error)
	Create(ctx context.Context, req client.CreateRequest) (*task.Task, error)
	Update(ctx context.Context, id string, req client.UpdateRequest) (*task.Task, error)
	Remove(ctx context.Context, id string) error
}

// Controller хранит состояние одной UI-сессии. Мьютекс не держится во время запросов к API
type Controller struct {
	client TaskClient
	mtx    sync.Mutex
	state  State
	loaded bool
}

func NewController(c TaskClient) *Controller {
	return &Controller{
		client: c,
		state:  NewState(),
	}
}

func (c *Controller) State() State {
	c.mtx.Lock()
	defer c.mtx.Unlock()
	return c.state
}

func (c *Controller) apply(transition func(State) State) State {
	c.mtx.Lock()
	defer c.mtx.Unlock()
	c.state = transition(c.state)
	return c.state
}

// EnsureLoaded выполняет первую загрузку, если её ещё не было
func (c *Controller) EnsureLoaded(ctx context.Context) error {
	c.mtx.Lock()
	loaded := c.loaded
	c.mtx.Unlock()

	if loaded {
		return nil
	}
	return c.Load(ctx, false)
}

func (c *Controller) Load(ctx context.Context, silent bool) error {
	c.apply(func(s State) State { return s.FetchStart(silent) })

	tasks, err := c.client.List(ctx)

	c.mtx.Lock()
	defer c.mtx.Unlock()
	c.loaded = true
	if err != nil {
		logger.Warn("UI: не удалось загрузить задачи", zap.Error(err))
		c.state = c.state.FetchError(errorMessage(err, "Failed to load tasks"), silent)
		return err
	}
	c.state = c.state.FetchSuccess(tasks, silent)
	return nil
}

func (c *Controller) Refresh(ctx context.Context) error {
	return c.Load(ctx, true)
}

// Create отправляет задачу и тихо перечитывает список, чтобы получить id и createdAt
func (c *Controller) Create(ctx context.Context, title, description string, status task.Status) error {
	title = strings.TrimSpace(title)
	if title == "" {
		c.apply(func(s State) State { return s.CreateFailed(titleRequiredMessage) })
		return ErrTitleRequired
	}

	req := client.CreateRequest{Title: title}
	if d := strings.TrimSpace(description); d != "" {
		req.Description = &d
	}
	if status != "" {
		req.Status = &status
	}

	if _, err := c.client.Create(ctx, req); err != nil {
		logger.Warn("UI: не удалось создать задачу", zap.Error(err))
		c.apply(func(s State) State { return s.CreateFailed(errorMessage(err, "Failed to create task")) })
		return err
	}

	c.apply(func(s State) State { return s.CreateSucceeded() })
	return c.Load(ctx, true)
}

func (c *Controller) UpdateStatus(ctx context.Context, id string, status task.Status) error {
	return c.update(ctx, id, task.Patch{Status: &status}, client.UpdateRequest{Status: &status})
}

// SaveEdit сохраняет название и описание; при ошибке режим редактирования остаётся
func (c *Controller) SaveEdit(ctx context.Context, id, title, description string) error {
	title = strings.TrimSpace(title)
	if err := c.update(ctx, id,
		task.Patch{Title: &title, Description: &description},
		client.UpdateRequest{Title: &title, Description: &description},
	); err != nil {
		return err
	}
	c.apply(func(s State) State { return s.CancelEdit(id) })
	return nil
}

func (c *Controller) update(ctx context.Context, id string, patch task.Patch, req client.UpdateRequest) error {
	var before []*task.Task
	c.apply(func(s State) State {
		before = s.Tasks
		return s.OptimisticPatch(id, patch)
	})

	if _, err := c.client.Update(ctx, id, req); err != nil {
		logger.Warn("UI: не удалось обновить задачу", zap.String("id", id), zap.Error(err))
		c.apply(func(s State) State { return s.Rollback(before, errorMessage(err, "Failed to update task")) })
		return err
	}
	return nil
}

// Delete без подтверждения ничего не делает
func (c *Controller) Delete(ctx context.Context, id string, confirmed bool) error {
	if !confirmed {
		return nil
	}

	var before []*task.Task
	c.apply(func(s State) State {
		before = s.Tasks
		return s.OptimisticRemove(id)
	})

	if err := c.client.Remove(ctx, id); err != nil {
		logger.Warn("UI: не удалось удалить задачу", zap.String("id", id), zap.Error(err))
		c.apply(func(s State) State { return s.Rollback(before, errorMessage(err, "Failed to delete task")) })
		return err
	}
	return nil
}

func (c *Controller) SetFilter(filter string) {
	c.apply(func(s State) State { return s.SetFilter(filter) })
}

func (c *Controller) StartEdit(id string) {
	c.apply(func(s State) State { return s.StartEdit(id) })
}

func (c *Controller) CancelEdit(id string) {
	c.apply(func(s State) State { return s.CancelEdit(id) })
}

func errorMessage(err error, fallback string) string {
	var apiErr *client.APIError
	if errors.As(err, &apiErr) && apiErr.Message != "" {
		return apiErr.Message
	}
	if err != nil && err.Error() != "" {
		return err.Error()
	}
	return fallback
}
