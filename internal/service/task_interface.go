package service

import (
	"context"
	"taskManager/internal/models/task"
)

// TaskRepository - хранилище задач. Отсутствие записи возвращается
// пустым результатом (nil или false), а не ошибкой.
type TaskRepository interface {
	HealthCheck(context.Context) error
	Close(context.Context) error
	ValidID(string) bool
	Create(context.Context, task.Draft) (*task.Task, error)
	List(context.Context) ([]*task.Task, error)
	GetByID(context.Context, string) (*task.Task, error)
	Update(context.Context, string, task.Patch) (*task.Task, error)
	Delete(context.Context, string) (bool, error)
}
