package handlers

import (
	"context"
	"taskManager/internal/models/task"
	"taskManager/internal/service"
)

type Service interface {
	HealthCheck(context.Context) error
	ValidateID(string) error
	CreateTask(context.Context, service.CreateTaskInput) (*task.Task, error)
	ListTasks(context.Context) ([]*task.Task, error)
	GetTask(context.Context, string) (*task.Task, error)
	UpdateTask(context.Context, string, service.UpdateTaskInput) (*task.Task, error)
	DeleteTask(context.Context, string) error
}
