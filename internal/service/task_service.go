package service

import (
	"context"
	"fmt"
	"taskManager/internal/logger"
	"taskManager/internal/models/task"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"
)

// здесь происходит проверка входных данных и ошибок бизнес-логики

type TaskService struct {
	repo     TaskRepository
	validate *validator.Validate
}

func NewTaskService(repo TaskRepository) *TaskService {
	return &TaskService{
		repo:     repo,
		validate: newValidator(),
	}
}

func (s *TaskService) HealthCheck(ctx context.Context) error {
	if err := s.repo.HealthCheck(ctx); err != nil {
		return fmt.Errorf("проверка хранилища: %w", err)
	}
	return nil
}

func (s *TaskService) CreateTask(ctx context.Context, input CreateTaskInput) (*task.Task, error) {
	draft, err := s.validateCreate(input)
	if err != nil {
		return nil, err
	}

	created, err := s.repo.Create(ctx, draft)
	if err != nil {
		return nil, NewInternal(fmt.Errorf("создание задачи: %w", err))
	}

	logger.Info("Service: Задача создана", zap.String("task_id", created.ID))
	return created, nil
}

func (s *TaskService) ListTasks(ctx context.Context) ([]*task.Task, error) {
	tasks, err := s.repo.List(ctx)
	if err != nil {
		return nil, NewInternal(fmt.Errorf("получение задач: %w", err))
	}
	if tasks == nil {
		tasks = []*task.Task{}
	}
	return tasks, nil
}

func (s *TaskService) GetTask(ctx context.Context, id string) (*task.Task, error) {
	if err := s.ValidateID(id); err != nil {
		return nil, err
	}

	found, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, NewInternal(fmt.Errorf("получение задачи: %w", err))
	}
	if found == nil {
		logger.Info("Service: Задача не найдена", zap.String("target_id", id))
		return nil, NewNotFound()
	}
	return found, nil
}

func (s *TaskService) UpdateTask(ctx context.Context, id string, input UpdateTaskInput) (*task.Task, error) {
	if err := s.ValidateID(id); err != nil {
		return nil, err
	}

	patch, err := s.validateUpdate(input)
	if err != nil {
		return nil, err
	}

	updated, err := s.repo.Update(ctx, id, patch)
	if err != nil {
		return nil, NewInternal(fmt.Errorf("обновление задачи: %w", err))
	}
	if updated == nil {
		logger.Info("Service: Задача не найдена", zap.String("target_id", id))
		return nil, NewNotFound()
	}
	return updated, nil
}

func (s *TaskService) DeleteTask(ctx context.Context, id string) error {
	if err := s.ValidateID(id); err != nil {
		return err
	}

	deleted, err := s.repo.Delete(ctx, id)
	if err != nil {
		return NewInternal(fmt.Errorf("удаление задачи: %w", err))
	}
	if !deleted {
		logger.Info("Service: Задача не найдена", zap.String("target_id", id))
		return NewNotFound()
	}

	logger.Info("Service: Задача удалена", zap.String("task_id", id))
	return nil
}
