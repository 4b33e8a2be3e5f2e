package inmemory

import (
	"context"
	"sort"
	"sync"
	"taskManager/internal/logger"
	"taskManager/internal/models/task"

	"github.com/google/uuid"
)

type TaskStorage struct {
	storage map[string]*task.Task
	mtx     *sync.RWMutex
	// порядок вставки, нужен для стабильной сортировки при равном created_at
	ids []string
}

func NewTaskStorage() *TaskStorage {
	return &TaskStorage{
		storage: make(map[string]*task.Task),
		mtx:     &sync.RWMutex{},
		ids:     []string{},
	}
}

func (s *TaskStorage) HealthCheck(ctx context.Context) error {
	logger.Info("Repository: Соединение стабильно")
	return nil
}

func (s *TaskStorage) Close(ctx context.Context) error {
	logger.Info("Repository: Закрытие хранилища в памяти")
	return nil
}

func (s *TaskStorage) ValidID(id string) bool {
	parsed, err := uuid.Parse(id)
	if err != nil {
		return false
	}
	return parsed != uuid.Nil && parsed.String() == id
}

func (s *TaskStorage) Create(ctx context.Context, draft task.Draft) (*task.Task, error) {
	s.mtx.Lock()
	defer s.mtx.Unlock()

	created := &task.Task{
		ID:          uuid.New().String(),
		Title:       draft.Title,
		Description: draft.Description,
		Status:      draft.Status,
		CreatedAt:   task.CreatedNow(0),
	}

	s.storage[created.ID] = created
	s.ids = append(s.ids, created.ID)
	return created.Clone(), nil
}

// все задачи, новые первыми
func (s *TaskStorage) List(ctx context.Context) ([]*task.Task, error) {
	s.mtx.RLock()
	defer s.mtx.RUnlock()

	res := make([]*task.Task, 0, len(s.ids))
	for i := len(s.ids) - 1; i >= 0; i-- {
		res = append(res, s.storage[s.ids[i]].Clone())
	}

	sort.SliceStable(res, func(i, j int) bool {
		return res[i].CreatedAt.After(res[j].CreatedAt)
	})
	return res, nil
}

func (s *TaskStorage) GetByID(ctx context.Context, id string) (*task.Task, error) {
	s.mtx.RLock()
	defer s.mtx.RUnlock()

	taskToGet, ok := s.storage[id]
	if !ok {
		return nil, nil
	}
	return taskToGet.Clone(), nil
}

func (s *TaskStorage) Update(ctx context.Context, id string, patch task.Patch) (*task.Task, error) {
	s.mtx.Lock()
	defer s.mtx.Unlock()

	taskToUpdate, ok := s.storage[id]
	if !ok {
		return nil, nil
	}

	patch.Apply(taskToUpdate)
	return taskToUpdate.Clone(), nil
}

// полное удаление
func (s *TaskStorage) Delete(ctx context.Context, id string) (bool, error) {
	s.mtx.Lock()
	defer s.mtx.Unlock()

	if _, ok := s.storage[id]; !ok {
		return false, nil
	}

	delete(s.storage, id)
	for ind, val := range s.ids {
		if val == id {
			s.ids = append(s.ids[:ind], s.ids[ind+1:]...)
			break
		}
	}
	return true, nil
}
