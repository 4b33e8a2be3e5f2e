package ui

import (
	"context"
	"errors"
	"net/http"
	"taskManager/internal/client"
	"taskManager/internal/models/task"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type MockTaskClient struct {
	mock.Mock
}

func (m *MockTaskClient) List(ctx context.Context) ([]*task.Task, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*task.Task), args.Error(1)
}

func (m *MockTaskClient) Create(ctx context.Context, req client.CreateRequest) (*task.Task, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*task.Task), args.Error(1)
}

func (m *MockTaskClient) Update(ctx context.Context, id string, req client.UpdateRequest) (*task.Task, error) {
	args := m.Called(ctx, id, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*task.Task), args.Error(1)
}

func (m *MockTaskClient) Remove(ctx context.Context, id string) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

var _ TaskClient = (*MockTaskClient)(nil)

func loadedController(t *testing.T) (*Controller, *MockTaskClient) {
	t.Helper()
	m := new(MockTaskClient)
	m.On("List", mock.Anything).Return(sampleTasks(), nil).Once()

	c := NewController(m)
	require.NoError(t, c.EnsureLoaded(context.Background()))
	return c, m
}

func TestEnsureLoadedOnlyOnce(t *testing.T) {
	c, m := loadedController(t)

	require.NoError(t, c.EnsureLoaded(context.Background()))
	m.AssertNumberOfCalls(t, "List", 1)
	assert.Len(t, c.State().Tasks, 3)
	assert.False(t, c.State().Loading)
}

func TestLoadErrorKeepsList(t *testing.T) {
	c, m := loadedController(t)
	m.On("List", mock.Anything).Return(nil, &client.APIError{StatusCode: 500, Message: "Server error"}).Once()

	require.Error(t, c.Refresh(context.Background()))

	st := c.State()
	assert.Equal(t, "Server error", st.Err)
	assert.Len(t, st.Tasks, 3)
	assert.False(t, st.Refreshing)
}

func TestCreate(t *testing.T) {
	t.Run("blank title is rejected locally", func(t *testing.T) {
		c, m := loadedController(t)

		err := c.Create(context.Background(), "   ", "", task.StatusToDo)
		assert.ErrorIs(t, err, ErrTitleRequired)
		assert.Equal(t, "Title is required.", c.State().FormErr)
		m.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
	})

	t.Run("success refreshes silently", func(t *testing.T) {
		c, m := loadedController(t)
		status := task.StatusDone
		m.On("Create", mock.Anything, client.CreateRequest{Title: "New", Status: &status}).
			Return(&task.Task{ID: "n", Title: "New", Status: status}, nil).Once()
		m.On("List", mock.Anything).Return(append(sampleTasks(), &task.Task{ID: "n", Title: "New", Status: status}), nil).Once()

		require.NoError(t, c.Create(context.Background(), " New ", "", status))

		st := c.State()
		assert.Len(t, st.Tasks, 4)
		assert.Empty(t, st.FormErr)
		m.AssertExpectations(t)
	})

	t.Run("server error shows in form", func(t *testing.T) {
		c, m := loadedController(t)
		m.On("Create", mock.Anything, mock.Anything).
			Return(nil, &client.APIError{StatusCode: http.StatusBadRequest, Message: "status must be one of: To Do, In Progress, Done"}).Once()

		require.Error(t, c.Create(context.Background(), "New", "", "Archived"))
		assert.Equal(t, "status must be one of: To Do, In Progress, Done", c.State().FormErr)
		assert.Len(t, c.State().Tasks, 3)
	})
}

func TestUpdateStatus(t *testing.T) {
	t.Run("optimistic change stays on success", func(t *testing.T) {
		c, m := loadedController(t)
		done := task.StatusDone
		m.On("Update", mock.Anything, "a", client.UpdateRequest{Status: &done}).
			Return(&task.Task{ID: "a", Status: done}, nil).Once()

		require.NoError(t, c.UpdateStatus(context.Background(), "a", done))
		assert.Equal(t, task.StatusDone, c.State().Find("a").Status)
		m.AssertNumberOfCalls(t, "List", 1)
	})

	t.Run("rollback on failure", func(t *testing.T) {
		c, m := loadedController(t)
		m.On("Update", mock.Anything, "a", mock.Anything).
			Return(nil, &client.APIError{StatusCode: http.StatusNotFound, Message: "Task not found"}).Once()

		require.Error(t, c.UpdateStatus(context.Background(), "a", task.StatusDone))

		st := c.State()
		assert.Equal(t, task.StatusToDo, st.Find("a").Status)
		assert.Equal(t, "Task not found", st.Notice)
	})
}

func TestSaveEdit(t *testing.T) {
	t.Run("success leaves edit mode", func(t *testing.T) {
		c, m := loadedController(t)
		c.StartEdit("b")
		m.On("Update", mock.Anything, "b", mock.Anything).Return(&task.Task{ID: "b"}, nil).Once()

		require.NoError(t, c.SaveEdit(context.Background(), "b", "B2", "desc"))

		st := c.State()
		assert.False(t, st.IsEditing("b"))
		assert.Equal(t, "B2", st.Find("b").Title)
		assert.Equal(t, "desc", st.Find("b").Description)
	})

	t.Run("title is trimmed like on the server", func(t *testing.T) {
		c, m := loadedController(t)
		title, description := "B2", "  padded  "
		m.On("Update", mock.Anything, "b", client.UpdateRequest{Title: &title, Description: &description}).
			Return(&task.Task{ID: "b", Title: "B2"}, nil).Once()

		require.NoError(t, c.SaveEdit(context.Background(), "b", "  B2  ", "  padded  "))
		assert.Equal(t, "B2", c.State().Find("b").Title)
		m.AssertExpectations(t)
	})

	t.Run("failure keeps edit mode", func(t *testing.T) {
		c, m := loadedController(t)
		c.StartEdit("b")
		m.On("Update", mock.Anything, "b", mock.Anything).
			Return(nil, &client.APIError{StatusCode: http.StatusBadRequest, Message: "title must not be empty"}).Once()

		require.Error(t, c.SaveEdit(context.Background(), "b", "", ""))

		st := c.State()
		assert.True(t, st.IsEditing("b"))
		assert.Equal(t, "B", st.Find("b").Title)
		assert.Equal(t, "title must not be empty", st.Notice)
	})
}

func TestDelete(t *testing.T) {
	t.Run("requires confirmation", func(t *testing.T) {
		c, m := loadedController(t)

		require.NoError(t, c.Delete(context.Background(), "a", false))
		assert.Len(t, c.State().Tasks, 3)
		m.AssertNotCalled(t, "Remove", mock.Anything, mock.Anything)
	})

	t.Run("confirmed removes", func(t *testing.T) {
		c, m := loadedController(t)
		m.On("Remove", mock.Anything, "a").Return(nil).Once()

		require.NoError(t, c.Delete(context.Background(), "a", true))
		assert.Nil(t, c.State().Find("a"))
		assert.Len(t, c.State().Tasks, 2)
	})

	t.Run("rollback on failure", func(t *testing.T) {
		c, m := loadedController(t)
		m.On("Remove", mock.Anything, "a").Return(errors.New("connection refused")).Once()

		require.Error(t, c.Delete(context.Background(), "a", true))
		assert.NotNil(t, c.State().Find("a"))
		assert.Equal(t, "connection refused", c.State().Notice)
	})
}

func TestFilterDoesNotCallAPI(t *testing.T) {
	c, m := loadedController(t)

	c.SetFilter("Done")
	visible := c.State().Visible()
	require.Len(t, visible, 1)
	assert.Equal(t, "b", visible[0].ID)
	m.AssertNumberOfCalls(t, "List", 1)
}
