package task_test

import (
	"taskManager/internal/models/task"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestStatus_Valid(t *testing.T) {
	for _, s := range task.Statuses {
		assert.True(t, s.Valid(), s)
	}
	assert.False(t, task.Status("Archived").Valid())
	assert.False(t, task.Status("").Valid())
	assert.False(t, task.Status("done").Valid())
}

func TestPatch_Apply(t *testing.T) {
	created := time.Now().UTC()
	tsk := &task.Task{ID: "1", Title: "old", Description: "desc", Status: task.StatusToDo, CreatedAt: created}

	desc := "x"
	task.Patch{Description: &desc}.Apply(tsk)

	assert.Equal(t, "old", tsk.Title)
	assert.Equal(t, "x", tsk.Description)
	assert.Equal(t, task.StatusToDo, tsk.Status)
	assert.Equal(t, created, tsk.CreatedAt)

	status := task.StatusDone
	task.Patch{Status: &status}.Apply(tsk)
	assert.Equal(t, task.StatusDone, tsk.Status)
	assert.Equal(t, "x", tsk.Description)
}

func TestPatch_Empty(t *testing.T) {
	assert.True(t, task.Patch{}.Empty())
	title := "t"
	assert.False(t, task.Patch{Title: &title}.Empty())
}

func TestCreatedNow_NeverBeforeCall(t *testing.T) {
	for _, precision := range []time.Duration{0, time.Microsecond, time.Millisecond} {
		start := time.Now()
		got := task.CreatedNow(precision)
		assert.False(t, got.Before(start), "precision %s", precision)
		if precision > 0 {
			assert.Equal(t, got, got.Truncate(precision))
		}
	}
}

func TestClone_Independent(t *testing.T) {
	orig := &task.Task{ID: "1", Title: "a"}
	c := orig.Clone()
	c.Title = "b"
	assert.Equal(t, "a", orig.Title)

	var nilTask *task.Task
	assert.Nil(t, nilTask.Clone())
}
