package task

import (
	"time"
)

type Task struct {
	ID          string    `json:"id" bson:"_id" db:"id"`
	Title       string    `json:"title" bson:"title" db:"title"`
	Description string    `json:"description" bson:"description" db:"description"`
	Status      Status    `json:"status" bson:"status" db:"status"`
	CreatedAt   time.Time `json:"createdAt" bson:"createdAt" db:"created_at"`
}

type Status string

const StatusToDo Status = "To Do"
const StatusInProgress Status = "In Progress"
const StatusDone Status = "Done"

// Statuses - все допустимые статусы в порядке отображения
var Statuses = []Status{StatusToDo, StatusInProgress, StatusDone}

func (s Status) Valid() bool {
	for _, st := range Statuses {
		if s == st {
			return true
		}
	}
	return false
}

// Draft - провалидированные данные для создания задачи
type Draft struct {
	Title       string
	Description string
	Status      Status
}

// Patch - провалидированное частичное обновление, nil означает "не менять"
type Patch struct {
	Title       *string
	Description *string
	Status      *Status
}

func (p Patch) Empty() bool {
	return p.Title == nil && p.Description == nil && p.Status == nil
}

// Apply применяет к задаче только заданные поля
func (p Patch) Apply(t *Task) {
	if p.Title != nil {
		t.Title = *p.Title
	}
	if p.Description != nil {
		t.Description = *p.Description
	}
	if p.Status != nil {
		t.Status = *p.Status
	}
}

func (t *Task) Clone() *Task {
	if t == nil {
		return nil
	}
	c := *t
	return &c
}

// CreatedNow возвращает текущее время в UTC, округлённое вверх до precision,
// чтобы хранилище с меньшей точностью не вернуло время раньше момента вызова
func CreatedNow(precision time.Duration) time.Time {
	now := time.Now().UTC()
	if precision <= 0 {
		return now
	}
	rounded := now.Truncate(precision)
	if rounded.Before(now) {
		rounded = rounded.Add(precision)
	}
	return rounded
}
