package ui

import (
	"taskManager/internal/models/task"
)

// FilterAll - фильтр без ограничения по статусу
const FilterAll = "All"

// State - снимок состояния UI. Переходы не меняют исходное значение,
// а возвращают новое
type State struct {
	Tasks      []*task.Task
	Loading    bool // только первая загрузка
	Refreshing bool // тихая перезагрузка, список остаётся на экране
	Err        string
	Filter     string
	Editing    map[string]bool
	FormErr    string
	Notice     string // последняя ошибка изменения
}

func NewState() State {
	return State{
		Tasks:  []*task.Task{},
		Filter: FilterAll,
	}
}

func (s State) FetchStart(silent bool) State {
	s.Err = ""
	if silent {
		s.Refreshing = true
	} else {
		s.Loading = true
	}
	return s
}

func (s State) FetchSuccess(tasks []*task.Task, silent bool) State {
	s = s.fetchDone(silent)
	s.Tasks = cloneTasks(tasks)
	s.Notice = ""

	if len(s.Editing) > 0 {
		present := make(map[string]bool, len(s.Tasks))
		for _, t := range s.Tasks {
			present[t.ID] = true
		}
		editing := make(map[string]bool, len(s.Editing))
		for id := range s.Editing {
			if present[id] {
				editing[id] = true
			}
		}
		s.Editing = editing
	}
	return s
}

// FetchError оставляет последний загруженный список
func (s State) FetchError(msg string, silent bool) State {
	s = s.fetchDone(silent)
	s.Err = msg
	return s
}

func (s State) fetchDone(silent bool) State {
	if silent {
		s.Refreshing = false
	} else {
		s.Loading = false
	}
	return s
}

func (s State) OptimisticPatch(id string, patch task.Patch) State {
	tasks := make([]*task.Task, 0, len(s.Tasks))
	for _, t := range s.Tasks {
		if t.ID == id {
			t = t.Clone()
			patch.Apply(t)
		}
		tasks = append(tasks, t)
	}
	s.Tasks = tasks
	s.Notice = ""
	return s
}

func (s State) OptimisticRemove(id string) State {
	tasks := make([]*task.Task, 0, len(s.Tasks))
	for _, t := range s.Tasks {
		if t.ID != id {
			tasks = append(tasks, t)
		}
	}
	s.Tasks = tasks
	s.Editing = without(s.Editing, id)
	s.Notice = ""
	return s
}

// Rollback возвращает список к состоянию до неудачного изменения
func (s State) Rollback(tasks []*task.Task, msg string) State {
	s.Tasks = cloneTasks(tasks)
	s.Notice = msg
	return s
}

// SetFilter: неизвестное значение сбрасывает фильтр
func (s State) SetFilter(filter string) State {
	if filter != FilterAll && !task.Status(filter).Valid() {
		filter = FilterAll
	}
	s.Filter = filter
	return s
}

func (s State) StartEdit(id string) State {
	editing := make(map[string]bool, len(s.Editing)+1)
	for k := range s.Editing {
		editing[k] = true
	}
	editing[id] = true
	s.Editing = editing
	return s
}

func (s State) CancelEdit(id string) State {
	s.Editing = without(s.Editing, id)
	return s
}

func (s State) CreateFailed(msg string) State {
	s.FormErr = msg
	return s
}

func (s State) CreateSucceeded() State {
	s.FormErr = ""
	return s
}

func (s State) IsEditing(id string) bool {
	return s.Editing[id]
}

// Visible - задачи под текущим фильтром, в порядке списка
func (s State) Visible() []*task.Task {
	if s.Filter == "" || s.Filter == FilterAll {
		return s.Tasks
	}
	visible := make([]*task.Task, 0, len(s.Tasks))
	for _, t := range s.Tasks {
		if string(t.Status) == s.Filter {
			visible = append(visible, t)
		}
	}
	return visible
}

// Find ищет задачу в загруженном списке
func (s State) Find(id string) *task.Task {
	for _, t := range s.Tasks {
		if t.ID == id {
			return t
		}
	}
	return nil
}

func cloneTasks(tasks []*task.Task) []*task.Task {
	out := make([]*task.Task, 0, len(tasks))
	for _, t := range tasks {
		out = append(out, t.Clone())
	}
	return out
}

func without(set map[string]bool, id string) map[string]bool {
	if !set[id] {
		return set
	}
	out := make(map[string]bool, len(set))
	for k := range set {
		if k != id {
			out[k] = true
		}
	}
	return out
}
