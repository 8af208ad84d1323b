package repositories

import (
	"context"
	"sort"
	"strings"
	"sync"

	"todolist/internal/models"
)

// memoryTodoRepository keeps todos in process memory. It is used when no
// database is configured.
type memoryTodoRepository struct {
	mu     sync.RWMutex
	todos  map[int64]models.Todo
	nextID int64
}

func NewMemoryTodoRepository() TodoRepository {
	return &memoryTodoRepository{todos: make(map[int64]models.Todo), nextID: 1}
}

func (r *memoryTodoRepository) Store(_ context.Context, todo *models.Todo) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	todo.ID = r.nextID
	r.nextID++
	r.todos[todo.ID] = cloneTodo(*todo)
	return nil
}

func (r *memoryTodoRepository) FindByID(_ context.Context, id int64) (*models.Todo, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	t, ok := r.todos[id]
	if !ok {
		return nil, ErrTodoNotFound
	}
	out := cloneTodo(t)
	return &out, nil
}

func (r *memoryTodoRepository) FindByFilter(_ context.Context, filter models.TodoFilter) (*models.TodoPage, error) {
	r.mu.RLock()
	text := strings.ToLower(filter.Text)
	matched := make([]models.Todo, 0, len(r.todos))
	for _, t := range r.todos {
		if !filter.Status.Matches(t.Status) {
			continue
		}
		if text != "" && !strings.Contains(strings.ToLower(t.Text), text) {
			continue
		}
		if filter.Priority != nil && t.Priority != *filter.Priority {
			continue
		}
		matched = append(matched, cloneTodo(t))
	}
	r.mu.RUnlock()

	sort.SliceStable(matched, func(i, j int) bool {
		return lessTodo(matched[i], matched[j], filter.Sort)
	})

	total := len(matched)
	page := matched
	if filter.Size > 0 {
		start := filter.Offset()
		if start < 0 || start > total {
			start = total
		}
		end := total
		if filter.Size < total-start {
			end = start + filter.Size
		}
		page = matched[start:end]
	}
	return &models.TodoPage{Todos: page, Total: total}, nil
}

func (r *memoryTodoRepository) FindAll(_ context.Context) ([]models.Todo, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]models.Todo, 0, len(r.todos))
	for _, t := range r.todos {
		out = append(out, cloneTodo(t))
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (r *memoryTodoRepository) Update(_ context.Context, todo *models.Todo) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	existing, ok := r.todos[todo.ID]
	if !ok {
		return ErrTodoNotFound
	}
	updated := cloneTodo(*todo)
	updated.CreationDate = existing.CreationDate
	r.todos[todo.ID] = updated
	return nil
}

func (r *memoryTodoRepository) Delete(_ context.Context, id int64) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.todos[id]; !ok {
		return ErrTodoNotFound
	}
	delete(r.todos, id)
	return nil
}

// lessTodo mirrors orderClause.
func lessTodo(a, b models.Todo, sortBy []models.SortInstruction) bool {
	for _, s := range canonicalSort(sortBy) {
		switch s.Field {
		case models.SortByPriority:
			if a.Priority != b.Priority {
				if s.Direction == models.Descending {
					return a.Priority > b.Priority
				}
				return a.Priority < b.Priority
			}
		case models.SortByDueDate:
			if (a.DueDate == nil) != (b.DueDate == nil) {
				return b.DueDate == nil
			}
			if a.DueDate != nil && *a.DueDate != *b.DueDate {
				if s.Direction == models.Descending {
					return b.DueDate.Before(*a.DueDate)
				}
				return a.DueDate.Before(*b.DueDate)
			}
		}
	}
	if !a.CreationDate.Equal(b.CreationDate) {
		return a.CreationDate.Before(b.CreationDate)
	}
	return a.ID < b.ID
}

func cloneTodo(t models.Todo) models.Todo {
	if t.DueDate != nil {
		d := *t.DueDate
		t.DueDate = &d
	}
	if t.DoneDate != nil {
		d := *t.DoneDate
		t.DoneDate = &d
	}
	if t.ElapsedTime != nil {
		e := *t.ElapsedTime
		t.ElapsedTime = &e
	}
	return t
}
