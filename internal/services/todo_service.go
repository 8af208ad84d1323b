package services

import (
	"context"
	"fmt"
	"strings"
	"time"

	"todolist/internal/metrics"
	"todolist/internal/models"
	"todolist/internal/repositories"
)

// ValidationError reports unacceptable input for a todo.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// EventPublisher is notified after every successful mutation.
type EventPublisher interface {
	Publish(event models.TodoEvent)
}

// TodoService defines the todo use cases.
type TodoService interface {
	List(ctx context.Context, filter models.TodoFilter) (*models.TodoPage, error)
	GetByID(ctx context.Context, id int64) (*models.Todo, error)
	Create(ctx context.Context, input models.TodoInput) (*models.Todo, error)
	Update(ctx context.Context, id int64, input models.TodoInput) (*models.Todo, error)
	MarkDone(ctx context.Context, id int64) (*models.Todo, error)
	MarkUndone(ctx context.Context, id int64) (*models.Todo, error)
	Delete(ctx context.Context, id int64) error
	Metrics(ctx context.Context) (models.Metrics, error)
}

type todoService struct {
	repo        repositories.TodoRepository
	events      EventPublisher
	defaultSize int
	maxSize     int
	now         func() time.Time
}

// NewTodoService creates a TodoService. events may be nil.
func NewTodoService(repo repositories.TodoRepository, events EventPublisher, defaultSize, maxSize int) TodoService {
	if defaultSize <= 0 {
		defaultSize = 10
	}
	if maxSize < defaultSize {
		maxSize = defaultSize
	}
	return &todoService{
		repo:        repo,
		events:      events,
		defaultSize: defaultSize,
		maxSize:     maxSize,
		now:         time.Now,
	}
}

func (s *todoService) List(ctx context.Context, filter models.TodoFilter) (*models.TodoPage, error) {
	if filter.Page < 1 {
		filter.Page = 1
	}
	if filter.Size <= 0 {
		filter.Size = s.defaultSize
	}
	if filter.Size > s.maxSize {
		filter.Size = s.maxSize
	}
	return s.repo.FindByFilter(ctx, filter)
}

func (s *todoService) GetByID(ctx context.Context, id int64) (*models.Todo, error) {
	return s.repo.FindByID(ctx, id)
}

func (s *todoService) Create(ctx context.Context, input models.TodoInput) (*models.Todo, error) {
	now := s.now()
	todo := &models.Todo{CreationDate: now}
	if err := s.applyInput(todo, input, now); err != nil {
		return nil, err
	}
	// a new todo always starts undone
	applyStatus(todo, false, now)

	if err := s.repo.Store(ctx, todo); err != nil {
		return nil, err
	}
	s.publish(models.EventTodoCreated, todo.ID, now)
	return todo, nil
}

func (s *todoService) Update(ctx context.Context, id int64, input models.TodoInput) (*models.Todo, error) {
	existing, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	now := s.now()
	if err := s.applyInput(existing, input, now); err != nil {
		return nil, err
	}
	if input.Status != nil {
		applyStatus(existing, *input.Status, now)
	}

	if err := s.repo.Update(ctx, existing); err != nil {
		return nil, err
	}
	s.publish(models.EventTodoUpdated, existing.ID, now)
	return existing, nil
}

func (s *todoService) MarkDone(ctx context.Context, id int64) (*models.Todo, error) {
	return s.setStatus(ctx, id, true, models.EventTodoDone)
}

func (s *todoService) MarkUndone(ctx context.Context, id int64) (*models.Todo, error) {
	return s.setStatus(ctx, id, false, models.EventTodoUndone)
}

func (s *todoService) setStatus(ctx context.Context, id int64, done bool, event models.TodoEventType) (*models.Todo, error) {
	todo, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	now := s.now()
	if !applyStatus(todo, done, now) {
		return todo, nil
	}
	if err := s.repo.Update(ctx, todo); err != nil {
		return nil, err
	}
	s.publish(event, todo.ID, now)
	return todo, nil
}

func (s *todoService) Delete(ctx context.Context, id int64) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}
	s.publish(models.EventTodoDeleted, id, s.now())
	return nil
}

func (s *todoService) Metrics(ctx context.Context) (models.Metrics, error) {
	todos, err := s.repo.FindAll(ctx)
	if err != nil {
		return models.Metrics{}, err
	}
	return metrics.Aggregate(todos), nil
}

// applyInput copies the writable fields. With a due date the priority is
// derived from it; without one the given priority is used (low by default).
func (s *todoService) applyInput(todo *models.Todo, input models.TodoInput, now time.Time) error {
	text := strings.TrimSpace(input.Text)
	if text == "" {
		return &ValidationError{Field: "text", Message: "you can't leave the task empty"}
	}
	todo.Text = text

	if input.Priority != 0 && !input.Priority.Valid() {
		return &ValidationError{Field: "priority", Message: "must be 1 (low), 2 (medium) or 3 (high)"}
	}

	todo.DueDate = nil
	if input.DueDate != nil {
		due := *input.DueDate
		todo.DueDate = &due
		todo.Priority = priorityForDueDate(due, models.DateOf(now))
		return nil
	}
	switch {
	case input.Priority != 0:
		todo.Priority = input.Priority
	case !todo.Priority.Valid():
		todo.Priority = models.PriorityLow
	}
	return nil
}

func (s *todoService) publish(t models.TodoEventType, id int64, at time.Time) {
	if s.events == nil {
		return
	}
	s.events.Publish(models.TodoEvent{Type: t, ID: id, At: at})
}
