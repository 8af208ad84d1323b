package services

import (
	"time"

	"todolist/internal/models"
)

// applyStatus moves a todo to the given status and keeps the completion
// fields consistent with it: a done todo has DoneDate and ElapsedTime, an
// undone one has neither. Setting the current status again is a no-op.
func applyStatus(todo *models.Todo, done bool, now time.Time) (changed bool) {
	if todo.Status == done && (done == (todo.DoneDate != nil && todo.ElapsedTime != nil)) {
		return false
	}
	todo.Status = done
	if !done {
		todo.DoneDate = nil
		todo.ElapsedTime = nil
		return true
	}
	doneAt := now
	elapsed := int64(doneAt.Sub(todo.CreationDate) / time.Second)
	if elapsed < 0 {
		elapsed = 0
	}
	todo.DoneDate = &doneAt
	todo.ElapsedTime = &elapsed
	return true
}

// priorityForDueDate classifies a todo by how far its due date is from today:
// more than two weeks is low, more than one week is medium, anything sooner
// (including overdue) is high.
func priorityForDueDate(due models.Date, today models.Date) models.Priority {
	days := due.DaysSince(today)
	switch {
	case days > 14:
		return models.PriorityLow
	case days > 7:
		return models.PriorityMedium
	default:
		return models.PriorityHigh
	}
}
