// internal/models/todo.go
package models

import (
	"fmt"
	"math"
	"strings"
	"time"
)

// Priority is the ordinal tier a todo is classified into.
type Priority int

const (
	PriorityLow    Priority = 1
	PriorityMedium Priority = 2
	PriorityHigh   Priority = 3
)

// Priorities lists every defined tier in ascending order.
var Priorities = []Priority{PriorityLow, PriorityMedium, PriorityHigh}

func (p Priority) Valid() bool {
	return p >= PriorityLow && p <= PriorityHigh
}

func (p Priority) String() string {
	switch p {
	case PriorityLow:
		return "low"
	case PriorityMedium:
		return "medium"
	case PriorityHigh:
		return "high"
	}
	return fmt.Sprintf("priority(%d)", int(p))
}

// Todo represents one item of the list.
// ElapsedTime is set iff Status is true and DoneDate is set.
type Todo struct {
	ID           int64      `json:"id"`
	Text         string     `json:"text"`
	Status       bool       `json:"status"`
	Priority     Priority   `json:"priority"`
	DueDate      *Date      `json:"dueDate,omitempty"`
	CreationDate time.Time  `json:"creationDate"`
	DoneDate     *time.Time `json:"doneDate,omitempty"`
	ElapsedTime  *int64     `json:"elapsedTime,omitempty"` // seconds
}

// TodoInput is the writable part of a todo as accepted by create/update.
type TodoInput struct {
	Text     string   `json:"text" binding:"required"`
	DueDate  *Date    `json:"dueDate"`
	Priority Priority `json:"priority"`
	Status   *bool    `json:"status"`
}

// TodoPage is one page of a filtered list together with the filtered total.
type TodoPage struct {
	Todos []Todo `json:"todosList"`
	Total int    `json:"total"`
}

// StatusFilter is the tri-state status selector of a list query.
type StatusFilter int

const (
	StatusAny StatusFilter = iota
	StatusDone
	StatusUndone
)

// Matches reports whether a todo with the given status passes the filter.
func (s StatusFilter) Matches(status bool) bool {
	switch s {
	case StatusDone:
		return status
	case StatusUndone:
		return !status
	}
	return true
}

type SortField string

const (
	SortByPriority SortField = "priority"
	SortByDueDate  SortField = "dueDate"
)

func (f SortField) Valid() bool {
	return f == SortByPriority || f == SortByDueDate
}

type SortDirection string

const (
	Ascending  SortDirection = "ascending"
	Descending SortDirection = "descending"
)

// SQL returns the direction as an SQL keyword.
func (d SortDirection) SQL() string {
	if d == Descending {
		return "DESC"
	}
	return "ASC"
}

// ParseSortDirection accepts ASC/DESC and ascending/descending in any case.
func ParseSortDirection(s string) (SortDirection, bool) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "asc", "ascending":
		return Ascending, true
	case "desc", "descending":
		return Descending, true
	}
	return "", false
}

// SortInstruction orders a list by one field.
type SortInstruction struct {
	Field     SortField     `json:"field"`
	Direction SortDirection `json:"direction"`
}

// TodoFilter describes which subset and ordering of todos a list query wants.
// Zero values mean "not applied".
type TodoFilter struct {
	Text     string
	Status   StatusFilter
	Priority *Priority
	Sort     []SortInstruction
	Page     int
	Size     int
}

// Offset returns the number of records to skip for the filter's page.
// Pages too far out to address saturate at math.MaxInt.
func (f TodoFilter) Offset() int {
	if f.Page <= 1 || f.Size <= 0 {
		return 0
	}
	if f.Page-1 > math.MaxInt/f.Size {
		return math.MaxInt
	}
	return (f.Page - 1) * f.Size
}

type TodoEventType string

const (
	EventTodoCreated TodoEventType = "todo.created"
	EventTodoUpdated TodoEventType = "todo.updated"
	EventTodoDone    TodoEventType = "todo.done"
	EventTodoUndone  TodoEventType = "todo.undone"
	EventTodoDeleted TodoEventType = "todo.deleted"
)

// TodoEvent tells subscribers that the list changed and should be re-fetched.
type TodoEvent struct {
	Type TodoEventType `json:"type"`
	ID   int64         `json:"id"`
	At   time.Time     `json:"at"`
}
