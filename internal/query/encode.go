// Package query translates list filters to and from the query parameters
// understood by the /api/todos list endpoint.
package query

import (
	"errors"
	"fmt"
	"net/url"
	"strconv"
	"strings"

	"todolist/internal/models"
)

const (
	ParamText              = "text"
	ParamStatus            = "status"
	ParamPriority          = "priority"
	ParamSortBy            = "sortBy"
	ParamDirectionPriority = "directionPriority"
	ParamDirectionDueDate  = "directionDueDate"
	ParamPage              = "page"
	ParamSize              = "size"

	// SortByPriorityDueDate is the sortBy value for a two-field sort.
	SortByPriorityDueDate = "priorityDueDate"
	// SortByCreationDate is the server's default order.
	SortByCreationDate = "creationDate"
)

// paramOrder is the stable output order of Params.String.
var paramOrder = []string{
	ParamText,
	ParamStatus,
	ParamPriority,
	ParamSortBy,
	ParamDirectionPriority,
	ParamDirectionDueDate,
	ParamPage,
	ParamSize,
}

// ErrEncoding matches every *EncodingError via errors.Is.
var ErrEncoding = errors.New("query encoding error")

// EncodingError reports a filter that cannot be expressed as list parameters.
type EncodingError struct {
	Reason string
}

func (e *EncodingError) Error() string {
	return "encode todo query: " + e.Reason
}

func (e *EncodingError) Is(target error) bool {
	return target == ErrEncoding
}

// Params is an encoded list query. It keeps url.Values semantics but renders
// its parameters in a fixed order.
type Params url.Values

func (p Params) Get(key string) string {
	return url.Values(p).Get(key)
}

func (p Params) Has(key string) bool {
	_, ok := p[key]
	return ok
}

// String renders the parameters as a query string in a stable order.
func (p Params) String() string {
	var b strings.Builder
	for _, key := range paramOrder {
		for _, v := range p[key] {
			if b.Len() > 0 {
				b.WriteByte('&')
			}
			b.WriteString(url.QueryEscape(key))
			b.WriteByte('=')
			b.WriteString(url.QueryEscape(v))
		}
	}
	return b.String()
}

// Encode maps a filter to list parameters. It is pure and safe for concurrent use.
func Encode(f models.TodoFilter) (Params, error) {
	p := Params{}

	if f.Text != "" {
		p[ParamText] = []string{f.Text}
	}
	switch f.Status {
	case models.StatusAny:
	case models.StatusDone:
		p[ParamStatus] = []string{"true"}
	case models.StatusUndone:
		p[ParamStatus] = []string{"false"}
	default:
		return nil, &EncodingError{Reason: fmt.Sprintf("unknown status filter %d", f.Status)}
	}
	if f.Priority != nil {
		p[ParamPriority] = []string{strconv.Itoa(int(*f.Priority))}
	}

	if err := encodeSort(p, f.Sort); err != nil {
		return nil, err
	}

	if f.Page > 0 {
		p[ParamPage] = []string{strconv.Itoa(f.Page)}
	}
	if f.Size > 0 {
		p[ParamSize] = []string{strconv.Itoa(f.Size)}
	}
	return p, nil
}

// EncodeString is Encode followed by Params.String.
func EncodeString(f models.TodoFilter) (string, error) {
	p, err := Encode(f)
	if err != nil {
		return "", err
	}
	return p.String(), nil
}

func encodeSort(p Params, sort []models.SortInstruction) error {
	if len(sort) > 2 {
		return &EncodingError{Reason: fmt.Sprintf("at most 2 sort instructions are supported, got %d", len(sort))}
	}

	byField := make(map[models.SortField]models.SortDirection, len(sort))
	for _, s := range sort {
		if !s.Field.Valid() {
			return &EncodingError{Reason: fmt.Sprintf("unknown sort field %q", s.Field)}
		}
		dir, ok := models.ParseSortDirection(string(s.Direction))
		if !ok {
			return &EncodingError{Reason: fmt.Sprintf("unknown sort direction %q for %s", s.Direction, s.Field)}
		}
		if _, dup := byField[s.Field]; dup {
			return &EncodingError{Reason: fmt.Sprintf("sort field %q given twice", s.Field)}
		}
		byField[s.Field] = dir
	}

	switch len(byField) {
	case 0:
		return nil
	case 1:
		p[ParamSortBy] = []string{string(sort[0].Field)}
	default:
		p[ParamSortBy] = []string{SortByPriorityDueDate}
	}
	if dir, ok := byField[models.SortByPriority]; ok {
		p[ParamDirectionPriority] = []string{string(dir)}
	}
	if dir, ok := byField[models.SortByDueDate]; ok {
		p[ParamDirectionDueDate] = []string{string(dir)}
	}
	return nil
}
