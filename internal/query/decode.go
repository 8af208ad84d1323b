package query

import (
	"fmt"
	"net/url"
	"strconv"
	"strings"

	"todolist/internal/models"
)

// DecodeError reports a malformed list parameter.
type DecodeError struct {
	Param string
	Value string
	Err   error
}

func (e *DecodeError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("invalid %s=%q: %v", e.Param, e.Value, e.Err)
	}
	return fmt.Sprintf("invalid %s=%q", e.Param, e.Value)
}

func (e *DecodeError) Unwrap() error {
	return e.Err
}

// Decode is the inverse of Encode. Missing parameters decode to zero values;
// page size defaults are the caller's business.
func Decode(v url.Values) (models.TodoFilter, error) {
	var f models.TodoFilter

	f.Text = v.Get(ParamText)

	if raw := strings.TrimSpace(v.Get(ParamStatus)); raw != "" {
		done, err := strconv.ParseBool(raw)
		if err != nil {
			return f, &DecodeError{Param: ParamStatus, Value: raw, Err: err}
		}
		if done {
			f.Status = models.StatusDone
		} else {
			f.Status = models.StatusUndone
		}
	}

	if raw := strings.TrimSpace(v.Get(ParamPriority)); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil {
			return f, &DecodeError{Param: ParamPriority, Value: raw, Err: err}
		}
		p := models.Priority(n)
		if !p.Valid() {
			return f, &DecodeError{Param: ParamPriority, Value: raw, Err: fmt.Errorf("priority must be 1..3")}
		}
		f.Priority = &p
	}

	sort, err := decodeSort(v)
	if err != nil {
		return f, err
	}
	f.Sort = sort

	if f.Page, err = decodeNonNegative(v, ParamPage); err != nil {
		return f, err
	}
	if f.Size, err = decodeNonNegative(v, ParamSize); err != nil {
		return f, err
	}
	return f, nil
}

func decodeSort(v url.Values) ([]models.SortInstruction, error) {
	sortBy := strings.TrimSpace(v.Get(ParamSortBy))

	direction := func(param string) (models.SortDirection, error) {
		raw := v.Get(param)
		if strings.TrimSpace(raw) == "" {
			return models.Ascending, nil
		}
		dir, ok := models.ParseSortDirection(raw)
		if !ok {
			return "", &DecodeError{Param: param, Value: raw}
		}
		return dir, nil
	}

	var fields []models.SortField
	switch sortBy {
	case "", SortByCreationDate:
		return nil, nil
	case string(models.SortByPriority):
		fields = []models.SortField{models.SortByPriority}
	case string(models.SortByDueDate):
		fields = []models.SortField{models.SortByDueDate}
	case SortByPriorityDueDate:
		fields = []models.SortField{models.SortByPriority, models.SortByDueDate}
	default:
		return nil, &DecodeError{Param: ParamSortBy, Value: sortBy}
	}

	out := make([]models.SortInstruction, 0, len(fields))
	for _, field := range fields {
		param := ParamDirectionPriority
		if field == models.SortByDueDate {
			param = ParamDirectionDueDate
		}
		dir, err := direction(param)
		if err != nil {
			return nil, err
		}
		out = append(out, models.SortInstruction{Field: field, Direction: dir})
	}
	return out, nil
}

func decodeNonNegative(v url.Values, param string) (int, error) {
	raw := strings.TrimSpace(v.Get(param))
	if raw == "" {
		return 0, nil
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		return 0, &DecodeError{Param: param, Value: raw, Err: err}
	}
	if n < 0 {
		return 0, &DecodeError{Param: param, Value: raw, Err: fmt.Errorf("must not be negative")}
	}
	return n, nil
}
