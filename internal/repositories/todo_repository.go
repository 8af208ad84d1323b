package repositories

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"todolist/internal/models"
)

var ErrTodoNotFound = errors.New("todo not found")

type TodoRepository interface {
	Store(ctx context.Context, todo *models.Todo) error
	FindByID(ctx context.Context, id int64) (*models.Todo, error)
	FindByFilter(ctx context.Context, filter models.TodoFilter) (*models.TodoPage, error)
	FindAll(ctx context.Context) ([]models.Todo, error)
	Update(ctx context.Context, todo *models.Todo) error
	Delete(ctx context.Context, id int64) error
}

type todoRepository struct {
	db      *sql.DB
	dialect Dialect
}

func NewTodoRepository(db *sql.DB, dialect Dialect) TodoRepository {
	return &todoRepository{db: db, dialect: dialect}
}

const todoColumns = `id, text, status, priority, due_date, creation_date, done_date, elapsed_time`

func (r *todoRepository) q(query string) string {
	return rebind(r.dialect, query)
}

func (r *todoRepository) Store(ctx context.Context, todo *models.Todo) error {
	query := r.q(`
		INSERT INTO todos (text, status, priority, due_date, creation_date, done_date, elapsed_time)
		VALUES (?,?,?,?,?,?,?)
		RETURNING id`)
	return r.db.QueryRowContext(ctx, query,
		todo.Text, todo.Status, int(todo.Priority), dateArg(todo.DueDate),
		todo.CreationDate.UnixMilli(), timeArg(todo.DoneDate), int64Arg(todo.ElapsedTime),
	).Scan(&todo.ID)
}

func (r *todoRepository) FindByID(ctx context.Context, id int64) (*models.Todo, error) {
	row := r.db.QueryRowContext(ctx, r.q(`SELECT `+todoColumns+` FROM todos WHERE id = ?`), id)
	todo, err := scanTodo(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrTodoNotFound
		}
		return nil, err
	}
	return todo, nil
}

func (r *todoRepository) FindByFilter(ctx context.Context, filter models.TodoFilter) (*models.TodoPage, error) {
	conditions := []string{}
	args := []interface{}{}

	if filter.Text != "" {
		conditions = append(conditions, `LOWER(text) LIKE ? ESCAPE '\'`)
		args = append(args, "%"+escapeLike(strings.ToLower(filter.Text))+"%")
	}
	switch filter.Status {
	case models.StatusDone:
		conditions = append(conditions, "status = ?")
		args = append(args, true)
	case models.StatusUndone:
		conditions = append(conditions, "status = ?")
		args = append(args, false)
	}
	if filter.Priority != nil {
		conditions = append(conditions, "priority = ?")
		args = append(args, int(*filter.Priority))
	}

	where := ""
	if len(conditions) > 0 {
		where = " WHERE " + strings.Join(conditions, " AND ")
	}

	var total int
	if err := r.db.QueryRowContext(ctx, r.q(`SELECT COUNT(*) FROM todos`+where), args...).Scan(&total); err != nil {
		return nil, fmt.Errorf("count todos: %w", err)
	}

	query := `SELECT ` + todoColumns + ` FROM todos` + where + ` ORDER BY ` + orderClause(filter.Sort)
	if filter.Size > 0 {
		query += " LIMIT ? OFFSET ?"
		args = append(args, filter.Size, filter.Offset())
	}

	rows, err := r.db.QueryContext(ctx, r.q(query), args...)
	if err != nil {
		return nil, fmt.Errorf("list todos: %w", err)
	}
	defer rows.Close()

	todos := []models.Todo{}
	for rows.Next() {
		t, err := scanTodo(rows)
		if err != nil {
			return nil, err
		}
		todos = append(todos, *t)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return &models.TodoPage{Todos: todos, Total: total}, nil
}

func (r *todoRepository) FindAll(ctx context.Context) ([]models.Todo, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT `+todoColumns+` FROM todos ORDER BY id`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var todos []models.Todo
	for rows.Next() {
		t, err := scanTodo(rows)
		if err != nil {
			return nil, err
		}
		todos = append(todos, *t)
	}
	return todos, rows.Err()
}

func (r *todoRepository) Update(ctx context.Context, todo *models.Todo) error {
	query := r.q(`
		UPDATE todos SET
			text=?, status=?, priority=?, due_date=?, done_date=?, elapsed_time=?
		WHERE id=?`)
	res, err := r.db.ExecContext(ctx, query,
		todo.Text, todo.Status, int(todo.Priority), dateArg(todo.DueDate),
		timeArg(todo.DoneDate), int64Arg(todo.ElapsedTime), todo.ID,
	)
	if err != nil {
		return err
	}
	return expectAffected(res)
}

func (r *todoRepository) Delete(ctx context.Context, id int64) error {
	res, err := r.db.ExecContext(ctx, r.q(`DELETE FROM todos WHERE id = ?`), id)
	if err != nil {
		return err
	}
	return expectAffected(res)
}

// canonicalSort orders instructions priority first, then due date, whatever
// order they were given in. Unknown fields are dropped; the first
// instruction for a field wins.
func canonicalSort(sort []models.SortInstruction) []models.SortInstruction {
	byField := make(map[models.SortField]models.SortDirection, len(sort))
	for _, s := range sort {
		if _, seen := byField[s.Field]; !seen && s.Field.Valid() {
			byField[s.Field] = s.Direction
		}
	}
	out := make([]models.SortInstruction, 0, len(byField))
	for _, field := range []models.SortField{models.SortByPriority, models.SortByDueDate} {
		if dir, ok := byField[field]; ok {
			out = append(out, models.SortInstruction{Field: field, Direction: dir})
		}
	}
	return out
}

// orderClause builds ORDER BY from whitelisted fields only. Missing due
// dates sort last in both directions; creation order breaks ties.
func orderClause(sort []models.SortInstruction) string {
	parts := []string{}
	for _, s := range canonicalSort(sort) {
		switch s.Field {
		case models.SortByPriority:
			parts = append(parts, "priority "+s.Direction.SQL())
		case models.SortByDueDate:
			parts = append(parts, "(due_date IS NULL) ASC", "due_date "+s.Direction.SQL())
		}
	}
	parts = append(parts, "creation_date ASC", "id ASC")
	return strings.Join(parts, ", ")
}

func escapeLike(s string) string {
	r := strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)
	return r.Replace(s)
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanTodo(row rowScanner) (*models.Todo, error) {
	var (
		t        models.Todo
		priority int
		due      sql.NullString
		created  int64
		done     sql.NullInt64
		elapsed  sql.NullInt64
	)
	if err := row.Scan(&t.ID, &t.Text, &t.Status, &priority, &due, &created, &done, &elapsed); err != nil {
		return nil, err
	}
	t.Priority = models.Priority(priority)
	t.CreationDate = time.UnixMilli(created).UTC()
	if due.Valid && due.String != "" {
		d, err := models.ParseDate(due.String)
		if err != nil {
			return nil, fmt.Errorf("todo %d: %w", t.ID, err)
		}
		t.DueDate = &d
	}
	if done.Valid {
		dt := time.UnixMilli(done.Int64).UTC()
		t.DoneDate = &dt
	}
	if elapsed.Valid {
		e := elapsed.Int64
		t.ElapsedTime = &e
	}
	return &t, nil
}

func dateArg(d *models.Date) interface{} {
	if d == nil {
		return nil
	}
	return d.String()
}

func timeArg(t *time.Time) interface{} {
	if t == nil {
		return nil
	}
	return t.UnixMilli()
}

func int64Arg(v *int64) interface{} {
	if v == nil {
		return nil
	}
	return *v
}

func expectAffected(res sql.Result) error {
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrTodoNotFound
	}
	return nil
}
