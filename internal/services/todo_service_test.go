package services

import (
	"context"
	"errors"
	"net/url"
	"testing"
	"time"

	"todolist/internal/models"
	"todolist/internal/query"
	"todolist/internal/repositories"
)

type recordingPublisher struct {
	events []models.TodoEvent
}

func (p *recordingPublisher) Publish(e models.TodoEvent) {
	p.events = append(p.events, e)
}

func (p *recordingPublisher) types() []models.TodoEventType {
	out := make([]models.TodoEventType, 0, len(p.events))
	for _, e := range p.events {
		out = append(out, e.Type)
	}
	return out
}

type fakeClock struct {
	t time.Time
}

func (c *fakeClock) now() time.Time { return c.t }

func (c *fakeClock) advance(d time.Duration) { c.t = c.t.Add(d) }

func newTestTodoService(t *testing.T) (*todoService, *fakeClock, *recordingPublisher) {
	t.Helper()
	clock := &fakeClock{t: time.Date(2024, 5, 1, 9, 0, 0, 0, time.UTC)}
	pub := &recordingPublisher{}
	svc := NewTodoService(repositories.NewMemoryTodoRepository(), pub, 10, 50).(*todoService)
	svc.now = clock.now
	return svc, clock, pub
}

func dueIn(clock *fakeClock, days int) *models.Date {
	d := models.DateOf(clock.t.AddDate(0, 0, days))
	return &d
}

func TestCreateDerivesPriorityFromDueDate(t *testing.T) {
	svc, clock, _ := newTestTodoService(t)

	tests := []struct {
		days int
		want models.Priority
	}{
		{30, models.PriorityLow},
		{15, models.PriorityLow},
		{14, models.PriorityMedium},
		{8, models.PriorityMedium},
		{7, models.PriorityHigh},
		{0, models.PriorityHigh},
		{-3, models.PriorityHigh},
	}
	for _, tt := range tests {
		todo, err := svc.Create(context.Background(), models.TodoInput{
			Text:     "due in some days",
			DueDate:  dueIn(clock, tt.days),
			Priority: models.PriorityLow,
		})
		if err != nil {
			t.Fatalf("create (%d days): %v", tt.days, err)
		}
		if todo.Priority != tt.want {
			t.Fatalf("due in %d days: expected priority %v, got %v", tt.days, tt.want, todo.Priority)
		}
	}
}

func TestCreateWithoutDueDate(t *testing.T) {
	svc, _, pub := newTestTodoService(t)

	todo, err := svc.Create(context.Background(), models.TodoInput{Text: "  Call mom  ", Priority: models.PriorityMedium})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if todo.ID == 0 || todo.Text != "Call mom" || todo.Priority != models.PriorityMedium || todo.Status {
		t.Fatalf("unexpected todo %+v", todo)
	}
	if todo.DoneDate != nil || todo.ElapsedTime != nil {
		t.Fatalf("expected new todo without completion data")
	}

	todo, err = svc.Create(context.Background(), models.TodoInput{Text: "no priority"})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if todo.Priority != models.PriorityLow {
		t.Fatalf("expected default low priority, got %v", todo.Priority)
	}
	if len(pub.events) != 2 || pub.events[0].Type != models.EventTodoCreated {
		t.Fatalf("expected two created events, got %v", pub.types())
	}
}

func TestCreateValidation(t *testing.T) {
	svc, _, pub := newTestTodoService(t)

	inputs := []models.TodoInput{
		{Text: "   "},
		{Text: "bad priority", Priority: 4},
	}
	for _, in := range inputs {
		_, err := svc.Create(context.Background(), in)
		var vErr *ValidationError
		if !errors.As(err, &vErr) {
			t.Fatalf("input %+v: expected ValidationError, got %v", in, err)
		}
	}
	if len(pub.events) != 0 {
		t.Fatalf("expected no events, got %v", pub.types())
	}
}

func TestMarkDoneAndUndone(t *testing.T) {
	svc, clock, pub := newTestTodoService(t)

	created, err := svc.Create(context.Background(), models.TodoInput{Text: "Write tests"})
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	clock.advance(90 * time.Minute)
	done, err := svc.MarkDone(context.Background(), created.ID)
	if err != nil {
		t.Fatalf("mark done: %v", err)
	}
	if !done.Status || done.DoneDate == nil || !done.DoneDate.Equal(clock.t) {
		t.Fatalf("unexpected done todo %+v", done)
	}
	if done.ElapsedTime == nil || *done.ElapsedTime != 5400 {
		t.Fatalf("expected elapsed 5400s, got %v", done.ElapsedTime)
	}

	clock.advance(time.Hour)
	again, err := svc.MarkDone(context.Background(), created.ID)
	if err != nil {
		t.Fatalf("mark done again: %v", err)
	}
	if *again.ElapsedTime != 5400 {
		t.Fatalf("expected repeated mark done to keep elapsed time, got %d", *again.ElapsedTime)
	}

	undone, err := svc.MarkUndone(context.Background(), created.ID)
	if err != nil {
		t.Fatalf("mark undone: %v", err)
	}
	if undone.Status || undone.DoneDate != nil || undone.ElapsedTime != nil {
		t.Fatalf("expected completion data cleared, got %+v", undone)
	}

	stored, err := svc.GetByID(context.Background(), created.ID)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if stored.Status || stored.ElapsedTime != nil {
		t.Fatalf("expected stored todo undone, got %+v", stored)
	}

	want := []models.TodoEventType{models.EventTodoCreated, models.EventTodoDone, models.EventTodoUndone}
	got := pub.types()
	if len(got) != len(want) {
		t.Fatalf("expected events %v, got %v", want, got)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("expected events %v, got %v", want, got)
		}
	}
}

func TestMarkDoneNotFound(t *testing.T) {
	svc, _, _ := newTestTodoService(t)
	if _, err := svc.MarkDone(context.Background(), 99); !errors.Is(err, repositories.ErrTodoNotFound) {
		t.Fatalf("expected ErrTodoNotFound, got %v", err)
	}
}

func TestUpdateKeepsCompletionInvariant(t *testing.T) {
	svc, clock, _ := newTestTodoService(t)

	created, err := svc.Create(context.Background(), models.TodoInput{Text: "Pay rent"})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	clock.advance(10 * time.Minute)

	done := true
	updated, err := svc.Update(context.Background(), created.ID, models.TodoInput{
		Text:    "Pay rent for May",
		DueDate: dueIn(clock, 10),
		Status:  &done,
	})
	if err != nil {
		t.Fatalf("update: %v", err)
	}
	if updated.Text != "Pay rent for May" || updated.Priority != models.PriorityMedium {
		t.Fatalf("unexpected updated todo %+v", updated)
	}
	if !updated.Status || updated.ElapsedTime == nil || *updated.ElapsedTime != 600 {
		t.Fatalf("expected done with 600s elapsed, got %+v", updated)
	}
	if !updated.CreationDate.Equal(created.CreationDate) {
		t.Fatalf("creation date must not change")
	}

	undone := false
	updated, err = svc.Update(context.Background(), created.ID, models.TodoInput{Text: "Pay rent for May", Status: &undone})
	if err != nil {
		t.Fatalf("update: %v", err)
	}
	if updated.Status || updated.DoneDate != nil || updated.ElapsedTime != nil {
		t.Fatalf("expected undone without completion data, got %+v", updated)
	}
	if updated.DueDate != nil {
		t.Fatalf("expected due date cleared, got %v", updated.DueDate)
	}
	if updated.Priority != models.PriorityMedium {
		t.Fatalf("expected previous priority kept without due date, got %v", updated.Priority)
	}
}

func TestListAppliesPageDefaults(t *testing.T) {
	svc, _, _ := newTestTodoService(t)
	for i := 0; i < 12; i++ {
		if _, err := svc.Create(context.Background(), models.TodoInput{Text: "item"}); err != nil {
			t.Fatalf("create: %v", err)
		}
	}

	page, err := svc.List(context.Background(), models.TodoFilter{})
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if page.Total != 12 || len(page.Todos) != 10 {
		t.Fatalf("expected 10 of 12, got %d of %d", len(page.Todos), page.Total)
	}

	page, err = svc.List(context.Background(), models.TodoFilter{Page: 2, Size: 500})
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(page.Todos) != 0 {
		t.Fatalf("expected page 2 of size 50 to be empty, got %d", len(page.Todos))
	}
}

func TestListFarPageIsEmpty(t *testing.T) {
	svc, _, _ := newTestTodoService(t)
	if _, err := svc.Create(context.Background(), models.TodoInput{Text: "item"}); err != nil {
		t.Fatalf("create: %v", err)
	}

	filter, err := query.Decode(url.Values{"page": {"922337203685477582"}})
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	page, err := svc.List(context.Background(), filter)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if page.Total != 1 || len(page.Todos) != 0 {
		t.Fatalf("expected empty page with total 1, got %d items total %d", len(page.Todos), page.Total)
	}
}

func TestServiceMetrics(t *testing.T) {
	svc, clock, _ := newTestTodoService(t)

	a, _ := svc.Create(context.Background(), models.TodoInput{Text: "a", Priority: models.PriorityLow})
	b, _ := svc.Create(context.Background(), models.TodoInput{Text: "b", Priority: models.PriorityLow})
	if _, err := svc.Create(context.Background(), models.TodoInput{Text: "c", Priority: models.PriorityMedium}); err != nil {
		t.Fatalf("create: %v", err)
	}

	clock.advance(10 * time.Minute)
	if _, err := svc.MarkDone(context.Background(), a.ID); err != nil {
		t.Fatalf("done a: %v", err)
	}
	clock.advance(10 * time.Minute)
	if _, err := svc.MarkDone(context.Background(), b.ID); err != nil {
		t.Fatalf("done b: %v", err)
	}

	m, err := svc.Metrics(context.Background())
	if err != nil {
		t.Fatalf("metrics: %v", err)
	}
	if v, ok := m.AvgTime.Value(); !ok || v != 15 {
		t.Fatalf("expected overall 15 minutes, got %v", m.AvgTime)
	}
	if v, ok := m.AvgTimeLow.Value(); !ok || v != 15 {
		t.Fatalf("expected low 15 minutes, got %v", m.AvgTimeLow)
	}
	if m.AvgTimeMedium.Valid || m.AvgTimeHigh.Valid {
		t.Fatalf("expected medium and high without data, got %+v", m)
	}
}

func TestDeletePublishes(t *testing.T) {
	svc, _, pub := newTestTodoService(t)
	todo, _ := svc.Create(context.Background(), models.TodoInput{Text: "tmp"})
	if err := svc.Delete(context.Background(), todo.ID); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if err := svc.Delete(context.Background(), todo.ID); !errors.Is(err, repositories.ErrTodoNotFound) {
		t.Fatalf("expected ErrTodoNotFound, got %v", err)
	}
	if last := pub.events[len(pub.events)-1]; last.Type != models.EventTodoDeleted || last.ID != todo.ID {
		t.Fatalf("unexpected last event %+v", last)
	}
}
