package services

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"
	"time"

	"todolist/internal/metrics"
	"todolist/internal/models"
	"todolist/internal/repositories"
)

// Digest summarizes the list at one point in time.
type Digest struct {
	Date     models.Date
	Total    int
	Open     int
	Done     int
	Overdue  int
	DueToday int
	Metrics  models.Metrics
}

type DigestService struct {
	repo      repositories.TodoRepository
	notifiers []Notifier
	now       func() time.Time
}

func NewDigestService(repo repositories.TodoRepository, notifiers ...Notifier) *DigestService {
	return &DigestService{repo: repo, notifiers: notifiers, now: time.Now}
}

func (s *DigestService) HasNotifiers() bool {
	return len(s.notifiers) > 0
}

func (s *DigestService) Build(ctx context.Context) (*Digest, error) {
	todos, err := s.repo.FindAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("load todos: %w", err)
	}

	today := models.DateOf(s.now())
	d := &Digest{Date: today, Total: len(todos), Metrics: metrics.Aggregate(todos)}
	for _, t := range todos {
		if t.Status {
			d.Done++
			continue
		}
		d.Open++
		if t.DueDate == nil {
			continue
		}
		switch {
		case t.DueDate.Before(today):
			d.Overdue++
		case *t.DueDate == today:
			d.DueToday++
		}
	}
	return d, nil
}

// Send builds the digest and hands it to every notifier. A failing
// notifier does not stop the others.
func (s *DigestService) Send(ctx context.Context) error {
	d, err := s.Build(ctx)
	if err != nil {
		return err
	}
	subject := "Todo digest for " + d.Date.String()
	body := d.Text()

	var errs []error
	for _, n := range s.notifiers {
		if err := n.Notify(ctx, subject, body); err != nil {
			log.Printf("[digest][%s][err] %v", n.Name(), err)
			errs = append(errs, err)
			continue
		}
		log.Printf("[digest][%s][ok] open=%d overdue=%d", n.Name(), d.Open, d.Overdue)
	}
	return errors.Join(errs...)
}

// Text renders the digest as plain text.
func (d *Digest) Text() string {
	var b strings.Builder
	fmt.Fprintf(&b, "Todos: %d total, %d open, %d done\n", d.Total, d.Open, d.Done)
	fmt.Fprintf(&b, "Overdue: %d, due today: %d\n", d.Overdue, d.DueToday)
	b.WriteString("Average time to finish (minutes):\n")
	fmt.Fprintf(&b, "  all:    %s\n", d.Metrics.AvgTime)
	for _, p := range models.Priorities {
		fmt.Fprintf(&b, "  %-7s %s\n", p.String()+":", d.Metrics.ForPriority(p))
	}
	return b.String()
}
