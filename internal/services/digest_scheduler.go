package services

import (
	"context"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/robfig/cron/v3"
)

// DigestScheduler runs jobs once a day at a wall clock time. A run that is
// still going when the next one is due gets skipped, and a panicking job is
// logged rather than taking the server down.
type DigestScheduler struct {
	cron *cron.Cron
	loc  *time.Location
}

func NewDigestScheduler(loc *time.Location) *DigestScheduler {
	if loc == nil {
		loc = time.Local
	}
	logger := cron.PrintfLogger(log.New(log.Writer(), "[digest][cron] ", log.LstdFlags))
	return &DigestScheduler{
		loc: loc,
		cron: cron.New(
			cron.WithLocation(loc),
			cron.WithLogger(logger),
			cron.WithChain(cron.Recover(logger), cron.SkipIfStillRunning(logger)),
		),
	}
}

// At registers job to fire every day at the HH:MM time in at.
func (s *DigestScheduler) At(at string, job func()) error {
	spec, err := dailySpec(at)
	if err != nil {
		return err
	}
	if _, err := s.cron.AddFunc(spec, job); err != nil {
		return fmt.Errorf("register digest job: %w", err)
	}
	return nil
}

// NextRun reports the earliest time any registered job fires after now.
// It returns the zero time when nothing is registered.
func (s *DigestScheduler) NextRun(now time.Time) time.Time {
	var next time.Time
	for _, e := range s.cron.Entries() {
		t := e.Schedule.Next(now.In(s.loc))
		if next.IsZero() || t.Before(next) {
			next = t
		}
	}
	return next
}

func (s *DigestScheduler) Start() {
	s.cron.Start()
}

// Stop halts the schedule and waits for a running job until ctx ends.
func (s *DigestScheduler) Stop(ctx context.Context) error {
	select {
	case <-s.cron.Stop().Done():
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// dailySpec turns "HH:MM" into a five field cron expression.
func dailySpec(at string) (string, error) {
	t, err := time.Parse("15:04", strings.TrimSpace(at))
	if err != nil {
		return "", fmt.Errorf("digest time %q: want HH:MM", at)
	}
	return fmt.Sprintf("%d %d * * *", t.Minute(), t.Hour()), nil
}
