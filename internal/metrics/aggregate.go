// Package metrics computes average completion times from todo records.
package metrics

import "todolist/internal/models"

// NoData is the average of an empty population.
var NoData = models.Average{}

type bucket struct {
	sum   float64
	count int
}

func (b *bucket) add(seconds int64) {
	b.sum += float64(seconds)
	b.count++
}

func (b bucket) average() models.Average {
	if b.count == 0 {
		return NoData
	}
	return models.Average{Minutes: b.sum / float64(b.count) / 60, Valid: true}
}

// Aggregate averages ElapsedTime over the todos that have one, overall and
// per priority tier, in minutes. Todos without ElapsedTime count in neither
// the sum nor the denominator. The input is not modified.
func Aggregate(todos []models.Todo) models.Metrics {
	var all bucket
	tiers := make(map[models.Priority]*bucket, len(models.Priorities))
	for _, p := range models.Priorities {
		tiers[p] = &bucket{}
	}

	for i := range todos {
		elapsed := todos[i].ElapsedTime
		if elapsed == nil {
			continue
		}
		all.add(*elapsed)
		if b, ok := tiers[todos[i].Priority]; ok {
			b.add(*elapsed)
		}
	}

	return models.Metrics{
		AvgTime:       all.average(),
		AvgTimeLow:    tiers[models.PriorityLow].average(),
		AvgTimeMedium: tiers[models.PriorityMedium].average(),
		AvgTimeHigh:   tiers[models.PriorityHigh].average(),
	}
}
