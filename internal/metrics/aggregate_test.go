package metrics

import (
	"encoding/json"
	"math"
	"reflect"
	"testing"

	"todolist/internal/models"
)

func seconds(n int64) *int64 {
	return &n
}

func assertMinutes(t *testing.T, name string, got models.Average, want float64) {
	t.Helper()
	v, ok := got.Value()
	if !ok {
		t.Fatalf("%s: expected %.2f minutes, got no data", name, want)
	}
	if math.Abs(v-want) > 1e-9 {
		t.Fatalf("%s: expected %.4f minutes, got %.4f", name, want, v)
	}
}

func assertNoData(t *testing.T, name string, got models.Average) {
	t.Helper()
	if got.Valid {
		t.Fatalf("%s: expected no data, got %v", name, got.Minutes)
	}
}

func TestAggregateSkipsIncompleteTodos(t *testing.T) {
	todos := []models.Todo{
		{Priority: models.PriorityLow, ElapsedTime: seconds(600)},
		{Priority: models.PriorityLow, ElapsedTime: seconds(1200)},
		{Priority: models.PriorityMedium},
	}

	m := Aggregate(todos)

	assertMinutes(t, "overall", m.AvgTime, 15)
	assertMinutes(t, "low", m.AvgTimeLow, 15)
	assertNoData(t, "medium", m.AvgTimeMedium)
	assertNoData(t, "high", m.AvgTimeHigh)
}

func TestAggregateEmpty(t *testing.T) {
	m := Aggregate(nil)
	assertNoData(t, "overall", m.AvgTime)
	assertNoData(t, "low", m.AvgTimeLow)
	assertNoData(t, "medium", m.AvgTimeMedium)
	assertNoData(t, "high", m.AvgTimeHigh)
}

func TestAggregatePerTier(t *testing.T) {
	todos := []models.Todo{
		{Priority: models.PriorityLow, ElapsedTime: seconds(60)},
		{Priority: models.PriorityMedium, ElapsedTime: seconds(120)},
		{Priority: models.PriorityMedium, ElapsedTime: seconds(240)},
		{Priority: models.PriorityHigh, ElapsedTime: seconds(0)},
	}

	m := Aggregate(todos)

	assertMinutes(t, "overall", m.AvgTime, 420.0/4/60)
	assertMinutes(t, "low", m.AvgTimeLow, 1)
	assertMinutes(t, "medium", m.AvgTimeMedium, 3)
	assertMinutes(t, "high", m.AvgTimeHigh, 0)
}

func TestAggregateUnknownTierCountsOnlyOverall(t *testing.T) {
	m := Aggregate([]models.Todo{{Priority: 0, ElapsedTime: seconds(300)}})
	assertMinutes(t, "overall", m.AvgTime, 5)
	assertNoData(t, "low", m.AvgTimeLow)
}

func TestAggregateDoesNotMutateInput(t *testing.T) {
	todos := []models.Todo{
		{ID: 1, Priority: models.PriorityHigh, ElapsedTime: seconds(90)},
		{ID: 2, Priority: models.PriorityLow},
	}
	before := make([]models.Todo, len(todos))
	copy(before, todos)

	Aggregate(todos)

	if !reflect.DeepEqual(before, todos) {
		t.Fatalf("input was modified: %+v", todos)
	}
}

func TestMetricsJSONRendersNoDataAsNull(t *testing.T) {
	m := Aggregate([]models.Todo{{Priority: models.PriorityLow, ElapsedTime: seconds(90)}})
	b, err := json.Marshal(m)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	want := `{"avgTime":1.5,"avgTimeLow":1.5,"avgTimeMedium":null,"avgTimeHigh":null}`
	if string(b) != want {
		t.Fatalf("expected %s, got %s", want, b)
	}

	var back models.Metrics
	if err := json.Unmarshal(b, &back); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if back != m {
		t.Fatalf("expected %+v, got %+v", m, back)
	}
}

func TestAverageString(t *testing.T) {
	if s := NoData.String(); s != "no data" {
		t.Fatalf("expected \"no data\", got %q", s)
	}
	if s := (models.Average{Minutes: 2.5, Valid: true}).String(); s != "2.50" {
		t.Fatalf("expected \"2.50\", got %q", s)
	}
}
