package models

import (
	"bytes"
	"encoding/json"
	"strconv"
)

// Average is an average completion time in minutes that may be undefined
// when its population is empty.
type Average struct {
	Minutes float64
	Valid   bool
}

func (a Average) Value() (float64, bool) {
	return a.Minutes, a.Valid
}

// String renders two decimals, or "no data" for an undefined average.
func (a Average) String() string {
	if !a.Valid {
		return "no data"
	}
	return strconv.FormatFloat(a.Minutes, 'f', 2, 64)
}

func (a Average) MarshalJSON() ([]byte, error) {
	if !a.Valid {
		return []byte("null"), nil
	}
	return json.Marshal(a.Minutes)
}

func (a *Average) UnmarshalJSON(b []byte) error {
	if bytes.Equal(bytes.TrimSpace(b), []byte("null")) {
		*a = Average{}
		return nil
	}
	var v float64
	if err := json.Unmarshal(b, &v); err != nil {
		return err
	}
	*a = Average{Minutes: v, Valid: true}
	return nil
}

// Metrics holds average completion times, overall and per priority tier.
type Metrics struct {
	AvgTime       Average `json:"avgTime"`
	AvgTimeLow    Average `json:"avgTimeLow"`
	AvgTimeMedium Average `json:"avgTimeMedium"`
	AvgTimeHigh   Average `json:"avgTimeHigh"`
}

// ForPriority returns the tier average for p.
func (m Metrics) ForPriority(p Priority) Average {
	switch p {
	case PriorityLow:
		return m.AvgTimeLow
	case PriorityMedium:
		return m.AvgTimeMedium
	case PriorityHigh:
		return m.AvgTimeHigh
	}
	return Average{}
}
