package models

import "time"

// Period names a relative time window anchored to a reference date.
type Period string

const (
	PeriodDay    Period = "day"
	PeriodWeek   Period = "week"
	PeriodMonth  Period = "month"
	PeriodCustom Period = "custom"
)

// DateRange is an explicit start/end date pair. When both bounds are set
// it overrides whatever Period says.
type DateRange struct {
	Start time.Time `json:"start"`
	End   time.Time `json:"end"`
}

// Set reports whether both bounds are present. An inverted range is still
// "set"; the filter engine treats it as an empty window rather than an
// error.
func (r DateRange) Set() bool {
	return !r.Start.IsZero() && !r.End.IsZero()
}

// FilterCriteria is the full set of dashboard filters applied to the
// report collection.
type FilterCriteria struct {
	Period        Period     `json:"period"`
	ReferenceDate time.Time  `json:"reference_date"`
	CustomRange   *DateRange `json:"custom_range,omitempty"`
	Category      string     `json:"category"`
	SearchTerm    string     `json:"search_term"`
}

// Stats summarizes a filtered result set. Change fields are percentages
// against the immediately preceding window of equal length, rounded to
// one decimal place.
type Stats struct {
	Total           int     `json:"total"`
	Pending         int     `json:"pending"`
	Completed       int     `json:"completed"`
	TotalChange     float64 `json:"total_change"`
	PendingChange   float64 `json:"pending_change"`
	CompletedChange float64 `json:"completed_change"`
}
