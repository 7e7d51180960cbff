package filter

import (
	"math"
	"sort"
	"strings"
	"time"

	"github.com/lumvida/lumvida-backend/internal/models"
)

// Engine filters and aggregates an in-memory report snapshot. It holds no
// state of its own: Apply is a pure function of (records, criteria), safe
// to call on every store change notification.
type Engine struct{}

// New creates a filter engine.
func New() *Engine {
	return &Engine{}
}

// Apply returns the records matching criteria, newest first, together
// with summary statistics for the matched window. The input slice is
// never mutated.
func (e *Engine) Apply(records []models.Report, criteria models.FilterCriteria) ([]models.Report, models.Stats) {
	ref := criteria.ReferenceDate
	if ref.IsZero() {
		ref = time.Now()
	}
	ref = ref.UTC()

	window, bounded, empty := resolveWindow(criteria, ref)
	if empty {
		return []models.Report{}, models.Stats{}
	}

	matches := collect(records, criteria, window, bounded)

	// Stable: ties keep their original relative order, there is no
	// secondary sort key upstream.
	sort.SliceStable(matches, func(i, j int) bool {
		return matches[i].Fecha.After(*matches[j].Fecha)
	})

	stats := count(matches)
	if bounded {
		prev := count(collect(records, criteria, window.previous(), true))
		stats.TotalChange = changePercent(stats.Total, prev.Total)
		stats.PendingChange = changePercent(stats.Pending, prev.Pending)
		stats.CompletedChange = changePercent(stats.Completed, prev.Completed)
	}

	return matches, stats
}

// window is a closed interval in UTC.
type window struct {
	start time.Time
	end   time.Time
}

func (w window) contains(t time.Time) bool {
	t = t.UTC()
	return !t.Before(w.start) && !t.After(w.end)
}

// previous is the immediately preceding window of equal length.
func (w window) previous() window {
	span := w.end.Sub(w.start) + time.Nanosecond
	return window{start: w.start.Add(-span), end: w.start.Add(-time.Nanosecond)}
}

// resolveWindow derives the time window from the criteria. All window
// math is UTC: the source mixed UTC for custom ranges with local time for
// periods, which is a latent inconsistency rather than a behavior worth
// keeping. A set custom range always wins over the period; an inverted
// range yields an empty result instead of an error.
func resolveWindow(c models.FilterCriteria, ref time.Time) (w window, bounded, empty bool) {
	if c.CustomRange != nil && c.CustomRange.Set() {
		start := dayStart(c.CustomRange.Start)
		end := dayEnd(c.CustomRange.End)
		if start.After(end) {
			return window{}, true, true
		}
		return window{start: start, end: end}, true, false
	}

	switch c.Period {
	case models.PeriodDay:
		return window{start: dayStart(ref), end: dayEnd(ref)}, true, false
	case models.PeriodWeek:
		// Five calendar days starting at the reference, not an ISO week.
		start := dayStart(ref)
		return window{start: start, end: dayEnd(start.AddDate(0, 0, 4))}, true, false
	case models.PeriodMonth:
		start := time.Date(ref.Year(), ref.Month(), 1, 0, 0, 0, 0, time.UTC)
		return window{start: start, end: start.AddDate(0, 1, 0).Add(-time.Nanosecond)}, true, false
	default:
		return window{}, false, false
	}
}

func dayStart(t time.Time) time.Time {
	t = t.UTC()
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

func dayEnd(t time.Time) time.Time {
	return dayStart(t).AddDate(0, 0, 1).Add(-time.Nanosecond)
}

func collect(records []models.Report, c models.FilterCriteria, w window, bounded bool) []models.Report {
	term := strings.ToLower(strings.TrimSpace(c.SearchTerm))
	out := make([]models.Report, 0, len(records))

	for _, r := range records {
		// Records without a usable timestamp never appear in filtered
		// views.
		if r.Fecha == nil {
			continue
		}
		if bounded && !w.contains(*r.Fecha) {
			continue
		}
		if c.Category != "" && c.Category != models.CategoryAll && r.Categoria != c.Category {
			continue
		}
		if term != "" && !matchesSearch(r, term) {
			continue
		}
		out = append(out, r)
	}
	return out
}

// matchesSearch checks the lower-cased term against folio, category,
// address and status. Empty fields never match.
func matchesSearch(r models.Report, term string) bool {
	for _, field := range []string{r.Folio, r.Categoria, r.Direccion, r.Estado} {
		if field == "" {
			continue
		}
		if strings.Contains(strings.ToLower(field), term) {
			return true
		}
	}
	return false
}

func count(matches []models.Report) models.Stats {
	stats := models.Stats{Total: len(matches)}
	for i := range matches {
		switch {
		case matches[i].IsPending():
			stats.Pending++
		case matches[i].IsCompleted():
			stats.Completed++
		}
	}
	return stats
}

// changePercent is ((current-previous)/previous)*100 rounded to one
// decimal, with 100 for growth from zero and 0 when both are zero.
func changePercent(current, previous int) float64 {
	if previous == 0 {
		if current > 0 {
			return 100
		}
		return 0
	}
	raw := float64(current-previous) / float64(previous) * 100
	return math.Round(raw*10) / 10
}
