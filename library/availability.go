package library

import (
	"sort"
	"time"
)

// Window is a contiguous span of time. Free windows returned by the engine
// are pairwise disjoint and sorted by start; point membership is half-open,
// the end instant itself is excluded.
type Window struct {
	Start time.Time
	End   time.Time
}

// Contains reports whether t falls inside [Start, End).
func (w Window) Contains(t time.Time) bool {
	return !t.Before(w.Start) && t.Before(w.End)
}

func (w Window) Duration() time.Duration { return w.End.Sub(w.Start) }

const (
	// Long-horizon query: where could a reservation start at all.
	longHorizonYears = 10
	longMinGapDays   = 1

	// Short-horizon slot picker.
	slotHorizonMonths  = 1
	slotConsiderMonths = 2
	slotMinGapDays     = 7

	// A returned book is not handed out again on the hour of handoff.
	handoffBufferDays = 1
)

// unavailableWindows collects every window during which the book cannot be
// handed out, sorted by start: loans with a due date still ahead contribute
// [earliest loan timestamp for the book, due date], reservations whose end
// is still ahead contribute [start date, end date].
func (c Catalog) unavailableWindows(bookID BookID) []Window {
	now := c.clock.Now()
	loanStart, haveLoanStart := c.firstLoanTimestamp(bookID)

	var windows []Window
	for _, tx := range c.transactions {
		switch t := tx.(type) {
		case Loan:
			if !t.Book.Equal(bookID) || t.DueDate == nil || !t.DueDate.After(now) {
				continue
			}
			start := t.At
			if haveLoanStart {
				start = loanStart
			}
			windows = append(windows, Window{Start: start, End: *t.DueDate})
		case Reservation:
			if !t.Book.Equal(bookID) || !t.EndDate.After(now) {
				continue
			}
			windows = append(windows, Window{Start: t.StartDate, End: t.EndDate})
		}
	}
	sort.Slice(windows, func(i, j int) bool { return windows[i].Start.Before(windows[j].Start) })
	return windows
}

// firstLoanTimestamp finds the earliest Loan for the book; the log is newest
// first, so the last match wins.
func (c Catalog) firstLoanTimestamp(bookID BookID) (time.Time, bool) {
	var ts time.Time
	found := false
	for _, tx := range c.transactions {
		if loan, ok := tx.(Loan); ok && loan.Book.Equal(bookID) {
			ts = loan.At
			found = true
		}
	}
	return ts, found
}

// freeWindows is the sweep shared by both reservation queries: walk the
// unavailable windows left to right from now, emit the gaps, pad each
// handoff by a day, close with the gap to the horizon, and drop anything
// shorter than the minimum. considerBefore filters out unavailable windows
// that begin after the cutoff; pass the horizon itself when no extra cutoff
// applies.
func (c Catalog) freeWindows(bookID BookID, horizon time.Time, minGapDays int, considerBefore time.Time) []Window {
	var free []Window
	cursor := c.clock.Now()
	for _, w := range c.unavailableWindows(bookID) {
		if !w.Start.Before(considerBefore) {
			continue
		}
		if cursor.Before(w.Start) {
			free = append(free, Window{Start: cursor, End: w.Start})
		}
		next := w.End.AddDate(0, 0, handoffBufferDays)
		if next.After(cursor) {
			// overlapping windows must not move the cursor backwards
			cursor = next
		}
	}
	if cursor.Before(horizon) {
		free = append(free, Window{Start: cursor, End: horizon})
	}
	return trimShortWindows(free, minGapDays)
}

func trimShortWindows(windows []Window, minDays int) []Window {
	minLength := time.Duration(minDays) * 24 * time.Hour
	var kept []Window
	for _, w := range windows {
		if w.Duration() >= minLength {
			kept = append(kept, w)
		}
	}
	return kept
}

// AvailabilityPeriods lists every free window for the book over the next ten
// years at one-day granularity. An empty result means the book cannot be
// reserved at all.
func (c Catalog) AvailabilityPeriods(bookID BookID) []Window {
	horizon := c.clock.Now().AddDate(longHorizonYears, 0, 0)
	return c.freeWindows(bookID, horizon, longMinGapDays, horizon)
}

// AvailableReservationSlots lists near-term free windows of at least a week
// within the next month, for a quick slot picker. Unavailable windows
// starting more than two months out are ignored.
func (c Catalog) AvailableReservationSlots(bookID BookID) []Window {
	now := c.clock.Now()
	return c.freeWindows(bookID,
		now.AddDate(0, slotHorizonMonths, 0),
		slotMinGapDays,
		now.AddDate(0, slotConsiderMonths, 0))
}

// IsDateAvailable reports whether date falls inside one of the previously
// computed free periods.
func IsDateAvailable(date time.Time, periods []Window) bool {
	for _, p := range periods {
		if p.Contains(date) {
			return true
		}
	}
	return false
}

// IsSlotAvailable reports whether [start, end) overlaps no loan or
// reservation window for the book.
func (c Catalog) IsSlotAvailable(bookID BookID, start, end time.Time) bool {
	for _, w := range c.unavailableWindows(bookID) {
		if end.After(w.Start) && start.Before(w.End) {
			return false
		}
	}
	return true
}

// NextAvailableDate is the day after the last unavailable window ends, or
// now when nothing blocks the book.
func (c Catalog) NextAvailableDate(bookID BookID) time.Time {
	now := c.clock.Now()
	var latest time.Time
	for _, w := range c.unavailableWindows(bookID) {
		if w.End.After(latest) {
			latest = w.End
		}
	}
	if latest.IsZero() {
		return now
	}
	return latest.AddDate(0, 0, 1)
}

// MaxReservationEnd is the end of the free period containing startDate. A
// start outside every period is a caller error; fall back to a single day.
func MaxReservationEnd(startDate time.Time, periods []Window) time.Time {
	for _, p := range periods {
		if p.Contains(startDate) {
			return p.End
		}
	}
	return startDate.AddDate(0, 0, 1)
}
