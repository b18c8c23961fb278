package library

import (
	"strings"
	"time"
)

// CancelSentinel aborts the reservation workflow when supplied in place of a
// start date.
const CancelSentinel = "cancel"

// DateLayout is the format for user-entered dates.
const DateLayout = "2006-01-02"

// ReservationDraft is the paused middle of the reservation workflow: book
// and user resolved, eligibility checked, free periods computed. The
// interactive layer shows the periods, collects a start date, and completes
// the draft against those same periods.
type ReservationDraft struct {
	book    Book
	user    User
	periods []Window
}

func (d *ReservationDraft) Book() Book { return d.book }
func (d *ReservationDraft) User() User { return d.user }

func (d *ReservationDraft) Periods() []Window {
	return append([]Window(nil), d.periods...)
}

// StartReservation checks that book and user exist, that the user's role may
// reserve, and that at least one free period exists.
func (c Catalog) StartReservation(bookID BookID, userID UserID) (*ReservationDraft, error) {
	book, ok := c.books[bookID]
	if !ok {
		return nil, ErrBookNotFound
	}
	user, ok := c.users[userID]
	if !ok {
		return nil, ErrUserNotFound
	}
	if !user.Role().Rules().CanReserve {
		return nil, ErrReserveNotAllowed
	}
	periods := c.AvailabilityPeriods(bookID)
	if len(periods) == 0 {
		return nil, ErrNoAvailability
	}
	return &ReservationDraft{book: book, user: user, periods: periods}, nil
}

// ReservationReceipt reports a committed reservation.
type ReservationReceipt struct {
	Reservation Reservation
	Book        Book
	Holder      User
}

// CompleteReservation validates the caller-supplied start date and commits.
// startInput is either a date in DateLayout or the cancel sentinel. The
// reservation runs from the start date to the earlier of the containing
// period's end and one month out, and must cover at least a whole day.
func (c Catalog) CompleteReservation(draft *ReservationDraft, startInput string) (Catalog, *ReservationReceipt, error) {
	input := strings.TrimSpace(startInput)
	if strings.EqualFold(input, CancelSentinel) {
		return c, nil, ErrReservationCancelled
	}
	startDate, err := time.Parse(DateLayout, input)
	if err != nil {
		return c, nil, ErrBadDate
	}
	if !IsDateAvailable(startDate, draft.periods) {
		return c, nil, ErrDateUnavailable
	}

	maxEnd := MaxReservationEnd(startDate, draft.periods)
	actualEnd := startDate.AddDate(0, 1, 0)
	if maxEnd.Before(actualEnd) {
		actualEnd = maxEnd
	}
	if daysBetween(startDate, actualEnd) < 1 {
		return c, nil, ErrPeriodTooShort
	}

	res := Reservation{
		Book:      draft.book.ID,
		User:      draft.user.UserID(),
		At:        c.clock.Now(),
		StartDate: startDate,
		EndDate:   actualEnd,
	}
	c.transactions = c.prepend(res)
	return c, &ReservationReceipt{Reservation: res, Book: draft.book, Holder: draft.user}, nil
}

// ReserveBook is the one-shot composition of both workflow phases.
func (c Catalog) ReserveBook(bookID BookID, userID UserID, startInput string) (Catalog, *ReservationReceipt, error) {
	draft, err := c.StartReservation(bookID, userID)
	if err != nil {
		return c, nil, err
	}
	return c.CompleteReservation(draft, startInput)
}

// daysBetween truncates to whole days.
func daysBetween(start, end time.Time) int {
	return int(end.Sub(start).Hours() / 24)
}
