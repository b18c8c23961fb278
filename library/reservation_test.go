package library

import (
	errors "github.com/cockroachdb/errors"
	"testing"
	"time"
)

func TestReserveHappyPath(t *testing.T) {
	f := newFixture(t)

	draft, err := f.catalog.StartReservation(f.bookID, f.faculty.ID)
	if err != nil {
		t.Fatalf("start: %v", err)
	}
	if len(draft.Periods()) != 1 {
		t.Fatalf("periods = %d, want 1", len(draft.Periods()))
	}

	c, receipt, err := f.catalog.CompleteReservation(draft, "2026-03-06")
	if err != nil {
		t.Fatalf("complete: %v", err)
	}
	wantStart := time.Date(2026, time.March, 6, 0, 0, 0, 0, time.UTC)
	if !receipt.Reservation.StartDate.Equal(wantStart) {
		t.Fatalf("start = %v, want %v", receipt.Reservation.StartDate, wantStart)
	}
	// Inside a ten-year free period the one-month cap applies.
	if !receipt.Reservation.EndDate.Equal(wantStart.AddDate(0, 1, 0)) {
		t.Fatalf("end = %v, want one month after start", receipt.Reservation.EndDate)
	}
	if !receipt.Reservation.At.Equal(testEpoch) {
		t.Fatalf("reservation timestamp = %v, want clock now", receipt.Reservation.At)
	}
	if got := len(c.Transactions()); got != 1 {
		t.Fatalf("transactions = %d, want 1", got)
	}
}

func TestReserveLibrarianNotAllowed(t *testing.T) {
	f := newFixture(t)
	_, err := f.catalog.StartReservation(f.bookID, f.librarian.ID)
	if !errors.Is(err, ErrReserveNotAllowed) {
		t.Fatalf("expected ErrReserveNotAllowed, got %v", err)
	}
}

func TestReserveUnknownBookOrUser(t *testing.T) {
	f := newFixture(t)
	if _, err := f.catalog.StartReservation(mustBookID(t, "missing"), f.student.ID); !errors.Is(err, ErrBookNotFound) {
		t.Fatalf("expected ErrBookNotFound, got %v", err)
	}
	if _, err := f.catalog.StartReservation(f.bookID, NewUserID()); !errors.Is(err, ErrUserNotFound) {
		t.Fatalf("expected ErrUserNotFound, got %v", err)
	}
}

func TestReserveCancel(t *testing.T) {
	f := newFixture(t)
	draft, err := f.catalog.StartReservation(f.bookID, f.student.ID)
	if err != nil {
		t.Fatalf("start: %v", err)
	}

	for _, input := range []string{"cancel", " CANCEL ", "Cancel"} {
		c, _, err := f.catalog.CompleteReservation(draft, input)
		if !errors.Is(err, ErrReservationCancelled) {
			t.Fatalf("input %q: expected ErrReservationCancelled, got %v", input, err)
		}
		if got := len(c.Transactions()); got != 0 {
			t.Fatalf("cancel must not record a transaction, got %d", got)
		}
	}
}

func TestReserveBadDate(t *testing.T) {
	f := newFixture(t)
	draft, err := f.catalog.StartReservation(f.bookID, f.student.ID)
	if err != nil {
		t.Fatalf("start: %v", err)
	}
	_, _, err = f.catalog.CompleteReservation(draft, "06/03/2026")
	if !errors.Is(err, ErrBadDate) {
		t.Fatalf("expected ErrBadDate, got %v", err)
	}
	if !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("expected invalid-input kind, got %v", err)
	}
}

func TestReserveDateUnavailable(t *testing.T) {
	f := newFixture(t)
	c, _, err := f.catalog.LoanBook(f.bookID, f.student.ID)
	if err != nil {
		t.Fatalf("loan: %v", err)
	}

	draft, err := c.StartReservation(f.bookID, f.faculty.ID)
	if err != nil {
		t.Fatalf("start: %v", err)
	}
	// The book is on loan until the end of March; the 6th is blocked.
	_, _, err = c.CompleteReservation(draft, "2026-03-06")
	if !errors.Is(err, ErrDateUnavailable) {
		t.Fatalf("expected ErrDateUnavailable, got %v", err)
	}
}

func TestReserveEndClampedByPeriod(t *testing.T) {
	f := newFixture(t)
	blocked := Window{Start: day(10), End: day(40)}
	c := reservedCatalog(t, f, blocked)

	draft, err := c.StartReservation(f.bookID, f.student.ID)
	if err != nil {
		t.Fatalf("start: %v", err)
	}
	c, receipt, err := c.CompleteReservation(draft, "2026-03-05")
	if err != nil {
		t.Fatalf("complete: %v", err)
	}
	// One month out would collide with the existing reservation, so the end
	// clamps to the free period boundary.
	if !receipt.Reservation.EndDate.Equal(blocked.Start) {
		t.Fatalf("end = %v, want %v", receipt.Reservation.EndDate, blocked.Start)
	}
	if got := len(c.Transactions()); got != 2 {
		t.Fatalf("transactions = %d, want 2", got)
	}
}

func TestReservePeriodTooShort(t *testing.T) {
	f := newFixture(t)
	// Free period runs from noon March 1 to 6pm March 2. Starting at
	// midnight March 2 leaves only 18 hours.
	c := reservedCatalog(t, f, Window{Start: day(1).Add(6 * time.Hour), End: day(20)})

	draft, err := c.StartReservation(f.bookID, f.student.ID)
	if err != nil {
		t.Fatalf("start: %v", err)
	}
	_, _, err = c.CompleteReservation(draft, "2026-03-02")
	if !errors.Is(err, ErrPeriodTooShort) {
		t.Fatalf("expected ErrPeriodTooShort, got %v", err)
	}
}

func TestReservationIsAdvisoryForLoans(t *testing.T) {
	f := newFixture(t)
	c, _, err := f.catalog.ReserveBook(f.bookID, f.faculty.ID, "2026-03-06")
	if err != nil {
		t.Fatalf("reserve: %v", err)
	}
	// A reservation blocks other reservations, not a loan over the counter.
	c, _, err = c.LoanBook(f.bookID, f.student.ID)
	if err != nil {
		t.Fatalf("loan inside reservation window: %v", err)
	}
	if got := c.ActiveLoansFor(f.student.ID); got != 1 {
		t.Fatalf("active loans = %d, want 1", got)
	}
}

func TestSecondOverlappingReservationBlocked(t *testing.T) {
	f := newFixture(t)
	c, _, err := f.catalog.ReserveBook(f.bookID, f.faculty.ID, "2026-03-06")
	if err != nil {
		t.Fatalf("first reserve: %v", err)
	}
	_, _, err = c.ReserveBook(f.bookID, f.student.ID, "2026-03-10")
	if !errors.Is(err, ErrDateUnavailable) {
		t.Fatalf("expected ErrDateUnavailable, got %v", err)
	}
}

func TestOneShotReserveBook(t *testing.T) {
	f := newFixture(t)
	c, receipt, err := f.catalog.ReserveBook(f.bookID, f.student.ID, "2026-04-01")
	if err != nil {
		t.Fatalf("reserve: %v", err)
	}
	if receipt.Holder.UserID() != f.student.ID {
		t.Fatalf("holder mismatch")
	}
	if got := len(c.Transactions()); got != 1 {
		t.Fatalf("transactions = %d, want 1", got)
	}
}
