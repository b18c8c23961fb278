package library

import (
	cr "github.com/cockroachdb/errors"
)

// Error kinds. Every business-rule failure in this package is marked with
// exactly one of these, so callers can classify with errors.Is without
// depending on the individual sentinel.
var (
	ErrNotFound         = cr.New("not found")
	ErrStateConflict    = cr.New("state conflict")
	ErrInvalidInput     = cr.New("invalid input")
	ErrPermissionDenied = cr.New("permission denied")
)

// Specific failures, each tagged with its kind.
var (
	ErrBookNotFound = cr.Mark(cr.New("book not found"), ErrNotFound)
	ErrUserNotFound = cr.Mark(cr.New("user not found"), ErrNotFound)

	ErrBookUnavailable   = cr.Mark(cr.New("book is not available"), ErrStateConflict)
	ErrLoanLimitReached  = cr.Mark(cr.New("loan limit reached"), ErrStateConflict)
	ErrNoActiveLoan      = cr.Mark(cr.New("no active loan for this book and user"), ErrStateConflict)
	ErrReserveNotAllowed = cr.Mark(cr.New("role may not reserve books"), ErrStateConflict)
	ErrNoAvailability    = cr.Mark(cr.New("no availability periods for this book"), ErrStateConflict)
	ErrDateUnavailable   = cr.Mark(cr.New("requested date is not available"), ErrStateConflict)
	ErrBookOnLoan        = cr.Mark(cr.New("book is currently on loan"), ErrStateConflict)
	ErrUserHasLoans      = cr.Mark(cr.New("user still has active loans"), ErrStateConflict)

	ErrBadDate        = cr.Mark(cr.New("unparseable date"), ErrInvalidInput)
	ErrPeriodTooShort = cr.Mark(cr.New("reservation period is shorter than one day"), ErrInvalidInput)

	ErrLibrarianOnly  = cr.Mark(cr.New("operation requires a librarian"), ErrPermissionDenied)
	ErrBadCredentials = cr.Mark(cr.New("invalid credentials"), ErrPermissionDenied)
)

// ErrReservationCancelled reports that the caller supplied the cancel
// sentinel instead of a start date. It is not a failure kind; the interactive
// layer treats it as a normal outcome.
var ErrReservationCancelled = cr.New("reservation cancelled")
