package library

import (
	cr "github.com/cockroachdb/errors"
)

// Role is the discriminant of the User sum. It determines loan limits, the
// loan period, reservation eligibility, and the overdue fee rate.
type Role int

const (
	RoleStudent Role = iota
	RoleFaculty
	RoleLibrarian
)

func (r Role) String() string {
	switch r {
	case RoleStudent:
		return "student"
	case RoleFaculty:
		return "faculty"
	case RoleLibrarian:
		return "librarian"
	default:
		return "unknown"
	}
}

// ParseRole is the inverse of String, used when loading persisted users.
func ParseRole(raw string) (Role, error) {
	switch raw {
	case "student":
		return RoleStudent, nil
	case "faculty":
		return RoleFaculty, nil
	case "librarian":
		return RoleLibrarian, nil
	default:
		return 0, cr.Mark(cr.Newf("unknown role %q", raw), ErrInvalidInput)
	}
}

// RoleRules are the business constants attached to a role. MaxLoans and
// LoanPeriodDays <= 0 mean unlimited / open-ended.
type RoleRules struct {
	MaxLoans         int
	LoanPeriodDays   int
	CanReserve       bool
	OverdueFeePerDay float64
}

func (r Role) Rules() RoleRules {
	switch r {
	case RoleStudent:
		return RoleRules{MaxLoans: 5, LoanPeriodDays: 30, CanReserve: true, OverdueFeePerDay: 0.50}
	case RoleFaculty:
		return RoleRules{MaxLoans: 10, LoanPeriodDays: 90, CanReserve: true, OverdueFeePerDay: 0.25}
	default:
		// Librarians borrow without limit or deadline and may not reserve.
		return RoleRules{}
	}
}

// User is the closed set of account variants: Student, Faculty, Librarian.
// The unexported method keeps the set closed to this package, so role
// dispatch by type switch stays exhaustive.
type User interface {
	UserID() UserID
	UserName() string
	Role() Role
	PasswordHash() string
	sealedUser()
}

// Student carries the field of study next to the common account data.
// Password holds a bcrypt hash, never the plain text.
type Student struct {
	ID       UserID
	Name     string
	Major    string
	Password string
}

func (s Student) UserID() UserID       { return s.ID }
func (s Student) UserName() string     { return s.Name }
func (s Student) Role() Role           { return RoleStudent }
func (s Student) PasswordHash() string { return s.Password }
func (Student) sealedUser()            {}

type Faculty struct {
	ID         UserID
	Name       string
	Department string
	Password   string
}

func (f Faculty) UserID() UserID       { return f.ID }
func (f Faculty) UserName() string     { return f.Name }
func (f Faculty) Role() Role           { return RoleFaculty }
func (f Faculty) PasswordHash() string { return f.Password }
func (Faculty) sealedUser()            {}

type Librarian struct {
	ID         UserID
	Name       string
	EmployeeNo string
	Password   string
}

func (l Librarian) UserID() UserID       { return l.ID }
func (l Librarian) UserName() string     { return l.Name }
func (l Librarian) Role() Role           { return RoleLibrarian }
func (l Librarian) PasswordHash() string { return l.Password }
func (Librarian) sealedUser()            {}

// RoleDetail returns the role-specific field for display and persistence.
func RoleDetail(u User) string {
	switch v := u.(type) {
	case Student:
		return v.Major
	case Faculty:
		return v.Department
	case Librarian:
		return v.EmployeeNo
	default:
		return ""
	}
}
