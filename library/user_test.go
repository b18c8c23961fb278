package library

import (
	errors "github.com/cockroachdb/errors"
	"testing"
)

func TestRoleRules(t *testing.T) {
	cases := []struct {
		role Role
		want RoleRules
	}{
		{RoleStudent, RoleRules{MaxLoans: 5, LoanPeriodDays: 30, CanReserve: true, OverdueFeePerDay: 0.50}},
		{RoleFaculty, RoleRules{MaxLoans: 10, LoanPeriodDays: 90, CanReserve: true, OverdueFeePerDay: 0.25}},
		{RoleLibrarian, RoleRules{}},
	}
	for _, tc := range cases {
		if got := tc.role.Rules(); got != tc.want {
			t.Errorf("%s rules = %+v, want %+v", tc.role, got, tc.want)
		}
	}
}

func TestParseRoleRoundTrip(t *testing.T) {
	for _, role := range []Role{RoleStudent, RoleFaculty, RoleLibrarian} {
		parsed, err := ParseRole(role.String())
		if err != nil {
			t.Fatalf("parse %s: %v", role, err)
		}
		if parsed != role {
			t.Fatalf("parse %s = %v", role, parsed)
		}
	}

	if _, err := ParseRole("janitor"); !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput, got %v", err)
	}
}

func TestRoleDetail(t *testing.T) {
	if got := RoleDetail(Student{Major: "History"}); got != "History" {
		t.Errorf("student detail = %q", got)
	}
	if got := RoleDetail(Faculty{Department: "Math"}); got != "Math" {
		t.Errorf("faculty detail = %q", got)
	}
	if got := RoleDetail(Librarian{EmployeeNo: "L-001"}); got != "L-001" {
		t.Errorf("librarian detail = %q", got)
	}
}

func TestPasswordHashAndCheck(t *testing.T) {
	hash, err := HashPassword("hunter2")
	if err != nil {
		t.Fatalf("hash: %v", err)
	}
	if hash == "hunter2" {
		t.Fatalf("hash must not equal the plain text")
	}
	if !CheckPassword(hash, "hunter2") {
		t.Fatalf("correct password rejected")
	}
	if CheckPassword(hash, "hunter3") {
		t.Fatalf("wrong password accepted")
	}

	if _, err := HashPassword("   "); !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput for blank password, got %v", err)
	}
}

func TestNewBookIDValidation(t *testing.T) {
	id, err := NewBookID("  go-primer  ")
	if err != nil {
		t.Fatalf("new: %v", err)
	}
	if id.String() != "go-primer" {
		t.Fatalf("id = %q, want trimmed", id.String())
	}
	if id.IsZero() {
		t.Fatalf("valid id reported zero")
	}

	for _, raw := range []string{"", "   ", "\t\n"} {
		if _, err := NewBookID(raw); !errors.Is(err, ErrInvalidInput) {
			t.Fatalf("raw %q: expected ErrInvalidInput, got %v", raw, err)
		}
	}
}

func TestParseUserID(t *testing.T) {
	id := NewUserID()
	parsed, err := ParseUserID(id.String())
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if !parsed.Equal(id) {
		t.Fatalf("round trip mismatch: %v != %v", parsed, id)
	}

	if _, err := ParseUserID("not-a-uuid"); !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput, got %v", err)
	}
	if !(UserID{}).IsZero() {
		t.Fatalf("zero value should report IsZero")
	}
}

func TestNewBookValidation(t *testing.T) {
	id := BookID{value: "b1"}

	if _, err := NewBook(id, "  ", []string{"A"}, 2020, "g"); !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("blank title: expected ErrInvalidInput, got %v", err)
	}
	if _, err := NewBook(id, "T", []string{" ", ""}, 2020, "g"); !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("no authors: expected ErrInvalidInput, got %v", err)
	}

	b, err := NewBook(id, " T ", []string{" A ", "", "B"}, 2020, " g ")
	if err != nil {
		t.Fatalf("new: %v", err)
	}
	if b.Title != "T" || b.Genre != "g" {
		t.Fatalf("fields not trimmed: %+v", b)
	}
	if len(b.Authors) != 2 {
		t.Fatalf("authors = %v, want blank entries dropped", b.Authors)
	}
	if !b.Available {
		t.Fatalf("new book should start available")
	}
}
