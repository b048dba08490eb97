package session

import (
	"context"
	"errors"
)

var (
	ErrNotSignedIn        = errors.New("not signed in")
	ErrInvalidCredentials = errors.New("invalid email or password")
)

// Info describes the signed-in staff member
type Info struct {
	EmployeeID string `json:"employee_id"`
	Email      string `json:"email"`
}

// Service owns the staff member's session against the remote HRIS backend.
// The agent never verifies remote-issued tokens; it forwards them and reads
// claims parse-only.
type Service interface {
	SignIn(ctx context.Context, email, password string) (*Info, error)
	SignOut()
	SignedIn() bool
	Current() (*Info, bool)
}

// TokenProvider hands out a valid bearer token for remote calls, refreshing
// it when expired
type TokenProvider interface {
	// Token returns ErrNotSignedIn when no session is active
	Token(ctx context.Context) (string, error)
	// EmployeeID returns "" when no session is active
	EmployeeID() string
}
