package domain

import "errors"

var (
	ErrValidation    = errors.New("validation failed")
	ErrLoanNotFound  = errors.New("loan not found")
	ErrUserNotFound  = errors.New("user not found")
	ErrPartyNotFound = errors.New("borrower or lender not found")
	ErrInvalidRole   = errors.New("invalid role")
	ErrUserExists    = errors.New("user already exists")
)

// Error pairs one of the sentinel errors above with the message that is safe
// to show to API clients. errors.Is matches against Kind.
type Error struct {
	Kind    error
	Message string
}

func (e *Error) Error() string { return e.Message }

func (e *Error) Unwrap() error { return e.Kind }

// NewError builds a client-facing error of the given kind.
func NewError(kind error, message string) error {
	return &Error{Kind: kind, Message: message}
}
