package entity

import (
	"errors"
	"fmt"
	"time"
)

var (
	ErrAlreadySanctioned = errors.New("account is already sanctioned")
	ErrNotSanctioned     = errors.New("account is not sanctioned")
	ErrSelfFollow        = errors.New("cannot follow self")
	ErrAlreadyFollowing  = errors.New("already following this user")
	ErrNotFollowing      = errors.New("not following this user")
	ErrForbidden         = errors.New("forbidden")
	ErrAccountBanned     = errors.New("account is banned")
	ErrNoSuchIdentity    = errors.New("no account matches this identity")
	ErrAuthFailure       = errors.New("invalid credentials")

	ErrNotFound         = errors.New("not found")
	ErrNotVisible       = errors.New("not visible to this viewer")
	ErrProtectedAccount = errors.New("cannot operate on this user")
	ErrAccountInactive  = errors.New("account is inactive")
	ErrAccountMuted     = errors.New("account is muted")
	ErrUsernameTaken    = errors.New("username is already taken")
	ErrEmailTaken       = errors.New("email is already registered")
	ErrPhoneTaken       = errors.New("phone number is already registered")
	ErrInvalidPhone     = errors.New("invalid phone number")
	ErrCategoryExists   = errors.New("category name already exists")
	ErrInvalidInput     = errors.New("invalid input")
)

// SanctionError reports an active mute or ban together with the details
// recorded by the administrator. It matches ErrAccountBanned for bans.
type SanctionError struct {
	Kind   SanctionKind
	Reason string
	Until  *time.Time
	By     string
}

func (e *SanctionError) Error() string {
	if e.Kind == SanctionBan {
		return fmt.Sprintf("account is banned: %s", e.Reason)
	}
	return fmt.Sprintf("account is muted: %s", e.Reason)
}

func (e *SanctionError) Unwrap() error {
	if e.Kind == SanctionBan {
		return ErrAccountBanned
	}
	return ErrAccountMuted
}

// InvalidInputError carries a user-facing validation message.
type InvalidInputError struct {
	Field   string
	Message string
}

func (e *InvalidInputError) Error() string {
	if e.Field == "" {
		return e.Message
	}
	return e.Field + ": " + e.Message
}

func (e *InvalidInputError) Unwrap() error { return ErrInvalidInput }

func Invalid(field, message string) error {
	return &InvalidInputError{Field: field, Message: message}
}
