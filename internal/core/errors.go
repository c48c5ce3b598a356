package core

import (
	"errors"
	"fmt"
	"sort"
	"strings"
	"unicode/utf8"
)

// Sentinel errors returned by the services. Handlers map them to HTTP status
// codes.
var (
	ErrInvalidID          = errors.New("invalid id")
	ErrUserNotFound       = errors.New("user not found")
	ErrCartNotFound       = errors.New("cart not found")
	ErrProductNotFound    = errors.New("product not found")
	ErrCategoryNotFound   = errors.New("category not found")
	ErrVariantNotFound    = errors.New("variant not found")
	ErrSizeNotFound       = errors.New("size not found")
	ErrInvalidCredentials = errors.New("incorrect email or password")
	ErrUnauthorized       = errors.New("you are not logged in, please log in to get access")
	ErrSessionExpired     = errors.New("your session has expired, please log in again")
	ErrUserGone           = errors.New("the user belonging to this token no longer exists")
	ErrForbidden          = errors.New("you do not have permission to access this feature")
	ErrUserBanned         = errors.New("your account has been banned")
	ErrInvalidResetToken  = errors.New("token is invalid or has expired")
	ErrSelfAction         = errors.New("you cannot perform this action on your own account")
)

// ValidationError reports every invalid field of an input at once.
type ValidationError struct {
	Message string
	Fields  map[string]string
}

func (e *ValidationError) Error() string {
	keys := make([]string, 0, len(e.Fields))
	for k := range e.Fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		parts = append(parts, k+": "+e.Fields[k])
	}
	if len(parts) == 0 {
		return e.Message
	}
	return e.Message + " (" + strings.Join(parts, "; ") + ")"
}

// fieldErrors collects field messages; the first message per field wins.
type fieldErrors map[string]string

func (f fieldErrors) add(field, message string) {
	if _, ok := f[field]; !ok {
		f[field] = message
	}
}

// length adds a field error when value has fewer than lo or more than hi
// characters.
func (f fieldErrors) length(field, value string, lo, hi int) {
	switch n := utf8.RuneCountInString(value); {
	case n < lo:
		f.add(field, fmt.Sprintf("Must be at least %d characters", lo))
	case n > hi:
		f.add(field, fmt.Sprintf("Must be at most %d characters", hi))
	}
}

func (f fieldErrors) err(message string) error {
	if len(f) == 0 {
		return nil
	}
	return &ValidationError{Message: message, Fields: f}
}

func newFieldError(message, field, fieldMessage string) *ValidationError {
	return &ValidationError{Message: message, Fields: map[string]string{field: fieldMessage}}
}
