package services

import (
	"errors"
	"fmt"
)

// ErrorKind classifies business-rule violations for callers
type ErrorKind string

const (
	ErrInvalidInput           ErrorKind = "INVALID_INPUT"
	ErrNotFound               ErrorKind = "NOT_FOUND"
	ErrDuplicateCode          ErrorKind = "DUPLICATE_CODE"
	ErrReferencedByAssignment ErrorKind = "REFERENCED_BY_ASSIGNMENT"
	ErrAlreadyClaimed         ErrorKind = "ALREADY_CLAIMED"
	ErrUnauthorized           ErrorKind = "UNAUTHORIZED"
	ErrInvalidToken           ErrorKind = "INVALID_TOKEN"
)

// Error is a business-rule violation with a message fit for the admin UI
type Error struct {
	Kind    ErrorKind `json:"code"`
	Message string    `json:"message"`
	Err     error     `json:"-"`
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s [%s]: %v", e.Message, e.Kind, e.Err)
	}
	return fmt.Sprintf("%s [%s]", e.Message, e.Kind)
}

func (e *Error) Unwrap() error {
	return e.Err
}

// NewError creates a new business-rule error
func NewError(kind ErrorKind, message string, err error) *Error {
	return &Error{Kind: kind, Message: message, Err: err}
}

// KindOf returns the kind of err, or "" when err is not a business-rule error
func KindOf(err error) ErrorKind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return ""
}

// IsKind reports whether err is a business-rule error of the given kind
func IsKind(err error, kind ErrorKind) bool {
	return KindOf(err) == kind
}
