package entity

import (
	"errors"
	"fmt"
)

var (
	ErrUnauthorized       = errors.New("unauthorized")
	ErrMethodNotAllowed   = errors.New("method not allowed")
	ErrTaskNotFound       = errors.New("task not found")
	ErrUserNotFound       = errors.New("user not found")
	ErrUserExists         = errors.New("user already exists")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrInvalidTaskData    = errors.New("invalid task data")
	ErrInvalidUserData    = errors.New("invalid user data")
)

// ValidationError описывает отказ по входным данным клиента.
// errors.Is(err, Base) позволяет сопоставить его с ErrInvalidTaskData / ErrInvalidUserData.
type ValidationError struct {
	Base   error
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	if e.Field == "" {
		return e.Reason
	}
	return fmt.Sprintf("%s: %s", e.Field, e.Reason)
}

func (e *ValidationError) Unwrap() error {
	return e.Base
}

func NewTaskValidationError(field, reason string) *ValidationError {
	return &ValidationError{Base: ErrInvalidTaskData, Field: field, Reason: reason}
}

func NewUserValidationError(field, reason string) *ValidationError {
	return &ValidationError{Base: ErrInvalidUserData, Field: field, Reason: reason}
}

// ErrorKind - таксономия ошибок, по которой HTTP слой выбирает статус
type ErrorKind int

const (
	KindStore ErrorKind = iota
	KindUnauthenticated
	KindNotFound
	KindValidation
	KindMethodNotAllowed
	KindConflict
)

func (k ErrorKind) String() string {
	switch k {
	case KindUnauthenticated:
		return "UNAUTHENTICATED"
	case KindNotFound:
		return "NOT_FOUND"
	case KindValidation:
		return "VALIDATION_ERROR"
	case KindMethodNotAllowed:
		return "METHOD_NOT_ALLOWED"
	case KindConflict:
		return "CONFLICT"
	default:
		return "STORE_ERROR"
	}
}

// KindOf классифицирует ошибку. Всё, что не распознано, считается сбоем хранилища.
func KindOf(err error) ErrorKind {
	switch {
	case errors.Is(err, ErrUnauthorized), errors.Is(err, ErrInvalidCredentials):
		return KindUnauthenticated
	case errors.Is(err, ErrTaskNotFound), errors.Is(err, ErrUserNotFound):
		return KindNotFound
	case errors.Is(err, ErrInvalidTaskData), errors.Is(err, ErrInvalidUserData):
		return KindValidation
	case errors.Is(err, ErrMethodNotAllowed):
		return KindMethodNotAllowed
	case errors.Is(err, ErrUserExists):
		return KindConflict
	default:
		return KindStore
	}
}
