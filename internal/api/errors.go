package api

import (
	"context"
	"errors"
	"fmt"
)

// ErrorType categorizes client errors for handling.
type ErrorType int

const (
	ErrTypeUnknown ErrorType = iota
	ErrTypeConnection
	ErrTypeStatus
	ErrTypeInvalidResponse
	ErrTypeCancelled
)

func (t ErrorType) String() string {
	switch t {
	case ErrTypeConnection:
		return "connection"
	case ErrTypeStatus:
		return "status"
	case ErrTypeInvalidResponse:
		return "invalid_response"
	case ErrTypeCancelled:
		return "cancelled"
	}
	return "unknown"
}

// ClientError represents an error from the diabeGuide API client.
type ClientError struct {
	Type    ErrorType
	Status  int
	Message string
	Cause   error
}

func (e *ClientError) Error() string {
	msg := e.Message
	if e.Status != 0 {
		msg = fmt.Sprintf("%s (HTTP %d)", msg, e.Status)
	}
	if e.Cause != nil {
		return msg + ": " + e.Cause.Error()
	}
	return msg
}

func (e *ClientError) Unwrap() error {
	return e.Cause
}

// IsCancelled reports whether err is an explicit cancellation rather than a failure.
func IsCancelled(err error) bool {
	var ce *ClientError
	if errors.As(err, &ce) {
		return ce.Type == ErrTypeCancelled
	}
	return errors.Is(err, context.Canceled)
}

// ErrorTypeOf returns the category of err, ErrTypeUnknown for foreign errors.
func ErrorTypeOf(err error) ErrorType {
	var ce *ClientError
	if errors.As(err, &ce) {
		return ce.Type
	}
	return ErrTypeUnknown
}

func transportError(ctx context.Context, err error) error {
	if ctx.Err() != nil {
		return &ClientError{Type: ErrTypeCancelled, Message: "request cancelled", Cause: ctx.Err()}
	}
	return &ClientError{Type: ErrTypeConnection, Message: "request failed", Cause: err}
}
