package services

import (
	"errors"
	"fmt"

	"github.com/kataras/iris/v12"
)

// ErrorKind is the occupancy-engine error taxonomy. Every failure a caller can
// see carries a kind plus a human-readable reason; internal errors are wrapped
// so no stack traces leak outside debug logs.
type ErrorKind string

const (
	KindNotFound         ErrorKind = "NotFound"
	KindForbidden        ErrorKind = "Forbidden"
	KindConflict         ErrorKind = "Conflict"
	KindCapacityExceeded ErrorKind = "CapacityExceeded"
	KindValidation       ErrorKind = "ValidationError"
	KindConcurrency      ErrorKind = "ConcurrencyConflict"
	KindPartialFailure   ErrorKind = "PartialFailure"
)

type OpError struct {
	Kind   ErrorKind
	Reason string
	cause  error
}

func (e *OpError) Error() string {
	if e.cause != nil {
		return string(e.Kind) + ": " + e.Reason + ": " + e.cause.Error()
	}
	return string(e.Kind) + ": " + e.Reason
}

func (e *OpError) Unwrap() error { return e.cause }

// StatusCode maps the taxonomy onto the HTTP codes the route layer responds
// with. PartialFailure is deliberately a 500: the operator has to look.
func (e *OpError) StatusCode() int {
	switch e.Kind {
	case KindNotFound:
		return iris.StatusNotFound
	case KindForbidden:
		return iris.StatusForbidden
	case KindConflict, KindCapacityExceeded, KindConcurrency:
		return iris.StatusConflict
	case KindValidation:
		return iris.StatusBadRequest
	default:
		return iris.StatusInternalServerError
	}
}

func opErrorf(kind ErrorKind, format string, args ...interface{}) *OpError {
	return &OpError{Kind: kind, Reason: fmt.Sprintf(format, args...)}
}

func ErrNotFound(format string, args ...interface{}) *OpError {
	return opErrorf(KindNotFound, format, args...)
}

func ErrForbidden(format string, args ...interface{}) *OpError {
	return opErrorf(KindForbidden, format, args...)
}

func ErrConflict(format string, args ...interface{}) *OpError {
	return opErrorf(KindConflict, format, args...)
}

func ErrCapacityExceeded(format string, args ...interface{}) *OpError {
	return opErrorf(KindCapacityExceeded, format, args...)
}

func ErrValidation(format string, args ...interface{}) *OpError {
	return opErrorf(KindValidation, format, args...)
}

func ErrConcurrency(format string, args ...interface{}) *OpError {
	return opErrorf(KindConcurrency, format, args...)
}

// ErrPartialFailure marks the one cross-aggregate case that cannot be rolled
// back: the space aggregate committed but the tenant aggregate did not.
func ErrPartialFailure(cause error, format string, args ...interface{}) *OpError {
	return &OpError{Kind: KindPartialFailure, Reason: fmt.Sprintf(format, args...), cause: cause}
}

// KindOf extracts the taxonomy kind from any error, or "" for plain errors.
func KindOf(err error) ErrorKind {
	var op *OpError
	if errors.As(err, &op) {
		return op.Kind
	}
	return ""
}
