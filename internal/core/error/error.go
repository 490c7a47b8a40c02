package errx

import (
	"errors"
	"fmt"
	"net/http"
)

const (
	// SystemErrorMessage is a user-facing fallback when internal errors occur.
	SystemErrorMessage = "internal server error"
	// RedisErrorMessage describes Redis related failures.
	RedisErrorMessage = "redis operation failed"
	// RedisNotFoundMessage is used when a key does not exist.
	RedisNotFoundMessage = "redis key not found"
	// RedisTimeoutMessage is used when a Redis call runs past its deadline.
	RedisTimeoutMessage = "redis operation timed out"
	// EnvelopeErrorMessage is returned when a response envelope cannot be built.
	EnvelopeErrorMessage = "unable to build response"
	// BadRequestMessage is returned for malformed client input.
	BadRequestMessage = "invalid request"
)

// Class tags an AppError with the orchestration failure it represents.
type Class string

const (
	ClassUnknown                 Class = ""
	ClassAdapterFailure          Class = "adapter_failure"
	ClassClassificationAmbiguity Class = "classification_ambiguity"
	ClassSchedulingInfeasibility Class = "scheduling_infeasibility"
	ClassGenerationFailure       Class = "generation_failure"
	ClassFatalEnvelope           Class = "fatal_envelope_failure"
)

// AppError wraps an underlying error with an HTTP status and safe message.
type AppError struct {
	Err     error
	Status  int
	Message string
	Class   Class
}

// Error implements the error interface.
func (e *AppError) Error() string {
	if e.Err == nil {
		return e.Message
	}
	return fmt.Sprintf("%s: %v", e.Message, e.Err)
}

// Unwrap exposes the underlying error for errors.Is / errors.As support.
func (e *AppError) Unwrap() error {
	return e.Err
}

// New creates a new AppError with the provided information.
func New(err error, status int, message string) *AppError {
	return &AppError{
		Err:     err,
		Status:  status,
		Message: message,
	}
}

// WithClass returns e tagged with c.
func (e *AppError) WithClass(c Class) *AppError {
	e.Class = c
	return e
}

// AdapterFailure marks a collaborator error. These are always recovered locally.
func AdapterFailure(collaborator string, err error) *AppError {
	return New(fmt.Errorf("%s: %w", collaborator, err), http.StatusBadGateway, "collaborator unavailable").
		WithClass(ClassAdapterFailure)
}

// GenerationFailure marks a failed text generation call.
func GenerationFailure(err error) *AppError {
	return New(err, http.StatusBadGateway, "generation failed").WithClass(ClassGenerationFailure)
}

// FatalEnvelope marks the only failure surfaced to callers.
func FatalEnvelope(err error) *AppError {
	return New(err, http.StatusInternalServerError, EnvelopeErrorMessage).WithClass(ClassFatalEnvelope)
}

// BadRequest wraps a client input error.
func BadRequest(err error) *AppError {
	return New(err, http.StatusBadRequest, BadRequestMessage)
}

// ClassOf returns the class of the first AppError in err's chain.
func ClassOf(err error) Class {
	var app *AppError
	if errors.As(err, &app) {
		return app.Class
	}
	return ClassUnknown
}

// StatusOf returns the HTTP status carried by err, or 500.
func StatusOf(err error) int {
	var app *AppError
	if errors.As(err, &app) && app.Status != 0 {
		return app.Status
	}
	return http.StatusInternalServerError
}

// MessageOf returns the safe message carried by err, or SystemErrorMessage.
func MessageOf(err error) string {
	var app *AppError
	if errors.As(err, &app) && app.Message != "" {
		return app.Message
	}
	return SystemErrorMessage
}

// Is reports whether the target matches the underlying error or the AppError itself.
func (e *AppError) Is(target error) bool {
	return errors.Is(e.Err, target)
}

// As allows casting to AppError or the wrapped error in a chain.
func (e *AppError) As(target any) bool {
	if errors.As(e.Err, target) {
		return true
	}
	if t, ok := target.(**AppError); ok {
		*t = e
		return true
	}
	return false
}
