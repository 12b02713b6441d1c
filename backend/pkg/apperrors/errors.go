package apperrors

import (
	"errors"
	"fmt"
	"time"
)

// ErrorType represents the category of error
type ErrorType string

const (
	// ErrorTypeValidation represents malformed caller input
	ErrorTypeValidation ErrorType = "validation"
	// ErrorTypeNotFound represents a lookup with no match
	ErrorTypeNotFound ErrorType = "not_found"
	// ErrorTypeStore represents a backing-store failure
	ErrorTypeStore ErrorType = "store"
)

// BaseError is the base error type with common fields
type BaseError struct {
	Type      ErrorType
	Message   string
	Timestamp time.Time
	Err       error // Wrapped error
}

// Error implements the error interface
func (e *BaseError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("[%s] %s: %v", e.Type, e.Message, e.Err)
	}
	return fmt.Sprintf("[%s] %s", e.Type, e.Message)
}

// Unwrap returns the wrapped error for error unwrapping
func (e *BaseError) Unwrap() error {
	return e.Err
}

// NewBaseError creates a new base error
func NewBaseError(errType ErrorType, message string, err error) *BaseError {
	return &BaseError{
		Type:      errType,
		Message:   message,
		Timestamp: time.Now(),
		Err:       err,
	}
}

// Validation Errors

// ErrInvalidRating is returned when a rating value is outside [1,5]
type ErrInvalidRating struct {
	*BaseError
	Value int
}

func NewInvalidRating(value int) *ErrInvalidRating {
	return &ErrInvalidRating{
		BaseError: NewBaseError(ErrorTypeValidation, fmt.Sprintf("rating must be between 1 and 5, got %d", value), nil),
		Value:     value,
	}
}

// ErrBlankQuery is returned when a search query is empty or whitespace-only
var ErrBlankQuery = NewBaseError(ErrorTypeValidation, "search query must not be blank", nil)

// Not Found Errors

// ErrMovieNotFound is returned when a movie lookup has no match
type ErrMovieNotFound struct {
	*BaseError
	MovieID string
}

func NewMovieNotFound(movieID string) *ErrMovieNotFound {
	return &ErrMovieNotFound{
		BaseError: NewBaseError(ErrorTypeNotFound, fmt.Sprintf("movie not found: %s", movieID), nil),
		MovieID:   movieID,
	}
}

// Store Errors

// ErrStoreUnavailable is returned when a backing store is unreachable
type ErrStoreUnavailable struct {
	*BaseError
	Store string
}

func NewStoreUnavailable(store string, err error) *ErrStoreUnavailable {
	return &ErrStoreUnavailable{
		BaseError: NewBaseError(ErrorTypeStore, fmt.Sprintf("store unavailable: %s", store), err),
		Store:     store,
	}
}

// ErrRatingWriteFailed is returned when the durable rating insert fails
type ErrRatingWriteFailed struct {
	*BaseError
	UserID  string
	MovieID string
}

func NewRatingWriteFailed(userID, movieID string, err error) *ErrRatingWriteFailed {
	return &ErrRatingWriteFailed{
		BaseError: NewBaseError(ErrorTypeStore, fmt.Sprintf("failed to write rating for user %s, movie %s", userID, movieID), err),
		UserID:    userID,
		MovieID:   movieID,
	}
}

// Helper functions

// typedError is satisfied by *BaseError and everything embedding it
type typedError interface {
	error
	errorType() ErrorType
}

func (e *BaseError) errorType() ErrorType {
	return e.Type
}

// IsErrorType checks if an error is of a specific category
func IsErrorType(err error, errType ErrorType) bool {
	var te typedError
	if errors.As(err, &te) {
		return te.errorType() == errType
	}
	return false
}

// IsValidation reports whether the error is caller-input related
func IsValidation(err error) bool {
	return IsErrorType(err, ErrorTypeValidation)
}

// IsNotFound reports whether the error is a missing-entity lookup
func IsNotFound(err error) bool {
	return IsErrorType(err, ErrorTypeNotFound)
}
