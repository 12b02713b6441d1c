package apperrors

import (
	"errors"
	"fmt"
	"testing"
)

func TestIsErrorType(t *testing.T) {
	if !IsErrorType(NewInvalidRating(9), ErrorTypeValidation) {
		t.Error("expected invalid rating to be a validation error")
	}
	if !IsErrorType(ErrBlankQuery, ErrorTypeValidation) {
		t.Error("expected blank query to be a validation error")
	}
	if !IsErrorType(NewMovieNotFound("m1"), ErrorTypeNotFound) {
		t.Error("expected movie-not-found to be a not-found error")
	}
	if !IsErrorType(NewStoreUnavailable("redis", nil), ErrorTypeStore) {
		t.Error("expected store-unavailable to be a store error")
	}
	if IsErrorType(errors.New("plain"), ErrorTypeValidation) {
		t.Error("plain errors carry no type")
	}
}

func TestIsErrorType_Wrapped(t *testing.T) {
	wrapped := fmt.Errorf("handler: %w", NewRatingWriteFailed("alice", "m1", errors.New("io")))
	if !IsErrorType(wrapped, ErrorTypeStore) {
		t.Error("expected type check to see through wrapping")
	}
	if IsValidation(wrapped) {
		t.Error("store error must not read as validation")
	}
}

func TestUnwrap(t *testing.T) {
	cause := errors.New("connection refused")
	err := NewStoreUnavailable("mongodb", cause)
	if !errors.Is(err, cause) {
		t.Error("expected errors.Is to find the wrapped cause")
	}
}

func TestPredicates(t *testing.T) {
	if !IsValidation(NewInvalidRating(0)) {
		t.Error("IsValidation failed")
	}
	if !IsNotFound(NewMovieNotFound("m2")) {
		t.Error("IsNotFound failed")
	}
	if IsNotFound(NewInvalidRating(0)) {
		t.Error("validation error must not read as not-found")
	}
}
