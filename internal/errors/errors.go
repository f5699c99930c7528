package errors

import (
	"errors"
	"fmt"
)

// This package defines the sentinel errors shared by the services and the API
// layer. Services wrap them with context (`fmt.Errorf("%w: ...")`) and the API
// maps them to HTTP status codes with `errors.Is()`.
//
// Completion failures are deliberately absent: the completion client turns
// every failure into displayable text, so no error type for them exists.

var (
	// ErrNotFound signifies that a requested session, preset or model could not
	// be located. Mapped to 404 Not Found.
	ErrNotFound = errors.New("resource not found")

	// ErrValidation signifies that input data failed business rule validation.
	// Mapped to 400 Bad Request.
	ErrValidation = errors.New("validation failed")

	// ErrConflict signifies that an operation conflicts with the current state.
	// Mapped to 409 Conflict.
	ErrConflict = errors.New("resource conflict")

	// ErrBusy is returned while a completion request is outstanding for the
	// active conversation. It is a conflict.
	ErrBusy = fmt.Errorf("%w: a reply is still being generated", ErrConflict)

	// ErrInternal signifies an unexpected error. Mapped to 500.
	ErrInternal = errors.New("internal server error")
)
