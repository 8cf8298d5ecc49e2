package errs

import (
	"context"
	"errors"
	"net/http"
)

type Error string

func (e Error) Error() string { return string(e) }

const (
	ErrInvalidRequestBody = Error("invalid request body")
	ErrInvalidRequest     = Error("invalid request")
	ErrInvalidParams      = Error("invalid params")
	ErrMissingFields      = Error("missing required fields")
	ErrEmptyMessage       = Error("message body is empty")
	ErrSameParticipant    = Error("sender and receiver must be different users")
	ErrUnknownParticipant = Error("sender or receiver does not exist")
	ErrSenderMismatch     = Error("sender does not match the authenticated user")
	ErrNoFileUploaded     = Error("no file uploaded")
	ErrFileTooLarge       = Error("uploaded file is too large")

	ErrUnauthorized       = Error("unauthorized")
	ErrInvalidCredential  = Error("invalid credential")
	ErrAccountNotApproved = Error("account is not approved yet")
	ErrAccountSuspended   = Error("account is suspended")
	ErrForbidden          = Error("forbidden: not a participant in this chat")

	ErrUserNotFound    = Error("user not found")
	ErrRentalNotFound  = Error("rental not found")
	ErrMessageNotFound = Error("message not found")

	ErrStoreFailure = Error("store failure")
	ErrStoreTimeout = Error("store timeout")

	ErrUnableToOpenUploadedFile = Error("unable to open uploaded file")
	ErrUnableToUploadFile       = Error("unable to upload file")
	ErrObjectStorageDisabled    = Error("object storage is disabled")
)

var statusByError = map[Error]int{
	ErrInvalidRequestBody: http.StatusBadRequest,
	ErrInvalidRequest:     http.StatusBadRequest,
	ErrInvalidParams:      http.StatusBadRequest,
	ErrMissingFields:      http.StatusBadRequest,
	ErrEmptyMessage:       http.StatusBadRequest,
	ErrSameParticipant:    http.StatusBadRequest,
	ErrUnknownParticipant: http.StatusBadRequest,
	ErrNoFileUploaded:     http.StatusBadRequest,
	ErrFileTooLarge:       http.StatusRequestEntityTooLarge,

	ErrUnauthorized:      http.StatusUnauthorized,
	ErrInvalidCredential: http.StatusUnauthorized,

	ErrSenderMismatch:     http.StatusForbidden,
	ErrAccountNotApproved: http.StatusForbidden,
	ErrAccountSuspended:   http.StatusForbidden,
	ErrForbidden:          http.StatusForbidden,

	ErrUserNotFound:          http.StatusNotFound,
	ErrRentalNotFound:        http.StatusNotFound,
	ErrMessageNotFound:       http.StatusNotFound,
	ErrObjectStorageDisabled: http.StatusNotFound,

	ErrStoreTimeout: http.StatusServiceUnavailable,
}

// StatusCode maps err onto the HTTP status the gateway answers with.
// Anything unrecognised is treated as a store failure.
func StatusCode(err error) int {
	if errors.Is(err, context.DeadlineExceeded) {
		return http.StatusServiceUnavailable
	}
	for kind, status := range statusByError {
		if errors.Is(err, kind) {
			return status
		}
	}
	return http.StatusInternalServerError
}

// Public lists the client-visible errors behind err. Known sentinels are
// returned as-is; anything else collapses into a generic store failure so
// driver messages never reach clients.
func Public(err error) []error {
	if err == nil {
		return nil
	}
	if joined, ok := err.(interface{ Unwrap() []error }); ok {
		var collected []error
		for _, inner := range joined.Unwrap() {
			collected = append(collected, Public(inner)...)
		}
		return collected
	}

	var known Error
	if errors.As(err, &known) {
		return []error{known}
	}
	if errors.Is(err, context.DeadlineExceeded) {
		return []error{ErrStoreTimeout}
	}
	return []error{ErrStoreFailure}
}
