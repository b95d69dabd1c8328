package apierr

import (
	"errors"
	"fmt"
	"net/http"
)

// Codes name the error categories the API exposes. The message shown to the
// caller is always Error(); the code only drives logging and status choice.
const (
	CodeValidation      = "validation"
	CodeAccessDenied    = "access_denied"
	CodeNotFound        = "not_found"
	CodeStore           = "store"
	CodeSecretMismatch  = "secret_mismatch"
	CodeSessionNotFound = "session_not_found"
	CodeInvalidLogin    = "invalid_login"
	CodeInternal        = "internal"
)

type Error struct {
	Status int
	Code   string
	Err    error
}

func (e *Error) Error() string {
	if e == nil {
		return ""
	}
	if e.Err != nil {
		return e.Err.Error()
	}
	if e.Code != "" {
		return e.Code
	}
	if e.Status != 0 {
		return fmt.Sprintf("api error (%d)", e.Status)
	}
	return "api error"
}

func (e *Error) Unwrap() error { return e.Err }

func New(status int, code string, err error) *Error {
	return &Error{Status: status, Code: code, Err: err}
}

// Domain errors are reported with HTTP 200 and an {error} body.

func Required(field string) *Error {
	return New(http.StatusOK, CodeValidation, fmt.Errorf("%s is required", field))
}

func Invalid(msg string) *Error {
	return New(http.StatusOK, CodeValidation, errors.New(msg))
}

func TooLarge() *Error {
	return New(http.StatusRequestEntityTooLarge, CodeValidation, errors.New("Request body too large"))
}

func AccessDenied() *Error {
	return New(http.StatusOK, CodeAccessDenied, errors.New("Access denied"))
}

func NotFound(entity string) *Error {
	return New(http.StatusOK, CodeNotFound, fmt.Errorf("%s not found", entity))
}

func Store(err error) *Error {
	return New(http.StatusOK, CodeStore, err)
}

func SecretMismatch() *Error {
	return New(http.StatusOK, CodeSecretMismatch, errors.New("Incorrect secret"))
}

func SessionNotFound() *Error {
	return New(http.StatusOK, CodeSessionNotFound, errors.New("Session not found"))
}

func InvalidLogin() *Error {
	return New(http.StatusOK, CodeInvalidLogin, errors.New("Incorrect username or password."))
}

// CodeOf reports the category of err, or CodeInternal for foreign errors.
func CodeOf(err error) string {
	var ae *Error
	if errors.As(err, &ae) {
		return ae.Code
	}
	return CodeInternal
}

// Is reports whether err carries the given category.
func Is(err error, code string) bool {
	var ae *Error
	return errors.As(err, &ae) && ae.Code == code
}
