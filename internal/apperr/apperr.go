package apperr

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
)

// Error is the application failure taxonomy: the Code decides the HTTP
// status, the Message is safe to show a client, Err (if any) is the
// internal cause and stays server-side.
type Error struct {
	Code    int
	Message string
	Err     error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return e.Message + ": " + e.Err.Error()
	}
	return e.Message
}

func (e *Error) Unwrap() error {
	return e.Err
}

// Invalid reports a malformed or missing input (400).
func Invalid(message string) *Error {
	return &Error{Code: http.StatusBadRequest, Message: message}
}

// Unauthorized reports missing/invalid credentials or token (401).
func Unauthorized(message string) *Error {
	return &Error{Code: http.StatusUnauthorized, Message: message}
}

// NotFound reports a resource that is absent or not owned by the
// requester (404). The two cases are deliberately indistinguishable.
func NotFound(message string) *Error {
	return &Error{Code: http.StatusNotFound, Message: message}
}

// Conflict reports a uniqueness violation (409).
func Conflict(message string) *Error {
	return &Error{Code: http.StatusConflict, Message: message}
}

// Internal wraps an unexpected store/hash/signing fault (500). The cause
// is logged; the client only ever sees the generic message.
func Internal(err error) *Error {
	return &Error{Code: http.StatusInternalServerError, Message: "Internal server error", Err: err}
}

// Respond maps any error to the taxonomy at the HTTP boundary. Unknown
// errors are treated as internal faults so nothing leaks.
func Respond(c *gin.Context, err error) {
	var appErr *Error
	if !errors.As(err, &appErr) {
		appErr = Internal(err)
	}

	if appErr.Code >= http.StatusInternalServerError {
		logrus.WithError(appErr.Err).WithFields(logrus.Fields{
			"method": c.Request.Method,
			"path":   c.FullPath(),
		}).Error("Internal error")
	}

	c.JSON(appErr.Code, gin.H{"message": appErr.Message})
}
