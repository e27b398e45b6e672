package errors

import (
	"encoding/json"
	stderrors "errors"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
)

// Error represents an application error
type Error struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
	Err     error  `json:"-"`
}

// Error implements the error interface
func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

// Unwrap returns the wrapped error
func (e *Error) Unwrap() error {
	return e.Err
}

// JSON returns the error as a JSON string
func (e *Error) JSON() string {
	b, _ := json.Marshal(e)
	return string(b)
}

// Wrap returns a copy of e carrying err as the cause
func (e *Error) Wrap(err error) *Error {
	return &Error{Code: e.Code, Message: e.Message, Err: err}
}

// New creates a new Error
func New(code int, message string, err error) *Error {
	return &Error{
		Code:    code,
		Message: message,
		Err:     err,
	}
}

// Common error types
var (
	ErrBadRequest         = New(http.StatusBadRequest, "Bad request", nil)
	ErrUnauthorized       = New(http.StatusUnauthorized, "Unauthorized", nil)
	ErrForbidden          = New(http.StatusForbidden, "Forbidden", nil)
	ErrNotFound           = New(http.StatusNotFound, "Page not found", nil)
	ErrMethodNotAllowed   = New(http.StatusMethodNotAllowed, "Method not allowed", nil)
	ErrInternalServer     = New(http.StatusInternalServerError, "Something went wrong", nil)
	ErrServiceUnavailable = New(http.StatusServiceUnavailable, "The bookstore is temporarily unavailable", nil)
	ErrTooManyRequests    = New(http.StatusTooManyRequests, "Too many attempts. Please try again later.", nil)
)

// Session error types
var (
	ErrSessionExpired = New(http.StatusUnauthorized, "Your session has expired. Please sign in again.", nil)
	ErrInvalidToken   = New(http.StatusUnauthorized, "Invalid token", nil)
)

// StatusError is implemented by errors that carry their own HTTP status,
// such as service and backend errors.
type StatusError interface {
	error
	HTTPStatus() int
}

// From converts any error into an *Error. Server-side failures keep their
// cause but get a generic message.
func From(err error) *Error {
	if err == nil {
		return nil
	}
	var appErr *Error
	if stderrors.As(err, &appErr) {
		return appErr
	}
	var se StatusError
	if stderrors.As(err, &se) {
		code := se.HTTPStatus()
		if code >= http.StatusInternalServerError {
			return ErrServiceUnavailable.Wrap(err)
		}
		return New(code, se.Error(), err)
	}
	return ErrInternalServer.Wrap(err)
}

// Renderer writes an error response, usually an HTML page
type Renderer func(c *gin.Context, e *Error)

// ErrorMiddleware turns the last error attached to the gin context into a
// response. JSON is written when no renderer is given.
func ErrorMiddleware(render Renderer) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()

		if len(c.Errors) == 0 || c.Writer.Written() {
			return
		}

		appErr := From(c.Errors.Last().Err)
		if render != nil {
			render(c, appErr)
		} else {
			c.JSON(appErr.Code, appErr)
		}
		c.Abort()
	}
}
