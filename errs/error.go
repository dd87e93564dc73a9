package errs

import (
	"errors"
	"fmt"
	"net/http"

	json "github.com/goccy/go-json"

	"github.com/charmbracelet/log"
)

// Application error codes. They map the failure modes of the services onto
// a small, transport-agnostic taxonomy; ReturnError translates them to
// HTTP status codes at the edge.
const (
	ECONFLICT     = "conflict"     // already exists / already friends / already liked
	EINTERNAL     = "internal"     // store failure or other internal fault
	EINVALID      = "invalid"      // validation failed or self-referential input
	ENOTFOUND     = "not_found"    // entity absent
	EUNAUTHORIZED = "unauthorized" // missing or bad credentials
)

// Error is an application error with a machine-readable code and a
// human-readable message.
type Error struct {
	Code    string
	Message string
}

// Error implements the error interface.
func (e *Error) Error() string {
	return fmt.Sprintf("musicee error: code=%s message=%s", e.Code, e.Message)
}

// Errorf returns an Error with the given code and formatted message.
func Errorf(code string, format string, args ...interface{}) *Error {
	return &Error{
		Code:    code,
		Message: fmt.Sprintf(format, args...),
	}
}

// ErrorCode returns the code of an error, EINTERNAL for any
// non-application error, and an empty string for nil.
func ErrorCode(err error) string {
	var e *Error
	if err == nil {
		return ""
	} else if errors.As(err, &e) {
		return e.Code
	}
	return EINTERNAL
}

// ErrorMessage returns the message of an error, a generic fallback for
// any non-application error, and an empty string for nil.
func ErrorMessage(err error) string {
	var e *Error
	if err == nil {
		return ""
	} else if errors.As(err, &e) {
		return e.Message
	}
	return "Internal error."
}

// codes maps application error codes to HTTP status codes.
var codes = map[string]int{
	ECONFLICT:     http.StatusConflict,
	EINVALID:      http.StatusBadRequest,
	ENOTFOUND:     http.StatusNotFound,
	EUNAUTHORIZED: http.StatusUnauthorized,
	EINTERNAL:     http.StatusInternalServerError,
}

// ErrorStatusCode returns the HTTP status code for an application error code.
func ErrorStatusCode(code string) int {
	if v, ok := codes[code]; ok {
		return v
	}
	return http.StatusInternalServerError
}

// ErrorResponse is the json body sent to the client when a request fails.
type ErrorResponse struct {
	Error string `json:"error"`
}

// ReturnError writes an error to the response, as json, with the status
// code matching the error's code. Internal errors are logged and their
// message is hidden from the client.
func ReturnError(w http.ResponseWriter, r *http.Request, err error) {
	code, message := ErrorCode(err), ErrorMessage(err)
	if code == EINTERNAL {
		LogError(r, err)
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(ErrorStatusCode(code))
	json.NewEncoder(w).Encode(&ErrorResponse{Error: message})
}

// LogError logs an error together with the request method and path.
func LogError(r *http.Request, err error) {
	log.Error("http error", "method", r.Method, "path", r.URL.Path, "err", err)
}
