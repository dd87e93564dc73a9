package errs

import (
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestErrorCode(t *testing.T) {
	assert.Equal(t, "", ErrorCode(nil))
	assert.Equal(t, ENOTFOUND, ErrorCode(Errorf(ENOTFOUND, "nope")))
	assert.Equal(t, EINTERNAL, ErrorCode(errors.New("plain")))

	// Wrapped application errors keep their code.
	wrapped := fmt.Errorf("context: %w", Errorf(ECONFLICT, "taken"))
	assert.Equal(t, ECONFLICT, ErrorCode(wrapped))
}

func TestErrorMessage(t *testing.T) {
	assert.Equal(t, "", ErrorMessage(nil))
	assert.Equal(t, "nope", ErrorMessage(Errorf(ENOTFOUND, "nope")))
	assert.Equal(t, "Internal error.", ErrorMessage(errors.New("plain")))
}

func TestErrorStatusCode(t *testing.T) {
	assert.Equal(t, http.StatusConflict, ErrorStatusCode(ECONFLICT))
	assert.Equal(t, http.StatusBadRequest, ErrorStatusCode(EINVALID))
	assert.Equal(t, http.StatusNotFound, ErrorStatusCode(ENOTFOUND))
	assert.Equal(t, http.StatusUnauthorized, ErrorStatusCode(EUNAUTHORIZED))
	assert.Equal(t, http.StatusInternalServerError, ErrorStatusCode("bogus"))
}

func TestReturnError(t *testing.T) {
	r := httptest.NewRequest("GET", "/test", nil)

	rec := httptest.NewRecorder()
	ReturnError(rec, r, Errorf(ENOTFOUND, "User with username bob not found."))
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.JSONEq(t, `{"error": "User with username bob not found."}`, rec.Body.String())

	// Internal details never reach the client.
	rec = httptest.NewRecorder()
	ReturnError(rec, r, errors.New("dial tcp: connection refused"))
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.JSONEq(t, `{"error": "Internal error."}`, rec.Body.String())
}
