package utils

import (
	"io"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/skyreport-dev/skyreport/internal/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGetIP(t *testing.T) {
	t.Run("X-Real-IP preferred", func(t *testing.T) {
		req := httptest.NewRequest("GET", "/", nil)
		req.Header.Set("X-Real-IP", "203.0.113.7")
		req.Header.Set("X-Forwarded-For", "198.51.100.1")
		req.RemoteAddr = "192.0.2.1:1234"

		ip, err := GetIP(req)
		require.NoError(t, err)
		assert.Equal(t, "203.0.113.7", ip)
	})

	t.Run("X-Forwarded-For first valid entry", func(t *testing.T) {
		req := httptest.NewRequest("GET", "/", nil)
		req.Header.Set("X-Forwarded-For", "garbage, 198.51.100.1, 10.0.0.1")
		req.RemoteAddr = "192.0.2.1:1234"

		ip, err := GetIP(req)
		require.NoError(t, err)
		assert.Equal(t, "198.51.100.1", ip)
	})

	t.Run("RemoteAddr fallback", func(t *testing.T) {
		req := httptest.NewRequest("GET", "/", nil)
		req.RemoteAddr = "192.0.2.1:1234"

		ip, err := GetIP(req)
		require.NoError(t, err)
		assert.Equal(t, "192.0.2.1", ip)
	})

	t.Run("No valid ip", func(t *testing.T) {
		req := httptest.NewRequest("GET", "/", nil)
		req.RemoteAddr = "garbage"

		_, err := GetIP(req)
		assert.Error(t, err)
	})
}

type loginBody struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

func body(s string) io.ReadCloser {
	return io.NopCloser(strings.NewReader(s))
}

func TestDecodeValidate(t *testing.T) {
	t.Run("Valid body", func(t *testing.T) {
		var out loginBody
		err := DecodeValidate(body(`{"email": "a@b.com", "password": "x"}`), &out)
		require.NoError(t, err)
		assert.Equal(t, "a@b.com", out.Email)
	})

	t.Run("Invalid json", func(t *testing.T) {
		var out loginBody
		err := DecodeValidate(body(`{not json`), &out)
		require.Error(t, err)
		e, ok := err.(*errors.ErrorWithStatusCode)
		require.True(t, ok)
		assert.Equal(t, 400, e.StatusCode)
	})

	t.Run("Validation failure", func(t *testing.T) {
		var out loginBody
		err := DecodeValidate(body(`{"email": "not-an-email", "password": "x"}`), &out)
		require.Error(t, err)
		e, ok := err.(*errors.ErrorWithStatusCode)
		require.True(t, ok)
		assert.Equal(t, 400, e.StatusCode)
	})
}

func TestWriteErrorAndStatusCode(t *testing.T) {
	t.Run("Uses embedded status code", func(t *testing.T) {
		rr := httptest.NewRecorder()
		WriteErrorAndStatusCode(rr, errors.NotFound("gone"))
		assert.Equal(t, 404, rr.Code)
		assert.Contains(t, rr.Body.String(), "gone")
	})

	t.Run("Defaults to 500", func(t *testing.T) {
		rr := httptest.NewRecorder()
		WriteErrorAndStatusCode(rr, assert.AnError)
		assert.Equal(t, 500, rr.Code)
	})
}
