package errors

import (
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTaxonomyPredicates(t *testing.T) {
	notFound := NewNotFoundError("show", "82")
	conflict := NewConflictError("already watched", nil)
	upstream := NewUpstreamError("show 82", fmt.Errorf("timeout"))

	assert.True(t, IsNotFound(notFound))
	assert.False(t, IsNotFound(conflict))
	assert.True(t, IsConflict(conflict))
	assert.True(t, IsUpstream(upstream))

	// Predicates see through wrapping
	wrapped := fmt.Errorf("ingesting: %w", notFound)
	assert.True(t, IsNotFound(wrapped))

	assert.False(t, IsNotFound(fmt.Errorf("plain error")))
}

func TestHTTPStatusMapping(t *testing.T) {
	cases := []struct {
		err    *AppError
		status int
	}{
		{NewNotFoundError("show", "82"), http.StatusNotFound},
		{NewConflictError("dup", nil), http.StatusConflict},
		{NewUpstreamError("op", fmt.Errorf("x")), http.StatusBadGateway},
		{NewValidationError("bad", "field"), http.StatusBadRequest},
		{NewInternalError("oops", nil), http.StatusInternalServerError},
		{NewDatabaseError("insert", fmt.Errorf("x")), http.StatusInternalServerError},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.status, tc.err.HTTPStatus, tc.err.Code)
	}
}

func TestHandleErrorWritesJSON(t *testing.T) {
	gin.SetMode(gin.TestMode)

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodGet, "/api/shows/82", nil)

	HandleError(c, NewNotFoundError("show", "82"))

	require.Equal(t, http.StatusNotFound, w.Code)
	assert.Contains(t, w.Body.String(), `"code":"NOT_FOUND"`)
	assert.Contains(t, w.Body.String(), "show not found")
}

func TestHandleErrorUnknownFallsBackTo500(t *testing.T) {
	gin.SetMode(gin.TestMode)

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodGet, "/api/shows/82", nil)

	HandleError(c, fmt.Errorf("something odd"))

	require.Equal(t, http.StatusInternalServerError, w.Code)
	assert.Contains(t, w.Body.String(), `"code":"INTERNAL_ERROR"`)
}

func TestErrorUnwrap(t *testing.T) {
	cause := fmt.Errorf("connection refused")
	err := NewUpstreamError("show 82", cause)

	assert.ErrorIs(t, err, cause)
	assert.Contains(t, err.Error(), "connection refused")
}
