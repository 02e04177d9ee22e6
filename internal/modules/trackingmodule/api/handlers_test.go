package api

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCurrentUserHeader(t *testing.T) {
	gin.SetMode(gin.TestMode)

	cases := []struct {
		name   string
		header string
		wantID uint32
		wantOK bool
	}{
		{"valid", "42", 42, true},
		{"missing", "", 0, false},
		{"not numeric", "abc", 0, false},
		{"negative", "-1", 0, false},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			w := httptest.NewRecorder()
			c, _ := gin.CreateTestContext(w)
			c.Request = httptest.NewRequest(http.MethodGet, "/api/tracking/stats", nil)
			if tc.header != "" {
				c.Request.Header.Set("X-User-ID", tc.header)
			}

			id, ok := currentUser(c)
			assert.Equal(t, tc.wantOK, ok)
			if tc.wantOK {
				assert.Equal(t, tc.wantID, id)
			} else {
				require.Equal(t, http.StatusBadRequest, w.Code)
			}
		})
	}
}
