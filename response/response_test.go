package response

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	apperrors "membergate/errors"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func TestFromErrorStatusMapping(t *testing.T) {
	cases := []struct {
		err    error
		status int
		code   string
	}{
		{apperrors.InvalidInput("code is required"), http.StatusBadRequest, "INVALID_INPUT"},
		{apperrors.ErrInvalidCredentials, http.StatusUnauthorized, "INVALID_CREDENTIALS"},
		{apperrors.ErrInactive, http.StatusForbidden, "INACTIVE"},
		{apperrors.ErrUnauthenticated, http.StatusUnauthorized, "UNAUTHENTICATED"},
		{apperrors.ErrForbidden, http.StatusForbidden, "FORBIDDEN"},
		{apperrors.ErrNotFound, http.StatusNotFound, "NOT_FOUND"},
		{apperrors.ErrConflict, http.StatusConflict, "CONFLICT"},
		{apperrors.ErrMisconfigured, http.StatusInternalServerError, "INTERNAL"},
		{apperrors.Internal("db down", errors.New("dial tcp")), http.StatusInternalServerError, "INTERNAL"},
		{errors.New("raw"), http.StatusInternalServerError, "INTERNAL"},
		{fmt.Errorf("wrapped: %w", apperrors.ErrForbidden), http.StatusForbidden, "FORBIDDEN"},
	}

	for _, tc := range cases {
		w := httptest.NewRecorder()
		c, _ := gin.CreateTestContext(w)
		FromError(c, tc.err)

		assert.Equal(t, tc.status, w.Code, tc.err.Error())
		var body Response
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
		assert.Equal(t, 0, body.Code)
		assert.Equal(t, tc.code, body.Error)
	}
}

func TestFromErrorHidesInternalDetails(t *testing.T) {
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	FromError(c, apperrors.Internal("failed to load member", errors.New("pq: password authentication failed")))

	assert.NotContains(t, w.Body.String(), "password authentication")
	assert.NotContains(t, w.Body.String(), "failed to load member")
}
