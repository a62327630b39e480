package response

import (
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fundhub/campaign-api/internal/pkg/apperr"
)

func TestFromError(t *testing.T) {
	tests := []struct {
		kind apperr.Kind
		want int
	}{
		{apperr.KindUnauthenticated, http.StatusUnauthorized},
		{apperr.KindForbidden, http.StatusForbidden},
		{apperr.KindNotFound, http.StatusNotFound},
		{apperr.KindInvalidState, http.StatusConflict},
		{apperr.KindConflict, http.StatusConflict},
		{apperr.KindValidation, http.StatusBadRequest},
	}
	for _, tt := range tests {
		t.Run(string(tt.kind), func(t *testing.T) {
			sentinel := apperr.New(tt.kind, "some_code", "some message")
			got := FromError(fmt.Errorf("s.repo.X -> %w", sentinel))

			assert.Equal(t, tt.want, got.HTTPStatusCode)
			assert.Equal(t, "some_code", got.Code)
			assert.Equal(t, "some message", got.ErrorText)
		})
	}

	t.Run("untyped errors are internal", func(t *testing.T) {
		got := FromError(errors.New("pq: connection reset"))

		assert.Equal(t, http.StatusInternalServerError, got.HTTPStatusCode)
		assert.NotContains(t, got.ErrorText, "pq")
	})
}

func TestRenderErr(t *testing.T) {
	gin.SetMode(gin.TestMode)
	rec := httptest.NewRecorder()
	ctx, _ := gin.CreateTestContext(rec)
	ctx.Request = httptest.NewRequest(http.MethodGet, "/x", nil)

	RenderErr(ctx, FromError(apperr.New(apperr.KindInvalidState, "window_closed", "the submission window is closed")))

	require.Equal(t, http.StatusConflict, rec.Code)
	assert.JSONEq(t, `{"status":"Invalid state.","code":"window_closed","error":"the submission window is closed"}`, rec.Body.String())
	assert.True(t, ctx.IsAborted())
}
