package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fundhub/campaign-api/internal/metrics"
	"github.com/fundhub/campaign-api/internal/pkg/jwthelper"
)

const signingKey = "test-signing-key"

func newRouter(handlers ...gin.HandlerFunc) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	handlers = append(handlers, func(ctx *gin.Context) {
		ctx.String(http.StatusOK, ctx.GetString(UserIDKey))
	})
	r.GET("/ping", handlers...)
	return r
}

func doGet(r http.Handler, authorization string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, "/ping", nil)
	if authorization != "" {
		req.Header.Set("Authorization", authorization)
	}
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	return rec
}

func TestAuthenticator_VerifyJWT(t *testing.T) {
	r := newRouter(NewAuthenticator(signingKey).VerifyJWT())

	token, err := jwthelper.GenerateToken([]byte(signingKey), "user-1", "test")
	require.NoError(t, err)
	foreign, err := jwthelper.GenerateToken([]byte("another-key"), "user-1", "test")
	require.NoError(t, err)

	tests := []struct {
		name   string
		header string
		status int
		body   string
	}{
		{"valid token", "Bearer " + token, http.StatusOK, "user-1"},
		{"lowercase scheme", "bearer " + token, http.StatusOK, "user-1"},
		{"missing header", "", http.StatusUnauthorized, ""},
		{"wrong scheme", "Basic " + token, http.StatusUnauthorized, ""},
		{"wrong key", "Bearer " + foreign, http.StatusUnauthorized, ""},
		{"garbage", "Bearer abc.def.ghi", http.StatusUnauthorized, ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := doGet(r, tt.header)
			assert.Equal(t, tt.status, rec.Code)
			if tt.status == http.StatusOK {
				assert.Equal(t, tt.body, rec.Body.String())
			} else {
				assert.Contains(t, rec.Body.String(), `"code":"unauthenticated"`)
			}
		})
	}
}

func TestAuthenticator_OptionalJWT(t *testing.T) {
	r := newRouter(NewAuthenticator(signingKey).OptionalJWT())

	token, err := jwthelper.GenerateToken([]byte(signingKey), "user-2", "test")
	require.NoError(t, err)

	anonymous := doGet(r, "")
	assert.Equal(t, http.StatusOK, anonymous.Code)
	assert.Empty(t, anonymous.Body.String())

	authed := doGet(r, "Bearer "+token)
	assert.Equal(t, http.StatusOK, authed.Code)
	assert.Equal(t, "user-2", authed.Body.String())

	invalid := doGet(r, "Bearer nope")
	assert.Equal(t, http.StatusUnauthorized, invalid.Code)
}

func TestMetrics(t *testing.T) {
	m := metrics.New()
	r := newRouter(Metrics(m))

	doGet(r, "")
	doGet(r, "")

	assert.Equal(t, 2.0, testutil.ToFloat64(m.HTTPRequests.WithLabelValues("/ping", http.MethodGet, "200")))
}

func TestConfigCORS(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(ConfigCORS([]string{"https://app.example.com"}))
	r.GET("/ping", func(ctx *gin.Context) { ctx.Status(http.StatusOK) })

	req := httptest.NewRequest(http.MethodGet, "/ping", nil)
	req.Header.Set("Origin", "https://app.example.com")
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)

	assert.Equal(t, "https://app.example.com", rec.Header().Get("Access-Control-Allow-Origin"))

	req = httptest.NewRequest(http.MethodGet, "/ping", nil)
	req.Header.Set("Origin", "https://evil.example.com")
	rec = httptest.NewRecorder()
	r.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusForbidden, rec.Code)
}
