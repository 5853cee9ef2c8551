package middleware

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"studyflow/services"
	"studyflow/usecase"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func init() {
	gin.SetMode(gin.TestMode)
}

type fakeAuth struct {
	claims *services.Claims
	err    error
}

func (f fakeAuth) Authenticate(context.Context, string) (*services.Claims, error) {
	return f.claims, f.err
}

func serve(r *gin.Engine, req *http.Request) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestAuthMiddleware(t *testing.T) {
	tests := []struct {
		name       string
		header     string
		auth       fakeAuth
		wantStatus int
		wantBody   string
	}{
		{"missing header", "", fakeAuth{}, http.StatusUnauthorized, "Missing or invalid token"},
		{"not bearer", "Basic abc", fakeAuth{}, http.StatusUnauthorized, "Missing or invalid token"},
		{"expired", "Bearer x", fakeAuth{err: services.ErrTokenExpired}, http.StatusUnauthorized, "Token has expired"},
		{"revoked", "Bearer x", fakeAuth{err: usecase.ErrSessionRevoked}, http.StatusUnauthorized, "Session has been revoked"},
		{"refresh token", "Bearer x", fakeAuth{err: services.ErrWrongTokenType}, http.StatusUnauthorized, "Invalid token type"},
		{"valid", "Bearer x", fakeAuth{claims: &services.Claims{UserID: "u1", SessionID: "s1"}}, http.StatusOK, "u1/s1"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := gin.New()
			r.GET("/", AuthMiddleware(tt.auth), func(c *gin.Context) {
				c.String(http.StatusOK, UserID(c)+"/"+Claims(c).SessionID)
			})
			req := httptest.NewRequest(http.MethodGet, "/", nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}
			w := serve(r, req)
			assert.Equal(t, tt.wantStatus, w.Code)
			assert.Contains(t, w.Body.String(), tt.wantBody)
		})
	}
}

type fixedLimiter struct {
	allow bool
	retry time.Duration
	keys  []string
}

func (l *fixedLimiter) Allow(_ context.Context, key string) (bool, time.Duration) {
	l.keys = append(l.keys, key)
	return l.allow, l.retry
}

func TestRateLimit(t *testing.T) {
	limiter := &fixedLimiter{retry: 1500 * time.Millisecond}
	r := gin.New()
	r.GET("/", func(c *gin.Context) { c.Set(ContextUserID, "u1") }, RateLimit(limiter, "chat"), func(c *gin.Context) {
		c.Status(http.StatusOK)
	})

	w := serve(r, httptest.NewRequest(http.MethodGet, "/", nil))
	assert.Equal(t, http.StatusTooManyRequests, w.Code)
	assert.Equal(t, "2", w.Header().Get("Retry-After"))
	assert.Contains(t, w.Body.String(), `"retry_after_seconds":2`)
	assert.Equal(t, []string{"chat:u1"}, limiter.keys)

	limiter.allow = true
	w = serve(r, httptest.NewRequest(http.MethodGet, "/", nil))
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestRequestTracing(t *testing.T) {
	r := gin.New()
	r.Use(RequestTracingMiddleware())
	r.GET("/", func(c *gin.Context) { c.String(http.StatusOK, c.GetString(ContextRequestID)) })

	w := serve(r, httptest.NewRequest(http.MethodGet, "/", nil))
	generated := w.Header().Get(HeaderRequestID)
	_, err := uuid.Parse(generated)
	require.NoError(t, err)
	assert.Equal(t, generated, w.Body.String())

	incoming := uuid.NewString()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set(HeaderRequestID, incoming)
	w = serve(r, req)
	assert.Equal(t, incoming, w.Header().Get(HeaderRequestID))

	req = httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set(HeaderRequestID, "<script>")
	w = serve(r, req)
	assert.NotEqual(t, "<script>", w.Header().Get(HeaderRequestID))
}

func TestRecoveryMiddleware(t *testing.T) {
	r := gin.New()
	r.Use(RequestTracingMiddleware(), RecoveryMiddleware())
	r.GET("/boom", func(*gin.Context) { panic("kaboom") })

	w := serve(r, httptest.NewRequest(http.MethodGet, "/boom", nil))
	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.Contains(t, w.Body.String(), "Internal server error")
	assert.NotContains(t, w.Body.String(), "kaboom")
}

func TestCORSPreflight(t *testing.T) {
	r := gin.New()
	r.Use(CORSMiddleware([]string{"http://localhost:3000"}))
	r.POST("/api/chats", func(c *gin.Context) { c.Status(http.StatusCreated) })

	req := httptest.NewRequest(http.MethodOptions, "/api/chats", nil)
	req.Header.Set("Origin", "http://localhost:3000")
	req.Header.Set("Access-Control-Request-Method", http.MethodPost)
	w := serve(r, req)
	assert.Equal(t, http.StatusNoContent, w.Code)
	assert.Equal(t, "http://localhost:3000", w.Header().Get("Access-Control-Allow-Origin"))

	req = httptest.NewRequest(http.MethodPost, "/api/chats", nil)
	req.Header.Set("Origin", "http://evil.example")
	w = serve(r, req)
	assert.Equal(t, http.StatusCreated, w.Code)
	assert.Empty(t, w.Header().Get("Access-Control-Allow-Origin"))
}

func TestRequestSizeLimiter(t *testing.T) {
	r := gin.New()
	r.Use(RequestSizeLimiter(16), SecurityHeaders())
	r.POST("/", func(c *gin.Context) { c.Status(http.StatusOK) })

	w := serve(r, httptest.NewRequest(http.MethodPost, "/", strings.NewReader(strings.Repeat("x", 64))))
	assert.Equal(t, http.StatusRequestEntityTooLarge, w.Code)

	w = serve(r, httptest.NewRequest(http.MethodPost, "/", strings.NewReader("{}")))
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "nosniff", w.Header().Get("X-Content-Type-Options"))
}
