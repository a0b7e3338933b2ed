package security

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func TestSecurityConfig(t *testing.T) {
	config := DefaultSecurityConfig()

	assert.Equal(t, 60, config.MaxRequestsPerMin)
	assert.Equal(t, 30*time.Second, config.RequestTimeout)
}

func newSecuredRouter(sm *SecurityMiddleware) *gin.Engine {
	r := gin.New()
	r.Use(sm.SecurityHeaders)
	r.Use(sm.RequestTimeout)
	r.Use(sm.ValidateContentType)
	r.Use(sm.RateLimitByIP)
	r.POST("/score", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "scored"})
	})
	return r
}

func TestSecurityHeaders(t *testing.T) {
	sm := NewSecurityMiddleware(DefaultSecurityConfig())
	r := newSecuredRouter(sm)

	req := httptest.NewRequest(http.MethodPost, "/score", nil)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, "nosniff", w.Header().Get("X-Content-Type-Options"))
	assert.Equal(t, "DENY", w.Header().Get("X-Frame-Options"))
	assert.Equal(t, "default-src 'self'", w.Header().Get("Content-Security-Policy"))
}

func TestValidateContentType(t *testing.T) {
	sm := NewSecurityMiddleware(DefaultSecurityConfig())
	r := newSecuredRouter(sm)

	tests := []struct {
		name        string
		contentType string
		wantStatus  int
	}{
		{name: "json accepted", contentType: "application/json", wantStatus: http.StatusOK},
		{name: "json with charset accepted", contentType: "application/json; charset=utf-8", wantStatus: http.StatusOK},
		{name: "form accepted", contentType: "application/x-www-form-urlencoded", wantStatus: http.StatusOK},
		{name: "missing content type passes through", contentType: "", wantStatus: http.StatusOK},
		{name: "xml rejected", contentType: "text/xml", wantStatus: http.StatusUnsupportedMediaType},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodPost, "/score", nil)
			if tt.contentType != "" {
				req.Header.Set("Content-Type", tt.contentType)
			}
			w := httptest.NewRecorder()
			r.ServeHTTP(w, req)
			assert.Equal(t, tt.wantStatus, w.Code)
		})
	}
}

func TestRateLimitByIP(t *testing.T) {
	sm := NewSecurityMiddleware(SecurityConfig{
		MaxRequestsPerMin: 6, // burst floor of 5 applies
		RequestTimeout:    time.Second,
	})
	r := newSecuredRouter(sm)

	post := func() int {
		req := httptest.NewRequest(http.MethodPost, "/score", nil)
		req.Header.Set("Content-Type", "application/json")
		req.RemoteAddr = "10.1.2.3:5555"
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)
		return w.Code
	}

	allowed := 0
	limited := 0
	for i := 0; i < 10; i++ {
		switch post() {
		case http.StatusOK:
			allowed++
		case http.StatusTooManyRequests:
			limited++
		}
	}

	assert.GreaterOrEqual(t, allowed, 5, "burst should admit at least the floor")
	assert.Greater(t, limited, 0, "requests beyond the burst must be limited")
}

func TestRateLimitIsPerIP(t *testing.T) {
	sm := NewSecurityMiddleware(SecurityConfig{
		MaxRequestsPerMin: 6,
		RequestTimeout:    time.Second,
	})
	r := newSecuredRouter(sm)

	post := func(addr string) int {
		req := httptest.NewRequest(http.MethodPost, "/score", nil)
		req.Header.Set("Content-Type", "application/json")
		req.RemoteAddr = addr
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)
		return w.Code
	}

	// Exhaust the first IP's burst.
	for i := 0; i < 10; i++ {
		post("10.0.0.1:1111")
	}
	require.Equal(t, http.StatusTooManyRequests, post("10.0.0.1:1111"))

	assert.Equal(t, http.StatusOK, post("10.0.0.2:2222"), "a fresh IP gets its own limiter")
}

func TestRequestTimeoutAttachesDeadline(t *testing.T) {
	sm := NewSecurityMiddleware(SecurityConfig{
		MaxRequestsPerMin: 60,
		RequestTimeout:    time.Second,
	})

	r := gin.New()
	r.Use(sm.RequestTimeout)
	r.GET("/check", func(c *gin.Context) {
		_, ok := c.Request.Context().Deadline()
		c.JSON(http.StatusOK, gin.H{"deadline": ok})
	})

	req := httptest.NewRequest(http.MethodGet, "/check", nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"deadline":true`)
}
