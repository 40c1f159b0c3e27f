package middleware

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/andybalholm/brotli"
	"github.com/gin-gonic/gin"
	"github.com/stemsi/ejurnal-backend/internal/model"
	"github.com/stemsi/ejurnal-backend/internal/service"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func init() {
	gin.SetMode(gin.TestMode)
}

type stubAuthenticator struct {
	claims *service.Claims
	err    error
}

func (s stubAuthenticator) Authenticate(context.Context, string) (*service.Claims, error) {
	return s.claims, s.err
}

func serve(r *gin.Engine, req *http.Request) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestRateLimiter(t *testing.T) {
	clock := time.Date(2024, 1, 15, 8, 0, 0, 0, time.UTC)
	rl := NewRateLimiter(2, time.Minute)
	rl.now = func() time.Time { return clock }

	r := gin.New()
	r.POST("/login", rl.Middleware(), func(c *gin.Context) { c.Status(http.StatusOK) })

	login := func() *httptest.ResponseRecorder {
		req := httptest.NewRequest(http.MethodPost, "/login", nil)
		req.RemoteAddr = "10.0.0.1:5000"
		return serve(r, req)
	}

	assert.Equal(t, http.StatusOK, login().Code)
	assert.Equal(t, http.StatusOK, login().Code)

	w := login()
	assert.Equal(t, http.StatusTooManyRequests, w.Code)
	assert.Equal(t, "61", w.Header().Get("Retry-After"))

	other := httptest.NewRequest(http.MethodPost, "/login", nil)
	other.RemoteAddr = "10.0.0.2:5000"
	assert.Equal(t, http.StatusOK, serve(r, other).Code, "limits are per client ip")

	clock = clock.Add(time.Minute)
	assert.Equal(t, http.StatusOK, login().Code, "a new window starts after the old one ends")
}

func TestRateLimiterSweepsExpiredVisitors(t *testing.T) {
	clock := time.Date(2024, 1, 15, 8, 0, 0, 0, time.UTC)
	rl := NewRateLimiter(1, time.Minute)
	rl.now = func() time.Time { return clock }

	for i := 0; i < 5; i++ {
		allowed, _ := rl.allow(fmt.Sprintf("10.0.0.%d", i))
		require.True(t, allowed)
	}
	assert.Len(t, rl.visitors, 5)

	clock = clock.Add(2 * time.Minute)
	allowed, _ := rl.allow("10.0.0.9")
	assert.True(t, allowed)
	assert.Len(t, rl.visitors, 1)
}

func TestRequireAuth(t *testing.T) {
	claims := &service.Claims{UserID: 4, Role: model.RoleTeacher, Name: "Bu Sari"}

	tests := []struct {
		name   string
		auth   stubAuthenticator
		header string
		query  string
		status int
		code   string
	}{
		{"missing token", stubAuthenticator{claims: claims}, "", "", http.StatusUnauthorized, "TOKEN_REQUIRED"},
		{"wrong scheme", stubAuthenticator{claims: claims}, "Basic abc", "", http.StatusUnauthorized, "TOKEN_REQUIRED"},
		{"bearer header", stubAuthenticator{claims: claims}, "Bearer abc", "", http.StatusOK, ""},
		{"query token ignored", stubAuthenticator{claims: claims}, "", "abc", http.StatusUnauthorized, "TOKEN_REQUIRED"},
		{"rejected token", stubAuthenticator{err: fmt.Errorf("expired: %w", service.ErrUnauthorized)}, "Bearer abc", "", http.StatusUnauthorized, "TOKEN_INVALID"},
		{"store failure", stubAuthenticator{err: errors.New("redis down")}, "Bearer abc", "", http.StatusInternalServerError, "INTERNAL_ERROR"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := gin.New()
			r.GET("/me", RequireAuth(tt.auth), func(c *gin.Context) {
				identity, ok := GetIdentity(c)
				require.True(t, ok)
				c.String(http.StatusOK, identity.DisplayName)
			})

			target := "/me"
			if tt.query != "" {
				target += "?token=" + tt.query
			}
			req := httptest.NewRequest(http.MethodGet, target, nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}

			w := serve(r, req)
			assert.Equal(t, tt.status, w.Code)
			if tt.code != "" {
				assert.Contains(t, w.Body.String(), tt.code)
			} else {
				assert.Equal(t, "Bu Sari", w.Body.String())
			}
		})
	}
}

func TestRequireWSAuth(t *testing.T) {
	claims := &service.Claims{UserID: 9, Role: model.RolePrincipal, Name: "Pak Kepala"}
	r := gin.New()
	r.GET("/feed", RequireWSAuth(stubAuthenticator{claims: claims}), func(c *gin.Context) {
		identity, ok := GetIdentity(c)
		require.True(t, ok)
		c.String(http.StatusOK, identity.DisplayName)
	})

	w := serve(r, httptest.NewRequest(http.MethodGet, "/feed?token=abc", nil))
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "Pak Kepala", w.Body.String())

	req := httptest.NewRequest(http.MethodGet, "/feed", nil)
	req.Header.Set("Authorization", "Bearer abc")
	w = serve(r, req)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Contains(t, w.Body.String(), "TOKEN_REQUIRED")
}

func TestRequireRole(t *testing.T) {
	withRole := func(role model.Role) gin.HandlerFunc {
		return func(c *gin.Context) {
			c.Set(ContextKeyClaims, &service.Claims{UserID: 1, Role: role})
		}
	}

	tests := []struct {
		name   string
		setup  gin.HandlerFunc
		status int
	}{
		{"allowed role", withRole(model.RolePrincipal), http.StatusOK},
		{"other role", withRole(model.RoleTeacher), http.StatusForbidden},
		{"no identity", func(*gin.Context) {}, http.StatusUnauthorized},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := gin.New()
			r.GET("/stats", tt.setup, RequireRole(model.RolePrincipal), func(c *gin.Context) {
				c.Status(http.StatusOK)
			})
			w := serve(r, httptest.NewRequest(http.MethodGet, "/stats", nil))
			assert.Equal(t, tt.status, w.Code)
		})
	}
}

func TestBrotli(t *testing.T) {
	payload := strings.Repeat("rekap absensi ", 200)

	cfg := DefaultBrotliConfig
	cfg.Skipper = SkipPathSuffixes("/export")

	r := gin.New()
	r.Use(BrotliWithConfig(cfg))
	r.GET("/big", func(c *gin.Context) { c.String(http.StatusOK, payload) })
	r.GET("/small", func(c *gin.Context) { c.String(http.StatusOK, "ok") })
	r.GET("/rekap/export", func(c *gin.Context) { c.String(http.StatusOK, payload) })

	get := func(path string) *httptest.ResponseRecorder {
		req := httptest.NewRequest(http.MethodGet, path, nil)
		req.Header.Set("Accept-Encoding", "gzip, br")
		return serve(r, req)
	}

	t.Run("large bodies are compressed", func(t *testing.T) {
		w := get("/big")
		require.Equal(t, "br", w.Header().Get("Content-Encoding"))
		body, err := io.ReadAll(brotli.NewReader(bytes.NewReader(w.Body.Bytes())))
		require.NoError(t, err)
		assert.Equal(t, payload, string(body))
	})

	t.Run("small bodies pass through", func(t *testing.T) {
		w := get("/small")
		assert.Empty(t, w.Header().Get("Content-Encoding"))
		assert.Equal(t, "ok", w.Body.String())
	})

	t.Run("skipped paths pass through", func(t *testing.T) {
		w := get("/rekap/export")
		assert.Empty(t, w.Header().Get("Content-Encoding"))
		assert.Equal(t, payload, w.Body.String())
	})

	t.Run("clients without br get plain bodies", func(t *testing.T) {
		w := serve(r, httptest.NewRequest(http.MethodGet, "/big", nil))
		assert.Empty(t, w.Header().Get("Content-Encoding"))
		assert.Equal(t, payload, w.Body.String())
	})
}
