package middleware

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gurkanbulca/workdesk/pkg/auth"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func serve(r *gin.Engine, req *http.Request) *httptest.ResponseRecorder {
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	return rec
}

func TestRateLimiter_Allow(t *testing.T) {
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	rl := NewRateLimiter(3, time.Minute)
	rl.now = func() time.Time { return now }

	for i := 0; i < 3; i++ {
		assert.True(t, rl.Allow("10.0.0.1"), "request %d", i)
	}
	assert.False(t, rl.Allow("10.0.0.1"))
	assert.True(t, rl.Allow("10.0.0.2"), "buckets are per IP")

	// one token refills every window/requests
	now = now.Add(20 * time.Second)
	assert.True(t, rl.Allow("10.0.0.1"))
	assert.False(t, rl.Allow("10.0.0.1"))
}

func TestRateLimiter_Cleanup(t *testing.T) {
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	rl := NewRateLimiter(10, time.Minute)
	rl.now = func() time.Time { return now }

	rl.Allow("10.0.0.1")
	now = now.Add(30 * time.Second)
	rl.Allow("10.0.0.2")

	now = now.Add(45 * time.Second)
	assert.Equal(t, 1, rl.Cleanup())
	assert.Len(t, rl.visitors, 1)
	assert.Contains(t, rl.visitors, "10.0.0.2")
}

func TestRateLimiter_Middleware(t *testing.T) {
	var limited []string
	rl := NewRateLimiter(1, time.Hour).OnLimit(func(c *gin.Context) {
		limited = append(limited, c.Request.URL.Path)
	})

	r := gin.New()
	r.Use(rl.Middleware())
	r.GET("/ping", func(c *gin.Context) { c.String(http.StatusOK, "pong") })

	rec := serve(r, httptest.NewRequest(http.MethodGet, "/ping", nil))
	assert.Equal(t, http.StatusOK, rec.Code)

	rec = serve(r, httptest.NewRequest(http.MethodGet, "/ping", nil))
	assert.Equal(t, http.StatusTooManyRequests, rec.Code)
	assert.JSONEq(t, `{"error":"too many requests, please try again later"}`, rec.Body.String())
	assert.Equal(t, []string{"/ping"}, limited)
}

func TestRateLimiter_RunCleanupStops(t *testing.T) {
	rl := NewRateLimiter(1, time.Millisecond)
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		rl.RunCleanup(ctx, time.Millisecond)
		close(done)
	}()

	cancel()
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("RunCleanup did not return after cancel")
	}
}

func TestRequireAuth(t *testing.T) {
	tm := auth.NewTokenManager("access-secret", "refresh-secret", 15*time.Minute, time.Hour)
	accountID := uuid.New()
	access, _, err := tm.Encode(accountID.String(), auth.AccessToken)
	require.NoError(t, err)
	refresh, _, err := tm.Encode(accountID.String(), auth.RefreshToken)
	require.NoError(t, err)
	notUUID, _, err := tm.Encode("not-a-uuid", auth.AccessToken)
	require.NoError(t, err)

	r := gin.New()
	r.GET("/private", NewAuthMiddleware(tm).RequireAuth(), func(c *gin.Context) {
		fromCtx, ok := GetAccountIDFromContext(c.Request.Context())
		require.True(t, ok)
		assert.Equal(t, AccountID(c), fromCtx)
		c.String(http.StatusOK, AccountID(c).String())
	})

	tests := []struct {
		name       string
		header     string
		wantStatus int
	}{
		{"valid", "Bearer " + access, http.StatusOK},
		{"missing", "", http.StatusUnauthorized},
		{"no scheme", access, http.StatusUnauthorized},
		{"empty bearer", "Bearer ", http.StatusUnauthorized},
		{"garbage", "Bearer garbage", http.StatusForbidden},
		{"refresh token", "Bearer " + refresh, http.StatusForbidden},
		{"subject not a uuid", "Bearer " + notUUID, http.StatusForbidden},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/private", nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}
			rec := serve(r, req)
			assert.Equal(t, tt.wantStatus, rec.Code)
			if tt.wantStatus == http.StatusOK {
				assert.Equal(t, accountID.String(), rec.Body.String())
			}
		})
	}
}

func TestClientInfoExtractor(t *testing.T) {
	var info *ClientInfo
	r := gin.New()
	r.Use(ClientInfoExtractor())
	r.GET("/", func(c *gin.Context) {
		info = GetClientInfoFromContext(c.Request.Context())
	})

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.RemoteAddr = "203.0.113.7:5555"
	req.Header.Set("User-Agent", "workdesk-test/1.0")
	serve(r, req)

	require.NotNil(t, info)
	assert.Equal(t, "203.0.113.7", info.IPAddress)
	assert.Equal(t, "workdesk-test/1.0", info.UserAgent)
	assert.Empty(t, info.AccountID)

	id := uuid.New()
	ctx := WithAccountID(WithClientInfo(context.Background(), "", ""), id)
	info = GetClientInfoFromContext(ctx)
	assert.Equal(t, id.String(), info.AccountID)
	assert.Empty(t, info.IPAddress)
}

func TestCORS(t *testing.T) {
	r := gin.New()
	r.Use(CORS("https://app.example.com"))
	r.GET("/", func(c *gin.Context) { c.Status(http.StatusOK) })

	tests := []struct {
		name       string
		method     string
		origin     string
		wantStatus int
		wantAllow  string
	}{
		{"allowed origin", http.MethodGet, "https://app.example.com", http.StatusOK, "https://app.example.com"},
		{"preflight", http.MethodOptions, "https://app.example.com", http.StatusNoContent, "https://app.example.com"},
		{"foreign origin", http.MethodGet, "https://evil.example.com", http.StatusOK, ""},
		{"foreign preflight", http.MethodOptions, "https://evil.example.com", http.StatusNoContent, ""},
		{"no origin", http.MethodGet, "", http.StatusOK, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(tt.method, "/", nil)
			if tt.origin != "" {
				req.Header.Set("Origin", tt.origin)
			}
			rec := serve(r, req)
			assert.Equal(t, tt.wantStatus, rec.Code)
			assert.Equal(t, tt.wantAllow, rec.Header().Get("Access-Control-Allow-Origin"))
		})
	}
}
