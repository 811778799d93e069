package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
)

const testSecret = "test-secret"

func init() {
	gin.SetMode(gin.TestMode)
}

func signToken(t *testing.T, secret string, claims jwt.MapClaims) string {
	t.Helper()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString([]byte(secret))
	if err != nil {
		t.Fatalf("sign token: %v", err)
	}
	return signed
}

func authTestRouter() *gin.Engine {
	router := gin.New()
	router.GET("/whoami", AuthMiddleware(testSecret), func(c *gin.Context) {
		principal, ok := PrincipalFromContext(c)
		if !ok {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "no principal"})
			return
		}
		c.JSON(http.StatusOK, gin.H{
			"user_id": principal.UserID,
			"email":   principal.Email,
			"role":    principal.Role,
		})
	})
	return router
}

func TestAuthMiddleware(t *testing.T) {
	validClaims := jwt.MapClaims{
		"user_id": float64(7),
		"email":   "ops@test.local",
		"role":    "user",
		"exp":     time.Now().Add(time.Hour).Unix(),
	}

	tests := []struct {
		name       string
		header     string
		query      string
		wantStatus int
	}{
		{
			name:       "missing token",
			wantStatus: http.StatusUnauthorized,
		},
		{
			name:       "valid bearer token",
			header:     "Bearer " + signToken(t, testSecret, validClaims),
			wantStatus: http.StatusOK,
		},
		{
			name:       "valid query token",
			query:      signToken(t, testSecret, validClaims),
			wantStatus: http.StatusOK,
		},
		{
			name:       "wrong signing key",
			header:     "Bearer " + signToken(t, "other-secret", validClaims),
			wantStatus: http.StatusUnauthorized,
		},
		{
			name: "expired token",
			header: "Bearer " + signToken(t, testSecret, jwt.MapClaims{
				"user_id": float64(7),
				"exp":     time.Now().Add(-time.Hour).Unix(),
			}),
			wantStatus: http.StatusUnauthorized,
		},
		{
			name:       "malformed header",
			header:     "Token abc",
			wantStatus: http.StatusUnauthorized,
		},
	}

	router := authTestRouter()
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest("GET", "/whoami", nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}
			if tt.query != "" {
				q := req.URL.Query()
				q.Set("token", tt.query)
				req.URL.RawQuery = q.Encode()
			}

			w := httptest.NewRecorder()
			router.ServeHTTP(w, req)
			if w.Code != tt.wantStatus {
				t.Fatalf("status = %d, want %d (body %s)", w.Code, tt.wantStatus, w.Body.String())
			}
		})
	}
}

func TestWebSocketUpgradeTokenSources(t *testing.T) {
	token := signToken(t, testSecret, jwt.MapClaims{
		"user_id": float64(3),
		"email":   "ws@test.local",
		"role":    "admin",
		"exp":     time.Now().Add(time.Hour).Unix(),
	})

	tests := []struct {
		name        string
		query       string
		subprotocol string
		wantStatus  int
	}{
		{name: "query token", query: token, wantStatus: http.StatusOK},
		{name: "subprotocol token", subprotocol: "authorization.bearer." + token, wantStatus: http.StatusOK},
		{name: "no token aborts silently", wantStatus: http.StatusOK, query: ""},
	}

	router := authTestRouter()
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest("GET", "/whoami", nil)
			req.Header.Set("Upgrade", "websocket")
			if tt.query != "" {
				req.URL.RawQuery = "token=" + tt.query
			}
			if tt.subprotocol != "" {
				req.Header.Set("Sec-WebSocket-Protocol", tt.subprotocol)
			}

			w := httptest.NewRecorder()
			router.ServeHTTP(w, req)

			authenticated := tt.query != "" || tt.subprotocol != ""
			if authenticated {
				if w.Code != http.StatusOK {
					t.Fatalf("status = %d, want 200 (body %s)", w.Code, w.Body.String())
				}
				if w.Body.Len() == 0 {
					t.Fatal("expected handler response body")
				}
			} else if w.Body.Len() != 0 {
				// Aborted upgrade requests must not write a body; the
				// websocket handler owns the connection error
				t.Fatalf("expected empty body, got %s", w.Body.String())
			}
		})
	}
}

func TestRequestIDGeneratedAndEchoed(t *testing.T) {
	router := gin.New()
	router.Use(RequestID())
	router.GET("/ping", func(c *gin.Context) {
		c.String(http.StatusOK, "ok")
	})

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest("GET", "/ping", nil))
	if w.Header().Get("X-Request-ID") == "" {
		t.Error("generated request id missing from response header")
	}

	w = httptest.NewRecorder()
	req := httptest.NewRequest("GET", "/ping", nil)
	req.Header.Set("X-Request-ID", "upstream-42")
	router.ServeHTTP(w, req)
	if got := w.Header().Get("X-Request-ID"); got != "upstream-42" {
		t.Errorf("inbound request id = %q, want %q", got, "upstream-42")
	}
}
