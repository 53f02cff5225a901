package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"busgo/internal/auth"
	"busgo/internal/domain"

	"github.com/gin-gonic/gin"
)

func testRouter(tokens auth.TokenManager) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(RequestID())

	authed := r.Group("/", RequireAuth(tokens))
	authed.GET("/whoami", func(c *gin.Context) {
		rc, _ := Principal(c)
		c.JSON(http.StatusOK, rc)
	})
	authed.GET("/admin-only", RequireRoles(domain.RoleAdmin), func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"ok": true})
	})
	return r
}

func TestRequireAuthWithCookie(t *testing.T) {
	tokens := auth.NewTokenManager("s1", "s2", time.Hour, time.Hour)
	r := testRouter(tokens)

	access, err := tokens.MintAccess(42, domain.RolePassenger)
	if err != nil {
		t.Fatalf("mint: %v", err)
	}

	req := httptest.NewRequest(http.MethodGet, "/whoami", nil)
	req.AddCookie(&http.Cookie{Name: "accessToken", Value: access})
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("status: got %d want 200, body=%s", w.Code, w.Body.String())
	}
}

func TestRequireAuthWithBearerHeader(t *testing.T) {
	tokens := auth.NewTokenManager("s1", "s2", time.Hour, time.Hour)
	r := testRouter(tokens)

	access, err := tokens.MintAccess(42, domain.RolePassenger)
	if err != nil {
		t.Fatalf("mint: %v", err)
	}

	req := httptest.NewRequest(http.MethodGet, "/whoami", nil)
	req.Header.Set("Authorization", "Bearer "+access)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("status: got %d want 200, body=%s", w.Code, w.Body.String())
	}
}

func TestRequireAuthRejectsMissingAndBadTokens(t *testing.T) {
	tokens := auth.NewTokenManager("s1", "s2", time.Hour, time.Hour)
	other := auth.NewTokenManager("wrong", "s2", time.Hour, time.Hour)
	r := testRouter(tokens)

	foreign, err := other.MintAccess(42, domain.RolePassenger)
	if err != nil {
		t.Fatalf("mint: %v", err)
	}

	cases := []struct {
		name  string
		setup func(*http.Request)
	}{
		{"no token", func(*http.Request) {}},
		{"wrong secret", func(req *http.Request) {
			req.AddCookie(&http.Cookie{Name: "accessToken", Value: foreign})
		}},
		{"garbage cookie", func(req *http.Request) {
			req.AddCookie(&http.Cookie{Name: "accessToken", Value: "not-a-jwt"})
		}},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/whoami", nil)
			tc.setup(req)
			w := httptest.NewRecorder()
			r.ServeHTTP(w, req)

			if w.Code != http.StatusUnauthorized {
				t.Fatalf("status: got %d want 401", w.Code)
			}
		})
	}
}

func TestRequireRoles(t *testing.T) {
	tokens := auth.NewTokenManager("s1", "s2", time.Hour, time.Hour)
	r := testRouter(tokens)

	cases := []struct {
		role string
		want int
	}{
		{domain.RoleAdmin, http.StatusOK},
		{domain.RoleConductor, http.StatusForbidden},
		{domain.RolePassenger, http.StatusForbidden},
	}

	for _, tc := range cases {
		t.Run(tc.role, func(t *testing.T) {
			access, err := tokens.MintAccess(1, tc.role)
			if err != nil {
				t.Fatalf("mint: %v", err)
			}
			req := httptest.NewRequest(http.MethodGet, "/admin-only", nil)
			req.AddCookie(&http.Cookie{Name: "accessToken", Value: access})
			w := httptest.NewRecorder()
			r.ServeHTTP(w, req)

			if w.Code != tc.want {
				t.Fatalf("role %s: got %d want %d", tc.role, w.Code, tc.want)
			}
		})
	}
}
