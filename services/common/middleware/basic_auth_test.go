package middleware

import (
	"encoding/base64"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
)

func newAuthRouter() *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.GET("/import", BasicAuth(), func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "OK"})
	})
	return r
}

func basicHeader(user, pass string) string {
	return "Basic " + base64.StdEncoding.EncodeToString([]byte(user+":"+pass))
}

func TestBasicAuthMissingHeader(t *testing.T) {
	r := newAuthRouter()

	req := httptest.NewRequest(http.MethodGet, "/import", nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	if w.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 without Authorization header, got %d", w.Code)
	}
}

func TestBasicAuthMalformedHeader(t *testing.T) {
	r := newAuthRouter()

	req := httptest.NewRequest(http.MethodGet, "/import", nil)
	req.Header.Set("Authorization", "Bearer sometoken")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	if w.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 for non-basic scheme, got %d", w.Code)
	}
}

func TestBasicAuthWrongPassword(t *testing.T) {
	t.Setenv("alice", "secret")
	r := newAuthRouter()

	req := httptest.NewRequest(http.MethodGet, "/import", nil)
	req.Header.Set("Authorization", basicHeader("alice", "wrong"))
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	if w.Code != http.StatusForbidden {
		t.Fatalf("expected 403 for wrong password, got %d", w.Code)
	}
}

func TestBasicAuthUnknownUser(t *testing.T) {
	r := newAuthRouter()

	req := httptest.NewRequest(http.MethodGet, "/import", nil)
	req.Header.Set("Authorization", basicHeader("nobody-configured", "pass"))
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	if w.Code != http.StatusForbidden {
		t.Fatalf("expected 403 for unknown user, got %d", w.Code)
	}
}

func TestBasicAuthValidCredentials(t *testing.T) {
	t.Setenv("alice", "secret")
	r := newAuthRouter()

	req := httptest.NewRequest(http.MethodGet, "/import", nil)
	req.Header.Set("Authorization", basicHeader("alice", "secret"))
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("expected 200 for valid credentials, got %d", w.Code)
	}
}
