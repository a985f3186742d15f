package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
)

func okHandler() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("ok"))
	})
}

func TestCORS_NilConfigAllowsAll(t *testing.T) {
	corsHandler := CORS(nil)(okHandler())

	req := httptest.NewRequest("GET", "/test", nil)
	req.Header.Set("Origin", "http://example.com")
	w := httptest.NewRecorder()

	corsHandler.ServeHTTP(w, req)

	if w.Header().Get("Access-Control-Allow-Origin") != "*" {
		t.Errorf("expected Access-Control-Allow-Origin *, got %s", w.Header().Get("Access-Control-Allow-Origin"))
	}
	if w.Code != http.StatusOK {
		t.Errorf("expected request to pass through, got %d", w.Code)
	}
}

func TestCORS_SpecificOrigin(t *testing.T) {
	cfg := &CORSConfig{AllowOrigins: []string{"http://allowed.com"}}
	corsHandler := CORS(cfg)(okHandler())

	req := httptest.NewRequest("GET", "/test", nil)
	req.Header.Set("Origin", "http://allowed.com")
	w := httptest.NewRecorder()
	corsHandler.ServeHTTP(w, req)

	if w.Header().Get("Access-Control-Allow-Origin") != "http://allowed.com" {
		t.Errorf("expected matched origin echoed back, got %s", w.Header().Get("Access-Control-Allow-Origin"))
	}

	req = httptest.NewRequest("GET", "/test", nil)
	req.Header.Set("Origin", "http://denied.com")
	w = httptest.NewRecorder()
	corsHandler.ServeHTTP(w, req)

	if w.Header().Get("Access-Control-Allow-Origin") != "" {
		t.Error("expected no CORS header for a denied origin")
	}
}

func TestCORS_Preflight(t *testing.T) {
	cfg := &CORSConfig{MaxAge: 600}
	corsHandler := CORS(cfg)(okHandler())

	req := httptest.NewRequest("OPTIONS", "/test", nil)
	req.Header.Set("Origin", "http://example.com")
	w := httptest.NewRecorder()
	corsHandler.ServeHTTP(w, req)

	if w.Code != http.StatusNoContent {
		t.Errorf("expected 204 for preflight, got %d", w.Code)
	}
	if w.Header().Get("Access-Control-Allow-Methods") == "" {
		t.Error("expected allowed methods on preflight")
	}
	if w.Header().Get("Access-Control-Max-Age") != "600" {
		t.Errorf("expected max age 600, got %s", w.Header().Get("Access-Control-Max-Age"))
	}
	if w.Body.Len() != 0 {
		t.Error("expected preflight to short-circuit the inner handler")
	}
}

func TestCORS_CredentialsWithWildcard(t *testing.T) {
	cfg := &CORSConfig{AllowCredentials: true}
	corsHandler := CORS(cfg)(okHandler())

	req := httptest.NewRequest("GET", "/test", nil)
	req.Header.Set("Origin", "http://example.com")
	w := httptest.NewRecorder()
	corsHandler.ServeHTTP(w, req)

	// "*" with credentials is forbidden by the CORS spec, so the requesting
	// origin is echoed back instead.
	if w.Header().Get("Access-Control-Allow-Origin") != "http://example.com" {
		t.Errorf("expected origin echoed back, got %s", w.Header().Get("Access-Control-Allow-Origin"))
	}
	if w.Header().Get("Access-Control-Allow-Credentials") != "true" {
		t.Error("expected credentials header")
	}
}
