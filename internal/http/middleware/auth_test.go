// README: Tests for bearer-token gating and the caller identity used by the AI quota.
package middleware_test

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"

	"loadrec/internal/http/middleware"
	"loadrec/internal/infra"
)

// recordingVerifier remembers every token it was asked to verify.
type recordingVerifier struct {
	uid  string
	err  error
	seen []string
}

func (v *recordingVerifier) VerifyIDToken(_ context.Context, token string) (*infra.FirebaseToken, error) {
	v.seen = append(v.seen, token)
	if v.err != nil {
		return nil, v.err
	}
	return &infra.FirebaseToken{UID: v.uid}, nil
}

// quotaRouter answers /api/v1/agent with whoever would be charged AI tokens.
func quotaRouter(verifier infra.TokenVerifier) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	api := r.Group("/api/v1")
	if verifier != nil {
		api.Use(middleware.Auth(verifier))
	}
	api.POST("/agent", func(c *gin.Context) {
		c.String(http.StatusOK, middleware.Caller(c))
	})
	return r
}

func TestAuth_RejectsMalformedHeaderWithoutVerifying(t *testing.T) {
	cases := []struct {
		name   string
		header string
	}{
		{"missing", ""},
		{"wrong scheme", "Token abc"},
		{"lowercase scheme", "bearer abc"},
		{"empty token", "Bearer    "},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			v := &recordingVerifier{uid: "driver-1"}
			req := httptest.NewRequest(http.MethodPost, "/api/v1/agent", nil)
			if tc.header != "" {
				req.Header.Set("Authorization", tc.header)
			}
			w := httptest.NewRecorder()
			quotaRouter(v).ServeHTTP(w, req)

			if w.Code != http.StatusUnauthorized {
				t.Fatalf("expected 401, got %d", w.Code)
			}
			var body map[string]string
			if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
				t.Fatalf("expected JSON body: %v", err)
			}
			if body["error"] != "missing bearer token" {
				t.Errorf("unexpected error %q", body["error"])
			}
			if len(v.seen) != 0 {
				t.Errorf("verifier should not be called, saw %v", v.seen)
			}
		})
	}
}

func TestAuth_RejectedTokenNeverReachesHandler(t *testing.T) {
	v := &recordingVerifier{err: errors.New("token expired")}
	req := httptest.NewRequest(http.MethodPost, "/api/v1/agent", nil)
	req.Header.Set("Authorization", "Bearer stale")
	req.Header.Set("X-Client-ID", "fleet-7")
	w := httptest.NewRecorder()
	quotaRouter(v).ServeHTTP(w, req)

	if w.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", w.Code)
	}
	if w.Body.String() == "fleet-7" {
		t.Error("handler ran for a rejected token")
	}
	var body map[string]string
	if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil || body["error"] != "invalid token" {
		t.Errorf("expected invalid token error, got %s", w.Body.String())
	}
}

func TestAuth_TrimsTokenAndChargesVerifiedUID(t *testing.T) {
	v := &recordingVerifier{uid: "driver-1"}
	req := httptest.NewRequest(http.MethodPost, "/api/v1/agent", nil)
	req.Header.Set("Authorization", "Bearer  id-token ")
	req.Header.Set("X-Client-ID", "fleet-7")
	w := httptest.NewRecorder()
	quotaRouter(v).ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}
	if len(v.seen) != 1 || v.seen[0] != "id-token" {
		t.Errorf("expected trimmed token, saw %q", v.seen)
	}
	if w.Body.String() != "driver-1" {
		t.Errorf("quota should be charged to the uid, got %q", w.Body.String())
	}
}

func TestCaller_OpenAPIFallsBackToClientIDThenIP(t *testing.T) {
	r := quotaRouter(nil)

	req := httptest.NewRequest(http.MethodPost, "/api/v1/agent", nil)
	req.Header.Set("X-Client-ID", "  fleet-7 ")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	if w.Body.String() != "fleet-7" {
		t.Errorf("expected header client id, got %q", w.Body.String())
	}

	req = httptest.NewRequest(http.MethodPost, "/api/v1/agent", nil)
	req.Header.Set("X-Client-ID", "   ")
	req.RemoteAddr = "10.1.2.3:5555"
	w = httptest.NewRecorder()
	r.ServeHTTP(w, req)
	if w.Body.String() != "10.1.2.3" {
		t.Errorf("expected client ip for a blank client id, got %q", w.Body.String())
	}
}

func TestCallerUID_EmptyWithoutAuth(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.GET("/uid", func(c *gin.Context) {
		c.String(http.StatusOK, middleware.CallerUID(c))
	})
	req := httptest.NewRequest(http.MethodGet, "/uid", nil)
	req.Header.Set("Authorization", "Bearer unchecked")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	if w.Body.String() != "" {
		t.Errorf("uid must only come from a verified token, got %q", w.Body.String())
	}
}
