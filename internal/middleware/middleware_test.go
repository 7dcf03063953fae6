package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"
)

func TestCORS(t *testing.T) {
	ok := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTeapot)
	})
	h := CORS(CORSConfig{AllowedOrigins: []string{"http://app.example"}})(ok)

	tests := []struct {
		name       string
		method     string
		origin     string
		wantOrigin string
		wantStatus int
	}{
		{name: "allowed origin", method: http.MethodGet, origin: "http://app.example", wantOrigin: "http://app.example", wantStatus: http.StatusTeapot},
		{name: "unknown origin", method: http.MethodGet, origin: "http://evil.example", wantOrigin: "", wantStatus: http.StatusTeapot},
		{name: "preflight", method: http.MethodOptions, origin: "http://app.example", wantOrigin: "http://app.example", wantStatus: http.StatusOK},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(tt.method, "/v1/accounts", nil)
			req.Header.Set("Origin", tt.origin)
			rec := httptest.NewRecorder()

			h.ServeHTTP(rec, req)

			if rec.Code != tt.wantStatus {
				t.Errorf("status = %d, want %d", rec.Code, tt.wantStatus)
			}
			if got := rec.Header().Get("Access-Control-Allow-Origin"); got != tt.wantOrigin {
				t.Errorf("Access-Control-Allow-Origin = %q, want %q", got, tt.wantOrigin)
			}
		})
	}
}

func TestCORSConfigFromList(t *testing.T) {
	cfg := CORSConfigFromList(" http://a.example , ,http://b.example")
	if len(cfg.AllowedOrigins) != 2 || cfg.AllowedOrigins[1] != "http://b.example" {
		t.Errorf("AllowedOrigins = %v, want [http://a.example http://b.example]", cfg.AllowedOrigins)
	}

	if def := CORSConfigFromList(""); len(def.AllowedOrigins) != len(DefaultCORSConfig().AllowedOrigins) {
		t.Errorf("empty list did not fall back to defaults: %v", def.AllowedOrigins)
	}
}

func TestLockTimeout(t *testing.T) {
	var deadline time.Time
	var hasDeadline bool
	capture := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		deadline, hasDeadline = r.Context().Deadline()
	})

	LockTimeout(time.Second)(capture).ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/", nil))
	if !hasDeadline || time.Until(deadline) > time.Second {
		t.Errorf("deadline = %v (set %v), want within 1s", deadline, hasDeadline)
	}

	LockTimeout(0)(capture).ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/", nil))
	if hasDeadline {
		t.Error("LockTimeout(0) set a deadline")
	}
}
