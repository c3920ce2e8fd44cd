package middleware

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/rs/zerolog"
)

func TestPrefsLanguageResolution(t *testing.T) {
	var got string
	h := Prefs(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) { got = LangFrom(r) }))

	tests := []struct {
		name   string
		url    string
		cookie string
		accept string
		want   string
	}{
		{"default", "/", "", "", "fr"},
		{"header", "/", "", "en-GB,en;q=0.9", "en"},
		{"cookie beats header", "/", "fr", "en-US", "fr"},
		{"query beats cookie", "/?lang=en", "fr", "", "en"},
		{"unsupported query ignored", "/?lang=de", "en", "", "en"},
		{"bad cookie falls back to header", "/", "xx", "en", "en"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := httptest.NewRequest(http.MethodGet, tt.url, nil)
			if tt.cookie != "" {
				r.AddCookie(&http.Cookie{Name: "lang", Value: tt.cookie})
			}
			if tt.accept != "" {
				r.Header.Set("Accept-Language", tt.accept)
			}
			h.ServeHTTP(httptest.NewRecorder(), r)
			if got != tt.want {
				t.Fatalf("lang = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestFlashRoundTrip(t *testing.T) {
	w := httptest.NewRecorder()
	r := httptest.NewRequest(http.MethodPost, "/clients", nil)
	Flash(w, r, "flash.created")
	cookies := w.Result().Cookies()
	if len(cookies) != 1 {
		t.Fatalf("expected one cookie, got %d", len(cookies))
	}

	r2 := httptest.NewRequest(http.MethodGet, "/clients", nil)
	r2.AddCookie(cookies[0])
	w2 := httptest.NewRecorder()
	if msg := PopFlash(w2, r2); msg != "Enregistrement créé" {
		t.Fatalf("flash = %q", msg)
	}
	cleared := w2.Result().Cookies()
	if len(cleared) != 1 || cleared[0].MaxAge >= 0 {
		t.Fatalf("flash cookie not cleared: %+v", cleared)
	}
	if PopFlash(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/", nil)) != "" {
		t.Fatalf("no cookie should give empty flash")
	}
}

func TestLoggerAssignsRequestID(t *testing.T) {
	var buf bytes.Buffer
	log := zerolog.New(&buf)
	var seen string
	h := Logger(log)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seen = RequestID(r.Context())
		w.WriteHeader(http.StatusTeapot)
	}))
	w := httptest.NewRecorder()
	h.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/commandes", nil))
	if seen == "" || w.Header().Get("X-Request-ID") != seen {
		t.Fatalf("request id not propagated: ctx=%q header=%q", seen, w.Header().Get("X-Request-ID"))
	}
	var line map[string]any
	if err := json.Unmarshal(buf.Bytes(), &line); err != nil {
		t.Fatalf("log line is not JSON: %v (%s)", err, buf.String())
	}
	if line["path"] != "/commandes" || line["status"] != float64(http.StatusTeapot) || line["request_id"] != seen {
		t.Fatalf("unexpected log line %v", line)
	}

	r := httptest.NewRequest(http.MethodGet, "/", nil)
	r.Header.Set("X-Request-ID", "abc-123")
	h.ServeHTTP(httptest.NewRecorder(), r)
	if seen != "abc-123" {
		t.Fatalf("incoming request id not reused: %q", seen)
	}
}

func TestRecover(t *testing.T) {
	var buf bytes.Buffer
	h := Recover(zerolog.New(&buf))(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		panic("boom")
	}))
	w := httptest.NewRecorder()
	h.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/", nil))
	if w.Code != http.StatusInternalServerError {
		t.Fatalf("status = %d", w.Code)
	}
	if !strings.Contains(buf.String(), "panic recovered") {
		t.Fatalf("panic not logged: %s", buf.String())
	}

	jr := httptest.NewRequest(http.MethodGet, "/health", nil)
	jr.Header.Set("Accept", "application/json")
	jw := httptest.NewRecorder()
	h.ServeHTTP(jw, jr)
	if !strings.Contains(jw.Body.String(), "internal_error") {
		t.Fatalf("json body = %s", jw.Body.String())
	}
}
