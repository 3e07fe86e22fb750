package session

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"
)

func TestParseCookieString(t *testing.T) {
	t.Run("multiple cookies", func(t *testing.T) {
		cookies := ParseCookieString("sid=abc123; theme=dark")
		if len(cookies) != 2 {
			t.Fatalf("expected 2 cookies, got %d", len(cookies))
		}
		if cookies[0].Name != "sid" || cookies[0].Value != "abc123" {
			t.Errorf("unexpected first cookie: %+v", cookies[0])
		}
		if cookies[1].Name != "theme" || cookies[1].Value != "dark" {
			t.Errorf("unexpected second cookie: %+v", cookies[1])
		}
	})

	t.Run("malformed fragments skipped", func(t *testing.T) {
		cookies := ParseCookieString("valid=1; garbage; =nameless")
		if len(cookies) != 1 {
			t.Fatalf("expected 1 cookie, got %d", len(cookies))
		}
	})

	t.Run("empty string", func(t *testing.T) {
		if cookies := ParseCookieString(""); len(cookies) != 0 {
			t.Errorf("expected no cookies, got %d", len(cookies))
		}
	})
}

func TestSessionSendsCookiesAndUserAgent(t *testing.T) {
	var gotCookie, gotUA string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if c, err := r.Cookie("sid"); err == nil {
			gotCookie = c.Value
		}
		gotUA = r.Header.Get("User-Agent")
	}))
	defer srv.Close()

	s := New(Config{Timeout: 5 * time.Second, UserAgent: "webscan-test"})
	s.SeedCookies(srv.URL, "sid=tok42")

	resp, err := s.Get(context.Background(), srv.URL)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	resp.Body.Close()

	if gotCookie != "tok42" {
		t.Errorf("expected seeded cookie, got %q", gotCookie)
	}
	if gotUA != "webscan-test" {
		t.Errorf("expected configured user agent, got %q", gotUA)
	}
}

func TestNoRedirectClient(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/from" {
			http.Redirect(w, r, "/to", http.StatusFound)
			return
		}
		w.Write([]byte("landed"))
	}))
	defer srv.Close()

	s := New(DefaultConfig())

	req, err := s.NewRequest(context.Background(), http.MethodGet, srv.URL+"/from", nil)
	if err != nil {
		t.Fatal(err)
	}
	resp, err := s.NoRedirectClient.Do(req)
	if err != nil {
		t.Fatalf("do: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusFound {
		t.Errorf("expected raw 302, got %d", resp.StatusCode)
	}
	if loc := resp.Header.Get("Location"); loc != "/to" {
		t.Errorf("expected Location /to, got %q", loc)
	}
}

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()
	if cfg.Timeout != 30*time.Second {
		t.Errorf("expected 30s timeout, got %v", cfg.Timeout)
	}
	if !cfg.SkipVerify {
		t.Error("expected TLS verification skipped by default")
	}
	if cfg.UserAgent == "" {
		t.Error("expected a default user agent")
	}
}
