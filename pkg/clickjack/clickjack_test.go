package clickjack

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/webscan/webscan/pkg/session"
)

func serve(t *testing.T, h http.HandlerFunc) (*Checker, *session.Session, string) {
	t.Helper()
	srv := httptest.NewServer(h)
	t.Cleanup(srv.Close)
	return New(), session.New(session.DefaultConfig()), srv.URL
}

func TestUnprotectedPageFlagged(t *testing.T) {
	c, s, u := serve(t, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/html")
		w.Write([]byte("<html><body>login</body></html>"))
	})

	f, ok := c.Check(context.Background(), s, u)
	if !ok {
		t.Fatal("expected a clickjacking finding")
	}
	if f.Severity != "medium" {
		t.Errorf("unexpected severity %q", f.Severity)
	}
}

func TestXFrameOptionsClean(t *testing.T) {
	c, s, u := serve(t, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/html")
		w.Header().Set("X-Frame-Options", "DENY")
		w.Write([]byte("<html></html>"))
	})

	if f, ok := c.Check(context.Background(), s, u); ok {
		t.Fatalf("expected no finding, got %+v", f)
	}
}

func TestFrameAncestorsClean(t *testing.T) {
	c, s, u := serve(t, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/html")
		w.Header().Set("Content-Security-Policy", "default-src 'self'; frame-ancestors 'none'")
		w.Write([]byte("<html></html>"))
	})

	if _, ok := c.Check(context.Background(), s, u); ok {
		t.Fatal("expected no finding")
	}
}

func TestNonHTMLSkipped(t *testing.T) {
	c, s, u := serve(t, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"ok":true}`))
	})

	if _, ok := c.Check(context.Background(), s, u); ok {
		t.Fatal("expected JSON responses to be skipped")
	}
}
