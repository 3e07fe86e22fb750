package ssrf

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/webscan/webscan/pkg/session"
)

func TestSSRFDetected(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		// Simulates a naive proxy endpoint that fetches whatever URL it
		// is given; metadata addresses come back with instance details.
		u := r.URL.Query().Get("url")
		if strings.Contains(u, "169.254.169.254") {
			w.Write([]byte("ami-id\nhostname\ninstance-id\nlocal-ipv4\n"))
			return
		}
		w.Write([]byte("<html>preview of " + u + "</html>"))
	}))
	defer srv.Close()

	c := New(Config{})
	s := session.New(session.DefaultConfig())

	f, ok := c.Check(context.Background(), s, srv.URL+"/preview?url=http://example.com/article")
	if !ok {
		t.Fatal("expected an SSRF finding")
	}
	if f.Type != "SSRF" || f.Severity != "high" {
		t.Errorf("unexpected finding: %+v", f)
	}
}

func TestNonURLParamsSkipped(t *testing.T) {
	var hits int
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits++
		w.Write([]byte("ok"))
	}))
	defer srv.Close()

	c := New(Config{})
	s := session.New(session.DefaultConfig())

	if _, ok := c.Check(context.Background(), s, srv.URL+"/search?q=hello&sort=asc"); ok {
		t.Fatal("expected no finding")
	}
	if hits != 0 {
		t.Errorf("expected no requests for non-URL parameters, got %d", hits)
	}
}

func TestValueShapedLikeURLTried(t *testing.T) {
	var sawPayload bool
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if strings.Contains(r.URL.Query().Get("next"), "127.0.0.1") {
			sawPayload = true
		}
		w.Write([]byte("ok"))
	}))
	defer srv.Close()

	c := New(Config{})
	s := session.New(session.DefaultConfig())

	c.Check(context.Background(), s, srv.URL+"/go?next=https://example.com/home")
	if !sawPayload {
		t.Error("expected URL-shaped values to be probed")
	}
}
