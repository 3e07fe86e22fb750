package openredirect

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/webscan/webscan/pkg/session"
)

func TestOpenRedirectDetected(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if next := r.URL.Query().Get("next"); next != "" {
			w.Header().Set("Location", next)
			w.WriteHeader(http.StatusFound)
			return
		}
		w.Write([]byte("home"))
	}))
	defer srv.Close()

	c := New()
	s := session.New(session.DefaultConfig())

	f, ok := c.Check(context.Background(), s, srv.URL+"/login?next=/account")
	if !ok {
		t.Fatal("expected an open redirect finding")
	}
	if f.Type != "Open Redirect" || f.Severity != "medium" {
		t.Errorf("unexpected finding: %+v", f)
	}
	if !strings.Contains(f.Evidence, "next") {
		t.Errorf("evidence should name the parameter: %q", f.Evidence)
	}
}

func TestSameSiteRedirectIsClean(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		// Always redirects to a fixed internal path, ignoring the
		// parameter value.
		http.Redirect(w, r, "/dashboard", http.StatusFound)
	}))
	defer srv.Close()

	c := New()
	s := session.New(session.DefaultConfig())

	if f, ok := c.Check(context.Background(), s, srv.URL+"/login?next=x"); ok {
		t.Fatalf("internal redirect should not produce a finding, got %+v", f)
	}
}

func TestNoRedirectIsClean(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("plain page"))
	}))
	defer srv.Close()

	c := New()
	s := session.New(session.DefaultConfig())

	if _, ok := c.Check(context.Background(), s, srv.URL+"/?next=a"); ok {
		t.Fatal("non-redirecting endpoint should be clean")
	}
}

func TestRedirectsOffsite(t *testing.T) {
	cases := map[string]bool{
		"http://evil.example.org":       true,
		"https://evil.example.org/path": true,
		"//evil.example.org":            true,
		"/dashboard":                    false,
		"https://trusted.example.com":   false,
		"":                              false,
	}
	for location, want := range cases {
		if got := redirectsOffsite(location); got != want {
			t.Errorf("redirectsOffsite(%q) = %v, want %v", location, got, want)
		}
	}
}
