package traversal

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/webscan/webscan/pkg/session"
)

func TestTraversalDetected(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if strings.Contains(r.URL.Path, "passwd") || strings.Contains(r.URL.RawPath, "passwd") {
			w.Write([]byte("root:x:0:0:root:/root:/bin/bash\n"))
			return
		}
		w.Write([]byte("<html>static assets</html>"))
	}))
	defer srv.Close()

	c := New()
	s := session.New(session.DefaultConfig())

	f, ok := c.Check(context.Background(), s, srv.URL+"/static/app.css")
	if !ok {
		t.Fatal("expected a traversal finding")
	}
	if f.Type != "Path Traversal" {
		t.Errorf("unexpected type %q", f.Type)
	}
	if !strings.Contains(f.Evidence, "/etc/passwd") {
		t.Errorf("evidence should name the leaked file: %q", f.Evidence)
	}
}

func TestNormalizedPathsClean(t *testing.T) {
	// A server that cleans paths before serving never leaks.
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("not found, but politely"))
	}))
	defer srv.Close()

	c := New()
	s := session.New(session.DefaultConfig())

	if f, ok := c.Check(context.Background(), s, srv.URL+"/static/app.css"); ok {
		t.Fatalf("expected no finding, got %+v", f)
	}
}

func TestJoinPath(t *testing.T) {
	cases := []struct {
		base, payload, want string
	}{
		{"/static/app.css", "../../etc/passwd", "/static/../../etc/passwd"},
		{"/", "../etc/passwd", "/../etc/passwd"},
		{"", "../etc/passwd", "/../etc/passwd"},
	}
	for _, tc := range cases {
		if got := joinPath(tc.base, tc.payload); got != tc.want {
			t.Errorf("joinPath(%q, %q) = %q, want %q", tc.base, tc.payload, got, tc.want)
		}
	}
}
