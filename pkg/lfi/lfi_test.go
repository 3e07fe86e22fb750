package lfi

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/webscan/webscan/pkg/session"
)

const passwdContent = "root:x:0:0:root:/root:/bin/bash\ndaemon:x:1:1:daemon:/usr/sbin:/usr/sbin/nologin\n"

func TestLFIDetected(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if strings.Contains(r.URL.Query().Get("file"), "passwd") {
			w.Write([]byte(passwdContent))
			return
		}
		w.Write([]byte("<html>file viewer</html>"))
	}))
	defer srv.Close()

	c := New()
	s := session.New(session.DefaultConfig())

	f, ok := c.Check(context.Background(), s, srv.URL+"/view?file=readme.txt")
	if !ok {
		t.Fatal("expected an LFI finding")
	}
	if f.Type != "Local File Inclusion" || f.Severity != "high" {
		t.Errorf("unexpected finding: %+v", f)
	}
	if !strings.Contains(f.Evidence, "file") {
		t.Errorf("evidence should name the parameter: %q", f.Evidence)
	}
}

func TestCleanFileViewer(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		// Rejects traversal attempts.
		w.Write([]byte("invalid file name"))
	}))
	defer srv.Close()

	c := New()
	s := session.New(session.DefaultConfig())

	if f, ok := c.Check(context.Background(), s, srv.URL+"/view?file=a.txt"); ok {
		t.Fatalf("expected no finding, got %+v", f)
	}
}

func TestMatchFile(t *testing.T) {
	if name, ok := matchFile(passwdContent); !ok || name != "/etc/passwd" {
		t.Errorf("expected passwd match, got %q %v", name, ok)
	}
	if _, ok := matchFile("; for 16-bit app support\n[fonts]\n"); !ok {
		t.Error("expected win.ini match")
	}
	if _, ok := matchFile("just a web page about root vegetables"); ok {
		t.Error("expected no match for ordinary text")
	}
}
