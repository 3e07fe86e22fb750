package crawler

import (
	"net/url"
	"testing"
)

func mustParse(t *testing.T, raw string) *url.URL {
	t.Helper()
	u, err := url.Parse(raw)
	if err != nil {
		t.Fatal(err)
	}
	return u
}

func TestExtractLinks(t *testing.T) {
	base := mustParse(t, "https://example.com/dir/page.html")
	body := []byte(`<html><body>
		<a href="/abs">abs</a>
		<a href="rel">rel</a>
		<a href="https://other.example.org/x">offsite</a>
		<a href="#frag">fragment only</a>
		<a href="javascript:void(0)">js</a>
		<form action="/login" method="post"></form>
		<script src="/js/app.js"></script>
		<a href="/abs">duplicate</a>
	</body></html>`)

	links := ExtractLinks(body, base)
	want := []string{
		"https://example.com/abs",
		"https://example.com/dir/rel",
		"https://other.example.org/x",
		"https://example.com/login",
		"https://example.com/js/app.js",
	}
	if len(links) != len(want) {
		t.Fatalf("expected %v, got %v", want, links)
	}
	for i := range want {
		if links[i] != want[i] {
			t.Errorf("link %d = %q, want %q", i, links[i], want[i])
		}
	}
}

func TestExtractLinksEmptyBody(t *testing.T) {
	if links := ExtractLinks(nil, mustParse(t, "https://example.com/")); len(links) != 0 {
		t.Errorf("expected no links, got %v", links)
	}
}

func TestResolveRefSchemes(t *testing.T) {
	base := mustParse(t, "https://example.com/")
	for _, ref := range []string{"mailto:a@b.c", "tel:+1234", "data:text/plain,x", "javascript:alert(1)"} {
		if got := resolveRef(ref, base); got != "" {
			t.Errorf("resolveRef(%q) = %q, want empty", ref, got)
		}
	}
	if got := resolveRef("//cdn.example.net/lib.js", base); got != "https://cdn.example.net/lib.js" {
		t.Errorf("protocol-relative resolution = %q", got)
	}
}
